package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tuvalum/margin-service/internal/catalog"
	"github.com/tuvalum/margin-service/internal/classify"
	"github.com/tuvalum/margin-service/internal/discount"
	"github.com/tuvalum/margin-service/internal/margin"
	"github.com/tuvalum/margin-service/internal/rotation"
	"github.com/tuvalum/margin-service/internal/shopify"
	"github.com/tuvalum/margin-service/internal/types"
)

// SKUResolver looks up a single SKU in the live catalog.
type SKUResolver interface {
	LookupSKU(ctx context.Context, sku string) (*shopify.SKUDetail, error)
}

// Global SKU resolver (initialized by the application)
var skuResolver SKUResolver

// InitSKU initializes the SKU lookup handler.
func InitSKU(resolver SKUResolver) {
	skuResolver = resolver
}

// SKUResponse carries the derived margin picture for one SKU
type SKUResponse struct {
	SKU          string          `json:"sku" jsonschema:"required"`
	Title        string          `json:"title"`
	CreatedAt    time.Time       `json:"createdAt"`
	StockAgeDays int             `json:"stockAgeDays"`
	Price        decimal.Decimal `json:"price"`
	RetailPrice  decimal.Decimal `json:"retailPrice"`
	PurchaseCost decimal.Decimal `json:"purchaseCost"`
	FiscalRegime types.Regime    `json:"fiscalRegime" jsonschema:"enum=REBU,enum=PRO,enum=INTRA"`
	NetMargin    decimal.Decimal `json:"netMargin"`

	// Ladder advice for the SKU at its current age and margin.
	RecommendedDiscount decimal.Decimal `json:"recommendedDiscount"`
	MarginBuffer        decimal.Decimal `json:"marginBuffer"`
}

// GetSKU returns the margin picture for a single SKU
// @Summary Look up a SKU
// @Description Fetches one SKU from the live catalog and returns its parsed cost, fiscal regime and current net margin
// @Tags sku
// @Accept json
// @Produce json
// @Param sku path string true "Variant SKU"
// @Success 200 {object} SKUResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "SKU not found"
// @Failure 502 {object} map[string]string "Upstream fetch failed"
// @Failure 503 {object} map[string]string "Resolver not initialized"
// @Router /internal/sku/{sku} [get]
func GetSKU(c *gin.Context) {
	if skuResolver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "SKU resolver not initialized"})
		return
	}

	sku := c.Param("sku")
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku is required"})
		return
	}

	detail, err := skuResolver.LookupSKU(c.Request.Context(), sku)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to look up SKU: " + err.Error()})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "SKU not found"})
		return
	}

	cost := catalog.ParseCost(detail.CostRaw)
	regime := margin.ParseRegime(detail.FiscalTag)

	net := decimal.Zero
	if cost.IsPositive() {
		net = margin.Net(regime, detail.Price, cost, decimal.Zero)
	}

	ageDays := rotation.Days(detail.CreatedAt, time.Now().UTC())

	c.JSON(http.StatusOK, SKUResponse{
		SKU:                 detail.SKU,
		Title:               detail.Title,
		CreatedAt:           detail.CreatedAt,
		StockAgeDays:        ageDays,
		Price:               detail.Price,
		RetailPrice:         detail.RetailPrice,
		PurchaseCost:        cost,
		FiscalRegime:        regime,
		NetMargin:           net,
		RecommendedDiscount: discount.Recommend(ageDays, net, classify.IsDepositSKU(detail.SKU)),
		MarginBuffer:        discount.Buffer(ageDays),
	})
}
