package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tuvalum/margin-service/internal/discount"
	"github.com/tuvalum/margin-service/internal/margin"
	"github.com/tuvalum/margin-service/internal/types"
)

// MarginRequest represents a what-if margin calculation
type MarginRequest struct {
	Price    float64 `json:"price" binding:"required,gt=0" jsonschema:"required,minimum=0"`
	Cost     float64 `json:"cost" binding:"min=0" jsonschema:"minimum=0"`
	Discount float64 `json:"discount" binding:"min=0" jsonschema:"minimum=0"`
	Regime   string  `json:"regime" jsonschema:"enum=REBU,enum=PRO,enum=INTRA"`
	// VATRate is the destination rate as a fraction (0.21). Zero means the
	// domestic rate unless ZeroRated is set.
	VATRate   float64 `json:"vatRate" binding:"min=0,max=1" jsonschema:"minimum=0,maximum=1"`
	ZeroRated bool    `json:"zeroRated"`
}

// MarginResponse represents the calculated margin picture
type MarginResponse struct {
	FinalPrice  decimal.Decimal                  `json:"finalPrice" jsonschema:"required"`
	Regime      types.Regime                     `json:"regime" jsonschema:"required"`
	NetMargin   decimal.Decimal                  `json:"netMargin" jsonschema:"required"`
	MarginPct   decimal.Decimal                  `json:"marginPct"`
	ByRegime    map[types.Regime]decimal.Decimal `json:"byRegime" jsonschema:"required"`
}

// CalculateMargin computes the net margin for a hypothetical sale
// @Summary Calculate margin
// @Description Computes the net margin for a price, cost and fiscal regime, optionally at a destination VAT rate, plus a simulation under all regimes
// @Tags calculator
// @Accept json
// @Produce json
// @Param request body MarginRequest true "Calculation request"
// @Success 200 {object} MarginResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/calculator/margin [post]
func CalculateMargin(c *gin.Context) {
	var req MarginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price := decimal.NewFromFloat(req.Price)
	cost := decimal.NewFromFloat(req.Cost)
	disc := decimal.NewFromFloat(req.Discount)

	finalPrice := price.Sub(disc)
	if finalPrice.IsNegative() {
		finalPrice = decimal.Zero
	}

	regime := margin.ParseRegime(req.Regime)

	var net decimal.Decimal
	switch {
	case req.ZeroRated:
		net = margin.ForCountry(regime, finalPrice, cost, decimal.Zero, decimal.Zero)
	case req.VATRate > 0:
		net = margin.ForCountry(regime, finalPrice, cost, decimal.Zero, decimal.NewFromFloat(req.VATRate))
	default:
		net = margin.Net(regime, finalPrice, cost, decimal.Zero)
	}

	pct := decimal.Zero
	if finalPrice.IsPositive() {
		pct = net.Div(finalPrice).Mul(decimal.NewFromInt(100)).Round(2)
	}

	c.JSON(http.StatusOK, MarginResponse{
		FinalPrice: finalPrice,
		Regime:     regime,
		NetMargin:  net.Round(2),
		MarginPct:  pct,
		ByRegime:   margin.Simulate(finalPrice, cost),
	})
}

// DiscountRequest represents a markdown recommendation request
type DiscountRequest struct {
	AgeDays       int     `json:"ageDays" binding:"min=0" jsonschema:"required,minimum=0"`
	CurrentMargin float64 `json:"currentMargin" jsonschema:"required"`
	Restricted    bool    `json:"restricted"`
}

// DiscountResponse represents the recommended markdown
type DiscountResponse struct {
	RecommendedDiscount decimal.Decimal `json:"recommendedDiscount" jsonschema:"required"`
	Buffer              decimal.Decimal `json:"buffer" jsonschema:"required"`
}

// CalculateDiscount recommends a markdown for an aged listing
// @Summary Recommend a discount
// @Description Returns the ladder markdown for a stock age and current margin, floored to the nearest ten and zeroed for restricted SKUs
// @Tags calculator
// @Accept json
// @Produce json
// @Param request body DiscountRequest true "Recommendation request"
// @Success 200 {object} DiscountResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/calculator/discount [post]
func CalculateDiscount(c *gin.Context) {
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, DiscountResponse{
		RecommendedDiscount: discount.Recommend(req.AgeDays, decimal.NewFromFloat(req.CurrentMargin), req.Restricted),
		Buffer:              discount.Buffer(req.AgeDays),
	})
}
