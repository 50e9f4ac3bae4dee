package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tuvalum/margin-service/internal/enrich"
	"github.com/tuvalum/margin-service/internal/export"
	"github.com/tuvalum/margin-service/internal/types"
)

// DefaultSinceWindow is how far back a run looks when no since date is given.
// Two days covers the jitter between order creation and payment capture.
const DefaultSinceWindow = 48 * time.Hour

// Global order snapshot cache (initialized by the application)
var ordersCache *enrich.Cache

// InitOrders initializes the order handlers with the snapshot cache.
// This should be called during application startup.
func InitOrders(cache *enrich.Cache) {
	ordersCache = cache
}

// parseSince reads the ?since=YYYY-MM-DD query parameter, defaulting to
// two days back at midnight UTC.
func parseSince(c *gin.Context) (time.Time, error) {
	raw := c.Query("since")
	if raw == "" {
		now := time.Now().UTC().Add(-DefaultSinceWindow)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	since, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid since date %q, use YYYY-MM-DD", raw)
	}
	return since, nil
}

// GetEnrichedOrders returns the enriched order snapshot for a date window
// @Summary Get enriched orders
// @Description Returns the cached enriched order snapshot starting at the given date
// @Tags orders
// @Accept json
// @Produce json
// @Param since query string false "Lower bound date (YYYY-MM-DD), defaults to two days back"
// @Success 200 {object} enrich.Result
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 502 {object} map[string]string "Upstream fetch failed"
// @Failure 503 {object} map[string]string "Snapshot cache not initialized"
// @Router /internal/orders/enriched [get]
func GetEnrichedOrders(c *gin.Context) {
	if ordersCache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Snapshot cache not initialized"})
		return
	}

	since, err := parseSince(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := ordersCache.Get(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to build order snapshot: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SummaryResponse carries the KPI rollup for a snapshot window
type SummaryResponse struct {
	Since     time.Time      `json:"since" jsonschema:"required"`
	FetchedAt time.Time      `json:"fetchedAt" jsonschema:"required"`
	Summary   enrich.Summary `json:"summary" jsonschema:"required"`
}

// GetOrdersSummary returns aggregated KPIs over the enriched snapshot
// @Summary Get order summary
// @Description Returns revenue, margin and rotation KPIs bucketed by channel, marketplace, country, category, brand and price band
// @Tags orders
// @Accept json
// @Produce json
// @Param since query string false "Lower bound date (YYYY-MM-DD), defaults to two days back"
// @Param until query string false "Upper bound date (YYYY-MM-DD, inclusive), defaults to open-ended"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 502 {object} map[string]string "Upstream fetch failed"
// @Failure 503 {object} map[string]string "Snapshot cache not initialized"
// @Router /internal/orders/summary [get]
func GetOrdersSummary(c *gin.Context) {
	if ordersCache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Snapshot cache not initialized"})
		return
	}

	since, err := parseSince(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var until time.Time
	if raw := c.Query("until"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid until date %q, use YYYY-MM-DD", raw)})
			return
		}
		// Inclusive of the whole day.
		until = day.Add(24 * time.Hour)
	}

	result, err := ordersCache.Get(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to build order snapshot: " + err.Error()})
		return
	}

	orders := result.Orders
	if !until.IsZero() {
		filtered := make([]types.EnrichedOrder, 0, len(orders))
		for _, o := range orders {
			if o.CreatedAt.Before(until) {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	c.JSON(http.StatusOK, SummaryResponse{
		Since:     result.Since,
		FetchedAt: result.FetchedAt,
		Summary:   enrich.Summarize(orders),
	})
}

// ExportOrders streams the enriched snapshot as an XLSX workbook
// @Summary Export enriched orders
// @Description Downloads the enriched order snapshot as an XLSX workbook with localized headers
// @Tags orders
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param since query string false "Lower bound date (YYYY-MM-DD), defaults to two days back"
// @Param lang query string false "Header locale (es, fr, en), defaults to Accept-Language"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 502 {object} map[string]string "Upstream fetch failed"
// @Failure 503 {object} map[string]string "Snapshot cache not initialized"
// @Router /internal/orders/export [get]
func ExportOrders(c *gin.Context) {
	if ordersCache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Snapshot cache not initialized"})
		return
	}

	since, err := parseSince(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := ordersCache.Get(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to build order snapshot: " + err.Error()})
		return
	}

	accept := c.Query("lang")
	if accept == "" {
		accept = c.GetHeader("Accept-Language")
	}
	locale := export.ResolveLocale(accept)

	data, err := export.Workbook(result.Orders, locale)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render workbook: " + err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(result.Since)))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
