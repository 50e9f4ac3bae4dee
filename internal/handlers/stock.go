package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tuvalum/margin-service/internal/audit"
	"github.com/tuvalum/margin-service/internal/stock"
)

// Global pricing control dependencies (initialized by the application)
var (
	stockController *stock.Controller
	auditStore      *audit.Store
)

// InitStock initializes the pricing control handlers. The audit store may
// be nil when no database is configured.
func InitStock(controller *stock.Controller, store *audit.Store) {
	stockController = controller
	auditStore = store
}

// StockControl runs pricing control over the active inventory
// @Summary Run pricing control
// @Description Fetches the active inventory and returns aged listings bucketed by stock-age tier with discount recommendations
// @Tags stock
// @Accept json
// @Produce json
// @Success 200 {object} stock.Report
// @Failure 502 {object} map[string]string "Upstream fetch failed"
// @Failure 503 {object} map[string]string "Controller not initialized"
// @Router /internal/stock/control [get]
func StockControl(c *gin.Context) {
	if stockController == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Pricing control not initialized"})
		return
	}

	report, err := stockController.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to run pricing control: " + err.Error()})
		return
	}

	if auditStore != nil {
		if _, err := auditStore.RecordStockControl(c.Request.Context(), report.Stats); err != nil {
			log.Warn().Err(err).Msg("Failed to record pricing control run")
		}
	}

	c.JSON(http.StatusOK, report)
}
