package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tuvalum/margin-service/internal/audit"
)

// ListRunsRequest represents query parameters for listing pipeline runs
type ListRunsRequest struct {
	Limit int `form:"limit" json:"limit" binding:"min=0,max=200" jsonschema:"minimum=0,maximum=200"`
}

// ListRunsResponse represents the response for listing pipeline runs
type ListRunsResponse struct {
	Runs  []audit.Run `json:"runs" jsonschema:"required"`
	Total int         `json:"total" jsonschema:"required"`
}

// ListRuns returns the most recent pipeline runs
// @Summary List pipeline runs
// @Description Returns the most recent enrichment and pricing-control runs, newest first
// @Tags runs
// @Accept json
// @Produce json
// @Param limit query int false "Number of runs to return" default(50) minimum(1) maximum(200)
// @Success 200 {object} ListRunsResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Failure 503 {object} map[string]string "Audit store not configured"
// @Router /internal/runs [get]
func ListRuns(c *gin.Context) {
	if auditStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Audit store not configured"})
		return
	}

	var req ListRunsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runs, err := auditStore.List(c.Request.Context(), req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list runs"})
		return
	}

	c.JSON(http.StatusOK, ListRunsResponse{
		Runs:  runs,
		Total: len(runs),
	})
}
