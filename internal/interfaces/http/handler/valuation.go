package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dealerdesk/backend/internal/application/valuation"
)

// ValuationHandler serves the price estimation endpoint
type ValuationHandler struct {
	BaseHandler
	service *valuation.EstimatorService
}

// NewValuationHandler creates a new ValuationHandler
func NewValuationHandler(service *valuation.EstimatorService) *ValuationHandler {
	return &ValuationHandler{service: service}
}

// RegisterRoutes registers valuation routes on the API group
func (h *ValuationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/valuation/estimate", h.Estimate)
}

// Estimate returns a price quantile estimate for a used car
func (h *ValuationHandler) Estimate(c *gin.Context) {
	var req valuation.EstimateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.Success(c, h.service.Estimate(req))
}
