package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dealerdesk/backend/internal/application/dealership"
	"github.com/dealerdesk/backend/internal/interfaces/http/dto"
)

// ContractHandler serves the sales contract endpoints
type ContractHandler struct {
	BaseHandler
	service *dealership.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(service *dealership.ContractService) *ContractHandler {
	return &ContractHandler{service: service}
}

// RegisterRoutes registers contract routes on the API group
func (h *ContractHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contracts := rg.Group("/contracts")
	{
		contracts.POST("", h.Create)
		contracts.GET("", h.ListAll)
		contracts.GET("/:id", h.Get)
		contracts.PUT("/:id", h.Update)
		contracts.POST("/:id/sign", h.Sign)
		contracts.POST("/:id/cancel", h.Cancel)
	}
}

// Create drafts a new sales contract and reserves the car
func (h *ContractHandler) Create(c *gin.Context) {
	var req dealership.CreateContractRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contract, err := h.service.CreateContract(c.Request.Context(), h.companyID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contract)
}

// ListAll lists contracts with optional status filtering
func (h *ContractHandler) ListAll(c *gin.Context) {
	var listReq dto.ListRequest
	if !h.bindListQuery(c, &listReq) {
		return
	}

	contracts, total, err := h.service.ListContracts(c.Request.Context(), h.companyID(c),
		c.Query("status"), listReq.PageSize, listReq.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, contracts, total, listReq.Page, listReq.PageSize)
}

// Get returns a single contract with its lines
func (h *ContractHandler) Get(c *gin.Context) {
	contractID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	contract, err := h.service.GetContract(c.Request.Context(), h.companyID(c), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// Update replaces the editable parts of a draft contract
func (h *ContractHandler) Update(c *gin.Context) {
	contractID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dealership.UpdateContractRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contract, err := h.service.UpdateContract(c.Request.Context(), h.companyID(c), contractID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// Sign marks the contract signed and the car sold
func (h *ContractHandler) Sign(c *gin.Context) {
	contractID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	contract, err := h.service.SignContract(c.Request.Context(), h.companyID(c), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// Cancel voids the contract and returns the car to stock
func (h *ContractHandler) Cancel(c *gin.Context) {
	contractID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	contract, err := h.service.CancelContract(c.Request.Context(), h.companyID(c), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}
