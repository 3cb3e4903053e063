package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dealerdesk/backend/internal/application/dealership"
	"github.com/dealerdesk/backend/internal/interfaces/http/dto"
)

// CustomerHandler serves the customer registry endpoints
type CustomerHandler struct {
	BaseHandler
	service *dealership.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service *dealership.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// RegisterRoutes registers customer routes on the API group
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.ListAll)
		customers.GET("/:id", h.Get)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
	}
}

// Create registers a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dealership.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), h.companyID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// ListAll lists customers with optional name search
func (h *CustomerHandler) ListAll(c *gin.Context) {
	var listReq dto.ListRequest
	if !h.bindListQuery(c, &listReq) {
		return
	}

	customers, total, err := h.service.ListCustomers(c.Request.Context(), h.companyID(c),
		c.Query("search"), listReq.PageSize, listReq.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, customers, total, listReq.Page, listReq.PageSize)
}

// Get returns a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), h.companyID(c), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Update modifies customer details
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dealership.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.service.UpdateCustomer(c.Request.Context(), h.companyID(c), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(c.Request.Context(), h.companyID(c), customerID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": true})
}
