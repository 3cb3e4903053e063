package handler

import (
	"github.com/gin-gonic/gin"

	appaccounting "github.com/dealerdesk/backend/internal/application/accounting"
	"github.com/dealerdesk/backend/internal/infrastructure/auth"
	"github.com/dealerdesk/backend/internal/interfaces/http/dto"
	"github.com/dealerdesk/backend/internal/interfaces/http/middleware"
)

// AccountingHandler serves the accounting integration endpoints
type AccountingHandler struct {
	BaseHandler
	service *appaccounting.SyncService
}

// NewAccountingHandler creates a new AccountingHandler
func NewAccountingHandler(service *appaccounting.SyncService) *AccountingHandler {
	return &AccountingHandler{service: service}
}

// RegisterRoutes registers accounting routes on the API group. All routes
// are restricted to owner and accounting roles.
func (h *AccountingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	acc := rg.Group("/accounting", middleware.RequireRole(auth.RoleOwner, auth.RoleAccounting))
	{
		acc.GET("/connect", h.Connect)
		acc.POST("/disconnect", h.Disconnect)
		acc.GET("/settings", h.Settings)
		acc.GET("/vat-codes", h.VATCodes)
		acc.GET("/accounts", h.Accounts)
		acc.GET("/mappings", h.ListMappings)
		acc.PUT("/mappings", h.SaveMapping)
		acc.POST("/contracts/:id/order", h.SendOrder)
		acc.POST("/contracts/:id/invoice", h.CreateInvoice)
		acc.GET("/contracts/:id/links", h.ContractLinks)
		acc.GET("/invoices/:id/status", h.InvoiceStatus)
		acc.POST("/payments/sync", h.SyncPayments)
		acc.GET("/sync-log", h.SyncLog)
		acc.GET("/jobs", h.Jobs)
		acc.POST("/jobs/:id/retry", h.RetryJob)
		acc.POST("/jobs/:id/cancel", h.CancelJob)
	}
}

// RegisterPublicRoutes registers the OAuth callback. The provider redirect
// arrives without a bearer token; the state parameter binds the flow to
// the company that initiated it.
func (h *AccountingHandler) RegisterPublicRoutes(engine *gin.Engine) {
	engine.GET("/api/v1/accounting/callback", h.Callback)
}

// Connect starts the OAuth authorization flow
func (h *AccountingHandler) Connect(c *gin.Context) {
	resp, err := h.service.Connect(c.Request.Context(), h.companyID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Callback completes the OAuth flow after the provider redirect
func (h *AccountingHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.JSON(400, dto.ErrorResponse(dto.ErrCodeBadRequest, "Missing state or code parameter"))
		return
	}

	if err := h.service.HandleCallback(c.Request.Context(), state, code); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"connected": true})
}

// Disconnect revokes tokens and disables the integration
func (h *AccountingHandler) Disconnect(c *gin.Context) {
	if err := h.service.Disconnect(c.Request.Context(), h.companyID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"disconnected": true})
}

// Settings returns the connection status and sync settings
func (h *AccountingHandler) Settings(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context(), h.companyID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// VATCodes lists VAT codes from the provider
func (h *AccountingHandler) VATCodes(c *gin.Context) {
	codes, err := h.service.GetVATCodes(c.Request.Context(), h.companyID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, codes)
}

// Accounts lists general ledger accounts from the provider
func (h *AccountingHandler) Accounts(c *gin.Context) {
	accounts, err := h.service.GetAccounts(c.Request.Context(), h.companyID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// ListMappings returns the line category mappings
func (h *AccountingHandler) ListMappings(c *gin.Context) {
	mappings, err := h.service.ListMappings(c.Request.Context(), h.companyID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mappings)
}

// SaveMapping stores a line category mapping
func (h *AccountingHandler) SaveMapping(c *gin.Context) {
	var req appaccounting.SaveMappingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.service.SaveMapping(c.Request.Context(), h.companyID(c), req); err != nil {
		h.HandleError(c, err)
		return
	}

	mappings, err := h.service.ListMappings(c.Request.Context(), h.companyID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mappings)
}

// SendOrder queues creation of a sales order for a signed contract
func (h *AccountingHandler) SendOrder(c *gin.Context) {
	contractID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.SendOrder(c.Request.Context(), h.companyID(c), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp.AlreadySynced {
		h.Success(c, resp)
		return
	}
	h.Created(c, resp)
}

// CreateInvoice queues conversion of the contract's order to an invoice
func (h *AccountingHandler) CreateInvoice(c *gin.Context) {
	contractID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.CreateInvoice(c.Request.Context(), h.companyID(c), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp.AlreadySynced {
		h.Success(c, resp)
		return
	}
	h.Created(c, resp)
}

// ContractLinks returns the remote entities linked to a contract
func (h *AccountingHandler) ContractLinks(c *gin.Context) {
	contractID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	links, err := h.service.GetContractLinks(c.Request.Context(), h.companyID(c), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, links)
}

// InvoiceStatus fetches the live invoice status for a contract from the
// provider
func (h *AccountingHandler) InvoiceStatus(c *gin.Context) {
	contractID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	status, err := h.service.GetInvoiceStatus(c.Request.Context(), h.companyID(c), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// SyncPayments queues a payment reconciliation sweep
func (h *AccountingHandler) SyncPayments(c *gin.Context) {
	job, err := h.service.SyncPayments(c.Request.Context(), h.companyID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, job)
}

// SyncLog lists sync log entries, newest first
func (h *AccountingHandler) SyncLog(c *gin.Context) {
	var listReq dto.ListRequest
	if !h.bindListQuery(c, &listReq) {
		return
	}

	entries, total, err := h.service.ListLog(c.Request.Context(), h.companyID(c),
		listReq.PageSize, listReq.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, entries, total, listReq.Page, listReq.PageSize)
}

// Jobs lists sync jobs, newest first
func (h *AccountingHandler) Jobs(c *gin.Context) {
	var listReq dto.ListRequest
	if !h.bindListQuery(c, &listReq) {
		return
	}

	jobs, total, err := h.service.ListJobs(c.Request.Context(), h.companyID(c),
		listReq.PageSize, listReq.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, jobs, total, listReq.Page, listReq.PageSize)
}

// RetryJob requeues a failed job
func (h *AccountingHandler) RetryJob(c *gin.Context) {
	jobID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	job, err := h.service.RetryJob(c.Request.Context(), h.companyID(c), jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// CancelJob cancels a queued or failed job
func (h *AccountingHandler) CancelJob(c *gin.Context) {
	jobID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	job, err := h.service.CancelJob(c.Request.Context(), h.companyID(c), jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}
