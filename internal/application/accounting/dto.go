package accounting

import (
	"time"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConnectResponse carries the provider authorize URL the browser must visit
type ConnectResponse struct {
	AuthorizeURL string `json:"authorize_url"`
}

// StatusResponse is the connection status for a company
type StatusResponse struct {
	Provider       string     `json:"provider"`
	Connected      bool       `json:"connected"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
}

// SaveMappingRequest sets the VAT code and ledger account for one category
type SaveMappingRequest struct {
	Category    string `json:"category" binding:"required"`
	VATCode     string `json:"vat_code"`
	AccountCode string `json:"account_code"`
}

// MappingResponse is the configured mapping for one category
type MappingResponse struct {
	Category    string `json:"category"`
	VATCode     string `json:"vat_code,omitempty"`
	AccountCode string `json:"account_code,omitempty"`
	Complete    bool   `json:"complete"`
}

// VATCodeResponse is a provider VAT code available for mapping
type VATCodeResponse struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
}

// AccountResponse is a provider ledger account available for mapping
type AccountResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// InvoiceStatusResponse is the derived status of a provider invoice
type InvoiceStatusResponse struct {
	InvoiceID   string          `json:"invoice_id"`
	RemoteURL   string          `json:"remote_url,omitempty"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

// JobResponse is the API view of a sync job
type JobResponse struct {
	ID          uuid.UUID  `json:"id"`
	JobType     string     `json:"job_type"`
	EntityType  string     `json:"entity_type"`
	EntityID    uuid.UUID  `json:"entity_id"`
	Status      string     `json:"status"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"max_attempts"`
	LastError   string     `json:"last_error,omitempty"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LogEntryResponse is the API view of one sync log row
type LogEntryResponse struct {
	ID         uuid.UUID  `json:"id"`
	Provider   string     `json:"provider"`
	Operation  string     `json:"operation"`
	EntityType string     `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	JobID      *uuid.UUID `json:"job_id,omitempty"`
	Status     string     `json:"status"`
	Message    string     `json:"message,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// LinkResponse is the API view of a local-to-remote link
type LinkResponse struct {
	EntityType string    `json:"entity_type"`
	LocalID    uuid.UUID `json:"local_id"`
	RemoteID   string    `json:"remote_id"`
	RemoteURL  string    `json:"remote_url,omitempty"`
}

// EnqueueResponse is the outcome of an order or invoice submission: the
// queued job, or the existing link when the remote entity already exists.
// Re-submitting a synced contract is not an error; the caller gets the
// remote id/url back.
type EnqueueResponse struct {
	AlreadySynced bool          `json:"already_synced"`
	Job           *JobResponse  `json:"job,omitempty"`
	Link          *LinkResponse `json:"link,omitempty"`
}

// toJobResponse converts a domain job
func toJobResponse(job *accounting.SyncJob) *JobResponse {
	return &JobResponse{
		ID:          job.ID,
		JobType:     job.JobType.String(),
		EntityType:  string(job.EntityType),
		EntityID:    job.EntityID,
		Status:      job.Status.String(),
		Attempts:    job.Attempts,
		MaxAttempts: job.MaxAttempts,
		LastError:   job.LastError,
		NextRetryAt: job.NextRetryAt,
		CreatedAt:   job.CreatedAt,
	}
}

// toLogEntryResponse converts a domain log entry
func toLogEntryResponse(entry *accounting.LogEntry) *LogEntryResponse {
	return &LogEntryResponse{
		ID:         entry.ID,
		Provider:   entry.Provider.String(),
		Operation:  entry.Operation,
		EntityType: string(entry.EntityType),
		EntityID:   entry.EntityID,
		JobID:      entry.JobID,
		Status:     string(entry.Status),
		Message:    entry.Message,
		CreatedAt:  entry.CreatedAt,
	}
}

// toLinkResponse converts a domain link
func toLinkResponse(link *accounting.Link) *LinkResponse {
	return &LinkResponse{
		EntityType: string(link.EntityType),
		LocalID:    link.LocalID,
		RemoteID:   link.RemoteID,
		RemoteURL:  link.RemoteURL,
	}
}
