package accounting

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobType identifies the provider-side mutation a sync job performs
type JobType string

const (
	JobTypeCreateOrder   JobType = "create_order"
	JobTypeCreateInvoice JobType = "create_invoice"
	JobTypeSyncPayments  JobType = "sync_payments"
)

// IsValid returns true if the job type is known
func (t JobType) IsValid() bool {
	switch t {
	case JobTypeCreateOrder, JobTypeCreateInvoice, JobTypeSyncPayments:
		return true
	}
	return false
}

// String returns the string representation of JobType
func (t JobType) String() string {
	return string(t)
}

// CreateOrderPayload is the payload for create_order jobs
type CreateOrderPayload struct {
	ContractID uuid.UUID `json:"contract_id"`
}

// CreateInvoicePayload is the payload for create_invoice jobs.
// OrderID is the provider-side order to convert.
type CreateInvoicePayload struct {
	ContractID uuid.UUID `json:"contract_id"`
	OrderID    string    `json:"order_id"`
}

// SyncPaymentsPayload is the payload for sync_payments jobs
type SyncPaymentsPayload struct {
	Since *time.Time `json:"since,omitempty"`
}

// EncodePayload serializes a typed job payload
func EncodePayload(payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job payload: %w", err)
	}
	return data, nil
}

// DecodePayload decodes a job's raw payload into the typed struct matching
// its job type. Decoding happens exactly once, at the queue boundary.
func DecodePayload(job *SyncJob) (any, error) {
	switch job.JobType {
	case JobTypeCreateOrder:
		var p CreateOrderPayload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			return nil, fmt.Errorf("invalid create_order payload: %w", err)
		}
		return &p, nil
	case JobTypeCreateInvoice:
		var p CreateInvoicePayload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			return nil, fmt.Errorf("invalid create_invoice payload: %w", err)
		}
		return &p, nil
	case JobTypeSyncPayments:
		var p SyncPaymentsPayload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			return nil, fmt.Errorf("invalid sync_payments payload: %w", err)
		}
		return &p, nil
	default:
		return nil, fmt.Errorf("unknown job type %q", job.JobType)
	}
}
