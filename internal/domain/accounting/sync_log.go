package accounting

import (
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LogStatus is the outcome recorded for one attempted provider operation
type LogStatus string

const (
	LogStatusSuccess LogStatus = "success"
	LogStatusFailed  LogStatus = "failed"
)

// LogEntry is one row of the append-only sync audit trail. Entries are
// never mutated after creation.
type LogEntry struct {
	shared.CompanyEntity
	Provider   ProviderCode
	Operation  string
	EntityType LinkEntityType
	EntityID   uuid.UUID
	JobID      *uuid.UUID
	Status     LogStatus
	Message    string
}

// NewLogEntry creates a log entry for an attempted provider operation
func NewLogEntry(companyID uuid.UUID, provider ProviderCode, operation string, entityType LinkEntityType, entityID uuid.UUID, status LogStatus, message string) *LogEntry {
	return &LogEntry{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Provider:      provider,
		Operation:     operation,
		EntityType:    entityType,
		EntityID:      entityID,
		Status:        status,
		Message:       message,
	}
}

// WithJob attaches the originating sync job to the entry
func (e *LogEntry) WithJob(jobID uuid.UUID) *LogEntry {
	id := jobID
	e.JobID = &id
	return e
}
