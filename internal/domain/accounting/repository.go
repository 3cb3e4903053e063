package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SettingsRepository persists accounting connection settings
type SettingsRepository interface {
	// Save creates or updates settings for a company/provider pair
	Save(ctx context.Context, settings *Settings) error

	// FindByCompany finds settings for a company and provider
	FindByCompany(ctx context.Context, companyID uuid.UUID, provider ProviderCode) (*Settings, error)
}

// MappingRepository persists VAT and account mappings
type MappingRepository interface {
	// SaveVatMapping creates or replaces a VAT mapping
	SaveVatMapping(ctx context.Context, mapping *VatMapping) error

	// SaveAccountMapping creates or replaces an account mapping
	SaveAccountMapping(ctx context.Context, mapping *AccountMapping) error

	// FindMappingSet loads all mappings for a company/provider pair
	FindMappingSet(ctx context.Context, companyID uuid.UUID, provider ProviderCode) (*MappingSet, error)
}

// LinkRepository persists local-to-remote entity links
type LinkRepository interface {
	// Find returns the link for (provider, entityType, localID) or
	// shared.ErrNotFound
	Find(ctx context.Context, provider ProviderCode, entityType LinkEntityType, localID uuid.UUID) (*Link, error)

	// Create inserts a link. The unique index on
	// (provider, entity_type, local_id) makes concurrent creation safe:
	// a duplicate insert fails with shared.ErrAlreadyExists.
	Create(ctx context.Context, link *Link) error

	// FindOrCreate atomically returns the existing link or inserts the
	// given one, reporting whether a row was created.
	FindOrCreate(ctx context.Context, link *Link) (*Link, bool, error)

	// FindByRemoteID resolves a provider-side entity ID back to its link,
	// or shared.ErrNotFound
	FindByRemoteID(ctx context.Context, provider ProviderCode, entityType LinkEntityType, remoteID string) (*Link, error)
}

// SyncJobRepository persists sync jobs
type SyncJobRepository interface {
	// Save creates or updates a job
	Save(ctx context.Context, job *SyncJob) error

	// FindByID finds a job by ID scoped to a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*SyncJob, error)

	// FindDue returns queued jobs plus failed jobs whose next_retry_at has
	// passed and whose attempt budget is not exhausted, oldest first.
	FindDue(ctx context.Context, now time.Time, limit int) ([]SyncJob, error)

	// ListForCompany lists jobs for a company, newest first
	ListForCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]SyncJob, int64, error)
}

// SyncLogRepository persists the append-only audit trail
type SyncLogRepository interface {
	// Append inserts a log entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry *LogEntry) error

	// ListForCompany lists log entries for a company, newest first
	ListForCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]LogEntry, int64, error)
}
