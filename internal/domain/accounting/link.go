package accounting

import (
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LinkEntityType is the kind of remote entity a link points at
type LinkEntityType string

const (
	LinkEntityOrder   LinkEntityType = "order"
	LinkEntityInvoice LinkEntityType = "invoice"
)

// IsValid returns true if the entity type is known
func (t LinkEntityType) IsValid() bool {
	return t == LinkEntityOrder || t == LinkEntityInvoice
}

// Link records the one-to-one correspondence between a local entity and a
// remote accounting entity. At most one link exists per
// (provider, entityType, localID); this is the idempotency contract that
// short-circuits re-creation.
type Link struct {
	shared.CompanyEntity
	Provider   ProviderCode
	EntityType LinkEntityType
	LocalID    uuid.UUID
	RemoteID   string
	RemoteURL  string
}

// NewLink creates a link row
func NewLink(companyID uuid.UUID, provider ProviderCode, entityType LinkEntityType, localID uuid.UUID, remoteID, remoteURL string) *Link {
	return &Link{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Provider:      provider,
		EntityType:    entityType,
		LocalID:       localID,
		RemoteID:      remoteID,
		RemoteURL:     remoteURL,
	}
}
