package persistence

import (
	"context"
	"errors"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLinkRepository implements accounting.LinkRepository using GORM. The
// unique index over (provider, entity_type, local_id) carries the
// idempotency guarantee; the repository only translates conflicts into
// domain errors.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewGormLinkRepository creates a new GormLinkRepository
func NewGormLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// Find returns the link for (provider, entityType, localID)
func (r *GormLinkRepository) Find(ctx context.Context, provider accounting.ProviderCode, entityType accounting.LinkEntityType, localID uuid.UUID) (*accounting.Link, error) {
	var model models.AccountingLinkModel
	if err := r.db.WithContext(ctx).
		Where("provider = ? AND entity_type = ? AND local_id = ?", provider, entityType, localID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID resolves a provider-side entity ID back to its link
func (r *GormLinkRepository) FindByRemoteID(ctx context.Context, provider accounting.ProviderCode, entityType accounting.LinkEntityType, remoteID string) (*accounting.Link, error) {
	var model models.AccountingLinkModel
	if err := r.db.WithContext(ctx).
		Where("provider = ? AND entity_type = ? AND remote_id = ?", provider, entityType, remoteID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a link, failing with shared.ErrAlreadyExists when a link
// for the same identity already exists
func (r *GormLinkRepository) Create(ctx context.Context, link *accounting.Link) error {
	var model models.AccountingLinkModel
	model.FromDomain(link)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "entity_type"}, {Name: "local_id"}},
			DoNothing: true,
		}).
		Create(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrAlreadyExists
	}
	return nil
}

// FindOrCreate atomically returns the existing link or inserts the given
// one. The boolean reports whether a row was created.
func (r *GormLinkRepository) FindOrCreate(ctx context.Context, link *accounting.Link) (*accounting.Link, bool, error) {
	err := r.Create(ctx, link)
	if err == nil {
		return link, true, nil
	}
	if !errors.Is(err, shared.ErrAlreadyExists) {
		return nil, false, err
	}
	existing, err := r.Find(ctx, link.Provider, link.EntityType, link.LocalID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
