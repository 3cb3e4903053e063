package persistence

import (
	"context"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMappingRepository implements accounting.MappingRepository using GORM
type GormMappingRepository struct {
	db *gorm.DB
}

// NewGormMappingRepository creates a new GormMappingRepository
func NewGormMappingRepository(db *gorm.DB) *GormMappingRepository {
	return &GormMappingRepository{db: db}
}

// SaveVatMapping creates or replaces the VAT mapping for a category
func (r *GormMappingRepository) SaveVatMapping(ctx context.Context, mapping *accounting.VatMapping) error {
	var model models.VatMappingModel
	model.FromDomain(mapping)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "provider"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"vat_code", "updated_at"}),
		}).
		Create(&model).Error
}

// SaveAccountMapping creates or replaces the account mapping for a category
func (r *GormMappingRepository) SaveAccountMapping(ctx context.Context, mapping *accounting.AccountMapping) error {
	var model models.AccountMappingModel
	model.FromDomain(mapping)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "provider"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"account_code", "updated_at"}),
		}).
		Create(&model).Error
}

// FindMappingSet loads all mappings for a company/provider pair
func (r *GormMappingRepository) FindMappingSet(ctx context.Context, companyID uuid.UUID, provider accounting.ProviderCode) (*accounting.MappingSet, error) {
	var vatModels []models.VatMappingModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND provider = ?", companyID, provider).
		Find(&vatModels).Error; err != nil {
		return nil, err
	}

	var accountModels []models.AccountMappingModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND provider = ?", companyID, provider).
		Find(&accountModels).Error; err != nil {
		return nil, err
	}

	vat := make([]accounting.VatMapping, len(vatModels))
	for i, model := range vatModels {
		vat[i] = *model.ToDomain()
	}
	account := make([]accounting.AccountMapping, len(accountModels))
	for i, model := range accountModels {
		account[i] = *model.ToDomain()
	}
	return accounting.NewMappingSet(vat, account), nil
}
