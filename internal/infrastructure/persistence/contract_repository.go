package persistence

import (
	"context"
	"errors"

	"github.com/dealerdesk/backend/internal/domain/dealership"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContractRepository implements dealership.ContractRepository using
// GORM. Contracts are saved together with their lines in one transaction;
// lines are replaced wholesale because the domain treats them as part of
// the contract aggregate.
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// Save creates or updates a contract with its lines
func (r *GormContractRepository) Save(ctx context.Context, contract *dealership.Contract) error {
	var model models.ContractModel
	model.FromDomain(contract)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := model.Lines
		model.Lines = nil
		if err := tx.Save(&model).Error; err != nil {
			return err
		}
		if err := tx.Where("contract_id = ?", model.ID).Delete(&models.ContractLineModel{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

// FindByID finds a contract with its lines by ID within a company
func (r *GormContractRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*dealership.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("contract_lines.position ASC")
		}).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListForCompany lists contracts for a company, optionally filtered by status
func (r *GormContractRepository) ListForCompany(ctx context.Context, companyID uuid.UUID, status *dealership.ContractStatus, limit, offset int) ([]dealership.Contract, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.ContractModel{}).Where("company_id = ?", companyID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contractModels []models.ContractModel
	query := base.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("contract_lines.position ASC")
	}).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&contractModels).Error; err != nil {
		return nil, 0, err
	}

	contracts := make([]dealership.Contract, len(contractModels))
	for i := range contractModels {
		contracts[i] = *contractModels[i].ToDomain()
	}
	return contracts, total, nil
}
