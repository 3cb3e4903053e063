package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/dealerdesk/backend/internal/domain/dealership"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements dealership.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *dealership.Customer) error {
	var model models.CustomerModel
	model.FromDomain(customer)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByID finds a customer by ID within a company
func (r *GormCustomerRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*dealership.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListForCompany lists customers for a company, optionally filtered by a
// case-insensitive name search
func (r *GormCustomerRepository) ListForCompany(ctx context.Context, companyID uuid.UUID, search string, limit, offset int) ([]dealership.Customer, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("company_id = ?", companyID)
	if search != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customerModels []models.CustomerModel
	query := base.Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&customerModels).Error; err != nil {
		return nil, 0, err
	}

	customers := make([]dealership.Customer, len(customerModels))
	for i, model := range customerModels {
		customers[i] = *model.ToDomain()
	}
	return customers, total, nil
}

// Delete removes a customer within a company
func (r *GormCustomerRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&models.CustomerModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
