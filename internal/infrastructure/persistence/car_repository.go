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

// GormCarRepository implements dealership.CarRepository using GORM
type GormCarRepository struct {
	db *gorm.DB
}

// NewGormCarRepository creates a new GormCarRepository
func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

// Save creates or updates a car
func (r *GormCarRepository) Save(ctx context.Context, car *dealership.Car) error {
	var model models.CarModel
	model.FromDomain(car)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByID finds a car by ID within a company
func (r *GormCarRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*dealership.Car, error) {
	var model models.CarModel
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

// FindByRegistrationNumber finds a car by registration number within a company
func (r *GormCarRepository) FindByRegistrationNumber(ctx context.Context, companyID uuid.UUID, regNr string) (*dealership.Car, error) {
	var model models.CarModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND registration_number = ?", companyID, strings.ToUpper(strings.TrimSpace(regNr))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListForCompany lists cars for a company, optionally filtered by status.
// Sort input is validated against a column whitelist before it reaches the query.
func (r *GormCarRepository) ListForCompany(ctx context.Context, companyID uuid.UUID, status *dealership.CarStatus, sortBy, sortDir string, limit, offset int) ([]dealership.Car, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.CarModel{}).Where("company_id = ?", companyID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	field := ValidateSortField(sortBy, CarSortFields, "created_at")
	order := ValidateSortOrder(sortDir)

	var carModels []models.CarModel
	query := base.Order(field + " " + order)
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&carModels).Error; err != nil {
		return nil, 0, err
	}

	cars := make([]dealership.Car, len(carModels))
	for i, model := range carModels {
		cars[i] = *model.ToDomain()
	}
	return cars, total, nil
}

// Delete removes a car within a company
func (r *GormCarRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&models.CarModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
