package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSyncJobRepository implements accounting.SyncJobRepository using GORM
type GormSyncJobRepository struct {
	db *gorm.DB
}

// NewGormSyncJobRepository creates a new GormSyncJobRepository
func NewGormSyncJobRepository(db *gorm.DB) *GormSyncJobRepository {
	return &GormSyncJobRepository{db: db}
}

// Save creates or updates a job
func (r *GormSyncJobRepository) Save(ctx context.Context, job *accounting.SyncJob) error {
	var model models.SyncJobModel
	model.FromDomain(job)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByID finds a job by ID scoped to a company
func (r *GormSyncJobRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*accounting.SyncJob, error) {
	var model models.SyncJobModel
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

// FindDue returns the jobs the sweep should pick up, oldest first: queued
// jobs plus failed jobs whose retry time has passed and whose attempt
// budget is not exhausted. Exhausted jobs stay failed until reset manually.
func (r *GormSyncJobRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]accounting.SyncJob, error) {
	var jobModels []models.SyncJobModel
	query := r.db.WithContext(ctx).
		Where("status = ?", accounting.JobStatusQueued).
		Or(r.db.
			Where("status = ?", accounting.JobStatusFailed).
			Where("attempts < max_attempts").
			Where("(next_retry_at IS NULL OR next_retry_at <= ?)", now)).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobModels).Error; err != nil {
		return nil, err
	}

	jobs := make([]accounting.SyncJob, len(jobModels))
	for i, model := range jobModels {
		jobs[i] = *model.ToDomain()
	}
	return jobs, nil
}

// ListForCompany lists jobs for a company, newest first
func (r *GormSyncJobRepository) ListForCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]accounting.SyncJob, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.SyncJobModel{}).
		Where("company_id = ?", companyID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobModels []models.SyncJobModel
	query := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&jobModels).Error; err != nil {
		return nil, 0, err
	}

	jobs := make([]accounting.SyncJob, len(jobModels))
	for i, model := range jobModels {
		jobs[i] = *model.ToDomain()
	}
	return jobs, total, nil
}
