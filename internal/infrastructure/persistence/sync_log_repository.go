package persistence

import (
	"context"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSyncLogRepository implements accounting.SyncLogRepository using GORM.
// The log is append-only; no update or delete methods exist.
type GormSyncLogRepository struct {
	db *gorm.DB
}

// NewGormSyncLogRepository creates a new GormSyncLogRepository
func NewGormSyncLogRepository(db *gorm.DB) *GormSyncLogRepository {
	return &GormSyncLogRepository{db: db}
}

// Append inserts a log entry
func (r *GormSyncLogRepository) Append(ctx context.Context, entry *accounting.LogEntry) error {
	var model models.SyncLogModel
	model.FromDomain(entry)
	return r.db.WithContext(ctx).Create(&model).Error
}

// ListForCompany lists log entries for a company, newest first
func (r *GormSyncLogRepository) ListForCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]accounting.LogEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.SyncLogModel{}).
		Where("company_id = ?", companyID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logModels []models.SyncLogModel
	query := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&logModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]accounting.LogEntry, len(logModels))
	for i, model := range logModels {
		entries[i] = *model.ToDomain()
	}
	return entries, total, nil
}
