package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/dealerdesk/backend/internal/infrastructure/crypto"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements accounting.SettingsRepository using GORM.
// OAuth tokens pass through the token cipher on the way in and out; the
// database only ever sees ciphertext.
type GormSettingsRepository struct {
	db     *gorm.DB
	cipher *crypto.TokenCipher
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB, cipher *crypto.TokenCipher) *GormSettingsRepository {
	return &GormSettingsRepository{db: db, cipher: cipher}
}

// Save creates or updates settings for a company/provider pair
func (r *GormSettingsRepository) Save(ctx context.Context, settings *accounting.Settings) error {
	var model models.AccountingSettingsModel
	model.FromDomain(settings)

	accessEnc, err := r.cipher.Encrypt(settings.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}
	refreshEnc, err := r.cipher.Encrypt(settings.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}
	model.AccessTokenEnc = accessEnc
	model.RefreshTokenEnc = refreshEnc

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "company_id"}, {Name: "provider"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"access_token_enc", "refresh_token_enc", "token_expires_at",
				"connected", "last_sync_at", "updated_at",
			}),
		}).
		Create(&model).Error
}

// FindByCompany finds settings for a company and provider
func (r *GormSettingsRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, provider accounting.ProviderCode) (*accounting.Settings, error) {
	var model models.AccountingSettingsModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND provider = ?", companyID, provider).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	settings := model.ToDomain()
	access, err := r.cipher.Decrypt(model.AccessTokenEnc)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}
	refresh, err := r.cipher.Decrypt(model.RefreshTokenEnc)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
	}
	settings.AccessToken = access
	settings.RefreshToken = refresh
	return settings, nil
}
