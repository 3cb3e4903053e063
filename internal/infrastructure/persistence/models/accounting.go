package models

import (
	"time"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountingSettingsModel persists the accounting connection for one
// (company, provider) pair. Token columns hold ciphertext; the repository
// encrypts and decrypts through the token cipher.
type AccountingSettingsModel struct {
	BaseModel
	CompanyID       uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_accounting_settings_identity,priority:1"`
	Provider        accounting.ProviderCode `gorm:"type:varchar(30);not null;uniqueIndex:idx_accounting_settings_identity,priority:2"`
	AccessTokenEnc  string                  `gorm:"type:text;column:access_token_enc"`
	RefreshTokenEnc string                  `gorm:"type:text;column:refresh_token_enc"`
	TokenExpiresAt  *time.Time
	Connected       bool       `gorm:"not null;default:false"`
	LastSyncAt      *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (AccountingSettingsModel) TableName() string {
	return "accounting_settings"
}

// ToDomain converts the model to domain Settings. Token columns are
// ciphertext at this layer; the repository decrypts them afterwards.
func (m *AccountingSettingsModel) ToDomain() *accounting.Settings {
	return &accounting.Settings{
		CompanyEntity:  shared.CompanyEntity{BaseEntity: m.BaseModel.ToDomain(), CompanyID: m.CompanyID},
		Provider:       m.Provider,
		AccessToken:    m.AccessTokenEnc,
		RefreshToken:   m.RefreshTokenEnc,
		TokenExpiresAt: m.TokenExpiresAt,
		Connected:      m.Connected,
		LastSyncAt:     m.LastSyncAt,
	}
}

// FromDomain populates the model from domain Settings. The caller must
// pass tokens already encrypted.
func (m *AccountingSettingsModel) FromDomain(s *accounting.Settings) {
	m.BaseModel.FromDomain(s.BaseEntity)
	m.CompanyID = s.CompanyID
	m.Provider = s.Provider
	m.AccessTokenEnc = s.AccessToken
	m.RefreshTokenEnc = s.RefreshToken
	m.TokenExpiresAt = s.TokenExpiresAt
	m.Connected = s.Connected
	m.LastSyncAt = s.LastSyncAt
}

// VatMappingModel maps a local category to a provider VAT code
type VatMappingModel struct {
	BaseModel
	CompanyID uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_vat_mappings_identity,priority:1"`
	Provider  accounting.ProviderCode `gorm:"type:varchar(30);not null;uniqueIndex:idx_vat_mappings_identity,priority:2"`
	Category  accounting.Category     `gorm:"type:varchar(30);not null;uniqueIndex:idx_vat_mappings_identity,priority:3"`
	VATCode   string                  `gorm:"type:varchar(20);not null;column:vat_code"`
}

// TableName returns the table name for GORM
func (VatMappingModel) TableName() string {
	return "vat_mappings"
}

// ToDomain converts the model to a domain VatMapping
func (m *VatMappingModel) ToDomain() *accounting.VatMapping {
	return &accounting.VatMapping{
		CompanyEntity: shared.CompanyEntity{BaseEntity: m.BaseModel.ToDomain(), CompanyID: m.CompanyID},
		Provider:      m.Provider,
		Category:      m.Category,
		VATCode:       m.VATCode,
	}
}

// FromDomain populates the model from a domain VatMapping
func (m *VatMappingModel) FromDomain(v *accounting.VatMapping) {
	m.BaseModel.FromDomain(v.BaseEntity)
	m.CompanyID = v.CompanyID
	m.Provider = v.Provider
	m.Category = v.Category
	m.VATCode = v.VATCode
}

// AccountMappingModel maps a local category to a provider ledger account
type AccountMappingModel struct {
	BaseModel
	CompanyID   uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_account_mappings_identity,priority:1"`
	Provider    accounting.ProviderCode `gorm:"type:varchar(30);not null;uniqueIndex:idx_account_mappings_identity,priority:2"`
	Category    accounting.Category     `gorm:"type:varchar(30);not null;uniqueIndex:idx_account_mappings_identity,priority:3"`
	AccountCode string                  `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (AccountMappingModel) TableName() string {
	return "account_mappings"
}

// ToDomain converts the model to a domain AccountMapping
func (m *AccountMappingModel) ToDomain() *accounting.AccountMapping {
	return &accounting.AccountMapping{
		CompanyEntity: shared.CompanyEntity{BaseEntity: m.BaseModel.ToDomain(), CompanyID: m.CompanyID},
		Provider:      m.Provider,
		Category:      m.Category,
		AccountCode:   m.AccountCode,
	}
}

// FromDomain populates the model from a domain AccountMapping
func (m *AccountMappingModel) FromDomain(a *accounting.AccountMapping) {
	m.BaseModel.FromDomain(a.BaseEntity)
	m.CompanyID = a.CompanyID
	m.Provider = a.Provider
	m.Category = a.Category
	m.AccountCode = a.AccountCode
}

// AccountingLinkModel records a local-to-remote entity correspondence.
// The unique index over (provider, entity_type, local_id) is the
// idempotency guard: concurrent creation for the same local entity fails
// at the database instead of producing duplicate remote records.
type AccountingLinkModel struct {
	CompanyModel
	Provider   accounting.ProviderCode   `gorm:"type:varchar(30);not null;uniqueIndex:idx_accounting_links_identity,priority:1"`
	EntityType accounting.LinkEntityType `gorm:"type:varchar(20);not null;uniqueIndex:idx_accounting_links_identity,priority:2"`
	LocalID    uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_accounting_links_identity,priority:3"`
	RemoteID   string                    `gorm:"type:varchar(100);not null"`
	RemoteURL  string                    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (AccountingLinkModel) TableName() string {
	return "accounting_links"
}

// ToDomain converts the model to a domain Link
func (m *AccountingLinkModel) ToDomain() *accounting.Link {
	return &accounting.Link{
		CompanyEntity: m.CompanyModel.ToDomain(),
		Provider:      m.Provider,
		EntityType:    m.EntityType,
		LocalID:       m.LocalID,
		RemoteID:      m.RemoteID,
		RemoteURL:     m.RemoteURL,
	}
}

// FromDomain populates the model from a domain Link
func (m *AccountingLinkModel) FromDomain(l *accounting.Link) {
	m.CompanyModel.FromDomain(l.CompanyEntity)
	m.Provider = l.Provider
	m.EntityType = l.EntityType
	m.LocalID = l.LocalID
	m.RemoteID = l.RemoteID
	m.RemoteURL = l.RemoteURL
}

// SyncJobModel persists one sync job
type SyncJobModel struct {
	CompanyModel
	JobType     accounting.JobType        `gorm:"type:varchar(30);not null;index"`
	EntityType  accounting.LinkEntityType `gorm:"type:varchar(20);not null"`
	EntityID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Payload     []byte                    `gorm:"type:jsonb"`
	Status      accounting.JobStatus      `gorm:"type:varchar(20);not null;index"`
	Attempts    int                       `gorm:"not null;default:0"`
	MaxAttempts int                       `gorm:"not null;default:8"`
	LastError   string                    `gorm:"type:text"`
	NextRetryAt *time.Time                `gorm:"index"`
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (SyncJobModel) TableName() string {
	return "sync_jobs"
}

// ToDomain converts the model to a domain SyncJob
func (m *SyncJobModel) ToDomain() *accounting.SyncJob {
	return &accounting.SyncJob{
		CompanyEntity: m.CompanyModel.ToDomain(),
		JobType:       m.JobType,
		EntityType:    m.EntityType,
		EntityID:      m.EntityID,
		Payload:       m.Payload,
		Status:        m.Status,
		Attempts:      m.Attempts,
		MaxAttempts:   m.MaxAttempts,
		LastError:     m.LastError,
		NextRetryAt:   m.NextRetryAt,
		StartedAt:     m.StartedAt,
		CompletedAt:   m.CompletedAt,
	}
}

// FromDomain populates the model from a domain SyncJob
func (m *SyncJobModel) FromDomain(j *accounting.SyncJob) {
	m.CompanyModel.FromDomain(j.CompanyEntity)
	m.JobType = j.JobType
	m.EntityType = j.EntityType
	m.EntityID = j.EntityID
	m.Payload = j.Payload
	m.Status = j.Status
	m.Attempts = j.Attempts
	m.MaxAttempts = j.MaxAttempts
	m.LastError = j.LastError
	m.NextRetryAt = j.NextRetryAt
	m.StartedAt = j.StartedAt
	m.CompletedAt = j.CompletedAt
}

// SyncLogModel persists one row of the append-only sync audit trail
type SyncLogModel struct {
	CompanyModel
	Provider   accounting.ProviderCode   `gorm:"type:varchar(30);not null"`
	Operation  string                    `gorm:"type:varchar(50);not null"`
	EntityType accounting.LinkEntityType `gorm:"type:varchar(20);not null"`
	EntityID   uuid.UUID                 `gorm:"type:uuid;not null;index"`
	JobID      *uuid.UUID                `gorm:"type:uuid;index"`
	Status     accounting.LogStatus      `gorm:"type:varchar(20);not null;index"`
	Message    string                    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SyncLogModel) TableName() string {
	return "sync_log_entries"
}

// ToDomain converts the model to a domain LogEntry
func (m *SyncLogModel) ToDomain() *accounting.LogEntry {
	return &accounting.LogEntry{
		CompanyEntity: m.CompanyModel.ToDomain(),
		Provider:      m.Provider,
		Operation:     m.Operation,
		EntityType:    m.EntityType,
		EntityID:      m.EntityID,
		JobID:         m.JobID,
		Status:        m.Status,
		Message:       m.Message,
	}
}

// FromDomain populates the model from a domain LogEntry
func (m *SyncLogModel) FromDomain(e *accounting.LogEntry) {
	m.CompanyModel.FromDomain(e.CompanyEntity)
	m.Provider = e.Provider
	m.Operation = e.Operation
	m.EntityType = e.EntityType
	m.EntityID = e.EntityID
	m.JobID = e.JobID
	m.Status = e.Status
	m.Message = e.Message
}
