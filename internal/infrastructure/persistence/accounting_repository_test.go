package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/dealerdesk/backend/internal/infrastructure/crypto"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAccountingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.AccountingSettingsModel{},
		&models.VatMappingModel{},
		&models.AccountMappingModel{},
		&models.AccountingLinkModel{},
		&models.SyncJobModel{},
		&models.SyncLogModel{},
	)
	require.NoError(t, err)
	return db
}

func newTestCipher(t *testing.T) *crypto.TokenCipher {
	cipher, err := crypto.NewTokenCipher("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	return cipher
}

func TestGormSettingsRepository_SaveAndFind(t *testing.T) {
	db := setupAccountingTestDB(t)
	repo := NewGormSettingsRepository(db, newTestCipher(t))
	ctx := context.Background()
	companyID := uuid.New()

	settings := accounting.NewSettings(companyID, accounting.ProviderCodePowerOffice)
	expiresAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	settings.ApplyTokens(&accounting.TokenResponse{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		ExpiresAt:    expiresAt,
	})

	require.NoError(t, repo.Save(ctx, settings))

	found, err := repo.FindByCompany(ctx, companyID, accounting.ProviderCodePowerOffice)
	require.NoError(t, err)
	assert.Equal(t, "access-123", found.AccessToken)
	assert.Equal(t, "refresh-456", found.RefreshToken)
	assert.True(t, found.Connected)

	// Tokens must be ciphertext at rest
	var model models.AccountingSettingsModel
	require.NoError(t, db.First(&model, "company_id = ?", companyID).Error)
	assert.NotEqual(t, "access-123", model.AccessTokenEnc)
	assert.NotEqual(t, "refresh-456", model.RefreshTokenEnc)
	assert.Contains(t, model.AccessTokenEnc, ":")
}

func TestGormSettingsRepository_SaveUpdatesExistingRow(t *testing.T) {
	db := setupAccountingTestDB(t)
	repo := NewGormSettingsRepository(db, newTestCipher(t))
	ctx := context.Background()
	companyID := uuid.New()

	settings := accounting.NewSettings(companyID, accounting.ProviderCodePowerOffice)
	settings.ApplyTokens(&accounting.TokenResponse{AccessToken: "first", RefreshToken: "r1", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, repo.Save(ctx, settings))

	settings.ApplyTokens(&accounting.TokenResponse{AccessToken: "second", RefreshToken: "r2", ExpiresAt: time.Now().Add(2 * time.Hour)})
	require.NoError(t, repo.Save(ctx, settings))

	var count int64
	require.NoError(t, db.Model(&models.AccountingSettingsModel{}).Where("company_id = ?", companyID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByCompany(ctx, companyID, accounting.ProviderCodePowerOffice)
	require.NoError(t, err)
	assert.Equal(t, "second", found.AccessToken)
}

func TestGormSettingsRepository_FindByCompany_NotFound(t *testing.T) {
	db := setupAccountingTestDB(t)
	repo := NewGormSettingsRepository(db, newTestCipher(t))

	_, err := repo.FindByCompany(context.Background(), uuid.New(), accounting.ProviderCodePowerOffice)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormMappingRepository_SaveAndResolve(t *testing.T) {
	db := setupAccountingTestDB(t)
	repo := NewGormMappingRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	require.NoError(t, repo.SaveVatMapping(ctx, accounting.NewVatMapping(companyID, accounting.ProviderCodePowerOffice, accounting.CategoryCar, "3")))
	require.NoError(t, repo.SaveAccountMapping(ctx, accounting.NewAccountMapping(companyID, accounting.ProviderCodePowerOffice, accounting.CategoryCar, "3000")))

	set, err := repo.FindMappingSet(ctx, companyID, accounting.ProviderCodePowerOffice)
	require.NoError(t, err)

	vat, account, err := set.Resolve(accounting.CategoryCar)
	require.NoError(t, err)
	assert.Equal(t, "3", vat)
	assert.Equal(t, "3000", account)

	_, _, err = set.Resolve(accounting.CategoryAddon)
	var missing *accounting.MappingMissingError
	assert.ErrorAs(t, err, &missing)
}

func TestGormMappingRepository_SaveReplacesMapping(t *testing.T) {
	db := setupAccountingTestDB(t)
	repo := NewGormMappingRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	require.NoError(t, repo.SaveVatMapping(ctx, accounting.NewVatMapping(companyID, accounting.ProviderCodePowerOffice, accounting.CategoryPart, "25")))
	require.NoError(t, repo.SaveVatMapping(ctx, accounting.NewVatMapping(companyID, accounting.ProviderCodePowerOffice, accounting.CategoryPart, "15")))

	var count int64
	require.NoError(t, db.Model(&models.VatMappingModel{}).Where("company_id = ?", companyID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	set, err := repo.FindMappingSet(ctx, companyID, accounting.ProviderCodePowerOffice)
	require.NoError(t, err)
	assert.Equal(t, "15", set.VAT[accounting.CategoryPart])
}

func TestGormLinkRepository_CreateRejectsDuplicateIdentity(t *testing.T) {
	db := setupAccountingTestDB(t)
	repo := NewGormLinkRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	localID := uuid.New()

	first := accounting.NewLink(companyID, accounting.ProviderCodePowerOffice, accounting.LinkEntityOrder, localID, "remote-1", "")
	require.NoError(t, repo.Create(ctx, first))

	second := accounting.NewLink(companyID, accounting.ProviderCodePowerOffice, accounting.LinkEntityOrder, localID, "remote-2", "")
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	// The stored link keeps the first remote ID
	found, err := repo.Find(ctx, accounting.ProviderCodePowerOffice, accounting.LinkEntityOrder, localID)
	require.NoError(t, err)
	assert.Equal(t, "remote-1", found.RemoteID)
}

func TestGormLinkRepository_SameLocalIDDifferentEntityType(t *testing.T) {
	db := setupAccountingTestDB(t)
	repo := NewGormLinkRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	localID := uuid.New()

	require.NoError(t, repo.Create(ctx, accounting.NewLink(companyID, accounting.ProviderCodePowerOffice, accounting.LinkEntityOrder, localID, "order-1", "")))
	require.NoError(t, repo.Create(ctx, accounting.NewLink(companyID, accounting.ProviderCodePowerOffice, accounting.LinkEntityInvoice, localID, "invoice-1", "")))
}

func TestGormLinkRepository_FindOrCreate(t *testing.T) {
	db := setupAccountingTestDB(t)
	repo := NewGormLinkRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	localID := uuid.New()

	link := accounting.NewLink(companyID, accounting.ProviderCodePowerOffice, accounting.LinkEntityOrder, localID, "remote-1", "")
	got, created, err := repo.FindOrCreate(ctx, link)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "remote-1", got.RemoteID)

	duplicate := accounting.NewLink(companyID, accounting.ProviderCodePowerOffice, accounting.LinkEntityOrder, localID, "remote-other", "")
	got, created, err = repo.FindOrCreate(ctx, duplicate)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "remote-1", got.RemoteID)
}

func TestGormSyncJobRepository_FindDue(t *testing.T) {
	db := setupAccountingTestDB(t)
	repo := NewGormSyncJobRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	now := time.Now()

	payload, err := accounting.EncodePayload(accounting.CreateOrderPayload{ContractID: uuid.New()})
	require.NoError(t, err)

	queued := accounting.NewSyncJob(companyID, accounting.JobTypeCreateOrder, accounting.LinkEntityOrder, uuid.New(), payload)
	require.NoError(t, repo.Save(ctx, queued))

	// Failed with retry time in the past is due
	retryable := accounting.NewSyncJob(companyID, accounting.JobTypeCreateOrder, accounting.LinkEntityOrder, uuid.New(), payload)
	require.NoError(t, retryable.Start(now.Add(-2*time.Hour)))
	require.NoError(t, retryable.Fail(assert.AnError, now.Add(-2*time.Hour)))
	require.NoError(t, repo.Save(ctx, retryable))

	// Failed with retry time in the future is not due
	waiting := accounting.NewSyncJob(companyID, accounting.JobTypeCreateOrder, accounting.LinkEntityOrder, uuid.New(), payload)
	require.NoError(t, waiting.Start(now))
	require.NoError(t, waiting.Fail(assert.AnError, now))
	require.NoError(t, repo.Save(ctx, waiting))

	// Exhausted jobs never come back
	exhausted := accounting.NewSyncJob(companyID, accounting.JobTypeCreateOrder, accounting.LinkEntityOrder, uuid.New(), payload)
	exhausted.MaxAttempts = 1
	require.NoError(t, exhausted.Start(now.Add(-2*time.Hour)))
	require.NoError(t, exhausted.Fail(assert.AnError, now.Add(-2*time.Hour)))
	require.NoError(t, repo.Save(ctx, exhausted))

	// Done jobs never come back
	done := accounting.NewSyncJob(companyID, accounting.JobTypeCreateOrder, accounting.LinkEntityOrder, uuid.New(), payload)
	require.NoError(t, done.Start(now))
	require.NoError(t, done.Complete(now))
	require.NoError(t, repo.Save(ctx, done))

	due, err := repo.FindDue(ctx, now, 10)
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(due))
	for _, job := range due {
		ids = append(ids, job.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{queued.ID, retryable.ID}, ids)
}

func TestGormSyncJobRepository_SavePersistsStateTransitions(t *testing.T) {
	db := setupAccountingTestDB(t)
	repo := NewGormSyncJobRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	now := time.Now()

	job := accounting.NewSyncJob(companyID, accounting.JobTypeSyncPayments, accounting.LinkEntityInvoice, uuid.New(), nil)
	require.NoError(t, repo.Save(ctx, job))

	require.NoError(t, job.Start(now))
	require.NoError(t, job.Fail(assert.AnError, now))
	require.NoError(t, repo.Save(ctx, job))

	found, err := repo.FindByID(ctx, companyID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, accounting.JobStatusFailed, found.Status)
	assert.Equal(t, 1, found.Attempts)
	assert.NotNil(t, found.NextRetryAt)
	assert.NotEmpty(t, found.LastError)
}

func TestGormSyncJobRepository_FindByID_ScopedToCompany(t *testing.T) {
	db := setupAccountingTestDB(t)
	repo := NewGormSyncJobRepository(db)
	ctx := context.Background()

	job := accounting.NewSyncJob(uuid.New(), accounting.JobTypeCreateInvoice, accounting.LinkEntityInvoice, uuid.New(), nil)
	require.NoError(t, repo.Save(ctx, job))

	_, err := repo.FindByID(ctx, uuid.New(), job.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSyncLogRepository_AppendAndList(t *testing.T) {
	db := setupAccountingTestDB(t)
	repo := NewGormSyncLogRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	entityID := uuid.New()
	jobID := uuid.New()
	entry := accounting.NewLogEntry(companyID, accounting.ProviderCodePowerOffice, "create_order", accounting.LinkEntityOrder, entityID, accounting.LogStatusFailed, "mapping missing for category addon").WithJob(jobID)
	require.NoError(t, repo.Append(ctx, entry))

	entries, total, err := repo.ListForCompany(ctx, companyID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "create_order", entries[0].Operation)
	assert.Equal(t, accounting.LogStatusFailed, entries[0].Status)
	require.NotNil(t, entries[0].JobID)
	assert.Equal(t, jobID, *entries[0].JobID)

	// Other companies never see the entry
	_, otherTotal, err := repo.ListForCompany(ctx, uuid.New(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), otherTotal)
}
