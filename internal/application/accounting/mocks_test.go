package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/infrastructure/cache"
	"github.com/dealerdesk/backend/internal/infrastructure/crypto"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockProvider is a mock implementation of accounting.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Code() accounting.ProviderCode {
	return accounting.ProviderCodePowerOffice
}

func (m *MockProvider) AuthorizeURL(state string) string {
	return "https://auth.example.com/authorize?state=" + state
}

func (m *MockProvider) ExchangeCode(ctx context.Context, code string) (*accounting.TokenResponse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.TokenResponse), args.Error(1)
}

func (m *MockProvider) RefreshAccessToken(ctx context.Context, refreshToken string) (*accounting.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.TokenResponse), args.Error(1)
}

func (m *MockProvider) RevokeTokens(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *MockProvider) ValidateConnection(ctx context.Context, accessToken string) (bool, error) {
	args := m.Called(ctx, accessToken)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) UpsertCustomer(ctx context.Context, accessToken string, customer accounting.CustomerData) (*accounting.RemoteCustomer, error) {
	args := m.Called(ctx, accessToken, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.RemoteCustomer), args.Error(1)
}

func (m *MockProvider) UpsertProduct(ctx context.Context, accessToken string, product accounting.ProductData) (*accounting.RemoteProduct, error) {
	args := m.Called(ctx, accessToken, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.RemoteProduct), args.Error(1)
}

func (m *MockProvider) CreateOrder(ctx context.Context, accessToken string, draft *accounting.OrderDraft) (*accounting.RemoteOrder, error) {
	args := m.Called(ctx, accessToken, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.RemoteOrder), args.Error(1)
}

func (m *MockProvider) ConvertOrderToInvoice(ctx context.Context, accessToken string, orderID string) (*accounting.RemoteInvoice, error) {
	args := m.Called(ctx, accessToken, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.RemoteInvoice), args.Error(1)
}

func (m *MockProvider) GetInvoice(ctx context.Context, accessToken string, invoiceID string) (*accounting.RemoteInvoice, error) {
	args := m.Called(ctx, accessToken, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.RemoteInvoice), args.Error(1)
}

func (m *MockProvider) ListPayments(ctx context.Context, accessToken string, since *time.Time) ([]accounting.RemotePayment, error) {
	args := m.Called(ctx, accessToken, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.RemotePayment), args.Error(1)
}

func (m *MockProvider) GetVATCodes(ctx context.Context, accessToken string) ([]accounting.VATCode, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.VATCode), args.Error(1)
}

func (m *MockProvider) GetAccounts(ctx context.Context, accessToken string) ([]accounting.LedgerAccount, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.LedgerAccount), args.Error(1)
}

// syncTestEnv wires real repositories over an in-memory database around a
// mocked provider
type syncTestEnv struct {
	db           *gorm.DB
	provider     *MockProvider
	settingsRepo *persistence.GormSettingsRepository
	mappingRepo  *persistence.GormMappingRepository
	linkRepo     *persistence.GormLinkRepository
	jobRepo      *persistence.GormSyncJobRepository
	logRepo      *persistence.GormSyncLogRepository
	contractRepo *persistence.GormContractRepository
	customerRepo *persistence.GormCustomerRepository
	stateStore   *cache.InMemoryStateStore
}

func newSyncTestEnv(t *testing.T) *syncTestEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.AccountingSettingsModel{},
		&models.VatMappingModel{},
		&models.AccountMappingModel{},
		&models.AccountingLinkModel{},
		&models.SyncJobModel{},
		&models.SyncLogModel{},
		&models.CarModel{},
		&models.CustomerModel{},
		&models.ContractModel{},
		&models.ContractLineModel{},
	)
	require.NoError(t, err)

	cipher, err := crypto.NewTokenCipher("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	stateStore := cache.NewInMemoryStateStore()
	t.Cleanup(stateStore.Close)

	return &syncTestEnv{
		db:           db,
		provider:     new(MockProvider),
		settingsRepo: persistence.NewGormSettingsRepository(db, cipher),
		mappingRepo:  persistence.NewGormMappingRepository(db),
		linkRepo:     persistence.NewGormLinkRepository(db),
		jobRepo:      persistence.NewGormSyncJobRepository(db),
		logRepo:      persistence.NewGormSyncLogRepository(db),
		contractRepo: persistence.NewGormContractRepository(db),
		customerRepo: persistence.NewGormCustomerRepository(db),
		stateStore:   stateStore,
	}
}
