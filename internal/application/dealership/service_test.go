package dealership

import (
	"context"
	"testing"

	"github.com/dealerdesk/backend/internal/infrastructure/persistence"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/dealerdesk/backend/internal/infrastructure/vehicle"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockVehicleRegistry is a mock implementation of VehicleRegistry
type MockVehicleRegistry struct {
	mock.Mock
}

func (m *MockVehicleRegistry) Lookup(ctx context.Context, regNr string) (*vehicle.Info, error) {
	args := m.Called(ctx, regNr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vehicle.Info), args.Error(1)
}

type dealershipTestEnv struct {
	registry        *MockVehicleRegistry
	carRepo         *persistence.GormCarRepository
	customerRepo    *persistence.GormCustomerRepository
	contractRepo    *persistence.GormContractRepository
	carService      *CarService
	customerService *CustomerService
	contractService *ContractService
}

func newDealershipTestEnv(t *testing.T) *dealershipTestEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.CarModel{},
		&models.CustomerModel{},
		&models.ContractModel{},
		&models.ContractLineModel{},
	)
	require.NoError(t, err)

	env := &dealershipTestEnv{
		registry:     new(MockVehicleRegistry),
		carRepo:      persistence.NewGormCarRepository(db),
		customerRepo: persistence.NewGormCustomerRepository(db),
		contractRepo: persistence.NewGormContractRepository(db),
	}
	env.carService = NewCarService(env.carRepo, env.registry)
	env.customerService = NewCustomerService(env.customerRepo)
	env.contractService = NewContractService(env.contractRepo, env.carRepo, env.customerRepo, zap.NewNop())
	return env
}

func testCarRequest(regNr string) CreateCarRequest {
	return CreateCarRequest{
		RegistrationNumber: regNr,
		VIN:                "WVWZZZ1KZAW000001",
		Make:               "Volkswagen",
		Model:              "Golf",
		Year:               2021,
		Mileage:            42000,
		FuelType:           "Bensin",
		Gearbox:            "Automat",
		PurchasePrice:      decimal.NewFromInt(210000),
		ListPrice:          decimal.NewFromInt(289000),
	}
}

func testCustomerRequest(name string) CreateCustomerRequest {
	return CreateCustomerRequest{
		Type:  "person",
		Name:  name,
		Email: "kunde@example.com",
		Phone: "+47 99 88 77 66",
	}
}
