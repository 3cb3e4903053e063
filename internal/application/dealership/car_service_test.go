package dealership

import (
	"context"
	"testing"

	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/dealerdesk/backend/internal/infrastructure/vehicle"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCarService_CreateCar_NormalizesAndPersists(t *testing.T) {
	env := newDealershipTestEnv(t)
	ctx := context.Background()
	companyID := uuid.New()

	resp, err := env.carService.CreateCar(ctx, companyID, testCarRequest(" ab12345 "))
	require.NoError(t, err)
	assert.Equal(t, "AB12345", resp.RegistrationNumber)
	assert.Equal(t, "in_stock", resp.Status)
	assert.True(t, resp.ListPrice.Equal(decimal.NewFromInt(289000)))
}

func TestCarService_CreateCar_DuplicateRegistration(t *testing.T) {
	env := newDealershipTestEnv(t)
	ctx := context.Background()
	companyID := uuid.New()

	_, err := env.carService.CreateCar(ctx, companyID, testCarRequest("AB12345"))
	require.NoError(t, err)

	_, err = env.carService.CreateCar(ctx, companyID, testCarRequest("ab12345"))
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_REGISTRATION", domainErr.Code)

	// Another company may hold the same registration number
	_, err = env.carService.CreateCar(ctx, uuid.New(), testCarRequest("AB12345"))
	assert.NoError(t, err)
}

func TestCarService_UpdateCar_PartialEdit(t *testing.T) {
	env := newDealershipTestEnv(t)
	ctx := context.Background()
	companyID := uuid.New()

	created, err := env.carService.CreateCar(ctx, companyID, testCarRequest("AB12345"))
	require.NoError(t, err)

	mileage := 50000
	price := decimal.NewFromInt(279000)
	updated, err := env.carService.UpdateCar(ctx, companyID, created.ID, UpdateCarRequest{
		Mileage:   &mileage,
		ListPrice: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, 50000, updated.Mileage)
	assert.True(t, updated.ListPrice.Equal(price))
	assert.Equal(t, "Volkswagen", updated.Make, "untouched fields keep their values")
}

func TestCarService_ListCars_StatusFilter(t *testing.T) {
	env := newDealershipTestEnv(t)
	ctx := context.Background()
	companyID := uuid.New()

	_, err := env.carService.CreateCar(ctx, companyID, testCarRequest("AB12345"))
	require.NoError(t, err)
	_, err = env.carService.CreateCar(ctx, companyID, testCarRequest("CD67890"))
	require.NoError(t, err)

	cars, total, err := env.carService.ListCars(ctx, companyID, "in_stock", "", "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, cars, 2)

	_, _, err = env.carService.ListCars(ctx, companyID, "wrecked", "", "", 10, 0)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}

func TestCarService_DeleteCar_ReservedCarRejected(t *testing.T) {
	env := newDealershipTestEnv(t)
	ctx := context.Background()
	companyID := uuid.New()

	created, err := env.carService.CreateCar(ctx, companyID, testCarRequest("AB12345"))
	require.NoError(t, err)
	customer, err := env.customerService.CreateCustomer(ctx, companyID, testCustomerRequest("Kari Nordmann"))
	require.NoError(t, err)
	_, err = env.contractService.CreateContract(ctx, companyID, CreateContractRequest{
		CustomerID: customer.ID,
		CarID:      created.ID,
	})
	require.NoError(t, err)

	err = env.carService.DeleteCar(ctx, companyID, created.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CAR_RESERVED", domainErr.Code)
}

func TestCarService_LookupRegistration(t *testing.T) {
	env := newDealershipTestEnv(t)
	ctx := context.Background()

	env.registry.On("Lookup", mock.Anything, "AB12345").Return(&vehicle.Info{
		RegistrationNumber: "AB12345",
		VIN:                "WVWZZZ1KZAW000001",
		Make:               "Volkswagen",
		Model:              "Golf",
		Year:               2021,
		FuelType:           "Bensin",
	}, nil)

	resp, err := env.carService.LookupRegistration(ctx, "AB12345")
	require.NoError(t, err)
	assert.Equal(t, "Volkswagen", resp.Make)
	assert.Equal(t, 2021, resp.Year)
}

func TestCarService_LookupRegistration_NotFound(t *testing.T) {
	env := newDealershipTestEnv(t)

	env.registry.On("Lookup", mock.Anything, "ZZ99999").Return(nil, vehicle.ErrVehicleNotFound)

	_, err := env.carService.LookupRegistration(context.Background(), "ZZ99999")
	assert.ErrorIs(t, err, vehicle.ErrVehicleNotFound)
}
