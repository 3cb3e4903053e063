package dealership

import (
	"context"
	"errors"

	"github.com/dealerdesk/backend/internal/domain/dealership"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/dealerdesk/backend/internal/infrastructure/vehicle"
	"github.com/google/uuid"
)

// VehicleRegistry looks up technical data by registration number
type VehicleRegistry interface {
	Lookup(ctx context.Context, regNr string) (*vehicle.Info, error)
}

// CarService manages the car inventory
type CarService struct {
	carRepo  dealership.CarRepository
	registry VehicleRegistry
}

// NewCarService creates a new CarService
func NewCarService(carRepo dealership.CarRepository, registry VehicleRegistry) *CarService {
	return &CarService{carRepo: carRepo, registry: registry}
}

// CreateCar registers a car. Registration numbers are unique per company.
func (s *CarService) CreateCar(ctx context.Context, companyID uuid.UUID, req CreateCarRequest) (*CarResponse, error) {
	existing, err := s.carRepo.FindByRegistrationNumber(ctx, companyID, req.RegistrationNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_REGISTRATION", "A car with this registration number already exists")
	}

	car := dealership.NewCar(companyID, req.RegistrationNumber, req.VIN, req.Make, req.Model, req.Year)
	car.Mileage = req.Mileage
	car.FuelType = req.FuelType
	car.Gearbox = req.Gearbox
	car.Driveline = req.Driveline
	car.Color = req.Color
	car.EquipmentCount = req.EquipmentCount
	car.PurchasePrice = req.PurchasePrice
	car.ListPrice = req.ListPrice

	if err := s.carRepo.Save(ctx, car); err != nil {
		return nil, err
	}
	return toCarResponse(car), nil
}

// UpdateCar edits mutable car fields
func (s *CarService) UpdateCar(ctx context.Context, companyID, carID uuid.UUID, req UpdateCarRequest) (*CarResponse, error) {
	car, err := s.carRepo.FindByID(ctx, companyID, carID)
	if err != nil {
		return nil, err
	}

	if req.Mileage != nil {
		car.Mileage = *req.Mileage
	}
	if req.Color != nil {
		car.Color = *req.Color
	}
	if req.EquipmentCount != nil {
		car.EquipmentCount = *req.EquipmentCount
	}
	if req.PurchasePrice != nil {
		car.PurchasePrice = *req.PurchasePrice
	}
	if req.ListPrice != nil {
		car.ListPrice = *req.ListPrice
	}

	if err := s.carRepo.Save(ctx, car); err != nil {
		return nil, err
	}
	return toCarResponse(car), nil
}

// GetCar returns one car
func (s *CarService) GetCar(ctx context.Context, companyID, carID uuid.UUID) (*CarResponse, error) {
	car, err := s.carRepo.FindByID(ctx, companyID, carID)
	if err != nil {
		return nil, err
	}
	return toCarResponse(car), nil
}

// ListCars lists the company's cars, optionally filtered by status and
// sorted by a whitelisted column
func (s *CarService) ListCars(ctx context.Context, companyID uuid.UUID, status, sortBy, sortDir string, limit, offset int) ([]CarResponse, int64, error) {
	var filter *dealership.CarStatus
	if status != "" {
		parsed := dealership.CarStatus(status)
		if !parsed.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown car status "+status)
		}
		filter = &parsed
	}

	cars, total, err := s.carRepo.ListForCompany(ctx, companyID, filter, sortBy, sortDir, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CarResponse, len(cars))
	for i := range cars {
		responses[i] = *toCarResponse(&cars[i])
	}
	return responses, total, nil
}

// DeleteCar removes a car that is not reserved by an open contract
func (s *CarService) DeleteCar(ctx context.Context, companyID, carID uuid.UUID) error {
	car, err := s.carRepo.FindByID(ctx, companyID, carID)
	if err != nil {
		return err
	}
	if car.Status == dealership.CarStatusReserved {
		return shared.NewDomainError("CAR_RESERVED", "The car is reserved by an open contract")
	}
	return s.carRepo.Delete(ctx, companyID, carID)
}

// LookupRegistration proxies the national vehicle registry to prefill
// technical data for a registration number
func (s *CarService) LookupRegistration(ctx context.Context, regNr string) (*RegistryLookupResponse, error) {
	info, err := s.registry.Lookup(ctx, regNr)
	if err != nil {
		return nil, err
	}
	return toRegistryLookupResponse(info), nil
}
