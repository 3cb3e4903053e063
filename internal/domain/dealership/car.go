package dealership

import (
	"strconv"
	"strings"
	"time"

	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarStatus is the inventory state of a car
type CarStatus string

const (
	CarStatusInStock  CarStatus = "in_stock"
	CarStatusReserved CarStatus = "reserved"
	CarStatusSold     CarStatus = "sold"
)

// IsValid returns true if the status is a valid CarStatus
func (s CarStatus) IsValid() bool {
	switch s {
	case CarStatusInStock, CarStatusReserved, CarStatusSold:
		return true
	}
	return false
}

// String returns the string representation of CarStatus
func (s CarStatus) String() string {
	return string(s)
}

// Car is a vehicle in the dealership's inventory
type Car struct {
	shared.CompanyEntity
	RegistrationNumber string
	VIN                string
	Make               string
	Model              string
	Year               int
	Mileage            int
	FuelType           string
	Gearbox            string
	Driveline          string
	Color              string
	EquipmentCount     int
	Status             CarStatus
	PurchasePrice      decimal.Decimal
	ListPrice          decimal.Decimal
	SoldAt             *time.Time
}

// NewCar creates a car in stock
func NewCar(companyID uuid.UUID, regNr, vin, carMake, model string, year int) *Car {
	return &Car{
		CompanyEntity:      shared.NewCompanyEntity(companyID),
		RegistrationNumber: strings.ToUpper(strings.TrimSpace(regNr)),
		VIN:                strings.ToUpper(strings.TrimSpace(vin)),
		Make:               carMake,
		Model:              model,
		Year:               year,
		Status:             CarStatusInStock,
	}
}

// Reserve marks the car as reserved for a pending contract
func (c *Car) Reserve() error {
	if c.Status != CarStatusInStock {
		return shared.ErrInvalidState
	}
	c.Status = CarStatusReserved
	c.UpdatedAt = time.Now()
	return nil
}

// ReturnToStock puts a reserved or sold car back in stock after a
// contract falls through
func (c *Car) ReturnToStock() error {
	if c.Status == CarStatusInStock {
		return shared.ErrInvalidState
	}
	c.Status = CarStatusInStock
	c.SoldAt = nil
	c.UpdatedAt = time.Now()
	return nil
}

// MarkSold marks the car as sold
func (c *Car) MarkSold(at time.Time) error {
	if c.Status == CarStatusSold {
		return shared.ErrInvalidState
	}
	c.Status = CarStatusSold
	c.SoldAt = &at
	c.UpdatedAt = time.Now()
	return nil
}

// DisplayName returns a human-readable identification of the car
func (c *Car) DisplayName() string {
	parts := []string{c.Make, c.Model}
	if c.Year > 0 {
		parts = append(parts, strconv.Itoa(c.Year))
	}
	return strings.Join(parts, " ")
}
