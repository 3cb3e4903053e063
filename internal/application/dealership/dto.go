package dealership

import (
	"time"

	"github.com/dealerdesk/backend/internal/domain/dealership"
	"github.com/dealerdesk/backend/internal/infrastructure/vehicle"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCarRequest registers a car in the inventory
type CreateCarRequest struct {
	RegistrationNumber string          `json:"registration_number" binding:"required,regnr"`
	VIN                string          `json:"vin"`
	Make               string          `json:"make" binding:"required"`
	Model              string          `json:"model" binding:"required"`
	Year               int             `json:"year" binding:"required,min=1950"`
	Mileage            int             `json:"mileage" binding:"min=0"`
	FuelType           string          `json:"fuel_type"`
	Gearbox            string          `json:"gearbox"`
	Driveline          string          `json:"driveline"`
	Color              string          `json:"color"`
	EquipmentCount     int             `json:"equipment_count"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	ListPrice          decimal.Decimal `json:"list_price"`
}

// UpdateCarRequest edits mutable car fields
type UpdateCarRequest struct {
	Mileage        *int             `json:"mileage"`
	Color          *string          `json:"color"`
	EquipmentCount *int             `json:"equipment_count"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	ListPrice      *decimal.Decimal `json:"list_price"`
}

// CarResponse is the API view of a car
type CarResponse struct {
	ID                 uuid.UUID       `json:"id"`
	RegistrationNumber string          `json:"registration_number"`
	VIN                string          `json:"vin,omitempty"`
	Make               string          `json:"make"`
	Model              string          `json:"model"`
	Year               int             `json:"year"`
	Mileage            int             `json:"mileage"`
	FuelType           string          `json:"fuel_type,omitempty"`
	Gearbox            string          `json:"gearbox,omitempty"`
	Driveline          string          `json:"driveline,omitempty"`
	Color              string          `json:"color,omitempty"`
	EquipmentCount     int             `json:"equipment_count"`
	Status             string          `json:"status"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	ListPrice          decimal.Decimal `json:"list_price"`
	SoldAt             *time.Time      `json:"sold_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// RegistryLookupResponse carries technical data from the national vehicle
// registry used to prefill a car form
type RegistryLookupResponse struct {
	RegistrationNumber string `json:"registration_number"`
	VIN                string `json:"vin,omitempty"`
	Make               string `json:"make"`
	Model              string `json:"model"`
	Year               int    `json:"year"`
	FuelType           string `json:"fuel_type,omitempty"`
	Gearbox            string `json:"gearbox,omitempty"`
	Driveline          string `json:"driveline,omitempty"`
	Color              string `json:"color,omitempty"`
}

// CreateCustomerRequest registers a customer
type CreateCustomerRequest struct {
	Type               string `json:"type" binding:"required,oneof=person organization"`
	Name               string `json:"name" binding:"required"`
	OrganizationNumber string `json:"organization_number"`
	Email              string `json:"email" binding:"omitempty,email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	PostalCode         string `json:"postal_code"`
	City               string `json:"city"`
}

// UpdateCustomerRequest edits customer contact fields
type UpdateCustomerRequest struct {
	Name               *string `json:"name"`
	OrganizationNumber *string `json:"organization_number"`
	Email              *string `json:"email" binding:"omitempty,email"`
	Phone              *string `json:"phone"`
	Address            *string `json:"address"`
	PostalCode         *string `json:"postal_code"`
	City               *string `json:"city"`
}

// CustomerResponse is the API view of a customer
type CustomerResponse struct {
	ID                 uuid.UUID `json:"id"`
	Type               string    `json:"type"`
	Name               string    `json:"name"`
	OrganizationNumber string    `json:"organization_number,omitempty"`
	Email              string    `json:"email,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Address            string    `json:"address,omitempty"`
	PostalCode         string    `json:"postal_code,omitempty"`
	City               string    `json:"city,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// ContractLineRequest is one additional line on a new contract. The car
// line is always derived from the car itself.
type ContractLineRequest struct {
	Description string          `json:"description" binding:"required"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// TradeInRequest attaches a trade-in valuation to a contract
type TradeInRequest struct {
	RegistrationNumber string          `json:"registration_number" binding:"required"`
	Description        string          `json:"description"`
	Valuation          decimal.Decimal `json:"valuation" binding:"required"`
}

// CreateContractRequest creates a draft contract
type CreateContractRequest struct {
	CustomerID uuid.UUID             `json:"customer_id" binding:"required"`
	CarID      uuid.UUID             `json:"car_id" binding:"required"`
	Lines      []ContractLineRequest `json:"lines"`
	TradeIn    *TradeInRequest       `json:"trade_in"`
	Notes      string                `json:"notes"`
}

// UpdateContractRequest replaces the editable parts of a draft contract
type UpdateContractRequest struct {
	Lines   []ContractLineRequest `json:"lines"`
	TradeIn *TradeInRequest       `json:"trade_in"`
	Notes   string                `json:"notes"`
}

// ContractLineResponse is the API view of one contract line
type ContractLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	SKU         string          `json:"sku,omitempty"`
	Category    string          `json:"category"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// TradeInResponse is the API view of a trade-in
type TradeInResponse struct {
	RegistrationNumber string          `json:"registration_number"`
	Description        string          `json:"description,omitempty"`
	Valuation          decimal.Decimal `json:"valuation"`
}

// ContractResponse is the API view of a contract
type ContractResponse struct {
	ID             uuid.UUID              `json:"id"`
	ContractNumber string                 `json:"contract_number"`
	CustomerID     uuid.UUID              `json:"customer_id"`
	CarID          uuid.UUID              `json:"car_id"`
	Status         string                 `json:"status"`
	Lines          []ContractLineResponse `json:"lines"`
	TradeIn        *TradeInResponse       `json:"trade_in,omitempty"`
	Total          decimal.Decimal        `json:"total"`
	Notes          string                 `json:"notes,omitempty"`
	SignedAt       *time.Time             `json:"signed_at,omitempty"`
	OrderSentAt    *time.Time             `json:"order_sent_at,omitempty"`
	InvoicedAt     *time.Time             `json:"invoiced_at,omitempty"`
	PaidAt         *time.Time             `json:"paid_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

func toCarResponse(car *dealership.Car) *CarResponse {
	return &CarResponse{
		ID:                 car.ID,
		RegistrationNumber: car.RegistrationNumber,
		VIN:                car.VIN,
		Make:               car.Make,
		Model:              car.Model,
		Year:               car.Year,
		Mileage:            car.Mileage,
		FuelType:           car.FuelType,
		Gearbox:            car.Gearbox,
		Driveline:          car.Driveline,
		Color:              car.Color,
		EquipmentCount:     car.EquipmentCount,
		Status:             car.Status.String(),
		PurchasePrice:      car.PurchasePrice,
		ListPrice:          car.ListPrice,
		SoldAt:             car.SoldAt,
		CreatedAt:          car.CreatedAt,
	}
}

func toRegistryLookupResponse(info *vehicle.Info) *RegistryLookupResponse {
	return &RegistryLookupResponse{
		RegistrationNumber: info.RegistrationNumber,
		VIN:                info.VIN,
		Make:               info.Make,
		Model:              info.Model,
		Year:               info.Year,
		FuelType:           info.FuelType,
		Gearbox:            info.Gearbox,
		Driveline:          info.Driveline,
		Color:              info.Color,
	}
}

func toCustomerResponse(customer *dealership.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:                 customer.ID,
		Type:               string(customer.Type),
		Name:               customer.Name,
		OrganizationNumber: customer.OrganizationNumber,
		Email:              customer.Email,
		Phone:              customer.Phone,
		Address:            customer.Address,
		PostalCode:         customer.PostalCode,
		City:               customer.City,
		CreatedAt:          customer.CreatedAt,
	}
}

func toContractResponse(contract *dealership.Contract) *ContractResponse {
	resp := &ContractResponse{
		ID:             contract.ID,
		ContractNumber: contract.ContractNumber,
		CustomerID:     contract.CustomerID,
		CarID:          contract.CarID,
		Status:         contract.Status.String(),
		Lines:          make([]ContractLineResponse, 0, len(contract.Lines)),
		Total:          contract.Total(),
		Notes:          contract.Notes,
		SignedAt:       contract.SignedAt,
		OrderSentAt:    contract.OrderSentAt,
		InvoicedAt:     contract.InvoicedAt,
		PaidAt:         contract.PaidAt,
		CancelledAt:    contract.CancelledAt,
		CreatedAt:      contract.CreatedAt,
	}
	for i := range contract.Lines {
		line := &contract.Lines[i]
		resp.Lines = append(resp.Lines, ContractLineResponse{
			ID:          line.ID,
			Description: line.Description,
			SKU:         line.SKU,
			Category:    line.Category.String(),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount(),
		})
	}
	if contract.TradeIn != nil {
		resp.TradeIn = &TradeInResponse{
			RegistrationNumber: contract.TradeIn.RegistrationNumber,
			Description:        contract.TradeIn.Description,
			Valuation:          contract.TradeIn.Valuation,
		}
	}
	return resp
}
