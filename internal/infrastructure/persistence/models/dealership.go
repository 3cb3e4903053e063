package models

import (
	"time"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/domain/dealership"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarModel persists one inventory car
type CarModel struct {
	CompanyModel
	RegistrationNumber string               `gorm:"type:varchar(20);not null;index"`
	VIN                string               `gorm:"type:varchar(30);column:vin"`
	Make               string               `gorm:"type:varchar(50);not null"`
	Model              string               `gorm:"type:varchar(100);not null"`
	Year               int                  `gorm:"not null"`
	Mileage            int                  `gorm:"not null;default:0"`
	FuelType           string               `gorm:"type:varchar(30)"`
	Gearbox            string               `gorm:"type:varchar(30)"`
	Driveline          string               `gorm:"type:varchar(30)"`
	Color              string               `gorm:"type:varchar(30)"`
	EquipmentCount     int                  `gorm:"not null;default:0"`
	Status             dealership.CarStatus `gorm:"type:varchar(20);not null;index"`
	PurchasePrice      decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	ListPrice          decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	SoldAt             *time.Time
}

// TableName returns the table name for GORM
func (CarModel) TableName() string {
	return "cars"
}

// ToDomain converts the model to a domain Car
func (m *CarModel) ToDomain() *dealership.Car {
	return &dealership.Car{
		CompanyEntity:      m.CompanyModel.ToDomain(),
		RegistrationNumber: m.RegistrationNumber,
		VIN:                m.VIN,
		Make:               m.Make,
		Model:              m.Model,
		Year:               m.Year,
		Mileage:            m.Mileage,
		FuelType:           m.FuelType,
		Gearbox:            m.Gearbox,
		Driveline:          m.Driveline,
		Color:              m.Color,
		EquipmentCount:     m.EquipmentCount,
		Status:             m.Status,
		PurchasePrice:      m.PurchasePrice,
		ListPrice:          m.ListPrice,
		SoldAt:             m.SoldAt,
	}
}

// FromDomain populates the model from a domain Car
func (m *CarModel) FromDomain(c *dealership.Car) {
	m.CompanyModel.FromDomain(c.CompanyEntity)
	m.RegistrationNumber = c.RegistrationNumber
	m.VIN = c.VIN
	m.Make = c.Make
	m.Model = c.Model
	m.Year = c.Year
	m.Mileage = c.Mileage
	m.FuelType = c.FuelType
	m.Gearbox = c.Gearbox
	m.Driveline = c.Driveline
	m.Color = c.Color
	m.EquipmentCount = c.EquipmentCount
	m.Status = c.Status
	m.PurchasePrice = c.PurchasePrice
	m.ListPrice = c.ListPrice
	m.SoldAt = c.SoldAt
}

// CustomerModel persists one customer
type CustomerModel struct {
	CompanyModel
	Type               dealership.CustomerType `gorm:"type:varchar(20);not null"`
	Name               string                  `gorm:"type:varchar(200);not null;index"`
	OrganizationNumber string                  `gorm:"type:varchar(20)"`
	Email              string                  `gorm:"type:varchar(200)"`
	Phone              string                  `gorm:"type:varchar(30)"`
	Address            string                  `gorm:"type:varchar(200)"`
	PostalCode         string                  `gorm:"type:varchar(10)"`
	City               string                  `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *dealership.Customer {
	return &dealership.Customer{
		CompanyEntity:      m.CompanyModel.ToDomain(),
		Type:               m.Type,
		Name:               m.Name,
		OrganizationNumber: m.OrganizationNumber,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            m.Address,
		PostalCode:         m.PostalCode,
		City:               m.City,
	}
}

// FromDomain populates the model from a domain Customer
func (m *CustomerModel) FromDomain(c *dealership.Customer) {
	m.CompanyModel.FromDomain(c.CompanyEntity)
	m.Type = c.Type
	m.Name = c.Name
	m.OrganizationNumber = c.OrganizationNumber
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.PostalCode = c.PostalCode
	m.City = c.City
}

// ContractModel persists one sales contract. Lines live in their own table
// and are loaded with the contract. The optional trade-in is flattened into
// nullable columns instead of a separate table.
type ContractModel struct {
	CompanyModel
	ContractNumber   string                    `gorm:"type:varchar(30);not null;index"`
	CustomerID       uuid.UUID                 `gorm:"type:uuid;not null;index"`
	CarID            uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Status           dealership.ContractStatus `gorm:"type:varchar(20);not null;index"`
	Lines            []ContractLineModel       `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE"`
	TradeInRegNr     *string                   `gorm:"type:varchar(20);column:trade_in_reg_nr"`
	TradeInDesc      *string                   `gorm:"type:varchar(200);column:trade_in_desc"`
	TradeInValuation *decimal.Decimal          `gorm:"type:decimal(12,2)"`
	SignedAt         *time.Time
	OrderSentAt      *time.Time
	InvoicedAt       *time.Time
	PaidAt           *time.Time
	CancelledAt      *time.Time
	Notes            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the model and its lines to a domain Contract
func (m *ContractModel) ToDomain() *dealership.Contract {
	contract := &dealership.Contract{
		CompanyEntity:  m.CompanyModel.ToDomain(),
		ContractNumber: m.ContractNumber,
		CustomerID:     m.CustomerID,
		CarID:          m.CarID,
		Status:         m.Status,
		SignedAt:       m.SignedAt,
		OrderSentAt:    m.OrderSentAt,
		InvoicedAt:     m.InvoicedAt,
		PaidAt:         m.PaidAt,
		CancelledAt:    m.CancelledAt,
		Notes:          m.Notes,
	}
	for i := range m.Lines {
		contract.Lines = append(contract.Lines, m.Lines[i].ToDomain())
	}
	if m.TradeInRegNr != nil && m.TradeInValuation != nil {
		tradeIn := &dealership.TradeIn{
			RegistrationNumber: *m.TradeInRegNr,
			Valuation:          *m.TradeInValuation,
		}
		if m.TradeInDesc != nil {
			tradeIn.Description = *m.TradeInDesc
		}
		contract.TradeIn = tradeIn
	}
	return contract
}

// FromDomain populates the model and its lines from a domain Contract
func (m *ContractModel) FromDomain(c *dealership.Contract) {
	m.CompanyModel.FromDomain(c.CompanyEntity)
	m.ContractNumber = c.ContractNumber
	m.CustomerID = c.CustomerID
	m.CarID = c.CarID
	m.Status = c.Status
	m.SignedAt = c.SignedAt
	m.OrderSentAt = c.OrderSentAt
	m.InvoicedAt = c.InvoicedAt
	m.PaidAt = c.PaidAt
	m.CancelledAt = c.CancelledAt
	m.Notes = c.Notes
	m.Lines = m.Lines[:0]
	for i := range c.Lines {
		var line ContractLineModel
		line.FromDomain(&c.Lines[i], c.ID)
		line.Position = i
		m.Lines = append(m.Lines, line)
	}
	if c.TradeIn != nil {
		regNr := c.TradeIn.RegistrationNumber
		desc := c.TradeIn.Description
		valuation := c.TradeIn.Valuation
		m.TradeInRegNr = &regNr
		m.TradeInDesc = &desc
		m.TradeInValuation = &valuation
	} else {
		m.TradeInRegNr = nil
		m.TradeInDesc = nil
		m.TradeInValuation = nil
	}
}

// ContractLineModel persists one contract line
type ContractLineModel struct {
	ID          uuid.UUID           `gorm:"type:uuid;primary_key"`
	ContractID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Position    int                 `gorm:"not null;default:0"`
	Description string              `gorm:"type:varchar(200);not null"`
	SKU         string              `gorm:"type:varchar(50);column:sku"`
	Category    accounting.Category `gorm:"type:varchar(30);not null"`
	Quantity    decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	UnitPrice   decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ContractLineModel) TableName() string {
	return "contract_lines"
}

// ToDomain converts the model to a domain ContractLine
func (m *ContractLineModel) ToDomain() dealership.ContractLine {
	return dealership.ContractLine{
		ID:          m.ID,
		ContractID:  m.ContractID,
		Description: m.Description,
		SKU:         m.SKU,
		Category:    m.Category,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
	}
}

// FromDomain populates the model from a domain ContractLine
func (m *ContractLineModel) FromDomain(l *dealership.ContractLine, contractID uuid.UUID) {
	m.ID = l.ID
	m.ContractID = contractID
	m.Description = l.Description
	m.SKU = l.SKU
	m.Category = l.Category
	m.Quantity = l.Quantity
	m.UnitPrice = l.UnitPrice
}
