package dealership

import (
	"time"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractStatus is the lifecycle state of a sales contract
type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "draft"
	ContractStatusSigned    ContractStatus = "signed"
	ContractStatusOrderSent ContractStatus = "order_sent"
	ContractStatusInvoiced  ContractStatus = "invoiced"
	ContractStatusPaid      ContractStatus = "paid"
	ContractStatusCancelled ContractStatus = "cancelled"
)

// IsValid returns true if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusSigned, ContractStatusOrderSent,
		ContractStatusInvoiced, ContractStatusPaid, ContractStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if the contract is in a terminal state
func (s ContractStatus) IsTerminal() bool {
	return s == ContractStatusPaid || s == ContractStatusCancelled
}

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// ContractLine is one sellable line on a contract: the car itself, an
// add-on, a part, labor or a fee. Category selects the VAT and ledger
// account mappings when the order is sent to accounting.
type ContractLine struct {
	ID          uuid.UUID
	ContractID  uuid.UUID
	Description string
	SKU         string
	Category    accounting.Category
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Amount returns quantity times unit price
func (l *ContractLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(l.Quantity)
}

// TradeIn is an optional trade-in vehicle valuation applied to a contract.
// Its valuation is deducted from the contract total and produces a
// negative-amount order line.
type TradeIn struct {
	RegistrationNumber string
	Description        string
	Valuation          decimal.Decimal
}

// Contract is a sales contract between the dealership and a customer
type Contract struct {
	shared.CompanyEntity
	ContractNumber string
	CustomerID     uuid.UUID
	CarID          uuid.UUID
	Status         ContractStatus
	Lines          []ContractLine
	TradeIn        *TradeIn
	SignedAt       *time.Time
	OrderSentAt    *time.Time
	InvoicedAt     *time.Time
	PaidAt         *time.Time
	CancelledAt    *time.Time
	Notes          string
}

// NewContract creates a draft contract for a customer and car, seeded with
// the mandatory car line.
func NewContract(companyID, customerID, carID uuid.UUID, contractNumber, carDescription string, carPrice decimal.Decimal) *Contract {
	contract := &Contract{
		CompanyEntity:  shared.NewCompanyEntity(companyID),
		ContractNumber: contractNumber,
		CustomerID:     customerID,
		CarID:          carID,
		Status:         ContractStatusDraft,
	}
	contract.Lines = append(contract.Lines, ContractLine{
		ID:          uuid.New(),
		ContractID:  contract.ID,
		Description: carDescription,
		Category:    accounting.CategoryCar,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   carPrice,
	})
	return contract
}

// AddLine appends a line to a draft contract
func (c *Contract) AddLine(description, sku string, category accounting.Category, quantity, unitPrice decimal.Decimal) error {
	if c.Status != ContractStatusDraft {
		return shared.ErrInvalidState
	}
	if !category.IsValid() {
		return shared.ErrInvalidInput
	}
	c.Lines = append(c.Lines, ContractLine{
		ID:          uuid.New(),
		ContractID:  c.ID,
		Description: description,
		SKU:         sku,
		Category:    category,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	})
	c.UpdatedAt = time.Now()
	return nil
}

// SetTradeIn attaches a trade-in valuation to a draft contract
func (c *Contract) SetTradeIn(regNr, description string, valuation decimal.Decimal) error {
	if c.Status != ContractStatusDraft {
		return shared.ErrInvalidState
	}
	c.TradeIn = &TradeIn{
		RegistrationNumber: regNr,
		Description:        description,
		Valuation:          valuation,
	}
	c.UpdatedAt = time.Now()
	return nil
}

// Sign transitions draft -> signed
func (c *Contract) Sign(at time.Time) error {
	if c.Status != ContractStatusDraft {
		return shared.ErrInvalidState
	}
	if len(c.Lines) == 0 {
		return shared.ErrInvalidState
	}
	c.Status = ContractStatusSigned
	c.SignedAt = &at
	c.UpdatedAt = time.Now()
	return nil
}

// MarkOrderSent transitions signed -> order_sent once the accounting order
// link exists
func (c *Contract) MarkOrderSent(at time.Time) error {
	if c.Status != ContractStatusSigned {
		return shared.ErrInvalidState
	}
	c.Status = ContractStatusOrderSent
	c.OrderSentAt = &at
	c.UpdatedAt = time.Now()
	return nil
}

// MarkInvoiced transitions order_sent -> invoiced
func (c *Contract) MarkInvoiced(at time.Time) error {
	if c.Status != ContractStatusOrderSent {
		return shared.ErrInvalidState
	}
	c.Status = ContractStatusInvoiced
	c.InvoicedAt = &at
	c.UpdatedAt = time.Now()
	return nil
}

// MarkPaid transitions invoiced -> paid
func (c *Contract) MarkPaid(at time.Time) error {
	if c.Status != ContractStatusInvoiced {
		return shared.ErrInvalidState
	}
	c.Status = ContractStatusPaid
	c.PaidAt = &at
	c.UpdatedAt = time.Now()
	return nil
}

// Cancel cancels a contract that has not been invoiced or paid
func (c *Contract) Cancel(at time.Time) error {
	if c.Status != ContractStatusDraft && c.Status != ContractStatusSigned {
		return shared.ErrInvalidState
	}
	c.Status = ContractStatusCancelled
	c.CancelledAt = &at
	c.UpdatedAt = time.Now()
	return nil
}

// Categories returns the distinct categories used by the contract's lines,
// in first-seen order. This is the set the mapping gate must resolve.
func (c *Contract) Categories() []accounting.Category {
	seen := make(map[accounting.Category]bool, len(c.Lines))
	categories := make([]accounting.Category, 0, len(c.Lines))
	for _, line := range c.Lines {
		if !seen[line.Category] {
			seen[line.Category] = true
			categories = append(categories, line.Category)
		}
	}
	return categories
}

// Total returns the contract total: sum of line amounts minus any trade-in
// valuation.
func (c *Contract) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Amount())
	}
	if c.TradeIn != nil {
		total = total.Sub(c.TradeIn.Valuation)
	}
	return total
}
