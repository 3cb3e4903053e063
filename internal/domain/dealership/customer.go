package dealership

import (
	"time"

	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerType distinguishes private persons from organizations
type CustomerType string

const (
	CustomerTypePerson       CustomerType = "person"
	CustomerTypeOrganization CustomerType = "organization"
)

// IsValid returns true if the customer type is known
func (t CustomerType) IsValid() bool {
	return t == CustomerTypePerson || t == CustomerTypeOrganization
}

// Customer is a dealership customer
type Customer struct {
	shared.CompanyEntity
	Type               CustomerType
	Name               string
	OrganizationNumber string
	Email              string
	Phone              string
	Address            string
	PostalCode         string
	City               string
}

// NewCustomer creates a customer
func NewCustomer(companyID uuid.UUID, customerType CustomerType, name string) *Customer {
	return &Customer{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Type:          customerType,
		Name:          name,
	}
}

// Touch bumps the update timestamp after field edits
func (c *Customer) Touch() {
	c.UpdatedAt = time.Now()
}
