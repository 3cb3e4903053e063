package dealership

import (
	"context"

	"github.com/dealerdesk/backend/internal/domain/dealership"
	"github.com/google/uuid"
)

// CustomerService manages dealership customers
type CustomerService struct {
	customerRepo dealership.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo dealership.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomer registers a customer
func (s *CustomerService) CreateCustomer(ctx context.Context, companyID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer := dealership.NewCustomer(companyID, dealership.CustomerType(req.Type), req.Name)
	customer.OrganizationNumber = req.OrganizationNumber
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.PostalCode = req.PostalCode
	customer.City = req.City

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// UpdateCustomer edits customer fields
func (s *CustomerService) UpdateCustomer(ctx context.Context, companyID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.OrganizationNumber != nil {
		customer.OrganizationNumber = *req.OrganizationNumber
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.PostalCode != nil {
		customer.PostalCode = *req.PostalCode
	}
	if req.City != nil {
		customer.City = *req.City
	}
	customer.Touch()

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetCustomer returns one customer
func (s *CustomerService) GetCustomer(ctx context.Context, companyID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// ListCustomers lists the company's customers with optional name search
func (s *CustomerService) ListCustomers(ctx context.Context, companyID uuid.UUID, search string, limit, offset int) ([]CustomerResponse, int64, error) {
	customers, total, err := s.customerRepo.ListForCompany(ctx, companyID, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = *toCustomerResponse(&customers[i])
	}
	return responses, total, nil
}

// DeleteCustomer removes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, companyID, customerID uuid.UUID) error {
	return s.customerRepo.Delete(ctx, companyID, customerID)
}
