package dealership

import (
	"context"

	"github.com/google/uuid"
)

// CarRepository persists cars
type CarRepository interface {
	Save(ctx context.Context, car *Car) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Car, error)
	FindByRegistrationNumber(ctx context.Context, companyID uuid.UUID, regNr string) (*Car, error)
	ListForCompany(ctx context.Context, companyID uuid.UUID, status *CarStatus, sortBy, sortDir string, limit, offset int) ([]Car, int64, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// CustomerRepository persists customers
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Customer, error)
	ListForCompany(ctx context.Context, companyID uuid.UUID, search string, limit, offset int) ([]Customer, int64, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// ContractRepository persists contracts with their lines
type ContractRepository interface {
	Save(ctx context.Context, contract *Contract) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Contract, error)
	ListForCompany(ctx context.Context, companyID uuid.UUID, status *ContractStatus, limit, offset int) ([]Contract, int64, error)
}
