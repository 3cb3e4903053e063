package dealership

import (
	"context"
	"fmt"
	"time"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/domain/dealership"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ContractService manages sales contracts. Signing reserves the car as
// sold; cancelling returns it to stock. The order_sent/invoiced/paid
// transitions are owned by the accounting sync subsystem.
type ContractService struct {
	contractRepo dealership.ContractRepository
	carRepo      dealership.CarRepository
	customerRepo dealership.CustomerRepository
	logger       *zap.Logger
}

// NewContractService creates a new ContractService
func NewContractService(
	contractRepo dealership.ContractRepository,
	carRepo dealership.CarRepository,
	customerRepo dealership.CustomerRepository,
	logger *zap.Logger,
) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		carRepo:      carRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// CreateContract creates a draft contract and reserves the car
func (s *ContractService) CreateContract(ctx context.Context, companyID uuid.UUID, req CreateContractRequest) (*ContractResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, companyID, req.CustomerID); err != nil {
		return nil, err
	}
	car, err := s.carRepo.FindByID(ctx, companyID, req.CarID)
	if err != nil {
		return nil, err
	}
	if car.Status != dealership.CarStatusInStock {
		return nil, shared.NewDomainError("CAR_NOT_AVAILABLE", "The car is not in stock")
	}

	number, err := s.nextContractNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	contract := dealership.NewContract(companyID, req.CustomerID, car.ID, number, car.DisplayName(), car.ListPrice)
	contract.Notes = req.Notes
	if err := applyContractEdits(contract, req.Lines, req.TradeIn); err != nil {
		return nil, err
	}

	if err := car.Reserve(); err != nil {
		return nil, err
	}
	if err := s.carRepo.Save(ctx, car); err != nil {
		return nil, err
	}
	if err := s.contractRepo.Save(ctx, contract); err != nil {
		return nil, err
	}

	s.logger.Info("contract created",
		zap.String("contract_id", contract.ID.String()),
		zap.String("contract_number", contract.ContractNumber),
		zap.String("car_id", car.ID.String()))
	return toContractResponse(contract), nil
}

// UpdateContract replaces the add-on lines, trade-in and notes of a draft
// contract. The car line is rebuilt from the car's current list price.
func (s *ContractService) UpdateContract(ctx context.Context, companyID, contractID uuid.UUID, req UpdateContractRequest) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, companyID, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != dealership.ContractStatusDraft {
		return nil, shared.NewDomainError("CONTRACT_NOT_DRAFT", "Only draft contracts can be edited")
	}
	car, err := s.carRepo.FindByID(ctx, companyID, contract.CarID)
	if err != nil {
		return nil, err
	}

	contract.Lines = contract.Lines[:0]
	contract.TradeIn = nil
	contract.Notes = req.Notes
	if err := contract.AddLine(car.DisplayName(), "", accounting.CategoryCar, decimal.NewFromInt(1), car.ListPrice); err != nil {
		return nil, err
	}
	if err := applyContractEdits(contract, req.Lines, req.TradeIn); err != nil {
		return nil, err
	}

	if err := s.contractRepo.Save(ctx, contract); err != nil {
		return nil, err
	}
	return toContractResponse(contract), nil
}

// GetContract returns one contract with its lines
func (s *ContractService) GetContract(ctx context.Context, companyID, contractID uuid.UUID) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, companyID, contractID)
	if err != nil {
		return nil, err
	}
	return toContractResponse(contract), nil
}

// ListContracts lists the company's contracts, optionally filtered by status
func (s *ContractService) ListContracts(ctx context.Context, companyID uuid.UUID, status string, limit, offset int) ([]ContractResponse, int64, error) {
	var filter *dealership.ContractStatus
	if status != "" {
		parsed := dealership.ContractStatus(status)
		if !parsed.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown contract status "+status)
		}
		filter = &parsed
	}

	contracts, total, err := s.contractRepo.ListForCompany(ctx, companyID, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ContractResponse, len(contracts))
	for i := range contracts {
		responses[i] = *toContractResponse(&contracts[i])
	}
	return responses, total, nil
}

// SignContract transitions draft -> signed and marks the car sold
func (s *ContractService) SignContract(ctx context.Context, companyID, contractID uuid.UUID) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, companyID, contractID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := contract.Sign(now); err != nil {
		return nil, shared.NewDomainError("CONTRACT_NOT_DRAFT", "Only draft contracts can be signed")
	}

	car, err := s.carRepo.FindByID(ctx, companyID, contract.CarID)
	if err != nil {
		return nil, err
	}
	if err := car.MarkSold(now); err == nil {
		if err := s.carRepo.Save(ctx, car); err != nil {
			return nil, err
		}
	}

	if err := s.contractRepo.Save(ctx, contract); err != nil {
		return nil, err
	}
	s.logger.Info("contract signed",
		zap.String("contract_id", contract.ID.String()),
		zap.String("contract_number", contract.ContractNumber))
	return toContractResponse(contract), nil
}

// CancelContract cancels a draft or signed contract and returns the car
// to stock
func (s *ContractService) CancelContract(ctx context.Context, companyID, contractID uuid.UUID) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, companyID, contractID)
	if err != nil {
		return nil, err
	}
	if err := contract.Cancel(time.Now()); err != nil {
		return nil, shared.NewDomainError("CONTRACT_NOT_CANCELLABLE", "Invoiced or paid contracts cannot be cancelled")
	}

	car, err := s.carRepo.FindByID(ctx, companyID, contract.CarID)
	if err != nil {
		return nil, err
	}
	if err := car.ReturnToStock(); err == nil {
		if err := s.carRepo.Save(ctx, car); err != nil {
			return nil, err
		}
	}

	if err := s.contractRepo.Save(ctx, contract); err != nil {
		return nil, err
	}
	s.logger.Info("contract cancelled",
		zap.String("contract_id", contract.ID.String()),
		zap.String("contract_number", contract.ContractNumber))
	return toContractResponse(contract), nil
}

// nextContractNumber derives a sequential contract number per company
func (s *ContractService) nextContractNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	_, total, err := s.contractRepo.ListForCompany(ctx, companyID, nil, 1, 0)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("K-%d-%04d", time.Now().Year(), total+1), nil
}

// applyContractEdits adds the requested lines and trade-in to a draft
func applyContractEdits(contract *dealership.Contract, lines []ContractLineRequest, tradeIn *TradeInRequest) error {
	for _, line := range lines {
		category := accounting.Category(line.Category)
		if !category.IsValid() {
			return shared.NewDomainError("INVALID_CATEGORY", "Unknown line category "+line.Category)
		}
		quantity := line.Quantity
		if quantity.IsZero() {
			quantity = decimal.NewFromInt(1)
		}
		if err := contract.AddLine(line.Description, line.SKU, category, quantity, line.UnitPrice); err != nil {
			return err
		}
	}
	if tradeIn != nil {
		if !tradeIn.Valuation.IsPositive() {
			return shared.NewDomainError("INVALID_TRADE_IN", "Trade-in valuation must be positive")
		}
		if err := contract.SetTradeIn(tradeIn.RegistrationNumber, tradeIn.Description, tradeIn.Valuation); err != nil {
			return err
		}
	}
	return nil
}
