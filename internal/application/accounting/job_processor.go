package accounting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/domain/dealership"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// JobProcessor executes queued sync jobs. Each job performs exactly one
// provider-side mutation; the link table keeps re-execution idempotent.
type JobProcessor struct {
	provider     accounting.Provider
	settingsRepo accounting.SettingsRepository
	mappingRepo  accounting.MappingRepository
	linkRepo     accounting.LinkRepository
	jobRepo      accounting.SyncJobRepository
	logRepo      accounting.SyncLogRepository
	contractRepo dealership.ContractRepository
	customerRepo dealership.CustomerRepository
	logger       *zap.Logger
}

// NewJobProcessor creates a new JobProcessor
func NewJobProcessor(
	provider accounting.Provider,
	settingsRepo accounting.SettingsRepository,
	mappingRepo accounting.MappingRepository,
	linkRepo accounting.LinkRepository,
	jobRepo accounting.SyncJobRepository,
	logRepo accounting.SyncLogRepository,
	contractRepo dealership.ContractRepository,
	customerRepo dealership.CustomerRepository,
	logger *zap.Logger,
) *JobProcessor {
	return &JobProcessor{
		provider:     provider,
		settingsRepo: settingsRepo,
		mappingRepo:  mappingRepo,
		linkRepo:     linkRepo,
		jobRepo:      jobRepo,
		logRepo:      logRepo,
		contractRepo: contractRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Process runs one queued job through its full lifecycle: queued -> running,
// then done or failed. The outcome lands in the sync log either way.
// A processing failure is recorded on the job, not returned to the caller.
func (p *JobProcessor) Process(ctx context.Context, job *accounting.SyncJob) error {
	if err := job.Start(time.Now()); err != nil {
		return err
	}
	if err := p.jobRepo.Save(ctx, job); err != nil {
		return err
	}

	message, procErr := p.dispatch(ctx, job)

	now := time.Now()
	if procErr != nil {
		if err := job.Fail(procErr, now); err != nil {
			return err
		}
		if err := p.jobRepo.Save(ctx, job); err != nil {
			return err
		}
		p.appendLog(ctx, job, accounting.LogStatusFailed, procErr.Error())
		p.logger.Warn("sync job failed",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", job.JobType.String()),
			zap.Int("attempts", job.Attempts),
			zap.Error(procErr))
		return nil
	}

	if err := job.Complete(now); err != nil {
		return err
	}
	if err := p.jobRepo.Save(ctx, job); err != nil {
		return err
	}
	p.appendLog(ctx, job, accounting.LogStatusSuccess, message)
	p.logger.Info("sync job completed",
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", job.JobType.String()))
	return nil
}

// dispatch decodes the payload once and routes to the typed handler
func (p *JobProcessor) dispatch(ctx context.Context, job *accounting.SyncJob) (string, error) {
	payload, err := accounting.DecodePayload(job)
	if err != nil {
		return "", err
	}

	switch typed := payload.(type) {
	case *accounting.CreateOrderPayload:
		return p.processCreateOrder(ctx, job, typed)
	case *accounting.CreateInvoicePayload:
		return p.processCreateInvoice(ctx, job, typed)
	case *accounting.SyncPaymentsPayload:
		return p.processSyncPayments(ctx, job, typed)
	default:
		return "", fmt.Errorf("unhandled payload type %T", payload)
	}
}

// processCreateOrder submits the contract as a provider order. The link
// lookup short-circuits before any remote call so a retried job whose
// previous run created the order does not create a second one.
func (p *JobProcessor) processCreateOrder(ctx context.Context, job *accounting.SyncJob, payload *accounting.CreateOrderPayload) (string, error) {
	if link, err := p.linkRepo.Find(ctx, p.provider.Code(), accounting.LinkEntityOrder, payload.ContractID); err == nil {
		return "order already exists remotely as " + link.RemoteID, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return "", err
	}

	contract, err := p.contractRepo.FindByID(ctx, job.CompanyID, payload.ContractID)
	if err != nil {
		return "", err
	}
	customer, err := p.customerRepo.FindByID(ctx, job.CompanyID, contract.CustomerID)
	if err != nil {
		return "", err
	}

	// The mapping gate runs before any remote call
	set, err := p.mappingRepo.FindMappingSet(ctx, job.CompanyID, p.provider.Code())
	if err != nil {
		return "", err
	}
	lines, err := buildOrderLines(contract, set)
	if err != nil {
		return "", err
	}

	token, err := ensureAccessToken(ctx, p.provider, p.settingsRepo, job.CompanyID)
	if err != nil {
		return "", err
	}

	remoteCustomer, err := p.provider.UpsertCustomer(ctx, token, accounting.CustomerData{
		Name:               customer.Name,
		OrganizationNumber: customer.OrganizationNumber,
		Email:              customer.Email,
		Phone:              customer.Phone,
		Address:            customer.Address,
		PostalCode:         customer.PostalCode,
		City:               customer.City,
	})
	if err != nil {
		return "", err
	}

	draft := &accounting.OrderDraft{
		ContractID:       contract.ID,
		CustomerRemoteID: remoteCustomer.ID,
		Reference:        contract.ContractNumber,
		CurrencyCode:     "NOK",
		Lines:            lines,
	}
	remoteOrder, err := p.provider.CreateOrder(ctx, token, draft)
	if err != nil {
		return "", err
	}

	link := accounting.NewLink(job.CompanyID, p.provider.Code(), accounting.LinkEntityOrder, contract.ID, remoteOrder.ID, remoteOrder.URL)
	if _, _, err := p.linkRepo.FindOrCreate(ctx, link); err != nil {
		return "", err
	}

	if err := contract.MarkOrderSent(time.Now()); err == nil {
		if err := p.contractRepo.Save(ctx, contract); err != nil {
			return "", err
		}
	}

	return "created order " + remoteOrder.ID, nil
}

// processCreateInvoice converts the provider order into an invoice
func (p *JobProcessor) processCreateInvoice(ctx context.Context, job *accounting.SyncJob, payload *accounting.CreateInvoicePayload) (string, error) {
	if link, err := p.linkRepo.Find(ctx, p.provider.Code(), accounting.LinkEntityInvoice, payload.ContractID); err == nil {
		return "invoice already exists remotely as " + link.RemoteID, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return "", err
	}

	token, err := ensureAccessToken(ctx, p.provider, p.settingsRepo, job.CompanyID)
	if err != nil {
		return "", err
	}

	invoice, err := p.provider.ConvertOrderToInvoice(ctx, token, payload.OrderID)
	if err != nil {
		return "", err
	}

	link := accounting.NewLink(job.CompanyID, p.provider.Code(), accounting.LinkEntityInvoice, payload.ContractID, invoice.ID, invoice.URL)
	if _, _, err := p.linkRepo.FindOrCreate(ctx, link); err != nil {
		return "", err
	}

	contract, err := p.contractRepo.FindByID(ctx, job.CompanyID, payload.ContractID)
	if err != nil {
		return "", err
	}
	if err := contract.MarkInvoiced(time.Now()); err == nil {
		if err := p.contractRepo.Save(ctx, contract); err != nil {
			return "", err
		}
	}

	return "created invoice " + invoice.ID, nil
}

// processSyncPayments pulls payments registered since the last sync and
// marks fully paid contracts as paid
func (p *JobProcessor) processSyncPayments(ctx context.Context, job *accounting.SyncJob, payload *accounting.SyncPaymentsPayload) (string, error) {
	settings, err := p.settingsRepo.FindByCompany(ctx, job.CompanyID, p.provider.Code())
	if err != nil {
		return "", err
	}

	token, err := ensureAccessToken(ctx, p.provider, p.settingsRepo, job.CompanyID)
	if err != nil {
		return "", err
	}

	payments, err := p.provider.ListPayments(ctx, token, payload.Since)
	if err != nil {
		return "", err
	}

	paidContracts := 0
	for _, payment := range payments {
		link, err := p.linkRepo.FindByRemoteID(ctx, p.provider.Code(), accounting.LinkEntityInvoice, payment.InvoiceID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// Payment against an invoice this system did not create
				continue
			}
			return "", err
		}

		invoice, err := p.provider.GetInvoice(ctx, token, payment.InvoiceID)
		if err != nil {
			return "", err
		}
		status := accounting.DeriveInvoiceStatus(invoice.Status, invoice.TotalAmount, invoice.PaidAmount, invoice.DueDate, time.Now())
		if status != accounting.InvoiceStatusPaid {
			continue
		}

		contract, err := p.contractRepo.FindByID(ctx, link.CompanyID, link.LocalID)
		if err != nil {
			return "", err
		}
		if err := contract.MarkPaid(payment.PaidAt); err != nil {
			// Already paid or not yet invoiced locally; nothing to do
			continue
		}
		if err := p.contractRepo.Save(ctx, contract); err != nil {
			return "", err
		}
		paidContracts++
	}

	settings.MarkSynced(time.Now())
	if err := p.settingsRepo.Save(ctx, settings); err != nil {
		return "", err
	}

	return fmt.Sprintf("processed %d payments, %d contracts marked paid", len(payments), paidContracts), nil
}

// buildOrderLines resolves every contract line through the mapping set and
// appends the trade-in deduction as a negative line
func buildOrderLines(contract *dealership.Contract, set *accounting.MappingSet) ([]accounting.OrderLine, error) {
	lines := make([]accounting.OrderLine, 0, len(contract.Lines)+1)
	for _, line := range contract.Lines {
		vatCode, accountCode, err := set.Resolve(line.Category)
		if err != nil {
			return nil, err
		}
		lines = append(lines, accounting.OrderLine{
			Description: line.Description,
			SKU:         line.SKU,
			Category:    line.Category,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			VATCode:     vatCode,
			AccountCode: accountCode,
		})
	}

	if contract.TradeIn != nil && contract.TradeIn.Valuation.IsPositive() {
		vatCode, accountCode, err := set.Resolve(accounting.CategoryCar)
		if err != nil {
			return nil, err
		}
		lines = append(lines, accounting.OrderLine{
			Description: "Innbytte: " + contract.TradeIn.Description,
			Category:    accounting.CategoryCar,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   contract.TradeIn.Valuation.Neg(),
			VATCode:     vatCode,
			AccountCode: accountCode,
		})
	}
	return lines, nil
}

// appendLog writes the job outcome to the audit trail. Log failures are
// logged and swallowed so they cannot mask the job result.
func (p *JobProcessor) appendLog(ctx context.Context, job *accounting.SyncJob, status accounting.LogStatus, message string) {
	entry := accounting.NewLogEntry(job.CompanyID, p.provider.Code(), job.JobType.String(), job.EntityType, job.EntityID, status, message).WithJob(job.ID)
	if err := p.logRepo.Append(ctx, entry); err != nil {
		p.logger.Error("failed to append sync log entry",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}
}
