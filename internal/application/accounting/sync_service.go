package accounting

import (
	"context"
	"errors"
	"time"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/dealerdesk/backend/internal/domain/dealership"
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/dealerdesk/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// stateTTL bounds how long an OAuth state token stays valid between the
// connect redirect and the provider callback
const stateTTL = 10 * time.Minute

// SyncService orchestrates the accounting integration: the OAuth connection
// lifecycle, category mappings, and the sync job queue. Provider mutations
// themselves run in the job processor, never inline in a request.
type SyncService struct {
	provider     accounting.Provider
	settingsRepo accounting.SettingsRepository
	mappingRepo  accounting.MappingRepository
	linkRepo     accounting.LinkRepository
	jobRepo      accounting.SyncJobRepository
	logRepo      accounting.SyncLogRepository
	contractRepo dealership.ContractRepository
	stateStore   cache.StateStore
	maxAttempts  int
	logger       *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(
	provider accounting.Provider,
	settingsRepo accounting.SettingsRepository,
	mappingRepo accounting.MappingRepository,
	linkRepo accounting.LinkRepository,
	jobRepo accounting.SyncJobRepository,
	logRepo accounting.SyncLogRepository,
	contractRepo dealership.ContractRepository,
	stateStore cache.StateStore,
	maxAttempts int,
	logger *zap.Logger,
) *SyncService {
	if maxAttempts <= 0 {
		maxAttempts = accounting.DefaultMaxAttempts
	}
	return &SyncService{
		provider:     provider,
		settingsRepo: settingsRepo,
		mappingRepo:  mappingRepo,
		linkRepo:     linkRepo,
		jobRepo:      jobRepo,
		logRepo:      logRepo,
		contractRepo: contractRepo,
		stateStore:   stateStore,
		maxAttempts:  maxAttempts,
		logger:       logger,
	}
}

// Connect starts the OAuth flow for a company and returns the authorize URL
func (s *SyncService) Connect(ctx context.Context, companyID uuid.UUID) (*ConnectResponse, error) {
	state := uuid.NewString()
	if err := s.stateStore.Put(ctx, state, companyID, stateTTL); err != nil {
		return nil, err
	}
	return &ConnectResponse{AuthorizeURL: s.provider.AuthorizeURL(state)}, nil
}

// HandleCallback completes the OAuth flow: it validates the state token,
// exchanges the authorization code and stores the resulting token pair.
func (s *SyncService) HandleCallback(ctx context.Context, state, code string) error {
	companyID, err := s.stateStore.Consume(ctx, state)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_OAUTH_STATE", "Unknown or expired OAuth state token")
		}
		return err
	}

	tokens, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return err
	}

	settings, err := s.settingsRepo.FindByCompany(ctx, companyID, s.provider.Code())
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		settings = accounting.NewSettings(companyID, s.provider.Code())
	}
	settings.ApplyTokens(tokens)

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return err
	}

	s.logger.Info("accounting provider connected",
		zap.String("company_id", companyID.String()),
		zap.String("provider", s.provider.Code().String()))
	return nil
}

// Disconnect revokes the provider tokens and clears the local connection.
// Remote revocation is best-effort: the local disconnect always succeeds.
func (s *SyncService) Disconnect(ctx context.Context, companyID uuid.UUID) error {
	settings, err := s.settingsRepo.FindByCompany(ctx, companyID, s.provider.Code())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return accounting.ErrNotConnected
		}
		return err
	}

	if settings.AccessToken != "" {
		if err := s.provider.RevokeTokens(ctx, settings.AccessToken); err != nil {
			s.logger.Warn("token revocation failed, disconnecting locally anyway",
				zap.String("company_id", companyID.String()),
				zap.Error(err))
		}
	}

	settings.Disconnect()
	return s.settingsRepo.Save(ctx, settings)
}

// Status returns the connection status for a company
func (s *SyncService) Status(ctx context.Context, companyID uuid.UUID) (*StatusResponse, error) {
	settings, err := s.settingsRepo.FindByCompany(ctx, companyID, s.provider.Code())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &StatusResponse{Provider: s.provider.Code().String(), Connected: false}, nil
		}
		return nil, err
	}
	return &StatusResponse{
		Provider:       settings.Provider.String(),
		Connected:      settings.Connected,
		TokenExpiresAt: settings.TokenExpiresAt,
		LastSyncAt:     settings.LastSyncAt,
	}, nil
}

// SaveMapping sets the VAT code and/or ledger account for one category
func (s *SyncService) SaveMapping(ctx context.Context, companyID uuid.UUID, req SaveMappingRequest) error {
	category := accounting.Category(req.Category)
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown line category")
	}
	if req.VATCode == "" && req.AccountCode == "" {
		return shared.NewDomainError("EMPTY_MAPPING", "A mapping needs a VAT code or an account code")
	}

	if req.VATCode != "" {
		mapping := accounting.NewVatMapping(companyID, s.provider.Code(), category, req.VATCode)
		if err := s.mappingRepo.SaveVatMapping(ctx, mapping); err != nil {
			return err
		}
	}
	if req.AccountCode != "" {
		mapping := accounting.NewAccountMapping(companyID, s.provider.Code(), category, req.AccountCode)
		if err := s.mappingRepo.SaveAccountMapping(ctx, mapping); err != nil {
			return err
		}
	}
	return nil
}

// ListMappings returns the mapping state for every known category
func (s *SyncService) ListMappings(ctx context.Context, companyID uuid.UUID) ([]MappingResponse, error) {
	set, err := s.mappingRepo.FindMappingSet(ctx, companyID, s.provider.Code())
	if err != nil {
		return nil, err
	}

	categories := accounting.AllCategories()
	responses := make([]MappingResponse, len(categories))
	for i, category := range categories {
		vat := set.VAT[category]
		account := set.Account[category]
		responses[i] = MappingResponse{
			Category:    string(category),
			VATCode:     vat,
			AccountCode: account,
			Complete:    vat != "" && account != "",
		}
	}
	return responses, nil
}

// GetVATCodes proxies the provider's VAT code list
func (s *SyncService) GetVATCodes(ctx context.Context, companyID uuid.UUID) ([]VATCodeResponse, error) {
	token, err := ensureAccessToken(ctx, s.provider, s.settingsRepo, companyID)
	if err != nil {
		return nil, err
	}

	codes, err := s.provider.GetVATCodes(ctx, token)
	if err != nil {
		return nil, err
	}

	responses := make([]VATCodeResponse, len(codes))
	for i, c := range codes {
		responses[i] = VATCodeResponse{Code: c.Code, Description: c.Description, Rate: c.Rate}
	}
	return responses, nil
}

// GetAccounts proxies the provider's general-ledger account list
func (s *SyncService) GetAccounts(ctx context.Context, companyID uuid.UUID) ([]AccountResponse, error) {
	token, err := ensureAccessToken(ctx, s.provider, s.settingsRepo, companyID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.provider.GetAccounts(ctx, token)
	if err != nil {
		return nil, err
	}

	responses := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		responses[i] = AccountResponse{Code: a.Code, Description: a.Description}
	}
	return responses, nil
}

// SendOrder queues a create_order job for a signed contract. If the order
// link already exists the contract is already synced and the existing
// remote id/url is returned instead of a new job.
func (s *SyncService) SendOrder(ctx context.Context, companyID, contractID uuid.UUID) (*EnqueueResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, companyID, contractID)
	if err != nil {
		return nil, err
	}

	// The link check runs before the status check so a re-submitted contract
	// that has already advanced past signed still gets its link back.
	if link, err := s.linkRepo.Find(ctx, s.provider.Code(), accounting.LinkEntityOrder, contractID); err == nil {
		return &EnqueueResponse{AlreadySynced: true, Link: toLinkResponse(link)}, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if contract.Status != dealership.ContractStatusSigned {
		return nil, shared.NewDomainError("CONTRACT_NOT_SIGNED", "Only signed contracts can be sent to accounting")
	}

	// Fail fast on missing mappings; the processor re-validates before the
	// remote call.
	set, err := s.mappingRepo.FindMappingSet(ctx, companyID, s.provider.Code())
	if err != nil {
		return nil, err
	}
	if err := set.Validate(contract.Categories()); err != nil {
		return nil, err
	}

	payload, err := accounting.EncodePayload(accounting.CreateOrderPayload{ContractID: contractID})
	if err != nil {
		return nil, err
	}
	job := accounting.NewSyncJob(companyID, accounting.JobTypeCreateOrder, accounting.LinkEntityOrder, contractID, payload)
	job.MaxAttempts = s.maxAttempts

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}
	return &EnqueueResponse{Job: toJobResponse(job)}, nil
}

// CreateInvoice queues a create_invoice job converting the contract's
// provider order into an invoice. An existing invoice link is returned
// instead of a new job.
func (s *SyncService) CreateInvoice(ctx context.Context, companyID, contractID uuid.UUID) (*EnqueueResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, companyID, contractID)
	if err != nil {
		return nil, err
	}

	if link, err := s.linkRepo.Find(ctx, s.provider.Code(), accounting.LinkEntityInvoice, contractID); err == nil {
		return &EnqueueResponse{AlreadySynced: true, Link: toLinkResponse(link)}, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if contract.Status != dealership.ContractStatusOrderSent {
		return nil, shared.NewDomainError("ORDER_NOT_SENT", "The contract's order must be sent before invoicing")
	}

	orderLink, err := s.linkRepo.Find(ctx, s.provider.Code(), accounting.LinkEntityOrder, contractID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ORDER_NOT_SENT", "No accounting order exists for this contract")
		}
		return nil, err
	}

	payload, err := accounting.EncodePayload(accounting.CreateInvoicePayload{
		ContractID: contractID,
		OrderID:    orderLink.RemoteID,
	})
	if err != nil {
		return nil, err
	}
	job := accounting.NewSyncJob(companyID, accounting.JobTypeCreateInvoice, accounting.LinkEntityInvoice, contractID, payload)
	job.MaxAttempts = s.maxAttempts

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}
	return &EnqueueResponse{Job: toJobResponse(job)}, nil
}

// SyncPayments queues a sync_payments job covering payments registered
// since the last successful sync
func (s *SyncService) SyncPayments(ctx context.Context, companyID uuid.UUID) (*JobResponse, error) {
	settings, err := s.settingsRepo.FindByCompany(ctx, companyID, s.provider.Code())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, accounting.ErrNotConnected
		}
		return nil, err
	}
	if !settings.Connected {
		return nil, accounting.ErrNotConnected
	}

	payload, err := accounting.EncodePayload(accounting.SyncPaymentsPayload{Since: settings.LastSyncAt})
	if err != nil {
		return nil, err
	}
	job := accounting.NewSyncJob(companyID, accounting.JobTypeSyncPayments, accounting.LinkEntityInvoice, companyID, payload)
	job.MaxAttempts = s.maxAttempts

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// ListJobs lists sync jobs for a company, newest first
func (s *SyncService) ListJobs(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]JobResponse, int64, error) {
	jobs, total, err := s.jobRepo.ListForCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]JobResponse, len(jobs))
	for i := range jobs {
		responses[i] = *toJobResponse(&jobs[i])
	}
	return responses, total, nil
}

// RetryJob manually resets a failed job to queued, even when its attempt
// budget is exhausted
func (s *SyncService) RetryJob(ctx context.Context, companyID, jobID uuid.UUID) (*JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	if err := job.ResetForRetry(time.Now()); err != nil {
		return nil, shared.NewDomainError("JOB_NOT_RETRYABLE", "Only failed jobs can be retried")
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// CancelJob cancels a queued or failed job
func (s *SyncService) CancelJob(ctx context.Context, companyID, jobID uuid.UUID) (*JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	if err := job.Cancel(time.Now()); err != nil {
		return nil, shared.NewDomainError("JOB_NOT_CANCELLABLE", "Running or finished jobs cannot be cancelled")
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// ListLog lists sync log entries for a company, newest first
func (s *SyncService) ListLog(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]LogEntryResponse, int64, error) {
	entries, total, err := s.logRepo.ListForCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]LogEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *toLogEntryResponse(&entries[i])
	}
	return responses, total, nil
}

// GetContractLinks returns the accounting links recorded for a contract.
// The contract must belong to the calling company; link rows are reachable
// only through a contract the caller owns.
func (s *SyncService) GetContractLinks(ctx context.Context, companyID, contractID uuid.UUID) ([]LinkResponse, error) {
	if _, err := s.contractRepo.FindByID(ctx, companyID, contractID); err != nil {
		return nil, err
	}

	var links []LinkResponse
	for _, entityType := range []accounting.LinkEntityType{accounting.LinkEntityOrder, accounting.LinkEntityInvoice} {
		link, err := s.linkRepo.Find(ctx, s.provider.Code(), entityType, contractID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		links = append(links, *toLinkResponse(link))
	}
	return links, nil
}

// GetInvoiceStatus fetches the linked invoice for a contract from the
// provider and returns its derived status
func (s *SyncService) GetInvoiceStatus(ctx context.Context, companyID, contractID uuid.UUID) (*InvoiceStatusResponse, error) {
	if _, err := s.contractRepo.FindByID(ctx, companyID, contractID); err != nil {
		return nil, err
	}

	link, err := s.linkRepo.Find(ctx, s.provider.Code(), accounting.LinkEntityInvoice, contractID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVOICE_NOT_FOUND", "No invoice has been created for this contract")
		}
		return nil, err
	}

	token, err := ensureAccessToken(ctx, s.provider, s.settingsRepo, companyID)
	if err != nil {
		return nil, err
	}
	invoice, err := s.provider.GetInvoice(ctx, token, link.RemoteID)
	if err != nil {
		return nil, err
	}

	status := accounting.DeriveInvoiceStatus(invoice.Status, invoice.TotalAmount, invoice.PaidAmount, invoice.DueDate, time.Now())
	return &InvoiceStatusResponse{
		InvoiceID:   link.RemoteID,
		RemoteURL:   link.RemoteURL,
		Status:      status.String(),
		TotalAmount: invoice.TotalAmount,
		PaidAmount:  invoice.PaidAmount,
		DueDate:     invoice.DueDate,
	}, nil
}

// ensureAccessToken loads the company's settings and returns a usable
// access token, refreshing an expired one through the provider first
func ensureAccessToken(ctx context.Context, provider accounting.Provider, settingsRepo accounting.SettingsRepository, companyID uuid.UUID) (string, error) {
	settings, err := settingsRepo.FindByCompany(ctx, companyID, provider.Code())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", accounting.ErrNotConnected
		}
		return "", err
	}
	if !settings.CanCall() {
		return "", accounting.ErrNotConnected
	}

	if settings.TokenExpired(time.Now()) {
		if settings.RefreshToken == "" {
			return "", accounting.ErrNoAccessToken
		}
		tokens, err := provider.RefreshAccessToken(ctx, settings.RefreshToken)
		if err != nil {
			return "", err
		}
		settings.ApplyTokens(tokens)
		if err := settingsRepo.Save(ctx, settings); err != nil {
			return "", err
		}
	}
	return settings.AccessToken, nil
}
