package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProviderCode identifies an accounting provider
type ProviderCode string

const (
	// ProviderCodePowerOffice is the PowerOffice Go accounting system
	ProviderCodePowerOffice ProviderCode = "poweroffice"
)

// IsValid returns true if the provider code is known
func (p ProviderCode) IsValid() bool {
	return p == ProviderCodePowerOffice
}

// String returns the string representation of ProviderCode
func (p ProviderCode) String() string {
	return string(p)
}

// TokenResponse holds the result of an OAuth code exchange or refresh
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Scope        string
}

// CustomerData is the provider-neutral view of a customer to upsert
type CustomerData struct {
	Name               string
	OrganizationNumber string
	Email              string
	Phone              string
	Address            string
	PostalCode         string
	City               string
}

// ProductData is the provider-neutral view of a product to upsert
type ProductData struct {
	SKU         string
	Name        string
	UnitPrice   decimal.Decimal
	VATCode     string
	AccountCode string
}

// OrderLine is one line of an order draft. VATCode and AccountCode are
// already resolved through the company's mappings before the draft reaches
// the provider adapter.
type OrderLine struct {
	Description string
	SKU         string
	Category    Category
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	VATCode     string
	AccountCode string
}

// OrderDraft is a fully resolved order ready for submission. ContractID
// doubles as the provider-side idempotency key.
type OrderDraft struct {
	ContractID       uuid.UUID
	CustomerRemoteID string
	Reference        string
	CurrencyCode     string
	Lines            []OrderLine
}

// Total returns the sum of all line amounts
func (d *OrderDraft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.Lines {
		total = total.Add(line.UnitPrice.Mul(line.Quantity))
	}
	return total
}

// RemoteCustomer is a customer record in the provider's system
type RemoteCustomer struct {
	ID                 string
	Name               string
	OrganizationNumber string
	Email              string
}

// RemoteProduct is a product record in the provider's system
type RemoteProduct struct {
	ID   string
	SKU  string
	Name string
}

// RemoteOrder is an order record in the provider's system
type RemoteOrder struct {
	ID          string
	URL         string
	TotalAmount decimal.Decimal
}

// RemoteInvoice is an invoice record in the provider's system
type RemoteInvoice struct {
	ID          string
	URL         string
	Status      string
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	DueDate     *time.Time
}

// RemotePayment is a registered payment in the provider's system
type RemotePayment struct {
	ID        string
	InvoiceID string
	Amount    decimal.Decimal
	PaidAt    time.Time
}

// VATCode is a provider VAT code available for mapping
type VATCode struct {
	Code        string
	Description string
	Rate        decimal.Decimal
}

// LedgerAccount is a provider general-ledger account available for mapping
type LedgerAccount struct {
	Code        string
	Description string
}

// Provider is the port to an external accounting system. Every remote call
// requires a bearer access token and returns ErrNoAccessToken before any
// network activity when the token is empty. Non-2xx responses surface as
// *APIError.
type Provider interface {
	// Code returns the provider code this adapter handles
	Code() ProviderCode

	// AuthorizeURL builds the OAuth authorize URL with the caller-supplied
	// anti-CSRF state token. Pure, no network.
	AuthorizeURL(state string) string

	// ExchangeCode exchanges an authorization code for tokens
	ExchangeCode(ctx context.Context, code string) (*TokenResponse, error)

	// RefreshAccessToken obtains a fresh token pair from a refresh token
	RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenResponse, error)

	// RevokeTokens revokes the access token. Best-effort: callers must not
	// fail a disconnect flow when this errors.
	RevokeTokens(ctx context.Context, accessToken string) error

	// ValidateConnection checks that the token is accepted by the provider
	ValidateConnection(ctx context.Context, accessToken string) (bool, error)

	// UpsertCustomer searches by organization number or email, then creates
	// or updates. Not atomic: concurrent calls for the same customer can
	// create duplicates.
	UpsertCustomer(ctx context.Context, accessToken string, customer CustomerData) (*RemoteCustomer, error)

	// UpsertProduct searches by SKU, then creates or updates
	UpsertProduct(ctx context.Context, accessToken string, product ProductData) (*RemoteProduct, error)

	// CreateOrder submits a resolved order draft with an idempotency key
	// equal to the draft's contract ID
	CreateOrder(ctx context.Context, accessToken string, draft *OrderDraft) (*RemoteOrder, error)

	// ConvertOrderToInvoice turns a provider order into an invoice
	ConvertOrderToInvoice(ctx context.Context, accessToken string, orderID string) (*RemoteInvoice, error)

	// GetInvoice fetches an invoice with its paid amount and due date
	GetInvoice(ctx context.Context, accessToken string, invoiceID string) (*RemoteInvoice, error)

	// ListPayments lists payments registered since the given time.
	// A nil since lists all payments.
	ListPayments(ctx context.Context, accessToken string, since *time.Time) ([]RemotePayment, error)

	// GetVATCodes lists the provider's VAT codes
	GetVATCodes(ctx context.Context, accessToken string) ([]VATCode, error)

	// GetAccounts lists the provider's general-ledger accounts
	GetAccounts(ctx context.Context, accessToken string) ([]LedgerAccount, error)
}
