package poweroffice

import (
	"time"

	"github.com/shopspring/decimal"
)

// tokenResponse is the OAuth token endpoint response
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}

// mailAddressPayload is the postal address part of a customer payload
type mailAddressPayload struct {
	Address1 string `json:"address1,omitempty"`
	ZipCode  string `json:"zipCode,omitempty"`
	City     string `json:"city,omitempty"`
}

// customerPayload is the customer create/update request body
type customerPayload struct {
	Name               string              `json:"name"`
	OrganizationNumber string              `json:"organizationNumber,omitempty"`
	EmailAddress       string              `json:"emailAddress,omitempty"`
	PhoneNumber        string              `json:"phoneNumber,omitempty"`
	MailAddress        *mailAddressPayload `json:"mailAddress,omitempty"`
}

// customerResponse is a customer record returned by the API
type customerResponse struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	OrganizationNumber string `json:"organizationNumber"`
	EmailAddress       string `json:"emailAddress"`
}

// customerListResponse wraps a customer search result
type customerListResponse struct {
	Values []customerResponse `json:"values"`
}

// productPayload is the product create/update request body
type productPayload struct {
	Code                     string          `json:"code"`
	Name                     string          `json:"name"`
	SalesPrice               decimal.Decimal `json:"salesPrice"`
	VatCode                  string          `json:"vatCode,omitempty"`
	GeneralLedgerAccountCode string          `json:"generalLedgerAccountCode,omitempty"`
}

// productResponse is a product record returned by the API
type productResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// productListResponse wraps a product search result
type productListResponse struct {
	Values []productResponse `json:"values"`
}

// orderLinePayload is one line of an order create request
type orderLinePayload struct {
	Description              string          `json:"description"`
	ProductCode              string          `json:"productCode,omitempty"`
	Quantity                 decimal.Decimal `json:"quantity"`
	UnitPrice                decimal.Decimal `json:"unitPrice"`
	VatCode                  string          `json:"vatCode"`
	GeneralLedgerAccountCode string          `json:"generalLedgerAccountCode"`
}

// orderPayload is the order create request body
type orderPayload struct {
	CustomerID   string             `json:"customerId"`
	Reference    string             `json:"reference,omitempty"`
	CurrencyCode string             `json:"currencyCode,omitempty"`
	Lines        []orderLinePayload `json:"lines"`
}

// orderResponse is an order record returned by the API
type orderResponse struct {
	ID          int64           `json:"id"`
	URL         string          `json:"url"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// invoiceResponse is an invoice record returned by the API
type invoiceResponse struct {
	ID          int64           `json:"id"`
	URL         string          `json:"url"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	DueDate     *time.Time      `json:"dueDate"`
}

// paymentResponse is a registered payment returned by the API
type paymentResponse struct {
	ID        int64           `json:"id"`
	InvoiceID int64           `json:"invoiceId"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paidAt"`
}

// paymentListResponse wraps a payment list result
type paymentListResponse struct {
	Values []paymentResponse `json:"values"`
}

// vatCodeResponse is a VAT code returned by the API
type vatCodeResponse struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
}

// vatCodeListResponse wraps a VAT code list result
type vatCodeListResponse struct {
	Values []vatCodeResponse `json:"values"`
}

// accountResponse is a general-ledger account returned by the API
type accountResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// accountListResponse wraps an account list result
type accountListResponse struct {
	Values []accountResponse `json:"values"`
}
