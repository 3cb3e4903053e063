package poweroffice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dealerdesk/backend/internal/domain/accounting"
)

// maxResponseSize is the maximum allowed response size from the API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Adapter implements accounting.Provider for PowerOffice Go
type Adapter struct {
	config     *Config
	httpClient *http.Client
}

// NewAdapter creates a PowerOffice adapter with the given configuration
func NewAdapter(config *Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Code returns the provider code this adapter handles
func (a *Adapter) Code() accounting.ProviderCode {
	return accounting.ProviderCodePowerOffice
}

// AuthorizeURL builds the OAuth authorize URL with the given state token
func (a *Adapter) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", a.config.ClientID)
	params.Set("redirect_uri", a.config.RedirectURL)
	params.Set("response_type", "code")
	params.Set("scope", a.config.Scope)
	params.Set("state", state)
	return a.config.AuthBaseURL + "/authorize?" + params.Encode()
}

// ExchangeCode exchanges an authorization code for tokens
func (a *Adapter) ExchangeCode(ctx context.Context, code string) (*accounting.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", a.config.RedirectURL)

	tokens, err := a.requestToken(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", accounting.ErrOAuthExchangeFailed, err)
	}
	return tokens, nil
}

// RefreshAccessToken obtains a fresh token pair from a refresh token
func (a *Adapter) RefreshAccessToken(ctx context.Context, refreshToken string) (*accounting.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	tokens, err := a.requestToken(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", accounting.ErrOAuthRefreshFailed, err)
	}
	return tokens, nil
}

// requestToken posts a form to the OAuth token endpoint
func (a *Adapter) requestToken(ctx context.Context, form url.Values) (*accounting.TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.AuthBaseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(a.config.ClientID, a.config.ClientSecret)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, accounting.NewAPIError(resp.StatusCode, string(body))
	}

	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("token response contained no access token")
	}

	return &accounting.TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
		Scope:        tokens.Scope,
	}, nil
}

// RevokeTokens revokes the access token. Best-effort: callers must not fail
// a disconnect flow when this errors.
func (a *Adapter) RevokeTokens(ctx context.Context, accessToken string) error {
	form := url.Values{}
	form.Set("token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.AuthBaseURL+"/revoke", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(a.config.ClientID, a.config.ClientSecret)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode >= 400 {
		return accounting.NewAPIError(resp.StatusCode, "")
	}
	return nil
}

// ValidateConnection checks that the token is accepted by the provider.
// A 401 or 403 means the token is rejected, not that the call failed.
func (a *Adapter) ValidateConnection(ctx context.Context, accessToken string) (bool, error) {
	_, err := a.doRequest(ctx, http.MethodGet, "/customers?limit=1", accessToken, nil)
	if err != nil {
		var apiErr *accounting.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpsertCustomer searches by organization number or email, then creates or
// updates the customer record
func (a *Adapter) UpsertCustomer(ctx context.Context, accessToken string, customer accounting.CustomerData) (*accounting.RemoteCustomer, error) {
	existing, err := a.findCustomer(ctx, accessToken, customer)
	if err != nil {
		return nil, err
	}

	payload := customerPayload{
		Name:               customer.Name,
		OrganizationNumber: customer.OrganizationNumber,
		EmailAddress:       customer.Email,
		PhoneNumber:        customer.Phone,
	}
	if customer.Address != "" || customer.City != "" {
		payload.MailAddress = &mailAddressPayload{
			Address1: customer.Address,
			ZipCode:  customer.PostalCode,
			City:     customer.City,
		}
	}

	var respBody []byte
	if existing != nil {
		respBody, err = a.doRequest(ctx, http.MethodPut, "/customers/"+existing.ID, accessToken, payload)
	} else {
		respBody, err = a.doRequest(ctx, http.MethodPost, "/customers", accessToken, payload)
	}
	if err != nil {
		return nil, err
	}

	var result customerResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode customer response: %w", err)
	}
	return convertCustomer(&result), nil
}

// findCustomer searches by organization number first, then by email
func (a *Adapter) findCustomer(ctx context.Context, accessToken string, customer accounting.CustomerData) (*accounting.RemoteCustomer, error) {
	var query string
	switch {
	case customer.OrganizationNumber != "":
		query = "/customers?organizationNumber=" + url.QueryEscape(customer.OrganizationNumber)
	case customer.Email != "":
		query = "/customers?emailAddress=" + url.QueryEscape(customer.Email)
	default:
		return nil, nil
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, query, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var list customerListResponse
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, fmt.Errorf("failed to decode customer search response: %w", err)
	}
	if len(list.Values) == 0 {
		return nil, nil
	}
	return convertCustomer(&list.Values[0]), nil
}

// UpsertProduct searches by SKU, then creates or updates the product record
func (a *Adapter) UpsertProduct(ctx context.Context, accessToken string, product accounting.ProductData) (*accounting.RemoteProduct, error) {
	payload := productPayload{
		Code:                     product.SKU,
		Name:                     product.Name,
		SalesPrice:               product.UnitPrice,
		VatCode:                  product.VATCode,
		GeneralLedgerAccountCode: product.AccountCode,
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, "/products?code="+url.QueryEscape(product.SKU), accessToken, nil)
	if err != nil {
		return nil, err
	}
	var list productListResponse
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, fmt.Errorf("failed to decode product search response: %w", err)
	}

	if len(list.Values) > 0 {
		respBody, err = a.doRequest(ctx, http.MethodPut, "/products/"+strconv.FormatInt(list.Values[0].ID, 10), accessToken, payload)
	} else {
		respBody, err = a.doRequest(ctx, http.MethodPost, "/products", accessToken, payload)
	}
	if err != nil {
		return nil, err
	}

	var result productResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}
	return &accounting.RemoteProduct{
		ID:   strconv.FormatInt(result.ID, 10),
		SKU:  result.Code,
		Name: result.Name,
	}, nil
}

// CreateOrder submits a resolved order draft. The contract ID rides along
// as the Idempotency-Key header so a retried submission cannot create a
// second order on the provider side.
func (a *Adapter) CreateOrder(ctx context.Context, accessToken string, draft *accounting.OrderDraft) (*accounting.RemoteOrder, error) {
	payload := orderPayload{
		CustomerID:   draft.CustomerRemoteID,
		Reference:    draft.Reference,
		CurrencyCode: draft.CurrencyCode,
	}
	for _, line := range draft.Lines {
		payload.Lines = append(payload.Lines, orderLinePayload{
			Description:              line.Description,
			ProductCode:              line.SKU,
			Quantity:                 line.Quantity,
			UnitPrice:                line.UnitPrice,
			VatCode:                  line.VATCode,
			GeneralLedgerAccountCode: line.AccountCode,
		})
	}

	respBody, err := a.doRequestWithHeaders(ctx, http.MethodPost, "/orders", accessToken, payload, map[string]string{
		"Idempotency-Key": draft.ContractID.String(),
	})
	if err != nil {
		return nil, err
	}

	var result orderResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	return &accounting.RemoteOrder{
		ID:          strconv.FormatInt(result.ID, 10),
		URL:         result.URL,
		TotalAmount: result.TotalAmount,
	}, nil
}

// ConvertOrderToInvoice turns a provider order into an invoice
func (a *Adapter) ConvertOrderToInvoice(ctx context.Context, accessToken string, orderID string) (*accounting.RemoteInvoice, error) {
	respBody, err := a.doRequest(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/invoice", accessToken, nil)
	if err != nil {
		return nil, err
	}
	return decodeInvoice(respBody)
}

// GetInvoice fetches an invoice with its paid amount and due date
func (a *Adapter) GetInvoice(ctx context.Context, accessToken string, invoiceID string) (*accounting.RemoteInvoice, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet, "/invoices/"+url.PathEscape(invoiceID), accessToken, nil)
	if err != nil {
		return nil, err
	}
	return decodeInvoice(respBody)
}

// ListPayments lists payments registered since the given time
func (a *Adapter) ListPayments(ctx context.Context, accessToken string, since *time.Time) ([]accounting.RemotePayment, error) {
	path := "/payments"
	if since != nil {
		path += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var list paymentListResponse
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, fmt.Errorf("failed to decode payment list response: %w", err)
	}

	payments := make([]accounting.RemotePayment, len(list.Values))
	for i, p := range list.Values {
		payments[i] = accounting.RemotePayment{
			ID:        strconv.FormatInt(p.ID, 10),
			InvoiceID: strconv.FormatInt(p.InvoiceID, 10),
			Amount:    p.Amount,
			PaidAt:    p.PaidAt,
		}
	}
	return payments, nil
}

// GetVATCodes lists the provider's VAT codes
func (a *Adapter) GetVATCodes(ctx context.Context, accessToken string) ([]accounting.VATCode, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet, "/vatcodes", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var list vatCodeListResponse
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, fmt.Errorf("failed to decode VAT code response: %w", err)
	}

	codes := make([]accounting.VATCode, len(list.Values))
	for i, c := range list.Values {
		codes[i] = accounting.VATCode{Code: c.Code, Description: c.Description, Rate: c.Rate}
	}
	return codes, nil
}

// GetAccounts lists the provider's general-ledger accounts
func (a *Adapter) GetAccounts(ctx context.Context, accessToken string) ([]accounting.LedgerAccount, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet, "/generalledgeraccounts", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var list accountListResponse
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, fmt.Errorf("failed to decode account response: %w", err)
	}

	accounts := make([]accounting.LedgerAccount, len(list.Values))
	for i, acc := range list.Values {
		accounts[i] = accounting.LedgerAccount{Code: acc.Code, Description: acc.Description}
	}
	return accounts, nil
}

// doRequest performs an authenticated JSON request against the API
func (a *Adapter) doRequest(ctx context.Context, method, path, accessToken string, body any) ([]byte, error) {
	return a.doRequestWithHeaders(ctx, method, path, accessToken, body, nil)
}

// doRequestWithHeaders performs an authenticated JSON request with extra
// headers. An empty access token fails before any network activity.
func (a *Adapter) doRequestWithHeaders(ctx context.Context, method, path, accessToken string, body any, headers map[string]string) ([]byte, error) {
	if accessToken == "" {
		return nil, accounting.ErrNoAccessToken
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.APIBaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to provider failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, accounting.NewAPIError(resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// decodeInvoice decodes an invoice response body
func decodeInvoice(respBody []byte) (*accounting.RemoteInvoice, error) {
	var result invoiceResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode invoice response: %w", err)
	}
	return &accounting.RemoteInvoice{
		ID:          strconv.FormatInt(result.ID, 10),
		URL:         result.URL,
		Status:      result.Status,
		TotalAmount: result.TotalAmount,
		PaidAmount:  result.PaidAmount,
		DueDate:     result.DueDate,
	}, nil
}

// convertCustomer converts an API customer record to the domain view
func convertCustomer(c *customerResponse) *accounting.RemoteCustomer {
	return &accounting.RemoteCustomer{
		ID:                 strconv.FormatInt(c.ID, 10),
		Name:               c.Name,
		OrganizationNumber: c.OrganizationNumber,
		Email:              c.EmailAddress,
	}
}
