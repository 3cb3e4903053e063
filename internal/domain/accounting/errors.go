package accounting

import (
	"fmt"

	"github.com/dealerdesk/backend/internal/domain/shared"
)

// Accounting-specific domain errors
var (
	ErrOAuthExchangeFailed = shared.NewDomainError("OAUTH_EXCHANGE_FAILED", "Failed to exchange authorization code for tokens")
	ErrOAuthRefreshFailed  = shared.NewDomainError("OAUTH_REFRESH_FAILED", "Failed to refresh access token")
	ErrNoAccessToken       = shared.NewDomainError("NO_ACCESS_TOKEN", "No access token available for provider call")
	ErrNotConnected        = shared.NewDomainError("NOT_CONNECTED", "Accounting provider is not connected")
)

// APIError wraps a non-2xx response from the accounting provider,
// preserving the HTTP status and response body for the sync log.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("provider API error: HTTP %d: %s", e.StatusCode, e.Body)
}

// Code returns the stable error code for APIError
func (e *APIError) Code() string {
	return "API_ERROR"
}

// NewAPIError creates an APIError from a provider response
func NewAPIError(statusCode int, body string) *APIError {
	return &APIError{StatusCode: statusCode, Body: body}
}

// MappingKind identifies which mapping table a missing entry belongs to
type MappingKind string

const (
	MappingKindVAT     MappingKind = "vat"
	MappingKindAccount MappingKind = "account"
)

// MappingMissingError indicates that a category used by a contract has no
// VAT or account mapping configured. It is raised before any remote call.
type MappingMissingError struct {
	Category Category
	Kind     MappingKind
}

// Error implements the error interface
func (e *MappingMissingError) Error() string {
	return fmt.Sprintf("no %s mapping configured for category %q", e.Kind, e.Category)
}

// Code returns the stable error code for MappingMissingError
func (e *MappingMissingError) Code() string {
	return "MAPPING_MISSING"
}
