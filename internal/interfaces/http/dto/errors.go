package dto

import "net/http"

// Error codes returned by the API. Domain and application layers produce
// these through shared.DomainError; the HTTP layer maps them to status
// codes here.
const (
	// Generic
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"

	// Dealership
	ErrCodeDuplicateRegistration  = "DUPLICATE_REGISTRATION"
	ErrCodeInvalidStatus          = "INVALID_STATUS"
	ErrCodeCarReserved            = "CAR_RESERVED"
	ErrCodeCarNotAvailable        = "CAR_NOT_AVAILABLE"
	ErrCodeContractNotDraft       = "CONTRACT_NOT_DRAFT"
	ErrCodeContractNotCancellable = "CONTRACT_NOT_CANCELLABLE"
	ErrCodeInvalidCategory        = "INVALID_CATEGORY"
	ErrCodeInvalidTradeIn         = "INVALID_TRADE_IN"

	// Accounting sync
	ErrCodeNotConnected       = "NOT_CONNECTED"
	ErrCodeNoAccessToken      = "NO_ACCESS_TOKEN"
	ErrCodeInvalidOAuthState  = "INVALID_OAUTH_STATE"
	ErrCodeOAuthExchange      = "OAUTH_EXCHANGE_FAILED"
	ErrCodeOAuthRefresh       = "OAUTH_REFRESH_FAILED"
	ErrCodeEmptyMapping       = "EMPTY_MAPPING"
	ErrCodeMappingMissing     = "MAPPING_MISSING"
	ErrCodeContractNotSigned  = "CONTRACT_NOT_SIGNED"
	ErrCodeOrderNotSent       = "ORDER_NOT_SENT"
	ErrCodeInvoiceNotFound    = "INVOICE_NOT_FOUND"
	ErrCodeJobNotRetryable    = "JOB_NOT_RETRYABLE"
	ErrCodeJobNotCancellable  = "JOB_NOT_CANCELLABLE"
	ErrCodeProviderAPIFailure = "API_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeInternalError:    http.StatusInternalServerError,
	ErrCodeDuplicateRequest: http.StatusConflict,

	ErrCodeDuplicateRegistration:  http.StatusConflict,
	ErrCodeInvalidStatus:          http.StatusBadRequest,
	ErrCodeCarReserved:            http.StatusUnprocessableEntity,
	ErrCodeCarNotAvailable:        http.StatusUnprocessableEntity,
	ErrCodeContractNotDraft:       http.StatusUnprocessableEntity,
	ErrCodeContractNotCancellable: http.StatusUnprocessableEntity,
	ErrCodeInvalidCategory:        http.StatusBadRequest,
	ErrCodeInvalidTradeIn:         http.StatusBadRequest,

	ErrCodeNotConnected:       http.StatusUnprocessableEntity,
	ErrCodeNoAccessToken:      http.StatusUnprocessableEntity,
	ErrCodeInvalidOAuthState:  http.StatusBadRequest,
	ErrCodeOAuthExchange:      http.StatusBadGateway,
	ErrCodeOAuthRefresh:       http.StatusBadGateway,
	ErrCodeEmptyMapping:       http.StatusBadRequest,
	ErrCodeMappingMissing:     http.StatusUnprocessableEntity,
	ErrCodeContractNotSigned:  http.StatusUnprocessableEntity,
	ErrCodeOrderNotSent:       http.StatusUnprocessableEntity,
	ErrCodeInvoiceNotFound:    http.StatusNotFound,
	ErrCodeJobNotRetryable:    http.StatusUnprocessableEntity,
	ErrCodeJobNotCancellable:  http.StatusUnprocessableEntity,
	ErrCodeProviderAPIFailure: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes fall back to 500 so a new domain code never silently
// masks a server fault as a client error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
