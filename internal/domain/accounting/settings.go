package accounting

import (
	"time"

	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Settings holds the accounting connection state for one (company, provider)
// pair. Tokens are plaintext in the domain; the persistence layer encrypts
// them at rest.
type Settings struct {
	shared.CompanyEntity
	Provider       ProviderCode
	AccessToken    string
	RefreshToken   string
	TokenExpiresAt *time.Time
	Connected      bool
	LastSyncAt     *time.Time
}

// NewSettings creates settings for a company/provider pair, not yet connected
func NewSettings(companyID uuid.UUID, provider ProviderCode) *Settings {
	return &Settings{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Provider:      provider,
	}
}

// ApplyTokens stores a fresh token pair and marks the connection active
func (s *Settings) ApplyTokens(tokens *TokenResponse) {
	s.AccessToken = tokens.AccessToken
	s.RefreshToken = tokens.RefreshToken
	expiresAt := tokens.ExpiresAt
	s.TokenExpiresAt = &expiresAt
	s.Connected = true
	s.UpdatedAt = time.Now()
}

// Disconnect nulls the stored tokens and marks the connection inactive.
// The local disconnect always succeeds regardless of remote revocation.
func (s *Settings) Disconnect() {
	s.AccessToken = ""
	s.RefreshToken = ""
	s.TokenExpiresAt = nil
	s.Connected = false
	s.UpdatedAt = time.Now()
}

// MarkSynced records the time of the last successful sync operation
func (s *Settings) MarkSynced(at time.Time) {
	s.LastSyncAt = &at
	s.UpdatedAt = time.Now()
}

// TokenExpired reports whether the access token has passed its expiry
func (s *Settings) TokenExpired(now time.Time) bool {
	return s.TokenExpiresAt != nil && s.TokenExpiresAt.Before(now)
}

// CanCall reports whether the settings carry a usable access token
func (s *Settings) CanCall() bool {
	return s.Connected && s.AccessToken != ""
}
