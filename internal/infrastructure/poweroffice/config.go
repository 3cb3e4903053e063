package poweroffice

import "errors"

// Config holds the PowerOffice Go OAuth and API settings
type Config struct {
	// APIBaseURL is the REST API root, e.g. https://api.poweroffice.net/v2
	APIBaseURL string
	// AuthBaseURL is the OAuth endpoint root, e.g. https://goapi.poweroffice.net/oauth
	AuthBaseURL string
	// ClientID is the OAuth client ID issued by PowerOffice
	ClientID string
	// ClientSecret is the OAuth client secret
	ClientSecret string
	// RedirectURL is the registered OAuth callback URL
	RedirectURL string
	// Scope is the requested OAuth scope
	Scope string
	// TimeoutSeconds is the HTTP client timeout in seconds
	TimeoutSeconds int
}

// Validate checks the configuration for required fields
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("poweroffice: APIBaseURL is required")
	}
	if c.AuthBaseURL == "" {
		return errors.New("poweroffice: AuthBaseURL is required")
	}
	if c.ClientID == "" {
		return errors.New("poweroffice: ClientID is required")
	}
	if c.ClientSecret == "" {
		return errors.New("poweroffice: ClientSecret is required")
	}
	if c.RedirectURL == "" {
		return errors.New("poweroffice: RedirectURL is required")
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
