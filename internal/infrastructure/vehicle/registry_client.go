package vehicle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseSize is the maximum allowed response size from the registry (5MB)
const maxResponseSize = 5 * 1024 * 1024

// ErrVehicleNotFound indicates the registration number is unknown to the registry
var ErrVehicleNotFound = errors.New("vehicle: registration number not found in registry")

// ErrRegistryUnavailable indicates the registry could not be reached
var ErrRegistryUnavailable = errors.New("vehicle: registry unavailable")

// Info is the registry's view of a vehicle, trimmed to the fields the
// dealership cares about when taking a car into stock or valuing a trade-in.
type Info struct {
	RegistrationNumber string
	VIN                string
	Make               string
	Model              string
	Year               int
	FuelType           string
	Gearbox            string
	Driveline          string
	Color              string
	FirstRegisteredAt  *time.Time
}

// Config holds the vehicle registry client settings
type Config struct {
	// BaseURL is the registry API root
	BaseURL string
	// APIKey authenticates requests against the registry
	APIKey string
	// TimeoutSeconds is the HTTP client timeout in seconds
	TimeoutSeconds int
}

// RegistryClient looks up vehicles in the Statens vegvesen open data API
type RegistryClient struct {
	config     *Config
	httpClient *http.Client
}

// NewRegistryClient creates a registry client
func NewRegistryClient(config *Config) (*RegistryClient, error) {
	if config.BaseURL == "" {
		return nil, errors.New("vehicle: BaseURL is required")
	}
	timeout := config.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &RegistryClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}, nil
}

// registry wire types, reduced to the fields we read
type lookupResponse struct {
	Kjoretoydata []kjoretoydata `json:"kjoretoydataListe"`
}

type kjoretoydata struct {
	Kjoretoyident           kjoretoyident           `json:"kjoretoyId"`
	Forstegangsregistrering forstegangsregistrering `json:"forstegangsregistrering"`
	Godkjenning             godkjenning             `json:"godkjenning"`
}

type kjoretoyident struct {
	Kjennemerke       string `json:"kjennemerke"`
	Understellsnummer string `json:"understellsnummer"`
}

type forstegangsregistrering struct {
	RegistrertForstegangNorgeDato string `json:"registrertForstegangNorgeDato"`
}

type godkjenning struct {
	TekniskGodkjenning struct {
		TekniskeData tekniskeData `json:"tekniskeData"`
	} `json:"tekniskGodkjenning"`
}

type tekniskeData struct {
	Generelt             generelt             `json:"generelt"`
	MotorOgDrivverk      motorOgDrivverk      `json:"motorOgDrivverk"`
	KarosseriOgLasteplan karosseriOgLasteplan `json:"karosseriOgLasteplan"`
}

type kodeNavn struct {
	KodeNavn string `json:"kodeNavn"`
}

type generelt struct {
	Merke             []merke  `json:"merke"`
	Handelsbetegnelse []string `json:"handelsbetegnelse"`
}

type merke struct {
	Merke string `json:"merke"`
}

type motorOgDrivverk struct {
	Motor        []motor  `json:"motor"`
	Girkassetype kodeNavn `json:"girkassetype"`
}

type motor struct {
	Drivstoff []kodeNavn `json:"drivstoff"`
}

type karosseriOgLasteplan struct {
	RFarge []kodeNavn `json:"rFarge"`
}

// Lookup fetches vehicle data for a Norwegian registration number
func (c *RegistryClient) Lookup(ctx context.Context, regNr string) (*Info, error) {
	regNr = strings.ToUpper(strings.TrimSpace(regNr))
	if regNr == "" {
		return nil, ErrVehicleNotFound
	}

	endpoint := c.config.BaseURL + "/enkeltoppslag/kjoretoydata?kjennemerke=" + url.QueryEscape(regNr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("vehicle: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("SVV-Authorization", "Apikey "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("vehicle: failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrVehicleNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrRegistryUnavailable, resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("vehicle: failed to decode response: %w", err)
	}
	if len(decoded.Kjoretoydata) == 0 {
		return nil, ErrVehicleNotFound
	}
	return convertInfo(&decoded.Kjoretoydata[0]), nil
}

// convertInfo flattens the registry's nested structure
func convertInfo(data *kjoretoydata) *Info {
	info := &Info{
		RegistrationNumber: data.Kjoretoyident.Kjennemerke,
		VIN:                data.Kjoretoyident.Understellsnummer,
	}

	generelt := data.Godkjenning.TekniskGodkjenning.TekniskeData.Generelt
	if len(generelt.Merke) > 0 {
		info.Make = generelt.Merke[0].Merke
	}
	if len(generelt.Handelsbetegnelse) > 0 {
		info.Model = generelt.Handelsbetegnelse[0]
	}

	drivverk := data.Godkjenning.TekniskGodkjenning.TekniskeData.MotorOgDrivverk
	if len(drivverk.Motor) > 0 && len(drivverk.Motor[0].Drivstoff) > 0 {
		info.FuelType = drivverk.Motor[0].Drivstoff[0].KodeNavn
	}
	info.Gearbox = drivverk.Girkassetype.KodeNavn

	karosseri := data.Godkjenning.TekniskGodkjenning.TekniskeData.KarosseriOgLasteplan
	if len(karosseri.RFarge) > 0 {
		info.Color = karosseri.RFarge[0].KodeNavn
	}

	if raw := data.Forstegangsregistrering.RegistrertForstegangNorgeDato; raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			info.FirstRegisteredAt = &parsed
			info.Year = parsed.Year()
		}
	}
	return info
}
