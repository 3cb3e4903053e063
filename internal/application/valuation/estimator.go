package valuation

import (
	"math"
	"strings"
	"time"
)

// EstimateRequest describes the car to value
type EstimateRequest struct {
	Year           int    `json:"year" binding:"required,min=1950"`
	Mileage        int    `json:"mileage" binding:"min=0"`
	Gearbox        string `json:"gearbox"`
	FuelType       string `json:"fuel_type"`
	Driveline      string `json:"driveline"`
	EquipmentCount int    `json:"equipment_count"`
}

// EstimateResponse is a price quantile estimate with sale probabilities.
// P10 is a quick-sale price, P50 the fair market price, P90 a patient
// seller's price. Prob14/Prob30 estimate the chance of selling within 14
// and 30 days at P50.
type EstimateResponse struct {
	P10    int64   `json:"p10"`
	P50    int64   `json:"p50"`
	P90    int64   `json:"p90"`
	Prob14 float64 `json:"prob14"`
	Prob30 float64 `json:"prob30"`
}

// Norwegian market constants behind the heuristic
const (
	expectedKmPerYear = 12000
	minPrice          = 30000
	maxPrice          = 500000
)

// EstimatorService produces deterministic price estimates
type EstimatorService struct{}

// NewEstimatorService creates a new EstimatorService
func NewEstimatorService() *EstimatorService {
	return &EstimatorService{}
}

// Estimate values the car against the current model year
func (s *EstimatorService) Estimate(req EstimateRequest) *EstimateResponse {
	return estimate(req, time.Now().Year())
}

// estimate is the pure heuristic, parameterized on the reference year so
// tests stay stable
func estimate(req EstimateRequest, currentYear int) *EstimateResponse {
	age := currentYear - req.Year
	if age < 0 {
		age = 0
	}
	price := basePriceForAge(age)

	// Mileage against the expected accumulation. High mileage cuts up to
	// 30%, low mileage adds up to 15%.
	kmDiff := float64(req.Mileage - age*expectedKmPerYear)
	if kmDiff > 0 {
		price -= math.Min(kmDiff*0.5, price*0.30)
	} else {
		price += math.Min(-kmDiff*0.3, price*0.15)
	}

	base := basePriceForAge(age)
	if isAutomatic(req.Gearbox) {
		price += base * 0.05
	}
	price += base * fuelPremium(req.FuelType)
	if strings.EqualFold(req.Driveline, "AWD") || strings.EqualFold(req.Driveline, "4WD") {
		price += base * 0.03
	}
	price += math.Min(float64(req.EquipmentCount)*2000, base*0.10)

	price = math.Max(minPrice, math.Min(maxPrice, price))

	kmFactor := clamp(1.0-float64(req.Mileage)/250000, 0.2, 0.9)
	ageFactor := clamp(1.0-float64(age)/15, 0.2, 0.9)
	prob14 := round2(0.3 + kmFactor*0.25 + ageFactor*0.25)
	prob30 := round2(math.Min(0.95, prob14+0.20))

	return &EstimateResponse{
		P10:    int64(price * 0.87),
		P50:    int64(price),
		P90:    int64(price * 1.13),
		Prob14: prob14,
		Prob30: prob30,
	}
}

// basePriceForAge is the depreciation ladder in NOK
func basePriceForAge(age int) float64 {
	switch {
	case age <= 1:
		return 350000
	case age <= 3:
		return 250000
	case age <= 5:
		return 180000
	case age <= 7:
		return 140000
	case age <= 10:
		return 100000
	default:
		return 70000
	}
}

func isAutomatic(gearbox string) bool {
	switch strings.ToLower(gearbox) {
	case "auto", "automatic", "automat":
		return true
	}
	return false
}

// fuelPremium returns the fraction of the base price added for the fuel
// type. Petrol (bensin) is the baseline.
func fuelPremium(fuelType string) float64 {
	switch strings.ToLower(fuelType) {
	case "electric", "elektrisk", "el":
		return 0.20
	case "hybrid":
		return 0.10
	case "diesel":
		return 0.02
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
