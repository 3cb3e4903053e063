package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_Deterministic(t *testing.T) {
	req := EstimateRequest{
		Year:           2021,
		Mileage:        42000,
		Gearbox:        "Automat",
		FuelType:       "Bensin",
		EquipmentCount: 8,
	}

	first := estimate(req, 2026)
	second := estimate(req, 2026)
	assert.Equal(t, first, second)
}

func TestEstimate_QuantileOrderingAndSpread(t *testing.T) {
	resp := estimate(EstimateRequest{Year: 2020, Mileage: 80000}, 2026)

	assert.Less(t, resp.P10, resp.P50)
	assert.Less(t, resp.P50, resp.P90)
	// Fixed 13% spread around the fair price
	assert.Equal(t, int64(float64(resp.P50)*0.87), resp.P10)
	assert.Equal(t, int64(float64(resp.P50)*1.13), resp.P90)
}

func TestEstimate_DepreciationLadder(t *testing.T) {
	newCar := estimate(EstimateRequest{Year: 2026, Mileage: 0}, 2026)
	threeYears := estimate(EstimateRequest{Year: 2023, Mileage: 36000}, 2026)
	tenYears := estimate(EstimateRequest{Year: 2016, Mileage: 120000}, 2026)

	assert.Greater(t, newCar.P50, threeYears.P50)
	assert.Greater(t, threeYears.P50, tenYears.P50)
}

func TestEstimate_HighMileagePenaltyCapped(t *testing.T) {
	normal := estimate(EstimateRequest{Year: 2021, Mileage: 60000}, 2026)
	high := estimate(EstimateRequest{Year: 2021, Mileage: 250000}, 2026)
	extreme := estimate(EstimateRequest{Year: 2021, Mileage: 900000}, 2026)

	assert.Greater(t, normal.P50, high.P50)
	// Penalty caps at 30% of base; more km beyond the cap changes nothing
	assert.Equal(t, high.P50, extreme.P50)
}

func TestEstimate_PremiumAdjustments(t *testing.T) {
	base := EstimateRequest{Year: 2022, Mileage: 48000}

	manual := estimate(base, 2026)

	auto := base
	auto.Gearbox = "auto"
	assert.Greater(t, estimate(auto, 2026).P50, manual.P50)

	electric := base
	electric.FuelType = "Electric"
	assert.Greater(t, estimate(electric, 2026).P50, manual.P50)

	awd := base
	awd.Driveline = "AWD"
	assert.Greater(t, estimate(awd, 2026).P50, manual.P50)

	equipped := base
	equipped.EquipmentCount = 5
	assert.Greater(t, estimate(equipped, 2026).P50, manual.P50)
}

func TestEstimate_PriceBounds(t *testing.T) {
	wreck := estimate(EstimateRequest{Year: 1995, Mileage: 400000}, 2026)
	assert.GreaterOrEqual(t, wreck.P50, int64(minPrice))

	pristine := estimate(EstimateRequest{
		Year: 2026, Mileage: 0, Gearbox: "auto", FuelType: "Electric", EquipmentCount: 50,
	}, 2026)
	assert.LessOrEqual(t, pristine.P50, int64(maxPrice))
}

func TestEstimate_SaleProbabilities(t *testing.T) {
	fresh := estimate(EstimateRequest{Year: 2025, Mileage: 10000}, 2026)
	old := estimate(EstimateRequest{Year: 2010, Mileage: 280000}, 2026)

	require.Greater(t, fresh.Prob14, old.Prob14)
	assert.Greater(t, fresh.Prob30, fresh.Prob14)
	assert.LessOrEqual(t, fresh.Prob30, 0.95)
	assert.GreaterOrEqual(t, old.Prob14, 0.3, "probability floor from the factor clamps")
}
