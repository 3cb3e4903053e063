package accounting

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMappingSet(companyID uuid.UUID) *MappingSet {
	vat := []VatMapping{
		*NewVatMapping(companyID, ProviderCodePowerOffice, CategoryCar, "3"),
		*NewVatMapping(companyID, ProviderCodePowerOffice, CategoryAddon, "3"),
	}
	account := []AccountMapping{
		*NewAccountMapping(companyID, ProviderCodePowerOffice, CategoryCar, "3100"),
	}
	return NewMappingSet(vat, account)
}

func TestMappingSet_Resolve(t *testing.T) {
	set := newTestMappingSet(uuid.New())

	vatCode, accountCode, err := set.Resolve(CategoryCar)
	require.NoError(t, err)
	assert.Equal(t, "3", vatCode)
	assert.Equal(t, "3100", accountCode)
}

func TestMappingSet_ResolveMissingVat(t *testing.T) {
	set := newTestMappingSet(uuid.New())

	_, _, err := set.Resolve(CategoryLabor)
	var missing *MappingMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, CategoryLabor, missing.Category)
	assert.Equal(t, MappingKindVAT, missing.Kind)
}

func TestMappingSet_ResolveMissingAccount(t *testing.T) {
	set := newTestMappingSet(uuid.New())

	// addon has a VAT code but no ledger account
	_, _, err := set.Resolve(CategoryAddon)
	var missing *MappingMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, CategoryAddon, missing.Category)
	assert.Equal(t, MappingKindAccount, missing.Kind)
}

func TestMappingSet_ResolveEmptyCodeCountsAsMissing(t *testing.T) {
	companyID := uuid.New()
	set := NewMappingSet(
		[]VatMapping{*NewVatMapping(companyID, ProviderCodePowerOffice, CategoryFee, "")},
		nil,
	)

	_, _, err := set.Resolve(CategoryFee)
	var missing *MappingMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, MappingKindVAT, missing.Kind)
}

func TestMappingSet_Validate(t *testing.T) {
	set := newTestMappingSet(uuid.New())

	require.NoError(t, set.Validate([]Category{CategoryCar}))

	err := set.Validate([]Category{CategoryCar, CategoryPart})
	var missing *MappingMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, CategoryPart, missing.Category)
}
