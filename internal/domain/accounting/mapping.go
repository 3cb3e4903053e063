package accounting

import (
	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VatMapping maps a local category to a provider VAT code for one company
type VatMapping struct {
	shared.CompanyEntity
	Provider ProviderCode
	Category Category
	VATCode  string
}

// NewVatMapping creates a VAT mapping
func NewVatMapping(companyID uuid.UUID, provider ProviderCode, category Category, vatCode string) *VatMapping {
	return &VatMapping{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Provider:      provider,
		Category:      category,
		VATCode:       vatCode,
	}
}

// AccountMapping maps a local category to a provider ledger account for one company
type AccountMapping struct {
	shared.CompanyEntity
	Provider    ProviderCode
	Category    Category
	AccountCode string
}

// NewAccountMapping creates an account mapping
func NewAccountMapping(companyID uuid.UUID, provider ProviderCode, category Category, accountCode string) *AccountMapping {
	return &AccountMapping{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Provider:      provider,
		Category:      category,
		AccountCode:   accountCode,
	}
}

// MappingSet is the resolved mapping tables for one company/provider pair.
// It is the gate every order submission must pass before any remote call.
type MappingSet struct {
	VAT     map[Category]string
	Account map[Category]string
}

// NewMappingSet builds a MappingSet from mapping rows
func NewMappingSet(vat []VatMapping, account []AccountMapping) *MappingSet {
	set := &MappingSet{
		VAT:     make(map[Category]string, len(vat)),
		Account: make(map[Category]string, len(account)),
	}
	for _, m := range vat {
		set.VAT[m.Category] = m.VATCode
	}
	for _, m := range account {
		set.Account[m.Category] = m.AccountCode
	}
	return set
}

// Resolve returns the VAT code and ledger account for a category, or a
// MappingMissingError naming the category and the absent mapping kind.
func (s *MappingSet) Resolve(category Category) (vatCode, accountCode string, err error) {
	vatCode, ok := s.VAT[category]
	if !ok || vatCode == "" {
		return "", "", &MappingMissingError{Category: category, Kind: MappingKindVAT}
	}
	accountCode, ok = s.Account[category]
	if !ok || accountCode == "" {
		return "", "", &MappingMissingError{Category: category, Kind: MappingKindAccount}
	}
	return vatCode, accountCode, nil
}

// Validate checks that every category in the list resolves. Returns the
// first missing mapping encountered.
func (s *MappingSet) Validate(categories []Category) error {
	for _, category := range categories {
		if _, _, err := s.Resolve(category); err != nil {
			return err
		}
	}
	return nil
}
