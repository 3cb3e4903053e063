package accounting

// Category classifies a sellable contract line for VAT and ledger mapping.
// Every order line sent to the accounting provider must carry a category
// that resolves to both a VAT code and a ledger account.
type Category string

const (
	CategoryCar             Category = "car"
	CategoryAddon           Category = "addon"
	CategoryPart            Category = "part"
	CategoryLabor           Category = "labor"
	CategoryFee             Category = "fee"
	CategoryRegistrationFee Category = "registration_fee"
)

// AllCategories lists every valid category
func AllCategories() []Category {
	return []Category{
		CategoryCar,
		CategoryAddon,
		CategoryPart,
		CategoryLabor,
		CategoryFee,
		CategoryRegistrationFee,
	}
}

// IsValid returns true if the category is one of the fixed enumeration
func (c Category) IsValid() bool {
	switch c {
	case CategoryCar, CategoryAddon, CategoryPart, CategoryLabor,
		CategoryFee, CategoryRegistrationFee:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}
