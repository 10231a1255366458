package catalog

import "github.com/shopspring/decimal"

// ItemForm carries create/update input for a catalog item.
type ItemForm struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// ListFilters narrows catalog listings.
type ListFilters struct {
	Search       string
	RecordStatus *RecordStatus
	Limit        int
	Offset       int
}
