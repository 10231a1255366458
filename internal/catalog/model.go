package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind distinguishes the two catalog tables a quotation line can reference.
type ItemKind string

const (
	KindProduct ItemKind = "product"
	KindService ItemKind = "service"
)

// Valid reports whether the kind is one of the two known catalog kinds.
func (k ItemKind) Valid() bool {
	return k == KindProduct || k == KindService
}

// RecordStatus is the soft-delete flag shared by catalog entities.
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusInactive RecordStatus = "inactive"
)

// Item is a sellable catalog entry, either a product or a service.
type Item struct {
	ID           int64           `json:"id"`
	Kind         ItemKind        `json:"kind"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	RecordStatus RecordStatus    `json:"record_status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
