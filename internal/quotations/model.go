package quotations

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cotizador-app/cotizador/internal/catalog"
)

// RecordStatus is the soft-delete flag, orthogonal to the lifecycle status.
type RecordStatus string

const (
	RecordActive   RecordStatus = "active"
	RecordInactive RecordStatus = "inactive"
)

// Quotation is the aggregate root. Subtotal and Total are derived from the
// active lines and never accepted from callers.
type Quotation struct {
	ID               int64           `json:"id"`
	Folio            string          `json:"folio"`
	Token            string          `json:"token"`
	OwnerUserID      *int64          `json:"owner_user_id,omitempty"`
	CustomerID       *int64          `json:"customer_id,omitempty"`
	DestinationEmail *string         `json:"destination_email,omitempty"`
	DestinationPhone *string         `json:"destination_phone,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Total            decimal.Decimal `json:"total"`
	Status           Status          `json:"status"`
	RecordStatus     RecordStatus    `json:"record_status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Lines            []Line          `json:"lines,omitempty"`
	Reply            *Reply          `json:"reply,omitempty"`
}

// Line is one priced entry referencing exactly one catalog product or service.
type Line struct {
	ID           int64           `json:"id"`
	QuotationID  int64           `json:"quotation_id"`
	ProductID    *int64          `json:"product_id,omitempty"`
	ServiceID    *int64          `json:"service_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Extension    decimal.Decimal `json:"extension"`
	RecordStatus RecordStatus    `json:"record_status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Ref returns the catalog reference of the line.
func (l Line) Ref() (catalog.ItemKind, int64) {
	if l.ServiceID != nil {
		return catalog.KindService, *l.ServiceID
	}
	if l.ProductID != nil {
		return catalog.KindProduct, *l.ProductID
	}
	return "", 0
}

// Reply is the staff-authored response record, one per quotation. A new
// reply overwrites the previous one; there is no history.
type Reply struct {
	QuotationID         int64            `json:"quotation_id"`
	ResponseSummary     string           `json:"response_summary"`
	DiscountAmount      decimal.Decimal  `json:"discount_amount"`
	FinalTotal          decimal.Decimal  `json:"final_total"`
	CalcTotalSnapshot   decimal.Decimal  `json:"calc_total_snapshot"`
	ClientTotalSnapshot *decimal.Decimal `json:"client_total_snapshot,omitempty"`
	DiffSnapshot        *decimal.Decimal `json:"diff_snapshot,omitempty"`
	RespondedBy         *int64           `json:"responded_by_user_id,omitempty"`
	RespondedAt         time.Time        `json:"responded_at"`
}
