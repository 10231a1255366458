package quotations

import (
	"github.com/shopspring/decimal"

	"github.com/cotizador-app/cotizador/internal/catalog"
)

// ItemRequest is one requested catalog item with a quantity. Requests are
// merged per (kind, item_id) before becoming lines.
type ItemRequest struct {
	Kind     catalog.ItemKind `json:"kind" validate:"required,oneof=product service"`
	ItemID   int64            `json:"item_id" validate:"required,gt=0"`
	Quantity decimal.Decimal  `json:"quantity"`
}

// CreateRequest opens a new quotation. Totals and status are always
// derived server-side; the payload has no fields for them and unknown
// fields are rejected on decode.
type CreateRequest struct {
	CustomerID       *int64        `json:"customer_id" validate:"omitempty,gt=0"`
	DestinationEmail *string       `json:"destination_email" validate:"omitempty,email,max=255"`
	DestinationPhone *string       `json:"destination_phone" validate:"omitempty,max=30"`
	Items            []ItemRequest `json:"items" validate:"omitempty,dive"`
}

// GuestCreateRequest is the public variant of CreateRequest. At least one
// contact channel is required so staff can return the quotation.
type GuestCreateRequest struct {
	DestinationEmail *string       `json:"destination_email" validate:"omitempty,email,max=255"`
	DestinationPhone *string       `json:"destination_phone" validate:"omitempty,max=30"`
	Items            []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateLineRequest edits the quantity and unit price of one line.
type UpdateLineRequest struct {
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ReplyRequest records the staff response. FinalTotal, when present,
// overrides the computed discount arithmetic and the difference is
// snapshotted alongside.
type ReplyRequest struct {
	ResponseSummary string           `json:"response_summary" validate:"required,min=5,max=2000"`
	DiscountAmount  decimal.Decimal  `json:"discount_amount"`
	FinalTotal      *decimal.Decimal `json:"final_total"`
}

// MarkSentRequest records the delivery channel used.
type MarkSentRequest struct {
	Channel string `json:"channel" validate:"required,oneof=email whatsapp"`
}

// ListFilters narrows quotation listings.
type ListFilters struct {
	Status       *Status
	RecordStatus *RecordStatus
	CustomerID   *int64
	Limit        int
	Offset       int
}

// CreateResult pairs the stored quotation with the requests that were
// silently dropped during merge, so callers can see what did not make it.
type CreateResult struct {
	Quotation *Quotation       `json:"quotation"`
	Dropped   []DroppedRequest `json:"dropped"`
}
