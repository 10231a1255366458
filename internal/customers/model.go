package customers

import "time"

// RecordStatus is the soft-delete flag for customer rows.
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusInactive RecordStatus = "inactive"
)

// Customer is a known contact that quotations may link to.
type Customer struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Email        *string      `json:"email,omitempty"`
	Phone        *string      `json:"phone,omitempty"`
	RecordStatus RecordStatus `json:"record_status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CustomerForm carries create/update input.
type CustomerForm struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// ListFilters narrows customer listings.
type ListFilters struct {
	Search       string
	RecordStatus *RecordStatus
	Limit        int
	Offset       int
}
