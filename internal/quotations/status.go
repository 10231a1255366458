package quotations

// Status is the business lifecycle of a quotation. The soft-delete flag
// (RecordStatus) is deliberately separate.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusInReview Status = "IN_REVIEW"
	StatusReturned Status = "RETURNED"
	StatusSent     Status = "SENT"
)

// Valid reports whether s is one of the four lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusReturned, StatusSent:
		return true
	}
	return false
}

// canReply reports whether staff may record a reply in this state.
// DRAFT and SENT are not reply-able; RETURNED may be re-replied
// (overwriting the previous reply).
func (s Status) canReply() bool {
	return s == StatusInReview || s == StatusReturned
}

// CanDeliver reports whether the quotation may be delivered and marked
// SENT. SENT re-enters itself for resends.
func (s Status) CanDeliver() bool {
	return s == StatusReturned || s == StatusSent
}

// DisplayLabel maps the lifecycle status to the customer-facing Spanish
// label. This is the only place the presentation vocabulary lives.
func DisplayLabel(s Status) string {
	switch s {
	case StatusDraft:
		return "BORRADOR"
	case StatusInReview:
		return "ENVIADA"
	case StatusReturned:
		return "RESPONDIDA"
	case StatusSent:
		return "ENTREGADA"
	}
	return string(s)
}

// ParseLegacyLabel collapses the historical label set onto the current
// lifecycle states. Unknown labels report false.
func ParseLegacyLabel(label string) (Status, bool) {
	switch label {
	case "BORRADOR", string(StatusDraft):
		return StatusDraft, true
	case "ENVIADA", string(StatusInReview):
		return StatusInReview, true
	case "RESPONDIDA", "APROBADA", "RECHAZADA", "APPROVED", "REJECTED", string(StatusReturned):
		return StatusReturned, true
	case "ENTREGADA", "CANCELADA", "CANCELLED", string(StatusSent):
		return StatusSent, true
	}
	return "", false
}
