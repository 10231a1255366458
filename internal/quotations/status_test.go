package quotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayLabels(t *testing.T) {
	assert.Equal(t, "BORRADOR", DisplayLabel(StatusDraft))
	assert.Equal(t, "ENVIADA", DisplayLabel(StatusInReview))
	assert.Equal(t, "RESPONDIDA", DisplayLabel(StatusReturned))
	assert.Equal(t, "ENTREGADA", DisplayLabel(StatusSent))
}

func TestParseLegacyLabel(t *testing.T) {
	cases := map[string]Status{
		"BORRADOR":   StatusDraft,
		"ENVIADA":    StatusInReview,
		"RESPONDIDA": StatusReturned,
		"APROBADA":   StatusReturned,
		"RECHAZADA":  StatusReturned,
		"APPROVED":   StatusReturned,
		"REJECTED":   StatusReturned,
		"ENTREGADA":  StatusSent,
		"CANCELADA":  StatusSent,
		"CANCELLED":  StatusSent,
		"DRAFT":      StatusDraft,
		"IN_REVIEW":  StatusInReview,
		"RETURNED":   StatusReturned,
		"SENT":       StatusSent,
	}
	for label, want := range cases {
		got, ok := ParseLegacyLabel(label)
		assert.True(t, ok, label)
		assert.Equal(t, want, got, label)
	}

	_, ok := ParseLegacyLabel("PENDIENTE")
	assert.False(t, ok)
}

func TestStatusCapabilities(t *testing.T) {
	assert.False(t, StatusDraft.canReply())
	assert.True(t, StatusInReview.canReply())
	assert.True(t, StatusReturned.canReply())
	assert.False(t, StatusSent.canReply())

	assert.False(t, StatusDraft.CanDeliver())
	assert.False(t, StatusInReview.CanDeliver())
	assert.True(t, StatusReturned.CanDeliver())
	assert.True(t, StatusSent.CanDeliver())
}
