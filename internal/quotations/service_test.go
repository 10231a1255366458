package quotations

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotizador-app/cotizador/internal/catalog"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	quotations map[int64]*Quotation
	lines      map[int64]*Line
	replies    map[int64]*Reply
	folioSeq   map[string]int64
	nextQuoID  int64
	nextLineID int64

	txError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quotations: make(map[int64]*Quotation),
		lines:      make(map[int64]*Line),
		replies:    make(map[int64]*Reply),
		folioSeq:   make(map[string]int64),
		nextQuoID:  1,
		nextLineID: 1,
	}
}

func (m *mockRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	if m.txError != nil {
		return m.txError
	}
	return fn(m)
}

func (m *mockRepository) Create(ctx context.Context, q *Quotation) error {
	q.ID = m.nextQuoID
	m.nextQuoID++
	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now
	stored := *q
	m.quotations[q.ID] = &stored
	return nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Quotation, error) {
	stored, ok := m.quotations[id]
	if !ok {
		return nil, ErrNotFound
	}
	q := *stored
	q.Lines = m.linesFor(id, false)
	if rep, ok := m.replies[id]; ok {
		r := *rep
		q.Reply = &r
	}
	return &q, nil
}

func (m *mockRepository) GetByToken(ctx context.Context, token string) (*Quotation, error) {
	for id, q := range m.quotations {
		if q.Token == token && q.RecordStatus == RecordActive {
			return m.Get(ctx, id)
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepository) List(ctx context.Context, filters ListFilters) ([]Quotation, int, error) {
	var out []Quotation
	for _, q := range m.quotations {
		if filters.Status != nil && q.Status != *filters.Status {
			continue
		}
		if filters.RecordStatus != nil && q.RecordStatus != *filters.RecordStatus {
			continue
		}
		out = append(out, *q)
	}
	return out, len(out), nil
}

func (m *mockRepository) UpdateTotals(ctx context.Context, id int64, subtotal, total decimal.Decimal) error {
	q, ok := m.quotations[id]
	if !ok {
		return ErrNotFound
	}
	q.Subtotal = subtotal
	q.Total = total
	return nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	q, ok := m.quotations[id]
	if !ok {
		return ErrNotFound
	}
	q.Status = status
	return nil
}

func (m *mockRepository) SetRecordStatus(ctx context.Context, id int64, status RecordStatus) error {
	q, ok := m.quotations[id]
	if !ok {
		return ErrNotFound
	}
	q.RecordStatus = status
	return nil
}

func (m *mockRepository) InsertLine(ctx context.Context, l *Line) error {
	l.ID = m.nextLineID
	m.nextLineID++
	stored := *l
	m.lines[l.ID] = &stored
	return nil
}

func (m *mockRepository) UpdateLine(ctx context.Context, lineID int64, quantity, unitPrice, extension decimal.Decimal) error {
	l, ok := m.lines[lineID]
	if !ok {
		return ErrLineNotFound
	}
	l.Quantity = quantity
	l.UnitPrice = unitPrice
	l.Extension = extension
	return nil
}

func (m *mockRepository) SetLineRecordStatus(ctx context.Context, lineID int64, status RecordStatus) error {
	l, ok := m.lines[lineID]
	if !ok {
		return ErrLineNotFound
	}
	l.RecordStatus = status
	return nil
}

func (m *mockRepository) GetLine(ctx context.Context, quotationID, lineID int64) (Line, error) {
	l, ok := m.lines[lineID]
	if !ok || l.QuotationID != quotationID {
		return Line{}, ErrLineNotFound
	}
	return *l, nil
}

func (m *mockRepository) FindActiveLine(ctx context.Context, quotationID int64, kind catalog.ItemKind, itemID int64) (Line, error) {
	for _, l := range m.lines {
		if l.QuotationID != quotationID || l.RecordStatus != RecordActive {
			continue
		}
		k, id := l.Ref()
		if k == kind && id == itemID {
			return *l, nil
		}
	}
	return Line{}, ErrLineNotFound
}

func (m *mockRepository) ActiveLines(ctx context.Context, quotationID int64) ([]Line, error) {
	return m.linesFor(quotationID, true), nil
}

func (m *mockRepository) linesFor(quotationID int64, activeOnly bool) []Line {
	var out []Line
	for id := int64(1); id < m.nextLineID; id++ {
		l, ok := m.lines[id]
		if !ok || l.QuotationID != quotationID {
			continue
		}
		if activeOnly && l.RecordStatus != RecordActive {
			continue
		}
		out = append(out, *l)
	}
	return out
}

func (m *mockRepository) UpsertReply(ctx context.Context, reply Reply) error {
	stored := reply
	m.replies[reply.QuotationID] = &stored
	return nil
}

func (m *mockRepository) NextFolio(ctx context.Context, date time.Time) (string, error) {
	key := date.Format("2006-01-02")
	m.folioSeq[key]++
	return FormatFolio(date, m.folioSeq[key]), nil
}

// ============================================================================
// STUB PRICE LOOKUP
// ============================================================================

type stubPrices struct {
	prices map[string]decimal.Decimal
}

func (s *stubPrices) CurrentUnitPrice(ctx context.Context, kind catalog.ItemKind, id int64) (decimal.Decimal, error) {
	price, ok := s.prices[fmt.Sprintf("%s:%d", kind, id)]
	if !ok {
		return decimal.Zero, catalog.ErrNotFound
	}
	return price, nil
}

func (s *stubPrices) set(kind catalog.ItemKind, id int64, price string) {
	s.prices[fmt.Sprintf("%s:%d", kind, id)] = dec(price)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService() (*Service, *mockRepository, *stubPrices) {
	repo := newMockRepository()
	prices := &stubPrices{prices: make(map[string]decimal.Decimal)}
	svc := NewService(repo, prices, nil, nil)
	return svc, repo, prices
}

// ============================================================================
// CREATE
// ============================================================================

func TestCreateMergesDuplicateRequests(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")
	prices.set(catalog.KindService, 9, "25.50")

	q, dropped, err := svc.Create(context.Background(), CreateRequest{
		Items: []ItemRequest{
			{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("2")},
			{Kind: catalog.KindService, ItemID: 9, Quantity: dec("1")},
			{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("3")},
		},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, dropped)

	require.Len(t, q.Lines, 2)
	first := q.Lines[0]
	require.NotNil(t, first.ProductID)
	assert.Equal(t, int64(1), *first.ProductID)
	assert.True(t, first.Quantity.Equal(dec("5")), "got %s", first.Quantity)
	assert.True(t, first.UnitPrice.Equal(dec("10.00")))
	assert.True(t, first.Extension.Equal(dec("50.00")))

	assert.True(t, q.Total.Equal(dec("75.50")), "got %s", q.Total)
	assert.True(t, q.Subtotal.Equal(q.Total))
	assert.Equal(t, StatusInReview, q.Status)
	assert.Equal(t, RecordActive, q.RecordStatus)
	assert.Len(t, q.Token, tokenBytes*2)
	assert.Regexp(t, `^COT-\d{8}-\d{4}$`, q.Folio)
}

func TestCreateDropsInvalidAndUnavailable(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")

	q, dropped, err := svc.Create(context.Background(), CreateRequest{
		Items: []ItemRequest{
			{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")},
			{Kind: catalog.KindProduct, ItemID: 2, Quantity: dec("4")},
			{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("0")},
		},
	}, nil)
	require.NoError(t, err)

	require.Len(t, dropped, 2)
	reasons := map[string]string{}
	for _, d := range dropped {
		reasons[fmt.Sprintf("%s:%d", d.Kind, d.ItemID)] = d.Reason
	}
	assert.Equal(t, DropInvalidQuantity, reasons["product:1"])
	assert.Equal(t, DropUnavailable, reasons["product:2"])

	// The zero-quantity duplicate does not poison the valid request for
	// the same item.
	require.Len(t, q.Lines, 1)
	assert.True(t, q.Lines[0].Quantity.Equal(dec("1")))
	assert.True(t, q.Total.Equal(dec("10.00")))
	assert.Equal(t, StatusInReview, q.Status)
}

func TestCreateAllDroppedStaysDraft(t *testing.T) {
	svc, _, _ := newTestService()

	q, dropped, err := svc.Create(context.Background(), CreateRequest{
		Items: []ItemRequest{
			{Kind: catalog.KindProduct, ItemID: 5, Quantity: dec("-1")},
			{Kind: catalog.KindProduct, ItemID: 6, Quantity: dec("2")},
		},
	}, nil)
	require.NoError(t, err)
	assert.Len(t, dropped, 2)
	assert.Empty(t, q.Lines)
	assert.True(t, q.Total.IsZero())
	assert.Equal(t, StatusDraft, q.Status)
}

func TestCreateQuantityBoundary(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "100.00")

	q, dropped, err := svc.Create(context.Background(), CreateRequest{
		Items: []ItemRequest{
			{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("0.01")},
		},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, dropped)
	require.Len(t, q.Lines, 1)
	assert.True(t, q.Total.Equal(dec("1.00")))
}

func TestCreateFolioSequencePerDay(t *testing.T) {
	svc, _, _ := newTestService()
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }

	q1, _, err := svc.Create(context.Background(), CreateRequest{}, nil)
	require.NoError(t, err)
	q2, _, err := svc.Create(context.Background(), CreateRequest{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "COT-20260828-0001", q1.Folio)
	assert.Equal(t, "COT-20260828-0002", q2.Folio)
	assert.NotEqual(t, q1.Token, q2.Token)
}

func TestCreateFromGuestRequiresContact(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")

	_, _, err := svc.CreateFromGuest(context.Background(), GuestCreateRequest{
		Items: []ItemRequest{{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, ErrMissingContact)

	email := "cliente@example.com"
	q, _, err := svc.CreateFromGuest(context.Background(), GuestCreateRequest{
		DestinationEmail: &email,
		Items:            []ItemRequest{{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")}},
	})
	require.NoError(t, err)
	assert.Nil(t, q.OwnerUserID)
	require.NotNil(t, q.DestinationEmail)
	assert.Equal(t, email, *q.DestinationEmail)
}

// ============================================================================
// LINE OPERATIONS
// ============================================================================

func createWith(t *testing.T, svc *Service, items ...ItemRequest) *Quotation {
	t.Helper()
	q, _, err := svc.Create(context.Background(), CreateRequest{Items: items}, nil)
	require.NoError(t, err)
	return q
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("2")})

	// Catalog price moved between the two adds; the merged line restamps
	// at the current price.
	prices.set(catalog.KindProduct, 1, "12.00")

	updated, err := svc.AddItem(context.Background(), q.ID, ItemRequest{
		Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("3"),
	})
	require.NoError(t, err)
	require.Len(t, updated.Lines, 1)
	line := updated.Lines[0]
	assert.True(t, line.Quantity.Equal(dec("5")))
	assert.True(t, line.UnitPrice.Equal(dec("12.00")))
	assert.True(t, line.Extension.Equal(dec("60.00")))
	assert.True(t, updated.Total.Equal(dec("60.00")))
}

func TestAddItemValidation(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")
	q := createWith(t, svc)

	_, err := svc.AddItem(context.Background(), q.ID, ItemRequest{
		Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("0"),
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(context.Background(), q.ID, ItemRequest{
		Kind: catalog.KindProduct, ItemID: 99, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, ErrItemUnavailable)
}

func TestAddItemMovesDraftToInReview(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindService, 3, "40.00")
	q := createWith(t, svc)
	require.Equal(t, StatusDraft, q.Status)

	updated, err := svc.AddItem(context.Background(), q.ID, ItemRequest{
		Kind: catalog.KindService, ItemID: 3, Quantity: dec("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusInReview, updated.Status)
}

func TestUpdateLineRecalculatesWithRounding(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "80.00")
	prices.set(catalog.KindProduct, 2, "10.00")
	q := createWith(t, svc,
		ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")},
		ItemRequest{Kind: catalog.KindProduct, ItemID: 2, Quantity: dec("1")},
	)

	// 1.5 * 33.335 = 50.0025 rounds half away from zero to 50.00.
	updated, err := svc.UpdateLine(context.Background(), q.ID, q.Lines[1].ID, UpdateLineRequest{
		Quantity:  dec("1.5"),
		UnitPrice: dec("33.335"),
	})
	require.NoError(t, err)
	assert.True(t, updated.Lines[1].Extension.Equal(dec("50.00")), "got %s", updated.Lines[1].Extension)
	assert.True(t, updated.Total.Equal(dec("130.00")), "got %s", updated.Total)
}

func TestUpdateLineValidation(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")})
	lineID := q.Lines[0].ID

	_, err := svc.UpdateLine(context.Background(), q.ID, lineID, UpdateLineRequest{Quantity: dec("0"), UnitPrice: dec("5")})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateLine(context.Background(), q.ID, lineID, UpdateLineRequest{Quantity: dec("1"), UnitPrice: dec("-5")})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = svc.UpdateLine(context.Background(), q.ID, 999, UpdateLineRequest{Quantity: dec("1"), UnitPrice: dec("5")})
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemoveLineIsIdempotent(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")
	prices.set(catalog.KindProduct, 2, "20.00")
	q := createWith(t, svc,
		ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")},
		ItemRequest{Kind: catalog.KindProduct, ItemID: 2, Quantity: dec("1")},
	)
	lineID := q.Lines[0].ID

	updated, err := svc.RemoveLine(context.Background(), q.ID, lineID)
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(dec("20.00")))
	assert.Equal(t, RecordInactive, updated.Lines[0].RecordStatus)

	// Second removal is a no-op success, not an error.
	again, err := svc.RemoveLine(context.Background(), q.ID, lineID)
	require.NoError(t, err)
	assert.True(t, again.Total.Equal(dec("20.00")))
}

func TestRemovedLinesNeverContributeToTotals(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("3")})

	updated, err := svc.RemoveLine(context.Background(), q.ID, q.Lines[0].ID)
	require.NoError(t, err)
	assert.True(t, updated.Total.IsZero())
	assert.True(t, updated.Subtotal.IsZero())
}

// ============================================================================
// REPLY AND LIFECYCLE
// ============================================================================

func TestReplyComputesFinalTotal(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "100.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")})

	updated, err := svc.Reply(context.Background(), q.ID, ReplyRequest{
		ResponseSummary: "precio especial aplicado",
		DiscountAmount:  dec("10.00"),
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, StatusReturned, updated.Status)
	require.NotNil(t, updated.Reply)
	assert.True(t, updated.Reply.FinalTotal.Equal(dec("90.00")), "got %s", updated.Reply.FinalTotal)
	assert.True(t, updated.Reply.CalcTotalSnapshot.Equal(dec("100.00")))
	assert.Nil(t, updated.Reply.ClientTotalSnapshot)
	require.NotNil(t, updated.Reply.RespondedBy)
	assert.Equal(t, int64(7), *updated.Reply.RespondedBy)
}

func TestReplyWithExplicitFinalTotal(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "100.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")})

	override := dec("85.00")
	updated, err := svc.Reply(context.Background(), q.ID, ReplyRequest{
		ResponseSummary: "ajuste negociado",
		FinalTotal:      &override,
	}, 7)
	require.NoError(t, err)
	require.NotNil(t, updated.Reply)
	assert.True(t, updated.Reply.FinalTotal.Equal(dec("85.00")))
	require.NotNil(t, updated.Reply.ClientTotalSnapshot)
	assert.True(t, updated.Reply.ClientTotalSnapshot.Equal(dec("85.00")))
	require.NotNil(t, updated.Reply.DiffSnapshot)
	assert.True(t, updated.Reply.DiffSnapshot.Equal(dec("15.00")))
}

func TestReplyOverwritesPreviousReply(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "100.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")})

	_, err := svc.Reply(context.Background(), q.ID, ReplyRequest{
		ResponseSummary: "primera respuesta",
		DiscountAmount:  dec("10.00"),
	}, 7)
	require.NoError(t, err)

	updated, err := svc.Reply(context.Background(), q.ID, ReplyRequest{
		ResponseSummary: "respuesta corregida",
		DiscountAmount:  dec("20.00"),
	}, 8)
	require.NoError(t, err)
	assert.Equal(t, "respuesta corregida", updated.Reply.ResponseSummary)
	assert.True(t, updated.Reply.FinalTotal.Equal(dec("80.00")))
}

func TestReplyDiscountClampsAtZero(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")})

	updated, err := svc.Reply(context.Background(), q.ID, ReplyRequest{
		ResponseSummary: "descuento total",
		DiscountAmount:  dec("50.00"),
	}, 7)
	require.NoError(t, err)
	assert.True(t, updated.Reply.FinalTotal.IsZero())
}

func TestReplyValidation(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")})

	_, err := svc.Reply(context.Background(), q.ID, ReplyRequest{ResponseSummary: "ok"}, 7)
	assert.ErrorIs(t, err, ErrSummaryTooShort)

	// Three runes, six bytes: the minimum counts characters, not bytes.
	_, err = svc.Reply(context.Background(), q.ID, ReplyRequest{ResponseSummary: "ááá"}, 7)
	assert.ErrorIs(t, err, ErrSummaryTooShort)

	_, err = svc.Reply(context.Background(), q.ID, ReplyRequest{
		ResponseSummary: "respuesta valida",
		DiscountAmount:  dec("-1"),
	}, 7)
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestReplyRejectedOutsideReviewableStates(t *testing.T) {
	svc, _, _ := newTestService()
	draft := createWith(t, svc)

	_, err := svc.Reply(context.Background(), draft.ID, ReplyRequest{
		ResponseSummary: "respuesta valida",
	}, 7)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMarkSentTransitions(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")})

	// IN_REVIEW cannot be delivered; there is nothing to send yet.
	_, err := svc.MarkSent(context.Background(), q.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Reply(context.Background(), q.ID, ReplyRequest{ResponseSummary: "respuesta lista"}, 7)
	require.NoError(t, err)

	sent, err := svc.MarkSent(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, sent.Status)

	// Resend from SENT is allowed.
	again, err := svc.MarkSent(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, again.Status)
}

func TestDeactivateStopsTokenResolution(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")})

	resolved, err := svc.ResolveByToken(context.Background(), q.Token)
	require.NoError(t, err)
	assert.Equal(t, q.ID, resolved.ID)

	require.NoError(t, svc.Deactivate(context.Background(), q.ID))

	_, err = svc.ResolveByToken(context.Background(), q.Token)
	assert.ErrorIs(t, err, ErrNotFound)

	// Staff can still read the soft-deleted record.
	got, err := svc.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, RecordInactive, got.RecordStatus)
}

func TestOperationsOnDeactivatedQuotation(t *testing.T) {
	svc, _, prices := newTestService()
	prices.set(catalog.KindProduct, 1, "10.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")})
	require.NoError(t, svc.Deactivate(context.Background(), q.ID))

	_, err := svc.AddItem(context.Background(), q.ID, ItemRequest{
		Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Reply(context.Background(), q.ID, ReplyRequest{ResponseSummary: "respuesta valida"}, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
