package quotations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/cotizador-app/cotizador/internal/catalog"
	"github.com/cotizador-app/cotizador/internal/observability"
)

// Business rule violations surfaced to handlers.
var (
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidPrice    = errors.New("unit price must not be negative")
	ErrInvalidDiscount = errors.New("discount must not be negative")
	ErrSummaryTooShort = errors.New("response summary too short")
	ErrInvalidStatus   = errors.New("operation not allowed in current status")
	ErrMissingContact  = errors.New("destination email or phone is required")
	ErrItemUnavailable = errors.New("catalog item unavailable")
)

// Service owns the quotation lifecycle. All multi-row writes run inside
// one transaction so stored totals never drift from the active lines.
type Service struct {
	repo    Repository
	prices  catalog.PriceLookup
	metrics *observability.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, prices catalog.PriceLookup, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		prices:  prices,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Create opens a quotation for the given owner (nil for guests). Item
// requests are merged and priced up front; requests that cannot become
// lines are reported back rather than failing the batch. The quotation
// starts in DRAFT and moves to IN_REVIEW when at least one line lands.
func (s *Service) Create(ctx context.Context, req CreateRequest, ownerUserID *int64) (*Quotation, []DroppedRequest, error) {
	merged, dropped, err := MergeRequests(ctx, s.prices, req.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("quotations: price items: %w", err)
	}

	token, err := NewToken()
	if err != nil {
		return nil, nil, err
	}

	var id int64
	err = s.repo.InTx(ctx, func(tx Repository) error {
		folio, err := tx.NextFolio(ctx, s.now())
		if err != nil {
			return fmt.Errorf("quotations: claim folio: %w", err)
		}

		q := Quotation{
			Folio:            folio,
			Token:            token,
			OwnerUserID:      ownerUserID,
			CustomerID:       req.CustomerID,
			DestinationEmail: normalizeContact(req.DestinationEmail),
			DestinationPhone: normalizeContact(req.DestinationPhone),
			Subtotal:         decimal.Zero,
			Total:            decimal.Zero,
			Status:           StatusDraft,
			RecordStatus:     RecordActive,
		}
		if err := tx.Create(ctx, &q); err != nil {
			return err
		}
		id = q.ID

		total := decimal.Zero
		for _, m := range merged {
			line := Line{
				QuotationID:  q.ID,
				Quantity:     m.Quantity,
				UnitPrice:    m.UnitPrice,
				Extension:    m.Extension,
				RecordStatus: RecordActive,
			}
			switch m.Kind {
			case catalog.KindService:
				itemID := m.ItemID
				line.ServiceID = &itemID
			default:
				itemID := m.ItemID
				line.ProductID = &itemID
			}
			if err := tx.InsertLine(ctx, &line); err != nil {
				return err
			}
			total = total.Add(m.Extension)
		}

		if len(merged) > 0 {
			total = total.Round(2)
			if err := tx.UpdateTotals(ctx, q.ID, total, total); err != nil {
				return err
			}
			if err := tx.UpdateStatus(ctx, q.ID, StatusInReview); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.metrics.QuotationCreated()
	if len(dropped) > 0 {
		s.metrics.LinesDropped(len(dropped))
		s.logger.Info("quotation line requests dropped",
			slog.Int64("quotation_id", id),
			slog.Int("count", len(dropped)))
	}

	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return q, dropped, nil
}

// CreateFromGuest is the public entry point. Guests must leave a contact
// channel and at least one item request.
func (s *Service) CreateFromGuest(ctx context.Context, req GuestCreateRequest) (*Quotation, []DroppedRequest, error) {
	email := normalizeContact(req.DestinationEmail)
	phone := normalizeContact(req.DestinationPhone)
	if email == nil && phone == nil {
		return nil, nil, ErrMissingContact
	}
	return s.Create(ctx, CreateRequest{
		DestinationEmail: email,
		DestinationPhone: phone,
		Items:            req.Items,
	}, nil)
}

// AddItem adds one catalog item to an existing quotation. If an active
// line for the same item already exists its quantity is incremented and
// the unit price restamped from the catalog; otherwise a new line is
// inserted at the current price. Unavailable items are a hard 404 here,
// unlike batch create where they are dropped.
func (s *Service) AddItem(ctx context.Context, quotationID int64, req ItemRequest) (*Quotation, error) {
	if !req.Kind.Valid() || req.ItemID <= 0 {
		return nil, ErrItemUnavailable
	}
	if !req.Quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	price, err := s.prices.CurrentUnitPrice(ctx, req.Kind, req.ItemID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrItemUnavailable
		}
		return nil, err
	}

	err = s.repo.InTx(ctx, func(tx Repository) error {
		q, err := s.activeQuotation(ctx, tx, quotationID)
		if err != nil {
			return err
		}

		existing, err := tx.FindActiveLine(ctx, quotationID, req.Kind, req.ItemID)
		switch {
		case err == nil:
			qty := existing.Quantity.Add(req.Quantity).Round(2)
			if err := tx.UpdateLine(ctx, existing.ID, qty, price, Extension(qty, price)); err != nil {
				return err
			}
		case errors.Is(err, ErrLineNotFound):
			qty := req.Quantity.Round(2)
			line := Line{
				QuotationID:  quotationID,
				Quantity:     qty,
				UnitPrice:    price,
				Extension:    Extension(qty, price),
				RecordStatus: RecordActive,
			}
			if req.Kind == catalog.KindService {
				line.ServiceID = &req.ItemID
			} else {
				line.ProductID = &req.ItemID
			}
			if err := tx.InsertLine(ctx, &line); err != nil {
				return err
			}
		default:
			return err
		}

		if err := s.recalcTotals(ctx, tx, quotationID); err != nil {
			return err
		}
		if q.Status == StatusDraft {
			return tx.UpdateStatus(ctx, quotationID, StatusInReview)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, quotationID)
}

// UpdateLine lets staff adjust quantity and unit price of one line.
func (s *Service) UpdateLine(ctx context.Context, quotationID, lineID int64, req UpdateLineRequest) (*Quotation, error) {
	if !req.Quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}
	if req.UnitPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	err := s.repo.InTx(ctx, func(tx Repository) error {
		if _, err := s.activeQuotation(ctx, tx, quotationID); err != nil {
			return err
		}
		line, err := tx.GetLine(ctx, quotationID, lineID)
		if err != nil {
			return err
		}
		if line.RecordStatus != RecordActive {
			return ErrLineNotFound
		}
		qty := req.Quantity.Round(2)
		price := req.UnitPrice.Round(2)
		if err := tx.UpdateLine(ctx, lineID, qty, price, Extension(qty, price)); err != nil {
			return err
		}
		return s.recalcTotals(ctx, tx, quotationID)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, quotationID)
}

// RemoveLine soft-deletes a line and restamps the totals. Removing a
// line that is already inactive succeeds without changing anything.
func (s *Service) RemoveLine(ctx context.Context, quotationID, lineID int64) (*Quotation, error) {
	err := s.repo.InTx(ctx, func(tx Repository) error {
		if _, err := s.activeQuotation(ctx, tx, quotationID); err != nil {
			return err
		}
		line, err := tx.GetLine(ctx, quotationID, lineID)
		if err != nil {
			return err
		}
		if line.RecordStatus == RecordInactive {
			return nil
		}
		if err := tx.SetLineRecordStatus(ctx, lineID, RecordInactive); err != nil {
			return err
		}
		return s.recalcTotals(ctx, tx, quotationID)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, quotationID)
}

// Reply records the staff response and moves the quotation to RETURNED.
// A repeated reply overwrites the previous one. When the request carries
// an explicit final total it wins over the discount arithmetic and the
// difference against the computed total is snapshotted.
func (s *Service) Reply(ctx context.Context, quotationID int64, req ReplyRequest, respondedBy int64) (*Quotation, error) {
	summary := strings.TrimSpace(req.ResponseSummary)
	if utf8.RuneCountInString(summary) < 5 {
		return nil, ErrSummaryTooShort
	}
	if req.DiscountAmount.IsNegative() {
		return nil, ErrInvalidDiscount
	}
	if req.FinalTotal != nil && req.FinalTotal.IsNegative() {
		return nil, ErrInvalidPrice
	}

	err := s.repo.InTx(ctx, func(tx Repository) error {
		q, err := s.activeQuotation(ctx, tx, quotationID)
		if err != nil {
			return err
		}
		if !q.Status.canReply() {
			return ErrInvalidStatus
		}

		calc := CalcTotal(q.Lines)
		discount := req.DiscountAmount.Round(2)
		reply := Reply{
			QuotationID:       quotationID,
			ResponseSummary:   summary,
			DiscountAmount:    discount,
			CalcTotalSnapshot: calc,
			RespondedAt:       s.now(),
		}
		if respondedBy > 0 {
			reply.RespondedBy = &respondedBy
		}

		if req.FinalTotal != nil {
			client := req.FinalTotal.Round(2)
			diff := calc.Sub(client).Round(2)
			reply.FinalTotal = client
			reply.ClientTotalSnapshot = &client
			reply.DiffSnapshot = &diff
		} else {
			final := calc.Sub(discount).Round(2)
			if final.IsNegative() {
				final = decimal.Zero
			}
			reply.FinalTotal = final
		}

		if err := tx.UpsertReply(ctx, reply); err != nil {
			return err
		}
		return tx.UpdateStatus(ctx, quotationID, StatusReturned)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ReplyRecorded()
	return s.repo.Get(ctx, quotationID)
}

// MarkSent records that the returned quotation was delivered to the
// customer. Re-sending from SENT is allowed; delivery itself is the
// notify package's job and its failures do not reach this state change.
func (s *Service) MarkSent(ctx context.Context, quotationID int64) (*Quotation, error) {
	err := s.repo.InTx(ctx, func(tx Repository) error {
		q, err := s.activeQuotation(ctx, tx, quotationID)
		if err != nil {
			return err
		}
		if !q.Status.CanDeliver() {
			return ErrInvalidStatus
		}
		return tx.UpdateStatus(ctx, quotationID, StatusSent)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, quotationID)
}

// Deactivate soft-deletes the quotation. There is no reactivation; the
// token stops resolving immediately.
func (s *Service) Deactivate(ctx context.Context, quotationID int64) error {
	return s.repo.SetRecordStatus(ctx, quotationID, RecordInactive)
}

// Get returns the full aggregate for staff, including inactive records.
func (s *Service) Get(ctx context.Context, quotationID int64) (*Quotation, error) {
	if quotationID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.Get(ctx, quotationID)
}

// List returns quotation headers for staff.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Quotation, int, error) {
	if filters.Limit <= 0 || filters.Limit > 500 {
		filters.Limit = 50
	}
	return s.repo.List(ctx, filters)
}

// ResolveByToken is the guest gateway: the token is the only credential
// and only active quotations resolve.
func (s *Service) ResolveByToken(ctx context.Context, token string) (*Quotation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotFound
	}
	return s.repo.GetByToken(ctx, token)
}

func (s *Service) activeQuotation(ctx context.Context, tx Repository, quotationID int64) (*Quotation, error) {
	q, err := tx.Get(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if q.RecordStatus != RecordActive {
		return nil, ErrNotFound
	}
	return q, nil
}

// recalcTotals restamps subtotal and total from the active lines inside
// the caller's transaction.
func (s *Service) recalcTotals(ctx context.Context, tx Repository, quotationID int64) error {
	lines, err := tx.ActiveLines(ctx, quotationID)
	if err != nil {
		return err
	}
	total := CalcTotal(lines)
	return tx.UpdateTotals(ctx, quotationID, total, total)
}

func normalizeContact(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
