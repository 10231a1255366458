package quotations

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cotizador-app/cotizador/internal/platform/httpx"
)

// GuestHandler serves the public, token-authenticated surface. Guests
// never see internal identifiers, the owner, or the credential echoed
// back; the view below is everything they get.
type GuestHandler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewGuestHandler constructs a GuestHandler.
func NewGuestHandler(logger *slog.Logger, service *Service) *GuestHandler {
	return &GuestHandler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers the public routes. Callers wrap them with the
// guest rate limiter.
func (h *GuestHandler) MountRoutes(r chi.Router) {
	r.Get("/quotation/{token}", h.show)
	r.Post("/guest/quotations", h.create)
}

type guestLineView struct {
	Kind      string          `json:"kind"`
	ItemID    int64           `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Extension decimal.Decimal `json:"extension"`
}

type guestReplyView struct {
	ResponseSummary string          `json:"response_summary"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	FinalTotal      decimal.Decimal `json:"final_total"`
	RespondedAt     time.Time       `json:"responded_at"`
}

type guestQuotationView struct {
	Folio     string          `json:"folio"`
	Status    string          `json:"status"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	Lines     []guestLineView `json:"lines"`
	Reply     *guestReplyView `json:"reply,omitempty"`
}

func guestView(q *Quotation) guestQuotationView {
	view := guestQuotationView{
		Folio:     q.Folio,
		Status:    DisplayLabel(q.Status),
		Subtotal:  q.Subtotal,
		Total:     q.Total,
		CreatedAt: q.CreatedAt,
		Lines:     []guestLineView{},
	}
	for _, l := range q.Lines {
		if l.RecordStatus != RecordActive {
			continue
		}
		kind, itemID := l.Ref()
		view.Lines = append(view.Lines, guestLineView{
			Kind:      string(kind),
			ItemID:    itemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Extension: l.Extension,
		})
	}
	if q.Reply != nil {
		view.Reply = &guestReplyView{
			ResponseSummary: q.Reply.ResponseSummary,
			DiscountAmount:  q.Reply.DiscountAmount,
			FinalTotal:      q.Reply.FinalTotal,
			RespondedAt:     q.Reply.RespondedAt,
		}
	}
	return view
}

func (h *GuestHandler) show(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	q, err := h.service.ResolveByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("resolve quotation token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, guestView(q))
}

func (h *GuestHandler) create(w http.ResponseWriter, r *http.Request) {
	var req GuestCreateRequest
	if err := httpx.DecodeJSONStrict(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed json body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fieldErr := range verrs {
				fields[fieldErr.Field()] = fieldErr.Tag()
			}
		}
		httpx.FieldErrors(w, fields)
		return
	}

	q, dropped, err := h.service.CreateFromGuest(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrMissingContact) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("guest quotation create", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if dropped == nil {
		dropped = []DroppedRequest{}
	}

	// The token comes back exactly once, at creation, so the guest can
	// bookmark their quotation.
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"quotation": guestView(q),
		"token":     q.Token,
		"dropped":   dropped,
	})
}
