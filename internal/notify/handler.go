package notify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"

	"github.com/cotizador-app/cotizador/internal/observability"
	"github.com/cotizador-app/cotizador/internal/platform/httpx"
	"github.com/cotizador-app/cotizador/internal/quotations"
	"github.com/cotizador-app/cotizador/jobs"
)

// Enqueuer hands rendered mails to the background queue. Satisfied by
// jobs.Client.
type Enqueuer interface {
	EnqueueSendQuotationMail(ctx context.Context, payload jobs.SendQuotationMailPayload) (*asynq.TaskInfo, error)
}

// Handler serves the delivery endpoint. Delivery and the SENT state flip
// are one operation here, but a queue failure aborts before the state
// changes so a failed send never looks delivered.
type Handler struct {
	logger    *slog.Logger
	service   *quotations.Service
	enqueuer  Enqueuer
	metrics   *observability.Metrics
	validator *validator.Validate
	baseURL   string
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *quotations.Service, enqueuer Enqueuer, metrics *observability.Metrics, baseURL string) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		enqueuer:  enqueuer,
		metrics:   metrics,
		validator: validator.New(),
		baseURL:   baseURL,
	}
}

// MountRoutes registers the delivery route on the staff quotation tree.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/{id}/send", h.send)
}

type sendRequest struct {
	Channel string `json:"channel" validate:"required,oneof=email whatsapp"`
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}

	var req sendRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed json body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.FieldErrors(w, map[string]string{"channel": "oneof"})
		return
	}

	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if !q.Status.CanDeliver() {
		httpx.Problem(w, http.StatusConflict, "Conflict", "quotation has no recorded reply to deliver")
		return
	}

	msg := ComposeQuotationMessage(q, h.baseURL)

	var waLink string
	switch req.Channel {
	case "email":
		if q.DestinationEmail == nil {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", "quotation has no destination email")
			return
		}
		_, err := h.enqueuer.EnqueueSendQuotationMail(r.Context(), jobs.SendQuotationMailPayload{
			QuotationID: q.ID,
			To:          *q.DestinationEmail,
			Subject:     msg.Subject,
			TextBody:    msg.TextBody,
			HTMLBody:    msg.HTMLBody,
		})
		if err != nil {
			h.logger.Error("enqueue quotation mail", slog.Int64("quotation_id", q.ID), slog.Any("error", err))
			httpx.Problem(w, http.StatusBadGateway, "Delivery Failed", "could not queue the email")
			return
		}
		h.metrics.MailEnqueued()
	case "whatsapp":
		if q.DestinationPhone == nil {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", "quotation has no destination phone")
			return
		}
		waLink = WhatsAppLink(*q.DestinationPhone, msg)
		if waLink == "" {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", "destination phone is not usable")
			return
		}
	}

	q, err = h.service.MarkSent(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := map[string]any{"quotation": q, "channel": req.Channel}
	if waLink != "" {
		resp["whatsapp_link"] = waLink
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quotations.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, quotations.ErrInvalidStatus):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("quotation delivery failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
