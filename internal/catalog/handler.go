package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cotizador-app/cotizador/internal/platform/httpx"
)

// Handler serves the product and service catalog endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers both catalog kinds under their own prefixes.
func (h *Handler) MountRoutes(r chi.Router) {
	for _, kind := range []ItemKind{KindProduct, KindService} {
		kind := kind
		r.Route("/"+string(kind)+"s", func(r chi.Router) {
			r.Get("/", h.list(kind))
			r.Post("/", h.create(kind))
			r.Get("/{id}", h.show(kind))
			r.Put("/{id}", h.update(kind))
			r.Post("/{id}/activate", h.setStatus(kind, StatusActive))
			r.Post("/{id}/deactivate", h.setStatus(kind, StatusInactive))
		})
	}
}

func (h *Handler) list(kind ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := ListFilters{
			Search: r.URL.Query().Get("search"),
			Limit:  50,
		}
		if v := r.URL.Query().Get("record_status"); v != "" {
			status := RecordStatus(v)
			filters.RecordStatus = &status
		}
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
			filters.Limit = v
		}
		if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
			filters.Offset = v
		}

		items, total, err := h.service.List(r.Context(), kind, filters)
		if err != nil {
			h.logger.Error("list catalog", slog.String("kind", string(kind)), slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
	}
}

func (h *Handler) show(kind ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
			return
		}
		item, err := h.service.Get(r.Context(), kind, id)
		if err != nil {
			h.respondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, item)
	}
}

func (h *Handler) create(kind ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := h.decodeForm(w, r)
		if !ok {
			return
		}
		item, err := h.service.Create(r.Context(), kind, form)
		if err != nil {
			h.respondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, item)
	}
}

func (h *Handler) update(kind ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
			return
		}
		form, ok := h.decodeForm(w, r)
		if !ok {
			return
		}
		item, err := h.service.Update(r.Context(), kind, id, form)
		if err != nil {
			h.respondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, item)
	}
}

func (h *Handler) setStatus(kind ItemKind, status RecordStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
			return
		}
		var serr error
		if status == StatusActive {
			serr = h.service.Activate(r.Context(), kind, id)
		} else {
			serr = h.service.Deactivate(r.Context(), kind, id)
		}
		if serr != nil {
			h.respondError(w, serr)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (ItemForm, bool) {
	var form ItemForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed json body")
		return ItemForm{}, false
	}
	if err := h.validator.Struct(form); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fieldErr := range verrs {
				fields[fieldErr.Field()] = fieldErr.Tag()
			}
		}
		httpx.FieldErrors(w, fields)
		return ItemForm{}, false
	}
	return form, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrInvalidInput):
		httpx.RespondError(w, httpx.ErrValidation)
	default:
		h.logger.Error("catalog request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
