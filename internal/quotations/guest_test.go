package quotations

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotizador-app/cotizador/internal/catalog"
)

func newGuestServer(t *testing.T) (*httptest.Server, *Service, *stubPrices) {
	t.Helper()
	svc, _, prices := newTestService()
	handler := NewGuestHandler(slog.Default(), svc)

	r := chi.NewRouter()
	handler.MountRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc, prices
}

func TestGuestShowMasksInternals(t *testing.T) {
	srv, svc, prices := newGuestServer(t)
	prices.set(catalog.KindProduct, 1, "10.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("2")})

	resp, err := http.Get(srv.URL + "/quotation/" + q.Token)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, q.Folio, body["folio"])
	assert.Equal(t, "ENVIADA", body["status"])
	assert.NotContains(t, body, "token")
	assert.NotContains(t, body, "owner_user_id")
	assert.NotContains(t, body, "id")

	lines, ok := body["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
}

func TestGuestShowUnknownToken(t *testing.T) {
	srv, _, _ := newGuestServer(t)

	resp, err := http.Get(srv.URL + "/quotation/doesnotexist")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGuestShowInactiveQuotation(t *testing.T) {
	srv, svc, prices := newGuestServer(t)
	prices.set(catalog.KindProduct, 1, "10.00")
	q := createWith(t, svc, ItemRequest{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("1")})
	require.NoError(t, svc.Deactivate(context.Background(), q.ID))

	resp, err := http.Get(srv.URL + "/quotation/" + q.Token)
	require.NoError(t, err)
	defer resp.Body.Close()
	// Indistinguishable from a token that never existed.
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGuestCreateReturnsTokenOnce(t *testing.T) {
	srv, _, prices := newGuestServer(t)
	prices.set(catalog.KindProduct, 1, "10.00")

	payload := `{"destination_email":"cliente@example.com","items":[{"kind":"product","item_id":1,"quantity":"2"},{"kind":"product","item_id":99,"quantity":"1"}]}`
	resp, err := http.Post(srv.URL+"/guest/quotations", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token     string           `json:"token"`
		Dropped   []DroppedRequest `json:"dropped"`
		Quotation map[string]any   `json:"quotation"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Token)
	require.Len(t, body.Dropped, 1)
	assert.Equal(t, DropUnavailable, body.Dropped[0].Reason)

	// The returned token resolves immediately.
	show, err := http.Get(srv.URL + "/quotation/" + body.Token)
	require.NoError(t, err)
	defer show.Body.Close()
	assert.Equal(t, http.StatusOK, show.StatusCode)
}

func TestGuestCreateRequiresContact(t *testing.T) {
	srv, _, prices := newGuestServer(t)
	prices.set(catalog.KindProduct, 1, "10.00")

	payload := `{"items":[{"kind":"product","item_id":1,"quantity":"1"}]}`
	resp, err := http.Post(srv.URL+"/guest/quotations", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGuestCreateRejectsUnknownFields(t *testing.T) {
	srv, _, prices := newGuestServer(t)
	prices.set(catalog.KindProduct, 1, "10.00")

	// Totals are derived; a payload trying to set one is rejected.
	payload := `{"destination_email":"cliente@example.com","total":"1.00","items":[{"kind":"product","item_id":1,"quantity":"1"}]}`
	resp, err := http.Post(srv.URL+"/guest/quotations", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
