package quotations

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows serves pre-built column tuples through the pgx.Rows interface.
type fakeRows struct {
	rows [][]any
	idx  int
}

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

type fakeRow struct {
	err error
}

func (r fakeRow) Scan(dest ...any) error { return r.err }

// tokenQuerier answers the queries GetByToken issues: the exact-match
// probe misses, the legacy candidate scan returns the configured rows,
// and the line/reply loads come back empty.
type tokenQuerier struct {
	legacy [][]any
}

func (f *tokenQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *tokenQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if strings.Contains(sql, "token LIKE") {
		return &fakeRows{rows: f.legacy}, nil
	}
	return &fakeRows{}, nil
}

func (f *tokenQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{err: pgx.ErrNoRows}
}

func storedQuotationRow(id int64, token string) []any {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	return []any{
		id, "COT-20260828-0001", token,
		(*int64)(nil), (*int64)(nil), (*string)(nil), (*string)(nil),
		decimal.Zero, decimal.Zero,
		StatusInReview, RecordActive, now, now,
	}
}

func TestGetByTokenResolvesLegacyEnvelopeRows(t *testing.T) {
	q := &tokenQuerier{legacy: [][]any{
		// A corrupt payload in one row must not break resolution of the
		// others.
		storedQuotationRow(1, `{corrupt`),
		storedQuotationRow(2, `{"__token":"abc123","__reply":{"response_summary":"listo"}}`),
	}}
	repo := &repository{q: q}

	got, err := repo.GetByToken(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
	assert.Equal(t, "abc123", got.Token)
	require.NotNil(t, got.Reply)
	assert.Equal(t, "listo", got.Reply.ResponseSummary)
}

func TestGetByTokenCorruptLegacyRowDoesNotResolve(t *testing.T) {
	q := &tokenQuerier{legacy: [][]any{
		storedQuotationRow(1, `{corrupt`),
	}}
	repo := &repository{q: q}

	_, err := repo.GetByToken(context.Background(), "abc123")
	assert.ErrorIs(t, err, ErrNotFound)
}
