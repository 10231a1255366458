package quotations

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cotizador-app/cotizador/internal/catalog"
	"github.com/cotizador-app/cotizador/internal/platform/db"
)

// Sentinel lookup errors.
var (
	ErrNotFound     = errors.New("quotation not found")
	ErrLineNotFound = errors.New("quotation line not found")
)

// Repository provides access to quotation aggregates. InTx yields a
// Repository bound to one transaction so multi-statement operations
// (insert lines, restamp totals, flip status) commit atomically.
type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, q *Quotation) error
	Get(ctx context.Context, id int64) (*Quotation, error)
	GetByToken(ctx context.Context, token string) (*Quotation, error)
	List(ctx context.Context, filters ListFilters) ([]Quotation, int, error)
	UpdateTotals(ctx context.Context, id int64, subtotal, total decimal.Decimal) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	SetRecordStatus(ctx context.Context, id int64, status RecordStatus) error

	InsertLine(ctx context.Context, l *Line) error
	UpdateLine(ctx context.Context, lineID int64, quantity, unitPrice, extension decimal.Decimal) error
	SetLineRecordStatus(ctx context.Context, lineID int64, status RecordStatus) error
	GetLine(ctx context.Context, quotationID, lineID int64) (Line, error)
	FindActiveLine(ctx context.Context, quotationID int64, kind catalog.ItemKind, itemID int64) (Line, error)
	ActiveLines(ctx context.Context, quotationID int64) ([]Line, error)

	UpsertReply(ctx context.Context, reply Reply) error
	NextFolio(ctx context.Context, date time.Time) (string, error)
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	pool *pgxpool.Pool
	q    querier
}

// NewRepository constructs a pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool, q: pool}
}

func (r *repository) InTx(ctx context.Context, fn func(Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&repository{pool: r.pool, q: tx})
	})
}

const quotationColumns = `id, folio, token, owner_user_id, customer_id, destination_email,
	destination_phone, subtotal, total, status, record_status, created_at, updated_at`

const lineColumns = `id, quotation_id, product_id, service_id, quantity, unit_price,
	extension, record_status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, q *Quotation) error {
	query := `INSERT INTO quotations (folio, token, owner_user_id, customer_id,
			destination_email, destination_phone, subtotal, total, status, record_status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING id`
	now := time.Now()
	err := r.q.QueryRow(ctx, query,
		q.Folio, q.Token, q.OwnerUserID, q.CustomerID,
		q.DestinationEmail, q.DestinationPhone, q.Subtotal, q.Total,
		string(q.Status), string(q.RecordStatus), now,
	).Scan(&q.ID)
	if err != nil {
		return err
	}
	q.CreatedAt = now
	q.UpdatedAt = now
	return nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1`
	return r.loadOne(ctx, query, id)
}

// GetByToken resolves the guest credential against active quotations.
// Legacy rows keep the credential inside a JSON envelope in the token
// column; those are decoded in Go rather than cast in SQL so one corrupt
// payload cannot abort the lookup for every caller.
func (r *repository) GetByToken(ctx context.Context, token string) (*Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations
		WHERE record_status = 'active' AND token = $1`
	q, err := r.loadOne(ctx, query, token)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return q, err
	}
	return r.findByLegacyToken(ctx, token)
}

// findByLegacyToken scans the rows still carrying the envelope scheme.
// scanQuotation runs DecodeToken, which never fails, so malformed
// payloads simply do not match.
func (r *repository) findByLegacyToken(ctx context.Context, token string) (*Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations
		WHERE record_status = 'active' AND token LIKE '{%'`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var match *Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		if q.Token == token {
			match = q
			break
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrNotFound
	}
	return r.loadRelated(ctx, match)
}

func (r *repository) loadOne(ctx context.Context, query string, arg any) (*Quotation, error) {
	q, err := scanQuotation(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.loadRelated(ctx, q)
}

func (r *repository) loadRelated(ctx context.Context, q *Quotation) (*Quotation, error) {
	lines, err := r.allLines(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	q.Lines = lines

	reply, err := r.findReply(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	if reply != nil {
		q.Reply = reply
	}
	return q, nil
}

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var q Quotation
	var rawToken string
	err := row.Scan(&q.ID, &q.Folio, &rawToken, &q.OwnerUserID, &q.CustomerID,
		&q.DestinationEmail, &q.DestinationPhone, &q.Subtotal, &q.Total,
		&q.Status, &q.RecordStatus, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	credential, legacyReply := DecodeToken(rawToken)
	q.Token = credential
	if legacyReply != nil {
		legacyReply.QuotationID = q.ID
		q.Reply = legacyReply
	}
	return &q, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Quotation, int, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM quotations WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Status != nil {
		argCount++
		cond := ` AND status = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, string(*filters.Status))
	}
	if filters.RecordStatus != nil {
		argCount++
		cond := ` AND record_status = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, string(*filters.RecordStatus))
	}
	if filters.CustomerID != nil {
		argCount++
		cond := ` AND customer_id = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, *filters.CustomerID)
	}

	var total int
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY created_at DESC, id DESC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quotations []Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, err
		}
		quotations = append(quotations, *q)
	}
	return quotations, total, rows.Err()
}

func (r *repository) UpdateTotals(ctx context.Context, id int64, subtotal, total decimal.Decimal) error {
	query := `UPDATE quotations SET subtotal = $1, total = $2, updated_at = $3 WHERE id = $4`
	return r.execOne(ctx, ErrNotFound, query, subtotal, total, time.Now(), id)
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	query := `UPDATE quotations SET status = $1, updated_at = $2 WHERE id = $3`
	return r.execOne(ctx, ErrNotFound, query, string(status), time.Now(), id)
}

func (r *repository) SetRecordStatus(ctx context.Context, id int64, status RecordStatus) error {
	query := `UPDATE quotations SET record_status = $1, updated_at = $2 WHERE id = $3`
	return r.execOne(ctx, ErrNotFound, query, string(status), time.Now(), id)
}

func (r *repository) InsertLine(ctx context.Context, l *Line) error {
	query := `INSERT INTO quotation_lines (quotation_id, product_id, service_id, quantity,
			unit_price, extension, record_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`
	now := time.Now()
	err := r.q.QueryRow(ctx, query,
		l.QuotationID, l.ProductID, l.ServiceID, l.Quantity,
		l.UnitPrice, l.Extension, string(l.RecordStatus), now,
	).Scan(&l.ID)
	if err != nil {
		return err
	}
	l.CreatedAt = now
	l.UpdatedAt = now
	return nil
}

func (r *repository) UpdateLine(ctx context.Context, lineID int64, quantity, unitPrice, extension decimal.Decimal) error {
	query := `UPDATE quotation_lines SET quantity = $1, unit_price = $2, extension = $3,
		updated_at = $4 WHERE id = $5`
	return r.execOne(ctx, ErrLineNotFound, query, quantity, unitPrice, extension, time.Now(), lineID)
}

func (r *repository) SetLineRecordStatus(ctx context.Context, lineID int64, status RecordStatus) error {
	query := `UPDATE quotation_lines SET record_status = $1, updated_at = $2 WHERE id = $3`
	return r.execOne(ctx, ErrLineNotFound, query, string(status), time.Now(), lineID)
}

func (r *repository) GetLine(ctx context.Context, quotationID, lineID int64) (Line, error) {
	query := `SELECT ` + lineColumns + ` FROM quotation_lines WHERE id = $1 AND quotation_id = $2`
	return r.scanLineRow(r.q.QueryRow(ctx, query, lineID, quotationID))
}

func (r *repository) FindActiveLine(ctx context.Context, quotationID int64, kind catalog.ItemKind, itemID int64) (Line, error) {
	column := "product_id"
	if kind == catalog.KindService {
		column = "service_id"
	}
	query := `SELECT ` + lineColumns + ` FROM quotation_lines
		WHERE quotation_id = $1 AND ` + column + ` = $2 AND record_status = 'active'`
	return r.scanLineRow(r.q.QueryRow(ctx, query, quotationID, itemID))
}

func (r *repository) ActiveLines(ctx context.Context, quotationID int64) ([]Line, error) {
	query := `SELECT ` + lineColumns + ` FROM quotation_lines
		WHERE quotation_id = $1 AND record_status = 'active' ORDER BY id ASC`
	return r.queryLines(ctx, query, quotationID)
}

func (r *repository) allLines(ctx context.Context, quotationID int64) ([]Line, error) {
	query := `SELECT ` + lineColumns + ` FROM quotation_lines WHERE quotation_id = $1 ORDER BY id ASC`
	return r.queryLines(ctx, query, quotationID)
}

func (r *repository) queryLines(ctx context.Context, query string, quotationID int64) ([]Line, error) {
	rows, err := r.q.Query(ctx, query, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) scanLineRow(row pgx.Row) (Line, error) {
	l, err := scanLine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Line{}, ErrLineNotFound
		}
		return Line{}, err
	}
	return l, nil
}

func scanLine(row pgx.Row) (Line, error) {
	var l Line
	err := row.Scan(&l.ID, &l.QuotationID, &l.ProductID, &l.ServiceID, &l.Quantity,
		&l.UnitPrice, &l.Extension, &l.RecordStatus, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *repository) findReply(ctx context.Context, quotationID int64) (*Reply, error) {
	query := `SELECT quotation_id, response_summary, discount_amount, final_total,
			calc_total_snapshot, client_total_snapshot, diff_snapshot, responded_by, responded_at
		FROM quotation_replies WHERE quotation_id = $1`
	var rep Reply
	err := r.q.QueryRow(ctx, query, quotationID).Scan(
		&rep.QuotationID, &rep.ResponseSummary, &rep.DiscountAmount, &rep.FinalTotal,
		&rep.CalcTotalSnapshot, &rep.ClientTotalSnapshot, &rep.DiffSnapshot,
		&rep.RespondedBy, &rep.RespondedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rep, nil
}

// UpsertReply overwrites any previous reply. One reply per quotation is a
// schema invariant, not just a service rule.
func (r *repository) UpsertReply(ctx context.Context, reply Reply) error {
	query := `INSERT INTO quotation_replies (quotation_id, response_summary, discount_amount,
			final_total, calc_total_snapshot, client_total_snapshot, diff_snapshot,
			responded_by, responded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (quotation_id) DO UPDATE SET
			response_summary = EXCLUDED.response_summary,
			discount_amount = EXCLUDED.discount_amount,
			final_total = EXCLUDED.final_total,
			calc_total_snapshot = EXCLUDED.calc_total_snapshot,
			client_total_snapshot = EXCLUDED.client_total_snapshot,
			diff_snapshot = EXCLUDED.diff_snapshot,
			responded_by = EXCLUDED.responded_by,
			responded_at = EXCLUDED.responded_at`
	_, err := r.q.Exec(ctx, query,
		reply.QuotationID, reply.ResponseSummary, reply.DiscountAmount, reply.FinalTotal,
		reply.CalcTotalSnapshot, reply.ClientTotalSnapshot, reply.DiffSnapshot,
		reply.RespondedBy, reply.RespondedAt)
	return err
}

// NextFolio claims the next per-day sequence number. The upsert keeps the
// claim race-free without table locks.
func (r *repository) NextFolio(ctx context.Context, date time.Time) (string, error) {
	query := `INSERT INTO folio_sequences (seq_date, seq) VALUES ($1, 1)
		ON CONFLICT (seq_date) DO UPDATE SET seq = folio_sequences.seq + 1
		RETURNING seq`
	var seq int64
	if err := r.q.QueryRow(ctx, query, date.Format("2006-01-02")).Scan(&seq); err != nil {
		return "", err
	}
	return FormatFolio(date, seq), nil
}

func (r *repository) execOne(ctx context.Context, notFound error, query string, args ...any) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
