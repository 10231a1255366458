package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the catalog item does not exist or is not visible.
var ErrNotFound = errors.New("catalog item not found")

// Repository provides access to the product and service catalogs.
type Repository interface {
	List(ctx context.Context, kind ItemKind, filters ListFilters) ([]Item, int, error)
	Get(ctx context.Context, kind ItemKind, id int64) (Item, error)
	Create(ctx context.Context, kind ItemKind, item Item) (Item, error)
	Update(ctx context.Context, kind ItemKind, id int64, item Item) error
	SetRecordStatus(ctx context.Context, kind ItemKind, id int64, status RecordStatus) error
	ActiveUnitPrice(ctx context.Context, kind ItemKind, id int64) (decimal.Decimal, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a pgx backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func tableFor(kind ItemKind) string {
	if kind == KindService {
		return "services"
	}
	return "products"
}

const itemColumns = `id, name, description, unit_price, record_status, created_at, updated_at`

func (r *repository) List(ctx context.Context, kind ItemKind, filters ListFilters) ([]Item, int, error) {
	table := tableFor(kind)
	query := `SELECT ` + itemColumns + ` FROM ` + table + ` WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM ` + table + ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		cond := ` AND name ILIKE $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.RecordStatus != nil {
		argCount++
		cond := ` AND record_status = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, string(*filters.RecordStatus))
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name ASC, id ASC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows, kind)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, kind ItemKind, id int64) (Item, error) {
	query := `SELECT ` + itemColumns + ` FROM ` + tableFor(kind) + ` WHERE id = $1`
	item, err := scanItem(r.db.QueryRow(ctx, query, id), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return item, nil
}

func (r *repository) Create(ctx context.Context, kind ItemKind, item Item) (Item, error) {
	query := `INSERT INTO ` + tableFor(kind) + ` (name, description, unit_price, record_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, item.Name, item.Description, item.UnitPrice, string(item.RecordStatus), now).Scan(&item.ID)
	if err != nil {
		return Item{}, err
	}
	item.Kind = kind
	item.CreatedAt = now
	item.UpdatedAt = now
	return item, nil
}

func (r *repository) Update(ctx context.Context, kind ItemKind, id int64, item Item) error {
	query := `UPDATE ` + tableFor(kind) + ` SET name = $1, description = $2, unit_price = $3, updated_at = $4 WHERE id = $5`
	tag, err := r.db.Exec(ctx, query, item.Name, item.Description, item.UnitPrice, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetRecordStatus(ctx context.Context, kind ItemKind, id int64, status RecordStatus) error {
	query := `UPDATE ` + tableFor(kind) + ` SET record_status = $1, updated_at = $2 WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, string(status), time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveUnitPrice resolves the current price of an active item.
// Inactive and missing items are indistinguishable to callers.
func (r *repository) ActiveUnitPrice(ctx context.Context, kind ItemKind, id int64) (decimal.Decimal, error) {
	query := `SELECT unit_price FROM ` + tableFor(kind) + ` WHERE id = $1 AND record_status = 'active'`
	var price decimal.Decimal
	if err := r.db.QueryRow(ctx, query, id).Scan(&price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, err
	}
	return price, nil
}

func scanItem(row pgx.Row, kind ItemKind) (Item, error) {
	var item Item
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.UnitPrice, &item.RecordStatus, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return Item{}, err
	}
	item.Kind = kind
	return item, nil
}
