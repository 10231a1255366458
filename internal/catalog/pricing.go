package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// PriceLookup resolves the current unit price of an active catalog item.
// Inactive or missing items yield ErrNotFound, never a zero price.
type PriceLookup interface {
	CurrentUnitPrice(ctx context.Context, kind ItemKind, id int64) (decimal.Decimal, error)
}

// RepoPriceLookup reads prices straight from the catalog tables.
type RepoPriceLookup struct {
	repo Repository
}

// NewRepoPriceLookup constructs an uncached PriceLookup.
func NewRepoPriceLookup(repo Repository) *RepoPriceLookup {
	return &RepoPriceLookup{repo: repo}
}

// CurrentUnitPrice implements PriceLookup.
func (l *RepoPriceLookup) CurrentUnitPrice(ctx context.Context, kind ItemKind, id int64) (decimal.Decimal, error) {
	if !kind.Valid() || id <= 0 {
		return decimal.Zero, ErrNotFound
	}
	price, err := l.repo.ActiveUnitPrice(ctx, kind, id)
	if err != nil {
		return decimal.Zero, err
	}
	if !price.IsPositive() {
		// A non-positive stored price is treated the same as an
		// unavailable item; batch merge drops it, single adds 404.
		return decimal.Zero, ErrNotFound
	}
	return price, nil
}

// CachedPriceLookup fronts a PriceLookup with a short-lived redis cache.
// Concurrent misses for the same item collapse into one DB read.
type CachedPriceLookup struct {
	next   PriceLookup
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewCachedPriceLookup constructs the cache layer.
func NewCachedPriceLookup(next PriceLookup, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedPriceLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedPriceLookup{next: next, client: client, ttl: ttl, logger: logger}
}

// CurrentUnitPrice implements PriceLookup.
func (c *CachedPriceLookup) CurrentUnitPrice(ctx context.Context, kind ItemKind, id int64) (decimal.Decimal, error) {
	key := priceKey(kind, id)

	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		if price, perr := decimal.NewFromString(cached); perr == nil {
			return price, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("price cache read", slog.Any("error", err))
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		price, err := c.next.CurrentUnitPrice(ctx, kind, id)
		if err != nil {
			return decimal.Zero, err
		}
		if err := c.client.Set(ctx, key, price.String(), c.ttl).Err(); err != nil {
			c.logger.Warn("price cache write", slog.Any("error", err))
		}
		return price, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return value.(decimal.Decimal), nil
}

// Invalidate drops the cached price after a catalog write.
func (c *CachedPriceLookup) Invalidate(ctx context.Context, kind ItemKind, id int64) {
	if err := c.client.Del(ctx, priceKey(kind, id)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("price cache invalidate", slog.Any("error", err))
	}
}

func priceKey(kind ItemKind, id int64) string {
	return "cotizador:price:" + string(kind) + ":" + strconv.FormatInt(id, 10)
}
