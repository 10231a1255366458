package quotations

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/cotizador-app/cotizador/internal/catalog"
)

// Drop reasons reported alongside a created quotation.
const (
	DropInvalidQuantity = "invalid_quantity"
	DropUnavailable     = "unavailable"
)

// MergedLine is the outcome of collapsing requests for the same catalog
// item: summed quantity, current catalog price, computed extension.
type MergedLine struct {
	Kind      catalog.ItemKind
	ItemID    int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Extension decimal.Decimal
}

// DroppedRequest is a request that did not survive the merge, with the
// reason it was excluded.
type DroppedRequest struct {
	Kind     catalog.ItemKind `json:"kind"`
	ItemID   int64            `json:"item_id"`
	Quantity decimal.Decimal  `json:"quantity"`
	Reason   string           `json:"reason"`
}

type mergeKey struct {
	kind catalog.ItemKind
	id   int64
}

// MergeRequests groups requests by (kind, item_id), sums quantities, and
// prices each group once against the catalog. Requests with a
// non-positive quantity, an unknown kind, or an unavailable item are
// excluded rather than failing the whole batch; they come back in the
// second return value. Group order follows first appearance in the
// input, so the result is deterministic.
func MergeRequests(ctx context.Context, prices catalog.PriceLookup, requests []ItemRequest) ([]MergedLine, []DroppedRequest, error) {
	sums := make(map[mergeKey]decimal.Decimal)
	order := make([]mergeKey, 0, len(requests))
	var dropped []DroppedRequest

	for _, req := range requests {
		if !req.Kind.Valid() || req.ItemID <= 0 {
			dropped = append(dropped, DroppedRequest{Kind: req.Kind, ItemID: req.ItemID, Quantity: req.Quantity, Reason: DropUnavailable})
			continue
		}
		if !req.Quantity.IsPositive() {
			dropped = append(dropped, DroppedRequest{Kind: req.Kind, ItemID: req.ItemID, Quantity: req.Quantity, Reason: DropInvalidQuantity})
			continue
		}
		key := mergeKey{kind: req.Kind, id: req.ItemID}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] = sums[key].Add(req.Quantity)
	}

	merged := make([]MergedLine, 0, len(order))
	for _, key := range order {
		qty := sums[key].Round(2)
		price, err := prices.CurrentUnitPrice(ctx, key.kind, key.id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				dropped = append(dropped, DroppedRequest{Kind: key.kind, ItemID: key.id, Quantity: qty, Reason: DropUnavailable})
				continue
			}
			return nil, nil, err
		}
		merged = append(merged, MergedLine{
			Kind:      key.kind,
			ItemID:    key.id,
			Quantity:  qty,
			UnitPrice: price,
			Extension: Extension(qty, price),
		})
	}
	return merged, dropped, nil
}
