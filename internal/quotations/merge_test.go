package quotations

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotizador-app/cotizador/internal/catalog"
)

func TestMergeRequestsGroupsByItem(t *testing.T) {
	prices := &stubPrices{prices: make(map[string]decimal.Decimal)}
	prices.set(catalog.KindProduct, 1, "10.00")
	prices.set(catalog.KindService, 2, "7.50")

	merged, dropped, err := MergeRequests(context.Background(), prices, []ItemRequest{
		{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("2")},
		{Kind: catalog.KindService, ItemID: 2, Quantity: dec("1")},
		{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("3")},
	})
	require.NoError(t, err)
	assert.Empty(t, dropped)
	require.Len(t, merged, 2)

	// First-appearance order is preserved.
	assert.Equal(t, catalog.KindProduct, merged[0].Kind)
	assert.True(t, merged[0].Quantity.Equal(dec("5")))
	assert.True(t, merged[0].Extension.Equal(dec("50.00")))
	assert.Equal(t, catalog.KindService, merged[1].Kind)
	assert.True(t, merged[1].Extension.Equal(dec("7.50")))
}

func TestMergeRequestsDropsBadQuantities(t *testing.T) {
	prices := &stubPrices{prices: make(map[string]decimal.Decimal)}
	prices.set(catalog.KindProduct, 1, "10.00")

	merged, dropped, err := MergeRequests(context.Background(), prices, []ItemRequest{
		{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("0")},
		{Kind: catalog.KindProduct, ItemID: 1, Quantity: dec("-2")},
	})
	require.NoError(t, err)
	assert.Empty(t, merged)
	require.Len(t, dropped, 2)
	for _, d := range dropped {
		assert.Equal(t, DropInvalidQuantity, d.Reason)
	}
}

func TestMergeRequestsDropsUnavailableItems(t *testing.T) {
	prices := &stubPrices{prices: make(map[string]decimal.Decimal)}

	merged, dropped, err := MergeRequests(context.Background(), prices, []ItemRequest{
		{Kind: catalog.KindProduct, ItemID: 42, Quantity: dec("1")},
		{Kind: "bundle", ItemID: 1, Quantity: dec("1")},
	})
	require.NoError(t, err)
	assert.Empty(t, merged)
	require.Len(t, dropped, 2)
	for _, d := range dropped {
		assert.Equal(t, DropUnavailable, d.Reason)
	}
}

func TestMergeRequestsEmptyInput(t *testing.T) {
	prices := &stubPrices{prices: make(map[string]decimal.Decimal)}
	merged, dropped, err := MergeRequests(context.Background(), prices, nil)
	require.NoError(t, err)
	assert.Empty(t, merged)
	assert.Empty(t, dropped)
}
