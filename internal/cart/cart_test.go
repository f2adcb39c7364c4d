package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cibn-digital-library/internal/models"
	"cibn-digital-library/internal/storage"
)

func docItem(id int, title string, price int64) models.CartItem {
	return models.CartItem{
		ID:    id,
		Title: title,
		Type:  models.ContentTypeDocument,
		Price: price,
	}
}

func TestAddAppendsWithQuantityOne(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(0), "", 0)

	require.NoError(t, store.Add(docItem(1, "Banking Law", 1500)))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestAddDuplicateIsSilentNoOp(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(0), "", 0)

	require.NoError(t, store.Add(docItem(1, "Banking Law", 1500)))
	store.UpdateQuantity(1, 2) // quantity now 3

	require.NoError(t, store.Add(docItem(1, "Banking Law", 1500)))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity, "existing quantity is preserved")
}

func TestAddRejectsInvalidItem(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(0), "", 0)

	assert.Error(t, store.Add(models.CartItem{ID: 0, Title: "x", Type: models.ContentTypeAudio}))
	assert.Error(t, store.Add(models.CartItem{ID: 1, Title: "", Type: models.ContentTypeDocument}))
	assert.Error(t, store.Add(models.CartItem{ID: 1, Title: "x", Type: "poster"}))
	assert.Error(t, store.Add(models.CartItem{ID: 1, Title: "x", Type: models.ContentTypeDocument, Price: -5}))
	assert.Empty(t, store.Items())
}

func TestUpdateQuantity(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(0), "", 0)
	require.NoError(t, store.Add(docItem(1, "A", 100)))

	store.UpdateQuantity(1, 4)
	assert.Equal(t, 5, store.Items()[0].Quantity)

	store.UpdateQuantity(1, -2)
	assert.Equal(t, 3, store.Items()[0].Quantity)

	// Unknown id is a no-op.
	store.UpdateQuantity(99, 1)
	require.Len(t, store.Items(), 1)

	// Driving the quantity to zero removes the item.
	store.UpdateQuantity(1, -3)
	assert.Empty(t, store.Items())
}

func TestRemove(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(0), "", 0)
	require.NoError(t, store.Add(docItem(1, "A", 100)))
	require.NoError(t, store.Add(docItem(2, "B", 200)))

	store.Remove(1)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ID)

	store.Remove(42) // absent, no-op
	assert.Len(t, store.Items(), 1)
}

func TestTotalsInvariant(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(0), "", 0)
	require.NoError(t, store.Add(docItem(1, "A", 10)))
	store.UpdateQuantity(1, 1) // qty 2
	require.NoError(t, store.Add(docItem(2, "B", 20)))

	totals := store.Totals()
	assert.Equal(t, 3, totals.TotalItems)
	assert.Equal(t, int64(40), totals.TotalPrice)
	assert.Equal(t, int64(3), totals.VAT, "7.5% of 40 rounded half up")
	assert.Equal(t, totals.TotalPrice+totals.VAT, totals.GrandTotal)

	// Totals follow every mutation, never cached stale.
	store.Remove(2)
	totals = store.Totals()
	assert.Equal(t, 2, totals.TotalItems)
	assert.Equal(t, int64(20), totals.TotalPrice)
}

func TestTotalsEmptyCart(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(0), "", 0)
	totals := store.Totals()
	assert.Zero(t, totals.TotalItems)
	assert.Zero(t, totals.TotalPrice)
	assert.Zero(t, totals.VAT)
	assert.Zero(t, totals.GrandTotal)
}

func TestPersistenceAcrossReload(t *testing.T) {
	backend := storage.NewMemoryStore(0)

	first := NewStore(backend, "", 0)
	require.NoError(t, first.Add(docItem(1, "A", 500)))
	first.UpdateQuantity(1, 2)

	second := NewStore(backend, "", 0)
	second.Load()
	items := second.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, int64(500), items[0].Price)
}

func TestClearPersistsEmptyState(t *testing.T) {
	backend := storage.NewMemoryStore(0)

	first := NewStore(backend, "", 0)
	require.NoError(t, first.Add(docItem(1, "A", 500)))
	first.Clear()

	// A reload must not resurrect the previously persisted items.
	second := NewStore(backend, "", 0)
	second.Load()
	assert.Empty(t, second.Items())

	raw, found, err := backend.Get(DefaultKey)
	require.NoError(t, err)
	require.True(t, found, "clear writes an explicit empty array")
	assert.JSONEq(t, "[]", raw)
}

func TestLoadUnparseableSnapshotYieldsEmptyCart(t *testing.T) {
	backend := storage.NewMemoryStore(0)
	require.NoError(t, backend.Set(DefaultKey, "{corrupt"))

	store := NewStore(backend, "", 0)
	store.Load()
	assert.Empty(t, store.Items())
	assert.False(t, store.Loading())
}

func TestSnapshotWireFormatUsesQty(t *testing.T) {
	backend := storage.NewMemoryStore(0)
	store := NewStore(backend, "", 0)
	require.NoError(t, store.Add(docItem(7, "A", 100)))

	raw, found, err := backend.Get(DefaultKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, raw, `"qty":1`)
	assert.NotContains(t, raw, `"quantity"`)
}

func TestLoadFillsSnapshotDefaults(t *testing.T) {
	backend := storage.NewMemoryStore(0)
	require.NoError(t, backend.Set(DefaultKey, `[{"id":3,"title":"Old"}]`))

	store := NewStore(backend, "", 0)
	store.Load()
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, models.ContentTypeDocument, items[0].Type)
	assert.Equal(t, int64(0), items[0].Price)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestManagerScopesCartsPerOwner(t *testing.T) {
	manager := NewManager(storage.NewMemoryStore(0), 0)

	require.NoError(t, manager.For("alice").Add(docItem(1, "A", 100)))
	assert.Empty(t, manager.For("bob").Items())
	assert.Same(t, manager.For("alice"), manager.For("alice"))
}

func TestManagerQuotaEvictionSparesOtherMembersCarts(t *testing.T) {
	// Room for one persisted cart but not two, so the second member's
	// write trips the quota path.
	backend := storage.NewMemoryStore(100)
	manager := NewManager(backend, 0)

	require.NoError(t, manager.For("alice").Add(docItem(1, "A", 100)))
	require.NoError(t, manager.For("bob").Add(docItem(2, "B", 200)))

	// Reload from the backend: alice's cart must survive eviction per
	// the cart_items allow-list.
	reloaded := NewManager(backend, 0)
	items := reloaded.For("alice").Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ID)
}
