// Package cart implements the shopping cart state store: an ordered
// item list with derived totals, written through to persistent storage
// on every mutation so cart contents survive a reload at any point.
package cart

import (
	"log/slog"
	"sync"

	"cibn-digital-library/internal/models"
	"cibn-digital-library/internal/storage"
)

// DefaultKey is the storage key the web client has always used for the
// cart snapshot.
const DefaultKey = "cart_items"

// DefaultVATRateBps is the VAT rate applied to cart totals, in basis
// points (750 = 7.5%).
const DefaultVATRateBps = 750

// Store owns the cart item list. List order is insertion order, which
// is also display order. All mutations persist synchronously before
// returning; there is no debouncing.
type Store struct {
	mu         sync.Mutex
	storage    storage.Store
	key        string
	vatRateBps int
	items      []models.CartItem
	loading    bool
}

// NewStore creates an empty cart over the given storage backend. Call
// Load to pick up a previously persisted cart.
func NewStore(st storage.Store, key string, vatRateBps int) *Store {
	if key == "" {
		key = DefaultKey
	}
	if vatRateBps <= 0 {
		vatRateBps = DefaultVATRateBps
	}
	return &Store{storage: st, key: key, vatRateBps: vatRateBps}
}

// Load reads the persisted snapshot. A missing or unparseable snapshot
// yields an empty cart; the failure is logged and never surfaced.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true

	var snapshots []models.CartSnapshot
	if !storage.GetItem(s.storage, s.key, &snapshots) {
		s.items = nil
		s.loading = false
		return
	}

	items := make([]models.CartItem, 0, len(snapshots))
	for _, snap := range snapshots {
		items = append(items, snap.Restore())
	}
	s.items = items
	s.loading = false
}

// Loading reports whether a Load is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Items returns a copy of the cart contents in display order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Add appends item with quantity 1. An item whose id is already in the
// cart is silently left as-is: existing quantity is preserved, nothing
// is appended and nothing is persisted. Invalid items are rejected.
func (s *Store) Add(item models.CartItem) error {
	item.Quantity = 1
	if err := item.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ID == item.ID {
			return nil
		}
	}
	s.items = append(s.items, item)
	s.persist()
	return nil
}

// UpdateQuantity adds delta to the quantity of the item matching id.
// A resulting quantity of zero or below removes the item. Unknown ids
// are a no-op.
func (s *Store) UpdateQuantity(id, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		s.items[i].Quantity += delta
		if s.items[i].Quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		s.persist()
		return
	}
}

// Remove deletes the item matching id, a no-op when absent.
func (s *Store) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist()
			return
		}
	}
}

// Clear empties the cart and explicitly persists the empty list, so a
// previously persisted snapshot cannot resurrect it on the next Load.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persist()
}

// Totals recomputes the derived cart values. Nothing is cached between
// mutations.
func (s *Store) Totals() models.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()

	var totals models.CartTotals
	for _, item := range s.items {
		totals.TotalItems += item.Quantity
		totals.TotalPrice += item.Price * int64(item.Quantity)
	}
	totals.VAT = vatOf(totals.TotalPrice, s.vatRateBps)
	totals.GrandTotal = totals.TotalPrice + totals.VAT
	return totals
}

// persist writes the full item list through to storage. Callers hold
// the mutex. An empty cart is written as an empty array, not removed.
func (s *Store) persist() {
	snapshots := make([]models.CartSnapshot, 0, len(s.items))
	for _, item := range s.items {
		snapshots = append(snapshots, item.Snapshot())
	}
	if !storage.SetItem(s.storage, s.key, snapshots) {
		slog.Warn("cart: failed to persist items", "key", s.key, "count", len(snapshots))
	}
}

// vatOf computes VAT in kobo, rounding half up.
func vatOf(amount int64, rateBps int) int64 {
	return (amount*int64(rateBps) + 5000) / 10000
}
