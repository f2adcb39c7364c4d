package cart

import (
	"sync"

	"cibn-digital-library/internal/storage"
)

// Manager hands out one cart store per member, all sharing a storage
// backend. Carts are loaded lazily from their persisted snapshots on
// first access.
type Manager struct {
	mu         sync.Mutex
	storage    storage.Store
	vatRateBps int
	carts      map[string]*Store
}

// NewManager creates a cart manager over the given backend.
func NewManager(st storage.Store, vatRateBps int) *Manager {
	return &Manager{
		storage:    st,
		vatRateBps: vatRateBps,
		carts:      make(map[string]*Store),
	}
}

// For returns the cart store belonging to ownerID.
func (m *Manager) For(ownerID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.carts[ownerID]; ok {
		return store
	}
	// Each cart writes through a member-scoped view of the backend under
	// the plain cart_items key, so quota eviction sees the allow-listed
	// name and cannot touch another member's cart.
	store := NewStore(storage.NewScoped(m.storage, ownerID), DefaultKey, m.vatRateBps)
	store.Load()
	m.carts[ownerID] = store
	return store
}
