package storage

import (
	"log/slog"

	"cibn-digital-library/internal/models"
)

// Key names shared with the original web client; changing them would
// orphan previously persisted state.
const (
	PurchasedContentKey = "purchasedContent"
	FavoritesKey        = "library_favorites"
)

// PurchasedCache keeps a reduced copy of a member's purchased content so
// "already purchased" checks don't re-fetch. The session store is
// preferred so stale purchase state does not leak across long-lived
// persistent storage; the persistent store keeps the cache usable where
// session-scoped storage is disabled.
type PurchasedCache struct {
	session    Store
	persistent Store
}

// NewPurchasedCache creates a cache over the two storage scopes. Either
// store may be nil or unavailable; the cache degrades rather than fails.
func NewPurchasedCache(session, persistent Store) *PurchasedCache {
	return &PurchasedCache{session: session, persistent: persistent}
}

// StorePurchasedContent projects items to their essential fields and
// persists them. It returns false when no storage scope is available or
// the write fails everywhere.
func (c *PurchasedCache) StorePurchasedContent(items []models.ContentItem) bool {
	if items == nil {
		slog.Warn("purchased cache: received nil content list")
		return false
	}

	essential := make([]models.PurchasedContentEntry, 0, len(items))
	for _, item := range items {
		essential = append(essential, models.ReduceContent(item))
	}

	if IsAvailable(c.session) {
		return SetItem(c.session, PurchasedContentKey, essential)
	}
	if IsAvailable(c.persistent) {
		return SetItem(c.persistent, PurchasedContentKey, essential)
	}
	return false
}

// GetPurchasedContent returns the cached entries, preferring the session
// scope. A list stored in the session scope is authoritative even when
// empty; the persistent scope is consulted only when the session scope
// holds no value at all. It returns an empty slice when nothing is
// cached or no scope is available.
func (c *PurchasedCache) GetPurchasedContent() []models.PurchasedContentEntry {
	if entries, ok := c.readFrom(c.session); ok {
		return entries
	}
	if entries, ok := c.readFrom(c.persistent); ok {
		return entries
	}
	return []models.PurchasedContentEntry{}
}

func (c *PurchasedCache) readFrom(store Store) ([]models.PurchasedContentEntry, bool) {
	if !IsAvailable(store) {
		return nil, false
	}
	var entries []models.PurchasedContentEntry
	if !GetItem(store, PurchasedContentKey, &entries) {
		return nil, false
	}
	if entries == nil {
		entries = []models.PurchasedContentEntry{}
	}
	return entries, true
}

// Clear drops the cache from both scopes.
func (c *PurchasedCache) Clear() {
	if c.session != nil {
		RemoveItem(c.session, PurchasedContentKey)
	}
	if c.persistent != nil {
		RemoveItem(c.persistent, PurchasedContentKey)
	}
}
