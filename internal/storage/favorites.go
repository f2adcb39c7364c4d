package storage

// Favorites wraps the library_favorites key: the set of content ids a
// member has starred. Lives in persistent storage only, since favorites
// are expected to survive the browsing session.
type Favorites struct {
	store Store
}

// NewFavorites creates a favorites list over the persistent store.
func NewFavorites(store Store) *Favorites {
	return &Favorites{store: store}
}

// List returns the favorite content ids, empty when nothing is stored.
func (f *Favorites) List() []int {
	var ids []int
	if !GetItem(f.store, FavoritesKey, &ids) {
		return []int{}
	}
	return ids
}

// Add records id as a favorite. Adding an existing favorite is a no-op
// that still reports success.
func (f *Favorites) Add(id int) bool {
	ids := f.List()
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return SetItem(f.store, FavoritesKey, append(ids, id))
}

// Remove drops id from the favorites. Removing an absent id is a no-op.
func (f *Favorites) Remove(id int) bool {
	ids := f.List()
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(ids) {
		return true
	}
	return SetItem(f.store, FavoritesKey, kept)
}
