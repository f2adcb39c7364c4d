package storage

import (
	"encoding/json"
	"errors"
	"log/slog"
)

// MaxValueBytes is the largest serialized value SetItem will accept.
// Oversized writes are rejected outright so one key cannot degrade the
// store for everything else.
const MaxValueBytes = 2 * 1024 * 1024

// probeKey is the sentinel used by IsAvailable.
const probeKey = "__test__"

// essentialKeys survive quota eviction. Everything else held by the
// store is re-derivable from the server.
var essentialKeys = map[string]struct{}{
	"auth_token": {},
	"user":       {},
	"cart_items": {},
}

// GetItem reads and JSON-decodes the value under key into out. It
// returns false on a missing key, an unavailable store, or a value that
// fails to parse; parse failures are logged but never propagated.
func GetItem(store Store, key string, out any) bool {
	raw, ok, err := store.Get(key)
	if err != nil || !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		slog.Warn("storage: discarding unparseable value", "key", key, "error", err)
		return false
	}
	return true
}

// SetItem JSON-encodes value and writes it under key. It returns false
// without writing when the encoded value exceeds MaxValueBytes. On a
// quota error it evicts every non-essential key and retries the write
// once.
func SetItem(store Store, key string, value any) bool {
	encoded, err := json.Marshal(value)
	if err != nil {
		slog.Warn("storage: failed to encode value", "key", key, "error", err)
		return false
	}
	if len(encoded) > MaxValueBytes {
		slog.Warn("storage: value too large", "key", key, "bytes", len(encoded))
		return false
	}

	err = store.Set(key, string(encoded))
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		slog.Warn("storage: failed to write value", "key", key, "error", err)
		return false
	}

	slog.Warn("storage: quota exceeded, evicting non-essential keys", "key", key)
	clearOldItems(store)

	if err := store.Set(key, string(encoded)); err != nil {
		slog.Error("storage: write still failing after eviction", "key", key, "error", err)
		return false
	}
	return true
}

// RemoveItem deletes key, swallowing backend errors.
func RemoveItem(store Store, key string) {
	if err := store.Remove(key); err != nil {
		slog.Warn("storage: failed to remove key", "key", key, "error", err)
	}
}

// IsAvailable probes the store by writing and removing a sentinel key.
func IsAvailable(store Store) bool {
	if store == nil {
		return false
	}
	if err := store.Set(probeKey, probeKey); err != nil {
		return false
	}
	if err := store.Remove(probeKey); err != nil {
		return false
	}
	return true
}

// clearOldItems frees space by removing everything outside the
// essential allow-list.
func clearOldItems(store Store) {
	keys, err := store.Keys()
	if err != nil {
		slog.Warn("storage: failed to enumerate keys for eviction", "error", err)
		return
	}
	for _, key := range keys {
		if _, keep := essentialKeys[key]; keep {
			continue
		}
		if err := store.Remove(key); err != nil {
			slog.Warn("storage: failed to evict key", "key", key, "error", err)
		}
	}
}
