package storage

import "sync"

// MemoryStore is a process-lifetime store, the session-scoped scope of
// the storage layer: its contents vanish when the process exits.
type MemoryStore struct {
	mu       sync.Mutex
	values   map[string]string
	capacity int // total bytes across keys and values, 0 = unlimited
	closed   bool
}

// NewMemoryStore creates an in-memory store limited to capacity bytes.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{
		values:   make(map[string]string),
		capacity: capacity,
	}
}

// Close marks the store unavailable. Used to simulate environments
// where session-scoped storage is disabled.
func (s *MemoryStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrUnavailable
	}
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrUnavailable
	}
	if s.capacity > 0 {
		usage := 0
		for k, v := range s.values {
			if k == key {
				continue
			}
			usage += len(k) + len(v)
		}
		if usage+len(key)+len(value) > s.capacity {
			return ErrQuotaExceeded
		}
	}
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrUnavailable
	}
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrUnavailable
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys, nil
}
