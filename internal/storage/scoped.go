package storage

// Scoped namespaces every key of an underlying store with an owner
// prefix, so per-member state can reuse the single-user key names the
// storage layer was built around.
type Scoped struct {
	inner Store
	scope string
}

// NewScoped wraps inner so all keys are prefixed with scope.
func NewScoped(inner Store, scope string) *Scoped {
	return &Scoped{inner: inner, scope: scope}
}

func (s *Scoped) qualify(key string) string {
	return s.scope + ":" + key
}

func (s *Scoped) Get(key string) (string, bool, error) {
	return s.inner.Get(s.qualify(key))
}

func (s *Scoped) Set(key, value string) error {
	return s.inner.Set(s.qualify(key), value)
}

func (s *Scoped) Remove(key string) error {
	return s.inner.Remove(s.qualify(key))
}

// Keys lists the unqualified keys within this scope.
func (s *Scoped) Keys() ([]string, error) {
	all, err := s.inner.Keys()
	if err != nil {
		return nil, err
	}
	prefix := s.scope + ":"
	var keys []string
	for _, key := range all {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key[len(prefix):])
		}
	}
	return keys, nil
}
