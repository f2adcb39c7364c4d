package storage

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const fileSuffix = ".kv"

// FileStore keeps each value in its own file under a base directory.
// This is the persistent scope of the storage layer: contents survive
// process restarts. Writes are serialized by a mutex; across processes
// the last writer wins, which matches the accepted inconsistency window
// of the original storage design.
type FileStore struct {
	mu       sync.Mutex
	basePath string
	capacity int // total value bytes, 0 = unlimited
}

// NewFileStore creates a file-backed store rooted at basePath, limited
// to capacity bytes of stored values.
func NewFileStore(basePath string, capacity int) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &FileStore{basePath: basePath, capacity: capacity}, nil
}

// keyPath encodes the key so arbitrary key strings map to safe file
// names.
func (s *FileStore) keyPath(key string) string {
	encoded := base64.URLEncoding.EncodeToString([]byte(key))
	return filepath.Join(s.basePath, encoded+fileSuffix)
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return string(data), true, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capacity > 0 {
		usage, err := s.usageExcluding(key)
		if err != nil {
			return err
		}
		if usage+len(value) > s.capacity {
			return ErrQuotaExceeded
		}
	}

	if err := os.WriteFile(s.keyPath(key), []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.keyPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, ErrUnavailable
	}
	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		decoded, err := base64.URLEncoding.DecodeString(strings.TrimSuffix(name, fileSuffix))
		if err != nil {
			continue
		}
		keys = append(keys, string(decoded))
	}
	return keys, nil
}

// usageExcluding sums stored value sizes, skipping the file that would
// be overwritten.
func (s *FileStore) usageExcluding(key string) (int, error) {
	skip := filepath.Base(s.keyPath(key))
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0, ErrUnavailable
	}
	usage := 0
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == skip || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		usage += int(info.Size())
	}
	return usage, nil
}
