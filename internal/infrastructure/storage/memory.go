package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	inventoryapp "github.com/partshop/backend/internal/application/inventory"
)

var _ inventoryapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps objects in process memory. Used in development
// and tests.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	BaseURL string
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryObjectStorage creates an empty MemoryObjectStorage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		objects: make(map[string]memoryObject),
		BaseURL: "memory://exports",
	}
}

// Upload stores a copy of data
func (m *MemoryObjectStorage) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// GenerateDownloadURL returns a fake URL for an existing key
func (m *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", time.Time{}, errors.New("object not found: " + key)
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	return m.BaseURL + "/" + key, time.Now().Add(expiresIn), nil
}

// Object returns the stored bytes and content type of key
func (m *MemoryObjectStorage) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.data, obj.contentType, ok
}
