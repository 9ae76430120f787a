package storage

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"
)

// Object is a stored blob
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryObjectStorage keeps objects in process memory. Used for local runs and tests.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

// NewMemoryObjectStorage creates an empty store whose URLs start with baseURL
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost/storage"
	}
	return &MemoryObjectStorage{objects: make(map[string]Object), baseURL: baseURL}
}

// Put stores a copy of data under key
func (m *MemoryObjectStorage) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// PresignGet returns a fake URL for a stored key
func (m *MemoryObjectStorage) PresignGet(_ context.Context, key, filename string) (string, time.Time, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", time.Time{}, errors.New("object not found")
	}
	u := m.baseURL + "/" + key
	if filename != "" {
		u += "?filename=" + url.QueryEscape(filename)
	}
	return u, time.Now().Add(15 * time.Minute), nil
}

// Get returns a stored object
func (m *MemoryObjectStorage) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}
