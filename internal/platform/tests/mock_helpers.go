package tests

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/greenasset/tokend/pkg/storage"
)

// ============================================================
// Storage

// MockStorage is an in-memory Storage for tests.
type MockStorage struct {
	objects map[string][]byte
	lock    sync.Mutex
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		objects: make(map[string][]byte),
	}
}

func (m *MockStorage) Write(ctx context.Context, key string, body []byte,
	options *storage.Options) error {

	m.lock.Lock()
	defer m.lock.Unlock()

	b := make([]byte, len(body))
	copy(b, body)
	m.objects[key] = b
	return nil
}

func (m *MockStorage) Read(ctx context.Context, key string) ([]byte, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	b, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return b, nil
}

func (m *MockStorage) Remove(ctx context.Context, key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.objects[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *MockStorage) List(ctx context.Context, path string) ([]string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	keys := make([]string, 0)
	for key := range m.objects {
		if strings.HasPrefix(key, path) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
