package backend

import (
	"sync"

	"github.com/pirate-wallet/keystore/internal/keyid"
)

// Memory is a map-backed Backend for tests and embedding. It applies the
// same contract as the platform backends, including the empty-data
// rejection, so service-level behavior can be exercised without a
// secret-service daemon or writable profile directory.
type Memory struct {
	mu    sync.Mutex
	items map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

func (m *Memory) Store(id string, data []byte, label string) error {
	if len(data) == 0 {
		return protection("store", ErrEmptyData)
	}
	copied := make([]byte, len(data))
	copy(copied, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[keyid.Encode(id)] = copied
	return nil
}

func (m *Memory) Retrieve(id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.items[keyid.Encode(id)]
	if !ok {
		return nil, nil
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

func (m *Memory) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, keyid.Encode(id))
	return nil
}

func (m *Memory) Exists(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[keyid.Encode(id)]
	return ok, nil
}
