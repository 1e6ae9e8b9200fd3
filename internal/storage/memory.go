package storage

import (
	"fmt"
	"os"
	"sync"
)

// MemorySlot lives only as long as the process.
type MemorySlot struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes int
}

func NewMemory() *MemorySlot {
	return &MemorySlot{data: make(map[string][]byte)}
}

func (m *MemorySlot) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("storage: slot %q: %w", key, os.ErrNotExist)
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemorySlot) Write(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(data))
	copy(v, data)
	m.data[key] = v
	m.writes++
	return nil
}

// Writes counts successful Write calls.
func (m *MemorySlot) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemorySlot) Close() error {
	return nil
}
