package db

import (
	"context"
	"sync"
)

// MemoryVault keeps client state for the life of the process only.
type MemoryVault struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func NewMemoryVault() *MemoryVault {
	return &MemoryVault{data: map[string]map[string]string{}}
}

func (v *MemoryVault) Get(_ context.Context, profile, key string) (string, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	val, ok := v.data[profile][key]
	return val, ok, nil
}

func (v *MemoryVault) Put(_ context.Context, profile, key, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.data[profile] == nil {
		v.data[profile] = map[string]string{}
	}
	v.data[profile][key] = value
	return nil
}

func (v *MemoryVault) Delete(_ context.Context, profile, key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.data[profile], key)
	return nil
}

func (v *MemoryVault) Close() error { return nil }
