package sessionstore

import (
	"context"
	"maps"
	"sync"
)

// MemoryTier implements Tier with a process-scoped map. It backs the
// ephemeral tier: its contents vanish with the process, the Go analog of
// tab-scoped storage.
type MemoryTier struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryTier creates an empty in-memory tier.
func NewMemoryTier() *MemoryTier {
	return &MemoryTier{}
}

// Save replaces the namespace with a copy of values.
func (t *MemoryTier) Save(ctx context.Context, values map[string]string) error {
	cp := make(map[string]string, len(values))
	maps.Copy(cp, values)

	t.mu.Lock()
	t.values = cp
	t.mu.Unlock()
	return nil
}

// Load returns a copy of the namespace; empty when nothing was saved.
func (t *MemoryTier) Load(ctx context.Context) (map[string]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cp := make(map[string]string, len(t.values))
	maps.Copy(cp, t.values)
	return cp, nil
}

// Wipe discards the namespace.
func (t *MemoryTier) Wipe(ctx context.Context) error {
	t.mu.Lock()
	t.values = nil
	t.mu.Unlock()
	return nil
}
