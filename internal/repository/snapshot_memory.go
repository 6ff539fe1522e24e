package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// snapshotMemory is an in-memory SnapshotStore. It is safe for concurrent use
// and is primarily intended for tests and local development.
type snapshotMemory struct {
	mu        sync.RWMutex
	snapshots map[string]domain.CartSnapshot
}

func NewSnapshotMemory() port.SnapshotStore {
	return &snapshotMemory{
		snapshots: make(map[string]domain.CartSnapshot),
	}
}

func (r *snapshotMemory) Load(_ context.Context, storeName string) (domain.CartSnapshot, bool, error) {
	if storeName == "" {
		return domain.CartSnapshot{}, false, fmt.Errorf("storeName is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, ok := r.snapshots[storeName]
	if !ok {
		return domain.CartSnapshot{}, false, nil
	}

	return snapshot.Clone(), true, nil
}

func (r *snapshotMemory) Save(_ context.Context, storeName string, snapshot domain.CartSnapshot) error {
	if storeName == "" {
		return fmt.Errorf("storeName is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots[storeName] = snapshot.Clone()
	return nil
}
