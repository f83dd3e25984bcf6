package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cesworks/fieldcheck/internal/client/models"
)

// MemoryStore is the in-memory Store used by tests and as the degraded-mode
// fallback when the local database cannot be opened at all.
type MemoryStore struct {
	mu  sync.Mutex
	raw map[string]json.RawMessage
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{raw: map[string]json.RawMessage{}, now: time.Now}
}

func (m *MemoryStore) Read(ctx context.Context) (models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.SnapshotFromRaw(m.raw)
}

func (m *MemoryStore) Write(ctx context.Context, patch models.Patch) (models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := mergeRaw(m.raw, patch)
	if err != nil {
		return models.Snapshot{}, err
	}
	stampTouched(next, m.now().UnixMilli())
	m.raw = next
	return models.SnapshotFromRaw(next)
}
