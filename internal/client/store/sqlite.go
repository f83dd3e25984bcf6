package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/common"
	"github.com/cesworks/fieldcheck/internal/dbx"
	"github.com/cesworks/fieldcheck/internal/logging"
)

// SQLiteStore persists the snapshot as a single JSON row. Unknown fields in
// the stored object are carried through merges untouched, which keeps the
// record forward-compatible with newer writers.
type SQLiteStore struct {
	db  dbx.DBTX
	log logging.Logger

	mu       sync.Mutex
	cache    map[string]json.RawMessage
	loaded   bool
	degraded bool

	now func() time.Time
}

func NewSQLiteStore(db dbx.DBTX, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: log, now: time.Now}
}

func (s *SQLiteStore) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM session_state WHERE id = 1`).Scan(&data)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	s.cache = raw
	s.loaded = true
	return nil
}

func (s *SQLiteStore) Read(ctx context.Context) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return models.Snapshot{}, err
	}
	return models.SnapshotFromRaw(s.cache)
}

func (s *SQLiteStore) Write(ctx context.Context, patch models.Patch) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		// A store that cannot even load runs from an empty in-memory object.
		if !s.loaded {
			s.cache = map[string]json.RawMessage{}
			s.loaded = true
			s.degraded = true
		}
	}

	next, err := mergeRaw(s.cache, patch)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("merge patch: %w", err)
	}
	touched := stampTouched(next, s.now().UnixMilli())

	buf, err := json.Marshal(next)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}

	// Merge and persist are one logical operation: the cache is swapped only
	// together with a persistence verdict, under the same lock.
	s.cache = next
	snap, decodeErr := models.SnapshotFromRaw(next)
	if decodeErr != nil {
		return models.Snapshot{}, decodeErr
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE session_state SET data = ?, last_touched = ? WHERE id = 1`,
		string(buf), touched)
	if err != nil {
		if !s.degraded {
			s.degraded = true
			s.log.Warn(ctx, "local persistence unavailable, continuing in memory", "err", err)
		}
		return snap, fmt.Errorf("%w: %v", common.ErrDegraded, err)
	}
	s.degraded = false
	return snap, nil
}
