package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/common"
	"github.com/cesworks/fieldcheck/internal/logging"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := OpenDatabase(context.Background(), "file:"+filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db, logging.NewNop())
}

func TestWriteMergesShallow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Write(ctx, models.Patch{"employeeId": "12345", "notes": "first"})
	require.NoError(t, err)

	snap, err := s.Write(ctx, models.Patch{"unitId": "U-9"})
	require.NoError(t, err)

	assert.Equal(t, "12345", snap.EmployeeID)
	assert.Equal(t, "first", snap.Notes)
	assert.Equal(t, "U-9", snap.UnitID)
}

func TestWriteNilRemovesKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Write(ctx, models.Patch{"notes": "scratch"})
	require.NoError(t, err)

	snap, err := s.Write(ctx, models.Patch{"notes": nil})
	require.NoError(t, err)
	assert.Empty(t, snap.Notes)
}

func TestTouchedIsMonotonic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Freeze the clock so consecutive writes collide on the same instant.
	fixed := time.Now()
	s.now = func() time.Time { return fixed }

	a, err := s.Write(ctx, models.Patch{"notes": "a"})
	require.NoError(t, err)
	b, err := s.Write(ctx, models.Patch{"notes": "b"})
	require.NoError(t, err)

	assert.Greater(t, b.LastTouched, a.LastTouched)
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "persist.db")

	db, err := OpenDatabase(ctx, dsn)
	require.NoError(t, err)
	s := NewSQLiteStore(db, logging.NewNop())
	_, err = s.Write(ctx, models.Patch{"sessionId": "INS-1-AAAAAA", "meterReading": "120"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	snap, err := NewSQLiteStore(db, logging.NewNop()).Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INS-1-AAAAAA", snap.SessionID)
	assert.Equal(t, "120", snap.MeterReading)
}

func TestWriteDegradedKeepsInMemoryValue(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDatabase(ctx, "file:"+filepath.Join(t.TempDir(), "gone.db"))
	require.NoError(t, err)
	s := NewSQLiteStore(db, logging.NewNop())

	_, err = s.Write(ctx, models.Patch{"notes": "kept"})
	require.NoError(t, err)

	// Closing the handle makes every later Exec fail.
	require.NoError(t, db.Close())

	snap, err := s.Write(ctx, models.Patch{"unitId": "U-1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDegraded))
	assert.Equal(t, "kept", snap.Notes)
	assert.Equal(t, "U-1", snap.UnitID)

	// Later reads serve the merged in-memory state.
	snap, err = s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "U-1", snap.UnitID)
}

func TestUnknownFieldsSurviveMerges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Write(ctx, models.Patch{"futureField": map[string]any{"x": 1}})
	require.NoError(t, err)
	_, err = s.Write(ctx, models.Patch{"notes": "n"})
	require.NoError(t, err)

	s.mu.Lock()
	_, ok := s.cache["futureField"]
	s.mu.Unlock()
	assert.True(t, ok)
}
