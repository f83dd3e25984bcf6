// Package store implements the Local State Store: a single persisted
// snapshot of the active inspection session with shallow-merge write
// semantics.
package store

import (
	"context"
	"encoding/json"

	"github.com/cesworks/fieldcheck/internal/client/models"
)

// Store is the session snapshot contract. Write performs a shallow merge of
// the patch over the current snapshot, stamps a monotonic last-touched
// timestamp, and persists atomically. No field is ever cleared by an
// unrelated write; a nil patch value is the explicit removal marker.
//
// If the persistence medium fails, Write returns the merged in-memory value
// together with common.ErrDegraded; callers may keep going with state held
// in memory only.
type Store interface {
	Read(ctx context.Context) (models.Snapshot, error)
	Write(ctx context.Context, patch models.Patch) (models.Snapshot, error)
}

// mergeRaw applies patch onto a raw JSON object. Values are re-encoded so a
// patch can carry anything JSON-serializable; nil deletes the key.
func mergeRaw(raw map[string]json.RawMessage, patch models.Patch) (map[string]json.RawMessage, error) {
	next := make(map[string]json.RawMessage, len(raw)+len(patch))
	for k, v := range raw {
		next[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(next, k)
			continue
		}
		buf, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		next[k] = buf
	}
	return next, nil
}

// stampTouched writes the monotonic last-touched value into the raw object.
// The timestamp never moves backwards, even if the wall clock does.
func stampTouched(raw map[string]json.RawMessage, nowMillis int64) int64 {
	var prev int64
	if b, ok := raw["_touched"]; ok {
		_ = json.Unmarshal(b, &prev)
	}
	next := nowMillis
	if next <= prev {
		next = prev + 1
	}
	raw["_touched"], _ = json.Marshal(next)
	return next
}
