// Package inspections persists inspection sessions keyed by the
// client-minted session id.
package inspections

import (
	"context"
	"encoding/json"

	"github.com/cesworks/fieldcheck/internal/server/models"
)

type Repository interface {
	// Start registers a session id if it is new. Reused reports that the
	// id already existed; either way the call succeeds.
	Start(ctx context.Context, sessionID, code, employeeID string) (reused bool, err error)

	// Upsert merges data into the stored session additively: keys present
	// in data win, keys absent stay untouched. Replays of older payloads
	// can only re-assert values, so delivery order does not matter.
	Upsert(ctx context.Context, sessionID, code, employeeID string, data json.RawMessage) (*models.Inspection, error)

	GetBySessionID(ctx context.Context, sessionID string) (*models.Inspection, error)

	// SetSubmitted stamps the terminal submit time once; later calls keep
	// the first stamp so finalize stays idempotent.
	SetSubmitted(ctx context.Context, sessionID string) (*models.Inspection, error)
}
