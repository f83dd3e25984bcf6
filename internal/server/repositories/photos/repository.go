// Package photos persists the photo folder associations of a session.
package photos

import (
	"context"

	"github.com/cesworks/fieldcheck/internal/server/models"
)

type Repository interface {
	// Upsert records the (session, kind, folderURL) triple. The triple is
	// the natural key: repeats are absorbed, not duplicated.
	Upsert(ctx context.Context, sessionID, kind, folderURL string) error
	ListBySession(ctx context.Context, sessionID string) ([]models.PhotoFolder, error)
}
