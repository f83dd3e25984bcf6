// Package answers persists checklist answers in exploded tri-state columns
// so they stay queryable without unpacking the session JSON.
package answers

import (
	"context"

	"github.com/cesworks/fieldcheck/internal/server/models"
)

type Repository interface {
	// Upsert writes one answer per bind key; a later write for the same
	// key replaces the value columns.
	Upsert(ctx context.Context, a models.Answer) error
	ListByInspection(ctx context.Context, inspectionID int64) ([]models.Answer, error)
}
