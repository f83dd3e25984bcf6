// Package employees reads the employee roster.
package employees

import (
	"context"

	"github.com/cesworks/fieldcheck/internal/server/models"
)

type Repository interface {
	// GetByRef looks up an active employee by employee number or by work
	// email, case-insensitively.
	GetByRef(ctx context.Context, ref string) (*models.Employee, error)
}
