// Package units reads the fleet registry.
package units

import (
	"context"

	"github.com/cesworks/fieldcheck/internal/server/models"
)

type Repository interface {
	GetByQR(ctx context.Context, code string) (*models.Unit, error)
}
