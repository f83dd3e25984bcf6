package units

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cesworks/fieldcheck/internal/common"
	"github.com/cesworks/fieldcheck/internal/dbx"
	"github.com/cesworks/fieldcheck/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByQR(ctx context.Context, code string) (*models.Unit, error) {
	query := `
		SELECT id, qr_code, unit_id, display_id, category, unit_type, s_form_num
		FROM units
		WHERE qr_code = $1
	`
	var m models.Unit
	err := r.db.QueryRowContext(ctx, query, code).
		Scan(&m.ID, &m.QRCode, &m.UnitID, &m.DisplayID, &m.Category, &m.UnitType, &m.SFormNum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get unit by qr: %w", err)
	}
	return &m, nil
}
