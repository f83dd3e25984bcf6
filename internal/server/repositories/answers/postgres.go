package answers

import (
	"context"
	"fmt"

	"github.com/cesworks/fieldcheck/internal/dbx"
	"github.com/cesworks/fieldcheck/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, a models.Answer) error {
	query := `
		INSERT INTO inspection_answers (inspection_id, bind_key, text_value, num_value, date_value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (inspection_id, bind_key) DO UPDATE SET
			text_value = EXCLUDED.text_value,
			num_value = EXCLUDED.num_value,
			date_value = EXCLUDED.date_value
	`
	_, err := r.db.ExecContext(ctx, query, a.InspectionID, a.BindKey, a.TextValue, a.NumValue, a.DateValue)
	if err != nil {
		return fmt.Errorf("upsert answer %s: %w", a.BindKey, err)
	}
	return nil
}

func (r *PostgresRepository) ListByInspection(ctx context.Context, inspectionID int64) ([]models.Answer, error) {
	query := `
		SELECT id, inspection_id, bind_key, text_value, num_value, date_value
		FROM inspection_answers
		WHERE inspection_id = $1
		ORDER BY bind_key
	`
	rows, err := r.db.QueryContext(ctx, query, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var out []models.Answer
	for rows.Next() {
		var m models.Answer
		if err := rows.Scan(&m.ID, &m.InspectionID, &m.BindKey, &m.TextValue, &m.NumValue, &m.DateValue); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
