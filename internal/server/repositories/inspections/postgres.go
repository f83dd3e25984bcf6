package inspections

import (
	"context"
	"database/sql"
	"encoding/json"
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

func (r *PostgresRepository) Start(ctx context.Context, sessionID, code, employeeID string) (bool, error) {
	query := `
		INSERT INTO inspections (session_id, code, employee_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, sessionID, code, employeeID)
	if err != nil {
		return false, fmt.Errorf("start session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, sessionID, code, employeeID string, data json.RawMessage) (*models.Inspection, error) {
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	// jsonb || is a shallow merge: incoming keys win, everything else
	// stays. Blank identity columns never overwrite stored ones.
	query := `
		INSERT INTO inspections (session_id, code, employee_id, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO UPDATE SET
			code = CASE WHEN EXCLUDED.code <> '' THEN EXCLUDED.code ELSE inspections.code END,
			employee_id = CASE WHEN EXCLUDED.employee_id <> '' THEN EXCLUDED.employee_id ELSE inspections.employee_id END,
			data = inspections.data || EXCLUDED.data,
			updated_at = now()
		RETURNING id, session_id, code, employee_id, data, submitted_at, created_at, updated_at
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, sessionID, code, employeeID, []byte(data)))
}

func (r *PostgresRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Inspection, error) {
	query := `
		SELECT id, session_id, code, employee_id, data, submitted_at, created_at, updated_at
		FROM inspections
		WHERE session_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, sessionID))
}

func (r *PostgresRepository) SetSubmitted(ctx context.Context, sessionID string) (*models.Inspection, error) {
	query := `
		UPDATE inspections
		SET submitted_at = COALESCE(submitted_at, now()), updated_at = now()
		WHERE session_id = $1
		RETURNING id, session_id, code, employee_id, data, submitted_at, created_at, updated_at
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, sessionID))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Inspection, error) {
	var m models.Inspection
	err := row.Scan(&m.ID, &m.SessionID, &m.Code, &m.EmployeeID, &m.Data,
		&m.SubmittedAt, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan inspection: %w", err)
	}
	return &m, nil
}
