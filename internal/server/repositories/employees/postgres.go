package employees

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

func (r *PostgresRepository) GetByRef(ctx context.Context, ref string) (*models.Employee, error) {
	query := `
		SELECT id, employee_id, name, preferred_name, email, phone, active
		FROM employees
		WHERE active AND (employee_id = $1 OR lower(email) = lower($1))
	`
	var m models.Employee
	err := r.db.QueryRowContext(ctx, query, ref).
		Scan(&m.ID, &m.EmployeeID, &m.Name, &m.PreferredName, &m.Email, &m.Phone, &m.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &m, nil
}
