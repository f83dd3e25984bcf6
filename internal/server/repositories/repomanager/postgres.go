package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/cesworks/fieldcheck/internal/dbx"
	"github.com/cesworks/fieldcheck/internal/server/migrations"
	"github.com/cesworks/fieldcheck/internal/server/repositories/answers"
	"github.com/cesworks/fieldcheck/internal/server/repositories/employees"
	"github.com/cesworks/fieldcheck/internal/server/repositories/inspections"
	"github.com/cesworks/fieldcheck/internal/server/repositories/photos"
	"github.com/cesworks/fieldcheck/internal/server/repositories/units"
)

type PostgresManager struct{}

func NewPostgresManager() *PostgresManager { return &PostgresManager{} }

func (PostgresManager) Inspections(db dbx.DBTX) inspections.Repository {
	return inspections.NewPostgresRepository(db)
}

func (PostgresManager) Photos(db dbx.DBTX) photos.Repository {
	return photos.NewPostgresRepository(db)
}

func (PostgresManager) Answers(db dbx.DBTX) answers.Repository {
	return answers.NewPostgresRepository(db)
}

func (PostgresManager) Units(db dbx.DBTX) units.Repository {
	return units.NewPostgresRepository(db)
}

func (PostgresManager) Employees(db dbx.DBTX) employees.Repository {
	return employees.NewPostgresRepository(db)
}

// Open connects to PostgreSQL and brings the schema up to date.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}
