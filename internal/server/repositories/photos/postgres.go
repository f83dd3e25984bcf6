package photos

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

func (r *PostgresRepository) Upsert(ctx context.Context, sessionID, kind, folderURL string) error {
	query := `
		INSERT INTO inspection_photos (session_id, kind, folder_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, kind, folder_url) DO UPDATE SET updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, sessionID, kind, folderURL); err != nil {
		return fmt.Errorf("upsert photo folder: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListBySession(ctx context.Context, sessionID string) ([]models.PhotoFolder, error) {
	query := `
		SELECT id, session_id, kind, folder_url, created_at, updated_at
		FROM inspection_photos
		WHERE session_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list photo folders: %w", err)
	}
	defer rows.Close()

	var out []models.PhotoFolder
	for rows.Next() {
		var m models.PhotoFolder
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Kind, &m.FolderURL, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan photo folder: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
