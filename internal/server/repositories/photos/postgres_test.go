package photos

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestUpsertAbsorbsRepeats(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `INSERT INTO inspection_photos .* ON CONFLICT \(session_id, kind, folder_url\) DO UPDATE SET updated_at = now\(\)`
	mock.ExpectExec(q).
		WithArgs("INS-1-A", "walk", "https://files/w/").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).
		WithArgs("INS-1-A", "walk", "https://files/w/").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, "INS-1-A", "walk", "https://files/w/"))
	require.NoError(t, repo.Upsert(ctx, "INS-1-A", "walk", "https://files/w/"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBySession(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM inspection_photos`).
		WithArgs("INS-1-A").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "session_id", "kind", "folder_url", "created_at", "updated_at",
		}).
			AddRow(int64(1), "INS-1-A", "walk", "https://files/w/", now, now).
			AddRow(int64(2), "INS-1-A", "repair", "https://files/r/", now, now))

	folders, err := repo.ListBySession(context.Background(), "INS-1-A")
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "walk", folders[0].Kind)
	assert.Equal(t, "https://files/r/", folders[1].FolderURL)
}
