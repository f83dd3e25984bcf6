package inspections

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesworks/fieldcheck/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func inspectionRows(sessionID string, data string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "session_id", "code", "employee_id", "data", "submitted_at", "created_at", "updated_at",
	}).AddRow(int64(1), sessionID, "QR-1", "12345", []byte(data), nil, now, now)
}

func TestStartNewSession(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO inspections .* ON CONFLICT \(session_id\) DO NOTHING`).
		WithArgs("INS-1-A", "QR-1", "12345").
		WillReturnResult(sqlmock.NewResult(0, 1))

	reused, err := repo.Start(context.Background(), "INS-1-A", "QR-1", "12345")
	require.NoError(t, err)
	assert.False(t, reused)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStartExistingSessionReportsReused(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO inspections .* ON CONFLICT \(session_id\) DO NOTHING`).
		WithArgs("INS-1-A", "", "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	reused, err := repo.Start(context.Background(), "INS-1-A", "", "")
	require.NoError(t, err)
	assert.True(t, reused)
}

func TestUpsertMergesData(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO inspections .* ON CONFLICT \(session_id\) DO UPDATE SET .* data = inspections\.data \|\| EXCLUDED\.data`).
		WithArgs("INS-1-A", "QR-1", "12345", []byte(`{"notes":"n"}`)).
		WillReturnRows(inspectionRows("INS-1-A", `{"notes":"n"}`))

	insp, err := repo.Upsert(context.Background(), "INS-1-A", "QR-1", "12345", json.RawMessage(`{"notes":"n"}`))
	require.NoError(t, err)
	assert.Equal(t, "INS-1-A", insp.SessionID)
	assert.JSONEq(t, `{"notes":"n"}`, string(insp.Data))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySessionIDNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM inspections`).
		WithArgs("INS-0-NONE").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetBySessionID(context.Background(), "INS-0-NONE")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSetSubmittedKeepsFirstStamp(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	stamp := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "session_id", "code", "employee_id", "data", "submitted_at", "created_at", "updated_at",
	}).AddRow(int64(1), "INS-1-A", "", "", []byte(`{}`), stamp, stamp, stamp)

	mock.ExpectQuery(`UPDATE inspections\s+SET submitted_at = COALESCE\(submitted_at, now\(\)\)`).
		WithArgs("INS-1-A").
		WillReturnRows(rows)

	insp, err := repo.SetSubmitted(context.Background(), "INS-1-A")
	require.NoError(t, err)
	require.True(t, insp.SubmittedAt.Valid)
	assert.Equal(t, stamp, insp.SubmittedAt.Time)
}
