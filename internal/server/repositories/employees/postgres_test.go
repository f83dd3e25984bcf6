package employees

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesworks/fieldcheck/internal/common"
)

func TestGetByRef(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`SELECT .* FROM employees\s+WHERE active AND \(employee_id = \$1 OR lower\(email\) = lower\(\$1\)\)`).
		WithArgs("sam@crew.example").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "employee_id", "name", "preferred_name", "email", "phone", "active",
		}).AddRow(int64(7), "12345", "Sam Field", "Sam", "sam@crew.example", "", true))

	emp, err := repo.GetByRef(context.Background(), "sam@crew.example")
	require.NoError(t, err)
	assert.Equal(t, "12345", emp.EmployeeID)
	assert.Equal(t, "Sam", emp.PreferredName)
}

func TestGetByRefUnknown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`SELECT .* FROM employees`).
		WithArgs("999").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByRef(context.Background(), "999")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
