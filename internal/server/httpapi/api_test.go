package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesworks/fieldcheck/internal/logging"
	"github.com/cesworks/fieldcheck/internal/server/config"
	"github.com/cesworks/fieldcheck/internal/server/repositories/repomanager"
	"github.com/cesworks/fieldcheck/internal/server/services"
)

type fakePhotoStore struct {
	folderURL string
}

func (f *fakePhotoStore) Put(_ context.Context, _, _, _ string, _ []byte) (string, error) {
	return f.folderURL, nil
}

func newTestAPI(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewPostgresManager()
	log := logging.NewNop()
	verify := config.VerifyConfig{Secret: "api-test-secret", TokenTTL: time.Minute}

	inspectionSvc := services.NewInspectionService(db, rm, nil, log, "http://api.test")
	photoSvc := services.NewPhotoService(db, rm, &fakePhotoStore{folderURL: "https://files.test/f/"}, log)
	lookupSvc := services.NewLookupService(db, rm, verify)

	v := validator.New()
	app := NewApp(Handlers{
		Inspections: NewInspectionHandler(inspectionSvc, v),
		Photos:      NewPhotoHandler(photoSvc),
		Lookup:      NewLookupHandler(lookupSvc, v),
	}, 1<<20)
	return app, mock
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

func TestPing(t *testing.T) {
	app, _ := newTestAPI(t)
	resp, body := doJSON(t, app, http.MethodGet, "/api/ping", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
}

func TestUpsertEmptyBodyRejected(t *testing.T) {
	app, _ := newTestAPI(t)
	resp, body := doJSON(t, app, http.MethodPost, "/api/inspections", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["ok"])
}

func TestUpsertMissingSessionIDRejected(t *testing.T) {
	app, _ := newTestAPI(t)
	resp, body := doJSON(t, app, http.MethodPost, "/api/inspections", `{"notes":"n"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "sessionId")
}

func TestUpsertStoresPayload(t *testing.T) {
	app, mock := newTestAPI(t)

	payload := `{"sessionId":"INS-1-A","code":"QR-1","employeeId":"12345","notes":"n"}`
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO inspections .* ON CONFLICT \(session_id\) DO UPDATE SET`).
		WithArgs("INS-1-A", "QR-1", "12345", []byte(payload)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "session_id", "code", "employee_id", "data", "submitted_at", "created_at", "updated_at",
		}).AddRow(int64(1), "INS-1-A", "QR-1", "12345", []byte(payload), nil, now, now))
	mock.ExpectCommit()

	resp, body := doJSON(t, app, http.MethodPost, "/api/inspections", payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUnknownSessionIs404(t *testing.T) {
	app, mock := newTestAPI(t)

	mock.ExpectQuery(`SELECT .* FROM inspections`).
		WithArgs("INS-0-NONE").
		WillReturnError(sql.ErrNoRows)

	resp, body := doJSON(t, app, http.MethodGet, "/api/inspections/INS-0-NONE", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["ok"])
}

func TestPhotoFolderUpsertValidates(t *testing.T) {
	app, _ := newTestAPI(t)
	resp, _ := doJSON(t, app, http.MethodPost, "/api/inspections/photos",
		`{"sessionId":"INS-1-A","kind":"walk"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPhotoFolderUpsertOK(t *testing.T) {
	app, mock := newTestAPI(t)

	mock.ExpectExec(`INSERT INTO inspection_photos .* ON CONFLICT`).
		WithArgs("INS-1-A", "walk", "https://files.test/f/").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, body := doJSON(t, app, http.MethodPost, "/api/inspections/photos",
		`{"sessionId":"INS-1-A","kind":"walk","folderUrl":"https://files.test/f/"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
}

func TestPhotoUploadReturnsFolderURL(t *testing.T) {
	app, mock := newTestAPI(t)

	mock.ExpectExec(`INSERT INTO inspection_photos .* ON CONFLICT`).
		WithArgs("INS-1-A", "walk", "https://files.test/f/").
		WillReturnResult(sqlmock.NewResult(0, 1))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("sessionId", "INS-1-A"))
	require.NoError(t, mw.WriteField("kind", "walk"))
	part, err := mw.CreateFormFile("file", "a.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/photos/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://files.test/f/", body["folderUrl"])
}

func TestFinalizeStampsAndLinksSummary(t *testing.T) {
	app, mock := newTestAPI(t)

	now := time.Now()
	stamp := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	cols := []string{"id", "session_id", "code", "employee_id", "data", "submitted_at", "created_at", "updated_at"}

	mock.ExpectQuery(`SELECT .* FROM inspections`).
		WithArgs("INS-1-A").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "INS-1-A", "", "", []byte(`{}`), nil, now, now))
	mock.ExpectQuery(`UPDATE inspections\s+SET submitted_at = COALESCE`).
		WithArgs("INS-1-A").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "INS-1-A", "", "", []byte(`{}`), stamp, now, now))

	resp, body := doJSON(t, app, http.MethodPost, "/api/inspections/INS-1-A/finalize", `{}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2026-03-14T09:30:00Z", body["submittedAt"])
	assert.Equal(t, "http://api.test/api/inspections/INS-1-A/summary", body["summaryUrl"])
}

func TestVerifyEmployeeBadRefRejected(t *testing.T) {
	app, _ := newTestAPI(t)
	resp, _ := doJSON(t, app, http.MethodPost, "/api/employees/verify", `{"employeeId":"12"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVerifyEmployeeMintsToken(t *testing.T) {
	app, mock := newTestAPI(t)

	mock.ExpectQuery(`SELECT .* FROM employees`).
		WithArgs("12345").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "employee_id", "name", "preferred_name", "email", "phone", "active",
		}).AddRow(int64(1), "12345", "Sam Field", "Sam", "sam@crew.example", "", true))

	resp, body := doJSON(t, app, http.MethodPost, "/api/employees/verify", `{"employeeId":"12345"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["verifiedToken"])

	emp, ok := body["employee"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Sam Field", emp["name"])
}

func TestResolveQRUnknownIs404(t *testing.T) {
	app, mock := newTestAPI(t)

	mock.ExpectQuery(`SELECT .* FROM units`).
		WithArgs("QR-404").
		WillReturnError(sql.ErrNoRows)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/qr/resolve?code=QR-404", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
