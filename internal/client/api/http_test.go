package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesworks/fieldcheck/internal/common"
)

func newClientFor(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second)
}

func TestUpsertSessionOK(t *testing.T) {
	var got []byte
	c := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/inspections", r.URL.Path)
		got, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	err := c.UpsertSession(context.Background(), json.RawMessage(`{"sessionId":"INS-1-A"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"sessionId":"INS-1-A"}`, string(got))
}

func TestBadRequestIsValidation(t *testing.T) {
	c := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "sessionId is required"})
	})

	err := c.UpsertSession(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	assert.False(t, errors.Is(err, common.ErrTransient))
	assert.Contains(t, err.Error(), "sessionId is required")
}

func TestServerErrorIsTransient(t *testing.T) {
	c := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.UpsertSession(context.Background(), json.RawMessage(`{"sessionId":"x"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrTransient))
}

func TestConnectionErrorIsTransient(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", 500*time.Millisecond)
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrTransient))
}

func TestOKFalseIsValidation(t *testing.T) {
	c := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "meter out of range"})
	})

	err := c.UpsertSession(context.Background(), json.RawMessage(`{"sessionId":"x"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestNotFoundIsDistinguishable(t *testing.T) {
	c := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "no such session"})
	})

	_, err := c.GetSession(context.Background(), "INS-0-NONE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestUploadPhotoMultipart(t *testing.T) {
	c := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/photos/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "INS-1-A", r.FormValue("sessionId"))
		assert.Equal(t, "walk", r.FormValue("kind"))

		file, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "a.jpg", hdr.Filename)
		content, _ := io.ReadAll(file)
		assert.Equal(t, []byte{0xFF, 0xD8}, content)

		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "folderUrl": "https://files/x/"})
	})

	url, err := c.UploadPhoto(context.Background(), "INS-1-A", "walk", "a.jpg", []byte{0xFF, 0xD8})
	require.NoError(t, err)
	assert.Equal(t, "https://files/x/", url)
}

func TestGetSessionDecodesPayload(t *testing.T) {
	c := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/inspections/INS-1-A", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":        true,
			"sessionId": "INS-1-A",
			"data":      map[string]any{"notes": "n"},
			"photos": []map[string]string{
				{"kind": "walk", "folderUrl": "https://files/w/"},
			},
			"submittedAt": "",
		})
	})

	sess, err := c.GetSession(context.Background(), "INS-1-A")
	require.NoError(t, err)
	assert.Equal(t, "INS-1-A", sess.SessionID)
	require.Len(t, sess.PhotoFolders, 1)
	assert.Equal(t, "walk", sess.PhotoFolders[0].Kind)
	assert.JSONEq(t, `{"notes":"n"}`, string(sess.Data))
}

func TestVerifyEmployeeReturnsToken(t *testing.T) {
	c := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "12345", body["employeeId"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":            true,
			"employee":      map[string]string{"employeeId": "12345", "name": "Sam Field"},
			"verifiedToken": "tok",
		})
	})

	emp, token, err := c.VerifyEmployee(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "Sam Field", emp.Name)
	assert.Equal(t, "tok", token)
}
