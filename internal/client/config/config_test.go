package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
	assert.Equal(t, "fieldcheck.db", cfg.DatabasePath)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.OnlineCheckInterval)
}

func TestJSONOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"serverBaseUrl": "https://inspect.example",
		"databasePath": "/var/lib/fieldcheck.db",
		"requestTimeoutSec": 30
	}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://inspect.example", cfg.ServerBaseURL)
	assert.Equal(t, "/var/lib/fieldcheck.db", cfg.DatabasePath)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.OnlineCheckInterval)
}

func TestEnvOverridesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"serverBaseUrl": "https://from-file"}`), 0o600))

	t.Setenv("FIELDCHECK_SERVER", "https://from-env")
	t.Setenv("FIELDCHECK_VERIFY_SECRET", "envsecret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env", cfg.ServerBaseURL)
	assert.Equal(t, "envsecret", cfg.VerifySecret)
}

func TestMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
}

func TestMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{nope`), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
