package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServiceDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadService()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "localhost:3306", cfg.DBHost)
	assert.Equal(t, "test", cfg.DBName)
	assert.True(t, cfg.AutoMigrate)
	assert.True(t, cfg.RequestLogging())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, int64(10<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadServiceFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DBDRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/var/lib/contacts.db")
	t.Setenv("GIN_LOGGING", "OFF")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,https://contacts.example.com")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := LoadService()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/var/lib/contacts.db", cfg.SQLitePath)
	assert.False(t, cfg.RequestLogging())
	assert.Equal(t, []string{"http://localhost:3000", "https://contacts.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadServiceInvalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("PORT", "eighty")
	_, err := LoadService()
	assert.Error(t, err)

	t.Setenv("PORT", "70000")
	_, err = LoadService()
	assert.Error(t, err)
}

func TestLoadClientDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/contacts", cfg.APIURL)
	assert.Equal(t, "strict", cfg.FormProfile)
	assert.Equal(t, 1<<20, cfg.MaxPictureBytes)
}
