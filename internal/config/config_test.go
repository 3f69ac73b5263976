package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_CONNECTION_STR", "postgres://user:pw@localhost:5432/jobs?sslmode=disable")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.API.Port)
	assert.Equal(t, StorageLocal, cfg.Upload.Driver)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.False(t, cfg.Mail.Enabled())
}

func TestLoadFromEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8081")
	t.Setenv("ALLOW_ORIGIN", "https://jobs.example.com, https://admin.example.com")
	t.Setenv("EMAIL_USER", "board@example.com")
	t.Setenv("EMAIL_PASS", "app-password")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.API.Port)
	assert.Equal(t, []string{"https://jobs.example.com", "https://admin.example.com"}, cfg.API.Origins())
	assert.True(t, cfg.Mail.Enabled())
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("DB_CONNECTION_STR", "postgres://user:pw@localhost:5432/jobs")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMinIORequiresCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", StorageMinIO)
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSNFromParts(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "jobs"}
	dsn, err := d.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/jobs?sslmode=disable", dsn)

	_, err = DatabaseConfig{Host: "db"}.DSN()
	assert.Error(t, err)
}
