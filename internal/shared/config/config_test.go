package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "HTTP_ADDR", "JWT_SECRET", "TOKEN_TTL", "MIGRATIONS_PATH", "ARCHIVE_BUFFER",
		"NATS_URL", "NATS_SUBJECT_PREFIX", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD",
		"DB_NAME", "DB_SSLMODE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.HTTPAddr)
	assert.Equal(t, 24*time.Hour, c.TokenTTL)
	assert.Equal(t, "file://internal/shared/db/migrations/sql", c.MigrationsPath)
	assert.Equal(t, 256, c.ArchiveBuffer)
	assert.Equal(t, "auction.events", c.NATSSubjectPrefix)
	assert.Equal(t, "5432", c.DB.Port)
	assert.Equal(t, "disable", c.DB.SSLMode)
	assert.False(t, c.PersistenceEnabled())
	assert.False(t, c.NATSEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":8081")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("ARCHIVE_BUFFER", "8")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "ledger")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", c.HTTPAddr)
	assert.Equal(t, "s3cret", c.JWTSecret)
	assert.Equal(t, 15*time.Minute, c.TokenTTL)
	assert.Equal(t, 8, c.ArchiveBuffer)
	assert.Equal(t, "ledger", c.DB.Name)
	assert.True(t, c.PersistenceEnabled())
	assert.True(t, c.NATSEnabled())
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKEN_TTL", "forever")
	_, err := Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("ARCHIVE_BUFFER", "many")
	_, err = Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("ARCHIVE_BUFFER", "0")
	_, err = Load()
	assert.Error(t, err)
}
