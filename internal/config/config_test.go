package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Address)
	assert.Equal(t, StorageMongo, cfg.Storage)
	assert.Equal(t, "phoneuser", cfg.MongoDatabase)
	assert.Equal(t, 10*time.Second, cfg.MongoTimeout)
	assert.Equal(t, 2*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.RedisAddress)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PHONEUSER_ADDRESS", ":8080")
	t.Setenv("PHONEUSER_STORAGE", "memory")
	t.Setenv("PHONEUSER_OTP_TTL", "30s")
	t.Setenv("PHONEUSER_REDIS_DB", "2")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 30*time.Second, cfg.OTPTTL)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PHONEUSER_MONGO_DATABASE=from_file\nPHONEUSER_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("PHONEUSER_MONGO_DATABASE")
		os.Unsetenv("PHONEUSER_LOG_LEVEL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.MongoDatabase)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("PHONEUSER_STORAGE", "sqlite")
	_, err := Load(missingEnvFile(t))
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("PHONEUSER_OTP_TTL", "soon")
	_, err := Load(missingEnvFile(t))
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn"}
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	cfg.LogLevel = "nonsense"
	cfg.Logger(&buf).Info("info")
	assert.Contains(t, buf.String(), "info")
}
