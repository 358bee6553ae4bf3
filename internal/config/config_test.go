package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("RETENTION_DAYS", "3")
	t.Setenv("IMAGE_MAX_WIDTH_MM", "120.5")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 3, cfg.Documents.RetentionDays)
	assert.Equal(t, 120.5, cfg.Documents.ImageMaxWidthMM)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("RETENTION_DAYS", "")
	t.Setenv("CONVERTER_BINARY", "")

	cfg := Load()

	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, 10, cfg.Documents.RetentionDays)
	assert.Equal(t, "soffice", cfg.Documents.ConverterBinary)
	assert.Equal(t, "templates/proposal.docx", cfg.Documents.ProposalTemplate)
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestLoad_NonPositiveDurations(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL_MIN", "0")
	t.Setenv("RETENTION_DAYS", "-2")
	t.Setenv("CONVERT_TIMEOUT_SEC", "0")
	t.Setenv("BODY_LIMIT_MB", "-1")

	cfg := Load()

	assert.Equal(t, 60, cfg.Documents.SweepIntervalMin)
	assert.Equal(t, 10, cfg.Documents.RetentionDays)
	assert.Equal(t, 60, cfg.Documents.ConvertTimeoutSec)
	assert.Equal(t, 16, cfg.BodyLimitMB)
}

func TestGetEnvPositiveInt(t *testing.T) {
	key := "TEST_POSITIVE_INT_VAR"

	t.Setenv(key, "5")
	assert.Equal(t, 5, getEnvPositiveInt(key, 1))

	t.Setenv(key, "0")
	assert.Equal(t, 1, getEnvPositiveInt(key, 1))

	t.Setenv(key, "-7")
	assert.Equal(t, 1, getEnvPositiveInt(key, 1))
}

func TestGetEnvFloat(t *testing.T) {
	key := "TEST_FLOAT_VAR"

	os.Setenv(key, "12.5")
	assert.Equal(t, 12.5, getEnvFloat(key, 0))

	os.Setenv(key, "abc")
	assert.Equal(t, 1.0, getEnvFloat(key, 1))

	os.Unsetenv(key)
	assert.Equal(t, 1.0, getEnvFloat(key, 1))
}
