package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.GetServerAddr())
	assert.Equal(t, "minimalist", cfg.Invoice.Template)
	assert.Equal(t, "#333333", cfg.Invoice.PrimaryColor)
	assert.Equal(t, "none", cfg.Notifications.Provider)
	assert.Equal(t, "none", cfg.TemplateStore.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Storage.PresignExpiry)
	assert.Equal(t, "localhost:6379", cfg.Cache.GetRedisAddr())
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server": {"port": 9000},
		"invoice": {"template": "zen", "primary_color": "#6366f1"},
		"storage": {"bucket": "from-file"}
	}`), 0o600))

	t.Setenv("S3_BUCKET_NAME", "from-env")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_TTL", "90s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "zen", cfg.Invoice.Template)
	assert.Equal(t, "#6366f1", cfg.Invoice.PrimaryColor)
	assert.Equal(t, "from-env", cfg.Storage.Bucket)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
}

func TestLoadConfigIgnoresMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfigRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":`), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("NOTIFICATION_PROVIDER", "sns")
	_, err := LoadConfig("")
	assert.EqualError(t, err, "SNS_TOPIC_ARN is required for the sns notification provider")

	t.Setenv("SNS_TOPIC_ARN", "arn:aws:sns:ap-south-1:123456789012:invoices")
	_, err = LoadConfig("")
	assert.NoError(t, err)

	t.Setenv("TEMPLATE_STORE_DRIVER", "mongo")
	_, err = LoadConfig("")
	assert.EqualError(t, err, `unsupported template store driver "mongo"`)
}

func TestDatabaseURL(t *testing.T) {
	db := DatabaseConfig{User: "app", Password: "secret", Host: "db", Port: 5432, DBName: "invoice_pdf", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:secret@db:5432/invoice_pdf?sslmode=disable", db.GetDatabaseURL())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
	assert.True(t, logger.Core().Enabled(1))

	logger, err = NewLogger(LoggingConfig{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))
}
