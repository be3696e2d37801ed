package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable LoadConfig reads for the duration of t.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "SERVER_ADDRESS", "ENVIRONMENT", "AWS_REGION", "EVENT_BUS_NAME",
		"STORE_BACKEND", "BADGER_DIR", "TABLE_NAME", "DYNAMODB_TABLE",
		"FILE_BACKEND", "EXPORT_DIR", "S3_BUCKET", "S3_PREFIX", "SETTINGS_FILE",
		"IS_LAMBDA", "AWS_LAMBDA_FUNCTION_NAME", "LOG_LEVEL", "JWT_SECRET", "JWT_ISSUER",
		"METRICS_NAMESPACE", "ENABLE_METRICS", "ENABLE_TRACING", "ENABLE_CORS", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, FilesLocal, cfg.FileBackend)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.IsLambda)
}

func TestLoadConfigPrecedence(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_address: ":9000"
store_backend: badger
badger_dir: /var/lib/project-area
log_level: debug
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ServerAddress, "file overrides defaults")
	assert.Equal(t, StoreBadger, cfg.StoreBackend)
	assert.Equal(t, "/var/lib/project-area", cfg.BadgerDir)
	assert.Equal(t, "warn", cfg.LogLevel, "environment overrides file")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfigRejectsUnknownFileKeys(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("no_such_key: 1\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLambdaDetection(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "project-area-api")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsLambda)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown store", func(c *Config) { c.StoreBackend = "redis" }, true},
		{"dynamodb needs table", func(c *Config) { c.StoreBackend = StoreDynamoDB }, true},
		{"dynamodb", func(c *Config) { c.StoreBackend = StoreDynamoDB; c.DynamoDBTable = "t" }, false},
		{"s3 needs bucket", func(c *Config) { c.FileBackend = FilesS3 }, true},
		{"s3", func(c *Config) { c.FileBackend = FilesS3; c.S3Bucket = "b" }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"production needs secret", func(c *Config) {
			c.Environment = "production"
			c.StoreBackend = StoreBadger
		}, true},
		{"production rejects memory store", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "s"
		}, true},
		{"production", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "s"
			c.StoreBackend = StoreBadger
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
