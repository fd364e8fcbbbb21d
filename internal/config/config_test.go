package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, ":8080", cfg.Server.Addr())

	assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
	assert.Equal(t, 50, cfg.Security.RateLimit.Burst)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)

	assert.Equal(t, "CARREFOUR_2026-01-16.txt", cfg.Data.File)
	assert.Equal(t, "Carrefour Analytics", cfg.Data.Title)
	assert.Equal(t, "EUR", cfg.Data.Currency)
	assert.Equal(t, 8, cfg.Data.RecentRows)
	assert.Equal(t, "export_carrefour", cfg.Data.ExportPrefix)

	assert.True(t, cfg.Telemetry.EnableMetrics)
	assert.False(t, cfg.Telemetry.EnableTracing)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
}

func TestLoad_FileOverlay(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9000
data:
  file: data/prices.txt
  recent_rows: 12
  currency: usd
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "keys absent from the file keep defaults")
	assert.Equal(t, "data/prices.txt", cfg.Data.File)
	assert.Equal(t, 12, cfg.Data.RecentRows)
	assert.Equal(t, "USD", cfg.Data.Currency)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "Carrefour Analytics", cfg.Data.Title)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9000\ndata:\n  title: From File\n")
	t.Setenv("PRICEDASH_SERVER_PORT", "9100")
	t.Setenv("PRICEDASH_DATA_FILE", "/srv/prices.txt")
	t.Setenv("PRICEDASH_SECURITY_ALLOWED_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("PRICEDASH_SERVER_READ_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/srv/prices.txt", cfg.Data.File)
	assert.Equal(t, "From File", cfg.Data.Title)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "bad port", env: map[string]string{"PRICEDASH_SERVER_PORT": "70000"}},
		{name: "unparsable port", env: map[string]string{"PRICEDASH_SERVER_PORT": "http"}},
		{name: "bad log level", env: map[string]string{"PRICEDASH_LOGGING_LEVEL": "verbose"}},
		{name: "bad output", env: map[string]string{"PRICEDASH_LOGGING_OUTPUT": "syslog"}},
		{name: "zero recent rows", env: map[string]string{"PRICEDASH_DATA_RECENT_ROWS": "0"}},
		{name: "bad currency", env: map[string]string{"PRICEDASH_DATA_CURRENCY": "EURO"}},
		{name: "bad data pattern", env: map[string]string{"PRICEDASH_DATA_PATTERN": "[a-"}},
		{name: "bad exporter", env: map[string]string{"PRICEDASH_TELEMETRY_TRACE_EXPORTER": "jaeger"}},
		{name: "malformed yaml", file: "server: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}
			cfg, err := Load(path)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().validate())
}
