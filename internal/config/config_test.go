package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "influencers.csv", cfg.Input.Influencers)
	assert.Equal(t, "posts.csv", cfg.Input.Posts)
	assert.Equal(t, "tracking.csv", cfg.Input.Tracking)
	assert.Equal(t, "payouts.csv", cfg.Input.Payouts)
	assert.Equal(t, ",", cfg.Input.Delimiter)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.False(t, cfg.Output.XLSX)
	assert.Equal(t, 30, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.InDelta(t, 5.0, cfg.Fetch.RequestsPerSec, 0.001)
	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, "us-east-1", cfg.Publish.Region)
	assert.Equal(t, int64(0), cfg.Actions.Seed)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "en", cfg.Report.Locale)
	assert.Empty(t, cfg.Input.Encoding)
	assert.Empty(t, cfg.Input.Comment)
	assert.False(t, cfg.Input.TrimSpace)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
input:
  workbook: campaign.xlsx
  delimiter: ";"
output:
  dir: results
  xlsx: true
store:
  driver: sqlite
  database_url: kpi.db
log:
  level: debug
  format: console
actions:
  seed: 42
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "campaign.xlsx", cfg.Input.Workbook)
	assert.Equal(t, ';', cfg.Input.DelimiterRune())
	assert.Equal(t, "results", cfg.Output.Dir)
	assert.True(t, cfg.Output.XLSX)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "kpi.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, int64(42), cfg.Actions.Seed)
	// Defaults still apply for unset values
	assert.Equal(t, "posts.csv", cfg.Input.Posts)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("KPI_STORE_DRIVER", "postgres")
	t.Setenv("KPI_STORE_DATABASE_URL", "postgres://localhost/kpi")
	t.Setenv("KPI_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/kpi", cfg.Store.DatabaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("KPI_SERVER_PORT", "3000")
	t.Setenv("KPI_PUBLISH_BUCKET", "campaign-exports")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "campaign-exports", cfg.Publish.Bucket)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("input: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "sqlite", mutate: func(c *Config) { c.Store.Driver = "sqlite" }},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.Store.Driver = "postgres" },
			wantErr: "database_url is required",
		},
		{
			name: "postgres with url",
			mutate: func(c *Config) {
				c.Store.Driver = "postgres"
				c.Store.DatabaseURL = "postgres://localhost/kpi"
			},
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Store.Driver = "mysql" },
			wantErr: "unknown store driver",
		},
		{
			name:    "long delimiter",
			mutate:  func(c *Config) { c.Input.Delimiter = "||" },
			wantErr: "single character",
		},
		{
			name:    "long comment",
			mutate:  func(c *Config) { c.Input.Comment = "//" },
			wantErr: "input.comment must be a single character",
		},
		{
			name:    "comment equals delimiter",
			mutate:  func(c *Config) { c.Input.Comment = "," },
			wantErr: "must differ from input.delimiter",
		},
		{
			name:   "hash comment",
			mutate: func(c *Config) { c.Input.Comment = "#" },
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "port out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Input: InputConfig{Delimiter: ","}, Store: StoreConfig{Driver: "none"}, Server: ServerConfig{Port: 8080}}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDelimiterRuneDefault(t *testing.T) {
	assert.Equal(t, ',', InputConfig{}.DelimiterRune())
	assert.Equal(t, '\t', InputConfig{Delimiter: "\t"}.DelimiterRune())
}

func TestCommentRune(t *testing.T) {
	assert.Equal(t, rune(0), InputConfig{}.CommentRune())
	assert.Equal(t, '#', InputConfig{Comment: "#"}.CommentRune())
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
