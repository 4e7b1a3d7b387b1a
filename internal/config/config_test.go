package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "table", cfg.Output)
	assert.Empty(t, cfg.LogFile)
	assert.Equal(t, 10, cfg.LogFileMaxSizeMB)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name:    "debug shorthand",
			environ: map[string]string{"ENABLEAPP_DEBUG": "true", "ENABLEAPP_LOG_LEVEL": "warn"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
		{
			name:    "case is normalized",
			environ: map[string]string{"ENABLEAPP_OUTPUT": " YAML ", "ENABLEAPP_LOG_FORMAT": "JSON"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "yaml", cfg.Output)
				assert.Equal(t, "json", cfg.LogFormat)
			},
		},
		{
			name: "log file settings",
			environ: map[string]string{
				"ENABLEAPP_LOG_FILE":             "/tmp/enableapp.log",
				"ENABLEAPP_LOG_FILE_MAX_SIZE_MB": "5",
				"ENABLEAPP_LOG_TIME":             "true",
			},
			check: func(t *testing.T, cfg Config) {
				lc := cfg.Logging()
				assert.Equal(t, "/tmp/enableapp.log", lc.FilePath)
				assert.Equal(t, 5, lc.FileMaxSizeMB)
				assert.Equal(t, 3, lc.FileMaxBackups)
				assert.True(t, lc.ShowTime)
			},
		},
		{
			name:    "timeout",
			environ: map[string]string{"ENABLEAPP_TIMEOUT": "90s"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 90*time.Second, cfg.Timeout)
			},
		},
		{
			name:    "unprefixed variables are ignored",
			environ: map[string]string{"OUTPUT": "json"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "table", cfg.Output)
			},
		},
		{name: "bad output", environ: map[string]string{"ENABLEAPP_OUTPUT": "xml"}, wantErr: true},
		{name: "bad level", environ: map[string]string{"ENABLEAPP_LOG_LEVEL": "trace"}, wantErr: true},
		{name: "bad format", environ: map[string]string{"ENABLEAPP_LOG_FORMAT": "logfmt"}, wantErr: true},
		{name: "bad timeout", environ: map[string]string{"ENABLEAPP_TIMEOUT": "soon"}, wantErr: true},
		{name: "bad bool", environ: map[string]string{"ENABLEAPP_DEBUG": "maybe"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(tt.environ)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestSanitize_NegativeTimeout(t *testing.T) {
	cfg := Config{LogLevel: "info", LogFormat: "text", Output: "table", Timeout: -time.Second}
	cfg.Sanitize()
	assert.Equal(t, time.Duration(0), cfg.Timeout)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ENABLEAPP_OUTPUT=json\n"), 0644))
	t.Chdir(dir)
	t.Setenv("ENABLEAPP_LOG_FORMAT", "json")
	// godotenv.Load only sets variables that are absent; the cleanup
	// registered by Setenv also removes what it sets.
	t.Setenv("ENABLEAPP_OUTPUT", "")
	os.Unsetenv("ENABLEAPP_OUTPUT")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_NoDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENABLEAPP_OUTPUT", "yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output)
}
