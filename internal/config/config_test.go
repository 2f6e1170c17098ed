package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/gumballz/internal/sheet"
)

// clearEnv blanks every bound variable so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gumballz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "5175", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.HandlerTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, sheet.DefaultURL, cfg.Sheet.URL)
	assert.Equal(t, 30*time.Second, cfg.Sheet.FetchTimeout)
	assert.False(t, cfg.Sheet.SkipHeader)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Display.TimeZone)
	assert.Equal(t, 3, cfg.Dashboard.SampleSize)
	assert.Empty(t, cfg.Admin.JWTSecret)
}

func TestLoad_Discovery(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		wantPort string
	}{
		{
			name:     "extensionless file named like the binary is ignored",
			files:    map[string]string{"gumballz": "\x7fELF\x02\x01\x01\x00binary"},
			wantPort: "5175",
		},
		{
			name: "gumballz.yaml in the working directory is read",
			files: map[string]string{
				"gumballz":      "\x7fELF\x02\x01\x01\x00binary",
				"gumballz.yaml": "server:\n  port: \"9000\"\n",
			},
			wantPort: "9000",
		},
		{
			name:     "no file uses defaults",
			wantPort: "5175",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			for name, content := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o755))
			}
			t.Chdir(dir)

			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, tt.wantPort, cfg.Server.Port)
		})
	}
}

func TestLoad_DiscoveryFromHome(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "gumballz")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gumballz.yaml"), []byte("cache:\n  ttl: 5m\n"), 0o644))
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr string
	}{
		{
			name: "file values",
			file: `
server:
  port: "8080"
sheet:
  url: https://example.com/sheet.csv
  skip_header: true
cache:
  ttl: 15m
dashboard:
  sample_size: 5
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "8080", cfg.Server.Port)
				assert.Equal(t, "https://example.com/sheet.csv", cfg.Sheet.URL)
				assert.True(t, cfg.Sheet.SkipHeader)
				assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
				assert.Equal(t, 5, cfg.Dashboard.SampleSize)
			},
		},
		{
			name: "environment overrides file",
			file: "cache:\n  ttl: 15m\n",
			env: map[string]string{
				"CACHE_TTL":     "2h",
				"PORT":          "9000",
				"LOG_LEVEL":     "DEBUG",
				"SHEET_CSV_URL": "http://localhost:1234/csv",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
				assert.Equal(t, "9000", cfg.Server.Port)
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, "http://localhost:1234/csv", cfg.Sheet.URL)
			},
		},
		{
			name:    "invalid url",
			env:     map[string]string{"SHEET_CSV_URL": "not a url"},
			wantErr: "sheet.url",
		},
		{
			name:    "zero ttl",
			file:    "cache:\n  ttl: 0s\n",
			wantErr: "cache.ttl",
		},
		{
			name:    "unknown log level",
			env:     map[string]string{"LOG_LEVEL": "loud"},
			wantErr: "log.level",
		},
		{
			name:    "short admin secret",
			env:     map[string]string{"ADMIN_JWT_SECRET": "short"},
			wantErr: "admin.jwt_secret",
		},
		{
			name:    "unknown time zone",
			env:     map[string]string{"DISPLAY_TIME_ZONE": "Mars/Olympus"},
			wantErr: "display.time_zone",
		},
		{
			name:    "malformed file",
			file:    "server: [unclosed\n",
			wantErr: "could not be read",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{Display: DisplayConfig{TimeZone: "Asia/Ho_Chi_Minh"}}
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Location().String())

	cfg.Display.TimeZone = "Nowhere/Nothing"
	assert.Equal(t, time.UTC, cfg.Location())
}
