package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadSQLiteSessionDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, AuthModeSession, cfg.Auth.Mode)
	assert.Equal(t, "club_sid", cfg.Auth.SessionCookie)
	assert.Equal(t, 168*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Uploads.MaxBytes)
	assert.Equal(t, "./uploads", cfg.Uploads.Dir)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "club")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("DB_NAME", "clubhouse")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("AUTH_MODE", "claims")
	t.Setenv("JWT_SECRET", "shared-secret")
	t.Setenv("UPLOAD_MAX_BYTES", "1024")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, AuthModeClaims, cfg.Auth.Mode)
	assert.Equal(t, "shared-secret", cfg.Auth.ClaimsSecret)
	assert.Equal(t, int64(1024), cfg.Uploads.MaxBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.DSN(), "port=6543")
}

func TestLoadYAMLFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "club.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
database:
  driver: sqlite
  sqlite_path: ./club.db
uploads:
  dir: ./media
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "./club.db", cfg.Database.SQLitePath)
	assert.Equal(t, "./media", cfg.Uploads.Dir)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Driver: DriverSQLite, SQLitePath: ":memory:"},
			Auth:     AuthConfig{Mode: AuthModeSession, SessionCookie: "club_sid", SessionTTL: time.Hour, JanitorInterval: time.Hour},
			Uploads:  UploadsConfig{Dir: "./uploads", MaxBytes: DefaultMaxUploadBytes},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"postgres without host", func(c *Config) { c.Database.Driver = DriverPostgres }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"unknown auth mode", func(c *Config) { c.Auth.Mode = "both" }},
		{"claims without secret", func(c *Config) { c.Auth.Mode = AuthModeClaims }},
		{"zero upload limit", func(c *Config) { c.Uploads.MaxBytes = 0 }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"zero janitor interval", func(c *Config) { c.Auth.JanitorInterval = 0 }},
		{"negative janitor interval", func(c *Config) { c.Auth.JanitorInterval = -time.Minute }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
