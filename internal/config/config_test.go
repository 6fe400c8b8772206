package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "AI_PROVIDER", "AI_MODEL", "GEMINI_API_KEY", "OPENAI_API_KEY", "UPLOAD_DIR",
		"REDIS_URL", "SESSION_BACKEND", "DATABASE_DRIVER", "DATABASE_PASSWORD",
		"MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	// keep a stray .env in the package dir from leaking in
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "g-key", cfg.APIKey())
	assert.Equal(t, 600*time.Second, cfg.AI.GateCacheTTL)
	assert.Equal(t, 3, cfg.Analysis.Workers)
	assert.Equal(t, 800, cfg.Analysis.MaxWidth)
	assert.Equal(t, 800, cfg.Analysis.MaxHeight)
	assert.Equal(t, time.Hour, cfg.Housekeeping.Retention)
	assert.Equal(t, "memory", cfg.Sessions.Backend)
	assert.Equal(t, "uploads", cfg.Uploads.Dir)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 8080
ai:
  provider: OpenAI
  openaiApiKey: from-file
analysis:
  workers: 5
housekeeping:
  retention: 30m
  interval: 5m
database:
  driver: postgres
  host: db
  user: ux
  password: secret
  name: critique
`)
	t.Setenv("PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "from-env", cfg.APIKey())
	assert.Equal(t, 5, cfg.Analysis.Workers)
	assert.Equal(t, 30*time.Minute, cfg.Housekeeping.Retention)
	assert.Equal(t, 5*time.Minute, cfg.Housekeeping.Interval)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "host=db port=5432 user=ux password=secret dbname=critique sslmode=disable", cfg.PostgresDSN())
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("PORT", "abc")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
ai:
  provider: mistral
sessions:
  backend: redis
database:
  driver: sqlite
minio:
  enabled: true
`)
	_, err := Load(path)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "unknown ai.provider")
	assert.Contains(t, msg, "sessions.redisURL")
	assert.Contains(t, msg, "unknown database.driver")
	assert.Contains(t, msg, "minio.endpoint")
}

func TestMySQLDSN(t *testing.T) {
	var cfg Config
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Host = "h"
	cfg.Database.Port = 3306
	cfg.Database.Name = "n"
	assert.Equal(t, "u:p@tcp(h:3306)/n?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}
