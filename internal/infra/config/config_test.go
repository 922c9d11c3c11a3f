package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_FileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9000"
cache:
  ttl: 30m
auth:
  secret: from-file
faq:
  defaultLanguage: hi
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SQLITE_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTP.Address)
	require.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	require.Equal(t, "from-env", cfg.Auth.Secret)
	require.Equal(t, "hi", cfg.FAQ.DefaultLanguage)
	require.True(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, "redis://localhost:6379/0", cfg.Cache.Redis.Addr)
	require.Empty(t, cfg.Database.SQLite.Path)
	require.Len(t, cfg.FAQ.Languages, 3)
}

func TestLoad_DotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SECRET_KEY=dotenv-secret\nFAQ_CACHE_TTL=5m\n"), 0o600))
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV_FILE", "")
	t.Setenv("FAQ_CACHE_TTL", "2m")
	// Registers cleanup so the value loaded from .env does not leak into other tests.
	t.Setenv("SECRET_KEY", "")
	require.NoError(t, os.Unsetenv("SECRET_KEY"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "dotenv-secret", cfg.Auth.Secret)
	require.Equal(t, 2*time.Minute, cfg.Cache.TTL)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := defaultConfig()
	cfg.HTTP.Address = ""
	cfg.Cache.Redis.Enabled = true
	cfg.FAQ.DefaultLanguage = "fr"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "http.address cannot be empty")
	require.Contains(t, err.Error(), "cache.redis.addr cannot be empty")
	require.Contains(t, err.Error(), "faq.defaultLanguage must be one of faq.languages")
	require.Contains(t, err.Error(), "auth.secret cannot be empty")
}

func TestValidate_DefaultsWithSecret(t *testing.T) {
	cfg := defaultConfig()
	cfg.Auth.Secret = "s3cret"
	require.NoError(t, cfg.Validate())
	require.True(t, cfg.FAQ.HasLanguage("bn"))
	require.False(t, cfg.FAQ.HasLanguage("de"))
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
