package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "sqlite3", cfg.Storage.Driver)
	assert.Equal(t, "roster.db", cfg.Storage.Path)
	assert.Equal(t, 1, cfg.Storage.MaxOpenConns)
	assert.Equal(t, 10*time.Second, cfg.Storage.MigrateTimeout)
	assert.Equal(t, 5432, cfg.Storage.Postgres.Port)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ROSTER_LOGGING_LEVEL", "debug")
	t.Setenv("ROSTER_STORAGE_DRIVER", "postgres")
	t.Setenv("ROSTER_STORAGE_POSTGRES_HOST", "db.internal")
	t.Setenv("ROSTER_STORAGE_POSTGRES_PORT", "6543")
	t.Setenv("ROSTER_STORAGE_MIGRATE_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 3*time.Second, cfg.Storage.MigrateTimeout)
	assert.Equal(t,
		"host=db.internal port=6543 user=postgres password=postgres dbname=roster sslmode=disable",
		cfg.Storage.Postgres.DSN())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ROSTER_STORAGE_PATH=from-file.db\nROSTER_LOGGING_LEVEL=warn\n"), 0o600))

	// The real environment wins over the file.
	t.Setenv("ROSTER_LOGGING_LEVEL", "error")
	// Keys the file sets are restored after the test.
	t.Setenv("ROSTER_STORAGE_PATH", "")
	require.NoError(t, os.Unsetenv("ROSTER_STORAGE_PATH"))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "from-file.db", cfg.Storage.Path)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Logging: LoggingConfig{Level: "info"}, Storage: SQLite("x.db")}
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad driver", func(c *Config) { c.Storage.Driver = "mysql" }, "storage.driver"},
		{"sqlite without path", func(c *Config) { c.Storage.Path = "" }, "storage.path"},
		{"postgres without credentials", func(c *Config) { c.Storage.Driver = "postgres" }, "credentials"},
		{"negative conns", func(c *Config) { c.Storage.MaxOpenConns = -1 }, "max_open_conns"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
