package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ServerAddr)
	require.Equal(t, "localhost", cfg.Postgres.Host)
	require.Equal(t, "5432", cfg.Postgres.Port)
	require.Equal(t, "nexboard", cfg.Postgres.DBName)
	require.Equal(t, "disable", cfg.Postgres.SSLMode)
	require.False(t, cfg.Cleanup.Enable)
	require.Equal(t, 30, cfg.Cleanup.RetainDays)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
serverAddr: ":9090"
postgres:
  host: db.internal
  replicas:
    - db-ro-1.internal
    - db-ro-2.internal
cleanup:
  enable: true
  spec: "30 2 * * *"
  retainDays: 7
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ServerAddr)
	require.Equal(t, "db.internal", cfg.Postgres.Host)
	require.Equal(t, []string{"db-ro-1.internal", "db-ro-2.internal"}, cfg.Postgres.Replicas)
	require.True(t, cfg.Cleanup.Enable)
	require.Equal(t, "30 2 * * *", cfg.Cleanup.Spec)
	require.Equal(t, 7, cfg.Cleanup.RetainDays)

	// Unset fields keep their defaults.
	require.Equal(t, "5432", cfg.Postgres.Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("postgres:\n  host: from-file\n"), 0o600))

	t.Setenv("DB_HOST", "from-env")
	t.Setenv("DB_PASSWORD", "hunter2")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Postgres.Host)
	require.Equal(t, "hunter2", cfg.Postgres.Password)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
