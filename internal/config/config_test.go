package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "0.0.0.0:8002", cfg.Server.Addr())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	content := []byte("server:\n  port: 9000\n  transport: stdio\ndb:\n  path: /tmp/file.db\naudit:\n  default_actor: importer\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("REGISTRY_CONFIG_PATH", path)
	t.Setenv("REGISTRY_DB_PATH", "/tmp/env.db")
	t.Setenv("REGISTRY_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, TransportStdio, cfg.Server.Transport)
	require.Equal(t, "/tmp/env.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "importer", cfg.Audit.DefaultActor)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("REGISTRY_SERVER_PORT", "eighty")
	_, err := Load()
	require.ErrorContains(t, err, "REGISTRY_SERVER_PORT")

	t.Setenv("REGISTRY_SERVER_PORT", "8080")
	t.Setenv("REGISTRY_TRANSPORT", "carrier-pigeon")
	_, err = Load()
	require.ErrorContains(t, err, "invalid transport")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("REGISTRY_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}
