package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("KNITCOUNT_ENV_FILE", filepath.Join(dir, "missing.env"))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.True(t, cfg.Tracker.DemoCounters)
	require.Equal(t, TransportHTTP, cfg.Transport.Mode)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "knitcount.yaml")
	writeFile(t, path, `
server:
  port: 9090
transport:
  mode: stdio
db:
  path: /tmp/counts.db
tracker:
  demo_counters: false
`)
	t.Setenv("KNITCOUNT_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, TransportStdio, cfg.Transport.Mode)
	require.Equal(t, "/tmp/counts.db", cfg.DB.Path)
	require.False(t, cfg.Tracker.DemoCounters)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "knitcount.yaml")
	writeFile(t, path, "log:\n  level: warn\nauth:\n  token: from-file\n")
	t.Setenv("KNITCOUNT_CONFIG_PATH", path)
	t.Setenv("KNITCOUNT_LOG_LEVEL", "debug")
	t.Setenv("KNITCOUNT_SERVER_PORT", "7000")
	t.Setenv("KNITCOUNT_DEMO_COUNTERS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "from-file", cfg.Auth.Token)
	require.Equal(t, 7000, cfg.Server.Port)
	require.False(t, cfg.Tracker.DemoCounters)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	writeFile(t, envPath, "KNITCOUNT_AUTH_TOKEN=secret\nKNITCOUNT_DB_PATH=:memory:\n")
	t.Setenv("KNITCOUNT_ENV_FILE", envPath)
	t.Cleanup(func() {
		os.Unsetenv("KNITCOUNT_AUTH_TOKEN")
		os.Unsetenv("KNITCOUNT_DB_PATH")
	})

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "secret", cfg.Auth.Token)
	require.Equal(t, ":memory:", cfg.DB.Path)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"port":      {"KNITCOUNT_SERVER_PORT": "eighty"},
		"demo":      {"KNITCOUNT_DEMO_COUNTERS": "sometimes"},
		"transport": {"KNITCOUNT_TRANSPORT": "carrier-pigeon"},
		"range":     {"KNITCOUNT_SERVER_PORT": "70000"},
		"file":      {"KNITCOUNT_CONFIG_PATH": "/nonexistent/knitcount.yaml"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}
