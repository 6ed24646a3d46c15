package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(oldDir) })
	return tmpDir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0.0.0.0:8080", cfg.Listen)
	assert.Equal(t, 30, cfg.StatusIntervalSeconds)
	assert.Equal(t, int64(10*1024*1024), cfg.Log.MaxBytes)
	assert.Equal(t, 5, cfg.Log.MaxFiles)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "warning", cfg.Log.FlushLevel)
	assert.False(t, cfg.Log.NoColor)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigWithoutFileUsesDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigExplicitMissingFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfigOverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robotd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: "127.0.0.1:9090"
log:
  file: "robot.log"
  level: "warning"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Listen)
	assert.Equal(t, "robot.log", cfg.Log.File)
	assert.Equal(t, "warning", cfg.Log.Level)
	// Unset fields keep their defaults.
	assert.Equal(t, 30, cfg.StatusIntervalSeconds)
	assert.Equal(t, 5, cfg.Log.MaxFiles)
	assert.Equal(t, "warning", cfg.Log.FlushLevel)
}

func TestLoadConfigFindsDefaultFile(t *testing.T) {
	tmpDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, defaultConfigName), []byte("listen: \"127.0.0.1:9191\"\n"), 0o644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9191", cfg.Listen)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad level", "log:\n  level: chatty\n", "log.level"},
		{"bad flush level", "log:\n  flush_level: sometimes\n", "log.flush_level"},
		{"malformed yaml", "listen: [\n", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "robotd.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigInitWritesTemplate(t *testing.T) {
	tmpDir := chdirTemp(t)

	output, err := execute("config", "init")
	require.NoError(t, err)
	assert.Contains(t, output, defaultConfigName)

	data, err := os.ReadFile(filepath.Join(tmpDir, defaultConfigName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "listen:")
	assert.Contains(t, string(data), "max_bytes:")

	// The template it writes must load cleanly.
	cfg, err := LoadConfig(filepath.Join(tmpDir, defaultConfigName))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Listen)
	assert.Equal(t, "robot.log", cfg.Log.File)

	// A second init refuses to clobber without --force.
	_, err = execute("config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute("config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	chdirTemp(t)

	output, err := execute("config", "show")
	require.NoError(t, err)
	assert.Contains(t, output, "listen: 0.0.0.0:8080")
	assert.Contains(t, output, "level: info")
}
