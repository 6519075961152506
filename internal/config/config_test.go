package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intvm.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := write(t, `
[engine]
disasm_on_unimplemented = false
max_steps = 1000

[log]
debug = true
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.False(t, cfg.Engine.DisasmOnUnimplemented)
	assert.Equal(t, 1000, cfg.Engine.MaxSteps)
	assert.True(t, cfg.Log.Debug)
	assert.False(t, cfg.Log.NoColor)
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(write(t, "[log]\nno_color = true\n"), false)
	require.NoError(t, err)
	assert.True(t, cfg.Engine.DisasmOnUnimplemented)
	assert.Equal(t, 0, cfg.Engine.MaxSteps)
	assert.True(t, cfg.Log.NoColor)
}

func TestLoadMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := Load(missing, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, false)
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(write(t, "[engine\n"), false)
	assert.Error(t, err)

	_, err = Load(write(t, "[engine]\nmax_steps = -1\n"), false)
	assert.Error(t, err)
}
