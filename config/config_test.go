package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"material-scene/math"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "material-scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, int64(3), cfg.Scene.Seed)
	assert.Equal(t, [3]float32{0, 0, 5}, cfg.Camera.Position)
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(write(t, `
[window]
width = 800
height = 600

[scene]
seed = 42
extra_model = "models/duck.glb"
extra_model_position = [1, 2, 3]

[log]
level = "debug"
`))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "Material Scene", cfg.Window.Title, "untouched keys keep defaults")
	assert.Equal(t, int64(42), cfg.Scene.Seed)
	assert.Equal(t, float32(20), cfg.Scene.PlaneSize)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	cc := cfg.Content(nil)
	assert.Equal(t, int64(42), cc.Seed)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, cc.ExtraModelPosition)
	assert.Equal(t, "models/duck.glb", cc.ExtraModel)
	assert.Equal(t, math.Vec3{Z: 5}, cc.Camera)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(write(t, "[scene]\nsede = 4\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sede")
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(write(t, "[window]\nwidth = 0\n[log]\nlevel = \"loud\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "log level")
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	cfg, err := Load(write(t, "[scene]\nasset_dir = \"~/assets\"\n[panel]\npreset = \"~/p.toml\"\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "assets"), cfg.Scene.AssetDir)
	assert.Equal(t, filepath.Join(home, "p.toml"), cfg.Panel.Preset)
}

func TestSaveLoad(t *testing.T) {
	cfg := Default()
	cfg.Scene.Seed = 9
	cfg.Camera.MaxDistance = 30
	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
