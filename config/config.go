// Package config loads the application settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"material-scene/content"
	"material-scene/math"
)

type Config struct {
	Window WindowConfig `toml:"window"`
	Scene  SceneConfig  `toml:"scene"`
	Camera CameraConfig `toml:"camera"`
	Panel  PanelConfig  `toml:"panel"`
	Log    LogConfig    `toml:"log"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
	// PixelRatio pins the device pixel ratio; 0 asks the window.
	PixelRatio float32 `toml:"pixel_ratio"`
}

type SceneConfig struct {
	AssetDir           string     `toml:"asset_dir"`
	Seed               int64      `toml:"seed"`
	PlaneSize          float32    `toml:"plane_size"`
	Scatter            float64    `toml:"scatter"`
	ExtraModel         string     `toml:"extra_model"`
	ExtraModelPosition [3]float32 `toml:"extra_model_position"`
	ExtraModelScale    float32    `toml:"extra_model_scale"`
}

type CameraConfig struct {
	Position    [3]float32 `toml:"position"`
	RotateSpeed float32    `toml:"rotate_speed"`
	ZoomSpeed   float32    `toml:"zoom_speed"`
	PanSpeed    float32    `toml:"pan_speed"`
	MinDistance float32    `toml:"min_distance"`
	// MaxDistance of 0 leaves the orbit unbounded.
	MaxDistance float32 `toml:"max_distance"`
}

type PanelConfig struct {
	// Preset is loaded after the scene is built when the file exists.
	Preset       string `toml:"preset"`
	Watch        bool   `toml:"watch"`
	HistoryDepth int    `toml:"history_depth"`
	Console      bool   `toml:"console"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	sc := content.DefaultConfig()
	return Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Material Scene",
			VSync:  true,
		},
		Scene: SceneConfig{
			AssetDir:        sc.AssetDir,
			Seed:            sc.Seed,
			PlaneSize:       sc.PlaneSize,
			Scatter:         sc.Scatter,
			ExtraModelScale: sc.ExtraModelScale,
		},
		Camera: CameraConfig{
			Position:    sc.Camera.Array(),
			RotateSpeed: 1,
			ZoomSpeed:   1,
			PanSpeed:    1,
		},
		Panel: PanelConfig{
			Preset:       "material-scene.preset.toml",
			HistoryDepth: 100,
			Console:      true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
// Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		p, err := homedir.Expand(path)
		if err != nil {
			return cfg, fmt.Errorf("config path %q: %w", path, err)
		}
		data, err := os.ReadFile(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			dec := toml.NewDecoder(bytes.NewReader(data))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&cfg); err != nil {
				var strict *toml.StrictMissingError
				if errors.As(err, &strict) {
					return cfg, fmt.Errorf("config %s: %s", p, strict.String())
				}
				return cfg, fmt.Errorf("config %s: %w", p, err)
			}
		}
	}
	if err := cfg.expand(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Save writes c to path as TOML.
func (c Config) Save(path string) error {
	p, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(p, data, 0o644)
}

func (c *Config) expand() error {
	for _, s := range []*string{&c.Scene.AssetDir, &c.Scene.ExtraModel, &c.Panel.Preset} {
		p, err := homedir.Expand(*s)
		if err != nil {
			return fmt.Errorf("expand %q: %w", *s, err)
		}
		*s = p
	}
	return nil
}

// Validate rejects settings the application cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Camera.MaxDistance != 0 && c.Camera.MaxDistance < c.Camera.MinDistance {
		errs = append(errs, fmt.Errorf("camera max_distance %g below min_distance %g", c.Camera.MaxDistance, c.Camera.MinDistance))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// Content converts the scene and camera sections for content.BuildShowcase.
func (c Config) Content(log *slog.Logger) content.Config {
	cc := content.DefaultConfig()
	cc.AssetDir = c.Scene.AssetDir
	cc.Seed = c.Scene.Seed
	cc.PlaneSize = c.Scene.PlaneSize
	cc.Scatter = c.Scene.Scatter
	cc.Camera = vec3(c.Camera.Position)
	cc.ExtraModel = c.Scene.ExtraModel
	cc.ExtraModelPosition = vec3(c.Scene.ExtraModelPosition)
	cc.ExtraModelScale = c.Scene.ExtraModelScale
	cc.Logger = log
	return cc
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
