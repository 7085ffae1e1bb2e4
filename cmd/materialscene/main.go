// Command materialscene opens the material showcase window with its
// parameter console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"material-scene/config"
	"material-scene/console"
	"material-scene/content"
	"material-scene/controls"
	"material-scene/internal/host"
	"material-scene/panel"
	"material-scene/renderer"
	"material-scene/viewport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "materialscene:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "material-scene.toml", "path to the TOML config file")
	seed := flag.Int64("seed", 0, "layout seed (0 keeps the configured seed)")
	assets := flag.String("assets", "", "asset directory override")
	logLevel := flag.String("log", "", "log level override (debug, info, warn, error)")
	noConsole := flag.Bool("no-console", false, "do not read commands from stdin")
	writeConfig := flag.String("write-config", "", "write the effective config to this path and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Scene.Seed = *seed
	}
	if *assets != "" {
		cfg.Scene.AssetDir = *assets
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *noConsole {
		cfg.Panel.Console = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *writeConfig != "" {
		return cfg.Save(*writeConfig)
	}

	level, _ := cfg.Log.SlogLevel()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	win := hostWindow(cfg)
	window, err := host.NewWindow(win)
	if err != nil {
		return err
	}
	defer window.Destroy()

	engine, err := renderer.NewEngine(log.With("component", "renderer"))
	if err != nil {
		return err
	}
	defer engine.Destroy()

	opts := []viewport.Option{viewport.WithLogger(log.With("component", "viewport"))}
	if cfg.Window.PixelRatio > 0 {
		opts = append(opts, viewport.WithPixelRatio(cfg.Window.PixelRatio))
	}
	v, err := viewport.Initialize(window, win.Name, engine, opts...)
	if err != nil {
		return err
	}

	p := panel.New(v,
		panel.WithLogger(log.With("component", "panel")),
		panel.WithHistoryDepth(cfg.Panel.HistoryDepth),
	)
	show, err := content.BuildShowcase(v, p, cfg.Content(log.With("component", "content")))
	if err != nil {
		return err
	}
	log.Info("showcase built", "nodes", len(show.Nodes()), "lights", len(v.Scene.Lights), "controls", len(p.Paths()))

	if preset := cfg.Panel.Preset; preset != "" {
		if err := p.LoadPreset(preset); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn("preset", "path", preset, "err", err)
		}
		if cfg.Panel.Watch {
			if err := p.WatchPreset(ctx, preset, window.Post); err != nil {
				log.Warn("preset watch disabled", "err", err)
			}
		}
	}

	orbit := controls.NewOrbit(v.Camera(), v)
	orbit.RotateSpeed = cfg.Camera.RotateSpeed
	orbit.ZoomSpeed = cfg.Camera.ZoomSpeed
	orbit.PanSpeed = cfg.Camera.PanSpeed
	orbit.MinDistance = cfg.Camera.MinDistance
	if cfg.Camera.MaxDistance > 0 {
		orbit.MaxDistance = cfg.Camera.MaxDistance
	}
	orbit.SetSize(window.Size())
	window.OnResize(orbit.SetSize)
	window.SetPointerHandler(orbit)
	orbit.Attach(window)

	newHUD(window, cfg.Window.Title, engine, v).attach()

	if cfg.Panel.Console {
		con := console.New(p, os.Stdout, console.WithLogger(log.With("component", "console")))
		go func() {
			if err := con.Run(ctx, os.Stdin, window.Post); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("console stopped", "err", err)
			}
		}()
	}

	window.Run(ctx)
	st := v.Stats()
	log.Info("shutting down", "frames", st.Frames, "failures", st.Failures)
	return nil
}

// hostWindow converts the window section for host.NewWindow.
func hostWindow(cfg config.Config) host.WindowConfig {
	wc := host.DefaultWindowConfig()
	wc.Width = cfg.Window.Width
	wc.Height = cfg.Window.Height
	wc.Title = cfg.Window.Title
	wc.VSync = cfg.Window.VSync
	return wc
}
