// Package viewport owns the scene graph, the active camera and the render
// backend for one output surface.
package viewport

import (
	"errors"
	"fmt"
	"log/slog"

	"material-scene/core"
	"material-scene/scene"
)

// ErrContainerNotFound is returned by Initialize when the host has no
// surface with the requested name.
var ErrContainerNotFound = errors.New("viewport: container not found")

// Host locates output surfaces by name.
type Host interface {
	Container(name string) (core.Surface, bool)
}

// Backend draws a scene. Implementations must tolerate an empty scene.
type Backend interface {
	Resize(width, height int, pixelRatio float32)
	SetShadowMap(enabled bool, kind ShadowMapType)
	Render(s *scene.Scene, cam *scene.Camera) error
}

// Stats counts render calls since Initialize.
type Stats struct {
	Frames   int
	Failures int
}

type Viewport struct {
	Scene *scene.Scene

	name       string
	surface    core.Surface
	backend    Backend
	camera     *scene.Camera
	width      int
	height     int
	pixelRatio float32
	fixedRatio bool
	shadows    bool
	shadowType ShadowMapType
	stats      Stats
	log        *slog.Logger
}

type Option func(*Viewport)

// WithPixelRatio pins the device pixel ratio instead of asking the surface.
func WithPixelRatio(ratio float32) Option {
	return func(v *Viewport) {
		if ratio > 0 {
			v.pixelRatio = ratio
			v.fixedRatio = true
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(v *Viewport) {
		if log != nil {
			v.log = log
		}
	}
}

// WithCamera replaces the default 90° perspective camera.
func WithCamera(cam *scene.Camera) Option {
	return func(v *Viewport) {
		if cam != nil {
			v.camera = cam
		}
	}
}

// Initialize binds a viewport to the host surface called name, sizes the
// backend to it and subscribes to its resizes. Nothing is drawn until the
// first Render.
func Initialize(host Host, name string, backend Backend, opts ...Option) (*Viewport, error) {
	surface, ok := host.Container(name)
	if !ok {
		return nil, fmt.Errorf("initialize %q: %w", name, ErrContainerNotFound)
	}

	v := &Viewport{
		Scene:      scene.NewScene(),
		name:       name,
		surface:    surface,
		backend:    backend,
		pixelRatio: 1,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.With("viewport", name)

	v.width, v.height = surface.Size()
	if !v.fixedRatio {
		v.pixelRatio = surface.PixelRatio()
	}
	if v.camera == nil {
		v.camera = scene.NewPerspectiveCamera(90, aspect(v.width, v.height), 0.1, 1000)
	} else {
		v.refreshCamera()
	}
	backend.Resize(v.width, v.height, v.pixelRatio)
	surface.OnResize(v.resize)

	v.log.Debug("initialized", "width", v.width, "height", v.height, "pixelRatio", v.pixelRatio)
	return v, nil
}

// Render draws the scene through the active camera. Backend failures are
// logged and counted; the caller's loop keeps running.
func (v *Viewport) Render() {
	v.stats.Frames++
	if err := v.backend.Render(v.Scene, v.camera); err != nil {
		v.stats.Failures++
		v.log.Error("render failed", "frame", v.stats.Frames, "err", err)
	}
}

func (v *Viewport) resize(width, height int) {
	if width <= 0 || height <= 0 {
		v.log.Debug("ignoring degenerate resize", "width", width, "height", height)
		return
	}
	v.width, v.height = width, height
	if !v.fixedRatio {
		v.pixelRatio = v.surface.PixelRatio()
	}
	v.refreshCamera()
	v.backend.Resize(width, height, v.pixelRatio)
	v.Render()
}

func (v *Viewport) refreshCamera() {
	v.camera.SetAspect(v.width, v.height)
	v.camera.UpdateProjection()
}

// Camera returns the active camera.
func (v *Viewport) Camera() *scene.Camera {
	return v.camera
}

// SetCamera makes cam the active camera and fits it to the current size.
func (v *Viewport) SetCamera(cam *scene.Camera) {
	if cam == nil {
		return
	}
	v.camera = cam
	v.refreshCamera()
}

func (v *Viewport) Size() (width, height int) {
	return v.width, v.height
}

func (v *Viewport) PixelRatio() float32 {
	return v.pixelRatio
}

func (v *Viewport) Name() string {
	return v.name
}

func (v *Viewport) Stats() Stats {
	return v.stats
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
