// Package renderer draws a scene.Scene through the OpenGL backend. Engine
// satisfies viewport.Backend.
package renderer

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/chewxy/math32"

	"material-scene/internal/opengl"
	"material-scene/math"
	"material-scene/scene"
	"material-scene/viewport"
)

// DefaultCaptureSize is used by refraction materials without a CaptureSize.
const DefaultCaptureSize = 1024

// FrameStats describes the last rendered frame.
type FrameStats struct {
	Objects   int
	Triangles int
	Captures  int
	Culled    int
	Shadows   bool
}

// Engine renders scenes with a shadow pass, one capture pass per refraction
// target size, and the main pass.
type Engine struct {
	gl *opengl.Renderer

	// ShadowExtent is the half size of the directional shadow volume.
	ShadowExtent float32

	width      int
	height     int
	pixelRatio float32
	shadows    bool
	shadowType viewport.ShadowMapType
	stats      FrameStats
	log        *slog.Logger
}

// NewEngine initialises OpenGL on the current context.
func NewEngine(log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	glr, err := opengl.NewRenderer(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}
	return &Engine{
		gl:           glr,
		ShadowExtent: 8,
		pixelRatio:   1,
		shadowType:   viewport.ShadowMapPCF,
		log:          log,
	}, nil
}

// Resize sets the drawable size. Sizes are framebuffer pixels, so the pixel
// ratio is only recorded.
func (e *Engine) Resize(width, height int, pixelRatio float32) {
	if width <= 0 || height <= 0 {
		return
	}
	e.width, e.height, e.pixelRatio = width, height, pixelRatio
	e.gl.SetViewport(width, height)
	e.log.Debug("renderer resized", "width", width, "height", height, "pixelRatio", pixelRatio)
}

func (e *Engine) SetShadowMap(enabled bool, kind viewport.ShadowMapType) {
	e.shadows = enabled
	e.shadowType = kind
}

func (e *Engine) Stats() FrameStats {
	return e.stats
}

// Render draws s through cam into the default framebuffer.
func (e *Engine) Render(s *scene.Scene, cam *scene.Camera) error {
	nodes := s.VisibleNodes()
	lights := s.VisibleLights()
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	stats := FrameStats{}

	frame := opengl.Frame{
		Clear:       s.BackgroundColor,
		Ambient:     s.Ambient,
		CameraPos:   cam.Position,
		Lights:      lights,
		Environment: s.Environment,
	}

	if e.shadows {
		if idx, light := shadowCaster(lights); light != nil {
			if err := e.gl.EnsureShadowMap(light.Shadow.MapSize, e.shadowType != viewport.ShadowMapBasic); err != nil {
				return fmt.Errorf("shadow map: %w", err)
			}
			lightVP := lightViewProj(light, e.ShadowExtent)
			e.gl.BeginShadowPass()
			for _, n := range nodes {
				if n.CastShadow {
					e.gl.DrawMeshShadow(n.Mesh, n.GetWorldMatrix().Mul(lightVP))
				}
			}
			e.gl.EndShadowPass()
			frame.Shadow = &opengl.Shadow{
				LightVP: lightVP,
				Light:   idx,
				Filter:  filterFor(e.shadowType),
				Bias:    light.Shadow.Bias,
				Radius:  light.Shadow.Radius,
				Samples: light.Shadow.BlurSamples,
			}
			stats.Shadows = true
		}
	}
	e.gl.SetFrame(frame)

	frustum := scene.FrustumFromViewProj(view.Mul(proj))
	list := partition(nodes, cam.Position, &frustum)
	stats.Culled = list.culled
	// Every capture sees the same scene, so one pass per target size is shared
	// by all refracting meshes of that size.
	captures := make(map[*scene.Node]*opengl.CaptureTarget, len(list.refractive))
	for _, size := range captureSizes(list.refractive) {
		c, err := e.gl.Capture(size)
		if err != nil {
			return fmt.Errorf("refraction capture: %w", err)
		}
		e.gl.BeginTarget(c, s.BackgroundColor)
		e.drawPass(s, view, proj, list, nil, nil)
		for _, n := range list.refractive {
			if captureSize(n) == size {
				captures[n] = c
			}
		}
		stats.Captures++
	}

	e.gl.BeginTarget(nil, s.BackgroundColor)
	e.drawPass(s, view, proj, list, captures, &stats)
	e.stats = stats
	return e.gl.Err()
}

// drawPass draws the background, opaque meshes, refracting meshes (only
// when captures is non-nil) and transparent meshes back to front.
func (e *Engine) drawPass(s *scene.Scene, view, proj math.Mat4, list drawList, captures map[*scene.Node]*opengl.CaptureTarget, stats *FrameStats) {
	if s.Background != nil {
		e.gl.DrawBackground(s.Background, view, proj)
	}
	draw := func(n *scene.Node, c *opengl.CaptureTarget) {
		model := n.GetWorldMatrix()
		e.gl.DrawMesh(n.Mesh, opengl.Draw{
			MVP:           model.Mul(view).Mul(proj),
			Model:         model,
			ReceiveShadow: n.ReceiveShadow,
			Capture:       c,
		})
		if stats != nil {
			stats.Objects++
			stats.Triangles += len(n.Mesh.Indices) / 3
		}
	}
	for _, n := range list.opaque {
		draw(n, nil)
	}
	if captures != nil {
		for _, n := range list.refractive {
			draw(n, captures[n])
		}
	}
	for _, n := range list.transparent {
		draw(n, nil)
	}
}

func (e *Engine) Destroy() {
	e.gl.Destroy()
}

type drawList struct {
	opaque      []*scene.Node
	refractive  []*scene.Node
	transparent []*scene.Node
	culled      int
}

// partition splits mesh nodes by how they are drawn, dropping those outside
// f when f is non-nil. Transparent nodes are sorted farthest first from eye.
func partition(nodes []*scene.Node, eye math.Vec3, f *scene.Frustum) drawList {
	var list drawList
	for _, n := range nodes {
		if f != nil && !f.Intersects(n.WorldBounds()) {
			list.culled++
			continue
		}
		mat := n.Mesh.MaterialOrDefault()
		switch {
		case mat.Shading == scene.ShadingRefraction:
			list.refractive = append(list.refractive, n)
		case mat.IsTransparent():
			list.transparent = append(list.transparent, n)
		default:
			list.opaque = append(list.opaque, n)
		}
	}
	sort.SliceStable(list.transparent, func(i, j int) bool {
		return list.transparent[i].WorldPosition().Distance(eye) > list.transparent[j].WorldPosition().Distance(eye)
	})
	return list
}

func captureSize(n *scene.Node) int {
	if size := n.Mesh.Material.CaptureSize; size > 0 {
		return size
	}
	return DefaultCaptureSize
}

// captureSizes lists the distinct capture sizes of nodes in first-seen order.
func captureSizes(nodes []*scene.Node) []int {
	var sizes []int
	for _, n := range nodes {
		if size := captureSize(n); !slices.Contains(sizes, size) {
			sizes = append(sizes, size)
		}
	}
	return sizes
}

// shadowCaster returns the first shadow-casting directional light and its
// index among the directional lights the shader receives.
func shadowCaster(lights []*scene.Light) (int, *scene.Light) {
	idx := 0
	for _, l := range lights {
		if l.Kind != scene.DirectionalLight {
			continue
		}
		if idx >= 4 {
			break
		}
		if l.CastShadow && l.Shadow != nil && l.Shadow.MapSize > 0 {
			return idx, l
		}
		idx++
	}
	return -1, nil
}

// lightViewProj frames a cube of half size extent around the light target,
// looking along the light direction.
func lightViewProj(l *scene.Light, extent float32) math.Mat4 {
	if extent <= 0 {
		extent = 8
	}
	dir := l.Direction()
	up := math.Vec3Up
	if math32.Abs(dir.Dot(up)) > 0.999 {
		up = math.Vec3{Z: 1}
	}
	eye := l.Target.Sub(dir.Mul(extent * 2))
	view := math.Mat4LookAt(eye, l.Target, up)
	proj := math.Mat4Orthographic(-extent, extent, -extent, extent, 0.1, extent*4)
	return view.Mul(proj)
}

func filterFor(kind viewport.ShadowMapType) opengl.ShadowFilter {
	switch kind {
	case viewport.ShadowMapBasic:
		return opengl.ShadowFilterBasic
	case viewport.ShadowMapPCFSoft:
		return opengl.ShadowFilterSoft
	}
	return opengl.ShadowFilterPCF
}
