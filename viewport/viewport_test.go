package viewport

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"material-scene/core"
	"material-scene/scene"
)

type fakeSurface struct {
	w, h     int
	ratio    float32
	onResize []func(w, h int)
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }
func (s *fakeSurface) PixelRatio() float32 { return s.ratio }
func (s *fakeSurface) OnResize(fn func(w, h int)) { s.onResize = append(s.onResize, fn) }

func (s *fakeSurface) resize(w, h int) {
	s.w, s.h = w, h
	for _, fn := range s.onResize {
		fn(w, h)
	}
}

type fakeHost map[string]*fakeSurface

func (h fakeHost) Container(name string) (core.Surface, bool) {
	s, ok := h[name]
	if !ok {
		return nil, false
	}
	return s, true
}

type resizeCall struct {
	w, h  int
	ratio float32
}

type fakeBackend struct {
	renders   int
	resizes   []resizeCall
	shadows   bool
	shadowMap ShadowMapType
	lastNodes int
	err       error
}

func (b *fakeBackend) Resize(w, h int, ratio float32) {
	b.resizes = append(b.resizes, resizeCall{w, h, ratio})
}

func (b *fakeBackend) SetShadowMap(enabled bool, kind ShadowMapType) {
	b.shadows, b.shadowMap = enabled, kind
}

func (b *fakeBackend) Render(s *scene.Scene, _ *scene.Camera) error {
	b.renders++
	b.lastNodes = len(s.VisibleNodes())
	return b.err
}

func newTestViewport(t *testing.T, opts ...Option) (*Viewport, *fakeSurface, *fakeBackend) {
	t.Helper()
	surface := &fakeSurface{w: 800, h: 600, ratio: 2}
	backend := &fakeBackend{}
	v, err := Initialize(fakeHost{"material-scene": surface}, "material-scene", backend, opts...)
	require.NoError(t, err)
	return v, surface, backend
}

func TestInitializeMissingContainer(t *testing.T) {
	backend := &fakeBackend{}
	v, err := Initialize(fakeHost{}, "missing", backend)
	assert.Nil(t, v)
	assert.True(t, errors.Is(err, ErrContainerNotFound))
	assert.Empty(t, backend.resizes)
}

func TestInitializeSizesBackend(t *testing.T) {
	v, _, backend := newTestViewport(t)

	require.Len(t, backend.resizes, 1)
	assert.Equal(t, resizeCall{800, 600, 2}, backend.resizes[0])
	assert.Equal(t, 0, backend.renders, "initialize does not draw")

	cam := v.Camera()
	assert.Equal(t, scene.Perspective, cam.Projection)
	assert.Equal(t, float32(90), cam.FOV)
	assert.InDelta(t, 800.0/600.0, cam.Aspect, 1e-6)
}

func TestRenderEmptyScene(t *testing.T) {
	v, _, backend := newTestViewport(t)
	v.Render()
	v.Render()
	assert.Equal(t, 2, backend.renders)
	assert.Equal(t, 0, backend.lastNodes)
	assert.Equal(t, Stats{Frames: 2}, v.Stats())
}

func TestRenderFailureIsLoggedNotPropagated(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	v, _, backend := newTestViewport(t, WithLogger(log))
	backend.err = errors.New("context lost")

	v.Render()
	assert.Equal(t, Stats{Frames: 1, Failures: 1}, v.Stats())
	assert.Contains(t, buf.String(), "context lost")
}

func TestResizeUpdatesAspectAndRendersOnce(t *testing.T) {
	v, surface, backend := newTestViewport(t)

	surface.resize(1024, 512)

	assert.InDelta(t, 2.0, v.Camera().Aspect, 1e-6)
	assert.Equal(t, 1, backend.renders)
	assert.Equal(t, resizeCall{1024, 512, 2}, backend.resizes[len(backend.resizes)-1])
	w, h := v.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 512, h)
}

func TestResizeZeroHeightIgnored(t *testing.T) {
	v, surface, backend := newTestViewport(t)
	surface.resize(1024, 0)

	assert.Equal(t, 0, backend.renders)
	assert.Len(t, backend.resizes, 1)
	assert.InDelta(t, 800.0/600.0, v.Camera().Aspect, 1e-6)
}

func TestResizeOrthographicKeepsFrustum(t *testing.T) {
	ortho := scene.NewOrthographicCamera(-1, 1, 1, -1, 0.1, 10)
	v, surface, backend := newTestViewport(t, WithCamera(ortho))

	surface.resize(300, 100)
	assert.Same(t, ortho, v.Camera())
	assert.Equal(t, float32(-1), ortho.Left)
	assert.Equal(t, 1, backend.renders)
}

func TestFixedPixelRatio(t *testing.T) {
	v, surface, backend := newTestViewport(t, WithPixelRatio(1.5))
	surface.resize(400, 400)
	assert.Equal(t, float32(1.5), v.PixelRatio())
	assert.Equal(t, float32(1.5), backend.resizes[1].ratio)
}

func TestSetCamera(t *testing.T) {
	v, _, _ := newTestViewport(t)
	cam := scene.NewPerspectiveCamera(45, 1, 0.1, 100)
	v.SetCamera(cam)
	assert.Same(t, cam, v.Camera())
	assert.InDelta(t, 800.0/600.0, cam.Aspect, 1e-6)

	v.SetCamera(nil)
	assert.Same(t, cam, v.Camera())
}

func TestEnableShadows(t *testing.T) {
	v, _, backend := newTestViewport(t)
	light := scene.NewDirectionalLight(core.ColorWhite, 1)
	node := scene.NewMeshNode(scene.CreateBox(1, 1, 1))

	err := EnableShadows(ShadowsFor(v), ShadowsForLight(light), ShadowsForNode(node))
	require.NoError(t, err)

	enabled, kind := v.ShadowMap()
	assert.True(t, enabled)
	assert.Equal(t, ShadowMapPCFSoft, kind)
	assert.True(t, backend.shadows)
	assert.Equal(t, ShadowMapPCFSoft, backend.shadowMap)

	assert.True(t, light.CastShadow)
	assert.Equal(t, float32(ShadowBias), light.Shadow.Bias)
	assert.True(t, node.CastShadow)
	assert.True(t, node.ReceiveShadow)
}

func TestEnableShadowsInvalidTarget(t *testing.T) {
	node := scene.NewNode("n")
	err := EnableShadows(ShadowsForNode(node), ShadowTarget{}, ShadowsForLight(nil))
	assert.True(t, errors.Is(err, ErrInvalidShadowTarget))
	assert.True(t, node.CastShadow, "targets before the invalid one are applied")
}
