package content

import (
	"fmt"
	"log/slog"

	"material-scene/math"
	"material-scene/panel"
	"material-scene/scene"
	"material-scene/seeded"
	"material-scene/viewport"
)

// Config selects assets and layout for BuildShowcase.
type Config struct {
	// AssetDir holds the cube faces and tone ramps. Missing files fall back
	// to generated textures.
	AssetDir  string
	Seed      int64
	PlaneSize float32
	// Scatter bounds the random translation of the scattered meshes.
	Scatter float64
	Camera  math.Vec3
	// ExtraModel is an optional .gltf, .glb or .obj added next to the samples.
	ExtraModel         string
	ExtraModelPosition math.Vec3
	ExtraModelScale    float32

	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		AssetDir:        "assets",
		Seed:            3,
		PlaneSize:       20,
		Scatter:         4,
		Camera:          math.Vec3{Z: 5},
		ExtraModelScale: 1,
	}
}

// Showcase holds everything BuildShowcase put in the scene.
type Showcase struct {
	Lights      Lights
	Environment *scene.CubeTexture
	Tones       []Tone

	Plane            *scene.Node
	Box              *scene.Node
	Knot             *scene.Node
	RefractionSphere *scene.Node
	PhysicalSphere   *scene.Node
	PhongSphere      *scene.Node
	Extra            *scene.Node
}

// Nodes lists the showcase meshes in the order they were added.
func (s *Showcase) Nodes() []*scene.Node {
	nodes := []*scene.Node{s.Plane, s.Box, s.Knot, s.RefractionSphere, s.PhysicalSphere, s.PhongSphere}
	if s.Extra != nil {
		nodes = append(nodes, s.Extra)
	}
	return nodes
}

// BuildShowcase fills v's scene with the material samples, binds their
// parameters on p, and renders once.
func BuildShowcase(v *viewport.Viewport, p *panel.Panel, cfg Config) (*Showcase, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.PlaneSize <= 0 {
		cfg.PlaneSize = 20
	}

	s := &Showcase{}
	env, err := LoadEnv(cfg.AssetDir)
	if err != nil {
		log.Warn("environment faces unavailable, using generated cube", "dir", cfg.AssetDir, "err", err)
	}
	s.Environment = env
	v.Scene.Background = env
	v.Scene.Environment = env

	tones, errs := LoadTones(cfg.AssetDir)
	for _, err := range errs {
		log.Warn("tone ramp unavailable, using generated ramp", "err", err)
	}
	s.Tones = tones

	if s.Lights, err = AddBasicLights(v, p); err != nil {
		return nil, err
	}
	v.Camera().SetPosition(cfg.Camera)

	s.Plane = NewPlane(cfg.PlaneSize)
	if s.Box, err = NewBox(p); err != nil {
		return nil, err
	}
	if s.Knot, err = NewKnot(p, tones); err != nil {
		return nil, err
	}
	s.RefractionSphere = NewRefractionSphere()
	if s.PhysicalSphere, err = NewPhysicalSphere(p, env); err != nil {
		return nil, err
	}
	if s.PhongSphere, err = NewPhongSphere(p, env); err != nil {
		return nil, err
	}

	s.Plane.SetPosition(math.Vec3{Z: -4})
	RandomTransform(RandomOptions{
		MinTranslate: -cfg.Scatter,
		MaxTranslate: cfg.Scatter,
		MinRotate:    -180,
		MaxRotate:    180,
		Random:       seeded.New(cfg.Seed),
	}, s.Box, s.Knot, s.RefractionSphere, s.PhysicalSphere)

	err = viewport.EnableShadows(
		viewport.ShadowsFor(v),
		viewport.ShadowsForNode(s.Box),
		viewport.ShadowsForNode(s.RefractionSphere),
		viewport.ShadowsForNode(s.PhysicalSphere),
		viewport.ShadowsForNode(s.PhongSphere),
		viewport.ShadowsForLight(s.Lights.Main),
	)
	if err != nil {
		return nil, err
	}
	s.Knot.CastShadow = true
	s.Plane.ReceiveShadow = true

	v.Scene.Add(s.Plane, s.Box, s.Knot, s.RefractionSphere, s.PhysicalSphere, s.PhongSphere)

	if cfg.ExtraModel != "" {
		res, err := scene.LoadModel(cfg.ExtraModel)
		if err != nil {
			return nil, fmt.Errorf("extra model: %w", err)
		}
		s.Extra = res.Root("extra")
		s.Extra.SetPosition(cfg.ExtraModelPosition)
		if cfg.ExtraModelScale > 0 {
			s.Extra.SetScale(math.Vec3{X: cfg.ExtraModelScale, Y: cfg.ExtraModelScale, Z: cfg.ExtraModelScale})
		}
		s.Extra.Traverse(func(n *scene.Node) {
			if n.Mesh != nil {
				n.CastShadow, n.ReceiveShadow = true, true
			}
		})
		v.Scene.Add(s.Extra)
		log.Info("extra model loaded", "path", cfg.ExtraModel, "textures", len(res.Textures))
	}

	log.Info("showcase built", "nodes", len(v.Scene.VisibleNodes()), "lights", len(v.Scene.Lights), "seed", cfg.Seed)
	v.Render()
	return s, nil
}
