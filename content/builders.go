package content

import (
	"fmt"

	"material-scene/core"
	"material-scene/panel"
	"material-scene/scene"
)

// NewBox is a unit box with unlit red shading; its folder edits color and
// opacity.
func NewBox(p *panel.Panel) (*scene.Node, error) {
	m := scene.NewBasicMaterial(core.Hex(0xff0000))
	node := meshNode("box", scene.CreateBox(1, 1, 1), m)
	if p == nil {
		return node, nil
	}
	b := binder{f: p.AddFolder("Box Material")}
	b.color(m, "color")
	b.rng(m, "opacity", 0, 1)
	return node, wrap("box", b.err)
}

// NewKnot is a toon-shaded torus knot whose gradient map is selectable from
// tones. The first tone is active initially.
func NewKnot(p *panel.Panel, tones []Tone) (*scene.Node, error) {
	if len(tones) == 0 {
		return nil, fmt.Errorf("knot: no gradient tones")
	}
	m := scene.NewToonMaterial(core.Hex(0x9900ff), tones[0].Texture)
	node := meshNode("knot", scene.CreateTorusKnot(1, 0.4, 64, 8, 2, 3), m)
	if p == nil {
		return node, nil
	}
	choices := make([]panel.Choice, len(tones))
	for i, t := range tones {
		choices[i] = panel.Choice{Label: t.Name, Value: t.Texture}
	}
	b := binder{f: p.AddFolder("Knot Material")}
	b.color(m, "color")
	b.rng(m, "opacity", 0, 1)
	b.enum(m, "gradientMap", choices)
	return node, wrap("knot", b.err)
}

// NewPlane is a size x size double-sided standard-shaded backdrop.
func NewPlane(size float32) *scene.Node {
	m := scene.NewStandardMaterial(core.Hex(0xbbbbbb))
	m.Side = scene.DoubleSide
	return meshNode("plane", scene.CreatePlane(size, size), m)
}

// NewRefractionSphere is a unit sphere that shows the scene behind it,
// distorted and overlay-blended with a light grey tint.
func NewRefractionSphere() *scene.Node {
	m := scene.NewRefractionMaterial(core.Hex(0xeeeeee), 1024)
	return meshNode("refractionSphere", scene.CreateSphere(1, 32, 16), m)
}

// NewPhysicalSphere is a fully transmissive, perfectly smooth sphere.
func NewPhysicalSphere(p *panel.Panel, env *scene.CubeTexture) (*scene.Node, error) {
	m := scene.NewPhysicalMaterial(core.Hex(0xffffff))
	m.Transmission = 1
	m.Roughness = 0
	m.Thickness = 0.5
	m.EnvMap = env
	node := meshNode("physicalSphere", scene.CreateSphere(1, 32, 16), m)
	if p == nil {
		return node, nil
	}
	b := binder{f: p.AddFolder("Physical Sphere")}
	b.color(m, "color")
	b.rng(m, "transmission", 0, 1)
	b.rng(m, "roughness", 0, 1)
	b.rng(m, "thickness", 0, 1)
	b.rng(m, "ior", 1, 2)
	return node, wrap("physical sphere", b.err)
}

// NewPhongSphere is a transparent phong sphere that reflects and refracts
// env.
func NewPhongSphere(p *panel.Panel, env *scene.CubeTexture) (*scene.Node, error) {
	m := scene.NewPhongMaterial(core.Hex(0xccddff))
	m.RefractionRatio = 0.98
	m.Reflectivity = 0.9
	m.Transparent = true
	m.EnvMap = env
	node := meshNode("phongSphere", scene.CreateSphere(1, 32, 16), m)
	if p == nil {
		return node, nil
	}
	b := binder{f: p.AddFolder("Phong Sphere")}
	b.color(m, "color")
	b.rng(m, "refractionRatio", 0, 1)
	b.rng(m, "reflectivity", 0, 1)
	b.bool(m, "transparent")
	return node, wrap("phong sphere", b.err)
}

func meshNode(name string, mesh *scene.Mesh, m *scene.Material) *scene.Node {
	mesh.Name = name
	mesh.Material = m
	return scene.NewMeshNode(mesh)
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
