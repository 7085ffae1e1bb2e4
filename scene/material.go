package scene

import "material-scene/core"

// ShadingModel selects which lighting equation the renderer applies.
type ShadingModel int

const (
	ShadingStandard ShadingModel = iota
	ShadingBasic                 // unlit
	ShadingToon                  // quantized diffuse via GradientMap
	ShadingPhong
	ShadingPhysical // Standard plus transmission
	ShadingRefraction
)

func (s ShadingModel) String() string {
	switch s {
	case ShadingBasic:
		return "basic"
	case ShadingToon:
		return "toon"
	case ShadingPhong:
		return "phong"
	case ShadingPhysical:
		return "physical"
	case ShadingRefraction:
		return "refraction"
	}
	return "standard"
}

type Side int

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

// Material describes how a mesh surface is shaded. Which fields matter
// depends on Shading; the rest are ignored by the renderer.
type Material struct {
	Name        string
	Shading     ShadingModel
	Color       core.Color
	Opacity     float32
	Transparent bool
	Side        Side

	// Map multiplies Color when set.
	Map *Texture

	// Standard / Physical
	Roughness    float32
	Metalness    float32
	Transmission float32
	Thickness    float32
	IOR          float32

	// Phong
	Specular        core.Color
	Shininess       float32
	Reflectivity    float32
	RefractionRatio float32

	// Toon
	GradientMap *Texture

	// EnvMap overrides Scene.Environment for reflection and refraction.
	EnvMap *CubeTexture

	// Refraction captures the scene behind the mesh into a CaptureSize
	// square target and offsets the lookup by a du/dv pattern.
	CaptureSize  int
	DistortScale float32
}

func newMaterial(name string, shading ShadingModel, color core.Color) *Material {
	return &Material{
		Name:      name,
		Shading:   shading,
		Color:     color,
		Opacity:   1,
		Roughness: 1,
		IOR:       1.5,
		Specular:  core.Color{R: 0.07, G: 0.07, B: 0.07, A: 1},
		Shininess: 30,
	}
}

func DefaultMaterial() *Material {
	return newMaterial("Default", ShadingStandard, core.ColorWhite)
}

func NewBasicMaterial(color core.Color) *Material {
	return newMaterial("Basic", ShadingBasic, color)
}

func NewStandardMaterial(color core.Color) *Material {
	return newMaterial("Standard", ShadingStandard, color)
}

func NewToonMaterial(color core.Color, gradient *Texture) *Material {
	m := newMaterial("Toon", ShadingToon, color)
	m.GradientMap = gradient
	return m
}

func NewPhongMaterial(color core.Color) *Material {
	m := newMaterial("Phong", ShadingPhong, color)
	m.Reflectivity = 1
	m.RefractionRatio = 0.98
	return m
}

func NewPhysicalMaterial(color core.Color) *Material {
	m := newMaterial("Physical", ShadingPhysical, color)
	m.Roughness = 1
	m.Thickness = 0
	return m
}

func NewRefractionMaterial(color core.Color, captureSize int) *Material {
	m := newMaterial("Refraction", ShadingRefraction, color)
	m.CaptureSize = captureSize
	m.DistortScale = 0.2
	return m
}

// IsTransparent reports whether the renderer should blend the surface.
func (m *Material) IsTransparent() bool {
	return m.Transparent || m.Opacity < 1 || m.Transmission > 0
}
