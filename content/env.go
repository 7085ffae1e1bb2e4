// Package content builds the material showcase: lights, the material
// sample meshes, the environment map and their panel folders.
package content

import (
	"path/filepath"

	"material-scene/core"
	"material-scene/scene"
)

// LoadEnv loads the six px/nx/py/ny/pz/nz.jpg faces from dir as a
// refraction-mapped cube. When any face is missing it returns a generated
// gradient cube together with the load error, so the caller always has a
// usable environment.
func LoadEnv(dir string) (*scene.CubeTexture, error) {
	var paths [6]string
	for i, name := range scene.CubeFaceNames {
		paths[i] = filepath.Join(dir, name+".jpg")
	}
	cube, err := scene.LoadCubeTexture("environment", paths)
	if err != nil {
		cube = scene.NewGradientCube("environment", 64, core.Hex(0x8fb8de), core.Hex(0x2b2520))
	}
	cube.Mapping = scene.RefractionMapping
	return cube, err
}

// Tone is one selectable toon gradient ramp.
type Tone struct {
	Name    string
	Texture *scene.Texture
}

var toneSteps = []struct {
	name  string
	steps int
}{
	{"threeTone", 3},
	{"fourTone", 4},
	{"fiveTone", 5},
}

// LoadTones loads threeTone/fourTone/fiveTone.jpg from dir with nearest
// filtering, generating a ramp for any file that cannot be read.
func LoadTones(dir string) ([]Tone, []error) {
	var errs []error
	tones := make([]Tone, 0, len(toneSteps))
	for _, ts := range toneSteps {
		tex, err := scene.LoadTexture(filepath.Join(dir, ts.name+".jpg"))
		if err != nil {
			errs = append(errs, err)
			tex = scene.NewToneTexture(ts.name, ts.steps)
		}
		tex.Name = ts.name
		tex.Filter = scene.FilterNearest
		tones = append(tones, Tone{Name: ts.name, Texture: tex})
	}
	return tones, errs
}
