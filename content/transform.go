package content

import (
	"math/rand"

	"material-scene/math"
	"material-scene/scene"
	"material-scene/seeded"
)

// RandomOptions bounds RandomTransform. Rotations are in degrees.
type RandomOptions struct {
	MinTranslate, MaxTranslate float64
	MinRotate, MaxRotate       float64
	Random                     seeded.Sequence
}

// DefaultRandomOptions scatters within half a unit and any orientation,
// drawing from the unseeded global source.
func DefaultRandomOptions() RandomOptions {
	return RandomOptions{
		MinTranslate: -0.5,
		MaxTranslate: 0.5,
		MinRotate:    -180,
		MaxRotate:    180,
		Random:       rand.Float64,
	}
}

// RandomTransform gives each node a position and XYZ Euler rotation drawn
// from opts. Per node it draws x, y, z translation then x, y, z rotation,
// so a seeded sequence yields the same layout every run.
func RandomTransform(opts RandomOptions, nodes ...*scene.Node) {
	next := opts.Random
	if next == nil {
		next = rand.Float64
	}
	between := func(min, max float64) float32 {
		return float32(seeded.Between(min, max, next))
	}
	for _, n := range nodes {
		pos := math.Vec3{
			X: between(opts.MinTranslate, opts.MaxTranslate),
			Y: between(opts.MinTranslate, opts.MaxTranslate),
			Z: between(opts.MinTranslate, opts.MaxTranslate),
		}
		rot := math.Vec3{
			X: math.DegToRad(between(opts.MinRotate, opts.MaxRotate)),
			Y: math.DegToRad(between(opts.MinRotate, opts.MaxRotate)),
			Z: math.DegToRad(between(opts.MinRotate, opts.MaxRotate)),
		}
		n.SetPosition(pos)
		n.SetRotationEuler(rot)
	}
}
