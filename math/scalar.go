package math

import (
	"math"

	"github.com/chewxy/math32"
)

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp64 is the float64 variant of Clamp.
func Clamp64(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func sincos(angle float32) (float32, float32) {
	return math32.Sincos(angle)
}
