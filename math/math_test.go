package math

import (
	"math"
	"testing"
)

const tolerance = 1e-4

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= tolerance
}

func nearVec(a, b Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	if got, want := v1.Add(v2), NewVec3(5, 7, 9); got != want {
		t.Errorf("Add: expected %v, got %v", want, got)
	}
	if got, want := v2.Sub(v1), NewVec3(3, 3, 3); got != want {
		t.Errorf("Sub: expected %v, got %v", want, got)
	}
	if got := v1.Dot(v2); got != 32 {
		t.Errorf("Dot: expected 32, got %v", got)
	}
	// Right x Up = Front in a right-handed system
	if got := Vec3Right.Cross(Vec3Up); got != Vec3Front {
		t.Errorf("Cross: expected %v, got %v", Vec3Front, got)
	}
	if got := Vec3Zero.Normalize(); got != Vec3Zero {
		t.Errorf("Normalize zero: expected zero vector, got %v", got)
	}
	if got := NewVec3(3, 0, 4).Length(); !near(got, 5) {
		t.Errorf("Length: expected 5, got %v", got)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ v, want float32 }{
		{-1, 0}, {0.5, 0.5}, {2, 1},
	}
	for _, c := range cases {
		if got := Clamp(c.v, 0, 1); got != c.want {
			t.Errorf("Clamp(%v): expected %v, got %v", c.v, c.want, got)
		}
	}
	if got := Clamp64(7, 1, 2); got != 2 {
		t.Errorf("Clamp64: expected 2, got %v", got)
	}
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	if got := m.MulPoint(Vec3Zero); got != translation {
		t.Errorf("Translation: expected %v, got %v", translation, got)
	}
	if got := m.WithoutTranslation().MulPoint(Vec3One); got != Vec3One {
		t.Errorf("WithoutTranslation: expected %v, got %v", Vec3One, got)
	}
}

func TestMat4MulOrder(t *testing.T) {
	// Scale first, then translate.
	m := Mat4Scale(NewVec3(2, 2, 2)).Mul(Mat4Translation(NewVec3(1, 0, 0)))
	if got, want := m.MulPoint(NewVec3(1, 1, 1)), NewVec3(3, 2, 2); !nearVec(got, want) {
		t.Errorf("Mul order: expected %v, got %v", want, got)
	}
}

func TestQuaternionRotation(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3Up, float32(math.Pi/2))
	if got, want := q.RotateVector(Vec3Right), NewVec3(0, 0, -1); !nearVec(got, want) {
		t.Errorf("RotateVector: expected %v, got %v", want, got)
	}
	if got, want := q.ToMat4().MulPoint(Vec3Right), NewVec3(0, 0, -1); !nearVec(got, want) {
		t.Errorf("ToMat4: expected %v, got %v", want, got)
	}
}

func TestQuaternionFromEulerSingleAxis(t *testing.T) {
	angle := DegToRad(90)
	fromEuler := QuaternionFromEuler(NewVec3(0, angle, 0))
	fromAxis := QuaternionFromAxisAngle(Vec3Up, angle)
	if !nearVec(fromEuler.RotateVector(Vec3Right), fromAxis.RotateVector(Vec3Right)) {
		t.Errorf("FromEuler: expected %v, got %v", fromAxis, fromEuler)
	}
}

func TestMat4Perspective(t *testing.T) {
	m := Mat4Perspective(float32(math.Pi/2), 2, 0.1, 100)
	// fov 90 => tan(45) = 1 so the Y scale is 1 and X scale is 1/aspect.
	if !near(m[1][1], 1) || !near(m[0][0], 0.5) {
		t.Errorf("Perspective: expected scales (0.5, 1), got (%v, %v)", m[0][0], m[1][1])
	}
}

func TestMat4LookAt(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)

	if got := m.MulPoint(eye); !nearVec(got, Vec3Zero) {
		t.Errorf("LookAt: expected eye at origin, got %v", got)
	}
	// The target sits straight ahead on -Z in view space.
	if got, want := m.MulPoint(Vec3Zero), NewVec3(0, 0, -5); !nearVec(got, want) {
		t.Errorf("LookAt: expected target at %v, got %v", want, got)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Perspective(1, 1.5, 0.1, 100)

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
