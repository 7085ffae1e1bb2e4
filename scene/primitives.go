package scene

import (
	stdmath "math"

	"material-scene/core"
	"material-scene/math"
)

// CreateBox generates an axis-aligned box centred on the origin with
// counter-clockwise winding seen from outside.
func CreateBox(width, height, depth float32) *Mesh {
	hw, hh, hd := width/2, height/2, depth/2

	type face struct {
		normal, u, v math.Vec3
		hn, hu, hv   float32
	}
	faces := []face{
		{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}, hw, hd, hh},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}, hw, hd, hh},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}, hh, hw, hd},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}, hh, hw, hd},
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}, hd, hw, hh},
		{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}, hd, hw, hh},
	}

	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range faces {
		base := uint32(len(vertices))
		center := f.normal.Mul(f.hn)
		for _, c := range corners {
			pos := center.Add(f.u.Mul(c[0] * f.hu)).Add(f.v.Mul(c[1] * f.hv))
			vertices = append(vertices, core.Vertex{
				Position: pos,
				Normal:   f.normal,
				UV:       math.Vec2{X: (c[0] + 1) / 2, Y: (c[1] + 1) / 2},
			})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return CreateMeshFromData("Box", vertices, indices)
}

// CreatePlane generates a width x height quad in the XY plane facing +Z.
func CreatePlane(width, height float32) *Mesh {
	hw, hh := width/2, height/2
	n := math.Vec3{Z: 1}
	vertices := []core.Vertex{
		{Position: math.Vec3{X: -hw, Y: -hh}, Normal: n, UV: math.Vec2{X: 0, Y: 0}},
		{Position: math.Vec3{X: hw, Y: -hh}, Normal: n, UV: math.Vec2{X: 1, Y: 0}},
		{Position: math.Vec3{X: hw, Y: hh}, Normal: n, UV: math.Vec2{X: 1, Y: 1}},
		{Position: math.Vec3{X: -hw, Y: hh}, Normal: n, UV: math.Vec2{X: 0, Y: 1}},
	}
	return CreateMeshFromData("Plane", vertices, []uint32{0, 1, 2, 2, 3, 0})
}

// CreateSphere generates a UV-sphere mesh.
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi := float32(stdmath.Sin(phi))
		cosPhi := float32(stdmath.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2.0 * stdmath.Pi / float64(segments)
			sinTheta := float32(stdmath.Sin(theta))
			cosTheta := float32(stdmath.Cos(theta))

			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(segments), Y: 1 - float32(ring)/float32(rings)},
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, current+1, next)
			indices = append(indices, current+1, next+1, next)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// CreateTorusKnot generates a (p,q) torus knot tube. The defaults used by the
// showcase are radius 1, tube 0.4, 64 tubular and 8 radial segments, p=2, q=3.
func CreateTorusKnot(radius, tube float32, tubularSegments, radialSegments, p, q int) *Mesh {
	if tubularSegments < 3 {
		tubularSegments = 3
	}
	if radialSegments < 3 {
		radialSegments = 3
	}

	var vertices []core.Vertex
	var indices []uint32

	curve := func(u float64) math.Vec3 {
		quOverP := float64(q) / float64(p) * u
		cs := stdmath.Cos(quOverP)
		r := float64(radius)
		return math.Vec3{
			X: float32(r * (2 + cs) * 0.5 * stdmath.Cos(u)),
			Y: float32(r * (2 + cs) * 0.5 * stdmath.Sin(u)),
			Z: float32(r * stdmath.Sin(quOverP) * 0.5),
		}
	}

	for j := 0; j <= tubularSegments; j++ {
		u := float64(j) / float64(tubularSegments) * float64(p) * 2 * stdmath.Pi
		p1 := curve(u)
		p2 := curve(u + 0.01)

		t := p2.Sub(p1)
		n := p2.Add(p1)
		b := t.Cross(n)
		n = b.Cross(t)
		b = b.Normalize()
		n = n.Normalize()

		for i := 0; i <= radialSegments; i++ {
			v := float64(i) / float64(radialSegments) * 2 * stdmath.Pi
			cx := -tube * float32(stdmath.Cos(v))
			cy := tube * float32(stdmath.Sin(v))

			pos := p1.Add(n.Mul(cx)).Add(b.Mul(cy))
			vertices = append(vertices, core.Vertex{
				Position: pos,
				Normal:   pos.Sub(p1).Normalize(),
				UV:       math.Vec2{X: float32(j) / float32(tubularSegments), Y: float32(i) / float32(radialSegments)},
			})
		}
	}

	stride := uint32(radialSegments + 1)
	for j := 1; j <= tubularSegments; j++ {
		for i := 1; i <= radialSegments; i++ {
			a := stride*uint32(j-1) + uint32(i-1)
			b := stride*uint32(j) + uint32(i-1)
			c := stride*uint32(j) + uint32(i)
			d := stride*uint32(j-1) + uint32(i)
			indices = append(indices, a, b, d, b, c, d)
		}
	}

	return CreateMeshFromData("TorusKnot", vertices, indices)
}
