package scene

import "material-scene/math"

// Plane is the half-space Normal·p + D >= 0.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo is positive on the inside of the plane.
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the left, right, bottom, top, near and far clip planes.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromViewProj extracts the clip planes of a view-projection matrix.
// With row vectors, clip coordinate j is the point dotted with column j.
func FrustumFromViewProj(vp math.Mat4) Frustum {
	col := func(j int) [4]float32 {
		return [4]float32{vp[0][j], vp[1][j], vp[2][j], vp[3][j]}
	}
	c0, c1, c2, c3 := col(0), col(1), col(2), col(3)
	plane := func(a [4]float32, b [4]float32, sign float32) Plane {
		x, y, z, d := a[0]+sign*b[0], a[1]+sign*b[1], a[2]+sign*b[2], a[3]+sign*b[3]
		l := math.Vec3{X: x, Y: y, Z: z}.Length()
		if l == 0 {
			return Plane{}
		}
		return Plane{Normal: math.Vec3{X: x / l, Y: y / l, Z: z / l}, D: d / l}
	}
	return Frustum{Planes: [6]Plane{
		plane(c3, c0, 1),
		plane(c3, c0, -1),
		plane(c3, c1, 1),
		plane(c3, c1, -1),
		plane(c3, c2, 1),
		plane(c3, c2, -1),
	}}
}

// Intersects reports whether box is at least partly inside f. Boxes are
// tested against the corner furthest along each plane normal.
func (f *Frustum) Intersects(box AABB) bool {
	for _, p := range f.Planes {
		c := box.Max
		if p.Normal.X < 0 {
			c.X = box.Min.X
		}
		if p.Normal.Y < 0 {
			c.Y = box.Min.Y
		}
		if p.Normal.Z < 0 {
			c.Z = box.Min.Z
		}
		if p.DistanceTo(c) < 0 {
			return false
		}
	}
	return true
}

// Transform returns the box enclosing b after m is applied to its corners.
func (b AABB) Transform(m math.Mat4) AABB {
	first := m.MulPoint(b.Min)
	out := AABB{Min: first, Max: first}
	for i := 1; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		p := m.MulPoint(c)
		out.Min = math.Vec3{X: min(out.Min.X, p.X), Y: min(out.Min.Y, p.Y), Z: min(out.Min.Z, p.Z)}
		out.Max = math.Vec3{X: max(out.Max.X, p.X), Y: max(out.Max.Y, p.Y), Z: max(out.Max.Z, p.Z)}
	}
	return out
}

// WorldBounds is the node's mesh bounds in world space.
func (n *Node) WorldBounds() AABB {
	if n.Mesh == nil {
		return AABB{Min: n.WorldPosition(), Max: n.WorldPosition()}
	}
	return n.Mesh.Bounds.Transform(n.GetWorldMatrix())
}
