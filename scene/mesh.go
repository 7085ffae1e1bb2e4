package scene

import (
	"material-scene/core"
	"material-scene/math"
)

// AABB is an axis-aligned bounding box in mesh-local space.
type AABB struct {
	Min, Max math.Vec3
}

func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name       string
	Vertices   []core.Vertex
	Indices    []uint32
	IndexCount uint32

	Bounds AABB

	// Material holds surface shading properties. If nil, DefaultMaterial() is used.
	Material *Material

	// GPUData is set by the renderer backend.
	GPUData interface{}
}

// CreateMeshFromData builds a Mesh and computes its bounds.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:       name,
		Vertices:   vertices,
		Indices:    indices,
		IndexCount: uint32(len(indices)),
	}
	if len(vertices) > 0 {
		m.Bounds = computeBounds(vertices)
	}
	return m
}

func computeBounds(vertices []core.Vertex) AABB {
	min := vertices[0].Position
	max := vertices[0].Position
	for _, v := range vertices[1:] {
		p := v.Position
		min.X = minf(min.X, p.X)
		min.Y = minf(min.Y, p.Y)
		min.Z = minf(min.Z, p.Z)
		max.X = maxf(max.X, p.X)
		max.Y = maxf(max.Y, p.Y)
		max.Z = maxf(max.Z, p.Z)
	}
	return AABB{Min: min, Max: max}
}

// MaterialOrDefault returns the mesh material, allocating a default one on
// first use so edits to it persist.
func (m *Mesh) MaterialOrDefault() *Material {
	if m.Material == nil {
		m.Material = DefaultMaterial()
	}
	return m.Material
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
