package scene

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"material-scene/core"
	"material-scene/math"
)

// LoadModel picks the loader by file extension: .obj goes to LoadOBJ,
// everything else to LoadGLTF.
func LoadModel(path string) (*Model, error) {
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		return LoadOBJ(path)
	}
	return LoadGLTF(path)
}

// LoadOBJ parses a Wavefront .obj file. Each o/g group becomes a root mesh
// node with a standard material taken from the referenced .mtl library.
// Faces are fan-triangulated; groups without normals get smooth ones.
func LoadOBJ(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("obj open %q: %w", path, err)
	}
	defer f.Close()

	log := slog.Default().With("obj", filepath.Base(path))
	mtls := map[string]*Material{}
	result := &Model{}

	var (
		positions []math.Vec3
		normals   []math.Vec3
		uvs       []math.Vec2
	)
	group := objGroup{name: "default", seen: map[string]uint32{}}
	flush := func() {
		if len(group.vertices) == 0 {
			return
		}
		result.Roots = append(result.Roots, group.node(mtls))
	}

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v", "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("obj %s:%d: %w", path, line, err)
			}
			p := math.Vec3{X: v[0], Y: v[1], Z: v[2]}
			if fields[0] == "v" {
				positions = append(positions, p)
			} else {
				normals = append(normals, p)
			}
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("obj %s:%d: %w", path, line, err)
			}
			uvs = append(uvs, math.Vec2{X: v[0], Y: v[1]})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj %s:%d: face needs 3 vertices", path, line)
			}
			face := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := group.vertex(ref, positions, normals, uvs)
				if err != nil {
					return nil, fmt.Errorf("obj %s:%d: %w", path, line, err)
				}
				face = append(face, idx)
			}
			for i := 2; i < len(face); i++ {
				group.indices = append(group.indices, face[0], face[i-1], face[i])
			}
		case "o", "g":
			flush()
			name := "unnamed"
			if len(fields) > 1 {
				name = fields[1]
			}
			group = objGroup{name: name, material: group.material, seen: map[string]uint32{}}
		case "usemtl":
			if len(fields) > 1 {
				group.material = fields[1]
			}
		case "mtllib":
			if len(fields) > 1 {
				lib := filepath.Join(filepath.Dir(path), fields[1])
				loaded, err := LoadMTL(lib)
				if err != nil {
					log.Warn("mtl library skipped", "path", lib, "err", err)
					continue
				}
				for k, m := range loaded {
					mtls[k] = m
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("obj read %q: %w", path, err)
	}
	flush()
	if len(result.Roots) == 0 {
		return nil, fmt.Errorf("obj %q: no faces", path)
	}
	return result, nil
}

// LoadMTL parses the diffuse, specular, shininess and opacity statements of
// a .mtl library into standard materials keyed by name.
func LoadMTL(path string) (map[string]*Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result := map[string]*Material{}
	var cur *Material
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if fields[0] == "newmtl" {
			cur = NewStandardMaterial(core.ColorWhite)
			cur.Name = fields[1]
			result[fields[1]] = cur
			continue
		}
		if cur == nil {
			continue
		}
		v, err := parseFloats(fields[1:], 1)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "Kd", "Ks":
			if len(fields) < 4 {
				continue
			}
			rgb, err := parseFloats(fields[1:], 3)
			if err != nil {
				continue
			}
			c := core.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 1}
			if fields[0] == "Kd" {
				cur.Color = c
			} else {
				cur.Specular = c
			}
		case "Ns":
			// Shininess runs 0..1000.
			cur.Shininess = v[0]
			cur.Roughness = math.Clamp(1-v[0]/1000, 0, 1)
		case "d":
			cur.Opacity = v[0]
		case "Tr":
			cur.Opacity = 1 - v[0]
		}
		if cur.Opacity < 1 {
			cur.Transparent = true
		}
	}
	return result, sc.Err()
}

type objGroup struct {
	name     string
	material string
	vertices []core.Vertex
	indices  []uint32
	seen     map[string]uint32 // "v/vt/vn" -> vertex index
	normals  bool
}

func (g *objGroup) vertex(ref string, positions, normals []math.Vec3, uvs []math.Vec2) (uint32, error) {
	if idx, ok := g.seen[ref]; ok {
		return idx, nil
	}
	parts := strings.Split(ref, "/")
	var v core.Vertex
	pi, err := objIndex(parts[0], len(positions))
	if err != nil || pi < 0 {
		return 0, fmt.Errorf("vertex %q: bad position index", ref)
	}
	v.Position = positions[pi]
	if len(parts) > 1 && parts[1] != "" {
		ti, err := objIndex(parts[1], len(uvs))
		if err != nil || ti < 0 {
			return 0, fmt.Errorf("vertex %q: bad uv index", ref)
		}
		v.UV = uvs[ti]
	}
	if len(parts) > 2 && parts[2] != "" {
		ni, err := objIndex(parts[2], len(normals))
		if err != nil || ni < 0 {
			return 0, fmt.Errorf("vertex %q: bad normal index", ref)
		}
		v.Normal = normals[ni]
		g.normals = true
	}
	idx := uint32(len(g.vertices))
	g.vertices = append(g.vertices, v)
	g.seen[ref] = idx
	return idx, nil
}

func (g *objGroup) node(mtls map[string]*Material) *Node {
	if !g.normals {
		smoothNormals(g.vertices, g.indices)
	}
	mesh := CreateMeshFromData(g.name, g.vertices, g.indices)
	if m, ok := mtls[g.material]; ok {
		mesh.Material = m
	} else {
		mesh.Material = NewStandardMaterial(core.Color{R: 0.8, G: 0.8, B: 0.8, A: 1})
	}
	return NewMeshNode(mesh)
}

// objIndex resolves a 1-based or negative (relative) OBJ index; -1 means
// out of range.
func objIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i = n + i + 1
	}
	if i < 1 || i > n {
		return -1, nil
	}
	return i - 1, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

func smoothNormals(vertices []core.Vertex, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		n := vertices[b].Position.Sub(vertices[a].Position).Cross(vertices[c].Position.Sub(vertices[a].Position))
		for _, j := range []uint32{a, b, c} {
			vertices[j].Normal = vertices[j].Normal.Add(n)
		}
	}
	for i := range vertices {
		vertices[i].Normal = vertices[i].Normal.Normalize()
	}
}
