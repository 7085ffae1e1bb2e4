package scene

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"material-scene/core"
	"material-scene/math"
)

func TestNodeWorldMatrixFollowsParent(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)

	parent.SetPosition(math.Vec3{X: 1, Y: 2, Z: 3})
	child.SetPosition(math.Vec3{X: 1})

	assert.Equal(t, math.Vec3{X: 2, Y: 2, Z: 3}, child.WorldPosition())

	parent.SetPosition(math.Vec3{})
	assert.Equal(t, math.Vec3{X: 1}, child.WorldPosition())
}

func TestAddChildReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	a.AddChild(c)
	b.AddChild(c)

	assert.Empty(t, a.Children)
	assert.Same(t, b, c.Parent)
	assert.Same(t, c, b.Find("c"))
}

func TestVisibleNodesSkipsHiddenSubtrees(t *testing.T) {
	s := NewScene()
	box := NewMeshNode(CreateBox(1, 1, 1))
	group := NewNode("group")
	inner := NewMeshNode(CreateSphere(1, 8, 4))
	group.AddChild(inner)
	s.Add(box, group)

	assert.Len(t, s.VisibleNodes(), 2)

	group.Visible = false
	nodes := s.VisibleNodes()
	require.Len(t, nodes, 1)
	assert.Same(t, box, nodes[0])
}

func TestEmptySceneHasNoVisibleNodes(t *testing.T) {
	s := NewScene()
	assert.Empty(t, s.VisibleNodes())
	assert.Empty(t, s.VisibleLights())
}

func TestVisibleLights(t *testing.T) {
	s := NewScene()
	key := NewDirectionalLight(core.ColorWhite, 1)
	fill := NewHemisphereLight(core.ColorWhite, core.ColorBlack, 0.8)
	s.AddLight(key, fill)
	fill.Visible = false

	assert.Equal(t, []*Light{key}, s.VisibleLights())
	assert.True(t, key.CanCastShadow())
	assert.False(t, fill.CanCastShadow())

	s.RemoveLight(key)
	assert.Empty(t, s.VisibleLights())
}

func TestCameraAspect(t *testing.T) {
	cam := NewPerspectiveCamera(90, 1, 0.1, 100)
	cam.SetAspect(800, 600)
	assert.InDelta(t, 800.0/600.0, cam.Aspect, 1e-6)

	cam.SetAspect(800, 0)
	assert.InDelta(t, 800.0/600.0, cam.Aspect, 1e-6, "zero height must be ignored")
}

func TestOrthographicCameraKeepsFrustum(t *testing.T) {
	cam := NewOrthographicCamera(-2, 2, 1, -1, 0.1, 10)
	cam.SetAspect(1920, 1080)
	assert.Equal(t, Orthographic, cam.Projection)
	assert.Equal(t, float32(-2), cam.Left)

	p := cam.ProjectionMatrix()
	assert.InDelta(t, 0.5, p[0][0], 1e-6)
	assert.InDelta(t, 1.0, p[1][1], 1e-6)
}

func TestCameraForward(t *testing.T) {
	cam := NewPerspectiveCamera(90, 1, 0.1, 100)
	cam.SetPosition(math.Vec3{Z: 5})
	cam.LookAt(math.Vec3{})
	assert.Equal(t, math.Vec3{Z: -1}, cam.Forward())
	assert.InDelta(t, 1, cam.RightVector().X, 1e-6)
	assert.InDelta(t, 1, cam.UpVector().Y, 1e-6)
}

// outward checks every triangle winds counter-clockwise seen from outside
// a convex mesh centred on the origin.
func outward(t *testing.T, m *Mesh) {
	t.Helper()
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Position
		b := m.Vertices[m.Indices[i+1]].Position
		c := m.Vertices[m.Indices[i+2]].Position
		n := b.Sub(a).Cross(c.Sub(a))
		if n.LengthSqr() < 1e-12 {
			continue // degenerate pole triangle
		}
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		if n.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d winds inward", i/3)
		}
	}
}

func TestCreateBox(t *testing.T) {
	m := CreateBox(1, 2, 3)
	assert.Len(t, m.Vertices, 24)
	assert.Len(t, m.Indices, 36)
	assert.Equal(t, math.Vec3{X: -0.5, Y: -1, Z: -1.5}, m.Bounds.Min)
	assert.Equal(t, math.Vec3{X: 0.5, Y: 1, Z: 1.5}, m.Bounds.Max)
	outward(t, m)
}

func TestCreateSphere(t *testing.T) {
	m := CreateSphere(1, 32, 16)
	assert.Len(t, m.Vertices, 33*17)
	assert.Len(t, m.Indices, 32*16*6)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Position.Length(), 1e-5)
	}
	outward(t, m)
}

func TestCreatePlaneFacesPositiveZ(t *testing.T) {
	m := CreatePlane(20, 20)
	assert.Equal(t, math.Vec3{X: 20, Y: 20}, m.Bounds.Size())
	assert.Equal(t, math.Vec2{X: 1, Y: 1}, m.Vertices[2].UV)
	a := m.Vertices[m.Indices[0]].Position
	b := m.Vertices[m.Indices[1]].Position
	c := m.Vertices[m.Indices[2]].Position
	assert.Greater(t, b.Sub(a).Cross(c.Sub(a)).Z, float32(0))
}

func TestCreateTorusKnot(t *testing.T) {
	m := CreateTorusKnot(1, 0.4, 64, 8, 2, 3)
	assert.Len(t, m.Vertices, 65*9)
	assert.Len(t, m.Indices, 64*8*6)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Normal.Length(), 1e-4)
	}
	assert.Greater(t, m.Bounds.Max.X, float32(1))
	assert.Less(t, m.Bounds.Max.X, float32(2))
}

func TestMaterialDefaults(t *testing.T) {
	phong := NewPhongMaterial(core.Hex(0xccddff))
	assert.Equal(t, ShadingPhong, phong.Shading)
	assert.Equal(t, "phong", phong.Shading.String())
	assert.False(t, phong.IsTransparent())

	phys := NewPhysicalMaterial(core.ColorWhite)
	phys.Transmission = 1
	assert.True(t, phys.IsTransparent())
	assert.Equal(t, float32(1.5), phys.IOR)

	ref := NewRefractionMaterial(core.Hex(0xeeeeee), 1024)
	assert.Equal(t, 1024, ref.CaptureSize)

	var m Mesh
	assert.Same(t, m.MaterialOrDefault(), m.MaterialOrDefault())
}

func TestToneTexture(t *testing.T) {
	tex := NewToneTexture("threeTone", 3)
	assert.Equal(t, 3, tex.Width)
	assert.Equal(t, FilterNearest, tex.Filter)
	assert.Equal(t, []byte{0, 0, 0, 255, 127, 127, 127, 255, 255, 255, 255, 255}, tex.Pixels)
}

func TestGradientCube(t *testing.T) {
	cube := NewGradientCube("env", 4, core.ColorWhite, core.ColorBlack)
	for i, f := range cube.Faces {
		require.NotNil(t, f, "face %d", i)
		assert.Len(t, f.Pixels, 4*4*4)
	}
	assert.Equal(t, byte(255), cube.Faces[FacePY].Pixels[0])
	assert.Equal(t, byte(0), cube.Faces[FaceNY].Pixels[0])
	assert.Equal(t, byte(255), cube.Faces[FacePX].Pixels[0], "top row of a side face")
}

func TestLoadCubeTextureMissingFace(t *testing.T) {
	var paths [6]string
	for i, n := range CubeFaceNames {
		paths[i] = filepath.Join(t.TempDir(), n+".jpg")
	}
	_, err := LoadCubeTexture("env", paths)
	assert.Error(t, err)
}

func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	writePNG(t, path, 4, 2, color.RGBA{R: 255, A: 255})

	tex, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels[:4])
}

func TestLoadTextureRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jpg")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a jpeg"), 0o644))

	_, err := LoadTexture(path)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestLoadCubeTextureRescalesFaces(t *testing.T) {
	dir := t.TempDir()
	var paths [6]string
	for i, n := range CubeFaceNames {
		paths[i] = filepath.Join(dir, n+".png")
		size := 8
		if i == FaceNZ {
			size = 16
		}
		writePNG(t, paths[i], size, size, color.RGBA{B: 255, A: 255})
	}

	cube, err := LoadCubeTexture("env", paths)
	require.NoError(t, err)
	assert.Equal(t, 8, cube.Faces[FaceNZ].Width)
	assert.Len(t, cube.Faces[FaceNZ].Pixels, 8*8*4)
}

func TestDudvTexture(t *testing.T) {
	tex := NewDudvTexture(32)
	assert.Equal(t, 32, tex.Width)
	assert.Equal(t, 32, tex.Height)
	assert.Len(t, tex.Pixels, 32*32*4)
}

func TestLoadGLTF(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{"POSITION": pos},
			Material:   gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "model", Mesh: gltf.Index(0), Translation: [3]float64{0, 0, -2}}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "tri.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	res, err := LoadGLTF(path)
	require.NoError(t, err)
	require.Len(t, res.Roots, 1)

	root := res.Roots[0]
	assert.Equal(t, "model", root.Name)
	assert.Equal(t, math.Vec3{Z: -2}, root.Transform.Position)
	require.NotNil(t, root.Mesh)
	assert.Len(t, root.Mesh.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, root.Mesh.Indices)
	require.NotNil(t, root.Mesh.Material)
	assert.Equal(t, core.ColorRed, root.Mesh.Material.Color)

	group := res.Root("extra")
	assert.Same(t, group, root.Parent)
}

func TestLoadGLTFMissingFile(t *testing.T) {
	_, err := LoadGLTF(filepath.Join(t.TempDir(), "nope.glb"))
	assert.Error(t, err)
}

func TestLoadOBJ(t *testing.T) {
	dir := t.TempDir()
	mtl := "newmtl green\nKd 0 1 0\nd 0.5\n"
	obj := `# quad then triangle
mtllib scene.mtl
o quad
usemtl green
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
f 1/1 2/1 3/1 4/1
o tri
usemtl missing
v 0 0 1
v 1 0 1
v 0 1 1
vn 0 0 -1
f -3//1 -2//1 -1//1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.mtl"), []byte(mtl), 0o644))
	path := filepath.Join(dir, "scene.obj")
	require.NoError(t, os.WriteFile(path, []byte(obj), 0o644))

	res, err := LoadModel(path)
	require.NoError(t, err)
	require.Len(t, res.Roots, 2)

	quad := res.Roots[0].Mesh
	require.NotNil(t, quad)
	assert.Equal(t, "quad", res.Roots[0].Name)
	assert.Len(t, quad.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, quad.Indices)
	for _, v := range quad.Vertices {
		assert.InDelta(t, 1, v.Normal.Z, 1e-6)
	}
	assert.Equal(t, core.Color{G: 1, A: 1}, quad.Material.Color)
	assert.Equal(t, float32(0.5), quad.Material.Opacity)
	assert.True(t, quad.Material.Transparent)

	tri := res.Roots[1].Mesh
	require.NotNil(t, tri)
	assert.Equal(t, math.Vec3{X: 1, Z: 1}, tri.Vertices[1].Position)
	assert.Equal(t, math.Vec3{Z: -1}, tri.Vertices[0].Normal)
	assert.Equal(t, ShadingStandard, tri.Material.Shading)
}

func TestLoadOBJErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	_, err := LoadOBJ(write("empty.obj", "v 0 0 0\n"))
	assert.Error(t, err)

	_, err = LoadOBJ(write("range.obj", "v 0 0 0\nf 1 2 3\n"))
	assert.ErrorContains(t, err, "bad position index")

	_, err = LoadOBJ(write("number.obj", "v 0 zero 0\n"))
	assert.Error(t, err)

	_, err = LoadOBJ(filepath.Join(dir, "missing.obj"))
	assert.Error(t, err)
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	m := math.Mat4Scale(math.Vec3{X: 2, Y: 1, Z: 1}).Mul(math.Mat4Translation(math.Vec3{Y: 3}))
	out := box.Transform(m)
	assert.Equal(t, math.Vec3{X: -2, Y: 2, Z: -1}, out.Min)
	assert.Equal(t, math.Vec3{X: 2, Y: 4, Z: 1}, out.Max)
}

func TestFrustumIntersects(t *testing.T) {
	cam := NewOrthographicCamera(-1, 1, 1, -1, 0.1, 10)
	cam.Position = math.Vec3{Z: 5}
	cam.LookAt(math.Vec3{})
	f := FrustumFromViewProj(cam.ViewProjectionMatrix())

	unit := AABB{Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}}
	assert.True(t, f.Intersects(unit))
	assert.False(t, f.Intersects(unit.Transform(math.Mat4Translation(math.Vec3{X: 3}))))
	assert.False(t, f.Intersects(unit.Transform(math.Mat4Translation(math.Vec3{Z: 6}))), "behind the near plane")
	assert.True(t, f.Intersects(unit.Transform(math.Mat4Translation(math.Vec3{X: 1.2}))))
}
