package scene

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/noise"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"material-scene/core"
)

// ErrNotImage is returned when a texture file is not a recognised image.
var ErrNotImage = errors.New("not an image")

// Filter selects texture sampling.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

// Texture holds CPU-side pixel data for a 2D texture.
// GLID is set by the OpenGL backend after upload; do not access directly.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	Pixels []byte
	Filter Filter
	// GLID is the OpenGL texture object ID, set on first upload.
	GLID uint32
}

// LoadTexture reads a PNG, JPEG, BMP or WebP file from disk and returns a
// CPU-side RGBA8 Texture.
func LoadTexture(path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("texture %q: %w", path, ErrNotImage)
	}
	tex, err := decodeImageBytes(path, data)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return tex, nil
}

func decodeImageBytes(name string, data []byte) (*Texture, error) {
	return decodeTexture(name, bytes.NewReader(data))
}

func decodeTexture(name string, r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return textureFromImage(name, img), nil
}

func textureFromImage(name string, img image.Image) *Texture {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return &Texture{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}
}

func (t *Texture) image() *image.RGBA {
	return &image.RGBA{
		Pix:    t.Pixels,
		Stride: t.Width * 4,
		Rect:   image.Rect(0, 0, t.Width, t.Height),
	}
}

// Resized returns a bilinear-scaled copy of t.
func (t *Texture) Resized(width, height int) *Texture {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), t.image(), t.image().Bounds(), draw.Src, nil)
	return &Texture{
		Name:   t.Name,
		Width:  width,
		Height: height,
		Pixels: dst.Pix,
		Filter: t.Filter,
	}
}

// NewDudvTexture generates a size x size smooth noise texture whose red and
// green channels offset refraction lookups.
func NewDudvTexture(size int) *Texture {
	if size < 1 {
		size = 1
	}
	img := noise.Generate(size, size, &noise.Options{NoiseFn: noise.Uniform})
	smooth := blur.Gaussian(img, float64(size)/64+1)
	return textureFromImage("dudv", smooth)
}

// NewToneTexture builds a tones x 1 grayscale ramp with nearest filtering,
// the gradient map toon shading quantizes diffuse light with.
func NewToneTexture(name string, tones int) *Texture {
	if tones < 2 {
		tones = 2
	}
	pix := make([]byte, 0, tones*4)
	for i := 0; i < tones; i++ {
		v := byte(i * 255 / (tones - 1))
		pix = append(pix, v, v, v, 255)
	}
	return &Texture{
		Name:   name,
		Width:  tones,
		Height: 1,
		Pixels: pix,
		Filter: FilterNearest,
	}
}

// NewSolidTexture creates a 1x1 texture with the given color.
func NewSolidTexture(name string, c core.Color) *Texture {
	px := c.RGBA8()
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: px[:],
	}
}

// CubeMapping tells the renderer whether an environment map is sampled
// along the reflected or the refracted view vector.
type CubeMapping int

const (
	ReflectionMapping CubeMapping = iota
	RefractionMapping
)

// CubeFace indexes CubeTexture.Faces in GL order.
const (
	FacePX = iota
	FaceNX
	FacePY
	FaceNY
	FacePZ
	FaceNZ
)

// CubeFaceNames are the conventional file stems of the six faces.
var CubeFaceNames = [6]string{"px", "nx", "py", "ny", "pz", "nz"}

// CubeTexture is six square faces ordered +X, -X, +Y, -Y, +Z, -Z.
type CubeTexture struct {
	Name    string
	Faces   [6]*Texture
	Mapping CubeMapping
	GLID    uint32
}

// LoadCubeTexture loads six face images. Faces that differ in size from the
// first one are rescaled to match it.
func LoadCubeTexture(name string, paths [6]string) (*CubeTexture, error) {
	cube := &CubeTexture{Name: name}
	for i, p := range paths {
		tex, err := LoadTexture(p)
		if err != nil {
			return nil, err
		}
		if i > 0 && (tex.Width != cube.Faces[0].Width || tex.Height != cube.Faces[0].Height) {
			tex = tex.Resized(cube.Faces[0].Width, cube.Faces[0].Height)
		}
		cube.Faces[i] = tex
	}
	return cube, nil
}

// NewGradientCube generates a size x size cube fading from top (+Y) to
// bottom (-Y), used when no environment images are available.
func NewGradientCube(name string, size int, top, bottom core.Color) *CubeTexture {
	if size < 1 {
		size = 1
	}
	lerp := func(t float32) [4]byte {
		c := bottom.Lerp(top, t)
		c.A = 1
		return c.RGBA8()
	}
	fill := func(f func(y int) [4]byte) *Texture {
		pix := make([]byte, size*size*4)
		for y := 0; y < size; y++ {
			c := f(y)
			for x := 0; x < size; x++ {
				copy(pix[(y*size+x)*4:], c[:])
			}
		}
		return &Texture{Name: name, Width: size, Height: size, Pixels: pix}
	}

	cube := &CubeTexture{Name: name}
	side := func(y int) [4]byte {
		if size == 1 {
			return lerp(0.5)
		}
		return lerp(1 - float32(y)/float32(size-1))
	}
	for _, i := range []int{FacePX, FaceNX, FacePZ, FaceNZ} {
		cube.Faces[i] = fill(side)
	}
	cube.Faces[FacePY] = fill(func(int) [4]byte { return lerp(1) })
	cube.Faces[FaceNY] = fill(func(int) [4]byte { return lerp(0) })
	return cube
}
