package opengl

import (
	"fmt"
	"log/slog"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"material-scene/core"
	"material-scene/math"
	"material-scene/scene"
)

const (
	maxDirLights   = 4
	maxHemiLights  = 2
	maxPointLights = 4
)

// Texture units of the main program.
const (
	unitColor = iota
	unitShadow
	unitGradient
	unitEnv
	unitCapture
	unitDudv
)

// ShadowFilter selects how the main shader samples the shadow map.
type ShadowFilter int32

const (
	ShadowFilterBasic ShadowFilter = iota
	ShadowFilterPCF
	ShadowFilterSoft
)

// Shadow describes the shadow map bound for a frame. Light is the index of
// the casting light among the frame's directional lights.
type Shadow struct {
	LightVP math.Mat4
	Light   int
	Filter  ShadowFilter
	Bias    float32
	Radius  float32
	Samples int
}

// Frame holds the per-frame state shared by every draw.
type Frame struct {
	Clear       core.Color
	Ambient     core.Color
	CameraPos   math.Vec3
	Lights      []*scene.Light
	Environment *scene.CubeTexture
	Shadow      *Shadow
}

type mainLocs struct {
	mvp, model, lightViewProj int32

	shading, matColor, opacity, colorMap, hasColorMap  int32
	roughness, metalness, transmission, thickness, ior int32
	specularColor, shininess, reflectivity             int32
	refractionRatio                                    int32
	gradientMap, hasGradientMap                        int32
	envMap, hasEnvMap, envRefraction                   int32
	captureMap, dudvMap, hasCapture, distortScale      int32

	shadowMap, hasShadows, shadowLight, shadowFilter     int32
	receiveShadow                                        int32
	shadowBias, shadowRadius, shadowSamples, shadowTexel int32

	dirCount, hemiCount, pointCount  int32
	dirDir, dirColor                 []int32
	hemiUp, hemiSky, hemiGround      []int32
	pointPos, pointColor, pointRange []int32

	ambientColor, cameraPos int32
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program uint32
	loc     mainLocs

	depthProg   uint32
	lightMVPLoc int32

	skybox    *Skybox
	shadowMap *ShadowMap
	smooth    bool
	captures  map[int]*CaptureTarget
	dudv      *scene.Texture

	frameEnv *scene.CubeTexture

	viewportW int32
	viewportH int32

	gpuMeshes map[*scene.Mesh]*GPUMesh
	failed    map[any]bool
	log       *slog.Logger
}

// NewRenderer initialises OpenGL. The GLFW context must be current.
func NewRenderer(log *slog.Logger) (*Renderer, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("main shader compile: %w", err)
	}
	depthProg, err := newProgram(depthVertSrc, depthFragSrc)
	if err != nil {
		return nil, fmt.Errorf("depth shader compile: %w", err)
	}
	sky, err := NewSkybox()
	if err != nil {
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	r := &Renderer{
		program:     prog,
		loc:         lookupMain(uniforms(prog)),
		depthProg:   depthProg,
		lightMVPLoc: uniforms(depthProg).loc("lightMVP"),
		skybox:      sky,
		captures:    make(map[int]*CaptureTarget),
		gpuMeshes:   make(map[*scene.Mesh]*GPUMesh),
		failed:      make(map[any]bool),
		log:         log,
	}

	gl.UseProgram(prog)
	gl.Uniform1i(r.loc.colorMap, unitColor)
	gl.Uniform1i(r.loc.shadowMap, unitShadow)
	gl.Uniform1i(r.loc.gradientMap, unitGradient)
	gl.Uniform1i(r.loc.envMap, unitEnv)
	gl.Uniform1i(r.loc.captureMap, unitCapture)
	gl.Uniform1i(r.loc.dudvMap, unitDudv)
	ident := math.Mat4Identity()
	setMat(r.loc.lightViewProj, ident)
	return r, nil
}

func lookupMain(u uniforms) mainLocs {
	return mainLocs{
		mvp:           u.loc("mvp"),
		model:         u.loc("model"),
		lightViewProj: u.loc("lightViewProj"),

		shading:     u.loc("shading"),
		matColor:    u.loc("matColor"),
		opacity:     u.loc("opacity"),
		colorMap:    u.loc("colorMap"),
		hasColorMap: u.loc("hasColorMap"),

		roughness:    u.loc("roughness"),
		metalness:    u.loc("metalness"),
		transmission: u.loc("transmission"),
		thickness:    u.loc("thickness"),
		ior:          u.loc("ior"),

		specularColor:   u.loc("specularColor"),
		shininess:       u.loc("shininess"),
		reflectivity:    u.loc("reflectivity"),
		refractionRatio: u.loc("refractionRatio"),

		gradientMap:    u.loc("gradientMap"),
		hasGradientMap: u.loc("hasGradientMap"),
		envMap:         u.loc("envMap"),
		hasEnvMap:      u.loc("hasEnvMap"),
		envRefraction:  u.loc("envRefraction"),
		captureMap:     u.loc("captureMap"),
		dudvMap:        u.loc("dudvMap"),
		hasCapture:     u.loc("hasCapture"),
		distortScale:   u.loc("distortScale"),

		shadowMap:     u.loc("shadowMap"),
		hasShadows:    u.loc("hasShadows"),
		receiveShadow: u.loc("receiveShadow"),
		shadowLight:   u.loc("shadowLight"),
		shadowFilter:  u.loc("shadowFilter"),
		shadowBias:    u.loc("shadowBias"),
		shadowRadius:  u.loc("shadowRadius"),
		shadowSamples: u.loc("shadowSamples"),
		shadowTexel:   u.loc("shadowTexel"),

		dirCount:   u.loc("dirCount"),
		hemiCount:  u.loc("hemiCount"),
		pointCount: u.loc("pointCount"),
		dirDir:     u.array("dirDir", maxDirLights),
		dirColor:   u.array("dirColor", maxDirLights),
		hemiUp:     u.array("hemiUp", maxHemiLights),
		hemiSky:    u.array("hemiSky", maxHemiLights),
		hemiGround: u.array("hemiGround", maxHemiLights),
		pointPos:   u.array("pointPos", maxPointLights),
		pointColor: u.array("pointColor", maxPointLights),
		pointRange: u.array("pointRange", maxPointLights),

		ambientColor: u.loc("ambientColor"),
		cameraPos:    u.loc("cameraPos"),
	}
}

// SetViewport stores the default framebuffer size for restoring after
// offscreen passes.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
}

// ── Shadow pass ───────────────────────────────────────────────────────────────

// EnsureShadowMap (re)creates the depth FBO when size or filtering changed.
func (r *Renderer) EnsureShadowMap(size int, smooth bool) error {
	if r.shadowMap != nil && int(r.shadowMap.Size) == size && r.smooth == smooth {
		return nil
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
		r.shadowMap = nil
	}
	sm, err := NewShadowMap(size, smooth)
	if err != nil {
		return err
	}
	r.shadowMap = sm
	r.smooth = smooth
	return nil
}

// BeginShadowPass binds the depth FBO. Front faces are culled so closed
// meshes write their back faces, which keeps acne off lit surfaces.
func (r *Renderer) BeginShadowPass() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.shadowMap.FBO)
	gl.Viewport(0, 0, r.shadowMap.Size, r.shadowMap.Size)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
	gl.UseProgram(r.depthProg)
}

func (r *Renderer) DrawMeshShadow(mesh *scene.Mesh, lightMVP math.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}
	setMat(r.lightMVPLoc, lightMVP)
	gpu.draw(len(mesh.Vertices))
}

func (r *Renderer) EndShadowPass() {
	gl.CullFace(gl.BACK)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
}

// ── Targets ───────────────────────────────────────────────────────────────────

// Capture returns the size×size capture target, creating it on first use.
func (r *Renderer) Capture(size int) (*CaptureTarget, error) {
	if c, ok := r.captures[size]; ok {
		return c, nil
	}
	c, err := NewCaptureTarget(size)
	if err != nil {
		return nil, err
	}
	r.captures[size] = c
	return c, nil
}

// BeginTarget binds c, or the default framebuffer when c is nil, and
// clears it.
func (r *Renderer) BeginTarget(c *CaptureTarget, clear core.Color) {
	if c == nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, r.viewportW, r.viewportH)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, c.FBO)
		gl.Viewport(0, 0, c.Size, c.Size)
	}
	gl.DepthMask(true)
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// EndTarget returns to the default framebuffer.
func (r *Renderer) EndTarget() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
}

// DrawBackground draws cube as the sky. It uploads the cube on first use.
func (r *Renderer) DrawBackground(cube *scene.CubeTexture, view, proj math.Mat4) {
	id := r.cubeID(cube)
	if id == 0 {
		return
	}
	r.skybox.Draw(id, view.WithoutTranslation(), proj)
}

// ── Frame ─────────────────────────────────────────────────────────────────────

// SetFrame uploads lights, camera and shadow uniforms.
func (r *Renderer) SetFrame(f Frame) {
	l := &r.loc
	gl.UseProgram(r.program)
	gl.Uniform3f(l.ambientColor, f.Ambient.R, f.Ambient.G, f.Ambient.B)
	gl.Uniform3f(l.cameraPos, f.CameraPos.X, f.CameraPos.Y, f.CameraPos.Z)
	r.frameEnv = f.Environment

	var dirs, hemis, points int32
	for _, light := range f.Lights {
		c := light.Color
		k := light.Intensity
		switch light.Kind {
		case scene.DirectionalLight:
			if dirs >= maxDirLights {
				continue
			}
			d := light.Direction()
			gl.Uniform3f(l.dirDir[dirs], d.X, d.Y, d.Z)
			gl.Uniform3f(l.dirColor[dirs], c.R*k, c.G*k, c.B*k)
			dirs++
		case scene.HemisphereLight:
			if hemis >= maxHemiLights {
				continue
			}
			up := light.Position.Normalize()
			g := light.GroundColor
			gl.Uniform3f(l.hemiUp[hemis], up.X, up.Y, up.Z)
			gl.Uniform3f(l.hemiSky[hemis], c.R*k, c.G*k, c.B*k)
			gl.Uniform3f(l.hemiGround[hemis], g.R*k, g.G*k, g.B*k)
			hemis++
		case scene.PointLight:
			if points >= maxPointLights {
				continue
			}
			p := light.Position
			gl.Uniform3f(l.pointPos[points], p.X, p.Y, p.Z)
			gl.Uniform3f(l.pointColor[points], c.R*k, c.G*k, c.B*k)
			gl.Uniform1f(l.pointRange[points], light.Range)
			points++
		}
	}
	gl.Uniform1i(l.dirCount, dirs)
	gl.Uniform1i(l.hemiCount, hemis)
	gl.Uniform1i(l.pointCount, points)

	if s := f.Shadow; s != nil && r.shadowMap != nil {
		setMat(l.lightViewProj, s.LightVP)
		gl.ActiveTexture(gl.TEXTURE0 + unitShadow)
		gl.BindTexture(gl.TEXTURE_2D, r.shadowMap.DepthTex)
		setBool(l.hasShadows, true)
		gl.Uniform1i(l.shadowLight, int32(s.Light))
		gl.Uniform1i(l.shadowFilter, int32(s.Filter))
		gl.Uniform1f(l.shadowBias, s.Bias)
		gl.Uniform1f(l.shadowRadius, s.Radius)
		gl.Uniform1i(l.shadowSamples, int32(s.Samples))
		gl.Uniform1f(l.shadowTexel, r.shadowMap.Texel())
	} else {
		setBool(l.hasShadows, false)
		gl.Uniform1i(l.shadowLight, -1)
	}
}

// ── DrawMesh ──────────────────────────────────────────────────────────────────

// Draw is the per-mesh state of one DrawMesh call.
type Draw struct {
	MVP           math.Mat4
	Model         math.Mat4
	ReceiveShadow bool
	// Capture is the scene capture a refraction material samples.
	Capture *CaptureTarget
}

// DrawMesh draws mesh with its material.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, d Draw) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}
	mat := mesh.MaterialOrDefault()

	gl.UseProgram(r.program)
	setMat(r.loc.mvp, d.MVP)
	setMat(r.loc.model, d.Model)
	setBool(r.loc.receiveShadow, d.ReceiveShadow)
	r.applyMaterial(mat, d.Capture)

	switch mat.Side {
	case scene.DoubleSide:
		gl.Disable(gl.CULL_FACE)
	case scene.BackSide:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
	if mat.IsTransparent() {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	}

	gpu.draw(len(mesh.Vertices))

	if mat.IsTransparent() {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}
	gl.CullFace(gl.BACK)
}

func (r *Renderer) applyMaterial(mat *scene.Material, capture *CaptureTarget) {
	l := &r.loc
	gl.Uniform1i(l.shading, int32(mat.Shading))
	gl.Uniform3f(l.matColor, mat.Color.R, mat.Color.G, mat.Color.B)
	gl.Uniform1f(l.opacity, mat.Opacity)

	gl.Uniform1f(l.roughness, mat.Roughness)
	gl.Uniform1f(l.metalness, mat.Metalness)
	gl.Uniform1f(l.transmission, mat.Transmission)
	gl.Uniform1f(l.thickness, mat.Thickness)
	gl.Uniform1f(l.ior, mat.IOR)

	gl.Uniform3f(l.specularColor, mat.Specular.R, mat.Specular.G, mat.Specular.B)
	gl.Uniform1f(l.shininess, mat.Shininess)
	gl.Uniform1f(l.reflectivity, mat.Reflectivity)
	gl.Uniform1f(l.refractionRatio, mat.RefractionRatio)

	setBool(l.hasColorMap, r.bindTexture(unitColor, mat.Map))
	setBool(l.hasGradientMap, r.bindTexture(unitGradient, mat.GradientMap))

	env := mat.EnvMap
	if env == nil && (mat.Shading == scene.ShadingStandard || mat.Shading == scene.ShadingPhysical) {
		env = r.frameEnv
	}
	if id := r.cubeID(env); id != 0 {
		gl.ActiveTexture(gl.TEXTURE0 + unitEnv)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
		setBool(l.hasEnvMap, true)
		setBool(l.envRefraction, env.Mapping == scene.RefractionMapping)
	} else {
		setBool(l.hasEnvMap, false)
	}

	if mat.Shading == scene.ShadingRefraction && capture != nil {
		gl.ActiveTexture(gl.TEXTURE0 + unitCapture)
		gl.BindTexture(gl.TEXTURE_2D, capture.ColorTex)
		setBool(l.hasCapture, true)
		r.bindTexture(unitDudv, r.dudvTexture())
		gl.Uniform1f(l.distortScale, mat.DistortScale)
	} else {
		setBool(l.hasCapture, false)
	}
}

func (r *Renderer) dudvTexture() *scene.Texture {
	if r.dudv == nil {
		r.dudv = scene.NewDudvTexture(256)
	}
	return r.dudv
}

// bindTexture uploads tex on first use and binds it to unit. It reports
// whether a texture is bound.
func (r *Renderer) bindTexture(unit uint32, tex *scene.Texture) bool {
	if tex == nil || r.failed[tex] {
		return false
	}
	if tex.GLID == 0 {
		if err := UploadTexture(tex); err != nil {
			r.log.Warn("texture upload failed", "texture", tex.Name, "err", err)
			r.failed[tex] = true
			return false
		}
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
	return true
}

func (r *Renderer) cubeID(cube *scene.CubeTexture) uint32 {
	if cube == nil || r.failed[cube] {
		return 0
	}
	if cube.GLID == 0 {
		if err := UploadCube(cube); err != nil {
			r.log.Warn("cube upload failed", "cube", cube.Name, "err", err)
			r.failed[cube] = true
			return 0
		}
	}
	return cube.GLID
}

// Err reports the first pending GL error, if any.
func (r *Renderer) Err() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%X", code)
	}
	return nil
}

// Destroy frees all GPU resources owned by the renderer.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	for size, c := range r.captures {
		c.Destroy()
		delete(r.captures, size)
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
		r.shadowMap = nil
	}
	DeleteTexture(r.dudv)
	r.skybox.Destroy()
	gl.DeleteProgram(r.depthProg)
	gl.DeleteProgram(r.program)
}

func setMat(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, (*float32)(unsafe.Pointer(&m[0][0])))
}

func setBool(loc int32, v bool) {
	if v {
		gl.Uniform1i(loc, 1)
	} else {
		gl.Uniform1i(loc, 0)
	}
}
