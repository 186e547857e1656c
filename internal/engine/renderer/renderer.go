// Package renderer draws the globe scene with OpenGL.
package renderer

import (
	"fmt"
	"math/rand/v2"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/globalpulse/internal/engine/lighting"
	"github.com/Faultbox/globalpulse/internal/engine/shader"
	"github.com/Faultbox/globalpulse/internal/engine/texture"
	"github.com/Faultbox/globalpulse/internal/globe/scene"
	"github.com/Faultbox/globalpulse/internal/logger"
	"github.com/Faultbox/globalpulse/pkg/math"
)

// Scene appearance.
const (
	AtmosphereScale = 1.02
	AtmosphereColor = 0x4facfe
	AtmosphereAlpha = 0.1

	DotRadius     = 0.06
	HaloRadius    = 0.12
	HaloAlpha     = 0.3
	LineAlpha     = 0.5
	StarRadius    = 300
	StarDepth     = 50
	sphereRings   = 64
	sphereSegs    = 128
	dotRings      = 8
	dotSegs       = 12
	backgroundHex = 0x000008
)

// Config holds renderer configuration.
type Config struct {
	Width        int
	Height       int
	Stars        int
	Seed         uint64
	EarthTexture string // optional equirectangular image
}

type meshBuffers struct {
	vao, vbo, ebo uint32
	count         int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	globe *shader.Program
	color *shader.Program
	stars *shader.Program

	sphere    meshBuffers // unit sphere, normals and uv
	plain     meshBuffers // unit sphere, position only
	dot       meshBuffers // low-poly unit sphere for markers
	starField meshBuffers
	lines     meshBuffers

	lights lighting.Rig
	earth  uint32
	time   float32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
		lights: lighting.DefaultRig(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	bg := HexColor(backgroundHex)
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)

	var err error
	if r.globe, err = shader.New(globeVertexShader, globeFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("globe shader: %w", err)
	}
	if r.color, err = shader.New(colorVertexShader, colorFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("color shader: %w", err)
	}
	if r.stars, err = shader.New(starVertexShader, starFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("star shader: %w", err)
	}

	sphere := Sphere(1, sphereRings, sphereSegs)
	r.sphere = uploadIndexed(sphere, SphereStride, []attrib{{0, 3, 0}, {1, 3, 3}, {2, 2, 6}})
	r.plain = uploadIndexed(sphere, SphereStride, []attrib{{0, 3, 0}})
	r.dot = uploadIndexed(Sphere(1, dotRings, dotSegs), SphereStride, []attrib{{0, 3, 0}})

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	stars := StarField(cfg.Stars, StarRadius, StarDepth, rng)
	r.starField = uploadArrays(stars, StarStride, []attrib{{0, 3, 0}, {1, 1, 3}}, gl.STATIC_DRAW)

	r.lines = uploadArrays(nil, LineStride, []attrib{{0, 3, 0}, {1, 4, 3}}, gl.DYNAMIC_DRAW)

	if cfg.EarthTexture != "" {
		if err := r.loadEarth(cfg.EarthTexture); err != nil {
			r.log.Warn("earth texture unavailable, using procedural ocean",
				zap.String("path", cfg.EarthTexture), zap.Error(err))
		}
	}

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

func (r *Renderer) loadEarth(path string) error {
	img, err := texture.Load(path)
	if err != nil {
		return err
	}
	texture.FlipVertical(img)
	b := img.Bounds()

	gl.GenTextures(1, &r.earth)
	gl.BindTexture(gl.TEXTURE_2D, r.earth)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.log.Info("earth texture loaded", zap.String("path", path),
		zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
	return nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Debug("closing renderer")
	for _, m := range []*meshBuffers{&r.sphere, &r.plain, &r.dot, &r.starField, &r.lines} {
		m.delete()
	}
	if r.earth != 0 {
		gl.DeleteTextures(1, &r.earth)
		r.earth = 0
	}
	for _, p := range []*shader.Program{r.globe, r.color, r.stars} {
		if p != nil {
			p.Delete()
		}
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame. dt advances the star twinkle.
func (r *Renderer) Begin(dt float32) {
	r.time += dt
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders the stars, globe, atmosphere and marker callouts of f.
func (r *Renderer) Draw(f scene.Frame) {
	r.DrawStars(f)
	r.DrawGlobe(f)
	r.DrawCallouts(f)
	r.DrawAtmosphere(f)
}

// DrawStars draws the background star field, centred on the eye so it
// never parallaxes.
func (r *Renderer) DrawStars(f scene.Frame) {
	if r.starField.count == 0 {
		return
	}
	vp := f.ViewProj.Mul(math.Translate(f.Eye.X, f.Eye.Y, f.Eye.Z))

	gl.DepthMask(false)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)

	r.stars.Use()
	gl.UniformMatrix4fv(r.stars.Uniform("uViewProj"), 1, false, vp.Ptr())
	gl.Uniform1f(r.stars.Uniform("uTime"), r.time)
	gl.Uniform1f(r.stars.Uniform("uPointScale"), 1.5)
	gl.BindVertexArray(r.starField.vao)
	gl.DrawArrays(gl.POINTS, 0, r.starField.count)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
}

// DrawGlobe draws the lit sphere.
func (r *Renderer) DrawGlobe(f scene.Frame) {
	model := f.Model.Mul(math.Scale(f.Radius, f.Radius, f.Radius))

	r.globe.Use()
	gl.UniformMatrix4fv(r.globe.Uniform("uViewProj"), 1, false, f.ViewProj.Ptr())
	gl.UniformMatrix4fv(r.globe.Uniform("uModel"), 1, false, model.Ptr())
	setVec3(r.globe.Uniform("uLightDir"), r.lights.Key.Direction().Array())
	setVec3(r.globe.Uniform("uLightColor"), r.lights.Key.Radiance())
	setVec3(r.globe.Uniform("uAmbient"), r.lights.Ambient())
	setVec3(r.globe.Uniform("uFillDir"), r.lights.Fill.Direction().Array())
	setVec3(r.globe.Uniform("uFillColor"), r.lights.Fill.Radiance())
	gl.Uniform3f(r.globe.Uniform("uEye"), f.Eye.X, f.Eye.Y, f.Eye.Z)

	useTex := int32(0)
	if r.earth != 0 {
		useTex = 1
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.earth)
		gl.Uniform1i(r.globe.Uniform("uTexture"), 0)
	}
	gl.Uniform1i(r.globe.Uniform("uUseTexture"), useTex)

	gl.BindVertexArray(r.sphere.vao)
	gl.DrawElements(gl.TRIANGLES, r.sphere.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	if r.earth != 0 {
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
}

// DrawAtmosphere draws the additive glow shell around the globe.
func (r *Renderer) DrawAtmosphere(f scene.Frame) {
	s := f.Radius * AtmosphereScale
	mvp := f.ViewProj.Mul(f.Model).Mul(math.Scale(s, s, s))
	c := HexColor(AtmosphereColor)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	gl.DepthMask(false)
	gl.CullFace(gl.FRONT)

	r.color.Use()
	gl.UniformMatrix4fv(r.color.Uniform("uMVP"), 1, false, mvp.Ptr())
	gl.Uniform4f(r.color.Uniform("uTint"), 1, 1, 1, 1)
	gl.BindVertexArray(r.plain.vao)
	gl.VertexAttrib4f(1, c[0], c[1], c[2], AtmosphereAlpha)
	gl.DrawElements(gl.TRIANGLES, r.plain.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	gl.CullFace(gl.BACK)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

// DrawCallouts draws each marker's surface dot, halo and leader line.
// Points in f.Labels are already in world space.
func (r *Renderer) DrawCallouts(f scene.Frame) {
	if len(f.Labels) == 0 {
		return
	}
	callouts := make([]Callout, 0, len(f.Labels))
	for _, l := range f.Labels {
		callouts = append(callouts, Callout{
			Points: l.World,
			Color:  HexColor(l.Marker.Color),
			Alpha:  LineAlpha,
		})
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r.color.Use()
	gl.Uniform4f(r.color.Uniform("uTint"), 1, 1, 1, 1)
	gl.BindVertexArray(r.dot.vao)
	for _, c := range callouts {
		p := c.Points[0]
		for _, d := range [2]struct{ radius, alpha float32 }{{DotRadius, 1}, {HaloRadius, HaloAlpha}} {
			mvp := f.ViewProj.Mul(math.Translate(p.X, p.Y, p.Z)).Mul(math.Scale(d.radius, d.radius, d.radius))
			gl.UniformMatrix4fv(r.color.Uniform("uMVP"), 1, false, mvp.Ptr())
			gl.VertexAttrib4f(1, c.Color[0], c.Color[1], c.Color[2], d.alpha)
			gl.DrawElements(gl.TRIANGLES, r.dot.count, gl.UNSIGNED_INT, nil)
		}
	}

	verts := CalloutLines(callouts)
	gl.UniformMatrix4fv(r.color.Uniform("uMVP"), 1, false, f.ViewProj.Ptr())
	gl.BindVertexArray(r.lines.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lines.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(verts)/LineStride))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
}

func setVec3(loc int32, v [3]float32) {
	gl.Uniform3f(loc, v[0], v[1], v[2])
}

type attrib struct {
	index  uint32
	size   int32
	offset int
}

func uploadIndexed(m Mesh, stride int, attribs []attrib) meshBuffers {
	b := uploadArrays(m.Vertices, stride, attribs, gl.STATIC_DRAW)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
	gl.BindVertexArray(0)
	b.count = int32(len(m.Indices))
	return b
}

func uploadArrays(verts []float32, stride int, attribs []attrib, usage uint32) meshBuffers {
	var b meshBuffers
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(verts) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), usage)
	}

	for _, a := range attribs {
		gl.VertexAttribPointer(a.index, a.size, gl.FLOAT, false, int32(stride*4), gl.PtrOffset(a.offset*4))
		gl.EnableVertexAttribArray(a.index)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	b.count = int32(len(verts) / stride)
	return b
}

func (m *meshBuffers) delete() {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	*m = meshBuffers{}
}
