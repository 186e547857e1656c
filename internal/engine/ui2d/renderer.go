// Package ui2d provides a simple 2D UI rendering layer using OpenGL.
package ui2d

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/globalpulse/internal/engine/shader"
	"github.com/Faultbox/globalpulse/pkg/math"
)

const (
	solidStride = 7 // pos3 + color4
	textStride  = 9 // pos3 + uv2 + color4
)

// Renderer handles 2D UI rendering with OpenGL.
type Renderer struct {
	screenWidth  int
	screenHeight int

	solidShader *shader.Program
	textShader  *shader.Program

	solidVAO uint32
	solidVBO uint32
	textVAO  uint32
	textVBO  uint32

	// Current draw lists
	solidVertices []float32
	textVertices  []float32

	font *Font
}

// New creates a new 2D UI renderer.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:   width,
		screenHeight:  height,
		solidVertices: make([]float32, 0, 4096),
		textVertices:  make([]float32, 0, 4096),
	}

	var err error
	r.solidShader, err = shader.New(solidVertexShader, solidFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	r.textShader, err = shader.New(textVertexShader, textFragmentShader)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("create text shader: %w", err)
	}

	r.solidVAO, r.solidVBO = createBuffers(solidStride, []int32{3, 4})
	r.textVAO, r.textVBO = createBuffers(textStride, []int32{3, 2, 4})
	r.font = NewFont()

	return r, nil
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// GetScreenSize returns the current screen dimensions.
func (r *Renderer) GetScreenSize() (int, int) {
	return r.screenWidth, r.screenHeight
}

// Begin starts a new UI frame.
func (r *Renderer) Begin() {
	r.solidVertices = r.solidVertices[:0]
	r.textVertices = r.textVertices[:0]
}

// Flush renders everything queued so far and empties the queues. Shapes
// queued after a Flush draw above text queued before it.
func (r *Renderer) Flush() {
	if len(r.solidVertices) == 0 && len(r.textVertices) == 0 {
		return
	}

	var prevBlend, prevDepth, prevCull int32
	gl.GetIntegerv(gl.BLEND, &prevBlend)
	gl.GetIntegerv(gl.DEPTH_TEST, &prevDepth)
	gl.GetIntegerv(gl.CULL_FACE, &prevCull)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := math.Ortho(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)

	if len(r.solidVertices) > 0 {
		r.solidShader.Use()
		gl.UniformMatrix4fv(r.solidShader.Uniform("uProjection"), 1, false, proj.Ptr())
		gl.BindVertexArray(r.solidVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.solidVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(r.solidVertices)*4, unsafe.Pointer(&r.solidVertices[0]), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.solidVertices)/solidStride))
	}

	// Text on top
	if len(r.textVertices) > 0 && r.font != nil {
		r.textShader.Use()
		gl.UniformMatrix4fv(r.textShader.Uniform("uProjection"), 1, false, proj.Ptr())
		gl.Uniform1i(r.textShader.Uniform("uTexture"), 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.font.TextureID())

		gl.BindVertexArray(r.textVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.textVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(r.textVertices)*4, unsafe.Pointer(&r.textVertices[0]), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.textVertices)/textStride))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	if prevBlend == gl.FALSE {
		gl.Disable(gl.BLEND)
	}
	if prevDepth == gl.TRUE {
		gl.Enable(gl.DEPTH_TEST)
	}
	if prevCull == gl.TRUE {
		gl.Enable(gl.CULL_FACE)
	}

	r.Begin()
}

// End finishes the UI frame and renders all queued elements.
func (r *Renderer) End() {
	r.Flush()
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	if r.font != nil {
		r.font.Close()
	}
	for _, vao := range []*uint32{&r.solidVAO, &r.textVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
		}
	}
	for _, vbo := range []*uint32{&r.solidVBO, &r.textVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
		}
	}
	if r.solidShader != nil {
		r.solidShader.Delete()
	}
	if r.textShader != nil {
		r.textShader.Delete()
	}
}

// DrawRect draws a filled rectangle.
func (r *Renderer) DrawRect(x, y, width, height float32, color Color) {
	r.addQuad(x, y, width, height, color)
}

// DrawRectOutline draws a rectangle outline.
func (r *Renderer) DrawRectOutline(x, y, width, height, thickness float32, color Color) {
	r.addQuad(x, y, width, thickness, color)
	r.addQuad(x, y+height-thickness, width, thickness, color)
	r.addQuad(x, y+thickness, thickness, height-thickness*2, color)
	r.addQuad(x+width-thickness, y+thickness, thickness, height-thickness*2, color)
}

// DrawPanel draws a panel with border.
func (r *Renderer) DrawPanel(x, y, width, height float32, bg, border Color) {
	r.DrawRect(x, y, width, height, bg)
	r.DrawRectOutline(x, y, width, height, 1, border)
}

// DrawLine draws a straight line of the given thickness as a quad.
func (r *Renderer) DrawLine(x0, y0, x1, y1, thickness float32, c Color) {
	d := math.Vec2{X: x1 - x0, Y: y1 - y0}
	l := d.Length()
	if l == 0 {
		return
	}
	nx, ny := -d.Y/l*thickness/2, d.X/l*thickness/2
	r.solidVertices = append(r.solidVertices,
		x0+nx, y0+ny, 0, c.R, c.G, c.B, c.A,
		x1+nx, y1+ny, 0, c.R, c.G, c.B, c.A,
		x1-nx, y1-ny, 0, c.R, c.G, c.B, c.A,
		x0+nx, y0+ny, 0, c.R, c.G, c.B, c.A,
		x1-nx, y1-ny, 0, c.R, c.G, c.B, c.A,
		x0-nx, y0-ny, 0, c.R, c.G, c.B, c.A,
	)
}

// addQuad adds a solid color quad to the vertex buffer.
func (r *Renderer) addQuad(x, y, w, h float32, c Color) {
	r.solidVertices = append(r.solidVertices,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+w, y, 0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, c.R, c.G, c.B, c.A,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, c.R, c.G, c.B, c.A,
		x, y+h, 0, c.R, c.G, c.B, c.A,
	)
}

// addTexturedQuad adds a textured quad to the text vertex buffer.
func (r *Renderer) addTexturedQuad(x, y, w, h float32, u0, v0, u1, v1 float32, c Color) {
	r.textVertices = append(r.textVertices,
		x, y, 0, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y, 0, u1, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, u1, v1, c.R, c.G, c.B, c.A,
		x, y, 0, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, u1, v1, c.R, c.G, c.B, c.A,
		x, y+h, 0, u0, v1, c.R, c.G, c.B, c.A,
	)
}

// DrawText draws text at the given position.
func (r *Renderer) DrawText(x, y float32, text string, scale float32, color Color) {
	if r.font == nil {
		return
	}

	charW := float32(r.font.GlyphW) * scale
	charH := float32(r.font.GlyphH) * scale

	curX := x
	for _, char := range text {
		if char == '\n' {
			curX = x
			y += charH
			continue
		}
		if char != ' ' {
			u0, v0, u1, v1 := r.font.UV(char)
			r.addTexturedQuad(curX, y, charW, charH, u0, v0, u1, v1, color)
		}
		curX += charW
	}
}

// MeasureText returns the width and height of rendered text.
func (r *Renderer) MeasureText(text string, scale float32) (float32, float32) {
	if r.font == nil {
		return 0, 0
	}
	return r.font.Measure(text, scale)
}

// GlyphSize returns the unscaled glyph cell size.
func (r *Renderer) GlyphSize() (float32, float32) {
	if r.font == nil {
		return 0, 0
	}
	return float32(r.font.GlyphW), float32(r.font.GlyphH)
}

func createBuffers(stride int, sizes []int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	offset := 0
	for i, n := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), n, gl.FLOAT, false, int32(stride*4), uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(i))
		offset += int(n)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

const solidVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 1.0);
    vColor = aColor;
}
`

const solidFragmentShader = `
#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vColor;
}
`

const textVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

uniform mat4 uProjection;

out vec2 vTexCoord;
out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 1.0);
    vTexCoord = aTexCoord;
    vColor = aColor;
}
`

const textFragmentShader = `
#version 410 core

uniform sampler2D uTexture;

in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;

void main() {
    float alpha = texture(uTexture, vTexCoord).r;
    FragColor = vec4(vColor.rgb, vColor.a * alpha);
}
`
