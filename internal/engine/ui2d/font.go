package ui2d

import (
	"image"
	"image/draw"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Printable ASCII range baked into the atlas. Other runes draw as '?'.
const (
	firstGlyph   = ' '
	lastGlyph    = '~'
	atlasColumns = 16
	fallbackRune = '?'
)

// Atlas is a rasterised fixed-width glyph sheet.
type Atlas struct {
	Image         *image.Alpha
	GlyphW        int
	GlyphH        int
	glyphs        map[rune]image.Rectangle
	width, height float32
}

// BuildAtlas rasterises the printable ASCII glyphs of face into a grid.
// face must be monospaced.
func BuildAtlas(face font.Face) *Atlas {
	m := face.Metrics()
	adv, _ := face.GlyphAdvance('M')
	gw := adv.Ceil()
	gh := m.Height.Ceil()
	ascent := m.Ascent.Ceil()

	count := int(lastGlyph-firstGlyph) + 1
	rows := (count + atlasColumns - 1) / atlasColumns
	img := image.NewAlpha(image.Rect(0, 0, atlasColumns*gw, rows*gh))

	a := &Atlas{
		Image:  img,
		GlyphW: gw,
		GlyphH: gh,
		glyphs: make(map[rune]image.Rectangle, count),
		width:  float32(img.Bounds().Dx()),
		height: float32(img.Bounds().Dy()),
	}
	for i := 0; i < count; i++ {
		r := firstGlyph + rune(i)
		cell := image.Rect(0, 0, gw, gh).Add(image.Pt(i%atlasColumns*gw, i/atlasColumns*gh))
		a.glyphs[r] = cell

		dot := fixed.P(cell.Min.X, cell.Min.Y+ascent)
		dr, mask, mp, _, ok := face.Glyph(dot, r)
		if !ok {
			continue
		}
		draw.DrawMask(img, dr.Intersect(cell), image.Opaque, image.Point{}, mask, mp, draw.Over)
	}
	return a
}

// Cell returns the atlas rectangle for r.
func (a *Atlas) Cell(r rune) image.Rectangle {
	if c, ok := a.glyphs[r]; ok {
		return c
	}
	return a.glyphs[fallbackRune]
}

// UV returns the normalised texture coordinates of r.
func (a *Atlas) UV(r rune) (u0, v0, u1, v1 float32) {
	c := a.Cell(r)
	return float32(c.Min.X) / a.width, float32(c.Min.Y) / a.height,
		float32(c.Max.X) / a.width, float32(c.Max.Y) / a.height
}

// Measure returns the pixel size of text at scale. Lines split on '\n'.
func (a *Atlas) Measure(text string, scale float32) (float32, float32) {
	if text == "" {
		return 0, 0
	}
	lines, longest, cur := 1, 0, 0
	for _, r := range text {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		if cur > longest {
			longest = cur
		}
	}
	return float32(longest*a.GlyphW) * scale, float32(lines*a.GlyphH) * scale
}

// Font is an Atlas uploaded to a GL texture.
type Font struct {
	*Atlas
	texture uint32
}

// NewFont uploads the basicfont 7x13 atlas.
func NewFont() *Font {
	f := &Font{Atlas: BuildAtlas(basicfont.Face7x13)}
	b := f.Image.Bounds()

	gl.GenTextures(1, &f.texture)
	gl.BindTexture(gl.TEXTURE_2D, f.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(f.Image.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return f
}

// TextureID returns the GL texture holding the atlas.
func (f *Font) TextureID() uint32 {
	return f.texture
}

// Close releases the texture.
func (f *Font) Close() {
	if f.texture != 0 {
		gl.DeleteTextures(1, &f.texture)
		f.texture = 0
	}
}
