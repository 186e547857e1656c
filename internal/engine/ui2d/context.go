package ui2d

// Canvas is the drawing surface widgets emit to. *Renderer implements it.
type Canvas interface {
	DrawRect(x, y, w, h float32, c Color)
	DrawRectOutline(x, y, w, h, thickness float32, c Color)
	DrawLine(x0, y0, x1, y1, thickness float32, c Color)
	DrawText(x, y float32, text string, scale float32, c Color)
	MeasureText(text string, scale float32) (float32, float32)
}

// Flush draws everything queued on c so far when c batches, so later
// shapes cover earlier text.
func Flush(c Canvas) {
	if f, ok := c.(interface{ Flush() }); ok {
		f.Flush()
	}
}

// TextScale is the default glyph scale for widgets.
const TextScale = 1

// Context is an immediate-mode widget layer over a Canvas.
type Context struct {
	canvas Canvas
	input  *InputState

	hotWidget    string
	activeWidget string

	// Panels drawn this frame and last frame. Pointer events are routed
	// before widgets are drawn, so capture checks use the previous frame.
	panels     []Rect
	prevPanels []Rect
}

// NewContext creates a UI context drawing to canvas.
func NewContext(canvas Canvas) *Context {
	return &Context{
		canvas: canvas,
		input:  &InputState{},
	}
}

// Canvas returns the drawing surface.
func (c *Context) Canvas() Canvas {
	return c.canvas
}

// Input returns the input state for modification.
func (c *Context) Input() *InputState {
	return c.input
}

// Begin starts a new UI frame.
func (c *Context) Begin() {
	c.input.Update()
	c.hotWidget = ""
	c.panels = c.panels[:0]
}

// End finishes the UI frame.
func (c *Context) End() {
	c.prevPanels = append(c.prevPanels[:0], c.panels...)
	if c.activeWidget != "" && !c.input.MouseLeftDown {
		c.activeWidget = ""
	}
	c.input.EndFrame()
}

// WantsMouse reports whether (x, y) is over a panel drawn last frame.
func (c *Context) WantsMouse(x, y float32) bool {
	for _, p := range c.prevPanels {
		if p.Contains(x, y) {
			return true
		}
	}
	return false
}

// HotWidget returns the id of the widget under the pointer this frame.
func (c *Context) HotWidget() string {
	return c.hotWidget
}

// Panel draws a bordered panel and marks it as capturing the pointer.
func (c *Context) Panel(r Rect, bg, border Color) {
	c.panels = append(c.panels, r)
	c.canvas.DrawRect(r.X, r.Y, r.W, r.H, bg)
	c.canvas.DrawRectOutline(r.X, r.Y, r.W, r.H, 1, border)
}

// Button draws a button and reports whether it was clicked this frame.
func (c *Context) Button(id string, r Rect, label string) bool {
	c.panels = append(c.panels, r)
	hovered := r.Contains(c.input.MouseX, c.input.MouseY)
	clicked := false

	if hovered {
		c.hotWidget = id
		if c.input.MouseLeftPressed || c.input.MouseLeftClicked {
			c.activeWidget = id
			clicked = true
			// Consume the click so only one button gets it
			c.input.MouseLeftClicked = false
			c.input.MouseLeftPressed = false
		}
	}

	color := ColorButtonNormal
	if c.activeWidget == id {
		color = ColorButtonActive
	} else if hovered {
		color = ColorButtonHover
	}
	c.drawButton(r, label, color, ColorPanelBorder, ColorText)
	return clicked
}

// ButtonDisabled draws a button that cannot be clicked.
func (c *Context) ButtonDisabled(r Rect, label string) {
	c.panels = append(c.panels, r)
	c.drawButton(r, label, ColorButtonNormal.Darken(0.3), ColorPanelBorder.Darken(0.3), ColorTextDim)
}

func (c *Context) drawButton(r Rect, label string, bg, border, text Color) {
	c.canvas.DrawRect(r.X, r.Y, r.W, r.H, bg)
	c.canvas.DrawRectOutline(r.X, r.Y, r.W, r.H, 1, border)
	tw, th := c.canvas.MeasureText(label, TextScale)
	c.canvas.DrawText(r.X+(r.W-tw)/2, r.Y+(r.H-th)/2, label, TextScale, text)
}

// Label draws text at (x, y).
func (c *Context) Label(x, y float32, text string, color Color) {
	c.canvas.DrawText(x, y, text, TextScale, color)
}

// LabelCentered draws text centred horizontally in [x, x+w).
func (c *Context) LabelCentered(x, y, w float32, text string, scale float32, color Color) {
	tw, _ := c.canvas.MeasureText(text, scale)
	c.canvas.DrawText(x+(w-tw)/2, y, text, scale, color)
}

// Rect is a screen rectangle in pixels.
type Rect struct {
	X, Y, W, H float32
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
