package ui

import (
	"fmt"
	gomath "math"
	"strings"
	"time"

	"github.com/Faultbox/globalpulse/internal/engine/ui2d"
	"github.com/Faultbox/globalpulse/internal/news"
	"github.com/Faultbox/globalpulse/pkg/geo"
)

// Overlay strings.
const (
	TitleLeft       = "GLOBAL"
	TitleRight      = "PULSE"
	Subtitle        = "LIVE 24H INTELLIGENCE"
	RefreshLabel    = "Refresh Data"
	ScanningLabel   = "Scanning..."
	LoadingMessage  = "INITIALIZING GLOBAL SCAN"
	ConfigErrTitle  = "Configuration Error"
	ConfigErrDetail = "No API key found (GEMINI_API_KEY). Showing sample events."
	Attribution     = "Intelligence provided by Gemini AI"
)

// Layout metrics in pixels.
const (
	Margin        = 24
	SidebarWidth  = 384
	SidebarBreak  = 768 // below this width the sidebar fills the screen
	ButtonWidth   = 140
	ButtonHeight  = 32
	titleScale    = 3
	sidebarPad    = 24
	spinnerRadius = 28
)

// State is what the overlay shows this frame.
type State struct {
	Width, Height float32
	Time          float64 // seconds since start, drives the spinner

	Loading  bool
	Count    int // markers on the globe
	NoAPIKey bool
	Updated  time.Time
	Selected *news.Item
	FPS      float64         // shown when > 0
	Cursor   *geo.Coordinate // globe point under the pointer, if any
}

// Actions are the user intents raised while drawing.
type Actions struct {
	Refresh bool
	Close   bool
}

// Overlay draws the header, sidebar and status layers.
type Overlay struct{}

// Draw lays out the overlay for s.
func (o Overlay) Draw(ctx *ui2d.Context, s State) Actions {
	var a Actions

	a.Refresh = o.header(ctx, s)
	o.status(ctx, s)
	if s.NoAPIKey {
		o.banner(ctx, s)
	}
	if s.Selected != nil {
		ui2d.Flush(ctx.Canvas())
		a.Close = o.sidebar(ctx, s)
	}
	if s.Loading && s.Count == 0 {
		ui2d.Flush(ctx.Canvas())
		o.loading(ctx, s)
	}
	return a
}

// RefreshButton returns the header button rectangle right-aligned to right.
func RefreshButton(right float32) ui2d.Rect {
	return ui2d.Rect{X: right - Margin - ButtonWidth, Y: Margin, W: ButtonWidth, H: ButtonHeight}
}

// SidebarRect returns the sidebar rectangle for a screen size.
func SidebarRect(width, height float32) ui2d.Rect {
	w := float32(SidebarWidth)
	if width < SidebarBreak {
		w = width
	}
	return ui2d.Rect{X: width - w, Y: 0, W: w, H: height}
}

func (Overlay) header(ctx *ui2d.Context, s State) bool {
	c := ctx.Canvas()
	c.DrawText(Margin, Margin, TitleLeft, titleScale, ui2d.ColorWhite)
	lw, th := c.MeasureText(TitleLeft, titleScale)
	c.DrawText(Margin+lw, Margin, TitleRight, titleScale, ui2d.ColorHighlight)
	ctx.Label(Margin, Margin+th+4, Subtitle, ui2d.ColorTextDim)

	// The open sidebar pushes the button left; a full-width one hides it.
	right := s.Width
	if s.Selected != nil {
		right = SidebarRect(s.Width, s.Height).X
	}
	btn := RefreshButton(right)
	if btn.X < Margin {
		return false
	}
	if s.Loading {
		ctx.ButtonDisabled(btn, ScanningLabel)
		return false
	}
	return ctx.Button("refresh", btn, RefreshLabel)
}

func (Overlay) status(ctx *ui2d.Context, s State) {
	parts := []string{fmt.Sprintf("%d EVENTS", s.Count)}
	if !s.Updated.IsZero() {
		parts = append(parts, "UPDATED "+s.Updated.Format("15:04"))
	}
	if s.Cursor != nil {
		parts = append(parts, CoordinateLabel(*s.Cursor))
	}
	if s.FPS > 0 {
		parts = append(parts, fmt.Sprintf("%.0f FPS", s.FPS))
	}
	ctx.Label(Margin, s.Height-Margin-glyphH, strings.Join(parts, "  "), ui2d.ColorTextDim)
}

func (Overlay) banner(ctx *ui2d.Context, s State) {
	c := ctx.Canvas()
	dw, _ := c.MeasureText(ConfigErrDetail, ui2d.TextScale)
	w := dw + 2*16
	r := ui2d.Rect{X: (s.Width - w) / 2, Y: s.Height - Margin - 56, W: w, H: 48}
	ctx.Panel(r, ui2d.ColorPanelBg, ui2d.RGB(0xef, 0x44, 0x44).WithAlpha(0.6))
	ctx.LabelCentered(r.X, r.Y+8, r.W, ConfigErrTitle, ui2d.TextScale, ui2d.Hex(0xef4444))
	ctx.LabelCentered(r.X, r.Y+8+glyphH+4, r.W, ConfigErrDetail, ui2d.TextScale, ui2d.ColorText)
}

func (Overlay) sidebar(ctx *ui2d.Context, s State) bool {
	item := s.Selected
	c := ctx.Canvas()
	r := SidebarRect(s.Width, s.Height)
	ctx.Panel(r, ui2d.ColorPanelBg, ui2d.ColorWhite.WithAlpha(0.1))

	x := r.X + sidebarPad
	inner := r.W - 2*sidebarPad
	y := r.Y + sidebarPad

	closed := ctx.Button("close", ui2d.Rect{X: r.X + r.W - sidebarPad - 24, Y: y, W: 24, H: 24}, "X")

	// Category chip
	cat := strings.ToUpper(string(item.Category))
	cw, ch := c.MeasureText(cat, 1)
	c.DrawRect(x, y, cw+8, ch+4, ui2d.Hex(item.Category.Color()))
	c.DrawText(x+4, y+2, cat, 1, ui2d.ColorBlack)
	y += ch + 12

	titleCols := int((inner - 32) / (glyphW * 2))
	for _, line := range WrapText(item.Title, titleCols, 0) {
		c.DrawText(x, y, line, 2, ui2d.ColorWhite)
		y += glyphH * 2
	}
	y += 12
	c.DrawRect(r.X, y, r.W, 1, ui2d.ColorWhite.WithAlpha(0.1))
	y += sidebarPad

	cols := int(inner / glyphW)
	section := func(title string, body []string, color ui2d.Color) {
		ctx.Label(x, y, title, ui2d.ColorTextDim)
		y += glyphH + 6
		for _, line := range body {
			ctx.Label(x, y, line, color)
			y += glyphH + 3
		}
		y += 18
	}

	section("LOCATION", []string{Truncate(item.LocationName, cols)}, ui2d.ColorText)
	section("SUMMARY", WrapText(item.Summary, cols, 0), ui2d.ColorText.Darken(0.1))
	if item.URL != "" {
		section("SOURCE", WrapText(item.URL, cols, 3), ui2d.ColorHighlight)
	}

	c.DrawRect(x, y, inner, 1, ui2d.ColorWhite.WithAlpha(0.05))
	y += 12
	footer := Attribution
	if !item.Timestamp.IsZero() {
		footer += " - " + item.Timestamp.Local().Format("2006-01-02 15:04")
	}
	for _, line := range WrapText(footer, cols, 0) {
		ctx.Label(x, y, line, ui2d.ColorTextDim.Darken(0.3))
		y += glyphH + 3
	}
	return closed
}

func (Overlay) loading(ctx *ui2d.Context, s State) {
	c := ctx.Canvas()
	full := ui2d.Rect{W: s.Width, H: s.Height}
	ctx.Panel(full, ui2d.ColorBlack.WithAlpha(0.8), ui2d.ColorTransparent)

	cx, cy := s.Width/2, s.Height/2-20
	// Spinner: a ring with a gap that turns once a second.
	const segments = 24
	start := gomath.Mod(s.Time, 1) * 2 * gomath.Pi
	for i := 0; i < segments-6; i++ {
		a0 := start + float64(i)*2*gomath.Pi/segments
		a1 := a0 + 2*gomath.Pi/segments
		c.DrawLine(
			cx+spinnerRadius*float32(gomath.Cos(a0)), cy+spinnerRadius*float32(gomath.Sin(a0)),
			cx+spinnerRadius*float32(gomath.Cos(a1)), cy+spinnerRadius*float32(gomath.Sin(a1)),
			4, ui2d.ColorHighlight,
		)
	}
	ctx.LabelCentered(0, cy+spinnerRadius+24, s.Width, LoadingMessage, 2, ui2d.ColorWhite)
}
