package ui

import (
	"strings"

	"github.com/Faultbox/globalpulse/internal/engine/ui2d"
	"github.com/Faultbox/globalpulse/internal/globe/marker"
	"github.com/Faultbox/globalpulse/internal/globe/scene"
)

// Card metrics in unscaled pixels. Glyphs are 7x13.
const (
	CardWidth        = 150
	CardPadding      = 4
	CardBorder       = 2
	CardTitleLines   = 2
	CardSummaryLines = 3
	CardCategoryCols = 10
	cardGap          = 2 // between sections
	glyphW           = 7
	glyphH           = 13
)

// CardCols is the number of text columns inside a card.
const CardCols = (CardWidth - 2*CardPadding - CardBorder) / glyphW

// CardContent is the text of one label card.
type CardContent struct {
	Category string
	Hour     string
	Title    []string
	Summary  []string // only when hovered or selected
}

// Layout returns the card text for m.
func Layout(m *marker.Marker) CardContent {
	c := CardContent{
		Category: Truncate(strings.ToUpper(string(m.Item.Category)), CardCategoryCols),
		Hour:     HourLabel(m.Item.Timestamp),
		Title:    WrapText(m.Item.Title, CardCols, CardTitleLines),
	}
	if m.Hovered || m.Selected {
		c.Summary = WrapText(m.Item.Summary, CardCols, CardSummaryLines)
	}
	return c
}

// Height returns the unscaled card height.
func (c CardContent) Height() float32 {
	h := float32(2*CardPadding + glyphH + cardGap + len(c.Title)*glyphH)
	if len(c.Summary) > 0 {
		h += float32(cardGap + len(c.Summary)*glyphH)
	}
	return h
}

// Cards sizes and draws label cards. It implements scene.CardMeasurer.
type Cards struct{}

// CardSize implements scene.CardMeasurer.
func (Cards) CardSize(m *marker.Marker) (float32, float32) {
	return CardWidth, Layout(m).Height()
}

// Draw renders every visible label of f back to front.
func (Cards) Draw(c ui2d.Canvas, f scene.Frame) {
	for _, i := range f.Order {
		l := f.Labels[i]
		if !l.Visible {
			continue
		}
		drawCard(c, l)
		ui2d.Flush(c)
	}
}

func drawCard(c ui2d.Canvas, l scene.Label) {
	m := l.Marker
	content := Layout(m)
	s := l.Scale
	r := l.Card
	accent := ui2d.Hex(m.Color).Fade(l.Opacity)

	// Connector dot
	c.DrawRect(r.X-4*s, l.Anchor.Y-1.5*s, 3*s, 3*s, accent)

	c.DrawRect(r.X, r.Y, r.W, r.H, ui2d.ColorBlack.WithAlpha(0.8*l.Opacity))
	c.DrawRect(r.X, r.Y, r.W, r.H, accent.Fade(0.07))
	c.DrawRectOutline(r.X, r.Y, r.W, r.H, 1, accent.Fade(0.2))
	c.DrawRect(r.X, r.Y, CardBorder*s, r.H, accent)

	x := r.X + (CardPadding+CardBorder)*s
	y := r.Y + CardPadding*s
	inner := r.W - (2*CardPadding+CardBorder)*s

	c.DrawText(x, y, content.Category, s, accent)
	hw, _ := c.MeasureText(content.Hour, s)
	c.DrawText(x+inner-hw, y, content.Hour, s, ui2d.ColorTextDim.Fade(l.Opacity))
	y += glyphH * s
	c.DrawRect(x, y+cardGap*s/2, inner, 1, ui2d.ColorWhite.WithAlpha(0.05*l.Opacity))
	y += cardGap * s

	for _, line := range content.Title {
		c.DrawText(x, y, line, s, ui2d.ColorText.Fade(l.Opacity))
		y += glyphH * s
	}

	if len(content.Summary) > 0 {
		c.DrawRect(x, y+cardGap*s/2, inner, 1, ui2d.ColorWhite.WithAlpha(0.05*l.Opacity))
		y += cardGap * s
		for _, line := range content.Summary {
			c.DrawText(x, y, line, s, ui2d.ColorTextDim.Lighten(0.3).Fade(l.Opacity))
			y += glyphH * s
		}
	}
}
