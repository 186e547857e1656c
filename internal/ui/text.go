// Package ui draws the 2D overlay on top of the globe: label cards, the
// header, the detail sidebar and status overlays.
package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Faultbox/globalpulse/pkg/geo"
)

const ellipsis = "..."

// Truncate shortens s to at most cols runes, ending in "..." when cut.
func Truncate(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= cols {
		return s
	}
	r := []rune(s)
	if cols <= len(ellipsis) {
		return string(r[:cols])
	}
	return strings.TrimRight(string(r[:cols-len(ellipsis)]), " ") + ellipsis
}

// WrapText breaks s into lines of at most cols runes on word boundaries.
// Words longer than a line are split. With maxLines > 0 the output is
// clamped and the last line ends in "..." if text was dropped.
func WrapText(s string, cols, maxLines int) []string {
	if cols <= 0 {
		return nil
	}

	var lines []string
	var cur []rune
	flush := func() {
		lines = append(lines, string(cur))
		cur = cur[:0]
	}

	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > 0 {
			switch {
			case len(cur) == 0 && len(w) <= cols:
				cur = append(cur, w...)
				w = nil
			case len(cur) > 0 && len(cur)+1+len(w) <= cols:
				cur = append(append(cur, ' '), w...)
				w = nil
			case len(cur) > 0:
				flush()
			default:
				cur = append(cur, w[:cols]...)
				w = w[cols:]
				flush()
			}
		}
	}
	if len(cur) > 0 {
		flush()
	}

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last)+len(ellipsis) > cols {
			last = last[:max(0, cols-len(ellipsis))]
		}
		lines[maxLines-1] = strings.TrimRight(string(last), " ") + ellipsis
	}
	return lines
}

// HourLabel formats the hour of t the way cards show it, e.g. "9:00".
func HourLabel(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return fmt.Sprintf("%d:00", t.Hour())
}

// CoordinateLabel formats c with hemisphere letters, e.g. "35.68N 139.65E".
func CoordinateLabel(c geo.Coordinate) string {
	ns, ew := 'N', 'E'
	lat, lon := c.Lat, c.Lon
	if lat < 0 {
		ns, lat = 'S', -lat
	}
	if lon < 0 {
		ew, lon = 'W', -lon
	}
	return fmt.Sprintf("%.2f%c %.2f%c", lat, ns, lon, ew)
}
