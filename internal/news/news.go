// Package news provides the world news items shown on the globe and the
// sources that produce them.
package news

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Faultbox/globalpulse/pkg/geo"
)

// ErrNoAPIKey is returned when the Gemini source is built without a key.
var ErrNoAPIKey = errors.New("news: no API key configured")

// Category is the topical class of an item.
type Category string

// Known categories.
const (
	Politics      Category = "Politics"
	Technology    Category = "Technology"
	Business      Category = "Business"
	Science       Category = "Science"
	Sports        Category = "Sports"
	Entertainment Category = "Entertainment"
	General       Category = "General"
)

var categories = []Category{Politics, Technology, Business, Science, Sports, Entertainment, General}

// ParseCategory matches s case-insensitively against the known categories.
// Empty input is General; anything else unknown is kept verbatim.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return General
	}
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return Category(s)
}

// Color returns the category colour as 0xRRGGBB.
func (c Category) Color() uint32 {
	switch c {
	case Politics:
		return 0xef4444
	case Technology:
		return 0x06b6d4
	case Business:
		return 0xeab308
	case Science:
		return 0xa855f7
	case Sports:
		return 0x22c55e
	case Entertainment:
		return 0xec4899
	default:
		return 0xffffff
	}
}

// RGB returns Color as floats in [0,1].
func (c Category) RGB() (r, g, b float32) {
	v := c.Color()
	return float32(v>>16&0xff) / 255, float32(v>>8&0xff) / 255, float32(v&0xff) / 255
}

// Item is one news event. ID is the identity used to track markers
// across refreshes.
type Item struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Summary      string         `json:"summary"`
	Category     Category       `json:"category"`
	LocationName string         `json:"locationName"`
	Coordinates  geo.Coordinate `json:"coordinates"`
	URL          string         `json:"url,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Source produces a complete batch of items.
type Source interface {
	Fetch(ctx context.Context) ([]Item, error)
}
