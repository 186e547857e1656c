package news

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Faultbox/globalpulse/pkg/geo"
)

// Defaults for fields the model left empty.
const (
	DefaultTitle    = "Unknown event"
	DefaultSummary  = "No details available."
	DefaultLocation = "Unknown location"
)

var (
	jsonFence = regexp.MustCompile("(?s)```json[ \t]*\r?\n(.*?)\r?\n[ \t]*```")
	anyFence  = regexp.MustCompile("(?s)```[A-Za-z]*(.*?)```")
)

// ErrNoItems is returned when the response holds no JSON array.
var ErrNoItems = errors.New("news: response contains no item array")

// NewID returns a fresh item identity.
func NewID() string {
	return uuid.NewString()
}

// ExtractJSON returns the payload of the first ```json block, else of the
// first fenced block of any kind, else the trimmed text itself.
func ExtractJSON(text string) string {
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := anyFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// ParseItems decodes a model response into items. Each item gets an id
// from newID and the timestamp now. Coordinates that are missing or not
// numeric become 0. Elements that are not JSON objects are skipped.
func ParseItems(text string, now time.Time, newID func() string) ([]Item, error) {
	if newID == nil {
		newID = NewID
	}

	payload := ExtractJSON(text)
	if payload == "" {
		return nil, ErrNoItems
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("decode item array: %w", err)
	}

	items := make([]Item, 0, len(raw))
	for _, msg := range raw {
		var r rawItem
		if err := json.Unmarshal(msg, &r); err != nil {
			continue
		}
		items = append(items, r.item(newID(), now))
	}
	return items, nil
}

// AssignSources gives item i the URI at i modulo len(uris). Empty entries
// leave the item without a URL.
func AssignSources(items []Item, uris []string) {
	if len(uris) == 0 {
		return
	}
	for i := range items {
		items[i].URL = uris[i%len(uris)]
	}
}

type rawItem struct {
	Title        looseString `json:"title"`
	Summary      looseString `json:"summary"`
	Category     looseString `json:"category"`
	LocationName looseString `json:"locationName"`
	Coordinates  rawCoords   `json:"coordinates"`
}

func (r rawItem) item(id string, now time.Time) Item {
	coords, _ := geo.Sanitize(geo.Coordinate{
		Lat: float64(r.Coordinates.Lat),
		Lon: float64(r.Coordinates.Lon),
	})
	return Item{
		ID:           id,
		Title:        orDefault(string(r.Title), DefaultTitle),
		Summary:      orDefault(string(r.Summary), DefaultSummary),
		Category:     ParseCategory(string(r.Category)),
		LocationName: orDefault(string(r.LocationName), DefaultLocation),
		Coordinates:  coords,
		Timestamp:    now,
	}
}

type rawCoords struct {
	Lat looseFloat `json:"lat"`
	Lon looseFloat `json:"lon"`
}

// UnmarshalJSON accepts anything; non-objects leave the coordinates at 0.
func (c *rawCoords) UnmarshalJSON(b []byte) error {
	var fields map[string]looseFloat
	if err := json.Unmarshal(b, &fields); err != nil {
		*c = rawCoords{}
		return nil
	}
	*c = rawCoords{Lat: fields["lat"], Lon: fields["lon"]}
	return nil
}

// looseFloat decodes numbers and numeric strings; anything else is 0.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*f = 0
		return nil
	}
	switch x := v.(type) {
	case float64:
		*f = looseFloat(x)
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			p = 0
		}
		*f = looseFloat(p)
	default:
		*f = 0
	}
	return nil
}

// looseString decodes strings; anything else is empty.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		*s = ""
		return nil
	}
	*s = looseString(strings.TrimSpace(v))
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
