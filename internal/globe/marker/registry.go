// Package marker keeps one callout marker per news item identity.
package marker

import (
	"fmt"
	gomath "math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/globalpulse/internal/logger"
	"github.com/Faultbox/globalpulse/internal/news"
	"github.com/Faultbox/globalpulse/pkg/callout"
	"github.com/Faultbox/globalpulse/pkg/geo"
)

// ErrInvalidRadius is returned for a non-positive or non-finite globe radius.
var ErrInvalidRadius = callout.ErrInvalidRadius

// Marker is the state of one news item on the globe.
type Marker struct {
	Item     news.Item
	Params   callout.Params
	Geometry callout.Geometry
	Color    uint32
	Hovered  bool
	Selected bool
}

// ID returns the identity of the marker's item.
func (m *Marker) ID() string {
	return m.Item.ID
}

// SyncStats summarises one Sync call.
type SyncStats struct {
	Added     int
	Kept      int
	Removed   int
	Rebuilt   int // kept markers whose coordinates changed
	Dropped   int // items rejected as duplicates or unbuildable
	Defaulted int // items whose non-finite coordinates became 0
}

// Registry owns the marker set. It is not safe for concurrent use; the
// frame loop is its only writer.
type Registry struct {
	radius   float32
	ranges   callout.Ranges
	rng      *rand.Rand
	markers  []*Marker
	byID     map[string]*Marker
	selected string
	log      *zap.Logger
}

// NewRegistry creates an empty registry for a globe of the given radius.
// rng supplies the per-marker callout draws.
func NewRegistry(radius float32, ranges callout.Ranges, rng *rand.Rand) (*Registry, error) {
	if err := checkRadius(radius); err != nil {
		return nil, err
	}
	if err := ranges.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Registry{
		radius: radius,
		ranges: ranges,
		rng:    rng,
		byID:   make(map[string]*Marker),
		log:    logger.Named("markers"),
	}, nil
}

func checkRadius(radius float32) error {
	if !(radius > 0) || gomath.IsInf(float64(radius), 1) {
		return fmt.Errorf("radius %v: %w", radius, ErrInvalidRadius)
	}
	return nil
}

// Radius returns the current globe radius.
func (r *Registry) Radius() float32 {
	return r.radius
}

// Sync replaces the marker set with one marker per item, in item order.
// Markers whose identity persists carry over their params, flags and, unless
// the item moved, their geometry; new identities get fresh params. Every
// marker in the new set is a new value, so slices returned earlier keep
// their contents. The new set becomes visible only once fully built.
func (r *Registry) Sync(items []news.Item) SyncStats {
	var stats SyncStats

	next := make([]*Marker, 0, len(items))
	nextByID := make(map[string]*Marker, len(items))

	for _, item := range items {
		if _, dup := nextByID[item.ID]; dup {
			r.log.Warn("duplicate news id dropped", zap.String("id", item.ID))
			stats.Dropped++
			continue
		}

		coords, defaulted := geo.Sanitize(item.Coordinates)
		if defaulted {
			r.log.Warn("non-finite coordinates defaulted to 0",
				zap.String("id", item.ID),
				zap.Float64("lat", item.Coordinates.Lat),
				zap.Float64("lon", item.Coordinates.Lon))
			stats.Defaulted++
			item.Coordinates = coords
		} else if !coords.InRange() {
			r.log.Debug("coordinates outside lat/lon range",
				zap.String("id", item.ID),
				zap.Float64("lat", coords.Lat),
				zap.Float64("lon", coords.Lon))
		}

		if prev, ok := r.byID[item.ID]; ok {
			m := &Marker{
				Item:     item,
				Params:   prev.Params,
				Geometry: prev.Geometry,
				Color:    item.Category.Color(),
				Hovered:  prev.Hovered,
				Selected: prev.Selected,
			}
			if prev.Item.Coordinates != item.Coordinates {
				g, err := r.build(item.Coordinates, m.Params)
				if err != nil {
					r.log.Warn("marker dropped", zap.String("id", item.ID), zap.Error(err))
					stats.Dropped++
					continue
				}
				m.Geometry = g
				stats.Rebuilt++
			}
			next = append(next, m)
			nextByID[item.ID] = m
			stats.Kept++
			continue
		}

		params := r.ranges.Draw(r.rng)
		g, err := r.build(item.Coordinates, params)
		if err != nil {
			r.log.Warn("marker dropped", zap.String("id", item.ID), zap.Error(err))
			stats.Dropped++
			continue
		}
		m := &Marker{
			Item:     item,
			Params:   params,
			Geometry: g,
			Color:    item.Category.Color(),
			Selected: item.ID == r.selected && r.selected != "",
		}
		next = append(next, m)
		nextByID[item.ID] = m
		stats.Added++
	}

	for id := range r.byID {
		if _, ok := nextByID[id]; !ok {
			stats.Removed++
		}
	}

	r.markers = next
	r.byID = nextByID

	r.log.Debug("markers synced",
		zap.Int("added", stats.Added),
		zap.Int("kept", stats.Kept),
		zap.Int("removed", stats.Removed),
		zap.Int("dropped", stats.Dropped))
	return stats
}

func (r *Registry) build(c geo.Coordinate, p callout.Params) (callout.Geometry, error) {
	return callout.Build(c.Project(r.radius), r.radius, p)
}

// SetRadius changes the globe radius and rebuilds every marker with its
// stored params.
func (r *Registry) SetRadius(radius float32) error {
	if err := checkRadius(radius); err != nil {
		return err
	}
	r.radius = radius

	next := make([]*Marker, 0, len(r.markers))
	nextByID := make(map[string]*Marker, len(r.markers))
	for _, prev := range r.markers {
		g, err := r.build(prev.Item.Coordinates, prev.Params)
		if err != nil {
			r.log.Warn("marker dropped", zap.String("id", prev.ID()), zap.Error(err))
			continue
		}
		m := *prev
		m.Geometry = g
		next = append(next, &m)
		nextByID[m.ID()] = &m
	}
	r.markers = next
	r.byID = nextByID
	return nil
}

// SetSelected marks id as the single selected marker. Empty id clears the
// selection. The id need not be present; it applies if it appears later.
func (r *Registry) SetSelected(id string) {
	r.selected = id
	for _, m := range r.markers {
		m.Selected = id != "" && m.ID() == id
	}
}

// Selected returns the selected id, if any.
func (r *Registry) Selected() (string, bool) {
	return r.selected, r.selected != ""
}

// SetHovered sets the hover flag of one marker. Unknown ids are ignored.
func (r *Registry) SetHovered(id string, hovered bool) {
	if m, ok := r.byID[id]; ok {
		m.Hovered = hovered
	}
}

// ClearHover resets every hover flag, as on pointer-leave.
func (r *Registry) ClearHover() {
	for _, m := range r.markers {
		m.Hovered = false
	}
}

// Markers returns the markers in input order. Sync and SetRadius replace
// the slice and its markers rather than mutate them, so callers may hold it
// for the rest of a frame.
func (r *Registry) Markers() []*Marker {
	return r.markers
}

// Get returns the marker for id.
func (r *Registry) Get(id string) (*Marker, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// Len returns the number of markers.
func (r *Registry) Len() int {
	return len(r.markers)
}
