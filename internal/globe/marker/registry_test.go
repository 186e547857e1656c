package marker

import (
	"errors"
	gomath "math"
	"math/rand/v2"
	"testing"

	"github.com/Faultbox/globalpulse/internal/news"
	"github.com/Faultbox/globalpulse/pkg/callout"
	"github.com/Faultbox/globalpulse/pkg/geo"
)

const epsilon = 0.0001

func item(id string, lat, lon float64) news.Item {
	return news.Item{ID: id, Title: id, Category: news.Science, Coordinates: geo.Coordinate{Lat: lat, Lon: lon}}
}

func newTestRegistry(t *testing.T, seed uint64) *Registry {
	t.Helper()
	r, err := NewRegistry(5, callout.DefaultRanges(), rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func ids(ms []*Marker) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID()
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewRegistryInvalidRadius(t *testing.T) {
	for _, radius := range []float32{0, -1, float32(gomath.NaN()), float32(gomath.Inf(1))} {
		_, err := NewRegistry(radius, callout.DefaultRanges(), nil)
		if !errors.Is(err, ErrInvalidRadius) {
			t.Errorf("radius %v: expected ErrInvalidRadius, got %v", radius, err)
		}
	}
}

func TestNewRegistryInvalidRanges(t *testing.T) {
	_, err := NewRegistry(5, callout.Ranges{AltitudeMin: 0.5, AltitudeMax: 0.8, ArmMin: 0.3, ArmMax: 0.5}, nil)
	if !errors.Is(err, callout.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestSyncKeepsPersistingGeometry(t *testing.T) {
	r := newTestRegistry(t, 1)

	r.Sync([]news.Item{item("A", 10, 10), item("B", 20, 20), item("C", -30, 40)})
	b, _ := r.Get("B")
	c, _ := r.Get("C")
	bGeom, cGeom := b.Geometry, c.Geometry

	stats := r.Sync([]news.Item{item("B", 20, 20), item("C", -30, 40), item("D", 50, -60)})

	if stats.Added != 1 || stats.Kept != 2 || stats.Removed != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if _, ok := r.Get("A"); ok {
		t.Error("A should be removed")
	}
	if _, ok := r.Get("D"); !ok {
		t.Error("D should be created")
	}

	b2, _ := r.Get("B")
	c2, _ := r.Get("C")
	if b2.Params != b.Params || c2.Params != c.Params {
		t.Error("persisting markers should keep their params")
	}
	if b2.Geometry != bGeom || c2.Geometry != cGeom {
		t.Error("persisting markers should keep identical geometry")
	}
	if got := ids(r.Markers()); !equalIDs(got, []string{"B", "C", "D"}) {
		t.Errorf("expected input order [B C D], got %v", got)
	}
}

func TestSyncFollowsInputOrder(t *testing.T) {
	r := newTestRegistry(t, 2)
	r.Sync([]news.Item{item("A", 0, 0), item("B", 1, 1), item("C", 2, 2)})
	before, _ := r.Get("A")
	geom := before.Geometry

	r.Sync([]news.Item{item("C", 2, 2), item("A", 0, 0), item("B", 1, 1)})

	if got := ids(r.Markers()); !equalIDs(got, []string{"C", "A", "B"}) {
		t.Errorf("expected [C A B], got %v", got)
	}
	after, _ := r.Get("A")
	if after.Geometry != geom {
		t.Error("reordering must not re-roll geometry")
	}
}

func TestSyncSwapsWholeSet(t *testing.T) {
	r := newTestRegistry(t, 3)
	r.Sync([]news.Item{item("A", 0, 0), item("B", 1, 1)})
	old := r.Markers()

	r.Sync([]news.Item{item("X", 5, 5)})

	if len(old) != 2 || old[0].ID() != "A" || old[1].ID() != "B" {
		t.Errorf("previous marker slice was mutated: %v", ids(old))
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 marker, got %d", r.Len())
	}
}

func TestSyncParamsWithinRanges(t *testing.T) {
	r := newTestRegistry(t, 4)
	items := make([]news.Item, 0, 50)
	for i := 0; i < 50; i++ {
		items = append(items, item(string(rune('a'+i%26))+string(rune('A'+i/26)), float64(i*3-75), float64(i*7-170)))
	}
	r.Sync(items)

	rg := callout.DefaultRanges()
	for _, m := range r.Markers() {
		if m.Params.AltitudeFactor < rg.AltitudeMin || m.Params.AltitudeFactor > rg.AltitudeMax {
			t.Errorf("%s: altitude %v outside range", m.ID(), m.Params.AltitudeFactor)
		}
		if m.Params.ArmLength < rg.ArmMin || m.Params.ArmLength > rg.ArmMax {
			t.Errorf("%s: arm %v outside range", m.ID(), m.Params.ArmLength)
		}
		if m.Geometry.Knee.Length() <= m.Geometry.Surface.Length() {
			t.Errorf("%s: knee not above surface", m.ID())
		}
	}
}

func TestSyncSeededReproducible(t *testing.T) {
	items := []news.Item{item("A", 35.6762, 139.6503), item("B", -3.119, -60.0217)}

	r1 := newTestRegistry(t, 42)
	r2 := newTestRegistry(t, 42)
	r1.Sync(items)
	r2.Sync(items)

	for i, m := range r1.Markers() {
		if m.Geometry != r2.Markers()[i].Geometry {
			t.Errorf("marker %s differs between identically seeded registries", m.ID())
		}
	}
}

func TestSyncDuplicateFirstWins(t *testing.T) {
	r := newTestRegistry(t, 5)
	first := item("A", 10, 10)
	first.Title = "first"
	second := item("A", 20, 20)
	second.Title = "second"

	stats := r.Sync([]news.Item{first, second})

	if r.Len() != 1 || stats.Dropped != 1 {
		t.Fatalf("expected one marker and one drop, got len=%d stats=%+v", r.Len(), stats)
	}
	m, _ := r.Get("A")
	if m.Item.Title != "first" {
		t.Errorf("expected first occurrence to win, got %q", m.Item.Title)
	}
}

func TestSyncDefaultsNonFiniteCoordinates(t *testing.T) {
	r := newTestRegistry(t, 6)
	bad := item("N", gomath.NaN(), gomath.Inf(-1))

	stats := r.Sync([]news.Item{bad, item("OK", 0, 0)})

	if stats.Defaulted != 1 || r.Len() != 2 {
		t.Fatalf("expected defaulted marker to be kept, stats=%+v len=%d", stats, r.Len())
	}
	m, _ := r.Get("N")
	want := geo.Project(0, 0, 5)
	if !m.Geometry.Surface.ApproxEqual(want, epsilon) {
		t.Errorf("expected surface %v, got %v", want, m.Geometry.Surface)
	}
	if !m.Geometry.Anchor.IsFinite() {
		t.Error("anchor must be finite")
	}
}

func TestSyncMovedItemKeepsParams(t *testing.T) {
	r := newTestRegistry(t, 7)
	r.Sync([]news.Item{item("A", 10, 10)})
	old, _ := r.Get("A")
	params, geom := old.Params, old.Geometry
	r.SetHovered("A", true)
	held := r.Markers()

	stats := r.Sync([]news.Item{item("A", -40, 100)})

	if stats.Rebuilt != 1 {
		t.Errorf("expected one rebuild, got %+v", stats)
	}
	if held[0].Geometry != geom || held[0].Item.Coordinates != (geo.Coordinate{Lat: 10, Lon: 10}) {
		t.Error("markers from the previous set must not change")
	}
	m, _ := r.Get("A")
	if m == old {
		t.Error("a moved marker should be a new value")
	}
	if !m.Hovered {
		t.Error("hover should carry over")
	}
	if m.Params != params {
		t.Error("params must not be re-rolled")
	}
	if m.Geometry == geom {
		t.Error("geometry should follow the new coordinates")
	}
	if !m.Geometry.Surface.ApproxEqual(geo.Project(-40, 100, 5), epsilon) {
		t.Errorf("unexpected surface %v", m.Geometry.Surface)
	}
}

func TestCategoryColor(t *testing.T) {
	r := newTestRegistry(t, 8)
	a := item("A", 0, 0)
	a.Category = news.Politics
	u := item("U", 0, 0)
	u.Category = news.Category("Weather")
	r.Sync([]news.Item{a, u})

	if m, _ := r.Get("A"); m.Color != 0xef4444 {
		t.Errorf("expected politics colour, got %06x", m.Color)
	}
	if m, _ := r.Get("U"); m.Color != 0xffffff {
		t.Errorf("expected neutral colour for unknown category, got %06x", m.Color)
	}
}

func TestSelection(t *testing.T) {
	r := newTestRegistry(t, 9)
	r.Sync([]news.Item{item("A", 0, 0), item("B", 1, 1)})

	if _, ok := r.Selected(); ok {
		t.Error("nothing should be selected initially")
	}

	r.SetSelected("A")
	r.SetSelected("B")
	a, _ := r.Get("A")
	b, _ := r.Get("B")
	if a.Selected || !b.Selected {
		t.Error("selecting B should replace A")
	}
	if id, ok := r.Selected(); !ok || id != "B" {
		t.Errorf("expected B selected, got %q %v", id, ok)
	}

	r.SetSelected("")
	if a.Selected || b.Selected {
		t.Error("empty id should clear the selection")
	}
}

func TestSelectionAppliesToLaterItems(t *testing.T) {
	r := newTestRegistry(t, 10)
	r.SetSelected("Z")
	r.Sync([]news.Item{item("A", 0, 0), item("Z", 3, 3)})

	z, _ := r.Get("Z")
	if !z.Selected {
		t.Error("marker created for the selected id should be selected")
	}
}

func TestHover(t *testing.T) {
	r := newTestRegistry(t, 11)
	r.Sync([]news.Item{item("A", 0, 0), item("B", 1, 1)})

	r.SetHovered("A", true)
	r.SetHovered("missing", true)
	a, _ := r.Get("A")
	if !a.Hovered {
		t.Error("A should be hovered")
	}

	r.SetHovered("B", true)
	r.ClearHover()
	for _, m := range r.Markers() {
		if m.Hovered {
			t.Errorf("%s still hovered after ClearHover", m.ID())
		}
	}
}

func TestSetRadius(t *testing.T) {
	r := newTestRegistry(t, 12)
	r.Sync([]news.Item{item("A", 35, 139), item("B", -60, 20)})
	a, _ := r.Get("A")
	params, geom := a.Params, a.Geometry

	if err := r.SetRadius(8); err != nil {
		t.Fatalf("SetRadius: %v", err)
	}
	if a.Geometry != geom {
		t.Error("markers from before the radius change must not change")
	}
	a2, _ := r.Get("A")
	if a2.Params != params {
		t.Error("params must survive a radius change")
	}
	for _, m := range r.Markers() {
		if d := gomath.Abs(float64(m.Geometry.Surface.Length() - 8)); d > 0.001 {
			t.Errorf("%s: surface not on new sphere (off by %v)", m.ID(), d)
		}
	}

	if err := r.SetRadius(0); !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("expected ErrInvalidRadius, got %v", err)
	}
	if r.Radius() != 8 {
		t.Errorf("failed SetRadius should not change radius, got %v", r.Radius())
	}
}
