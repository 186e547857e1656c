// Package scene composes the globe, its markers, the auto-rotation and the
// orbit camera into render-ready frames, and turns pointer input into
// selection callbacks.
package scene

import (
	gomath "math"
	"math/rand/v2"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/globalpulse/internal/engine/camera"
	"github.com/Faultbox/globalpulse/internal/engine/picking"
	"github.com/Faultbox/globalpulse/internal/globe/marker"
	"github.com/Faultbox/globalpulse/internal/globe/rotation"
	"github.com/Faultbox/globalpulse/internal/logger"
	"github.com/Faultbox/globalpulse/internal/news"
	"github.com/Faultbox/globalpulse/pkg/callout"
	"github.com/Faultbox/globalpulse/pkg/geo"
	"github.com/Faultbox/globalpulse/pkg/math"
)

// Label appearance constants.
const (
	LabelDistanceFactor = 10   // card scale is LabelDistanceFactor / distance to the anchor
	LabelMinScale       = 0.5  // card scale clamp
	LabelMaxScale       = 2.0  // card scale clamp
	LabelOffset         = 5    // px between anchor and card, before scaling
	LabelActiveScale    = 1.1  // hovered or selected cards grow by this factor
	OccludedOpacity     = 0.15 // label opacity when behind the globe
)

// Callbacks connect the composer to the host UI, which owns selection.
type Callbacks struct {
	OnNewsSelect func(item news.Item)
	OnDeselect   func()
}

// CardMeasurer returns the unscaled pixel size of a marker's label card.
type CardMeasurer interface {
	CardSize(m *marker.Marker) (w, h float32)
}

// FixedCardSize measures every card the same.
type FixedCardSize struct {
	W, H float32
}

// CardSize implements CardMeasurer.
func (f FixedCardSize) CardSize(*marker.Marker) (float32, float32) {
	return f.W, f.H
}

// Options configure a Composer.
type Options struct {
	Radius    float32
	Tilt      float32 // globe tilt about Z, radians
	FOV       float32 // vertical field of view, degrees
	Near, Far float32
	Ranges    callout.Ranges
	Profile   rotation.Profile
	Rand      *rand.Rand
	Camera    *camera.OrbitCamera
	Measure   CardMeasurer
	ClickSlop float32 // px of pointer travel that still counts as a click
}

// DefaultOptions returns the standard globe scene.
func DefaultOptions() Options {
	return Options{
		Radius:    5,
		Tilt:      0.2,
		FOV:       45,
		Near:      0.1,
		Far:       1000,
		Ranges:    callout.DefaultRanges(),
		Profile:   rotation.DefaultProfile(),
		Measure:   FixedCardSize{W: 120, H: 36},
		ClickSlop: 4,
	}
}

// Composer owns the marker registry, rotation controller and camera.
// All methods are called from the frame loop.
type Composer struct {
	registry *marker.Registry
	rotation *rotation.Controller
	camera   *camera.OrbitCamera
	model    math.Mat4
	modelInv math.Mat4
	opts     Options
	cb       Callbacks

	state rotation.State
	last  Frame

	pointer pointerState
	log     *zap.Logger
}

type pointerState struct {
	down      bool
	inside    bool
	x, y      float32
	travel    float32
	hoveredID string
}

// New creates a composer.
func New(opts Options, cb Callbacks) (*Composer, error) {
	reg, err := marker.NewRegistry(opts.Radius, opts.Ranges, opts.Rand)
	if err != nil {
		return nil, err
	}
	cam := opts.Camera
	if cam == nil {
		cam = camera.NewOrbitCamera()
	}
	if opts.Measure == nil {
		opts.Measure = DefaultOptions().Measure
	}

	c := &Composer{
		registry: reg,
		rotation: rotation.NewController(opts.Profile),
		camera:   cam,
		model:    math.RotateZ(opts.Tilt),
		opts:     opts,
		cb:       cb,
		log:      logger.Named("scene"),
	}
	// The model is a pure rotation and always inverts.
	c.modelInv, _ = c.model.Inverse()
	c.state = c.rotation.State(false)
	rotation.ApplyTo(c.camera, c.state)
	return c, nil
}

// Registry returns the marker registry.
func (c *Composer) Registry() *marker.Registry {
	return c.registry
}

// Camera returns the orbit camera.
func (c *Composer) Camera() *camera.OrbitCamera {
	return c.camera
}

// Model returns the globe model transform.
func (c *Composer) Model() math.Mat4 {
	return c.model
}

// Radius returns the globe radius.
func (c *Composer) Radius() float32 {
	return c.registry.Radius()
}

// Rotation returns the rotation state of the last Update.
func (c *Composer) Rotation() rotation.State {
	return c.state
}

// SetNews swaps in a complete batch of items. A frame already built is
// rebuilt so hit tests only see the new markers.
func (c *Composer) SetNews(items []news.Item) marker.SyncStats {
	stats := c.registry.Sync(items)
	if c.pointer.hoveredID != "" {
		if _, ok := c.registry.Get(c.pointer.hoveredID); !ok {
			c.pointer.hoveredID = ""
		}
	}
	if c.last.Width > 0 && c.last.Height > 0 {
		c.Frame(int(c.last.Width), int(c.last.Height))
	}
	return stats
}

// SetSelected mirrors the host's selection. Empty id means none.
func (c *Composer) SetSelected(id string) {
	if cur, _ := c.registry.Selected(); cur == id {
		return
	}
	c.registry.SetSelected(id)
	c.log.Debug("selection changed", zap.String("id", id))
}

// Update advances rotation and camera by dt seconds.
func (c *Composer) Update(dt float64) rotation.State {
	_, selected := c.registry.Selected()
	c.state = c.rotation.Update(dt, selected)
	rotation.ApplyTo(c.camera, c.state)
	if dt > 0 && !gomath.IsInf(dt, 0) {
		c.camera.Update(float32(dt))
	} else {
		c.camera.Update(0)
	}
	return c.state
}

// Rect is a screen rectangle in pixels, origin top-left.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Label is one marker prepared for drawing.
type Label struct {
	Marker   *marker.Marker
	World    [3]math.Vec3 // callout points after the model transform
	Anchor   picking.ScreenPoint
	Card     Rect
	Scale    float32
	Opacity  float32
	Visible  bool // anchor projects in front of the camera
	Occluded bool // anchor is behind the globe
}

// Interactive reports whether the label can be hovered or clicked.
func (l Label) Interactive() bool {
	return l.Visible && !l.Occluded
}

// Frame is everything the renderer needs for one frame.
type Frame struct {
	Width, Height float32
	View          math.Mat4
	Projection    math.Mat4
	Model         math.Mat4
	ViewProj      math.Mat4
	Eye           math.Vec3
	Radius        float32
	Labels        []Label // marker order
	Order         []int   // Labels indices, back to front
}

// Frame builds the frame for a viewport of w×h pixels. The result is kept
// for pointer hit tests until the next call.
func (c *Composer) Frame(w, h int) Frame {
	fw, fh := float32(w), float32(h)
	if fw <= 0 || fh <= 0 {
		fw, fh = 1, 1
	}

	view := c.camera.ViewMatrix()
	fov := c.opts.FOV * gomath.Pi / 180
	proj := math.Perspective(fov, fw/fh, c.opts.Near, c.opts.Far)
	viewProj := proj.Mul(view)
	eye := c.camera.Position()
	radius := c.registry.Radius()

	markers := c.registry.Markers()
	f := Frame{
		Width:      fw,
		Height:     fh,
		View:       view,
		Projection: proj,
		Model:      c.model,
		ViewProj:   viewProj,
		Eye:        eye,
		Radius:     radius,
		Labels:     make([]Label, len(markers)),
		Order:      make([]int, len(markers)),
	}

	for i, m := range markers {
		f.Labels[i] = c.label(m, viewProj, eye, radius, fw, fh)
		f.Order[i] = i
	}

	// Back to front, selected last so it draws on top.
	sort.SliceStable(f.Order, func(a, b int) bool {
		la, lb := f.Labels[f.Order[a]], f.Labels[f.Order[b]]
		if la.Marker.Selected != lb.Marker.Selected {
			return lb.Marker.Selected
		}
		return la.Anchor.Depth > lb.Anchor.Depth
	})

	c.last = f
	return f
}

func (c *Composer) label(m *marker.Marker, viewProj math.Mat4, eye math.Vec3, radius, fw, fh float32) Label {
	pts := m.Geometry.Points()
	var world [3]math.Vec3
	for i, p := range pts {
		world[i] = c.model.TransformVec3(p)
	}
	anchor := world[2]

	l := Label{Marker: m, World: world, Opacity: 1}
	sp, ok := picking.WorldToScreen(anchor, viewProj, fw, fh)
	if !ok {
		return l
	}
	l.Anchor = sp
	l.Visible = true
	l.Occluded = picking.Occluded(eye, anchor, math.Vec3{}, radius)
	if l.Occluded {
		l.Opacity = OccludedOpacity
	}

	dist := eye.Distance(anchor)
	scale := float32(LabelMaxScale)
	if dist > 0 {
		scale = clamp(LabelDistanceFactor/dist, LabelMinScale, LabelMaxScale)
	}
	if m.Hovered || m.Selected {
		scale *= LabelActiveScale
	}
	l.Scale = scale

	cw, ch := c.opts.Measure.CardSize(m)
	l.Card = Rect{
		X: sp.X + LabelOffset*scale,
		Y: sp.Y - ch*scale/2,
		W: cw * scale,
		H: ch * scale,
	}
	return l
}

// LastFrame returns the frame built by the most recent Frame call.
func (c *Composer) LastFrame() Frame {
	return c.last
}

// HitTest returns the top-most interactive label under (x, y) in the last frame.
func (c *Composer) HitTest(x, y float32) (*marker.Marker, bool) {
	f := c.last
	for i := len(f.Order) - 1; i >= 0; i-- {
		l := f.Labels[f.Order[i]]
		if l.Interactive() && l.Card.Contains(x, y) {
			return l.Marker, true
		}
	}
	return nil, false
}

// Pick returns the geographic coordinate of the globe surface under pixel
// (x, y) in the last frame. ok is false when the pixel misses the globe.
func (c *Composer) Pick(x, y float32) (geo.Coordinate, bool) {
	f := c.last
	ray, ok := picking.ScreenToRay(x, y, f.Width, f.Height, f.ViewProj)
	if !ok {
		return geo.Coordinate{}, false
	}
	t, hit := ray.IntersectSphere(math.Vec3{}, f.Radius)
	if !hit {
		return geo.Coordinate{}, false
	}
	return geo.FromSurface(c.modelInv.TransformVec3(ray.At(t)))
}

// PointerCoordinate is Pick at the current pointer position. ok is false
// while the pointer is outside the window.
func (c *Composer) PointerCoordinate() (geo.Coordinate, bool) {
	if !c.pointer.inside {
		return geo.Coordinate{}, false
	}
	return c.Pick(c.pointer.x, c.pointer.y)
}

// PointerMove handles pointer motion: a drag while a button is held, a
// hover update otherwise.
func (c *Composer) PointerMove(x, y float32) {
	dx, dy := x-c.pointer.x, y-c.pointer.y
	c.pointer.x, c.pointer.y = x, y
	c.pointer.inside = true

	if c.pointer.down {
		c.PointerDrag(dx, dy)
		return
	}
	c.updateHover(x, y)
}

func (c *Composer) updateHover(x, y float32) {
	id := ""
	if m, ok := c.HitTest(x, y); ok {
		id = m.ID()
	}
	if id == c.pointer.hoveredID {
		return
	}
	if c.pointer.hoveredID != "" {
		c.registry.SetHovered(c.pointer.hoveredID, false)
	}
	if id != "" {
		c.registry.SetHovered(id, true)
	}
	c.pointer.hoveredID = id
}

// PointerLeave clears hover state when the pointer leaves the window.
func (c *Composer) PointerLeave() {
	c.pointer.inside = false
	c.pointer.hoveredID = ""
	c.registry.ClearHover()
}

// PointerDown starts a potential click or drag at (x, y).
func (c *Composer) PointerDown(x, y float32) {
	c.pointer.down = true
	c.pointer.x, c.pointer.y = x, y
	c.pointer.travel = 0
	c.camera.SetDragging(true)
}

// PointerDrag orbits the camera by a pointer delta in pixels.
func (c *Composer) PointerDrag(dx, dy float32) {
	c.pointer.travel += float32(gomath.Hypot(float64(dx), float64(dy)))
	c.camera.HandleDrag(dx, dy, c.last.Height)
}

// PointerUp ends a press. If the pointer barely moved it is a click: on a
// label it selects that item, elsewhere it deselects.
func (c *Composer) PointerUp(x, y float32) {
	if !c.pointer.down {
		return
	}
	c.pointer.down = false
	c.camera.SetDragging(false)
	c.pointer.x, c.pointer.y = x, y

	if c.pointer.travel > c.opts.ClickSlop {
		return
	}

	if m, ok := c.HitTest(x, y); ok {
		c.log.Debug("label clicked", zap.String("id", m.ID()))
		if c.cb.OnNewsSelect != nil {
			c.cb.OnNewsSelect(m.Item)
		}
		return
	}
	c.deselect()
}

// Close is the explicit close action.
func (c *Composer) Close() {
	c.deselect()
}

func (c *Composer) deselect() {
	if c.cb.OnDeselect != nil {
		c.cb.OnDeselect()
	}
}

// Zoom dollies the camera by wheel steps; positive moves closer.
func (c *Composer) Zoom(delta float32) {
	c.camera.HandleZoom(delta)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
