// Package callout builds the elbow-shaped leader line that connects a point on
// the globe surface to its floating label: surface -> raised knee -> sideways anchor.
package callout

import (
	"errors"
	"fmt"
	gomath "math"
	"math/rand/v2"

	"github.com/Faultbox/globalpulse/pkg/math"
)

// PoleThreshold is the squared length of worldUp x normal below which the
// normal is treated as parallel to worldUp and the fallback axis is used.
// For a unit normal this is sin^2 of its angle to the pole (about 18.4 degrees).
const PoleThreshold = 0.1

var (
	worldUp    = math.AxisY
	worldRight = math.AxisX
)

// Precondition failures.
var (
	ErrInvalidRadius     = errors.New("callout: radius must be finite and > 0")
	ErrInvalidParams     = errors.New("callout: altitude factor must be > 1 and arm length > 0")
	ErrDegenerateSurface = errors.New("callout: surface point has zero length")
)

// Params are the per-marker random draws. They are drawn once when a marker
// is created and reused for every rebuild of its geometry.
type Params struct {
	AltitudeFactor float32 // knee distance from centre, as a multiple of the radius
	ArmLength      float32 // tangential offset from knee to anchor, world units
}

// Ranges bounds the uniform draws for Params.
type Ranges struct {
	AltitudeMin float32 `yaml:"altitude_min"`
	AltitudeMax float32 `yaml:"altitude_max"`
	ArmMin      float32 `yaml:"arm_min"`
	ArmMax      float32 `yaml:"arm_max"`
}

// DefaultRanges returns altitude [1.5, 1.8] and arm [0.3, 0.5].
func DefaultRanges() Ranges {
	return Ranges{
		AltitudeMin: 1.5,
		AltitudeMax: 1.8,
		ArmMin:      0.3,
		ArmMax:      0.5,
	}
}

// Validate checks that the ranges can only produce valid Params.
func (r Ranges) Validate() error {
	if !(r.AltitudeMin > 1) || r.AltitudeMax < r.AltitudeMin {
		return fmt.Errorf("altitude range [%v, %v]: %w", r.AltitudeMin, r.AltitudeMax, ErrInvalidParams)
	}
	if !(r.ArmMin > 0) || r.ArmMax < r.ArmMin {
		return fmt.Errorf("arm range [%v, %v]: %w", r.ArmMin, r.ArmMax, ErrInvalidParams)
	}
	return nil
}

// Draw picks Params uniformly within the ranges.
func (r Ranges) Draw(rng *rand.Rand) Params {
	return Params{
		AltitudeFactor: r.AltitudeMin + rng.Float32()*(r.AltitudeMax-r.AltitudeMin),
		ArmLength:      r.ArmMin + rng.Float32()*(r.ArmMax-r.ArmMin),
	}
}

// Validate reports whether the params satisfy the knee/arm invariants.
func (p Params) Validate() error {
	if !(p.AltitudeFactor > 1) || !(p.ArmLength > 0) ||
		gomath.IsInf(float64(p.AltitudeFactor), 0) || gomath.IsInf(float64(p.ArmLength), 0) {
		return ErrInvalidParams
	}
	return nil
}

// Geometry is the three-point callout polyline.
type Geometry struct {
	Surface math.Vec3 // on the sphere
	Knee    math.Vec3 // raised along the surface normal
	Anchor  math.Vec3 // knee offset along the local tangent; the label sits here
}

// Points returns the polyline in drawing order.
func (g Geometry) Points() [3]math.Vec3 {
	return [3]math.Vec3{g.Surface, g.Knee, g.Anchor}
}

// Arm returns the knee-to-anchor vector.
func (g Geometry) Arm() math.Vec3 {
	return g.Anchor.Sub(g.Knee)
}

// Build derives the callout for a surface point on a sphere of the given radius.
func Build(surface math.Vec3, radius float32, p Params) (Geometry, error) {
	if !(radius > 0) || gomath.IsInf(float64(radius), 0) {
		return Geometry{}, ErrInvalidRadius
	}
	if err := p.Validate(); err != nil {
		return Geometry{}, err
	}
	if !surface.IsFinite() || surface.LengthSq() == 0 {
		return Geometry{}, ErrDegenerateSurface
	}

	normal := surface.Normalize()
	knee := surface.Add(normal.Scale(p.AltitudeFactor*radius - radius))

	tangent, _ := Tangent(normal)
	anchor := knee.Add(tangent.Scale(p.ArmLength))

	return Geometry{Surface: surface, Knee: knee, Anchor: anchor}, nil
}

// Tangent returns a unit vector orthogonal to the unit normal. Near the poles
// worldUp x normal vanishes, so worldRight is used instead; fallback reports that case.
func Tangent(normal math.Vec3) (tangent math.Vec3, fallback bool) {
	t := worldUp.Cross(normal)
	if t.LengthSq() < PoleThreshold {
		return worldRight.Cross(normal).Normalize(), true
	}
	return t.Normalize(), false
}
