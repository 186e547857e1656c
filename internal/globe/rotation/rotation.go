// Package rotation drives the globe's automatic spin: a fast intro spin that
// decays exponentially to a slow cruise, halted while a marker is selected.
package rotation

import "math"

// CruiseTolerance is how close to the cruise speed the decay must be before
// the phase reports Cruising.
const CruiseTolerance = 1e-3

// Profile parameterises the speed curve.
type Profile struct {
	InitialSpeed float64 // speed during the intro spin
	CruiseSpeed  float64 // asymptotic speed
	SpinDuration float64 // seconds at InitialSpeed before decay starts
	DecayRate    float64 // exponent per second
}

// DefaultProfile returns the intro spin of 20 decaying to 0.8 after 3s.
func DefaultProfile() Profile {
	return Profile{
		InitialSpeed: 20.0,
		CruiseSpeed:  0.8,
		SpinDuration: 3.0,
		DecayRate:    1.5,
	}
}

// Speed returns the auto-rotate speed at elapsed time t seconds.
func Speed(t float64, p Profile) float64 {
	if t < p.SpinDuration {
		return p.InitialSpeed
	}
	return p.CruiseSpeed + (p.InitialSpeed-p.CruiseSpeed)*math.Exp(-(t-p.SpinDuration)*p.DecayRate)
}

// Phase is the controller state.
type Phase int

// Phases in order of the unsuspended timeline.
const (
	PhaseSpinningUp Phase = iota
	PhaseDecaying
	PhaseCruising
	PhaseSuspended
)

func (p Phase) String() string {
	switch p {
	case PhaseSpinningUp:
		return "spinning-up"
	case PhaseDecaying:
		return "decaying"
	case PhaseCruising:
		return "cruising"
	case PhaseSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// PhaseAt classifies the timeline at elapsed time t.
func PhaseAt(t float64, p Profile, suspended bool) Phase {
	switch {
	case suspended:
		return PhaseSuspended
	case t < p.SpinDuration:
		return PhaseSpinningUp
	case math.Abs(Speed(t, p)-p.CruiseSpeed) < CruiseTolerance:
		return PhaseCruising
	default:
		return PhaseDecaying
	}
}

// State is the controller output for one frame.
type State struct {
	Elapsed   float64
	Speed     float64
	Suspended bool
	Phase     Phase
}

// Controller accumulates elapsed time. Suspension never pauses or resets
// the clock, so resuming continues at the current point of the curve.
type Controller struct {
	profile Profile
	elapsed float64
}

// NewController creates a controller at elapsed time 0.
func NewController(p Profile) *Controller {
	return &Controller{profile: p}
}

// Profile returns the controller's speed profile.
func (c *Controller) Profile() Profile {
	return c.profile
}

// Elapsed returns the accumulated time in seconds.
func (c *Controller) Elapsed() float64 {
	return c.elapsed
}

// Update advances the clock by dt seconds and reports the frame state.
// Negative or non-finite dt leaves the clock unchanged.
func (c *Controller) Update(dt float64, suspended bool) State {
	if dt > 0 && !math.IsInf(dt, 0) {
		c.elapsed += dt
	}
	return c.State(suspended)
}

// State reports the current state without advancing time.
func (c *Controller) State(suspended bool) State {
	return State{
		Elapsed:   c.elapsed,
		Speed:     Speed(c.elapsed, c.profile),
		Suspended: suspended,
		Phase:     PhaseAt(c.elapsed, c.profile, suspended),
	}
}

// AutoRotator is the camera surface the controller drives.
type AutoRotator interface {
	SetAutoRotate(enabled bool, speed float64)
}

// ApplyTo writes one frame's state into the camera. While suspended the
// camera's auto-rotation is disabled outright.
func ApplyTo(cam AutoRotator, st State) {
	cam.SetAutoRotate(!st.Suspended, st.Speed)
}
