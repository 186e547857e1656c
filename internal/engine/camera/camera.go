// Package camera provides the orbit camera used to view the globe.
package camera

import (
	gomath "math"

	"github.com/Faultbox/globalpulse/pkg/math"
)

const twoPi = 2 * gomath.Pi

// OrbitCamera orbits around a target point. Drag input accumulates as a
// delta that is applied gradually when Damping is set. Auto-rotation turns
// the camera directly and stops as soon as it is switched off.
type OrbitCamera struct {
	Target math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from target
	Pitch    float32 // Elevation above the XZ plane (radians)
	Yaw      float32 // Azimuth about +Y (radians); 0 looks down -Z

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	RotateSpeed float32 // full viewport-height drag = RotateSpeed turns
	ZoomSpeed   float32
	Damping     float32 // fraction of pending drag rotation applied per frame; 0 disables

	// Auto-rotation, in turns per minute at speed 1 (ω = 2π/60·speed rad/s)
	AutoRotate      bool
	AutoRotateSpeed float64

	yawDelta   float32
	pitchDelta float32
	dragging   bool
}

// NewOrbitCamera creates a camera at (0, 0, 14) looking at the origin.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:    14,
		MinDistance: 7,
		MaxDistance: 20,
		MinPitch:    -gomath.Pi/2 + 0.01,
		MaxPitch:    gomath.Pi/2 - 0.01,
		RotateSpeed: 0.5,
		ZoomSpeed:   1,
		Damping:     0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cosP := gomath.Cos(float64(c.Pitch))
	x := c.Distance * float32(cosP*gomath.Sin(float64(c.Yaw)))
	y := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	z := c.Distance * float32(cosP*gomath.Cos(float64(c.Yaw)))

	return c.Target.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.AxisY)
}

// SetAutoRotate enables or disables auto-rotation at the given speed.
func (c *OrbitCamera) SetAutoRotate(enabled bool, speed float64) {
	c.AutoRotate = enabled
	c.AutoRotateSpeed = speed
}

// SetDragging marks a drag as in progress. Auto-rotation holds while dragging.
func (c *OrbitCamera) SetDragging(dragging bool) {
	c.dragging = dragging
}

// Dragging reports whether a drag is in progress.
func (c *OrbitCamera) Dragging() bool {
	return c.dragging
}

// HandleDrag queues rotation from a pointer drag of (deltaX, deltaY) pixels
// in a viewport viewportH pixels tall.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY, viewportH float32) {
	if viewportH <= 0 {
		return
	}
	c.yawDelta -= twoPi * deltaX / viewportH * c.RotateSpeed
	c.pitchDelta += twoPi * deltaY / viewportH * c.RotateSpeed
}

// HandleZoom dollies toward the target for positive delta (wheel steps).
func (c *OrbitCamera) HandleZoom(delta float32) {
	scale := float32(gomath.Pow(0.95, float64(c.ZoomSpeed*delta)))
	if scale <= 0 {
		return
	}
	c.Distance *= scale
	c.clampDistance()
}

// Update applies auto-rotation and pending drag rotation for a frame of dt seconds.
func (c *OrbitCamera) Update(dt float32) {
	if c.AutoRotate && !c.dragging && dt > 0 {
		c.Yaw -= float32(twoPi / 60 * c.AutoRotateSpeed * float64(dt))
	}

	if c.Damping > 0 {
		c.Yaw += c.yawDelta * c.Damping
		c.Pitch += c.pitchDelta * c.Damping
		c.yawDelta *= 1 - c.Damping
		c.pitchDelta *= 1 - c.Damping
	} else {
		c.Yaw += c.yawDelta
		c.Pitch += c.pitchDelta
		c.yawDelta, c.pitchDelta = 0, 0
	}

	c.Yaw = float32(gomath.Remainder(float64(c.Yaw), twoPi))
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
	c.clampDistance()
}

func (c *OrbitCamera) clampDistance() {
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}
