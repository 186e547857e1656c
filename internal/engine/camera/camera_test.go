package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/globalpulse/pkg/math"
)

const epsilon = 0.001

func TestInitialPosition(t *testing.T) {
	c := NewOrbitCamera()
	pos := c.Position()
	if !pos.ApproxEqual(math.Vec3{Z: 14}, epsilon) {
		t.Errorf("expected (0,0,14), got %v", pos)
	}
}

func TestAutoRotateRate(t *testing.T) {
	c := NewOrbitCamera()
	c.Damping = 0
	c.SetAutoRotate(true, 1)

	// One minute at speed 1 is one full turn.
	for i := 0; i < 600; i++ {
		c.Update(0.05)
	}
	if d := gomath.Abs(float64(c.Yaw)); d > 0.01 {
		t.Errorf("expected a full turn back to yaw 0, got %v", c.Yaw)
	}

	c.Update(1)
	want := -2 * gomath.Pi / 60
	if d := gomath.Abs(float64(c.Yaw) - want); d > epsilon {
		t.Errorf("expected yaw %v after 1s, got %v", want, c.Yaw)
	}
}

func TestAutoRotateDisabled(t *testing.T) {
	c := NewOrbitCamera()
	c.SetAutoRotate(false, 20)
	for i := 0; i < 60; i++ {
		c.Update(1.0 / 60)
	}
	if c.Yaw != 0 {
		t.Errorf("camera moved with auto-rotate off: yaw %v", c.Yaw)
	}
}

func TestAutoRotateStopsImmediately(t *testing.T) {
	c := NewOrbitCamera()
	c.SetAutoRotate(true, 20)
	for i := 0; i < 60; i++ {
		c.Update(1.0 / 60)
	}
	want := float32(gomath.Remainder(-2*gomath.Pi/60*20, 2*gomath.Pi))
	if gomath.Abs(float64(c.Yaw-want)) > epsilon {
		t.Errorf("auto-rotate should bypass damping: want yaw %v, got %v", want, c.Yaw)
	}

	c.SetAutoRotate(false, 0)
	yaw := c.Yaw
	for i := 0; i < 60; i++ {
		c.Update(1.0 / 60)
		if c.Yaw != yaw {
			t.Fatalf("frame %d: camera kept turning after auto-rotate stopped (%v -> %v)", i, yaw, c.Yaw)
		}
	}
}

func TestAutoRotateHoldsWhileDragging(t *testing.T) {
	c := NewOrbitCamera()
	c.Damping = 0
	c.SetAutoRotate(true, 20)
	c.SetDragging(true)
	c.Update(1)
	if c.Yaw != 0 {
		t.Errorf("auto-rotate should hold during drag, yaw %v", c.Yaw)
	}
}

func TestDampingConverges(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(100, 0, 1000)
	want := float32(-2 * gomath.Pi * 0.1 * 0.5)

	c.Update(1.0 / 60)
	if gomath.Abs(float64(c.Yaw-want*0.1)) > epsilon {
		t.Errorf("first damped step should apply 10%%, got %v", c.Yaw)
	}
	for i := 0; i < 200; i++ {
		c.Update(1.0 / 60)
	}
	if gomath.Abs(float64(c.Yaw-want)) > epsilon {
		t.Errorf("damped drag should converge to %v, got %v", want, c.Yaw)
	}
}

func TestPitchClamp(t *testing.T) {
	c := NewOrbitCamera()
	c.Damping = 0
	c.HandleDrag(0, 10000, 100)
	c.Update(0)
	if c.Pitch != c.MaxPitch {
		t.Errorf("expected pitch clamped to %v, got %v", c.MaxPitch, c.Pitch)
	}
}

func TestZoomClamp(t *testing.T) {
	c := NewOrbitCamera()

	c.HandleZoom(1)
	if c.Distance >= 14 {
		t.Errorf("positive zoom should move closer, got %v", c.Distance)
	}

	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != 7 {
		t.Errorf("expected min distance 7, got %v", c.Distance)
	}
	for i := 0; i < 100; i++ {
		c.HandleZoom(-1)
	}
	if c.Distance != 20 {
		t.Errorf("expected max distance 20, got %v", c.Distance)
	}
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	c := NewOrbitCamera()
	c.Yaw = 1.2
	c.Pitch = 0.4
	view := c.ViewMatrix()

	// The target lies on the view axis at -Distance.
	p := view.TransformVec3(c.Target)
	if !p.ApproxEqual(math.Vec3{Z: -c.Distance}, epsilon) {
		t.Errorf("target in view space = %v, want (0,0,%v)", p, -c.Distance)
	}
}
