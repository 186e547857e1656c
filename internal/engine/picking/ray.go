// Package picking provides ray casting and screen projection utilities.
package picking

import (
	gomath "math"

	"github.com/Faultbox/globalpulse/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay casts a world-space ray through pixel (screenX, screenY) of a
// viewport rendered with viewProj. ok is false for an empty viewport or a
// singular matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, viewProj math.Mat4) (Ray, bool) {
	if viewportW <= 0 || viewportH <= 0 {
		return Ray{}, false
	}
	inv, ok := viewProj.Inverse()
	if !ok {
		return Ray{}, false
	}

	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	// Depth 0 rather than the far plane keeps float32 precision with large far/near ratios.
	near := unproject(inv, ndcX, ndcY, -1)
	mid := unproject(inv, ndcX, ndcY, 0)
	return Ray{Origin: near, Direction: mid.Sub(near).Normalize()}, true
}

func unproject(inv math.Mat4, x, y, z float32) math.Vec3 {
	p := inv.MulVec4(math.Vec4{x, y, z, 1})
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// IntersectSphere returns the distance to the nearest intersection of the
// ray with a sphere, or the exit distance if the origin is inside.
func (r Ray) IntersectSphere(center math.Vec3, radius float32) (t float32, hit bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.LengthSq() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sq := float32(gomath.Sqrt(float64(disc)))
	t0 := -b - sq
	t1 := -b + sq
	if t1 < 0 {
		return 0, false // sphere behind ray origin
	}
	if t0 < 0 {
		return t1, true
	}
	return t0, true
}

// Occluded reports whether the segment from eye to p passes through the
// sphere before reaching p. Points on the near side of the sphere and points
// floating above it are visible.
func Occluded(eye, p, center math.Vec3, radius float32) bool {
	toP := p.Sub(eye)
	dist := toP.Length()
	if dist == 0 {
		return false
	}
	ray := Ray{Origin: eye, Direction: toP.Scale(1 / dist)}
	t, hit := ray.IntersectSphere(center, radius)
	if !hit {
		return false
	}
	// Tolerance keeps surface points from hiding behind themselves.
	return t < dist-radius*1e-3
}

// ScreenPoint is a projected position in pixels, origin top-left.
type ScreenPoint struct {
	X, Y  float32
	Depth float32 // NDC depth in [-1, 1]
}

// WorldToScreen projects p through viewProj into a viewport. ok is false
// for points behind the camera.
func WorldToScreen(p math.Vec3, viewProj math.Mat4, viewportW, viewportH float32) (ScreenPoint, bool) {
	clip := viewProj.MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
	if clip[3] <= 0 {
		return ScreenPoint{}, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	ndcZ := clip[2] / clip[3]

	return ScreenPoint{
		X:     (ndcX + 1) * 0.5 * viewportW,
		Y:     (1 - ndcY) * 0.5 * viewportH,
		Depth: ndcZ,
	}, true
}
