// Package geo converts geographic coordinates into points on the globe sphere.
package geo

import (
	gomath "math"

	"github.com/paulmach/orb"

	"github.com/Faultbox/globalpulse/pkg/math"
)

const degToRad = gomath.Pi / 180.0

// WorldBound is the valid latitude/longitude domain.
var WorldBound = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Point returns the coordinate as an orb point (lon, lat order).
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// FromPoint creates a Coordinate from an orb point.
func FromPoint(p orb.Point) Coordinate {
	return Coordinate{Lat: p.Lat(), Lon: p.Lon()}
}

// InRange reports whether the coordinate lies inside WorldBound.
// Out-of-range coordinates are still projected as given.
func (c Coordinate) InRange() bool {
	return WorldBound.Contains(c.Point())
}

// Project returns the surface point for this coordinate on a sphere of the given radius.
func (c Coordinate) Project(radius float32) math.Vec3 {
	return Project(c.Lat, c.Lon, radius)
}

// Sanitize replaces NaN or infinite components with 0.
// The second result reports whether a replacement happened.
func Sanitize(c Coordinate) (Coordinate, bool) {
	changed := false
	if !finite(c.Lat) {
		c.Lat = 0
		changed = true
	}
	if !finite(c.Lon) {
		c.Lon = 0
		changed = true
	}
	return c, changed
}

// Project converts latitude/longitude (degrees) to a point on a sphere centred
// at the origin with +Y through the north pole.
//
//	phi   = (90 - lat) in radians (polar angle from +Y)
//	theta = (lon + 180) in radians (azimuth)
//
// Both poles collapse onto the Y axis regardless of longitude. (0, 0) maps to (radius, 0, 0).
func Project(lat, lon float64, radius float32) math.Vec3 {
	phi := (90 - lat) * degToRad
	theta := (lon + 180) * degToRad
	r := float64(radius)

	sinPhi := gomath.Sin(phi)
	return math.Vec3{
		X: float32(-r * sinPhi * gomath.Cos(theta)),
		Y: float32(r * gomath.Cos(phi)),
		Z: float32(r * sinPhi * gomath.Sin(theta)),
	}
}

// FromSurface is the inverse of Project: it returns the coordinate of the
// direction from the sphere centre to p. Longitude is normalised to
// [-180, 180) and is 0 on the poles. ok is false for the zero vector.
func FromSurface(p math.Vec3) (Coordinate, bool) {
	x, y, z := float64(p.X), float64(p.Y), float64(p.Z)
	r := gomath.Sqrt(x*x + y*y + z*z)
	if r == 0 || !finite(r) {
		return Coordinate{}, false
	}

	lat := 90 - gomath.Acos(gomath.Max(-1, gomath.Min(1, y/r)))/degToRad
	if gomath.Hypot(x, z) < r*1e-9 {
		return Coordinate{Lat: lat}, true
	}
	lon := gomath.Atan2(z, -x)/degToRad - 180
	if lon < -180 {
		lon += 360
	}
	return Coordinate{Lat: lat, Lon: lon}, true
}

func finite(f float64) bool {
	return !gomath.IsNaN(f) && !gomath.IsInf(f, 0)
}
