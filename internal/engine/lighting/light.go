// Package lighting describes the light rig of the globe scene.
package lighting

import (
	"github.com/Faultbox/globalpulse/pkg/math"
)

// Directional is a light at infinity shining from Position towards the origin.
type Directional struct {
	Position  math.Vec3
	Color     [3]float32
	Intensity float32
}

// Direction returns the unit vector pointing towards the light.
func (d Directional) Direction() math.Vec3 {
	return d.Position.Normalize()
}

// Radiance returns Color scaled by Intensity.
func (d Directional) Radiance() [3]float32 {
	return scale(d.Color, d.Intensity)
}

// Rig is an ambient term plus a key and a fill light.
type Rig struct {
	AmbientColor     [3]float32
	AmbientIntensity float32
	Key              Directional
	Fill             Directional
}

// DefaultRig returns the globe lighting: bluish ambient at 0.6, a white key
// from (10, 10, 5) at 1.5 and a cyan fill from the opposite side.
func DefaultRig() Rig {
	return Rig{
		AmbientColor:     hex(0xccccff),
		AmbientIntensity: 0.6,
		Key: Directional{
			Position:  math.Vec3{X: 10, Y: 10, Z: 5},
			Color:     [3]float32{1, 1, 1},
			Intensity: 1.5,
		},
		Fill: Directional{
			Position:  math.Vec3{X: -10, Y: -10, Z: -5},
			Color:     hex(0x4facfe),
			Intensity: 0.5,
		},
	}
}

// Ambient returns AmbientColor scaled by AmbientIntensity.
func (r Rig) Ambient() [3]float32 {
	return scale(r.AmbientColor, r.AmbientIntensity)
}

func scale(c [3]float32, s float32) [3]float32 {
	return [3]float32{c[0] * s, c[1] * s, c[2] * s}
}

func hex(v uint32) [3]float32 {
	return [3]float32{
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}
}
