package lighting

import (
	"testing"

	"github.com/Faultbox/globalpulse/pkg/math"
)

func TestDefaultRig(t *testing.T) {
	r := DefaultRig()

	amb := r.Ambient()
	want := [3]float32{0.48, 0.48, 0.6}
	for i := range amb {
		if d := amb[i] - want[i]; d > 1e-6 || d < -1e-6 {
			t.Errorf("Ambient = %v, want %v", amb, want)
			break
		}
	}
	if got := r.Key.Radiance(); got != [3]float32{1.5, 1.5, 1.5} {
		t.Errorf("key radiance = %v", got)
	}

	d := r.Key.Direction()
	if l := d.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("key direction not normalised: %v", l)
	}
	if !d.ApproxEqual(math.Vec3{X: 10, Y: 10, Z: 5}.Scale(1/float32(15)), 1e-5) {
		t.Errorf("key direction = %v", d)
	}
	if r.Fill.Direction().Dot(d) >= 0 {
		t.Error("fill should come from the opposite side")
	}
}
