package math

import (
	"math"
	"testing"
)

func TestVec2Distance(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{4, 6}
	got := a.Distance(b)
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Distance() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	got := AxisX.Cross(AxisY)
	if got != AxisZ {
		t.Errorf("Vec3.Cross() = %v, want %v", got, AxisZ)
	}
}

func TestVec3CrossParallelIsZero(t *testing.T) {
	got := AxisY.Cross(Vec3{0, 5, 0})
	if got.LengthSq() != 0 {
		t.Errorf("cross of parallel vectors = %v, want zero", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 12}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("zero vector normalize = %v, want zero", z)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, -10, 4}
	got := a.Lerp(b, 0.5)
	want := Vec3{5, -5, 2}
	if got != want {
		t.Errorf("Vec3.Lerp() = %v, want %v", got, want)
	}
}

func TestVec3IsFinite(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want bool
	}{
		{"zero", Vec3{}, true},
		{"regular", Vec3{1, -2, 3}, true},
		{"nan", Vec3{float32(math.NaN()), 0, 0}, false},
		{"inf", Vec3{0, float32(math.Inf(1)), 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.want {
				t.Errorf("IsFinite(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestVec3ApproxEqual(t *testing.T) {
	a := Vec3{1, 2, 3}
	if !a.ApproxEqual(Vec3{1.0005, 2, 2.9995}, 0.001) {
		t.Error("expected vectors within tolerance to compare equal")
	}
	if a.ApproxEqual(Vec3{1.1, 2, 3}, 0.001) {
		t.Error("expected vectors outside tolerance to differ")
	}
}
