package system

import (
	"math"
	"testing"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name         string
		lat, lon     float64
		pitch, yaw   float64
		wantX, wantY float64
		wantFront    bool
	}{
		{"center", 0, 0, 0, 0, 0, 0, true},
		{"east_limb", 0, 90, 0, 0, 1, 0, true},
		{"far_side", 0, 180, 0, 0, 0, 0, false},
		{"yaw_brings_east_to_center", 0, 90, 0, -90, 0, 0, true},
		{"north_pole_top", 90, 0, 0, 0, 0, -1, true},
		{"pitch_tilts_pole_to_center", 90, 0, 90, 0, 0, 0, true},
		{"pitch_hides_south_pole", -90, 0, 90, 0, 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y, front := Project(tc.lat, tc.lon, tc.pitch, tc.yaw)
			if math.Abs(x-tc.wantX) > 1e-9 || math.Abs(y-tc.wantY) > 1e-9 {
				t.Fatalf("got (%v,%v), want (%v,%v)", x, y, tc.wantX, tc.wantY)
			}
			if front != tc.wantFront {
				t.Fatalf("front = %v, want %v", front, tc.wantFront)
			}
		})
	}
}

func TestViewport(t *testing.T) {
	v := NewViewport(800, 600, 0.5)
	if v.Radius != 300 {
		t.Fatalf("radius = %v", v.Radius)
	}
	x, y := v.ToScreen(1, 0)
	if x != 700 || y != 300 {
		t.Fatalf("ToScreen = (%v,%v)", x, y)
	}
	if !v.Inside(400, 300) || v.Inside(0, 0) {
		t.Fatalf("Inside misreports")
	}
}
