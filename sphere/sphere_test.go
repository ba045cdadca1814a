package sphere

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/s2"
)

const tolerance = 1e-9

// =============================================================================
// Degree / Radian Tests
// =============================================================================

func TestRadiansDegrees(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		rad  float64
	}{
		{name: "zero", deg: 0, rad: 0},
		{name: "right angle", deg: 90, rad: math.Pi / 2},
		{name: "half turn", deg: 180, rad: math.Pi},
		{name: "negative", deg: -45, rad: -math.Pi / 4},
		{name: "beyond antimeridian", deg: 370, rad: 370 * math.Pi / 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Radians(tt.deg); math.Abs(got-tt.rad) > tolerance {
				t.Errorf("Radians(%v) = %v, want %v", tt.deg, got, tt.rad)
			}
			if got := Degrees(tt.rad); math.Abs(got-tt.deg) > tolerance {
				t.Errorf("Degrees(%v) = %v, want %v", tt.rad, got, tt.deg)
			}
		})
	}
}

func TestFromLongLat_Colatitude(t *testing.T) {
	north := FromLongLat(0, 90)
	if math.Abs(north.Phi) > tolerance {
		t.Errorf("north pole Phi = %v, want 0", north.Phi)
	}

	south := FromLongLat(0, -90)
	if math.Abs(south.Phi-math.Pi) > tolerance {
		t.Errorf("south pole Phi = %v, want π", south.Phi)
	}

	equator := FromLongLat(-120, 0)
	if math.Abs(equator.Phi-math.Pi/2) > tolerance {
		t.Errorf("equator Phi = %v, want π/2", equator.Phi)
	}
	if math.Abs(equator.Theta+2*math.Pi/3) > tolerance {
		t.Errorf("Theta = %v, want -2π/3", equator.Theta)
	}
}

func TestLongLat_RoundTrip(t *testing.T) {
	for _, c := range [][2]float64{{12.3, 34.5}, {-179.9, -60}, {180, 0}, {0, 89.99}} {
		long, lat := FromLongLat(c[0], c[1]).LongLat()
		if math.Abs(long-c[0]) > tolerance || math.Abs(lat-c[1]) > tolerance {
			t.Errorf("round trip of %v gave (%v, %v)", c, long, lat)
		}
	}
}

// =============================================================================
// Cartesian Conversion Tests
// =============================================================================

func TestToVector(t *testing.T) {
	tests := []struct {
		name string
		long float64
		lat  float64
		want mgl64.Vec3
	}{
		{name: "null island", long: 0, lat: 0, want: mgl64.Vec3{1, 0, 0}},
		{name: "east", long: 90, lat: 0, want: mgl64.Vec3{0, 1, 0}},
		{name: "antimeridian", long: 180, lat: 0, want: mgl64.Vec3{-1, 0, 0}},
		{name: "north pole", long: 42, lat: 90, want: mgl64.Vec3{0, 0, 1}},
		{name: "south pole", long: -42, lat: -90, want: mgl64.Vec3{0, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromLongLatVector(tt.long, tt.lat)
			if !got.ApproxEqualThreshold(tt.want, tolerance) {
				t.Errorf("ToVector = %v, want %v", got, tt.want)
			}
			if math.Abs(got.Len()-1) > tolerance {
				t.Errorf("vector length = %v, want 1", got.Len())
			}
		})
	}
}

func TestFromVector_RoundTrip(t *testing.T) {
	for _, g := range []GeoPoint{
		{Theta: 0.3, Phi: 1.2},
		{Theta: -2.9, Phi: 0.01},
		{Theta: math.Pi, Phi: math.Pi / 2},
		{Theta: -1, Phi: 3.1},
	} {
		got := FromVector(ToVector(g))
		if math.Abs(got.Theta-g.Theta) > tolerance || math.Abs(got.Phi-g.Phi) > tolerance {
			t.Errorf("FromVector(ToVector(%v)) = %v", g, got)
		}
	}
}

func TestFromVector_Poles(t *testing.T) {
	north := FromVector(mgl64.Vec3{0, 0, 1})
	if north.Theta != 0 || north.Phi != 0 {
		t.Errorf("north pole = %v, want {0 0}", north)
	}

	// z slightly beyond 1 through rounding must not produce NaN
	drift := FromVector(mgl64.Vec3{0, 0, 1 + 1e-15})
	if math.IsNaN(drift.Phi) {
		t.Error("Phi is NaN for z drifting past 1")
	}

	south := FromVector(mgl64.Vec3{0, 0, -1 - 1e-15})
	if math.Abs(south.Phi-math.Pi) > tolerance {
		t.Errorf("south pole Phi = %v, want π", south.Phi)
	}
}

// =============================================================================
// s2 Interop Tests
// =============================================================================

func TestLatLng_MatchesS2Point(t *testing.T) {
	g := FromLongLat(-73.98, 40.75)
	ll := g.LatLng()

	if math.Abs(ll.Lat.Degrees()-40.75) > tolerance || math.Abs(ll.Lng.Degrees()+73.98) > tolerance {
		t.Errorf("LatLng = %v", ll)
	}

	p := s2.PointFromLatLng(ll)
	v := ToVector(g)
	if math.Abs(p.X-v.X()) > tolerance || math.Abs(p.Y-v.Y()) > tolerance || math.Abs(p.Z-v.Z()) > tolerance {
		t.Errorf("s2 point %v differs from %v", p, v)
	}

	back := FromLatLng(ll)
	if math.Abs(back.Theta-g.Theta) > tolerance || math.Abs(back.Phi-g.Phi) > tolerance {
		t.Errorf("FromLatLng = %v, want %v", back, g)
	}
}
