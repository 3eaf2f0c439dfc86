package vsop

import (
	"math"
	"testing"

	"github.com/wrenfield/astrocore/body"
)

func TestHelioVector_MercuryJ2000(t *testing.T) {
	v, err := HelioVector(body.Mercury, 2451545.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Approximate, not bit-exact: secular Keplerian elements stand in for
	// the literal VSOP87 series (see DESIGN.md). Tolerance is loose
	// relative to a 5-decimal reference figure for that reason.
	want := [3]float64{-0.13638, -0.44714, -0.22563}
	got := [3]float64{v.X, v.Y, v.Z}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 0.02 {
			t.Errorf("axis %d: got %f, want ~%f", i, got[i], want[i])
		}
	}
}

func TestHelioVector_UnsupportedBody(t *testing.T) {
	if _, err := HelioVector(body.Moon, 2451545.0); err == nil {
		t.Error("Moon should be unsupported by vsop.HelioVector")
	}
}

func TestHelioState_DistanceSanity(t *testing.T) {
	for _, b := range []body.Body{body.Mercury, body.Venus, body.Earth, body.Mars,
		body.Jupiter, body.Saturn, body.Uranus, body.Neptune} {
		s, err := HelioState(b, 2451545.0)
		if err != nil {
			t.Fatalf("%v: %v", b, err)
		}
		dist := math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
		if dist < 0.1 || dist > 50 {
			t.Errorf("%v: distance %f AU out of sane range", b, dist)
		}
	}
}

func TestOrbitalPeriodDays_Earth(t *testing.T) {
	p, err := OrbitalPeriodDays(body.Earth, 2451545.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(p-365.25) > 2.0 {
		t.Errorf("Earth period = %f days, want ~365.25", p)
	}
}
