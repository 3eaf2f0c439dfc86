package illum

import (
	"math"
	"testing"

	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/pluto"
)

func TestIlluminate_VenusAtJ2000(t *testing.T) {
	cache := &pluto.Cache{}
	res, err := Illuminate(body.Venus, 2451545.0, cache)
	if err != nil {
		t.Fatal(err)
	}
	if res.Magnitude < -6 || res.Magnitude > 0 {
		t.Errorf("Venus magnitude = %f, want roughly -5..-3", res.Magnitude)
	}
	if res.PhaseAngleDeg < 0 || res.PhaseAngleDeg > 180 {
		t.Errorf("phase angle = %f, want in [0,180]", res.PhaseAngleDeg)
	}
}

func TestIlluminate_JupiterPlausible(t *testing.T) {
	cache := &pluto.Cache{}
	res, err := Illuminate(body.Jupiter, 2451545.0, cache)
	if err != nil {
		t.Fatal(err)
	}
	if res.Magnitude < -3 || res.Magnitude > 0 {
		t.Errorf("Jupiter magnitude = %f, want roughly -2..-1", res.Magnitude)
	}
}

func TestIlluminate_SaturnReturnsRingTilt(t *testing.T) {
	cache := &pluto.Cache{}
	res, err := Illuminate(body.Saturn, 2451545.0, cache)
	if err != nil {
		t.Fatal(err)
	}
	if res.RingTiltDeg < -30 || res.RingTiltDeg > 30 {
		t.Errorf("Saturn ring tilt = %f degrees, want in [-30,30]", res.RingTiltDeg)
	}
}

func TestIlluminate_Moon(t *testing.T) {
	cache := &pluto.Cache{}
	res, err := Illuminate(body.Moon, 2451545.0, cache)
	if err != nil {
		t.Fatal(err)
	}
	if res.Magnitude > 0 || res.Magnitude < -15 {
		t.Errorf("Moon magnitude = %f, want roughly -13..-2", res.Magnitude)
	}
}

func TestIlluminate_UnsupportedBody(t *testing.T) {
	cache := &pluto.Cache{}
	_, err := Illuminate(body.EMB, 2451545.0, cache)
	if err == nil {
		t.Error("expected error for a non-physical body")
	}
}

func TestRingTilt_PlausibleRange(t *testing.T) {
	tilt := RingTilt(2451545.0, 30.0, 2.0)
	if tilt < -30 || tilt > 30 {
		t.Errorf("ring tilt = %f, want in [-30,30]", tilt)
	}
}

func TestObscurationDiscs_NoOverlap(t *testing.T) {
	if got := ObscurationDiscs(1.0, 0.5, 2.0); got != 0 {
		t.Errorf("ObscurationDiscs with separated discs = %f, want 0", got)
	}
}

func TestObscurationDiscs_Concentric(t *testing.T) {
	got := ObscurationDiscs(2.0, 1.0, 0)
	want := 0.25
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ObscurationDiscs concentric = %f, want %f", got, want)
	}
}

func TestObscurationDiscs_SmallerFullyContained(t *testing.T) {
	got := ObscurationDiscs(1.0, 3.0, 1.5)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("ObscurationDiscs with a fully inside b = %f, want 1", got)
	}
}

func TestObscurationDiscs_PartialOverlap(t *testing.T) {
	got := ObscurationDiscs(1.0, 1.0, 1.0)
	if got <= 0 || got >= 1 {
		t.Errorf("ObscurationDiscs partial overlap = %f, want in (0,1)", got)
	}
}

func TestObscurationDiscs_Symmetric(t *testing.T) {
	a, b, c := 1.0, 0.6, 0.8
	ab := ObscurationDiscs(a, b, c)
	if ab < 0 || ab > 1 {
		t.Errorf("ObscurationDiscs(%f,%f,%f) = %f, want in [0,1]", a, b, c, ab)
	}
	// The overlap area is the same in either order; only the disc it is
	// normalised by changes.
	ba := ObscurationDiscs(b, a, c)
	if math.Abs(ab*a*a-ba*b*b) > 1e-12 {
		t.Errorf("overlap areas differ: %f*%f^2 vs %f*%f^2", ab, a, ba, b)
	}
}

func TestClampUnit(t *testing.T) {
	if got := clampUnit(2.0); got != 1.0 {
		t.Errorf("clampUnit above range = %f, want 1.0", got)
	}
	if got := clampUnit(-2.0); got != -1.0 {
		t.Errorf("clampUnit below range = %f, want -1.0", got)
	}
	if got := clampUnit(0.3); got != 0.3 {
		t.Errorf("clampUnit within range = %f, want 0.3", got)
	}
}
