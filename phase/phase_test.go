package phase

import (
	"math"
	"testing"

	"github.com/wrenfield/astrocore/frame"
	"github.com/wrenfield/astrocore/vsop"
)

func eclipticEarthHelio(ttJD float64) (x, y, z float64, err error) {
	v, err := vsop.HelioVector(4 /* body.Earth */, ttJD)
	if err != nil {
		return 0, 0, 0, err
	}
	ecl := frame.EquatorialJ2000ToEcliptic(v.Terse())
	return ecl[0], ecl[1], ecl[2], nil
}

func TestSearchMoonPhase_NewMoonFound(t *testing.T) {
	tt, found, err := SearchMoonPhase(0.0, 2451545.0, 30.0, eclipticEarthHelio)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected a new-moon event within 30 days")
	}
	if tt < 2451545.0 || tt > 2451575.0 {
		t.Errorf("new moon time %f out of expected window", tt)
	}
}

func TestSearchMoonPhase_InvalidTarget(t *testing.T) {
	_, _, err := SearchMoonPhase(360.0, 2451545.0, 30.0, eclipticEarthHelio)
	if err == nil {
		t.Error("expected error for target_phase_deg == 360")
	}
}

func TestSearchMoonNode_AlternatesKind(t *testing.T) {
	first, err := SearchMoonNode(2451545.0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NextMoonNode(first)
	if err != nil {
		t.Fatal(err)
	}
	if second.Kind == first.Kind {
		t.Error("expected node kind to alternate")
	}
	if second.TT <= first.TT {
		t.Error("expected second node to follow the first in time")
	}
}

func TestWrap180(t *testing.T) {
	cases := map[float64]float64{0: 0, 180: 180, 181: -179, -181: 179, 360: 0, 540: 180}
	for in, want := range cases {
		got := wrap180(in)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("wrap180(%f) = %f, want %f", in, got, want)
		}
	}
}
