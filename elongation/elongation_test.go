package elongation

import (
	"testing"

	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/pluto"
)

func TestElongation_VenusAtJ2000(t *testing.T) {
	cache := &pluto.Cache{}
	_, elong, eclipticSep, err := Elongation(body.Venus, 2451545.0, cache)
	if err != nil {
		t.Fatal(err)
	}
	if elong < 0 || elong > 180 {
		t.Errorf("elongation = %f, want in [0,180]", elong)
	}
	if eclipticSep < -180 || eclipticSep > 180 {
		t.Errorf("ecliptic separation = %f, want in (-180,180]", eclipticSep)
	}
}

func TestSearchMaxElongation_Venus(t *testing.T) {
	cache := &pluto.Cache{}
	tt, elong, err := SearchMaxElongation(body.Venus, 2451545.0, cache)
	if err != nil {
		t.Fatal(err)
	}
	if tt < 2451545.0 {
		t.Errorf("event time %f precedes start", tt)
	}
	if elong < 39 || elong > 47.5 {
		t.Errorf("Venus max elongation = %f degrees, want ~39-47", elong)
	}
}

func TestSearchMaxElongation_Mercury(t *testing.T) {
	cache := &pluto.Cache{}
	tt, elong, err := SearchMaxElongation(body.Mercury, 2451545.0, cache)
	if err != nil {
		t.Fatal(err)
	}
	if tt < 2451545.0 {
		t.Errorf("event time %f precedes start", tt)
	}
	if elong < 17 || elong > 28.5 {
		t.Errorf("Mercury max elongation = %f degrees, want ~18-28", elong)
	}
}

func TestSearchMaxElongation_UnsupportedBody(t *testing.T) {
	cache := &pluto.Cache{}
	_, _, err := SearchMaxElongation(body.Mars, 2451545.0, cache)
	if err == nil {
		t.Error("expected error: Mars has no max-elongation search")
	}
}

func TestSearchRelativeLongitude_Roundtrip(t *testing.T) {
	cache := &pluto.Cache{}
	target := 45.0
	tt, err := SearchRelativeLongitude(body.Venus, target, 2451545.0, cache)
	if err != nil {
		t.Fatal(err)
	}
	got, err := relativeLongitude(body.Venus, tt, cache)
	if err != nil {
		t.Fatal(err)
	}
	diff := wrap180(got - target)
	if diff < -0.5 || diff > 0.5 {
		t.Errorf("relative longitude at converged time = %f, want ~%f", got, target)
	}
}

func TestWrap180_Elongation(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{180, 180},
		{181, -179},
		{-181, 179},
		{360, 0},
	}
	for _, c := range cases {
		if got := wrap180(c.in); got < c.want-1e-9 || got > c.want+1e-9 {
			t.Errorf("wrap180(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}
