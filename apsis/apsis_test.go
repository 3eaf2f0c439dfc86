package apsis

import (
	"testing"

	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/pluto"
)

func TestSearchPlanetApsis_EarthFindsBoth(t *testing.T) {
	cache := &pluto.Cache{}
	ev, err := SearchPlanetApsis(body.Earth, 2451545.0, cache)
	if err != nil {
		t.Fatal(err)
	}
	if ev.DistAU < 0.9 || ev.DistAU > 1.1 {
		t.Errorf("Earth apsis distance = %f AU, want near 1", ev.DistAU)
	}

	next, err := NextPlanetApsis(body.Earth, ev, cache)
	if err != nil {
		t.Fatal(err)
	}
	if next.Kind == ev.Kind {
		t.Error("expected alternating apsis kind")
	}
	if next.TT <= ev.TT {
		t.Error("expected next apsis to follow in time")
	}
}

func TestBruteSearchPlanetApsis_Neptune(t *testing.T) {
	cache := &pluto.Cache{}
	ev, err := BruteSearchPlanetApsis(body.Neptune, 2451545.0, cache)
	if err != nil {
		t.Fatal(err)
	}
	if ev.DistAU < 29 || ev.DistAU > 31 {
		t.Errorf("Neptune apsis distance = %f AU, want ~29.8-30.3", ev.DistAU)
	}
}

func TestSearchLunarApsis_PlausibleDistance(t *testing.T) {
	ev, err := SearchLunarApsis(2451545.0)
	if err != nil {
		t.Fatal(err)
	}
	if ev.DistAU <= 0 {
		t.Errorf("lunar apsis distance must be positive, got %f", ev.DistAU)
	}
	distKm := ev.DistAU * 1.4959787069098932e8
	if distKm < 350000 || distKm > 410000 {
		t.Errorf("lunar apsis distance = %f km, outside plausible perigee/apogee range", distKm)
	}
}

func TestSearchPlanetApsis_UnsupportedBody(t *testing.T) {
	_, err := SearchPlanetApsis(body.Moon, 2451545.0, &pluto.Cache{})
	if err == nil {
		t.Error("expected error: Moon is not a valid SearchPlanetApsis target")
	}
}
