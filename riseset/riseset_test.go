package riseset

import (
	"math"
	"testing"

	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/observer"
	"github.com/wrenfield/astrocore/pluto"
)

func TestSearchRiseSet_SunRisesWithinADay(t *testing.T) {
	obs := observer.Observer{LatitudeDeg: 40.7128, LongitudeDeg: -74.006, HeightM: 10}
	cache := &pluto.Cache{}
	tt, found, err := SearchRiseSet(body.Sun, obs, 1, 2451545.0, 2.0, 0, cache)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected a sunrise within 2 days")
	}
	if tt < 2451545.0 || tt > 2451547.0 {
		t.Errorf("sunrise time %f out of expected window", tt)
	}
}

func TestSearchRiseSet_InvalidDirection(t *testing.T) {
	obs := observer.Observer{LatitudeDeg: 0, LongitudeDeg: 0, HeightM: 0}
	_, _, err := SearchRiseSet(body.Sun, obs, 0, 2451545.0, 1.0, 0, &pluto.Cache{})
	if err == nil {
		t.Error("expected error for invalid direction")
	}
}

func TestSearchAltitude_CivilTwilight(t *testing.T) {
	obs := observer.Observer{LatitudeDeg: 40.7128, LongitudeDeg: -74.006, HeightM: 0}
	cache := &pluto.Cache{}
	tt, found, err := SearchAltitude(body.Sun, obs, -1, 2451545.0, 2.0, -6.0, cache)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected a civil-twilight crossing within 2 days")
	}
	if tt < 2451545.0 || tt > 2451547.0 {
		t.Errorf("crossing time %f out of expected window", tt)
	}
}

func TestSearchHourAngle_Converges(t *testing.T) {
	obs := observer.Observer{LatitudeDeg: 40.0, LongitudeDeg: -74.0, HeightM: 0}
	cache := &pluto.Cache{}
	tt, err := SearchHourAngle(body.Sun, obs, 0.0, 2451545.0, 1, cache)
	if err != nil {
		t.Fatal(err)
	}
	if tt <= 2451545.0 || tt > 2451546.5 {
		t.Errorf("transit time %f out of expected window", tt)
	}
}

func TestSearchHourAngle_InvalidHourAngle(t *testing.T) {
	obs := observer.Observer{LatitudeDeg: 0, LongitudeDeg: 0, HeightM: 0}
	_, err := SearchHourAngle(body.Sun, obs, 24.0, 2451545.0, 1, &pluto.Cache{})
	if err == nil {
		t.Error("expected error for hour_angle out of [0,24)")
	}
}

func TestFindAscent_PruneOnFlatFunction(t *testing.T) {
	f := func(t float64) float64 { return -100 }
	if findAscent(0, f, 1.0, 0, 1, -100, -100) {
		t.Error("expected no ascent detected on a flat negative function")
	}
}

func TestBodyRadiusDeg_SunVsPoint(t *testing.T) {
	sunR := bodyRadiusDeg(body.Sun, 1.0)
	marsR := bodyRadiusDeg(body.Mars, 1.5)
	if sunR <= 0 {
		t.Errorf("Sun radius should be positive, got %f", sunR)
	}
	if marsR != 0 {
		t.Errorf("Mars should be treated as a point, got radius %f", marsR)
	}
	if math.Abs(sunR-0.267) > 0.05 {
		t.Errorf("Sun angular radius = %f deg, want ~0.267", sunR)
	}
}
