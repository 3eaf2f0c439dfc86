package observe

import (
	"math"
	"testing"

	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/observer"
	"github.com/wrenfield/astrocore/pluto"
	"github.com/wrenfield/astrocore/refraction"
	"github.com/wrenfield/astrocore/vector"
)

func TestHelioVector_SunIsOrigin(t *testing.T) {
	v, err := HelioVector(body.Sun, 2451545.0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.X != 0 || v.Y != 0 || v.Z != 0 {
		t.Errorf("Sun heliocentric vector should be origin, got %+v", v)
	}
}

func TestHelioVector_EarthDistanceSanity(t *testing.T) {
	v, err := HelioVector(body.Earth, 2451545.0, nil)
	if err != nil {
		t.Fatal(err)
	}
	dist := vector.Length(v.Terse())
	if dist < 0.98 || dist > 1.02 {
		t.Errorf("Earth heliocentric distance = %f AU, want ~1", dist)
	}
}

func TestGeoVector_MoonDistanceSanity(t *testing.T) {
	v, err := GeoVector(body.Moon, 2451545.0, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	distKm := vector.Length(v.Terse()) * vector.KmPerAU
	if distKm < 356000 || distKm > 407000 {
		t.Errorf("Moon geocentric distance = %f km, outside perigee/apogee range", distKm)
	}
}

func TestGeoVector_MarsWithAndWithoutAberration(t *testing.T) {
	cache := &pluto.Cache{}
	plain, err := GeoVector(body.Mars, 2451545.0, false, cache)
	if err != nil {
		t.Fatal(err)
	}
	aber, err := GeoVector(body.Mars, 2451545.0, true, cache)
	if err != nil {
		t.Fatal(err)
	}
	sep := vector.Separation(plain.Terse(), aber.Terse())
	if sep <= 0 || sep > 1.0 {
		t.Errorf("aberration shift = %f deg, expected a small nonzero shift", sep)
	}
}

func TestCorrectLightTravel_SunlightIsAbout8Minutes(t *testing.T) {
	f := func(tt float64) (vector.Vector3, error) {
		return HelioVector(body.Earth, tt, nil)
	}
	_, lt, err := CorrectLightTravel(f, 2451545.0)
	if err != nil {
		t.Fatal(err)
	}
	minutes := lt * 24 * 60
	if minutes < 7.5 || minutes > 8.5 {
		t.Errorf("light time to Earth = %f minutes, want ~8.3", minutes)
	}
}

func TestEquator_GeocentricRADecRoundTrip(t *testing.T) {
	ra, dec, dist, err := Equator(body.Mars, 2451545.0, nil, false, false, &pluto.Cache{})
	if err != nil {
		t.Fatal(err)
	}
	if ra < 0 || ra >= 24 {
		t.Errorf("RA out of range: %f", ra)
	}
	if dec < -90 || dec > 90 {
		t.Errorf("Dec out of range: %f", dec)
	}
	if dist <= 0 {
		t.Errorf("distance should be positive, got %f", dist)
	}
}

func TestHorizontal_ZenithAltitudeNearNinety(t *testing.T) {
	obs := observer.Observer{LatitudeDeg: 40.0, LongitudeDeg: 0.0, HeightM: 0}
	// RA/Dec chosen so the object sits at the observer's zenith when HA=0, Dec=lat.
	alt, _, err := Horizontal(0.0, 40.0, 0.0, obs, refraction.None)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(alt-90.0) > 1e-6 {
		t.Errorf("zenith altitude = %f, want 90", alt)
	}
}

func TestHorizontal_RefractionLiftsLowAltitude(t *testing.T) {
	obs := observer.Observer{LatitudeDeg: 0, LongitudeDeg: 0, HeightM: 0}
	altNone, _, _ := Horizontal(6.0, 0.0, 0.0, obs, refraction.None)
	altNormal, _, _ := Horizontal(6.0, 0.0, 0.0, obs, refraction.Normal)
	if altNormal <= altNone {
		t.Errorf("refraction should raise apparent altitude: none=%f normal=%f", altNone, altNormal)
	}
}
