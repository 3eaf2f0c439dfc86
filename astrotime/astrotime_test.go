package astrotime

import (
	"math"
	"testing"
	"time"
)

func TestDeltaT_KnownValues(t *testing.T) {
	dt := DeltaT(2000.0)
	if math.Abs(dt-63.86) > 0.01 {
		t.Errorf("DeltaT(2000) = %f, want ~63.86", dt)
	}
}

func TestDeltaT_ContinuousAtBreakpoints(t *testing.T) {
	breaks := []float64{-500, 500, 1600, 1700, 1800, 1860, 1900, 1920, 1941, 1961, 1986, 2005, 2050, 2150}
	// The published Espenak-Meeus polynomials meet only to within about a
	// quarter second at their breakpoints (the largest step, at 1600, is
	// about 0.25 s), so the bound is 0.3 s.
	for _, y := range breaks {
		before := DeltaT(y - 1e-6)
		after := DeltaT(y + 1e-6)
		if math.Abs(before-after) > 0.3 {
			t.Errorf("DeltaT discontinuous at year %v: before=%f after=%f", y, before, after)
		}
	}
}

func TestDeltaT_JplHorizonsClips(t *testing.T) {
	far := DeltaTYears(2100.0, JplHorizons)
	clipped := DeltaTYears(2017.0, JplHorizons)
	if far != clipped {
		t.Errorf("JplHorizons should clip to +-17 tropical years: DeltaT(2100)=%f DeltaT(2017)=%f", far, clipped)
	}
}

func TestAstroTime_Invariant(t *testing.T) {
	at := FromUT(1234.5, EspenakMeeus)
	year := 2000.0 + (at.UT()-14.0)/365.25
	dt := DeltaT(year)
	// tt and ut are stored as days near 1234.5, whose float64 spacing is
	// about 2e-8 s, so the difference is compared to 1e-6 s.
	if math.Abs((at.TT()-at.UT())*SecPerDay-dt) > 1e-6 {
		t.Errorf("tt-ut invariant violated: got %f want %f", (at.TT()-at.UT())*SecPerDay, dt)
	}
}

func TestInterpolate(t *testing.T) {
	t1 := FromUT(0, EspenakMeeus)
	t2 := FromUT(10, EspenakMeeus)
	mid := Interpolate(t1, t2, 0.5)
	if math.Abs(mid.UT()-5.0) > 1e-9 {
		t.Errorf("Interpolate midpoint UT = %f, want 5.0", mid.UT())
	}
}

func TestTimeToJDUTC(t *testing.T) {
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	jd := TimeToJDUTC(j2000)
	if math.Abs(jd-2451545.0) > 1e-9 {
		t.Errorf("J2000 JD = %.10f, want 2451545.0", jd)
	}
}

func TestEarthRotationAngleRange(t *testing.T) {
	for _, jd := range []float64{2451545.0, 2451545.5, 2460000.123} {
		era := EarthRotationAngle(jd)
		if era < 0 || era >= 360 {
			t.Errorf("era(%v) = %f, want in [0,360)", jd, era)
		}
	}
}

func TestTDBMinusTT_Amplitude(t *testing.T) {
	for year := 1850.0; year <= 2150.0; year += 10.0 {
		jd := J2000JD + (year-2000.0)*365.25
		dt := TDBMinusTT(jd)
		if math.Abs(dt) > 0.002 {
			t.Errorf("TDB-TT at year %.0f = %f s, exceeds 2ms", year, dt)
		}
	}
}

func TestValidateHourAngle(t *testing.T) {
	if err := ValidateHourAngle(12.0); err != nil {
		t.Errorf("12.0 should be valid: %v", err)
	}
	if err := ValidateHourAngle(24.0); err == nil {
		t.Error("24.0 should be invalid (exclusive upper bound)")
	}
	if err := ValidateHourAngle(-1.0); err == nil {
		t.Error("-1.0 should be invalid")
	}
}
