package jupmoons

import (
	"math"
	"testing"

	"github.com/wrenfield/astrocore/vector"
)

func TestJupiterCentric_DistanceSanity(t *testing.T) {
	cases := map[Moon]float64{
		Io:       421800,
		Europa:   671100,
		Ganymede: 1070400,
		Callisto: 1882700,
	}
	for m, aKm := range cases {
		v := JupiterCentric(m, 2451545.0)
		dist := vector.Length(v) * vector.KmPerAU
		// Eccentricities are small; distance should stay within ~2% of a.
		if math.Abs(dist-aKm)/aKm > 0.05 {
			t.Errorf("%v: distance %f km, want near %f km", m, dist, aKm)
		}
	}
}

func TestJupiterCentric_OrbitsAdvance(t *testing.T) {
	// Io's ~1.77-day period means a quarter period should move it to a
	// noticeably different position.
	v0 := JupiterCentric(Io, 2451545.0)
	v1 := JupiterCentric(Io, 2451545.0+0.44)
	if vector.Separation(v0, v1) < 10 {
		t.Errorf("Io barely moved after a quarter of its period: sep=%f deg", vector.Separation(v0, v1))
	}
}
