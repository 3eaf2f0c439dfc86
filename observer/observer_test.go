package observer

import (
	"math"
	"testing"
)

func TestTerra_EquatorAtSiderealZero(t *testing.T) {
	o := Observer{LatitudeDeg: 0, LongitudeDeg: 0, HeightM: 0}
	s := Terra(o, 0)
	dist := math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
	gotKm := dist * 1.4959787069098932e8
	if math.Abs(gotKm-EarthEquatorialRadiusKm) > 0.01 {
		t.Errorf("equatorial distance = %f km, want %f", gotKm, EarthEquatorialRadiusKm)
	}
}

func TestTerra_InverseTerra_RoundTrip(t *testing.T) {
	cases := []Observer{
		{LatitudeDeg: 40.7128, LongitudeDeg: -74.006, HeightM: 10},
		{LatitudeDeg: -33.8688, LongitudeDeg: 151.2093, HeightM: 50},
		{LatitudeDeg: 0.0, LongitudeDeg: 0.0, HeightM: 0},
	}
	for _, c := range cases {
		gast := 12.3456
		s := Terra(c, gast)
		back, err := InverseTerra(s.Terse(), gast)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", c, err)
		}
		if math.Abs(back.LatitudeDeg-c.LatitudeDeg) > 1e-6 {
			t.Errorf("lat round-trip: got %f, want %f", back.LatitudeDeg, c.LatitudeDeg)
		}
		if math.Abs(back.LongitudeDeg-c.LongitudeDeg) > 1e-6 {
			t.Errorf("lon round-trip: got %f, want %f", back.LongitudeDeg, c.LongitudeDeg)
		}
		if math.Abs(back.HeightM-c.HeightM) > 1.0 {
			t.Errorf("height round-trip: got %f, want %f", back.HeightM, c.HeightM)
		}
	}
}

func TestInverseTerra_PoleSpecialCase(t *testing.T) {
	v := []float64{0, 0, 6356.7519 / 1.4959787069098932e8}
	back, err := InverseTerra([3]float64{v[0], v[1], v[2]}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(back.LatitudeDeg-90) > 1e-6 {
		t.Errorf("pole latitude = %f, want 90", back.LatitudeDeg)
	}
}

func TestValidate(t *testing.T) {
	bad := Observer{LatitudeDeg: 91, LongitudeDeg: 0, HeightM: 0}
	if err := bad.Validate(); err == nil {
		t.Error("latitude 91 should be invalid")
	}
}
