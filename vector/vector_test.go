package vector

import (
	"math"
	"testing"
)

func TestRotationTranspose(t *testing.T) {
	// A rotation of 90deg about Z.
	r := RotationMatrix{
		{0, -1, 0},
		{1, 0, 0},
		{0, 0, 1},
	}
	rt := r.Transpose()
	identity := Compose(r, rt)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(identity[i][j]-want) > 1e-12 {
				t.Errorf("R.R^T[%d][%d] = %f, want %f", i, j, identity[i][j], want)
			}
		}
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	s := Spherical{LatDeg: 23.5, LonDeg: 120.0, Dist: 1.523}
	v := FromSpherical(s)
	got := ToSpherical(v)
	if math.Abs(got.LatDeg-s.LatDeg) > 1e-9 {
		t.Errorf("lat round-trip: got %f want %f", got.LatDeg, s.LatDeg)
	}
	if math.Abs(got.LonDeg-s.LonDeg) > 1e-9 {
		t.Errorf("lon round-trip: got %f want %f", got.LonDeg, s.LonDeg)
	}
	if math.Abs(got.Dist-s.Dist) > 1e-9 {
		t.Errorf("dist round-trip: got %f want %f", got.Dist, s.Dist)
	}
}

func TestSeparationSameVector(t *testing.T) {
	v := TerseVector{1, 2, 3}
	if got := Separation(v, v); got > 1e-9 {
		t.Errorf("Separation(v, v) = %f, want ~0", got)
	}
}

func TestSeparationOrthogonal(t *testing.T) {
	a := TerseVector{1, 0, 0}
	b := TerseVector{0, 1, 0}
	if got := Separation(a, b); math.Abs(got-90.0) > 1e-9 {
		t.Errorf("Separation(x,y) = %f, want 90", got)
	}
}
