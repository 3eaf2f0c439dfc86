package frame

import (
	"math"
	"testing"

	"github.com/wrenfield/astrocore/vector"
)

func assertOrthonormal(t *testing.T, name string, r vector.RotationMatrix) {
	t.Helper()
	rt := r.Transpose()
	identity := vector.Compose(r, rt)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(identity[i][j]-want) > 1e-10 {
				t.Errorf("%s: R.R^T[%d][%d] = %g, want %g", name, i, j, identity[i][j], want)
			}
		}
	}
}

func TestPrecessionMatrixOrthonormal(t *testing.T) {
	for _, ttJD := range []float64{j2000JD - 36525.0*2, j2000JD, j2000JD + 36525.0, j2000JD + 36525.0*5} {
		assertOrthonormal(t, "PrecessionMatrix", PrecessionMatrix(ttJD, From2000))
	}
}

func TestNutationMatrixOrthonormal(t *testing.T) {
	for _, ttJD := range []float64{j2000JD - 36525.0*2, j2000JD, j2000JD + 36525.0, j2000JD + 36525.0*5} {
		assertOrthonormal(t, "NutationMatrix", NutationMatrix(ttJD, From2000))
	}
}

func TestPrecessionMatrixRoundTrip(t *testing.T) {
	ttJD := j2000JD + 10000.0
	v := vector.TerseVector{0.8, -0.3, 0.5}

	p := PrecessionMatrix(ttJD, From2000)
	pInv := PrecessionMatrix(ttJD, Into2000)
	got := pInv.Apply(p.Apply(v))
	for i := 0; i < 3; i++ {
		if math.Abs(got[i]-v[i]) > 1e-10 {
			t.Errorf("precession round-trip[%d] = %g, want %g", i, got[i], v[i])
		}
	}
}

func TestNutationMatrixRoundTrip(t *testing.T) {
	ttJD := j2000JD + 10000.0
	v := vector.TerseVector{0.1, 0.9, -0.2}

	n := NutationMatrix(ttJD, From2000)
	nInv := NutationMatrix(ttJD, Into2000)
	got := nInv.Apply(n.Apply(v))
	for i := 0; i < 3; i++ {
		if math.Abs(got[i]-v[i]) > 1e-10 {
			t.Errorf("nutation round-trip[%d] = %g, want %g", i, got[i], v[i])
		}
	}
}

func TestGyrationRoundTrip(t *testing.T) {
	ttJD := j2000JD + 5000.0
	v := vector.TerseVector{0.6, 0.6, 0.5}

	dated := Gyration(v, ttJD, From2000)
	back := Gyration(dated, ttJD, Into2000)
	for i := 0; i < 3; i++ {
		if math.Abs(back[i]-v[i]) > 1e-9 {
			t.Errorf("gyration round-trip[%d] = %g, want %g", i, back[i], v[i])
		}
	}
}

func TestGyrationPreservesLength(t *testing.T) {
	ttJD := j2000JD + 1234.0
	v := vector.TerseVector{1.0, 2.0, -3.0}
	want := vector.Length(v)

	got := vector.Length(Gyration(v, ttJD, From2000))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("gyration changed vector length: got %g, want %g", got, want)
	}
}

func TestEvalETiltAtJ2000(t *testing.T) {
	et := EvalETilt(j2000JD)
	if math.Abs(et.MeanOblDeg-23.439279) > 1e-3 {
		t.Errorf("mean obliquity at J2000 = %g, want ~23.439279", et.MeanOblDeg)
	}
	if et.TrueOblDeg == et.MeanOblDeg {
		t.Errorf("true obliquity should differ from mean obliquity by nutation")
	}
}

func TestEclipticEquatorialJ2000RoundTrip(t *testing.T) {
	v := vector.TerseVector{0.3, -0.8, 0.4}
	got := EquatorialJ2000ToEcliptic(EclipticToEquatorialJ2000(v))
	for i := 0; i < 3; i++ {
		if math.Abs(got[i]-v[i]) > 1e-12 {
			t.Errorf("ecliptic/equatorial round-trip[%d] = %g, want %g", i, got[i], v[i])
		}
	}
}

func TestGalacticMatrixOrthonormal(t *testing.T) {
	assertOrthonormal(t, "GalacticMatrix", GalacticMatrix)
}
