package refraction

import (
	"math"
	"testing"
)

func TestRefraction_NoneModeIsZero(t *testing.T) {
	r, err := Refraction(None, 10.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != 0 {
		t.Errorf("None mode should return 0, got %f", r)
	}
}

func TestRefraction_DomainValidation(t *testing.T) {
	if _, err := Refraction(Normal, 91); err == nil {
		t.Error("altitude 91 should be invalid")
	}
	if _, err := Refraction(Normal, -91); err == nil {
		t.Error("altitude -91 should be invalid")
	}
}

func TestRefractionRoundTrip(t *testing.T) {
	for _, mode := range []Mode{Normal, JplHor} {
		for h := -89.0; h <= 89.0; h += 10.0 {
			r, err := Refraction(mode, h)
			if err != nil {
				t.Fatalf("mode %v alt %f: %v", mode, h, err)
			}
			bent := h + r
			corr, err := InverseRefraction(mode, bent)
			if err != nil {
				t.Fatalf("mode %v bent %f: %v", mode, bent, err)
			}
			reconstructed := bent - corr
			if math.Abs(reconstructed-h) > 1e-8 {
				t.Errorf("mode %v h=%f: round trip gave %f", mode, h, reconstructed)
			}
		}
	}
}

func TestAtmosphere_BoundaryAccepted(t *testing.T) {
	if _, err := AtmosphereAt(-500); err != nil {
		t.Errorf("-500 should be accepted: %v", err)
	}
	if _, err := AtmosphereAt(100000); err != nil {
		t.Errorf("100000 should be accepted: %v", err)
	}
	if _, err := AtmosphereAt(-500.1); err == nil {
		t.Error("-500.1 should be rejected")
	}
	if _, err := AtmosphereAt(100000.1); err == nil {
		t.Error("100000.1 should be rejected")
	}
}

func TestAtmosphere_SeaLevel(t *testing.T) {
	a, err := AtmosphereAt(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(a.DensityRatio-1.0) > 1e-9 {
		t.Errorf("sea-level density ratio = %f, want 1.0", a.DensityRatio)
	}
	if math.Abs(a.PressurePa-seaLevelPressurePa) > 1e-6 {
		t.Errorf("sea-level pressure = %f, want %f", a.PressurePa, seaLevelPressurePa)
	}
}

func TestAtmosphere_DecreasesWithHeight(t *testing.T) {
	low, _ := AtmosphereAt(1000)
	high, _ := AtmosphereAt(20000)
	if high.PressurePa >= low.PressurePa {
		t.Errorf("pressure should decrease with height: low=%f high=%f", low.PressurePa, high.PressurePa)
	}
}
