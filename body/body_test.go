package body

import "testing"

func TestStarIndex(t *testing.T) {
	if Star1.StarIndex() != 0 {
		t.Errorf("Star1.StarIndex() = %d, want 0", Star1.StarIndex())
	}
	if Star8.StarIndex() != 7 {
		t.Errorf("Star8.StarIndex() = %d, want 7", Star8.StarIndex())
	}
	if Mars.StarIndex() != -1 {
		t.Errorf("Mars.StarIndex() = %d, want -1", Mars.StarIndex())
	}
}

func TestStarRecordValidate(t *testing.T) {
	good := StarRecord{RAHours: 12, DecDeg: 45, DistAU: AuPerLy}
	if err := good.Validate(); err != nil {
		t.Errorf("exactly 1 ly should validate: %v", err)
	}
	bad := StarRecord{RAHours: 12, DecDeg: 45, DistAU: AuPerLy * 0.999}
	if err := bad.Validate(); err == nil {
		t.Error("0.999 ly should fail validation")
	}
}

func TestSynodicPeriod(t *testing.T) {
	p, err := SynodicPeriodDays(Venus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p < 0 {
		p = -p
	}
	// Venus synodic period is about 584 days.
	if p < 500 || p > 650 {
		t.Errorf("Venus synodic period = %f, want ~584", p)
	}
}

func TestSynodicPeriodEarthRejected(t *testing.T) {
	if _, err := SynodicPeriodDays(Earth); err == nil {
		t.Error("SynodicPeriodDays(Earth) should fail")
	}
}
