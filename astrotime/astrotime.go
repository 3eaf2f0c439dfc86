// Package astrotime implements the time system underlying the whole module:
// AstroTime, the civil-time boundary, the piecewise Espenak-Meeus ΔT model,
// Earth Rotation Angle, and Greenwich sidereal time.
//
// Grounded on the shape of timescale/timescale_test.go (no timescale.go
// implementation shipped in the retrieval pack — only its test file) and
// coord/coord.go's EarthRotationAngle/GMST/GAST. That test file
// exercised a table-driven historical ΔT (from a data file not present
// here); this package implements the smooth Espenak-Meeus polynomial
// model instead, so exact literal values differ slightly
// from that lost table (documented in DESIGN.md).
package astrotime

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/wrenfield/astrocore/astroerr"
)

const (
	// J2000JD is the Julian date of the epoch (2000-01-01T12:00:00 TT).
	J2000JD   = 2451545.0
	SecPerDay = 86400.0

	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
)

// DeltaTKind selects which ΔT model is active.
type DeltaTKind int

const (
	EspenakMeeus DeltaTKind = iota
	JplHorizons
	Custom
)

// CustomDeltaTSeconds supplies ΔT (seconds) for a decimal year when Custom
// is selected. astro.Engine sets this when the caller configures a custom
// ΔT function; nil means Custom falls back to 0.
var CustomDeltaTSeconds func(year float64) float64

// AstroTime is (ut, tt) days since J2000, satisfying tt = ut + ΔT(ut)/86400.
// Immutable after construction.
type AstroTime struct {
	ut float64
	tt float64
}

// UT returns the UT days-since-J2000 scalar.
func (a AstroTime) UT() float64 { return a.ut }

// TT returns the TT days-since-J2000 scalar.
func (a AstroTime) TT() float64 { return a.tt }

// TDBJulianDate returns the TDB Julian date corresponding to this time,
// for engines (vsop, pluto, moon) whose series are keyed by Julian date.
func (a AstroTime) TDBJulianDate() float64 {
	return J2000JD + a.tt + TDBMinusTT(J2000JD+a.tt)/SecPerDay
}

// TTJulianDate returns the plain TT Julian date.
func (a AstroTime) TTJulianDate() float64 {
	return J2000JD + a.tt
}

// UT1JulianDate returns the UT1 Julian date.
func (a AstroTime) UT1JulianDate() float64 {
	return J2000JD + a.ut
}

// FromUT constructs an AstroTime from a raw UT days-since-J2000 scalar,
// using the given ΔT model.
func FromUT(ut float64, kind DeltaTKind) AstroTime {
	year := 2000.0 + (ut-14.0)/365.25
	dt := DeltaTYears(year, kind)
	return AstroTime{ut: ut, tt: ut + dt/SecPerDay}
}

// FromCivil constructs an AstroTime from a civil UTC date/time.
// Seconds may carry a fractional part.
func FromCivil(year, month, day, hour, minute int, second float64, kind DeltaTKind) AstroTime {
	jdUTC := civilToJulian(year, month, day, hour, minute, second)
	ut := jdUTC - J2000JD
	return FromUT(ut, kind)
}

// AddDays returns a new AstroTime n days later, recomputing ΔT at the new UT.
func (a AstroTime) AddDays(n float64, kind DeltaTKind) AstroTime {
	return FromUT(a.ut+n, kind)
}

// Interpolate returns the AstroTime at fraction frac ∈ [0,1] between t1 and
// t2, linearly interpolating both ut and tt.
func Interpolate(t1, t2 AstroTime, frac float64) AstroTime {
	return AstroTime{
		ut: t1.ut + (t2.ut-t1.ut)*frac,
		tt: t1.tt + (t2.tt-t1.tt)*frac,
	}
}

// civilToJulian converts a UTC civil date/time to a Julian date. Standard
// Gregorian-calendar algorithm (Meeus ch. 7).
func civilToJulian(y, m, d, hh, mm int, ss float64) float64 {
	yy, mo := y, m
	if mo <= 2 {
		yy--
		mo += 12
	}
	a := yy / 100
	b := 2 - a + a/4
	dayFrac := float64(d) + (float64(hh) + float64(mm)/60.0 + ss/3600.0) / 24.0
	jd := math.Floor(365.25*float64(yy+4716)) + math.Floor(30.6001*float64(mo+1)) + dayFrac + float64(b) - 1524.5
	return jd
}

// TimeToJDUTC converts a Go time.Time (assumed UTC) to a Julian date.
func TimeToJDUTC(t time.Time) float64 {
	t = t.UTC()
	return civilToJulian(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(),
		float64(t.Second())+float64(t.Nanosecond())/1e9)
}

// deltaTFunc gives ΔT in seconds as a function of decimal year y.
type deltaTFunc func(y float64) float64

// DeltaTYears evaluates ΔT (seconds) for a given decimal year, using the
// domain breakpoints: <-500, <500, <1600, <1700, <1800,
// <1860, <1900, <1920, <1941, <1961, <1986, <2005, <2050, <2150, >=2150.
func DeltaTYears(y float64, kind DeltaTKind) float64 {
	if kind == Custom {
		if CustomDeltaTSeconds != nil {
			return CustomDeltaTSeconds(y)
		}
		return 0
	}
	if kind == JplHorizons {
		// JPL-Horizons variant clips UT to 17 tropical years before
		// evaluation.
		if y < 2000.0-17.0 {
			y = 2000.0 - 17.0
		} else if y > 2000.0+17.0 {
			y = 2000.0 + 17.0
		}
	}

	switch {
	case y < -500:
		u := (y - 1820) / 100
		return -20 + 32*u*u
	case y < 500:
		u := y / 100
		return horner(u, 10583.6, -1014.41, 33.78311, -5.952053, -0.1798452, 0.022174192, 0.0090316521)
	case y < 1600:
		u := (y - 1000) / 100
		return horner(u, 1574.2, -556.01, 71.23472, 0.319781, -0.8503463, -0.005050998, 0.0083572073)
	case y < 1700:
		u := y - 1600
		return horner(u, 120, -0.9808, -0.01532, 1.0/7129.0)
	case y < 1800:
		u := y - 1700
		return horner(u, 8.83, 0.1603, -0.0059285, 0.00013336, -1.0/1174000.0)
	case y < 1860:
		u := y - 1800
		return horner(u, 13.72, -0.332447, 0.0068612, 0.0041116, -0.00037436, 0.0000121272, -0.0000001699, 0.000000000875)
	case y < 1900:
		u := y - 1860
		return horner(u, 7.62, 0.5737, -0.251754, 0.01680668, -0.0004473624, 1.0/233174.0)
	case y < 1920:
		u := y - 1900
		return horner(u, -2.79, 1.494119, -0.0598939, 0.0061966, -0.000197)
	case y < 1941:
		u := y - 1920
		return horner(u, 21.20, 0.84493, -0.0761, 0.0020936)
	case y < 1961:
		u := y - 1950
		return horner(u, 29.07, 0.407, -1.0/233.0, 1.0/2547.0)
	case y < 1986:
		u := y - 1975
		return horner(u, 45.45, 1.067, -1.0/260.0, -1.0/718.0)
	case y < 2005:
		u := y - 2000
		return horner(u, 63.86, 0.3345, -0.060374, 0.0017275, 0.000651814, 0.00002373599)
	case y < 2050:
		u := y - 2000
		return horner(u, 62.92, 0.32217, 0.005589)
	case y < 2150:
		u := (y - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-y)
	default:
		u := (y - 1820) / 100
		return -20 + 32*u*u
	}
}

// DeltaT is a convenience wrapper: DeltaT(year) using the default
// EspenakMeeus model.
func DeltaT(year float64) float64 {
	return DeltaTYears(year, EspenakMeeus)
}

func horner(u float64, coeffs ...float64) float64 {
	var result float64
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = result*u + coeffs[i]
	}
	return result
}

// TDBMinusTT returns TDB-TT in seconds for a given TT (or TDB) Julian date.
// Fairhead & Bretagnon approximation (USNO Circular 179 eq. 2.6), grounded
// on spk.tdbMinusTT / coord's equivalent.
func TDBMinusTT(jd float64) float64 {
	t := (jd - J2000JD) / 36525.0
	return 0.001657*math.Sin(628.3076*t+6.2401) +
		0.000022*math.Sin(575.3385*t+4.2970) +
		0.000014*math.Sin(1256.6152*t+6.1969) +
		0.000005*math.Sin(606.9777*t+4.0212) +
		0.000005*math.Sin(52.9691*t+0.4444) +
		0.000002*math.Sin(21.3299*t+5.5431) +
		0.000010*t*math.Sin(628.3076*t+4.2490)
}

// EarthRotationAngle returns ERA in degrees, normalized to [0,360), for a
// UT1 Julian date (IAU Resolution B1.8 of 2000).
func EarthRotationAngle(jdUT1 float64) float64 {
	th := 0.7790572732640 + 0.00273781191135448*(jdUT1-J2000JD)
	era := math.Mod(th, 1.0) + math.Mod(jdUT1, 1.0)
	era = math.Mod(era, 1.0)
	if era < 0 {
		era += 1.0
	}
	return era * 360.0
}

// GMST returns Greenwich Mean Sidereal Time in degrees for a UT1 Julian
// date (IAU 1982 formula).
func GMST(jdUT1 float64) float64 {
	du := jdUT1 - J2000JD
	T := du / 36525.0
	gmst := 280.46061837 + 360.98564736629*du + 0.000387933*T*T - T*T*T/38710000.0
	g := math.Mod(gmst, 360.0)
	if g < 0 {
		g += 360.0
	}
	return g
}

// GAST returns Greenwich Apparent Sidereal Time in hours, for a UT1 Julian
// date and the equation of the equinoxes (hours) at that date — callers
// source the latter from frame.EvalETilt(ttJD).EqEqHours, since the
// nutation-in-longitude term it depends on lives in package frame, not here.
// Wrapped to [0,24).
func GAST(jdUT1, eqEqHours float64) float64 {
	hours := GMST(jdUT1)/15.0 + eqEqHours
	hours = math.Mod(hours, 24.0)
	if hours < 0 {
		hours += 24.0
	}
	return hours
}

// ValidateHourAngle checks that an hour angle is in [0,24).
func ValidateHourAngle(hours float64) error {
	if hours < 0 || hours >= 24 || math.IsNaN(hours) {
		return errors.WithMessage(astroerr.ErrDomain, "hour angle must be in [0,24)")
	}
	return nil
}
