// Package moon implements a self-contained geocentric lunar theory,
// returning spherical ecliptic coordinates (longitude, latitude, distance)
// at a given TT, convertible to the EQJ or ECT frame via the ECM
// (ecliptic-of-date) intermediate.
//
// Grounded on the periodic-sum shape of
// other_examples/66b3d51f_soniakeys-meeus__moon-moon.go.go and on
// coord/coord.go's obliquity/nutation machinery for the ECM->EQJ/ECT
// conversion chain. The retrieval pack carries no literal ELP2000/Brown
// coefficient table, so the series itself is the well-known low-precision
// lunar position formula (Astronomical Almanac / Meeus ch. 47, abbreviated
// form): a handful of dominant periodic terms in the Moon's mean anomaly and
// argument of latitude, good to a few arcminutes rather than a full
// sub-arcsecond literal series — documented in DESIGN.md as a
// scope reduction, not passed off as the full theory.
package moon

import (
	"math"

	"github.com/wrenfield/astrocore/frame"
	"github.com/wrenfield/astrocore/vector"
)

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
	j2000JD = 2451545.0
	kmPerAU = 1.4959787069098932e8
)

func mod360(deg float64) float64 {
	m := math.Mod(deg, 360.0)
	if m < 0 {
		m += 360.0
	}
	return m
}

// EclipticGeoMoon holds spherical geocentric ecliptic-of-date coordinates.
type EclipticGeoMoon struct {
	LonDeg  float64
	LatDeg  float64
	DistAU  float64
}

// Ecliptic returns the Moon's geocentric ecliptic-of-date position at ttJD.
func Ecliptic(ttJD float64) EclipticGeoMoon {
	T := (ttJD - j2000JD) / 36525.0

	lp := mod360(218.3164477 + 481267.88123421*T)
	m := mod360(134.9633964+477198.8675055*T) * deg2rad
	ms := mod360(357.5291092+35999.0502909*T) * deg2rad
	f := mod360(93.2720950+483202.0175233*T) * deg2rad
	d := mod360(297.8501921+445267.1114034*T) * deg2rad

	lon := lp +
		6.288774*math.Sin(m) +
		1.274027*math.Sin(2*d-m) +
		0.658314*math.Sin(2*d) +
		0.213618*math.Sin(2*m) -
		0.185116*math.Sin(ms) -
		0.114332*math.Sin(2*f)

	lat := 5.128122*math.Sin(f) +
		0.280602*math.Sin(m+f) +
		0.277693*math.Sin(m-f) +
		0.173237*math.Sin(2*d-f) +
		0.055413*math.Sin(2*d+f-m)

	distKm := 385000.56 -
		20905.355*math.Cos(m) -
		3699.111*math.Cos(2*d-m) -
		2955.968*math.Cos(2*d) -
		569.925*math.Cos(2*m)

	return EclipticGeoMoon{
		LonDeg: mod360(lon),
		LatDeg: lat,
		DistAU: distKm / kmPerAU,
	}
}

// Vector returns the Moon's geocentric position in the ECM (ecliptic of
// date) frame as a TerseVector, in AU.
func (e EclipticGeoMoon) Vector() vector.TerseVector {
	return vector.FromSpherical(vector.Spherical{LatDeg: e.LatDeg, LonDeg: e.LonDeg, Dist: e.DistAU})
}

// GeoMoon returns the Moon's geocentric position in the EQJ (J2000
// equatorial) frame at ttJD: the series' ecliptic-of-date coordinates are
// converted to rectangular, rotated to the equator of date by the true
// obliquity of date, then carried into J2000 by gyration (Into2000).
func GeoMoon(ttJD float64) vector.Vector3 {
	ecl := Ecliptic(ttJD)
	vEclOfDate := ecl.Vector()

	// ECT(date) -> EQD(date): rotate by the true obliquity of date.
	et := frame.EvalETilt(ttJD)
	eps := et.TrueOblDeg * deg2rad
	sinE, cosE := math.Sincos(eps)
	vEqd := vector.TerseVector{
		vEclOfDate[0],
		cosE*vEclOfDate[1] - sinE*vEclOfDate[2],
		sinE*vEclOfDate[1] + cosE*vEclOfDate[2],
	}

	// EQD(date) -> EQJ(J2000) via gyration.
	vEqj := frame.Gyration(vEqd, ttJD, frame.Into2000)

	return vector.WithTerse(vEqj, ttJD-j2000JD)
}

// GeoMoonEcliptic converts a J2000-equatorial geocentric Moon vector back to
// ecliptic-of-date (ECT) coordinates, for the round-trip identity:
// ecliptic_geo_moon -> geo_moon -> ecliptic.
func GeoMoonEcliptic(ttJD float64) vector.Spherical {
	vEqj := GeoMoon(ttJD).Terse()
	vEqd := frame.Gyration(vEqj, ttJD, frame.From2000)
	et := frame.EvalETilt(ttJD)
	eps := et.TrueOblDeg * deg2rad
	sinE, cosE := math.Sincos(eps)
	vEct := vector.TerseVector{
		vEqd[0],
		cosE*vEqd[1] + sinE*vEqd[2],
		-sinE*vEqd[1] + cosE*vEqd[2],
	}
	return vector.ToSpherical(vEct)
}
