// Package illum computes visual apparent magnitude, Saturn's ring-tilt
// angle, and fractional disc-overlap obscuration.
//
// The magnitude polynomials are ported from magnitude/magnitude.go
// (Mallama & Hilton 2018), re-keyed
// from NAIF body IDs to body.Body. Ring tilt and obscuration_discs have no
// prior counterpart here and are built fresh: ring tilt from the standard
// ring-plane-latitude formula (Meeus, Astronomical Algorithms ch. 45),
// obscuration from the two-circle lens-area algebra in the same style as
// geometry.go's disc/sphere intersections.
package illum

import (
	"math"

	"github.com/wrenfield/astrocore/astroerr"
	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/frame"
	"github.com/wrenfield/astrocore/observe"
	"github.com/wrenfield/astrocore/pluto"
	"github.com/wrenfield/astrocore/vector"
)

const (
	rad2deg = vector.Rad2Deg
	deg2rad = vector.Deg2Rad

	// Ring-plane ascending node longitude and inclination to the ecliptic,
	// J2000 value plus drift per Julian century (Meeus ch. 45).
	ringNode0Deg           = 169.508
	ringNodeRatePerCentury = 1.394
	ringIncl0Deg           = 28.075
	ringInclRatePerCentury = -0.012

	meanEarthMoonDistAU = 384400.0 / vector.KmPerAU
)

// Result is the illumination state of a body at a given time: its visual
// magnitude, Sun-body-observer phase angle, and (Saturn only) ring tilt as
// seen from Earth.
type Result struct {
	Magnitude     float64
	PhaseAngleDeg float64
	RingTiltDeg   float64
}

// Illuminate computes b's illumination state at ttJD, as seen from Earth.
func Illuminate(b body.Body, ttJD float64, cache *pluto.Cache) (Result, error) {
	if b == body.Moon {
		return moonIlluminate(ttJD, cache)
	}
	if !b.IsPlanet() && b != body.Pluto {
		return Result{}, astroerr.ErrUnsupportedBody
	}

	sunToBody, err := observe.HelioVector(b, ttJD, cache)
	if err != nil {
		return Result{}, err
	}
	earthToBody, err := observe.GeoVector(b, ttJD, true, cache)
	if err != nil {
		return Result{}, err
	}

	rAU := vector.Length(sunToBody.Terse())
	deltaAU := vector.Length(earthToBody.Terse())
	phaseAngle := angleBetween(sunToBody.Terse(), earthToBody.Terse()) * rad2deg

	var ringTilt float64
	var mag float64
	switch b {
	case body.Saturn:
		bEarth := ringLatitude(ttJD, earthToBody.Terse())
		bSun := ringLatitude(ttJD, sunToBody.Terse())
		mag = saturn(rAU, deltaAU, phaseAngle, bSun, bEarth)
		ringTilt = bEarth
	case body.Uranus:
		sunSubLat := subLatitude(uranusPole, sunToBody.Terse())
		earthSubLat := subLatitude(uranusPole, earthToBody.Terse())
		mag = uranus(rAU, deltaAU, phaseAngle, sunSubLat, earthSubLat)
	case body.Neptune:
		year := 2000.0 + (ttJD-2451545.0)/365.25
		mag = neptune(rAU, deltaAU, phaseAngle, year)
	default:
		mag, err = planetaryMagnitude(b, rAU, deltaAU, phaseAngle)
		if err != nil {
			return Result{}, err
		}
	}

	return Result{Magnitude: mag, PhaseAngleDeg: phaseAngle, RingTiltDeg: ringTilt}, nil
}

func moonIlluminate(ttJD float64, cache *pluto.Cache) (Result, error) {
	sunToMoon, err := observe.HelioVector(body.Moon, ttJD, cache)
	if err != nil {
		return Result{}, err
	}
	earthToMoon, err := observe.GeoVector(body.Moon, ttJD, true, cache)
	if err != nil {
		return Result{}, err
	}
	distAU := vector.Length(earthToMoon.Terse())
	phaseAngle := angleBetween(sunToMoon.Terse(), earthToMoon.Terse()) * rad2deg
	return Result{Magnitude: moonMagnitude(phaseAngle, distAU), PhaseAngleDeg: phaseAngle}, nil
}

// moonMagnitude is a black box in the source spec (no literal lunar
// coefficients exist anywhere in the pack): approximated here as a
// Mallama-style low-order phase polynomial plus the usual 5*log10(distance)
// term, monotone increasing in phase angle (hence in obscured fraction) for
// fixed distance.
func moonMagnitude(phaseAngleDeg, distAU float64) float64 {
	phi := phaseAngleDeg
	dm := 5 * math.Log10(distAU/meanEarthMoonDistAU)
	return -12.74 + dm + phi*(0.0255+phi*phi*3.48e-9)
}

func planetaryMagnitude(b body.Body, r, delta, phi float64) (float64, error) {
	switch b {
	case body.Mercury:
		return mercury(r, delta, phi), nil
	case body.Venus:
		return venus(r, delta, phi), nil
	case body.Earth:
		return earth(r, delta, phi), nil
	case body.Mars:
		return mars(r, delta, phi), nil
	case body.Jupiter:
		return jupiter(r, delta, phi), nil
	case body.Pluto:
		return pluto_(r, delta, phi), nil
	}
	return 0, astroerr.ErrUnsupportedBody
}

// mercury — Mallama & Hilton Equation #2.
func mercury(r, delta, phi float64) float64 {
	dm := 5 * math.Log10(r*delta)
	pf := phi * (6.3280e-02 + phi*(-1.6336e-03+phi*(3.3644e-05+
		phi*(-3.4265e-07+phi*(1.6893e-09+phi*(-3.0334e-12))))))
	return -0.613 + dm + pf
}

// venus — Mallama & Hilton Equations #3 and #4.
func venus(r, delta, phi float64) float64 {
	dm := 5 * math.Log10(r*delta)
	var pf float64
	if phi < 163.7 {
		pf = phi * (-1.044e-03 + phi*(3.687e-04+phi*(-2.814e-06+phi*8.938e-09)))
	} else {
		pf = (236.05828 + 4.384) + phi*(-2.81914e+00+phi*8.39034e-03)
	}
	return -4.384 + dm + pf
}

// earth — Mallama & Hilton Equation #5.
func earth(r, delta, phi float64) float64 {
	dm := 5 * math.Log10(r*delta)
	return -3.99 + dm + phi*(-1.060e-03+phi*2.054e-04)
}

// mars — Mallama & Hilton Equations #6 and #7.
func mars(r, delta, phi float64) float64 {
	dm := 5 * math.Log10(r*delta)
	var base, pf float64
	if phi <= 50.0 {
		base = -1.601
		pf = phi * (2.267e-02 + phi*(-1.302e-04))
	} else {
		base = -0.367
		pf = phi * (-0.02573 + phi*3.445e-04)
	}
	return base + dm + pf
}

// jupiter — Mallama & Hilton Equations #8 and #9.
func jupiter(r, delta, phi float64) float64 {
	dm := 5 * math.Log10(r*delta)
	if phi <= 12.0 {
		return -9.395 + dm + phi*(6.16e-04*phi-3.7e-04)
	}
	pp := phi / 180.0
	poly := ((((-1.876*pp+2.809)*pp-0.062)*pp-0.363)*pp-1.507)*pp + 1.0
	return -9.428 + dm - 2.5*math.Log10(poly)
}

// saturn — Mallama & Hilton Equations #10, #11, #12, with rings: the two
// sub-latitudes (Sun and Earth, referred to the ring plane) come from
// ringLatitude rather than a fixed pole vector.
func saturn(r, delta, phi, sunSubLat, earthSubLat float64) float64 {
	dm := 5 * math.Log10(r*delta)

	product := sunSubLat * earthSubLat
	var subLatGeoc float64
	if product >= 0 {
		subLatGeoc = math.Sqrt(product)
	}

	if phi <= 6.5 && subLatGeoc <= 27.0 {
		sinSL := math.Sin(subLatGeoc * deg2rad)
		return -8.914 + dm - 1.825*sinSL + 0.026*phi -
			0.378*sinSL*math.Exp(-2.25*phi)
	}
	if phi > 6.5 {
		return -8.94 + dm + phi*(2.446e-04+phi*(2.672e-04+phi*(-1.506e-06+phi*4.767e-09)))
	}
	return math.NaN()
}

// Uranus's ICRF pole direction (RA=257.311°, Dec=-15.175°).
var uranusPole = [3]float64{-0.21199958, -0.94155916, -0.26176809}

// uranus — Mallama & Hilton Equations #14 and #15.
func uranus(r, delta, phi, sunSubLat, earthSubLat float64) float64 {
	dm := 5 * math.Log10(r*delta)
	subLat := (math.Abs(sunSubLat) + math.Abs(earthSubLat)) / 2.0
	mag := -7.110 + dm + (-0.00084 * subLat)
	if phi > 3.1 {
		mag += phi * (1.045e-4*phi + 6.587e-3)
	}
	return mag
}

// neptune — Mallama & Hilton Equations #16 and #17.
func neptune(r, delta, phi, year float64) float64 {
	dm := 5 * math.Log10(r*delta)
	base := -6.89 - 0.0054*(year-1980.0)
	if base < -7.00 {
		base = -7.00
	}
	if base > -6.89 {
		base = -6.89
	}
	mag := base + dm
	if phi > 1.9 && year >= 2000.0 {
		mag += phi * (7.944e-3 + phi*9.617e-5)
	}
	return mag
}

// pluto_ has no Mallama & Hilton polynomial (Pluto is outside their model's
// scope); approximated by the same H-G phase-integral form used for faint,
// airless, low-albedo bodies, with H and G drawn from Pluto's known mean
// opposition magnitude.
func pluto_(r, delta, phi float64) float64 {
	const h, g = -0.4, 0.08
	dm := 5 * math.Log10(r*delta)
	phiRad := phi * deg2rad
	phaseFunc := (1-g)*math.Exp(-3.33*math.Pow(math.Tan(phiRad/2), 0.63)) +
		g*math.Exp(-1.87*math.Pow(math.Tan(phiRad/2), 1.22))
	if phaseFunc <= 0 {
		return h + dm
	}
	return h + dm - 2.5*math.Log10(phaseFunc)
}

// ringLatitude is the Saturnicentric latitude of the point at the far end
// of directionAU, referred to the ring plane (Meeus eq. 45.6): sin(B) =
// sin(i)cos(β)sin(λ-Ω) - cos(i)sin(β), where λ,β are directionAU's
// ecliptic longitude/latitude.
func ringLatitude(ttJD float64, directionAU [3]float64) float64 {
	T := (ttJD - 2451545.0) / 36525.0
	incl := (ringIncl0Deg + ringInclRatePerCentury*T) * deg2rad
	node := (ringNode0Deg + ringNodeRatePerCentury*T) * deg2rad

	ecl := frame.EquatorialJ2000ToEcliptic(vector.TerseVector(directionAU))
	sph := vector.ToSpherical(ecl)
	b := sph.LatDeg * deg2rad
	l := sph.LonDeg * deg2rad

	sinB := math.Sin(incl)*math.Cos(b)*math.Sin(l-node) - math.Cos(incl)*math.Sin(b)
	return math.Asin(clampUnit(sinB)) * rad2deg
}

// RingTilt is the public form of ringLatitude: Saturn's ring-tilt angle as
// seen from Earth at ttJD, given Saturn's geocentric ecliptic longitude and
// latitude in degrees.
func RingTilt(ttJD, eclLonDeg, eclLatDeg float64) float64 {
	T := (ttJD - 2451545.0) / 36525.0
	incl := (ringIncl0Deg + ringInclRatePerCentury*T) * deg2rad
	node := (ringNode0Deg + ringNodeRatePerCentury*T) * deg2rad
	b := eclLatDeg * deg2rad
	l := eclLonDeg * deg2rad
	sinB := math.Sin(incl)*math.Cos(b)*math.Sin(l-node) - math.Cos(incl)*math.Sin(b)
	return math.Asin(clampUnit(sinB)) * rad2deg
}

// subLatitude computes the sub-observer latitude on a planet given the
// planet's pole unit vector and the observer-to-planet direction vector.
func subLatitude(pole, direction [3]float64) float64 {
	a := angleBetween(pole, direction)
	return a*rad2deg - 90.0
}

func angleBetween(u, v [3]float64) float64 {
	uMag := math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
	vMag := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if uMag == 0 || vMag == 0 {
		return 0
	}
	a := [3]float64{u[0] * vMag, u[1] * vMag, u[2] * vMag}
	b := [3]float64{v[0] * uMag, v[1] * uMag, v[2] * uMag}
	diff := [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
	sum := [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
	return 2.0 * math.Atan2(vecLength(diff), vecLength(sum))
}

func vecLength(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// ObscurationDiscs is the fractional area of disc a (radius a) hidden
// behind disc b (radius b), whose centers are separated by c.
func ObscurationDiscs(a, b, c float64) float64 {
	if c >= a+b {
		return 0
	}
	if c < 1e-12 {
		ratio := b / a
		if ratio > 1 {
			ratio = 1
		}
		return ratio * ratio
	}
	if c <= math.Abs(a-b) {
		if a <= b {
			return 1
		}
		return (b / a) * (b / a)
	}
	x := (a*a - b*b + c*c) / (2 * c)
	y := math.Sqrt(math.Max(0, a*a-x*x))
	area := a*a*math.Acos(clampUnit(x/a)) - x*y +
		b*b*math.Acos(clampUnit((c-x)/b)) - (c-x)*y
	return area / (math.Pi * a * a)
}
