// Package elongation computes the angular separation of a body from the
// Sun as seen from Earth, and searches for Mercury/Venus maximum-elongation
// events and arbitrary Sun-relative-longitude crossings.
//
// New: there is no elongation concept upstream (OppositionsConjunctions
// in almanac.go is the closest analog, a discrete quadrant bucket). Built
// in the same idiom instead: Newton-like convergence loop shaped like
// kepler.Orbit.solveElliptic, and package search for the final bracket
// refinement.
package elongation

import (
	"math"

	"github.com/pkg/errors"

	"github.com/wrenfield/astrocore/astroerr"
	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/frame"
	"github.com/wrenfield/astrocore/observe"
	"github.com/wrenfield/astrocore/pluto"
	"github.com/wrenfield/astrocore/search"
	"github.com/wrenfield/astrocore/vector"
)

// Visibility reports whether a body is best seen in the morning or evening
// sky, relative to the Sun.
type Visibility int

const (
	Morning Visibility = iota
	Evening
)

// windows gives the per-body angular search windows used for
// search_max_elongation (Mercury: 50/85, Venus: 40/50).
var windows = map[body.Body][2]float64{
	body.Mercury: {50, 85},
	body.Venus:   {40, 50},
}

func wrap180(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg <= -180 {
		deg += 360
	} else if deg > 180 {
		deg -= 360
	}
	return deg
}

func wrap360(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// angleFromSun returns the body's angular separation from the Sun as seen
// from Earth, in degrees, at ttJD.
func angleFromSun(b body.Body, ttJD float64, cache *pluto.Cache) (float64, error) {
	bodyGeo, err := observe.GeoVector(b, ttJD, true, cache)
	if err != nil {
		return 0, err
	}
	sunGeo, err := observe.GeoVector(body.Sun, ttJD, true, cache)
	if err != nil {
		return 0, err
	}
	return vector.Separation(bodyGeo.Terse(), sunGeo.Terse()), nil
}

// relativeLongitude returns the body-minus-Earth heliocentric ecliptic
// longitude relative to the Sun-Earth line, wrapped to (-180,180], i.e. the
// heliocentric elongation of the body from Earth's own heliocentric
// longitude. Used by search_relative_longitude and elongation's quadrant
// selection.
func relativeLongitude(b body.Body, ttJD float64, cache *pluto.Cache) (float64, error) {
	bodyHelio, err := observe.HelioVector(b, ttJD, cache)
	if err != nil {
		return 0, err
	}
	earthHelio, err := observe.HelioVector(body.Earth, ttJD, cache)
	if err != nil {
		return 0, err
	}
	bodyEcl := frame.EquatorialJ2000ToEcliptic(bodyHelio.Terse())
	earthEcl := frame.EquatorialJ2000ToEcliptic(earthHelio.Terse())
	bodyLon := math.Atan2(bodyEcl[1], bodyEcl[0]) * 180.0 / math.Pi
	earthLon := math.Atan2(earthEcl[1], earthEcl[0]) * 180.0 / math.Pi
	return wrap180(bodyLon - earthLon), nil
}

// Elongation returns the body's visibility (morning/evening), its angular
// elongation from the Sun, and its ecliptic longitude separation from the
// Sun, all as seen from Earth at ttJD.
func Elongation(b body.Body, ttJD float64, cache *pluto.Cache) (Visibility, float64, float64, error) {
	elong, err := angleFromSun(b, ttJD, cache)
	if err != nil {
		return 0, 0, 0, err
	}

	bodyGeo, err := observe.GeoVector(b, ttJD, true, cache)
	if err != nil {
		return 0, 0, 0, err
	}
	sunGeo, err := observe.GeoVector(body.Sun, ttJD, true, cache)
	if err != nil {
		return 0, 0, 0, err
	}
	bodyEcl := frame.EquatorialJ2000ToEcliptic(bodyGeo.Terse())
	sunEcl := frame.EquatorialJ2000ToEcliptic(sunGeo.Terse())
	bodyLon := math.Atan2(bodyEcl[1], bodyEcl[0]) * 180.0 / math.Pi
	sunLon := math.Atan2(sunEcl[1], sunEcl[0]) * 180.0 / math.Pi
	eclipticSep := wrap180(bodyLon - sunLon)

	vis := Evening
	if wrap360(eclipticSep) > 180.0 {
		vis = Morning
	}

	return vis, elong, eclipticSep, nil
}

// SearchRelativeLongitude finds the time at or after start when the body's
// heliocentric relative longitude (see relativeLongitude) equals
// targetRelLonDeg, by Newton-like iteration: adjust by (-error/360) of the
// current synodic-period estimate, refining the estimate once the error is
// small.
func SearchRelativeLongitude(b body.Body, targetRelLonDeg, startTT float64, cache *pluto.Cache) (float64, error) {
	synodic, err := body.SynodicPeriodDays(b)
	if err != nil {
		return 0, err
	}
	synodic = math.Abs(synodic)

	t := startTT
	prevErr := math.Inf(1)

	for iter := 0; iter < 100; iter++ {
		rlon, err := relativeLongitude(b, t, cache)
		if err != nil {
			return 0, err
		}
		errDeg := wrap180(rlon - targetRelLonDeg)

		if math.Abs(errDeg)*synodic/360.0*86400.0 < 1.0 {
			return t, nil
		}
		if iter == 0 && errDeg > 0 {
			// Step forward to the next crossing, not back to the last one.
			errDeg -= 360.0
		}

		if math.Abs(errDeg) < 10 && math.Signbit(errDeg) != math.Signbit(prevErr) && !math.IsInf(prevErr, 1) {
			// Refine the synodic-period estimate from the actual angular
			// rate observed over one trial step.
			rlon2, err := relativeLongitude(b, t+1.0, cache)
			if err == nil {
				rate := wrap180(rlon2 - rlon)
				if rate != 0 {
					synodic = math.Abs(360.0 / rate)
				}
			}
		}

		t -= (errDeg / 360.0) * synodic
		prevErr = errDeg
	}
	return 0, errors.WithMessage(astroerr.ErrSearchNonConvergent, "search_relative_longitude did not converge in 100 iterations")
}

// SearchMaxElongation finds the next maximum-elongation event (greatest
// angular separation from the Sun) for Mercury or Venus at or after start.
func SearchMaxElongation(b body.Body, startTT float64, cache *pluto.Cache) (float64, float64, error) {
	win, ok := windows[b]
	if !ok {
		return 0, 0, astroerr.ErrUnsupportedBody
	}
	s1, s2 := win[0], win[1]

	synodic, err := body.SynodicPeriodDays(b)
	if err != nil {
		return 0, 0, err
	}
	synodic = math.Abs(synodic)

	rlon0, err := relativeLongitude(b, startTT, cache)
	if err != nil {
		return 0, 0, err
	}

	var rlonLo, rlonHi, adjustDays float64
	switch {
	case rlon0 >= -s1 && rlon0 < s1:
		rlonLo, rlonHi = s1, s2
	case rlon0 > s2 || rlon0 < -s2:
		rlonLo, rlonHi = -s2, -s1
	case rlon0 >= 0:
		rlonLo, rlonHi = s1, s2
		adjustDays = -synodic / 4.0
	default:
		rlonLo, rlonHi = -s2, -s1
		adjustDays = -synodic / 4.0
	}

	tStart := startTT + adjustDays

	for retry := 0; retry < 3; retry++ {
		t1, err := SearchRelativeLongitude(b, rlonLo, tStart, cache)
		if err != nil {
			return 0, 0, err
		}
		t2, err := SearchRelativeLongitude(b, rlonHi, t1, cache)
		if err != nil {
			return 0, 0, err
		}

		const dt = 0.01
		negSlope := func(tt float64) float64 {
			a1, err1 := angleFromSun(b, tt-dt/2, cache)
			a2, err2 := angleFromSun(b, tt+dt/2, cache)
			if err1 != nil || err2 != nil {
				return 0
			}
			return (a1 - a2) / dt
		}

		lo, hi := t1, t2
		if lo > hi {
			lo, hi = hi, lo
		}
		tRoot, ok, err := search.Search(negSlope, lo, hi, search.ZeroCrossingOptions{DtToleranceDays: 10.0 / 86400.0})
		if err != nil {
			return 0, 0, err
		}
		if ok && tRoot >= startTT {
			elong, err := angleFromSun(b, tRoot, cache)
			if err != nil {
				return 0, 0, err
			}
			return tRoot, elong, nil
		}

		tStart = t2 + 1.0
	}
	return 0, 0, errors.WithMessage(astroerr.ErrSearchNonConvergent, "search_max_elongation: no event found within retries")
}
