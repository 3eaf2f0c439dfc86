// Package riseset finds rise, set, altitude-crossing, and hour-angle events
// for ground observers.
//
// Grounded on almanac/almanac.go's discrete-crossing idiom (SunriseSunset,
// Risings, Settings, Twilight), re-expressed as a find_ascent bisection
// feeding a parabolic zero-crossing search in package search, rather than
// a coarse fixed-step scan.
package riseset

import (
	"math"

	"github.com/pkg/errors"

	"github.com/wrenfield/astrocore/astroerr"
	"github.com/wrenfield/astrocore/astrotime"
	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/frame"
	"github.com/wrenfield/astrocore/observe"
	"github.com/wrenfield/astrocore/observer"
	"github.com/wrenfield/astrocore/pluto"
	"github.com/wrenfield/astrocore/refraction"
	"github.com/wrenfield/astrocore/search"
)

const (
	riseSetDtDays       = 0.42 // Nyquist-safe step for a body with a >=22h rise/set cycle
	maxAscentDepth      = 17
	hourAngleToleranceS = 0.1
	solarDaysPerSidereal = 0.9972695664
	refractionNearHorizonDeg = 34.0 / 60.0
)

// maxDerivAltDegPerDay is a conservative per-body bound on |d(alt)/dt| used
// to prune find_ascent's recursion. No literal rate table survives in the
// retrieval pack; these bounds are set from each body's own angular rate
// (the Moon's ~13.2 deg/day sidereal motion dominates its altitude rate at
// rise/set, the outer planets barely move against the stars) padded for the
// diurnal rotation rate common to all bodies (~360 deg / 0.997 day).
var maxDerivAltDegPerDay = map[body.Body]float64{
	body.Sun:     460.0,
	body.Moon:    475.0,
	body.Mercury: 460.0,
	body.Venus:   460.0,
	body.Mars:    460.0,
	body.Jupiter: 460.0,
	body.Saturn:  460.0,
	body.Uranus:  460.0,
	body.Neptune: 460.0,
}

func defaultMaxDerivAlt(b body.Body) float64 {
	if v, ok := maxDerivAltDegPerDay[b]; ok {
		return v
	}
	return 460.0
}

// altitudeFunc returns a body's apparent altitude in degrees at ttJD for a
// fixed observer, with aberration applied; the topocentric altitude here is
// always unrefracted, matching internal_search_altitude's contract that
// refraction is folded into the caller-supplied target altitude.
func altitudeFunc(b body.Body, obs observer.Observer, cache *pluto.Cache) func(ttJD float64) (float64, error) {
	return func(ttJD float64) (float64, error) {
		ra, dec, _, err := observe.Equator(b, ttJD, &obs, true, true, cache)
		if err != nil {
			return 0, err
		}
		gastHours := astrotime.GAST(ttJD, frame.EvalETilt(ttJD).EqEqHours)
		alt, _, err := observe.Horizontal(ra, dec, gastHours, obs, refraction.None)
		if err != nil {
			return 0, err
		}
		return alt, nil
	}
}

// bodyRadiusDeg returns the apparent angular radius in degrees of a body
// seen from distAU; only the Sun and Moon have a nonzero apparent disc in
// this model.
func bodyRadiusDeg(b body.Body, distAU float64) float64 {
	switch b {
	case body.Sun:
		const sunRadiusAU = 0.00465047
		return math.Asin(sunRadiusAU/distAU) * 180.0 / math.Pi
	case body.Moon:
		const moonRadiusKm = 1737.4
		const kmPerAU = 1.4959787069098932e8
		return math.Asin((moonRadiusKm/kmPerAU)/distAU) * 180.0 / math.Pi
	default:
		return 0
	}
}

// SearchRiseSet finds the next time a body's upper limb crosses the
// horizon in the requested direction (+1 rising, -1 setting), starting at
// startTT and searching up to limitDays ahead (or behind, if limitDays is
// negative). metersAboveGround lowers the effective horizon by a dip angle.
func SearchRiseSet(b body.Body, obs observer.Observer, direction int, startTT, limitDays, metersAboveGround float64, cache *pluto.Cache) (float64, bool, error) {
	if err := obs.Validate(); err != nil {
		return 0, false, err
	}
	if direction != 1 && direction != -1 {
		return 0, false, errors.WithMessage(astroerr.ErrDomain, "direction must be +1 or -1")
	}

	_, _, dist, err := observe.Equator(b, startTT, nil, true, true, cache)
	if err != nil {
		return 0, false, err
	}
	radiusDeg := bodyRadiusDeg(b, dist)

	dipDeg := 0.0
	if metersAboveGround > 0 {
		const earthRadiusM = 6371000.0
		dipDeg = math.Acos(earthRadiusM/(earthRadiusM+metersAboveGround)) * 180.0 / math.Pi
	}

	target := -(radiusDeg) - refractionNearHorizonDeg - dipDeg

	return internalSearchAltitude(b, obs, direction, startTT, limitDays, target, cache)
}

// SearchAltitude finds when a body's altitude crosses a user-specified
// value (no refraction or angular-radius correction — for twilight
// boundaries or other user-defined thresholds).
func SearchAltitude(b body.Body, obs observer.Observer, direction int, startTT, limitDays, altitudeDeg float64, cache *pluto.Cache) (float64, bool, error) {
	if err := obs.Validate(); err != nil {
		return 0, false, err
	}
	if direction != 1 && direction != -1 {
		return 0, false, errors.WithMessage(astroerr.ErrDomain, "direction must be +1 or -1")
	}
	return internalSearchAltitude(b, obs, direction, startTT, limitDays, altitudeDeg, cache)
}

func internalSearchAltitude(b body.Body, obs observer.Observer, direction int, startTT, limitDays, target float64, cache *pluto.Cache) (float64, bool, error) {
	altOf := altitudeFunc(b, obs, cache)
	altdiff := func(tt float64) float64 {
		a, err := altOf(tt)
		if err != nil {
			return 0
		}
		return float64(direction) * (a - target)
	}

	maxDeriv := defaultMaxDerivAlt(b)

	step := riseSetDtDays
	if limitDays < 0 {
		step = -step
	}

	t1 := startTT
	remaining := math.Abs(limitDays)
	a1 := altdiff(t1)

	for remaining > 0 {
		dt := step
		if math.Abs(dt) > remaining {
			if limitDays < 0 {
				dt = -remaining
			} else {
				dt = remaining
			}
		}
		t2 := t1 + dt
		a2 := altdiff(t2)

		if findAscent(0, altdiff, maxDeriv, t1, t2, a1, a2) {
			// Follow findAscent's bisection down to the sub-window whose
			// endpoints bracket the ascent, and refine that bracket.
			lo, hi, flo, fhi := t1, t2, a1, a2
			for depth := 1; !(flo < 0 && fhi >= 0) && depth <= maxAscentDepth; depth++ {
				mid := 0.5 * (lo + hi)
				fm := altdiff(mid)
				if findAscent(depth, altdiff, maxDeriv, lo, mid, flo, fm) {
					hi, fhi = mid, fm
				} else {
					lo, flo = mid, fm
				}
			}
			result, ok, err := search.Search(altdiff, math.Min(lo, hi), math.Max(lo, hi), search.ZeroCrossingOptions{
				DtToleranceDays: hourAngleToleranceS / 86400.0,
			})
			if err != nil {
				return 0, false, err
			}
			if ok {
				return result, true, nil
			}
		}

		t1, a1 = t2, a2
		remaining -= math.Abs(dt)
	}

	return 0, false, nil
}

// findAscent recursively bisects [t1,t2] looking for a bracket where
// altdiff goes from negative to non-negative, pruning subtrees where the
// maximum possible altitude change (maxDeriv*(dt/2)) cannot bridge the gap.
func findAscent(depth int, altdiff func(float64) float64, maxDeriv, t1, t2, a1, a2 float64) bool {
	if a1 < 0 && a2 >= 0 {
		return true
	}
	if depth >= maxAscentDepth {
		return false
	}
	// Prune: neither endpoint can reach zero if the required swing exceeds
	// what maxDeriv permits over half the interval.
	dt := t2 - t1
	halfSwing := maxDeriv * (dt / 2.0)
	if a1 > halfSwing && a2 > halfSwing {
		return false
	}
	if a1 < -halfSwing && a2 < -halfSwing {
		return false
	}

	tm := 0.5 * (t1 + t2)
	am := altdiff(tm)

	if findAscent(depth+1, altdiff, maxDeriv, t1, tm, a1, am) {
		return true
	}
	return findAscent(depth+1, altdiff, maxDeriv, tm, t2, am, a2)
}

// SearchHourAngle finds the time at or after startTT (or before, if
// direction is -1) when a body's hour angle equals the requested value,
// by iterative sidereal-to-solar correction.
func SearchHourAngle(b body.Body, obs observer.Observer, hourAngle, startTT float64, direction int, cache *pluto.Cache) (float64, error) {
	if hourAngle < 0 || hourAngle >= 24 {
		return 0, errors.WithMessage(astroerr.ErrDomain, "hour_angle must be in [0,24)")
	}

	t := startTT
	for iter := 0; iter < 100; iter++ {
		ra, _, _, err := observe.Equator(b, t, nil, true, true, cache)
		if err != nil {
			return 0, err
		}
		gast := astrotime.GAST(t, frame.EvalETilt(t).EqEqHours)

		delta := math.Mod((hourAngle+ra-obs.LongitudeDeg/15.0)-gast, 24.0)
		if delta < 0 {
			delta += 24.0
		}

		if iter == 0 {
			if direction < 0 && delta > 0 {
				delta -= 24.0
			}
		} else {
			if delta > 12 {
				delta -= 24.0
			}
		}

		if math.Abs(delta)*3600.0 < hourAngleToleranceS {
			return t, nil
		}

		t += (delta / 24.0) * solarDaysPerSidereal
	}
	return 0, errors.WithMessage(astroerr.ErrSearchNonConvergent, "search_hour_angle did not converge")
}
