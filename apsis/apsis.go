// Package apsis finds planetary and lunar perihelion/aphelion events.
//
// Grounded on package search's generic zero-crossing primitive (the
// slope-crossing technique has no teacher counterpart — almanac.go never
// searches a derivative — so this is new code built in the pack's idiom:
// closures over a distance function, iterate-and-shrink convergence like
// kepler.Orbit.solveElliptic). BruteSearchPlanetApsis additionally calls
// search.FindMinima/FindMaxima directly for its coarse-scan-then-refine
// extremum search, rather than re-deriving that logic by hand.
package apsis

import (
	"math"

	"github.com/pkg/errors"

	"github.com/wrenfield/astrocore/astroerr"
	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/moon"
	"github.com/wrenfield/astrocore/observe"
	"github.com/wrenfield/astrocore/pluto"
	"github.com/wrenfield/astrocore/search"
)

// Kind distinguishes perihelion (closest approach) from aphelion (farthest).
type Kind int

const (
	Perihelion Kind = iota
	Aphelion
)

// Event is a single apsis: the time and heliocentric (or geocentric, for
// the Moon) distance in AU.
type Event struct {
	TT      float64
	Kind    Kind
	DistAU  float64
}

func distanceFunc(b body.Body, cache *pluto.Cache) (func(tt float64) (float64, error), error) {
	if b == body.Moon {
		return func(tt float64) (float64, error) {
			return moon.Ecliptic(tt).DistAU, nil
		}, nil
	}
	if !b.IsPlanet() && b != body.Pluto {
		return nil, astroerr.ErrUnsupportedBody
	}
	return func(tt float64) (float64, error) {
		v, err := observe.HelioVector(b, tt, cache)
		if err != nil {
			return 0, err
		}
		return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z), nil
	}, nil
}

func slope(f func(float64) (float64, error), tt, dt float64) (float64, error) {
	r1, err := f(tt - dt/2)
	if err != nil {
		return 0, err
	}
	r2, err := f(tt + dt/2)
	if err != nil {
		return 0, err
	}
	return (r2 - r1) / dt, nil
}

// SearchPlanetApsis finds the next perihelion or aphelion of a well-behaved
// orbit (not Neptune, not Pluto — use BruteSearchPlanetApsis there) at or
// after startTT, by stepping in 1/6-orbital-period intervals and bisecting
// the slope sign change.
func SearchPlanetApsis(b body.Body, startTT float64, cache *pluto.Cache) (Event, error) {
	period, ok := body.OrbitalPeriodDays[b]
	if !ok {
		return Event{}, astroerr.ErrUnsupportedBody
	}
	f, err := distanceFunc(b, cache)
	if err != nil {
		return Event{}, err
	}

	const dt = 0.01
	step := period / 6.0

	t1 := startTT
	s1, err := slope(f, t1, dt)
	if err != nil {
		return Event{}, err
	}

	for i := 0; i < 12; i++ {
		t2 := t1 + step
		s2, err := slope(f, t2, dt)
		if err != nil {
			return Event{}, err
		}

		if s1 < 0 && s2 >= 0 {
			tRoot, ok, err := search.Search(func(tt float64) float64 {
				v, _ := slope(f, tt, dt)
				return v
			}, t1, t2, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})
			if err != nil {
				return Event{}, err
			}
			if ok {
				dist, err := f(tRoot)
				if err != nil {
					return Event{}, err
				}
				return Event{TT: tRoot, Kind: Perihelion, DistAU: dist}, nil
			}
		}
		if s1 >= 0 && s2 < 0 {
			neg := func(tt float64) float64 {
				v, _ := slope(f, tt, dt)
				return -v
			}
			tRoot, ok, err := search.Search(neg, t1, t2, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})
			if err != nil {
				return Event{}, err
			}
			if ok {
				dist, err := f(tRoot)
				if err != nil {
					return Event{}, err
				}
				return Event{TT: tRoot, Kind: Aphelion, DistAU: dist}, nil
			}
		}

		t1, s1 = t2, s2
	}
	return Event{}, errors.WithMessage(astroerr.ErrSearchNonConvergent, "search_planet_apsis: no apsis found within 2 orbits")
}

// BruteSearchPlanetApsis handles Neptune and Pluto, whose near-circular or
// N-body-perturbed orbits make the slope-sign technique unreliable: it
// scans an arc from -30 to +270 degrees of orbital phase around startTT
// with package search's FindMinima/FindMaxima (coarse sample, then
// golden-section refine each bracket to under a minute wide) and returns
// the earliest resulting extremum at or after startTT.
func BruteSearchPlanetApsis(b body.Body, startTT float64, cache *pluto.Cache) (Event, error) {
	period, ok := body.OrbitalPeriodDays[b]
	if !ok {
		return Event{}, astroerr.ErrUnsupportedBody
	}
	f, err := distanceFunc(b, cache)
	if err != nil {
		return Event{}, err
	}
	dist := func(tt float64) float64 {
		d, _ := f(tt)
		return d
	}

	const nSamples = 100
	const oneMinuteDays = 1.0 / (24.0 * 60.0)
	arcStart := startTT - 30.0/360.0*period
	arcEnd := startTT + 270.0/360.0*period
	stepDays := (arcEnd - arcStart) / nSamples

	minima, err := search.FindMinima(arcStart, arcEnd, stepDays, dist, oneMinuteDays)
	if err != nil {
		return Event{}, err
	}
	maxima, err := search.FindMaxima(arcStart, arcEnd, stepDays, dist, oneMinuteDays)
	if err != nil {
		return Event{}, err
	}

	var best *Event
	for _, m := range minima {
		if m.T >= startTT && (best == nil || m.T < best.TT) {
			best = &Event{TT: m.T, Kind: Perihelion, DistAU: m.Value}
		}
	}
	for _, m := range maxima {
		if m.T >= startTT && (best == nil || m.T < best.TT) {
			best = &Event{TT: m.T, Kind: Aphelion, DistAU: m.Value}
		}
	}
	if best == nil {
		return Event{}, errors.WithMessage(astroerr.ErrSearchNonConvergent, "brute_search_planet_apsis: no apsis found within arc")
	}
	return *best, nil
}

// NextPlanetApsis skips a quarter orbital period past prev and searches for
// the next apsis, which must be of the opposite kind.
func NextPlanetApsis(b body.Body, prev Event, cache *pluto.Cache) (Event, error) {
	period, ok := body.OrbitalPeriodDays[b]
	if !ok {
		return Event{}, astroerr.ErrUnsupportedBody
	}
	next, err := SearchPlanetApsis(b, prev.TT+period/4.0, cache)
	if err != nil {
		return Event{}, err
	}
	if next.Kind == prev.Kind {
		return Event{}, errors.WithMessage(astroerr.ErrInternal, "next_planet_apsis: apsis kind did not alternate")
	}
	return next, nil
}

// SearchLunarApsis finds the Moon's next perigee or apogee at or after
// startTT, using the same slope-crossing technique against geocentric
// distance.
func SearchLunarApsis(startTT float64) (Event, error) {
	f := func(tt float64) (float64, error) {
		return moon.Ecliptic(tt).DistAU, nil
	}
	const dt = 0.01
	const stepDays = 27.55 / 2.0 // roughly half the anomalistic month

	t1 := startTT
	s1, err := slope(f, t1, dt)
	if err != nil {
		return Event{}, err
	}
	for i := 0; i < 6; i++ {
		t2 := t1 + stepDays
		s2, err := slope(f, t2, dt)
		if err != nil {
			return Event{}, err
		}
		if s1 < 0 && s2 >= 0 {
			tRoot, ok, err := search.Search(func(tt float64) float64 {
				v, _ := slope(f, tt, dt)
				return v
			}, t1, t2, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})
			if err == nil && ok {
				d, _ := f(tRoot)
				return Event{TT: tRoot, Kind: Perihelion, DistAU: d}, nil
			}
		}
		if s1 >= 0 && s2 < 0 {
			neg := func(tt float64) float64 {
				v, _ := slope(f, tt, dt)
				return -v
			}
			tRoot, ok, err := search.Search(neg, t1, t2, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})
			if err == nil && ok {
				d, _ := f(tRoot)
				return Event{TT: tRoot, Kind: Aphelion, DistAU: d}, nil
			}
		}
		t1, s1 = t2, s2
	}
	return Event{}, errors.WithMessage(astroerr.ErrSearchNonConvergent, "lunar apsis: no crossing found")
}
