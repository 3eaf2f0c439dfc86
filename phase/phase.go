// Package phase searches for Moon phase events (new/first-quarter/full/last
// quarter and arbitrary phase angles) and ecliptic-node crossings.
//
// Grounded on almanac/almanac.go's MoonPhases discrete-crossing idiom,
// re-expressed as a continuous-function search over the
// moon-minus-sun longitude difference (rather than a 4-value
// discrete bucket), and lunarnodes/lunarnodes.go's mean-node formula, which
// annotates each node found by the true-latitude crossing search
// (NodeEvent.MeanLongitudeDeg) instead of being returned as the result.
package phase

import (
	"math"

	"github.com/pkg/errors"

	"github.com/wrenfield/astrocore/astroerr"
	"github.com/wrenfield/astrocore/lunarnodes"
	"github.com/wrenfield/astrocore/moon"
	"github.com/wrenfield/astrocore/search"
)

// NodeKind distinguishes ascending (Moon crossing from south to north of
// the ecliptic) from descending nodes.
type NodeKind int

const (
	AscendingNode NodeKind = iota
	DescendingNode
)

// NodeEvent is a single ecliptic-plane crossing of the Moon.
type NodeEvent struct {
	TT   float64
	Kind NodeKind
	// MeanLongitudeDeg is the mean (not true) longitude of this node at TT,
	// from the long-period regression-of-nodes formula — a coarse sanity
	// reference for how far the true (searched) node has drifted from the
	// mean one at this particular crossing.
	MeanLongitudeDeg float64
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

// moonMinusSunLongitude returns the geocentric ecliptic longitude
// difference (Moon - Sun), wrapped to (-180, 180].
func moonMinusSunLongitude(ttJD float64, earthHelio func(ttJD float64) (x, y, z float64, err error)) (float64, error) {
	moonEcl := moon.Ecliptic(ttJD)

	ex, ey, ez, err := earthHelio(ttJD)
	if err != nil {
		return 0, err
	}
	// Sun's geocentric ecliptic longitude is the antipode of Earth's
	// heliocentric ecliptic longitude.
	sunLon := math.Atan2(-ey, -ex) * 180.0 / math.Pi
	_ = ez
	sunLon = math.Mod(sunLon+360.0, 360.0)

	diff := moonEcl.LonDeg - sunLon
	return wrap180(diff), nil
}

// EarthHelioFunc supplies Earth's heliocentric ecliptic-plane coordinates;
// callers pass a thin adapter over vsop.HelioVector (the x,y here are
// already ecliptic since vsop works in the ecliptic frame internally, but
// HelioVector returns equatorial ICRF — so a proper adapter must rotate via
// frame.EquatorialJ2000ToEcliptic).
type EarthHelioFunc func(ttJD float64) (x, y, z float64, err error)

// SearchMoonPhase finds the next time the Moon reaches the given phase
// angle (0=new, 90=first quarter, 180=full, 270=last quarter), searching
// forward (or backward, if limitDays is negative) from startTT.
func SearchMoonPhase(targetPhaseDeg, startTT, limitDays float64, earthHelio EarthHelioFunc) (float64, bool, error) {
	if targetPhaseDeg < 0 || targetPhaseDeg >= 360 {
		return 0, false, errors.WithMessage(astroerr.ErrDomain, "target_phase_deg must be in [0,360)")
	}
	target := wrap180(targetPhaseDeg)

	f := func(tt float64) float64 {
		diff, err := moonMinusSunLongitude(tt, earthHelio)
		if err != nil {
			return 0
		}
		return wrap180(diff - target)
	}

	step := 1.0
	if limitDays < 0 {
		step = -1.0
	}
	t1 := startTT
	f1 := f(t1)
	remaining := math.Abs(limitDays)

	for remaining > 0 {
		dt := step
		if math.Abs(dt) > remaining {
			dt = math.Copysign(remaining, step)
		}
		t2 := t1 + dt
		f2 := f(t2)

		if f1 < 0 && f2 >= 0 {
			lo, hi := t1, t2
			if lo > hi {
				lo, hi = hi, lo
			}
			tRoot, ok, err := search.Search(f, lo, hi, search.ZeroCrossingOptions{DtToleranceDays: 0.01 / 86400.0})
			if err != nil {
				return 0, false, err
			}
			if ok {
				return tRoot, true, nil
			}
		}
		t1, f1 = t2, f2
		remaining -= math.Abs(dt)
	}
	return 0, false, nil
}

// SearchMoonNode finds the next ecliptic-plane crossing (ascending or
// descending) at or after startTT, by sampling the Moon's ecliptic latitude
// every 10 days and bisecting the bracket where it changes sign.
func SearchMoonNode(startTT float64) (NodeEvent, error) {
	const stepDays = 10.0
	t1 := startTT
	lat1 := moon.Ecliptic(t1).LatDeg

	for i := 0; i < 400; i++ { // covers > 10 years forward, ample for a ~27.2 day node cycle
		t2 := t1 + stepDays
		lat2 := moon.Ecliptic(t2).LatDeg

		if (lat1 < 0) != (lat2 < 0) {
			kind := DescendingNode
			if lat2 > lat1 {
				kind = AscendingNode
			}
			sign := 1.0
			if kind == DescendingNode {
				sign = -1.0
			}
			f := func(tt float64) float64 {
				return sign * moon.Ecliptic(tt).LatDeg
			}
			tRoot, ok, err := search.Search(f, t1, t2, search.ZeroCrossingOptions{DtToleranceDays: 0.1 / 86400.0})
			if err != nil {
				return NodeEvent{}, err
			}
			if ok {
				northLon, southLon := lunarnodes.MeanLunarNodes(tRoot)
				meanLon := northLon
				if kind == DescendingNode {
					meanLon = southLon
				}
				return NodeEvent{TT: tRoot, Kind: kind, MeanLongitudeDeg: meanLon}, nil
			}
		}
		t1, lat1 = t2, lat2
	}
	return NodeEvent{}, errors.WithMessage(astroerr.ErrSearchNonConvergent, "search_moon_node: no crossing found in range")
}

// NextMoonNode advances 10 days past prev.TT and finds the next node, which
// must be of the opposite kind (ascending/descending alternate).
func NextMoonNode(prev NodeEvent) (NodeEvent, error) {
	next, err := SearchMoonNode(prev.TT + 10.0)
	if err != nil {
		return NodeEvent{}, err
	}
	if next.Kind == prev.Kind {
		return NodeEvent{}, errors.WithMessage(astroerr.ErrInternal, "next_moon_node: node kind did not alternate")
	}
	return next, nil
}
