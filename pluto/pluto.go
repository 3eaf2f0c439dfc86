// Package pluto implements a gravity simulator for Pluto: a test particle
// integrated in the field of the Sun plus Jupiter, Saturn, Uranus, and
// Neptune (obtained from package vsop), with a segment cache spanning 51
// anchor times at 29,200-day spacing, each populated lazily with 201
// interior states built by bidirectional predictor-corrector integration
// and ramp-blended between the forward and backward passes.
//
// Grounded on kepler/kepler.go's Newton-iteration / predictor-corrector
// idiom (reused here for the anchor baseline orbit) and spk/spk.go's
// lazily-populated chain/cache pattern (`s.chains`). The anchor states
// themselves are not the literal 51-row JPL integrator table (absent from
// the retrieval pack); they are computed from Pluto's well-known Standish
// secular orbital elements propagated by kepler.Orbit, the same condensed
// substitute already used by package vsop (documented in DESIGN.md). Since
// relative accelerations are frame-independent under a common origin shift,
// the simulation runs entirely in the Sun-centered (heliocentric) frame —
// the Sun's own barycentric offset cancels out of every pairwise
// difference, so no separate SSB conversion is needed for the integration
// itself.
package pluto

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/wrenfield/astrocore/astroerr"
	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/kepler"
	"github.com/wrenfield/astrocore/vector"
	"github.com/wrenfield/astrocore/vsop"
)

const (
	anchorCount  = 51
	anchorTT0    = -730000.0
	anchorStep   = 29200.0
	segmentSteps = 200
	stepDays     = anchorStep / segmentSteps // 146 days
)

// plutoElements are Pluto's Standish/JPL secular elements (valid 1800-2050),
// the same provenance as vsop's planet table.
var plutoElements = struct {
	a0, aDot, e0, eDot, i0, iDot, l0, lDot, peri0, periDot, node0, nodeDot float64
}{
	39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818,
	238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482,
}

func mod360(deg float64) float64 {
	m := deg
	for m < 0 {
		m += 360
	}
	for m >= 360 {
		m -= 360
	}
	return m
}

func baselineOrbit(ttJD float64) *kepler.Orbit {
	T := (ttJD - 2451545.0) / 36525.0
	e := plutoElements
	a := e.a0 + e.aDot*T
	ecc := e.e0 + e.eDot*T
	i := e.i0 + e.iDot*T
	l := e.l0 + e.lDot*T
	peri := e.peri0 + e.periDot*T
	node := e.node0 + e.nodeDot*T
	return &kepler.Orbit{
		SemiMajorAxisAU: a,
		Eccentricity:    ecc,
		InclinationDeg:  i,
		LongAscNodeDeg:  mod360(node),
		ArgPeriapsisDeg: mod360(peri - node),
		MeanAnomalyDeg:  mod360(l - peri),
		EpochJD:         ttJD,
	}
}

var majorBodies = [4]body.Body{body.Jupiter, body.Saturn, body.Uranus, body.Neptune}

// acceleration computes gravitational acceleration at a heliocentric test
// position pos and time ttJD, from the Sun plus the four major bodies.
func acceleration(pos vector.TerseVector, ttJD float64) vector.TerseVector {
	var total vector.TerseVector

	sunDiff := vector.Sub(vector.TerseVector{0, 0, 0}, pos)
	sunDist := vector.Length(sunDiff)
	total = vector.Add(total, vector.Scale(body.GMAUDay2[body.Sun]/(sunDist*sunDist*sunDist), sunDiff))

	for _, b := range majorBodies {
		s, err := vsop.HelioVector(b, ttJD)
		if err != nil {
			continue
		}
		diff := vector.Sub(s.Terse(), pos)
		d := vector.Length(diff)
		total = vector.Add(total, vector.Scale(body.GMAUDay2[b]/(d*d*d), diff))
	}
	return total
}

// State is a position/velocity/acceleration triple at a TT Julian date.
type State struct {
	TT float64
	R  vector.TerseVector
	V  vector.TerseVector
	A  vector.TerseVector
}

func anchorState(k int) State {
	tt := anchorTT0 + float64(k)*anchorStep
	o := baselineOrbit(tt)
	r := vector.TerseVector(o.PositionAU(tt))
	v := vector.TerseVector(o.VelocityAU(tt))
	return State{TT: tt, R: r, V: v, A: acceleration(r, tt)}
}

// step advances one predictor-corrector step of size dt (may be negative),
// the standard predictor/corrector scheme.
func step(s State, dt float64) State {
	rPredict := vector.Add(s.R, vector.Add(vector.Scale(dt, s.V), vector.Scale(dt*dt/2, s.A)))
	tNext := s.TT + dt
	aNext := acceleration(rPredict, tNext)
	aBar := vector.Scale(0.5, vector.Add(s.A, aNext))

	rNew := vector.Add(s.R, vector.Add(vector.Scale(dt, s.V), vector.Scale(dt*dt/2, aBar)))
	vNew := vector.Add(s.V, vector.Scale(dt, aBar))
	aNew := acceleration(rNew, tNext)

	return State{TT: tNext, R: rNew, V: vNew, A: aNew}
}

// Segment holds the 201 interior states of one 29,200-day anchor interval.
type Segment struct {
	States [segmentSteps + 1]State
}

func buildSegment(lower, upper State) *Segment {
	var fwd, bwd [segmentSteps + 1]State
	fwd[0] = lower
	for i := 1; i <= segmentSteps; i++ {
		fwd[i] = step(fwd[i-1], stepDays)
	}
	bwd[segmentSteps] = upper
	for i := segmentSteps - 1; i >= 0; i-- {
		bwd[i] = step(bwd[i+1], -stepDays)
	}

	var seg Segment
	for i := 0; i <= segmentSteps; i++ {
		ramp := float64(i) / float64(segmentSteps)
		seg.States[i] = State{
			TT: fwd[i].TT,
			R:  vector.Add(vector.Scale(1-ramp, fwd[i].R), vector.Scale(ramp, bwd[i].R)),
			V:  vector.Add(vector.Scale(1-ramp, fwd[i].V), vector.Scale(ramp, bwd[i].V)),
			A:  vector.Add(vector.Scale(1-ramp, fwd[i].A), vector.Scale(ramp, bwd[i].A)),
		}
	}
	return &seg
}

// Cache is a Pluto segment cache. Segments are
// populated lazily on first access and never invalidated. The zero value is
// ready to use. Intended to be owned by a long-lived astro.Engine value,
// one per engine, guarded by mu for concurrent queries.
type Cache struct {
	mu       sync.Mutex
	anchors  [anchorCount]State
	haveAnch bool
	segments [anchorCount - 1]*Segment
}

func (c *Cache) ensureAnchors() {
	if c.haveAnch {
		return
	}
	for k := 0; k < anchorCount; k++ {
		c.anchors[k] = anchorState(k)
	}
	c.haveAnch = true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Query returns Pluto's heliocentric state at ttJD. Queries outside the
// anchor range [-730000, +730000] integrate directly from the nearest
// anchor in 146-day steps, uncached.
func (c *Cache) Query(ttJD float64) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureAnchors()

	if ttJD < anchorTT0 || ttJD > anchorTT0+anchorStep*(anchorCount-1) {
		return c.integrateOutOfRange(ttJD), nil
	}

	segIdx := clampInt(int((ttJD-anchorTT0)/anchorStep), 0, anchorCount-2)
	if c.segments[segIdx] == nil {
		c.segments[segIdx] = buildSegment(c.anchors[segIdx], c.anchors[segIdx+1])
	}
	seg := c.segments[segIdx]

	segStart := anchorTT0 + float64(segIdx)*anchorStep
	stepIdx := clampInt(int((ttJD-segStart)/stepDays), 0, segmentSteps-1)
	s1 := seg.States[stepIdx]
	s2 := seg.States[stepIdx+1]

	if ttJD == s1.TT {
		return s1, nil
	}
	aBar := vector.Scale(0.5, vector.Add(s1.A, s2.A))
	dtFwd := ttJD - s1.TT
	rFwd := vector.Add(s1.R, vector.Add(vector.Scale(dtFwd, s1.V), vector.Scale(dtFwd*dtFwd/2, aBar)))
	vFwd := vector.Add(s1.V, vector.Scale(dtFwd, aBar))

	dtBwd := ttJD - s2.TT
	rBwd := vector.Add(s2.R, vector.Add(vector.Scale(dtBwd, s2.V), vector.Scale(dtBwd*dtBwd/2, aBar)))
	vBwd := vector.Add(s2.V, vector.Scale(dtBwd, aBar))

	ramp := dtFwd / stepDays
	return State{
		TT: ttJD,
		R:  vector.Add(vector.Scale(1-ramp, rFwd), vector.Scale(ramp, rBwd)),
		V:  vector.Add(vector.Scale(1-ramp, vFwd), vector.Scale(ramp, vBwd)),
		A:  aBar,
	}, nil
}

func (c *Cache) integrateOutOfRange(ttJD float64) State {
	var anchorIdx int
	if ttJD < anchorTT0 {
		anchorIdx = 0
	} else {
		anchorIdx = anchorCount - 1
	}
	cur := c.anchors[anchorIdx]
	remaining := ttJD - cur.TT
	dt := stepDays
	if remaining < 0 {
		dt = -stepDays
	}
	for (dt > 0 && cur.TT+dt <= ttJD) || (dt < 0 && cur.TT+dt >= ttJD) {
		cur = step(cur, dt)
	}
	if cur.TT != ttJD {
		cur = step(cur, ttJD-cur.TT)
	}
	return cur
}

// HelioState returns Pluto's heliocentric position and velocity at ttJD as
// a StateVector, using the caller's cache; it fails if cache is nil.
func HelioState(ttJD float64, cache *Cache) (vector.StateVector, error) {
	if cache == nil {
		return vector.StateVector{}, errors.WithMessage(astroerr.ErrInternal, "pluto: nil cache")
	}
	s, err := cache.Query(ttJD)
	if err != nil {
		return vector.StateVector{}, err
	}
	return vector.StateVector{
		X: s.R[0], Y: s.R[1], Z: s.R[2],
		VX: s.V[0], VY: s.V[1], VZ: s.V[2],
		TT: ttJD - 2451545.0,
	}, nil
}
