// Package vsop computes heliocentric state vectors for Mercury through
// Neptune. Position: spherical ecliptic
// from slowly varying (secular) orbital elements, converted to rectangular
// and rotated to the EQJ (J2000 equatorial) frame. Velocity: the analytic
// eccentric-anomaly-rate derivative.
//
// The retrieval pack's only VSOP-bearing file
// (other_examples/f23a3054_soniakeys-meeus__planetposition-planetposition.go.go)
// is a bare file-format parser with no literal coefficient tables — the
// corresponding data file is not part of the pack. In its place this package
// uses the standard Standish/JPL low-precision secular-element table (valid
// 1800-2050) and propagates it with kepler.Orbit, rebuilding the orbit's
// elements fresh at every query time (see DESIGN.md).
package vsop

import (
	"math"

	"github.com/wrenfield/astrocore/astroerr"
	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/kepler"
	"github.com/wrenfield/astrocore/vector"
)

const daysPerCentury = 36525.0

// secularElements holds a planet's classical elements at J2000 and their
// linear rate per Julian century (Standish 1992, "Keplerian Elements for
// Approximate Positions of the Major Planets").
type secularElements struct {
	a0, aDot         float64 // semi-major axis, AU
	e0, eDot         float64 // eccentricity
	i0, iDot         float64 // inclination, deg
	l0, lDot         float64 // mean longitude, deg
	peri0, periDot   float64 // longitude of perihelion, deg
	node0, nodeDot   float64 // longitude of ascending node, deg
}

var table = map[body.Body]secularElements{
	body.Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	body.Venus: {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	body.Earth: {1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
		100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0.0, 0.0},
	body.Mars: {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	body.Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	body.Saturn: {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	body.Uranus: {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939,
		313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	body.Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372,
		-55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
}

func mod360(deg float64) float64 {
	m := math.Mod(deg, 360.0)
	if m < 0 {
		m += 360.0
	}
	return m
}

// orbitAt builds a kepler.Orbit whose elements are evaluated at tdbJD, so a
// single Orbit instance is only ever queried at its own construction time
// (the secular rates, not the Orbit's own propagator, carry it across time).
func orbitAt(se secularElements, tdbJD float64) *kepler.Orbit {
	T := (tdbJD - 2451545.0) / daysPerCentury
	a := se.a0 + se.aDot*T
	e := se.e0 + se.eDot*T
	i := se.i0 + se.iDot*T
	l := se.l0 + se.lDot*T
	peri := se.peri0 + se.periDot*T
	node := se.node0 + se.nodeDot*T

	return &kepler.Orbit{
		SemiMajorAxisAU: a,
		Eccentricity:    e,
		InclinationDeg:  i,
		LongAscNodeDeg:  mod360(node),
		ArgPeriapsisDeg: mod360(peri - node),
		MeanAnomalyDeg:  mod360(l - peri),
		EpochJD:         tdbJD,
	}
}

// HelioState returns the heliocentric EQJ state vector (position AU,
// velocity AU/day) of a planet at the given TT Julian date, using the TT
// value directly as the orbit's time argument (light-seconds of TT-TDB
// drift are negligible against this model's own precision).
func HelioState(b body.Body, ttJD float64) (vector.StateVector, error) {
	se, ok := table[b]
	if !ok {
		return vector.StateVector{}, astroerr.ErrUnsupportedBody
	}
	o := orbitAt(se, ttJD)
	pos := o.PositionAU(ttJD)
	vel := o.VelocityAU(ttJD)
	return vector.StateVector{
		X: pos[0], Y: pos[1], Z: pos[2],
		VX: vel[0], VY: vel[1], VZ: vel[2],
		TT: ttJD - 2451545.0,
	}, nil
}

// HelioVector returns just the heliocentric EQJ position.
func HelioVector(b body.Body, ttJD float64) (vector.Vector3, error) {
	s, err := HelioState(b, ttJD)
	if err != nil {
		return vector.Vector3{}, err
	}
	return vector.Vector3{X: s.X, Y: s.Y, Z: s.Z, TT: s.TT}, nil
}

// OrbitalPeriodDays returns the body's mean sidereal orbital period, derived
// from its current semi-major axis via Kepler's third law (GM of the Sun),
// used by apsis/elongation as a search-window scale.
func OrbitalPeriodDays(b body.Body, ttJD float64) (float64, error) {
	se, ok := table[b]
	if !ok {
		return 0, astroerr.ErrUnsupportedBody
	}
	T := (ttJD - 2451545.0) / daysPerCentury
	a := se.a0 + se.aDot*T
	mu := kepler.GMSunAU3D2
	n := math.Sqrt(mu / (a * a * a))
	return 2 * math.Pi / n, nil
}
