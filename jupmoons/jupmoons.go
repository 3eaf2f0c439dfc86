// Package jupmoons implements the closed-form elliptic-element model for
// Jupiter's four Galilean moons (Io, Europa, Ganymede, Callisto): position
// in the JUP frame (Jupiter's equator) via Kepler's equation, then rotated
// to EQJ using Jupiter's IAU pole direction.
//
// Grounded on kepler/kepler.go's Kepler-equation solver, reused directly
// (per DESIGN.md) with Jupiter's GM and each moon's own semi-major axis
// instead of the Sun's GM. Literal mean-motion/amplitude series tables for
// the moons (4 moons x {μ, al, a, l, z, zeta} tables) are not
// present anywhere in the retrieval pack; in their place this package uses
// each moon's well-known mean orbital elements (semi-major axis,
// eccentricity, inclination to Jupiter's equator, orbital period),
// propagated the same way vsop/pluto substitute for their own missing
// literal tables — documented in DESIGN.md as a scope reduction.
package jupmoons

import (
	"math"

	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/kepler"
	"github.com/wrenfield/astrocore/vector"
)

// Moon identifies one of the four Galilean satellites.
type Moon int

const (
	Io Moon = iota
	Europa
	Ganymede
	Callisto
)

func (m Moon) String() string {
	return [...]string{"Io", "Europa", "Ganymede", "Callisto"}[m]
}

type moonElements struct {
	semiMajorAxisKm float64
	eccentricity    float64
	inclinationDeg  float64 // to Jupiter's equator
}

var table = map[Moon]moonElements{
	Io:       {421800, 0.0041, 0.036},
	Europa:   {671100, 0.0094, 0.466},
	Ganymede: {1070400, 0.0013, 0.177},
	Callisto: {1882700, 0.0074, 0.192},
}

const j2000JD = 2451545.0

// jupFrame returns an orthonormal rotation (JUP -> EQJ) built from
// Jupiter's IAU pole direction: z is the pole, x and y span the
// equatorial plane with an arbitrary (but fixed) reference meridian.
func jupFrame() vector.RotationMatrix {
	pole := body.IAUPoleICRF[body.Jupiter]
	z := vector.TerseVector{pole[0], pole[1], pole[2]}
	z = vector.Scale(1.0/vector.Length(z), z)

	helper := vector.TerseVector{0, 0, 1}
	if math.Abs(z[2]) > 0.999 {
		helper = vector.TerseVector{1, 0, 0}
	}
	x := vector.Cross(helper, z)
	x = vector.Scale(1.0/vector.Length(x), x)
	y := vector.Cross(z, x)

	return vector.RotationMatrix{
		{x[0], y[0], z[0]},
		{x[1], y[1], z[1]},
		{x[2], y[2], z[2]},
	}
}

// orbitFor builds a kepler.Orbit for a moon around Jupiter (GM of Jupiter,
// zero node/argument-of-periapsis since the reference meridian is already
// arbitrary, mean anomaly 0 at J2000 — an approximation documented in
// DESIGN.md, since no literal epoch phase is available in the pack).
func orbitFor(m Moon) *kepler.Orbit {
	e := table[m]
	return &kepler.Orbit{
		SemiMajorAxisAU: e.semiMajorAxisKm / vector.KmPerAU,
		Eccentricity:    e.eccentricity,
		InclinationDeg:  e.inclinationDeg,
		LongAscNodeDeg:  0,
		ArgPeriapsisDeg: 0,
		MeanAnomalyDeg:  0,
		EpochJD:         j2000JD,
		GM:              body.GMAUDay2[body.Jupiter],
	}
}

// JupiterCentric returns a moon's position relative to Jupiter, in the EQJ
// frame, at the given TT Julian date.
func JupiterCentric(m Moon, ttJD float64) vector.TerseVector {
	o := orbitFor(m)
	o2 := &kepler.Orbit{
		SemiMajorAxisAU: o.SemiMajorAxisAU,
		Eccentricity:    o.Eccentricity,
		InclinationDeg:  o.InclinationDeg,
		LongAscNodeDeg:  o.LongAscNodeDeg,
		ArgPeriapsisDeg: o.ArgPeriapsisDeg,
		MeanAnomalyDeg:  o.MeanAnomalyDeg,
		EpochJD:         o.EpochJD,
		GM:              o.GM,
	}
	// kepler.Orbit.PositionAU returns positions already rotated to ICRF via
	// a *fixed ecliptic* obliquity rotation (appropriate for heliocentric
	// orbits); for a Jupiter-relative orbit we want the raw perifocal-frame
	// position rotated only by (Ω, i, ω), then into EQJ via Jupiter's own
	// pole — so the orbit's inclination/node/argument are defined directly
	// against Jupiter's equator (JUP frame), and PositionAU's internal
	// ecliptic rotation is undone before applying jupFrame.
	posEcl := unrotateEcliptic(o2.PositionAU(ttJD))
	return jupFrame().Apply(posEcl)
}

const (
	obliquitySin = 0.3977771559319137062
	obliquityCos = 0.9174820620691818140
)

// unrotateEcliptic inverts kepler.Orbit.PositionAU's ecliptic->ICRF step,
// recovering the JUP-equator-referenced perifocal rotation it applied
// before that step.
func unrotateEcliptic(posICRF [3]float64) vector.TerseVector {
	x := posICRF[0]
	y := obliquityCos*posICRF[1] + obliquitySin*posICRF[2]
	z := -obliquitySin*posICRF[1] + obliquityCos*posICRF[2]
	return vector.TerseVector{x, y, z}
}

// GeocentricViaJupiter returns a moon's EQJ position relative to Jupiter's
// own heliocentric position, i.e. Jupiter_helio + moon_jupiter_centric;
// callers wanting a geocentric apparent position still need to subtract
// Earth's position and apply the observation pipeline (package observe).
func GeocentricViaJupiter(m Moon, jupiterHelio vector.TerseVector, ttJD float64) vector.TerseVector {
	return vector.Add(jupiterHelio, JupiterCentric(m, ttJD))
}
