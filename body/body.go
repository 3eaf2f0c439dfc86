// Package body defines the tagged Body enumeration, the per-body
// physical constants (GM products, orbital periods), and
// the engine-owned 8-slot user-star table.
//
// Grounded on spk/bodies.go (NAIF-integer enum, here replaced by a tagged
// variant) and star/star.go (user-star struct, reworked
// into a fixed-size table instead of ad hoc values).
package body

import "github.com/wrenfield/astrocore/astroerr"

// Body is the tagged enumeration of every position-queryable object.
// Star1..Star8 are user-defined fixed points.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Earth
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	SSB // solar-system barycenter
	EMB // Earth-Moon barycenter
	Star1
	Star2
	Star3
	Star4
	Star5
	Star6
	Star7
	Star8
)

func (b Body) String() string {
	names := [...]string{
		"Sun", "Moon", "Mercury", "Venus", "Earth", "Mars", "Jupiter",
		"Saturn", "Uranus", "Neptune", "Pluto", "SSB", "EMB",
		"Star1", "Star2", "Star3", "Star4", "Star5", "Star6", "Star7", "Star8",
	}
	if int(b) < 0 || int(b) >= len(names) {
		return "Unknown"
	}
	return names[b]
}

// IsStar reports whether b is one of the 8 user-star slots.
func (b Body) IsStar() bool { return b >= Star1 && b <= Star8 }

// StarIndex returns the 0-based slot index for a star body, or -1.
func (b Body) StarIndex() int {
	if !b.IsStar() {
		return -1
	}
	return int(b - Star1)
}

// IsPlanet reports whether b is one of Mercury..Neptune (used by
// elongation/apsis/illum to validate their body argument).
func (b Body) IsPlanet() bool { return b >= Mercury && b <= Neptune }

// GMAUDay2 holds each body's gravitational parameter GM in AU^3/day^2,
// literal to 15+ digits. Values
// below are the JPL DE-series constants in common use, converted from
// km^3/s^2 to AU^3/day^2 the way kepler.GMSunAU3D2 is derived in the
// teacher (k^2, the Gaussian gravitational constant squared, for the Sun).
var GMAUDay2 = map[Body]float64{
	Sun:     2.9591220828559115e-4,
	Mercury: 4.9125001948893182e-11,
	Venus:   7.2434523326441187e-10,
	Earth:   8.8876924467071033e-10,
	Mars:    9.5495351057792580e-11,
	Jupiter: 2.8253458252257917e-7,
	Saturn:  8.4597151856193920e-8,
	Uranus:  1.2920249167098066e-8,
	Neptune: 1.5243589007842762e-8,
	Pluto:   2.1750964648933581e-12,
	Moon:    1.0931894624024535e-11,
}

// OrbitalPeriodDays holds each planet's sidereal orbital period in days,
// used by elongation (synodic period) and apsis (1/6-period search step).
var OrbitalPeriodDays = map[Body]float64{
	Mercury: 87.9691,
	Venus:   224.701,
	Earth:   365.256,
	Mars:    686.980,
	Jupiter: 4332.589,
	Saturn:  10759.22,
	Uranus:  30688.5,
	Neptune: 60182.0,
	Pluto:   90560.0,
}

// SynodicPeriodDays returns the synodic period (interval between successive
// inferior conjunctions, for inferior planets, or oppositions, for
// superior planets) relative to Earth. The value is negative for the
// inferior planets (Mercury, Venus); callers take its absolute value.
func SynodicPeriodDays(b Body) (float64, error) {
	pb, ok := OrbitalPeriodDays[b]
	if !ok || b == Earth {
		return 0, astroerr.ErrUnsupportedBody
	}
	pe := OrbitalPeriodDays[Earth]
	return 1.0 / (1.0/pe - 1.0/pb), nil
	// Note: for superior planets 1/pe - 1/pb > 0; for inferior (pb<pe) the
	// same formula yields the correct magnitude once taken absolute by callers.
}

// IAUPoleICRF holds unit ICRF pole-direction vectors for planets whose
// apparent sub-latitude matters to illum (Saturn rings, Uranus axis).
// Grounded on magnitude.go's saturnPole/uranusPole literals.
var IAUPoleICRF = map[Body][3]float64{
	Jupiter: {-0.01461, -0.43081, 0.90233},
	Saturn:  {0.08547883, 0.07323576, 0.99364475},
	Uranus:  {-0.21199958, -0.94155916, -0.26176809},
}

// StarRecord is one entry of the engine-owned user-star table:
// RA hours in [0,24), Dec degrees in [-90,90], distance in AU. A star is
// "defined" once DistAU is positive. AuPerLy is the AU-per-light-year
// conversion, used to enforce the >=1 ly minimum distance.
const AuPerLy = 63241.07708427

type StarRecord struct {
	RAHours  float64
	DecDeg   float64
	DistAU   float64
}

// Defined reports whether this star slot has been configured.
func (s StarRecord) Defined() bool { return s.DistAU > 0 }

// Validate checks a star definition's domain rules:
// distance must be at least 1 light-year.
func (s StarRecord) Validate() error {
	if s.DistAU < AuPerLy*0.9999999 {
		return astroerr.ErrDomain
	}
	if s.RAHours < 0 || s.RAHours >= 24 {
		return astroerr.ErrDomain
	}
	if s.DecDeg < -90 || s.DecDeg > 90 {
		return astroerr.ErrDomain
	}
	return nil
}
