// Package observe computes apparent positions: heliocentric and geocentric
// vectors with light-travel-time correction and stellar aberration, plus
// the projection into equatorial (RA/Dec) and horizontal (alt/az)
// coordinates for a ground observer.
//
// Grounded on spk/spk.go's observe/Apparent/ApparentFrom fixed-point
// light-time loop (re-expressed here over vsop/moon/pluto instead of a
// binary ephemeris file) and coord/aberration.go's full-Lorentz
// Aberration/coord/altaz.go's Altaz+HourAngleDec rotation chain.
package observe

import (
	"math"

	"github.com/pkg/errors"

	"github.com/wrenfield/astrocore/astroerr"
	"github.com/wrenfield/astrocore/astrotime"
	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/frame"
	"github.com/wrenfield/astrocore/moon"
	"github.com/wrenfield/astrocore/observer"
	"github.com/wrenfield/astrocore/pluto"
	"github.com/wrenfield/astrocore/refraction"
	"github.com/wrenfield/astrocore/vector"
	"github.com/wrenfield/astrocore/vsop"
)

// cAUDay is the speed of light in AU/day.
const cAUDay = 173.1446326846693

const maxLightTimeIter = 10

// HelioVector returns a body's heliocentric ICRF position in AU at ttJD
// (geometric, no light time). Pluto queries use cache, which may be nil
// only if b is not Pluto.
func HelioVector(b body.Body, ttJD float64, cache *pluto.Cache) (vector.Vector3, error) {
	switch b {
	case body.Sun:
		return vector.Vector3{TT: ttJD}, nil
	case body.Moon:
		earth, err := HelioVector(body.Earth, ttJD, cache)
		if err != nil {
			return vector.Vector3{}, err
		}
		geoMoon := moon.GeoMoon(ttJD)
		return vector.Vector3{X: earth.X + geoMoon.X, Y: earth.Y + geoMoon.Y, Z: earth.Z + geoMoon.Z, TT: ttJD}, nil
	case body.EMB:
		earth, err := HelioVector(body.Earth, ttJD, cache)
		if err != nil {
			return vector.Vector3{}, err
		}
		geoMoon := moon.GeoMoon(ttJD)
		const moonEarthMassRatio = 1.0 / 81.30056
		f := moonEarthMassRatio / (1.0 + moonEarthMassRatio)
		return vector.Vector3{
			X: earth.X + f*geoMoon.X, Y: earth.Y + f*geoMoon.Y, Z: earth.Z + f*geoMoon.Z, TT: ttJD,
		}, nil
	case body.Pluto:
		if cache == nil {
			return vector.Vector3{}, errors.WithMessage(astroerr.ErrInternal, "helio_vector: Pluto requires a cache")
		}
		st, err := pluto.HelioState(ttJD, cache)
		if err != nil {
			return vector.Vector3{}, err
		}
		return vector.Vector3{X: st.X, Y: st.Y, Z: st.Z, TT: ttJD}, nil
	case body.Mercury, body.Venus, body.Earth, body.Mars, body.Jupiter, body.Saturn, body.Uranus, body.Neptune:
		return vsop.HelioVector(b, ttJD)
	default:
		return vector.Vector3{}, astroerr.ErrUnsupportedBody
	}
}

// LightTimeFunc returns a target's heliocentric position at the given TT.
type LightTimeFunc func(ttJD float64) (vector.Vector3, error)

// CorrectLightTravel finds the emission time and position of a target seen
// from a fixed observer position at t0, by fixed-point iteration on
// t_{i+1} = t0 - |f(t_i) - observer| / c. Here f returns the target's
// heliocentric position, so the caller folds the observer offset in; this
// signature instead takes f as already observer-relative (the vector whose
// length is the light-travel distance), matching correct_light_travel's
// "f(t) returns a position; converge on its distance" contract.
func CorrectLightTravel(f func(ttJD float64) (vector.Vector3, error), t0 float64) (vector.Vector3, float64, error) {
	var lightTime float64
	var pos vector.Vector3
	var err error

	pos, err = f(t0)
	if err != nil {
		return vector.Vector3{}, 0, err
	}

	for iter := 0; iter < maxLightTimeIter; iter++ {
		dist := vector.Length(pos.Terse())
		if dist > cAUDay {
			return vector.Vector3{}, 0, errors.WithMessage(astroerr.ErrSearchNonConvergent, "correct_light_travel: distance exceeds 1 light-day")
		}
		newLightTime := dist / cAUDay
		if math.Abs(newLightTime-lightTime) < 1e-9 {
			return pos, newLightTime, nil
		}
		lightTime = newLightTime
		pos, err = f(t0 - lightTime)
		if err != nil {
			return vector.Vector3{}, 0, err
		}
	}
	return vector.Vector3{}, 0, errors.WithMessage(astroerr.ErrSearchNonConvergent, "correct_light_travel: exceeded 10 iterations")
}

// BackdatePosition returns the target's heliocentric position at the time
// light now arriving at observerHelio (evaluated at ttJD) was emitted,
// along with the light time in days.
func BackdatePosition(observerHelio vector.Vector3, target body.Body, ttJD float64, cache *pluto.Cache) (vector.Vector3, float64, error) {
	f := func(tt float64) (vector.Vector3, error) {
		tp, err := HelioVector(target, tt, cache)
		if err != nil {
			return vector.Vector3{}, err
		}
		return vector.Vector3{X: tp.X - observerHelio.X, Y: tp.Y - observerHelio.Y, Z: tp.Z - observerHelio.Z, TT: tt}, nil
	}
	rel, lt, err := CorrectLightTravel(f, ttJD)
	if err != nil {
		return vector.Vector3{}, 0, err
	}
	return vector.Vector3{X: rel.X + observerHelio.X, Y: rel.Y + observerHelio.Y, Z: rel.Z + observerHelio.Z, TT: ttJD}, lt, nil
}

// helioVelocity estimates heliocentric velocity in AU/day via a central
// difference; used only for aberration, where sub-percent accuracy suffices.
func helioVelocity(b body.Body, ttJD float64, cache *pluto.Cache) (vector.TerseVector, error) {
	const h = 0.02
	p1, err := HelioVector(b, ttJD-h, cache)
	if err != nil {
		return vector.TerseVector{}, err
	}
	p2, err := HelioVector(b, ttJD+h, cache)
	if err != nil {
		return vector.TerseVector{}, err
	}
	return vector.TerseVector{(p2.X - p1.X) / (2 * h), (p2.Y - p1.Y) / (2 * h), (p2.Z - p1.Z) / (2 * h)}, nil
}

// GeoVector returns the geocentric position of a body in AU, ICRF frame, at
// ttJD, with light-time correction and (optionally) stellar aberration.
func GeoVector(b body.Body, ttJD float64, aberration bool, cache *pluto.Cache) (vector.Vector3, error) {
	earth, err := HelioVector(body.Earth, ttJD, cache)
	if err != nil {
		return vector.Vector3{}, err
	}

	if b == body.Moon {
		// The low-precision lunar theory already returns a geocentric
		// vector directly; light time and aberration for the Moon's ~1.3 s
		// travel time are below this theory's own accuracy budget.
		g := moon.GeoMoon(ttJD)
		return vector.Vector3{X: g.X, Y: g.Y, Z: g.Z, TT: ttJD}, nil
	}

	f := func(tt float64) (vector.Vector3, error) {
		tp, err := HelioVector(b, tt, cache)
		if err != nil {
			return vector.Vector3{}, err
		}
		return vector.Vector3{X: tp.X - earth.X, Y: tp.Y - earth.Y, Z: tp.Z - earth.Z, TT: tt}, nil
	}
	pos, lightTime, err := CorrectLightTravel(f, ttJD)
	if err != nil {
		return vector.Vector3{}, err
	}

	if !aberration {
		return pos, nil
	}

	earthVel, err := helioVelocity(body.Earth, ttJD, cache)
	if err != nil {
		return vector.Vector3{}, err
	}
	posAber := vectorAberration(pos.Terse(), earthVel, lightTime)
	return vector.Vector3{X: posAber[0], Y: posAber[1], Z: posAber[2], TT: ttJD}, nil
}

// vectorAberration applies special-relativistic stellar aberration, full
// Lorentz transformation (not the classical v/c approximation).
//
// position is the observer-to-target vector in AU (astrometric).
// velocity is the observer's heliocentric velocity in AU/day.
// lightTime is the light travel time to the target in days.
func vectorAberration(position, velocity vector.TerseVector, lightTime float64) vector.TerseVector {
	p1mag := lightTime * cAUDay
	vemag := vector.Length(velocity)
	if p1mag == 0 || vemag == 0 {
		return position
	}

	beta := vemag / cAUDay
	dot := vector.Dot(position, velocity)
	cosd := dot / (p1mag * vemag)
	gammai := math.Sqrt(1.0 - beta*beta)
	pfac := beta * cosd
	q := (1.0 + pfac/(1.0+gammai)) * lightTime
	r := 1.0 + pfac

	return vector.TerseVector{
		(gammai*position[0] + q*velocity[0]) / r,
		(gammai*position[1] + q*velocity[1]) / r,
		(gammai*position[2] + q*velocity[2]) / r,
	}
}

// Equator returns the body's right ascension (hours), declination
// (degrees), and distance (AU) as seen from the given observer. ofDate
// selects between J2000 (false) and true-equator-of-date (true)
// coordinates. obs, if non-nil, applies a topocentric parallax correction;
// a nil obs gives a geocentric result.
func Equator(b body.Body, ttJD float64, obs *observer.Observer, ofDate, aberration bool, cache *pluto.Cache) (raHours, decDeg, distAU float64, err error) {
	geo, err := GeoVector(b, ttJD, aberration, cache)
	if err != nil {
		return 0, 0, 0, err
	}
	vec := geo.Terse()

	if obs != nil {
		gastHours := astrotime.GAST(ttJD, frame.EvalETilt(ttJD).EqEqHours)
		topo := observer.Terra(*obs, gastHours)
		vec = vector.TerseVector{vec[0] - topo.X, vec[1] - topo.Y, vec[2] - topo.Z}
	}

	if ofDate {
		vec = frame.Gyration(vec, ttJD, frame.From2000)
	}

	sph := vector.ToSpherical(vec)
	ra := sph.LonDeg / 15.0
	if ra < 0 {
		ra += 24.0
	}
	return ra, sph.LatDeg, sph.Dist, nil
}

// Horizontal converts an equator-of-date RA/Dec to altitude and azimuth for
// an observer at the given GAST, applying the requested refraction model.
func Horizontal(raHours, decDeg, gastHours float64, obs observer.Observer, mode refraction.Mode) (altDeg, azDeg float64, err error) {
	if err := obs.Validate(); err != nil {
		return 0, 0, err
	}

	raRad := raHours * 15.0 * math.Pi / 180.0
	decRad := decDeg * math.Pi / 180.0
	haRad := (gastHours*15.0)*math.Pi/180.0 + obs.LongitudeDeg*math.Pi/180.0 - raRad

	latRad := obs.LatitudeDeg * math.Pi / 180.0
	sinLat, cosLat := math.Sincos(latRad)
	sinDec, cosDec := math.Sincos(decRad)
	sinHa, cosHa := math.Sincos(haRad)

	sinAlt := sinDec*sinLat + cosDec*cosLat*cosHa
	alt := math.Asin(clamp(sinAlt, -1, 1)) * 180.0 / math.Pi

	y := -cosDec * sinHa
	x := sinDec*cosLat - cosDec*sinLat*cosHa
	az := math.Mod(math.Atan2(y, x)*180.0/math.Pi+360.0, 360.0)

	if mode != refraction.None {
		r, rerr := refraction.Refraction(mode, alt)
		if rerr == nil {
			alt += r
		}
	}

	return alt, az, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
