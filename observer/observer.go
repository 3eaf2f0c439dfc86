// Package observer implements the oblate-Earth observer model: Terra maps
// (latitude, longitude, height) plus sidereal time to a geocentric
// Cartesian state; InverseTerra recovers the observer from a geocentric
// vector by fixed-point iteration of the latitude (not Newton's method).
//
// Grounded on coord/geodetic.go's Bowring iteration idiom (adapted from
// ITRF->geodetic, km-based, to this package's AU-based Terra/InverseTerra
// pair) and coord/altaz.go's frame-chaining style.
package observer

import (
	"math"

	"github.com/pkg/errors"

	"github.com/wrenfield/astrocore/astroerr"
	"github.com/wrenfield/astrocore/vector"
)

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi

	// EarthEquatorialRadiusKm is the WGS-84-like equatorial radius.
	EarthEquatorialRadiusKm = 6378.1366
	// EarthFlattening is the ratio of polar to equatorial radius (b/a), not
	// the conventional flattening f = 1-b/a.
	EarthFlattening        = 0.996647180302104
	EarthFlatteningSquared = EarthFlattening * EarthFlattening
	// AngVel is Earth's sidereal rotation rate, rad/s.
	AngVel = 7.2921150e-5

	secPerDay = 86400.0
)

// Observer is an immutable geographic position: latitude/longitude in
// degrees, height above the ellipsoid in meters.
type Observer struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	HeightM      float64
}

// Validate checks the domain constraints for an observer.
func (o Observer) Validate() error {
	if o.LatitudeDeg < -90 || o.LatitudeDeg > 90 || math.IsNaN(o.LatitudeDeg) {
		return errors.WithMessage(astroerr.ErrDomain, "observer latitude out of [-90,90]")
	}
	if math.IsNaN(o.LongitudeDeg) || math.IsNaN(o.HeightM) {
		return astroerr.ErrDomain
	}
	return nil
}

// Terra computes the observer's geocentric Cartesian position (AU) and
// velocity (AU/day) at the given Greenwich Apparent Sidereal Time (hours).
func Terra(o Observer, gastHours float64) vector.StateVector {
	phi := o.LatitudeDeg * deg2rad
	sinPhi, cosPhi := math.Sincos(phi)
	c := 1.0 / math.Hypot(cosPhi, sinPhi*EarthFlattening)
	s := EarthFlatteningSquared * c

	heightKm := o.HeightM / 1000.0
	achKm := EarthEquatorialRadiusKm*c + heightKm
	ashKm := EarthEquatorialRadiusKm*s + heightKm

	stLocal := (15*gastHours + o.LongitudeDeg) * deg2rad
	sinSt, cosSt := math.Sincos(stLocal)

	xKm := achKm * cosPhi * cosSt
	yKm := achKm * cosPhi * sinSt
	zKm := ashKm * sinPhi

	vxKmPerSec := -AngVel * achKm * cosPhi * sinSt
	vyKmPerSec := AngVel * achKm * cosPhi * cosSt

	return vector.StateVector{
		X: xKm / vector.KmPerAU, Y: yKm / vector.KmPerAU, Z: zKm / vector.KmPerAU,
		VX: vxKmPerSec * secPerDay / vector.KmPerAU,
		VY: vyKmPerSec * secPerDay / vector.KmPerAU,
		VZ: 0,
	}
}

// InverseTerra recovers (lat, lon, height) from a geocentric equatorial
// vector (AU) and GAST (hours), by fixed-point iteration of the latitude
// starting from Bowring's estimate; Newton's method is not used. Fails with ErrSearchNonConvergent after 10 iterations;
// special-cases proximity (within 1mm) of a pole.
func InverseTerra(vecAU vector.TerseVector, gastHours float64) (Observer, error) {
	xKm := vecAU[0] * vector.KmPerAU
	yKm := vecAU[1] * vector.KmPerAU
	zKm := vecAU[2] * vector.KmPerAU

	p := math.Hypot(xKm, yKm)

	stLocal := (15 * gastHours) * deg2rad

	if p < 1e-6 { // within ~1mm of the polar axis
		lat := 90.0
		if zKm < 0 {
			lat = -90.0
		}
		heightKm := math.Abs(zKm) - EarthEquatorialRadiusKm*EarthFlattening
		return Observer{LatitudeDeg: lat, LongitudeDeg: 0, HeightM: heightKm * 1000}, nil
	}

	lonRad := math.Atan2(yKm, xKm) - stLocal
	lonDeg := math.Mod(lonRad*rad2deg+540.0, 360.0) - 180.0

	b := EarthEquatorialRadiusKm * EarthFlattening
	e2 := 1.0 - EarthFlatteningSquared
	theta := math.Atan2(zKm*EarthEquatorialRadiusKm, p*b)
	sinTheta, cosTheta := math.Sincos(theta)

	lat := math.Atan2(
		zKm+(e2/EarthFlatteningSquared)*b*sinTheta*sinTheta*sinTheta,
		p-e2*EarthEquatorialRadiusKm*cosTheta*cosTheta*cosTheta,
	)

	const maxIter = 10
	converged := false
	var n float64
	for iter := 0; iter < maxIter; iter++ {
		sinLat := math.Sin(lat)
		n = EarthEquatorialRadiusKm / math.Sqrt(1.0-e2*sinLat*sinLat)
		newLat := math.Atan2(zKm+e2*n*sinLat, p)
		if math.Abs(newLat-lat) < 1e-14 {
			lat = newLat
			converged = true
			break
		}
		lat = newLat
	}
	if !converged {
		sinLat := math.Sin(lat)
		n = EarthEquatorialRadiusKm / math.Sqrt(1.0-e2*sinLat*sinLat)
		finalLat := math.Atan2(zKm+e2*n*sinLat, p)
		if math.Abs(finalLat-lat) >= 1e-14 {
			return Observer{}, errors.WithMessage(astroerr.ErrSearchNonConvergent, "inverse_terra did not converge in 10 iterations")
		}
	}

	sinLat, cosLat := math.Sincos(lat)
	var heightKm float64
	if math.Abs(cosLat) > 1e-10 {
		heightKm = p/cosLat - n
	} else {
		heightKm = math.Abs(zKm)/math.Abs(sinLat) - n*(1.0-e2)
	}

	return Observer{
		LatitudeDeg:  lat * rad2deg,
		LongitudeDeg: lonDeg,
		HeightM:      heightKm * 1000,
	}, nil
}
