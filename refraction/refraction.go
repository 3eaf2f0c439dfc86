// Package refraction implements forward and inverse atmospheric refraction
// and the U.S. 1976 standard atmosphere model.
//
// Grounded on coord/refraction.go's iterative-convergence idiom (Refract's
// fixed-point loop), with its own formula and constants in place of
// Bennett's — the two differ slightly; the *pattern* (evaluate
// forward refraction, add to the true altitude, repeat to convergence) is
// what's kept.
package refraction

import (
	"math"

	"github.com/pkg/errors"

	"github.com/wrenfield/astrocore/astroerr"
)

const deg2rad = math.Pi / 180.0

// Mode selects how refraction is modeled.
type Mode int

const (
	Normal Mode = iota
	JplHor
	None
)

// Refraction returns the refraction correction in degrees for a true
// (unrefracted) altitude.
func Refraction(mode Mode, altitudeDeg float64) (float64, error) {
	if altitudeDeg < -90 || altitudeDeg > 90 || math.IsNaN(altitudeDeg) {
		return 0, astroerr.ErrDomain
	}
	if mode == None {
		return 0, nil
	}

	hp := altitudeDeg
	if hp < -1.0 {
		hp = -1.0
	}
	refr := (1.02 / math.Tan((hp+10.3/(hp+5.11))*deg2rad)) / 60.0

	if mode == Normal && altitudeDeg < -1.0 {
		refr *= (altitudeDeg + 90.0) / 89.0
	}
	return refr, nil
}

// InverseRefraction solves for the correction that, added to the true
// altitude, yields bentAltitudeDeg. Fixed-point iteration, tolerance 1e-14,
// capped at 100 iterations (no cap is strictly required but one is
// needed in a finite implementation).
func InverseRefraction(mode Mode, bentAltitudeDeg float64) (float64, error) {
	if bentAltitudeDeg < -90 || bentAltitudeDeg > 90 || math.IsNaN(bentAltitudeDeg) {
		return 0, astroerr.ErrDomain
	}

	correction := 0.0
	for i := 0; i < 100; i++ {
		altGuess := bentAltitudeDeg - correction
		r, err := Refraction(mode, altGuess)
		if err != nil {
			return 0, err
		}
		next := r
		if math.Abs(next-correction) < 1e-14 {
			return next, nil
		}
		correction = next
	}
	return correction, nil
}

// Atmosphere is the pressure/temperature/density state at a given height,
// per the three-layer U.S. 1976 standard atmosphere model.
type Atmosphere struct {
	PressurePa  float64
	TemperatureK float64
	DensityRatio float64 // relative to sea level
}

const (
	seaLevelPressurePa    = 101325.0
	seaLevelTemperatureK  = 288.15
	seaLevelDensity       = 1.225 // kg/m^3, used only to form the ratio
	lapseRateTropoKPerM   = -0.0065
	tropopauseHeightM     = 11000.0
	tropopauseTemperature = 216.65
	stratosphereTopM      = 20000.0
	lapseRateUpperKPerM   = 0.001
	gravity               = 9.80665
	gasConstant           = 287.053
)

// AtmosphereAt computes pressure (Pa), temperature (K), and density relative
// to sea level, for h in [-500, 100000] meters.
func AtmosphereAt(hMeters float64) (Atmosphere, error) {
	if hMeters < -500 || hMeters > 100000 {
		return Atmosphere{}, errors.WithMessage(astroerr.ErrDomain, "atmosphere height out of [-500,100000] m")
	}

	var tempK, pressurePa float64
	switch {
	case hMeters <= tropopauseHeightM:
		tempK = seaLevelTemperatureK + lapseRateTropoKPerM*hMeters
		pressurePa = seaLevelPressurePa * math.Pow(tempK/seaLevelTemperatureK, -gravity/(lapseRateTropoKPerM*gasConstant))
	case hMeters <= stratosphereTopM:
		tempK = tropopauseTemperature
		pTropopause := seaLevelPressurePa * math.Pow(tropopauseTemperature/seaLevelTemperatureK, -gravity/(lapseRateTropoKPerM*gasConstant))
		pressurePa = pTropopause * math.Exp(-gravity*(hMeters-tropopauseHeightM)/(gasConstant*tropopauseTemperature))
	default:
		tempK = tropopauseTemperature + lapseRateUpperKPerM*(hMeters-stratosphereTopM)
		pTropopause := seaLevelPressurePa * math.Pow(tropopauseTemperature/seaLevelTemperatureK, -gravity/(lapseRateTropoKPerM*gasConstant))
		pStrato := pTropopause * math.Exp(-gravity*(stratosphereTopM-tropopauseHeightM)/(gasConstant*tropopauseTemperature))
		pressurePa = pStrato * math.Pow(tempK/tropopauseTemperature, -gravity/(lapseRateUpperKPerM*gasConstant))
	}

	densityRatio := (pressurePa / seaLevelPressurePa) / (tempK / seaLevelTemperatureK)

	return Atmosphere{
		PressurePa:   pressurePa,
		TemperatureK: tempK,
		DensityRatio: densityRatio,
	}, nil
}
