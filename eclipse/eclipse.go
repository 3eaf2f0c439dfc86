// Package eclipse computes shadow geometry and searches for lunar
// eclipses, solar eclipses (global ground-track and local-observer), and
// Mercury/Venus transits.
//
// Grounded on eclipse/eclipse.go's full-moon-bracket-then-minimize-axis-
// distance pipeline (kept for the lunar case, generalized from its fixed
// Danjon/physical constants to body-generic ShadowInfo). The oblate-Earth
// ground-track intersection (intersectOblateEarth) solves its own
// flattening-scaled quadratic directly rather than through
// geometry.IntersectLineSphere, since that helper assumes a line through
// the coordinate origin and this one doesn't; IsSunlit is the function
// that actually calls geometry.IntersectLineSphere, adapted from
// coord/visibility.go's shadow-test idiom. Solar eclipse and transit
// search are new but follow the same bracket-then-refine structure as the
// kept lunar-eclipse code.
package eclipse

import (
	"math"

	"github.com/pkg/errors"

	"github.com/wrenfield/astrocore/astroerr"
	"github.com/wrenfield/astrocore/astrotime"
	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/frame"
	"github.com/wrenfield/astrocore/geometry"
	"github.com/wrenfield/astrocore/illum"
	"github.com/wrenfield/astrocore/moon"
	"github.com/wrenfield/astrocore/observe"
	"github.com/wrenfield/astrocore/observer"
	"github.com/wrenfield/astrocore/phase"
	"github.com/wrenfield/astrocore/pluto"
	"github.com/wrenfield/astrocore/refraction"
	"github.com/wrenfield/astrocore/search"
	"github.com/wrenfield/astrocore/vector"
)

const (
	sunRadiusKm   = 695700.0
	earthRadiusKm = 6378.1366
	moonRadiusKm  = 1737.4

	// danjonFactor enlarges Earth's umbral/penumbral shadow by 2% for
	// atmospheric refraction, per the Danjon convention.
	danjonFactor = 1.02

	vectorKmPerAU = 1.4959787069098932e8
)

// Kind classifies the severity of an eclipse, or a transit contact.
type Kind int

const (
	None Kind = iota
	Penumbral
	Partial
	Annular
	Total
)

// ShadowInfo is the instantaneous geometry of a casting body's shadow at a
// target point: U is the signed distance from the casting body to the
// plane through the target perpendicular to the shadow axis, R is the
// perpendicular (off-axis) distance of the target from the axis, K is the
// umbra radius at that plane (negative denotes an annular geometry), P is
// the penumbra radius.
type ShadowInfo struct {
	TT   float64
	U    float64
	R    float64
	K    float64
	P    float64
	Dir  [3]float64
	Targ [3]float64
}

func shadowGeometry(dirKm, targKm [3]float64, castRadiusKm float64) (u, r, k, p float64) {
	sunDist := math.Sqrt(dirKm[0]*dirKm[0] + dirKm[1]*dirKm[1] + dirKm[2]*dirKm[2])
	axis := [3]float64{dirKm[0] / sunDist, dirKm[1] / sunDist, dirKm[2] / sunDist}

	u = targKm[0]*axis[0] + targKm[1]*axis[1] + targKm[2]*axis[2]

	perp := [3]float64{
		targKm[0] - u*axis[0],
		targKm[1] - u*axis[1],
		targKm[2] - u*axis[2],
	}
	r = math.Sqrt(perp[0]*perp[0] + perp[1]*perp[1] + perp[2]*perp[2])

	k = castRadiusKm - u*(sunRadiusKm-castRadiusKm)/sunDist
	p = castRadiusKm + u*(sunRadiusKm+castRadiusKm)/sunDist
	return u, r, k, p
}

// IsSunlit reports whether a geocentric object (posKm, ICRF km) is in
// direct sunlight, given the Sun's geocentric position sunPosKm (km): false
// if the object-to-Sun line passes through Earth's sphere before reaching
// the Sun.
func IsSunlit(posKm, sunPosKm [3]float64) bool {
	toSun := [3]float64{sunPosKm[0] - posKm[0], sunPosKm[1] - posKm[1], sunPosKm[2] - posKm[2]}
	earthCenter := [3]float64{-posKm[0], -posKm[1], -posKm[2]}

	near, far := geometry.IntersectLineSphere(toSun, earthCenter, earthRadiusKm)
	if math.IsNaN(near) {
		return true
	}

	sunDist := math.Sqrt(toSun[0]*toSun[0] + toSun[1]*toSun[1] + toSun[2]*toSun[2])
	if sunDist == 0 {
		return false
	}
	if far < 0 || near > sunDist {
		return true
	}
	return false
}

// EarthShadow returns Earth's shadow geometry at the geocentric Moon, with
// the Danjon 2% atmospheric enlargement applied to K and P.
func EarthShadow(ttJD float64, cache *pluto.Cache) (ShadowInfo, error) {
	sunGeo, err := observe.GeoVector(body.Sun, ttJD, false, cache)
	if err != nil {
		return ShadowInfo{}, err
	}
	moonVecEQJ := frame.EclipticToEquatorialJ2000(moon.Ecliptic(ttJD).Vector())

	sunKm := [3]float64{sunGeo.X * vectorKmPerAU, sunGeo.Y * vectorKmPerAU, sunGeo.Z * vectorKmPerAU}
	moonKm := [3]float64{moonVecEQJ[0] * vectorKmPerAU, moonVecEQJ[1] * vectorKmPerAU, moonVecEQJ[2] * vectorKmPerAU}
	dirKm := [3]float64{-sunKm[0], -sunKm[1], -sunKm[2]}

	u, r, k, p := shadowGeometry(dirKm, moonKm, earthRadiusKm)
	return ShadowInfo{TT: ttJD, U: u, R: r, K: k * danjonFactor, P: p * danjonFactor, Dir: dirKm, Targ: moonKm}, nil
}

// MoonShadow returns the Moon's shadow geometry at the lunacentric Earth,
// used by the global solar-eclipse search.
func MoonShadow(ttJD float64, cache *pluto.Cache) (ShadowInfo, error) {
	sunGeo, err := observe.GeoVector(body.Sun, ttJD, false, cache)
	if err != nil {
		return ShadowInfo{}, err
	}
	moonVecEQJ := frame.EclipticToEquatorialJ2000(moon.Ecliptic(ttJD).Vector())

	sunKm := [3]float64{sunGeo.X * vectorKmPerAU, sunGeo.Y * vectorKmPerAU, sunGeo.Z * vectorKmPerAU}
	moonKm := [3]float64{moonVecEQJ[0] * vectorKmPerAU, moonVecEQJ[1] * vectorKmPerAU, moonVecEQJ[2] * vectorKmPerAU}

	dirKm := [3]float64{moonKm[0] - sunKm[0], moonKm[1] - sunKm[1], moonKm[2] - sunKm[2]}
	earthFromMoonKm := [3]float64{-moonKm[0], -moonKm[1], -moonKm[2]}

	u, r, k, p := shadowGeometry(dirKm, earthFromMoonKm, moonRadiusKm)
	return ShadowInfo{TT: ttJD, U: u, R: r, K: k, P: p, Dir: dirKm, Targ: earthFromMoonKm}, nil
}

// LocalMoonShadow is MoonShadow with the target point the given observer's
// geocentric position instead of Earth's center.
func LocalMoonShadow(ttJD float64, obs observer.Observer, cache *pluto.Cache) (ShadowInfo, error) {
	sunGeo, err := observe.GeoVector(body.Sun, ttJD, false, cache)
	if err != nil {
		return ShadowInfo{}, err
	}
	moonVecEQJ := frame.EclipticToEquatorialJ2000(moon.Ecliptic(ttJD).Vector())

	sunKm := [3]float64{sunGeo.X * vectorKmPerAU, sunGeo.Y * vectorKmPerAU, sunGeo.Z * vectorKmPerAU}
	moonKm := [3]float64{moonVecEQJ[0] * vectorKmPerAU, moonVecEQJ[1] * vectorKmPerAU, moonVecEQJ[2] * vectorKmPerAU}

	gastHours := astrotime.GAST(ttJD, frame.EvalETilt(ttJD).EqEqHours)
	obsEQD := observer.Terra(obs, gastHours).Terse()
	obsEQJ := frame.Gyration(obsEQD, ttJD, frame.Into2000)
	obsKm := [3]float64{obsEQJ[0] * vectorKmPerAU, obsEQJ[1] * vectorKmPerAU, obsEQJ[2] * vectorKmPerAU}

	dirKm := [3]float64{moonKm[0] - sunKm[0], moonKm[1] - sunKm[1], moonKm[2] - sunKm[2]}
	targKm := [3]float64{obsKm[0] - moonKm[0], obsKm[1] - moonKm[1], obsKm[2] - moonKm[2]}

	u, r, k, p := shadowGeometry(dirKm, targKm, moonRadiusKm)
	return ShadowInfo{TT: ttJD, U: u, R: r, K: k, P: p, Dir: dirKm, Targ: targKm}, nil
}

// PlanetShadow returns a planet's (Mercury or Venus) shadow geometry at the
// geocentric Earth, for transit search.
func PlanetShadow(b body.Body, radiusKm, ttJD float64, cache *pluto.Cache) (ShadowInfo, error) {
	sunGeo, err := observe.GeoVector(body.Sun, ttJD, false, cache)
	if err != nil {
		return ShadowInfo{}, err
	}
	planetGeo, err := observe.GeoVector(b, ttJD, false, cache)
	if err != nil {
		return ShadowInfo{}, err
	}

	sunKm := [3]float64{sunGeo.X * vectorKmPerAU, sunGeo.Y * vectorKmPerAU, sunGeo.Z * vectorKmPerAU}
	planetKm := [3]float64{planetGeo.X * vectorKmPerAU, planetGeo.Y * vectorKmPerAU, planetGeo.Z * vectorKmPerAU}

	dirKm := [3]float64{planetKm[0] - sunKm[0], planetKm[1] - sunKm[1], planetKm[2] - sunKm[2]}
	earthFromPlanetKm := [3]float64{-planetKm[0], -planetKm[1], -planetKm[2]}

	u, r, k, p := shadowGeometry(dirKm, earthFromPlanetKm, radiusKm)
	return ShadowInfo{TT: ttJD, U: u, R: r, K: k, P: p, Dir: dirKm, Targ: earthFromPlanetKm}, nil
}

// LunarEclipse describes a lunar eclipse event.
type LunarEclipse struct {
	TT               float64
	Kind             Kind
	UmbralMag        float64
	PenumbralMag     float64
	SDPenumMinutes   float64
	SDPartialMinutes float64
	SDTotalMinutes   float64
	Obscuration      float64
}

// SearchLunarEclipse finds the next lunar eclipse at or after start: it
// finds each full moon, prunes by ecliptic latitude, minimizes the
// Moon-shadow-axis distance, and classifies; advances 10 days past a
// barren full moon and retries up to 12 times.
func SearchLunarEclipse(start float64, earthHelio phase.EarthHelioFunc, cache *pluto.Cache) (LunarEclipse, error) {
	t := start
	for attempt := 0; attempt < 12; attempt++ {
		fullMoonTT, ok, err := phase.SearchMoonPhase(180.0, t, 40.0, earthHelio)
		if err != nil {
			return LunarEclipse{}, err
		}
		if !ok {
			return LunarEclipse{}, errors.WithMessage(astroerr.ErrSearchFailed, "search_lunar_eclipse: no full moon found")
		}

		moonEcl := moon.Ecliptic(fullMoonTT)
		if math.Abs(moonEcl.LatDeg) >= 1.8 {
			t = fullMoonTT + 10.0
			continue
		}

		distFunc := func(tt float64) float64 {
			sh, err := EarthShadow(tt, cache)
			if err != nil {
				return math.Inf(1)
			}
			return sh.R
		}
		slopeFunc := func(tt float64) float64 {
			const dt = 0.001
			return (distFunc(tt+dt/2) - distFunc(tt-dt/2)) / dt
		}

		const window = 0.03
		tRoot, ok2, err := search.Search(slopeFunc, fullMoonTT-window, fullMoonTT+window, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})
		if err != nil {
			return LunarEclipse{}, err
		}
		if !ok2 {
			tRoot = fullMoonTT
		}

		sh, err := EarthShadow(tRoot, cache)
		if err != nil {
			return LunarEclipse{}, err
		}

		umbralMag := (sh.K + moonRadiusKm - sh.R) / (2.0 * moonRadiusKm)
		penumbralMag := (sh.P + moonRadiusKm - sh.R) / (2.0 * moonRadiusKm)

		var kind Kind
		switch {
		case sh.R+moonRadiusKm < sh.K:
			kind = Total
		case sh.R < sh.K+moonRadiusKm:
			kind = Partial
		case sh.R < sh.P+moonRadiusKm:
			kind = Penumbral
		default:
			kind = None
		}

		if kind == None {
			t = fullMoonTT + 10.0
			continue
		}

		sdPenum := semiDuration(distFunc, tRoot, sh.P+moonRadiusKm, 200.0/1440.0)
		var sdPartial, sdTotal float64
		if kind >= Partial {
			sdPartial = semiDuration(distFunc, tRoot, sh.K+moonRadiusKm, sdPenum)
		}
		if kind == Total {
			sdTotal = semiDuration(distFunc, tRoot, sh.K-moonRadiusKm, sdPartial)
		}

		obsc := 1.0
		if kind != Total {
			obsc = illum.ObscurationDiscs(moonRadiusKm, math.Abs(sh.K), sh.R)
		}

		return LunarEclipse{
			TT: tRoot, Kind: kind, UmbralMag: umbralMag, PenumbralMag: penumbralMag,
			SDPenumMinutes: sdPenum * 1440.0, SDPartialMinutes: sdPartial * 1440.0,
			SDTotalMinutes: sdTotal * 1440.0, Obscuration: obsc,
		}, nil
	}
	return LunarEclipse{}, errors.WithMessage(astroerr.ErrSearchNonConvergent, "search_lunar_eclipse: no eclipse found in 12 full moons")
}

// NextLunarEclipse continues a lunar-eclipse search 10 days past a prior
// event's time.
func NextLunarEclipse(prevTT float64, earthHelio phase.EarthHelioFunc, cache *pluto.Cache) (LunarEclipse, error) {
	return SearchLunarEclipse(prevTT+10.0, earthHelio, cache)
}

// semiDuration bisects distFunc - threshold over [center-window, center]
// for the time half-width at which the shadow distance crosses threshold.
func semiDuration(distFunc func(float64) float64, center, threshold, window float64) float64 {
	f := func(tt float64) float64 { return distFunc(tt) - threshold }
	lo, hi := center-window, center
	flo, fhi := f(lo), f(hi)
	if (flo < 0) == (fhi < 0) {
		return window
	}
	for i := 0; i < 40; i++ {
		mid := 0.5 * (lo + hi)
		fm := f(mid)
		if (fm < 0) == (flo < 0) {
			lo, flo = mid, fm
		} else {
			hi, fhi = mid, fm
		}
	}
	return center - 0.5*(lo+hi)
}

// GlobalSolarEclipse describes a solar eclipse's ground-track peak.
type GlobalSolarEclipse struct {
	TT          float64
	Kind        Kind
	LatitudeDeg float64
	LongitudeDeg float64
	Obscuration float64
}

// SearchGlobalSolarEclipse finds the next new moon at or after start,
// checks whether its shadow reaches Earth, and if so intersects the shadow
// axis with the oblate Earth to find the ground-track peak.
func SearchGlobalSolarEclipse(start float64, earthHelio phase.EarthHelioFunc, cache *pluto.Cache) (GlobalSolarEclipse, error) {
	t := start
	for attempt := 0; attempt < 12; attempt++ {
		newMoonTT, ok, err := phase.SearchMoonPhase(0.0, t, 40.0, earthHelio)
		if err != nil {
			return GlobalSolarEclipse{}, err
		}
		if !ok {
			return GlobalSolarEclipse{}, errors.WithMessage(astroerr.ErrSearchFailed, "search_global_solar_eclipse: no new moon found")
		}

		moonEcl := moon.Ecliptic(newMoonTT)
		if math.Abs(moonEcl.LatDeg) >= 1.8 {
			t = newMoonTT + 10.0
			continue
		}

		distFunc := func(tt float64) float64 {
			sh, err := MoonShadow(tt, cache)
			if err != nil {
				return math.Inf(1)
			}
			return sh.R
		}
		slopeFunc := func(tt float64) float64 {
			const dt = 0.001
			return (distFunc(tt+dt/2) - distFunc(tt-dt/2)) / dt
		}
		const window = 0.03
		tPeak, ok2, err := search.Search(slopeFunc, newMoonTT-window, newMoonTT+window, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})
		if err != nil {
			return GlobalSolarEclipse{}, err
		}
		if !ok2 {
			tPeak = newMoonTT
		}

		sh, err := MoonShadow(tPeak, cache)
		if err != nil {
			return GlobalSolarEclipse{}, err
		}
		if sh.R >= sh.P+earthRadiusKm {
			t = newMoonTT + 10.0
			continue
		}

		sunGeo, err := observe.GeoVector(body.Sun, tPeak, false, cache)
		if err != nil {
			return GlobalSolarEclipse{}, err
		}
		moonVecEQJ := frame.EclipticToEquatorialJ2000(moon.Ecliptic(tPeak).Vector())
		sunKm := [3]float64{sunGeo.X * vectorKmPerAU, sunGeo.Y * vectorKmPerAU, sunGeo.Z * vectorKmPerAU}
		moonKm := [3]float64{moonVecEQJ[0] * vectorKmPerAU, moonVecEQJ[1] * vectorKmPerAU, moonVecEQJ[2] * vectorKmPerAU}
		sunDistKm := math.Sqrt(sunKm[0]*sunKm[0] + sunKm[1]*sunKm[1] + sunKm[2]*sunKm[2])

		axisEQJ := [3]float64{
			(moonKm[0] - sunKm[0]) / vectorKmPerAU,
			(moonKm[1] - sunKm[1]) / vectorKmPerAU,
			(moonKm[2] - sunKm[2]) / vectorKmPerAU,
		}
		axisLen := math.Sqrt(axisEQJ[0]*axisEQJ[0] + axisEQJ[1]*axisEQJ[1] + axisEQJ[2]*axisEQJ[2])
		axisEQJ = [3]float64{axisEQJ[0] / axisLen, axisEQJ[1] / axisLen, axisEQJ[2] / axisLen}
		axisEQD := frame.Gyration(axisEQJ, tPeak, frame.From2000)

		moonEQJAU := vector.TerseVector{moonKm[0] / vectorKmPerAU, moonKm[1] / vectorKmPerAU, moonKm[2] / vectorKmPerAU}
		moonEQDAU := frame.Gyration(moonEQJAU, tPeak, frame.From2000)
		moonEQD := [3]float64{moonEQDAU[0] * vectorKmPerAU, moonEQDAU[1] * vectorKmPerAU, moonEQDAU[2] * vectorKmPerAU}

		lat, lon, ground, ok3 := intersectOblateEarth(moonEQD, axisEQD, sunDistKm, tPeak)
		if !ok3 {
			t = newMoonTT + 10.0
			continue
		}

		kind := Annular
		if ground.K > 0.014 {
			kind = Total
		}
		obsc := 1.0
		if kind != Total {
			obsc = solarEclipseObscuration(ground, tPeak, cache)
		}

		return GlobalSolarEclipse{TT: tPeak, Kind: kind, LatitudeDeg: lat, LongitudeDeg: lon, Obscuration: obsc}, nil
	}
	return GlobalSolarEclipse{}, errors.WithMessage(astroerr.ErrSearchNonConvergent, "search_global_solar_eclipse: no eclipse found in 12 new moons")
}

// NextGlobalSolarEclipse continues a global solar-eclipse search 10 days
// past a prior event's time.
func NextGlobalSolarEclipse(prevTT float64, earthHelio phase.EarthHelioFunc, cache *pluto.Cache) (GlobalSolarEclipse, error) {
	return SearchGlobalSolarEclipse(prevTT+10.0, earthHelio, cache)
}

// intersectOblateEarth works entirely in the Earth-centered EQD frame: it
// takes the Moon's geocentric position, the unit shadow-axis direction
// (Sun -> Moon, continuing toward Earth), dilates z by 1/EarthFlattening
// to reduce the ellipsoid to a sphere, and solves for the near
// intersection of the axis ray with that sphere. Returns geodetic
// latitude/longitude of the ground point and the shadow geometry (r=0 by
// construction, k/p) evaluated at that point's true along-axis distance
// from the Moon.
func intersectOblateEarth(moonEQD, axisEQD [3]float64, sunDistKm, ttJD float64) (latDeg, lonDeg float64, ground ShadowInfo, ok bool) {
	const flattening = observer.EarthFlattening
	const rEarth = observer.EarthEquatorialRadiusKm

	mz := moonEQD[2] / flattening
	dz := axisEQD[2] / flattening

	a := axisEQD[0]*axisEQD[0] + axisEQD[1]*axisEQD[1] + dz*dz
	b := 2.0 * (moonEQD[0]*axisEQD[0] + moonEQD[1]*axisEQD[1] + mz*dz)
	c := moonEQD[0]*moonEQD[0] + moonEQD[1]*moonEQD[1] + mz*mz - rEarth*rEarth

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, ShadowInfo{}, false
	}
	sqrtDisc := math.Sqrt(disc)
	s1 := (-b - sqrtDisc) / (2 * a)
	s2 := (-b + sqrtDisc) / (2 * a)
	s := s1
	if s2 < s1 {
		s = s2
	}

	groundEQD := [3]float64{
		moonEQD[0] + s*axisEQD[0],
		moonEQD[1] + s*axisEQD[1],
		moonEQD[2] + s*axisEQD[2],
	}

	p := math.Hypot(groundEQD[0], groundEQD[1])
	latDeg = math.Atan2(groundEQD[2]/(flattening*flattening), p) * 180.0 / math.Pi

	gastHours := astrotime.GAST(ttJD, frame.EvalETilt(ttJD).EqEqHours)
	lonDeg = math.Atan2(groundEQD[1], groundEQD[0])*180.0/math.Pi - 15.0*gastHours
	lonDeg = math.Mod(lonDeg+540.0, 360.0) - 180.0

	k := moonRadiusKm - s*(sunRadiusKm-moonRadiusKm)/sunDistKm
	pRad := moonRadiusKm + s*(sunRadiusKm+moonRadiusKm)/sunDistKm
	ground = ShadowInfo{TT: ttJD, U: s, R: 0, K: k, P: pRad}
	return latDeg, lonDeg, ground, true
}

// solarEclipseObscuration computes the fractional obscuration of the
// Sun's disc by the Moon at the ground point, using apparent angular
// radii and the two-disc overlap formula.
func solarEclipseObscuration(ground ShadowInfo, ttJD float64, cache *pluto.Cache) float64 {
	sunGeo, err := observe.GeoVector(body.Sun, ttJD, true, cache)
	if err != nil {
		return 0
	}
	moonVecEQJ := frame.EclipticToEquatorialJ2000(moon.Ecliptic(ttJD).Vector())

	sunDist := math.Sqrt(sunGeo.X*sunGeo.X + sunGeo.Y*sunGeo.Y + sunGeo.Z*sunGeo.Z)
	moonDist := math.Sqrt(moonVecEQJ[0]*moonVecEQJ[0] + moonVecEQJ[1]*moonVecEQJ[1] + moonVecEQJ[2]*moonVecEQJ[2])

	sunAngRadDeg := math.Asin(sunRadiusKm/vectorKmPerAU/sunDist) * 180.0 / math.Pi
	moonAngRadDeg := math.Asin(moonRadiusKm/vectorKmPerAU/moonDist) * 180.0 / math.Pi

	sep := ground.R / (moonDist * vectorKmPerAU) * 180.0 / math.Pi
	return illum.ObscurationDiscs(sunAngRadDeg, moonAngRadDeg, sep)
}

// LocalSolarEclipse describes a solar eclipse as seen by a specific
// observer, with contact times for the partial phase and, if total or
// annular, the central phase.
type LocalSolarEclipse struct {
	PeakTT          float64
	Kind            Kind
	PartialBeginTT  float64
	PartialEndTT    float64
	HasCentral      bool
	CentralBeginTT  float64
	CentralEndTT    float64
}

// SearchLocalSolarEclipse finds the next solar eclipse visible to obs at or
// after start: finds the new moon, minimizes the local Moon-shadow
// distance, and if the Sun is above the horizon at any point during the
// event, brackets the partial and (if applicable) central contact times.
func SearchLocalSolarEclipse(start float64, obs observer.Observer, earthHelio phase.EarthHelioFunc, cache *pluto.Cache) (LocalSolarEclipse, error) {
	t := start
	for attempt := 0; attempt < 12; attempt++ {
		newMoonTT, ok, err := phase.SearchMoonPhase(0.0, t, 40.0, earthHelio)
		if err != nil {
			return LocalSolarEclipse{}, err
		}
		if !ok {
			return LocalSolarEclipse{}, errors.WithMessage(astroerr.ErrSearchFailed, "search_local_solar_eclipse: no new moon found")
		}

		distFunc := func(tt float64) float64 {
			sh, err := LocalMoonShadow(tt, obs, cache)
			if err != nil {
				return math.Inf(1)
			}
			return sh.R
		}
		slopeFunc := func(tt float64) float64 {
			const dt = 0.001
			return (distFunc(tt+dt/2) - distFunc(tt-dt/2)) / dt
		}
		const window = 0.2
		tPeak, ok2, err := search.Search(slopeFunc, newMoonTT-window, newMoonTT+window, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})
		if err != nil {
			return LocalSolarEclipse{}, err
		}
		if !ok2 {
			tPeak = newMoonTT
		}

		sh, err := LocalMoonShadow(tPeak, obs, cache)
		if err != nil {
			return LocalSolarEclipse{}, err
		}
		if sh.R >= sh.P {
			t = newMoonTT + 10.0
			continue
		}

		if sunBelowHorizonThroughout(tPeak, obs, cache) {
			t = newMoonTT + 10.0
			continue
		}

		partialFunc := func(tt float64) float64 {
			s2, err := LocalMoonShadow(tt, obs, cache)
			if err != nil {
				return 0
			}
			return s2.P - s2.R
		}
		pBegin, _, _ := search.Search(partialFunc, tPeak-0.2, tPeak, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})
		pEnd, _, _ := search.Search(negate(partialFunc), tPeak, tPeak+0.2, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})

		kind := Partial
		result := LocalSolarEclipse{PeakTT: tPeak, Kind: kind, PartialBeginTT: pBegin, PartialEndTT: pEnd}

		if sh.R < math.Abs(sh.K) {
			if sh.K > 0 {
				kind = Total
			} else {
				kind = Annular
			}
			centralFunc := func(tt float64) float64 {
				s2, err := LocalMoonShadow(tt, obs, cache)
				if err != nil {
					return 0
				}
				return math.Abs(s2.K) - s2.R
			}
			cBegin, _, _ := search.Search(centralFunc, tPeak-0.01, tPeak, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})
			cEnd, _, _ := search.Search(negate(centralFunc), tPeak, tPeak+0.01, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})
			result.HasCentral = true
			result.CentralBeginTT = cBegin
			result.CentralEndTT = cEnd
		}
		result.Kind = kind
		return result, nil
	}
	return LocalSolarEclipse{}, errors.WithMessage(astroerr.ErrSearchNonConvergent, "search_local_solar_eclipse: no eclipse found in 12 new moons")
}

func negate(f func(float64) float64) func(float64) float64 {
	return func(tt float64) float64 { return -f(tt) }
}

// sunBelowHorizonThroughout checks the Sun's altitude at the eclipse peak
// and approximate endpoints; true only if the Sun never rises above the
// horizon during the event window.
func sunBelowHorizonThroughout(tPeak float64, obs observer.Observer, cache *pluto.Cache) bool {
	check := func(tt float64) bool {
		raHours, decDeg, _, err := observe.Equator(body.Sun, tt, &obs, true, true, cache)
		if err != nil {
			return false
		}
		gastHours := astrotime.GAST(tt, frame.EvalETilt(tt).EqEqHours)
		altDeg, _, err := observe.Horizontal(raHours, decDeg, gastHours, obs, refraction.None)
		if err != nil {
			return false
		}
		return altDeg > 0
	}
	for _, dt := range []float64{-0.1, -0.05, 0, 0.05, 0.1} {
		if check(tPeak + dt) {
			return false
		}
	}
	return true
}

// Transit describes a Mercury/Venus transit across the Sun's disc.
type Transit struct {
	StartTT  float64
	PeakTT   float64
	FinishTT float64
}

// bodyRadiusKm gives the physical radius used for transit shadow geometry.
var bodyRadiusKm = map[body.Body]float64{
	body.Mercury: 2439.7,
	body.Venus:   6051.8,
}

// SearchTransit finds the next Mercury or Venus transit at or after start:
// finds the next inferior conjunction, checks the angular separation from
// the Sun, and if small enough brackets the transit's contact times.
func SearchTransit(b body.Body, start float64, cache *pluto.Cache) (Transit, error) {
	radiusKm, ok := bodyRadiusKm[b]
	if !ok {
		return Transit{}, astroerr.ErrUnsupportedBody
	}

	t := start
	for attempt := 0; attempt < 12; attempt++ {
		conjTT, err := searchRelativeLongitudeZero(b, t, cache)
		if err != nil {
			return Transit{}, err
		}

		bodyGeo, err := observe.GeoVector(b, conjTT, true, cache)
		if err != nil {
			return Transit{}, err
		}
		sunGeo, err := observe.GeoVector(body.Sun, conjTT, true, cache)
		if err != nil {
			return Transit{}, err
		}
		angleFromSunDeg := vector.Separation(bodyGeo.Terse(), sunGeo.Terse())
		if angleFromSunDeg >= 0.4 {
			t = conjTT + 10.0
			continue
		}

		distFunc := func(tt float64) float64 {
			s2, err := PlanetShadow(b, radiusKm, tt, cache)
			if err != nil {
				return math.Inf(1)
			}
			return s2.R
		}
		slopeFunc := func(tt float64) float64 {
			const dt = 0.001
			return (distFunc(tt+dt/2) - distFunc(tt-dt/2)) / dt
		}
		const window = 1.0
		tPeak, okPeak, err := search.Search(slopeFunc, conjTT-window, conjTT+window, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})
		if err != nil {
			return Transit{}, err
		}
		if !okPeak {
			tPeak = conjTT
		}

		peakSh, err := PlanetShadow(b, radiusKm, tPeak, cache)
		if err != nil {
			return Transit{}, err
		}
		if peakSh.R >= peakSh.P {
			t = conjTT + 10.0
			continue
		}

		contactFunc := func(tt float64) float64 {
			s2, err := PlanetShadow(b, radiusKm, tt, cache)
			if err != nil {
				return 0
			}
			return s2.P - s2.R
		}
		startTT, _, _ := search.Search(contactFunc, tPeak-1.0, tPeak, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})
		finishTT, _, _ := search.Search(negate(contactFunc), tPeak, tPeak+1.0, search.ZeroCrossingOptions{DtToleranceDays: 1.0 / 86400.0})

		return Transit{StartTT: startTT, PeakTT: tPeak, FinishTT: finishTT}, nil
	}
	return Transit{}, errors.WithMessage(astroerr.ErrSearchNonConvergent, "search_transit: no transit found in 12 conjunctions")
}

// searchRelativeLongitudeZero finds the next inferior conjunction (the
// body's heliocentric longitude equals Earth's) at or after startTT, by the
// same Newton-like convergence elongation.SearchRelativeLongitude uses,
// scaled by the body's actual synodic period rather than a fixed constant.
func searchRelativeLongitudeZero(b body.Body, startTT float64, cache *pluto.Cache) (float64, error) {
	synodic, err := body.SynodicPeriodDays(b)
	if err != nil {
		return 0, err
	}
	synodic = math.Abs(synodic)

	f := func(tt float64) (float64, error) {
		bh, err := observe.HelioVector(b, tt, cache)
		if err != nil {
			return 0, err
		}
		eh, err := observe.HelioVector(body.Earth, tt, cache)
		if err != nil {
			return 0, err
		}
		bLon := math.Atan2(bh.Y, bh.X) * 180.0 / math.Pi
		eLon := math.Atan2(eh.Y, eh.X) * 180.0 / math.Pi
		diff := bLon - eLon
		diff = math.Mod(diff+540.0, 360.0) - 180.0
		return diff, nil
	}

	t := startTT
	prevErr := math.Inf(1)
	for iter := 0; iter < 200; iter++ {
		v, err := f(t)
		if err != nil {
			return 0, err
		}
		if math.Abs(v)*synodic/360.0*86400.0 < 1.0 {
			return t, nil
		}
		if iter == 0 && v > 0 {
			// Step forward to the next conjunction, not back to the last one.
			v -= 360.0
		}
		if math.Abs(v) < 10 && math.Signbit(v) != math.Signbit(prevErr) && !math.IsInf(prevErr, 1) {
			v2, err := f(t + 1.0)
			if err == nil {
				rate := math.Mod(v2-v+540.0, 360.0) - 180.0
				if rate != 0 {
					synodic = math.Abs(360.0 / rate)
				}
			}
		}
		t -= v / 360.0 * synodic
		prevErr = v
	}
	return 0, errors.WithMessage(astroerr.ErrSearchNonConvergent, "search_transit: inferior conjunction search did not converge")
}
