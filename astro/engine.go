// Package astro composes every layer below it — vector, astrotime, frame,
// body, vsop, moon, pluto, jupmoons, observer, refraction, observe, search,
// riseset, phase, apsis, elongation, eclipse, illum, elements — into the
// single public entry point: a long-lived Engine owning
// the active ΔT model, the 8-slot user-star table, and the Pluto
// integration cache, with every operation expressed as a method.
//
// No existing package matches this one directly; the *pattern* — a handle
// threaded through every call instead of free functions plus package-level
// state — is spk.SPK's role upstream, generalized here to own the
// configuration needed in addition to a cache.
package astro

import (
	"math"
	"sync"

	"github.com/pkg/errors"

	"github.com/wrenfield/astrocore/apsis"
	"github.com/wrenfield/astrocore/astroerr"
	"github.com/wrenfield/astrocore/astrotime"
	"github.com/wrenfield/astrocore/body"
	"github.com/wrenfield/astrocore/eclipse"
	"github.com/wrenfield/astrocore/elements"
	"github.com/wrenfield/astrocore/elongation"
	"github.com/wrenfield/astrocore/frame"
	"github.com/wrenfield/astrocore/illum"
	"github.com/wrenfield/astrocore/moon"
	"github.com/wrenfield/astrocore/observe"
	"github.com/wrenfield/astrocore/observer"
	"github.com/wrenfield/astrocore/phase"
	"github.com/wrenfield/astrocore/pluto"
	"github.com/wrenfield/astrocore/refraction"
	"github.com/wrenfield/astrocore/riseset"
	"github.com/wrenfield/astrocore/search"
	"github.com/wrenfield/astrocore/vector"
	"github.com/wrenfield/astrocore/vsop"
)

// CivilTime is the external UTC date/time boundary type: the
// caller's calendar date/time, always interpreted as UTC.
type CivilTime struct {
	Year, Month, Day    int
	Hour, Minute        int
	Second              float64
}

// SearchOptions mirrors the per-call search tuning knobs. A zero
// value selects the documented defaults.
type SearchOptions struct {
	DtToleranceSeconds float64
	InitF1, InitF2     float64
	IterLimit          int
}

func (o SearchOptions) resolved() search.ZeroCrossingOptions {
	tol := o.DtToleranceSeconds
	if tol <= 0 {
		tol = 1.0
	}
	return search.ZeroCrossingOptions{DtToleranceDays: tol / astrotime.SecPerDay}
}

// Engine owns every piece of mutable configuration the rest of the module
// needs: the selected ΔT function, the 8-slot user-star table, and the
// Pluto gravity-simulation cache that every position query shares. All
// public astronomy operations are methods on *Engine.
type Engine struct {
	mu            sync.RWMutex
	deltaTKind    astrotime.DeltaTKind
	refractionMode refraction.Mode
	stars         [8]body.StarRecord
	plutoCache    *pluto.Cache
}

// NewEngine returns an Engine configured with the documented defaults:
// Espenak-Meeus ΔT and normal refraction.
func NewEngine() *Engine {
	return &Engine{
		deltaTKind:     astrotime.EspenakMeeus,
		refractionMode: refraction.Normal,
		plutoCache:     &pluto.Cache{},
	}
}

// SetDeltaTModel selects the Espenak-Meeus or JPL-Horizons ΔT model.
func (e *Engine) SetDeltaTModel(kind astrotime.DeltaTKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deltaTKind = kind
}

// SetCustomDeltaT installs a user-supplied ΔT(year) function and selects
// it as the active model. fn receives a
// decimal year and returns ΔT in seconds.
func (e *Engine) SetCustomDeltaT(fn func(year float64) float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	astrotime.CustomDeltaTSeconds = fn
	e.deltaTKind = astrotime.Custom
}

// SetRefractionMode selects Normal, JplHor, or None for all subsequent
// horizon-coordinate and rise/set operations.
func (e *Engine) SetRefractionMode(mode refraction.Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refractionMode = mode
}

func (e *Engine) deltaT() astrotime.DeltaTKind {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.deltaTKind
}

func (e *Engine) refraction() refraction.Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.refractionMode
}

// Cache exposes the engine's Pluto integration cache for packages that
// need it directly (tests, advanced callers).
func (e *Engine) Cache() *pluto.Cache { return e.plutoCache }

// FromCivil converts a CivilTime (UTC) into an astrotime.AstroTime using
// the engine's active ΔT model.
func (e *Engine) FromCivil(c CivilTime) astrotime.AstroTime {
	return astrotime.FromCivil(c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second, e.deltaT())
}

// DefineStar configures one of the 8 user-star slots. b must
// be Star1..Star8; distanceLy must be at least 1 light-year.
func (e *Engine) DefineStar(b body.Body, raHours, decDeg, distanceLy float64) error {
	if !b.IsStar() {
		return astroerr.ErrUnsupportedBody
	}
	rec := body.StarRecord{RAHours: raHours, DecDeg: decDeg, DistAU: distanceLy * body.AuPerLy}
	if err := rec.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stars[b.StarIndex()] = rec
	return nil
}

// Star returns the current definition of a user-star slot.
func (e *Engine) Star(b body.Body) (body.StarRecord, error) {
	if !b.IsStar() {
		return body.StarRecord{}, astroerr.ErrUnsupportedBody
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stars[b.StarIndex()], nil
}

// HelioVector returns b's heliocentric J2000 equatorial position at ttJD.
func (e *Engine) HelioVector(b body.Body, ttJD float64) (vector.Vector3, error) {
	return observe.HelioVector(b, ttJD, e.plutoCache)
}

// GeoVector returns b's geocentric J2000 equatorial position at ttJD, with
// light-time and (optionally) stellar aberration applied.
func (e *Engine) GeoVector(b body.Body, ttJD float64, aberration bool) (vector.Vector3, error) {
	return observe.GeoVector(b, ttJD, aberration, e.plutoCache)
}

// Equator returns apparent (or J2000) equatorial RA/Dec/distance for b as
// seen from obs (nil for geocentric).
func (e *Engine) Equator(b body.Body, ttJD float64, obs *observer.Observer, ofDate, aberration bool) (raHours, decDeg, distAU float64, err error) {
	return observe.Equator(b, ttJD, obs, ofDate, aberration, e.plutoCache)
}

// Horizontal converts equator-of-date RA/Dec to altitude/azimuth for obs at
// the given GAST, applying the engine's configured refraction mode.
func (e *Engine) Horizontal(raHours, decDeg, gastHours float64, obs observer.Observer) (altDeg, azDeg float64, err error) {
	return observe.Horizontal(raHours, decDeg, gastHours, obs, e.refraction())
}

// EclipticOfDate converts a J2000 equatorial vector to the true ecliptic of
// date at ttJD.
func (e *Engine) EclipticOfDate(eqj vector.TerseVector, ttJD float64) vector.TerseVector {
	return frame.TrueEclipticOfDate(frame.Gyration(eqj, ttJD, frame.From2000), ttJD)
}

// GeoMoon returns the Moon's geocentric J2000 equatorial position.
func (e *Engine) GeoMoon(ttJD float64) vector.Vector3 {
	return moon.GeoMoon(ttJD)
}

// SearchRiseSet finds the next rise (direction=+1) or set (direction=-1)
// of b for obs.
func (e *Engine) SearchRiseSet(b body.Body, obs observer.Observer, direction int, startTT, limitDays, metersAboveGround float64) (float64, bool, error) {
	return riseset.SearchRiseSet(b, obs, direction, startTT, limitDays, metersAboveGround, e.plutoCache)
}

// SearchAltitude finds when b crosses a user-chosen altitude.
func (e *Engine) SearchAltitude(b body.Body, obs observer.Observer, direction int, startTT, limitDays, altitudeDeg float64) (float64, bool, error) {
	return riseset.SearchAltitude(b, obs, direction, startTT, limitDays, altitudeDeg, e.plutoCache)
}

// SearchHourAngle finds when b crosses a given hour angle for obs.
func (e *Engine) SearchHourAngle(b body.Body, obs observer.Observer, hourAngle, startTT float64, direction int) (float64, error) {
	return riseset.SearchHourAngle(b, obs, hourAngle, startTT, direction, e.plutoCache)
}

// earthHelio adapts vsop.HelioVector+frame conversion into the
// phase.EarthHelioFunc every phase/eclipse search needs.
func earthHelio(ttJD float64) (x, y, z float64, err error) {
	v, err := vsop.HelioVector(body.Earth, ttJD)
	if err != nil {
		return 0, 0, 0, err
	}
	ecl := frame.EquatorialJ2000ToEcliptic(v.Terse())
	return ecl[0], ecl[1], ecl[2], nil
}

// SearchMoonPhase finds the next time the Moon reaches targetPhaseDeg.
func (e *Engine) SearchMoonPhase(targetPhaseDeg, startTT, limitDays float64) (float64, bool, error) {
	return phase.SearchMoonPhase(targetPhaseDeg, startTT, limitDays, earthHelio)
}

// SearchMoonNode finds the Moon's next ecliptic-plane crossing.
func (e *Engine) SearchMoonNode(startTT float64) (phase.NodeEvent, error) {
	return phase.SearchMoonNode(startTT)
}

// NextMoonNode finds the alternating node following prev.
func (e *Engine) NextMoonNode(prev phase.NodeEvent) (phase.NodeEvent, error) {
	return phase.NextMoonNode(prev)
}

// SearchPlanetApsis finds the next perihelion/aphelion of a planet with a
// well-behaved orbit (not Neptune or Pluto).
func (e *Engine) SearchPlanetApsis(b body.Body, startTT float64) (apsis.Event, error) {
	return apsis.SearchPlanetApsis(b, startTT, e.plutoCache)
}

// BruteSearchPlanetApsis is the brute-force variant used for Neptune and
// Pluto, whose apsis timing is too slow-varying for the slope-crossing
// search.
func (e *Engine) BruteSearchPlanetApsis(b body.Body, startTT float64) (apsis.Event, error) {
	return apsis.BruteSearchPlanetApsis(b, startTT, e.plutoCache)
}

// NextPlanetApsis finds the apsis of the opposite kind following prev.
func (e *Engine) NextPlanetApsis(b body.Body, prev apsis.Event) (apsis.Event, error) {
	return apsis.NextPlanetApsis(b, prev, e.plutoCache)
}

// SearchLunarApsis finds the Moon's next perigee or apogee.
func (e *Engine) SearchLunarApsis(startTT float64) (apsis.Event, error) {
	return apsis.SearchLunarApsis(startTT)
}

// Elongation returns b's visibility, angular elongation, and ecliptic
// separation from the Sun as seen from Earth.
func (e *Engine) Elongation(b body.Body, ttJD float64) (elongation.Visibility, float64, float64, error) {
	return elongation.Elongation(b, ttJD, e.plutoCache)
}

// SearchMaxElongation finds Mercury or Venus's next maximum-elongation
// event.
func (e *Engine) SearchMaxElongation(b body.Body, startTT float64) (float64, float64, error) {
	return elongation.SearchMaxElongation(b, startTT, e.plutoCache)
}

// SearchRelativeLongitude finds when b's heliocentric relative longitude
// equals targetRelLonDeg.
func (e *Engine) SearchRelativeLongitude(b body.Body, targetRelLonDeg, startTT float64) (float64, error) {
	return elongation.SearchRelativeLongitude(b, targetRelLonDeg, startTT, e.plutoCache)
}

// SearchLunarEclipse finds the next lunar eclipse at or after start.
func (e *Engine) SearchLunarEclipse(start float64) (eclipse.LunarEclipse, error) {
	return eclipse.SearchLunarEclipse(start, earthHelio, e.plutoCache)
}

// NextLunarEclipse finds the lunar eclipse following prevTT.
func (e *Engine) NextLunarEclipse(prevTT float64) (eclipse.LunarEclipse, error) {
	return eclipse.NextLunarEclipse(prevTT, earthHelio, e.plutoCache)
}

// SearchGlobalSolarEclipse finds the next solar eclipse's ground-track
// peak at or after start.
func (e *Engine) SearchGlobalSolarEclipse(start float64) (eclipse.GlobalSolarEclipse, error) {
	return eclipse.SearchGlobalSolarEclipse(start, earthHelio, e.plutoCache)
}

// NextGlobalSolarEclipse finds the solar eclipse following prevTT.
func (e *Engine) NextGlobalSolarEclipse(prevTT float64) (eclipse.GlobalSolarEclipse, error) {
	return eclipse.NextGlobalSolarEclipse(prevTT, earthHelio, e.plutoCache)
}

// SearchLocalSolarEclipse finds the next solar eclipse visible to obs.
func (e *Engine) SearchLocalSolarEclipse(start float64, obs observer.Observer) (eclipse.LocalSolarEclipse, error) {
	return eclipse.SearchLocalSolarEclipse(start, obs, earthHelio, e.plutoCache)
}

// SearchTransit finds the next Mercury or Venus transit.
func (e *Engine) SearchTransit(b body.Body, start float64) (eclipse.Transit, error) {
	return eclipse.SearchTransit(b, start, e.plutoCache)
}

// Illuminate returns b's visual magnitude, phase angle, and (Saturn only)
// ring tilt at ttJD.
func (e *Engine) Illuminate(b body.Body, ttJD float64) (illum.Result, error) {
	return illum.Illuminate(b, ttJD, e.plutoCache)
}

// OrbitalElements returns b's osculating Keplerian elements at ttJD,
// computed from its instantaneous heliocentric state vector (additive
// operation beyond the core spec, per SPEC_FULL.md §A.1).
func (e *Engine) OrbitalElements(b body.Body, ttJD float64) (elements.OsculatingElements, error) {
	state, err := vsop.HelioState(b, ttJD)
	if err != nil {
		return elements.OsculatingElements{}, err
	}
	gm, ok := body.GMAUDay2[body.Sun]
	if !ok {
		return elements.OsculatingElements{}, astroerr.ErrInternal
	}
	pos := vector.TerseVector{state.X, state.Y, state.Z}
	vel := vector.TerseVector{state.VX, state.VY, state.VZ}
	return elements.FromHeliocentricAU(pos, vel, gm), nil
}

// SearchZeroCrossing exposes the generic bracketed zero-finder directly,
// honoring the per-call SearchOptions fields (dt_tolerance_seconds,
// init_f1/init_f2, iter_limit) instead of the package defaults.
func (e *Engine) SearchZeroCrossing(f func(tt float64) float64, t1, t2 float64, opts SearchOptions) (float64, bool, error) {
	zc := opts.resolved()
	if opts.InitF1 != 0 {
		zc.InitF1 = &opts.InitF1
	}
	if opts.InitF2 != 0 {
		zc.InitF2 = &opts.InitF2
	}
	if opts.IterLimit > 0 {
		zc.IterLimit = opts.IterLimit
	}
	return search.Search(f, t1, t2, zc)
}

// SearchSunLongitude finds the next time the Sun's geometric geocentric
// longitude on the J2000 ecliptic (the antipode of Earth's heliocentric
// longitude; no aberration or nutation) reaches targetLonDeg at or after startTT — the
// continuous-search analog of almanac.go's Seasons discrete bucket, used
// for equinox/solstice timing (targetLonDeg 0/90/180/270) and any other
// solar-longitude event.
func (e *Engine) SearchSunLongitude(targetLonDeg, startTT, limitDays float64) (float64, bool, error) {
	if targetLonDeg < 0 || targetLonDeg >= 360 {
		return 0, false, errors.WithMessage(astroerr.ErrDomain, "target_lon_deg must be in [0,360)")
	}

	sunLongitude := func(ttJD float64) (float64, error) {
		ex, ey, _, err := earthHelio(ttJD)
		if err != nil {
			return 0, err
		}
		lon := math.Atan2(-ey, -ex) * 180.0 / math.Pi
		lon = math.Mod(lon+360.0, 360.0)
		return lon, nil
	}

	f := func(tt float64) float64 {
		lon, err := sunLongitude(tt)
		if err != nil {
			return 0
		}
		diff := math.Mod(lon-targetLonDeg+540.0, 360.0) - 180.0
		return diff
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
			tRoot, ok, err := search.Search(f, lo, hi, search.ZeroCrossingOptions{DtToleranceDays: 0.01 / astrotime.SecPerDay})
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
