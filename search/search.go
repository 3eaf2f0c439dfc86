// Package search provides numerical event-finding routines for time-series
// data. It implements generic search primitives that find when a continuous
// function reaches a local extremum (FindMaxima, FindMinima) or crosses zero
// ascending within a bracket (Search, ZeroCrossingOptions).
//
// These routines are the foundation for almanac-style computations
// (apsis extrema, rise/set and phase zero-crossings) built on top.
package search

import (
	"errors"
	"math"

	pkgerrors "github.com/pkg/errors"

	"github.com/wrenfield/astrocore/astroerr"
)

const (
	// DefaultExtremaEpsilon is the default convergence threshold for
	// FindMaxima and FindMinima, equal to 1 second expressed in days.
	DefaultExtremaEpsilon = 1.0 / 86400.0

	// invPhi is the inverse golden ratio (sqrt(5)-1)/2, used by goldenSectionMax.
	invPhi = 0.6180339887498949
)

var (
	// ErrInvalidRange is returned when startJD >= endJD.
	ErrInvalidRange = errors.New("search: startJD must be before endJD")

	// ErrInvalidStep is returned when stepDays <= 0.
	ErrInvalidStep = errors.New("search: stepDays must be positive")
)

// Extremum represents a local maximum or minimum of a continuous function.
type Extremum struct {
	T     float64 // Julian date of the extremum
	Value float64 // function value at the extremum
}

// FindMaxima finds times of local maxima of a continuous function of time.
//
// f is evaluated at coarse intervals of stepDays across [startJD, endJD].
// Peaks are detected via sign changes in the numerical first difference,
// then refined with golden section search to within epsilon days.
//
// If epsilon is 0, DefaultExtremaEpsilon (1 second) is used.
// Returns maxima sorted by time. Returns nil if no maxima are found.
func FindMaxima(startJD, endJD, stepDays float64, f func(float64) float64, epsilon float64) ([]Extremum, error) {
	if startJD >= endJD {
		return nil, ErrInvalidRange
	}
	if stepDays <= 0 {
		return nil, ErrInvalidStep
	}
	if epsilon <= 0 {
		epsilon = DefaultExtremaEpsilon
	}

	// Sample with one extra step beyond each boundary to detect boundary peaks.
	overshoot := stepDays
	sStart := startJD - overshoot
	sEnd := endJD + overshoot
	n := int((sEnd-sStart)/stepDays) + 3
	if n < 3 {
		n = 3
	}
	dt := (sEnd - sStart) / float64(n-1)

	ts := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = sStart + float64(i)*dt
		ys[i] = f(ts[i])
	}

	// Detect peaks: points higher than both neighbors.
	var results []Extremum
	for i := 1; i < n-1; i++ {
		if ys[i] > ys[i-1] && ys[i] >= ys[i+1] {
			t, v := goldenSectionMax(ts[i-1], ts[i+1], f, epsilon)
			if t >= startJD && t <= endJD {
				results = append(results, Extremum{T: t, Value: v})
			}
		}
	}

	// Deduplicate maxima closer than epsilon.
	results = dedup(results, epsilon)

	return results, nil
}

// FindMinima finds times of local minima of a continuous function of time.
//
// This is equivalent to finding maxima of -f(t). See FindMaxima for details.
func FindMinima(startJD, endJD, stepDays float64, f func(float64) float64, epsilon float64) ([]Extremum, error) {
	neg := func(t float64) float64 { return -f(t) }
	results, err := FindMaxima(startJD, endJD, stepDays, neg, epsilon)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Value = -results[i].Value
	}
	return results, nil
}

// goldenSectionMax finds the t in [a, b] that maximizes f(t) to within epsilon,
// using the golden section search algorithm.
func goldenSectionMax(a, b float64, f func(float64) float64, epsilon float64) (float64, float64) {
	// Golden section search for maximum.
	// Maintains bracket [a, b] with two interior probe points.
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc := f(c)
	fd := f(d)

	for b-a > epsilon {
		if fc < fd {
			a = c
			c = d
			fc = fd
			d = a + invPhi*(b-a)
			fd = f(d)
		} else {
			b = d
			d = c
			fd = fc
			c = b - invPhi*(b-a)
			fc = f(c)
		}
	}

	// Return the better of the two probe points.
	if fc > fd {
		return c, fc
	}
	return d, fd
}

// dedup removes consecutive extrema whose times differ by less than epsilon,
// keeping the one with the larger value.
func dedup(results []Extremum, epsilon float64) []Extremum {
	if len(results) <= 1 {
		return results
	}
	out := []Extremum{results[0]}
	for i := 1; i < len(results); i++ {
		prev := &out[len(out)-1]
		if results[i].T-prev.T < epsilon {
			if results[i].Value > prev.Value {
				*prev = results[i]
			}
		} else {
			out = append(out, results[i])
		}
	}
	return out
}

// ZeroCrossingOptions configures Search.
type ZeroCrossingOptions struct {
	// DtToleranceDays is the convergence tolerance on t. Defaults to 1
	// second expressed in days if zero.
	DtToleranceDays float64
	// InitF1, InitF2 let the caller supply already-computed endpoint
	// values, avoiding a redundant evaluation of f at t1/t2.
	InitF1, InitF2 *float64
	// IterLimit caps refinement iterations. Defaults to 20 if zero.
	IterLimit int
}

func (o ZeroCrossingOptions) resolved() ZeroCrossingOptions {
	if o.DtToleranceDays <= 0 {
		o.DtToleranceDays = 1.0 / 86400.0
	}
	if o.IterLimit <= 0 {
		o.IterLimit = 20
	}
	return o
}

// Search locates the time in [t1, t2] where a continuous function crosses
// from negative to non-negative, assuming at most one such crossing in the
// bracket. It refines via quadratic interpolation through three points when
// that predicts a root inside the current bracket, falling back to
// bisection otherwise — a hybrid that converges faster than bisection alone
// near simple roots while remaining as robust on pathological functions.
//
// Returns (t, true, nil) on convergence. Returns (0, false, nil), not an
// error, if [t1, t2] does not bracket an ascending zero crossing: the
// caller is expected to have chosen brackets from coarse sampling and
// should treat this as "nothing here", not a failure.
func Search(f func(float64) float64, t1, t2 float64, opts ZeroCrossingOptions) (float64, bool, error) {
	opts = opts.resolved()

	var f1, f2 float64
	if opts.InitF1 != nil {
		f1 = *opts.InitF1
	} else {
		f1 = f(t1)
	}
	if opts.InitF2 != nil {
		f2 = *opts.InitF2
	} else {
		f2 = f(t2)
	}
	if !(f1 < 0 && f2 >= 0) {
		return 0, false, nil
	}

	for iter := 0; iter < opts.IterLimit; iter++ {
		tmid := 0.5 * (t1 + t2)
		if tmid-t1 < opts.DtToleranceDays || t2-tmid < opts.DtToleranceDays {
			return tmid, true, nil
		}
		fmid := f(tmid)

		// Fit relative to t1: raw Julian dates near 2.45e6 leave too few
		// significant digits for the parabola's coefficients.
		if r, ok := quadRoot(0, f1, tmid-t1, fmid, t2-t1, f2); ok {
			root := t1 + r
			froot := f(root)
			if math.Abs(froot) < 1e-13 || t2-t1 < opts.DtToleranceDays ||
				math.Abs(froot)*(t2-t1) < opts.DtToleranceDays*(f2-f1) {
				return root, true, nil
			}
			// Re-bracket around the quadratic root using the sign of froot.
			if froot < 0 {
				if root > t1 && root < t2 {
					t1, f1 = root, froot
				}
			} else {
				if root > t1 && root < t2 {
					t2, f2 = root, froot
				}
			}
			// The midpoint sample narrows the bracket too, so it at least
			// halves every iteration even when quadratic steps stall on one side.
			if tmid > t1 && tmid < t2 {
				if fmid < 0 {
					t1, f1 = tmid, fmid
				} else {
					t2, f2 = tmid, fmid
				}
			}
			continue
		}

		if fmid < 0 {
			t1, f1 = tmid, fmid
		} else {
			t2, f2 = tmid, fmid
		}
	}

	return 0, false, pkgerrors.WithMessage(astroerr.ErrSearchNonConvergent, "search: exceeded iteration limit")
}

// quadRoot fits the parabola through (x1,y1),(xm,ym),(x2,y2) and returns its
// root nearest xm if that root lies strictly inside (x1, x2).
func quadRoot(x1, y1, xm, ym, x2, y2 float64) (float64, bool) {
	q1 := y1 / ((x1 - xm) * (x1 - x2))
	q2 := ym / ((xm - x1) * (xm - x2))
	q3 := y2 / ((x2 - x1) * (x2 - xm))

	a := q1 + q2 + q3
	b := -(q1*(xm+x2) + q2*(x1+x2) + q3*(x1+xm))
	c := q1*xm*x2 + q2*x1*x2 + q3*x1*xm

	if a == 0 {
		if b == 0 {
			return 0, false
		}
		root := -c / b
		return root, root > x1 && root < x2
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	r1 := (-b + sq) / (2 * a)
	r2 := (-b - sq) / (2 * a)

	r1In := r1 > x1 && r1 < x2
	r2In := r2 > x1 && r2 < x2
	switch {
	case r1In && r2In:
		if math.Abs(r1-xm) < math.Abs(r2-xm) {
			return r1, true
		}
		return r2, true
	case r1In:
		return r1, true
	case r2In:
		return r2, true
	default:
		return 0, false
	}
}
