// Package astroerr defines the sentinel error kinds shared across astrocore.
//
// Every package that can fail returns one of these, usually wrapped with
// github.com/pkg/errors to preserve the call chain a caller would want when
// debugging a non-convergent search or a malformed observer input.
package astroerr

import "github.com/pkg/errors"

var (
	// ErrDomain marks invalid input: out-of-range elevation, latitude,
	// distance, hour angle, or a non-finite argument.
	ErrDomain = errors.New("astrocore: domain error")

	// ErrSearchNonConvergent marks an iteration cap exceeded without
	// convergence (light-travel, InverseTerra, relative-longitude, etc).
	ErrSearchNonConvergent = errors.New("astrocore: search did not converge")

	// ErrSearchFailed marks a bracket that did not contain the expected
	// sign change (ascending zero-crossing).
	ErrSearchFailed = errors.New("astrocore: search bracket has no root")

	// ErrUnsupportedBody marks a body invalid for the requested operation
	// (e.g. OrbitalElements on a user star, Elongation on Earth).
	ErrUnsupportedBody = errors.New("astrocore: unsupported body for this operation")

	// ErrInternal marks a post-condition that should never fail.
	ErrInternal = errors.New("astrocore: internal invariant violated")
)

// Wrap attaches a contextual message to one of the sentinel errors while
// keeping it matchable with errors.Is.
func Wrap(sentinel error, msg string) error {
	return errors.WithMessage(sentinel, msg)
}
