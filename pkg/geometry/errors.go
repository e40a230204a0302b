package geometry

import "errors"

var (
	// ErrInvalidRotation reports a degenerate rotation input, such as a
	// quaternion with a norm too close to zero to normalize.
	ErrInvalidRotation = errors.New("invalid rotation")

	// ErrComputation reports a numeric failure (NaN or Inf appearing in a
	// result). It indicates an upstream algebra bug and is never silently
	// clamped away.
	ErrComputation = errors.New("numeric computation failure")
)
