package spacedrep

import "errors"

// ErrInvalidRating is returned when a rating lies outside the range accepted
// by the active policy. The card state is left unchanged.
var ErrInvalidRating = errors.New("invalid rating")

// ErrUnknownPolicy is returned by ParsePolicy for an unrecognised name.
var ErrUnknownPolicy = errors.New("unknown scheduling policy")
