package spacedrep

import "errors"

// Sentinel errors for the spacedrep package. Check with errors.Is.
var (
	ErrInvalidItemState = errors.New("spacedrep: invalid item state")
	ErrInvalidSchedule  = errors.New("spacedrep: invalid interval schedule")
	ErrInvalidPolicy    = errors.New("spacedrep: invalid policy")
)
