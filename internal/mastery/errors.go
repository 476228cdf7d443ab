package mastery

import "errors"

// ErrInvalidAction is returned for an action value outside the defined set.
var ErrInvalidAction = errors.New("mastery: invalid action")
