package bin

import "errors"

// errors
var (
	ErrInvalidLength = errors.New("invalid length")
	ErrTooLongBytes  = errors.New("too long bytes")
)
