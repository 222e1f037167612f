package receiver

import "github.com/pkg/errors"

// errors
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrRejected       = errors.New("rejected by receiver")
)
