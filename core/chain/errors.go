package chain

import "github.com/pkg/errors"

// errors
var (
	ErrInvalidVersion   = errors.New("invalid version")
	ErrInvalidHeight    = errors.New("invalid height")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrChainClosed      = errors.New("chain closed")
	ErrStoreClosed      = errors.New("store closed")
	ErrDirtyContext     = errors.New("dirty context")
)
