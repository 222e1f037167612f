package amount

import "errors"

// errors
var (
	ErrInvalidAmountFormat = errors.New("invalid amount format")
	ErrOverflow            = errors.New("amount overflow")
	ErrUnderflow           = errors.New("amount underflow")
)
