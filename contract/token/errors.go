package token

import (
	"github.com/pkg/errors"

	"github.com/meverselabs/ledger/common"
)

// allowance errors
var (
	ErrSelfAllowance       = errors.New("cannot set allowance to own account")
	ErrInvalidExpiration   = errors.New("invalid expiration value")
	ErrNoAllowance         = errors.New("no allowance for this account")
	ErrExpired             = errors.New("allowance is expired")
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow = errors.New("arithmetic underflow")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidAddress      = common.ErrInvalidAddress
)

// token errors
var (
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidZeroAmount       = errors.New("invalid zero amount")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrCannotExceedCap         = errors.New("minting cannot exceed the cap")
	ErrDuplicateInitialBalance = errors.New("duplicate initial balance addresses")
	ErrInvalidConstruction     = errors.New("invalid construction")
	ErrInvalidExpirationFormat = errors.New("invalid expiration format")
)
