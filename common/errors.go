package common

import (
	"github.com/pkg/errors"
)

// common errors
var (
	ErrInvalidAddress = errors.New("invalid address")
)
