package app

import (
	"github.com/pkg/errors"
)

// app errors
var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrUnknownClass       = errors.New("unknown contract class")
)
