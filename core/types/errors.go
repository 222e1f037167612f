package types

import "errors"

// runtime errors
var (
	ErrInvalidClassID      = errors.New("invalid class id")
	ErrExistContractType   = errors.New("exist contract type")
	ErrNotExistContract    = errors.New("not exist contract")
	ErrExistContract       = errors.New("exist contract")
	ErrMethodNotGiven      = errors.New("method not given")
	ErrNotExistMethod      = errors.New("not exist method")
	ErrInvalidInputCount   = errors.New("invalid inputs count")
	ErrInvalidInputType    = errors.New("invalid input type")
	ErrContractPanic       = errors.New("contract panic")
	ErrInteractorDestroyed = errors.New("interactor destroyed")
)
