package nft721royalty

import (
	"github.com/pkg/errors"
)

// nft errors
var (
	ErrUnauthorized             = errors.New("unauthorized")
	ErrTokenClaimed             = errors.New("token_id already claimed")
	ErrNotExistToken            = errors.New("not exist token")
	ErrInvalidTokenID           = errors.New("invalid token id")
	ErrInvalidRoyaltyPercentage = errors.New("royalty percentage must be between 0 and 100")
	ErrInvalidConstruction      = errors.New("invalid construction")
	ErrInvalidMetadata          = errors.New("invalid metadata")
)
