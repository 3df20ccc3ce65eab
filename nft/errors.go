package nft

import (
	"github.com/pkg/errors"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMissingFunds     = errors.New("missing funds")
	ErrInvalidDenom     = errors.New("invalid denom")
	ErrInvalidFunds     = errors.New("invalid funds")
	ErrArithmetic       = errors.New("arithmetic overflow or underflow")
	ErrInvalidRate      = errors.New("rate must be within 0 and 1")
	ErrInvalidModule    = errors.New("invalid module")
	ErrInvalidArguments = errors.New("invalid arguments")
)

var ErrInvalidReplyCorrelationId = errors.New("invalid reply correlation id")
