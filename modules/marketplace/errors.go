package marketplace

import (
	"github.com/pkg/errors"
)

var (
	ErrNotListed    = errors.New("token is not listed")
	ErrSelfPurchase = errors.New("cannot buy own listing")
	ErrInvalidPrice = errors.New("invalid price")
)
