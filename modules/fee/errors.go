package fee

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidFeeType     = errors.New("invalid fee type")
	ErrInvalidName        = errors.New("invalid module or fee name")
	ErrInvalidFee         = errors.New("invalid fee value")
	ErrPercentageOverflow = errors.New("total percentage fee exceeds 1")
	ErrFeeNotFound        = errors.New("fee not found")
	ErrNoPayments         = errors.New("no payments found for module")
	ErrNoPaymentAddress   = errors.New("payment address missing")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrFeeNotFound)
}
