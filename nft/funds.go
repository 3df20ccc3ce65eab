package nft

import (
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// CheckFunds requires exactly one coin of denom carrying exactly amount.
func CheckFunds(funds []vm.Coin, denom string, amount decimal.Decimal) error {
	if len(funds) == 0 {
		return ErrMissingFunds
	}
	if len(funds) > 1 || funds[0].Denom != denom {
		return errors.Wrapf(ErrInvalidDenom, "expected %s", denom)
	}
	if !funds[0].Amount.Equal(amount) {
		return errors.Wrapf(ErrInvalidFunds, "expected %s got %s", amount, funds[0].Amount)
	}
	return nil
}
