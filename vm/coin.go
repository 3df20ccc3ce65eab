package vm

import (
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MaxAmount is the largest amount a single coin may carry, 2^128-1.
var MaxAmount = decimal.RequireFromString("340282366920938463463374607431768211455")

type Coin struct {
	Denom  string
	Amount decimal.Decimal
}

func NewCoin(denom string, amount int64) Coin {
	return Coin{Denom: denom, Amount: decimal.NewFromInt(amount)}
}

func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() || !amount.IsInteger() || amount.GreaterThan(MaxAmount) {
		return errors.Wrap(ErrInvalidCoins, amount.String())
	}
	return nil
}

func ValidateCoins(coins []Coin) error {
	seen := make(map[string]bool)
	for _, c := range coins {
		if c.Denom == "" || seen[c.Denom] {
			return errors.Wrapf(ErrInvalidCoins, "denom %q", c.Denom)
		}
		seen[c.Denom] = true
		if err := ValidateAmount(c.Amount); err != nil {
			return err
		}
		if c.Amount.IsZero() {
			return errors.Wrapf(ErrInvalidCoins, "zero %s", c.Denom)
		}
	}
	return nil
}

func ValidateAddress(address string) error {
	id, err := uuid.FromString(address)
	if err != nil || id == uuid.Nil || id.String() != address {
		return errors.Wrap(ErrInvalidAddress, address)
	}
	return nil
}
