package vm

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const bankBalancePrefix = "VM:BANK:BALANCE:"

func balanceKey(address, denom string) []byte {
	return []byte(bankBalancePrefix + address + ":" + denom)
}

func readBalance(txn Transaction, address, denom string) (decimal.Decimal, error) {
	val, err := txn.Get(balanceKey(address, denom))
	if err != nil || val == nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(string(val))
}

func writeBalance(txn Transaction, address, denom string, amount decimal.Decimal) error {
	if amount.IsZero() {
		return txn.Delete(balanceKey(address, denom))
	}
	return txn.Set(balanceKey(address, denom), []byte(amount.String()))
}

func credit(txn Transaction, address string, coin Coin) error {
	bal, err := readBalance(txn, address, coin.Denom)
	if err != nil {
		return err
	}
	bal = bal.Add(coin.Amount)
	if bal.GreaterThan(MaxAmount) {
		return errors.Wrapf(ErrInvalidCoins, "balance overflow %s %s", address, coin.Denom)
	}
	return writeBalance(txn, address, coin.Denom, bal)
}

func transfer(txn Transaction, from, to string, coins []Coin) error {
	err := ValidateCoins(coins)
	if err != nil {
		return err
	}
	if err := ValidateAddress(to); err != nil {
		return err
	}
	for _, c := range coins {
		bal, err := readBalance(txn, from, c.Denom)
		if err != nil {
			return err
		}
		if bal.LessThan(c.Amount) {
			return errors.Wrapf(ErrInsufficientFunds, "%s has %s %s, needs %s", from, bal, c.Denom, c.Amount)
		}
		err = writeBalance(txn, from, c.Denom, bal.Sub(c.Amount))
		if err != nil {
			return err
		}
		err = credit(txn, to, c)
		if err != nil {
			return err
		}
	}
	return nil
}
