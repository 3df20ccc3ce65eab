package nft

import (
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const RatePrecision = 18

var one = decimal.NewFromInt(1)

type Split struct {
	MarketplaceFee decimal.Decimal
	RoyaltyFee     decimal.Decimal
	SellerPayout   decimal.Decimal
}

// NormalizeRate truncates a rate to the fixed point precision and checks
// it is within [0, 1].
func NormalizeRate(rate decimal.Decimal) (decimal.Decimal, error) {
	rate = rate.Truncate(RatePrecision)
	if rate.IsNegative() || rate.GreaterThan(one) {
		return decimal.Zero, errors.Wrapf(ErrInvalidRate, "%s", rate)
	}
	return rate, nil
}

// FeeOf is price*rate truncated toward zero.
func FeeOf(price, rate decimal.Decimal) decimal.Decimal {
	return price.Mul(rate.Truncate(RatePrecision)).Truncate(0)
}

func SplitFunds(price, feeRate decimal.Decimal, royaltyRate *decimal.Decimal) (*Split, error) {
	if vm.ValidateAmount(price) != nil {
		return nil, errors.Wrapf(ErrArithmetic, "price %s", price)
	}
	fr, err := NormalizeRate(feeRate)
	if err != nil {
		return nil, errors.Wrap(ErrArithmetic, err.Error())
	}
	s := &Split{
		MarketplaceFee: FeeOf(price, fr),
		RoyaltyFee:     decimal.Zero,
	}
	if royaltyRate != nil {
		rr, err := NormalizeRate(*royaltyRate)
		if err != nil {
			return nil, errors.Wrap(ErrArithmetic, err.Error())
		}
		s.RoyaltyFee = FeeOf(price, rr)
	}
	s.SellerPayout = price.Sub(s.MarketplaceFee).Sub(s.RoyaltyFee)
	if s.SellerPayout.IsNegative() {
		return nil, errors.Wrapf(ErrArithmetic, "fees %s %s exceed price %s", s.MarketplaceFee, s.RoyaltyFee, price)
	}
	return s, nil
}
