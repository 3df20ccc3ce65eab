package nft

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/MixinNetwork/nfthub/vm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFunds(t *testing.T) {
	require := require.New(t)

	price := decimal.NewFromInt(1000)
	fee := decimal.RequireFromString("0.04")
	s, err := SplitFunds(price, fee, nil)
	require.Nil(err)
	require.Equal("40", s.MarketplaceFee.String())
	require.Equal("0", s.RoyaltyFee.String())
	require.Equal("960", s.SellerPayout.String())

	royalty := decimal.RequireFromString("0.1")
	s, err = SplitFunds(price, fee, &royalty)
	require.Nil(err)
	require.Equal("40", s.MarketplaceFee.String())
	require.Equal("100", s.RoyaltyFee.String())
	require.Equal("860", s.SellerPayout.String())

	s, err = SplitFunds(decimal.NewFromInt(99), decimal.RequireFromString("0.015"), nil)
	require.Nil(err)
	require.Equal("1", s.MarketplaceFee.String())
	require.Equal("98", s.SellerPayout.String())

	big := decimal.RequireFromString("0.97")
	_, err = SplitFunds(price, fee, &big)
	require.True(errors.Is(err, ErrArithmetic))
	_, err = SplitFunds(price, decimal.RequireFromString("1.01"), nil)
	require.True(errors.Is(err, ErrArithmetic))
	_, err = SplitFunds(decimal.NewFromInt(-1), fee, nil)
	require.True(errors.Is(err, ErrArithmetic))
}

func TestSplitFundsConservation(t *testing.T) {
	assert := assert.New(t)
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		price := decimal.NewFromInt(r.Int63n(1 << 40))
		f := decimal.New(r.Int63n(500000), -6)
		rr := decimal.New(r.Int63n(500000), -6)
		s, err := SplitFunds(price, f, &rr)
		if !assert.Nil(err) {
			continue
		}
		assert.True(s.MarketplaceFee.Add(s.RoyaltyFee).Add(s.SellerPayout).Equal(price))
		assert.True(s.MarketplaceFee.Equal(s.MarketplaceFee.Truncate(0)))
		assert.True(s.MarketplaceFee.LessThanOrEqual(price.Mul(f)))
		assert.False(s.SellerPayout.IsNegative())
	}
}

func TestIsLocked(t *testing.T) {
	assert := assert.New(t)

	collection := Locks{MintLock: true}
	assert.True(IsLocked(ActionMint, collection, nil))
	assert.False(IsLocked(ActionTransfer, collection, nil))

	token := ListingLocks()
	for _, a := range []Action{ActionBurn, ActionTransfer, ActionSend} {
		assert.True(IsLocked(a, Locks{}, &token), a.String())
	}
	assert.False(IsLocked(ActionMint, Locks{}, &token))
	assert.True(IsLocked(ActionMint, collection, &Locks{}))
}

func TestCheckFunds(t *testing.T) {
	assert := assert.New(t)
	price := decimal.NewFromInt(10)

	assert.True(errors.Is(CheckFunds(nil, "xin", price), ErrMissingFunds))
	assert.True(errors.Is(CheckFunds([]vm.Coin{{Denom: "btc", Amount: price}}, "xin", price), ErrInvalidDenom))
	assert.True(errors.Is(CheckFunds([]vm.Coin{{Denom: "xin", Amount: decimal.NewFromInt(9)}}, "xin", price), ErrInvalidFunds))
	assert.Nil(CheckFunds([]vm.Coin{{Denom: "xin", Amount: price}}, "xin", price))
}

func TestCheckAdminPrivileges(t *testing.T) {
	assert := assert.New(t)

	assert.Nil(CheckAdminPrivileges("a", "self", "a", "hub", nil))
	assert.Nil(CheckAdminPrivileges("self", "self", "a", "hub", nil))
	assert.Nil(CheckAdminPrivileges("hub", "self", "a", "hub", nil))
	assert.Nil(CheckAdminPrivileges("op", "self", "a", "hub", []string{"x", "op"}))
	assert.Equal(ErrUnauthorized, CheckAdminPrivileges("z", "self", "a", "", []string{"op"}))
	assert.Equal(ErrUnauthorized, CheckAdminPrivileges("", "self", "a", "", nil))
}
