package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/MixinNetwork/nfthub/modules/token"
	"github.com/MixinNetwork/nfthub/modules/whitelist"
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/testutil"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newData(s *testutil.Suite) *token.Data {
	return &token.Data{
		Creator: s.Admin,
		CollectionInfo: token.CollectionInfo{
			CollectionType: "standard",
			Name:           "Token Test",
			Description:    "Token Test",
			Image:          "https://example.com/token.png",
			NativeDenom:    testutil.Denom,
		},
		TokenInfo: token.TokenInfo{Symbol: "TT"},
	}
}

// instantiate creates a token actor owned directly by the suite admin,
// which then acts as its minter.
func instantiate(s *testutil.Suite, data *token.Data) (string, error) {
	res, err := s.Runtime.Instantiate(s.Ctx, s.Admin, s.Codes.Token, &nft.RegisterMsg{
		Admin: s.Admin,
		Data:  vm.Encode(data),
	}, "token")
	if err != nil {
		return "", err
	}
	return res.Address, nil
}

func mint(s *testutil.Suite, addr, owner string) error {
	return s.Execute(s.Admin, addr, &token.ExecuteMsg{Mint: &token.Mint{Owner: owner}})
}

func owner(t *testing.T, s *testutil.Suite, addr string, id uint32) string {
	var o string
	require.Nil(t, s.Query(addr, token.QueryMsg{OwnerOf: &token.TokenQuery{TokenId: id}}, &o))
	return o
}

func TestTokenInstantiate(t *testing.T) {
	assert := assert.New(t)
	s := testutil.NewSuite(t)

	data := newData(s)
	data.CollectionInfo.Image = "example.com/token.png"
	_, err := instantiate(s, data)
	assert.True(errors.Is(err, token.ErrInvalidUrl))

	data = newData(s)
	data.CollectionInfo.Description = string(make([]byte, token.DescriptionLimit+1))
	_, err = instantiate(s, data)
	assert.True(errors.Is(err, token.ErrDescriptionTooLong))

	data = newData(s)
	data.CollectionConfig.StartTime = testutil.Genesis
	_, err = instantiate(s, data)
	assert.True(errors.Is(err, token.ErrInvalidStartTime))

	data = newData(s)
	var zero uint32
	data.CollectionConfig.MaxTokenLimit = &zero
	_, err = instantiate(s, data)
	assert.True(errors.Is(err, token.ErrInvalidMaxTokenLimit))

	data = newData(s)
	data.CollectionConfig.PerAddressLimit = &zero
	_, err = instantiate(s, data)
	assert.True(errors.Is(err, token.ErrInvalidPerAddressLimit))

	data = newData(s)
	share := decimal.RequireFromString("1.5")
	data.RoyaltyShare = &share
	_, err = instantiate(s, data)
	assert.True(errors.Is(err, nft.ErrInvalidRate))
}

func TestTokenMintLimits(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewSuite(t)
	alice, bob := testutil.NewAddress(), testutil.NewAddress()

	data := newData(s)
	max, per := uint32(3), uint32(2)
	start := testutil.Genesis.Add(time.Hour)
	data.CollectionConfig.MaxTokenLimit = &max
	data.CollectionConfig.PerAddressLimit = &per
	data.CollectionConfig.StartTime = start
	addr, err := instantiate(s, data)
	require.Nil(err)

	err = s.Execute(alice, addr, &token.ExecuteMsg{Mint: &token.Mint{Owner: alice}})
	assert.True(errors.Is(err, nft.ErrUnauthorized))
	assert.True(errors.Is(mint(s, addr, alice), token.ErrMintingNotStarted))

	s.Clock.Advance(time.Hour)
	require.Nil(mint(s, addr, alice))
	require.Nil(mint(s, addr, alice))
	assert.True(errors.Is(mint(s, addr, alice), token.ErrTokenLimitReached))
	require.Nil(mint(s, addr, bob))
	assert.True(errors.Is(mint(s, addr, bob), token.ErrTokenLimitReached))

	var minted, num uint32
	require.Nil(s.Query(addr, token.QueryMsg{MintedTokensPerAddress: &token.AddressQuery{Address: alice}}, &minted))
	assert.Equal(uint32(2), minted)
	require.Nil(s.Query(addr, token.QueryMsg{NumTokens: &struct{}{}}, &num))
	assert.Equal(uint32(3), num)
	assert.Equal(bob, owner(t, s, addr, 3))

	start = testutil.Genesis.Add(2 * time.Hour)
	err = s.Execute(s.Admin, addr, &token.ExecuteMsg{UpdateStartTime: &token.UpdateStartTime{StartTime: start}})
	assert.True(errors.Is(err, token.ErrAlreadyStarted))

	var entries []*token.TokenEntry
	require.Nil(s.Query(addr, token.QueryMsg{Tokens: &token.TokensQuery{Owner: alice}}, &entries))
	require.Len(entries, 2)
	assert.Equal(uint32(1), entries[0].TokenId)
	assert.Equal(uint32(2), entries[1].TokenId)
	require.Nil(s.Query(addr, token.QueryMsg{Tokens: &token.TokensQuery{StartAfter: 1, Limit: 1}}, &entries))
	require.Len(entries, 1)
	assert.Equal(uint32(2), entries[0].TokenId)
}

func TestTokenLocks(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewSuite(t)
	alice, bob := testutil.NewAddress(), testutil.NewAddress()

	addr, err := instantiate(s, newData(s))
	require.Nil(err)
	require.Nil(mint(s, addr, alice))
	require.Nil(mint(s, addr, alice))

	transfer := func(id uint32) error {
		return s.Execute(alice, addr, &token.ExecuteMsg{TransferNft: &token.TransferNft{Recipient: bob, TokenId: id}})
	}

	locks := &token.ExecuteMsg{UpdateTokenLocks: &token.UpdateTokenLocks{TokenId: 1, Locks: nft.ListingLocks()}}
	assert.True(errors.Is(s.Execute(alice, addr, locks), nft.ErrUnauthorized))
	require.Nil(s.Execute(s.Admin, addr, locks))
	assert.True(errors.Is(transfer(1), token.ErrTransferLocked))
	burn := &token.ExecuteMsg{Burn: &token.Burn{TokenId: 1}}
	assert.True(errors.Is(s.Execute(alice, addr, burn), token.ErrBurnLocked))

	admin := &token.ExecuteMsg{AdminTransferNft: &token.TransferNft{Recipient: bob, TokenId: 1}}
	require.Nil(s.Execute(s.Admin, addr, admin))
	assert.Equal(bob, owner(t, s, addr, 1))

	require.Nil(s.Execute(s.Admin, addr, &token.ExecuteMsg{UpdateLocks: &token.UpdateLocks{Locks: nft.Locks{TransferLock: true}}}))
	assert.True(errors.Is(transfer(2), token.ErrTransferLocked))
	admin.AdminTransferNft.TokenId = 2
	assert.True(errors.Is(s.Execute(s.Admin, addr, admin), token.ErrTransferLocked))
	require.Nil(s.Execute(s.Admin, addr, &token.ExecuteMsg{UpdateLocks: &token.UpdateLocks{}}))
	assert.True(errors.Is(transfer(1), token.ErrTransferLocked))
	require.Nil(transfer(2))
	assert.Equal(bob, owner(t, s, addr, 2))

	require.Nil(s.Execute(s.Admin, addr, &token.ExecuteMsg{UpdateOperationLock: &token.UpdateOperationLock{Lock: true}}))
	assert.True(errors.Is(mint(s, addr, alice), token.ErrMintLocked))
	err = s.Execute(bob, addr, &token.ExecuteMsg{TransferNft: &token.TransferNft{Recipient: alice, TokenId: 2}})
	assert.True(errors.Is(err, token.ErrOperationLocked))
	require.Nil(s.Execute(s.Admin, addr, &token.ExecuteMsg{UpdateOperationLock: &token.UpdateOperationLock{}}))

	require.Nil(s.Execute(s.Admin, addr, &token.ExecuteMsg{UpdateTokenLocks: &token.UpdateTokenLocks{TokenId: 2, Locks: nft.Locks{SendLock: true}}}))
	require.Nil(s.Execute(bob, addr, &token.ExecuteMsg{Burn: &token.Burn{TokenId: 2}}))
	var tl nft.Locks
	require.Nil(s.Query(addr, token.QueryMsg{TokenLocks: &token.TokenQuery{TokenId: 2}}, &tl))
	assert.Equal(nft.Locks{}, tl)
	err = s.Query(addr, token.QueryMsg{OwnerOf: &token.TokenQuery{TokenId: 2}}, new(string))
	assert.True(errors.Is(err, token.ErrTokenNotFound))

	var num uint32
	require.Nil(s.Query(addr, token.QueryMsg{NumTokens: &struct{}{}}, &num))
	assert.Equal(uint32(1), num)
	require.Nil(mint(s, addr, alice))
	assert.Equal(alice, owner(t, s, addr, 3))
}

func TestTokenOperators(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewSuite(t)
	operator, alice := testutil.NewAddress(), testutil.NewAddress()

	addr, err := instantiate(s, newData(s))
	require.Nil(err)

	ops := &token.ExecuteMsg{UpdateOperators: &token.UpdateOperators{Addrs: []string{operator}}}
	require.Nil(s.Execute(s.Admin, addr, ops))
	err = s.Execute(operator, addr, &token.ExecuteMsg{Mint: &token.Mint{Owner: alice}})
	require.Nil(err)
	assert.True(errors.Is(s.Execute(operator, addr, ops), nft.ErrUnauthorized))

	var list []string
	require.Nil(s.Query(addr, token.QueryMsg{Operators: &struct{}{}}, &list))
	assert.Equal([]string{operator}, list)

	share := decimal.RequireFromString("0.1")
	require.Nil(s.Execute(operator, addr, &token.ExecuteMsg{UpdateRoyaltyShare: &token.UpdateRoyaltyShare{RoyaltyShare: &share}}))
	var conf token.Config
	require.Nil(s.Query(addr, token.QueryMsg{Config: &struct{}{}}, &conf))
	require.NotNil(conf.RoyaltyShare)
	assert.Equal("0.1", conf.RoyaltyShare.String())
}

func TestTokenSendRollback(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewSuite(t)
	alice := testutil.NewAddress()

	addr, err := instantiate(s, newData(s))
	require.Nil(err)
	other, err := instantiate(s, newData(s))
	require.Nil(err)
	require.Nil(mint(s, addr, alice))

	send := &token.ExecuteMsg{SendNft: &token.SendNft{Contract: other, TokenId: 1, Msg: []byte("hello")}}
	err = s.Execute(alice, addr, send)
	assert.NotNil(err)
	assert.Equal(alice, owner(t, s, addr, 1))

	send.SendNft.Contract = testutil.NewAddress()
	err = s.Execute(alice, addr, send)
	assert.True(errors.Is(err, vm.ErrContractNotFound))
	assert.Equal(alice, owner(t, s, addr, 1))
}

func TestTokenWhitelistContract(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewSuite(t)
	member := testutil.NewAddress()

	addr, err := instantiate(s, newData(s))
	require.Nil(err)

	init := &token.ExecuteMsg{InitWhitelistContract: &token.InitWhitelistContract{
		CodeId: s.Codes.Whitelist,
		Data: whitelist.Data{
			Members:   []string{member},
			StartTime: testutil.Genesis,
			EndTime:   testutil.Genesis,
		},
	}}
	err = s.Execute(s.Admin, addr, init)
	assert.True(errors.Is(err, vm.ErrChildInstantiationFailed))
	assert.True(errors.Is(err, whitelist.ErrInvalidTime))

	var contracts token.Contracts
	require.Nil(s.Query(addr, token.QueryMsg{Contracts: &struct{}{}}, &contracts))
	assert.Equal("", contracts.Whitelist)

	init.InitWhitelistContract.Data.EndTime = testutil.Genesis.Add(time.Hour)
	require.Nil(s.Execute(s.Admin, addr, init))
	require.Nil(s.Query(addr, token.QueryMsg{Contracts: &struct{}{}}, &contracts))
	require.NotEqual("", contracts.Whitelist)

	var found bool
	require.Nil(s.Query(contracts.Whitelist, whitelist.QueryMsg{HasMember: &whitelist.HasMember{Address: member}}, &found))
	assert.True(found)
	info, err := s.Runtime.Contract(contracts.Whitelist)
	require.Nil(err)
	assert.Equal(addr, info.Creator)

	assert.True(errors.Is(s.Execute(s.Admin, addr, init), token.ErrWhitelistAlreadyExists))
}
