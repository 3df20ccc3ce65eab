package mint_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/MixinNetwork/nfthub/modules/fee"
	"github.com/MixinNetwork/nfthub/modules/mint"
	"github.com/MixinNetwork/nfthub/modules/token"
	"github.com/MixinNetwork/nfthub/modules/whitelist"
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/testutil"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setPrice(s *testutil.Suite, name string, amount int64) {
	sf := &fee.ExecuteMsg{SetFee: &fee.SetFee{
		FeeType: fee.FeeTypeFixed,
		Module:  mint.FeeModule,
		FeeName: name,
		Value:   decimal.NewFromInt(amount),
		Address: s.Admin,
	}}
	require.Nil(s.T, s.Execute(s.Admin, s.Fee, sf))
}

func mintMsg(id uint32) *mint.ExecuteMsg {
	return &mint.ExecuteMsg{Mint: &mint.Mint{CollectionId: id}}
}

func numTokens(s *testutil.Suite, addr string) uint32 {
	var num uint32
	require.Nil(s.T, s.Query(addr, token.QueryMsg{NumTokens: &struct{}{}}, &num))
	return num
}

func TestCreateCollection(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewDeployment(t, "")
	user := s.NewAccount()

	cc := testutil.DefaultCollection(s.Codes.Token)
	err := s.Execute(user, s.Mint, &mint.ExecuteMsg{CreateCollection: cc})
	assert.True(errors.Is(err, nft.ErrUnauthorized))

	cc.CollectionInfo.Image = "collection.png"
	err = s.Execute(s.Admin, s.Mint, &mint.ExecuteMsg{CreateCollection: cc})
	assert.True(errors.Is(err, vm.ErrChildInstantiationFailed))
	assert.True(errors.Is(err, token.ErrInvalidUrl))

	id, addr := s.CreateCollection(testutil.DefaultCollection(s.Codes.Token))
	assert.Equal(uint32(1), id)
	info, err := s.Runtime.Contract(addr)
	require.Nil(err)
	assert.Equal(s.Mint, info.Creator)
	assert.Equal(s.Codes.Token, info.CodeId)

	var ci mint.CollectionInfo
	require.Nil(s.Query(s.Mint, mint.QueryMsg{CollectionInfo: &mint.CollectionRef{CollectionId: id}}, &ci))
	assert.Equal("Test Collection", ci.Name)
	var conf token.Config
	require.Nil(s.Query(addr, token.QueryMsg{Config: &struct{}{}}, &conf))
	assert.Equal(s.Admin, conf.Admin)
	assert.Equal(s.Admin, conf.Creator)

	update := &mint.ExecuteMsg{UpdatePublicCollectionCreation: &mint.UpdatePublicCollectionCreation{PublicCollectionCreation: true}}
	assert.True(errors.Is(s.Execute(user, s.Mint, update), nft.ErrUnauthorized))
	require.Nil(s.Execute(s.Admin, s.Mint, update))
	require.Nil(s.Execute(user, s.Mint, &mint.ExecuteMsg{CreateCollection: testutil.DefaultCollection(s.Codes.Token)}))
	addr = s.CollectionAddress(2)
	require.Nil(s.Query(addr, token.QueryMsg{Config: &struct{}{}}, &conf))
	assert.Equal(s.Admin, conf.Admin)
	assert.Equal(user, conf.Creator)
}

func TestLinkedCollections(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewDeployment(t, "")

	first, _ := s.CreateCollection(testutil.DefaultCollection(s.Codes.Token))

	cc := testutil.DefaultCollection(s.Codes.Token)
	cc.LinkedCollections = []uint32{first, first + 1}
	err := s.Execute(s.Admin, s.Mint, &mint.ExecuteMsg{CreateCollection: cc})
	assert.True(errors.Is(err, mint.ErrSelfLinkedCollection))
	cc.LinkedCollections = []uint32{first + 5}
	err = s.Execute(s.Admin, s.Mint, &mint.ExecuteMsg{CreateCollection: cc})
	assert.True(errors.Is(err, mint.ErrCollectionIdNotFound))

	cc.LinkedCollections = []uint32{first}
	second, _ := s.CreateCollection(cc)
	assert.Equal(first+1, second)

	var linked []uint32
	require.Nil(s.Query(s.Mint, mint.QueryMsg{LinkedCollections: &mint.CollectionRef{CollectionId: second}}, &linked))
	assert.Equal([]uint32{first}, linked)

	ul := &mint.ExecuteMsg{UpdateLinkedCollections: &mint.UpdateLinkedCollections{CollectionId: first, LinkedCollections: []uint32{first}}}
	assert.True(errors.Is(s.Execute(s.Admin, s.Mint, ul), mint.ErrSelfLinkedCollection))
	ul.UpdateLinkedCollections.LinkedCollections = []uint32{second}
	require.Nil(s.Execute(s.Admin, s.Mint, ul))
	require.Nil(s.Query(s.Mint, mint.QueryMsg{LinkedCollections: &mint.CollectionRef{CollectionId: first}}, &linked))
	assert.Equal([]uint32{second}, linked)
	ul.UpdateLinkedCollections.LinkedCollections = nil
	require.Nil(s.Execute(s.Admin, s.Mint, ul))
	require.Nil(s.Query(s.Mint, mint.QueryMsg{LinkedCollections: &mint.CollectionRef{CollectionId: first}}, &linked))
	assert.Len(linked, 0)
}

func TestMintPrice(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewDeployment(t, "")
	user := s.NewAccount()

	id, addr := s.CreateCollection(testutil.DefaultCollection(s.Codes.Token))
	require.Nil(s.Execute(user, s.Mint, mintMsg(id)))
	assert.True(errors.Is(s.Execute(user, s.Mint, mintMsg(id), vm.NewCoin(testutil.Denom, 10)), nft.ErrInvalidFunds))

	setPrice(s, mint.PriceFeeName(id), 100)
	assert.True(errors.Is(s.Execute(user, s.Mint, mintMsg(id)), nft.ErrMissingFunds))
	err := s.Execute(user, s.Mint, mintMsg(id), vm.NewCoin(testutil.TestDenom, 100))
	assert.True(errors.Is(err, nft.ErrInvalidDenom))
	err = s.Execute(user, s.Mint, mintMsg(id), vm.NewCoin(testutil.Denom, 99))
	assert.True(errors.Is(err, nft.ErrInvalidFunds))
	assert.Equal(uint32(1), numTokens(s, addr))

	admin := s.Balance(s.Admin)
	require.Nil(s.Execute(user, s.Mint, mintMsg(id), vm.NewCoin(testutil.Denom, 100)))
	assert.Equal(admin.Add(decimal.NewFromInt(100)).String(), s.Balance(s.Admin).String())
	assert.Equal(decimal.NewFromInt(testutil.Balance-100).String(), s.Balance(user).String())
	assert.True(s.Balance(s.Mint).IsZero())
	assert.Equal(uint32(2), numTokens(s, addr))

	var owner string
	require.Nil(s.Query(addr, token.QueryMsg{OwnerOf: &token.TokenQuery{TokenId: 2}}, &owner))
	assert.Equal(user, owner)
}

func TestMintWhitelist(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewDeployment(t, "")
	member, other := s.NewAccount(), s.NewAccount()

	id, addr := s.CreateCollection(testutil.DefaultCollection(s.Codes.Token))
	setPrice(s, mint.PriceFeeName(id), 100)
	setPrice(s, mint.WhitelistFeeName(id), 40)

	init := &token.ExecuteMsg{InitWhitelistContract: &token.InitWhitelistContract{
		CodeId: s.Codes.Whitelist,
		Data: whitelist.Data{
			Members:   []string{member},
			StartTime: testutil.Genesis,
			EndTime:   testutil.Genesis.Add(time.Hour),
		},
	}}
	require.Nil(s.Execute(s.Admin, addr, init))

	err := s.Execute(other, s.Mint, mintMsg(id), vm.NewCoin(testutil.Denom, 100))
	assert.True(errors.Is(err, mint.ErrAddressNotWhitelisted))
	err = s.Execute(member, s.Mint, mintMsg(id), vm.NewCoin(testutil.Denom, 100))
	assert.True(errors.Is(err, nft.ErrInvalidFunds))
	require.Nil(s.Execute(member, s.Mint, mintMsg(id), vm.NewCoin(testutil.Denom, 40)))

	s.Clock.Advance(time.Hour)
	require.Nil(s.Execute(other, s.Mint, mintMsg(id), vm.NewCoin(testutil.Denom, 100)))
	assert.Equal(uint32(2), numTokens(s, addr))
}

func TestMintLocks(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewDeployment(t, "")
	user := s.NewAccount()

	id, addr := s.CreateCollection(testutil.DefaultCollection(s.Codes.Token))
	setPrice(s, mint.PriceFeeName(id), 100)

	require.Nil(s.Execute(s.Admin, addr, &token.ExecuteMsg{UpdateLocks: &token.UpdateLocks{Locks: nft.Locks{MintLock: true}}}))
	err := s.Execute(user, s.Mint, mintMsg(id), vm.NewCoin(testutil.Denom, 100))
	assert.True(errors.Is(err, token.ErrMintLocked))
	assert.Equal(decimal.NewFromInt(testutil.Balance).String(), s.Balance(user).String())
	assert.Equal(uint32(0), numTokens(s, addr))
	require.Nil(s.Execute(s.Admin, addr, &token.ExecuteMsg{UpdateLocks: &token.UpdateLocks{}}))

	lock := &mint.ExecuteMsg{UpdateMintLock: &mint.UpdateMintLock{Lock: true}}
	assert.True(errors.Is(s.Execute(user, s.Mint, lock), nft.ErrUnauthorized))
	require.Nil(s.Execute(s.Admin, s.Mint, lock))
	err = s.Execute(user, s.Mint, mintMsg(id), vm.NewCoin(testutil.Denom, 100))
	assert.True(errors.Is(err, mint.ErrLockedMint))
	lock.UpdateMintLock.Lock = false
	require.Nil(s.Execute(s.Admin, s.Mint, lock))
	require.Nil(s.Execute(user, s.Mint, mintMsg(id), vm.NewCoin(testutil.Denom, 100)))

	err = s.Execute(user, s.Mint, mintMsg(id+1))
	assert.True(errors.Is(err, mint.ErrCollectionIdNotFound))
}

func TestBlacklistCollection(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewDeployment(t, "")
	user := s.NewAccount()

	id, addr := s.CreateCollection(testutil.DefaultCollection(s.Codes.Token))
	deny := &mint.ExecuteMsg{BlacklistCollection: &mint.CollectionRef{CollectionId: id}}
	allow := &mint.ExecuteMsg{WhitelistCollection: &mint.CollectionRef{CollectionId: id}}

	assert.True(errors.Is(s.Execute(s.Admin, s.Mint, allow), mint.ErrAlreadyWhitelisted))
	assert.True(errors.Is(s.Execute(user, s.Mint, deny), nft.ErrUnauthorized))
	require.Nil(s.Execute(s.Admin, s.Mint, deny))
	assert.True(errors.Is(s.Execute(s.Admin, s.Mint, deny), mint.ErrAlreadyBlacklisted))
	assert.True(errors.Is(s.Execute(user, s.Mint, mintMsg(id)), mint.ErrCollectionIdNotFound))

	var entries []*mint.CollectionEntry
	require.Nil(s.Query(s.Mint, mint.QueryMsg{Collections: &mint.CollectionsQuery{Blacklist: true}}, &entries))
	require.Len(entries, 1)
	assert.Equal(addr, entries[0].Address)
	require.Nil(s.Query(s.Mint, mint.QueryMsg{Collections: &mint.CollectionsQuery{}}, &entries))
	assert.Len(entries, 0)

	require.Nil(s.Execute(s.Admin, s.Mint, allow))
	require.Nil(s.Execute(user, s.Mint, mintMsg(id)))
	assert.Equal(addr, s.CollectionAddress(id))

	missing := &mint.ExecuteMsg{BlacklistCollection: &mint.CollectionRef{CollectionId: id + 1}}
	assert.True(errors.Is(s.Execute(s.Admin, s.Mint, missing), mint.ErrCollectionIdNotFound))
}

func TestMintStartTime(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewDeployment(t, "")
	user := s.NewAccount()

	cc := testutil.DefaultCollection(s.Codes.Token)
	cc.CollectionConfig.StartTime = testutil.Genesis.Add(time.Hour)
	id, addr := s.CreateCollection(cc)

	var conf token.CollectionConfig
	require.Nil(s.Query(addr, token.QueryMsg{CollectionConfig: &struct{}{}}, &conf))
	assert.True(conf.StartTime.Equal(testutil.Genesis.Add(time.Hour)))

	err := s.Execute(user, s.Mint, mintMsg(id))
	assert.True(errors.Is(err, token.ErrMintingNotStarted))
	assert.Equal(uint32(0), numTokens(s, addr))

	s.Clock.Advance(time.Hour)
	require.Nil(s.Execute(user, s.Mint, mintMsg(id)))
	assert.Equal(uint32(1), numTokens(s, addr))
}

func TestCollectionListsDisjoint(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	s := testutil.NewDeployment(t, "")
	user := s.NewAccount()

	const count = 6
	for i := 0; i < count; i++ {
		s.CreateCollection(testutil.DefaultCollection(s.Codes.Token))
	}

	listed := func(blacklist bool) map[uint32]string {
		var entries []*mint.CollectionEntry
		q := mint.QueryMsg{Collections: &mint.CollectionsQuery{Blacklist: blacklist}}
		require.Nil(s.Query(s.Mint, q, &entries))
		m := make(map[uint32]string)
		for _, e := range entries {
			m[e.CollectionId] = e.Address
		}
		return m
	}

	blocked := make(map[uint32]bool)
	r := rand.New(rand.NewSource(7))
	for step := 0; step < 80; step++ {
		id := uint32(r.Intn(count+1) + 1)
		ref := &mint.CollectionRef{CollectionId: id}
		switch r.Intn(3) {
		case 0:
			err := s.Execute(s.Admin, s.Mint, &mint.ExecuteMsg{BlacklistCollection: ref})
			switch {
			case id > count:
				assert.True(errors.Is(err, mint.ErrCollectionIdNotFound))
			case blocked[id]:
				assert.True(errors.Is(err, mint.ErrAlreadyBlacklisted))
			default:
				require.Nil(err)
				blocked[id] = true
			}
		case 1:
			err := s.Execute(s.Admin, s.Mint, &mint.ExecuteMsg{WhitelistCollection: ref})
			switch {
			case id > count:
				assert.True(errors.Is(err, mint.ErrCollectionIdNotFound))
			case !blocked[id]:
				assert.True(errors.Is(err, mint.ErrAlreadyWhitelisted))
			default:
				require.Nil(err)
				delete(blocked, id)
			}
		case 2:
			err := s.Execute(user, s.Mint, mintMsg(id))
			if id > count || blocked[id] {
				assert.True(errors.Is(err, mint.ErrCollectionIdNotFound))
			} else {
				require.Nil(err)
			}
		}

		active, black := listed(false), listed(true)
		for cid := range active {
			_, both := black[cid]
			assert.False(both, "collection %d listed twice at step %d", cid, step)
		}
		assert.Equal(count, len(active)+len(black))
		assert.Equal(len(blocked), len(black))
		for cid := range blocked {
			assert.Contains(black, cid)
		}
	}
}
