package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MixinNetwork/nfthub/app"
	"github.com/MixinNetwork/nfthub/modules/mint"
	"github.com/MixinNetwork/nfthub/modules/token"
	"github.com/MixinNetwork/nfthub/store"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	Denom     = "c94ac88f-4671-3976-b60a-09064f1811e8"
	TestDenom = "965e5c6e-434c-3fa9-b780-c50f43cd955c"
	Balance   = 1000000
)

var Genesis = time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)

type Clock struct {
	sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.Lock()
	defer c.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.Lock()
	defer c.Unlock()
	c.now = c.now.Add(d)
}

// Suite is an in-memory runtime with all codes stored and, after Deploy,
// a hub with every module.
type Suite struct {
	T       *testing.T
	Ctx     context.Context
	Store   *store.BadgerStore
	Clock   *Clock
	Runtime *vm.Runtime
	Codes   *app.Codes
	Admin   string
	*app.Deployment
}

func NewSuite(t *testing.T) *Suite {
	bs, err := store.OpenMemory()
	require.Nil(t, err)
	t.Cleanup(func() { bs.Close() })

	clock := &Clock{now: Genesis}
	rt := vm.NewRuntime(bs, clock)
	s := &Suite{
		T:       t,
		Ctx:     context.Background(),
		Store:   bs,
		Clock:   clock,
		Runtime: rt,
		Codes:   app.Register(rt),
	}
	s.Admin = s.NewAccount()
	return s
}

// NewDeployment deploys a hub whose marketplace charges fee, a decimal
// rate string, empty for none.
func NewDeployment(t *testing.T, fee string) *Suite {
	s := NewSuite(t)
	d, err := app.Deploy(s.Ctx, s.Runtime, s.Codes, &vm.HubConfiguration{
		Admin:          s.Admin,
		Name:           "Test Hub",
		Description:    "Test Hub",
		Image:          "https://example.com/hub.png",
		NativeDenom:    Denom,
		MarketplaceFee: fee,
	})
	require.Nil(t, err)
	s.Deployment = d
	return s
}

func NewAddress() string {
	return uuid.Must(uuid.NewV4()).String()
}

// NewAccount returns an address funded with Balance of both test denoms.
func (s *Suite) NewAccount() string {
	addr := NewAddress()
	err := s.Runtime.Deposit(s.Ctx, addr, vm.NewCoin(Denom, Balance), vm.NewCoin(TestDenom, Balance))
	require.Nil(s.T, err)
	return addr
}

func (s *Suite) Execute(sender, contract string, msg interface{}, funds ...vm.Coin) error {
	_, err := s.Runtime.Execute(s.Ctx, sender, contract, msg, funds...)
	return err
}

func (s *Suite) Query(contract string, msg, out interface{}) error {
	return s.Runtime.Query(s.Ctx, contract, msg, out)
}

func (s *Suite) Balance(addr string) decimal.Decimal {
	bal, err := s.Runtime.Balance(addr, Denom)
	require.Nil(s.T, err)
	return bal
}

func DefaultCollection(codeId uint64) *mint.CreateCollection {
	return &mint.CreateCollection{
		CodeId: codeId,
		CollectionInfo: mint.CollectionInfo{
			CollectionType: "standard",
			Name:           "Test Collection",
			Description:    "Test Collection",
			Image:          "https://example.com/collection.png",
			NativeDenom:    Denom,
		},
		TokenInfo: token.TokenInfo{Symbol: "TEST"},
	}
}

// CreateCollection creates a collection as the admin and returns its id
// and the address of its asset actor.
func (s *Suite) CreateCollection(cc *mint.CreateCollection) (uint32, string) {
	err := s.Execute(s.Admin, s.Mint, &mint.ExecuteMsg{CreateCollection: cc})
	require.Nil(s.T, err)

	var collections []*mint.CollectionEntry
	err = s.Query(s.Mint, mint.QueryMsg{Collections: &mint.CollectionsQuery{Limit: mint.MaxLimit}}, &collections)
	require.Nil(s.T, err)
	require.NotEmpty(s.T, collections)
	last := collections[len(collections)-1]
	return last.CollectionId, last.Address
}

func (s *Suite) AdminMint(collectionId uint32, recipient string) uint32 {
	err := s.Execute(s.Admin, s.Mint, &mint.ExecuteMsg{AdminMint: &mint.AdminMint{
		CollectionId: collectionId,
		Recipient:    recipient,
	}})
	require.Nil(s.T, err)

	addr := s.CollectionAddress(collectionId)
	var id uint32
	var entries []*token.TokenEntry
	require.Nil(s.T, s.Query(addr, token.QueryMsg{Tokens: &token.TokensQuery{Owner: recipient, Limit: token.MaxLimit}}, &entries))
	for _, e := range entries {
		if e.TokenId > id {
			id = e.TokenId
		}
	}
	return id
}

func (s *Suite) CollectionAddress(collectionId uint32) string {
	var addr string
	err := s.Query(s.Mint, mint.QueryMsg{CollectionAddress: &mint.CollectionRef{CollectionId: collectionId}}, &addr)
	require.Nil(s.T, err)
	return addr
}
