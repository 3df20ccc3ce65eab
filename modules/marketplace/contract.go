package marketplace

import (
	"fmt"

	"github.com/MixinNetwork/nfthub/modules/fee"
	"github.com/MixinNetwork/nfthub/modules/hub"
	"github.com/MixinNetwork/nfthub/modules/mint"
	"github.com/MixinNetwork/nfthub/modules/token"
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	FeeModule   = "marketplace"
	HubAdminFee = "hub_admin"
)

// Contract keeps fixed price listings. A listed token has its transfer,
// send and burn locks held by the marketplace until it is delisted or
// bought, so the marketplace must be an operator of the collection.
type Contract struct{}

func New() vm.Actor {
	return &Contract{}
}

func (c *Contract) Instantiate(ctx *vm.Context, msg []byte) (*vm.Response, error) {
	var rm nft.RegisterMsg
	err := vm.DecodeMsg(msg, &rm)
	if err != nil {
		return nil, err
	}
	var data hub.MarketplaceData
	err = vm.DecodeMsg(rm.Data, &data)
	if err != nil {
		return nil, err
	}
	if err := vm.ValidateAddress(rm.Admin); err != nil {
		return nil, err
	}
	if data.NativeDenom == "" {
		return nil, errors.Wrap(nft.ErrInvalidArguments, "native denom")
	}
	err = ctx.Storage.Save([]byte(keyHub), ctx.Sender)
	if err != nil {
		return nil, err
	}
	rate, err := c.feeRate(ctx.Env, ctx.Sender)
	if err != nil {
		return nil, err
	}
	conf := &Config{Admin: rm.Admin, NativeDenom: data.NativeDenom, FeeRate: rate}
	err = ctx.Storage.Save([]byte(keyConfig), conf)
	return vm.NewResponse("instantiate").Add("admin", rm.Admin).Add("fee_rate", rate.String()), err
}

// feeRate is the total percentage fee of the marketplace in the fee
// module of the hub, zero when the hub has no fee module.
func (c *Contract) feeRate(env *vm.Env, hubAddr string) (decimal.Decimal, error) {
	feeAddr, err := hub.QueryModule(env, hubAddr, nft.ModuleFee)
	if errors.Is(err, hub.ErrModuleNotRegistered) {
		return decimal.Zero, nil
	} else if err != nil {
		return decimal.Zero, err
	}
	total, err := fee.QueryTotalPercentageFee(env, feeAddr, FeeModule)
	if err != nil {
		return decimal.Zero, err
	}
	return nft.NormalizeRate(total)
}

func (c *Contract) collection(env *vm.Env, st state, id uint32) (string, error) {
	hubAddr, err := st.hub()
	if err != nil {
		return "", err
	}
	mintAddr, err := hub.QueryModule(env, hubAddr, nft.ModuleMint)
	if err != nil {
		return "", err
	}
	return mint.QueryCollectionAddress(env, mintAddr, id)
}

func (c *Contract) Execute(ctx *vm.Context, msg []byte) (*vm.Response, error) {
	var em ExecuteMsg
	err := vm.DecodeMsg(msg, &em)
	if err != nil {
		return nil, err
	}
	st := state{ctx.Storage}
	conf, err := st.config()
	if err != nil {
		return nil, err
	}

	switch {
	case em.ListFixedToken != nil:
		return c.list(ctx, st, em.ListFixedToken)
	case em.DelistFixedToken != nil:
		return c.delist(ctx, st, em.DelistFixedToken)
	case em.UpdatePrice != nil:
		return c.updatePrice(ctx, st, em.UpdatePrice)
	case em.Buy != nil:
		return c.buy(ctx, st, conf, em.Buy)
	case em.UpdateFeeRate != nil:
		hubAddr, err := st.hub()
		if err != nil {
			return nil, err
		}
		err = nft.CheckAdminPrivileges(ctx.Sender, ctx.Self, conf.Admin, hubAddr, nil)
		if err != nil {
			return nil, err
		}
		conf.FeeRate, err = c.feeRate(ctx.Env, hubAddr)
		if err != nil {
			return nil, err
		}
		err = ctx.Storage.Save([]byte(keyConfig), conf)
		return vm.NewResponse("update_fee_rate").Add("fee_rate", conf.FeeRate.String()), err
	}
	return nil, vm.ErrInvalidMessage
}

func validatePrice(price decimal.Decimal) error {
	if vm.ValidateAmount(price) != nil || price.IsZero() {
		return errors.Wrap(ErrInvalidPrice, price.String())
	}
	return nil
}

func lockMsg(collection string, tokenId uint32, locks nft.Locks) vm.SubMsg {
	um := &token.ExecuteMsg{UpdateTokenLocks: &token.UpdateTokenLocks{TokenId: tokenId, Locks: locks}}
	return vm.NewExecuteMsg(collection, um)
}

func (c *Contract) list(ctx *vm.Context, st state, m *ListFixedToken) (*vm.Response, error) {
	if err := validatePrice(m.Price); err != nil {
		return nil, err
	}
	collection, err := c.collection(ctx.Env, st, m.CollectionId)
	if err != nil {
		return nil, err
	}
	owner, err := token.QueryOwnerOf(ctx.Env, collection, m.TokenId)
	if err != nil {
		return nil, err
	}
	if owner != ctx.Sender {
		return nil, nft.ErrUnauthorized
	}
	cl, tl, err := token.QueryLocks(ctx.Env, collection, m.TokenId)
	if err != nil {
		return nil, err
	}
	for _, a := range []nft.Action{nft.ActionTransfer, nft.ActionSend, nft.ActionBurn} {
		if nft.IsLocked(a, cl, tl) {
			return nil, token.LockError(a)
		}
	}

	listing := &FixedListing{
		CollectionId: m.CollectionId,
		TokenId:      m.TokenId,
		Price:        m.Price,
		Owner:        ctx.Sender,
	}
	err = ctx.Storage.Save(listingKey(m.CollectionId, m.TokenId), listing)
	if err != nil {
		return nil, err
	}
	res := vm.NewResponse("list_fixed_token").Add("collection_id", fmt.Sprint(m.CollectionId))
	res.Add("token_id", fmt.Sprint(m.TokenId)).Add("price", m.Price.String())
	return res.Send(lockMsg(collection, m.TokenId, nft.ListingLocks())), nil
}

func (c *Contract) delist(ctx *vm.Context, st state, m *TokenRef) (*vm.Response, error) {
	listing, err := st.listing(m.CollectionId, m.TokenId)
	if err != nil {
		return nil, err
	}
	if listing.Owner != ctx.Sender {
		return nil, nft.ErrUnauthorized
	}
	collection, err := c.collection(ctx.Env, st, m.CollectionId)
	if err != nil {
		return nil, err
	}
	err = ctx.Storage.Remove(listingKey(m.CollectionId, m.TokenId))
	if err != nil {
		return nil, err
	}
	res := vm.NewResponse("delist_fixed_token").Add("collection_id", fmt.Sprint(m.CollectionId))
	res.Add("token_id", fmt.Sprint(m.TokenId))
	return res.Send(lockMsg(collection, m.TokenId, nft.Locks{})), nil
}

func (c *Contract) updatePrice(ctx *vm.Context, st state, m *UpdatePrice) (*vm.Response, error) {
	listing, err := st.listing(m.CollectionId, m.TokenId)
	if err != nil {
		return nil, err
	}
	if listing.Owner != ctx.Sender {
		return nil, nft.ErrUnauthorized
	}
	if err := validatePrice(m.Price); err != nil {
		return nil, err
	}
	listing.Price = m.Price
	err = ctx.Storage.Save(listingKey(m.CollectionId, m.TokenId), listing)
	return vm.NewResponse("update_price").Add("price", m.Price.String()), err
}

// buy removes the listing and settles it in one batch: royalty to the
// creator, payout to the seller, the marketplace fee to the fee module,
// the token to the buyer and the listing locks released.
func (c *Contract) buy(ctx *vm.Context, st state, conf *Config, m *TokenRef) (*vm.Response, error) {
	listing, err := st.listing(m.CollectionId, m.TokenId)
	if err != nil {
		return nil, err
	}
	if listing.Owner == ctx.Sender {
		return nil, ErrSelfPurchase
	}
	err = nft.CheckFunds(ctx.Funds, conf.NativeDenom, listing.Price)
	if err != nil {
		return nil, err
	}
	collection, err := c.collection(ctx.Env, st, m.CollectionId)
	if err != nil {
		return nil, err
	}
	tc, err := token.QueryConfig(ctx.Env, collection)
	if err != nil {
		return nil, err
	}
	split, err := nft.SplitFunds(listing.Price, conf.FeeRate, tc.RoyaltyShare)
	if err != nil {
		return nil, err
	}

	err = ctx.Storage.Remove(listingKey(m.CollectionId, m.TokenId))
	if err != nil {
		return nil, err
	}

	res := vm.NewResponse("buy").Add("collection_id", fmt.Sprint(m.CollectionId))
	res.Add("token_id", fmt.Sprint(m.TokenId)).Add("price", listing.Price.String())
	if split.RoyaltyFee.IsPositive() {
		res.Send(vm.NewBankMsg(tc.Creator, vm.Coin{Denom: conf.NativeDenom, Amount: split.RoyaltyFee}))
	}
	if split.SellerPayout.IsPositive() {
		res.Send(vm.NewBankMsg(listing.Owner, vm.Coin{Denom: conf.NativeDenom, Amount: split.SellerPayout}))
	}
	if split.MarketplaceFee.IsPositive() {
		sub, err := c.distributeMsg(ctx.Env, st, vm.Coin{Denom: conf.NativeDenom, Amount: split.MarketplaceFee})
		if err != nil {
			return nil, err
		}
		res.Send(sub)
	}
	tm := &token.ExecuteMsg{AdminTransferNft: &token.TransferNft{Recipient: ctx.Sender, TokenId: m.TokenId}}
	res.Send(vm.NewExecuteMsg(collection, tm))
	res.Send(lockMsg(collection, m.TokenId, nft.Locks{}))
	res.Add("marketplace_fee", split.MarketplaceFee.String()).Add("royalty_fee", split.RoyaltyFee.String())
	return res, nil
}

func (c *Contract) distributeMsg(env *vm.Env, st state, coin vm.Coin) (vm.SubMsg, error) {
	hubAddr, err := st.hub()
	if err != nil {
		return vm.SubMsg{}, err
	}
	feeAddr, err := hub.QueryModule(env, hubAddr, nft.ModuleFee)
	if err != nil {
		return vm.SubMsg{}, err
	}
	var hc hub.ConfigResponse
	err = env.Query(hubAddr, hub.QueryMsg{Config: &struct{}{}}, &hc)
	if err != nil {
		return vm.SubMsg{}, err
	}
	dm := &fee.ExecuteMsg{Distribute: &fee.Distribute{
		FeeType:         fee.FeeTypePercentage,
		Module:          FeeModule,
		CustomAddresses: []fee.CustomAddress{{FeeName: HubAdminFee, Address: hc.Admin}},
	}}
	return vm.NewExecuteMsg(feeAddr, dm, coin), nil
}

func (c *Contract) Query(env *vm.Env, msg []byte) ([]byte, error) {
	var qm QueryMsg
	err := vm.DecodeMsg(msg, &qm)
	if err != nil {
		return nil, err
	}
	st := state{env.Storage}

	var val interface{}
	switch {
	case qm.Config != nil:
		val, err = st.config()
	case qm.FixedListing != nil:
		val, err = st.listing(qm.FixedListing.CollectionId, qm.FixedListing.TokenId)
	case qm.FixedListings != nil:
		q := qm.FixedListings
		limit := q.Limit
		if limit <= 0 {
			limit = DefaultLimit
		} else if limit > MaxLimit {
			limit = MaxLimit
		}
		val, err = st.listings(q.CollectionId, q.StartAfter, limit)
	default:
		return nil, vm.ErrInvalidMessage
	}
	if err != nil {
		return nil, err
	}
	return vm.Encode(val), nil
}
