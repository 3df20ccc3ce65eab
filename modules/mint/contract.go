package mint

import (
	"fmt"

	"github.com/MixinNetwork/nfthub/modules/fee"
	"github.com/MixinNetwork/nfthub/modules/hub"
	"github.com/MixinNetwork/nfthub/modules/permission"
	"github.com/MixinNetwork/nfthub/modules/token"
	"github.com/MixinNetwork/nfthub/modules/whitelist"
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	DefaultLimit = 30
	MaxLimit     = 100

	FeeModule = "mint"
)

func PriceFeeName(id uint32) string {
	return fmt.Sprintf("price/%d", id)
}

func WhitelistFeeName(id uint32) string {
	return fmt.Sprintf("whitelist/%d", id)
}

// Contract is the collection factory. Every collection is an asset actor
// instantiated by this contract, the address is bound in the reply.
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
	if err := vm.ValidateAddress(rm.Admin); err != nil {
		return nil, err
	}
	var data Data
	if len(rm.Data) > 0 {
		err = vm.DecodeMsg(rm.Data, &data)
		if err != nil {
			return nil, err
		}
	}
	conf := &Config{
		Admin:                    rm.Admin,
		PublicCollectionCreation: data.PublicCollectionCreation,
		MintLock:                 data.MintLock,
	}
	err = ctx.Storage.Save([]byte(keyConfig), conf)
	if err != nil {
		return nil, err
	}
	err = ctx.Storage.Save([]byte(keyHub), ctx.Sender)
	if err != nil {
		return nil, err
	}
	err = ctx.Storage.Save([]byte(keyCollectionId), uint32(0))
	return vm.NewResponse("instantiate").Add("admin", rm.Admin), err
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
	case em.CreateCollection != nil:
		return c.createCollection(ctx, st, conf, em.CreateCollection)
	case em.Mint != nil:
		return c.mint(ctx, st, conf, em.Mint)
	}

	err = st.checkAdmin(ctx, conf, em.UpdateOperators == nil)
	if err != nil {
		return nil, err
	}
	switch {
	case em.UpdatePublicCollectionCreation != nil:
		conf.PublicCollectionCreation = em.UpdatePublicCollectionCreation.PublicCollectionCreation
		err = ctx.Storage.Save([]byte(keyConfig), conf)
		return vm.NewResponse("update_public_collection_creation"), err
	case em.UpdateMintLock != nil:
		conf.MintLock = em.UpdateMintLock.Lock
		err = ctx.Storage.Save([]byte(keyConfig), conf)
		return vm.NewResponse("update_mint_lock").Add("lock", fmt.Sprint(conf.MintLock)), err
	case em.UpdateOperators != nil:
		ops, err := nft.NormalizeOperators(em.UpdateOperators.Addrs)
		if err != nil {
			return nil, err
		}
		err = ctx.Storage.Save([]byte(keyOperators), ops)
		return vm.NewResponse("update_operators"), err
	case em.UpdateLinkedCollections != nil:
		return c.updateLinkedCollections(ctx, st, em.UpdateLinkedCollections)
	case em.AdminMint != nil:
		return c.adminMint(ctx, st, em.AdminMint)
	case em.PermissionMint != nil:
		return c.permissionMint(ctx, st, em.PermissionMint)
	case em.WhitelistCollection != nil:
		return c.moveCollection(ctx, st, em.WhitelistCollection.CollectionId, prefixBlacklist, prefixActive)
	case em.BlacklistCollection != nil:
		return c.moveCollection(ctx, st, em.BlacklistCollection.CollectionId, prefixActive, prefixBlacklist)
	}
	return nil, vm.ErrInvalidMessage
}

func (c *Contract) createCollection(ctx *vm.Context, st state, conf *Config, m *CreateCollection) (*vm.Response, error) {
	if !conf.PublicCollectionCreation {
		err := st.checkAdmin(ctx, conf, true)
		if err != nil {
			return nil, err
		}
	}

	var last uint32
	_, err := ctx.Storage.Load([]byte(keyCollectionId), &last)
	if err != nil {
		return nil, err
	}
	id := last + 1
	if id == 0 {
		return nil, ErrCollectionIdOverflow
	}
	err = st.validateLinks(id, m.LinkedCollections)
	if err != nil {
		return nil, err
	}

	err = ctx.Storage.Save([]byte(keyCollectionId), id)
	if err != nil {
		return nil, err
	}
	err = ctx.Storage.Save(collectionKey(prefixInfo, id), &m.CollectionInfo)
	if err != nil {
		return nil, err
	}
	if len(m.LinkedCollections) > 0 {
		err = ctx.Storage.Save(collectionKey(prefixLinked, id), m.LinkedCollections)
		if err != nil {
			return nil, err
		}
	}
	err = ctx.Storage.Save(vm.Key(prefixPending, vm.Uint64Key(uint64(id))), id)
	if err != nil {
		return nil, err
	}

	data := &token.Data{
		Creator:          ctx.Sender,
		CollectionInfo:   m.CollectionInfo,
		CollectionConfig: m.CollectionConfig,
		TokenInfo:        m.TokenInfo,
		UnitPrice:        m.UnitPrice,
		RoyaltyShare:     m.RoyaltyShare,
	}
	rm := &nft.RegisterMsg{Admin: conf.Admin, Data: vm.Encode(data)}
	sub := vm.NewInstantiateMsg(m.CodeId, rm, m.CollectionInfo.Name).WithReply(uint64(id))
	res := vm.NewResponse("create_collection").Add("collection_id", fmt.Sprint(id))
	return res.Add("creator", ctx.Sender).Send(sub), nil
}

func (c *Contract) Reply(env *vm.Env, reply *vm.Reply) (*vm.Response, error) {
	key := vm.Key(prefixPending, vm.Uint64Key(reply.Id))
	var id uint32
	found, err := env.Storage.Load(key, &id)
	if err != nil {
		return nil, err
	} else if !found {
		return nil, nft.ErrInvalidReplyCorrelationId
	}
	err = env.Storage.Remove(key)
	if err != nil {
		return nil, err
	}
	err = env.Storage.Save(collectionKey(prefixActive, id), reply.ContractAddress)
	if err != nil {
		return nil, err
	}
	res := vm.NewResponse("bind_collection").Add("collection_id", fmt.Sprint(id))
	return res.Add("address", reply.ContractAddress), nil
}

func (c *Contract) updateLinkedCollections(ctx *vm.Context, st state, m *UpdateLinkedCollections) (*vm.Response, error) {
	_, err := st.activeAddress(m.CollectionId)
	if err != nil {
		return nil, err
	}
	err = st.validateLinks(m.CollectionId, m.LinkedCollections)
	if err != nil {
		return nil, err
	}
	key := collectionKey(prefixLinked, m.CollectionId)
	if len(m.LinkedCollections) == 0 {
		err = ctx.Storage.Remove(key)
	} else {
		err = ctx.Storage.Save(key, m.LinkedCollections)
	}
	return vm.NewResponse("update_linked_collections").Add("collection_id", fmt.Sprint(m.CollectionId)), err
}

// price resolves the mint price of a collection for sender. With a fee
// module, members of an active whitelist pay the whitelist fee and anyone
// else the standard fee, both zero when unset. Without it the unit price
// of the collection applies.
func (c *Contract) price(ctx *vm.Context, st state, id uint32, collection string) (decimal.Decimal, error) {
	hubAddr, err := st.hub()
	if err != nil {
		return decimal.Zero, err
	}
	feeAddr, err := hub.QueryModule(ctx.Env, hubAddr, nft.ModuleFee)
	if errors.Is(err, hub.ErrModuleNotRegistered) {
		conf, err := token.QueryConfig(ctx.Env, collection)
		if err != nil || conf.UnitPrice == nil {
			return decimal.Zero, err
		}
		return *conf.UnitPrice, nil
	} else if err != nil {
		return decimal.Zero, err
	}

	contracts, err := token.QueryContracts(ctx.Env, collection)
	if err != nil {
		return decimal.Zero, err
	}
	if contracts.Whitelist != "" {
		active, err := whitelist.QueryIsActive(ctx.Env, contracts.Whitelist)
		if err != nil {
			return decimal.Zero, err
		}
		if active {
			member, err := whitelist.QueryHasMember(ctx.Env, contracts.Whitelist, ctx.Sender)
			if err != nil {
				return decimal.Zero, err
			}
			if !member {
				return decimal.Zero, ErrAddressNotWhitelisted
			}
			return fee.QueryFixedFee(ctx.Env, feeAddr, FeeModule, WhitelistFeeName(id))
		}
	}
	return fee.QueryFixedFee(ctx.Env, feeAddr, FeeModule, PriceFeeName(id))
}

func (c *Contract) mint(ctx *vm.Context, st state, conf *Config, m *Mint) (*vm.Response, error) {
	if conf.MintLock {
		return nil, ErrLockedMint
	}
	collection, err := st.activeAddress(m.CollectionId)
	if err != nil {
		return nil, err
	}
	price, err := c.price(ctx, st, m.CollectionId, collection)
	if err != nil {
		return nil, err
	}

	res := vm.NewResponse("mint").Add("collection_id", fmt.Sprint(m.CollectionId)).Add("minter", ctx.Sender)
	if price.IsZero() {
		if len(ctx.Funds) > 0 {
			return nil, errors.Wrap(nft.ErrInvalidFunds, "no payment expected")
		}
	} else {
		var info CollectionInfo
		_, err = ctx.Storage.Load(collectionKey(prefixInfo, m.CollectionId), &info)
		if err != nil {
			return nil, err
		}
		err = nft.CheckFunds(ctx.Funds, info.NativeDenom, price)
		if err != nil {
			return nil, err
		}
		res.Send(vm.NewBankMsg(conf.Admin, vm.Coin{Denom: info.NativeDenom, Amount: price}))
		res.Add("price", price.String())
	}
	tm := &token.ExecuteMsg{Mint: &token.Mint{Owner: ctx.Sender, MetadataId: m.MetadataId}}
	return res.Send(vm.NewExecuteMsg(collection, tm)), nil
}

func (c *Contract) adminMint(ctx *vm.Context, st state, m *AdminMint) (*vm.Response, error) {
	collection, err := st.activeAddress(m.CollectionId)
	if err != nil {
		return nil, err
	}
	if err := vm.ValidateAddress(m.Recipient); err != nil {
		return nil, err
	}
	tm := &token.ExecuteMsg{Mint: &token.Mint{Owner: m.Recipient, MetadataId: m.MetadataId}}
	res := vm.NewResponse("admin_mint").Add("collection_id", fmt.Sprint(m.CollectionId)).Add("recipient", m.Recipient)
	return res.Send(vm.NewExecuteMsg(collection, tm)), nil
}

func (c *Contract) permissionMint(ctx *vm.Context, st state, m *PermissionMint) (*vm.Response, error) {
	hubAddr, err := st.hub()
	if err != nil {
		return nil, err
	}
	perm, err := hub.QueryModule(ctx.Env, hubAddr, nft.ModulePermission)
	if err != nil {
		return nil, err
	}
	check := &permission.ExecuteMsg{Check: &permission.Check{Module: nft.ModuleMint, Msg: m.PermissionMsg}}
	mint := &ExecuteMsg{AdminMint: &m.MintMsg}
	res := vm.NewResponse("permission_mint").Add("collection_id", fmt.Sprint(m.MintMsg.CollectionId))
	return res.Send(vm.NewExecuteMsg(perm, check), vm.NewExecuteMsg(ctx.Self, mint)), nil
}

func (c *Contract) moveCollection(ctx *vm.Context, st state, id uint32, from, to string) (*vm.Response, error) {
	_, found, err := st.address(to, id)
	if err != nil {
		return nil, err
	}
	if found && to == prefixActive {
		return nil, ErrAlreadyWhitelisted
	} else if found {
		return nil, ErrAlreadyBlacklisted
	}
	addr, found, err := st.address(from, id)
	if err != nil {
		return nil, err
	} else if !found {
		return nil, errors.Wrapf(ErrCollectionIdNotFound, "%d", id)
	}
	_, err = ctx.Contract(addr)
	if err != nil {
		return nil, err
	}

	err = ctx.Storage.Remove(collectionKey(from, id))
	if err != nil {
		return nil, err
	}
	err = ctx.Storage.Save(collectionKey(to, id), addr)
	if err != nil {
		return nil, err
	}
	action := "whitelist_collection"
	if to == prefixBlacklist {
		action = "blacklist_collection"
	}
	return vm.NewResponse(action).Add("collection_id", fmt.Sprint(id)), nil
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
	case qm.CollectionAddress != nil:
		val, err = st.activeAddress(qm.CollectionAddress.CollectionId)
	case qm.CollectionInfo != nil:
		var info CollectionInfo
		found, err := env.Storage.Load(collectionKey(prefixInfo, qm.CollectionInfo.CollectionId), &info)
		if err != nil {
			return nil, err
		} else if !found {
			return nil, errors.Wrapf(ErrCollectionIdNotFound, "%d", qm.CollectionInfo.CollectionId)
		}
		val = &info
	case qm.Operators != nil:
		val, err = st.operators()
	case qm.LinkedCollections != nil:
		val, err = st.linked(qm.LinkedCollections.CollectionId)
	case qm.Collections != nil:
		q := qm.Collections
		limit := q.Limit
		if limit <= 0 {
			limit = DefaultLimit
		} else if limit > MaxLimit {
			limit = MaxLimit
		}
		prefix := prefixActive
		if q.Blacklist {
			prefix = prefixBlacklist
		}
		val, err = st.collections(prefix, q.StartAfter, limit)
	default:
		return nil, vm.ErrInvalidMessage
	}
	if err != nil {
		return nil, err
	}
	return vm.Encode(val), nil
}
