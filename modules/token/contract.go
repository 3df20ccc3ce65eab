package token

import (
	"fmt"
	"net/url"

	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
)

const DescriptionLimit = 512

// Contract is the asset actor of one collection. It is instantiated by
// the mint module, which stays its minter.
type Contract struct{}

func New() vm.Actor {
	return &Contract{}
}

func validateUrl(link string) error {
	u, err := url.ParseRequestURI(link)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Wrap(ErrInvalidUrl, link)
	}
	return nil
}

func validateCollectionInfo(info *CollectionInfo) error {
	if len(info.Description) > DescriptionLimit {
		return ErrDescriptionTooLong
	}
	if err := validateUrl(info.Image); err != nil {
		return err
	}
	if info.ExternalLink != "" {
		return validateUrl(info.ExternalLink)
	}
	return nil
}

func (c *Contract) Instantiate(ctx *vm.Context, msg []byte) (*vm.Response, error) {
	var rm nft.RegisterMsg
	err := vm.DecodeMsg(msg, &rm)
	if err != nil {
		return nil, err
	}
	var data Data
	err = vm.DecodeMsg(rm.Data, &data)
	if err != nil {
		return nil, err
	}
	if err := vm.ValidateAddress(rm.Admin); err != nil {
		return nil, err
	}
	if err := vm.ValidateAddress(data.Creator); err != nil {
		return nil, err
	}

	cc := data.CollectionConfig
	if !cc.StartTime.IsZero() && !cc.StartTime.After(ctx.Now) {
		return nil, ErrInvalidStartTime
	}
	if cc.PerAddressLimit != nil && *cc.PerAddressLimit == 0 {
		return nil, ErrInvalidPerAddressLimit
	}
	if cc.MaxTokenLimit != nil && *cc.MaxTokenLimit == 0 {
		return nil, ErrInvalidMaxTokenLimit
	}
	if data.RoyaltyShare != nil {
		share, err := nft.NormalizeRate(*data.RoyaltyShare)
		if err != nil {
			return nil, err
		}
		data.RoyaltyShare = &share
	}
	if data.UnitPrice != nil {
		if err := vm.ValidateAmount(*data.UnitPrice); err != nil {
			return nil, err
		}
	}
	if err := validateCollectionInfo(&data.CollectionInfo); err != nil {
		return nil, err
	}

	conf := &Config{
		Admin:        rm.Admin,
		Creator:      data.Creator,
		NativeDenom:  data.CollectionInfo.NativeDenom,
		UnitPrice:    data.UnitPrice,
		RoyaltyShare: data.RoyaltyShare,
	}
	records := map[string]interface{}{
		keyConfig:           conf,
		keyParent:           ctx.Sender,
		keyCollectionInfo:   &data.CollectionInfo,
		keyCollectionConfig: &cc,
		keyTokenInfo:        &data.TokenInfo,
		keyLocks:            &nft.Locks{},
		keyOperationLock:    false,
		keyTokenId:          uint32(0),
		keyNumTokens:        uint32(0),
	}
	for k, v := range records {
		err = ctx.Storage.Save([]byte(k), v)
		if err != nil {
			return nil, err
		}
	}
	res := vm.NewResponse("instantiate").Add("admin", rm.Admin).Add("minter", ctx.Sender)
	return res.Add("name", data.CollectionInfo.Name), nil
}

func (c *Contract) Execute(ctx *vm.Context, msg []byte) (*vm.Response, error) {
	var em ExecuteMsg
	err := vm.DecodeMsg(msg, &em)
	if err != nil {
		return nil, err
	}
	st := state{ctx.Storage}
	switch {
	case em.Mint != nil:
		return c.mint(ctx, st, em.Mint)
	case em.Burn != nil:
		return c.burn(ctx, st, em.Burn.TokenId)
	case em.TransferNft != nil:
		return c.transfer(ctx, st, em.TransferNft)
	case em.SendNft != nil:
		return c.send(ctx, st, em.SendNft)
	case em.AdminTransferNft != nil:
		return c.adminTransfer(ctx, st, em.AdminTransferNft)
	}
	return c.executeAdmin(ctx, st, &em)
}

func (c *Contract) mint(ctx *vm.Context, st state, m *Mint) (*vm.Response, error) {
	_, err := st.checkAdmin(ctx, true)
	if err != nil {
		return nil, err
	}
	if err := vm.ValidateAddress(m.Owner); err != nil {
		return nil, err
	}
	last, err := st.counter(keyTokenId)
	if err != nil {
		return nil, err
	}
	id := last + 1
	if id == 0 {
		return nil, nft.ErrArithmetic
	}
	err = st.checkLock(nft.ActionMint, id, true)
	if err != nil {
		return nil, err
	}

	cc, err := st.collectionConfig()
	if err != nil {
		return nil, err
	}
	if !cc.StartTime.IsZero() && ctx.Now.Before(cc.StartTime) {
		return nil, ErrMintingNotStarted
	}
	if cc.MaxTokenLimit != nil && id > *cc.MaxTokenLimit {
		return nil, errors.Wrap(ErrTokenLimitReached, "max token limit")
	}
	minted, err := st.minted(m.Owner)
	if err != nil {
		return nil, err
	}
	if cc.PerAddressLimit != nil && minted+1 > *cc.PerAddressLimit {
		return nil, errors.Wrap(ErrTokenLimitReached, "per address limit")
	}
	num, err := st.counter(keyNumTokens)
	if err != nil {
		return nil, err
	}

	writes := []struct {
		key []byte
		val interface{}
	}{
		{[]byte(keyTokenId), id},
		{[]byte(keyNumTokens), num + 1},
		{[]byte(prefixMinted + m.Owner), minted + 1},
		{vm.Key(prefixOwners, vm.Uint32Key(id)), m.Owner},
	}
	if m.MetadataId != nil {
		writes = append(writes, struct {
			key []byte
			val interface{}
		}{vm.Key(prefixMetadata, vm.Uint32Key(id)), *m.MetadataId})
	}
	for _, w := range writes {
		err = ctx.Storage.Save(w.key, w.val)
		if err != nil {
			return nil, err
		}
	}
	return vm.NewResponse("mint").Add("owner", m.Owner).Add("token_id", fmt.Sprint(id)).WithData(vm.Encode(id)), nil
}

func (c *Contract) checkOwner(ctx *vm.Context, st state, action nft.Action, id uint32) error {
	owner, err := st.owner(id)
	if err != nil {
		return err
	}
	err = st.checkLock(action, id, true)
	if err != nil {
		return err
	}
	if owner != ctx.Sender {
		return nft.ErrUnauthorized
	}
	return nil
}

func (c *Contract) burn(ctx *vm.Context, st state, id uint32) (*vm.Response, error) {
	err := c.checkOwner(ctx, st, nft.ActionBurn, id)
	if err != nil {
		return nil, err
	}
	num, err := st.counter(keyNumTokens)
	if err != nil {
		return nil, err
	}
	for _, prefix := range []string{prefixOwners, prefixTokenLocks, prefixMetadata} {
		err = ctx.Storage.Remove(vm.Key(prefix, vm.Uint32Key(id)))
		if err != nil {
			return nil, err
		}
	}
	err = ctx.Storage.Save([]byte(keyNumTokens), num-1)
	return vm.NewResponse("burn").Add("token_id", fmt.Sprint(id)), err
}

func (c *Contract) setOwner(ctx *vm.Context, id uint32, owner string) error {
	if err := vm.ValidateAddress(owner); err != nil {
		return err
	}
	return ctx.Storage.Save(vm.Key(prefixOwners, vm.Uint32Key(id)), owner)
}

func (c *Contract) transfer(ctx *vm.Context, st state, m *TransferNft) (*vm.Response, error) {
	err := c.checkOwner(ctx, st, nft.ActionTransfer, m.TokenId)
	if err != nil {
		return nil, err
	}
	err = c.setOwner(ctx, m.TokenId, m.Recipient)
	if err != nil {
		return nil, err
	}
	return vm.NewResponse("transfer_nft").Add("recipient", m.Recipient).Add("token_id", fmt.Sprint(m.TokenId)), nil
}

func (c *Contract) send(ctx *vm.Context, st state, m *SendNft) (*vm.Response, error) {
	err := c.checkOwner(ctx, st, nft.ActionSend, m.TokenId)
	if err != nil {
		return nil, err
	}
	err = c.setOwner(ctx, m.TokenId, m.Contract)
	if err != nil {
		return nil, err
	}
	rm := &nft.ReceiveNftMsg{ReceiveNft: &nft.ReceiveNft{
		Sender:  ctx.Sender,
		TokenId: m.TokenId,
		Msg:     m.Msg,
	}}
	res := vm.NewResponse("send_nft").Add("contract", m.Contract).Add("token_id", fmt.Sprint(m.TokenId))
	return res.Send(vm.NewExecuteMsg(m.Contract, rm)), nil
}

// adminTransfer skips the owner check and the token locks, which are held
// by the operator settling the token, but not the collection locks.
func (c *Contract) adminTransfer(ctx *vm.Context, st state, m *TransferNft) (*vm.Response, error) {
	_, err := st.checkAdmin(ctx, true)
	if err != nil {
		return nil, err
	}
	_, err = st.owner(m.TokenId)
	if err != nil {
		return nil, err
	}
	err = st.checkLock(nft.ActionTransfer, m.TokenId, false)
	if err != nil {
		return nil, err
	}
	err = c.setOwner(ctx, m.TokenId, m.Recipient)
	if err != nil {
		return nil, err
	}
	return vm.NewResponse("admin_transfer_nft").Add("recipient", m.Recipient).Add("token_id", fmt.Sprint(m.TokenId)), nil
}

func (c *Contract) executeAdmin(ctx *vm.Context, st state, em *ExecuteMsg) (*vm.Response, error) {
	withOperators := em.UpdateOperators == nil
	conf, err := st.checkAdmin(ctx, withOperators)
	if err != nil {
		return nil, err
	}

	switch {
	case em.UpdateLocks != nil:
		err = ctx.Storage.Save([]byte(keyLocks), &em.UpdateLocks.Locks)
		return vm.NewResponse("update_locks"), err
	case em.UpdateTokenLocks != nil:
		m := em.UpdateTokenLocks
		_, err = st.owner(m.TokenId)
		if err != nil {
			return nil, err
		}
		err = ctx.Storage.Save(vm.Key(prefixTokenLocks, vm.Uint32Key(m.TokenId)), &m.Locks)
		return vm.NewResponse("update_token_locks").Add("token_id", fmt.Sprint(m.TokenId)), err
	case em.UpdateOperationLock != nil:
		err = ctx.Storage.Save([]byte(keyOperationLock), em.UpdateOperationLock.Lock)
		return vm.NewResponse("update_operation_lock").Add("lock", fmt.Sprint(em.UpdateOperationLock.Lock)), err
	case em.UpdateOperators != nil:
		ops, err := nft.NormalizeOperators(em.UpdateOperators.Addrs)
		if err != nil {
			return nil, err
		}
		err = ctx.Storage.Save([]byte(keyOperators), ops)
		return vm.NewResponse("update_operators"), err
	case em.UpdatePerAddressLimit != nil:
		limit := em.UpdatePerAddressLimit.PerAddressLimit
		if limit != nil && *limit == 0 {
			return nil, ErrInvalidPerAddressLimit
		}
		cc, err := st.collectionConfig()
		if err != nil {
			return nil, err
		}
		cc.PerAddressLimit = limit
		err = ctx.Storage.Save([]byte(keyCollectionConfig), cc)
		return vm.NewResponse("update_per_address_limit"), err
	case em.UpdateStartTime != nil:
		cc, err := st.collectionConfig()
		if err != nil {
			return nil, err
		}
		if !cc.StartTime.IsZero() && !ctx.Now.Before(cc.StartTime) {
			return nil, ErrAlreadyStarted
		}
		start := em.UpdateStartTime.StartTime
		if !start.IsZero() && !start.After(ctx.Now) {
			return nil, ErrInvalidStartTime
		}
		cc.StartTime = start
		err = ctx.Storage.Save([]byte(keyCollectionConfig), cc)
		return vm.NewResponse("update_start_time"), err
	case em.UpdateRoyaltyShare != nil:
		share := em.UpdateRoyaltyShare.RoyaltyShare
		if share != nil {
			r, err := nft.NormalizeRate(*share)
			if err != nil {
				return nil, err
			}
			share = &r
		}
		conf.RoyaltyShare = share
		err = ctx.Storage.Save([]byte(keyConfig), conf)
		return vm.NewResponse("update_royalty_share"), err
	case em.InitWhitelistContract != nil:
		return c.initWhitelist(ctx, st, conf, em.InitWhitelistContract)
	}
	return nil, vm.ErrInvalidMessage
}

func (c *Contract) initWhitelist(ctx *vm.Context, st state, conf *Config, m *InitWhitelistContract) (*vm.Response, error) {
	contracts, err := st.contracts()
	if err != nil {
		return nil, err
	}
	if contracts.Whitelist != "" {
		return nil, ErrWhitelistAlreadyExists
	}
	err = ctx.Storage.Save(vm.Key(prefixPending, vm.Uint64Key(whitelistReplyId)), "whitelist")
	if err != nil {
		return nil, err
	}
	rm := &nft.RegisterMsg{Admin: conf.Admin, Data: vm.Encode(&m.Data)}
	sub := vm.NewInstantiateMsg(m.CodeId, rm, "whitelist").WithReply(whitelistReplyId)
	return vm.NewResponse("init_whitelist_contract").Send(sub), nil
}

func (c *Contract) Reply(env *vm.Env, reply *vm.Reply) (*vm.Response, error) {
	key := vm.Key(prefixPending, vm.Uint64Key(reply.Id))
	var kind string
	found, err := env.Storage.Load(key, &kind)
	if err != nil {
		return nil, err
	} else if !found || kind != "whitelist" {
		return nil, nft.ErrInvalidReplyCorrelationId
	}
	err = env.Storage.Remove(key)
	if err != nil {
		return nil, err
	}
	st := state{env.Storage}
	contracts, err := st.contracts()
	if err != nil {
		return nil, err
	}
	contracts.Whitelist = reply.ContractAddress
	err = env.Storage.Save([]byte(keyContracts), contracts)
	return vm.NewResponse("bind_whitelist").Add("whitelist", reply.ContractAddress), err
}
