package token

import (
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
)

const (
	DefaultLimit = 30
	MaxLimit     = 100
)

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
	case qm.Locks != nil:
		val, err = st.locks()
	case qm.TokenLocks != nil:
		var l *nft.Locks
		l, err = st.tokenLocks(qm.TokenLocks.TokenId)
		if l == nil {
			l = &nft.Locks{}
		}
		val = l
	case qm.OperationLock != nil:
		val, err = st.operationLock()
	case qm.OwnerOf != nil:
		val, err = st.owner(qm.OwnerOf.TokenId)
	case qm.MintedTokensPerAddress != nil:
		val, err = st.minted(qm.MintedTokensPerAddress.Address)
	case qm.CollectionInfo != nil:
		var info CollectionInfo
		err = st.load(keyCollectionInfo, &info)
		val = &info
	case qm.CollectionConfig != nil:
		val, err = st.collectionConfig()
	case qm.Contracts != nil:
		val, err = st.contracts()
	case qm.Operators != nil:
		var ops []string
		ops, err = st.operators()
		if ops == nil {
			ops = []string{}
		}
		val = ops
	case qm.NumTokens != nil:
		val, err = st.counter(keyNumTokens)
	case qm.Tokens != nil:
		val, err = c.tokens(st, qm.Tokens)
	default:
		return nil, vm.ErrInvalidMessage
	}
	if err != nil {
		return nil, err
	}
	return vm.Encode(val), nil
}

func (c *Contract) tokens(st state, q *TokensQuery) ([]*TokenEntry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}
	var after []byte
	if q.StartAfter > 0 {
		after = vm.Uint32Key(q.StartAfter)
	}

	entries := []*TokenEntry{}
	err := st.s.Range([]byte(prefixOwners), after, 0, func(key, val []byte) error {
		if len(entries) == limit {
			return nil
		}
		e := &TokenEntry{TokenId: vm.ParseUint32Key(key)}
		err := vm.Decode(val, &e.Owner)
		if err != nil || (q.Owner != "" && e.Owner != q.Owner) {
			return err
		}
		var meta uint32
		found, err := st.s.Load(vm.Key(prefixMetadata, key), &meta)
		if found {
			e.MetadataId = &meta
		}
		entries = append(entries, e)
		return err
	})
	return entries, err
}

func QueryOwnerOf(env *vm.Env, contract string, id uint32) (string, error) {
	var owner string
	err := env.Query(contract, QueryMsg{OwnerOf: &TokenQuery{TokenId: id}}, &owner)
	return owner, err
}

func QueryConfig(env *vm.Env, contract string) (*Config, error) {
	var conf Config
	err := env.Query(contract, QueryMsg{Config: &struct{}{}}, &conf)
	return &conf, err
}

func QueryLocks(env *vm.Env, contract string, id uint32) (nft.Locks, *nft.Locks, error) {
	var collection, token nft.Locks
	err := env.Query(contract, QueryMsg{Locks: &struct{}{}}, &collection)
	if err != nil {
		return collection, nil, err
	}
	err = env.Query(contract, QueryMsg{TokenLocks: &TokenQuery{TokenId: id}}, &token)
	return collection, &token, err
}

func QueryContracts(env *vm.Env, contract string) (*Contracts, error) {
	var c Contracts
	err := env.Query(contract, QueryMsg{Contracts: &struct{}{}}, &c)
	return &c, err
}
