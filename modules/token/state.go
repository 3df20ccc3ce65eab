package token

import (
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	keyConfig           = "config"
	keyParent           = "parent"
	keyCollectionInfo   = "collection_info"
	keyCollectionConfig = "collection_config"
	keyTokenInfo        = "token_info"
	keyLocks            = "locks"
	keyOperationLock    = "operation_lock"
	keyOperators        = "operators"
	keyTokenId          = "token_id"
	keyNumTokens        = "num_tokens"
	keyContracts        = "contracts"

	prefixOwners     = "owners:"
	prefixTokenLocks = "token_locks:"
	prefixMetadata   = "metadata:"
	prefixMinted     = "minted:"
	prefixPending    = "pending:"

	whitelistReplyId = 1
)

type Config struct {
	Admin        string
	Creator      string
	NativeDenom  string
	UnitPrice    *decimal.Decimal
	RoyaltyShare *decimal.Decimal
}

type state struct {
	s *vm.Storage
}

func (st state) load(key string, val interface{}) error {
	found, err := st.s.Load([]byte(key), val)
	if err != nil {
		return err
	} else if !found {
		return errors.Errorf("token state %s not found", key)
	}
	return nil
}

func (st state) config() (*Config, error) {
	var c Config
	return &c, st.load(keyConfig, &c)
}

func (st state) parent() (string, error) {
	var p string
	return p, st.load(keyParent, &p)
}

func (st state) operators() ([]string, error) {
	var ops []string
	_, err := st.s.Load([]byte(keyOperators), &ops)
	return ops, err
}

func (st state) collectionConfig() (*CollectionConfig, error) {
	var c CollectionConfig
	return &c, st.load(keyCollectionConfig, &c)
}

func (st state) locks() (nft.Locks, error) {
	var l nft.Locks
	_, err := st.s.Load([]byte(keyLocks), &l)
	return l, err
}

func (st state) operationLock() (bool, error) {
	var l bool
	_, err := st.s.Load([]byte(keyOperationLock), &l)
	return l, err
}

func (st state) tokenLocks(id uint32) (*nft.Locks, error) {
	var l nft.Locks
	found, err := st.s.Load(vm.Key(prefixTokenLocks, vm.Uint32Key(id)), &l)
	if err != nil || !found {
		return nil, err
	}
	return &l, nil
}

func (st state) owner(id uint32) (string, error) {
	var owner string
	found, err := st.s.Load(vm.Key(prefixOwners, vm.Uint32Key(id)), &owner)
	if err != nil {
		return "", err
	} else if !found {
		return "", errors.Wrapf(ErrTokenNotFound, "%d", id)
	}
	return owner, nil
}

func (st state) counter(key string) (uint32, error) {
	var n uint32
	_, err := st.s.Load([]byte(key), &n)
	return n, err
}

func (st state) minted(address string) (uint32, error) {
	return st.counter(prefixMinted + address)
}

func (st state) contracts() (*Contracts, error) {
	var c Contracts
	_, err := st.s.Load([]byte(keyContracts), &c)
	return &c, err
}

// checkAdmin passes for the admin, the mint module and, when allowed,
// the operators.
func (st state) checkAdmin(ctx *vm.Context, operators bool) (*Config, error) {
	conf, err := st.config()
	if err != nil {
		return nil, err
	}
	parent, err := st.parent()
	if err != nil {
		return nil, err
	}
	var ops []string
	if operators {
		ops, err = st.operators()
		if err != nil {
			return nil, err
		}
	}
	return conf, nft.CheckAdminPrivileges(ctx.Sender, ctx.Self, conf.Admin, parent, ops)
}

// checkLock reports the operation lock first and then the effective lock
// of action for the token.
func (st state) checkLock(action nft.Action, id uint32, withToken bool) error {
	op, err := st.operationLock()
	if err != nil {
		return err
	}
	if op {
		if action == nft.ActionMint {
			return ErrMintLocked
		}
		return ErrOperationLocked
	}
	collection, err := st.locks()
	if err != nil {
		return err
	}
	var token *nft.Locks
	if withToken {
		token, err = st.tokenLocks(id)
		if err != nil {
			return err
		}
	}
	if nft.IsLocked(action, collection, token) {
		return LockError(action)
	}
	return nil
}
