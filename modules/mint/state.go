package mint

import (
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
)

const (
	keyConfig       = "config"
	keyHub          = "hub"
	keyOperators    = "operators"
	keyCollectionId = "collection_id"

	prefixActive    = "collections:"
	prefixBlacklist = "blacklist:"
	prefixInfo      = "collection_info:"
	prefixLinked    = "linked_collections:"
	prefixPending   = "pending:"
)

type Config struct {
	Admin                    string
	PublicCollectionCreation bool
	MintLock                 bool
}

type state struct {
	s *vm.Storage
}

func collectionKey(prefix string, id uint32) []byte {
	return vm.Key(prefix, vm.Uint32Key(id))
}

func (st state) config() (*Config, error) {
	var c Config
	found, err := st.s.Load([]byte(keyConfig), &c)
	if err != nil {
		return nil, err
	} else if !found {
		return nil, errors.New("mint config not found")
	}
	return &c, nil
}

func (st state) hub() (string, error) {
	var hub string
	_, err := st.s.Load([]byte(keyHub), &hub)
	return hub, err
}

func (st state) operators() ([]string, error) {
	ops := []string{}
	_, err := st.s.Load([]byte(keyOperators), &ops)
	return ops, err
}

func (st state) checkAdmin(ctx *vm.Context, conf *Config, operators bool) error {
	hub, err := st.hub()
	if err != nil {
		return err
	}
	var ops []string
	if operators {
		ops, err = st.operators()
		if err != nil {
			return err
		}
	}
	return nft.CheckAdminPrivileges(ctx.Sender, ctx.Self, conf.Admin, hub, ops)
}

func (st state) address(prefix string, id uint32) (string, bool, error) {
	var addr string
	found, err := st.s.Load(collectionKey(prefix, id), &addr)
	return addr, found, err
}

func (st state) activeAddress(id uint32) (string, error) {
	addr, found, err := st.address(prefixActive, id)
	if err != nil {
		return "", err
	} else if !found {
		return "", errors.Wrapf(ErrCollectionIdNotFound, "%d", id)
	}
	return addr, nil
}

// validateLinks rejects a link to id itself and links to collections that
// are not active.
func (st state) validateLinks(id uint32, linked []uint32) error {
	for _, l := range linked {
		if l == id {
			return ErrSelfLinkedCollection
		}
	}
	for _, l := range linked {
		_, err := st.activeAddress(l)
		if err != nil {
			return err
		}
	}
	return nil
}

func (st state) linked(id uint32) ([]uint32, error) {
	linked := []uint32{}
	_, err := st.s.Load(collectionKey(prefixLinked, id), &linked)
	return linked, err
}

func (st state) collections(prefix string, startAfter uint32, limit int) ([]*CollectionEntry, error) {
	var after []byte
	if startAfter > 0 {
		after = vm.Uint32Key(startAfter)
	}
	entries := []*CollectionEntry{}
	err := st.s.Range([]byte(prefix), after, limit, func(key, val []byte) error {
		e := &CollectionEntry{CollectionId: vm.ParseUint32Key(key)}
		entries = append(entries, e)
		return vm.Decode(val, &e.Address)
	})
	return entries, err
}
