package marketplace

import (
	"fmt"

	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
)

const (
	DefaultLimit = 30
	MaxLimit     = 100

	keyConfig = "config"
	keyHub    = "hub"

	prefixFixedListings = "fixed_listings:"
)

type state struct {
	s *vm.Storage
}

func listingKey(collectionId, tokenId uint32) []byte {
	return vm.Key(prefixFixedListings, vm.Uint32Key(collectionId), vm.Uint32Key(tokenId))
}

func (st state) config() (*Config, error) {
	var c Config
	found, err := st.s.Load([]byte(keyConfig), &c)
	if err != nil {
		return nil, err
	} else if !found {
		return nil, errors.New("marketplace config not found")
	}
	return &c, nil
}

func (st state) hub() (string, error) {
	var hub string
	_, err := st.s.Load([]byte(keyHub), &hub)
	return hub, err
}

func (st state) listing(collectionId, tokenId uint32) (*FixedListing, error) {
	var l FixedListing
	found, err := st.s.Load(listingKey(collectionId, tokenId), &l)
	if err != nil {
		return nil, err
	} else if !found {
		return nil, errors.Wrap(ErrNotListed, fmt.Sprintf("%d/%d", collectionId, tokenId))
	}
	return &l, nil
}

func (st state) listings(collectionId, startAfter uint32, limit int) ([]*FixedListing, error) {
	var after []byte
	if startAfter > 0 {
		after = vm.Uint32Key(startAfter)
	}
	listings := []*FixedListing{}
	prefix := vm.Key(prefixFixedListings, vm.Uint32Key(collectionId))
	err := st.s.Range(prefix, after, limit, func(_, val []byte) error {
		var l FixedListing
		err := vm.Decode(val, &l)
		listings = append(listings, &l)
		return err
	})
	return listings, err
}
