package mint

import (
	"github.com/pkg/errors"
)

var (
	ErrLockedMint            = errors.New("minting is locked")
	ErrCollectionIdNotFound  = errors.New("collection id not found")
	ErrSelfLinkedCollection  = errors.New("collection cannot be linked to itself")
	ErrAlreadyWhitelisted    = errors.New("collection already whitelisted")
	ErrAlreadyBlacklisted    = errors.New("collection already blacklisted")
	ErrAddressNotWhitelisted = errors.New("address not whitelisted")
	ErrCollectionIdOverflow  = errors.New("collection id overflow")
)
