package token

import (
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/pkg/errors"
)

var (
	ErrMintLocked              = errors.New("minting is locked")
	ErrBurnLocked              = errors.New("burning is locked")
	ErrTransferLocked          = errors.New("transferring is locked")
	ErrSendLocked              = errors.New("sending is locked")
	ErrOperationLocked         = errors.New("operations are locked")
	ErrTokenNotFound           = errors.New("token not found")
	ErrTokenLimitReached       = errors.New("token limit reached")
	ErrMintingNotStarted       = errors.New("minting has not started")
	ErrAlreadyStarted          = errors.New("minting has already started")
	ErrInvalidStartTime        = errors.New("invalid start time")
	ErrInvalidPerAddressLimit  = errors.New("invalid per address limit")
	ErrInvalidMaxTokenLimit    = errors.New("invalid max token limit")
	ErrDescriptionTooLong      = errors.New("description too long")
	ErrInvalidUrl              = errors.New("invalid url")
	ErrWhitelistAlreadyExists  = errors.New("whitelist contract already exists")
	ErrInvalidCollectionConfig = errors.New("invalid collection config")
)

// LockError is the error reported when action is locked.
func LockError(action nft.Action) error {
	switch action {
	case nft.ActionMint:
		return ErrMintLocked
	case nft.ActionBurn:
		return ErrBurnLocked
	case nft.ActionTransfer:
		return ErrTransferLocked
	case nft.ActionSend:
		return ErrSendLocked
	}
	panic(action)
}
