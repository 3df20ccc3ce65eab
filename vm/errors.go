package vm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnknownCode              = errors.New("unknown code id")
	ErrContractNotFound         = errors.New("contract not found")
	ErrInvalidAddress           = errors.New("invalid address")
	ErrInvalidCoins             = errors.New("invalid coins")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrCallDepthExceeded        = errors.New("call depth exceeded")
	ErrReplyNotSupported        = errors.New("actor does not handle replies")
	ErrReadOnly                 = errors.New("storage is read only")
	ErrInvalidMessage           = errors.New("invalid message")
	ErrChildInstantiationFailed = errors.New("child instantiation failed")
)

// ChildError reports a failed instantiate request issued by an actor. It
// matches ErrChildInstantiationFailed and unwraps to the child's own error.
type ChildError struct {
	CodeId uint64
	Err    error
}

func (e *ChildError) Error() string {
	return fmt.Sprintf("%s: code %d: %v", ErrChildInstantiationFailed, e.CodeId, e.Err)
}

func (e *ChildError) Unwrap() error {
	return e.Err
}

func (e *ChildError) Is(target error) bool {
	return target == ErrChildInstantiationFailed
}
