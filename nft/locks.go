package nft

type Action int

const (
	ActionMint Action = iota
	ActionBurn
	ActionTransfer
	ActionSend
)

func (a Action) String() string {
	switch a {
	case ActionMint:
		return "mint"
	case ActionBurn:
		return "burn"
	case ActionTransfer:
		return "transfer"
	case ActionSend:
		return "send"
	}
	panic(int(a))
}

type Locks struct {
	MintLock     bool
	BurnLock     bool
	TransferLock bool
	SendLock     bool
}

func (l *Locks) Has(action Action) bool {
	if l == nil {
		return false
	}
	switch action {
	case ActionMint:
		return l.MintLock
	case ActionBurn:
		return l.BurnLock
	case ActionTransfer:
		return l.TransferLock
	case ActionSend:
		return l.SendLock
	}
	return false
}

// IsLocked is the effective lock of an action, the collection flag or the
// token flag when the token has its own record.
func IsLocked(action Action, collection Locks, token *Locks) bool {
	return collection.Has(action) || token.Has(action)
}

// ListingLocks is the lock triple held by a fixed listing.
func ListingLocks() Locks {
	return Locks{BurnLock: true, TransferLock: true, SendLock: true}
}
