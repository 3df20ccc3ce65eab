package token

import (
	"time"

	"github.com/MixinNetwork/nfthub/modules/whitelist"
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/shopspring/decimal"
)

type CollectionInfo struct {
	CollectionType string
	Name           string
	Description    string
	Image          string
	ExternalLink   string
	NativeDenom    string
}

// CollectionConfig limits are optional, a set limit must not be zero.
// A zero StartTime means minting is open right away.
type CollectionConfig struct {
	PerAddressLimit *uint32
	StartTime       time.Time
	MaxTokenLimit   *uint32
	IpfsLink        string
}

type TokenInfo struct {
	Symbol string
}

// Data is the register payload sent by the mint module.
type Data struct {
	Creator          string
	CollectionInfo   CollectionInfo
	CollectionConfig CollectionConfig
	TokenInfo        TokenInfo
	UnitPrice        *decimal.Decimal
	RoyaltyShare     *decimal.Decimal
}

type ExecuteMsg struct {
	Mint                  *Mint
	Burn                  *Burn
	TransferNft           *TransferNft
	SendNft               *SendNft
	AdminTransferNft      *TransferNft
	UpdateLocks           *UpdateLocks
	UpdateTokenLocks      *UpdateTokenLocks
	UpdateOperationLock   *UpdateOperationLock
	UpdateOperators       *UpdateOperators
	UpdatePerAddressLimit *UpdatePerAddressLimit
	UpdateStartTime       *UpdateStartTime
	UpdateRoyaltyShare    *UpdateRoyaltyShare
	InitWhitelistContract *InitWhitelistContract
}

type Mint struct {
	Owner      string
	MetadataId *uint32
}

type Burn struct {
	TokenId uint32
}

type TransferNft struct {
	Recipient string
	TokenId   uint32
}

type SendNft struct {
	Contract string
	TokenId  uint32
	Msg      []byte
}

type UpdateLocks struct {
	Locks nft.Locks
}

type UpdateTokenLocks struct {
	TokenId uint32
	Locks   nft.Locks
}

type UpdateOperationLock struct {
	Lock bool
}

type UpdateOperators struct {
	Addrs []string
}

type UpdatePerAddressLimit struct {
	PerAddressLimit *uint32
}

type UpdateStartTime struct {
	StartTime time.Time
}

type UpdateRoyaltyShare struct {
	RoyaltyShare *decimal.Decimal
}

type InitWhitelistContract struct {
	CodeId uint64
	Data   whitelist.Data
}

type QueryMsg struct {
	Config                 *struct{}
	Locks                  *struct{}
	TokenLocks             *TokenQuery
	OperationLock          *struct{}
	OwnerOf                *TokenQuery
	MintedTokensPerAddress *AddressQuery
	CollectionInfo         *struct{}
	CollectionConfig       *struct{}
	Contracts              *struct{}
	Operators              *struct{}
	NumTokens              *struct{}
	Tokens                 *TokensQuery
}

type TokenQuery struct {
	TokenId uint32
}

type AddressQuery struct {
	Address string
}

type TokensQuery struct {
	Owner      string
	StartAfter uint32
	Limit      int
}

type TokenEntry struct {
	TokenId    uint32
	Owner      string
	MetadataId *uint32
}

type Contracts struct {
	Whitelist string
}
