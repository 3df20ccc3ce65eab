package marketplace

import (
	"github.com/shopspring/decimal"
)

type ExecuteMsg struct {
	ListFixedToken   *ListFixedToken
	DelistFixedToken *TokenRef
	UpdatePrice      *UpdatePrice
	Buy              *TokenRef
	UpdateFeeRate    *struct{}
}

type ListFixedToken struct {
	CollectionId uint32
	TokenId      uint32
	Price        decimal.Decimal
}

type TokenRef struct {
	CollectionId uint32
	TokenId      uint32
}

type UpdatePrice struct {
	CollectionId uint32
	TokenId      uint32
	Price        decimal.Decimal
}

type QueryMsg struct {
	Config        *struct{}
	FixedListing  *TokenRef
	FixedListings *ListingsQuery
}

type ListingsQuery struct {
	CollectionId uint32
	StartAfter   uint32
	Limit        int
}

type FixedListing struct {
	CollectionId uint32
	TokenId      uint32
	Price        decimal.Decimal
	Owner        string
}

type Config struct {
	Admin       string
	NativeDenom string
	FeeRate     decimal.Decimal
}
