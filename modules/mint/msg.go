package mint

import (
	"github.com/MixinNetwork/nfthub/modules/token"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/shopspring/decimal"
)

type CollectionInfo = token.CollectionInfo

// Data is the optional register payload of the mint module.
type Data struct {
	PublicCollectionCreation bool
	MintLock                 bool
}

type ExecuteMsg struct {
	CreateCollection               *CreateCollection
	UpdatePublicCollectionCreation *UpdatePublicCollectionCreation
	UpdateMintLock                 *UpdateMintLock
	UpdateOperators                *UpdateOperators
	UpdateLinkedCollections        *UpdateLinkedCollections
	Mint                           *Mint
	AdminMint                      *AdminMint
	PermissionMint                 *PermissionMint
	WhitelistCollection            *CollectionRef
	BlacklistCollection            *CollectionRef
}

type CreateCollection struct {
	CodeId            uint64
	CollectionInfo    CollectionInfo
	CollectionConfig  token.CollectionConfig
	TokenInfo         token.TokenInfo
	UnitPrice         *decimal.Decimal
	RoyaltyShare      *decimal.Decimal
	LinkedCollections []uint32
}

type UpdatePublicCollectionCreation struct {
	PublicCollectionCreation bool
}

type UpdateMintLock struct {
	Lock bool
}

type UpdateOperators struct {
	Addrs []string
}

type UpdateLinkedCollections struct {
	CollectionId      uint32
	LinkedCollections []uint32
}

type Mint struct {
	CollectionId uint32
	MetadataId   *uint32
}

type AdminMint struct {
	CollectionId uint32
	Recipient    string
	MetadataId   *uint32
}

// PermissionMint runs the permission check of PermissionMsg, an encoded
// []nft.PermissionCheck, before the admin mint.
type PermissionMint struct {
	PermissionMsg []byte
	MintMsg       AdminMint
}

type CollectionRef struct {
	CollectionId uint32
}

type QueryMsg struct {
	Config            *struct{}
	CollectionAddress *CollectionRef
	CollectionInfo    *CollectionRef
	Operators         *struct{}
	LinkedCollections *CollectionRef
	Collections       *CollectionsQuery
}

type CollectionsQuery struct {
	Blacklist  bool
	StartAfter uint32
	Limit      int
}

type CollectionEntry struct {
	CollectionId uint32
	Address      string
}

func QueryLinkedCollections(env *vm.Env, contract string, id uint32) ([]uint32, error) {
	var linked []uint32
	err := env.Query(contract, QueryMsg{LinkedCollections: &CollectionRef{CollectionId: id}}, &linked)
	return linked, err
}

func QueryCollectionAddress(env *vm.Env, contract string, id uint32) (string, error) {
	var addr string
	err := env.Query(contract, QueryMsg{CollectionAddress: &CollectionRef{CollectionId: id}}, &addr)
	return addr, err
}
