package app

import (
	"github.com/MixinNetwork/nfthub/modules/fee"
	"github.com/MixinNetwork/nfthub/modules/hub"
	"github.com/MixinNetwork/nfthub/modules/marketplace"
	"github.com/MixinNetwork/nfthub/modules/mint"
	"github.com/MixinNetwork/nfthub/modules/permission"
	"github.com/MixinNetwork/nfthub/modules/permission/link"
	"github.com/MixinNetwork/nfthub/modules/token"
	"github.com/MixinNetwork/nfthub/modules/whitelist"
	"github.com/MixinNetwork/nfthub/vm"
)

type Codes struct {
	Hub         uint64
	Mint        uint64
	Token       uint64
	Whitelist   uint64
	Permission  uint64
	Link        uint64
	Fee         uint64
	Marketplace uint64
}

// Register stores every actor code in a fixed order, so code ids stay
// the same across restarts.
func Register(rt *vm.Runtime) *Codes {
	return &Codes{
		Hub:         rt.StoreCode("hub", hub.New),
		Mint:        rt.StoreCode("mint", mint.New),
		Token:       rt.StoreCode("token", token.New),
		Whitelist:   rt.StoreCode("whitelist", whitelist.New),
		Permission:  rt.StoreCode("permission", permission.New),
		Link:        rt.StoreCode("link", link.New),
		Fee:         rt.StoreCode("fee", fee.New),
		Marketplace: rt.StoreCode("marketplace", marketplace.New),
	}
}
