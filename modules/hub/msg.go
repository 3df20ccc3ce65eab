package hub

import (
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
)

type HubInfo struct {
	Name         string
	Description  string
	Image        string
	ExternalLink string
}

type InstantiateMsg struct {
	HubInfo HubInfo
}

type ExecuteMsg struct {
	InitMintModule        *InitModule
	InitPermissionModule  *InitModule
	InitFeeModule         *InitModule
	InitMarketplaceModule *InitMarketplaceModule
	DeregisterModule      *DeregisterModule
	UpdateHubInfo         *HubInfo
}

type InitModule struct {
	CodeId uint64
}

type InitMarketplaceModule struct {
	CodeId      uint64
	NativeDenom string
}

// MarketplaceData is the register payload of the marketplace module.
type MarketplaceData struct {
	NativeDenom string
}

type DeregisterModule struct {
	Module nft.Module
}

type QueryMsg struct {
	Config        *struct{}
	ModuleAddress *ModuleAddress
	Modules       *struct{}
}

type ModuleAddress struct {
	Module nft.Module
}

type ConfigResponse struct {
	Admin   string
	HubInfo HubInfo
}

type ModuleEntry struct {
	Module  nft.Module
	Address string
}

func QueryModuleAddress(module nft.Module) QueryMsg {
	return QueryMsg{ModuleAddress: &ModuleAddress{Module: module}}
}

func QueryModule(env *vm.Env, hub string, module nft.Module) (string, error) {
	var addr string
	err := env.Query(hub, QueryModuleAddress(module), &addr)
	return addr, err
}
