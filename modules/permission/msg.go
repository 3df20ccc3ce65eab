package permission

import (
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
)

type ExecuteMsg struct {
	RegisterPermission      *RegisterPermission
	UpdateModulePermissions *UpdateModulePermissions
	UpdateOperators         *UpdateOperators
	Check                   *Check
}

// RegisterPermission instantiates a policy actor and binds it to the
// permission name once it is up. Msg is its register payload.
type RegisterPermission struct {
	CodeId     uint64
	Permission string
	Msg        []byte
}

type UpdateModulePermissions struct {
	Module      nft.Module
	Permissions []string
}

type UpdateOperators struct {
	Addrs []string
}

// Check asks the policy actors of Msg, an encoded []nft.PermissionCheck,
// to approve an action of Module.
type Check struct {
	Module nft.Module
	Msg    []byte
}

type QueryMsg struct {
	Config            *struct{}
	ModulePermissions *ModuleQuery
	PermissionAddress *PermissionQuery
	Operators         *struct{}
}

type ModuleQuery struct {
	Module nft.Module
}

type PermissionQuery struct {
	Permission string
}

type ConfigResponse struct {
	Admin string
	Hub   string
}

func NewCheck(module nft.Module, checks []nft.PermissionCheck) ExecuteMsg {
	return ExecuteMsg{Check: &Check{Module: module, Msg: vm.Encode(checks)}}
}

func QueryConfig(env *vm.Env, contract string) (*ConfigResponse, error) {
	var conf ConfigResponse
	err := env.Query(contract, QueryMsg{Config: &struct{}{}}, &conf)
	return &conf, err
}
