package nft

import (
	"github.com/pkg/errors"
)

type Module string

const (
	ModuleMint        Module = "mint"
	ModulePermission  Module = "permission"
	ModuleMarketplace Module = "marketplace"
	ModuleFee         Module = "fee"
)

var Modules = []Module{ModuleMint, ModulePermission, ModuleMarketplace, ModuleFee}

func (m Module) Validate() error {
	for _, k := range Modules {
		if k == m {
			return nil
		}
	}
	return errors.Wrap(ErrInvalidModule, string(m))
}

// ReplyId is the correlation id used when a module of this kind is
// instantiated.
func (m Module) ReplyId() uint64 {
	for i, k := range Modules {
		if k == m {
			return uint64(i + 1)
		}
	}
	panic(m)
}

// RegisterMsg is the instantiate message of every module and sub actor
// created on behalf of an admin. Data is the actor specific payload.
type RegisterMsg struct {
	Admin string
	Data  []byte
}

// PermissionCheck is one entry of a permission request, Data is decoded
// by the policy actor bound to Permission.
type PermissionCheck struct {
	Permission string
	Data       []byte
}

// CheckMsg is executed on a policy actor.
type CheckMsg struct {
	Check *PermissionData
}

type PermissionData struct {
	Data []byte
}

// ReceiveNftMsg is executed on the recipient contract of a SendNft.
type ReceiveNftMsg struct {
	ReceiveNft *ReceiveNft
}

type ReceiveNft struct {
	Sender  string
	TokenId uint32
	Msg     []byte
}
