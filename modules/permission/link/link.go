package link

import (
	"fmt"

	"github.com/MixinNetwork/nfthub/modules/hub"
	"github.com/MixinNetwork/nfthub/modules/mint"
	"github.com/MixinNetwork/nfthub/modules/permission"
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
)

const (
	Permission = "link"

	keyConfig     = "config"
	keyPermission = "permission"
)

// LinkCheck asks that every collection of CollectionIds is linked to
// CollectionId in the mint module.
type LinkCheck struct {
	CollectionId  uint32
	CollectionIds []uint32
}

type Config struct {
	Admin string
}

type QueryMsg struct {
	Config *struct{}
}

type Contract struct{}

func New() vm.Actor {
	return &Contract{}
}

func NewCheck(checks ...LinkCheck) nft.PermissionCheck {
	return nft.PermissionCheck{Permission: Permission, Data: vm.Encode(checks)}
}

func (c *Contract) Instantiate(ctx *vm.Context, msg []byte) (*vm.Response, error) {
	var rm nft.RegisterMsg
	err := vm.DecodeMsg(msg, &rm)
	if err != nil {
		return nil, err
	}
	if err := vm.ValidateAddress(rm.Admin); err != nil {
		return nil, err
	}
	err = ctx.Storage.Save([]byte(keyConfig), &Config{Admin: rm.Admin})
	if err != nil {
		return nil, err
	}
	err = ctx.Storage.Save([]byte(keyPermission), ctx.Sender)
	return vm.NewResponse("instantiate").Add("permission", ctx.Sender), err
}

func (c *Contract) Execute(ctx *vm.Context, msg []byte) (*vm.Response, error) {
	var cm nft.CheckMsg
	err := vm.DecodeMsg(msg, &cm)
	if err != nil {
		return nil, err
	}
	if cm.Check == nil {
		return nil, vm.ErrInvalidMessage
	}
	var checks []LinkCheck
	if len(cm.Check.Data) > 0 {
		err = vm.DecodeMsg(cm.Check.Data, &checks)
		if err != nil {
			return nil, err
		}
	}
	if len(checks) == 0 {
		return nil, permission.ErrEmptyReferenceSet
	}

	var parent string
	_, err = ctx.Storage.Load([]byte(keyPermission), &parent)
	if err != nil {
		return nil, err
	}
	pc, err := permission.QueryConfig(ctx.Env, parent)
	if err != nil {
		return nil, err
	}
	mintAddr, err := hub.QueryModule(ctx.Env, pc.Hub, nft.ModuleMint)
	if err != nil {
		return nil, err
	}

	for _, lc := range checks {
		if len(lc.CollectionIds) == 0 {
			return nil, permission.ErrEmptyReferenceSet
		}
		linked, err := mint.QueryLinkedCollections(ctx.Env, mintAddr, lc.CollectionId)
		if err != nil {
			return nil, err
		}
		declared := make(map[uint32]bool, len(linked))
		for _, id := range linked {
			declared[id] = true
		}
		for _, id := range lc.CollectionIds {
			if !declared[id] {
				return nil, errors.Wrapf(permission.ErrReferenceNotAuthorized, "%d not linked to %d", id, lc.CollectionId)
			}
		}
	}
	return vm.NewResponse("check").Add("checks", fmt.Sprint(len(checks))), nil
}

func (c *Contract) Query(env *vm.Env, msg []byte) ([]byte, error) {
	var qm QueryMsg
	err := vm.DecodeMsg(msg, &qm)
	if err != nil {
		return nil, err
	}
	if qm.Config == nil {
		return nil, vm.ErrInvalidMessage
	}
	var conf Config
	_, err = env.Storage.Load([]byte(keyConfig), &conf)
	if err != nil {
		return nil, err
	}
	return vm.Encode(&conf), nil
}
