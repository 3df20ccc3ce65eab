package hub

import (
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
)

const DescriptionLimit = 512

// Contract is the hub registry. The instantiating account becomes the
// admin and is the only caller able to bind or unbind module addresses.
type Contract struct{}

func New() vm.Actor {
	return &Contract{}
}

func (c *Contract) Instantiate(ctx *vm.Context, msg []byte) (*vm.Response, error) {
	var im InstantiateMsg
	err := vm.DecodeMsg(msg, &im)
	if err != nil {
		return nil, err
	}
	if len(im.HubInfo.Description) > DescriptionLimit {
		return nil, ErrInvalidDescription
	}
	err = ctx.Storage.Save([]byte(keyConfig), &Config{Admin: ctx.Sender})
	if err != nil {
		return nil, err
	}
	err = ctx.Storage.Save([]byte(keyHubInfo), &im.HubInfo)
	if err != nil {
		return nil, err
	}
	return vm.NewResponse("instantiate").Add("admin", ctx.Sender).Add("name", im.HubInfo.Name), nil
}

func (c *Contract) Execute(ctx *vm.Context, msg []byte) (*vm.Response, error) {
	var em ExecuteMsg
	err := vm.DecodeMsg(msg, &em)
	if err != nil {
		return nil, err
	}
	conf, err := readConfig(ctx.Storage)
	if err != nil {
		return nil, err
	}
	if ctx.Sender != conf.Admin {
		return nil, nft.ErrUnauthorized
	}

	switch {
	case em.InitMintModule != nil:
		return c.initModule(ctx, conf, nft.ModuleMint, em.InitMintModule.CodeId, nil)
	case em.InitPermissionModule != nil:
		return c.initModule(ctx, conf, nft.ModulePermission, em.InitPermissionModule.CodeId, nil)
	case em.InitFeeModule != nil:
		return c.initModule(ctx, conf, nft.ModuleFee, em.InitFeeModule.CodeId, nil)
	case em.InitMarketplaceModule != nil:
		m := em.InitMarketplaceModule
		if m.NativeDenom == "" {
			return nil, errors.Wrap(nft.ErrInvalidArguments, "native denom")
		}
		data := vm.Encode(&MarketplaceData{NativeDenom: m.NativeDenom})
		return c.initModule(ctx, conf, nft.ModuleMarketplace, m.CodeId, data)
	case em.DeregisterModule != nil:
		return c.deregisterModule(ctx, em.DeregisterModule.Module)
	case em.UpdateHubInfo != nil:
		if len(em.UpdateHubInfo.Description) > DescriptionLimit {
			return nil, ErrInvalidDescription
		}
		err = ctx.Storage.Save([]byte(keyHubInfo), em.UpdateHubInfo)
		return vm.NewResponse("update_hub_info"), err
	}
	return nil, vm.ErrInvalidMessage
}

func (c *Contract) initModule(ctx *vm.Context, conf *Config, module nft.Module, codeId uint64, data []byte) (*vm.Response, error) {
	found, err := ctx.Storage.Has(moduleKey(module))
	if err != nil {
		return nil, err
	} else if found {
		return nil, errors.Wrap(ErrModuleAlreadyRegistered, string(module))
	}

	id := module.ReplyId()
	err = ctx.Storage.Save(pendingKey(id), module)
	if err != nil {
		return nil, err
	}
	rm := &nft.RegisterMsg{Admin: conf.Admin, Data: data}
	sub := vm.NewInstantiateMsg(codeId, rm, string(module)+" module").WithReply(id)
	return vm.NewResponse("init_module").Add("module", string(module)).Send(sub), nil
}

func (c *Contract) deregisterModule(ctx *vm.Context, module nft.Module) (*vm.Response, error) {
	if err := module.Validate(); err != nil {
		return nil, err
	}
	_, err := readModuleAddress(ctx.Storage, module)
	if err != nil {
		return nil, err
	}
	err = ctx.Storage.Remove(moduleKey(module))
	return vm.NewResponse("deregister_module").Add("module", string(module)), err
}

func (c *Contract) Reply(env *vm.Env, reply *vm.Reply) (*vm.Response, error) {
	var module nft.Module
	found, err := env.Storage.Load(pendingKey(reply.Id), &module)
	if err != nil {
		return nil, err
	} else if !found {
		return nil, nft.ErrInvalidReplyCorrelationId
	}
	err = env.Storage.Remove(pendingKey(reply.Id))
	if err != nil {
		return nil, err
	}
	err = env.Storage.Save(moduleKey(module), reply.ContractAddress)
	if err != nil {
		return nil, err
	}
	return vm.NewResponse("register_module").Add("module", string(module)).Add("address", reply.ContractAddress), nil
}

func (c *Contract) Query(env *vm.Env, msg []byte) ([]byte, error) {
	var qm QueryMsg
	err := vm.DecodeMsg(msg, &qm)
	if err != nil {
		return nil, err
	}
	switch {
	case qm.Config != nil:
		conf, err := readConfig(env.Storage)
		if err != nil {
			return nil, err
		}
		info, err := readHubInfo(env.Storage)
		if err != nil {
			return nil, err
		}
		return vm.Encode(&ConfigResponse{Admin: conf.Admin, HubInfo: *info}), nil
	case qm.ModuleAddress != nil:
		addr, err := readModuleAddress(env.Storage, qm.ModuleAddress.Module)
		if err != nil {
			return nil, err
		}
		return vm.Encode(addr), nil
	case qm.Modules != nil:
		var entries []ModuleEntry
		for _, m := range nft.Modules {
			addr, err := readModuleAddress(env.Storage, m)
			if errors.Is(err, ErrModuleNotRegistered) {
				continue
			} else if err != nil {
				return nil, err
			}
			entries = append(entries, ModuleEntry{Module: m, Address: addr})
		}
		return vm.Encode(entries), nil
	}
	return nil, vm.ErrInvalidMessage
}
