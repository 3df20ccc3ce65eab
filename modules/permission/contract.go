package permission

import (
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
)

const (
	keyConfig   = "config"
	keyHub      = "hub"
	keyOps      = "operators"
	keyReplySeq = "reply_seq"

	prefixModule      = "module_permissions:"
	prefixPermissions = "permissions:"
	prefixPending     = "pending:"
)

type Config struct {
	Admin string
}

// Contract routes permission checks of the hub modules to the policy
// actors enabled for them.
type Contract struct{}

func New() vm.Actor {
	return &Contract{}
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
	err = ctx.Storage.Save([]byte(keyHub), ctx.Sender)
	return vm.NewResponse("instantiate").Add("admin", rm.Admin), err
}

func readConfig(s *vm.Storage) (*Config, string, error) {
	var conf Config
	var hub string
	_, err := s.Load([]byte(keyConfig), &conf)
	if err != nil {
		return nil, "", err
	}
	_, err = s.Load([]byte(keyHub), &hub)
	return &conf, hub, err
}

func readOperators(s *vm.Storage) ([]string, error) {
	ops := []string{}
	_, err := s.Load([]byte(keyOps), &ops)
	return ops, err
}

func readPermissionAddress(s *vm.Storage, name string) (string, error) {
	var addr string
	found, err := s.Load([]byte(prefixPermissions+name), &addr)
	if err != nil {
		return "", err
	} else if !found {
		return "", errors.Wrap(ErrPermissionNotRegistered, name)
	}
	return addr, nil
}

func readModulePermissions(s *vm.Storage, module nft.Module) ([]string, error) {
	perms := []string{}
	_, err := s.Load([]byte(prefixModule+string(module)), &perms)
	return perms, err
}

func (c *Contract) Execute(ctx *vm.Context, msg []byte) (*vm.Response, error) {
	var em ExecuteMsg
	err := vm.DecodeMsg(msg, &em)
	if err != nil {
		return nil, err
	}
	if em.Check != nil {
		return c.check(ctx, em.Check)
	}

	conf, hub, err := readConfig(ctx.Storage)
	if err != nil {
		return nil, err
	}
	ops, err := readOperators(ctx.Storage)
	if err != nil {
		return nil, err
	}
	if em.UpdateOperators != nil {
		ops = nil
	}
	err = nft.CheckAdminPrivileges(ctx.Sender, ctx.Self, conf.Admin, hub, ops)
	if err != nil {
		return nil, err
	}

	switch {
	case em.RegisterPermission != nil:
		return c.registerPermission(ctx, conf, em.RegisterPermission)
	case em.UpdateModulePermissions != nil:
		m := em.UpdateModulePermissions
		if err := m.Module.Validate(); err != nil {
			return nil, err
		}
		for _, p := range m.Permissions {
			_, err := readPermissionAddress(ctx.Storage, p)
			if err != nil {
				return nil, err
			}
		}
		err = ctx.Storage.Save([]byte(prefixModule+string(m.Module)), m.Permissions)
		return vm.NewResponse("update_module_permissions").Add("module", string(m.Module)), err
	case em.UpdateOperators != nil:
		ops, err := nft.NormalizeOperators(em.UpdateOperators.Addrs)
		if err != nil {
			return nil, err
		}
		err = ctx.Storage.Save([]byte(keyOps), ops)
		return vm.NewResponse("update_operators"), err
	}
	return nil, vm.ErrInvalidMessage
}

func (c *Contract) registerPermission(ctx *vm.Context, conf *Config, m *RegisterPermission) (*vm.Response, error) {
	if m.Permission == "" {
		return nil, errors.Wrap(nft.ErrInvalidArguments, "permission name")
	}
	found, err := ctx.Storage.Has([]byte(prefixPermissions + m.Permission))
	if err != nil {
		return nil, err
	} else if found {
		return nil, errors.Wrap(ErrPermissionAlreadyRegistered, m.Permission)
	}

	var seq uint64
	_, err = ctx.Storage.Load([]byte(keyReplySeq), &seq)
	if err != nil {
		return nil, err
	}
	seq = seq + 1
	err = ctx.Storage.Save([]byte(keyReplySeq), seq)
	if err != nil {
		return nil, err
	}
	err = ctx.Storage.Save(vm.Key(prefixPending, vm.Uint64Key(seq)), m.Permission)
	if err != nil {
		return nil, err
	}

	rm := &nft.RegisterMsg{Admin: conf.Admin, Data: m.Msg}
	sub := vm.NewInstantiateMsg(m.CodeId, rm, m.Permission+" permission").WithReply(seq)
	return vm.NewResponse("register_permission").Add("permission", m.Permission).Send(sub), nil
}

func (c *Contract) Reply(env *vm.Env, reply *vm.Reply) (*vm.Response, error) {
	key := vm.Key(prefixPending, vm.Uint64Key(reply.Id))
	var name string
	found, err := env.Storage.Load(key, &name)
	if err != nil {
		return nil, err
	} else if !found {
		return nil, nft.ErrInvalidReplyCorrelationId
	}
	err = env.Storage.Remove(key)
	if err != nil {
		return nil, err
	}
	err = env.Storage.Save([]byte(prefixPermissions+name), reply.ContractAddress)
	return vm.NewResponse("bind_permission").Add("permission", name).Add("address", reply.ContractAddress), err
}

// check dispatches one policy call per entry, they run in the same call
// tree as the action they guard.
func (c *Contract) check(ctx *vm.Context, m *Check) (*vm.Response, error) {
	if len(m.Msg) == 0 {
		return nil, ErrEmptyReferenceSet
	}
	var checks []nft.PermissionCheck
	err := vm.DecodeMsg(m.Msg, &checks)
	if err != nil {
		return nil, err
	}
	if len(checks) == 0 {
		return nil, ErrEmptyReferenceSet
	}
	enabled, err := readModulePermissions(ctx.Storage, m.Module)
	if err != nil {
		return nil, err
	}

	res := vm.NewResponse("check").Add("module", string(m.Module))
	for _, pc := range checks {
		allowed := false
		for _, p := range enabled {
			allowed = allowed || p == pc.Permission
		}
		if !allowed {
			return nil, errors.Wrapf(ErrInvalidPermissions, "%s for %s", pc.Permission, m.Module)
		}
		addr, err := readPermissionAddress(ctx.Storage, pc.Permission)
		if err != nil {
			return nil, err
		}
		cm := &nft.CheckMsg{Check: &nft.PermissionData{Data: pc.Data}}
		res.Send(vm.NewExecuteMsg(addr, cm))
	}
	return res, nil
}

func (c *Contract) Query(env *vm.Env, msg []byte) ([]byte, error) {
	var qm QueryMsg
	err := vm.DecodeMsg(msg, &qm)
	if err != nil {
		return nil, err
	}
	switch {
	case qm.Config != nil:
		conf, hub, err := readConfig(env.Storage)
		if err != nil {
			return nil, err
		}
		return vm.Encode(&ConfigResponse{Admin: conf.Admin, Hub: hub}), nil
	case qm.ModulePermissions != nil:
		perms, err := readModulePermissions(env.Storage, qm.ModulePermissions.Module)
		if err != nil {
			return nil, err
		}
		return vm.Encode(perms), nil
	case qm.PermissionAddress != nil:
		addr, err := readPermissionAddress(env.Storage, qm.PermissionAddress.Permission)
		if err != nil {
			return nil, err
		}
		return vm.Encode(addr), nil
	case qm.Operators != nil:
		ops, err := readOperators(env.Storage)
		if err != nil {
			return nil, err
		}
		return vm.Encode(ops), nil
	}
	return nil, vm.ErrInvalidMessage
}
