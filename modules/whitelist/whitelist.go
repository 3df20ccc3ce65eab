package whitelist

import (
	"time"

	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
)

const (
	DefaultLimit = 30
	MaxLimit     = 100

	keyConfig     = "config"
	keyParent     = "parent"
	prefixMembers = "members:"
)

var (
	ErrInvalidTime = errors.New("invalid whitelist time range")
)

// Data is the register payload of a whitelist.
type Data struct {
	Members   []string
	StartTime time.Time
	EndTime   time.Time
}

type Config struct {
	Admin     string
	StartTime time.Time
	EndTime   time.Time
}

type ExecuteMsg struct {
	AddMembers    *Members
	RemoveMembers *Members
	UpdateEndTime *UpdateTime
}

type Members struct {
	Members []string
}

type UpdateTime struct {
	Time time.Time
}

type QueryMsg struct {
	Config    *struct{}
	IsActive  *struct{}
	HasMember *HasMember
	Members   *ListMembers
}

type HasMember struct {
	Address string
}

type ListMembers struct {
	StartAfter string
	Limit      int
}

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
	var data Data
	err = vm.DecodeMsg(rm.Data, &data)
	if err != nil {
		return nil, err
	}
	if err := vm.ValidateAddress(rm.Admin); err != nil {
		return nil, err
	}
	if !data.EndTime.After(data.StartTime) || !data.EndTime.After(ctx.Now) {
		return nil, ErrInvalidTime
	}
	conf := &Config{Admin: rm.Admin, StartTime: data.StartTime, EndTime: data.EndTime}
	err = ctx.Storage.Save([]byte(keyConfig), conf)
	if err != nil {
		return nil, err
	}
	err = ctx.Storage.Save([]byte(keyParent), ctx.Sender)
	if err != nil {
		return nil, err
	}
	err = c.update(ctx.Storage, data.Members, true)
	return vm.NewResponse("instantiate").Add("admin", rm.Admin), err
}

func (c *Contract) update(s *vm.Storage, members []string, add bool) error {
	for _, m := range members {
		if err := vm.ValidateAddress(m); err != nil {
			return err
		}
		var err error
		if add {
			err = s.Save([]byte(prefixMembers+m), true)
		} else {
			err = s.Remove([]byte(prefixMembers + m))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func readConfig(s *vm.Storage) (*Config, string, error) {
	var conf Config
	var parent string
	_, err := s.Load([]byte(keyConfig), &conf)
	if err != nil {
		return nil, "", err
	}
	_, err = s.Load([]byte(keyParent), &parent)
	return &conf, parent, err
}

func (c *Contract) Execute(ctx *vm.Context, msg []byte) (*vm.Response, error) {
	var em ExecuteMsg
	err := vm.DecodeMsg(msg, &em)
	if err != nil {
		return nil, err
	}
	conf, parent, err := readConfig(ctx.Storage)
	if err != nil {
		return nil, err
	}
	err = nft.CheckAdminPrivileges(ctx.Sender, ctx.Self, conf.Admin, parent, nil)
	if err != nil {
		return nil, err
	}

	switch {
	case em.AddMembers != nil:
		err = c.update(ctx.Storage, em.AddMembers.Members, true)
		return vm.NewResponse("add_members"), err
	case em.RemoveMembers != nil:
		err = c.update(ctx.Storage, em.RemoveMembers.Members, false)
		return vm.NewResponse("remove_members"), err
	case em.UpdateEndTime != nil:
		t := em.UpdateEndTime.Time
		if !t.After(conf.StartTime) || !t.After(ctx.Now) {
			return nil, ErrInvalidTime
		}
		conf.EndTime = t
		err = ctx.Storage.Save([]byte(keyConfig), conf)
		return vm.NewResponse("update_end_time"), err
	}
	return nil, vm.ErrInvalidMessage
}

func (c *Contract) Query(env *vm.Env, msg []byte) ([]byte, error) {
	var qm QueryMsg
	err := vm.DecodeMsg(msg, &qm)
	if err != nil {
		return nil, err
	}
	switch {
	case qm.Config != nil:
		conf, _, err := readConfig(env.Storage)
		if err != nil {
			return nil, err
		}
		return vm.Encode(conf), nil
	case qm.IsActive != nil:
		conf, _, err := readConfig(env.Storage)
		if err != nil {
			return nil, err
		}
		active := !env.Now.Before(conf.StartTime) && env.Now.Before(conf.EndTime)
		return vm.Encode(active), nil
	case qm.HasMember != nil:
		found, err := env.Storage.Has([]byte(prefixMembers + qm.HasMember.Address))
		if err != nil {
			return nil, err
		}
		return vm.Encode(found), nil
	case qm.Members != nil:
		limit := qm.Members.Limit
		if limit <= 0 {
			limit = DefaultLimit
		} else if limit > MaxLimit {
			limit = MaxLimit
		}
		members := []string{}
		err := env.Storage.Range([]byte(prefixMembers), []byte(qm.Members.StartAfter), limit, func(key, _ []byte) error {
			members = append(members, string(key))
			return nil
		})
		if err != nil {
			return nil, err
		}
		return vm.Encode(members), nil
	}
	return nil, vm.ErrInvalidMessage
}

func QueryIsActive(env *vm.Env, contract string) (bool, error) {
	var active bool
	err := env.Query(contract, QueryMsg{IsActive: &struct{}{}}, &active)
	return active, err
}

func QueryHasMember(env *vm.Env, contract, address string) (bool, error) {
	var member bool
	err := env.Query(contract, QueryMsg{HasMember: &HasMember{Address: address}}, &member)
	return member, err
}
