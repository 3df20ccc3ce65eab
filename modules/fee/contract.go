package fee

import (
	"github.com/MixinNetwork/nfthub/nft"
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Contract keeps the fee tables of the hub modules and splits incoming
// payments across their shares.
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

func (c *Contract) Execute(ctx *vm.Context, msg []byte) (*vm.Response, error) {
	var em ExecuteMsg
	err := vm.DecodeMsg(msg, &em)
	if err != nil {
		return nil, err
	}
	switch {
	case em.SetFee != nil:
		return c.setFee(ctx, em.SetFee)
	case em.RemoveFee != nil:
		return c.removeFee(ctx, em.RemoveFee)
	case em.Distribute != nil:
		return c.distribute(ctx, em.Distribute)
	}
	return nil, vm.ErrInvalidMessage
}

func (c *Contract) checkAdmin(ctx *vm.Context) error {
	conf, hub, err := readConfig(ctx.Storage)
	if err != nil {
		return err
	}
	return nft.CheckAdminPrivileges(ctx.Sender, ctx.Self, conf.Admin, hub, nil)
}

func (c *Contract) setFee(ctx *vm.Context, m *SetFee) (*vm.Response, error) {
	if err := c.checkAdmin(ctx); err != nil {
		return nil, err
	}
	if err := m.FeeType.validate(); err != nil {
		return nil, err
	}
	if err := validateName(m.Module); err != nil {
		return nil, err
	}
	if err := validateName(m.FeeName); err != nil {
		return nil, err
	}
	if m.Address != "" {
		if err := vm.ValidateAddress(m.Address); err != nil {
			return nil, err
		}
	}

	p := &Payment{Address: m.Address, Value: m.Value}
	switch m.FeeType {
	case FeeTypePercentage:
		rate, err := nft.NormalizeRate(m.Value)
		if err != nil || rate.IsZero() {
			return nil, errors.Wrap(ErrInvalidFee, m.Value.String())
		}
		p.Value = rate
		payments, err := listPayments(ctx.Storage, m.FeeType, m.Module)
		if err != nil {
			return nil, err
		}
		total := rate
		for _, np := range payments {
			if np.Name != m.FeeName {
				total = total.Add(np.Value)
			}
		}
		if total.GreaterThan(decimal.NewFromInt(1)) {
			return nil, errors.Wrapf(ErrPercentageOverflow, "%s %s", m.Module, total)
		}
	case FeeTypeFixed:
		if vm.ValidateAmount(m.Value) != nil || m.Value.IsZero() {
			return nil, errors.Wrap(ErrInvalidFee, m.Value.String())
		}
	}

	err := ctx.Storage.Save(feeKey(m.FeeType, m.Module, m.FeeName), p)
	if err != nil {
		return nil, err
	}
	res := vm.NewResponse("set_fee").Add("fee_type", string(m.FeeType))
	return res.Add("module", m.Module).Add("fee_name", m.FeeName).Add("value", p.Value.String()), nil
}

func (c *Contract) removeFee(ctx *vm.Context, m *RemoveFee) (*vm.Response, error) {
	if err := c.checkAdmin(ctx); err != nil {
		return nil, err
	}
	if err := m.FeeType.validate(); err != nil {
		return nil, err
	}
	_, err := readPayment(ctx.Storage, m.FeeType, m.Module, m.FeeName)
	if err != nil {
		return nil, err
	}
	err = ctx.Storage.Remove(feeKey(m.FeeType, m.Module, m.FeeName))
	return vm.NewResponse("remove_fee").Add("module", m.Module).Add("fee_name", m.FeeName), err
}

// distribute pays the attached coin out to the shares of a module. Fixed
// shares are paid their exact value. Percentage shares are paid pro rata
// rounded down, the last share in key order takes the remainder.
func (c *Contract) distribute(ctx *vm.Context, m *Distribute) (*vm.Response, error) {
	if err := m.FeeType.validate(); err != nil {
		return nil, err
	}
	if len(ctx.Funds) != 1 {
		return nil, errors.Wrap(nft.ErrInvalidFunds, "single coin required")
	}
	coin := ctx.Funds[0]

	payments, err := listPayments(ctx.Storage, m.FeeType, m.Module)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, errors.Wrap(ErrNoPayments, m.Module)
	}
	custom := make(map[string]string)
	for _, ca := range m.CustomAddresses {
		if err := vm.ValidateAddress(ca.Address); err != nil {
			return nil, err
		}
		custom[ca.FeeName] = ca.Address
	}

	amounts := make([]decimal.Decimal, len(payments))
	switch m.FeeType {
	case FeeTypeFixed:
		total := decimal.Zero
		for i, p := range payments {
			amounts[i] = p.Value
			total = total.Add(p.Value)
		}
		if !total.Equal(coin.Amount) {
			return nil, errors.Wrapf(nft.ErrInvalidFunds, "expected %s got %s", total, coin.Amount)
		}
	case FeeTypePercentage:
		total := decimal.Zero
		for _, p := range payments {
			total = total.Add(p.Value)
		}
		rest := coin.Amount
		for i, p := range payments {
			if i == len(payments)-1 {
				amounts[i] = rest
				break
			}
			share, _ := coin.Amount.Mul(p.Value).QuoRem(total, 0)
			amounts[i] = share
			rest = rest.Sub(amounts[i])
		}
	}

	res := vm.NewResponse("distribute").Add("module", m.Module).Add("amount", coin.Amount.String())
	for i, p := range payments {
		if amounts[i].IsZero() {
			continue
		}
		to := p.Address
		if addr, found := custom[p.Name]; found {
			to = addr
		}
		if to == "" {
			return nil, errors.Wrap(ErrNoPaymentAddress, p.Name)
		}
		res.Send(vm.NewBankMsg(to, vm.Coin{Denom: coin.Denom, Amount: amounts[i]}))
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
	case qm.PercentageFee != nil:
		p, err := readPayment(env.Storage, FeeTypePercentage, qm.PercentageFee.Module, qm.PercentageFee.FeeName)
		if err != nil {
			return nil, err
		}
		return vm.Encode(p), nil
	case qm.FixedFee != nil:
		p, err := readPayment(env.Storage, FeeTypeFixed, qm.FixedFee.Module, qm.FixedFee.FeeName)
		if err != nil {
			return nil, err
		}
		return vm.Encode(p), nil
	case qm.TotalPercentageFee != nil:
		return c.total(env, FeeTypePercentage, qm.TotalPercentageFee.Module)
	case qm.TotalFixedFee != nil:
		return c.total(env, FeeTypeFixed, qm.TotalFixedFee.Module)
	case qm.Keys != nil:
		payments, err := listPayments(env.Storage, qm.Keys.FeeType, qm.Keys.Module)
		if err != nil {
			return nil, err
		}
		keys := make([]string, len(payments))
		for i, p := range payments {
			keys[i] = p.Name
		}
		return vm.Encode(keys), nil
	}
	return nil, vm.ErrInvalidMessage
}

func (c *Contract) total(env *vm.Env, t FeeType, module string) ([]byte, error) {
	payments, err := listPayments(env.Storage, t, module)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Value)
	}
	return vm.Encode(total), nil
}
