package fee

import (
	"github.com/MixinNetwork/nfthub/vm"
	"github.com/shopspring/decimal"
)

type FeeType string

const (
	FeeTypePercentage FeeType = "percentage"
	FeeTypeFixed      FeeType = "fixed"
)

type ExecuteMsg struct {
	SetFee     *SetFee
	RemoveFee  *RemoveFee
	Distribute *Distribute
}

// SetFee stores a share of a module. Value is a rate for percentage fees
// and an amount for fixed fees. Address may be left empty when the
// beneficiary is supplied at distribution time.
type SetFee struct {
	FeeType FeeType
	Module  string
	FeeName string
	Value   decimal.Decimal
	Address string
}

type RemoveFee struct {
	FeeType FeeType
	Module  string
	FeeName string
}

type CustomAddress struct {
	FeeName string
	Address string
}

type Distribute struct {
	FeeType         FeeType
	Module          string
	CustomAddresses []CustomAddress
}

type QueryMsg struct {
	Config             *struct{}
	PercentageFee      *FeeKey
	FixedFee           *FeeKey
	TotalPercentageFee *ModuleKey
	TotalFixedFee      *ModuleKey
	Keys               *Keys
}

type FeeKey struct {
	Module  string
	FeeName string
}

type ModuleKey struct {
	Module string
}

type Keys struct {
	FeeType FeeType
	Module  string
}

type Payment struct {
	Address string
	Value   decimal.Decimal
}

type ConfigResponse struct {
	Admin string
	Hub   string
}

// QueryFixedFee returns the fixed fee or zero when it is not set.
func QueryFixedFee(env *vm.Env, contract, module, name string) (decimal.Decimal, error) {
	var p Payment
	err := env.Query(contract, QueryMsg{FixedFee: &FeeKey{Module: module, FeeName: name}}, &p)
	if IsNotFound(err) {
		return decimal.Zero, nil
	}
	return p.Value, err
}

func QueryTotalPercentageFee(env *vm.Env, contract, module string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := env.Query(contract, QueryMsg{TotalPercentageFee: &ModuleKey{Module: module}}, &total)
	return total, err
}
