package vm

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type ContractInfo struct {
	Address   string
	CodeId    uint64
	Creator   string
	Label     string
	CreatedAt time.Time
}

// Env is what an actor sees of the world during a call: its own address,
// the block time of the invocation, its private storage and read access
// to other actors.
type Env struct {
	Self    string
	Now     time.Time
	Storage *Storage

	inv *invocation
}

// Context is the Env of an instantiate or execute call, with the caller
// and the coins already moved to Self.
type Context struct {
	*Env
	Sender string
	Funds  []Coin
}

func (env *Env) Query(contract string, msg, out interface{}) error {
	b, err := env.inv.query(contract, Encode(msg))
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return Decode(b, out)
}

func (env *Env) Balance(address, denom string) (decimal.Decimal, error) {
	return readBalance(env.inv.txn, address, denom)
}

func (env *Env) Contract(address string) (*ContractInfo, error) {
	return readContract(env.inv.txn, address)
}

func (ctx *Context) FundsOf(denom string) decimal.Decimal {
	for _, c := range ctx.Funds {
		if c.Denom == denom {
			return c.Amount
		}
	}
	return decimal.Zero
}

func DecodeMsg(b []byte, val interface{}) error {
	err := Decode(b, val)
	if err != nil {
		return errors.Wrap(ErrInvalidMessage, err.Error())
	}
	return nil
}
