package vm

import (
	"context"
	"sync"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Result struct {
	Address string
	Data    []byte
	Events  []Event
}

// Runtime hosts the actors. Top level calls are serialized, and each one
// runs in its own read-write transaction which is committed only when
// the whole call tree succeeded.
type Runtime struct {
	mutex sync.Mutex
	store Store
	clock Clock
	codes map[uint64]Code
	names map[string]uint64
}

func NewRuntime(store Store, clock Clock) *Runtime {
	return &Runtime{
		store: store,
		clock: clock,
		codes: make(map[uint64]Code),
		names: make(map[string]uint64),
	}
}

// StoreCode registers code under a stable name. Codes must be registered
// in the same order on every start, as stored contracts refer to the id.
func (rt *Runtime) StoreCode(name string, code Code) uint64 {
	rt.mutex.Lock()
	defer rt.mutex.Unlock()

	if id, found := rt.names[name]; found {
		panic(id)
	}
	id := uint64(len(rt.codes) + 1)
	rt.codes[id] = code
	rt.names[name] = id
	return id
}

func (rt *Runtime) CodeId(name string) uint64 {
	rt.mutex.Lock()
	defer rt.mutex.Unlock()
	return rt.names[name]
}

func (rt *Runtime) Instantiate(ctx context.Context, sender string, codeId uint64, msg interface{}, label string, funds ...Coin) (*Result, error) {
	im := &InstantiateMsg{CodeId: codeId, Msg: Encode(msg), Funds: funds, Label: label}
	return rt.run(ctx, "instantiate", sender, func(inv *invocation) (*Result, error) {
		address, err := inv.instantiate(sender, im)
		if err != nil {
			return nil, err
		}
		return &Result{Address: address}, nil
	})
}

func (rt *Runtime) Execute(ctx context.Context, sender, contract string, msg interface{}, funds ...Coin) (*Result, error) {
	em := &ExecuteMsg{Contract: contract, Msg: Encode(msg), Funds: funds}
	return rt.run(ctx, "execute", sender, func(inv *invocation) (*Result, error) {
		data, err := inv.execute(sender, em)
		if err != nil {
			return nil, err
		}
		return &Result{Address: contract, Data: data}, nil
	})
}

func (rt *Runtime) Query(ctx context.Context, contract string, msg, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txn := rt.store.NewTransaction(false)
	defer txn.Discard()

	inv := &invocation{codes: rt.snapshotCodes(), txn: txn, now: rt.clock.Now()}
	b, err := inv.query(contract, Encode(msg))
	if err != nil {
		invocationsTotal.WithLabelValues("query", "failure").Inc()
		return err
	}
	invocationsTotal.WithLabelValues("query", "success").Inc()
	if out == nil {
		return nil
	}
	return Decode(b, out)
}

// Deposit credits coins to an address from outside the actor system.
func (rt *Runtime) Deposit(ctx context.Context, address string, coins ...Coin) error {
	_, err := rt.run(ctx, "deposit", address, func(inv *invocation) (*Result, error) {
		err := ValidateCoins(coins)
		if err != nil {
			return nil, err
		}
		for _, c := range coins {
			err = credit(inv.txn, address, c)
			if err != nil {
				return nil, err
			}
		}
		return &Result{Address: address}, nil
	})
	return err
}

func (rt *Runtime) Balance(address, denom string) (decimal.Decimal, error) {
	txn := rt.store.NewTransaction(false)
	defer txn.Discard()
	return readBalance(txn, address, denom)
}

func (rt *Runtime) Contract(address string) (*ContractInfo, error) {
	txn := rt.store.NewTransaction(false)
	defer txn.Discard()
	return readContract(txn, address)
}

func (rt *Runtime) snapshotCodes() map[uint64]Code {
	rt.mutex.Lock()
	defer rt.mutex.Unlock()
	codes := make(map[uint64]Code, len(rt.codes))
	for id, c := range rt.codes {
		codes[id] = c
	}
	return codes
}

func (rt *Runtime) run(ctx context.Context, entry, sender string, fn func(inv *invocation) (*Result, error)) (*Result, error) {
	rt.mutex.Lock()
	defer rt.mutex.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateAddress(sender); err != nil {
		return nil, err
	}

	txn := rt.store.NewTransaction(true)
	defer txn.Discard()

	inv := &invocation{codes: rt.codes, txn: txn, now: rt.clock.Now()}
	res, err := fn(inv)
	if err != nil {
		invocationsTotal.WithLabelValues(entry, "failure").Inc()
		logger.Verbosef("Runtime.%s(%s) => %v\n", entry, sender, err)
		return nil, err
	}
	err = txn.Commit()
	if err != nil {
		invocationsTotal.WithLabelValues(entry, "failure").Inc()
		return nil, errors.Wrap(err, "commit")
	}
	invocationsTotal.WithLabelValues(entry, "success").Inc()
	res.Events = inv.events
	return res, nil
}
