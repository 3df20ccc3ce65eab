package vm

import (
	"fmt"
	"time"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/fox-one/mixin-sdk-go"
	"github.com/pkg/errors"
)

const (
	MaxCallDepth = 64

	contractPrefix      = "VM:CONTRACT:INFO:"
	contractSequenceKey = "VM:CONTRACT:SEQUENCE"
)

// invocation is one top level call tree. Everything runs depth first
// against a single transaction, so the tree commits or fails as a whole.
type invocation struct {
	codes  map[uint64]Code
	txn    Transaction
	now    time.Time
	depth  int
	events []Event
}

func readContract(txn Transaction, address string) (*ContractInfo, error) {
	val, err := txn.Get([]byte(contractPrefix + address))
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, errors.Wrap(ErrContractNotFound, address)
	}
	var info ContractInfo
	err = Decode(val, &info)
	return &info, err
}

func (inv *invocation) nextAddress(creator string) (string, error) {
	var seq uint64
	val, err := inv.txn.Get([]byte(contractSequenceKey))
	if err != nil {
		return "", err
	}
	if val != nil {
		err = Decode(val, &seq)
		if err != nil {
			return "", err
		}
	}
	seq = seq + 1
	err = inv.txn.Set([]byte(contractSequenceKey), Encode(seq))
	if err != nil {
		return "", err
	}
	return mixin.UniqueConversationID(creator, fmt.Sprintf("instance:%d", seq)), nil
}

func (inv *invocation) enter() error {
	inv.depth++
	if inv.depth > MaxCallDepth {
		return ErrCallDepthExceeded
	}
	return nil
}

func (inv *invocation) leave() {
	inv.depth--
}

func (inv *invocation) env(address string, readonly bool) *Env {
	return &Env{
		Self:    address,
		Now:     inv.now,
		Storage: newStorage(inv.txn, address, readonly),
		inv:     inv,
	}
}

func (inv *invocation) load(address string) (Actor, error) {
	info, err := readContract(inv.txn, address)
	if err != nil {
		return nil, err
	}
	code := inv.codes[info.CodeId]
	if code == nil {
		return nil, errors.Wrapf(ErrUnknownCode, "%d", info.CodeId)
	}
	return code(), nil
}

func (inv *invocation) instantiate(sender string, msg *InstantiateMsg) (string, error) {
	defer inv.leave()
	if err := inv.enter(); err != nil {
		return "", err
	}
	code := inv.codes[msg.CodeId]
	if code == nil {
		return "", errors.Wrapf(ErrUnknownCode, "%d", msg.CodeId)
	}
	address, err := inv.nextAddress(sender)
	if err != nil {
		return "", err
	}
	info := &ContractInfo{
		Address:   address,
		CodeId:    msg.CodeId,
		Creator:   sender,
		Label:     msg.Label,
		CreatedAt: inv.now,
	}
	err = inv.txn.Set([]byte(contractPrefix+address), Encode(info))
	if err != nil {
		return "", err
	}
	if len(msg.Funds) > 0 {
		err = transfer(inv.txn, sender, address, msg.Funds)
		if err != nil {
			return "", err
		}
	}

	logger.Verbosef("VM.instantiate(%d, %s) => %s\n", msg.CodeId, sender, address)
	actor := code()
	ctx := &Context{Env: inv.env(address, false), Sender: sender, Funds: msg.Funds}
	res, err := actor.Instantiate(ctx, msg.Msg)
	if err != nil {
		return "", err
	}
	return address, inv.dispatch(address, actor, res)
}

func (inv *invocation) execute(sender string, msg *ExecuteMsg) ([]byte, error) {
	defer inv.leave()
	if err := inv.enter(); err != nil {
		return nil, err
	}
	actor, err := inv.load(msg.Contract)
	if err != nil {
		return nil, err
	}
	if len(msg.Funds) > 0 {
		err = transfer(inv.txn, sender, msg.Contract, msg.Funds)
		if err != nil {
			return nil, err
		}
	}

	logger.Verbosef("VM.execute(%s, %s)\n", msg.Contract, sender)
	ctx := &Context{Env: inv.env(msg.Contract, false), Sender: sender, Funds: msg.Funds}
	res, err := actor.Execute(ctx, msg.Msg)
	if err != nil {
		return nil, err
	}
	return res.Data, inv.dispatch(msg.Contract, actor, res)
}

func (inv *invocation) query(contract string, msg []byte) ([]byte, error) {
	defer inv.leave()
	if err := inv.enter(); err != nil {
		return nil, err
	}
	actor, err := inv.load(contract)
	if err != nil {
		return nil, err
	}
	return actor.Query(inv.env(contract, true), msg)
}

// dispatch runs the requests of res in order. A reply continuation runs
// right after its child succeeded and before the next sibling.
func (inv *invocation) dispatch(self string, actor Actor, res *Response) error {
	if res == nil {
		return nil
	}
	inv.events = append(inv.events, Event{
		Contract:   self,
		Action:     res.action(),
		Attributes: res.Attributes,
	})

	for _, sub := range res.Messages {
		messagesTotal.WithLabelValues(sub.kind()).Inc()
		reply := &Reply{Id: sub.Id}
		switch {
		case sub.Bank != nil:
			err := transfer(inv.txn, self, sub.Bank.To, sub.Bank.Amount)
			if err != nil {
				return err
			}
		case sub.Execute != nil:
			data, err := inv.execute(self, sub.Execute)
			if err != nil {
				return err
			}
			reply.Data = data
		case sub.Instantiate != nil:
			address, err := inv.instantiate(self, sub.Instantiate)
			if err != nil {
				return &ChildError{CodeId: sub.Instantiate.CodeId, Err: err}
			}
			reply.ContractAddress = address
		default:
			return errors.Wrap(ErrInvalidMessage, "empty sub message")
		}

		if sub.ReplyOn != ReplySuccess {
			continue
		}
		replier, ok := actor.(Replier)
		if !ok {
			return errors.Wrap(ErrReplyNotSupported, self)
		}
		repliesTotal.Inc()
		rr, err := replier.Reply(inv.env(self, false), reply)
		if err != nil {
			return err
		}
		err = inv.dispatch(self, actor, rr)
		if err != nil {
			return err
		}
	}
	return nil
}
