package vm

type ReplyOn int

const (
	ReplyNever ReplyOn = iota
	ReplySuccess
)

type BankMsg struct {
	To     string
	Amount []Coin
}

type ExecuteMsg struct {
	Contract string
	Msg      []byte
	Funds    []Coin
}

type InstantiateMsg struct {
	CodeId uint64
	Msg    []byte
	Funds  []Coin
	Label  string
}

// SubMsg is a request issued by an actor, dispatched after its handler
// returns. Exactly one of Bank, Execute and Instantiate is set.
type SubMsg struct {
	Id          uint64
	ReplyOn     ReplyOn
	Bank        *BankMsg
	Execute     *ExecuteMsg
	Instantiate *InstantiateMsg
}

func NewBankMsg(to string, amount ...Coin) SubMsg {
	return SubMsg{Bank: &BankMsg{To: to, Amount: amount}}
}

func NewExecuteMsg(contract string, msg interface{}, funds ...Coin) SubMsg {
	return SubMsg{Execute: &ExecuteMsg{
		Contract: contract,
		Msg:      Encode(msg),
		Funds:    funds,
	}}
}

func NewInstantiateMsg(codeId uint64, msg interface{}, label string, funds ...Coin) SubMsg {
	return SubMsg{Instantiate: &InstantiateMsg{
		CodeId: codeId,
		Msg:    Encode(msg),
		Funds:  funds,
		Label:  label,
	}}
}

func (m SubMsg) WithReply(id uint64) SubMsg {
	m.Id = id
	m.ReplyOn = ReplySuccess
	return m
}

func (m SubMsg) kind() string {
	switch {
	case m.Bank != nil:
		return "bank"
	case m.Execute != nil:
		return "execute"
	case m.Instantiate != nil:
		return "instantiate"
	}
	return "invalid"
}

// Reply is handed to the requesting actor right after its child request
// succeeded. ContractAddress is set for instantiate requests.
type Reply struct {
	Id              uint64
	ContractAddress string
	Data            []byte
}

type Attribute struct {
	Key   string
	Value string
}

type Event struct {
	Contract   string
	Action     string
	Attributes []Attribute
}

type Response struct {
	Messages   []SubMsg
	Attributes []Attribute
	Data       []byte
}

func NewResponse(action string) *Response {
	return &Response{Attributes: []Attribute{{Key: "action", Value: action}}}
}

func (r *Response) Add(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

func (r *Response) Send(msgs ...SubMsg) *Response {
	r.Messages = append(r.Messages, msgs...)
	return r
}

func (r *Response) WithData(data []byte) *Response {
	r.Data = data
	return r
}

func (r *Response) action() string {
	for _, a := range r.Attributes {
		if a.Key == "action" {
			return a.Value
		}
	}
	return ""
}
