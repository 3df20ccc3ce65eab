package vm

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	NewTransaction(update bool) Transaction
}

type Transaction interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Set(key, val []byte) error
	Delete(key []byte) error
	List(prefix, after []byte, limit int, fn func(key, val []byte) error) error

	Commit() error
	Discard()
}

// Actor is the code behind an address. A fresh Actor value is built for
// every call, all state lives in the Storage of the Env.
type Actor interface {
	Instantiate(ctx *Context, msg []byte) (*Response, error)
	Execute(ctx *Context, msg []byte) (*Response, error)
	Query(env *Env, msg []byte) ([]byte, error)
}

// Replier is implemented by actors that request reply continuations.
type Replier interface {
	Reply(env *Env, reply *Reply) (*Response, error)
}

type Code func() Actor
