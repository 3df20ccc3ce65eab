package vm

import (
	"github.com/pkg/errors"
)

const actorStoragePrefix = "ACTOR:"

// Storage is the private key space of one actor inside the running
// transaction.
type Storage struct {
	txn      Transaction
	prefix   []byte
	readonly bool
}

func newStorage(txn Transaction, address string, readonly bool) *Storage {
	return &Storage{
		txn:      txn,
		prefix:   []byte(actorStoragePrefix + address + ":"),
		readonly: readonly,
	}
}

func (s *Storage) key(key []byte) []byte {
	return append(append([]byte{}, s.prefix...), key...)
}

func (s *Storage) Load(key []byte, val interface{}) (bool, error) {
	b, err := s.txn.Get(s.key(key))
	if err != nil || b == nil {
		return false, err
	}
	return true, Decode(b, val)
}

func (s *Storage) Has(key []byte) (bool, error) {
	return s.txn.Has(s.key(key))
}

func (s *Storage) Save(key []byte, val interface{}) error {
	if s.readonly {
		return errors.Wrap(ErrReadOnly, string(key))
	}
	return s.txn.Set(s.key(key), Encode(val))
}

func (s *Storage) Remove(key []byte) error {
	if s.readonly {
		return errors.Wrap(ErrReadOnly, string(key))
	}
	return s.txn.Delete(s.key(key))
}

// Range visits the records under prefix in key order, starting strictly
// after the given key suffix. The key passed to fn has the prefix removed.
func (s *Storage) Range(prefix, after []byte, limit int, fn func(key, val []byte) error) error {
	return s.txn.List(s.key(prefix), after, limit, fn)
}
