package store

import (
	"bytes"

	"github.com/MixinNetwork/nfthub/vm"
	"github.com/dgraph-io/badger/v3"
)

// Txn is a single badger transaction. Writes stay invisible to other
// transactions until Commit, and Discard drops all of them.
type Txn struct {
	txn *badger.Txn
}

func (bs *BadgerStore) NewTransaction(update bool) vm.Transaction {
	return &Txn{txn: bs.db.NewTransaction(update)}
}

func (t *Txn) Get(key []byte) ([]byte, error) {
	item, err := t.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (t *Txn) Has(key []byte) (bool, error) {
	_, err := t.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	return err == nil, err
}

func (t *Txn) Set(key, val []byte) error {
	return t.txn.Set(key, val)
}

func (t *Txn) Delete(key []byte) error {
	return t.txn.Delete(key)
}

// List walks the keys under prefix in ascending order, starting strictly
// after prefix+after when after is not empty. A limit of zero means no limit.
// The iterator is closed before fn runs, badger allows only one open iterator
// per read-write transaction.
func (t *Txn) List(prefix, after []byte, limit int, fn func(key, val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := t.txn.NewIterator(opts)

	var keys, vals [][]byte
	seek := append(append([]byte{}, prefix...), after...)
	for it.Seek(seek); it.Valid(); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)
		if len(after) > 0 && bytes.Equal(key, seek) {
			continue
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			it.Close()
			return err
		}
		keys = append(keys, key[len(prefix):])
		vals = append(vals, val)
		if len(keys) == limit {
			break
		}
	}
	it.Close()

	for i := range keys {
		err := fn(keys[i], vals[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Txn) Commit() error {
	return t.txn.Commit()
}

func (t *Txn) Discard() {
	t.txn.Discard()
}
