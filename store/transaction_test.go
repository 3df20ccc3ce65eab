package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionCommitAndDiscard(t *testing.T) {
	require := require.New(t)

	bs, err := OpenMemory()
	require.Nil(err)
	defer bs.Close()

	txn := bs.NewTransaction(true)
	require.Nil(txn.Set([]byte("A:1"), []byte("one")))
	val, err := txn.Get([]byte("A:1"))
	require.Nil(err)
	require.Equal("one", string(val))
	txn.Discard()

	val, err = bs.ReadProperty([]byte("A:1"))
	require.Nil(err)
	require.Nil(val)

	txn = bs.NewTransaction(true)
	require.Nil(txn.Set([]byte("A:1"), []byte("one")))
	require.Nil(txn.Commit())

	val, err = bs.ReadProperty([]byte("A:1"))
	require.Nil(err)
	require.Equal("one", string(val))

	txn = bs.NewTransaction(true)
	defer txn.Discard()
	found, err := txn.Has([]byte("A:1"))
	require.Nil(err)
	require.True(found)
	require.Nil(txn.Delete([]byte("A:1")))
	found, err = txn.Has([]byte("A:1"))
	require.Nil(err)
	require.False(found)
}

func TestTransactionList(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	bs, err := OpenMemory()
	require.Nil(err)
	defer bs.Close()

	txn := bs.NewTransaction(true)
	defer txn.Discard()
	for _, k := range []string{"L:a", "L:b", "L:c", "L:d", "M:a"} {
		require.Nil(txn.Set([]byte(k), []byte(k)))
	}

	var keys []string
	collect := func(key, val []byte) error {
		keys = append(keys, string(key))
		return nil
	}

	require.Nil(txn.List([]byte("L:"), nil, 0, collect))
	assert.Equal([]string{"a", "b", "c", "d"}, keys)

	keys = nil
	require.Nil(txn.List([]byte("L:"), []byte("b"), 0, collect))
	assert.Equal([]string{"c", "d"}, keys)

	keys = nil
	require.Nil(txn.List([]byte("L:"), nil, 2, collect))
	assert.Equal([]string{"a", "b"}, keys)

	keys = nil
	require.Nil(txn.List([]byte("L:"), []byte("d"), 2, collect))
	assert.Len(keys, 0)
}
