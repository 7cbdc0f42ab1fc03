package store

import (
	"testing"

	"github.com/arbor-network/arbor/lib"
	"github.com/stretchr/testify/require"
)

// memStore builds an in-memory parent preloaded with the given pairs
func memStore(t *testing.T, pairs map[string]string) *Txn {
	parent := NewTxn(nullStore{})
	for k, v := range pairs {
		require.NoError(t, parent.Set([]byte(k), []byte(v)))
	}
	return parent
}

func collect(t *testing.T, it interface {
	Valid() bool
	Next()
	Key() []byte
	Value() []byte
	Close()
}) (keys, values []string) {
	defer it.Close()
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
		values = append(values, string(it.Value()))
	}
	return
}

func TestTxnGetSetDelete(t *testing.T) {
	parent := memStore(t, map[string]string{"a": "parent"})
	txn := NewTxn(parent)
	// parent values are visible through the txn
	got, err := txn.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("parent"), got)
	// staged writes shadow the parent without touching it
	require.NoError(t, txn.Set([]byte("a"), []byte("staged")))
	got, err = txn.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("staged"), got)
	got, err = parent.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("parent"), got)
	// staged tombstones hide the parent value
	require.NoError(t, txn.Delete([]byte("a")))
	got, err = txn.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, got)
	// empty keys are rejected
	require.Error(t, txn.Set(nil, []byte("v")))
	require.Error(t, txn.Delete(nil))
}

func TestTxnWriteFlushesAscending(t *testing.T) {
	parent := memStore(t, nil)
	txn := NewTxn(parent)
	for _, k := range []string{"c", "a", "b"} {
		require.NoError(t, txn.Set([]byte(k), []byte(k)))
	}
	var order []string
	require.NoError(t, txn.Ascend(func(key string, _ []byte, _ bool) lib.ErrorI {
		order = append(order, key)
		return nil
	}))
	require.Equal(t, []string{"a", "b", "c"}, order)
	require.NoError(t, txn.Write())
	require.Zero(t, txn.Size())
	got, err := parent.Get([]byte("b"))
	require.NoError(t, err)
	require.Equal(t, []byte("b"), got)
}

func TestTxnMergedIterator(t *testing.T) {
	parent := memStore(t, map[string]string{
		"k/1": "p1",
		"k/2": "p2",
		"k/4": "p4",
		"x/1": "out",
	})
	txn := NewTxn(parent)
	require.NoError(t, txn.Set([]byte("k/2"), []byte("t2"))) // shadows parent
	require.NoError(t, txn.Set([]byte("k/3"), []byte("t3"))) // between parent keys
	require.NoError(t, txn.Delete([]byte("k/4")))            // suppresses parent
	it, err := txn.Iterator([]byte("k/"))
	require.NoError(t, err)
	keys, values := collect(t, it)
	require.Equal(t, []string{"k/1", "k/2", "k/3"}, keys)
	require.Equal(t, []string{"p1", "t2", "t3"}, values)
	// reverse traversal mirrors the forward order
	rev, err := txn.RevIterator([]byte("k/"))
	require.NoError(t, err)
	keys, values = collect(t, rev)
	require.Equal(t, []string{"k/3", "k/2", "k/1"}, keys)
	require.Equal(t, []string{"t3", "t2", "p1"}, values)
}

func TestTxnNested(t *testing.T) {
	parent := memStore(t, map[string]string{"k/1": "p1"})
	outer := NewTxn(parent)
	require.NoError(t, outer.Set([]byte("k/2"), []byte("o2")))
	inner := NewTxn(outer)
	require.NoError(t, inner.Set([]byte("k/3"), []byte("i3")))
	require.NoError(t, inner.Delete([]byte("k/1")))
	it, err := inner.Iterator([]byte("k/"))
	require.NoError(t, err)
	keys, _ := collect(t, it)
	require.Equal(t, []string{"k/2", "k/3"}, keys)
	// discarding the inner txn leaves the outer untouched
	inner.Discard()
	it, err = outer.Iterator([]byte("k/"))
	require.NoError(t, err)
	keys, _ = collect(t, it)
	require.Equal(t, []string{"k/1", "k/2"}, keys)
}

func TestTxnNilValueStagesAsEmpty(t *testing.T) {
	txn := NewTxn(memStore(t, nil))
	// a nil write normalizes to a present empty value
	require.NoError(t, txn.Set([]byte("k"), nil))
	got, err := txn.Get([]byte("k"))
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}
