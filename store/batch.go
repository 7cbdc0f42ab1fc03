package store

import (
	"github.com/arbor-network/arbor/lib"
)

// Batch collects writes and deletes detached from any block state; ExecBatch
// folds the whole set into the open block at once. Tree updates still happen
// only at commit, so building a large batch stays cheap.
type Batch struct {
	txn *Txn
}

// NewBatch() creates an empty batch
func (s *Storage) NewBatch() *Batch {
	return &Batch{txn: NewTxn(nullStore{})}
}

// BatchWrite() stages a write into the batch.
// Gas is the key length plus the value length.
func (s *Storage) BatchWrite(b *Batch, key lib.Key, value []byte) (gas uint64, err lib.ErrorI) {
	gas = key.Len() + uint64(len(value))
	err = b.txn.Set(key.Bytes(), value)
	return
}

// BatchDelete() stages a tombstone into the batch.
// Gas is the byte length of the key.
func (s *Storage) BatchDelete(b *Batch, key lib.Key) (gas uint64, err lib.ErrorI) {
	gas = key.Len()
	err = b.txn.Delete(key.Bytes())
	return
}

// ExecBatch() folds the batch into the open block's staged state in ascending
// key order and empties the batch
func (s *Storage) ExecBatch(b *Batch) lib.ErrorI {
	if !s.open {
		return ErrContractViolation("exec_batch called without an open block")
	}
	err := b.txn.Ascend(func(key string, value []byte, delete bool) lib.ErrorI {
		if delete {
			return s.staged.Delete([]byte(key))
		}
		return s.staged.Set([]byte(key), value)
	})
	if err != nil {
		return err
	}
	b.txn.Discard()
	return nil
}

// Size() returns the number of ops staged in the batch
func (b *Batch) Size() int { return b.txn.Size() }

// nullStore is the empty parent of a detached batch; it holds nothing and
// accepts nothing
type nullStore struct{}

func (nullStore) Get([]byte) ([]byte, lib.ErrorI) { return nil, nil }
func (nullStore) Set([]byte, []byte) lib.ErrorI {
	return ErrContractViolation("write against a detached batch parent")
}
func (nullStore) Delete([]byte) lib.ErrorI {
	return ErrContractViolation("delete against a detached batch parent")
}
func (nullStore) Iterator([]byte) (lib.IteratorI, lib.ErrorI)    { return emptyIterator{}, nil }
func (nullStore) RevIterator([]byte) (lib.IteratorI, lib.ErrorI) { return emptyIterator{}, nil }

// emptyIterator is an iterator over nothing
type emptyIterator struct{}

func (emptyIterator) Valid() bool   { return false }
func (emptyIterator) Next()         {}
func (emptyIterator) Key() []byte   { return nil }
func (emptyIterator) Value() []byte { return nil }
func (emptyIterator) Close()        {}
