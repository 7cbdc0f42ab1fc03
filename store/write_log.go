package store

import (
	"github.com/arbor-network/arbor/lib"
	"github.com/arbor-network/arbor/lib/crypto"
)

/*
	WriteLog is the uncommitted view application code executes against: a
	transaction-level op set layered over the open block's staged state, which
	is itself layered over the committed subspace. Reads resolve through the
	three levels in order; tombstones at an upper level suppress entries below.

	One WriteLog serves one transaction. CommitTx promotes the transaction's
	ops into the block level in ascending key order; Rollback drops them. The
	block level only reaches the byte store through Storage.CommitBlock.

	Every operation returns its deterministic gas charge alongside the result;
	the charges are pure byte-length functions of the inputs and outputs, so
	all nodes meter identically.
*/

type WriteLog struct {
	storage *Storage
	tx      *Txn
	closed  bool
}

// NewWriteLog() opens a transaction-level staging layer over the open block
func NewWriteLog(storage *Storage) *WriteLog {
	return &WriteLog{storage: storage, tx: NewTxn(storage.staged)}
}

// Write() records a pending write; later reads of the key within this
// transaction see the new value. Gas is the key length plus the value length.
func (w *WriteLog) Write(key lib.Key, value []byte) (gas uint64, err lib.ErrorI) {
	if err = w.ensureOpen(); err != nil {
		return 0, err
	}
	gas = key.Len() + uint64(len(value))
	err = w.tx.Set(key.Bytes(), value)
	return
}

// Delete() records a pending tombstone for the key.
// Gas is the byte length of the key.
func (w *WriteLog) Delete(key lib.Key) (gas uint64, err lib.ErrorI) {
	if err = w.ensureOpen(); err != nil {
		return 0, err
	}
	gas = key.Len()
	err = w.tx.Delete(key.Bytes())
	return
}

// Read() returns the most recent pending value for the key, falling back
// through the block level to the committed state. Gas is the key length plus
// the value length when a value is found.
func (w *WriteLog) Read(key lib.Key) (value []byte, gas uint64, err lib.ErrorI) {
	if err = w.ensureOpen(); err != nil {
		return nil, 0, err
	}
	value, err = w.tx.Get(key.Bytes())
	gas = key.Len() + uint64(len(value))
	return
}

// Has() reports whether the key holds a value under the write log.
// Gas is the byte length of the key.
func (w *WriteLog) Has(key lib.Key) (has bool, gas uint64, err lib.ErrorI) {
	if err = w.ensureOpen(); err != nil {
		return false, 0, err
	}
	value, err := w.tx.Get(key.Bytes())
	return value != nil, key.Len(), err
}

// IterPrefix() returns an ascending merged iterator: transaction ops over
// block ops over committed state, tombstones suppressing lower levels. The
// prefix length is charged up front; each yielded entry charges its own
// key+value length via PrefixIterator.Gas.
func (w *WriteLog) IterPrefix(prefix lib.Key) (it *PrefixIterator, gas uint64, err lib.ErrorI) {
	if err = w.ensureOpen(); err != nil {
		return nil, 0, err
	}
	inner, err := w.tx.Iterator(prefix.Bytes())
	if err != nil {
		return nil, 0, err
	}
	return &PrefixIterator{inner}, prefix.Len(), nil
}

// InitAccount() derives the next established address from the chain's address
// generator and records the account entry under it. The generator state
// advances even if the transaction later rolls back, so failed transactions
// consume generator entropy the same way on every node.
func (w *WriteLog) InitAccount(entropy []byte) (address []byte, gas uint64, err lib.ErrorI) {
	if err = w.ensureOpen(); err != nil {
		return nil, 0, err
	}
	address = w.storage.addressGen.Generate(entropy)
	gas, err = w.Write(lib.NewKey("account", crypto.AddressString(address)), address)
	if err != nil {
		return nil, 0, err
	}
	return address, gas, nil
}

// Size() returns the number of ops staged in this transaction
func (w *WriteLog) Size() int { return w.tx.Size() }

// Rollback() drops every op staged in this transaction; the block level is
// untouched. The write log is closed afterwards.
func (w *WriteLog) Rollback() {
	w.tx.Discard()
	w.closed = true
}

// CommitTx() promotes this transaction's ops into the block level in
// ascending key order. The write log is closed afterwards; the ops become
// durable only when the block commits.
func (w *WriteLog) CommitTx() lib.ErrorI {
	if err := w.ensureOpen(); err != nil {
		return err
	}
	if err := w.tx.Write(); err != nil {
		return err
	}
	w.closed = true
	return nil
}

func (w *WriteLog) ensureOpen() lib.ErrorI {
	if w.closed {
		return ErrTxClosed()
	}
	return nil
}
