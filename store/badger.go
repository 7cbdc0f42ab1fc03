package store

import (
	"bytes"

	"github.com/arbor-network/arbor/lib"
	"github.com/dgraph-io/badger/v4"
)

/*
	BadgerDB is the ordered byte store underneath the engine. This file adapts
	badger transactions to the project's store interfaces:

	- TxnWrapper conforms a badger.Txn to lib.RWStoreI for reads and staged
	  writes inside one transaction
	- BatchWrapper adds the atomic Write()/Cancel() pair on top, which is the
	  commit path's "all durable mutation in one atomic batch" guarantee: a
	  badger transaction becomes visible in full on Commit or not at all
*/

// openDB() opens the underlying badger database, on disk or fully in memory
func openDB(config lib.Config, log lib.LoggerI) (*badger.DB, lib.ErrorI) {
	opts := badger.DefaultOptions(config.DBPath()).WithLogger(badgerLogger{log})
	if config.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(badgerLogger{log})
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return db, nil
}

// RWStoreI interface enforcement
var _ lib.RWStoreI = &TxnWrapper{}

// TxnWrapper is a wrapper over the badgerDB Txn object that conforms to the RWStoreI interface
type TxnWrapper struct {
	logger lib.LoggerI
	db     *badger.Txn
	prefix []byte
}

// NewTxnWrapper() creates a new TxnWrapper with the provided params
func NewTxnWrapper(db *badger.Txn, logger lib.LoggerI, prefix []byte) *TxnWrapper {
	return &TxnWrapper{
		logger: logger,
		db:     db,
		prefix: prefix,
	}
}

// Get() retrieves the value associated with the key from the badger
// transaction. Absence is reported as nil; a stored zero-length value comes
// back as an empty non-nil slice so presence survives the round trip.
func (t *TxnWrapper) Get(k []byte) ([]byte, lib.ErrorI) {
	item, err := t.db.Get(lib.Append(t.prefix, k))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, ErrStoreGet(err)
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, ErrStoreGet(err)
	}
	if val == nil {
		val = []byte{}
	}
	return val, nil
}

// Set() stores the key-value pair in the badger transaction
func (t *TxnWrapper) Set(k, v []byte) lib.ErrorI {
	if err := t.db.Set(lib.Append(t.prefix, k), v); err != nil {
		return ErrStoreSet(err)
	}
	return nil
}

// Delete() removes the key-value pair from the badger transaction
func (t *TxnWrapper) Delete(k []byte) lib.ErrorI {
	if err := t.db.Delete(lib.Append(t.prefix, k)); err != nil {
		return ErrStoreDelete(err)
	}
	return nil
}

// Iterator() creates a new iterator for the given prefix in the badger transaction
func (t *TxnWrapper) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	fullPrefix := lib.Append(t.prefix, prefix)
	parent := t.db.NewIterator(badger.IteratorOptions{Prefix: fullPrefix})
	parent.Rewind()
	return &Iterator{parent: parent, prefix: t.prefix}, nil
}

// RevIterator() creates a new reverse iterator for the given prefix in the badger transaction
func (t *TxnWrapper) RevIterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	fullPrefix := lib.Append(t.prefix, prefix)
	parent := t.db.NewIterator(badger.IteratorOptions{Reverse: true, Prefix: fullPrefix})
	seekLast(parent, fullPrefix)
	return &Iterator{parent: parent, prefix: t.prefix}, nil
}

// Discard() discards the underlying badger transaction
func (t *TxnWrapper) Discard() { t.db.Discard() }

// seekLast() positions a reverse iterator at the last key for the given prefix.
// The seek target extends the prefix with 0xFF bytes so it orders after every
// real key under the prefix while still carrying the prefix itself.
func seekLast(it *badger.Iterator, prefix []byte) {
	it.Seek(append(lib.CopyBytes(prefix), bytes.Repeat([]byte{0xFF}, lib.MaxKeyBytes)...))
}

// IteratorI interface enforcement
var _ lib.IteratorI = &Iterator{}

// Iterator wraps badger's iterator to satisfy the IteratorI interface,
// stripping the store's namespace prefix from yielded keys
type Iterator struct {
	parent *badger.Iterator
	prefix []byte
}

func (i *Iterator) Valid() bool { return i.parent.Valid() }
func (i *Iterator) Next()       { i.parent.Next() }
func (i *Iterator) Close()      { i.parent.Close() }

func (i *Iterator) Key() []byte {
	key := i.parent.Item().KeyCopy(nil)
	return key[len(i.prefix):]
}

func (i *Iterator) Value() []byte {
	value, err := i.parent.Item().ValueCopy(nil)
	if err != nil {
		return nil
	}
	if value == nil {
		value = []byte{}
	}
	return value
}

// BatchWriterI interface enforcement
var _ lib.BatchWriterI = &BatchWrapper{}

// BatchWrapper is the atomic write batch of one commit: stage with
// Set()/Delete(), make durable with Write(), abandon with Cancel()
type BatchWrapper struct {
	*TxnWrapper
}

// NewBatchWrapper() opens a fresh read-write transaction to stage a commit into
func NewBatchWrapper(db *badger.DB, logger lib.LoggerI) *BatchWrapper {
	return &BatchWrapper{TxnWrapper: NewTxnWrapper(db.NewTransaction(true), logger, nil)}
}

// Write() atomically persists every staged operation
func (b *BatchWrapper) Write() lib.ErrorI {
	if err := b.db.Commit(); err != nil {
		return ErrCommitDB(err)
	}
	return nil
}

// Cancel() discards every staged operation
func (b *BatchWrapper) Cancel() { b.db.Discard() }

// badgerLogger adapts the project logger to badger's logging interface
type badgerLogger struct{ log lib.LoggerI }

func (b badgerLogger) Errorf(format string, args ...interface{})   { b.log.Errorf(format, args...) }
func (b badgerLogger) Warningf(format string, args ...interface{}) { b.log.Warnf(format, args...) }
func (b badgerLogger) Infof(format string, args ...interface{})    { b.log.Debugf(format, args...) }
func (b badgerLogger) Debugf(format string, args ...interface{})   { b.log.Debugf(format, args...) }
