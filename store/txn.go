package store

import (
	"bytes"
	"sort"
	"strings"

	"github.com/arbor-network/arbor/lib"
)

// enforce the RWStoreI interface
var _ lib.RWStoreI = &Txn{}

/*
	Txn is the in-memory staging layer of the engine. It records set/delete
	operations without touching its parent and lets the caller either Write()
	them into the parent or Discard() them wholesale. Reads merge the staged
	operations over the parent as if Write() had already happened, with staged
	tombstones suppressing parent entries.

	The operations are additionally kept in a lexicographically sorted key
	list, so flushing and iteration always visit keys in ascending order -
	the same order the commit protocol folds mutations into the authenticated
	tree.

	CONTRACT:
	- not thread safe
	- Get() returns nil only for absent keys; present-but-empty values come
	  back as empty non-nil slices, tombstones read as absent
	- nested txns are supported; iteration cost grows with nesting depth
*/

type Txn struct {
	parent lib.RWStoreI // store to Write() to
	txn
}

// internal txn structure maintains the write operations sorted lexicographically by keys
type txn struct {
	ops       map[string]op // [string(key)] -> set/del operations saved in memory
	sorted    []string      // ops keys sorted lexicographically; needed for iteration
	sortedLen int           // len(sorted)
}

// op has the value portion of the operation and whether it is a *delete* or a *set*
type op struct {
	value  []byte // value of the key value pair
	delete bool   // is the operation a delete
}

// NewTxn() creates a new instance of a Txn with the specified parent store
func NewTxn(parent lib.RWStoreI) *Txn {
	return &Txn{parent: parent, txn: txn{ops: make(map[string]op), sorted: make([]string, 0)}}
}

// Get() retrieves the value for a given key from either the in-memory operations or the parent store
func (c *Txn) Get(key []byte) ([]byte, lib.ErrorI) {
	if v, found := c.ops[string(key)]; found {
		return v.value, nil
	}
	return c.parent.Get(key)
}

// Set() adds or updates the value for a key in the in-memory operations.
// An empty value is a present value; nil is reserved for absence, so a nil
// input is stored as an empty slice.
func (c *Txn) Set(key, value []byte) lib.ErrorI {
	if len(key) == 0 {
		return ErrInvalidKey(key)
	}
	if value == nil {
		value = []byte{}
	}
	c.update(string(key), value, false)
	return nil
}

// Delete() marks a key for deletion in the in-memory operations
func (c *Txn) Delete(key []byte) lib.ErrorI {
	if len(key) == 0 {
		return ErrInvalidKey(key)
	}
	c.update(string(key), nil, true)
	return nil
}

// update() modifies or adds an operation for a key and maintains the sorted order
func (c *Txn) update(key string, v []byte, delete bool) {
	if _, found := c.ops[key]; !found {
		c.addToSorted(key)
	}
	c.ops[key] = op{value: v, delete: delete}
}

// addToSorted() inserts a key into the sorted list of operations maintaining lexicographical order
func (c *Txn) addToSorted(key string) {
	i := sort.Search(c.sortedLen, func(i int) bool { return c.sorted[i] >= key })
	c.sorted = append(c.sorted, "")
	copy(c.sorted[i+1:], c.sorted[i:])
	c.sorted[i] = key
	c.sortedLen++
}

// Iterator() returns a merged iterator over the in-memory operations and the parent store for the given prefix
func (c *Txn) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	parent, err := c.parent.Iterator(prefix)
	if err != nil {
		return nil, err
	}
	return newTxnIterator(parent, c.txn, prefix, false), nil
}

// RevIterator() returns a merged reverse iterator over the in-memory operations and the parent store for the given prefix
func (c *Txn) RevIterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	parent, err := c.parent.RevIterator(prefix)
	if err != nil {
		return nil, err
	}
	return newTxnIterator(parent, c.txn, prefix, true), nil
}

// Discard() clears all in-memory operations and resets the sorted key list
func (c *Txn) Discard() { c.ops, c.sorted, c.sortedLen = make(map[string]op), make([]string, 0), 0 }

// Write() flushes the in-memory operations to the parent store in ascending
// key order and clears the in-memory changes
func (c *Txn) Write() (err lib.ErrorI) {
	for _, k := range c.sorted {
		if v := c.ops[k]; v.delete {
			if err = c.parent.Delete([]byte(k)); err != nil {
				return
			}
		} else {
			if err = c.parent.Set([]byte(k), v.value); err != nil {
				return
			}
		}
	}
	c.Discard()
	return
}

// Size() returns the number of staged operations
func (c *Txn) Size() int { return len(c.ops) }

// Ascend() visits every staged operation in ascending key order
func (c *Txn) Ascend(fn func(key string, value []byte, delete bool) lib.ErrorI) lib.ErrorI {
	for _, k := range c.sorted {
		v := c.ops[k]
		if err := fn(k, v.value, v.delete); err != nil {
			return err
		}
	}
	return nil
}

// enforce the Iterator interface
var _ lib.IteratorI = &TxnIterator{}

// TxnIterator walks the staged op list and a parent iterator as one ordered
// stream. The two cursors advance independently; whichever holds the smaller
// key (larger under reverse) is the current entry, a staged op on the same key
// wins over the parent, and staged tombstones drop the key from the stream
// entirely.
type TxnIterator struct {
	parent lib.IteratorI
	txn
	prefix  string
	index   int
	reverse bool
	useTxn  bool // current entry comes from the staged ops, not the parent
}

func newTxnIterator(parent lib.IteratorI, t txn, prefix []byte, reverse bool) *TxnIterator {
	return (&TxnIterator{parent: parent, txn: t, prefix: string(prefix), reverse: reverse}).First()
}

// First() places the staged-op cursor at the start of the prefix range for
// the chosen direction; the parent arrives already positioned
func (c *TxnIterator) First() *TxnIterator {
	if c.reverse {
		return c.revSeek()
	}
	return c.seek()
}

// Close() releases the parent iterator; the staged side holds no resources
func (c *TxnIterator) Close() { c.parent.Close() }

// Next() steps past the current entry. When both cursors sit on the same key
// the entry was merged, so both step together.
func (c *TxnIterator) Next() {
	if !c.parent.Valid() {
		c.txnNext()
		return
	}
	if c.txnInvalid() {
		c.parent.Next()
		return
	}
	switch c.compare(c.txnKey(), c.parent.Key()) {
	case 1:
		c.parent.Next()
	case 0:
		c.parent.Next()
		c.txnNext()
	case -1:
		c.txnNext()
	}
}

// Key() reads the key of whichever side Valid() selected
func (c *TxnIterator) Key() []byte {
	if c.useTxn {
		return c.txnKey()
	}
	return c.parent.Key()
}

// Value() reads the value of whichever side Valid() selected
func (c *TxnIterator) Value() []byte {
	if c.useTxn {
		return c.txnValue().value
	}
	return c.parent.Value()
}

// Valid() selects the current entry, skipping any run of tombstones. It
// recomputes the selection on every call rather than caching it; Next() moves
// either cursor, so a cached choice could point at the wrong side.
func (c *TxnIterator) Valid() bool {
	for {
		if !c.parent.Valid() {
			// staged ops only; land on the next live one
			c.txnFastForward()
			c.useTxn = true
			break
		}
		if c.txnInvalid() {
			c.useTxn = false
			break
		}
		cKey, pKey := c.txnKey(), c.parent.Key()
		switch c.compare(cKey, pKey) {
		case 1:
			c.useTxn = false
		case 0:
			// a staged tombstone swallows the parent entry; step both past it
			if c.txnValue().delete {
				c.parent.Next()
				c.txnNext()
				continue
			}
			c.useTxn = true
		case -1:
			if c.txnValue().delete {
				c.txnNext()
				continue
			}
			c.useTxn = true
		}
		break
	}
	return !c.txnInvalid() || c.parent.Valid()
}

// txnFastForward() moves the staged cursor to the next non-tombstone op, or
// past the end of the range
func (c *TxnIterator) txnFastForward() {
	for {
		if c.txnInvalid() || !c.txnValue().delete {
			return
		}
		c.txnNext()
	}
}

// txnInvalid() reports whether the staged cursor has left the prefix range
func (c *TxnIterator) txnInvalid() bool {
	if c.reverse {
		if c.index < 0 {
			return true
		}
	} else {
		if c.index >= c.sortedLen {
			return true
		}
	}
	return !strings.HasPrefix(c.sorted[c.index], c.prefix)
}

func (c *TxnIterator) txnKey() []byte { return []byte(c.sorted[c.index]) }

func (c *TxnIterator) txnValue() op { return c.ops[c.sorted[c.index]] }

// compare() orders two keys in the traversal direction
func (c *TxnIterator) compare(a, b []byte) int {
	if c.reverse {
		return bytes.Compare(a, b) * -1
	}
	return bytes.Compare(a, b)
}

// txnNext() steps the staged cursor in the traversal direction
func (c *TxnIterator) txnNext() {
	if c.reverse {
		c.index--
	} else {
		c.index++
	}
}

// seek() binary-searches the sorted key list for the start of the prefix range
func (c *TxnIterator) seek() *TxnIterator {
	c.index = sort.Search(c.sortedLen, func(i int) bool { return c.sorted[i] >= c.prefix })
	return c
}

// revSeek() starts just before the first key ordered after the prefix range
func (c *TxnIterator) revSeek() *TxnIterator {
	endPrefix := string(prefixEnd([]byte(c.prefix)))
	c.index = sort.Search(c.sortedLen, func(i int) bool { return c.sorted[i] >= endPrefix }) - 1
	return c
}
