package lib

/* This file contains the persistence interfaces consumed across the project */

// RWStoreI defines the Read/Write interface for basic db CRUD operations
type RWStoreI interface {
	RStoreI
	WStoreI
}

// WStoreI defines an interface for basic write operations
type WStoreI interface {
	Set(key, value []byte) ErrorI // set value bytes referenced by key bytes
	Delete(key []byte) ErrorI     // remove the key and its value
}

// RStoreI defines an interface for basic read operations
type RStoreI interface {
	Get(key []byte) ([]byte, ErrorI)               // access value bytes using key bytes; nil means absent, a present empty value is an empty non-nil slice
	Iterator(prefix []byte) (IteratorI, ErrorI)    // iterate the data one KV pair at a time in lexicographical order
	RevIterator(prefix []byte) (IteratorI, ErrorI) // iterate the data one KV pair at a time in reverse lexicographical order
}

// IteratorI defines an interface for iterating over key-value pairs in a data store
type IteratorI interface {
	Valid() bool           // if the item the iterator is pointing at is valid
	Next()                 // move to the next item
	Key() (key []byte)     // retrieve the key
	Value() (value []byte) // retrieve the value
	Close()                // close the iterator when done, ensuring proper resource management
}

// BatchWriterI is the atomic-batch contract of the underlying byte store: every
// staged Set/Delete becomes durable in a single Write or none of them do
type BatchWriterI interface {
	WStoreI
	Write() ErrorI // atomically persist all staged operations
	Cancel()       // discard all staged operations
}
