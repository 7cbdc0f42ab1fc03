package store

import (
	"fmt"

	"github.com/arbor-network/arbor/lib"
)

func ErrOpenDB(err error) lib.ErrorI {
	return lib.NewError(lib.CodeOpenDB, lib.StorageModule, fmt.Sprintf("openDB() failed with err: %s", err.Error()))
}

func ErrCloseDB(err error) lib.ErrorI {
	return lib.NewError(lib.CodeCloseDB, lib.StorageModule, fmt.Sprintf("closeDB() failed with err: %s", err.Error()))
}

func ErrCommitDB(err error) lib.ErrorI {
	return lib.NewError(lib.CodeCommitDB, lib.StorageModule, fmt.Sprintf("commitDB() failed with err: %s", err.Error()))
}

func ErrStoreGet(err error) lib.ErrorI {
	return lib.NewError(lib.CodeStoreGet, lib.StorageModule, fmt.Sprintf("store.get() failed with err: %s", err.Error()))
}

func ErrStoreSet(err error) lib.ErrorI {
	return lib.NewError(lib.CodeStoreSet, lib.StorageModule, fmt.Sprintf("store.set() failed with err: %s", err.Error()))
}

func ErrStoreDelete(err error) lib.ErrorI {
	return lib.NewError(lib.CodeStoreDelete, lib.StorageModule, fmt.Sprintf("store.delete() failed with err: %s", err.Error()))
}

func ErrStoreIter(err error) lib.ErrorI {
	return lib.NewError(lib.CodeStoreIter, lib.StorageModule, fmt.Sprintf("store.iterator() failed with err: %s", err.Error()))
}

func ErrInvalidKey(key []byte) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidKey, lib.StorageModule, fmt.Sprintf("store key %q is invalid", key))
}

// ErrDecode() surfaces stored bytes that do not match the expected record
// shape; this indicates state corruption or a schema mismatch and is never
// silently defaulted
func ErrDecode(err error) lib.ErrorI {
	return lib.NewError(lib.CodeDecode, lib.StorageModule, fmt.Sprintf("decoding stored value failed with err: %s", err.Error()))
}

// ErrPrunedHeight() is the expected, recoverable outcome of requesting a
// historical tree whose stores fell outside the retention window
func ErrPrunedHeight(height uint64) lib.ErrorI {
	return lib.NewError(lib.CodePrunedHeight, lib.StorageModule, fmt.Sprintf("tree stores for height %d have been pruned", height))
}

func ErrNotYetCommitted(height, committed uint64) lib.ErrorI {
	return lib.NewError(lib.CodeNotYetCommitted, lib.StorageModule, fmt.Sprintf("height %d exceeds the last committed height %d", height, committed))
}

// ErrContractViolation() marks a caller bug in the block lifecycle; it is
// fatal to the block pipeline and never retried internally
func ErrContractViolation(msg string) lib.ErrorI {
	return lib.NewError(lib.CodeContractViolation, lib.StorageModule, fmt.Sprintf("storage lifecycle contract violated: %s", msg))
}

func ErrInvalidMerkleTree(msg string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidMerkleTree, lib.StorageModule, fmt.Sprintf("merkle tree is invalid: %s", msg))
}

func ErrTxClosed() lib.ErrorI {
	return lib.NewError(lib.CodeTxClosed, lib.StorageModule, "operation on a discarded write log transaction")
}
