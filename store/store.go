package store

import (
	"sync"
	"time"

	"github.com/arbor-network/arbor/lib"
	"github.com/arbor-network/arbor/lib/crypto"
	"github.com/dgraph-io/badger/v4"
)

/*
	Storage is the block-oriented state engine. It owns the committed state in
	one badger database, the live authenticated tree, and the block currently
	being built, and it drives the begin-block / commit-block lifecycle.

	Namespaces inside the database (all length-prefix joined):

	1. SubspaceStore ("s/"): the latest committed value blob per storage key -
	   the live state all reads resolve against.

	2. VersionStore ("v/<key><height>"): one record per mutation, keyed by the
	   storage key then the big-endian height. Serves value-as-of-height reads
	   with a single reverse seek. Never pruned.

	3. DiffStore ("d/<height><key>"): the exact mutation set of one committed
	   height, ordered by height then key. Replayed on top of an epoch-base
	   tree snapshot to reconstruct historical trees. Pruned per epoch.

	4. TreeStore ("t/<epoch>"): the sorted leaf set of the authenticated tree
	   as of the last commit before the epoch began. Pruned per epoch.

	5. LeafStore ("c/<leaf index>"): the live tree's leaves, updated in place
	   each commit so the tree can be reloaded without replaying history.

	6. CommitIDStore ("x/<height>"): (height, root) per committed height.

	7. HeaderStore ("b/<height>"): block metadata indexed by height.

	8. LastState ("a/"): the latest height, hash, root, epoch schedule,
	   address generator, and conversion state - a single O(1) read on
	   startup.

	All durable mutation of one commit flows through a single atomic badger
	transaction; a failed commit leaves the prior committed state fully intact.
*/

var (
	subspacePrefix  = lib.JoinLenPrefix([]byte("s/"))
	versionPrefix   = lib.JoinLenPrefix([]byte("v/"))
	diffPrefix      = lib.JoinLenPrefix([]byte("d/"))
	treeStorePrefix = lib.JoinLenPrefix([]byte("t/"))
	leafPrefix      = lib.JoinLenPrefix([]byte("c/"))
	commitIDPrefix  = lib.JoinLenPrefix([]byte("x/"))
	headerPrefix    = lib.JoinLenPrefix([]byte("b/"))
	lastStatePrefix = lib.JoinLenPrefix([]byte("a/"))
)

// VersionedValue is the persisted record of one mutation: the new value, or a
// tombstone marking the key absent from that height forward
type VersionedValue struct {
	Value  []byte `cbor:"1,keyasint,omitempty"`
	Delete bool   `cbor:"2,keyasint,omitempty"`
}

// CommitID pairs a committed height with its root commitment
type CommitID struct {
	Height uint64 `cbor:"1,keyasint"`
	Root   []byte `cbor:"2,keyasint"`
}

// lastState is the O(1) startup record of the most recent commit
type lastState struct {
	Height      uint64             `cbor:"1,keyasint"`
	Hash        []byte             `cbor:"2,keyasint"`
	Root        []byte             `cbor:"3,keyasint"`
	Time        int64              `cbor:"4,keyasint"`
	Schedule    *lib.EpochSchedule `cbor:"5,keyasint"`
	AddressGen  *crypto.AddressGen `cbor:"6,keyasint"`
	Conversions *ConversionState   `cbor:"7,keyasint"`
}

type Storage struct {
	db     *badger.DB
	log    lib.LoggerI
	config lib.Config

	// mu serializes commits and pruning against historical readers; committed
	// records are immutable once written, so readers only need to exclude the
	// wholesale deletions done by pruning
	mu sync.RWMutex

	// committed state
	lastHeight uint64
	lastHash   []byte
	lastRoot   []byte
	lastTime    time.Time
	schedule    *lib.EpochSchedule
	addressGen  *crypto.AddressGen
	conversions *ConversionState
	committed   bool

	// live authenticated tree; reloaded lazily from the LeafStore after a
	// restart so LoadLastState stays O(1)
	tree       *Tree
	treeLoaded bool

	// block currently being built
	open          bool
	blockHeight   uint64
	blockHash     []byte
	staged        *Txn
	pendingEpochs []uint64 // epochs started since the last commit, owed a base snapshot
}

// Open() opens the storage engine over a fresh or existing database. For an
// existing database the caller restores the committed state with LoadLastState.
func Open(config lib.Config, log lib.LoggerI) (*Storage, lib.ErrorI) {
	db, err := openDB(config, log)
	if err != nil {
		return nil, err
	}
	s := &Storage{
		db:          db,
		log:         log,
		config:      config,
		schedule:    lib.NewEpochSchedule(0),
		addressGen:  crypto.NewAddressGen([]byte(config.ChainID)),
		conversions: NewConversionState(),
		tree:        NewTree(),
		treeLoaded:  true,
	}
	s.staged = NewTxn(&subspaceReader{s})
	return s, nil
}

// Close() discards the open block and closes the database
func (s *Storage) Close() lib.ErrorI {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged.Discard()
	if err := s.db.Close(); err != nil {
		return ErrCloseDB(err)
	}
	return nil
}

// BeginBlock() opens the block at the given height. Calling it while a block
// is already open is a caller bug and fails fast.
func (s *Storage) BeginBlock(hash []byte, height uint64) lib.ErrorI {
	if s.open {
		return ErrContractViolation("begin_block called while a block is open")
	}
	if s.committed && height <= s.lastHeight {
		return ErrContractViolation("block height must exceed the last committed height")
	}
	s.open, s.blockHeight, s.blockHash = true, height, lib.CopyBytes(hash)
	// the write log empties when a block opens; nothing staged outside a
	// block lifecycle may reach this block's state
	s.staged.Discard()
	return nil
}

// NewEpoch() advances the predecessor-epoch schedule and rolls the conversion
// state forward to the new epoch; the epoch's base tree snapshot is persisted
// with the next commit, before the commit's own mutations are folded in
func (s *Storage) NewEpoch(startHeight uint64) lib.ErrorI {
	if err := s.schedule.NewEpoch(startHeight); err != nil {
		return err
	}
	s.pendingEpochs = append(s.pendingEpochs, s.schedule.CurrentEpoch())
	s.conversions.advance(s.schedule.CurrentEpoch())
	return nil
}

// Epoch() returns the current epoch
func (s *Storage) Epoch() uint64 { return s.schedule.CurrentEpoch() }

// Write() stages a value write into the open block's state.
// Gas is the byte length of the key plus the value.
func (s *Storage) Write(key lib.Key, value []byte) (gas uint64, err lib.ErrorI) {
	if !s.open {
		return 0, ErrContractViolation("write called without an open block")
	}
	gas = key.Len() + uint64(len(value))
	err = s.staged.Set(key.Bytes(), value)
	return
}

// Delete() stages a tombstone for the key into the open block's state.
// Gas is the byte length of the key.
func (s *Storage) Delete(key lib.Key) (gas uint64, err lib.ErrorI) {
	if !s.open {
		return 0, ErrContractViolation("delete called without an open block")
	}
	gas = key.Len()
	err = s.staged.Delete(key.Bytes())
	return
}

// Read() returns the committed value for a key; staged block mutations are
// not visible here, only through the write log layered on top. Gas is the key
// length plus the value length when a value is found.
func (s *Storage) Read(key lib.Key) (value []byte, gas uint64, err lib.ErrorI) {
	return s.committedRead(key)
}

// Has() reports whether the key holds a committed value.
// Gas is the byte length of the key.
func (s *Storage) Has(key lib.Key) (has bool, gas uint64, err lib.ErrorI) {
	value, err := s.dbGet(subspaceKey(key.Bytes()))
	return value != nil, key.Len(), err
}

// IterPrefix() returns an ascending iterator over every committed key carrying
// the prefix. The prefix length is charged up front; each yielded entry
// charges its own key+value length.
func (s *Storage) IterPrefix(prefix lib.Key) (it *PrefixIterator, gas uint64, err lib.ErrorI) {
	inner, err := (&subspaceReader{s}).Iterator(prefix.Bytes())
	if err != nil {
		return nil, 0, err
	}
	return &PrefixIterator{inner}, prefix.Len(), nil
}

// CommitBlock() flushes the open block: every staged mutation becomes durable
// in one atomic batch, the authenticated tree advances to the new root, and
// the block closes. A failure leaves the prior committed state fully intact.
func (s *Storage) CommitBlock() lib.ErrorI {
	if !s.open {
		return ErrContractViolation("commit_block called without an open block")
	}
	if err := s.Commit(); err != nil {
		return err
	}
	s.open = false
	return nil
}

// Commit() is the lower-level flush used by CommitBlock; it persists the
// staged mutation set under the open block's height without closing the block
func (s *Storage) Commit() lib.ErrorI {
	if !s.open {
		return ErrContractViolation("commit called without an open block")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	if err := s.loadTree(); err != nil {
		return err
	}
	height := s.blockHeight
	batch := NewBatchWrapper(s.db, s.log)
	defer batch.Cancel()
	// the genesis commit owes epoch 0 its (empty) base snapshot
	pending := s.pendingEpochs
	if !s.committed {
		pending = append([]uint64{0}, pending...)
	}
	// persist base snapshots for every epoch started since the last commit;
	// the live tree still holds the state before this block's mutations,
	// which is exactly the base historical replay starts from
	for _, epoch := range pending {
		bz, err := lib.Marshal(s.tree.Snapshot())
		if err != nil {
			return err
		}
		if err = batch.Set(treeStoreKey(epoch), bz); err != nil {
			return err
		}
	}
	// fold the staged mutation set into a scratch copy of the tree; the live
	// tree and the pending epoch list advance only once the batch is durable,
	// so a failed commit leaves the committed state fully reusable
	tree := s.tree.Copy()
	if err := s.foldStaged(tree, batch, height); err != nil {
		return err
	}
	now := time.Now()
	root := tree.Root()
	// commit ID, header index, and the O(1) startup record
	commitID, err := lib.Marshal(&CommitID{Height: height, Root: root})
	if err != nil {
		return err
	}
	if err = batch.Set(commitIDKey(height), commitID); err != nil {
		return err
	}
	if err = s.indexBlockHeader(batch, &BlockHeader{
		Height: height,
		Hash:   lib.CopyBytes(s.blockHash),
		Time:   now.UnixNano(),
		Epoch:  s.schedule.CurrentEpoch(),
	}); err != nil {
		return err
	}
	state, err := lib.Marshal(&lastState{
		Height:      height,
		Hash:        s.blockHash,
		Root:        root,
		Time:        now.UnixNano(),
		Schedule:    s.schedule,
		AddressGen:  s.addressGen,
		Conversions: s.conversions,
	})
	if err != nil {
		return err
	}
	if err = batch.Set(lastStateKey(), state); err != nil {
		return err
	}
	// one atomic write; partial visibility of a commit is disallowed
	if err = batch.Write(); err != nil {
		return err
	}
	epochAdvanced := len(pending) > 0
	s.tree = tree
	s.lastHeight, s.lastHash, s.lastRoot, s.lastTime = height, lib.CopyBytes(s.blockHash), root, now
	s.committed, s.pendingEpochs = true, nil
	s.staged.Discard()
	s.log.Debugf("committed height %d root %s in %s", height, crypto.AddressString(root), time.Since(start))
	// the retention window is anchored to epoch boundaries, so pruning only
	// ever runs when an epoch rolls over
	if epochAdvanced && s.config.RetainEpochs > 0 {
		if err = s.pruneTreeStores(s.config.RetainEpochs); err != nil {
			s.log.Warnf("pruning tree stores failed: %s", err.Error())
		}
	}
	return nil
}

// foldStaged() writes the staged mutation set into every store in ascending
// key order and mirrors it into the given tree
func (s *Storage) foldStaged(tree *Tree, batch lib.BatchWriterI, height uint64) lib.ErrorI {
	return s.staged.Ascend(func(key string, value []byte, delete bool) lib.ErrorI {
		keyBz := []byte(key)
		record, e := lib.Marshal(&VersionedValue{Value: value, Delete: delete})
		if e != nil {
			return e
		}
		if e = batch.Set(versionKey(keyBz, height), record); e != nil {
			return e
		}
		if e = batch.Set(diffKey(height, keyBz), record); e != nil {
			return e
		}
		leafIndex := crypto.Hash(keyBz)
		if delete {
			if e = batch.Delete(subspaceKey(keyBz)); e != nil {
				return e
			}
			if e = batch.Delete(leafKey(leafIndex)); e != nil {
				return e
			}
			tree.Delete(keyBz)
			return nil
		}
		if e = batch.Set(subspaceKey(keyBz), value); e != nil {
			return e
		}
		digest := crypto.Hash(value)
		if e = batch.Set(leafKey(leafIndex), digest); e != nil {
			return e
		}
		tree.Set(keyBz, value)
		return nil
	})
}

// ReadAtHeight() returns the value of a key as of the most recent commit at or
// below the given height. Heights at or past the committed frontier read the
// latest committed state rather than failing.
func (s *Storage) ReadAtHeight(key lib.Key, height uint64) (value []byte, gas uint64, err lib.ErrorI) {
	if !s.committed || height >= s.lastHeight {
		return s.committedRead(key)
	}
	txn := s.db.NewTransaction(false)
	defer txn.Discard()
	prefix := versionKeyPrefix(key.Bytes())
	it := txn.NewIterator(badger.IteratorOptions{Reverse: true, Prefix: prefix})
	defer it.Close()
	// reverse seek to the newest version entry at or below the target height
	it.Seek(append(lib.CopyBytes(prefix), lib.Uint64ToBigEndian(height)...))
	if !it.Valid() {
		return nil, key.Len(), nil
	}
	bz, e := it.Item().ValueCopy(nil)
	if e != nil {
		return nil, 0, ErrStoreGet(e)
	}
	record := new(VersionedValue)
	if err = lib.Unmarshal(bz, record); err != nil {
		return nil, 0, ErrDecode(err)
	}
	if record.Delete {
		return nil, key.Len(), nil
	}
	value = record.Value
	if value == nil {
		// the record encodes an empty write; present, not absent
		value = []byte{}
	}
	return value, key.Len() + uint64(len(value)), nil
}

// GetTree() reconstructs the authenticated tree exactly as it stood after the
// commit at the given height, by replaying the diff records of the height's
// epoch on top of the epoch-base snapshot
func (s *Storage) GetTree(height uint64) (*Tree, lib.ErrorI) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.committed || height > s.lastHeight {
		return nil, ErrNotYetCommitted(height, s.lastHeight)
	}
	epoch := s.schedule.EpochOf(height)
	firstHeight, _ := s.schedule.FirstHeight(epoch)
	base, err := s.dbGet(treeStoreKey(epoch))
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, ErrPrunedHeight(height)
	}
	snapshot := new(TreeSnapshot)
	if err = lib.Unmarshal(base, snapshot); err != nil {
		return nil, ErrDecode(err)
	}
	tree, err := NewTreeFromSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	// replay diff records ascending by height then key
	err = s.replayDiffs(firstHeight, height, func(key []byte, record *VersionedValue) {
		tree.Apply(key, record.Value, record.Delete)
	})
	if err != nil {
		return nil, err
	}
	// cross-check against the root recorded at commit time, when one exists
	if bz, e := s.dbGet(commitIDKey(height)); e == nil && bz != nil {
		id := new(CommitID)
		if err = lib.Unmarshal(bz, id); err != nil {
			return nil, ErrDecode(err)
		}
		if string(id.Root) != string(tree.Root()) {
			return nil, ErrInvalidMerkleTree("replayed root does not match the committed root")
		}
	}
	return tree, nil
}

// Root() returns the live root commitment of the last committed height; it is
// maintained at each commit, so this is O(1)
func (s *Storage) Root() []byte { return lib.CopyBytes(s.lastRoot) }

// GetState() returns the last committed root and height, or false when
// nothing has been committed yet
func (s *Storage) GetState() (root []byte, height uint64, ok bool) {
	if !s.committed {
		return nil, 0, false
	}
	return lib.CopyBytes(s.lastRoot), s.lastHeight, true
}

// LastBlockHash() returns the hash of the last committed block
func (s *Storage) LastBlockHash() []byte { return lib.CopyBytes(s.lastHash) }

// AddressGen() exposes the established-address generator owned by this store
func (s *Storage) AddressGen() *crypto.AddressGen { return s.addressGen }

// Conversions() exposes the chain's conversion state; the record is owned by
// this store and persists with the block metadata at each commit
func (s *Storage) Conversions() *ConversionState { return s.conversions }

// LoadLastState() restores the committed frontier from the last-state record:
// height, hash, root, epoch schedule, and address generator. One point read;
// the live tree is reloaded lazily on the first commit that needs it.
func (s *Storage) LoadLastState() lib.ErrorI {
	bz, err := s.dbGet(lastStateKey())
	if err != nil {
		return err
	}
	if bz == nil {
		// fresh database; keep genesis defaults
		return nil
	}
	state := new(lastState)
	if err = lib.Unmarshal(bz, state); err != nil {
		return ErrDecode(err)
	}
	s.lastHeight, s.lastHash, s.lastRoot = state.Height, state.Hash, state.Root
	s.lastTime = time.Unix(0, state.Time)
	s.schedule, s.addressGen = state.Schedule, state.AddressGen
	s.conversions = state.Conversions
	if s.conversions == nil {
		s.conversions = NewConversionState()
	}
	s.committed = true
	s.tree, s.treeLoaded = NewTree(), false
	s.log.Infof("loaded state at height %d root %s", s.lastHeight, crypto.AddressString(s.lastRoot))
	return nil
}

// PruneTreeStores() deletes historical tree stores and diff records for every
// epoch older than the retention window. Pruning an already-pruned epoch is a
// no-op; the live tree and the retained epochs stay reconstructible.
func (s *Storage) PruneTreeStores(retainEpochs uint64) lib.ErrorI {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneTreeStores(retainEpochs)
}

// pruneTreeStores() requires s.mu to be held
func (s *Storage) pruneTreeStores(retainEpochs uint64) lib.ErrorI {
	current := s.schedule.CurrentEpoch()
	if current <= retainEpochs {
		return nil
	}
	pruneBelow := current - retainEpochs // first retained epoch
	cutoffHeight, ok := s.schedule.FirstHeight(pruneBelow)
	if !ok {
		return nil
	}
	// collect doomed keys first; deleting while iterating the same
	// transaction is not safe
	var doomed [][]byte
	for epoch := uint64(0); epoch < pruneBelow; epoch++ {
		doomed = append(doomed, treeStoreKey(epoch))
	}
	txn := s.db.NewTransaction(false)
	it := txn.NewIterator(badger.IteratorOptions{Prefix: diffPrefix})
	for it.Rewind(); it.Valid(); it.Next() {
		key := it.Item().KeyCopy(nil)
		if diffKeyHeight(key) < cutoffHeight {
			doomed = append(doomed, key)
		}
	}
	it.Close()
	txn.Discard()
	if len(doomed) == 0 {
		return nil
	}
	batch := NewBatchWrapper(s.db, s.log)
	defer batch.Cancel()
	for _, key := range doomed {
		if err := batch.Delete(key); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	s.log.Infof("pruned tree stores below epoch %d (%d records)", pruneBelow, len(doomed))
	return nil
}

// committedRead() reads a key against only the committed state
func (s *Storage) committedRead(key lib.Key) (value []byte, gas uint64, err lib.ErrorI) {
	value, err = s.dbGet(subspaceKey(key.Bytes()))
	return value, key.Len() + uint64(len(value)), err
}

// loadTree() populates the live tree from the LeafStore after a restart
func (s *Storage) loadTree() lib.ErrorI {
	if s.treeLoaded {
		return nil
	}
	tree := NewTree()
	txn := s.db.NewTransaction(false)
	defer txn.Discard()
	it := txn.NewIterator(badger.IteratorOptions{Prefix: leafPrefix})
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		index := it.Item().KeyCopy(nil)[len(leafPrefix):]
		digest, e := it.Item().ValueCopy(nil)
		if e != nil {
			return ErrStoreGet(e)
		}
		if len(index) != crypto.HashSize || len(digest) != crypto.HashSize {
			return ErrInvalidMerkleTree("leaf store record has a malformed digest")
		}
		tree.setLeaf(string(index), digest)
	}
	s.tree, s.treeLoaded = tree, true
	// the reloaded tree must reproduce the committed root before it is trusted
	if s.committed && string(s.tree.Root()) != string(s.lastRoot) {
		return ErrInvalidMerkleTree("reloaded tree root does not match the committed root")
	}
	return nil
}

// replayDiffs() visits every diff record with height in [from, to], ascending
// by height then key
func (s *Storage) replayDiffs(from, to uint64, fn func(key []byte, record *VersionedValue)) lib.ErrorI {
	txn := s.db.NewTransaction(false)
	defer txn.Discard()
	it := txn.NewIterator(badger.IteratorOptions{Prefix: diffPrefix})
	defer it.Close()
	it.Seek(lib.Append(diffPrefix, lib.Uint64ToBigEndian(from)))
	for ; it.Valid(); it.Next() {
		key := it.Item().KeyCopy(nil)
		if diffKeyHeight(key) > to {
			break
		}
		bz, e := it.Item().ValueCopy(nil)
		if e != nil {
			return ErrStoreGet(e)
		}
		record := new(VersionedValue)
		if err := lib.Unmarshal(bz, record); err != nil {
			return ErrDecode(err)
		}
		fn(key[len(diffPrefix)+8:], record)
	}
	return nil
}

// dbGet() performs a point read against the database
func (s *Storage) dbGet(key []byte) ([]byte, lib.ErrorI) {
	txn := s.db.NewTransaction(false)
	defer txn.Discard()
	return NewTxnWrapper(txn, s.log, nil).Get(key)
}

// ---- key layouts ----

func subspaceKey(key []byte) []byte { return lib.Append(subspacePrefix, key) }

func versionKeyPrefix(key []byte) []byte {
	return lib.Append(versionPrefix, lib.JoinLenPrefix(key))
}

func versionKey(key []byte, height uint64) []byte {
	return lib.Append(versionKeyPrefix(key), lib.Uint64ToBigEndian(height))
}

func diffKey(height uint64, key []byte) []byte {
	return lib.Append(lib.Append(diffPrefix, lib.Uint64ToBigEndian(height)), key)
}

// diffKeyHeight() extracts the height from a full diff store key
func diffKeyHeight(key []byte) uint64 {
	return lib.BigEndianToUint64(key[len(diffPrefix) : len(diffPrefix)+8])
}

func treeStoreKey(epoch uint64) []byte {
	return lib.Append(treeStorePrefix, lib.Uint64ToBigEndian(epoch))
}

func leafKey(index []byte) []byte { return lib.Append(leafPrefix, index) }

func commitIDKey(height uint64) []byte {
	return lib.Append(commitIDPrefix, lib.Uint64ToBigEndian(height))
}

func headerKey(height uint64) []byte {
	return lib.Append(headerPrefix, lib.Uint64ToBigEndian(height))
}

func lastStateKey() []byte { return lastStatePrefix }

// ---- staged-read plumbing ----

// subspaceReader adapts the committed subspace to the RWStoreI interface so
// the staged Txn can layer over it; it is read-only by construction
type subspaceReader struct{ s *Storage }

func (r *subspaceReader) Get(key []byte) ([]byte, lib.ErrorI) {
	return r.s.dbGet(subspaceKey(key))
}

func (r *subspaceReader) Set([]byte, []byte) lib.ErrorI {
	return ErrContractViolation("write against the committed subspace reader")
}

func (r *subspaceReader) Delete([]byte) lib.ErrorI {
	return ErrContractViolation("delete against the committed subspace reader")
}

func (r *subspaceReader) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	txn := r.s.db.NewTransaction(false)
	it, err := NewTxnWrapper(txn, r.s.log, subspacePrefix).Iterator(prefix)
	if err != nil {
		txn.Discard()
		return nil, err
	}
	return &readerIterator{IteratorI: it, txn: txn}, nil
}

func (r *subspaceReader) RevIterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	txn := r.s.db.NewTransaction(false)
	it, err := NewTxnWrapper(txn, r.s.log, subspacePrefix).RevIterator(prefix)
	if err != nil {
		txn.Discard()
		return nil, err
	}
	return &readerIterator{IteratorI: it, txn: txn}, nil
}

// readerIterator ties the lifetime of a read transaction to its iterator
type readerIterator struct {
	lib.IteratorI
	txn *badger.Txn
}

func (r *readerIterator) Close() {
	r.IteratorI.Close()
	r.txn.Discard()
}

// PrefixIterator yields (key, value) pairs in ascending key order and exposes
// the deterministic gas charge of the entry it currently points at
type PrefixIterator struct {
	lib.IteratorI
}

// Gas() returns the charge for the current entry: key length plus value length
func (p *PrefixIterator) Gas() uint64 {
	return uint64(len(p.Key()) + len(p.Value()))
}
