package store

import (
	"testing"

	"github.com/arbor-network/arbor/lib"
	"github.com/arbor-network/arbor/lib/crypto"
	"github.com/stretchr/testify/require"
)

func TestWriteLogLayering(t *testing.T) {
	s := testStore(t, testConfig(t))
	defer func() { require.NoError(t, s.Close()) }()
	committed, blockLevel, txLevel := lib.NewKey("c"), lib.NewKey("b"), lib.NewKey("t")
	commitHeight(t, s, 1, map[string][]byte{committed.String(): []byte("committed")})
	require.NoError(t, s.BeginBlock([]byte("h"), 2))
	// a first transaction promotes an entry into the block level
	first := NewWriteLog(s)
	_, err := first.Write(blockLevel, []byte("block"))
	require.NoError(t, err)
	require.NoError(t, first.CommitTx())
	// a second transaction sees its own writes, the block level, and committed state
	wl := NewWriteLog(s)
	_, err = wl.Write(txLevel, []byte("tx"))
	require.NoError(t, err)
	for key, expected := range map[string][]byte{
		committed.String():  []byte("committed"),
		blockLevel.String(): []byte("block"),
		txLevel.String():    []byte("tx"),
	} {
		got, gas, e := wl.Read(lib.NewKey(key))
		require.NoError(t, e)
		require.Equal(t, expected, got)
		require.Equal(t, uint64(len(key)+len(expected)), gas)
	}
	// the storage core itself still sees only committed state
	got, _, err := s.Read(blockLevel)
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, wl.CommitTx())
	require.NoError(t, s.CommitBlock())
	got, _, err = s.Read(txLevel)
	require.NoError(t, err)
	require.Equal(t, []byte("tx"), got)
}

func TestWriteLogRollback(t *testing.T) {
	s := testStore(t, testConfig(t))
	defer func() { require.NoError(t, s.Close()) }()
	key := lib.NewKey("volatile")
	commitHeight(t, s, 1, map[string][]byte{"stable": []byte("v")})
	require.NoError(t, s.BeginBlock([]byte("h"), 2))
	wl := NewWriteLog(s)
	_, err := wl.Write(key, []byte("discarded"))
	require.NoError(t, err)
	wl.Rollback()
	// the rolled-back transaction is closed for further use
	_, err = wl.Write(key, []byte("late"))
	require.Error(t, err)
	require.Equal(t, lib.CodeTxClosed, err.Code())
	err = wl.CommitTx()
	require.Error(t, err)
	require.Equal(t, lib.CodeTxClosed, err.Code())
	// nothing leaked into the block level
	next := NewWriteLog(s)
	got, _, err := next.Read(key)
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, s.CommitBlock())
	got, _, err = s.Read(key)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestWriteLogTombstoneAndIteration(t *testing.T) {
	s := testStore(t, testConfig(t))
	defer func() { require.NoError(t, s.Close()) }()
	commitHeight(t, s, 1, map[string][]byte{
		"set/a": []byte("1"),
		"set/b": []byte("2"),
		"set/c": []byte("3"),
	})
	require.NoError(t, s.BeginBlock([]byte("h"), 2))
	wl := NewWriteLog(s)
	// tombstone a committed entry, overwrite another, add a new one
	_, err := wl.Delete(lib.NewKey("set", "b"))
	require.NoError(t, err)
	_, err = wl.Write(lib.NewKey("set", "c"), []byte("33"))
	require.NoError(t, err)
	_, err = wl.Write(lib.NewKey("set", "d"), []byte("4"))
	require.NoError(t, err)
	// reads resolve through the log
	got, _, err := wl.Read(lib.NewKey("set", "b"))
	require.NoError(t, err)
	require.Nil(t, got)
	has, gas, err := wl.Has(lib.NewKey("set", "b"))
	require.NoError(t, err)
	require.False(t, has)
	require.Equal(t, lib.NewKey("set", "b").Len(), gas)
	// merged iteration: log entries override, tombstones suppress, order holds
	it, gas, err := wl.IterPrefix(lib.NewKey("set"))
	require.NoError(t, err)
	defer it.Close()
	require.Equal(t, lib.NewKey("set").Len(), gas)
	var keys, values []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
		values = append(values, string(it.Value()))
	}
	require.Equal(t, []string{"set/a", "set/c", "set/d"}, keys)
	require.Equal(t, []string{"1", "33", "4"}, values)
	require.NoError(t, s.CommitBlock())
}

func TestInitAccountDeterministic(t *testing.T) {
	a := testStore(t, testConfig(t))
	defer func() { require.NoError(t, a.Close()) }()
	b := testStore(t, testConfig(t))
	defer func() { require.NoError(t, b.Close()) }()
	entropy := [][]byte{[]byte("tx-1"), []byte("tx-2"), []byte("tx-3")}
	generate := func(s *Storage) (addresses [][]byte) {
		require.NoError(t, s.BeginBlock([]byte("h"), 1))
		wl := NewWriteLog(s)
		for _, e := range entropy {
			addr, gas, err := wl.InitAccount(e)
			require.NoError(t, err)
			require.Len(t, addr, crypto.AddressSize)
			require.NotZero(t, gas)
			addresses = append(addresses, addr)
		}
		require.NoError(t, wl.CommitTx())
		require.NoError(t, s.CommitBlock())
		return
	}
	addrsA, addrsB := generate(a), generate(b)
	// identical chain identity and entropy sequence derive identical addresses
	require.Equal(t, addrsA, addrsB)
	require.NotEqual(t, addrsA[0], addrsA[1])
	// the account entry is durably committed under the derived address
	got, _, err := a.Read(lib.NewKey("account", crypto.AddressString(addrsA[0])))
	require.NoError(t, err)
	require.Equal(t, addrsA[0], got)
}

func TestInitAccountSurvivesReload(t *testing.T) {
	config := testConfig(t)
	s := testStore(t, config)
	require.NoError(t, s.BeginBlock([]byte("h"), 1))
	wl := NewWriteLog(s)
	first, _, err := wl.InitAccount([]byte("tx-1"))
	require.NoError(t, err)
	require.NoError(t, wl.CommitTx())
	require.NoError(t, s.CommitBlock())
	require.NoError(t, s.Close())
	// the generator state persists with the block metadata, so the chain of
	// addresses continues rather than restarting after a reload
	s = testStore(t, config)
	defer func() { require.NoError(t, s.Close()) }()
	require.NoError(t, s.LoadLastState())
	require.NoError(t, s.BeginBlock([]byte("h2"), 2))
	wl = NewWriteLog(s)
	second, _, err := wl.InitAccount([]byte("tx-2"))
	require.NoError(t, err)
	require.NoError(t, wl.CommitTx())
	require.NoError(t, s.CommitBlock())
	require.NotEqual(t, first, second)
	// replaying both on a fresh chain yields the same pair
	fresh := testStore(t, testConfig(t))
	defer func() { require.NoError(t, fresh.Close()) }()
	require.NoError(t, fresh.BeginBlock([]byte("h"), 1))
	wl = NewWriteLog(fresh)
	replayFirst, _, err := wl.InitAccount([]byte("tx-1"))
	require.NoError(t, err)
	replaySecond, _, err := wl.InitAccount([]byte("tx-2"))
	require.NoError(t, err)
	require.NoError(t, wl.CommitTx())
	require.NoError(t, fresh.CommitBlock())
	require.Equal(t, first, replayFirst)
	require.Equal(t, second, replaySecond)
}
