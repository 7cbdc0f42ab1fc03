package lib

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		segments []string
		wantErr  bool
	}{
		{name: "single segment", raw: "balance", segments: []string{"balance"}},
		{name: "path", raw: "bank/balance/alice", segments: []string{"bank", "balance", "alice"}},
		{name: "empty", raw: "", wantErr: true},
		{name: "empty segment", raw: "bank//alice", wantErr: true},
		{name: "trailing separator", raw: "bank/", wantErr: true},
		{name: "leading separator", raw: "/bank", wantErr: true},
		{name: "oversized", raw: strings.Repeat("k", MaxKeyBytes+1), wantErr: true},
		{name: "at the size limit", raw: strings.Repeat("k", MaxKeyBytes), segments: []string{strings.Repeat("k", MaxKeyBytes)}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key, err := ParseKey(test.raw)
			if test.wantErr {
				require.Error(t, err)
				require.Equal(t, CodeKeyParse, err.Code())
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.segments, key.Segments())
			require.Equal(t, test.raw, key.String())
			require.Equal(t, uint64(len(test.raw)), key.Len())
		})
	}
}

func TestKeyPush(t *testing.T) {
	key := NewKey("bank", "balance")
	child, err := key.Push("alice")
	require.NoError(t, err)
	require.Equal(t, "bank/balance/alice", child.String())
	// the original key is unchanged
	require.Equal(t, "bank/balance", key.String())
	_, err = key.Push("")
	require.Error(t, err)
	_, err = key.Push("a/b")
	require.Error(t, err)
}

func TestKeyHasPrefix(t *testing.T) {
	key := NewKey("bank", "balance", "alice")
	require.True(t, key.HasPrefix(NewKey("bank")))
	require.True(t, key.HasPrefix(NewKey("bank", "balance")))
	require.True(t, key.HasPrefix(key))
	require.False(t, key.HasPrefix(NewKey("bank", "supply")))
	// prefixes align on segment boundaries, not raw strings
	require.False(t, key.HasPrefix(NewKey("ban")))
	require.False(t, NewKey("bank").HasPrefix(key))
}

func TestNewKeyPanicsOnInvalid(t *testing.T) {
	require.Panics(t, func() { NewKey("") })
}
