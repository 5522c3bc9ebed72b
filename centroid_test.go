package succinct

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCentroidHollowTrieE1(t *testing.T) {
	trie, err := NewCentroidHollowTrie(Strings(e1Keys))
	require.NoError(t, err)
	require.Equal(t, len(e1Keys), trie.Size())
	requireWellFormed(t, trie.bp)

	// despite the rearranged topology, ranks are in input order
	for i, k := range e1Keys {
		require.Equal(t, uint64(i), trie.Index([]byte(k)), "key %q", k)
	}
}

func TestCentroidHollowTrieCorpus(t *testing.T) {
	keys := genCorpus(500)
	trie, err := NewCentroidHollowTrie(Bytes(keys))
	require.NoError(t, err)
	require.Equal(t, len(keys), trie.Size())
	for i, k := range keys {
		require.Equal(t, uint64(i), trie.Index(k), "key %q", k)
	}
}

func TestCentroidHollowTrieSerialization(t *testing.T) {
	keys := genCorpus(200)
	trie, err := NewCentroidHollowTrie(Bytes(keys))
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := trie.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	bound, err := BindCentroidHollowTrie(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, trie.Size(), bound.Size())
	for i, k := range keys {
		require.Equal(t, uint64(i), bound.Index(k))
	}
}

func TestCentroidHollowTrieEmptyAndSingle(t *testing.T) {
	trie, err := NewCentroidHollowTrie(Strings(nil))
	require.NoError(t, err)
	require.Equal(t, 0, trie.Size())
	require.Equal(t, Absent, trie.Index([]byte("x")))

	trie, err = NewCentroidHollowTrie(Strings([]string{"only"}))
	require.NoError(t, err)
	require.Equal(t, 1, trie.Size())
	require.Equal(t, uint64(0), trie.Index([]byte("only")))
}

func TestCentroidHollowTrieMalformedInput(t *testing.T) {
	_, err := NewCentroidHollowTrie(Strings([]string{"a", "a"}))
	require.ErrorIs(t, err, ErrDuplicate)
	_, err = NewCentroidHollowTrie(Strings([]string{"b", "a"}))
	require.ErrorIs(t, err, ErrUnsorted)
}
