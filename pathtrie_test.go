package succinct

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLexPathTrie[P LabelsPool](t *testing.T, format LabelsFormat[P]) {
	t.Helper()

	trie, err := NewLexPathTrie(Strings(e1Keys), format)
	require.NoError(t, err)
	require.Equal(t, len(e1Keys), trie.Size())
	requireWellFormed(t, trie.bp)
	require.Equal(t, trie.Size(), trie.labels.Size())

	// lexicographic ranks and reverse lookup
	for i, k := range e1Keys {
		require.Equal(t, uint64(i), trie.Index([]byte(k)), "key %q", k)
		require.Equal(t, []byte(k), trie.Key(uint64(i)), "rank %d", i)
	}

	// absent keys
	require.Equal(t, Absent, trie.Index([]byte("")))
	require.Equal(t, Absent, trie.Index([]byte("aX")))
	require.Equal(t, Absent, trie.Index([]byte("bbccdX")))
	require.Equal(t, Absent, trie.Index([]byte("bbcc")))
	require.Equal(t, Absent, trie.Index([]byte("zzz")))
	for _, k := range e1Keys {
		probe := append([]byte(k), 'X')
		require.Equal(t, Absent, trie.Index(probe), "probe %q", probe)
	}
}

func TestLexPathTrieVByte(t *testing.T)  { testLexPathTrie(t, VByteLabels) }
func TestLexPathTrieRepair(t *testing.T) { testLexPathTrie(t, RepairLabels) }

func testCentroidPathTrie[P LabelsPool](t *testing.T, format LabelsFormat[P]) {
	t.Helper()

	keys := genCorpus(300)
	trie, err := NewCentroidPathTrie(Bytes(keys), format)
	require.NoError(t, err)
	require.Equal(t, len(keys), trie.Size())
	requireWellFormed(t, trie.bp)

	// ranks are a bijection and round-trip through Key
	seen := make(map[uint64]bool, len(keys))
	for _, k := range keys {
		idx := trie.Index(k)
		require.NotEqual(t, Absent, idx, "key %q", k)
		require.Less(t, idx, uint64(len(keys)))
		require.False(t, seen[idx], "rank %d assigned twice", idx)
		seen[idx] = true
		require.Equal(t, k, trie.Key(idx), "key %q", k)
	}

	require.Equal(t, Absent, trie.Index([]byte("zebra")))
	require.Equal(t, Absent, trie.Index([]byte("")))
}

func TestCentroidPathTrieVByte(t *testing.T)  { testCentroidPathTrie(t, VByteLabels) }
func TestCentroidPathTrieRepair(t *testing.T) { testCentroidPathTrie(t, RepairLabels) }

// TestLexPathTrieGolden compares lexicographic ranks against sorted-slice
// binary search over a generated corpus, including near-miss probes.
func TestLexPathTrieGolden(t *testing.T) {
	keys := genCorpus(400)
	trie, err := NewLexPathTrie(Bytes(keys), VByteLabels)
	require.NoError(t, err)

	golden := func(k []byte) uint64 {
		i := sort.Search(len(keys), func(i int) bool { return bytes.Compare(keys[i], k) >= 0 })
		if i < len(keys) && bytes.Equal(keys[i], k) {
			return uint64(i)
		}
		return Absent
	}

	for _, k := range keys {
		require.Equal(t, golden(k), trie.Index(k), "key %q", k)
		require.Equal(t, k, trie.Key(golden(k)))

		longer := append(append([]byte(nil), k...), 'a')
		require.Equal(t, golden(longer), trie.Index(longer), "probe %q", longer)
		if len(k) > 1 {
			shorter := k[:len(k)-1]
			require.Equal(t, golden(shorter), trie.Index(shorter), "probe %q", shorter)
		}
	}
}

func TestPathTrieSerialization(t *testing.T) {
	keys := genCorpus(250)

	trie, err := NewLexPathTrie(Bytes(keys), RepairLabels)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := trie.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	bound, err := BindLexPathTrie(buf.Bytes(), RepairLabels)
	require.NoError(t, err)
	require.Equal(t, trie.Size(), bound.Size())
	for i, k := range keys {
		require.Equal(t, uint64(i), bound.Index(k))
		require.Equal(t, k, bound.Key(uint64(i)))
	}

	_, err = BindLexPathTrie(buf.Bytes()[:8], RepairLabels)
	require.ErrorIs(t, err, ErrBlobTooShort)
}

func TestPathTrieEmptyAndSingle(t *testing.T) {
	trie, err := NewLexPathTrie(Strings(nil), VByteLabels)
	require.NoError(t, err)
	require.Equal(t, 0, trie.Size())
	require.Equal(t, Absent, trie.Index([]byte("a")))

	trie, err = NewLexPathTrie(Strings([]string{"solo"}), VByteLabels)
	require.NoError(t, err)
	require.Equal(t, 1, trie.Size())
	require.Equal(t, uint64(0), trie.Index([]byte("solo")))
	require.Equal(t, []byte("solo"), trie.Key(0))
	require.Equal(t, Absent, trie.Index([]byte("sol")))
	require.Equal(t, Absent, trie.Index([]byte("solos")))
}

func TestPathTrieMalformedInput(t *testing.T) {
	_, err := NewLexPathTrie(Strings([]string{"a", "a"}), VByteLabels)
	require.ErrorIs(t, err, ErrDuplicate)
	_, err = NewCentroidPathTrie(Strings([]string{"b", "a"}), VByteLabels)
	require.ErrorIs(t, err, ErrUnsorted)
}

func TestPathTrieBinaryKeys(t *testing.T) {
	// keys containing non-text bytes; still sorted and distinct
	keys := [][]byte{{0x01}, {0x01, 0xff}, {0x02, 0x7f, 0x03}, {0xfe}, {0xff, 0xff, 0xff}}
	trie, err := NewLexPathTrie(Bytes(keys), VByteLabels)
	require.NoError(t, err)
	for i, k := range keys {
		require.Equal(t, uint64(i), trie.Index(k))
		require.Equal(t, k, trie.Key(uint64(i)))
	}
}
