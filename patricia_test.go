package succinct

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// patriciaShape records the trie as nested expressions for structural
// assertions.
type patriciaShape struct {
	root  string
	roots int
}

func (v *patriciaShape) Leaf(_ []byte, _, skip uint64) string {
	return "L"
}

func (v *patriciaShape) Node(left, right string, _ []byte, _, skip uint64) string {
	return "(" + left + right + ")"
}

func (v *patriciaShape) Root(tree string) {
	v.root = tree
	v.roots++
}

func TestBuildPatriciaMalformedInput(t *testing.T) {
	cases := []struct {
		name string
		keys []string
		err  error
	}{
		{name: "duplicate", keys: []string{"a", "a"}, err: ErrDuplicate},
		{name: "unsorted", keys: []string{"b", "a"}, err: ErrUnsorted},
		{name: "prefix", keys: []string{"a", "ab"}, err: ErrNotPrefixFree},
		{name: "prefix of predecessor", keys: []string{"ab", "a"}, err: ErrNotPrefixFree},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := BuildPatricia[string](&patriciaShape{}, Strings(tc.keys))
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestBuildPatriciaShape(t *testing.T) {
	visitor := &patriciaShape{}
	require.NoError(t, BuildPatricia[string](visitor, Strings(nil)))
	require.Equal(t, 0, visitor.roots)

	visitor = &patriciaShape{}
	require.NoError(t, BuildPatricia[string](visitor, Strings([]string{"x"})))
	require.Equal(t, 1, visitor.roots)
	require.Equal(t, "L", visitor.root)

	// "ga" < "go" < "to": first split on the a/o bit, outer split on g/t
	visitor = &patriciaShape{}
	require.NoError(t, BuildPatricia[string](visitor, Strings([]string{"ga", "go", "to"})))
	require.Equal(t, 1, visitor.roots)
	require.Equal(t, "((LL)L)", visitor.root)
}

func TestBuildPatriciaSkips(t *testing.T) {
	// two keys differing in their very first bit produce a root with no
	// skip; the leaves carry the remaining suffix lengths
	type rec struct {
		kind string
		skip uint64
	}
	var recs []rec
	visitor := &recordingBinaryVisitor{
		leaf: func(skip uint64) { recs = append(recs, rec{"leaf", skip}) },
		node: func(skip uint64) { recs = append(recs, rec{"node", skip}) },
	}
	// 0x40 = 0100_0000, 0x80 = 1000_0000: mismatch at bit 0
	require.NoError(t, BuildPatricia[struct{}](visitor, Bytes([][]byte{{0x40}, {0x80}})))
	require.Equal(t, []rec{{"leaf", 7}, {"leaf", 7}, {"node", 0}}, recs)
}

type recordingBinaryVisitor struct {
	leaf func(skip uint64)
	node func(skip uint64)
}

func (v *recordingBinaryVisitor) Leaf(_ []byte, _, skip uint64) struct{} {
	v.leaf(skip)
	return struct{}{}
}

func (v *recordingBinaryVisitor) Node(_, _ struct{}, _ []byte, _, skip uint64) struct{} {
	v.node(skip)
	return struct{}{}
}

func (v *recordingBinaryVisitor) Root(struct{}) {}
