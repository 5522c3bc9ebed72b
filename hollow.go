package succinct

import (
	"io"
	"iter"
)

// SkipVector is a random-access sequence of non-negative integers over
// immutable storage. GammaVector, EliasFanoList and FixedVector implement it.
type SkipVector interface {
	access(i uint64) uint64
	length() uint64
	writeTo(fw *fieldWriter)
}

// SkipsFormat selects the physical encoding of a hollow trie's skip vector.
// Use one of GammaSkips, EliasFanoSkips or FixedSkips; the same format must
// be passed when binding a serialized trie.
type SkipsFormat[S SkipVector] struct {
	build func(values []uint64) S
	bind  func(fr *fieldReader) S
}

var (
	// GammaSkips stores skips as Elias gamma codes. Most compact.
	GammaSkips = SkipsFormat[*GammaVector]{build: newGammaVector, bind: bindGammaVector}

	// EliasFanoSkips stores skips as Elias-Fano prefix sums.
	EliasFanoSkips = SkipsFormat[*EliasFanoList]{build: newEliasFanoList, bind: bindEliasFanoList}

	// FixedSkips stores skips as fixed-width integers. Fastest access.
	FixedSkips = SkipsFormat[*FixedVector]{build: newFixedVector, bind: bindFixedVector}
)

// FixedVector is a fixed-width skip store.
type FixedVector struct {
	v []uint32
}

func newFixedVector(values []uint64) *FixedVector {
	f := &FixedVector{v: make([]uint32, len(values))}
	for i, x := range values {
		f.v[i] = uint32(x)
	}
	return f
}

func (f *FixedVector) access(i uint64) uint64 { return uint64(f.v[i]) }
func (f *FixedVector) length() uint64         { return uint64(len(f.v)) }
func (f *FixedVector) writeTo(fw *fieldWriter) {
	fw.uint32s(f.v)
}

func bindFixedVector(fr *fieldReader) *FixedVector {
	return &FixedVector{v: fr.uint32s()}
}

// HollowTrie is a binary Patricia trie stripped down to its topology (a
// balanced-parenthesis vector) and per-node skip lengths. It is a monotone
// minimal perfect hash function on the indexed set: Index maps the i-th input
// key to i, but a key outside the set may map to an arbitrary rank rather
// than Absent. Callers needing exactness must verify with an external
// equality check.
type HollowTrie[S SkipVector] struct {
	bp    *bpVector
	skips S
}

// hollowSubtree is a trie fragment during construction: its DFUDS bits and
// the skips of its internal nodes in prefix order.
type hollowSubtree struct {
	bp    bitVectorBuilder
	skips []uint64
}

type hollowVisitor struct {
	root *hollowSubtree
}

func (*hollowVisitor) Leaf(_ []byte, _, _ uint64) *hollowSubtree {
	s := &hollowSubtree{}
	s.bp.pushBack(false)
	return s
}

func (*hollowVisitor) Node(left, right *hollowSubtree, _ []byte, _, skip uint64) *hollowSubtree {
	s := &hollowSubtree{}
	s.bp.pushBack(true)
	s.skips = append(s.skips, skip)

	s.bp.appendBuilder(&left.bp)
	s.skips = append(s.skips, left.skips...)
	s.bp.appendBuilder(&right.bp)
	s.skips = append(s.skips, right.skips...)
	return s
}

func (v *hollowVisitor) Root(tree *hollowSubtree) {
	v.root = tree
}

// NewHollowTrie builds a hollow trie over keys, which must be strictly
// increasing; format selects the skip encoding.
func NewHollowTrie[S SkipVector](keys iter.Seq[[]byte], format SkipsFormat[S]) (*HollowTrie[S], error) {
	visitor := &hollowVisitor{}
	if err := BuildPatricia[*hollowSubtree](visitor, terminated(keys)); err != nil {
		return nil, err
	}

	var bv bitVectorBuilder
	var skips []uint64
	if visitor.root != nil {
		bv.pushBack(true) // synthetic root opener
		bv.appendBuilder(&visitor.root.bp)
		skips = visitor.root.skips
	}
	return &HollowTrie[S]{bp: newBPVector(bv.build()), skips: format.build(skips)}, nil
}

// Size returns the number of indexed keys.
func (t *HollowTrie[S]) Size() int {
	return int(t.bp.size() / 2)
}

// Index returns the rank of key. Keys are compared including a virtual NUL
// terminator. For keys not in the indexed set the result is Absent or an
// arbitrary rank (monotone-hash semantics).
func (t *HollowTrie[S]) Index(key []byte) uint64 {
	if t.bp.size() == 0 {
		return Absent
	}
	bitLen := (uint64(len(key)) + 1) * 8
	curPos := uint64(0)
	curNode := uint64(1)
	rank := uint64(0)
	for {
		if !t.bp.bit(curNode) {
			return rank
		}
		curPos += t.skips.access(curNode - rank - 1)
		if curPos >= bitLen {
			return Absent
		}
		b := keyBit(key, curPos)
		curPos++
		if b {
			next := t.bp.findClose(curNode) + 1
			rank += (next - curNode) / 2 // leaves under the left subtree
			curNode = next
		} else {
			curNode++
		}
	}
}

// WriteTo serializes the trie as its (bp, skips) fields.
func (t *HollowTrie[S]) WriteTo(w io.Writer) (int64, error) {
	fw := &fieldWriter{w: w}
	t.bp.bv.writeTo(fw)
	t.skips.writeTo(fw)
	return fw.n, fw.err
}

// BindHollowTrie rebinds a serialized hollow trie over data without copying.
// format must match the one used to build it.
func BindHollowTrie[S SkipVector](data []byte, format SkipsFormat[S]) (*HollowTrie[S], error) {
	fr := &fieldReader{data: data}
	bv := bindBitVector(fr)
	skips := format.bind(fr)
	if fr.err != nil {
		return nil, fr.err
	}
	return &HollowTrie[S]{bp: newBPVector(bv), skips: skips}, nil
}
