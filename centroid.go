package succinct

import (
	"io"
	"iter"
)

// CentroidHollowTrie is a hollow trie rearranged by centroid path
// decomposition: at every node the larger subtree continues the parent's
// path, so a query touches one DFUDS node per path instead of one per
// branching bit. Each skip entry packs the bit skip with the direction that
// continues the path, (skip<<1)|dir. Same monotone minimal perfect hash
// semantics as HollowTrie, and the same original-order leaf ranks.
type CentroidHollowTrie struct {
	bp    *bpVector
	skips *GammaVector
}

// centroidSubtree is a construction fragment: the still-open centroid path
// of the fragment's root, plus the DFUDS bits and skips of the closed part.
type centroidSubtree struct {
	centroidPathSkips []uint64

	bp    bitVectorBuilder
	skips []uint64
}

// size is the virtual subtree size steering the centroid choice.
func (s *centroidSubtree) size() uint64 {
	return s.bp.size() + uint64(len(s.centroidPathSkips)) + 1
}

// appendTo folds the fragment into dst. When closePath is set the fragment
// starts a fresh branch: its centroid path is emitted in reverse as one
// DFUDS node (a run of openers and a close) before the closed part.
func (s *centroidSubtree) appendTo(closePath bool, dst *centroidSubtree) {
	if closePath {
		for i := len(s.centroidPathSkips) - 1; i >= 0; i-- {
			dst.skips = append(dst.skips, s.centroidPathSkips[i])
		}
		dst.bp.oneExtend(uint64(len(s.centroidPathSkips)))
		dst.bp.pushBack(false)
	}
	dst.bp.appendBuilder(&s.bp)
	dst.skips = append(dst.skips, s.skips...)
}

type centroidVisitor struct {
	root *centroidSubtree
}

func (*centroidVisitor) Leaf(_ []byte, _, _ uint64) *centroidSubtree {
	return &centroidSubtree{}
}

func (*centroidVisitor) Node(left, right *centroidSubtree, _ []byte, _, skip uint64) *centroidSubtree {
	ret := &centroidSubtree{}

	var dir uint64
	if left.size() >= right.size() {
		ret.centroidPathSkips = left.centroidPathSkips
		left.centroidPathSkips = nil
	} else {
		ret.centroidPathSkips = right.centroidPathSkips
		right.centroidPathSkips = nil
		dir = 1
	}
	ret.centroidPathSkips = append(ret.centroidPathSkips, skip<<1|dir)

	left.appendTo(dir == 1, ret)
	right.appendTo(dir == 0, ret)
	return ret
}

func (v *centroidVisitor) Root(rootNode *centroidSubtree) {
	ret := &centroidSubtree{}
	ret.bp.pushBack(true) // synthetic DFUDS root
	rootNode.appendTo(true, ret)
	v.root = ret
}

// NewCentroidHollowTrie builds a centroid hollow trie over keys, which must
// be strictly increasing.
func NewCentroidHollowTrie(keys iter.Seq[[]byte]) (*CentroidHollowTrie, error) {
	visitor := &centroidVisitor{}
	if err := BuildPatricia[*centroidSubtree](visitor, terminated(keys)); err != nil {
		return nil, err
	}
	if visitor.root == nil {
		return &CentroidHollowTrie{bp: newBPVector(bitVector{}), skips: newGammaVector(nil)}, nil
	}
	return &CentroidHollowTrie{
		bp:    newBPVector(visitor.root.bp.build()),
		skips: newGammaVector(visitor.root.skips),
	}, nil
}

// Size returns the number of indexed keys.
func (t *CentroidHollowTrie) Size() int {
	return int(t.bp.size() / 2)
}

// Index returns the rank of key in the original input order. Keys are
// compared including a virtual NUL terminator; keys outside the indexed set
// may map to an arbitrary rank rather than Absent.
func (t *CentroidHollowTrie) Index(key []byte) uint64 {
	if t.bp.size() == 0 {
		return Absent
	}
	bitLen := (uint64(len(key)) + 1) * 8

	curPos := uint64(0)
	curNodePos := uint64(1)
	rightAncestors := uint64(0)
	firstChildRank := uint64(0)

	for {
		nodeEnd := t.bp.successor0(curNodePos)
		nodeDeg := nodeEnd - curNodePos

		foundMismatch := false
		var taken [2]uint64 // centroid steps continued per direction

		en := t.skips.enumerate(firstChildRank)
		for i := uint64(0); i < nodeDeg; i++ {
			entry := en.next()
			curPos += entry >> 1
			dir := entry&1 != 0

			if curPos >= bitLen {
				return Absent
			}
			b := keyBit(key, curPos)
			curPos++

			if b != dir {
				foundMismatch = true
				var child uint64
				if !b {
					child = taken[1]
					rightAncestors++
				} else {
					child = nodeDeg - taken[0] - 1
				}
				childOpen := nodeEnd - child - 1
				curNodePos = t.bp.findClose(childOpen) + 1
				firstChildRank += (nodeDeg - child - 1) + (curNodePos-childOpen)/2
				break
			}
			if dir {
				taken[1]++
			} else {
				taken[0]++
			}
		}

		if !foundMismatch {
			rank0 := curNodePos - firstChildRank - 1
			if nodeDeg != 0 {
				firstRightSubtree := nodeEnd - taken[1] - 1
				leftLeaves := (t.bp.findClose(firstRightSubtree) - firstRightSubtree) / 2
				return rank0 + leftLeaves - rightAncestors
			}
			return rank0 - rightAncestors
		}
	}
}

// WriteTo serializes the trie as its (bp, skips) fields.
func (t *CentroidHollowTrie) WriteTo(w io.Writer) (int64, error) {
	fw := &fieldWriter{w: w}
	t.bp.bv.writeTo(fw)
	t.skips.writeTo(fw)
	return fw.n, fw.err
}

// BindCentroidHollowTrie rebinds a serialized trie over data without
// copying.
func BindCentroidHollowTrie(data []byte) (*CentroidHollowTrie, error) {
	fr := &fieldReader{data: data}
	bv := bindBitVector(fr)
	skips := bindGammaVector(fr)
	if fr.err != nil {
		return nil, fr.err
	}
	return &CentroidHollowTrie{bp: newBPVector(bv), skips: skips}, nil
}
