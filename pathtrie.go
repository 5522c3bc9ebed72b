package succinct

import (
	"io"
	"iter"
	"slices"
)

// Label chars are 16-bit: values below branchingPoint are literal bytes of
// the decomposed path; a value c >= branchingPoint marks a branching point
// of degree c-branchingPoint+1, whose branching bytes live in the
// branching-chars vector.
const branchingPoint = 256

// LabelsPool stores one label string per trie node, indexed by DFUDS rank.
// VByteStringPool and CompressedStringPool implement it.
type LabelsPool interface {
	// Size returns the number of stored strings.
	Size() int
	// StringEnumerator yields the chars of string i, then 0 forever.
	StringEnumerator(i uint64) LabelEnumerator

	writeTo(fw *fieldWriter)
}

// LabelEnumerator is a forward cursor over one pooled string.
type LabelEnumerator interface {
	Next() uint16
}

// LabelsFormat selects the physical encoding of a path trie's label pool.
// Use VByteLabels or RepairLabels; the same format must be passed when
// binding a serialized trie.
type LabelsFormat[P LabelsPool] struct {
	build func(chars []uint16) (P, error)
	bind  func(fr *fieldReader) P
}

// PathTrie is a path-decomposed byte trie: a full dictionary over the input
// set supporting both Index and the reverse lookup Key. The decomposition
// strategy is fixed at construction: NewCentroidPathTrie picks the largest
// child to continue each path (ranks follow DFUDS order), NewLexPathTrie
// always continues with the smallest branching byte (ranks are
// lexicographic, which for sorted input means Index(keys[i]) == i).
type PathTrie[P LabelsPool] struct {
	bp             *bpVector
	branchingChars []byte
	labels         P
}

// pdtSubtree is a construction fragment. The still-open decomposed path of
// the fragment's root is accumulated in reverse (label chars and branching
// bytes); bp, branchingChars and labels hold the closed part.
type pdtSubtree struct {
	centroidPathString   []uint16
	centroidPathBranches []byte

	bp             bitVectorBuilder
	branchingChars []byte
	labels         []uint16
}

func (s *pdtSubtree) size() uint64 {
	return (s.bp.size()+1)/2 + uint64(len(s.centroidPathBranches))
}

// appendTo closes the fragment's path into one DFUDS node of dst, followed
// by the fragment's closed part. An empty path still contributes a single 0
// label char so that every node owns exactly one pooled string.
func (s *pdtSubtree) appendTo(dst *pdtSubtree) {
	if len(s.centroidPathString) > 0 {
		for i := len(s.centroidPathString) - 1; i >= 0; i-- {
			dst.labels = append(dst.labels, s.centroidPathString[i])
		}
	} else {
		dst.labels = append(dst.labels, 0)
	}

	dst.bp.oneExtend(uint64(len(s.centroidPathBranches)))
	dst.bp.pushBack(false)
	for i := len(s.centroidPathBranches) - 1; i >= 0; i-- {
		dst.branchingChars = append(dst.branchingChars, s.centroidPathBranches[i])
	}

	dst.bp.appendBuilder(&s.bp)
	dst.branchingChars = append(dst.branchingChars, s.branchingChars...)
	dst.labels = append(dst.labels, s.labels...)
}

type pdtVisitor struct {
	lex  bool
	root *pdtSubtree
}

func (v *pdtVisitor) Node(children []Child[*pdtSubtree], buf []byte, offset, skip uint64) *pdtSubtree {
	var ret *pdtSubtree

	if len(children) > 0 {
		selected := 0
		if !v.lex {
			var selectedSize uint64
			for i, c := range children {
				if i == 0 || c.Tree.size() > selectedSize {
					selected = i
					selectedSize = c.Tree.size()
				}
			}
		}
		ret = children[selected].Tree
		ret.centroidPathString = append(ret.centroidPathString,
			uint16(children[selected].Label),
			uint16(branchingPoint+len(children)-2))

		// fold the remaining children; branching bytes are reversed with
		// the rest of the path
		for i, c := range children {
			if i == selected {
				continue
			}
			ret.centroidPathBranches = append(ret.centroidPathBranches, c.Label)
			c.Tree.appendTo(ret)
		}
	} else {
		ret = &pdtSubtree{}
	}

	// incoming edge bytes, in reverse
	for i := offset + skip; i > offset; i-- {
		ret.centroidPathString = append(ret.centroidPathString, uint16(buf[i-1]))
	}
	return ret
}

func (v *pdtVisitor) Root(rootNode *pdtSubtree) {
	ret := &pdtSubtree{}
	ret.bp.pushBack(true) // synthetic DFUDS root
	rootNode.appendTo(ret)
	v.root = ret
}

// NewCentroidPathTrie builds a centroid path-decomposed trie over keys,
// which must be strictly increasing; format selects the label pool.
func NewCentroidPathTrie[P LabelsPool](keys iter.Seq[[]byte], format LabelsFormat[P]) (*PathTrie[P], error) {
	return newPathTrie(keys, false, format)
}

// NewLexPathTrie builds a lexicographic path-decomposed trie over keys,
// which must be strictly increasing; format selects the label pool.
func NewLexPathTrie[P LabelsPool](keys iter.Seq[[]byte], format LabelsFormat[P]) (*PathTrie[P], error) {
	return newPathTrie(keys, true, format)
}

func newPathTrie[P LabelsPool](keys iter.Seq[[]byte], lex bool, format LabelsFormat[P]) (*PathTrie[P], error) {
	visitor := &pdtVisitor{lex: lex}
	if err := BuildCompactedTrie[*pdtSubtree](visitor, terminated(keys)); err != nil {
		return nil, err
	}
	root := visitor.root
	if root == nil {
		root = &pdtSubtree{}
	}
	labels, err := format.build(root.labels)
	if err != nil {
		return nil, err
	}
	return &PathTrie[P]{
		bp:             newBPVector(root.bp.build()),
		branchingChars: root.branchingChars,
		labels:         labels,
	}, nil
}

// Size returns the number of indexed keys.
func (t *PathTrie[P]) Size() int {
	return int(t.bp.size() / 2)
}

// Index returns the rank of key, or Absent if key is not in the indexed
// set. Keys are matched including a virtual NUL terminator.
func (t *PathTrie[P]) Index(key []byte) uint64 {
	if t.bp.size() == 0 {
		return Absent
	}
	n := uint64(len(key)) + 1 // virtual terminator included

	curPos := uint64(0)
	curNodePos := uint64(1)
	firstChildRank := uint64(0)

	for {
		rank0 := curNodePos - firstChildRank - 1
		if curPos == n {
			return rank0
		}

		prefetch(t.branchingChars, firstChildRank)
		en := t.labels.StringEnumerator(rank0)

		branchingBegin := uint64(0)
		branchingCount := uint64(0)
		lastBranchingPoint := Absent

		for {
			if curPos == n {
				return Absent
			}
			label := en.Next()
			if label >= branchingPoint {
				branchingBegin += branchingCount
				branchingCount = uint64(label) - branchingPoint + 1
				lastBranchingPoint = curPos
				continue
			}
			c := keyByte(key, curPos)
			if label != uint16(c) {
				if lastBranchingPoint != curPos {
					return Absent
				}
				break // descend through a branching byte
			}
			curPos++
			if label == 0 {
				if curPos == n {
					return rank0
				}
				return Absent
			}
		}

		// find the child whose branching byte matches
		c := keyByte(key, curPos)
		found := false
		for i := branchingBegin; i < branchingBegin+branchingCount; i++ {
			if t.branchingChars[firstChildRank+i] != c {
				continue
			}
			curPos++
			found = true
			childOpen := curNodePos + i
			curNodePos = t.bp.findClose(childOpen) + 1
			firstChildRank += i + (curNodePos-childOpen)/2
			break
		}
		if !found {
			return Absent
		}
	}
}

// Key reconstructs the key stored at rank idx by walking its leaf's
// ancestors upwards and reversing the traversed label segments. idx must be
// below Size.
func (t *PathTrie[P]) Key(idx uint64) []byte {
	var ret []byte

	rank0 := idx
	lastRank0 := idx
	var curNodePos uint64
	if idx != 0 {
		curNodePos = t.bp.select0(idx - 1)
	}
	var nextOpener uint64
	if curNodePos != 0 {
		nextOpener = t.bp.findOpen(curNodePos)
	}

	for curNodePos != 0 {
		openerPos := nextOpener
		rank0 -= (curNodePos - openerPos + 1) / 2

		var parentPos uint64
		if rank0 != 0 {
			parentPos = t.bp.predecessor0(openerPos)
		}
		childIdx := openerPos - parentPos - 1
		curNodePos = parentPos

		prefetch(t.branchingChars, openerPos-rank0-1)
		en := t.labels.StringEnumerator(rank0)

		// locate the next ancestor while the labels are on their way in
		if curNodePos != 0 {
			nextOpener = t.bp.findOpen(curNodePos)
		}

		if branchChar := t.branchingChars[openerPos-rank0-1]; branchChar != 0 {
			ret = append(ret, branchChar)
		}

		suffixStart := len(ret)
		branchingBegin := uint64(0)
		for {
			c := en.Next()
			if c < branchingPoint {
				ret = append(ret, byte(c))
				continue
			}
			degree := uint64(c) - branchingPoint + 1
			if childIdx < branchingBegin+degree {
				break
			}
			branchingBegin += degree
		}
		slices.Reverse(ret[suffixStart:])
	}

	slices.Reverse(ret)

	// append the leaf's own path segment, skipping branching markers
	en := t.labels.StringEnumerator(lastRank0)
	for {
		c := en.Next()
		if c == 0 {
			break
		}
		if c < branchingPoint {
			ret = append(ret, byte(c))
		}
	}
	return ret
}

// WriteTo serializes the trie as its (bp, branchingChars, labels) fields.
func (t *PathTrie[P]) WriteTo(w io.Writer) (int64, error) {
	fw := &fieldWriter{w: w}
	t.bp.bv.writeTo(fw)
	fw.bytes(t.branchingChars)
	t.labels.writeTo(fw)
	return fw.n, fw.err
}

// BindCentroidPathTrie rebinds a serialized centroid path trie over data
// without copying. format must match the one used to build it.
func BindCentroidPathTrie[P LabelsPool](data []byte, format LabelsFormat[P]) (*PathTrie[P], error) {
	return bindPathTrie(data, format)
}

// BindLexPathTrie rebinds a serialized lexicographic path trie over data
// without copying. format must match the one used to build it.
func BindLexPathTrie[P LabelsPool](data []byte, format LabelsFormat[P]) (*PathTrie[P], error) {
	return bindPathTrie(data, format)
}

func bindPathTrie[P LabelsPool](data []byte, format LabelsFormat[P]) (*PathTrie[P], error) {
	fr := &fieldReader{data: data}
	bv := bindBitVector(fr)
	branchingChars := fr.bytes()
	labels := format.bind(fr)
	if fr.err != nil {
		return nil, fr.err
	}
	return &PathTrie[P]{bp: newBPVector(bv), branchingChars: branchingChars, labels: labels}, nil
}
