package succinct

import "iter"

// BinaryTreeVisitor receives the nodes of a Patricia trie bottom-up as the
// builder closes them. R is the visitor's subtree representation; handles are
// passed by value and ownership moves into the enclosing Node call.
//
// For every callback, buf holds the full bytes of some string traversing the
// node, offsetBits is the length of the root path to the node, and skipBits
// is the length of the label on its incoming edge. The decision bit is not
// part of skipBits; it is implied by the left/right position.
type BinaryTreeVisitor[R any] interface {
	Leaf(buf []byte, offsetBits, skipBits uint64) R
	Node(left, right R, buf []byte, offsetBits, skipBits uint64) R
	Root(tree R)
}

// patriciaFrame is one open node on the right spine of the partially built
// trie. Leaf frames have no left subtree yet.
type patriciaFrame[R any] struct {
	pathLen uint64
	skip    uint64
	left    R
}

// BuildPatricia streams keys, which must be strictly increasing and
// prefix-free at the bit level, into a binary Patricia trie, emitting each
// node through visitor. Only the right spine of the trie is held in memory.
func BuildPatricia[R any](visitor BinaryTreeVisitor[R], keys iter.Seq[[]byte]) error {
	next, stop := iter.Pull(keys)
	defer stop()

	first, ok := next()
	if !ok {
		return nil
	}
	var zero R
	last := append([]byte(nil), first...)
	stack := []patriciaFrame[R]{{pathLen: 0, skip: uint64(len(last)) * 8}}

	for {
		cur, ok := next()
		if !ok {
			break
		}
		curBits := uint64(len(cur)) * 8
		lastBits := uint64(len(last)) * 8

		mm := findMismatchingBit(cur, 0, curBits, last, 0, lastBits)
		if mm < 0 {
			if curBits == lastBits {
				return ErrDuplicate
			}
			return ErrNotPrefixFree
		}
		mismatch := uint64(mm)
		if !getBit(cur, mismatch) {
			return ErrUnsorted
		}

		// find the node whose edge straddles the mismatch
		curIdx := 0
		for mismatch > stack[curIdx].pathLen+stack[curIdx].skip {
			curIdx++
		}
		curNode := &stack[curIdx]

		// close all open nodes below the branching point into one subtree
		var left R
		if curIdx == len(stack)-1 {
			left = visitor.Leaf(last, mismatch+1, lastBits-mismatch-1)
		} else {
			top := stack[len(stack)-1]
			right := visitor.Leaf(last, top.pathLen, lastBits-top.pathLen)
			for ni := len(stack) - 2; ni > curIdx; ni-- {
				right = visitor.Node(stack[ni].left, right, last, stack[ni].pathLen, stack[ni].skip)
			}
			left = visitor.Node(curNode.left, right, last, mismatch+1, curNode.pathLen+curNode.skip-mismatch-1)
		}

		// cut the spine and push the split node, then a leaf for the suffix
		curPathLen := curNode.pathLen
		stack = stack[:curIdx]
		stack = append(stack,
			patriciaFrame[R]{pathLen: curPathLen, skip: mismatch - curPathLen, left: left},
			patriciaFrame[R]{pathLen: mismatch + 1, skip: curBits - mismatch - 1, left: zero})

		last = append(last[:0], cur...)
	}

	// close the remaining spine
	top := stack[len(stack)-1]
	right := visitor.Leaf(last, top.pathLen, top.skip)
	for ni := len(stack) - 2; ni >= 0; ni-- {
		right = visitor.Node(stack[ni].left, right, last, stack[ni].pathLen, stack[ni].skip)
	}
	visitor.Root(right)
	return nil
}

// Strings adapts a string slice to a key sequence.
func Strings(ss []string) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for _, s := range ss {
			if !yield([]byte(s)) {
				return
			}
		}
	}
}

// Bytes adapts a byte-slice slice to a key sequence.
func Bytes(bs [][]byte) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for _, b := range bs {
			if !yield(b) {
				return
			}
		}
	}
}

// terminated wraps keys with the trailing NUL byte the dictionaries index
// under, which also makes any sorted duplicate-free input prefix-free.
func terminated(keys iter.Seq[[]byte]) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		var buf []byte
		for k := range keys {
			buf = append(append(buf[:0], k...), 0)
			if !yield(buf) {
				return
			}
		}
	}
}
