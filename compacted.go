package succinct

import "iter"

// Child is one labeled subtree of a compacted-trie node: the branching byte
// taken on the edge and the child's representation handle.
type Child[R any] struct {
	Label byte
	Tree  R
}

// TrieVisitor receives the nodes of a byte compacted trie bottom-up. A leaf
// is a node with no children. buf holds the full bytes of some string
// traversing the node, offset is the length of the root path to the node and
// skip the length of the label on its incoming edge, both in bytes. The
// branching byte leading to each child is carried in the children themselves,
// not in skip.
type TrieVisitor[R any] interface {
	Node(children []Child[R], buf []byte, offset, skip uint64) R
	Root(tree R)
}

type compactedFrame[R any] struct {
	pathLen  uint64
	skip     uint64
	children []Child[R]
}

// BuildCompactedTrie streams keys, which must be strictly increasing and
// prefix-free, into a multi-way byte trie, emitting each node through
// visitor. Only the right spine of the trie is held in memory.
func BuildCompactedTrie[R any](visitor TrieVisitor[R], keys iter.Seq[[]byte]) error {
	next, stop := iter.Pull(keys)
	defer stop()

	first, ok := next()
	if !ok {
		return nil
	}
	last := append([]byte(nil), first...)
	stack := []compactedFrame[R]{{pathLen: 0, skip: uint64(len(last))}}

	for {
		cur, ok := next()
		if !ok {
			break
		}

		minLen := min(len(last), len(cur))
		mismatch := 0
		for mismatch < minLen && cur[mismatch] == last[mismatch] {
			mismatch++
		}
		if mismatch == minLen {
			if len(cur) == len(last) {
				return ErrDuplicate
			}
			return ErrNotPrefixFree
		}
		if cur[mismatch] < last[mismatch] {
			return ErrUnsorted
		}
		mis := uint64(mismatch)

		// find the node to split
		curIdx := 0
		for mis > stack[curIdx].pathLen+stack[curIdx].skip {
			curIdx++
		}

		// close all open nodes below the branching point
		for ni := len(stack) - 1; ni > curIdx; ni-- {
			child := &stack[ni]
			sub := visitor.Node(child.children, last, child.pathLen, child.skip)
			parent := &stack[ni-1]
			parent.children = append(parent.children, Child[R]{Label: last[child.pathLen-1], Tree: sub})
		}
		stack = stack[:curIdx+1]
		curNode := &stack[curIdx]

		// if the mismatch falls inside the node's label, split the node
		if mis < curNode.pathLen+curNode.skip {
			sub := visitor.Node(curNode.children, last, mis+1, curNode.pathLen+curNode.skip-mis-1)
			curNode.children = []Child[R]{{Label: last[mis], Tree: sub}}
			curNode.skip = mis - curNode.pathLen
		}

		// open a new leaf with the current suffix
		stack = append(stack, compactedFrame[R]{pathLen: mis + 1, skip: uint64(len(cur)) - mis - 1})
		last = append(last[:0], cur...)
	}

	// close the remaining path
	for ni := len(stack) - 1; ni > 0; ni-- {
		child := &stack[ni]
		sub := visitor.Node(child.children, last, child.pathLen, child.skip)
		parent := &stack[ni-1]
		parent.children = append(parent.children, Child[R]{Label: last[child.pathLen-1], Tree: sub})
	}
	root := visitor.Node(stack[0].children, last, stack[0].pathLen, stack[0].skip)
	visitor.Root(root)
	return nil
}
