// Package succinct provides static succinct string dictionaries: compact,
// read-only data structures built once from a sorted set of byte strings and
// queried for the rank of a string (Index) or the string at a rank (Key).
//
// # Overview
//
// Three dictionary families are provided, trading space for functionality:
//
//   - HollowTrie: a binary Patricia trie storing only topology and skip
//     lengths. It is a monotone minimal perfect hash function: Index maps
//     every stored key to its rank, but keys outside the set may map to an
//     arbitrary rank instead of Absent. Smallest representation.
//   - CentroidHollowTrie: the same hollow topology rearranged by centroid
//     path decomposition, bounding the skips consulted per query by the
//     depth of the decomposition. Same monotone-hash semantics.
//   - PathTrie: a path-decomposed byte trie with full dictionary semantics:
//     Index returns Absent for keys not in the set, and Key reconstructs the
//     original string from its rank. Path labels live in a string pool,
//     either plain variable-byte encoded (VByteLabels) or grammar-compressed
//     with an approximate Re-Pair variant (RepairLabels).
//
// # Construction
//
// Input is a stream of byte strings in strictly increasing lexicographic
// order. Construction is single-pass and streaming: the builders never hold
// more than the current right spine of the trie. Out-of-order or duplicate
// input fails with ErrUnsorted or ErrDuplicate.
//
//	keys := succinct.Strings([]string{"corn", "crane", "crate"})
//	trie, err := succinct.NewLexPathTrie(keys, succinct.VByteLabels)
//
// # Queries
//
// Once built (or bound to a mapped blob), a dictionary is immutable and may
// be shared across goroutines without synchronization.
//
//	i := trie.Index([]byte("crane")) // 1
//	k := trie.Key(1)                 // "crane"
//
// # Serialization
//
// Every structure writes itself with WriteTo as a concatenation of its packed
// vectors. The blob is designed to be memory-mapped and rebound in place:
//
//	data, done, _ := succinct.OpenMapped("keys.blob")
//	defer done()
//	trie, _ := succinct.BindLexPathTrie(data, succinct.VByteLabels)
//
// Bind performs no element-wise copy; the mapped region must outlive the
// bound structure. There is no format version tag; blobs are compatible
// within a release only.
package succinct
