package succinct

import (
	"maps"
	"math/rand/v2"
	"slices"
)

// e1Keys is a small sorted corpus with shared prefixes, nested prefixes and
// single-byte keys.
var e1Keys = []string{"a", "aa", "aaa", "abac", "bbccd", "bbcce", "bbcd", "bbce", "ccx", "cx", "x"}

// genCorpus generates n distinct sorted keys over a small alphabet, with
// plenty of shared prefixes and full prefix relationships.
func genCorpus(n int) [][]byte {
	prng := rand.New(rand.NewPCG(42, 42))
	seen := make(map[string]struct{}, n)
	for len(seen) < n {
		l := 1 + prng.IntN(12)
		b := make([]byte, l)
		for i := range b {
			b[i] = byte('a' + prng.IntN(4))
		}
		seen[string(b)] = struct{}{}
	}
	keys := slices.Sorted(maps.Keys(seen))
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = []byte(k)
	}
	return out
}
