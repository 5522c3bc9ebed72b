package succinct

import "container/heap"

// Approximate Re-Pair: instead of always replacing the single most frequent
// pair, each round counts all adjacent pairs in one pass, materializes up to
// maxRulesPerRound of the most frequent ones, and rewrites the sequence
// greedily left to right. Rounds repeat until no pair reaches the frequency
// threshold or the dictionary is full.
const (
	repairMaxRulesPerRound = 1000
	repairMaxDictSize      = 1 << 16
	repairMinRuleFrequency = 16
	repairHashPrime        = 2013686449
)

// RepairChar constrains the input character types ApproximateRepair
// accepts. The character 0 is reserved as the string separator.
type RepairChar interface {
	~uint8 | ~uint16
}

// rulePair packs a (left, right) code pair into one 32-bit key.
type rulePair uint32

func makeRulePair(left, right uint16) rulePair {
	return rulePair(uint32(left)<<16 | uint32(right))
}

func (r rulePair) left() uint16  { return uint16(r >> 16) }
func (r rulePair) right() uint16 { return uint16(r) }
func (r rulePair) hash() uint64  { return uint64(r) * repairHashPrime }

// nullRulePair is the empty-cell marker: there can never be 65536 rules, so
// the pair (0xFFFF, 0xFFFF) cannot name a materialized rule. Counts
// accumulated against it land in an empty cell and are skipped by scans, so
// at most one legitimate pair's frequency is lost; accepted approximation.
const nullRulePair = rulePair(1<<32 - 1)

type ruleCell[V any] struct {
	key rulePair
	val V
}

// rulesTable is an open-addressing hash table keyed by code pairs, with
// linear probing over a power-of-two cell array.
type rulesTable[V any] struct {
	cells []ruleCell[V]
	size  int
}

func newRulesTable[V any]() *rulesTable[V] {
	t := &rulesTable[V]{cells: make([]ruleCell[V], 8)}
	for i := range t.cells {
		t.cells[i].key = nullRulePair
	}
	return t
}

func (t *rulesTable[V]) cell(key rulePair) *ruleCell[V] {
	h := key.hash()
	mask := uint64(len(t.cells) - 1)
	for {
		c := &t.cells[h&mask]
		if c.key == nullRulePair || c.key == key {
			return c
		}
		h++
	}
}

func (t *rulesTable[V]) tryGet(key rulePair) (V, bool) {
	c := t.cell(key)
	if c.key == nullRulePair {
		var zero V
		return zero, false
	}
	return c.val, true
}

// ref returns a pointer to the value for key, inserting a zero value first
// if absent.
func (t *rulesTable[V]) ref(key rulePair) *V {
	t.rehash()
	c := t.cell(key)
	if c.key == nullRulePair {
		var zero V
		c.key = key
		c.val = zero
		t.size++
	}
	return &c.val
}

func (t *rulesTable[V]) rehash() {
	if len(t.cells) > t.size*2 {
		return
	}
	old := t.cells
	t.cells = make([]ruleCell[V], 2*len(old))
	for i := range t.cells {
		t.cells[i].key = nullRulePair
	}
	for i := range old {
		if old[i].key != nullRulePair {
			*t.cell(old[i].key) = old[i]
		}
	}
}

// ruleHeap is a min-heap of candidate rules by frequency, keeping the top
// maxRulesPerRound candidates of a round.
type ruleCount struct {
	pair  rulePair
	count uint64
}

type ruleHeap []ruleCount

func (h ruleHeap) Len() int            { return len(h) }
func (h ruleHeap) Less(i, j int) bool  { return h[i].count < h[j].count }
func (h ruleHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *ruleHeap) Push(x any)         { *h = append(*h, x.(ruleCount)) }
func (h *ruleHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// ApproximateRepair grammar-compresses s. It returns the compressed code
// sequence and the dictionary of word expansions per code; code 0 is always
// the reserved separator word {0}, other codes are assigned to input chars
// in first-seen order and to materialized rules in selection order. With
// preserveBoundaries no rule ever spans a 0 char, so separator positions
// survive compression.
//
// Decoding every code of the result through the dictionary reproduces s
// byte for byte.
func ApproximateRepair[E RepairChar](s []E, preserveBoundaries bool) ([]uint16, [][]E, error) {
	curL := len(s)

	// map input chars to dense codes, 0 first
	codes := make([]uint16, curL)
	alphabet := map[E]int{0: 1}
	for i, ch := range s {
		code, ok := alphabet[ch]
		if !ok {
			code = len(alphabet) + 1
			if code-1 > int(^uint16(0)) {
				return nil, nil, ErrAlphabetOverflow
			}
			alphabet[ch] = code
		}
		codes[i] = uint16(code - 1)
	}

	dict := make([][]E, len(alphabet))
	for ch, code := range alphabet {
		dict[code-1] = []E{ch}
	}
	wordLen := make([]int, len(dict))
	for i := range wordLen {
		wordLen[i] = 1
	}
	dictSize := len(dict)

	counts := newRulesTable[uint64]()
	for {
		// count adjacent pairs, skipping rules that could never fit
		for i := 0; i+1 < curL; i++ {
			left, right := codes[i], codes[i+1]
			if dictSize+wordLen[left]+wordLen[right] > repairMaxDictSize {
				continue
			}
			if preserveBoundaries && (left == 0 || right == 0) {
				continue
			}
			*counts.ref(makeRulePair(left, right)) += 1
		}

		// keep the most frequent candidates, resetting the counters in the
		// same sweep so the table allocation is reused across rounds
		h := make(ruleHeap, 0, repairMaxRulesPerRound)
		for i := range counts.cells {
			c := &counts.cells[i]
			if c.key != nullRulePair && c.val >= repairMinRuleFrequency {
				if len(h) < repairMaxRulesPerRound {
					heap.Push(&h, ruleCount{pair: c.key, count: c.val})
				} else if c.val > h[0].count {
					heap.Pop(&h)
					heap.Push(&h, ruleCount{pair: c.key, count: c.val})
				}
			}
			c.val = 0
		}
		if len(h) == 0 {
			break
		}
		newRules := make([]ruleCount, len(h))
		for i := len(newRules) - 1; i >= 0; i-- {
			newRules[i] = heap.Pop(&h).(ruleCount)
		}

		// materialize the rules that still fit, most frequent first
		replacements := newRulesTable[uint16]()
		for _, rc := range newRules {
			left, right := rc.pair.left(), rc.pair.right()
			if dictSize+wordLen[left]+wordLen[right] > repairMaxDictSize {
				continue
			}
			word := make([]E, 0, wordLen[left]+wordLen[right])
			word = append(append(word, dict[left]...), dict[right]...)

			*replacements.ref(rc.pair) = uint16(len(dict))
			dict = append(dict, word)
			wordLen = append(wordLen, len(word))
			dictSize += len(word)
		}

		// greedy non-overlapping replacement, compacting in place
		toI := 0
		for fromI := 0; fromI < curL; {
			if fromI+2 <= curL {
				if code, ok := replacements.tryGet(makeRulePair(codes[fromI], codes[fromI+1])); ok {
					codes[toI] = code
					fromI += 2
					toI++
					continue
				}
			}
			codes[toI] = codes[fromI]
			toI++
			fromI++
		}
		curL = toI
	}

	return codes[:curL], dict, nil
}
