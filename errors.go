package succinct

import "errors"

// Construction errors. All of them indicate malformed input and abort the
// build; partially built state is discarded.
var (
	// ErrDuplicate indicates two identical consecutive keys.
	ErrDuplicate = errors.New("succinct: duplicate string in input")

	// ErrUnsorted indicates a key strictly smaller than its predecessor.
	ErrUnsorted = errors.New("succinct: input is not sorted")

	// ErrNotPrefixFree indicates a key that is a prefix of another.
	ErrNotPrefixFree = errors.New("succinct: input is not prefix-free")

	// ErrAlphabetOverflow indicates a Re-Pair input alphabet too large for
	// the 16-bit code space.
	ErrAlphabetOverflow = errors.New("succinct: input alphabet exceeds code range")

	// ErrBlobTooShort indicates a serialized blob truncated before the end
	// of the structure being bound.
	ErrBlobTooShort = errors.New("succinct: serialized blob too short")
)

// Absent is returned by Index for keys not present in the dictionary.
const Absent = ^uint64(0)
