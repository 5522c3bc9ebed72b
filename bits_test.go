package succinct

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetBit(t *testing.T) {
	buf := []byte{0b1010_0001, 0b0000_0001}
	want := []int{1, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1}
	for i, w := range want {
		require.Equal(t, w == 1, getBit(buf, uint64(i)), "bit %d", i)
	}
}

func TestGetByte(t *testing.T) {
	buf := []byte{0xab, 0xcd}

	require.Equal(t, byte(0xab), getByte(buf, 16, 0))
	require.Equal(t, byte(0xcd), getByte(buf, 16, 8))
	// straddling two bytes
	require.Equal(t, byte(0xbc), getByte(buf, 16, 4))
	// zero-extension past the buffer end
	require.Equal(t, byte(0xd0), getByte(buf, 16, 12))
}

func TestFindMismatchingBit(t *testing.T) {
	a := []byte("abc")
	b := []byte("abd")
	// 'c'=0x63 and 'd'=0x64 first differ at bit 5 of the third byte
	require.Equal(t, int64(2*8+5), findMismatchingBit(a, 0, 24, b, 0, 24))
	require.Equal(t, int64(2*8+5), findMismatchingBit(b, 0, 24, a, 0, 24))

	// identical prefixes of any length report no mismatch
	require.Equal(t, int64(-1), findMismatchingBit(a, 0, 24, a, 0, 24))
	require.Equal(t, int64(-1), findMismatchingBit(a, 0, 16, b, 0, 24))
	require.Equal(t, int64(-1), findMismatchingBit(a, 0, 24, b, 0, 16))

	// a mismatch at or past the shorter length must be discarded even when
	// the lengths are not byte-aligned
	c := []byte{0b1111_0000}
	d := []byte{0b1111_0111}
	require.Equal(t, int64(-1), findMismatchingBit(c, 0, 5, d, 0, 8))
	require.Equal(t, int64(5), findMismatchingBit(c, 0, 6, d, 0, 8))

	// non-zero offsets
	e := []byte{0x00, 0b1010_0000}
	f := []byte{0b1000_0000}
	require.Equal(t, int64(2), findMismatchingBit(e, 8, 8, f, 0, 8))
}

func TestKeyByteAndBitTerminator(t *testing.T) {
	key := []byte("ab")
	require.Equal(t, byte('a'), keyByte(key, 0))
	require.Equal(t, byte(0), keyByte(key, 2))
	require.Equal(t, byte(0), keyByte(key, 99))

	require.True(t, keyBit(key, 1)) // 'a' = 0110_0001
	require.False(t, keyBit(key, 16))
	require.False(t, keyBit(key, 23))
}
