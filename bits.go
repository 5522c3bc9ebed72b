package succinct

import "math/bits"

// Bit positions are MSB-first: bit 0 of a buffer is the most significant bit
// of its first byte, so bit order matches lexicographic byte order.

// getBit returns the bit of buf at position off.
func getBit(buf []byte, off uint64) bool {
	return (buf[off/8]>>(7-off%8))&1 != 0
}

// getByte returns the byte whose most significant bit sits at position off,
// zero-extending past bitLen. off must be below bitLen.
func getByte(buf []byte, bitLen, off uint64) byte {
	bytePos := off / 8
	byteOff := off % 8
	byteLen := (bitLen + 7) / 8

	ret := buf[bytePos] << byteOff
	if byteOff != 0 && bytePos+1 < byteLen {
		ret |= buf[bytePos+1] >> (8 - byteOff)
	}
	return ret
}

// findMismatchingBit returns the position of the first differing bit between
// buf1[off1:off1+len1] and buf2[off2:off2+len2], both in bits, or -1 if one
// is a prefix of the other. Comparison is byte-at-a-time: the XOR of the
// first differing bytes locates the highest differing bit, which is then
// discarded if it falls at or past the shorter length.
func findMismatchingBit(buf1 []byte, off1, len1 uint64, buf2 []byte, off2, len2 uint64) int64 {
	minLen := min(len1, len2)
	bytesLen := (minLen + 7) / 8

	for i := uint64(0); i < bytesLen; i++ {
		b1 := getByte(buf1, off1+len1, off1+i*8)
		b2 := getByte(buf2, off2+len2, off2+i*8)
		if b1 != b2 {
			ret := i*8 + uint64(bits.LeadingZeros8(b1^b2))
			if ret >= minLen {
				return -1
			}
			return int64(ret)
		}
	}
	return -1
}

// keyBit reads bit pos of key under the NUL-terminated convention: positions
// past the key read as zero bits of the virtual terminator byte.
func keyBit(key []byte, pos uint64) bool {
	if pos >= uint64(len(key))*8 {
		return false
	}
	return getBit(key, pos)
}

// keyByte reads byte i of key under the NUL-terminated convention:
// positions past the key read as the virtual terminator.
func keyByte(key []byte, i uint64) byte {
	if i < uint64(len(key)) {
		return key[i]
	}
	return 0
}

var prefetchSink byte

// prefetch is an advisory hint that buf[off] is about to be read. It is a
// harmless plain load on platforms without prefetch support, which in Go is
// all of them.
func prefetch(buf []byte, off uint64) {
	if off < uint64(len(buf)) {
		prefetchSink = buf[off]
	}
}
