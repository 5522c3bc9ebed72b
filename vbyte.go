package succinct

// Variable-byte integer codec: 7 value bits per byte, little-endian, high bit
// set while more bytes follow.

// appendVByte appends the encoding of v to dst and returns the extended
// slice.
func appendVByte(dst []byte, v uint64) []byte {
	for v > 0x7f {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// decodeVByte decodes the value starting at buf[pos] and returns it together
// with the number of bytes consumed.
func decodeVByte(buf []byte, pos uint64) (uint64, uint64) {
	var v uint64
	var shift uint
	n := uint64(0)
	for {
		b := buf[pos+n]
		n++
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, n
		}
		shift += 7
	}
}

// vbyteSize returns the encoded length of v in bytes.
func vbyteSize(v uint64) uint64 {
	n := uint64(1)
	for v > 0x7f {
		v >>= 7
		n++
	}
	return n
}
