package succinct

import (
	"encoding/binary"
	"io"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Serialized structures are a concatenation of fields in declaration order.
// Each field is a 64-bit little-endian count of logical elements followed by
// the element bytes, padded to 8-byte alignment. Scalars are a bare count
// with no payload. Readers rebind fields in place over the mapped blob.

const fieldAlign = 8

var zeroPad [fieldAlign]byte

// fieldWriter emits fields sequentially, accumulating the byte count and the
// first error.
type fieldWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (fw *fieldWriter) write(p []byte) {
	if fw.err != nil {
		return
	}
	n, err := fw.w.Write(p)
	fw.n += int64(n)
	fw.err = err
}

func (fw *fieldWriter) scalar(v uint64) {
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], v)
	fw.write(hdr[:])
}

func (fw *fieldWriter) field(count uint64, payload []byte) {
	fw.scalar(count)
	fw.write(payload)
	if pad := len(payload) % fieldAlign; pad != 0 {
		fw.write(zeroPad[:fieldAlign-pad])
	}
}

func (fw *fieldWriter) words(count uint64, words []uint64) {
	payload := make([]byte, len(words)*8)
	for i, w := range words {
		binary.LittleEndian.PutUint64(payload[i*8:], w)
	}
	fw.field(count, payload)
}

func (fw *fieldWriter) bytes(b []byte) {
	fw.field(uint64(len(b)), b)
}

func (fw *fieldWriter) uint16s(v []uint16) {
	payload := make([]byte, len(v)*2)
	for i, x := range v {
		binary.LittleEndian.PutUint16(payload[i*2:], x)
	}
	fw.field(uint64(len(v)), payload)
}

func (fw *fieldWriter) uint32s(v []uint32) {
	payload := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(payload[i*4:], x)
	}
	fw.field(uint64(len(v)), payload)
}

// fieldReader consumes fields sequentially from a mapped blob, binding
// payloads without copying where alignment allows.
type fieldReader struct {
	data []byte
	off  int
	err  error
}

func (fr *fieldReader) scalar() uint64 {
	if fr.err != nil {
		return 0
	}
	if fr.off+8 > len(fr.data) {
		fr.err = ErrBlobTooShort
		return 0
	}
	v := binary.LittleEndian.Uint64(fr.data[fr.off:])
	fr.off += 8
	return v
}

func (fr *fieldReader) payload(size int) []byte {
	if fr.err != nil {
		return nil
	}
	padded := (size + fieldAlign - 1) &^ (fieldAlign - 1)
	if fr.off+padded > len(fr.data) {
		fr.err = ErrBlobTooShort
		return nil
	}
	p := fr.data[fr.off : fr.off+size]
	fr.off += padded
	return p
}

func (fr *fieldReader) bytes() []byte {
	count := fr.scalar()
	return fr.payload(int(count))
}


func (fr *fieldReader) uint16s() []uint16 {
	count := fr.scalar()
	p := fr.payload(int(count) * 2)
	if len(p) == 0 {
		return nil
	}
	if uintptr(unsafe.Pointer(&p[0]))%2 == 0 {
		return unsafe.Slice((*uint16)(unsafe.Pointer(&p[0])), count)
	}
	out := make([]uint16, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(p[i*2:])
	}
	return out
}

func (fr *fieldReader) uint32s() []uint32 {
	count := fr.scalar()
	p := fr.payload(int(count) * 4)
	if len(p) == 0 {
		return nil
	}
	if uintptr(unsafe.Pointer(&p[0]))%4 == 0 {
		return unsafe.Slice((*uint32)(unsafe.Pointer(&p[0])), count)
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(p[i*4:])
	}
	return out
}

// bindUint64s views an 8-aligned little-endian byte slice as uint64 words.
// Misaligned input (possible for blobs loaded into plain byte buffers rather
// than mapped) falls back to a copy.
func bindUint64s(p []byte) []uint64 {
	if len(p) == 0 {
		return nil
	}
	n := len(p) / 8
	if uintptr(unsafe.Pointer(&p[0]))%8 == 0 {
		return unsafe.Slice((*uint64)(unsafe.Pointer(&p[0])), n)
	}
	out := make([]uint64, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(p[i*8:])
	}
	return out
}

// Per-structure field images.

func (v *bitVector) writeTo(fw *fieldWriter) {
	fw.words(v.n, v.words)
}

func bindBitVector(fr *fieldReader) bitVector {
	n := fr.scalar()
	p := fr.payload(int((n + 63) / 64 * 8))
	return bitVector{words: bindUint64s(p), n: n}
}

func (ef *eliasFano) writeTo(fw *fieldWriter) {
	fw.scalar(ef.universe)
	fw.scalar(ef.n)
	ef.low.writeTo(fw)
	ef.high.writeTo(fw)
}

func bindEliasFano(fr *fieldReader) *eliasFano {
	ef := &eliasFano{}
	ef.universe = fr.scalar()
	ef.n = fr.scalar()
	if ef.n > 0 {
		ef.lowWidth = efLowWidth(ef.universe, ef.n)
	}
	ef.low = bindBitVector(fr)
	ef.high = bindBitVector(fr)
	if fr.err == nil {
		ef.buildIndex()
	}
	return ef
}

func (g *GammaVector) writeTo(fw *fieldWriter) {
	fw.scalar(g.n)
	g.bv.writeTo(fw)
}

func bindGammaVector(fr *fieldReader) *GammaVector {
	g := &GammaVector{}
	g.n = fr.scalar()
	g.bv = bindBitVector(fr)
	if fr.err == nil {
		g.buildIndex()
	}
	return g
}

func (l *EliasFanoList) writeTo(fw *fieldWriter) {
	l.ef.writeTo(fw)
}

func bindEliasFanoList(fr *fieldReader) *EliasFanoList {
	return &EliasFanoList{ef: bindEliasFano(fr)}
}

// Freeze serializes s to a file at path.
func Freeze(path string, s io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OpenMapped memory-maps the file at path read-only and returns the mapped
// bytes along with a function releasing the mapping. The mapping must
// outlive any structure bound over it.
func OpenMapped(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if st.Size() == 0 {
		return nil, func() error { return nil }, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
