package succinct

import (
	"fmt"
	"slices"
	"strings"
)

// Label pool formats for PathTrie.
var (
	// VByteLabels stores label strings as plain variable-byte chars.
	VByteLabels = LabelsFormat[*VByteStringPool]{build: newVByteStringPool, bind: bindVByteStringPool}

	// RepairLabels compresses the label strings with approximate Re-Pair
	// before variable-byte encoding the resulting codes.
	RepairLabels = LabelsFormat[*CompressedStringPool]{build: newCompressedStringPool, bind: bindCompressedStringPool}
)

// VByteStringPool stores a sequence of NUL-terminated strings of integer
// chars as concatenated variable-byte encodings, with an Elias-Fano sequence
// of per-string start offsets.
type VByteStringPool struct {
	byteStreams []byte
	positions   *eliasFano
}

// NewVByteStringPool builds a pool from a flat char stream in which every 0
// terminates a string. The stream must end with a terminator.
func NewVByteStringPool(stream []uint16) *VByteStringPool {
	p, _ := newVByteStringPool(stream)
	return p
}

func newVByteStringPool(stream []uint16) (*VByteStringPool, error) {
	var sum uint64
	count := 0
	for _, c := range stream {
		if c == 0 {
			count++
		} else {
			sum += vbyteSize(uint64(c))
		}
	}

	byteStreams := make([]byte, 0, sum)
	positions := make([]uint64, 1, count+1)
	for _, c := range stream {
		if c != 0 {
			byteStreams = appendVByte(byteStreams, uint64(c))
		} else {
			positions = append(positions, uint64(len(byteStreams)))
		}
	}
	return &VByteStringPool{
		byteStreams: byteStreams,
		positions:   newEliasFano(positions),
	}, nil
}

// Size returns the number of stored strings.
func (p *VByteStringPool) Size() int {
	return int(p.positions.numOnes() - 1)
}

type vbyteStringEnumerator struct {
	p          *VByteStringPool
	begin, end uint64
}

// StringEnumerator returns a cursor over string i.
func (p *VByteStringPool) StringEnumerator(i uint64) LabelEnumerator {
	begin, end := p.positions.selectRange(i)
	prefetch(p.byteStreams, begin)
	return &vbyteStringEnumerator{p: p, begin: begin, end: end}
}

func (e *vbyteStringEnumerator) Next() uint16 {
	if e.begin == e.end {
		return 0
	}
	v, n := decodeVByte(e.p.byteStreams, e.begin)
	e.begin += n
	return uint16(v)
}

// GetString renders string i for debugging: printable chars verbatim,
// everything else as [n].
func (p *VByteStringPool) GetString(i uint64) string {
	return renderString(p.StringEnumerator(i))
}

func (p *VByteStringPool) writeTo(fw *fieldWriter) {
	fw.bytes(p.byteStreams)
	p.positions.writeTo(fw)
}

func bindVByteStringPool(fr *fieldReader) *VByteStringPool {
	return &VByteStringPool{
		byteStreams: fr.bytes(),
		positions:   bindEliasFano(fr),
	}
}

// CompressedStringPool stores the same string sequence as VByteStringPool
// after approximate Re-Pair compression: a dictionary of word expansions and
// a variable-byte stream of grammar codes renumbered by descending
// frequency, so the hottest words get the shortest encodings.
type CompressedStringPool struct {
	dictionary    []uint16
	wordPositions []uint16
	byteStreams   []byte
	positions     *eliasFano
}

// NewCompressedStringPool builds a compressed pool from a flat char stream
// in which every 0 terminates a string. The stream must end with a
// terminator.
func NewCompressedStringPool(stream []uint16) (*CompressedStringPool, error) {
	return newCompressedStringPool(stream)
}

func newCompressedStringPool(stream []uint16) (*CompressedStringPool, error) {
	codes, dict, err := ApproximateRepair(stream, true)
	if err != nil {
		return nil, err
	}

	counts := make([]uint64, len(dict))
	for _, c := range codes {
		counts[c]++
	}

	// renumber non-zero codes by descending frequency, ties by code
	sortedCodes := make([]uint16, len(dict)-1)
	for i := range sortedCodes {
		sortedCodes[i] = uint16(i + 1)
	}
	slices.SortFunc(sortedCodes, func(a, b uint16) int {
		if counts[a] != counts[b] {
			if counts[a] > counts[b] {
				return -1
			}
			return 1
		}
		return int(a) - int(b)
	})

	codeMap := make([]uint16, len(dict))
	var dictionary []uint16
	wordPositions := []uint16{0}
	for i, c := range sortedCodes {
		codeMap[c] = uint16(i)
		dictionary = append(dictionary, dict[c]...)
		wordPositions = append(wordPositions, uint16(len(dictionary)))
	}

	var byteStreams []byte
	positions := []uint64{0}
	for _, c := range codes {
		if c != 0 {
			byteStreams = appendVByte(byteStreams, uint64(codeMap[c]))
		} else {
			positions = append(positions, uint64(len(byteStreams)))
		}
	}

	return &CompressedStringPool{
		dictionary:    dictionary,
		wordPositions: wordPositions,
		byteStreams:   byteStreams,
		positions:     newEliasFano(positions),
	}, nil
}

// Size returns the number of stored strings.
func (p *CompressedStringPool) Size() int {
	return int(p.positions.numOnes() - 1)
}

type compressedStringEnumerator struct {
	p                    *CompressedStringPool
	streamBegin          uint64
	streamEnd            uint64
	wordBegin, wordEnd   uint64
}

// StringEnumerator returns a cursor over string i, decoding one grammar
// word at a time.
func (p *CompressedStringPool) StringEnumerator(i uint64) LabelEnumerator {
	begin, end := p.positions.selectRange(i)
	prefetch(p.byteStreams, begin)
	return &compressedStringEnumerator{p: p, streamBegin: begin, streamEnd: end}
}

func (e *compressedStringEnumerator) Next() uint16 {
	if e.wordBegin == e.wordEnd {
		if e.streamBegin == e.streamEnd {
			return 0
		}
		code, n := decodeVByte(e.p.byteStreams, e.streamBegin)
		e.streamBegin += n
		e.wordBegin = uint64(e.p.wordPositions[code])
		e.wordEnd = uint64(e.p.wordPositions[code+1])
	}
	c := e.p.dictionary[e.wordBegin]
	e.wordBegin++
	return c
}

// GetString renders string i for debugging: printable chars verbatim,
// everything else as [n].
func (p *CompressedStringPool) GetString(i uint64) string {
	return renderString(p.StringEnumerator(i))
}

func (p *CompressedStringPool) writeTo(fw *fieldWriter) {
	fw.uint16s(p.dictionary)
	fw.uint16s(p.wordPositions)
	fw.bytes(p.byteStreams)
	p.positions.writeTo(fw)
}

func bindCompressedStringPool(fr *fieldReader) *CompressedStringPool {
	return &CompressedStringPool{
		dictionary:    fr.uint16s(),
		wordPositions: fr.uint16s(),
		byteStreams:   fr.bytes(),
		positions:     bindEliasFano(fr),
	}
}

func renderString(e LabelEnumerator) string {
	var sb strings.Builder
	for {
		c := e.Next()
		if c == 0 {
			return sb.String()
		}
		if c >= 32 && c < 256 {
			sb.WriteByte(byte(c))
		} else {
			fmt.Fprintf(&sb, "[%d]", c)
		}
	}
}
