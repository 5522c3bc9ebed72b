package succinct

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGammaVectorAccess(t *testing.T) {
	prng := rand.New(rand.NewPCG(42, 42))

	for _, n := range []int{1, 31, 32, 33, 500} {
		values := make([]uint64, n)
		for i := range values {
			switch prng.IntN(3) {
			case 0:
				values[i] = 0
			case 1:
				values[i] = uint64(prng.IntN(100))
			default:
				values[i] = uint64(prng.IntN(1 << 20))
			}
		}
		g := newGammaVector(values)
		require.Equal(t, uint64(n), g.length())
		for i, v := range values {
			require.Equal(t, v, g.access(uint64(i)), "access(%d) n=%d", i, n)
		}
	}
}

func TestGammaVectorEnumerate(t *testing.T) {
	values := []uint64{0, 1, 2, 1023, 0, 77, 1 << 30, 5}
	g := newGammaVector(values)

	for from := 0; from <= len(values); from++ {
		en := g.enumerate(uint64(from))
		for i := from; i < len(values); i++ {
			require.Equal(t, values[i], en.next(), "from=%d i=%d", from, i)
		}
	}
}

func TestGammaVectorSerialization(t *testing.T) {
	values := []uint64{0, 12, 5, 0, 130, 7}
	g := newGammaVector(values)

	var buf bytes.Buffer
	fw := &fieldWriter{w: &buf}
	g.writeTo(fw)
	require.NoError(t, fw.err)

	fr := &fieldReader{data: buf.Bytes()}
	bound := bindGammaVector(fr)
	require.NoError(t, fr.err)
	require.Equal(t, g.length(), bound.length())
	for i, v := range values {
		require.Equal(t, v, bound.access(uint64(i)))
	}
}
