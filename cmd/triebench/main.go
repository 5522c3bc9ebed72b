package main

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/axiomhq/succinct"
)

const (
	sampleSize = 1_000_000
	sampleSeed = 42
)

type benchmark interface {
	prepare(log zerolog.Logger, stringsPath, outputPath string) error
	measure(log zerolog.Logger, blobPath, samplePath string) error
}

func main() {
	os.Exit(run())
}

func run() int {

	var flagLevel string

	pflag.StringVarP(&flagLevel, "log-level", "l", "info", "log output level")
	pflag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Err(err).Msg("invalid log level")
		return 1
	}
	log = log.Level(level)

	benchmarks := map[string]benchmark{
		"sample": &sampleBenchmark{},

		"hollow_gamma": &trieBenchmark[*succinct.HollowTrie[*succinct.GammaVector]]{
			build: func(keys iter.Seq[[]byte]) (*succinct.HollowTrie[*succinct.GammaVector], error) {
				return succinct.NewHollowTrie(keys, succinct.GammaSkips)
			},
			bind: func(data []byte) (*succinct.HollowTrie[*succinct.GammaVector], error) {
				return succinct.BindHollowTrie(data, succinct.GammaSkips)
			},
		},
		"hollow_elias": &trieBenchmark[*succinct.HollowTrie[*succinct.EliasFanoList]]{
			build: func(keys iter.Seq[[]byte]) (*succinct.HollowTrie[*succinct.EliasFanoList], error) {
				return succinct.NewHollowTrie(keys, succinct.EliasFanoSkips)
			},
			bind: func(data []byte) (*succinct.HollowTrie[*succinct.EliasFanoList], error) {
				return succinct.BindHollowTrie(data, succinct.EliasFanoSkips)
			},
		},
		"hollow_vector": &trieBenchmark[*succinct.HollowTrie[*succinct.FixedVector]]{
			build: func(keys iter.Seq[[]byte]) (*succinct.HollowTrie[*succinct.FixedVector], error) {
				return succinct.NewHollowTrie(keys, succinct.FixedSkips)
			},
			bind: func(data []byte) (*succinct.HollowTrie[*succinct.FixedVector], error) {
				return succinct.BindHollowTrie(data, succinct.FixedSkips)
			},
		},

		"centroid": &trieBenchmark[*succinct.PathTrie[*succinct.VByteStringPool]]{
			build: func(keys iter.Seq[[]byte]) (*succinct.PathTrie[*succinct.VByteStringPool], error) {
				return succinct.NewCentroidPathTrie(keys, succinct.VByteLabels)
			},
			bind: func(data []byte) (*succinct.PathTrie[*succinct.VByteStringPool], error) {
				return succinct.BindCentroidPathTrie(data, succinct.VByteLabels)
			},
			twoWay: true,
		},
		"centroid_repair": &trieBenchmark[*succinct.PathTrie[*succinct.CompressedStringPool]]{
			build: func(keys iter.Seq[[]byte]) (*succinct.PathTrie[*succinct.CompressedStringPool], error) {
				return succinct.NewCentroidPathTrie(keys, succinct.RepairLabels)
			},
			bind: func(data []byte) (*succinct.PathTrie[*succinct.CompressedStringPool], error) {
				return succinct.BindCentroidPathTrie(data, succinct.RepairLabels)
			},
			twoWay: true,
		},
		"lex": &trieBenchmark[*succinct.PathTrie[*succinct.VByteStringPool]]{
			build: func(keys iter.Seq[[]byte]) (*succinct.PathTrie[*succinct.VByteStringPool], error) {
				return succinct.NewLexPathTrie(keys, succinct.VByteLabels)
			},
			bind: func(data []byte) (*succinct.PathTrie[*succinct.VByteStringPool], error) {
				return succinct.BindLexPathTrie(data, succinct.VByteLabels)
			},
			twoWay: true,
		},
		"lex_repair": &trieBenchmark[*succinct.PathTrie[*succinct.CompressedStringPool]]{
			build: func(keys iter.Seq[[]byte]) (*succinct.PathTrie[*succinct.CompressedStringPool], error) {
				return succinct.NewLexPathTrie(keys, succinct.RepairLabels)
			},
			bind: func(data []byte) (*succinct.PathTrie[*succinct.CompressedStringPool], error) {
				return succinct.BindLexPathTrie(data, succinct.RepairLabels)
			},
			twoWay: true,
		},
	}

	args := pflag.Args()
	if len(args) == 0 {
		printBenchmarks(benchmarks)
		return 1
	}
	if len(args) < 4 {
		fmt.Fprintln(os.Stderr, "missing arguments")
		return 1
	}

	name := args[0]
	inst, ok := benchmarks[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "no benchmark %s\n", name)
		printBenchmarks(benchmarks)
		return 1
	}
	log = log.With().Str("benchmark", name).Logger()

	switch args[1] {
	case "prepare":
		err = inst.prepare(log, args[2], args[3])
	case "measure":
		err = inst.measure(log, args[2], args[3])
	default:
		fmt.Fprintln(os.Stderr, "invalid command")
		return 1
	}
	if err != nil {
		log.Error().Err(err).Msg("benchmark failed")
		return 1
	}
	return 0
}

func printBenchmarks(benchmarks map[string]benchmark) {
	fmt.Fprintln(os.Stderr, "available benchmarks:")
	names := make([]string, 0, len(benchmarks))
	for name := range benchmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(os.Stderr, name)
	}
}

// sampleBenchmark reservoir-samples the input and writes the sample
// shuffled, for use as the query file of the measure commands.
type sampleBenchmark struct{}

func (*sampleBenchmark) prepare(log zerolog.Logger, stringsPath, outputPath string) error {
	lines, err := readLines(stringsPath)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(sampleSeed))
	sample := make([][]byte, 0, sampleSize)
	for n, line := range lines {
		if len(sample) < sampleSize {
			sample = append(sample, line)
			continue
		}
		if r := rng.Intn(n + 1); r < sampleSize {
			sample[r] = line
		}
	}
	rng.Shuffle(len(sample), func(i, j int) {
		sample[i], sample[j] = sample[j], sample[i]
	})
	log.Info().Int("input_strings", len(lines)).Int("sample_strings", len(sample)).Msg("sampled input")

	out := bytes.Join(sample, []byte("\n"))
	out = append(out, '\n')
	return os.WriteFile(outputPath, out, 0o644)
}

func (*sampleBenchmark) measure(zerolog.Logger, string, string) error {
	return fmt.Errorf("no measure on sample")
}

// trieBenchmark builds, freezes, binds and queries one trie configuration.
type trieBenchmark[T interface {
	Index(key []byte) uint64
	Size() int
	WriteTo(w io.Writer) (int64, error)
}] struct {
	build  func(keys iter.Seq[[]byte]) (T, error)
	bind   func(data []byte) (T, error)
	twoWay bool
}

func (b *trieBenchmark[T]) prepare(log zerolog.Logger, stringsPath, outputPath string) error {
	lines, err := readLines(stringsPath)
	if err != nil {
		return err
	}

	start := time.Now()
	trie, err := b.build(succinct.Bytes(lines))
	if err != nil {
		return fmt.Errorf("could not build trie: %w", err)
	}
	elapsed := time.Since(start)

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	size, err := trie.WriteTo(f)
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	ev := log.Info().
		Dur("construction", elapsed).
		Int("strings", trie.Size()).
		Int64("size_bytes", size)
	if trie.Size() > 0 {
		ev = ev.Float64("bits_per_string", float64(size)*8/float64(trie.Size()))
	}
	ev.Msg("prepared trie")
	return nil
}

func (b *trieBenchmark[T]) measure(log zerolog.Logger, blobPath, samplePath string) error {
	sample, err := readLines(samplePath)
	if err != nil {
		return err
	}
	if len(sample) == 0 {
		return fmt.Errorf("empty sample file %s", samplePath)
	}

	data, done, err := succinct.OpenMapped(blobPath)
	if err != nil {
		return err
	}
	defer done()

	trie, err := b.bind(data)
	if err != nil {
		return err
	}

	start := time.Now()
	var sink uint64
	for _, line := range sample {
		sink += trie.Index(line)
	}
	elapsed := time.Since(start)
	log.Info().
		Int("queries", len(sample)).
		Int64("ns_per_op", elapsed.Nanoseconds()/int64(len(sample))).
		Uint64("checksum", sink).
		Msg("measured index queries")

	if !b.twoWay {
		return nil
	}
	reverse, ok := any(trie).(interface{ Key(i uint64) []byte })
	if !ok || trie.Size() == 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(sampleSeed))
	indices := make([]uint64, sampleSize)
	for i := range indices {
		indices[i] = uint64(rng.Intn(trie.Size()))
	}
	start = time.Now()
	var bytesOut int
	for _, idx := range indices {
		bytesOut += len(reverse.Key(idx))
	}
	elapsed = time.Since(start)
	log.Info().
		Int("queries", len(indices)).
		Int64("ns_per_op", elapsed.Nanoseconds()/int64(len(indices))).
		Int("bytes_out", bytesOut).
		Msg("measured reverse lookups")
	return nil
}

// readLines loads path and splits it into newline-terminated lines.
func readLines(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	if len(data) == 0 {
		return nil, nil
	}
	return bytes.Split(data, []byte("\n")), nil
}
