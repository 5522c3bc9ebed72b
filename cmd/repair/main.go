package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/axiomhq/succinct"
)

// repair compresses a file with the approximate Re-Pair grammar compressor,
// writing <file>.D (dictionary: per word a 32-bit LE length and the word
// bytes) and <file>.C (the compressed stream as packed 16-bit LE codes).
func main() {
	os.Exit(run())
}

func run() int {

	var flagPreserveZeros bool
	var flagLevel string

	pflag.BoolVarP(&flagPreserveZeros, "preserve-zeros", "z", false, "do not create rules spanning zero bytes")
	pflag.StringVarP(&flagLevel, "log-level", "l", "info", "log output level")
	pflag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Err(err).Msg("invalid log level")
		return 1
	}
	log = log.Level(level)

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: repair [-z] <file>")
		return 1
	}
	filename := pflag.Arg(0)

	data, done, err := succinct.OpenMapped(filename)
	if err != nil {
		log.Error().Err(err).Msg("could not map input")
		return 1
	}
	defer done()

	codes, dict, err := succinct.ApproximateRepair(data, flagPreserveZeros)
	if err != nil {
		log.Error().Err(err).Msg("compression failed")
		return 1
	}
	log.Info().
		Int("input_bytes", len(data)).
		Int("codes", len(codes)).
		Int("words", len(dict)).
		Msg("compressed input")

	if err := writeDictionary(filename+".D", dict); err != nil {
		log.Error().Err(err).Msg("could not write dictionary")
		return 1
	}
	if err := writeCodes(filename+".C", codes); err != nil {
		log.Error().Err(err).Msg("could not write code stream")
		return 1
	}
	return 0
}

func writeDictionary(path string, dict [][]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	var hdr [4]byte
	for _, word := range dict {
		binary.LittleEndian.PutUint32(hdr[:], uint32(len(word)))
		if _, err := w.Write(hdr[:]); err != nil {
			f.Close()
			return err
		}
		if _, err := w.Write(word); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCodes(path string, codes []uint16) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	var buf [2]byte
	for _, c := range codes {
		binary.LittleEndian.PutUint16(buf[:], c)
		if _, err := w.Write(buf[:]); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
