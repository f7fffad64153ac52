// Command retrolz compresses a file into one of the small LZ77-style wire
// formats described by the retrolz package, for decoders that must fit in a
// few dozen bytes of 8-bit machine code (spec §6).
//
// Usage:
//
//	retrolz [format-option] [flag-options...] <inputFile> [outputFile]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dsnet/golib/strconv"
	"github.com/dsnet/retrolz"
)

// exitCode mirrors spec §6's taxonomy: 0 on success (including a no-op
// invocation), 1 on any argument, I/O, or compression error.
const (
	exitOK    = 0
	exitError = 1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log.SetFlags(0)
	log.SetPrefix("retrolz: ")

	if len(args) == 0 {
		flag.CommandLine.Usage()
		return exitOK
	}

	fs := flag.NewFlagSet("retrolz", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: retrolz [format-option] [flag-options...] <inputFile> [outputFile]\n\n")
		fs.PrintDefaults()
	}

	var (
		fLZM  = fs.Bool("lzm", false, "byte-aligned LZSS (default)")
		fEF8  = fs.Bool("ef8", false, "Elias length, 8-bit offset")
		fE1   = fs.Bool("e1", false, "synonym for -ef8")
		fE1ZX = fs.Bool("e1zx", false, "ZX-optimized negated-bit-stream variant of -ef8")
		fBX0  = fs.Bool("bx0", false, "Elias length, split raw/Elias offset, repeat offset")
		fBX2  = fs.Bool("bx2", false, "Elias length, 8-bit offset, repeat offset")

		fReverse = fs.Bool("r", false, "reverse mode: compress input reversed, reverse output")
		fEnd     = fs.Bool("e", false, "append an end-of-stream marker")
		fExtOff  = fs.Bool("o", false, "extend the offset range by one")
		fExtLen  = fs.Bool("l", false, "extend the length range by one")

		fMaxSize = fs.String("maxsize", "65534", "maximum accepted input size, e.g. 64Ki")
	)
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	id, err := formatFromFlags(fLZM, fEF8, fE1, fE1ZX, fBX0, fBX2)
	if err != nil {
		log.Print(err)
		return exitError
	}
	opts := retrolz.Options{
		Reverse:      *fReverse,
		EndMarker:    *fEnd,
		ExtendOffset: *fExtOff,
		ExtendLength: *fExtLen,
	}

	maxSize, err := strconv.ParsePrefix(*fMaxSize, strconv.Base1024)
	if err != nil {
		log.Printf("invalid -maxsize value %q: %v", *fMaxSize, err)
		return exitError
	}

	rest := fs.Args()
	if len(rest) < 1 || len(rest) > 2 {
		fs.Usage()
		return exitError
	}
	inPath := rest[0]
	outPath := ""
	if len(rest) == 2 {
		outPath = rest[1]
	}

	if err := compressFile(inPath, outPath, id, opts, int(maxSize)); err != nil {
		log.Print(err)
		return exitError
	}
	return exitOK
}

// formatFromFlags resolves the mutually-exclusive format flags to a single
// FormatID, defaulting to LZM when none are set (spec §6).
func formatFromFlags(lzm, ef8, e1, e1zx, bx0, bx2 *bool) (retrolz.FormatID, error) {
	set := map[string]bool{
		"lzm": *lzm, "ef8": *ef8, "e1": *e1, "e1zx": *e1zx, "bx0": *bx0, "bx2": *bx2,
	}
	var chosen []string
	for name, v := range set {
		if v {
			chosen = append(chosen, name)
		}
	}
	switch len(chosen) {
	case 0:
		return retrolz.LZM, nil
	case 1:
		return retrolz.ParseFormatID(chosen[0])
	default:
		return 0, fmt.Errorf("only one format option may be given, got %s", strings.Join(chosen, ", "))
	}
}

// compressFile implements the file-level driver of spec §6/§7: read the
// input, reject it if empty or oversized, compress it, print any warnings,
// and write the output to outPath (or the default <inputName><suffix>).
func compressFile(inPath, outPath string, id retrolz.FormatID, opts retrolz.Options, maxSize int) error {
	input, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", inPath, err)
	}
	if len(input) == 0 {
		return fmt.Errorf("%s is empty", inPath)
	}
	if len(input) > maxSize {
		return fmt.Errorf("%s is %d bytes, exceeds the %d byte limit", inPath, len(input), maxSize)
	}

	res, err := retrolz.Compress(input, id, opts)
	if err != nil {
		return fmt.Errorf("compression failed: %w", err)
	}
	for _, w := range res.Warnings {
		fmt.Println("warning:", w)
	}

	if outPath == "" {
		outPath = inPath + "." + id.String()
	}
	if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", outPath, err)
	}
	return nil
}
