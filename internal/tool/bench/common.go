// Package bench compares the size and speed of retrolz's five wire formats
// against general-purpose comparison codecs (klauspost/compress's flate and
// ulikunitz/xz's LZMA), the role the teacher's internal/tool/bench package
// plays for flate/bzip2/brotli/xz.
//
// Unlike the teacher's streaming io.Reader/io.Writer codecs, retrolz
// operates on whole in-memory buffers with no notion of a compression
// "level" (spec §5: one input, one output, no asynchrony), so Encoder and
// Decoder here are batch functions rather than stream constructors.
package bench

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/dsnet/golib/strconv"
	"github.com/dsnet/retrolz/internal/testutil"
)

type Encoder func(input []byte) ([]byte, error)
type Decoder func(data []byte, sizeHint int) ([]byte, error)

var (
	Encoders = make(map[string]Encoder)
	Decoders = make(map[string]Decoder)

	// Paths lists search directories for test files named by BenchmarkEncoderSuite
	// et al.
	Paths []string
)

func RegisterEncoder(name string, enc Encoder) { Encoders[name] = enc }
func RegisterDecoder(name string, dec Decoder) { Decoders[name] = dec }

// BenchmarkEncoder benchmarks a single Encoder on input and reports the
// result.
func BenchmarkEncoder(input []byte, enc Encoder) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if enc == nil {
			b.Fatalf("unexpected error: nil Encoder")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			if _, err := enc(input); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(len(input)))
		}
	})
}

type Result struct {
	R float64 // Rate (MB/s) or ratio (rawSize/compSize)
	D float64 // Delta relative to the primary (first-listed) codec
}

// BenchmarkEncoderSuite runs BenchmarkEncoder across every named codec and
// input file/size combination.
//
// Results are shaped [len(files)*len(sizes)][len(codecs)]Result.
func BenchmarkEncoderSuite(codecs, files []string, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, files, sizes, tick,
		func(input []byte, codec string) Result {
			result := BenchmarkEncoder(input, Encoders[codec])
			if result.N == 0 {
				return Result{}
			}
			us := (float64(result.T.Nanoseconds()) / 1e3) / float64(result.N)
			return Result{R: float64(result.Bytes) / us}
		})
}

// BenchmarkDecoder benchmarks a single Decoder on pre-compressed input.
func BenchmarkDecoder(input []byte, sizeHint int, dec Decoder) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if dec == nil {
			b.Fatalf("unexpected error: nil Decoder")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			out, err := dec(input, sizeHint)
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(len(out)))
		}
	})
}

// BenchmarkDecoderSuite compresses each file/size once with ref, then
// benchmarks every named decoder against that fixed compressed payload.
func BenchmarkDecoderSuite(codecs, files []string, sizes []int, ref Encoder, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, files, sizes, tick,
		func(input []byte, codec string) Result {
			compressed, err := ref(input)
			if err != nil {
				return Result{}
			}
			result := BenchmarkDecoder(compressed, len(input), Decoders[codec])
			if result.N == 0 {
				return Result{}
			}
			us := (float64(result.T.Nanoseconds()) / 1e3) / float64(result.N)
			return Result{R: float64(result.Bytes) / us}
		})
}

// BenchmarkRatioSuite reports rawSize/compSize for every named codec and
// input file/size combination.
func BenchmarkRatioSuite(codecs, files []string, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, files, sizes, tick,
		func(input []byte, codec string) Result {
			output, err := Encoders[codec](input)
			if err != nil || len(output) == 0 {
				return Result{}
			}
			return Result{R: float64(len(input)) / float64(len(output))}
		})
}

type benchFunc func(input []byte, codec string) Result

func benchmarkSuite(codecs, files []string, sizes []int, tick func(), run benchFunc) ([][]Result, []string) {
	d0 := len(files) * len(sizes)
	d1 := len(codecs)
	results := make([][]Result, d0)
	for i := range results {
		results[i] = make([]Result, d1)
	}
	names := make([]string, d0)

	var i int
	for _, f := range files {
		for _, n := range sizes {
			b, err := testutil.LoadFile(getPath(f), n)
			names[i] = getName(f, len(b))
			for j, c := range codecs {
				if tick != nil {
					tick()
				}
				if err == nil {
					results[i][j] = run(b, c)
				}
				results[i][j].D = results[i][j].R / results[i][0].R
			}
			i++
		}
	}
	return results, names
}

func getPath(file string) string {
	if path.IsAbs(file) {
		return file
	}
	for _, p := range Paths {
		p = path.Join(p, file)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return file
}

func getName(f string, n int) string {
	var sn string
	switch n {
	case 1e3, 1e4, 1e5, 1e6, 1e7:
		s := fmt.Sprintf("%e", float64(n))
		re := regexp.MustCompile(`\.0*e\+0*`)
		sn = re.ReplaceAllString(s, "e")
	default:
		s := strconv.FormatPrefix(float64(n), strconv.Base1024, 2)
		sn = strings.Replace(s, ".00", "", -1)
	}
	return fmt.Sprintf("%s:%s", path.Base(f), sn)
}
