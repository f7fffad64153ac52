//go:build ignore

// Benchmark tool to compare retrolz's five wire formats against the
// klauspost/compress flate and ulikunitz/xz comparison codecs.
//
// Example usage:
//
//	$ go run main.go retrolz_lib.go klauspost_lib.go xz_lib.go common.go \
//		-tests  ratio,encRate \
//		-codecs lzm,ef8,bx2,kp,xz \
//		-files  twain.txt \
//		-sizes  1e3,1e4
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dsnet/golib/strconv"
	"github.com/dsnet/retrolz/internal/tool/bench"
)

const (
	testEncodeRate = iota
	testDecodeRate
	testCompressRatio
)

var testToEnum = map[string]int{
	"encRate": testEncodeRate,
	"decRate": testDecodeRate,
	"ratio":   testCompressRatio,
}
var enumToTest = map[int]string{
	testEncodeRate:    "encRate",
	testDecodeRate:    "decRate",
	testCompressRatio: "ratio",
}

// encRefs prioritizes which codec to use as the reference compressor when
// measuring decode rate, so every decoder is timed against the same payload.
var encRefs = []string{"lzm", "ef8", "bx2", "kp", "xz"}

func defaultTests() string {
	var d []int
	for k := range enumToTest {
		d = append(d, k)
	}
	sort.Ints(d)
	var s []string
	for _, v := range d {
		s = append(s, enumToTest[v])
	}
	return strings.Join(s, ",")
}

func defaultCodecs() string {
	m := make(map[string]bool)
	for k := range bench.Encoders {
		m[k] = true
	}
	for k := range bench.Decoders {
		m[k] = true
	}
	var s []string
	for k := range m {
		s = append(s, k)
	}
	sort.Strings(s)
	return strings.Join(s, ",")
}

func defaultFiles() string {
	p := strings.Split(defaultPaths(), ",")[0]
	fis, err := ioutil.ReadDir(p)
	if err != nil {
		return ""
	}
	var s []string
	for _, fi := range fis {
		if !strings.HasSuffix(fi.Name(), ".go") {
			s = append(s, fi.Name())
		}
	}
	return strings.Join(s, ",")
}

func defaultPaths() string {
	return "../../../testdata"
}

func main() {
	f1 := flag.String("tests", defaultTests(), "List of different benchmark tests")
	f2 := flag.String("codecs", defaultCodecs(), "List of codecs to benchmark")
	f3 := flag.String("paths", defaultPaths(), "List of paths to search for test files")
	f4 := flag.String("files", defaultFiles(), "List of input files to benchmark")
	f6 := flag.String("sizes", "1e4,1e5,1e6", "List of input sizes to benchmark")
	flag.Parse()

	sep := regexp.MustCompile("[,:]")
	var codecs, paths, files []string
	var tests, sizes []int
	codecs = sep.Split(*f2, -1)
	paths = sep.Split(*f3, -1)
	files = sep.Split(*f4, -1)
	for _, s := range sep.Split(*f1, -1) {
		if _, ok := testToEnum[s]; !ok {
			panic("invalid test")
		}
		tests = append(tests, testToEnum[s])
	}
	for _, s := range sep.Split(*f6, -1) {
		var size int
		if nf, err := strconv.ParsePrefix(s, strconv.AutoParse); err == nil {
			size = int(nf)
		}
		sizes = append(sizes, size)
	}

	ts := time.Now()
	bench.Paths = paths
	runBenchmarks(files, codecs, tests, sizes)
	fmt.Printf("RUNTIME: %v\n", time.Since(ts))
}

func runBenchmarks(files, codecs []string, tests, sizes []int) {
	var encs, decs []string
	for _, c := range codecs {
		if _, ok := bench.Encoders[c]; ok {
			encs = append(encs, c)
		}
		if _, ok := bench.Decoders[c]; ok {
			decs = append(decs, c)
		}
	}

	for _, t := range tests {
		var results [][]bench.Result
		var names, activeCodecs []string
		var title, suffix string

		fmt.Printf("BENCHMARK: %s\n", enumToTest[t])
		if len(encs) == 0 {
			fmt.Println("\tSKIP: no encoders available")
			continue
		}

		var cnt int
		tick := func() {
			total := len(activeCodecs) * len(files) * len(sizes)
			pct := 100.0 * float64(cnt) / float64(max(total, 1))
			fmt.Printf("\t[%6.2f%%] %d of %d\r", pct, cnt, total)
			cnt++
		}

		switch t {
		case testEncodeRate:
			activeCodecs, title, suffix = encs, "MB/s", ""
			results, names = bench.BenchmarkEncoderSuite(encs, files, sizes, tick)
		case testDecodeRate:
			if len(decs) == 0 {
				fmt.Println("\tSKIP: no decoders available")
				continue
			}
			ref := getReferenceEncoder()
			activeCodecs, title, suffix = decs, "MB/s", ""
			results, names = bench.BenchmarkDecoderSuite(decs, files, sizes, ref, tick)
		case testCompressRatio:
			activeCodecs, title, suffix = encs, "ratio", "x"
			results, names = bench.BenchmarkRatioSuite(encs, files, sizes, tick)
		}

		printResults(results, names, activeCodecs, title, suffix)
		fmt.Println()
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func getReferenceEncoder() bench.Encoder {
	for _, c := range encRefs {
		if enc, ok := bench.Encoders[c]; ok {
			return enc
		}
	}
	for _, enc := range bench.Encoders {
		return enc
	}
	return nil
}

func printResults(results [][]bench.Result, names, codecs []string, title, suffix string) {
	cells := make([][]string, 1+len(names))
	for i := range cells {
		cells[i] = make([]string, 1+2*len(codecs))
	}

	cells[0][0] = "benchmark"
	for i, c := range codecs {
		cells[0][1+2*i] = c + " " + title
		cells[0][2+2*i] = "delta"
	}

	for j, row := range results {
		cells[1+j][0] = names[j]
		for i, r := range row {
			if r.R != 0 && !math.IsNaN(r.R) && !math.IsInf(r.R, 0) {
				cells[1+j][1+2*i] = fmt.Sprintf("%.2f", r.R) + suffix
			}
			if r.D != 0 && !math.IsNaN(r.D) && !math.IsInf(r.D, 0) {
				cells[1+j][2+2*i] = fmt.Sprintf("%.2f", r.D) + "x"
			}
		}
	}

	maxLens := make([]int, 1+2*len(codecs))
	for _, row := range cells {
		for i, s := range row {
			if maxLens[i] < len(s) {
				maxLens[i] = len(s)
			}
		}
	}

	for _, row := range cells {
		fmt.Print("\t")
		for i, s := range row {
			switch {
			case i == 0:
				row[i] = s + strings.Repeat(" ", maxLens[i]-len(s))
			case i%2 == 1:
				row[i] = strings.Repeat(" ", 6+maxLens[i]-len(s)) + s
			case i%2 == 0:
				row[i] = strings.Repeat(" ", 2+maxLens[i]-len(s)) + s
			}
			fmt.Print(row[i])
		}
		fmt.Println()
	}
}
