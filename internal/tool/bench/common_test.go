package bench

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/dsnet/retrolz/internal/testutil"
)

// TestCodecsRoundTrip checks every registered encoder/decoder pair against
// itself, the same property spec §7 requires of Compress/Decompress.
func TestCodecsRoundTrip(t *testing.T) {
	input := testutil.NewRand(1).Bytes(4096)
	for name, enc := range Encoders {
		dec, ok := Decoders[name]
		if !ok {
			continue
		}
		t.Run(name, func(t *testing.T) {
			compressed, err := enc(input)
			if err != nil {
				t.Fatalf("Encoder error: %v", err)
			}
			output, err := dec(compressed, len(input))
			if err != nil {
				t.Fatalf("Decoder error: %v", err)
			}
			if string(output) != string(input) {
				t.Fatalf("round-trip mismatch: got %d bytes, want %d bytes", len(output), len(input))
			}
		})
	}
}

func TestBenchmarkSuites(t *testing.T) {
	dir := t.TempDir()
	name := "sample.txt"
	content := testutil.NewRand(2).Bytes(2048)
	if err := ioutil.WriteFile(filepath.Join(dir, name), content, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	oldPaths := Paths
	Paths = []string{dir}
	defer func() { Paths = oldPaths }()

	codecs := []string{"lzm", "bx2"}
	files := []string{name}
	sizes := []int{512, -1}

	ratios, names := BenchmarkRatioSuite(codecs, files, sizes, nil)
	if len(ratios) != len(names) || len(ratios) != len(files)*len(sizes) {
		t.Fatalf("BenchmarkRatioSuite: got %d rows, want %d", len(ratios), len(files)*len(sizes))
	}
	for _, row := range ratios {
		if len(row) != len(codecs) {
			t.Fatalf("BenchmarkRatioSuite: got %d columns, want %d", len(row), len(codecs))
		}
		for _, r := range row {
			if r.R <= 0 {
				t.Errorf("BenchmarkRatioSuite: non-positive ratio %v", r.R)
			}
		}
	}

	ref := Encoders["lzm"]
	decRates, _ := BenchmarkDecoderSuite(codecs, files, []int{256}, ref, nil)
	for _, row := range decRates {
		for _, r := range row {
			if r.R <= 0 {
				t.Errorf("BenchmarkDecoderSuite: non-positive rate %v", r.R)
			}
		}
	}
}
