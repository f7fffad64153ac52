package retrolz

import (
	"bytes"
	"testing"

	"github.com/dsnet/retrolz/internal/testutil"
)

// TestCompressDeterminism checks spec §5/§8's determinism property: two
// runs over the same (input, format, options) produce byte-identical
// output.
func TestCompressDeterminism(t *testing.T) {
	rnd := testutil.NewRand(7)
	input := rnd.Bytes(500)
	for _, id := range []FormatID{LZM, EF8, E1ZX, BX0, BX2} {
		r1, err1 := Compress(input, id, Options{})
		r2, err2 := Compress(input, id, Options{})
		if err1 != nil || err2 != nil {
			t.Fatalf("%v: Compress() errors = %v, %v", id, err1, err2)
		}
		if !bytes.Equal(r1.Data, r2.Data) {
			t.Errorf("%v: two Compress() calls on the same input disagree", id)
		}
	}
}

func TestCompressVerifiesAndErrorsNever(t *testing.T) {
	// Compress's internal verification pass (spec §7) should never trip for
	// a correctly implemented cost model; this asserts the happy path holds
	// across every format on a varied corpus.
	rnd := testutil.NewRand(8)
	inputs := [][]byte{
		rnd.Bytes(1),
		rnd.Bytes(2),
		rnd.Bytes(17),
		rnd.Bytes(1000),
		bytes.Repeat([]byte("xyz"), 50),
	}
	for _, id := range []FormatID{LZM, EF8, E1ZX, BX0, BX2} {
		for _, input := range inputs {
			if _, err := Compress(input, id, Options{}); err != nil {
				t.Errorf("%v, len=%d: Compress() = %v", id, len(input), err)
			}
		}
	}
}

func TestDecompressRejectsMissingSizeHint(t *testing.T) {
	if _, err := Decompress([]byte{0, 0}, LZM, Options{}, -1); err != ErrInvalid {
		t.Errorf("Decompress() with no size hint and no end marker = %v, want ErrInvalid", err)
	}
}

func TestCompressOptionWarnings(t *testing.T) {
	res, err := Compress([]byte("abc"), EF8, Options{ExtendLength: true})
	if err != nil {
		t.Fatalf("Compress() = %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Errorf("no warning reported for -l on a format that ignores it")
	}
}

// TestCompressExtendedOffsetReachesOneMore checks spec §8's option-semantics
// property for -o: with ExtendOffset set, a match at the format's normal
// maximum offset plus one is representable and round-trips through the
// wire-value-minus-one bias.
func TestCompressExtendedOffsetReachesOneMore(t *testing.T) {
	base, _ := NewFormat(LZM, Options{})
	ext, _ := NewFormat(LZM, Options{ExtendOffset: true})
	if ext.MaxMatchOffset != base.MaxMatchOffset+1 {
		t.Fatalf("extended MaxMatchOffset = %d, want %d", ext.MaxMatchOffset, base.MaxMatchOffset+1)
	}

	input := make([]byte, ext.MaxMatchOffset+2)
	for i := range input {
		input[i] = byte(i % 7)
	}
	copy(input[ext.MaxMatchOffset:], input[0:2])

	// Cover the history with literal runs no longer than the format's own
	// MaxLiteralLength (ExtendOffset alone does not extend it), then emit
	// the match at the extended maximum offset.
	var steps []ParseStep
	for remaining := ext.MaxMatchOffset; remaining > 0; {
		chunk := ext.MaxLiteralLength
		if chunk > remaining {
			chunk = remaining
		}
		steps = append(steps, ParseStep{Length: chunk, Offset: 0})
		remaining -= chunk
	}
	steps = append(steps, ParseStep{Length: 2, Offset: ext.MaxMatchOffset})

	bs := Encode(steps, input, ext)
	decoded, err := Decode(NewBitStreamFromBytes(bs.Buf, false), ext, len(input))
	if err != nil || !bytes.Equal(decoded, input) {
		t.Fatalf("Decode() = (%q, %v), want (%q, nil)", decoded, err, input)
	}
}

func TestParseCostAndEncodeAgree(t *testing.T) {
	rnd := testutil.NewRand(9)
	input := rnd.Bytes(256)
	f, _ := NewFormat(BX2, Options{})
	m := NewMatcher(input, f.MinMatchLength, f.MaxMatchLength, f.MaxMatchOffset)
	steps := ParseStateDijkstra(input, f, m)

	bs := Encode(steps, input, f)
	if got, want := bs.BitsWritten(), ParseCost(steps, f); got != want {
		// BitsWritten includes Flush padding, so allow up to 7 extra bits.
		if got-want < 0 || got-want > 7 {
			t.Errorf("Encode wrote %d bits, ParseCost reports %d (diff %d)", got, want, got-want)
		}
	}
}
