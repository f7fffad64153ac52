package retrolz

import "testing"

func TestParseFormatID(t *testing.T) {
	var vectors = []struct {
		name string
		want FormatID
	}{
		{"lzm", LZM},
		{"ef8", EF8},
		{"e1", EF8},
		{"e1zx", E1ZX},
		{"bx0", BX0},
		{"bx2", BX2},
	}
	for _, v := range vectors {
		got, err := ParseFormatID(v.name)
		if err != nil || got != v.want {
			t.Errorf("ParseFormatID(%q) = (%v, %v), want (%v, nil)", v.name, got, err, v.want)
		}
	}
	if _, err := ParseFormatID("bogus"); err == nil {
		t.Errorf("ParseFormatID(%q) succeeded, want an error", "bogus")
	}
}

func TestNewFormatLimits(t *testing.T) {
	var vectors = []struct {
		id             FormatID
		maxOff         int
		hasRep         bool
		extendWarnings int
	}{
		{LZM, 255, false, 0},
		{EF8, 255, false, 0},
		{E1ZX, 255, false, 0},
		{BX0, 0x3FFF, true, 0},
		{BX2, 255, true, 0},
	}
	for _, v := range vectors {
		f, warnings := NewFormat(v.id, Options{})
		if f.MaxMatchOffset != v.maxOff {
			t.Errorf("%v: MaxMatchOffset = %d, want %d", v.id, f.MaxMatchOffset, v.maxOff)
		}
		if f.HasRepToken != v.hasRep {
			t.Errorf("%v: HasRepToken = %v, want %v", v.id, f.HasRepToken, v.hasRep)
		}
		if len(warnings) != v.extendWarnings {
			t.Errorf("%v: warnings = %v, want none", v.id, warnings)
		}
		if f.MinMatchLength != 2 {
			t.Errorf("%v: MinMatchLength = %d, want 2", v.id, f.MinMatchLength)
		}
	}
}

func TestNewFormatExtendOptions(t *testing.T) {
	base, _ := NewFormat(LZM, Options{})
	ext, _ := NewFormat(LZM, Options{ExtendOffset: true, ExtendLength: true})
	if ext.MaxMatchOffset != base.MaxMatchOffset+1 {
		t.Errorf("ExtendOffset: MaxMatchOffset = %d, want %d", ext.MaxMatchOffset, base.MaxMatchOffset+1)
	}
	if ext.MaxLiteralLength != base.MaxLiteralLength+1 {
		t.Errorf("ExtendLength: MaxLiteralLength = %d, want %d", ext.MaxLiteralLength, base.MaxLiteralLength+1)
	}
	if ext.MaxMatchLength != base.MaxMatchLength+1 {
		t.Errorf("ExtendLength: MaxMatchLength = %d, want %d", ext.MaxMatchLength, base.MaxMatchLength+1)
	}
}

// TestExtendLengthWarnsOnGammaFormats checks that the Elias-coded-length
// formats report the -l option as a no-op (spec §4.4: "Formats that do not
// support a given option must ignore it (implementation warns)").
func TestExtendLengthWarnsOnGammaFormats(t *testing.T) {
	for _, id := range []FormatID{EF8, E1ZX, BX0, BX2} {
		_, warnings := NewFormat(id, Options{ExtendLength: true})
		if len(warnings) == 0 {
			t.Errorf("%v: NewFormat with ExtendLength reported no warning", id)
		}
	}
}

// TestExtendOptionWarnsWhenItCollidesWithEndMarker checks the two
// combinations whose "extend" bit would otherwise eat the raw bit pattern
// the end-marker sentinel reserves (spec §4.6): lzm's length-1 literal byte
// and bx2's offset-1 match token. Both must be reported as a no-op, same as
// any other option a format can't honor.
func TestExtendOptionWarnsWhenItCollidesWithEndMarker(t *testing.T) {
	lzm, warnings := NewFormat(LZM, Options{EndMarker: true, ExtendLength: true})
	if len(warnings) == 0 {
		t.Error("lzm: EndMarker+ExtendLength reported no warning")
	}
	if lzm.MaxLiteralLength != 127 || lzm.ExtendLength {
		t.Errorf("lzm: ExtendLength was applied despite EndMarker collision: %+v", lzm)
	}

	bx2, warnings := NewFormat(BX2, Options{EndMarker: true, ExtendOffset: true})
	if len(warnings) == 0 {
		t.Error("bx2: EndMarker+ExtendOffset reported no warning")
	}
	if bx2.MaxMatchOffset != 255 || bx2.ExtendOffset {
		t.Errorf("bx2: ExtendOffset was applied despite EndMarker collision: %+v", bx2)
	}
}

func TestRepMatchCostInfinityWithoutRepToken(t *testing.T) {
	for _, id := range []FormatID{LZM, EF8, E1ZX} {
		f, _ := NewFormat(id, Options{})
		if got := f.RepMatchCost(4); got != costInfinity {
			t.Errorf("%v: RepMatchCost(4) = %d, want costInfinity", id, got)
		}
	}
}

// TestCostFunctionsMatchEncodedLength verifies spec §4.4's required
// invariant: "the number of bits the encoder writes for that token equals
// the number the cost function returns" for every format, every legal
// literal/match/rep-match length it supports, and representative offsets.
func TestCostFunctionsMatchEncodedLength(t *testing.T) {
	for _, id := range []FormatID{LZM, EF8, E1ZX, BX0, BX2} {
		f, _ := NewFormat(id, Options{})

		for _, length := range []int{1, 2, 3, 30, 126} {
			if length > f.MaxLiteralLength {
				continue
			}
			input := make([]byte, length)
			bs := NewBitStream(id == E1ZX)
			encodeOneLiteralForTest(bs, f, input)
			if got, want := bs.BitsWritten(), f.LiteralCost(length); got != want {
				t.Errorf("%v literal len=%d: encoded %d bits, LiteralCost = %d", id, length, got, want)
			}
		}

		for _, length := range []int{2, 3, 10, 126} {
			if length < f.MinMatchLength || length > f.MaxMatchLength {
				continue
			}
			for _, offset := range []int{1, 2, 130, f.MaxMatchOffset} {
				if offset < 1 || offset > f.MaxMatchOffset {
					continue
				}
				bs := NewBitStream(id == E1ZX)
				encodeOneMatchForTest(bs, f, length, offset)
				if got, want := bs.BitsWritten(), f.MatchCost(length, offset); got != want {
					t.Errorf("%v match len=%d off=%d: encoded %d bits, MatchCost = %d", id, length, offset, got, want)
				}
			}
		}

		if f.HasRepToken {
			// Unlike a regular match, a rep carries no offset field to
			// amortize, so its minimum length is 1, not f.MinMatchLength
			// (spec §3); length 1 is included here for exactly that reason.
			for _, length := range []int{1, 2, 3, 10, 126} {
				if length > f.MaxMatchLength {
					continue
				}
				bs := NewBitStream(id == E1ZX)
				r := 7
				prevWasLiteral := true
				switch id {
				case BX0:
					encodeBX0Token(bs, f, ParseStep{Length: length, Offset: r}, nil, 0, &r, &prevWasLiteral)
				case BX2:
					encodeBX2Token(bs, f, ParseStep{Length: length, Offset: r}, nil, 0, &r, &prevWasLiteral)
				}
				if got, want := bs.BitsWritten(), f.RepMatchCost(length); got != want {
					t.Errorf("%v rep len=%d: encoded %d bits, RepMatchCost = %d", id, length, got, want)
				}
			}
		}
	}
}

// encodeOneLiteralForTest writes a single literal-run token via the same
// per-format encoders Encode uses internally.
func encodeOneLiteralForTest(bs *BitStream, f *Format, input []byte) {
	var r int
	var prevWasLiteral bool
	s := ParseStep{Length: len(input), Offset: 0}
	switch f.ID {
	case LZM:
		encodeLZMToken(bs, f, s, input, 0)
	case EF8, E1ZX:
		encodeGammaToken(bs, f, s, input, 0)
	case BX0:
		encodeBX0Token(bs, f, s, input, 0, &r, &prevWasLiteral)
	case BX2:
		encodeBX2Token(bs, f, s, input, 0, &r, &prevWasLiteral)
	}
}

// encodeOneMatchForTest writes a single regular (non-rep) match token.
func encodeOneMatchForTest(bs *BitStream, f *Format, length, offset int) {
	var r int
	var prevWasLiteral bool
	s := ParseStep{Length: length, Offset: offset}
	switch f.ID {
	case LZM:
		encodeLZMToken(bs, f, s, nil, 0)
	case EF8, E1ZX:
		encodeGammaToken(bs, f, s, nil, 0)
	case BX0:
		encodeBX0Token(bs, f, s, nil, 0, &r, &prevWasLiteral)
	case BX2:
		encodeBX2Token(bs, f, s, nil, 0, &r, &prevWasLiteral)
	}
}
