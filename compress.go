package retrolz

import "bytes"

// Result is the outcome of Compress: the finished wire bytes plus any
// warnings about option combinations the chosen format could not honor
// (spec §4.4, §6) or about a compression that gained nothing.
type Result struct {
	Data     []byte
	Warnings []string
}

// Compress parses input under the format identified by id and opts, encodes
// the optimal parse, and verifies the result decodes back to input before
// returning it (spec §7's CompressionFailure check: this should never
// trigger for a correctly implemented cost model, and a failure here is
// reported as ErrVerify rather than silently shipping bad output).
//
// The parser is chosen by f.HasRepToken: BX0 and BX2 carry repeat-offset
// state and so go through ParseStateDijkstra (falling back to exhaustive
// verification via ParseStateDP is left to tests, not production use,
// since it is far slower on large input); LZM, EF8, and E1ZX have no
// state to track and use the plain ParseShortestPath DP.
func Compress(input []byte, id FormatID, opts Options) (Result, error) {
	f, warnings := NewFormat(id, opts)

	work := input
	if opts.Reverse {
		work = reverseBytes(input)
	}

	m := NewMatcher(work, f.MinMatchLength, f.MaxMatchLength, f.MaxMatchOffset)

	var steps []ParseStep
	if f.HasRepToken {
		steps = ParseStateDijkstra(work, f, m)
	} else {
		steps = ParseShortestPath(work, f, m)
	}

	bs := Encode(steps, work, f)

	// Decode is the inverse of Encode, so with f.Reverse set it hands back
	// work (the pre-encode, already-reversed bytes), not input; un-reverse
	// it the same way Decompress does before comparing.
	decoded, err := Decode(NewBitStreamFromBytes(append([]byte(nil), bs.Buf...), f.ID == E1ZX), f, len(work))
	if err != nil {
		return Result{}, err
	}
	if opts.Reverse {
		decoded = reverseBytes(decoded)
	}
	if !bytes.Equal(decoded, input) {
		return Result{}, ErrVerify
	}

	if len(bs.Buf) >= len(input) {
		warnings = append(warnings, "compressed output is not smaller than the input")
	}
	if bs.Carry {
		warnings = append(warnings, "a negated byte finalized to zero; Z80 decoder must special-case the carry flag here")
	}

	return Result{Data: bs.Buf, Warnings: warnings}, nil
}

// Decompress reconstructs the original bytes from data, which must have
// been produced by Compress with the same id, opts, and sizeHint. sizeHint
// is the original (pre-compression, pre-reverse) byte count; formats
// without an end marker rely on it entirely, formats with one use it only
// as a capacity hint.
func Decompress(data []byte, id FormatID, opts Options, sizeHint int) ([]byte, error) {
	f, _ := NewFormat(id, opts)
	if !opts.EndMarker && sizeHint < 0 {
		return nil, ErrInvalid
	}
	out, err := Decode(NewBitStreamFromBytes(data, f.ID == E1ZX), f, sizeHint)
	if err != nil {
		return nil, err
	}
	if opts.Reverse {
		out = reverseBytes(out)
	}
	return out, nil
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
