package retrolz

import "fmt"

// FormatID identifies one of the supported wire formats (spec §1, §6).
type FormatID int

const (
	LZM  FormatID = iota // byte-aligned LZSS: 7-bit length + flag byte, 8-bit offset
	EF8                  // Elias-gamma length, 8-bit offset
	E1ZX                 // EF8 semantics, negated (ZX) bit stream
	BX0                  // Elias-gamma length, split raw/Elias offset, repeat offset
	BX2                  // Elias-gamma length, 8-bit offset, repeat offset
)

func (id FormatID) String() string {
	switch id {
	case LZM:
		return "lzm"
	case EF8:
		return "ef8"
	case E1ZX:
		return "e1zx"
	case BX0:
		return "bx0"
	case BX2:
		return "bx2"
	default:
		return fmt.Sprintf("FormatID(%d)", int(id))
	}
}

// ParseFormatID maps a CLI-style format name (without the leading dash) to
// its FormatID. "e1" is accepted as a synonym for "ef8" (spec §6).
func ParseFormatID(name string) (FormatID, error) {
	switch name {
	case "lzm":
		return LZM, nil
	case "ef8", "e1":
		return EF8, nil
	case "e1zx":
		return E1ZX, nil
	case "bx0":
		return BX0, nil
	case "bx2":
		return BX2, nil
	default:
		return 0, Error("unknown format: " + name)
	}
}

// Options holds the four CLI flag options of spec §6, shared by every
// format. A given format may not be able to honor every option; NewFormat
// reports a warning string (not an error) for each one it had to ignore.
type Options struct {
	Reverse      bool // -r: reverse input pre-compress, output post-compress
	EndMarker    bool // -e: append an end-of-stream sentinel token
	ExtendOffset bool // -o: wire offset is value-1, extending the max by 1
	ExtendLength bool // -l: wire length is value-1, extending the max by 1
}

// endSentinel is the length value reserved as the canonical EOF marker for
// the γ-coded-length formats EF8, E1ZX and BX0 (spec §4.6, SPEC_FULL.md open
// question #2): one beyond the largest length these formats otherwise allow.
// BX2 marks EOF with a zero offset field instead.
const endSentinel = 256

// Format is the tagged, per-identifier cost model and structural-limit
// record described in spec §3 and §4.4. Construct one with NewFormat;
// the zero value is not valid.
type Format struct {
	ID FormatID
	Options

	MaxLiteralLength int
	MinMatchLength   int
	MaxMatchLength   int
	MaxMatchOffset   int
	HasRepToken      bool
}

// costInfinity stands in for the "repeat match has no representation in
// this format" sentinel of spec §4.4's cost table.
const costInfinity = 1 << 30

// NewFormat builds the Format for id with the given options, returning any
// warnings for options this format cannot honor (spec §4.4: "Formats that
// do not support a given option must ignore it").
func NewFormat(id FormatID, opts Options) (*Format, []string) {
	f := &Format{ID: id, Options: opts}
	var warnings []string

	switch id {
	case LZM:
		f.MinMatchLength = 2
		f.MaxLiteralLength = 127
		f.MaxMatchLength = 127
		f.MaxMatchOffset = 255
		f.HasRepToken = false
		if opts.ExtendLength {
			if opts.EndMarker {
				// The EOF sentinel is the all-zero length/flag byte (spec
				// §4.6): a literal of length 1 with -l enabled encodes to
				// that exact same byte, since the raw field then packs every
				// value 0..127 with no spare pattern left to reserve.
				warnings = append(warnings, "-l has no effect for lzm combined with -e: the end-marker byte would collide with a length-1 literal")
				f.ExtendLength = false
			} else {
				f.MaxLiteralLength++
				f.MaxMatchLength++
			}
		}
		if opts.ExtendOffset {
			f.MaxMatchOffset++
		}
	case EF8, E1ZX:
		f.MinMatchLength = 2
		f.MaxLiteralLength = endSentinel - 1
		f.MaxMatchLength = endSentinel - 1
		f.MaxMatchOffset = 255
		f.HasRepToken = false
		if opts.ExtendOffset {
			f.MaxMatchOffset++
		}
		if opts.ExtendLength {
			warnings = append(warnings, fmt.Sprintf("-l has no effect for %s: length is already unbounded by an Elias code", id))
		}
	case BX0:
		f.MinMatchLength = 2
		f.MaxLiteralLength = endSentinel - 1
		f.MaxMatchLength = endSentinel - 1
		f.MaxMatchOffset = 0x3FFF
		f.HasRepToken = true
		if opts.ExtendOffset {
			f.MaxMatchOffset++
		}
		if opts.ExtendLength {
			warnings = append(warnings, fmt.Sprintf("-l has no effect for %s: length is already unbounded by an Elias code", id))
		}
	case BX2:
		f.MinMatchLength = 2
		f.MaxLiteralLength = endSentinel - 1
		f.MaxMatchLength = endSentinel - 1
		f.MaxMatchOffset = 255
		f.HasRepToken = true
		if opts.ExtendOffset {
			if opts.EndMarker {
				// The EOF sentinel is a match token whose raw offset field is
				// zero (spec §4.6). With -o the raw field is offset-1, so
				// raw zero is also the legitimate encoding of a real offset
				// of 1; ignore -o here rather than let the two collide.
				warnings = append(warnings, "-o has no effect for bx2 combined with -e: the end-marker offset field would collide with a real offset of 1")
				f.ExtendOffset = false
			} else {
				f.MaxMatchOffset++
			}
		}
		if opts.ExtendLength {
			warnings = append(warnings, fmt.Sprintf("-l has no effect for %s: length is already unbounded by an Elias code", id))
		}
	default:
		panic(Error(fmt.Sprintf("unknown format id %d", int(id))))
	}
	return f, warnings
}

// LiteralCost returns the number of bits a literal run of len bytes costs
// under this format (spec §4.4).
func (f *Format) LiteralCost(length int) int {
	switch f.ID {
	case LZM:
		return 8 + 8*length
	case EF8, E1ZX, BX2:
		return gamma1Cost(uint(length)) + 1 + 8*length
	case BX0:
		return 1 + gamma1Cost(uint(length)) + 8*length
	default:
		panic(Error("LiteralCost: unknown format"))
	}
}

// MatchCost returns the number of bits a back-reference of len bytes at
// offset off costs under this format (spec §4.4).
func (f *Format) MatchCost(length, offset int) int {
	switch f.ID {
	case LZM:
		return 16
	case EF8, E1ZX, BX2:
		return gamma1Cost(uint(length-1)) + 1 + 8
	case BX0:
		elias := (offset >> 7) + 1
		return 1 + gamma1Cost(uint(elias)) + 7 + gamma1Cost(uint(length-1))
	default:
		panic(Error("MatchCost: unknown format"))
	}
}

// RepMatchCost returns the number of bits a repeat-offset back-reference of
// len bytes costs, or costInfinity if the format has no repeat token.
func (f *Format) RepMatchCost(length int) int {
	switch f.ID {
	case BX0:
		return 1 + gamma1Cost(uint(length))
	case BX2:
		return gamma1Cost(uint(length)) + 1
	default:
		return costInfinity
	}
}

// bx0OffsetParts splits a BX0 offset into its Elias-coded high part and its
// raw 7-bit low part (spec §4.4): eliasPart = (off>>7)+1, rawPart = off&127.
func bx0OffsetParts(offset int) (elias, raw uint) {
	return uint((offset >> 7) + 1), uint(offset & 127)
}

// bx0OffsetFromParts inverts bx0OffsetParts.
func bx0OffsetFromParts(elias, raw uint) int {
	return int((elias-1)<<7) | int(raw)
}
