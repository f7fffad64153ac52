package retrolz

// This file turns a parse (a []ParseStep, as produced by ParseShortestPath,
// ParseStateDP, or ParseStateDijkstra) into the wire bits for a Format
// (spec §4.6). decode.go is its exact inverse.
//
// For the two formats with a repeat-offset token (BX0, BX2) the encoder
// does not need ParseStep to carry any extra "this was a rep" flag: the
// legality of a rep token is entirely determined by replaying the same
// (prevWasLiteral, r) state the parser threaded through its DP, so Encode
// rebuilds that state token by token and always chooses the rep form
// whenever the current step's offset equals r and the preceding step was a
// literal — exactly the condition the parser used when it accounted for
// RepMatchCost rather than MatchCost at that point.

// Encode serializes steps (a parse of input) under format f, returning a
// BitStream whose Buf holds the finished, byte-flushed wire bytes. If
// f.Reverse is set, the finished byte buffer is reversed so a decoder can
// walk it tail-to-head (spec §6's -r option); f.EndMarker appends the
// format's end-of-stream sentinel token (spec §4.6).
func Encode(steps []ParseStep, input []byte, f *Format) *BitStream {
	bs := NewBitStream(f.ID == E1ZX)

	var r int
	var prevWasLiteral bool
	cursor := 0
	for _, s := range steps {
		switch f.ID {
		case LZM:
			encodeLZMToken(bs, f, s, input, cursor)
		case EF8, E1ZX:
			encodeGammaToken(bs, f, s, input, cursor)
		case BX0:
			encodeBX0Token(bs, f, s, input, cursor, &r, &prevWasLiteral)
		case BX2:
			encodeBX2Token(bs, f, s, input, cursor, &r, &prevWasLiteral)
		default:
			panic(Error("Encode: unknown format"))
		}
		cursor += s.Length
	}
	if f.EndMarker {
		encodeEndMarker(bs, f)
	}
	bs.Flush()
	if f.Reverse {
		bs.Reverse()
	}
	return bs
}

func rawBias(v int, extend bool) uint {
	if extend {
		v--
	}
	return uint(v)
}

func encodeLiteralBytes(bs *BitStream, input []byte, cursor, length int) {
	for i := 0; i < length; i++ {
		bs.WriteBits(uint(input[cursor+i]), 8)
	}
}

// ---- LZM: a single combined flag+length byte, spec §4.4/§4.6 ----

func encodeLZMToken(bs *BitStream, f *Format, s ParseStep, input []byte, cursor int) {
	if s.IsLiteral() {
		bs.WriteBits(rawBias(s.Length, f.ExtendLength), 8)
		encodeLiteralBytes(bs, input, cursor, s.Length)
		return
	}
	bs.WriteBit(1)
	bs.WriteBits(rawBias(s.Length, f.ExtendLength), 7)
	bs.WriteBits(rawBias(s.Offset, f.ExtendOffset), 8)
}

// ---- EF8 / E1ZX: flag bit, Elias-gamma length, raw 8-bit offset ----

func encodeGammaToken(bs *BitStream, f *Format, s ParseStep, input []byte, cursor int) {
	if s.IsLiteral() {
		bs.WriteBit(0)
		EncodeGamma1(bs, uint(s.Length))
		encodeLiteralBytes(bs, input, cursor, s.Length)
		return
	}
	bs.WriteBit(1)
	EncodeGamma1(bs, uint(s.Length-1))
	bs.WriteBits(rawBias(s.Offset, f.ExtendOffset), 8)
}

// ---- BX0: split elias/raw offset, repeat-offset token ----

func encodeBX0Token(bs *BitStream, f *Format, s ParseStep, input []byte, cursor int, r *int, prevWasLiteral *bool) {
	isRep := f.HasRepToken && !s.IsLiteral() && *prevWasLiteral && s.Offset == *r
	switch {
	case s.IsLiteral():
		bs.WriteBit(0)
		EncodeGamma1(bs, uint(s.Length))
		encodeLiteralBytes(bs, input, cursor, s.Length)
		*prevWasLiteral = true
	case isRep:
		bs.WriteBit(0)
		EncodeGamma1(bs, uint(s.Length))
		*prevWasLiteral = false
	default:
		bs.WriteBit(1)
		elias, raw := bx0OffsetParts(s.Offset)
		EncodeGamma1(bs, rawBias(int(elias), f.ExtendOffset))
		bs.WriteBits(raw, 7)
		EncodeGamma1(bs, uint(s.Length-1))
		*r = s.Offset
		*prevWasLiteral = false
	}
}

// ---- BX2: flag bit, Elias-gamma length, raw 8-bit offset, repeat-offset token ----

func encodeBX2Token(bs *BitStream, f *Format, s ParseStep, input []byte, cursor int, r *int, prevWasLiteral *bool) {
	isRep := f.HasRepToken && !s.IsLiteral() && *prevWasLiteral && s.Offset == *r
	switch {
	case s.IsLiteral():
		bs.WriteBit(0)
		EncodeGamma1(bs, uint(s.Length))
		encodeLiteralBytes(bs, input, cursor, s.Length)
		*prevWasLiteral = true
	case isRep:
		bs.WriteBit(0)
		EncodeGamma1(bs, uint(s.Length))
		*prevWasLiteral = false
	default:
		bs.WriteBit(1)
		EncodeGamma1(bs, uint(s.Length-1))
		bs.WriteBits(rawBias(s.Offset, f.ExtendOffset), 8)
		*r = s.Offset
		*prevWasLiteral = false
	}
}

// encodeEndMarker appends the per-format end-of-stream sentinel (spec
// §4.6, SPEC_FULL.md's resolved open questions). Each sentinel reuses an
// ordinary token shape (LZM: its length/flag byte; the other formats: a
// match token) whose length or offset field carries a value that can never
// occur in a real token, so the decoder needs no separate "is this the
// sentinel" bit.
func encodeEndMarker(bs *BitStream, f *Format) {
	switch f.ID {
	case LZM:
		bs.WriteByte(0)
	case EF8, E1ZX:
		bs.WriteBit(1)
		EncodeGamma1(bs, uint(endSentinel-1))
	case BX0:
		bs.WriteBit(1)
		EncodeGamma1(bs, 1) // any legal elias/raw offset split
		bs.WriteBits(0, 7)
		EncodeGamma1(bs, uint(endSentinel-1)) // length field carries the sentinel
	case BX2:
		bs.WriteBit(1)
		EncodeGamma1(bs, 1) // any legal length; the offset field of 0 carries the sentinel
		bs.WriteBits(0, 8)
	default:
		panic(Error("encodeEndMarker: unknown format"))
	}
}
