package retrolz

import "math/bits"

// This file implements the universal codes of spec §4.2 as pure functions
// over a *BitStream. Each code has a Cost (bit-length) function, an Encode
// function, and a Decode function; the parser's cost model calls the Cost
// variants directly (often through a small precomputed table, see
// gammaCostTable below) while the encoder/decoder call Encode/Decode. The
// two must never disagree — that agreement is the verified invariant of
// spec §4.4 and §8.
//
// EncodeGamma1/DecodeGamma1 read and write through the BitStream's ordinary
// WriteBit/ReadBit, so they automatically work in ZX negated-bit-stream
// mode (spec §4.2's "γ1 must additionally be callable in negated-bit-stream
// mode") without any special-casing here.

// CostGamma1 returns the bit length of the Elias-gamma γ1 code for v (v≥1).
func CostGamma1(v uint) int {
	if v < 1 {
		panic(Error("gamma1: value must be >= 1"))
	}
	n := bits.Len(v) - 1
	return 2*n + 1
}

// EncodeGamma1 writes the interleaved Elias-gamma γ1 code for v (v≥1):
// ⌊log2 v⌋ copies of (continue-bit=1, next bit of v) from the bit below the
// MSB down to bit 0, followed by a terminating 0 continue-bit.
func EncodeGamma1(bs *BitStream, v uint) {
	if v < 1 {
		panic(Error("gamma1: value must be >= 1"))
	}
	n := bits.Len(v) - 1
	for i := n - 1; i >= 0; i-- {
		bs.WriteBit(1)
		bs.WriteBit((v >> uint(i)) & 1)
	}
	bs.WriteBit(0)
}

// DecodeGamma1 reads an interleaved Elias-gamma γ1 code and returns v (≥1).
func DecodeGamma1(bs *BitStream) uint {
	v := uint(1)
	for bs.ReadBit() == 1 {
		v = v<<1 | bs.ReadBit()
	}
	return v
}

// CostGamma2 returns the bit length of the γ2 code for v (v≥2).
//
// retrolz builds γ2(v) as γ1(v>>1) followed by one raw bit for v&1: this is
// the simplest encoding whose cost is provably exactly
// 2·⌊log2(v/2)⌋+2 (spec §4.2), since ⌊log2(v>>1)⌋ == ⌊log2(v/2)⌋ for all
// integers v≥2.
func CostGamma2(v uint) int {
	if v < 2 {
		panic(Error("gamma2: value must be >= 2"))
	}
	return CostGamma1(v>>1) + 1
}

// EncodeGamma2 writes the γ2 code for v (v≥2).
func EncodeGamma2(bs *BitStream, v uint) {
	if v < 2 {
		panic(Error("gamma2: value must be >= 2"))
	}
	EncodeGamma1(bs, v>>1)
	bs.WriteBit(v & 1)
}

// DecodeGamma2 reads a γ2 code and returns v (≥2).
func DecodeGamma2(bs *BitStream) uint {
	w := DecodeGamma1(bs)
	return w<<1 | bs.ReadBit()
}

// CostUnary returns the bit length of the unary code for v (v≥0): v one-bits
// followed by a terminating zero.
func CostUnary(v uint) int { return int(v) + 1 }

// EncodeUnary writes the unary code for v (v≥0).
func EncodeUnary(bs *BitStream, v uint) {
	for ; v > 0; v-- {
		bs.WriteBit(1)
	}
	bs.WriteBit(0)
}

// DecodeUnary reads a unary code and returns v (≥0).
func DecodeUnary(bs *BitStream) uint {
	var v uint
	for bs.ReadBit() == 1 {
		v++
	}
	return v
}

// CostRice1 returns the bit length of the Rice code with parameter K=1 for
// v (v≥0): unary(v>>1) followed by the one remainder bit.
func CostRice1(v uint) int { return CostUnary(v>>1) + 1 }

// EncodeRice1 writes the Rice(K=1) code for v (v≥0).
func EncodeRice1(bs *BitStream, v uint) {
	EncodeUnary(bs, v>>1)
	bs.WriteBit(v & 1)
}

// DecodeRice1 reads a Rice(K=1) code and returns v (≥0).
func DecodeRice1(bs *BitStream) uint {
	q := DecodeUnary(bs)
	return q<<1 | bs.ReadBit()
}

// CostRaw returns nb, the bit length of a raw fixed-width field.
func CostRaw(nb uint) int { return int(nb) }

// EncodeRaw writes the low nb bits of v, MSB-first.
func EncodeRaw(bs *BitStream, v uint, nb uint) { bs.WriteBits(v, nb) }

// DecodeRaw reads nb raw bits.
func DecodeRaw(bs *BitStream, nb uint) uint { return bs.ReadBits(nb) }

// gammaCostTable precomputes CostGamma1 for small values, since the parser
// calls it on every candidate token at every position — spec §9 calls this
// "a worthwhile precomputation". Values beyond the table fall back to the
// closed-form computation.
var gammaCostTable [gammaCostTableSize]uint8

const gammaCostTableSize = 1 << 12

func init() {
	for v := 1; v < gammaCostTableSize; v++ {
		gammaCostTable[v] = uint8(CostGamma1(uint(v)))
	}
}

// gamma1Cost is the table-accelerated equivalent of CostGamma1, used
// internally by the format cost model hot paths.
func gamma1Cost(v uint) int {
	if v < gammaCostTableSize {
		return int(gammaCostTable[v])
	}
	return CostGamma1(v)
}
