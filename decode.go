package retrolz

// Decode is the exact inverse of Encode: it reads tokens from bs under
// format f and reproduces the original bytes directly (it does not need to
// go through ParseStep/ExpandWithInput, since a back-reference's source
// bytes are already sitting in the output being built).
//
// For BX0/BX2 it tracks the same (prevWasLiteral, r) state Encode threaded
// through, so it can recover which of the two legal next-token kinds a
// single context-dependent flag bit refers to.
func Decode(bs *BitStream, f *Format, sizeHint int) ([]byte, error) {
	if f.Reverse {
		// Reverse a copy: bs.Buf may be the caller's slice, which must not be
		// mutated while decoding (see NewBitStreamFromBytes).
		bs.Buf = reverseBytes(bs.Buf)
	}
	out := make([]byte, 0, sizeHint)
	var r int
	var prevWasLiteral bool

	for {
		if !f.EndMarker && len(out) >= sizeHint {
			return out, nil
		}
		switch f.ID {
		case LZM:
			done, next, err := decodeLZMToken(bs, f, out)
			if err != nil {
				return nil, err
			}
			if done {
				return out, nil
			}
			out = next
		case EF8, E1ZX:
			done, next, err := decodeGammaToken(bs, f, out)
			if err != nil {
				return nil, err
			}
			if done {
				return out, nil
			}
			out = next
		case BX0:
			done, next, err := decodeBX0Token(bs, f, out, &r, &prevWasLiteral)
			if err != nil {
				return nil, err
			}
			if done {
				return out, nil
			}
			out = next
		case BX2:
			done, next, err := decodeBX2Token(bs, f, out, &r, &prevWasLiteral)
			if err != nil {
				return nil, err
			}
			if done {
				return out, nil
			}
			out = next
		default:
			return nil, Error("Decode: unknown format")
		}
	}
}

func unbias(raw uint, extend bool) int {
	v := int(raw)
	if extend {
		v++
	}
	return v
}

func appendMatch(out []byte, length, offset int) []byte {
	start := len(out) - offset
	for i := 0; i < length; i++ {
		out = append(out, out[start+i])
	}
	return out
}

func readLiteralBytes(bs *BitStream, length int) []byte {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = byte(bs.ReadBits(8))
	}
	return buf
}

func decodeLZMToken(bs *BitStream, f *Format, out []byte) (done bool, next []byte, err error) {
	defer errRecover(&err)
	b := bs.ReadByte()
	if b == 0 && f.EndMarker {
		return true, out, nil
	}
	flag := b >> 7
	raw := uint(b & 0x7F)
	if flag == 0 {
		length := unbias(raw, f.ExtendLength)
		out = append(out, readLiteralBytes(bs, length)...)
		return false, out, nil
	}
	length := unbias(raw, f.ExtendLength)
	offset := unbias(bs.ReadBits(8), f.ExtendOffset)
	return false, appendMatch(out, length, offset), nil
}

func decodeGammaToken(bs *BitStream, f *Format, out []byte) (done bool, next []byte, err error) {
	defer errRecover(&err)
	flag := bs.ReadBit()
	if flag == 0 {
		length := int(DecodeGamma1(bs))
		out = append(out, readLiteralBytes(bs, length)...)
		return false, out, nil
	}
	length := int(DecodeGamma1(bs)) + 1
	if length > f.MaxMatchLength {
		return true, out, nil // end-of-stream sentinel (spec §4.6)
	}
	offset := unbias(bs.ReadBits(8), f.ExtendOffset)
	return false, appendMatch(out, length, offset), nil
}

func decodeBX0Token(bs *BitStream, f *Format, out []byte, r *int, prevWasLiteral *bool) (done bool, next []byte, err error) {
	defer errRecover(&err)
	flag := bs.ReadBit()
	if !*prevWasLiteral {
		// Context: preceding token was a match/rep/start. flag 0 = literal,
		// flag 1 = regular match.
		if flag == 0 {
			length := int(DecodeGamma1(bs))
			out = append(out, readLiteralBytes(bs, length)...)
			*prevWasLiteral = true
			return false, out, nil
		}
		return decodeBX0Match(bs, f, out, r, prevWasLiteral)
	}
	// Context: preceding token was a literal. flag 0 = rep match, flag 1 =
	// regular match.
	if flag == 0 {
		length := int(DecodeGamma1(bs))
		if length > f.MaxMatchLength {
			return true, out, nil
		}
		*prevWasLiteral = false
		return false, appendMatch(out, length, *r), nil
	}
	return decodeBX0Match(bs, f, out, r, prevWasLiteral)
}

func decodeBX0Match(bs *BitStream, f *Format, out []byte, r *int, prevWasLiteral *bool) (done bool, next []byte, err error) {
	elias := unbias(DecodeGamma1(bs), f.ExtendOffset)
	raw := bs.ReadBits(7)
	offset := bx0OffsetFromParts(uint(elias), raw)
	length := int(DecodeGamma1(bs)) + 1
	if length > f.MaxMatchLength {
		return true, out, nil
	}
	*r = offset
	*prevWasLiteral = false
	return false, appendMatch(out, length, offset), nil
}

func decodeBX2Token(bs *BitStream, f *Format, out []byte, r *int, prevWasLiteral *bool) (done bool, next []byte, err error) {
	defer errRecover(&err)
	flag := bs.ReadBit()
	if !*prevWasLiteral {
		if flag == 0 {
			length := int(DecodeGamma1(bs))
			out = append(out, readLiteralBytes(bs, length)...)
			*prevWasLiteral = true
			return false, out, nil
		}
		return decodeBX2Match(bs, f, out, r, prevWasLiteral)
	}
	if flag == 0 {
		length := int(DecodeGamma1(bs))
		if length > f.MaxMatchLength {
			return true, out, nil
		}
		*prevWasLiteral = false
		return false, appendMatch(out, length, *r), nil
	}
	return decodeBX2Match(bs, f, out, r, prevWasLiteral)
}

func decodeBX2Match(bs *BitStream, f *Format, out []byte, r *int, prevWasLiteral *bool) (done bool, next []byte, err error) {
	length := int(DecodeGamma1(bs)) + 1
	offset := unbias(bs.ReadBits(8), f.ExtendOffset)
	if offset == 0 {
		return true, out, nil // end-of-stream sentinel (spec §4.6)
	}
	*r = offset
	*prevWasLiteral = false
	return false, appendMatch(out, length, offset), nil
}
