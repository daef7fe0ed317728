// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// Numeric leaf tags (§4.2). Values below LeafNumericTagMin are inline.
const (
	LeafNumericTagMin uint16 = 0x8000

	LfChar      uint16 = 0x8000
	LfShort     uint16 = 0x8001
	LfUShort    uint16 = 0x8002
	LfLong      uint16 = 0x8003
	LfULong     uint16 = 0x8004
	LfReal32    uint16 = 0x8005
	LfReal64    uint16 = 0x8006
	LfReal80    uint16 = 0x8007
	LfReal128   uint16 = 0x8008
	LfQuadword  uint16 = 0x8009
	LfUQuadword uint16 = 0x800a
	LfReal48    uint16 = 0x800b
	LfComplex32 uint16 = 0x800c
	LfComplex64 uint16 = 0x800d
	LfComplex80 uint16 = 0x800e
	LfComplex128 uint16 = 0x800f
	LfVarString uint16 = 0x8010
)

// Numeric is a decoded LF_NUMERIC value: a widened 64-bit integer (signed
// values sign-extended, in two's complement) plus a
// signedness flag, per §4.2 ("producers return a widened integer plus a
// signedness flag").
type Numeric struct {
	Value  uint64
	Signed bool
}

// AsInt64 reinterprets Value as signed when Signed is set.
func (n Numeric) AsInt64() int64 {
	if n.Signed {
		return int64(n.Value)
	}
	return int64(n.Value)
}

// ReadNumeric decodes one LF_NUMERIC leaf (§4.2): a u16 tag, inline if
// < 0x8000, else a tag-selected fixed-width read.
func ReadNumeric(c *Cursor) (Numeric, error) {
	tag, err := c.U16()
	if err != nil {
		return Numeric{}, err
	}
	if tag < LeafNumericTagMin {
		return Numeric{Value: uint64(tag)}, nil
	}

	switch tag {
	case LfChar:
		v, err := c.I8()
		return Numeric{Value: uint64(v), Signed: true}, err
	case LfShort:
		v, err := c.I16()
		return Numeric{Value: uint64(v), Signed: true}, err
	case LfUShort:
		v, err := c.U16()
		return Numeric{Value: uint64(v)}, err
	case LfLong:
		v, err := c.I32()
		return Numeric{Value: uint64(v), Signed: true}, err
	case LfULong:
		v, err := c.U32()
		return Numeric{Value: uint64(v)}, err
	case LfQuadword:
		v, err := c.I64()
		return Numeric{Value: uint64(v), Signed: true}, err
	case LfUQuadword:
		v, err := c.U64()
		return Numeric{Value: v}, err
	default:
		// REAL32..REAL128, VARSTRING and friends: recognized but not
		// required to decode for the core (§4.2).
		return Numeric{}, ErrUnsupportedNumericLeaf
	}
}

// EncodeNumeric is the write-side counterpart used by tests to exercise
// the round-trip property P7: the minimum-width encoding of v.
func EncodeNumeric(v uint64, signed bool) []byte {
	put16 := func(x uint16) []byte { return []byte{byte(x), byte(x >> 8)} }
	put32 := func(x uint32) []byte { return []byte{byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24)} }
	put64 := func(x uint64) []byte {
		b := make([]byte, 8)
		for i := 0; i < 8; i++ {
			b[i] = byte(x >> (8 * i))
		}
		return b
	}

	if v < uint64(LeafNumericTagMin) {
		return put16(uint16(v))
	}

	if signed {
		sv := int64(v)
		switch {
		case sv >= -0x80 && sv < 0x80:
			return append(put16(LfChar), byte(int8(sv)))
		case sv >= -0x8000 && sv < 0x8000:
			return append(put16(LfShort), put16(uint16(int16(sv)))...)
		case sv >= -0x80000000 && sv < 0x80000000:
			return append(put16(LfLong), put32(uint32(int32(sv)))...)
		default:
			return append(put16(LfQuadword), put64(uint64(sv))...)
		}
	}

	switch {
	case v <= 0xFFFF:
		return append(put16(LfUShort), put16(uint16(v))...)
	case v <= 0xFFFFFFFF:
		return append(put16(LfULong), put32(uint32(v))...)
	default:
		return append(put16(LfUQuadword), put64(v)...)
	}
}
