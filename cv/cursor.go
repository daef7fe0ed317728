// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package cv implements a reader and pretty-printer for Microsoft CodeView
// debug information as it appears inside COFF object files, in the
// `.debug$S` (symbols/lines) and `.debug$T` (types) sections.
package cv

import "encoding/binary"

// Cursor is a zero-copy little-endian reader over a borrowed byte range,
// the same boundary-checked-read idiom as structUnpack/ReadBytesAtOffset in
// the teacher's helper.go, specialized to a moving position instead of a
// one-shot offset.
type Cursor struct {
	data []byte
	pos  int

	// base is the absolute offset of data[0] within the enclosing COFF
	// section, used to compute relocation sites (§4.4, §4.7, §4.8).
	base uint32
}

// NewCursor wraps data; base is its absolute offset within the owning COFF
// section (0 if the caller does not need relocation-site arithmetic).
func NewCursor(data []byte, base uint32) *Cursor {
	return &Cursor{data: data, base: base}
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.data) - c.pos }

// Pos returns the current read offset relative to the start of data.
func (c *Cursor) Pos() int { return c.pos }

// AbsPos returns the current read offset relative to the owning section.
func (c *Cursor) AbsPos() uint32 { return c.base + uint32(c.pos) }

// Remaining returns the unread tail of the buffer without advancing.
func (c *Cursor) Remaining() []byte { return c.data[c.pos:] }

func (c *Cursor) require(n int) error {
	if n < 0 || c.pos+n > len(c.data) {
		return ErrTruncated
	}
	return nil
}

// U8 reads an unsigned byte.
func (c *Cursor) U8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

// I8 reads a signed byte.
func (c *Cursor) I8() (int8, error) {
	v, err := c.U8()
	return int8(v), err
}

// U16 reads a little-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

// I16 reads a little-endian int16.
func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

// U32 reads a little-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

// I32 reads a little-endian int32.
func (c *Cursor) I32() (int32, error) {
	v, err := c.U32()
	return int32(v), err
}

// U64 reads a little-endian uint64.
func (c *Cursor) U64() (uint64, error) {
	if err := c.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.data[c.pos:])
	c.pos += 8
	return v, nil
}

// I64 reads a little-endian int64.
func (c *Cursor) I64() (int64, error) {
	v, err := c.U64()
	return int64(v), err
}

// Bytes reads n raw bytes.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	v := c.data[c.pos : c.pos+n]
	c.pos += n
	return v, nil
}

// Skip advances n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if err := c.require(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// CString reads bytes up to (and past) the next NUL, returning the bytes
// before it. A missing NUL is Truncated.
func (c *Cursor) CString() ([]byte, error) {
	for i := c.pos; i < len(c.data); i++ {
		if c.data[i] == 0 {
			s := c.data[c.pos:i]
			c.pos = i + 1
			return s, nil
		}
	}
	return nil, ErrTruncated
}

// Split carves off the next n bytes as an independent child cursor sharing
// the same absolute-offset base, and advances past them.
func (c *Cursor) Split(n int) (*Cursor, error) {
	b, err := c.Bytes(n)
	if err != nil {
		return nil, err
	}
	return &Cursor{data: b, base: c.base + uint32(c.pos-n)}, nil
}

// AlignTo4 skips zero-padding bytes until the position is 4-aligned
// relative to the start of data. It is a no-op if already aligned (P6).
func (c *Cursor) AlignTo4() error {
	pad := (4 - (c.pos % 4)) % 4
	return c.Skip(pad)
}

// SkipFieldListPad consumes a trailing alignment pad run if present:
// CodeView field-list padding bytes lie in [0xF0, 0xFF], and the low nibble
// of the first byte gives the total pad run length (itself included). A no-op
// on an already-aligned cursor, satisfying P6.
func (c *Cursor) SkipFieldListPad() error {
	if c.Len() == 0 {
		return nil
	}
	b := c.data[c.pos]
	if b < 0xF0 {
		return nil
	}
	n := int(b & 0x0F)
	return c.Skip(n)
}
