// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

import "testing"

func TestCursorFixedWidthReads(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03, 0x04, 0xFF, 0xFF, 0x00, 'h', 'i', 0}, 0)

	u8, err := c.U8()
	if err != nil || u8 != 0x01 {
		t.Fatalf("U8() = %v, %v; want 0x01, nil", u8, err)
	}
	u16, err := c.U16()
	if err != nil || u16 != 0x0403 {
		t.Fatalf("U16() = 0x%x, %v; want 0x0403, nil", u16, err)
	}
	i16, err := c.I16()
	if err != nil || i16 != -1 {
		t.Fatalf("I16() = %d, %v; want -1, nil", i16, err)
	}
	u8, err = c.U8()
	if err != nil || u8 != 0 {
		t.Fatalf("U8() = %v, %v; want 0, nil", u8, err)
	}
	s, err := c.CString()
	if err != nil || string(s) != "hi" {
		t.Fatalf("CString() = %q, %v; want \"hi\", nil", s, err)
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d after consuming whole buffer; want 0", c.Len())
	}
}

func TestCursorTruncated(t *testing.T) {
	c := NewCursor([]byte{0x01}, 0)
	if _, err := c.U32(); err != ErrTruncated {
		t.Fatalf("U32() on short buffer = %v; want ErrTruncated", err)
	}
}

func TestCursorCStringMissingNULIsTruncated(t *testing.T) {
	c := NewCursor([]byte{'a', 'b', 'c'}, 0)
	if _, err := c.CString(); err != ErrTruncated {
		t.Fatalf("CString() without NUL = %v; want ErrTruncated", err)
	}
}

func TestCursorSplitSharesBase(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3, 4, 5, 6}, 100)
	if err := c.Skip(2); err != nil {
		t.Fatalf("Skip(2) failed: %v", err)
	}
	child, err := c.Split(2)
	if err != nil {
		t.Fatalf("Split(2) failed: %v", err)
	}
	if child.AbsPos() != 102 {
		t.Fatalf("child.AbsPos() = %d; want 102", child.AbsPos())
	}
	if c.Pos() != 4 {
		t.Fatalf("parent Pos() after Split = %d; want 4", c.Pos())
	}
}

// P6: applying the field-list pad-skip to an already-aligned cursor is a
// no-op.
func TestSkipFieldListPadNoOpWhenAligned(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	c := NewCursor(data, 0)
	before := c.Pos()
	if err := c.SkipFieldListPad(); err != nil {
		t.Fatalf("SkipFieldListPad() on non-pad byte failed: %v", err)
	}
	if c.Pos() != before {
		t.Fatalf("SkipFieldListPad() moved cursor from %d to %d on a non-pad byte", before, c.Pos())
	}
}

func TestSkipFieldListPadConsumesRun(t *testing.T) {
	// 0xF3 means "skip 3 bytes" (this pad byte plus two more).
	data := []byte{0xF3, 0xAA, 0xBB, 0xCC}
	c := NewCursor(data, 0)
	if err := c.SkipFieldListPad(); err != nil {
		t.Fatalf("SkipFieldListPad() failed: %v", err)
	}
	if c.Pos() != 3 {
		t.Fatalf("SkipFieldListPad() left Pos() = %d; want 3", c.Pos())
	}
	if c.Len() != 1 {
		t.Fatalf("SkipFieldListPad() left Len() = %d; want 1", c.Len())
	}
}

func TestAlignTo4(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 0)
	if err := c.Skip(3); err != nil {
		t.Fatalf("Skip(3) failed: %v", err)
	}
	if err := c.AlignTo4(); err != nil {
		t.Fatalf("AlignTo4() failed: %v", err)
	}
	if c.Pos() != 4 {
		t.Fatalf("AlignTo4() left Pos() = %d; want 4", c.Pos())
	}
	// Already aligned: no-op.
	if err := c.AlignTo4(); err != nil {
		t.Fatalf("AlignTo4() on aligned cursor failed: %v", err)
	}
	if c.Pos() != 4 {
		t.Fatalf("AlignTo4() on aligned cursor moved Pos() to %d; want 4", c.Pos())
	}
}
