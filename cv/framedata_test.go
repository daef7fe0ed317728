// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

import "testing"

func buildFrameDataBody(rvaStart, codeSize, localSize, paramsSize, maxStack, frameFunc uint32, prolog, savedRegs uint16, flags uint32) []byte {
	return concat(
		make([]byte, 4), // relocation placeholder
		le32(rvaStart), le32(codeSize), le32(localSize), le32(paramsSize),
		le32(maxStack), le32(frameFunc),
		le16(prolog), le16(savedRegs),
		le32(flags),
	)
}

func TestParseFrameData(t *testing.T) {
	body := buildFrameDataBody(0x10, 0x20, 8, 4, 0x100, 0, 4, 0, 0x3)

	view := newFakeCOFFView()
	view.addReloc(0, 0, "_main")

	c := NewCursor(body, 0)
	fd, err := ParseFrameData(c, decodeCtx{view: view, sectionID: 0})
	if err != nil {
		t.Fatalf("ParseFrameData() failed: %v", err)
	}
	if fd.LinkageName != "_main" {
		t.Errorf("LinkageName = %q; want \"_main\"", fd.LinkageName)
	}
	if fd.RvaStart != 0x10 || fd.CodeSize != 0x20 || fd.LocalSize != 8 || fd.ParamsSize != 4 {
		t.Errorf("got %+v", fd)
	}
	if fd.Flags != 0x3 {
		t.Errorf("Flags = 0x%x; want 0x3", fd.Flags)
	}
}

func TestParseFrameDataWrongSizeIsInvariantViolation(t *testing.T) {
	body := buildFrameDataBody(0, 0, 0, 0, 0, 0, 0, 0, 0)
	body = append(body, 0xFF) // one extra trailing byte

	c := NewCursor(body, 0)
	if _, err := ParseFrameData(c, decodeCtx{}); err == nil {
		t.Fatalf("ParseFrameData() with wrong size succeeded; want error")
	}
}
