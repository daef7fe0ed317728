// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

import (
	"testing"

	"github.com/saferwall/cvdump/cv/cvmc"
)

// TestEmitLineTableForFunctionIsReadableByParseLines confirms the MC-layer
// emitter and the reader agree on the Lines subsection wire format (§3,
// §4.7): bytes cvmc produces parse cleanly back through ParseLines.
func TestEmitLineTableForFunctionIsReadableByParseLines(t *testing.T) {
	ctx := cvmc.NewContext()
	ctx.AddFile(1, "main.c")
	ctx.SetLoc(cvmc.Loc{FunctionID: 1, FileNum: 1, Line: 10, IsStmt: true})
	ctx.RecordLineEntry(0x0)
	ctx.SetLoc(cvmc.Loc{FunctionID: 1, FileNum: 1, Line: 11, IsStmt: true})
	ctx.RecordLineEntry(0x4)

	body := ctx.EmitLineTableForFunction(1, 0x10)

	strPayload, offsets := ctx.EmitStringTable()
	checksumPayload := ctx.EmitFileChecksums(offsets)

	strTab := NewStringTable(strPayload)
	checksums, err := NewFileChecksumTable(checksumPayload)
	if err != nil {
		t.Fatalf("NewFileChecksumTable() failed: %v", err)
	}

	view := newFakeCOFFView()
	view.addReloc(0, 0, "_main") // the two relocation placeholders cvmc leaves zeroed

	c := NewCursor(body, 0)
	lt, err := ParseLines(c, decodeCtx{view: view, sectionID: 0}, checksums, strTab)
	if err != nil {
		t.Fatalf("ParseLines() on cvmc-emitted bytes failed: %v", err)
	}

	if len(lt.Segments) != 1 {
		t.Fatalf("len(Segments) = %d; want 1", len(lt.Segments))
	}
	seg := lt.Segments[0]
	if seg.Filename != "main.c" {
		t.Errorf("Filename = %q; want \"main.c\"", seg.Filename)
	}
	if len(seg.Entries) != 2 {
		t.Fatalf("len(Entries) = %d; want 2", len(seg.Entries))
	}
	if seg.Entries[0].Line != 10 || seg.Entries[1].Line != 11 {
		t.Errorf("got lines %d, %d; want 10, 11", seg.Entries[0].Line, seg.Entries[1].Line)
	}
}
