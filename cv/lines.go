// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// LineEntry is one `(offset, line)` pair within a FilenameSegment (§4.7),
// with an optional column pair when the subsection carries column
// records.
type LineEntry struct {
	Offset      uint32
	Line        uint32
	IsStatement bool
	HasColumn   bool
	ColStart    uint16
	ColEnd      uint16
}

// FilenameSegment is one file-segment of a FunctionLineTable (§4.7).
type FilenameSegment struct {
	FileIndex uint32
	Filename  string
	Entries   []LineEntry
}

// FunctionLineTable is the fully reconstructed per-function line table
// (§4.7), keyed by LinkageName by the caller.
type FunctionLineTable struct {
	LinkageName string
	Flags       uint16
	CodeSize    uint32
	Segments    []FilenameSegment
	RelocOffset uint32
}

// ParseLines reconstructs one SUBSEC_LINES body (§4.7). body must be
// positioned at the start of the subsection payload with its Cursor base
// set to that payload's absolute offset within the enclosing .debug$S
// section, so that AbsPos() at offset 0 is the relocation site.
func ParseLines(body *Cursor, ctx decodeCtx, checksums *FileChecksumTable, strings *StringTable) (FunctionLineTable, error) {
	var t FunctionLineTable

	relocOffset := body.AbsPos()
	if err := body.Skip(6); err != nil { // two relocation placeholders
		return t, newErr(KindTruncated, "Lines", body.AbsPos(), err)
	}
	flags, err := body.U16()
	if err != nil {
		return t, newErr(KindTruncated, "Lines", body.AbsPos(), err)
	}
	codeSize, err := body.U32()
	if err != nil {
		return t, newErr(KindTruncated, "Lines", body.AbsPos(), err)
	}
	t.Flags, t.CodeSize = flags, codeSize

	if ctx.view != nil {
		name, err := ctx.view.RelocationSymbol(ctx.sectionID, relocOffset)
		if err != nil {
			return t, newErr(KindUnresolvedRelocation, "Lines", relocOffset, err)
		}
		t.LinkageName = name
	}

	hasColumns := flags&LineTableHaveColumns != 0

	for body.Len() > 0 {
		fileKey, err := body.U32()
		if err != nil {
			return t, newErr(KindTruncated, "Lines", body.AbsPos(), err)
		}
		entryCount, err := body.U32()
		if err != nil {
			return t, newErr(KindTruncated, "Lines", body.AbsPos(), err)
		}
		segBytes, err := body.U32()
		if err != nil {
			return t, newErr(KindTruncated, "Lines", body.AbsPos(), err)
		}

		expect := 12 + 8*entryCount
		if hasColumns {
			expect += 4 * entryCount
		}
		if segBytes != expect {
			return t, newErr(KindInvariantViolation, "Lines", body.AbsPos(), nil)
		}

		fileIndex := fileKey/8 + 1

		seg := FilenameSegment{FileIndex: fileIndex}
		seg.Entries = make([]LineEntry, entryCount)

		for i := uint32(0); i < entryCount; i++ {
			off, err := body.U32()
			if err != nil {
				return t, newErr(KindTruncated, "Lines", body.AbsPos(), err)
			}
			if off >= codeSize {
				return t, newErr(KindInvariantViolation, "Lines", body.AbsPos(), nil)
			}
			lineFlags, err := body.U32()
			if err != nil {
				return t, newErr(KindTruncated, "Lines", body.AbsPos(), err)
			}
			seg.Entries[i] = LineEntry{
				Offset:      off,
				Line:        lineFlags & CVLLineMask,
				IsStatement: lineFlags&CVLIsStatement != 0,
			}
		}

		if hasColumns {
			for i := uint32(0); i < entryCount; i++ {
				cs, err := body.U16()
				if err != nil {
					return t, newErr(KindTruncated, "Lines", body.AbsPos(), err)
				}
				ce, err := body.U16()
				if err != nil {
					return t, newErr(KindTruncated, "Lines", body.AbsPos(), err)
				}
				seg.Entries[i].HasColumn = true
				seg.Entries[i].ColStart = cs
				seg.Entries[i].ColEnd = ce
			}
		}

		entry, err := checksums.Entry(fileIndex)
		if err != nil {
			return t, err
		}
		filename, err := strings.String(entry.StringOffset)
		if err != nil {
			return t, err
		}
		seg.Filename = filename

		t.Segments = append(t.Segments, seg)
	}

	return t, nil
}
