// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// StringTable is a single NUL-terminated-string blob (§3 "String table").
// Offset 0 always names the empty string; offset-1 must be the terminator
// of the preceding entry.
type StringTable struct {
	blob []byte
}

// NewStringTable wraps the raw StringTable subsection payload.
func NewStringTable(blob []byte) *StringTable { return &StringTable{blob: blob} }

// String resolves a byte offset into blob to the NUL-terminated string
// starting there (P5: the byte at offset-1 must be 0, except at offset 0).
func (t *StringTable) String(offset uint32) (string, error) {
	if t == nil || offset > uint32(len(t.blob)) {
		return "", newErr(KindInvariantViolation, "StringTable", offset, ErrTruncated)
	}
	if offset > 0 && t.blob[offset-1] != 0 {
		return "", newErr(KindInvariantViolation, "StringTable", offset, nil)
	}
	end := offset
	for end < uint32(len(t.blob)) && t.blob[end] != 0 {
		end++
	}
	if end >= uint32(len(t.blob)) {
		return "", newErr(KindTruncated, "StringTable", offset, nil)
	}
	return string(t.blob[offset:end]), nil
}

// FileChecksumEntry is one 8-byte record of the file-checksum table (§3):
// a string-table offset naming the file, plus a reserved checksum blob
// the reader does not interpret.
type FileChecksumEntry struct {
	StringOffset uint32
}

// FileChecksumTable maps a 1-based file index, as reported by line tables,
// to a FileChecksumEntry (§3 "File-checksum table").
type FileChecksumTable struct {
	entries []FileChecksumEntry
}

// NewFileChecksumTable parses the raw FileChecksums subsection payload: a
// packed array of 8-byte (string_offset u32, zeroed u32) entries.
func NewFileChecksumTable(payload []byte) (*FileChecksumTable, error) {
	c := NewCursor(payload, 0)
	var entries []FileChecksumEntry
	for c.Len() > 0 {
		off, err := c.U32()
		if err != nil {
			return nil, newErr(KindTruncated, "FileChecksums", c.AbsPos(), err)
		}
		// Checksums are reserved for the emitter; skip kind/size/bytes (4
		// bytes here covers the "zeroed" word the reader in §3 documents;
		// real checksum kinds carry more, but this reader never consumes
		// checksum bytes so it only needs to stay 8-byte aligned per entry
		// as the spec's minimal entry layout specifies).
		if err := c.Skip(4); err != nil {
			return nil, newErr(KindTruncated, "FileChecksums", c.AbsPos(), err)
		}
		entries = append(entries, FileChecksumEntry{StringOffset: off})
	}
	return &FileChecksumTable{entries: entries}, nil
}

// Entry returns the 1-based fileIndex'th entry.
func (t *FileChecksumTable) Entry(fileIndex uint32) (FileChecksumEntry, error) {
	if t == nil || fileIndex == 0 || int(fileIndex) > len(t.entries) {
		return FileChecksumEntry{}, newErr(KindInvariantViolation, "FileChecksums", fileIndex, nil)
	}
	return t.entries[fileIndex-1], nil
}
