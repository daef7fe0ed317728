// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package coff

import "testing"

func le16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }
func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func sectionNameBytes(name string) []byte {
	b := make([]byte, 8)
	copy(b, name)
	return b
}

func shortSymbolName(name string) []byte {
	b := make([]byte, 8)
	copy(b, name)
	return b
}

func longSymbolName(stringTableOffset uint32) []byte {
	return concat(le32(0), le32(stringTableOffset))
}

// buildObject assembles a minimal one-section COFF object with one
// relocation and two symbols (one short name, one long/string-table name),
// laid out sequentially: header, section header, section data, relocation
// table, symbol table, string table.
func buildObject(t *testing.T) []byte {
	t.Helper()

	const (
		fileHeaderSize = 20
		sectHeaderSize = 40
		relocSize      = 10
		symSize        = 18
	)

	sectionData := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x11, 0x22}

	dataOffset := uint32(fileHeaderSize + sectHeaderSize)
	relocOffset := dataOffset + uint32(len(sectionData))
	symTableOffset := relocOffset + relocSize
	strTableOffset := symTableOffset + 2*symSize

	longName := "a_very_long_symbol_name_past_eight_bytes"
	strTable := concat(le32(uint32(4+len(longName)+1)), []byte(longName), []byte{0})

	fileHeader := concat(
		le16(uint16(MachineAMD64)),
		le16(1), // NumberOfSections
		le32(0), // TimeDateStamp
		le32(symTableOffset),
		le32(2), // NumberOfSymbols
		le16(0), // SizeOfOptionalHeader
		le16(0), // Characteristics
	)

	sectionHeader := concat(
		sectionNameBytes(".debug$S"),
		le32(0),                        // VirtualSize
		le32(0),                        // VirtualAddress
		le32(uint32(len(sectionData))), // SizeOfRawData
		le32(dataOffset),
		le32(relocOffset),
		le32(0), // PointerToLineNumbers
		le16(1), // NumberOfRelocations
		le16(0), // NumberOfLineNumbers
		le32(0), // Characteristics
	)

	relocation := concat(
		le32(4), // VirtualAddress: patch site at offset 4 within the section
		le32(1), // SymbolTableIndex: the long-name symbol
		le16(6), // Type (IMAGE_REL_AMD64_REL32_2, value unchecked by this reader)
	)

	symbol1 := concat(shortSymbolName("_main"), le32(0), le16(1), le16(0), []byte{2, 0})
	symbol2 := concat(longSymbolName(4), le32(0x10), le16(1), le16(0), []byte{2, 0})

	return concat(fileHeader, sectionHeader, sectionData, relocation, symbol1, symbol2, strTable)
}

func TestParseSectionsAndData(t *testing.T) {
	data := buildObject(t)
	f, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes() failed: %v", err)
	}

	if len(f.Sections) != 1 {
		t.Fatalf("len(Sections) = %d; want 1", len(f.Sections))
	}
	sec, err := f.Section(".debug$S")
	if err != nil {
		t.Fatalf("Section(\".debug$S\") failed: %v", err)
	}
	if len(sec.Data) != 8 || sec.Data[0] != 0xAA {
		t.Errorf("Data = %v; want the 8-byte fixture starting 0xAA", sec.Data)
	}
	if len(sec.Relocations) != 1 {
		t.Fatalf("len(Relocations) = %d; want 1", len(sec.Relocations))
	}
}

func TestParseSymbolTableShortAndLongNames(t *testing.T) {
	data := buildObject(t)
	f, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes() failed: %v", err)
	}
	if len(f.Symbols) != 2 {
		t.Fatalf("len(Symbols) = %d; want 2", len(f.Symbols))
	}
	if f.Symbols[0].Name != "_main" {
		t.Errorf("Symbols[0].Name = %q; want \"_main\"", f.Symbols[0].Name)
	}
	if f.Symbols[1].Name != "a_very_long_symbol_name_past_eight_bytes" {
		t.Errorf("Symbols[1].Name = %q; want the long name", f.Symbols[1].Name)
	}
}

func TestRelocationSymbolNameResolves(t *testing.T) {
	data := buildObject(t)
	f, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes() failed: %v", err)
	}
	name, err := f.RelocationSymbolName(0, 4)
	if err != nil {
		t.Fatalf("RelocationSymbolName() failed: %v", err)
	}
	if name != "a_very_long_symbol_name_past_eight_bytes" {
		t.Errorf("RelocationSymbolName() = %q; want the long symbol name", name)
	}
}

func TestRelocationSymbolNameUnresolvedOffset(t *testing.T) {
	data := buildObject(t)
	f, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes() failed: %v", err)
	}
	if _, err := f.RelocationSymbolName(0, 999); err == nil {
		t.Fatalf("RelocationSymbolName() at an unpatchted offset succeeded; want error")
	}
}

func TestRelocationDetailReturnsSymbolIndex(t *testing.T) {
	data := buildObject(t)
	f, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes() failed: %v", err)
	}
	idx, ok := f.RelocationDetail(0, 4)
	if !ok || idx != 1 {
		t.Errorf("RelocationDetail() = %d, %v; want 1, true", idx, ok)
	}
}

func TestOpenTooSmallFile(t *testing.T) {
	if _, err := NewBytes([]byte{1, 2, 3}, nil); err != ErrTooSmall {
		t.Fatalf("NewBytes() on a too-small buffer = %v; want ErrTooSmall", err)
	}
}

func TestSymbolNameOutOfRange(t *testing.T) {
	data := buildObject(t)
	f, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes() failed: %v", err)
	}
	if _, err := f.SymbolName(99); err == nil {
		t.Fatalf("SymbolName(99) succeeded; want error")
	}
}
