// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package coff implements access to raw Microsoft COFF object files (the
// ".obj" produced by a compiler, as opposed to a linked PE image): the file
// header, the section table, section relocations, and the COFF symbol and
// string tables. It is the "COFF view" collaborator that the cv package
// consumes — it does not know anything about CodeView.
package coff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/saferwall/cvdump/internal/log"
)

// Errors.
var (
	// ErrTooSmall is returned when the file is smaller than a file header.
	ErrTooSmall = errors.New("file too small to contain a COFF header")

	// ErrOutsideBoundary is returned when a read would cross the end of the
	// mapped data.
	ErrOutsideBoundary = errors.New("coff: reading data outside boundary")

	// ErrSectionNotFound is returned by Section when no section of the
	// requested name exists.
	ErrSectionNotFound = errors.New("coff: section not found")

	// ErrCOFFTableNotPresent is returned when there is no COFF symbol table.
	ErrCOFFTableNotPresent = errors.New("coff: no symbol table present")

	// ErrSymbolsTooHigh guards against a corrupt NumberOfSymbols causing an
	// out-of-memory allocation.
	ErrSymbolsTooHigh = errors.New("coff: symbol count is absurdly high")
)

// MaxDefaultSymbolsCount mirrors the teacher's MaxDefaultCOFFSymbolsCount
// guard against malformed NumberOfSymbols fields.
const MaxDefaultSymbolsCount = 0x100000

// Options configures how a File is parsed.
type Options struct {
	// MaxSymbolsCount caps NumberOfSymbols, by default MaxDefaultSymbolsCount.
	MaxSymbolsCount uint32

	// A custom logger; defaults to a discarding helper.
	Logger log.Logger
}

// Machine identifies the target machine type of a FileHeader.
type Machine uint16

// Recognized machine types (a subset; unrecognized values print as hex).
const (
	MachineUnknown Machine = 0x0
	MachineI386    Machine = 0x14c
	MachineAMD64   Machine = 0x8664
	MachineARM     Machine = 0x1c0
	MachineARM64   Machine = 0xaa64
	MachineARMNT   Machine = 0x1c4
)

func (m Machine) String() string {
	names := map[Machine]string{
		MachineUnknown: "UNKNOWN",
		MachineI386:    "I386",
		MachineAMD64:   "AMD64",
		MachineARM:     "ARM",
		MachineARM64:   "ARM64",
		MachineARMNT:   "ARMNT",
	}
	if s, ok := names[m]; ok {
		return s
	}
	return "?"
}

// Characteristics are the FileHeader.Characteristics flag bits.
type Characteristics uint16

const (
	FileRelocsStripped    Characteristics = 0x0001
	FileExecutableImage   Characteristics = 0x0002
	FileLineNumsStripped  Characteristics = 0x0004
	FileLocalSymsStripped Characteristics = 0x0008
	File32BitMachine      Characteristics = 0x0100
	FileDebugStripped     Characteristics = 0x0200
)

// FileHeader is the IMAGE_FILE_HEADER that begins every raw object file
// (there is no DOS stub and no "PE\0\0" signature preceding it — those only
// appear in linked images).
type FileHeader struct {
	Machine              Machine
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      Characteristics
}

// SectionHeader is one IMAGE_SECTION_HEADER entry.
type SectionHeader struct {
	Name                 [8]byte
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLineNumbers uint32
	NumberOfRelocations  uint16
	NumberOfLineNumbers  uint16
	Characteristics      uint32
}

// Relocation is one IMAGE_RELOCATION entry. For object files, VirtualAddress
// is the offset within the section of the field to patch.
type Relocation struct {
	VirtualAddress   uint32
	SymbolTableIndex uint32
	Type             uint16
}

// Section describes a parsed section: its header, its raw data, and its
// relocations.
type Section struct {
	Header      SectionHeader
	Name        string
	Data        []byte
	Relocations []Relocation
}

// Symbol is a resolved entry of the COFF symbol table (auxiliary records are
// skipped over, matching §6's "symbol_name(symbol) -> string" contract).
type Symbol struct {
	Name          string
	Value         uint32
	SectionNumber int16
	Type          uint16
	StorageClass  uint8
}

// rawSymbol is the 18-byte on-disk symbol table entry.
type rawSymbol struct {
	Name               [8]byte
	Value              uint32
	SectionNumber      int16
	Type               uint16
	StorageClass       uint8
	NumberOfAuxSymbols uint8
}

// File is an open, fully-parsed COFF object file.
type File struct {
	FileHeader FileHeader
	Sections   []*Section
	Symbols    []Symbol

	// relocIndex maps (sectionIndex, offset) -> resolved symbol name, built
	// lazily on first use and then read-only, per spec §5's
	// "relocation cache ... constructed lazily ... then read-only".
	relocIndex map[relocKey]string

	// relocDetail maps the same key to the raw symbol table index, for
	// the --expand-relocs CLI surface.
	relocDetail map[relocKey]uint32

	data   []byte
	mm     mmap.MMap
	closer *os.File
	opts   *Options
	logger *log.Helper
}

type relocKey struct {
	section int
	offset  uint32
}

// Open memory-maps name and parses it as a COFF object file.
func Open(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file, err := newFile(data, opts)
	if err != nil {
		data.Unmap()
		f.Close()
		return nil, err
	}
	file.mm = data
	file.closer = f
	return file, nil
}

// NewBytes parses an in-memory COFF object file.
func NewBytes(data []byte, opts *Options) (*File, error) {
	return newFile(data, opts)
}

func newFile(data []byte, opts *Options) (*File, error) {
	file := &File{data: data}

	if opts != nil {
		file.opts = opts
	} else {
		file.opts = &Options{}
	}
	if file.opts.MaxSymbolsCount == 0 {
		file.opts.MaxSymbolsCount = MaxDefaultSymbolsCount
	}

	var logger log.Logger
	if file.opts.Logger == nil {
		logger = log.Discard
	} else {
		logger = file.opts.Logger
	}
	file.logger = log.NewHelper(logger)

	if err := file.parse(); err != nil {
		return nil, err
	}
	return file, nil
}

// Close releases the memory mapping and underlying descriptor, if any.
func (f *File) Close() error {
	if f.mm != nil {
		_ = f.mm.Unmap()
	}
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

func (f *File) parse() error {
	headerSize := uint32(binary.Size(FileHeader{}))
	if uint32(len(f.data)) < headerSize {
		return ErrTooSmall
	}

	if err := f.structUnpack(&f.FileHeader, 0, headerSize); err != nil {
		return err
	}

	offset := headerSize + uint32(f.FileHeader.SizeOfOptionalHeader)

	if err := f.parseSections(offset); err != nil {
		return err
	}

	if err := f.parseSymbolTable(); err != nil {
		f.logger.Debugf("coff symbol table parsing failed: %v", err)
	}

	return nil
}

func (f *File) parseSections(offset uint32) error {
	hdrSize := uint32(binary.Size(SectionHeader{}))

	f.Sections = make([]*Section, 0, f.FileHeader.NumberOfSections)
	for i := uint16(0); i < f.FileHeader.NumberOfSections; i++ {
		var hdr SectionHeader
		if err := f.structUnpack(&hdr, offset, hdrSize); err != nil {
			return err
		}
		offset += hdrSize

		sec := &Section{
			Header: hdr,
			Name:   sectionName(hdr.Name),
		}

		if hdr.SizeOfRawData > 0 && hdr.PointerToRawData > 0 {
			raw, err := f.ReadBytesAt(hdr.PointerToRawData, hdr.SizeOfRawData)
			if err != nil {
				return err
			}
			sec.Data = raw
		}

		if hdr.NumberOfRelocations > 0 {
			relocs, err := f.parseRelocations(hdr.PointerToRelocations, hdr.NumberOfRelocations)
			if err != nil {
				return err
			}
			sec.Relocations = relocs
		}

		f.Sections = append(f.Sections, sec)
	}
	return nil
}

func (f *File) parseRelocations(offset uint32, count uint16) ([]Relocation, error) {
	const entrySize = 10 // VirtualAddress(4) + SymbolTableIndex(4) + Type(2)
	relocs := make([]Relocation, count)
	for i := uint16(0); i < count; i++ {
		if err := f.structUnpack(&relocs[i], offset, entrySize); err != nil {
			return nil, err
		}
		offset += entrySize
	}
	return relocs, nil
}

// parseSymbolTable parses the COFF symbol table and string table, exactly as
// symbol.go's ParseCOFFSymbolTable/COFFStringTable do for PE images, except
// here PointerToSymbolTable/NumberOfSymbols are always populated (COFF
// debugging info is never "deprecated" for a raw object file).
func (f *File) parseSymbolTable() error {
	if f.FileHeader.PointerToSymbolTable == 0 || f.FileHeader.NumberOfSymbols == 0 {
		return ErrCOFFTableNotPresent
	}
	if f.FileHeader.NumberOfSymbols > f.opts.MaxSymbolsCount {
		return ErrSymbolsTooHigh
	}

	const rawSize = 18
	offset := f.FileHeader.PointerToSymbolTable
	count := f.FileHeader.NumberOfSymbols

	stringTableOffset := offset + rawSize*count
	strTable, err := f.readStringTable(stringTableOffset)
	if err != nil {
		f.logger.Debugf("coff string table parsing failed: %v", err)
		strTable = nil
	}

	symbols := make([]Symbol, 0, count)
	for i := uint32(0); i < count; {
		var raw rawSymbol
		if err := f.structUnpack(&raw, offset, rawSize); err != nil {
			return err
		}
		offset += rawSize
		i++

		name := shortOrLongName(raw.Name, strTable)
		symbols = append(symbols, Symbol{
			Name:          name,
			Value:         raw.Value,
			SectionNumber: raw.SectionNumber,
			Type:          raw.Type,
			StorageClass:  raw.StorageClass,
		})

		// Skip auxiliary records; each is the same 18-byte slot.
		for aux := uint8(0); aux < raw.NumberOfAuxSymbols && i < count; aux++ {
			offset += rawSize
			i++
		}
	}

	f.Symbols = symbols
	return nil
}

// stringTable holds the decoded COFF string table: offset (relative to the
// start of the string table, size field included) -> string.
type stringTable map[uint32]string

func (f *File) readStringTable(offset uint32) (stringTable, error) {
	size, err := f.ReadUint32(offset)
	if err != nil {
		return nil, err
	}
	if size < 4 {
		return nil, errors.New("coff: invalid string table size")
	}

	raw, err := f.ReadBytesAt(offset, size)
	if err != nil {
		return nil, err
	}

	table := make(stringTable)
	body := raw[4:]
	pos := uint32(4)
	for len(body) > 0 {
		nul := bytes.IndexByte(body, 0)
		if nul < 0 {
			break
		}
		table[pos] = string(body[:nul])
		body = body[nul+1:]
		pos += uint32(nul) + 1
	}
	return table, nil
}

func shortOrLongName(raw [8]byte, table stringTable) string {
	if raw[0] != 0 || raw[1] != 0 || raw[2] != 0 || raw[3] != 0 {
		return string(bytes.TrimRight(raw[:], "\x00"))
	}
	offset := binary.LittleEndian.Uint32(raw[4:8])
	if table != nil {
		if name, ok := table[offset]; ok {
			return name
		}
	}
	return ""
}

func sectionName(raw [8]byte) string {
	return string(bytes.TrimRight(raw[:], "\x00"))
}

// Section looks a section up by name; returns ErrSectionNotFound if absent.
func (f *File) Section(name string) (*Section, error) {
	for _, s := range f.Sections {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, ErrSectionNotFound
}

// SectionIndex returns the zero-based index of sec within f.Sections, or -1.
func (f *File) SectionIndex(sec *Section) int {
	for i, s := range f.Sections {
		if s == sec {
			return i
		}
	}
	return -1
}

// SymbolName resolves a COFF symbol table index to its name. Part of the
// "COFF view" contract in spec §6.
func (f *File) SymbolName(index uint32) (string, error) {
	if int(index) >= len(f.Symbols) {
		return "", errors.New("coff: symbol index out of range")
	}
	return f.Symbols[index].Name, nil
}

// RelocationSymbolName looks up the relocation anchored at byte offset
// within the section identified by sectionIndex (0-based) and resolves its
// target symbol's name — the "relocation resolver" of spec §6. Results are
// cached on first use per spec §5.
func (f *File) RelocationSymbolName(sectionIndex int, offset uint32) (string, error) {
	if f.relocIndex == nil {
		f.buildRelocIndex()
	}
	name, ok := f.relocIndex[relocKey{sectionIndex, offset}]
	if !ok {
		return "", errors.New("coff: unresolved relocation")
	}
	return name, nil
}

func (f *File) buildRelocIndex() {
	idx := make(map[relocKey]string)
	detail := make(map[relocKey]uint32)
	for si, sec := range f.Sections {
		for _, r := range sec.Relocations {
			key := relocKey{si, r.VirtualAddress}
			detail[key] = r.SymbolTableIndex
			name, err := f.SymbolName(r.SymbolTableIndex)
			if err != nil {
				continue
			}
			idx[key] = name
		}
	}
	f.relocIndex = idx
	f.relocDetail = detail
}

// RelocationDetail returns the raw symbol table index behind the
// relocation anchored at (sectionIndex, offset), for the --expand-relocs
// CLI surface.
func (f *File) RelocationDetail(sectionIndex int, offset uint32) (uint32, bool) {
	if f.relocIndex == nil {
		f.buildRelocIndex()
	}
	idx, ok := f.relocDetail[relocKey{sectionIndex, offset}]
	return idx, ok
}

// ReadUint32 reads a little-endian uint32 at offset.
func (f *File) ReadUint32(offset uint32) (uint32, error) {
	if uint64(offset)+4 > uint64(len(f.data)) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint32(f.data[offset:]), nil
}

// ReadBytesAt returns a copy of size bytes starting at offset.
func (f *File) ReadBytesAt(offset, size uint32) ([]byte, error) {
	if uint64(offset)+uint64(size) > uint64(len(f.data)) {
		return nil, ErrOutsideBoundary
	}
	out := make([]byte, size)
	copy(out, f.data[offset:offset+size])
	return out, nil
}

func (f *File) structUnpack(iface interface{}, offset, size uint32) error {
	if uint64(offset)+uint64(size) > uint64(len(f.data)) {
		return ErrOutsideBoundary
	}
	r := bytes.NewReader(f.data[offset : offset+size])
	return binary.Read(r, binary.LittleEndian, iface)
}
