// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// SectionView describes one COFF section as the core sees it: a name, its
// raw bytes, and an opaque id the core passes back to query relocations.
type SectionView struct {
	Name string
	Data []byte
	ID   int
}

// COFFView is the external collaborator the core consumes instead of
// understanding the COFF container itself (§1 "Deliberately out of
// scope", §6 "COFF view"). *coff.File implements it.
type COFFView interface {
	// Sections enumerates every section of the object file.
	Sections() []SectionView

	// RelocationSymbol resolves the symbol targeted by the relocation
	// anchored at offset bytes into the section identified by sectionID.
	// Returns UnresolvedRelocation-flavored error if none exists.
	RelocationSymbol(sectionID int, offset uint32) (string, error)

	// RelocationDetail returns the raw (symbol table index) behind the
	// relocation at (sectionID, offset), for the --expand-relocs surface
	// of §6/SPEC_FULL §4. ok is false if no relocation covers that site.
	RelocationDetail(sectionID int, offset uint32) (symbolIndex uint32, ok bool)

	// LittleEndian reports the object's byte order. Used only by unrelated
	// stack-map consumers outside the core (§6); the core itself always
	// reads little-endian per §3.
	LittleEndian() bool
}

// Sink is the dump sink contract of §6: a stable, ordered, scoped
// key/value writer. cv/dump implements it over text/tabwriter.
type Sink interface {
	OpenDict(name string)
	OpenList(name string)
	Close()

	UNum(name string, value uint64)
	Hex(name string, value uint64)
	HexWithLabel(name string, label string, value uint64)
	EnumByName(name string, value uint64, table map[uint64]string)
	FlagsByName(name string, value uint64, table map[uint64]string)
	BinaryBlock(name string, data []byte)
	String(name string, value string)
	Line(text string)

	// Error emits the "error node" §7 requires in place of a failed
	// element. It closes no scopes; callers close the scopes they opened
	// themselves.
	Error(kind, message string)
}
