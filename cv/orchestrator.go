// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

import (
	"github.com/saferwall/cvdump/internal/log"
)

// Options configures a Parser, following the pe.Options idiom of the
// ambient stack: small tunable knobs plus a logger.
type Options struct {
	// MaxRecordBytes guards against a corrupt subsection length field
	// requesting an absurd allocation: a larger length ends the section
	// with an error; 0 means "use the default".
	MaxRecordBytes uint32

	// Verbose, when true, emits unrecognized symbol kinds as raw
	// {kind, size, bytes} dumps (§4.4) instead of silently skipping them.
	// Unrecognized type records are dumped raw whether or not it is set.
	Verbose bool

	// ExpandRelocs mirrors the --expand-relocs CLI flag (§6, SPEC_FULL
	// §4): when true every resolved linkage name additionally prints the
	// raw (section, offset, symbol index) relocation triple.
	ExpandRelocs bool

	Logger log.Logger
}

const defaultMaxRecordBytes = 64 * 1024 * 1024

// Parser is the orchestrator of §4.10: a two-pass state machine over a
// COFFView's sections, first building the UDT-name table from every
// .debug$T section, then emitting every .debug$S section against it.
type Parser struct {
	view COFFView
	opts Options
	log  *log.Helper

	UDT *UDTTable

	// HadError is set if any subsection or record failed; the CLI uses it
	// to choose exit code 1 (§6, §7 "process exit code reflects whether
	// any error occurred").
	HadError bool
}

// NewParser builds a Parser over view.
func NewParser(view COFFView, opts *Options) *Parser {
	p := &Parser{view: view, UDT: NewUDTTable()}
	if opts != nil {
		p.opts = *opts
	}
	if p.opts.MaxRecordBytes == 0 {
		p.opts.MaxRecordBytes = defaultMaxRecordBytes
	}
	logger := p.opts.Logger
	if logger == nil {
		logger = log.Discard
	}
	p.log = log.NewHelper(logger)
	return p
}

// Run drives both passes and writes the structured dump to sink (§4.10).
func (p *Parser) Run(sink Sink) error {
	for _, sv := range p.view.Sections() {
		if sv.Name == ".debug$T" {
			p.scanTypes(sv, sink)
		}
	}
	for _, sv := range p.view.Sections() {
		if sv.Name == ".debug$S" {
			p.scanSymbols(sv, sink)
		}
	}
	return nil
}

// scanTypes implements the *ScanningTypes* state (§4.10): builds the
// UDT-name table, one slot per record regardless of kind, padded with
// empty entries for records that name nothing. A framing error aborts the
// section, not the run; a record that fails to decode is reported, gets an
// empty slot, and the scan goes on with the next record.
func (p *Parser) scanTypes(sv SectionView, sink Sink) {
	c := NewCursor(sv.Data, 0)

	magic, err := c.U32()
	if err != nil || magic != DebugSectionMagic {
		p.logAndEmit(sink, KindInvalidMagic, sv.Name, 0, nil)
		return
	}
	sink.Hex("Magic", uint64(magic))

	sink.OpenList("TypeRecords")
	defer sink.Close()

	idx := TypeIndexFirst
	for c.Len() > 0 {
		rec, err := NextRecord(c)
		if err != nil {
			p.logAndEmit(sink, KindMalformedRecord, sv.Name, c.AbsPos(), err)
			return
		}
		if rec == nil {
			break
		}

		tr, err := DecodeType(idx, LeafType(rec.Kind), rec.Body)
		if err != nil {
			p.logAndEmit(sink, KindMalformedRecord, sv.Name, rec.Offset, err)
			p.UDT.Append("")
			idx++
			continue
		}

		p.UDT.Append(tr.displayName())
		p.emitTypeRecord(sink, tr)
		idx++
	}
}

// scanSymbols implements the *ScanningSymbols* state (§4.10): reads the
// magic, loops over subsections, and at end flushes line tables and
// frame-data, keyed by linkage name.
func (p *Parser) scanSymbols(sv SectionView, sink Sink) {
	sectionID := -1
	for _, s := range p.view.Sections() {
		if s.Name == sv.Name && s.ID == sv.ID {
			sectionID = s.ID
			break
		}
	}

	c := NewCursor(sv.Data, 0)
	magic, err := c.U32()
	if err != nil || magic != DebugSectionMagic {
		p.logAndEmit(sink, KindInvalidMagic, sv.Name, 0, nil)
		return
	}

	sink.OpenDict(sv.Name)
	defer sink.Close()

	var (
		strTab    *StringTable
		checksums *FileChecksumTable
		haveStrTab, haveChecksums bool
		inFunctionScope bool
		lineTables = map[string]FunctionLineTable{}
		lineOrder  []string
		frames     = map[string]FrameData{}
		frameOrder []string
	)

	ctx := decodeCtx{view: p.view, sectionID: sectionID}

	for c.Len() > 0 {
		if err := c.AlignTo4(); err != nil {
			break
		}
		if c.Len() < 8 {
			break
		}

		kindStart := c.AbsPos()
		kindRaw, err := c.U32()
		if err != nil {
			p.logAndEmit(sink, KindTruncated, sv.Name, kindStart, err)
			return
		}
		size, err := c.U32()
		if err != nil {
			p.logAndEmit(sink, KindTruncated, sv.Name, kindStart, err)
			return
		}
		if size > p.opts.MaxRecordBytes {
			p.logAndEmit(sink, KindMalformedRecord, sv.Name, kindStart, nil)
			return
		}

		kind := SubsectionKind(kindRaw)
		payload, err := c.Bytes(int(size))
		if err != nil {
			p.logAndEmit(sink, KindMalformedRecord, sv.Name, kindStart, err)
			return
		}

		if kind.Ignored() {
			continue
		}

		payloadCursor := NewCursor(payload, kindStart+8)

		switch kind &^ subsecIgnoreBit {
		case SubsecStringTable:
			if haveStrTab {
				p.logAndEmit(sink, KindDuplicateSubsection, sv.Name, kindStart, nil)
				continue
			}
			strTab = NewStringTable(payload)
			haveStrTab = true

		case SubsecFileChecksums:
			if haveChecksums {
				p.logAndEmit(sink, KindDuplicateSubsection, sv.Name, kindStart, nil)
				continue
			}
			ft, err := NewFileChecksumTable(payload)
			if err != nil {
				p.logAndEmit(sink, KindMalformedRecord, sv.Name, kindStart, err)
				continue
			}
			checksums = ft
			haveChecksums = true

		case SubsecSymbols:
			p.scanSymbolsSubsection(payloadCursor, ctx, sink, &inFunctionScope)

		case SubsecLines:
			lt, err := ParseLines(payloadCursor, ctx, checksums, strTab)
			if err != nil {
				p.logAndEmit(sink, KindMalformedRecord, sv.Name, kindStart, err)
				continue
			}
			if _, dup := lineTables[lt.LinkageName]; dup {
				p.logAndEmit(sink, KindDuplicateFunction, sv.Name, kindStart, nil)
				continue
			}
			lineTables[lt.LinkageName] = lt
			lineOrder = append(lineOrder, lt.LinkageName)

		case SubsecFrameData:
			fd, err := ParseFrameData(payloadCursor, ctx)
			if err != nil {
				p.logAndEmit(sink, KindMalformedRecord, sv.Name, kindStart, err)
				continue
			}
			if _, dup := frames[fd.LinkageName]; dup {
				p.logAndEmit(sink, KindDuplicateFunction, sv.Name, kindStart, nil)
				continue
			}
			frames[fd.LinkageName] = fd
			frameOrder = append(frameOrder, fd.LinkageName)

		default:
			p.log.Debugf("%s: skipping unhandled subsection kind %s", sv.Name, kind)
		}
	}

	p.emitLineTables(sink, ctx, lineOrder, lineTables)
	p.emitFrameData(sink, ctx, frameOrder, frames)
}

// scanSymbolsSubsection decodes one SUBSEC_SYMBOLS body record-by-record
// (§4.4), tracking the single-level in_function_scope state.
func (p *Parser) scanSymbolsSubsection(c *Cursor, ctx decodeCtx, sink Sink, inScope *bool) {
	sink.OpenList("Symbols")
	defer sink.Close()

	for c.Len() > 0 {
		rec, err := NextRecord(c)
		if err != nil {
			p.logAndEmit(sink, KindMalformedRecord, "Symbols", c.AbsPos(), err)
			return
		}
		if rec == nil {
			return
		}

		kind := SymType(rec.Kind)

		if isProcStart(kind) {
			if *inScope {
				p.logAndEmit(sink, KindInvariantViolation, "Symbols", rec.Offset, nil)
				continue
			}
			*inScope = true
		}
		if kind == SProcIDEnd {
			if !*inScope {
				p.logAndEmit(sink, KindInvariantViolation, "Symbols", rec.Offset, nil)
				continue
			}
			*inScope = false
		}

		sr, err := DecodeSymbol(kind, rec.Body, ctx)
		if err != nil {
			p.logAndEmit(sink, KindMalformedRecord, "Symbols", rec.Offset, err)
			continue
		}
		p.emitSymbolRecord(sink, sr, rec.Body, ctx)
	}
}

func (p *Parser) logAndEmit(sink Sink, kind Kind, section string, offset uint32, cause error) {
	p.HadError = true
	e := newErr(kind, section, offset, cause)
	p.log.Warnf("%v", e)
	sink.Error(kind.String(), e.Error())
}
