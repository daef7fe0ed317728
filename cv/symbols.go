// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// SymbolRecord is a decoded .debug$S symbol record, normalized to one
// struct across kinds (§9).
type SymbolRecord struct {
	Kind SymType

	// ProcStart
	Parent      uint32
	End         uint32
	Next        uint32
	CodeSize    uint32
	DbgStart    uint32
	DbgEnd      uint32
	TypeIndex   uint32
	CodeOffset  uint32
	Segment     uint16
	ProcFlags   uint8
	LinkageName string
	Name        string
	RelocOffset uint32
	HasReloc    bool

	// ObjName
	Signature uint32

	// Compile3
	SourceLanguage uint8
	CompileFlags   uint32
	Version        string

	// FrameProc
	FrameSize       uint32
	FrameFlags      uint32

	// Udt / BpRel / RegRel / Constant / LData32 / GData32
	Offset   uint32
	Register uint16
	Value    Numeric

	// BuildInfo
	ID uint32
}

// decodeCtx carries the collaborators a symbol decode needs beyond the
// record bytes: the relocation resolver and which section it's reading
// from (§4.4 "asks the relocation resolver for the symbol whose
// relocation targets that offset").
type decodeCtx struct {
	view      COFFView
	sectionID int
}

// DecodeSymbol decodes one symbol-stream record body (§4.4).
func DecodeSymbol(kind SymType, body *Cursor, ctx decodeCtx) (SymbolRecord, error) {
	r := SymbolRecord{Kind: kind}

	switch {
	case isProcStart(kind):
		var err error
		r.Parent, err = body.U32()
		if err != nil {
			return r, err
		}
		r.End, err = body.U32()
		if err != nil {
			return r, err
		}
		r.Next, err = body.U32()
		if err != nil {
			return r, err
		}
		r.CodeSize, err = body.U32()
		if err != nil {
			return r, err
		}
		r.DbgStart, err = body.U32()
		if err != nil {
			return r, err
		}
		r.DbgEnd, err = body.U32()
		if err != nil {
			return r, err
		}
		r.TypeIndex, err = body.U32()
		if err != nil {
			return r, err
		}

		relocOffset := body.AbsPos()
		r.CodeOffset, err = body.U32()
		if err != nil {
			return r, err
		}
		r.Segment, err = body.U16()
		if err != nil {
			return r, err
		}
		r.ProcFlags, err = body.U8()
		if err != nil {
			return r, err
		}
		name, err := body.CString()
		if err != nil {
			return r, err
		}
		r.Name = string(name)

		r.RelocOffset, r.HasReloc = relocOffset, true
		if ctx.view != nil {
			linkage, err := ctx.view.RelocationSymbol(ctx.sectionID, relocOffset)
			if err != nil {
				return r, newErr(KindUnresolvedRelocation, "Symbols", relocOffset, err)
			}
			r.LinkageName = linkage
		}
		return r, nil

	case kind == SProcIDEnd:
		if body.Len() != 0 {
			return r, newErr(KindInvariantViolation, "Symbols", body.AbsPos(), nil)
		}
		return r, nil

	case kind == SObjName:
		sig, err := body.U32()
		if err != nil {
			return r, err
		}
		name, err := body.CString()
		if err != nil {
			return r, err
		}
		r.Signature, r.Name = sig, string(name)
		return r, nil

	case kind == SCompile3:
		// Fixed header: language(u8)+pad(3 bytes of flags), machine(u16),
		// front-end ver(3xu16), back-end ver(3xu16), followed by version
		// string. The low 8 bits of the leading u32 are SourceLanguage;
		// the rest are flag bits (§4.4).
		flagsWord, err := body.U32()
		if err != nil {
			return r, err
		}
		r.SourceLanguage = uint8(flagsWord & 0xFF)
		r.CompileFlags = flagsWord >> 8
		if err := body.Skip(2); err != nil { // machine
			return r, err
		}
		if err := body.Skip(12); err != nil { // 3x (front+back end ver triples)
			return r, err
		}
		ver, err := body.CString()
		if err != nil {
			return r, err
		}
		r.Version = string(ver)
		return r, nil

	case kind == SFrameProc:
		size, err := body.U32()
		if err != nil {
			return r, err
		}
		if err := body.Skip(12); err != nil { // pad, locals, padding fields
			return r, err
		}
		flags, err := body.U32()
		if err != nil {
			return r, err
		}
		r.FrameSize, r.FrameFlags = size, flags
		return r, nil

	case kind == SUDT || kind == SCobolUDT:
		ti, err := body.U32()
		if err != nil {
			return r, err
		}
		name, err := body.CString()
		if err != nil {
			return r, err
		}
		r.TypeIndex, r.Name = ti, string(name)
		return r, nil

	case kind == SBPRel32:
		off, err := body.I32()
		if err != nil {
			return r, err
		}
		ti, err := body.U32()
		if err != nil {
			return r, err
		}
		name, err := body.CString()
		if err != nil {
			return r, err
		}
		r.Offset, r.TypeIndex, r.Name = uint32(off), ti, string(name)
		return r, nil

	case kind == SRegRel32:
		off, err := body.U32()
		if err != nil {
			return r, err
		}
		ti, err := body.U32()
		if err != nil {
			return r, err
		}
		reg, err := body.U16()
		if err != nil {
			return r, err
		}
		name, err := body.CString()
		if err != nil {
			return r, err
		}
		r.Offset, r.TypeIndex, r.Register, r.Name = off, ti, reg, string(name)
		return r, nil

	case kind == SBuildInfo:
		id, err := body.U32()
		if err != nil {
			return r, err
		}
		r.ID = id
		return r, nil

	case kind == SConstant:
		// Supplemented (SPEC_FULL §4): type index + numeric leaf value +
		// trailing name, the same shape as Udt/BpRel.
		ti, err := body.U32()
		if err != nil {
			return r, err
		}
		val, err := ReadNumeric(body)
		if err != nil {
			return r, err
		}
		name, err := body.CString()
		if err != nil {
			return r, err
		}
		r.TypeIndex, r.Value, r.Name = ti, val, string(name)
		return r, nil

	case kind == SLData32 || kind == SGData32:
		// Supplemented: type index, then a relocatable (offset, segment)
		// pair resolved the same way ProcStart resolves its linkage name,
		// then the trailing name.
		ti, err := body.U32()
		if err != nil {
			return r, err
		}
		relocOffset := body.AbsPos()
		off, err := body.U32()
		if err != nil {
			return r, err
		}
		if err := body.Skip(2); err != nil { // segment
			return r, err
		}
		name, err := body.CString()
		if err != nil {
			return r, err
		}
		r.TypeIndex, r.Offset, r.Name = ti, off, string(name)
		r.RelocOffset, r.HasReloc = relocOffset, true

		if ctx.view != nil {
			if linkage, err := ctx.view.RelocationSymbol(ctx.sectionID, relocOffset); err == nil {
				r.LinkageName = linkage
			}
		}
		return r, nil

	default:
		r.Offset = 0
		return r, nil // unrecognized kind: in verbose mode the caller emits {type,size,raw} itself
	}
}
