// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

import "fmt"

func (p *Parser) typeIndexPrinter() *TypeIndexPrinter { return &TypeIndexPrinter{UDT: p.UDT} }

// emitTI writes a type-index field as rendered by TypeIndexPrinter (§4.9):
// a builtin index as its builtin name, any other index as its raw hex
// plus, when resolvable, its recorded UDT name.
func (p *Parser) emitTI(sink Sink, name string, ti uint32) {
	sink.String(name, p.typeIndexPrinter().Render(ti))
}

// emitNumeric writes a decoded LF_NUMERIC leaf.
func emitNumeric(sink Sink, name string, n Numeric) {
	sink.UNum(name, n.Value)
}

// emitTypeRecord writes one decoded .debug$T record (§4.5) into sink.
func (p *Parser) emitTypeRecord(sink Sink, r TypeRecord) {
	sink.OpenDict(r.Kind.String())
	defer sink.Close()

	sink.Hex("TypeIndex", uint64(r.Index))

	switch r.Kind {
	case LfStringID, LfFuncID, LfMFuncID:
		sink.String("Name", r.Name)

	case LfClass, LfStructure, LfInterface, LfUnion:
		sink.UNum("MemberCount", uint64(r.MemberCount))
		sink.FlagsByName("Properties", uint64(r.Properties), aggregatePropertyNames)
		p.emitTI(sink, "FieldList", r.FieldList)
		p.emitTI(sink, "DerivedFrom", r.DerivedFrom)
		p.emitTI(sink, "VShape", r.VShape)
		emitNumeric(sink, "SizeOf", r.SizeOf)
		sink.String("Name", r.Name)
		if r.Properties.HasUniqueName() {
			sink.String("UniqueName", r.UniqueName)
		}

	case LfEnum:
		sink.UNum("MemberCount", uint64(r.MemberCount))
		sink.FlagsByName("Properties", uint64(r.Properties), aggregatePropertyNames)
		p.emitTI(sink, "UnderlyingType", r.UnderlyingType)
		p.emitTI(sink, "FieldList", r.FieldList)
		sink.String("Name", r.Name)

	case LfPointer:
		p.emitTI(sink, "Pointee", r.Pointee)
		sink.EnumByName("PtrKind", uint64(r.PointerAttrs.Kind()), pointerKindNames)
		sink.EnumByName("PtrMode", uint64(r.PointerAttrs.Mode()), pointerModeNamesU64)
		sink.UNum("isPointerToMember", boolToUint(r.PointerAttrs.IsPointerToMember()))
		if r.PointerAttrs.IsPointerToMember() {
			p.emitTI(sink, "ClassType", r.MemberClass)
			sink.EnumByName("Representation", uint64(r.MemberRepr), pointerToMemberReprNames)
		}

	case LfModifier:
		p.emitTI(sink, "ModifiedType", r.ModifiedType)
		sink.FlagsByName("Flags", uint64(r.ModFlags), modifierFlagNames)

	case LfVTShape:
		sink.UNum("EntryCount", uint64(r.EntryCount))

	case LfUDTSrcLine:
		p.emitTI(sink, "UDT", r.UDT)
		sink.Hex("SourceFileStringID", uint64(r.SourceFileStrID))
		sink.UNum("Line", uint64(r.Line))

	case LfProcedure:
		p.emitTI(sink, "ReturnType", r.ReturnType)
		sink.UNum("CallingConv", uint64(r.CallingConv))
		sink.Hex("Options", uint64(r.FuncOptions))
		sink.UNum("NumParams", uint64(r.NumParams))
		p.emitTI(sink, "ArgList", r.ArgList)

	case LfArgList, LfSubstrList:
		sink.OpenList("Args")
		for _, a := range r.Args {
			p.emitTI(sink, "Arg", a)
		}
		sink.Close()

	case LfTypeServer2:
		sink.BinaryBlock("GUID", r.GUID[:])
		sink.UNum("Age", uint64(r.Age))
		sink.String("Name", r.Name)

	case LfArray:
		p.emitTI(sink, "ElementType", r.ElementType)
		p.emitTI(sink, "IndexType", r.IndexType)
		emitNumeric(sink, "SizeOf", r.SizeOf)
		sink.String("Name", r.Name)

	case LfBitfield:
		p.emitTI(sink, "Type", r.BitfieldType)
		sink.UNum("BitSize", uint64(r.BitSize))
		sink.UNum("BitOffset", uint64(r.BitOffset))

	case LfFieldList:
		sink.OpenList("Members")
		for _, m := range r.Members {
			p.emitFieldMember(sink, m)
		}
		sink.Close()

	default:
		sink.Hex("Kind", uint64(r.Kind))
		sink.UNum("Size", uint64(len(r.Raw)))
		sink.BinaryBlock("Raw", r.Raw)
	}
}

func (p *Parser) emitFieldMember(sink Sink, m FieldMember) {
	if m.Unknown {
		sink.OpenDict("UnknownMember")
		sink.Hex("Kind", uint64(m.Kind))
		sink.Close()
		return
	}

	sink.OpenDict(m.Kind.String())
	defer sink.Close()

	switch m.Kind {
	case LfNestType:
		p.emitTI(sink, "TypeIndex", m.TypeIndex)
		sink.String("Name", m.Name)

	case LfOneMethod:
		p.emitMemberAttrs(sink, m.Attrs)
		p.emitTI(sink, "TypeIndex", m.TypeIndex)
		if m.HasVFTable {
			sink.Hex("VFTableOffset", uint64(m.VFTable))
		}
		sink.String("Name", m.Name)

	case LfMethod:
		sink.UNum("Count", uint64(m.MethodCount))
		p.emitTI(sink, "MethodList", m.MethodList)
		sink.String("Name", m.Name)

	case LfMember:
		p.emitMemberAttrs(sink, m.Attrs)
		p.emitTI(sink, "TypeIndex", m.TypeIndex)
		emitNumeric(sink, "FieldOffset", m.Offset)
		sink.String("Name", m.Name)

	case LfSTMember:
		p.emitMemberAttrs(sink, m.Attrs)
		p.emitTI(sink, "TypeIndex", m.TypeIndex)
		sink.String("Name", m.Name)

	case LfVFuncTab:
		p.emitTI(sink, "TypeIndex", m.TypeIndex)

	case LfEnumerate:
		p.emitMemberAttrs(sink, m.Attrs)
		emitNumeric(sink, "Value", m.Value)
		sink.String("Name", m.Name)

	case LfBClass, LfBInterface:
		p.emitMemberAttrs(sink, m.Attrs)
		p.emitTI(sink, "BaseType", m.TypeIndex)
		emitNumeric(sink, "Offset", m.Offset)

	case LfVBClass, LfIVBClass:
		p.emitMemberAttrs(sink, m.Attrs)
		p.emitTI(sink, "BaseType", m.TypeIndex)
		p.emitTI(sink, "VBPtrType", m.TypeIndex2)
		emitNumeric(sink, "VBPtrOffset", m.Offset)
		emitNumeric(sink, "VBTableIndex", m.Offset2)
	}
}

func (p *Parser) emitMemberAttrs(sink Sink, a MemberAttributes) {
	sink.EnumByName("Access", uint64(a.Access()), accessNamesU64)
	sink.EnumByName("MethodProperty", uint64(a.MethodProperty()), methodPropertyNamesU64)
	sink.FlagsByName("Flags", uint64(a), a.FlagNames())
	sink.UNum("isVirtual", boolToUint(a.IsVirtual()))
	sink.UNum("isIntroducedVirtual", boolToUint(a.IsIntroducedVirtual()))
}

// emitRelocTriple prints the raw (section, offset, symbol index) triple
// behind a resolved linkage name when --expand-relocs is set (SPEC_FULL
// §4). A no-op unless the flag is on and a relocation actually covers
// offset.
func (p *Parser) emitRelocTriple(sink Sink, sectionID int, offset uint32) {
	if !p.opts.ExpandRelocs {
		return
	}
	symIndex, ok := p.view.RelocationDetail(sectionID, offset)
	if !ok {
		return
	}
	sink.Line(fmt.Sprintf("Relocation: section=%d offset=0x%x symbol=%d", sectionID, offset, symIndex))
}

// emitSymbolRecord writes one decoded .debug$S symbol record (§4.4).
func (p *Parser) emitSymbolRecord(sink Sink, r SymbolRecord, raw *Cursor, ctx decodeCtx) {
	if _, known := symTypeNames[r.Kind]; !known && !p.opts.Verbose {
		return
	}
	sink.OpenDict(r.Kind.String())
	defer sink.Close()
	if r.HasReloc {
		defer func() { p.emitRelocTriple(sink, ctx.sectionID, r.RelocOffset) }()
	}

	switch {
	case isProcStart(r.Kind):
		sink.Hex("Parent", uint64(r.Parent))
		sink.Hex("End", uint64(r.End))
		sink.Hex("Next", uint64(r.Next))
		sink.UNum("CodeSize", uint64(r.CodeSize))
		sink.Hex("DbgStart", uint64(r.DbgStart))
		sink.Hex("DbgEnd", uint64(r.DbgEnd))
		p.emitTI(sink, "TypeIndex", r.TypeIndex)
		sink.Hex("CodeOffset", uint64(r.CodeOffset))
		sink.UNum("Segment", uint64(r.Segment))
		sink.FlagsByName("Flags", uint64(r.ProcFlags), procFlagNames)
		sink.String("Name", r.Name)
		sink.String("LinkageName", r.LinkageName)

	case r.Kind == SProcIDEnd:
		// empty body

	case r.Kind == SObjName:
		sink.Hex("Signature", uint64(r.Signature))
		sink.String("Name", r.Name)

	case r.Kind == SCompile3:
		sink.EnumByName("SourceLanguage", uint64(r.SourceLanguage), sourceLanguageNames)
		sink.Hex("Flags", uint64(r.CompileFlags))
		sink.String("Version", r.Version)

	case r.Kind == SFrameProc:
		sink.UNum("FrameSize", uint64(r.FrameSize))
		sink.FlagsByName("Flags", uint64(r.FrameFlags), frameProcFlagNames)

	case r.Kind == SUDT || r.Kind == SCobolUDT:
		p.emitTI(sink, "TypeIndex", r.TypeIndex)
		sink.String("Name", r.Name)

	case r.Kind == SBPRel32:
		sink.Hex("Offset", uint64(r.Offset))
		p.emitTI(sink, "TypeIndex", r.TypeIndex)
		sink.String("Name", r.Name)

	case r.Kind == SRegRel32:
		sink.Hex("Offset", uint64(r.Offset))
		p.emitTI(sink, "TypeIndex", r.TypeIndex)
		sink.UNum("Register", uint64(r.Register))
		sink.String("Name", r.Name)

	case r.Kind == SBuildInfo:
		sink.Hex("ID", uint64(r.ID))

	case r.Kind == SConstant:
		p.emitTI(sink, "TypeIndex", r.TypeIndex)
		emitNumeric(sink, "Value", r.Value)
		sink.String("Name", r.Name)

	case r.Kind == SLData32 || r.Kind == SGData32:
		p.emitTI(sink, "TypeIndex", r.TypeIndex)
		sink.Hex("Offset", uint64(r.Offset))
		sink.String("Name", r.Name)
		sink.String("LinkageName", r.LinkageName)

	default:
		sink.Hex("Kind", uint64(r.Kind))
		sink.UNum("Size", uint64(raw.Len()))
		sink.BinaryBlock("Raw", raw.Remaining())
	}
}

// emitLineTables writes one "FunctionLineTable" scope per function,
// preserving subsection-encounter order, per §4.7.
func (p *Parser) emitLineTables(sink Sink, ctx decodeCtx, order []string, tables map[string]FunctionLineTable) {
	for _, name := range order {
		lt := tables[name]
		sink.OpenDict("FunctionLineTable")
		sink.String("LinkageName", lt.LinkageName)
		p.emitRelocTriple(sink, ctx.sectionID, lt.RelocOffset)
		sink.Hex("Flags", uint64(lt.Flags))
		sink.UNum("CodeSize", uint64(lt.CodeSize))
		sink.OpenList("FilenameSegments")
		for _, seg := range lt.Segments {
			sink.OpenDict("FilenameSegment")
			sink.String("Filename", seg.Filename)
			sink.OpenList("Lines")
			for _, e := range seg.Entries {
				sink.Line(fmt.Sprintf("+0x%x -> %d", e.Offset, e.Line))
				if e.HasColumn {
					sink.UNum("ColStart", uint64(e.ColStart))
					sink.UNum("ColEnd", uint64(e.ColEnd))
				}
			}
			sink.Close() // Lines
			sink.Close() // FilenameSegment
		}
		sink.Close() // FilenameSegments
		sink.Close() // FunctionLineTable
	}
}

// emitFrameData writes one "FrameData" scope per function.
func (p *Parser) emitFrameData(sink Sink, ctx decodeCtx, order []string, frames map[string]FrameData) {
	for _, name := range order {
		fd := frames[name]
		sink.OpenDict("FrameData")
		sink.String("LinkageName", fd.LinkageName)
		p.emitRelocTriple(sink, ctx.sectionID, fd.RelocOffset)
		sink.Hex("RvaStart", uint64(fd.RvaStart))
		sink.UNum("CodeSize", uint64(fd.CodeSize))
		sink.UNum("LocalSize", uint64(fd.LocalSize))
		sink.UNum("ParamsSize", uint64(fd.ParamsSize))
		sink.UNum("MaxStack", uint64(fd.MaxStack))
		sink.Hex("FrameFunc", uint64(fd.FrameFunc))
		sink.UNum("PrologSize", uint64(fd.PrologSize))
		sink.UNum("SavedRegsSize", uint64(fd.SavedRegsSize))
		sink.FlagsByName("Flags", uint64(fd.Flags), frameDataFlagNames)
		sink.Close()
	}
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
