// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// DebugSectionMagic is the four-byte magic leading both .debug$S and
// .debug$T section bodies (§6 "Wire-format constants").
const DebugSectionMagic uint32 = 0x00000004

// SymType tags a symbol-stream record kind (§4.4).
type SymType uint16

const (
	SLProc32      SymType = 0x110F
	SGProc32      SymType = 0x1110
	SLProc32ID    SymType = 0x1146
	SGProc32ID    SymType = 0x1147
	SLProc32DPC   SymType = 0x1154
	SLProc32DPCID SymType = 0x1155
	SProcIDEnd    SymType = 0x114F
	SObjName      SymType = 0x1101
	SCompile3     SymType = 0x113C
	SFrameProc    SymType = 0x1012
	SUDT          SymType = 0x1108
	SCobolUDT     SymType = 0x1109
	SBPRel32      SymType = 0x110B
	SRegRel32     SymType = 0x1111
	SBuildInfo    SymType = 0x114C
	SConstant     SymType = 0x1107
	SLData32      SymType = 0x110C
	SGData32      SymType = 0x110D
)

func (s SymType) String() string {
	if n, ok := symTypeNames[s]; ok {
		return n
	}
	return "UnknownSym"
}

var symTypeNames = map[SymType]string{
	SLProc32:      "S_LPROC32",
	SGProc32:      "S_GPROC32",
	SLProc32ID:    "S_LPROC32_ID",
	SGProc32ID:    "S_GPROC32_ID",
	SLProc32DPC:   "S_LPROC32_DPC",
	SLProc32DPCID: "S_LPROC32_DPC_ID",
	SProcIDEnd:    "S_PROC_ID_END",
	SObjName:      "S_OBJNAME",
	SCompile3:     "S_COMPILE3",
	SFrameProc:    "S_FRAMEPROC",
	SUDT:          "S_UDT",
	SCobolUDT:     "S_COBOLUDT",
	SBPRel32:      "S_BPREL32",
	SRegRel32:     "S_REGREL32",
	SBuildInfo:    "S_BUILDINFO",
	SConstant:     "S_CONSTANT",
	SLData32:      "S_LDATA32",
	SGData32:      "S_GDATA32",
}

// isProcStart reports whether sym is one of the ProcStart kinds (§4.4).
func isProcStart(sym SymType) bool {
	switch sym {
	case SLProc32, SGProc32, SLProc32ID, SGProc32ID, SLProc32DPC, SLProc32DPCID:
		return true
	}
	return false
}

// LeafType tags a type-stream or field-list record kind (§4.5, §4.6).
type LeafType uint16

const (
	LfStringID   LeafType = 0x1605
	LfFuncID     LeafType = 0x1601
	LfMFuncID    LeafType = 0x1602
	LfClass      LeafType = 0x1504
	LfStructure  LeafType = 0x1505
	LfInterface  LeafType = 0x1519
	LfUnion      LeafType = 0x1506
	LfEnum       LeafType = 0x1507
	LfPointer    LeafType = 0x1002
	LfModifier   LeafType = 0x1001
	LfVTShape    LeafType = 0x000A
	LfUDTSrcLine LeafType = 0x1606
	LfProcedure  LeafType = 0x1008
	LfArgList    LeafType = 0x1201
	LfSubstrList LeafType = 0x1604
	LfTypeServer2 LeafType = 0x1515
	LfFieldList  LeafType = 0x1203
	LfArray      LeafType = 0x1503
	LfBitfield   LeafType = 0x1205

	// Field-list sub-record kinds (§4.6); these share the LeafType space.
	LfNestType    LeafType = 0x1510
	LfOneMethod   LeafType = 0x1511
	LfMethod      LeafType = 0x150F
	LfMember      LeafType = 0x150D
	LfSTMember    LeafType = 0x150E
	LfVFuncTab    LeafType = 0x1409
	LfEnumerate   LeafType = 0x1502
	LfBClass      LeafType = 0x1400
	LfBInterface  LeafType = 0x151A
	LfVBClass     LeafType = 0x1401
	LfIVBClass    LeafType = 0x1402
)

func (l LeafType) String() string {
	if n, ok := leafTypeNames[l]; ok {
		return n
	}
	return "UnknownLeaf"
}

var leafTypeNames = map[LeafType]string{
	LfStringID:    "LF_STRING_ID",
	LfFuncID:      "LF_FUNC_ID",
	LfMFuncID:     "LF_MFUNC_ID",
	LfClass:       "LF_CLASS",
	LfStructure:   "LF_STRUCTURE",
	LfInterface:   "LF_INTERFACE",
	LfUnion:       "LF_UNION",
	LfEnum:        "LF_ENUM",
	LfPointer:     "LF_POINTER",
	LfModifier:    "LF_MODIFIER",
	LfVTShape:     "LF_VTSHAPE",
	LfUDTSrcLine:  "LF_UDT_SRC_LINE",
	LfProcedure:   "LF_PROCEDURE",
	LfArgList:     "LF_ARGLIST",
	LfSubstrList:  "LF_SUBSTR_LIST",
	LfTypeServer2: "LF_TYPESERVER2",
	LfFieldList:   "LF_FIELDLIST",
	LfArray:       "LF_ARRAY",
	LfBitfield:    "LF_BITFIELD",
	LfNestType:    "LF_NESTTYPE",
	LfOneMethod:   "LF_ONEMETHOD",
	LfMethod:      "LF_METHOD",
	LfMember:      "LF_MEMBER",
	LfSTMember:    "LF_STMEMBER",
	LfVFuncTab:    "LF_VFUNCTAB",
	LfEnumerate:   "LF_ENUMERATE",
	LfBClass:      "LF_BCLASS",
	LfBInterface:  "LF_BINTERFACE",
	LfVBClass:     "LF_VBCLASS",
	LfIVBClass:    "LF_IVBCLASS",
}

// isAggregate reports whether l is one of LF_CLASS/STRUCTURE/INTERFACE/UNION.
func isAggregate(l LeafType) bool {
	switch l {
	case LfClass, LfStructure, LfInterface, LfUnion:
		return true
	}
	return false
}

// SubsectionKind tags a .debug$S subsection (§3).
type SubsectionKind uint32

const (
	SubsecSymbols            SubsectionKind = 0xF1
	SubsecLines              SubsectionKind = 0xF2
	SubsecStringTable        SubsectionKind = 0xF3
	SubsecFileChecksums      SubsectionKind = 0xF4
	SubsecFrameData          SubsectionKind = 0xF5
	SubsecInlineeLines       SubsectionKind = 0xF6
	SubsecCrossScopeImports  SubsectionKind = 0xF7
	SubsecCrossScopeExports  SubsectionKind = 0xF8
	SubsecIlLines            SubsectionKind = 0xF9
	SubsecFuncMdTokenMap     SubsectionKind = 0xFA
	SubsecTypeMdTokenMap     SubsectionKind = 0xFB
	SubsecMergedAssemblyInput SubsectionKind = 0xFC
	SubsecCoffSymbolRva      SubsectionKind = 0xFD

	// subsecIgnoreBit marks a subsection whose contents should be skipped.
	subsecIgnoreBit SubsectionKind = 0x80000000
)

func (k SubsectionKind) String() string {
	masked := k &^ subsecIgnoreBit
	names := map[SubsectionKind]string{
		SubsecSymbols:             "Symbols",
		SubsecLines:               "Lines",
		SubsecStringTable:         "StringTable",
		SubsecFileChecksums:       "FileChecksums",
		SubsecFrameData:           "FrameData",
		SubsecInlineeLines:        "InlineeLines",
		SubsecCrossScopeImports:   "CrossScopeImports",
		SubsecCrossScopeExports:   "CrossScopeExports",
		SubsecIlLines:             "IlLines",
		SubsecFuncMdTokenMap:      "FuncMdTokenMap",
		SubsecTypeMdTokenMap:      "TypeMdTokenMap",
		SubsecMergedAssemblyInput: "MergedAssemblyInput",
		SubsecCoffSymbolRva:       "CoffSymbolRva",
	}
	if n, ok := names[masked]; ok {
		return n
	}
	return "Unknown"
}

// Ignored reports whether the high bit requesting "ignore contents" is set.
func (k SubsectionKind) Ignored() bool { return k&subsecIgnoreBit != 0 }

// Line-table wire constants (§6).
const (
	CVLIsStatement        uint32 = 0x80000000
	CVLLineMask           uint32 = 0x7FFFFFFF
	LineTableHaveColumns  uint16 = 0x0001 // DEBUG_LINE_TABLES_HAVE_COLUMN_RECORDS
)

// TypeIndexFirst is the first non-builtin type index, assigned to the
// zeroth record of .debug$T (§3).
const TypeIndexFirst uint32 = 0x1000
