// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// Name tables consumed by Sink.EnumByName / Sink.FlagsByName when emitting
// the dump tree (§6, §4.4-§4.9).

var aggregatePropertyNames = map[uint64]string{
	uint64(PropForwardRef):    "ForwardReference",
	uint64(PropScoped):        "Scoped",
	uint64(PropHasUniqueName): "HasUniqueName",
	uint64(PropSealed):        "Sealed",
}

var pointerKindNames = map[uint64]string{
	uint64(PtrNear16):      "Near16",
	uint64(PtrFar16):       "Far16",
	uint64(PtrHuge16):      "Huge16",
	uint64(PtrBaseSeg):     "BaseSeg",
	uint64(PtrBaseVal):     "BaseVal",
	uint64(PtrBaseSegVal):  "BaseSegVal",
	uint64(PtrBaseAddr):    "BaseAddr",
	uint64(PtrBaseSegAddr): "BaseSegAddr",
	uint64(PtrBaseType):    "BaseType",
	uint64(PtrBaseSelf):    "BaseSelf",
	uint64(PtrNear32):      "Near32",
	uint64(PtrFar32):       "Far32",
	uint64(PtrNear64):      "Near64",
	uint64(PtrNear128):     "Near128",
}

var pointerModeNamesU64 = map[uint64]string{
	uint64(PtrModePointer):                 "Pointer",
	uint64(PtrModeLValueRef):               "LValueReference",
	uint64(PtrModePointerToDataMember):     "PointerToDataMember",
	uint64(PtrModePointerToMemberFunction): "PointerToMemberFunction",
	uint64(PtrModeRValueRef):               "RValueReference",
}

// PointerToMemberTail.Representation values (§8 scenario 6).
const (
	PmrUnknown              uint16 = 0
	PmrSingleInheritance    uint16 = 1
	PmrMultipleInheritance  uint16 = 2
	PmrVirtualInheritance   uint16 = 3
	PmrGeneralFunction      uint16 = 4
)

var pointerToMemberReprNames = map[uint64]string{
	uint64(PmrUnknown):             "Unknown",
	uint64(PmrSingleInheritance):   "SingleInheritance",
	uint64(PmrMultipleInheritance): "MultipleInheritance",
	uint64(PmrVirtualInheritance):  "VirtualInheritance",
	uint64(PmrGeneralFunction):     "GeneralFunction",
}

var modifierFlagNames = map[uint64]string{
	0x01: "Const",
	0x02: "Volatile",
	0x04: "Unaligned",
}

var procFlagNames = map[uint64]string{
	0x01: "HasFP",
	0x02: "HasIRET",
	0x04: "HasFRET",
	0x08: "IsNoReturn",
	0x10: "IsUnreachable",
	0x20: "HasCustomCallingConv",
	0x40: "IsNoInline",
	0x80: "HasOptimizedDebugInfo",
}

var frameProcFlagNames = map[uint64]string{
	0x1:  "HasAlloca",
	0x2:  "HasSetJmp",
	0x4:  "HasLongJmp",
	0x8:  "HasInlineAssembly",
	0x10: "HasExceptionHandling",
	0x20: "MarkedInline",
	0x40: "HasStructuredExceptionHandling",
	0x80: "Naked",
}

var frameDataFlagNames = map[uint64]string{
	0x1: "HasSEH",
	0x2: "HasEH",
	0x4: "IsFunctionStart",
}

var sourceLanguageNames = map[uint64]string{
	0x00: "C",
	0x01: "Cpp",
	0x02: "Fortran",
	0x03: "Masm",
	0x04: "Pascal",
	0x05: "Basic",
	0x06: "Cobol",
	0x07: "Link",
	0x08: "Cvtres",
	0x09: "Cvtpgd",
	0x0A: "CSharp",
	0x0B: "VB",
	0x0C: "ILAsm",
	0x0D: "Java",
	0x0E: "JScript",
	0x0F: "MSIL",
	0x10: "HLSL",
}

var accessNamesU64 = map[uint64]string{
	uint64(AccessNone):      "None",
	uint64(AccessPrivate):   "Private",
	uint64(AccessProtected): "Protected",
	uint64(AccessPublic):    "Public",
}

var methodPropertyNamesU64 = map[uint64]string{
	uint64(MethodVanilla):   "Vanilla",
	uint64(MethodVirtual):   "Virtual",
	uint64(MethodStatic):    "Static",
	uint64(MethodFriend):    "Friend",
	uint64(MethodIntroVirt): "IntroVirt",
	uint64(MethodPureVirt):  "PureVirt",
	uint64(MethodPureIntro): "PureIntro",
}
