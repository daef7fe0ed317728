// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

import "fmt"

// builtinKind is the low byte of a builtin type index: the base type.
type builtinKind uint8

const (
	btNone   builtinKind = 0x00
	btVoid   builtinKind = 0x03
	btChar   builtinKind = 0x10
	btWChar  builtinKind = 0x71
	btInt8   builtinKind = 0x68
	btUInt8  builtinKind = 0x69
	btInt16  builtinKind = 0x72
	btUInt16 builtinKind = 0x73
	btInt32  builtinKind = 0x74
	btUInt32 builtinKind = 0x75
	btInt64  builtinKind = 0x76
	btUInt64 builtinKind = 0x77
	btShort  builtinKind = 0x11
	btUShort builtinKind = 0x21
	btLong   builtinKind = 0x12
	btULong  builtinKind = 0x22
	btReal32 builtinKind = 0x40
	btReal64 builtinKind = 0x41
	btReal80 builtinKind = 0x42
	btReal128 builtinKind = 0x43
	btBool8  builtinKind = 0x30
	btBool16 builtinKind = 0x31
	btBool32 builtinKind = 0x32
)

var builtinKindNames = map[builtinKind]string{
	btNone:    "none",
	btVoid:    "void",
	btChar:    "char",
	btWChar:   "wchar",
	btInt8:    "int8",
	btUInt8:   "uint8",
	btInt16:   "int16",
	btUInt16:  "uint16",
	btInt32:   "int32",
	btUInt32:  "uint32",
	btInt64:   "int64",
	btUInt64:  "uint64",
	btShort:   "short",
	btUShort:  "ushort",
	btLong:    "long",
	btULong:   "ulong",
	btReal32:  "real32",
	btReal64:  "real64",
	btReal80:  "real80",
	btReal128: "real128",
	btBool8:   "bool8",
	btBool16:  "bool16",
	btBool32:  "bool32",
}

// builtinPtrMode is the top byte of a builtin type index encoding a
// pointer-to-base-type kind (§4.9 "plus their pointer forms with the top
// byte encoding pointer kind").
type builtinPtrMode uint8

const (
	ptrModeNone  builtinPtrMode = 0x00
	ptrModeNear  builtinPtrMode = 0x01
	ptrModeFar   builtinPtrMode = 0x02
	ptrModeHuge  builtinPtrMode = 0x03
	ptrMode32    builtinPtrMode = 0x04
	ptrMode64    builtinPtrMode = 0x06
)

var builtinPtrModeSuffix = map[builtinPtrMode]string{
	ptrModeNear: " near*",
	ptrModeFar:  " far*",
	ptrModeHuge: " huge*",
	ptrMode32:   "*",
	ptrMode64:   "*",
}

// BuiltinTypeName renders a type index < TypeIndexFirst using the
// CVBuiltinTypes.def-style table described in §4.9.
func BuiltinTypeName(ti uint32) string {
	kind := builtinKind(ti & 0xFF)
	mode := builtinPtrMode((ti >> 8) & 0xFF)

	name, ok := builtinKindNames[kind]
	if !ok {
		return fmt.Sprintf("T_UNKNOWN(0x%x)", ti)
	}
	if suffix, ok := builtinPtrModeSuffix[mode]; ok {
		return name + suffix
	}
	return name
}

// TypeIndexPrinter resolves display text for a type index against the
// UDT-name table, per §4.9: builtins render from the fixed table; indices
// >= TypeIndexFirst look up UDTTable slot (ti - TypeIndexFirst) and print
// both the hex index and the name when present, else the hex index alone.
type TypeIndexPrinter struct {
	UDT *UDTTable
}

// Render returns the display string for a field whose value is a type
// index, per §4.4 "For every type_index field...".
func (p *TypeIndexPrinter) Render(ti uint32) string {
	if ti < TypeIndexFirst {
		return BuiltinTypeName(ti)
	}
	if p.UDT != nil {
		if name, ok := p.UDT.Name(ti); ok && name != "" {
			return fmt.Sprintf("0x%04X (%s)", ti, name)
		}
	}
	return fmt.Sprintf("0x%04X", ti)
}
