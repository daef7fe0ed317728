// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// AggregateProperties is the CV_prop_t bitset carried by LF_CLASS and
// friends (§4.5). Only the bits this reader acts on are named.
type AggregateProperties uint16

const (
	PropForwardRef  AggregateProperties = 1 << 7
	PropScoped      AggregateProperties = 1 << 8
	PropHasUniqueName AggregateProperties = 1 << 9
	PropSealed      AggregateProperties = 1 << 10
)

// HasUniqueName reports whether a second, mangled "linkage" name follows
// the display name in an aggregate record (§4.5).
func (p AggregateProperties) HasUniqueName() bool { return p&PropHasUniqueName != 0 }

// IsForwardRef reports whether this record is an incomplete forward
// declaration (§9 "Cyclic type references").
func (p AggregateProperties) IsForwardRef() bool { return p&PropForwardRef != 0 }

// PointerKind is attrs bits[0:5] of LF_POINTER (§4.5).
type PointerKind uint8

const (
	PtrNear16 PointerKind = iota
	PtrFar16
	PtrHuge16
	PtrBaseSeg
	PtrBaseVal
	PtrBaseSegVal
	PtrBaseAddr
	PtrBaseSegAddr
	PtrBaseType
	PtrBaseSelf
	PtrNear32
	PtrFar32
	PtrNear64
	PtrNear128
)

// PointerMode is attrs bits[5:8] of LF_POINTER (§4.5): the "known source
// quirk" of §9. The correct extraction is (attrs >> 5) & 0x07; the buggy
// variant (attrs & 0x07) >> 5 always yields zero and is not used here.
type PointerMode uint8

const (
	PtrModePointer PointerMode = iota
	PtrModeLValueRef
	PtrModePointerToDataMember
	PtrModePointerToMemberFunction
	PtrModeRValueRef
)

var pointerModeNames = map[PointerMode]string{
	PtrModePointer:                 "Pointer",
	PtrModeLValueRef:               "LValueReference",
	PtrModePointerToDataMember:     "PointerToDataMember",
	PtrModePointerToMemberFunction: "PointerToMemberFunction",
	PtrModeRValueRef:               "RValueReference",
}

func (m PointerMode) String() string {
	if n, ok := pointerModeNames[m]; ok {
		return n
	}
	return "Unknown"
}

// PointerAttrs decodes the LF_POINTER attrs word (§4.5).
type PointerAttrs uint32

func (a PointerAttrs) Kind() PointerKind { return PointerKind(a & 0x1F) }
func (a PointerAttrs) Mode() PointerMode { return PointerMode((a >> 5) & 0x07) }
func (a PointerAttrs) IsFlat() bool      { return a&(1<<8) != 0 }
func (a PointerAttrs) IsVolatile() bool  { return a&(1<<9) != 0 }
func (a PointerAttrs) IsConst() bool     { return a&(1<<10) != 0 }
func (a PointerAttrs) IsUnaligned() bool { return a&(1<<11) != 0 }

// IsPointerToMember reports whether the tail carries a PointerToMemberTail
// (§4.5, used by scenario 6 of §8).
func (a PointerAttrs) IsPointerToMember() bool {
	switch a.Mode() {
	case PtrModePointerToDataMember, PtrModePointerToMemberFunction:
		return true
	}
	return false
}

// TypeRecord is a decoded .debug$T record, normalized to one struct (§9
// "tagged variants keyed by ... LeafType").
type TypeRecord struct {
	Index uint32
	Kind  LeafType

	// Strings/FuncIds
	Name string

	// Aggregates (Class/Structure/Interface/Union)
	MemberCount uint16
	Properties  AggregateProperties
	FieldList   uint32
	DerivedFrom uint32
	VShape      uint32
	SizeOf      Numeric
	UniqueName  string

	// Enum
	UnderlyingType uint32

	// Pointer
	Pointee      uint32
	PointerAttrs PointerAttrs
	MemberClass  uint32
	MemberRepr   uint16

	// Modifier
	ModifiedType uint32
	ModFlags     uint16

	// VTShape
	EntryCount uint16

	// UDT source-line
	UDT              uint32
	SourceFileStrID  uint32
	Line             uint32

	// Procedure
	ReturnType     uint32
	CallingConv    uint8
	FuncOptions    uint8
	NumParams      uint16
	ArgList        uint32

	// ArgList / SubstrList
	Args []uint32

	// TypeServer2
	GUID [16]byte
	Age  uint32

	// Array
	ElementType uint32
	IndexType   uint32

	// Bitfield
	BitfieldType   uint32
	BitSize        uint8
	BitOffset      uint8

	// FieldList
	Members []FieldMember

	// Unknown
	Raw []byte
}

// DecodeType decodes one type-stream record body (§4.5). idx is the type
// index this record will occupy (TypeIndexFirst + scan position).
func DecodeType(idx uint32, kind LeafType, body *Cursor) (TypeRecord, error) {
	r := TypeRecord{Index: idx, Kind: kind}

	switch kind {
	case LfStringID, LfFuncID, LfMFuncID:
		// These carry fixed header fields this reader doesn't surface
		// individually; only the trailing name is load-bearing for the
		// UDT table (§4.5).
		if kind == LfMFuncID {
			if err := body.Skip(8); err != nil { // parent scope + type
				return r, err
			}
		} else if kind == LfFuncID {
			if err := body.Skip(8); err != nil { // scope id + function type
				return r, err
			}
		} else {
			if err := body.Skip(4); err != nil { // substring id
				return r, err
			}
		}
		name, err := body.CString()
		if err != nil {
			return r, err
		}
		r.Name = string(name)
		return r, nil

	case LfClass, LfStructure, LfInterface, LfUnion:
		count, err := body.U16()
		if err != nil {
			return r, err
		}
		props, err := body.U16()
		if err != nil {
			return r, err
		}
		fieldList, err := body.U32()
		if err != nil {
			return r, err
		}
		derived, err := body.U32()
		if err != nil {
			return r, err
		}
		vshape, err := body.U32()
		if err != nil {
			return r, err
		}
		size, err := ReadNumeric(body)
		if err != nil {
			return r, err
		}
		name, err := body.CString()
		if err != nil {
			return r, err
		}

		r.MemberCount = count
		r.Properties = AggregateProperties(props)
		r.FieldList = fieldList
		r.DerivedFrom = derived
		r.VShape = vshape
		r.SizeOf = size
		r.Name = string(name)

		if r.Properties.HasUniqueName() {
			unique, err := body.CString()
			if err != nil {
				return r, newErr(KindInvariantViolation, "debug$T", body.AbsPos(), err)
			}
			r.UniqueName = string(unique)
		}
		return r, nil

	case LfEnum:
		count, err := body.U16()
		if err != nil {
			return r, err
		}
		props, err := body.U16()
		if err != nil {
			return r, err
		}
		underlying, err := body.U32()
		if err != nil {
			return r, err
		}
		fieldList, err := body.U32()
		if err != nil {
			return r, err
		}
		name, err := body.CString()
		if err != nil {
			return r, err
		}
		r.MemberCount = count
		r.Properties = AggregateProperties(props)
		r.UnderlyingType = underlying
		r.FieldList = fieldList
		r.Name = string(name)
		return r, nil

	case LfPointer:
		pointee, err := body.U32()
		if err != nil {
			return r, err
		}
		attrs, err := body.U32()
		if err != nil {
			return r, err
		}
		r.Pointee = pointee
		r.PointerAttrs = PointerAttrs(attrs)
		if r.PointerAttrs.IsPointerToMember() {
			class, err := body.U32()
			if err != nil {
				return r, err
			}
			repr, err := body.U16()
			if err != nil {
				return r, err
			}
			r.MemberClass = class
			r.MemberRepr = repr
		}
		return r, nil

	case LfModifier:
		mod, err := body.U32()
		if err != nil {
			return r, err
		}
		flags, err := body.U16()
		if err != nil {
			return r, err
		}
		r.ModifiedType = mod
		r.ModFlags = flags
		return r, nil

	case LfVTShape:
		count, err := body.U16()
		if err != nil {
			return r, err
		}
		r.EntryCount = count
		return r, nil

	case LfUDTSrcLine:
		udt, err := body.U32()
		if err != nil {
			return r, err
		}
		strID, err := body.U32()
		if err != nil {
			return r, err
		}
		line, err := body.U32()
		if err != nil {
			return r, err
		}
		r.UDT, r.SourceFileStrID, r.Line = udt, strID, line
		return r, nil

	case LfProcedure:
		ret, err := body.U32()
		if err != nil {
			return r, err
		}
		cc, err := body.U8()
		if err != nil {
			return r, err
		}
		opts, err := body.U8()
		if err != nil {
			return r, err
		}
		numParams, err := body.U16()
		if err != nil {
			return r, err
		}
		argList, err := body.U32()
		if err != nil {
			return r, err
		}
		r.ReturnType, r.CallingConv, r.FuncOptions, r.NumParams, r.ArgList = ret, cc, opts, numParams, argList
		return r, nil

	case LfArgList, LfSubstrList:
		n, err := body.U32()
		if err != nil {
			return r, err
		}
		args := make([]uint32, 0, n)
		for i := uint32(0); i < n; i++ {
			ti, err := body.U32()
			if err != nil {
				return r, err
			}
			args = append(args, ti)
		}
		r.Args = args
		return r, nil

	case LfTypeServer2:
		guid, err := body.Bytes(16)
		if err != nil {
			return r, err
		}
		age, err := body.U32()
		if err != nil {
			return r, err
		}
		name, err := body.CString()
		if err != nil {
			return r, err
		}
		copy(r.GUID[:], guid)
		r.Age = age
		r.Name = string(name)
		return r, nil

	case LfArray:
		elem, err := body.U32()
		if err != nil {
			return r, err
		}
		index, err := body.U32()
		if err != nil {
			return r, err
		}
		size, err := ReadNumeric(body)
		if err != nil {
			return r, err
		}
		name, err := body.CString()
		if err != nil {
			return r, err
		}
		r.ElementType, r.IndexType, r.SizeOf, r.Name = elem, index, size, string(name)
		return r, nil

	case LfBitfield:
		typ, err := body.U32()
		if err != nil {
			return r, err
		}
		size, err := body.U8()
		if err != nil {
			return r, err
		}
		off, err := body.U8()
		if err != nil {
			return r, err
		}
		r.BitfieldType, r.BitSize, r.BitOffset = typ, size, off
		return r, nil

	case LfFieldList:
		members, err := FieldList(body)
		if err != nil {
			return r, err
		}
		r.Members = members
		return r, nil

	default:
		r.Raw = append([]byte(nil), body.Remaining()...)
		return r, nil
	}
}

// displayName returns the name recorded for this record's UDT-table slot
// (§4.5): the decoded name for ID, class/struct/interface/union, enum and
// array records, empty for every other kind (Unknown, Pointer, Modifier,
// VTShape, ...), including LF_TYPESERVER2 although it carries a Name.
func (r TypeRecord) displayName() string {
	switch r.Kind {
	case LfStringID, LfFuncID, LfMFuncID, LfClass, LfStructure, LfInterface, LfUnion, LfEnum, LfArray:
		return r.Name
	default:
		return ""
	}
}
