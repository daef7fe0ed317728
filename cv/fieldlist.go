// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// FieldMember is one decoded field-list sub-record (§4.6), normalized to a
// single struct regardless of kind — a tagged variant in the sense of §9
// ("model SymRecord, type records, and field-list sub-records as tagged
// variants"), not a class hierarchy.
type FieldMember struct {
	Kind LeafType

	Attrs     MemberAttributes
	TypeIndex uint32
	TypeIndex2 uint32 // vbptr for VBClass/IVBClass
	Name      string
	Offset    Numeric // field_offset / base offset / vbptr_offset
	Offset2   Numeric // vbtable_index for VBClass/IVBClass
	Value     Numeric // enumerator value
	VFTable   uint32
	HasVFTable bool
	MethodCount uint16
	MethodList  uint32

	// Unknown marks an unrecognized sub-record (Kind holds its raw kind); the
	// field list parse halts immediately after recording it (§4.6).
	Unknown bool
}

// FieldList decodes the unframed body of an LF_FIELDLIST record (§4.6):
// repeated sub-records, each starting with an unlength-prefixed u16 kind,
// consuming exactly the bytes its kind defines, then skipping a trailing
// 0xF0-series alignment pad if present. An unrecognized kind halts the
// field-list parse only — never the whole stream — recording one
// UnknownMember entry.
func FieldList(body *Cursor) ([]FieldMember, error) {
	var members []FieldMember

	for body.Len() > 0 {
		kindRaw, err := body.U16()
		if err != nil {
			return members, nil // ran out mid-pad; tolerate per §4.6
		}
		kind := LeafType(kindRaw)

		m, err := decodeFieldMember(kind, body)
		if err != nil {
			members = append(members, FieldMember{Kind: kind, Unknown: true})
			return members, nil
		}
		members = append(members, m)

		if err := body.SkipFieldListPad(); err != nil {
			return members, nil
		}
	}
	return members, nil
}

func decodeFieldMember(kind LeafType, c *Cursor) (FieldMember, error) {
	switch kind {
	case LfNestType:
		if _, err := c.U16(); err != nil { // pad0
			return FieldMember{}, err
		}
		ti, err := c.U32()
		if err != nil {
			return FieldMember{}, err
		}
		name, err := c.CString()
		if err != nil {
			return FieldMember{}, err
		}
		return FieldMember{Kind: kind, TypeIndex: ti, Name: string(name)}, nil

	case LfOneMethod:
		attrsRaw, err := c.U16()
		if err != nil {
			return FieldMember{}, err
		}
		attrs := MemberAttributes(attrsRaw)
		ti, err := c.U32()
		if err != nil {
			return FieldMember{}, err
		}
		m := FieldMember{Kind: kind, Attrs: attrs, TypeIndex: ti}
		if attrs.IsIntroducedVirtual() {
			vf, err := c.U32()
			if err != nil {
				return FieldMember{}, err
			}
			m.VFTable = vf
			m.HasVFTable = true
		}
		name, err := c.CString()
		if err != nil {
			return FieldMember{}, err
		}
		m.Name = string(name)
		return m, nil

	case LfMethod:
		count, err := c.U16()
		if err != nil {
			return FieldMember{}, err
		}
		list, err := c.U32()
		if err != nil {
			return FieldMember{}, err
		}
		name, err := c.CString()
		if err != nil {
			return FieldMember{}, err
		}
		return FieldMember{Kind: kind, MethodCount: count, MethodList: list, Name: string(name)}, nil

	case LfMember:
		attrsRaw, err := c.U16()
		if err != nil {
			return FieldMember{}, err
		}
		ti, err := c.U32()
		if err != nil {
			return FieldMember{}, err
		}
		offset, err := ReadNumeric(c)
		if err != nil {
			return FieldMember{}, err
		}
		name, err := c.CString()
		if err != nil {
			return FieldMember{}, err
		}
		return FieldMember{Kind: kind, Attrs: MemberAttributes(attrsRaw), TypeIndex: ti, Offset: offset, Name: string(name)}, nil

	case LfSTMember:
		attrsRaw, err := c.U16()
		if err != nil {
			return FieldMember{}, err
		}
		ti, err := c.U32()
		if err != nil {
			return FieldMember{}, err
		}
		name, err := c.CString()
		if err != nil {
			return FieldMember{}, err
		}
		return FieldMember{Kind: kind, Attrs: MemberAttributes(attrsRaw), TypeIndex: ti, Name: string(name)}, nil

	case LfVFuncTab:
		if _, err := c.U16(); err != nil { // pad0
			return FieldMember{}, err
		}
		ti, err := c.U32()
		if err != nil {
			return FieldMember{}, err
		}
		return FieldMember{Kind: kind, TypeIndex: ti}, nil

	case LfEnumerate:
		attrsRaw, err := c.U16()
		if err != nil {
			return FieldMember{}, err
		}
		value, err := ReadNumeric(c)
		if err != nil {
			return FieldMember{}, err
		}
		name, err := c.CString()
		if err != nil {
			return FieldMember{}, err
		}
		return FieldMember{Kind: kind, Attrs: MemberAttributes(attrsRaw), Value: value, Name: string(name)}, nil

	case LfBClass, LfBInterface:
		attrsRaw, err := c.U16()
		if err != nil {
			return FieldMember{}, err
		}
		ti, err := c.U32()
		if err != nil {
			return FieldMember{}, err
		}
		offset, err := ReadNumeric(c)
		if err != nil {
			return FieldMember{}, err
		}
		return FieldMember{Kind: kind, Attrs: MemberAttributes(attrsRaw), TypeIndex: ti, Offset: offset}, nil

	case LfVBClass, LfIVBClass:
		attrsRaw, err := c.U16()
		if err != nil {
			return FieldMember{}, err
		}
		base, err := c.U32()
		if err != nil {
			return FieldMember{}, err
		}
		vbptr, err := c.U32()
		if err != nil {
			return FieldMember{}, err
		}
		vbptrOffset, err := ReadNumeric(c)
		if err != nil {
			return FieldMember{}, err
		}
		vbtableIndex, err := ReadNumeric(c)
		if err != nil {
			return FieldMember{}, err
		}
		return FieldMember{
			Kind: kind, Attrs: MemberAttributes(attrsRaw),
			TypeIndex: base, TypeIndex2: vbptr,
			Offset: vbptrOffset, Offset2: vbtableIndex,
		}, nil

	default:
		return FieldMember{}, ErrMalformedRecord
	}
}
