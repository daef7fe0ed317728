// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

import "testing"

func TestFieldListDataMember(t *testing.T) {
	body := concat(
		le16(uint16(LfMember)),
		le16(uint16(AccessPublic)), // MemberAttributes: access=Public
		le32(0x0074),               // TypeIndex (T_INT4)
		le16(8),                    // field_offset, inline numeric leaf
		cstr("x"),
	)
	c := NewCursor(body, 0)

	members, err := FieldList(c)
	if err != nil {
		t.Fatalf("FieldList() failed: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("len(members) = %d; want 1", len(members))
	}
	m := members[0]
	if m.Kind != LfMember {
		t.Errorf("Kind = %v; want LF_MEMBER", m.Kind)
	}
	if m.Attrs.Access() != AccessPublic {
		t.Errorf("Access() = %v; want Public", m.Attrs.Access())
	}
	if m.TypeIndex != 0x0074 {
		t.Errorf("TypeIndex = 0x%x; want 0x74", m.TypeIndex)
	}
	if m.Offset.Value != 8 {
		t.Errorf("Offset.Value = %d; want 8", m.Offset.Value)
	}
	if m.Name != "x" {
		t.Errorf("Name = %q; want \"x\"", m.Name)
	}
}

func TestFieldListTwoMembersWithPad(t *testing.T) {
	member1 := concat(le16(uint16(LfMember)), le16(0), le32(0x0074), le16(0), cstr("a"))
	// pad byte 0xF1: skip 1 byte total (just the pad byte itself).
	pad := []byte{0xF1}
	member2 := concat(le16(uint16(LfMember)), le16(0), le32(0x0074), le16(4), cstr("b"))
	body := concat(member1, pad, member2)

	c := NewCursor(body, 0)
	members, err := FieldList(c)
	if err != nil {
		t.Fatalf("FieldList() failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("len(members) = %d; want 2", len(members))
	}
	if members[0].Name != "a" || members[1].Name != "b" {
		t.Errorf("names = %q, %q; want a, b", members[0].Name, members[1].Name)
	}
	if members[1].Offset.Value != 4 {
		t.Errorf("second member Offset.Value = %d; want 4", members[1].Offset.Value)
	}
}

func TestFieldListOneMethodIntroducedVirtualHasVFTableOffset(t *testing.T) {
	attrs := MemberAttributes(uint16(MethodIntroVirt) << 2)
	body := concat(
		le16(uint16(LfOneMethod)),
		le16(uint16(attrs)),
		le32(0x1010),
		le32(0x10), // vftable offset
		cstr("Foo"),
	)
	c := NewCursor(body, 0)
	members, err := FieldList(c)
	if err != nil {
		t.Fatalf("FieldList() failed: %v", err)
	}
	m := members[0]
	if !m.HasVFTable || m.VFTable != 0x10 {
		t.Errorf("VFTable = %d, HasVFTable = %v; want 0x10, true", m.VFTable, m.HasVFTable)
	}
	if !m.Attrs.IsIntroducedVirtual() {
		t.Errorf("IsIntroducedVirtual() = false; want true")
	}
}

func TestFieldListOneMethodVanillaNoVFTableOffset(t *testing.T) {
	body := concat(
		le16(uint16(LfOneMethod)),
		le16(0), // Vanilla
		le32(0x1010),
		cstr("Bar"),
	)
	c := NewCursor(body, 0)
	members, err := FieldList(c)
	if err != nil {
		t.Fatalf("FieldList() failed: %v", err)
	}
	if members[0].HasVFTable {
		t.Errorf("HasVFTable = true for a vanilla method; want false")
	}
	if members[0].Name != "Bar" {
		t.Errorf("Name = %q; want \"Bar\"", members[0].Name)
	}
}

func TestFieldListUnknownKindHaltsButRecordsEntry(t *testing.T) {
	known := concat(le16(uint16(LfMember)), le16(0), le32(0x0074), le16(0), cstr("a"))
	unknown := le16(0x9999)
	body := concat(known, unknown, []byte{0xDE, 0xAD})

	c := NewCursor(body, 0)
	members, err := FieldList(c)
	if err != nil {
		t.Fatalf("FieldList() returned an error; want nil (halt, not propagate): %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("len(members) = %d; want 2 (one known + one UnknownMember)", len(members))
	}
	if !members[1].Unknown {
		t.Errorf("second entry Unknown = false; want true")
	}
}

func TestFieldListBaseClass(t *testing.T) {
	body := concat(
		le16(uint16(LfBClass)),
		le16(uint16(AccessPublic)),
		le32(0x1020),
		le16(0), // offset inline numeric
	)
	c := NewCursor(body, 0)
	members, err := FieldList(c)
	if err != nil {
		t.Fatalf("FieldList() failed: %v", err)
	}
	if members[0].TypeIndex != 0x1020 {
		t.Errorf("TypeIndex = 0x%x; want 0x1020", members[0].TypeIndex)
	}
}

func TestFieldListVirtualBaseClass(t *testing.T) {
	body := concat(
		le16(uint16(LfVBClass)),
		le16(0),
		le32(0x1030), // base
		le32(0x1031), // vbptr
		le16(4),      // vbptr_offset
		le16(1),      // vbtable_index
	)
	c := NewCursor(body, 0)
	members, err := FieldList(c)
	if err != nil {
		t.Fatalf("FieldList() failed: %v", err)
	}
	m := members[0]
	if m.TypeIndex != 0x1030 || m.TypeIndex2 != 0x1031 {
		t.Errorf("TypeIndex/TypeIndex2 = 0x%x/0x%x; want 0x1030/0x1031", m.TypeIndex, m.TypeIndex2)
	}
	if m.Offset.Value != 4 || m.Offset2.Value != 1 {
		t.Errorf("Offset/Offset2 = %d/%d; want 4/1", m.Offset.Value, m.Offset2.Value)
	}
}

func TestFieldListMethodOverloadSet(t *testing.T) {
	body := concat(
		le16(uint16(LfMethod)),
		le16(3),      // method count
		le32(0x1050), // MethodList type index
		cstr("Overloaded"),
	)
	c := NewCursor(body, 0)
	members, err := FieldList(c)
	if err != nil {
		t.Fatalf("FieldList() failed: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("len(members) = %d; want 1", len(members))
	}
	m := members[0]
	if m.Kind != LfMethod {
		t.Errorf("Kind = %v; want LF_METHOD", m.Kind)
	}
	if m.MethodCount != 3 {
		t.Errorf("MethodCount = %d; want 3", m.MethodCount)
	}
	if m.MethodList != 0x1050 {
		t.Errorf("MethodList = 0x%x; want 0x1050", m.MethodList)
	}
	if m.Name != "Overloaded" {
		t.Errorf("Name = %q; want \"Overloaded\"", m.Name)
	}
}

func TestFieldListVirtualFunctionTablePointer(t *testing.T) {
	body := concat(
		le16(uint16(LfVFuncTab)),
		le16(0), // pad0
		le32(0x1060),
	)
	c := NewCursor(body, 0)
	members, err := FieldList(c)
	if err != nil {
		t.Fatalf("FieldList() failed: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("len(members) = %d; want 1", len(members))
	}
	if members[0].Kind != LfVFuncTab {
		t.Errorf("Kind = %v; want LF_VFUNCTAB", members[0].Kind)
	}
	if members[0].TypeIndex != 0x1060 {
		t.Errorf("TypeIndex = 0x%x; want 0x1060", members[0].TypeIndex)
	}
}

func TestFieldListEnumerate(t *testing.T) {
	body := concat(le16(uint16(LfEnumerate)), le16(0), le16(7), cstr("Seven"))
	c := NewCursor(body, 0)
	members, err := FieldList(c)
	if err != nil {
		t.Fatalf("FieldList() failed: %v", err)
	}
	if members[0].Value.Value != 7 || members[0].Name != "Seven" {
		t.Errorf("got {%d %q}; want {7 Seven}", members[0].Value.Value, members[0].Name)
	}
}
