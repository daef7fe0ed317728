// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

import "testing"

func TestBuiltinTypeNamePlain(t *testing.T) {
	tests := []struct {
		ti   uint32
		want string
	}{
		{0x03, "void"},
		{0x74, "int32"},
		{0x75, "uint32"},
		{0x10, "char"},
	}
	for _, tt := range tests {
		if got := BuiltinTypeName(tt.ti); got != tt.want {
			t.Errorf("BuiltinTypeName(0x%x) = %q; want %q", tt.ti, got, tt.want)
		}
	}
}

func TestBuiltinTypeNamePointerForms(t *testing.T) {
	tests := []struct {
		ti   uint32
		want string
	}{
		{0x0474, "int32*"},     // near32 pointer to T_INT4
		{0x0674, "int32*"},     // near64 pointer to T_INT4
		{0x0103, "void near*"}, // near16 pointer to T_VOID
	}
	for _, tt := range tests {
		if got := BuiltinTypeName(tt.ti); got != tt.want {
			t.Errorf("BuiltinTypeName(0x%x) = %q; want %q", tt.ti, got, tt.want)
		}
	}
}

func TestBuiltinTypeNameUnknownKind(t *testing.T) {
	got := BuiltinTypeName(0xFE)
	want := "T_UNKNOWN(0xfe)"
	if got != want {
		t.Errorf("BuiltinTypeName(0xfe) = %q; want %q", got, want)
	}
}

func TestTypeIndexPrinterRendersBuiltin(t *testing.T) {
	p := &TypeIndexPrinter{UDT: NewUDTTable()}
	if got := p.Render(0x74); got != "int32" {
		t.Errorf("Render(0x74) = %q; want \"int32\"", got)
	}
}

func TestTypeIndexPrinterRendersNamedUDT(t *testing.T) {
	tbl := NewUDTTable()
	tbl.Append("MyStruct")
	p := &TypeIndexPrinter{UDT: tbl}

	got := p.Render(TypeIndexFirst)
	want := "0x1000 (MyStruct)"
	if got != want {
		t.Errorf("Render(TypeIndexFirst) = %q; want %q", got, want)
	}
}

func TestTypeIndexPrinterRendersUnresolvedUDT(t *testing.T) {
	tbl := NewUDTTable()
	p := &TypeIndexPrinter{UDT: tbl}

	got := p.Render(TypeIndexFirst + 9)
	want := "0x1009"
	if got != want {
		t.Errorf("Render(unresolved) = %q; want %q", got, want)
	}
}

func TestTypeIndexPrinterNilUDT(t *testing.T) {
	p := &TypeIndexPrinter{}
	if got := p.Render(TypeIndexFirst); got != "0x1000" {
		t.Errorf("Render() with nil UDT = %q; want \"0x1000\"", got)
	}
}
