// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

import "testing"

func TestUDTTableAppendAndResolve(t *testing.T) {
	tbl := NewUDTTable()
	tbl.Append("Foo")
	tbl.Append("")
	tbl.Append("Bar")

	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d; want 3", tbl.Len())
	}

	name, ok := tbl.Name(TypeIndexFirst)
	if !ok || name != "Foo" {
		t.Errorf("Name(TypeIndexFirst) = %q, %v; want \"Foo\", true", name, ok)
	}

	// A present-but-empty slot still reports ok=true (§9 forward references).
	name, ok = tbl.Name(TypeIndexFirst + 1)
	if !ok || name != "" {
		t.Errorf("Name(first+1) = %q, %v; want \"\", true", name, ok)
	}

	name, ok = tbl.Name(TypeIndexFirst + 2)
	if !ok || name != "Bar" {
		t.Errorf("Name(first+2) = %q, %v; want \"Bar\", true", name, ok)
	}
}

func TestUDTTableBelowFirstIndexIsUnresolved(t *testing.T) {
	tbl := NewUDTTable()
	tbl.Append("Foo")
	if _, ok := tbl.Name(TypeIndexFirst - 1); ok {
		t.Errorf("Name(first-1) ok = true; want false (builtin index range)")
	}
}

func TestUDTTableOutOfRangeIsUnresolved(t *testing.T) {
	tbl := NewUDTTable()
	tbl.Append("Foo")
	if _, ok := tbl.Name(TypeIndexFirst + 5); ok {
		t.Errorf("Name(first+5) ok = true; want false (not yet scanned)")
	}
}

func TestUDTTableEmptyHasNoSlots(t *testing.T) {
	tbl := NewUDTTable()
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d; want 0", tbl.Len())
	}
	if _, ok := tbl.Name(TypeIndexFirst); ok {
		t.Errorf("Name(first) ok = true on empty table; want false")
	}
}
