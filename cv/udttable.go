// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// UDTTable is the growable, append-only sequence of user-defined-type
// display names built while scanning .debug$T (§3 "User-defined-type name
// table"): slot i holds the name, possibly empty, for type index
// TypeIndexFirst+i. Forward references (§9) are resolved by index alone;
// the table is never reordered or linked.
type UDTTable struct {
	names []string
}

// NewUDTTable returns an empty table.
func NewUDTTable() *UDTTable { return &UDTTable{} }

// Append adds one slot, corresponding to the next sequential type record.
func (t *UDTTable) Append(name string) {
	t.names = append(t.names, name)
}

// Len is the number of type records scanned so far.
func (t *UDTTable) Len() int { return len(t.names) }

// Name resolves type index ti to its recorded display name. ok is false if
// ti is out of range; a present-but-empty name still reports ok=true so
// callers can distinguish "unknown index" from "named nothing".
func (t *UDTTable) Name(ti uint32) (string, bool) {
	if ti < TypeIndexFirst {
		return "", false
	}
	i := ti - TypeIndexFirst
	if int(i) >= len(t.names) {
		return "", false
	}
	return t.names[i], true
}
