// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// fakeCOFFView is a minimal COFFView stand-in for unit tests that need a
// relocation resolver but not a real COFF container.
type fakeCOFFView struct {
	relocs map[int]map[uint32]string
}

func newFakeCOFFView() *fakeCOFFView {
	return &fakeCOFFView{relocs: make(map[int]map[uint32]string)}
}

func (f *fakeCOFFView) addReloc(sectionID int, offset uint32, name string) {
	m, ok := f.relocs[sectionID]
	if !ok {
		m = make(map[uint32]string)
		f.relocs[sectionID] = m
	}
	m[offset] = name
}

func (f *fakeCOFFView) Sections() []SectionView { return nil }

func (f *fakeCOFFView) RelocationSymbol(sectionID int, offset uint32) (string, error) {
	if m, ok := f.relocs[sectionID]; ok {
		if name, ok := m[offset]; ok {
			return name, nil
		}
	}
	return "", ErrUnresolvedRelocation
}

func (f *fakeCOFFView) RelocationDetail(sectionID int, offset uint32) (uint32, bool) {
	return 0, false
}

func (f *fakeCOFFView) LittleEndian() bool { return true }

// le16/le32 build little-endian byte slices inline in test fixtures.
func le16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }
func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func cstr(s string) []byte { return append([]byte(s), 0) }

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
