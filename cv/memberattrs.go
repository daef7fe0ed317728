// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// MethodProperty is the 3-bit method-property field of MemberAttributes
// (§4.6).
type MethodProperty uint8

const (
	MethodVanilla MethodProperty = iota
	MethodVirtual
	MethodStatic
	MethodFriend
	MethodIntroVirt
	MethodPureVirt
	MethodPureIntro
)

var methodPropertyNames = map[MethodProperty]string{
	MethodVanilla:   "Vanilla",
	MethodVirtual:   "Virtual",
	MethodStatic:    "Static",
	MethodFriend:    "Friend",
	MethodIntroVirt: "IntroVirt",
	MethodPureVirt:  "PureVirt",
	MethodPureIntro: "PureIntro",
}

func (m MethodProperty) String() string {
	if n, ok := methodPropertyNames[m]; ok {
		return n
	}
	return "Unknown"
}

// Access is the 2-bit access field of MemberAttributes.
type Access uint8

const (
	AccessNone Access = iota
	AccessPrivate
	AccessProtected
	AccessPublic
)

var accessNames = map[Access]string{
	AccessNone:      "None",
	AccessPrivate:   "Private",
	AccessProtected: "Protected",
	AccessPublic:    "Public",
}

func (a Access) String() string {
	if n, ok := accessNames[a]; ok {
		return n
	}
	return "Unknown"
}

// MemberAttributes is the 16-bit CV_fldattr_t described in §4.6: access in
// bits[0:2], method-property in bits[2:5], then a handful of independent
// flag bits.
type MemberAttributes uint16

const (
	maPseudo            MemberAttributes = 1 << 5
	maNoInherit         MemberAttributes = 1 << 6
	maNoConstruct       MemberAttributes = 1 << 7
	maCompilerGenerated MemberAttributes = 1 << 8
	maSealed            MemberAttributes = 1 << 9
)

// Access returns the 2-bit access sub-field.
func (a MemberAttributes) Access() Access { return Access(a & 0x3) }

// MethodProperty returns the 3-bit method-property sub-field.
func (a MemberAttributes) MethodProperty() MethodProperty {
	return MethodProperty((a >> 2) & 0x7)
}

// IsVirtual reports the derived predicate from §4.6: method_property is one
// of Virtual, IntroVirt, PureVirt, PureIntro.
func (a MemberAttributes) IsVirtual() bool {
	switch a.MethodProperty() {
	case MethodVirtual, MethodIntroVirt, MethodPureVirt, MethodPureIntro:
		return true
	}
	return false
}

// IsIntroducedVirtual reports the derived predicate: method_property is
// IntroVirt or PureIntro.
func (a MemberAttributes) IsIntroducedVirtual() bool {
	switch a.MethodProperty() {
	case MethodIntroVirt, MethodPureIntro:
		return true
	}
	return false
}

// FlagNames renders the independent flag bits by name (Pseudo, NoInherit,
// NoConstruct, CompilerGenerated, Sealed), for use with Sink.FlagsByName.
func (a MemberAttributes) FlagNames() map[uint64]string {
	return map[uint64]string{
		uint64(maPseudo):            "Pseudo",
		uint64(maNoInherit):         "NoInherit",
		uint64(maNoConstruct):       "NoConstruct",
		uint64(maCompilerGenerated): "CompilerGenerated",
		uint64(maSealed):            "Sealed",
	}
}
