// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// FrameData is the fixed struct carried by a SUBSEC_FRAMEDATA entry (§4.8).
// Field names follow the CodeView FrameData record.
type FrameData struct {
	LinkageName string
	RelocOffset uint32

	RvaStart    uint32
	CodeSize    uint32
	LocalSize   uint32
	ParamsSize  uint32
	MaxStack    uint32
	FrameFunc   uint32
	PrologSize  uint16
	SavedRegsSize uint16
	Flags       uint32
}

// frameDataSize is sizeof(FrameData) excluding LinkageName and RelocOffset, matching
// §4.8's "sizeof(FrameData) + 4" invariant (the +4 is the leading
// relocation placeholder).
const frameDataSize = 4*7 + 2*2

// ParseFrameData decodes one SUBSEC_FRAMEDATA body (§4.8). body's Cursor
// base must be the subsection payload's absolute offset within the
// enclosing .debug$S section.
func ParseFrameData(body *Cursor, ctx decodeCtx) (FrameData, error) {
	var fd FrameData

	if body.Len() != frameDataSize+4 {
		return fd, newErr(KindInvariantViolation, "FrameData", body.AbsPos(), nil)
	}

	relocOffset := body.AbsPos()
	if err := body.Skip(4); err != nil {
		return fd, newErr(KindTruncated, "FrameData", body.AbsPos(), err)
	}

	var err error
	fd.RvaStart, err = body.U32()
	if err != nil {
		return fd, err
	}
	fd.CodeSize, err = body.U32()
	if err != nil {
		return fd, err
	}
	fd.LocalSize, err = body.U32()
	if err != nil {
		return fd, err
	}
	fd.ParamsSize, err = body.U32()
	if err != nil {
		return fd, err
	}
	fd.MaxStack, err = body.U32()
	if err != nil {
		return fd, err
	}
	fd.FrameFunc, err = body.U32()
	if err != nil {
		return fd, err
	}
	fd.PrologSize, err = body.U16()
	if err != nil {
		return fd, err
	}
	fd.SavedRegsSize, err = body.U16()
	if err != nil {
		return fd, err
	}
	fd.Flags, err = body.U32()
	if err != nil {
		return fd, err
	}

	fd.RelocOffset = relocOffset
	if ctx.view != nil {
		name, err := ctx.view.RelocationSymbol(ctx.sectionID, relocOffset)
		if err != nil {
			return fd, newErr(KindUnresolvedRelocation, "FrameData", relocOffset, err)
		}
		fd.LinkageName = name
	}

	return fd, nil
}
