// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cv

// Record is one length-prefixed record shared by the symbol and type
// streams (§3 "Record header", §4.3).
type Record struct {
	Kind uint16
	Body *Cursor

	// Offset is the absolute offset of this record's `len` field within
	// the enclosing section, used by decoders that must compute a
	// relocation site relative to the record (e.g. ProcStart).
	Offset uint32
}

// NextRecord frames one record off c (§4.3): peeks u16 len; if len < 2 or
// insufficient bytes remain, returns MalformedRecord. Otherwise splits
// len+2 bytes into a child cursor and advances c past the record. The
// child's first field is kind: u16; Body is positioned just after it.
func NextRecord(c *Cursor) (*Record, error) {
	if c.Len() < 2 {
		if c.Len() == 0 {
			return nil, nil // clean end of stream
		}
		return nil, ErrMalformedRecord
	}

	offset := c.AbsPos()
	save := c.pos
	length, err := c.U16()
	if err != nil {
		return nil, ErrMalformedRecord
	}
	if length < 2 {
		c.pos = save
		return nil, ErrMalformedRecord
	}

	c.pos = save
	child, err := c.Split(int(length) + 2)
	if err != nil {
		return nil, ErrMalformedRecord
	}

	// child currently holds [len:2][kind:2][payload...]; skip the len field
	// the caller already accounted for.
	if _, err := child.U16(); err != nil {
		return nil, ErrMalformedRecord
	}
	kind, err := child.U16()
	if err != nil {
		return nil, ErrMalformedRecord
	}

	return &Record{Kind: kind, Body: child, Offset: offset}, nil
}
