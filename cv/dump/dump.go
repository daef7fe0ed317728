// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package dump implements the cv.Sink contract (§6) as a stable, ordered,
// indented tree writer over text/tabwriter — the same writer the teacher's
// cmd/dump.go repeatedly reaches for (`tabwriter.NewWriter(w, 1, 1, 3, ' ',
// tabwriter.AlignRight)`), generalized here into a scope stack instead of
// one-off field printouts.
package dump

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Writer is a scoped tree writer satisfying cv.Sink without importing the
// cv package (callers assign it to a cv.Sink variable), keeping this
// package free of a dependency on the parser it serves.
type Writer struct {
	tw     *tabwriter.Writer
	depth  int
	closer func() error
}

// New wraps w, following the teacher's (minwidth=1, tabwidth=1, padding=3,
// ' ', tabwriter.AlignRight) configuration.
func New(w io.Writer) *Writer {
	return &Writer{tw: tabwriter.NewWriter(w, 1, 1, 3, ' ', tabwriter.AlignRight)}
}

// Flush must be called once the dump is complete; tabwriter buffers until
// then.
func (d *Writer) Flush() error { return d.tw.Flush() }

func (d *Writer) indent() string { return strings.Repeat("  ", d.depth) }

func (d *Writer) OpenDict(name string) {
	fmt.Fprintf(d.tw, "%s%s:\t{\n", d.indent(), name)
	d.depth++
}

func (d *Writer) OpenList(name string) {
	fmt.Fprintf(d.tw, "%s%s:\t[\n", d.indent(), name)
	d.depth++
}

func (d *Writer) Close() {
	if d.depth > 0 {
		d.depth--
	}
	fmt.Fprintf(d.tw, "%s}\n", d.indent())
}

func (d *Writer) UNum(name string, value uint64) {
	fmt.Fprintf(d.tw, "%s%s:\t%d\n", d.indent(), name, value)
}

func (d *Writer) Hex(name string, value uint64) {
	fmt.Fprintf(d.tw, "%s%s:\t0x%X\n", d.indent(), name, value)
}

func (d *Writer) HexWithLabel(name string, label string, value uint64) {
	fmt.Fprintf(d.tw, "%s%s:\t0x%X (%s)\n", d.indent(), name, value, label)
}

func (d *Writer) EnumByName(name string, value uint64, table map[uint64]string) {
	if label, ok := table[value]; ok {
		d.HexWithLabel(name, label, value)
		return
	}
	d.Hex(name, value)
}

func (d *Writer) FlagsByName(name string, value uint64, table map[uint64]string) {
	var set []string
	for bit, label := range table {
		if value&bit != 0 {
			set = append(set, label)
		}
	}
	if len(set) == 0 {
		d.Hex(name, value)
		return
	}
	fmt.Fprintf(d.tw, "%s%s:\t0x%X (%s)\n", d.indent(), name, value, strings.Join(sortedFlags(set), "|"))
}

func (d *Writer) BinaryBlock(name string, data []byte) {
	fmt.Fprintf(d.tw, "%s%s:\t% X\n", d.indent(), name, data)
}

func (d *Writer) String(name string, value string) {
	fmt.Fprintf(d.tw, "%s%s:\t%q\n", d.indent(), name, value)
}

func (d *Writer) Line(text string) {
	fmt.Fprintf(d.tw, "%s%s\n", d.indent(), text)
}

func (d *Writer) Error(kind, message string) {
	fmt.Fprintf(d.tw, "%serror:\t{%s: %s}\n", d.indent(), kind, message)
}

// sortedFlags keeps flag-name output deterministic even though map
// iteration order is not.
func sortedFlags(names []string) []string {
	out := append([]string(nil), names...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
