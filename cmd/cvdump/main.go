// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command cvdump reads one or more COFF object files and prints a
// structured dump of the CodeView debug information in their `.debug$S`
// and `.debug$T` sections.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saferwall/cvdump/coff"
	"github.com/saferwall/cvdump/cv"
	"github.com/saferwall/cvdump/cv/dump"
	"github.com/saferwall/cvdump/internal/log"
)

var (
	subsectionBytes  bool
	sectionRelocs    bool
	sectionSymbols   bool
	sectionData      bool
	expandRelocs     bool
	verbose          bool
)

// coffViewAdapter adapts a *coff.File to cv.COFFView (§6), the only seam
// between the COFF container and the CodeView core.
type coffViewAdapter struct {
	file *coff.File
}

func (a *coffViewAdapter) Sections() []cv.SectionView {
	out := make([]cv.SectionView, 0, len(a.file.Sections))
	for i, s := range a.file.Sections {
		out = append(out, cv.SectionView{Name: s.Name, Data: s.Data, ID: i})
	}
	return out
}

func (a *coffViewAdapter) RelocationSymbol(sectionID int, offset uint32) (string, error) {
	return a.file.RelocationSymbolName(sectionID, offset)
}

func (a *coffViewAdapter) RelocationDetail(sectionID int, offset uint32) (uint32, bool) {
	return a.file.RelocationDetail(sectionID, offset)
}

func (a *coffViewAdapter) LittleEndian() bool { return true }

func dumpFile(path string) int {
	logger := log.NewFilter(log.NewStdLogger(os.Stderr), log.FilterLevel(log.LevelWarn))

	file, err := coff.Open(path, &coff.Options{Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return 2
	}
	defer file.Close()

	if sectionSymbols || sectionData || sectionRelocs || subsectionBytes {
		dumpCOFFSurface(path, file)
	}

	view := &coffViewAdapter{file: file}
	parser := cv.NewParser(view, &cv.Options{
		Verbose:      verbose,
		ExpandRelocs: expandRelocs,
		Logger:       logger,
	})

	w := dump.New(os.Stdout)
	w.OpenDict(path)
	if err := parser.Run(w); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		w.Close()
		w.Flush()
		return 1
	}
	w.Close()
	w.Flush()

	if parser.HadError {
		return 1
	}
	return 0
}

// dumpCOFFSurface reproduces the "unrelated COFF dumping" CLI surface of
// §1/§6: generic section listing, symbols, and relocations. It is not
// part of the core and is kept intentionally small.
func dumpCOFFSurface(path string, file *coff.File) {
	fmt.Printf("%s: %d sections, %d symbols\n", path, len(file.Sections), len(file.Symbols))
	for i, s := range file.Sections {
		if sectionData {
			fmt.Printf("  [%d] %s size=0x%x\n", i, s.Name, len(s.Data))
			fmt.Printf("    data: % X\n", s.Data)
		}
		if sectionRelocs {
			for _, r := range s.Relocations {
				fmt.Printf("    reloc @0x%x -> symbol #%d type=0x%x\n", r.VirtualAddress, r.SymbolTableIndex, r.Type)
			}
		}
	}
	if sectionSymbols {
		for i, s := range file.Symbols {
			fmt.Printf("  sym[%d] %s section=%d\n", i, s.Name, s.SectionNumber)
		}
	}
}

func main() {
	root := &cobra.Command{
		Use:   "cvdump [object files...]",
		Short: "Dump CodeView debug information embedded in COFF object files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode := 0
			for _, path := range args {
				if code := dumpFile(path); code > exitCode {
					exitCode = code
				}
			}
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	root.Flags().BoolVar(&subsectionBytes, "codeview-subsection-bytes", false, "print the COFF section/symbol count summary line; subsection bytes are not printed")
	root.Flags().BoolVar(&sectionRelocs, "section-relocations", false, "dump COFF section relocations")
	root.Flags().BoolVar(&sectionSymbols, "section-symbols", false, "dump the COFF symbol table")
	root.Flags().BoolVar(&sectionData, "section-data", false, "dump raw section bytes")
	root.Flags().BoolVar(&expandRelocs, "expand-relocs", false, "print the raw relocation triple behind every resolved linkage name")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "emit unrecognized symbol kinds as raw dumps")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
