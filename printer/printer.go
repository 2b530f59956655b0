// Package printer renders tokens, instruction lists, and parse diagnostics
// as text. The core passes never print; callers pick a rendering from here.
package printer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"github.com/sarchlab/iloc/instr"
	"github.com/sarchlab/iloc/lexer"
	"github.com/sarchlab/iloc/parser"
)

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// Tokens drains src and writes one "<line> <KIND> <lexeme>" line per token.
// The EOF token is not written.
func Tokens(w io.Writer, src parser.TokenSource) error {
	ew := &errWriter{w: w}
	for {
		t := src.NextToken()
		if t.Kind == lexer.KindEOF {
			break
		}
		ew.printf("%d %s %s\n", t.Line, t.Kind, t.Lexeme)
	}
	return errors.Wrap(ew.err, "write tokens")
}

// Renamed writes each instruction in source syntax using virtual registers.
func Renamed(w io.Writer, list instr.List) error {
	return writeText(w, list, instr.Virtual)
}

// Source writes each instruction in source syntax using the registers as
// written.
func Source(w io.Writer, list instr.List) error {
	return writeText(w, list, instr.Structural)
}

func writeText(w io.Writer, list instr.List, s instr.Space) error {
	ew := &errWriter{w: w}
	for _, inst := range list {
		ew.printf("%s\n", inst.Text(s))
	}
	return errors.Wrap(ew.err, "write instructions")
}

// IR writes one descriptive line per instruction showing its structural
// operands, e.g. "Line 2: ADD [ SR1: r1 , SR2: r1 ] => [ SR3: r2 ]".
func IR(w io.Writer, list instr.List) error {
	ew := &errWriter{w: w}
	for _, inst := range list {
		ew.printf("Line %d: %s%s\n", inst.Line, inst.Opcode, describeSlots(inst))
	}
	return errors.Wrap(ew.err, "write IR")
}

func describeSlots(inst instr.Inst) string {
	sr := func(slot int, reg bool) string {
		v := inst.Slots[slot].Structural
		if reg {
			return fmt.Sprintf("SR%d: r%d", slot+1, v)
		}
		return fmt.Sprintf("SR%d: %d", slot+1, v)
	}

	switch inst.Opcode {
	case instr.Load, instr.Store:
		return fmt.Sprintf(" [ %s ] => [ %s ]", sr(instr.Slot1, true), sr(instr.Slot3, true))
	case instr.LoadI:
		return fmt.Sprintf(" [ %s ] => [ %s ]", sr(instr.Slot1, false), sr(instr.Slot3, true))
	case instr.Add, instr.Sub, instr.Mult, instr.LShift, instr.RShift:
		return fmt.Sprintf(" [ %s , %s ] => [ %s ]",
			sr(instr.Slot1, true), sr(instr.Slot2, true), sr(instr.Slot3, true))
	case instr.Output:
		return fmt.Sprintf(" [ %s ]", sr(instr.Slot1, false))
	default:
		return ""
	}
}

var spaces = []instr.Space{instr.Structural, instr.Virtual, instr.Physical, instr.NextUse}

// IRTable writes the instruction list as a table with all four numbering
// spaces of every slot. Slots the opcode does not use are shown as "-".
func IRTable(w io.Writer, list instr.List) error {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("IR (%d instructions)", len(list)))

	header := table.Row{"Line", "Opcode"}
	for slot := 0; slot < instr.NumSlots; slot++ {
		for _, s := range spaces {
			header = append(header, fmt.Sprintf("%s%d", s, slot+1))
		}
	}
	t.AppendHeader(header)

	for _, inst := range list {
		form := inst.Opcode.Form()
		row := table.Row{inst.Line, inst.Opcode.String()}
		for slot := 0; slot < instr.NumSlots; slot++ {
			for _, s := range spaces {
				row = append(row, cell(form.Populated(slot), inst.Slots[slot].Get(s)))
			}
		}
		t.AppendRow(row)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return errors.Wrap(err, "write IR table")
}

func cell(populated bool, v int) string {
	if !populated {
		return "-"
	}
	if v == instr.Unused {
		return "."
	}
	return strconv.Itoa(v)
}

// Diagnostics writes one "Parse Error (line N): message" line per
// diagnostic.
func Diagnostics(w io.Writer, diags []parser.Diagnostic) error {
	ew := &errWriter{w: w}
	for _, d := range diags {
		ew.printf("Parse Error (line %d): %s\n", d.Line, d.Message)
	}
	return errors.Wrap(ew.err, "write diagnostics")
}
