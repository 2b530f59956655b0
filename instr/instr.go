// Package instr defines the intermediate representation built by the parser:
// opcodes and their operand forms, instructions, and the instruction list.
package instr

import (
	"fmt"
	"strings"
)

// Inst is one parsed ILOC operation.
type Inst struct {
	Line   int
	Opcode Opcode
	Slots  [NumSlots]Operand
}

// NewInst creates an instruction with every slot unused.
func NewInst(line int, op Opcode) Inst {
	inst := Inst{Line: line, Opcode: op}
	for i := range inst.Slots {
		inst.Slots[i] = UnusedOperand()
	}
	return inst
}

// Text renders the instruction the way it is written in source, with
// register operands taken from numbering space s. Literal operands always
// print their structural value.
func (i Inst) Text(s Space) string {
	form := i.Opcode.Form()
	reg := func(slot int) string {
		return fmt.Sprintf("r%d", i.Slots[slot].Get(s))
	}
	lit := func(slot int) string {
		return fmt.Sprintf("%d", i.Slots[slot].Structural)
	}

	var b strings.Builder
	b.WriteString(form.Mnemonic)

	switch i.Opcode {
	case Load, Store:
		fmt.Fprintf(&b, " %s => %s", reg(Slot1), reg(Slot3))
	case LoadI:
		fmt.Fprintf(&b, " %s => %s", lit(Slot1), reg(Slot3))
	case Add, Sub, Mult, LShift, RShift:
		fmt.Fprintf(&b, " %s, %s => %s", reg(Slot1), reg(Slot2), reg(Slot3))
	case Output:
		fmt.Fprintf(&b, " %s", lit(Slot1))
	}

	return b.String()
}

func (i Inst) String() string {
	return i.Text(Structural)
}

// Registers calls fn for every register slot in resolution order: uses
// first, then the definition.
func (i Inst) Registers(fn func(slot int, def bool)) {
	form := i.Opcode.Form()
	for _, slot := range form.Uses {
		fn(slot, false)
	}
	if form.Def != Unused {
		fn(form.Def, true)
	}
}

// List is the straight-line instruction sequence of one block, in source
// order.
type List []Inst

// Opcodes returns the opcode sequence of the list.
func (l List) Opcodes() []Opcode {
	ops := make([]Opcode, len(l))
	for i, inst := range l {
		ops[i] = inst.Opcode
	}
	return ops
}

func (l List) String() string {
	var b strings.Builder
	for _, inst := range l {
		b.WriteString(inst.String())
		b.WriteByte('\n')
	}
	return b.String()
}
