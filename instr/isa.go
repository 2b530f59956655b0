package instr

import "slices"

// Opcode identifies an ILOC operation.
type Opcode int

// The ten operations of the instruction set.
const (
	Load Opcode = iota
	LoadI
	Store
	Add
	Sub
	Mult
	LShift
	RShift
	Output
	Nop
)

const numOpcodes = int(Nop) + 1

// Operand slot indices. Slot1 and Slot2 are sources, Slot3 is the
// destination side of the arrow.
const (
	Slot1 = iota
	Slot2
	Slot3
	NumSlots
)

// Form describes how an opcode populates its operand slots.
type Form struct {
	Mnemonic string // spelling in source text, case-sensitive
	Name     string // upper-case name used in token and IR listings
	Uses     []int  // slots read as registers, in resolution order
	Def      int    // slot written as a register, or Unused
	Literal  int    // slot holding a literal, or Unused
}

// Populated reports whether the form uses the given slot at all.
func (f Form) Populated(slot int) bool {
	return f.Def == slot || f.Literal == slot || slices.Contains(f.Uses, slot)
}

// IsRegister reports whether the slot holds a register operand.
func (f Form) IsRegister(slot int) bool {
	return f.Def == slot || slices.Contains(f.Uses, slot)
}

// ISA is a named instruction set: the forms of every opcode plus the
// mnemonic lookup table.
type ISA struct {
	name       string
	forms      [numOpcodes]Form
	byMnemonic map[string]Opcode
}

func newISA(name string) *ISA {
	return &ISA{
		name:       name,
		byMnemonic: make(map[string]Opcode),
	}
}

func (isa *ISA) registerForm(op Opcode, f Form) {
	isa.forms[op] = f
	isa.byMnemonic[f.Mnemonic] = op
}

// Name returns the name of the instruction set.
func (isa *ISA) Name() string {
	return isa.name
}

// defaultISA is filled once at package initialization and only read after.
var defaultISA = buildDefaultISA()

func buildDefaultISA() *ISA {
	isa := newISA("ILOC block subset")

	arith := func(mnemonic, name string) Form {
		return Form{
			Mnemonic: mnemonic,
			Name:     name,
			Uses:     []int{Slot1, Slot2},
			Def:      Slot3,
			Literal:  Unused,
		}
	}

	isa.registerForm(Load, Form{"load", "LOAD", []int{Slot1}, Slot3, Unused})
	isa.registerForm(LoadI, Form{"loadI", "LOADI", nil, Slot3, Slot1})
	isa.registerForm(Store, Form{"store", "STORE", []int{Slot1, Slot3}, Unused, Unused})
	isa.registerForm(Add, arith("add", "ADD"))
	isa.registerForm(Sub, arith("sub", "SUB"))
	isa.registerForm(Mult, arith("mult", "MULT"))
	isa.registerForm(LShift, arith("lshift", "LSHIFT"))
	isa.registerForm(RShift, arith("rshift", "RSHIFT"))
	isa.registerForm(Output, Form{"output", "OUTPUT", nil, Unused, Slot1})
	isa.registerForm(Nop, Form{"nop", "NOP", nil, Unused, Unused})

	return isa
}

// Default returns the instruction set understood by the front end.
func Default() *ISA {
	return defaultISA
}

// Lookup finds the opcode spelled by mnemonic.
func Lookup(mnemonic string) (Opcode, bool) {
	op, ok := defaultISA.byMnemonic[mnemonic]
	return op, ok
}

// Opcodes lists every opcode in declaration order.
func Opcodes() []Opcode {
	ops := make([]Opcode, numOpcodes)
	for i := range ops {
		ops[i] = Opcode(i)
	}
	return ops
}

// Valid reports whether o is one of the ten opcodes.
func (o Opcode) Valid() bool {
	return o >= 0 && int(o) < numOpcodes
}

// Form returns a copy of the slot form of o.
func (o Opcode) Form() Form {
	if !o.Valid() {
		return Form{Name: "UNKNOWN", Def: Unused, Literal: Unused}
	}
	f := defaultISA.forms[o]
	f.Uses = slices.Clone(f.Uses)
	return f
}

// Mnemonic returns the source spelling, e.g. "loadI".
func (o Opcode) Mnemonic() string {
	if !o.Valid() {
		return "?"
	}
	return defaultISA.forms[o].Mnemonic
}

func (o Opcode) String() string {
	if !o.Valid() {
		return "UNKNOWN"
	}
	return defaultISA.forms[o].Name
}
