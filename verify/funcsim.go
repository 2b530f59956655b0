package verify

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/iloc/instr"
)

// ErrStepLimit is returned by Run when the block has more instructions
// than the simulator was allowed to execute.
var ErrStepLimit = errors.New("step limit reached")

// FunctionalSimulator interprets an instruction list over one register
// numbering space. Registers and memory words are 32-bit signed integers.
// Registers and memory that were never written read as zero.
type FunctionalSimulator struct {
	space   instr.Space
	regs    map[int]int32
	memory  map[int32]int32
	outputs []int32
}

// NewFunctionalSimulator creates a simulator that reads register numbers
// from the given space.
func NewFunctionalSimulator(space instr.Space) *FunctionalSimulator {
	return &FunctionalSimulator{
		space:  space,
		regs:   make(map[int]int32),
		memory: make(map[int32]int32),
	}
}

// PreloadMemory stores value at addr before the run.
func (fs *FunctionalSimulator) PreloadMemory(addr, value int32) {
	fs.memory[addr] = value
}

// PreloadRegister sets a register before the run. It is how live-in values
// are supplied.
func (fs *FunctionalSimulator) PreloadRegister(reg int, value int32) {
	fs.regs[reg] = value
}

// Run executes up to maxSteps instructions of list in order. A
// non-positive maxSteps means no limit.
func (fs *FunctionalSimulator) Run(list instr.List, maxSteps int) error {
	for idx, inst := range list {
		if maxSteps > 0 && idx >= maxSteps {
			return errors.Wrapf(ErrStepLimit, "after %d instructions", maxSteps)
		}

		if err := fs.executeInst(inst); err != nil {
			return errors.Wrapf(err, "line %d: %s", inst.Line, inst.Text(fs.space))
		}
	}

	return nil
}

// executeInst executes a single instruction
func (fs *FunctionalSimulator) executeInst(inst instr.Inst) error {
	switch inst.Opcode {
	case instr.Load:
		return fs.runLoad(inst)
	case instr.LoadI:
		return fs.runLoadI(inst)
	case instr.Store:
		return fs.runStore(inst)
	case instr.Add, instr.Sub, instr.Mult, instr.LShift, instr.RShift:
		return fs.runArith(inst)
	case instr.Output:
		return fs.runOutput(inst)
	case instr.Nop:
		return nil
	default:
		return errors.Errorf("unknown opcode %d", int(inst.Opcode))
	}
}

// runLoad implements LOAD: dst = MEM[src]
func (fs *FunctionalSimulator) runLoad(inst instr.Inst) error {
	addr, err := fs.readReg(inst, instr.Slot1)
	if err != nil {
		return err
	}

	return fs.writeReg(inst, instr.Slot3, fs.memory[addr])
}

// runLoadI implements LOADI: dst = constant
func (fs *FunctionalSimulator) runLoadI(inst instr.Inst) error {
	c := inst.Slots[instr.Slot1].Structural
	if c == instr.Unused {
		return errors.New("constant operand is the sentinel")
	}

	return fs.writeReg(inst, instr.Slot3, int32(c))
}

// runStore implements STORE: MEM[slot3] = slot1. Both operands are read.
func (fs *FunctionalSimulator) runStore(inst instr.Inst) error {
	value, err := fs.readReg(inst, instr.Slot1)
	if err != nil {
		return err
	}

	addr, err := fs.readReg(inst, instr.Slot3)
	if err != nil {
		return err
	}

	fs.memory[addr] = value
	return nil
}

// runArith implements the two-source arithmetic opcodes. Shifts use the
// low five bits of the amount; RSHIFT is arithmetic.
func (fs *FunctionalSimulator) runArith(inst instr.Inst) error {
	a, err := fs.readReg(inst, instr.Slot1)
	if err != nil {
		return err
	}

	b, err := fs.readReg(inst, instr.Slot2)
	if err != nil {
		return err
	}

	var result int32
	switch inst.Opcode {
	case instr.Add:
		result = a + b
	case instr.Sub:
		result = a - b
	case instr.Mult:
		result = a * b
	case instr.LShift:
		result = a << (uint32(b) & 31)
	case instr.RShift:
		result = a >> (uint32(b) & 31)
	}

	return fs.writeReg(inst, instr.Slot3, result)
}

// runOutput implements OUTPUT: record MEM[constant]
func (fs *FunctionalSimulator) runOutput(inst instr.Inst) error {
	c := inst.Slots[instr.Slot1].Structural
	if c == instr.Unused {
		return errors.New("address operand is the sentinel")
	}

	fs.outputs = append(fs.outputs, fs.memory[int32(c)])
	return nil
}

func (fs *FunctionalSimulator) readReg(inst instr.Inst, slot int) (int32, error) {
	reg := inst.Slots[slot].Get(fs.space)
	if reg == instr.Unused {
		return 0, errors.Errorf("slot %d has no %s register", slot+1, fs.space)
	}

	return fs.regs[reg], nil
}

func (fs *FunctionalSimulator) writeReg(inst instr.Inst, slot int, value int32) error {
	reg := inst.Slots[slot].Get(fs.space)
	if reg == instr.Unused {
		return errors.Errorf("slot %d has no %s register", slot+1, fs.space)
	}

	fs.regs[reg] = value
	return nil
}

// GetRegisterValue returns the current value of a register.
func (fs *FunctionalSimulator) GetRegisterValue(reg int) int32 {
	return fs.regs[reg]
}

// GetMemoryValue returns the word stored at addr.
func (fs *FunctionalSimulator) GetMemoryValue(addr int32) int32 {
	return fs.memory[addr]
}

// Outputs returns the values printed by OUTPUT, in execution order.
func (fs *FunctionalSimulator) Outputs() []int32 {
	return append([]int32(nil), fs.outputs...)
}

// Memory returns a copy of the memory contents.
func (fs *FunctionalSimulator) Memory() map[int32]int32 {
	m := make(map[int32]int32, len(fs.memory))
	for k, v := range fs.memory {
		m[k] = v
	}
	return m
}

// CheckEquivalence runs list once over structural registers and once over
// virtual registers, starting from the same memory image, and reports the
// first difference in outputs or final memory. Live-in registers read zero
// in both runs.
func CheckEquivalence(list instr.List, memory map[int32]int32) error {
	structural := NewFunctionalSimulator(instr.Structural)
	virtual := NewFunctionalSimulator(instr.Virtual)
	for addr, value := range memory {
		structural.PreloadMemory(addr, value)
		virtual.PreloadMemory(addr, value)
	}

	if err := structural.Run(list, 0); err != nil {
		return errors.Wrap(err, "structural run")
	}
	if err := virtual.Run(list, 0); err != nil {
		return errors.Wrap(err, "virtual run")
	}

	want, got := structural.Outputs(), virtual.Outputs()
	if len(want) != len(got) {
		return errors.Errorf("output count differs: structural %d, virtual %d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			return errors.Errorf("output %d differs: structural %d, virtual %d", i, want[i], got[i])
		}
	}

	wantMem, gotMem := structural.Memory(), virtual.Memory()
	for addr, v := range wantMem {
		if gotMem[addr] != v {
			return errors.Errorf("memory[%d] differs: structural %d, virtual %d", addr, v, gotMem[addr])
		}
	}
	for addr, v := range gotMem {
		if _, ok := wantMem[addr]; !ok && v != 0 {
			return errors.Errorf("memory[%d] differs: structural 0, virtual %d", addr, v)
		}
	}

	return nil
}
