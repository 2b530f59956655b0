package instr_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/iloc/instr"
)

var _ = Describe("ISA", func() {
	It("should look up mnemonics case-sensitively", func() {
		op, ok := instr.Lookup("loadI")
		Expect(ok).To(BeTrue())
		Expect(op).To(Equal(instr.LoadI))

		_, ok = instr.Lookup("loadi")
		Expect(ok).To(BeFalse())
		_, ok = instr.Lookup("ADD")
		Expect(ok).To(BeFalse())
	})

	It("should round-trip every opcode through its mnemonic", func() {
		for _, op := range instr.Opcodes() {
			got, ok := instr.Lookup(op.Mnemonic())
			Expect(ok).To(BeTrue(), op.String())
			Expect(got).To(Equal(op))
		}
		Expect(instr.Opcodes()).To(HaveLen(10))
	})

	It("should treat both STORE registers as uses", func() {
		f := instr.Store.Form()
		Expect(f.Uses).To(Equal([]int{instr.Slot1, instr.Slot3}))
		Expect(f.Def).To(Equal(instr.Unused))
	})

	It("should keep LOADI's literal out of the register slots", func() {
		f := instr.LoadI.Form()
		Expect(f.Literal).To(Equal(instr.Slot1))
		Expect(f.IsRegister(instr.Slot1)).To(BeFalse())
		Expect(f.IsRegister(instr.Slot3)).To(BeTrue())
		Expect(f.Populated(instr.Slot2)).To(BeFalse())
	})

	It("should hand out copies of the form table", func() {
		f := instr.Add.Form()
		f.Uses[0] = instr.Slot3

		Expect(instr.Add.Form().Uses).To(Equal([]int{instr.Slot1, instr.Slot2}))
	})

	It("should name unknown opcodes", func() {
		Expect(instr.Opcode(42).Valid()).To(BeFalse())
		Expect(instr.Opcode(42).String()).To(Equal("UNKNOWN"))
	})
})

var _ = Describe("Inst", func() {
	It("should start with every slot unused", func() {
		inst := instr.NewInst(3, instr.Nop)

		for _, s := range inst.Slots {
			Expect(s).To(Equal(instr.UnusedOperand()))
		}
		Expect(inst.Line).To(Equal(3))
	})

	It("should render source text in a chosen numbering space", func() {
		inst := instr.NewInst(1, instr.Add)
		inst.Slots[instr.Slot1].Structural = 1
		inst.Slots[instr.Slot2].Structural = 1
		inst.Slots[instr.Slot3].Structural = 2
		inst.Slots[instr.Slot1].Virtual = 0
		inst.Slots[instr.Slot2].Virtual = 0
		inst.Slots[instr.Slot3].Virtual = 1

		Expect(inst.String()).To(Equal("add r1, r1 => r2"))
		Expect(inst.Text(instr.Virtual)).To(Equal("add r0, r0 => r1"))
	})

	It("should print literals from the structural space", func() {
		inst := instr.NewInst(1, instr.LoadI)
		inst.Slots[instr.Slot1].Structural = 1024
		inst.Slots[instr.Slot3].Structural = 7
		inst.Slots[instr.Slot3].Virtual = 0

		Expect(inst.Text(instr.Virtual)).To(Equal("loadI 1024 => r0"))

		out := instr.NewInst(2, instr.Output)
		out.Slots[instr.Slot1].Structural = 5
		Expect(out.Text(instr.Virtual)).To(Equal("output 5"))
		Expect(instr.NewInst(3, instr.Nop).String()).To(Equal("nop"))
	})

	It("should visit uses before the definition", func() {
		var order []int
		var defs []bool

		instr.NewInst(1, instr.Sub).Registers(func(slot int, def bool) {
			order = append(order, slot)
			defs = append(defs, def)
		})

		Expect(order).To(Equal([]int{instr.Slot1, instr.Slot2, instr.Slot3}))
		Expect(defs).To(Equal([]bool{false, false, true}))
	})
})
