package rename_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/iloc/instr"
	"github.com/sarchlab/iloc/lexer"
	"github.com/sarchlab/iloc/parser"
	"github.com/sarchlab/iloc/rename"
)

func block(src string) instr.List {
	out := parser.Parse(lexer.New(strings.NewReader(src), 0))
	Expect(out.Diagnostics).To(BeEmpty())
	return out.Instructions
}

func vr(inst instr.Inst, slot int) int {
	return inst.Slots[slot].Virtual
}

func renamedText(list instr.List) []string {
	lines := make([]string, len(list))
	for i, inst := range list {
		lines[i] = inst.Text(instr.Virtual)
	}
	return lines
}

var _ = Describe("Renamer", func() {
	var r *rename.Renamer

	BeforeEach(func() {
		r = rename.NewBuilder().Build()
	})

	It("should rename a loadI-add-output block", func() {
		list := block("loadI 1024 => r1\nadd r1, r1 => r2\noutput 1024\n")

		n := r.Rename(list)

		Expect(n).To(Equal(2))
		Expect(vr(list[0], instr.Slot3)).To(Equal(0))
		Expect(vr(list[1], instr.Slot1)).To(Equal(0))
		Expect(vr(list[1], instr.Slot2)).To(Equal(0))
		Expect(vr(list[1], instr.Slot3)).To(Equal(1))
		Expect(list[2].Slots[instr.Slot1].Structural).To(Equal(1024))
		Expect(vr(list[2], instr.Slot1)).To(Equal(instr.Unused))
		Expect(list[0].Slots[instr.Slot1].Virtual).To(Equal(instr.Unused))
	})

	It("should give a self-overwriting load two identities", func() {
		list := block("load r5 => r5\n")

		r.Rename(list)

		Expect(vr(list[0], instr.Slot1)).To(Equal(0))
		Expect(vr(list[0], instr.Slot3)).To(Equal(1))
		Expect(r.LiveIns()).To(Equal([]int{5}))
	})

	It("should resolve uses before the definition in one instruction", func() {
		list := block("loadI 1 => r1\nadd r1, r1 => r1\nsub r1, r1 => r1\n")

		r.Rename(list)

		Expect(renamedText(list)).To(Equal([]string{
			"loadI 1 => r0",
			"add r0, r0 => r1",
			"sub r1, r1 => r2",
		}))
	})

	It("should resolve an upward-exposed self-reference to one live-in", func() {
		list := block("mult r3, r3 => r3\n")

		r.Rename(list)

		Expect(renamedText(list)).To(Equal([]string{"mult r0, r0 => r1"}))
		Expect(r.LiveIns()).To(Equal([]int{3}))
	})

	It("should treat both store registers as uses", func() {
		list := block("store r1 => r2\nload r2 => r3\nstore r1 => r2\n")

		r.Rename(list)

		Expect(renamedText(list)).To(Equal([]string{
			"store r0 => r1",
			"load r1 => r2",
			"store r0 => r1",
		}))
		Expect(r.LiveIns()).To(Equal([]int{1, 2}))
	})

	It("should reuse a live-in until the register is redefined", func() {
		list := block(strings.Join([]string{
			"add r7, r8 => r1",
			"add r7, r1 => r2",
			"loadI 3 => r7",
			"add r7, r2 => r3",
		}, "\n"))

		r.Rename(list)

		Expect(renamedText(list)).To(Equal([]string{
			"add r0, r1 => r2",
			"add r0, r2 => r3",
			"loadI 3 => r4",
			"add r4, r3 => r5",
		}))
	})

	It("should number densely from zero", func() {
		list := block(strings.Join([]string{
			"loadI 8 => r1",
			"load r1 => r2",
			"lshift r2, r9 => r2",
			"rshift r2, r1 => r4",
			"store r4 => r1",
			"output 8",
			"nop",
		}, "\n"))

		n := r.Rename(list)

		seen := map[int]bool{}
		for _, inst := range list {
			inst.Registers(func(slot int, _ bool) {
				seen[inst.Slots[slot].Virtual] = true
			})
		}
		Expect(seen).To(HaveLen(n))
		for id := 0; id < n; id++ {
			Expect(seen).To(HaveKey(id))
		}
		Expect(n).To(BeNumerically(">=", 4))
		Expect(r.Count()).To(Equal(n))
	})

	It("should preserve the opcode sequence and structural values", func() {
		list := block("loadI 2 => r1\nadd r1, r1 => r2\nstore r2 => r1\nnop\n")
		before := make(instr.List, len(list))
		copy(before, list)

		r.Rename(list)

		Expect(list.Opcodes()).To(Equal(before.Opcodes()))
		for i := range list {
			for s := 0; s < instr.NumSlots; s++ {
				Expect(list[i].Slots[s].Structural).To(Equal(before[i].Slots[s].Structural))
			}
		}
	})

	It("should start over on every call", func() {
		list := block("add r1, r2 => r3\n")
		other := block("load r9 => r1\n")

		r.Rename(list)
		first := renamedText(list)
		r.Rename(other)
		r.Rename(list)

		Expect(renamedText(list)).To(Equal(first))
		Expect(r.LiveIns()).To(Equal([]int{1, 2}))
	})

	It("should pass sentinel registers through without allocating", func() {
		list := instr.List{instr.NewInst(1, instr.Load)}
		list[0].Slots[instr.Slot1].Structural = instr.Unused
		list[0].Slots[instr.Slot3].Structural = 4

		n := r.Rename(list)

		Expect(n).To(Equal(1))
		Expect(vr(list[0], instr.Slot1)).To(Equal(instr.Unused))
		Expect(vr(list[0], instr.Slot3)).To(Equal(0))
	})

	It("should handle an empty block", func() {
		Expect(r.Rename(nil)).To(Equal(0))
		Expect(r.LiveIns()).To(BeEmpty())
	})
})
