package verify

import (
	"fmt"

	"github.com/sarchlab/iloc/instr"
)

// RunLint performs static checks on an instruction list. When renamed is
// true the virtual numbering is checked as well.
// Returns a list of issues found, or empty list if no issues.
func RunLint(list instr.List, renamed bool) []Issue {
	var issues []Issue

	issues = append(issues, checkStructure(list)...)
	issues = append(issues, checkLiveIns(list)...)
	if renamed {
		issues = append(issues, checkRenaming(list)...)
	}

	return issues
}

// checkStructure validates every instruction against its opcode's form.
func checkStructure(list instr.List) []Issue {
	var issues []Issue
	prevLine := 0

	for idx, inst := range list {
		if !inst.Opcode.Valid() {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Line:    inst.Line,
				Index:   idx,
				Slot:    -1,
				Message: fmt.Sprintf("Unknown opcode %d", int(inst.Opcode)),
			})
			continue
		}

		if inst.Line <= prevLine {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Line:    inst.Line,
				Index:   idx,
				Slot:    -1,
				Message: fmt.Sprintf("Line %d does not follow line %d", inst.Line, prevLine),
				Details: map[string]interface{}{"previous": prevLine},
			})
		}
		prevLine = inst.Line

		form := inst.Opcode.Form()
		for slot, op := range inst.Slots {
			if !form.Populated(slot) {
				if op != instr.UnusedOperand() {
					issues = append(issues, Issue{
						Type:  IssueStruct,
						Line:  inst.Line,
						Index: idx,
						Slot:  slot,
						Message: fmt.Sprintf("%s does not use slot %d but it holds %+v",
							inst.Opcode, slot+1, op),
					})
				}
				continue
			}

			switch {
			case op.Structural == instr.Unused:
				issues = append(issues, Issue{
					Type:    IssueLiteral,
					Line:    inst.Line,
					Index:   idx,
					Slot:    slot,
					Message: fmt.Sprintf("%s slot %d holds the sentinel value", inst.Opcode, slot+1),
					Details: map[string]interface{}{"register": form.IsRegister(slot)},
				})
			case op.Structural < 0:
				issues = append(issues, Issue{
					Type:    IssueStruct,
					Line:    inst.Line,
					Index:   idx,
					Slot:    slot,
					Message: fmt.Sprintf("%s slot %d holds negative value %d", inst.Opcode, slot+1, op.Structural),
				})
			}
		}
	}

	return issues
}

// checkLiveIns reports each structural register read before it is defined.
func checkLiveIns(list instr.List) []Issue {
	var issues []Issue
	defined := make(map[int]bool)
	reported := make(map[int]bool)

	for idx, inst := range list {
		inst.Registers(func(slot int, def bool) {
			sr := inst.Slots[slot].Structural
			if sr == instr.Unused {
				return
			}
			if def {
				defined[sr] = true
				return
			}
			if defined[sr] || reported[sr] {
				return
			}
			reported[sr] = true
			issues = append(issues, Issue{
				Type:    IssueLiveIn,
				Line:    inst.Line,
				Index:   idx,
				Slot:    slot,
				Message: fmt.Sprintf("r%d is used before any definition", sr),
				Details: map[string]interface{}{"register": sr},
			})
		})
	}

	return issues
}

// checkRenaming replays the use/def protocol over the structural registers
// and checks that the virtual ids agree with it.
func checkRenaming(list instr.List) []Issue {
	var issues []Issue
	current := make(map[int]int) // structural -> expected virtual
	seen := make(map[int]bool)   // virtual ids handed out so far
	maxID := -1

	bad := func(idx, slot int, inst instr.Inst, format string, args ...interface{}) {
		issues = append(issues, Issue{
			Type:    IssueRename,
			Line:    inst.Line,
			Index:   idx,
			Slot:    slot,
			Message: fmt.Sprintf(format, args...),
		})
	}

	for idx, inst := range list {
		form := inst.Opcode.Form()
		for slot, op := range inst.Slots {
			if form.IsRegister(slot) {
				continue
			}
			if op.Virtual != instr.Unused {
				bad(idx, slot, inst, "%s slot %d is not a register but has virtual id %d",
					inst.Opcode, slot+1, op.Virtual)
			}
		}

		inst.Registers(func(slot int, def bool) {
			op := inst.Slots[slot]
			if op.Structural == instr.Unused {
				if op.Virtual != instr.Unused {
					bad(idx, slot, inst, "sentinel register renamed to r%d", op.Virtual)
				}
				return
			}
			if op.Virtual < 0 {
				bad(idx, slot, inst, "r%d has no virtual id", op.Structural)
				return
			}
			if op.Virtual > maxID {
				maxID = op.Virtual
			}

			expected, mapped := current[op.Structural]
			switch {
			case !def && mapped && op.Virtual != expected:
				bad(idx, slot, inst, "use of r%d renamed to r%d, want r%d",
					op.Structural, op.Virtual, expected)
			case (def || !mapped) && seen[op.Virtual]:
				bad(idx, slot, inst, "r%d reuses virtual id r%d", op.Structural, op.Virtual)
			}

			seen[op.Virtual] = true
			current[op.Structural] = op.Virtual
		})
	}

	for id := 0; id <= maxID; id++ {
		if !seen[id] {
			issues = append(issues, Issue{
				Type:    IssueRename,
				Line:    -1,
				Index:   -1,
				Slot:    -1,
				Message: fmt.Sprintf("virtual id r%d is never assigned", id),
				Details: map[string]interface{}{"max": maxID},
			})
		}
	}

	return issues
}
