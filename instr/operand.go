package instr

// Unused marks an operand field that the opcode does not use, or a value
// that has not been assigned yet.
const Unused = -1

// Space selects one of the four numbering spaces carried by an operand.
type Space int

// Numbering spaces of an operand slot.
const (
	Structural Space = iota // as written in the source
	Virtual                 // after renaming
	Physical                // reserved for allocation
	NextUse                 // reserved for allocation
)

func (s Space) String() string {
	switch s {
	case Structural:
		return "SR"
	case Virtual:
		return "VR"
	case Physical:
		return "PR"
	case NextUse:
		return "NU"
	default:
		return "??"
	}
}

// Operand is one operand slot of an instruction.
type Operand struct {
	Structural int
	Virtual    int
	Physical   int
	NextUse    int
}

// UnusedOperand returns an operand with every field set to Unused.
func UnusedOperand() Operand {
	return Operand{
		Structural: Unused,
		Virtual:    Unused,
		Physical:   Unused,
		NextUse:    Unused,
	}
}

// Get returns the value of the operand in numbering space s.
func (o Operand) Get(s Space) int {
	switch s {
	case Virtual:
		return o.Virtual
	case Physical:
		return o.Physical
	case NextUse:
		return o.NextUse
	default:
		return o.Structural
	}
}
