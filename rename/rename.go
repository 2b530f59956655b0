// Package rename rewrites the structural registers of a straight-line block
// into densely numbered virtual registers. Every definition gets a fresh
// virtual register; a use sees the most recent definition of its register.
package rename

import (
	"log/slog"
	"slices"

	"github.com/sarchlab/iloc/instr"
	"github.com/sarchlab/iloc/util"
)

// Builder can create renamers.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder returns a renamer builder.
func NewBuilder() Builder {
	return Builder{}
}

// WithLogger sets the logger. The default logger is used otherwise.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// Build creates a renamer.
func (b Builder) Build() *Renamer {
	r := &Renamer{log: util.LoggerOrDefault(b.logger)}
	r.Reset()
	return r
}

// Renamer performs local register renaming.
type Renamer struct {
	log *slog.Logger

	current map[int]int // structural register -> current virtual register
	nextID  util.IDGen
	count   int
	liveIns map[int]struct{}
}

// Reset forgets every mapping and restarts numbering at zero.
func (r *Renamer) Reset() {
	r.current = make(map[int]int)
	r.nextID = util.MakeIncreasingGen(0)
	r.count = 0
	r.liveIns = make(map[int]struct{})
}

// Rename makes one pass over list, filling in the Virtual field of every
// register slot, and returns the number of virtual registers allocated.
// Order, opcodes, and structural values are left alone. Each call starts
// from a clean state.
func (r *Renamer) Rename(list instr.List) int {
	r.Reset()

	for i := range list {
		inst := &list[i]
		inst.Registers(func(slot int, def bool) {
			op := &inst.Slots[slot]
			if def {
				op.Virtual = r.define(op.Structural)
			} else {
				op.Virtual = r.use(op.Structural)
			}
		})
	}

	r.log.Debug("rename finished",
		"instructions", len(list),
		"virtual_registers", r.count,
		"live_ins", len(r.liveIns),
	)

	return r.count
}

// Count returns the number of virtual registers allocated by the last pass.
func (r *Renamer) Count() int {
	return r.count
}

// LiveIns returns, in ascending order, the structural registers that the
// last pass saw used before any definition.
func (r *Renamer) LiveIns() []int {
	regs := make([]int, 0, len(r.liveIns))
	for sr := range r.liveIns {
		regs = append(regs, sr)
	}
	slices.Sort(regs)
	return regs
}

func (r *Renamer) allocate(sr int) int {
	vr := r.nextID()
	r.count = vr + 1
	r.current[sr] = vr
	return vr
}

func (r *Renamer) use(sr int) int {
	if sr == instr.Unused {
		return instr.Unused
	}

	if vr, ok := r.current[sr]; ok {
		return vr
	}

	r.liveIns[sr] = struct{}{}
	vr := r.allocate(sr)
	r.log.Debug("upward-exposed use", "sr", sr, "vr", vr)

	return vr
}

func (r *Renamer) define(sr int) int {
	if sr == instr.Unused {
		return instr.Unused
	}

	return r.allocate(sr)
}
