package lexer

import (
	"fmt"

	"github.com/sarchlab/iloc/instr"
)

// Kind categorizes a token.
type Kind int

// Token kinds. The opcode kinds share their numbering with instr.Opcode.
const (
	KindLoad   = Kind(instr.Load)
	KindLoadI  = Kind(instr.LoadI)
	KindStore  = Kind(instr.Store)
	KindAdd    = Kind(instr.Add)
	KindSub    = Kind(instr.Sub)
	KindMult   = Kind(instr.Mult)
	KindLShift = Kind(instr.LShift)
	KindRShift = Kind(instr.RShift)
	KindOutput = Kind(instr.Output)
	KindNop    = Kind(instr.Nop)
)

// Non-opcode kinds.
const (
	KindRegister Kind = iota + KindNop + 1
	KindConstant
	KindComma
	KindArrow
	KindEOL
	KindEOF
	KindError
)

var kindNames = map[Kind]string{
	KindRegister: "REGISTER",
	KindConstant: "CONSTANT",
	KindComma:    "COMMA",
	KindArrow:    "ARROW",
	KindEOL:      "EOL",
	KindEOF:      "EOF",
	KindError:    "ERROR",
}

// Opcode returns the operation named by an opcode token kind.
func (k Kind) Opcode() (instr.Opcode, bool) {
	op := instr.Opcode(k)
	if k < KindLoad || !op.Valid() {
		return 0, false
	}
	return op, true
}

// EndsLine reports whether the kind terminates a statement.
func (k Kind) EndsLine() bool {
	return k == KindEOL || k == KindEOF
}

func (k Kind) String() string {
	if op, ok := k.Opcode(); ok {
		return op.String()
	}
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexeme of the input together with its category and the line
// it was found on.
type Token struct {
	Kind   Kind
	Line   int
	Lexeme string
}

func (t Token) String() string {
	return fmt.Sprintf("%d %s %s", t.Line, t.Kind, t.Lexeme)
}
