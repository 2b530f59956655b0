// Package verify provides checks for instruction lists produced by the front
// end.
//
// Two complementary stages are implemented:
//
// 1. Static lint (lint.go): structural and renaming checks
//   - STRUCT: slot population against the opcode's form, line ordering
//   - LITERAL: operands degraded to the sentinel by lenient parsing
//   - RENAME: virtual ids missing, out of range, not dense, or inconsistent
//     with the use/def protocol
//   - LIVEIN: registers read before any definition (informational)
//
// 2. Functional simulator (funcsim.go): a small interpreter for the block
//   - Executes the list in either the structural or the virtual register space
//   - Comparing both runs shows whether renaming preserved the block's meaning
//
// # Usage Example
//
//	out := parser.Parse(lexer.New(r, 0))
//	rename.NewBuilder().Build().Rename(out.Instructions)
//
//	report := verify.GenerateReport(out.Instructions, true)
//	report.WriteReport(os.Stdout)
package verify

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct  IssueType = "STRUCT"  // slot population or ordering error
	IssueLiteral IssueType = "LITERAL" // sentinel left by lenient literal parsing
	IssueRename  IssueType = "RENAME"  // virtual numbering violates the protocol
	IssueLiveIn  IssueType = "LIVEIN"  // upward-exposed use, informational
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType
	Line    int // source line, -1 if not applicable
	Index   int // position in the instruction list, -1 if not applicable
	Slot    int // operand slot, -1 if not applicable
	Message string
	Details map[string]interface{}
}

// Informational reports whether the issue describes the program rather
// than a defect.
func (i Issue) Informational() bool {
	return i.Type == IssueLiveIn
}
