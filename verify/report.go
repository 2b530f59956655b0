package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"github.com/sarchlab/iloc/instr"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	InstructionCount int
	Renamed          bool
	LintIssues       []Issue
	StructIssues     []Issue
	LiteralIssues    []Issue
	RenameIssues     []Issue
	LiveInIssues     []Issue
	SimulationErr    error
	SimulationOK     bool
	SimulationRun    bool
}

// GenerateReport runs lint and, for renamed lists, the equivalence check
// between the structural and virtual runs.
func GenerateReport(list instr.List, renamed bool) *VerificationReport {
	report := &VerificationReport{
		InstructionCount: len(list),
		Renamed:          renamed,
	}

	report.LintIssues = RunLint(list, renamed)

	for _, issue := range report.LintIssues {
		switch issue.Type {
		case IssueStruct:
			report.StructIssues = append(report.StructIssues, issue)
		case IssueLiteral:
			report.LiteralIssues = append(report.LiteralIssues, issue)
		case IssueRename:
			report.RenameIssues = append(report.RenameIssues, issue)
		case IssueLiveIn:
			report.LiveInIssues = append(report.LiveInIssues, issue)
		}
	}

	// Sentinel operands cannot be executed, so simulation needs a clean list.
	if renamed && len(report.StructIssues) == 0 && len(report.LiteralIssues) == 0 {
		report.SimulationRun = true
		report.SimulationErr = CheckEquivalence(list, nil)
		report.SimulationOK = report.SimulationErr == nil
	}

	return report
}

// Defects counts issues that are not informational.
func (r *VerificationReport) Defects() int {
	return len(r.StructIssues) + len(r.LiteralIssues) + len(r.RenameIssues)
}

// Passed reports whether the list has no defects and, when simulated,
// behaved the same in both register spaces.
func (r *VerificationReport) Passed() bool {
	if r.Defects() > 0 {
		return false
	}
	return !r.SimulationRun || r.SimulationOK
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "ILOC BLOCK VERIFICATION REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\nInstructions: %d (renamed: %t)\n", r.InstructionCount, r.Renamed)

	// STAGE 1: LINT
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
	} else {
		fmt.Fprintf(w, "Found %d lint issues:\n", len(r.LintIssues))
		writeIssueTable(w, "STRUCT ISSUES", r.StructIssues)
		writeIssueTable(w, "LITERAL ISSUES", r.LiteralIssues)
		writeIssueTable(w, "RENAME ISSUES", r.RenameIssues)
		writeIssueTable(w, "LIVE-IN REGISTERS", r.LiveInIssues)
	}

	// STAGE 2: FUNCTIONAL SIMULATION
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: FUNCTIONAL SIMULATION")
	fmt.Fprintln(w, separator)

	switch {
	case !r.SimulationRun:
		fmt.Fprintln(w, "Skipped")
	case r.SimulationOK:
		fmt.Fprintln(w, "Structural and virtual runs agree")
	default:
		fmt.Fprintf(w, "Simulation error: %v\n", r.SimulationErr)
	}

	// STAGE 3: SUMMARY
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d LITERAL, %d RENAME, %d LIVEIN)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.LiteralIssues),
		len(r.RenameIssues), len(r.LiveInIssues))

	simStatus := "SKIPPED"
	if r.SimulationRun {
		simStatus = "SUCCESS"
		if !r.SimulationOK {
			simStatus = "FAILED: " + r.SimulationErr.Error()
		}
	}
	fmt.Fprintf(w, "Simulation Result: %s\n", simStatus)

	if r.Passed() {
		fmt.Fprintln(w, "PASSED")
	} else {
		fmt.Fprintln(w, "FAILED")
	}

	fmt.Fprintln(w)
}

func writeIssueTable(w io.Writer, title string, issues []Issue) {
	if len(issues) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s (%d)", title, len(issues)))
	t.AppendHeader(table.Row{"Line", "Index", "Slot", "Message"})

	for _, issue := range issues {
		t.AppendRow(table.Row{
			position(issue.Line, 0),
			position(issue.Index, 0),
			position(issue.Slot, 1),
			issue.Message,
		})
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, t.Render())
}

func position(v, offset int) string {
	if v < 0 {
		return "-"
	}
	return fmt.Sprintf("%d", v+offset)
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create report file")
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
