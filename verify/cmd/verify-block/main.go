package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sarchlab/iloc/lexer"
	"github.com/sarchlab/iloc/parser"
	"github.com/sarchlab/iloc/printer"
	"github.com/sarchlab/iloc/rename"
	"github.com/sarchlab/iloc/verify"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: verify-block <file.i>")
	}
	path := os.Args[1]

	l, err := lexer.Open(path, 0)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", path, err)
	}
	defer l.Close()

	out := parser.Parse(l)
	if err := l.Err(); err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}
	if !out.OK() {
		_ = printer.Diagnostics(os.Stderr, out.Diagnostics)
		log.Fatalf("%s has %d parse errors", path, len(out.Diagnostics))
	}

	fmt.Printf("Loaded %d instructions from %s\n\n", len(out.Instructions), path)

	// Before renaming only structure and live-ins can be checked.
	pre := verify.RunLint(out.Instructions, false)
	for _, issue := range pre {
		if !issue.Informational() {
			fmt.Printf("[%s] line %d: %s\n", issue.Type, issue.Line, issue.Message)
		}
	}

	renamer := rename.NewBuilder().Build()
	count := renamer.Rename(out.Instructions)
	fmt.Printf("Renamed into %d virtual registers, live-ins %v\n\n", count, renamer.LiveIns())

	if err := printer.IRTable(os.Stdout, out.Instructions); err != nil {
		log.Fatalf("Failed to print IR: %v", err)
	}
	fmt.Println()

	report := verify.GenerateReport(out.Instructions, true)
	report.WriteReport(os.Stdout)

	if !report.Passed() {
		os.Exit(1)
	}
}
