// Command ilocfe scans, parses, or renames an ILOC block.
//
//	ilocfe [-s|-p|-r|-x] [-t] [-c config.yaml] [-report file] <name>
//
// When several modes are given, -x wins over -r, -r over -p, and -p over -s.
// Parsing is the default.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/iloc/api"
	"github.com/sarchlab/iloc/config"
	"github.com/sarchlab/iloc/parser"
	"github.com/sarchlab/iloc/printer"
	"github.com/sarchlab/iloc/util"
)

type mode int

const (
	modeScan mode = iota
	modeParse
	modeIR
	modeRename
)

var modeNames = [...]string{"scan", "parse", "ir", "rename"}

func main() {
	scan := flag.Bool("s", false, "print the token listing")
	parse := flag.Bool("p", false, "parse and report success or diagnostics")
	ir := flag.Bool("r", false, "print the intermediate representation")
	renameFlag := flag.Bool("x", false, "print the renamed block")
	asTable := flag.Bool("t", false, "print the intermediate representation as a table")
	configPath := flag.String("c", "", "configuration file")
	reportPath := flag.String("report", "", "write the verification report of -x to this file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "ilocfe: exactly one source file is required")
		flag.Usage()
		atexit.Exit(2)
	}
	name := flag.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ilocfe: %v\n", err)
			atexit.Exit(2)
		}
	}

	slog.SetDefault(cfg.NewLogger(os.Stderr))

	m := modeParse
	switch {
	case *renameFlag:
		m = modeRename
	case *ir:
		m = modeIR
	case *parse:
		m = modeParse
	case *scan:
		m = modeScan
	}

	driver := api.MakeDriverBuilder().
		WithConfig(cfg).
		Build()

	util.Trace("ilocfe started", "source", name, "mode", modeNames[m])
	atexit.Exit(run(driver, m, name, *asTable, *reportPath))
}

func run(driver api.Driver, m mode, name string, asTable bool, reportPath string) int {
	switch m {
	case modeScan:
		if err := driver.Scan(name, os.Stdout); err != nil {
			return fail(err)
		}
		return 0

	case modeRename:
		res, err := driver.Rename(name)
		if err != nil {
			return fail(err)
		}
		if !res.Renamed {
			return reportDiagnostics(res.Outcome)
		}

		if err := printer.Renamed(os.Stdout, res.Outcome.Instructions); err != nil {
			return fail(err)
		}

		if res.Report != nil && reportPath != "" {
			if err := res.Report.SaveReportToFile(reportPath); err != nil {
				return fail(err)
			}
		}
		return 0
	}

	out, err := driver.Parse(name)
	if err != nil {
		return fail(err)
	}
	if !out.OK() {
		return reportDiagnostics(out)
	}

	if m == modeIR {
		if asTable {
			err = printer.IRTable(os.Stdout, out.Instructions)
		} else {
			err = printer.IR(os.Stdout, out.Instructions)
		}
		if err != nil {
			return fail(err)
		}
		return 0
	}

	fmt.Printf("Parse succeeded. Processed %d operations.\n", len(out.Instructions))
	return 0
}

func reportDiagnostics(out parser.Outcome) int {
	_ = printer.Diagnostics(os.Stderr, out.Diagnostics)
	fmt.Printf("Parse found errors. %d diagnostics.\n", len(out.Diagnostics))
	return 1
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "ilocfe: %v\n", err)
	return 1
}
