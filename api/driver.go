// Package api runs the front-end stages over named sources.
package api

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/sarchlab/iloc/config"
	"github.com/sarchlab/iloc/lexer"
	"github.com/sarchlab/iloc/parser"
	"github.com/sarchlab/iloc/printer"
	"github.com/sarchlab/iloc/rename"
	"github.com/sarchlab/iloc/util"
	"github.com/sarchlab/iloc/verify"
)

// Driver runs the lexer, parser, and renamer over a named source. Every
// method returns a non-nil error only when the source cannot be opened or
// read; parse diagnostics are part of the returned outcome.
type Driver interface {
	// Scan writes the token listing of the source to w.
	Scan(name string, w io.Writer) error

	// Parse parses the whole source.
	Parse(name string) (parser.Outcome, error)

	// Rename parses the source and, if it parsed cleanly, renames it.
	Rename(name string) (*Result, error)
}

// Result is the outcome of a rename run.
type Result struct {
	Outcome parser.Outcome

	// Renamed is false when parse diagnostics stopped the run.
	Renamed          bool
	VirtualRegisters int
	LiveIns          []int

	// Report is set when linting is enabled and renaming ran.
	Report *verify.VerificationReport
}

type driverImpl struct {
	cfg    config.Config
	logger *slog.Logger
	opener SourceOpener
}

func (d *driverImpl) trace(msg string, args ...any) {
	d.logger.Log(context.Background(), util.LevelTrace, msg, args...)
}

// withLexer opens name and hands a lexer over it to fn. A read failure
// recorded by the lexer is returned after fn completes.
func (d *driverImpl) withLexer(name string, fn func(l *lexer.Lexer) error) error {
	rc, err := d.opener.Open(name)
	if err != nil {
		return err
	}
	defer rc.Close()

	l := lexer.New(rc, d.cfg.BlockSize)
	if err := fn(l); err != nil {
		return err
	}

	if err := l.Err(); err != nil {
		return errors.Wrap(err, name)
	}

	return nil
}

func (d *driverImpl) Scan(name string, w io.Writer) error {
	d.trace("scan started", "source", name)

	err := d.withLexer(name, func(l *lexer.Lexer) error {
		return printer.Tokens(w, l)
	})
	if err != nil {
		return err
	}

	d.trace("scan finished", "source", name)
	return nil
}

func (d *driverImpl) Parse(name string) (parser.Outcome, error) {
	d.trace("parse started", "source", name)

	var out parser.Outcome
	err := d.withLexer(name, func(l *lexer.Lexer) error {
		out = parser.NewBuilder().
			WithStrictLiterals(d.cfg.StrictLiterals).
			WithLogger(d.logger).
			Build(l).
			ParseAll()
		return nil
	})
	if err != nil {
		return parser.Outcome{}, err
	}

	d.trace("parse finished",
		"source", name,
		"instructions", len(out.Instructions),
		"diagnostics", len(out.Diagnostics),
	)

	return out, nil
}

func (d *driverImpl) Rename(name string) (*Result, error) {
	out, err := d.Parse(name)
	if err != nil {
		return nil, err
	}

	res := &Result{Outcome: out}
	if !out.OK() {
		d.trace("rename skipped", "source", name, "diagnostics", len(out.Diagnostics))
		return res, nil
	}

	r := rename.NewBuilder().WithLogger(d.logger).Build()
	res.VirtualRegisters = r.Rename(out.Instructions)
	res.LiveIns = r.LiveIns()
	res.Renamed = true

	d.trace("rename finished",
		"source", name,
		"virtual_registers", res.VirtualRegisters,
		"live_ins", len(res.LiveIns),
	)

	if d.cfg.Lint {
		res.Report = verify.GenerateReport(out.Instructions, true)
		if !res.Report.Passed() {
			d.logger.Warn("renamed block failed verification",
				"source", name, "defects", res.Report.Defects())
		}
	}

	return res, nil
}
