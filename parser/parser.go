// Package parser builds an instruction list from ILOC tokens. Each source
// line is one statement; a malformed line is reported and skipped without
// disturbing the lines around it.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sarchlab/iloc/instr"
	"github.com/sarchlab/iloc/lexer"
	"github.com/sarchlab/iloc/util"
)

// TokenSource supplies tokens to the parser. After the end of input it must
// keep returning EOF tokens.
type TokenSource interface {
	NextToken() lexer.Token
}

// Builder can create parsers.
type Builder struct {
	strictLiterals bool
	logger         *slog.Logger
}

// NewBuilder returns a builder with lenient literal handling.
func NewBuilder() Builder {
	return Builder{}
}

// WithStrictLiterals makes out-of-range register numbers and constants a
// diagnostic instead of degrading them to instr.Unused.
func (b Builder) WithStrictLiterals(strict bool) Builder {
	b.strictLiterals = strict
	return b
}

// WithLogger sets the logger. The default logger is used otherwise.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// Build creates a parser reading from src.
func (b Builder) Build(src TokenSource) *Parser {
	return &Parser{
		src:    src,
		strict: b.strictLiterals,
		log:    util.LoggerOrDefault(b.logger),
	}
}

// Parse parses src with default settings.
func Parse(src TokenSource) Outcome {
	return NewBuilder().Build(src).ParseAll()
}

// Parser is a single-lookahead recursive-descent parser.
type Parser struct {
	src    TokenSource
	strict bool
	log    *slog.Logger

	lookahead lexer.Token
	primed    bool

	list  instr.List
	diags []Diagnostic
}

// lineError aborts the statement being parsed.
type lineError struct {
	tok  lexer.Token
	kind DiagnosticKind
	msg  string
}

func (e *lineError) Error() string {
	return e.msg
}

// ParseAll consumes the token source to the end and returns what it parsed.
// The returned list belongs to the caller; the parser keeps no reference.
func (p *Parser) ParseAll() Outcome {
	if !p.primed {
		p.advance()
		p.primed = true
	}

	for p.lookahead.Kind != lexer.KindEOF {
		if p.lookahead.Kind == lexer.KindEOL {
			p.advance()
			continue
		}

		inst, err := p.parseStatement()
		if err != nil {
			p.report(err)
			p.skipLine()
			continue
		}

		p.list = append(p.list, inst)
	}

	out := Outcome{Instructions: p.list, Diagnostics: p.diags}
	p.list = nil
	p.diags = nil

	p.log.Debug("parse finished",
		"instructions", len(out.Instructions),
		"diagnostics", len(out.Diagnostics),
	)

	return out
}

func (p *Parser) advance() {
	p.lookahead = p.src.NextToken()
}

func (p *Parser) report(err *lineError) {
	kind := err.kind
	if kind == Syntax && err.tok.Kind == lexer.KindError {
		kind = Lexical
	}

	d := Diagnostic{Line: err.tok.Line, Kind: kind, Message: err.msg}
	p.diags = append(p.diags, d)

	p.log.Debug("parse error", "line", d.Line, "kind", d.Kind.String(), "msg", d.Message)
}

// skipLine discards tokens through the next EOL, leaving EOF in place.
func (p *Parser) skipLine() {
	for !p.lookahead.Kind.EndsLine() {
		p.advance()
	}
	if p.lookahead.Kind == lexer.KindEOL {
		p.advance()
	}
}

func (p *Parser) parseStatement() (instr.Inst, *lineError) {
	first := p.lookahead

	op, ok := first.Kind.Opcode()
	if !ok {
		return instr.Inst{}, &lineError{
			tok: first,
			msg: fmt.Sprintf("unexpected token `%s`", first.Lexeme),
		}
	}

	inst := instr.NewInst(first.Line, op)
	name := op.Mnemonic()
	p.advance()

	var err *lineError
	switch op {
	case instr.Load, instr.Store:
		err = p.sequence(
			func() *lineError { return p.register(&inst, instr.Slot1, "source register after "+name) },
			func() *lineError { return p.expect(lexer.KindArrow, "'=>' after source register in "+name) },
			func() *lineError { return p.register(&inst, instr.Slot3, "destination register after '=>' in "+name) },
		)
	case instr.LoadI:
		err = p.sequence(
			func() *lineError { return p.constant(&inst, instr.Slot1, "constant after "+name) },
			func() *lineError { return p.expect(lexer.KindArrow, "'=>' after constant in "+name) },
			func() *lineError { return p.register(&inst, instr.Slot3, "destination register after '=>' in "+name) },
		)
	case instr.Add, instr.Sub, instr.Mult, instr.LShift, instr.RShift:
		err = p.sequence(
			func() *lineError { return p.register(&inst, instr.Slot1, "first source register in "+name) },
			func() *lineError { return p.expect(lexer.KindComma, "',' after first source register in "+name) },
			func() *lineError { return p.register(&inst, instr.Slot2, "second source register in "+name) },
			func() *lineError { return p.expect(lexer.KindArrow, "'=>' after second source register in "+name) },
			func() *lineError { return p.register(&inst, instr.Slot3, "destination register in "+name) },
		)
	case instr.Output:
		err = p.constant(&inst, instr.Slot1, "constant after "+name)
	case instr.Nop:
	}

	if err == nil {
		err = p.endOfLine(name)
	}
	if err != nil {
		return instr.Inst{}, err
	}

	return inst, nil
}

func (p *Parser) sequence(steps ...func() *lineError) *lineError {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) expected(what string) *lineError {
	return &lineError{
		tok: p.lookahead,
		msg: fmt.Sprintf("expected %s, found %s", what, describe(p.lookahead)),
	}
}

func (p *Parser) expect(kind lexer.Kind, what string) *lineError {
	if p.lookahead.Kind != kind {
		return p.expected(what)
	}
	p.advance()
	return nil
}

func (p *Parser) register(inst *instr.Inst, slot int, what string) *lineError {
	tok := p.lookahead
	if tok.Kind != lexer.KindRegister {
		return p.expected(what)
	}

	v, err := p.number(tok, tok.Lexeme[1:], "register")
	if err != nil {
		return err
	}

	inst.Slots[slot].Structural = v
	p.advance()
	return nil
}

func (p *Parser) constant(inst *instr.Inst, slot int, what string) *lineError {
	tok := p.lookahead
	if tok.Kind != lexer.KindConstant {
		return p.expected(what)
	}

	v, err := p.number(tok, tok.Lexeme, "constant")
	if err != nil {
		return err
	}

	inst.Slots[slot].Structural = v
	p.advance()
	return nil
}

// number converts the digits of a register or constant. Values outside the
// 32-bit signed range become instr.Unused unless strict literals are on.
func (p *Parser) number(tok lexer.Token, digits, what string) (int, *lineError) {
	v, err := strconv.ParseInt(digits, 10, 32)
	if err == nil {
		return int(v), nil
	}

	if p.strict {
		return 0, &lineError{
			tok:  tok,
			kind: Literal,
			msg:  fmt.Sprintf("%s `%s` is out of range", what, tok.Lexeme),
		}
	}

	p.log.Warn("literal out of range, using sentinel",
		"line", tok.Line, "lexeme", tok.Lexeme, "sentinel", instr.Unused)

	return instr.Unused, nil
}

func (p *Parser) endOfLine(name string) *lineError {
	switch p.lookahead.Kind {
	case lexer.KindEOL:
		p.advance()
		return nil
	case lexer.KindEOF:
		return nil
	default:
		return p.expected("end of line after " + name)
	}
}

func describe(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.KindEOL:
		return "end of line"
	case lexer.KindEOF:
		return "end of input"
	default:
		return "`" + tok.Lexeme + "`"
	}
}
