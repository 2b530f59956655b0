// Package lexer turns ILOC source text into tokens. Input is consumed in
// fixed-size blocks; newlines are significant and come out as EOL tokens.
package lexer

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/sarchlab/iloc/instr"
)

// DefaultBlockSize is the refill size used when none is configured.
const DefaultBlockSize = 16 * 1024

// ErrSourceUnavailable is matched by errors.Is when a source cannot be opened.
var ErrSourceUnavailable = errors.New("source unavailable")

// SourceError reports a source that could not be opened.
type SourceError struct {
	Name string
	Err  error
}

func (e *SourceError) Error() string {
	return "source unavailable: " + e.Name + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is makes every SourceError match ErrSourceUnavailable.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// Lexer produces tokens from a byte stream.
type Lexer struct {
	r      io.Reader
	closer io.Closer

	buf  []byte
	size int
	pos  int
	line int

	drained bool
	err     error
}

// New creates a lexer reading r in blocks of blockSize bytes. A
// non-positive blockSize selects DefaultBlockSize.
func New(r io.Reader, blockSize int) *Lexer {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	return &Lexer{
		r:    r,
		buf:  make([]byte, blockSize),
		line: 1,
	}
}

// Open creates a lexer over the named file. The returned lexer must be
// closed. Failure to open the file yields a *SourceError.
func Open(path string, blockSize int) (*Lexer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(&SourceError{Name: path, Err: err})
	}

	l := New(f, blockSize)
	l.closer = f

	return l, nil
}

// Close releases the underlying source if the lexer opened it.
func (l *Lexer) Close() error {
	if l.closer == nil {
		return nil
	}

	err := l.closer.Close()
	l.closer = nil

	return errors.Wrap(err, "close source")
}

// Err returns the read error that ended input early, if any.
func (l *Lexer) Err() error {
	return l.err
}

// Line returns the line the lexer is currently on.
func (l *Lexer) Line() int {
	return l.line
}

func (l *Lexer) fill() bool {
	if l.drained {
		return false
	}

	n, err := io.ReadFull(l.r, l.buf)
	l.size = n
	l.pos = 0

	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		l.drained = true
	default:
		l.drained = true
		l.err = errors.Wrapf(err, "read line %d", l.line)
	}

	return n > 0
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= l.size && !l.fill() {
		return 0, false
	}
	return l.buf[l.pos], true
}

func (l *Lexer) advance() {
	if l.buf[l.pos] == '\n' {
		l.line++
	}
	l.pos++
}

func (l *Lexer) skipBlanks() {
	for {
		c, ok := l.peek()
		if !ok || !isBlank(c) {
			return
		}
		l.advance()
	}
}

func (l *Lexer) skipComment() {
	for {
		c, ok := l.peek()
		if !ok || c == '\n' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) take(accept func(byte) bool) string {
	var lexeme []byte
	for {
		c, ok := l.peek()
		if !ok || !accept(c) {
			return string(lexeme)
		}
		lexeme = append(lexeme, c)
		l.advance()
	}
}

// NextToken returns the next token. Once input is exhausted every call
// returns an EOF token.
func (l *Lexer) NextToken() Token {
	for {
		l.skipBlanks()

		c, ok := l.peek()
		if !ok {
			return Token{Kind: KindEOF, Line: l.line}
		}

		line := l.line

		switch {
		case c == '\n':
			l.advance()
			return Token{Kind: KindEOL, Line: line, Lexeme: `\n`}
		case c == '/':
			l.advance()
			if next, ok := l.peek(); ok && next == '/' {
				l.skipComment()
				continue
			}
			return Token{Kind: KindError, Line: line, Lexeme: "/"}
		case c == ',':
			l.advance()
			return Token{Kind: KindComma, Line: line, Lexeme: ","}
		case c == '=':
			l.advance()
			if next, ok := l.peek(); ok && next == '>' {
				l.advance()
				return Token{Kind: KindArrow, Line: line, Lexeme: "=>"}
			}
			return Token{Kind: KindError, Line: line, Lexeme: "="}
		case isLetter(c):
			return classifyWord(l.take(isAlnum), line)
		case isDigit(c):
			return Token{Kind: KindConstant, Line: line, Lexeme: l.take(isDigit)}
		default:
			l.advance()
			return Token{Kind: KindError, Line: line, Lexeme: string([]byte{c})}
		}
	}
}

// Tokens drains the lexer and returns every token before EOF.
func (l *Lexer) Tokens() []Token {
	var toks []Token
	for {
		t := l.NextToken()
		if t.Kind == KindEOF {
			return toks
		}
		toks = append(toks, t)
	}
}

func classifyWord(word string, line int) Token {
	if isRegisterName(word) {
		return Token{Kind: KindRegister, Line: line, Lexeme: word}
	}
	if op, ok := instr.Lookup(word); ok {
		return Token{Kind: Kind(op), Line: line, Lexeme: word}
	}
	return Token{Kind: KindError, Line: line, Lexeme: word}
}

func isRegisterName(word string) bool {
	if len(word) < 2 || word[0] != 'r' {
		return false
	}
	for i := 1; i < len(word); i++ {
		if !isDigit(word[i]) {
			return false
		}
	}
	return true
}

func isBlank(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlnum(c byte) bool {
	return isLetter(c) || isDigit(c)
}
