package api

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/sarchlab/iloc/lexer"
)

// SourceOpener opens a named ILOC source for reading.
type SourceOpener interface {
	Open(name string) (io.ReadCloser, error)
}

type fileOpener struct{}

// Open opens a file. Failures match lexer.ErrSourceUnavailable.
func (fileOpener) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.WithStack(&lexer.SourceError{Name: name, Err: err})
	}

	return f, nil
}
