package css

import (
	"github.com/mattiacci/parser-lib/reader"
	"github.com/mattiacci/parser-lib/tokenstream"
)

// SyntaxError is a grammar-level error: the parser saw a token it
// could not fit into the current production. It is an alias of
// tokenstream's error so callers never need to import that package
// just to type-assert on errors coming out of Parse.
type SyntaxError = tokenstream.SyntaxError

// ReaderError wraps reader.ErrUnexpectedEOF for token kinds that scan
// ahead for a closing delimiter (comments, mainly): if the delimiter
// is never found, there is no sensible fallback token to produce, so
// the scan raises this instead of quietly returning Unrecognized.
// Per spec, it is presented to callers the same way a SyntaxError is.
type ReaderError struct {
	Line, Col int
	Err       error
}

func (e *ReaderError) Error() string {
	return reader.ErrUnexpectedEOF.Error()
}

func (e *ReaderError) Unwrap() error { return e.Err }
