// Package tokenstream layers a generic, table-driven tokenizer over a
// reader.Reader: the Token Stream. It offers bounded bidirectional
// lookahead/lookback (LA/LT), hidden-token elision, and transparent
// push-back (Unget), on top of a static, priority-ordered table of
// token descriptors supplied by the caller.
package tokenstream

import (
	"github.com/mattiacci/parser-lib/reader"
)

// Token is a single tokenization result: a descriptor type, the
// matched text, and the source span it occupies.
type Token struct {
	Type     TokenType
	Value    string
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Stream tokenizes a reader.Reader against a Table, with a bounded
// lookahead/pushback buffer of at most MaxLookahead tokens.
type Stream struct {
	r     *reader.Reader
	table *Table

	// lt is the lookahead buffer: lt[ltIndex-1] is the current token
	// (the last one returned by Get), and ltIndex is the insertion
	// slot for the next freshly-scanned token. ltIndex == len(lt)
	// means no unconsumed lookahead is buffered (normal forward
	// progress); ltIndex < len(lt) means Unget has rewound into
	// already-buffered tokens.
	lt      []Token
	ltIndex int

	token Token // cached result of the most recent Get/Unget
}

// New returns a Stream tokenizing r against table.
func New(r *reader.Reader, table *Table) *Stream {
	return &Stream{r: r, table: table}
}

// Table returns the stream's token table.
func (s *Stream) Table() *Table { return s.table }

// Token returns the most recently produced token (the "_token" of
// spec.md): the result of the last Get or Unget call.
func (s *Stream) Token() Token { return s.token }

// Get returns the type of the next token, consulting the buffered
// lookahead first and scanning fresh input otherwise. Hidden tokens
// (descriptors with Hide set) are elided transparently.
func (s *Stream) Get() TokenType {
	if s.ltIndex < len(s.lt) {
		tok := s.lt[s.ltIndex]
		s.ltIndex++
		s.token = tok
		return tok.Type
	}

	tok := s.scanOne()
	s.lt = append(s.lt, tok)
	if len(s.lt) > MaxLookahead {
		s.lt = s.lt[1:]
	}
	s.ltIndex = len(s.lt)
	s.token = tok
	return tok.Type
}

// scanOne scans exactly one non-hidden token from the reader, eliding
// hidden tokens by recursing.
func (s *Stream) scanOne() Token {
	startRow, startCol := s.r.Pos()

	for _, d := range s.table.Defs {
		var value string
		var ok bool
		typ := d.Type
		switch d.Kind {
		case KindLiteral:
			value, ok = s.r.ReadMatch(d.Literal)
		case KindPattern:
			value, ok = s.r.ReadMatch(d.Pattern)
		case KindCustom:
			value, typ, ok = d.Match(s.r)
		}
		if !ok {
			continue
		}
		if d.Hide {
			return s.scanOne()
		}
		endRow, endCol := s.r.Pos()
		return Token{
			Type:     typ,
			Value:    value,
			StartRow: startRow,
			StartCol: startCol,
			EndRow:   endRow,
			EndCol:   endCol,
		}
	}

	// No descriptor matched: produce a single-character Unrecognized
	// token so the grammar can surface a precise error later.
	c := s.r.Read()
	endRow, endCol := s.r.Pos()
	return Token{
		Type:     Unrecognized,
		Value:    string(c),
		StartRow: startRow,
		StartCol: startCol,
		EndRow:   endRow,
		EndCol:   endCol,
	}
}

// Unget pushes the current token back, so the next Get returns it
// again. It fails (returning a non-nil *ErrTooMuchLookbehind) if there
// is nothing to unget.
func (s *Stream) Unget() error {
	if s.ltIndex <= 0 {
		return &ErrTooMuchLookbehind{Requested: -1}
	}
	s.ltIndex--
	if s.ltIndex > 0 {
		s.token = s.lt[s.ltIndex-1]
	} else {
		s.token = Token{}
	}
	return nil
}

// Peek reports the type of the current token without consuming
// anything further: equivalent to LA(0).
func (s *Stream) Peek() TokenType { return s.token.Type }

// LA reports the type that would be observed k tokens from the
// current position. LA(0) is the current token's type. LA(k) for k>0
// looks k tokens ahead (consuming and then ungetting k times); it
// panics with *ErrTooMuchLookahead if k exceeds MaxLookahead. LA(k)
// for k<0 inspects the already-buffered lookahead directly; it panics
// with *ErrTooMuchLookbehind if that slot has been evicted.
func (s *Stream) LA(k int) TokenType {
	return s.lookahead(k).Type
}

// LT is LA's counterpart returning the full Token instead of just its
// type.
func (s *Stream) LT(k int) Token {
	return s.lookahead(k)
}

func (s *Stream) lookahead(k int) Token {
	switch {
	case k == 0:
		return s.token
	case k < 0:
		idx := s.ltIndex + k
		if idx < 0 || idx >= len(s.lt) {
			panic(&ErrTooMuchLookbehind{Requested: k})
		}
		return s.lt[idx]
	default:
		if k > MaxLookahead {
			panic(&ErrTooMuchLookahead{Requested: k})
		}
		for i := 0; i < k; i++ {
			s.Get()
		}
		result := s.token
		for i := 0; i < k; i++ {
			if err := s.Unget(); err != nil {
				panic(err)
			}
		}
		return result
	}
}

// Match performs a single Get; on a type hit it returns the consumed
// token with ok=true. On a miss it ungets and returns ok=false,
// leaving the stream's observable state exactly as it was before the
// call.
func (s *Stream) Match(types ...TokenType) (Token, bool) {
	typ := s.Get()
	tok := s.token
	for _, t := range types {
		if t == typ {
			return tok, true
		}
	}
	if err := s.Unget(); err != nil {
		panic(err)
	}
	return tok, false
}

// MustMatch is Match that raises a *SyntaxError at the current
// lookahead token's position on a miss, instead of returning ok=false.
func (s *Stream) MustMatch(types ...TokenType) Token {
	tok, ok := s.Match(types...)
	if !ok {
		panic(&SyntaxError{
			Line:    tok.StartRow,
			Col:     tok.StartCol,
			Message: "unexpected token " + s.table.describeForError(tok),
		})
	}
	return tok
}

// Advance is panic-mode resync: it calls Get repeatedly until the
// consumed token's type is in syncSet or EOF is reached, and returns
// that type.
func (s *Stream) Advance(syncSet ...TokenType) TokenType {
	for {
		typ := s.Get()
		if typ == EOF {
			return typ
		}
		for _, want := range syncSet {
			if typ == want {
				return typ
			}
		}
	}
}

func (t *Table) describeForError(tok Token) string {
	if tok.Type == Unrecognized {
		return "unrecognized character " + quoteRune(tok.Value)
	}
	if name := t.Name(tok.Type); name != "" {
		return name
	}
	return "token"
}

func quoteRune(s string) string {
	if s == "" {
		return "<EOF>"
	}
	return "'" + s + "'"
}
