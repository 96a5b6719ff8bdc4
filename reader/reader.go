// Package reader implements a positional character source over an
// immutable string: the Character Reader at the bottom of the parsing
// pipeline. It tracks a (cursor, row, col) triple and offers both
// single-character and pattern-level consumption, with atomic rollback
// on failed pattern matches.
package reader

import (
	"errors"
	"regexp"
	"strings"
)

// ErrUnexpectedEOF is returned by ReadTo when its pattern never
// appears before the end of input.
var ErrUnexpectedEOF = errors.New("reader: unexpected EOF")

// noneRune is the sentinel returned by Read at end of input.
const noneRune = -1

// Reader is a positional character source over a normalized input
// string. The zero value is not usable; construct with New.
type Reader struct {
	src string

	cursor int // byte offset of the next character to read
	row    int // 1-based row of the next character to read
	col    int // 1-based col of the next character to read
}

// New returns a Reader over s, after normalizing line endings so that
// "\r\n" and "\r" both collapse to "\n".
func New(s string) *Reader {
	return &Reader{
		src: normalizeLineEndings(s),
		row: 1,
		col: 1,
	}
}

func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\r' {
			b.WriteByte('\n')
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// GetRow reports the 1-based row of the next character to be read.
func (r *Reader) GetRow() int { return r.row }

// GetCol reports the 1-based col of the next character to be read.
func (r *Reader) GetCol() int { return r.col }

// EOF reports whether the cursor is at the end of input.
func (r *Reader) EOF() bool { return r.cursor >= len(r.src) }

type pos struct {
	cursor, row, col int
}

func (r *Reader) save() pos { return pos{r.cursor, r.row, r.col} }

func (r *Reader) restore(p pos) {
	r.cursor, r.row, r.col = p.cursor, p.row, p.col
}

// advance moves the cursor/row/col past the n bytes of s, which must
// equal r.src[r.cursor : r.cursor+len(s)].
func (r *Reader) advance(s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			r.row++
			r.col = 1
		} else {
			r.col++
		}
	}
	r.cursor += len(s)
}

// Read returns the next character and advances the cursor. At EOF it
// returns a null sentinel (rune -1) and does not advance.
func (r *Reader) Read() rune {
	if r.EOF() {
		return noneRune
	}
	c := r.src[r.cursor]
	r.advance(r.src[r.cursor : r.cursor+1])
	return rune(c)
}

// ReadCount returns the next up-to-n characters, fewer at EOF.
func (r *Reader) ReadCount(n int) string {
	end := r.cursor + n
	if end > len(r.src) {
		end = len(r.src)
	}
	s := r.src[r.cursor:end]
	r.advance(s)
	return s
}

// ReadTo reads characters until the consumed text ends with pattern,
// inclusive of pattern. It fails with ErrUnexpectedEOF (leaving the
// cursor unchanged) if pattern never appears in the remaining input.
func (r *Reader) ReadTo(pattern string) (string, error) {
	idx := strings.Index(r.src[r.cursor:], pattern)
	if idx < 0 {
		return "", ErrUnexpectedEOF
	}
	s := r.src[r.cursor : r.cursor+idx+len(pattern)]
	r.advance(s)
	return s, nil
}

// ReadWhile reads characters while predicate holds, stopping at the
// first non-matching character or EOF; that character (if any) is
// left unread.
func (r *Reader) ReadWhile(predicate func(c rune) bool) string {
	start := r.cursor
	for !r.EOF() {
		c := rune(r.src[r.cursor])
		if !predicate(c) {
			break
		}
		r.advance(r.src[r.cursor : r.cursor+1])
	}
	return r.src[start:r.cursor]
}

// ReadMatch atomically tries to consume a literal prefix or a regular
// expression match (anchored implicitly at the cursor) from the
// remaining input. On success it consumes exactly the matched text and
// returns it with ok=true. On failure it leaves the reader completely
// unchanged and returns ok=false.
//
// pattern may be a *regexp.Regexp, in which case it is matched against
// the remaining input (callers are expected to have anchored it with
// "^" if they rely on the match starting at the cursor â€” FindString
// on the remaining-input slice always does, since regexp has no notion
// of "the rest of the string starting elsewhere").
func (r *Reader) ReadMatch(pattern interface{}) (string, bool) {
	rest := r.src[r.cursor:]
	switch p := pattern.(type) {
	case string:
		if strings.HasPrefix(rest, p) {
			r.advance(p)
			return p, true
		}
		return "", false
	case *regexp.Regexp:
		loc := p.FindStringIndex(rest)
		if loc == nil || loc[0] != 0 {
			return "", false
		}
		s := rest[:loc[1]]
		r.advance(s)
		return s, true
	default:
		panic("reader: ReadMatch: pattern must be a string or *regexp.Regexp")
	}
}

// Pos captures the reader's current (row, col) for snapshotting by
// callers that need to remember where a token started.
func (r *Reader) Pos() (row, col int) { return r.row, r.col }
