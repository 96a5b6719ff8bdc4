package tokenstream

import (
	"regexp"
	"testing"

	"github.com/mattiacci/parser-lib/reader"
)

const (
	tIdent TokenType = iota + 1
	tSpace
	tColon
	tSemicolon
	tComment
)

func testTable() *Table {
	return NewTable([]TokenDef{
		{Name: "COMMENT", Type: tComment, Kind: KindPattern, Pattern: regexp.MustCompile(`^/\*.*?\*/`), Hide: true},
		{Name: "S", Type: tSpace, Kind: KindPattern, Pattern: regexp.MustCompile(`^[ \t\n]+`)},
		{Name: "IDENT", Type: tIdent, Kind: KindPattern, Pattern: regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*`)},
		{Name: "COLON", Type: tColon, Kind: KindLiteral, Literal: ":"},
		{Name: "SEMICOLON", Type: tSemicolon, Kind: KindLiteral, Literal: ";"},
		{
			Name: "EOF", Type: EOF, Kind: KindCustom,
			Match: func(r *reader.Reader) (string, TokenType, bool) {
				if r.EOF() {
					return " ", EOF, true
				}
				return "", EOF, false
			},
		},
	})
}

func newStream(input string) *Stream {
	return New(reader.New(input), testTable())
}

func TestGetBasic(t *testing.T) {
	s := newStream("foo: bar;")
	var got []TokenType
	for {
		typ := s.Get()
		got = append(got, typ)
		if typ == EOF {
			break
		}
	}
	want := []TokenType{tIdent, tColon, tSpace, tIdent, tSemicolon, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestHiddenTokensElided(t *testing.T) {
	s := newStream("a/* c */b")
	first := s.Get()
	if first != tIdent || s.Token().Value != "a" {
		t.Fatalf("first token = %v %q", first, s.Token().Value)
	}
	second := s.Get()
	if second != tIdent || s.Token().Value != "b" {
		t.Fatalf("second token = %v %q, comment should have been elided", second, s.Token().Value)
	}
}

func TestUngetRestoresToken(t *testing.T) {
	s := newStream("a b")
	s.Get()
	firstTok := s.Token()
	s.Get() // space
	if err := s.Unget(); err != nil {
		t.Fatal(err)
	}
	if s.Token() != firstTok {
		t.Fatalf("unget did not restore the previous token: got %+v, want %+v", s.Token(), firstTok)
	}
	// Getting again must return the pushed-back space token.
	typ := s.Get()
	if typ != tSpace {
		t.Fatalf("re-get after unget = %v, want space", typ)
	}
}

func TestUngetUnderflow(t *testing.T) {
	s := newStream("a")
	if err := s.Unget(); err == nil {
		t.Fatalf("unget before any get should fail")
	}
}

func TestMatchAdvancesOnHit(t *testing.T) {
	s := newStream("a:")
	tok, ok := s.Match(tIdent)
	if !ok || tok.Value != "a" {
		t.Fatalf("Match(tIdent) = %+v, %v", tok, ok)
	}
	tok2, ok := s.Match(tColon)
	if !ok || tok2.Value != ":" {
		t.Fatalf("Match(tColon) = %+v, %v", tok2, ok)
	}
}

func TestMatchLeavesStateOnMiss(t *testing.T) {
	s := newStream("a:")
	before := s.Token()
	_, ok := s.Match(tColon)
	if ok {
		t.Fatalf("Match(tColon) should miss on leading ident")
	}
	if s.Token() != before {
		t.Fatalf("failed Match must leave _token unchanged: got %+v, want %+v", s.Token(), before)
	}
	// The stream must still be positioned so the next Get reproduces
	// the same token it tried and failed to match.
	typ := s.Get()
	if typ != tIdent || s.Token().Value != "a" {
		t.Fatalf("state not preserved after failed Match: got %v %q", typ, s.Token().Value)
	}
}

func TestMustMatchPanicsWithSyntaxError(t *testing.T) {
	s := newStream("a")
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected MustMatch to panic")
		}
		if _, ok := r.(*SyntaxError); !ok {
			t.Fatalf("expected *SyntaxError, got %T: %v", r, r)
		}
	}()
	s.MustMatch(tColon)
}

func TestLAPositiveLookahead(t *testing.T) {
	s := newStream("a b c")
	s.Get() // a
	if la := s.LA(1); la != tSpace {
		t.Fatalf("LA(1) = %v, want space", la)
	}
	if la := s.LA(2); la != tIdent {
		t.Fatalf("LA(2) = %v, want ident", la)
	}
	// LA must be read-only: repeating it returns the same result and
	// does not disturb forward Get progress.
	if la := s.LA(2); la != tIdent {
		t.Fatalf("LA(2) second call = %v, want ident (read-only)", la)
	}
	typ := s.Get()
	if typ != tSpace {
		t.Fatalf("Get() after LA = %v, want space (LA must not consume)", typ)
	}
}

func TestLATooMuchLookahead(t *testing.T) {
	s := newStream("a")
	defer func() {
		r := recover()
		if _, ok := r.(*ErrTooMuchLookahead); !ok {
			t.Fatalf("expected *ErrTooMuchLookahead, got %T: %v", r, r)
		}
	}()
	s.LA(16)
}

func TestLANegativeLookbehind(t *testing.T) {
	s := newStream("a b c")
	s.Get() // a
	s.Get() // space
	s.Get() // b
	// LA(-1) inspects lt[ltIndex-1], which is the current token.
	if la := s.LA(-1); la != tIdent {
		t.Fatalf("LA(-1) = %v", la)
	}
}

func TestLATooMuchLookbehind(t *testing.T) {
	s := newStream("a")
	defer func() {
		r := recover()
		if _, ok := r.(*ErrTooMuchLookbehind); !ok {
			t.Fatalf("expected *ErrTooMuchLookbehind, got %T: %v", r, r)
		}
	}()
	s.LA(-5)
}

func TestAdvanceSyncsToSet(t *testing.T) {
	s := newStream("a b c; d")
	typ := s.Advance(tSemicolon)
	if typ != tSemicolon {
		t.Fatalf("Advance = %v, want semicolon", typ)
	}
	// Parsing resumes after the semicolon.
	next := s.Get()
	if next != tSpace {
		t.Fatalf("next after Advance = %v, want space", next)
	}
}

func TestAdvanceStopsAtEOF(t *testing.T) {
	s := newStream("a b c")
	typ := s.Advance(tSemicolon)
	if typ != EOF {
		t.Fatalf("Advance with no matching sync token = %v, want EOF", typ)
	}
}

func TestLookaheadBufferBound(t *testing.T) {
	// 20 idents separated by spaces: exercise the 15-slot bound by
	// reading far enough ahead that the oldest entries are dropped.
	s := newStream("a b c d e f g h i j k l m n o p q r s t")
	for i := 0; i < 20; i++ {
		s.Get()
	}
	if len(s.lt) > MaxLookahead {
		t.Fatalf("lookahead buffer grew to %d, want <= %d", len(s.lt), MaxLookahead)
	}
}
