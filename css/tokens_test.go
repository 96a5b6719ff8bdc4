package css

import (
	"testing"

	"github.com/mattiacci/parser-lib/reader"
	"github.com/mattiacci/parser-lib/tokenstream"
)

func scanAll(input string) []tokenstream.Token {
	s := tokenstream.New(reader.New(input), newCSSTable())
	var toks []tokenstream.Token
	for {
		s.Get()
		tok := s.Token()
		toks = append(toks, tok)
		if tok.Type == tokenstream.EOF {
			return toks
		}
	}
}

func tokenTypes(toks []tokenstream.Token) []tokenstream.TokenType {
	types := make([]tokenstream.TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

var numericClassificationTests = []struct {
	input string
	want  tokenstream.TokenType
}{
	{"12", tNumber},
	{"12.5", tNumber},
	{".5", tNumber},
	{"50%", tPercentage},
	{"12px", tLength},
	{"1.5em", tEms},
	{"2ex", tExs},
	{"90deg", tAngle},
	{"1s", tTime},
	{"500ms", tTime},
	{"44hz", tFreq},
	{"96dpi", tResolution},
	{"5pxfoo", tDimension}, // unrecognized unit: whole run stays one DIMENSION token
	{"3vw", tDimension},
}

func TestMatchNumericClassification(t *testing.T) {
	for _, test := range numericClassificationTests {
		t.Run(test.input, func(t *testing.T) {
			toks := scanAll(test.input)
			if len(toks) != 2 { // the numeric token plus EOF
				t.Fatalf("scanAll(%q) = %v, want exactly one numeric token before EOF", test.input, tokenTypes(toks))
			}
			if toks[0].Type != test.want {
				t.Errorf("scanAll(%q)[0].Type = %v, want %v", test.input, toks[0].Type, test.want)
			}
			if toks[0].Value != test.input {
				t.Errorf("scanAll(%q)[0].Value = %q, want %q", test.input, toks[0].Value, test.input)
			}
		})
	}
}

func TestMatchIdentLikeClassification(t *testing.T) {
	tests := []struct {
		input string
		want  tokenstream.TokenType
	}{
		{"foo", tIdent},
		{"-moz-transform", tIdent},
		{"foo(", tFunction},
		{"not(", tNot},
		{`url(foo.png)`, tURI},
		{`url("foo.png")`, tURI},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			toks := scanAll(test.input)
			if toks[0].Type != test.want {
				t.Errorf("scanAll(%q)[0].Type = %v, want %v", test.input, toks[0].Type, test.want)
			}
		})
	}
}

func TestMatchAtKeywordClassification(t *testing.T) {
	tests := []struct {
		input string
		want  tokenstream.TokenType
	}{
		{"@media", tMediaSym},
		{"@charset", tCharsetSym},
		{"@import", tImportSym},
		{"@namespace", tNamespaceSym},
		{"@page", tPageSym},
		{"@font-face", tFontFaceSym},
		{"@top-left", tMarginSym},
		{"@made-up", tAtKeywordUnknown},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			toks := scanAll(test.input)
			if toks[0].Type != test.want {
				t.Errorf("scanAll(%q)[0].Type = %v, want %v", test.input, toks[0].Type, test.want)
			}
		})
	}
}

func TestCommentsAreHidden(t *testing.T) {
	toks := scanAll("a/* comment */b")
	got := tokenTypes(toks)
	want := []tokenstream.TokenType{tIdent, tIdent, tokenstream.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUnterminatedCommentPanics(t *testing.T) {
	defer func() {
		r := recover()
		if _, ok := r.(*ReaderError); !ok {
			t.Fatalf("expected *ReaderError, got %T: %v", r, r)
		}
	}()
	scanAll("/* never closed")
}

func TestUnicodeRangeParsing(t *testing.T) {
	tests := []struct {
		input          string
		wantLo, wantHi uint32
	}{
		{"U+0041", 0x41, 0x41},
		{"U+0041-005A", 0x41, 0x5A},
		{"U+4??", 0x400, 0x4ff},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			lo, hi := parseUnicodeRange(test.input)
			if lo != test.wantLo || hi != test.wantHi {
				t.Errorf("parseUnicodeRange(%q) = (%x, %x), want (%x, %x)", test.input, lo, hi, test.wantLo, test.wantHi)
			}
		})
	}
}

func TestCSSUnescape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{`\41`, "A"},
		{`\41 x`, "Ax"},
		{`\.foo`, ".foo"},
		{"line\\\ncontinued", "linecontinued"},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if got := cssUnescape(test.input); got != test.want {
				t.Errorf("cssUnescape(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}
