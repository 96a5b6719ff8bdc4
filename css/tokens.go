package css

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mattiacci/parser-lib/cssast"
	"github.com/mattiacci/parser-lib/reader"
	"github.com/mattiacci/parser-lib/tokenstream"
)

// TokenType values, one per token kind the CSS table can produce
// (several are resolved by a single custom-matcher descriptor), plus
// the reserved EOF (0) and Unrecognized (-1) from tokenstream.
const (
	tIdent tokenstream.TokenType = iota + 1
	tFunction
	tNot
	tURI
	tCharsetSym
	tMediaSym
	tImportSym
	tNamespaceSym
	tPageSym
	tFontFaceSym
	tMarginSym
	tAtKeywordUnknown
	tString
	tNumber
	tPercentage
	tLength
	tEms
	tExs
	tAngle
	tTime
	tFreq
	tResolution
	tDimension
	tUnicodeRange
	tIEFunction
	tS
	tComment
	tCDO
	tCDC
	tComma
	tColon
	tSemicolon
	tDot
	tStar
	tPlus
	tMinus
	tSlash
	tEquals
	tPipe
	tGreater
	tTilde
	tLBrace
	tRBrace
	tLBracket
	tRBracket
	tLParen
	tRParen
	tHash
	tPrefixMatch
	tSuffixMatch
	tSubstringMatch
	tIncludes
	tDashMatch
	tImportantSym
)

// Character-class building blocks straight out of the CSS2.1 grammar
// (appendix G), combined by string concatenation rather than named
// sub-patterns since Go's regexp doesn't support the latter.
const (
	reNonASCII      = `[^\x00-\x7F]`
	reUnicodeEscape = `\\[0-9a-fA-F]{1,6}[ \t\r\n\f]?`
	reOtherEscape   = `\\[^\r\n\f0-9a-fA-F]`
	reEscape        = `(?:` + reUnicodeEscape + `|` + reOtherEscape + `)`
	reNMStart       = `(?:[_a-zA-Z]|` + reNonASCII + `|` + reEscape + `)`
	reNMChar        = `(?:[_a-zA-Z0-9-]|` + reNonASCII + `|` + reEscape + `)`
	reIdentBody     = `-?` + reNMStart + reNMChar + `*`
	reName          = reNMChar + `+`
	reNum           = `(?:[0-9]+\.[0-9]+|[0-9]+|\.[0-9]+)`
	reString1       = `"(?:[^\n\r\f\\"]|\\(?:\r\n|[\n\r\f])|` + reEscape + `)*"`
	reString2       = `'(?:[^\n\r\f\\']|\\(?:\r\n|[\n\r\f])|` + reEscape + `)*'`
	reW             = `[ \t\r\n\f]*`
)

var (
	reIdent      = regexp.MustCompile(`^` + reIdentBody)
	reNameOnly   = regexp.MustCompile(`^` + reName)
	reAtKeyword  = regexp.MustCompile(`^@` + reIdentBody)
	reStringTok  = regexp.MustCompile(`^(?:` + reString1 + `|` + reString2 + `)`)
	reNumberOnly = regexp.MustCompile(`^` + reNum)
	reUnitName   = regexp.MustCompile(`^[a-zA-Z]+`)
	reUnicodeRange = regexp.MustCompile(`(?i)^u\+[0-9a-f?]{1,6}(?:-[0-9a-f]{1,6})?`)
	reIEFunction = regexp.MustCompile(`(?i)^progid:` + reIdentBody + `(?:\.` + reIdentBody + `)*\(`)
)

var unitTokenTypes = map[string]tokenstream.TokenType{
	"em": tEms, "ex": tExs,
	"px": tLength, "cm": tLength, "mm": tLength, "in": tLength, "pt": tLength, "pc": tLength, "q": tLength,
	"deg": tAngle, "grad": tAngle, "rad": tAngle, "turn": tAngle,
	"s": tTime, "ms": tTime,
	"hz": tFreq, "khz": tFreq,
	"dpi": tResolution, "dpcm": tResolution, "dppx": tResolution,
}

var atKeywordTypes = map[string]tokenstream.TokenType{
	"@charset":    tCharsetSym,
	"@media":      tMediaSym,
	"@import":     tImportSym,
	"@namespace":  tNamespaceSym,
	"@page":       tPageSym,
	"@font-face":  tFontFaceSym,
}

// newCSSTable builds the static, priority-ordered token table the CSS
// grammar engine tokenizes against. More specific descriptors are
// listed ahead of the general ones they would otherwise be shadowed
// by (DASHMATCH before PIPE, CDC before MINUS, and so on).
func newCSSTable() *tokenstream.Table {
	return tokenstream.NewTable([]tokenstream.TokenDef{
		{Name: "COMMENT", Type: tComment, Kind: tokenstream.KindCustom, Match: matchComment, Hide: true},
		{Name: "S", Type: tS, Kind: tokenstream.KindPattern, Pattern: regexp.MustCompile(`^[ \t\r\n\f]+`)},

		{Name: "CDO", Type: tCDO, Kind: tokenstream.KindLiteral, Literal: "<!--"},
		{Name: "CDC", Type: tCDC, Kind: tokenstream.KindLiteral, Literal: "-->"},

		{Name: "IMPORTANT_SYM", Type: tImportantSym, Kind: tokenstream.KindPattern, Pattern: regexp.MustCompile(`(?i)^!` + reW + `important`)},

		{Name: "AT_KEYWORD", Type: tAtKeywordUnknown, Kind: tokenstream.KindCustom, Match: matchAtKeyword},
		{Name: "IE_FUNCTION", Type: tIEFunction, Kind: tokenstream.KindPattern, Pattern: reIEFunction},
		{Name: "UNICODE_RANGE", Type: tUnicodeRange, Kind: tokenstream.KindCustom, Match: matchUnicodeRange},
		{Name: "IDENT_LIKE", Type: tIdent, Kind: tokenstream.KindCustom, Match: matchIdentLike},

		{Name: "STRING", Type: tString, Kind: tokenstream.KindPattern, Pattern: reStringTok},
		{Name: "NUMERIC", Type: tNumber, Kind: tokenstream.KindCustom, Match: matchNumeric},
		{Name: "HASH", Type: tHash, Kind: tokenstream.KindPattern, Pattern: regexp.MustCompile(`^#` + reName)},

		{Name: "DASHMATCH", Type: tDashMatch, Kind: tokenstream.KindLiteral, Literal: "|="},
		{Name: "INCLUDES", Type: tIncludes, Kind: tokenstream.KindLiteral, Literal: "~="},
		{Name: "PREFIXMATCH", Type: tPrefixMatch, Kind: tokenstream.KindLiteral, Literal: "^="},
		{Name: "SUFFIXMATCH", Type: tSuffixMatch, Kind: tokenstream.KindLiteral, Literal: "$="},
		{Name: "SUBSTRINGMATCH", Type: tSubstringMatch, Kind: tokenstream.KindLiteral, Literal: "*="},

		{Name: "COMMA", Type: tComma, Kind: tokenstream.KindLiteral, Literal: ","},
		{Name: "COLON", Type: tColon, Kind: tokenstream.KindLiteral, Literal: ":"},
		{Name: "SEMICOLON", Type: tSemicolon, Kind: tokenstream.KindLiteral, Literal: ";"},
		{Name: "DOT", Type: tDot, Kind: tokenstream.KindLiteral, Literal: "."},
		{Name: "STAR", Type: tStar, Kind: tokenstream.KindLiteral, Literal: "*"},
		{Name: "PLUS", Type: tPlus, Kind: tokenstream.KindLiteral, Literal: "+"},
		{Name: "MINUS", Type: tMinus, Kind: tokenstream.KindLiteral, Literal: "-"},
		{Name: "SLASH", Type: tSlash, Kind: tokenstream.KindLiteral, Literal: "/"},
		{Name: "EQUALS", Type: tEquals, Kind: tokenstream.KindLiteral, Literal: "="},
		{Name: "PIPE", Type: tPipe, Kind: tokenstream.KindLiteral, Literal: "|"},
		{Name: "GREATER", Type: tGreater, Kind: tokenstream.KindLiteral, Literal: ">"},
		{Name: "TILDE", Type: tTilde, Kind: tokenstream.KindLiteral, Literal: "~"},
		{Name: "LBRACE", Type: tLBrace, Kind: tokenstream.KindLiteral, Literal: "{"},
		{Name: "RBRACE", Type: tRBrace, Kind: tokenstream.KindLiteral, Literal: "}"},
		{Name: "LBRACKET", Type: tLBracket, Kind: tokenstream.KindLiteral, Literal: "["},
		{Name: "RBRACKET", Type: tRBracket, Kind: tokenstream.KindLiteral, Literal: "]"},
		{Name: "LPAREN", Type: tLParen, Kind: tokenstream.KindLiteral, Literal: "("},
		{Name: "RPAREN", Type: tRParen, Kind: tokenstream.KindLiteral, Literal: ")"},

		{
			Name: "EOF", Type: tokenstream.EOF, Kind: tokenstream.KindCustom,
			Match: func(r *reader.Reader) (string, tokenstream.TokenType, bool) {
				if r.EOF() {
					return "", tokenstream.EOF, true
				}
				return "", tokenstream.EOF, false
			},
		},
	})
}

// matchComment consumes "/* ... */", panicking with *ReaderError if
// the closing delimiter is never found: there is no fallback token an
// unterminated comment could sensibly become.
func matchComment(r *reader.Reader) (string, tokenstream.TokenType, bool) {
	startRow, startCol := r.Pos()
	open, ok := r.ReadMatch("/*")
	if !ok {
		return "", tComment, false
	}
	body, err := r.ReadTo("*/")
	if err != nil {
		panic(&ReaderError{Line: startRow, Col: startCol, Err: err})
	}
	return open + body + "*/", tComment, true
}

// matchAtKeyword consumes "@" followed by an identifier and classifies
// it into one of the named at-rule symbols, a margin-box symbol, or
// the catch-all unknown-at-keyword type the grammar rejects.
func matchAtKeyword(r *reader.Reader) (string, tokenstream.TokenType, bool) {
	text, ok := r.ReadMatch(reAtKeyword)
	if !ok {
		return "", tAtKeywordUnknown, false
	}
	lower := strings.ToLower(text)
	if tt, ok := atKeywordTypes[lower]; ok {
		return text, tt, true
	}
	if _, ok := cssast.MarginBoxByName(lower); ok {
		return text, tMarginSym, true
	}
	return text, tAtKeywordUnknown, true
}

// matchIdentLike scans an identifier and classifies it as a bare
// IDENT, a FUNCTION ("name("), a URI ("url(...)"), or NOT
// (":not("'s keyword, recognized here rather than as a generic
// FUNCTION so the selector grammar can dispatch on it directly).
// Grounded on the teacher's identLike/url scanning, generalized from
// rune-switch dispatch to the table's regex-driven matching.
func matchIdentLike(r *reader.Reader) (string, tokenstream.TokenType, bool) {
	name, ok := r.ReadMatch(reIdent)
	if !ok {
		return "", tIdent, false
	}
	paren, ok := r.ReadMatch("(")
	if !ok {
		return name, tIdent, true
	}
	lower := strings.ToLower(name)
	if lower == "url" {
		rest := readURLContents(r)
		return name + paren + rest, tURI, true
	}
	if lower == "not" {
		return name + paren, tNot, true
	}
	return name + paren, tFunction, true
}

// readURLContents consumes the body of a url(...) term after the
// opening paren has already been read: optional whitespace, a quoted
// string or a run of unquoted URL characters, optional whitespace,
// and the closing paren.
func readURLContents(r *reader.Reader) string {
	var b strings.Builder
	b.WriteString(r.ReadWhile(isCSSSpace))
	if s, ok := r.ReadMatch(reStringTok); ok {
		b.WriteString(s)
	} else {
		b.WriteString(r.ReadWhile(func(c rune) bool {
			switch c {
			case ' ', '\t', '\n', '\r', '\f', '"', '\'', '(', ')', '\\':
				return false
			}
			return true
		}))
	}
	b.WriteString(r.ReadWhile(isCSSSpace))
	if p, ok := r.ReadMatch(")"); ok {
		b.WriteString(p)
	}
	return b.String()
}

func isCSSSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// matchNumeric scans a number and, if one immediately follows, a unit
// or "%", classifying the result into NUMBER, PERCENTAGE, or one of
// the named dimension types, falling back to the generic DIMENSION
// type for an unrecognized unit. A single custom matcher is used
// instead of one pattern per unit because Go's regexp engine has no
// lookahead to stop a unit pattern from over-matching into the start
// of a following identifier.
func matchNumeric(r *reader.Reader) (string, tokenstream.TokenType, bool) {
	numText, ok := r.ReadMatch(reNumberOnly)
	if !ok {
		return "", tNumber, false
	}
	if pct, ok := r.ReadMatch("%"); ok {
		return numText + pct, tPercentage, true
	}
	if unit, ok := r.ReadMatch(reUnitName); ok {
		if tt, known := unitTokenTypes[strings.ToLower(unit)]; known {
			return numText + unit, tt, true
		}
		return numText + unit, tDimension, true
	}
	return numText, tNumber, true
}

// matchUnicodeRange recognizes CSS3 unicode-range tokens: "U+" then
// either 1-6 hex-or-"?" digits, or two hex runs joined by "-".
func matchUnicodeRange(r *reader.Reader) (string, tokenstream.TokenType, bool) {
	text, ok := r.ReadMatch(reUnicodeRange)
	if !ok {
		return "", tUnicodeRange, false
	}
	return text, tUnicodeRange, true
}

// parseUnicodeRange splits a "U+XXXX" or "U+XXXX-YYYY" token's text
// into its start/end code points, expanding any trailing "?" wildcard
// digits to their min/max range as CSS3 requires.
func parseUnicodeRange(text string) (start, end uint32) {
	body := text[2:] // strip "U+" / "u+"
	lo, hi, found := body, body, false
	if i := strings.IndexByte(body, '-'); i >= 0 {
		lo, hi = body[:i], body[i+1:]
		found = true
	}
	if !found && strings.ContainsRune(lo, '?') {
		loDigits := strings.ReplaceAll(lo, "?", "0")
		hiDigits := strings.ReplaceAll(lo, "?", "f")
		lo, hi = loDigits, hiDigits
	}
	s, _ := strconv.ParseUint(lo, 16, 32)
	e, _ := strconv.ParseUint(hi, 16, 32)
	return uint32(s), uint32(e)
}
