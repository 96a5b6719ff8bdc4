package tokenstream

import (
	"regexp"

	"github.com/mattiacci/parser-lib/reader"
)

// TokenType identifies a kind of token. Type 0 is reserved for EOF;
// Unrecognized (-1) is never present in a Table — it is assigned by
// the Stream itself when no descriptor matches.
type TokenType int

// EOF is the reserved descriptor ID for end-of-input, per the Token
// Stream's data model: descriptor ID 0 always means EOF.
const EOF TokenType = 0

// Unrecognized is the type assigned to a token built from a single
// unmatched character, never present as a descriptor in a Table.
const Unrecognized TokenType = -1

// MaxLookahead is the bound on the lookahead/lookbehind buffer.
const MaxLookahead = 15

// MatchFunc atomically tries to consume a Custom-kind token from r,
// returning the matched text, the concrete TokenType it resolved to
// (which need not equal the owning TokenDef.Type â€” see Kind's docs),
// and whether it matched; like reader.ReadMatch, it must leave r
// unchanged if it returns ok=false. A MatchFunc may panic (with a
// *SyntaxError or a caller-defined fatal error) instead of returning
// ok=false when it detects a condition with no sensible fallback
// token, e.g. an unterminated comment running into EOF.
type MatchFunc func(r *reader.Reader) (value string, resultType TokenType, ok bool)

// Kind distinguishes the three ways a TokenDef can recognize text.
type Kind int

const (
	// KindLiteral matches an exact literal string.
	KindLiteral Kind = iota
	// KindPattern matches a pre-compiled regular expression, anchored
	// at the reader's current position.
	KindPattern
	// KindCustom delegates to an arbitrary MatchFunc, used for tokens
	// whose recognition can't be expressed as a literal or a regular
	// expression (EOF's sentinel-at-end-of-input check, for example).
	// A KindCustom descriptor's Type field is nominal only (used by
	// ByName/Name to label the table slot); the MatchFunc's own
	// returned TokenType is what actually gets attached to the Token,
	// which lets one slot classify into several concrete types (an
	// identifier-like scan resolving to IDENT vs FUNCTION vs a
	// keyword, say).
	KindCustom
)

// TokenDef is a static token descriptor: a name, a TokenType, how to
// recognize it (Kind plus the corresponding Literal/Pattern/Match
// field), and whether matched tokens of this kind are hidden from the
// grammar.
type TokenDef struct {
	Name    string
	Type    TokenType
	Kind    Kind
	Literal string
	Pattern *regexp.Regexp
	Match   MatchFunc
	Hide    bool
}

// Table is an immutable, built-once set of token descriptors in
// priority order: the first descriptor in Defs whose match function
// succeeds wins ties against shorter prefixes, so more specific
// descriptors must precede more general ones.
type Table struct {
	Defs   []TokenDef
	byName map[string]TokenType
	byType map[TokenType]*TokenDef
}

// NewTable builds a Table from defs, in the given priority order.
// defs is not retained; NewTable copies it and compiles a byName
// index once.
func NewTable(defs []TokenDef) *Table {
	t := &Table{
		Defs:   append([]TokenDef(nil), defs...),
		byName: make(map[string]TokenType, len(defs)),
		byType: make(map[TokenType]*TokenDef, len(defs)),
	}
	for i := range t.Defs {
		d := &t.Defs[i]
		t.byName[d.Name] = d.Type
		t.byType[d.Type] = d
	}
	return t
}

// ByName resolves a descriptor's TokenType from its name. This is the
// by-name index construction spec.md's Open Questions section asks
// for in place of the original's undeclared "tokenInfo" symbol.
func (t *Table) ByName(name string) TokenType {
	return t.byName[name]
}

// Name reports the descriptor name for tt, or "" if tt is
// Unrecognized or not present in the table (callers that need a
// display name for Unrecognized must special-case it themselves,
// exactly as spec.md's Open Questions section warns: a map lookup
// that happens to succeed for type -1 in one runtime must not be
// relied on here).
func (t *Table) Name(tt TokenType) string {
	if d, ok := t.byType[tt]; ok {
		return d.Name
	}
	return ""
}
