// Package css implements the Grammar Engine: a hand-written predictive
// recursive-descent parser over a tokenstream.Stream, one method per
// CSS production, firing cssevent.Events through an embedded
// cssevent.Dispatcher rather than building or retaining a tree for the
// whole document. Error recovery is localized to the ruleset and
// declaration-block boundaries; everywhere else a SyntaxError or
// ReaderError is fatal to the current parse.
package css

import (
	"strconv"
	"strings"

	"github.com/mattiacci/parser-lib/cssast"
	"github.com/mattiacci/parser-lib/cssevent"
	"github.com/mattiacci/parser-lib/reader"
	"github.com/mattiacci/parser-lib/tokenstream"
)

// Parser borrows a tokenstream.Stream exclusively for the duration of
// one parse; it is stateless beyond its Options and that stream, and
// is never reused concurrently. Construct a fresh Parser per parse.
type Parser struct {
	s    *tokenstream.Stream
	opts Options
	cssevent.Dispatcher
}

// NewParser builds a Parser ready to parse input under opts.
func NewParser(input string, opts Options) *Parser {
	st := tokenstream.New(reader.New(input), newCSSTable())
	return &Parser{s: st, opts: opts}
}

func (p *Parser) skipS() {
	for p.s.LA(1) == tS {
		p.s.Get()
	}
}

func (p *Parser) skipSpaceCDOCDC() {
	for {
		switch p.s.LA(1) {
		case tS, tCDO, tCDC:
			p.s.Get()
		default:
			return
		}
	}
}

func (p *Parser) currentPos() cssast.Position {
	tok := p.s.LT(1)
	return cssast.Position{Line: tok.StartRow, Col: tok.StartCol}
}

func (p *Parser) unget() {
	if err := p.s.Unget(); err != nil {
		panic(err)
	}
}

// expectEOF raises a SyntaxError citing the first unexpected token's
// position when the stream isn't actually exhausted.
func (p *Parser) expectEOF() {
	p.s.MustMatch(tokenstream.EOF)
}

func (p *Parser) fireError(r interface{}) {
	err := asError(r)
	line, col := 0, 0
	switch e := err.(type) {
	case *SyntaxError:
		line, col = e.Line, e.Col
	case *ReaderError:
		line, col = e.Line, e.Col
	}
	p.opts.logf("css: recovered error at %d:%d: %v", line, col, err)
	p.Fire(cssevent.Event{
		Kind: cssevent.Error,
		Payload: cssevent.ErrorPayload{
			Err: err, Message: err.Error(), Line: line, Col: col,
		},
	})
}

func asError(r interface{}) error {
	switch e := r.(type) {
	case *SyntaxError:
		return e
	case *ReaderError:
		return e
	case error:
		return e
	default:
		panic(r)
	}
}

// ---- stylesheet and at-rules ----

func (p *Parser) stylesheet() {
	p.skipSpaceCDOCDC()
	if p.s.LA(1) == tCharsetSym {
		p.charsetRule()
		p.skipSpaceCDOCDC()
	}
	for p.s.LA(1) == tImportSym {
		p.importRule()
		p.skipSpaceCDOCDC()
	}
	for p.s.LA(1) == tNamespaceSym {
		p.namespaceRule()
		p.skipSpaceCDOCDC()
	}
	for {
		p.skipSpaceCDOCDC()
		switch p.s.LA(1) {
		case tokenstream.EOF:
			return
		case tMediaSym:
			p.mediaRule()
		case tPageSym:
			p.pageRule()
		case tFontFaceSym:
			p.fontFaceRule()
		default:
			p.topLevelRuleset()
		}
	}
}

func (p *Parser) topLevelRuleset() {
	if p.opts.Strict {
		p.ruleset()
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.fireError(r)
			p.s.Advance(tRBrace)
		}
	}()
	p.ruleset()
}

func (p *Parser) charsetRule() {
	p.s.MustMatch(tCharsetSym)
	p.skipS()
	tok := p.s.MustMatch(tString)
	p.skipS()
	p.s.MustMatch(tSemicolon)
	p.Fire(cssevent.Event{Kind: cssevent.Charset, Payload: cssevent.CharsetPayload{Charset: unquoteString(tok.Value)}})
}

func (p *Parser) stringOrURI() string {
	switch p.s.LA(1) {
	case tString:
		tok := p.s.MustMatch(tString)
		return unquoteString(tok.Value)
	case tURI:
		tok := p.s.MustMatch(tURI)
		return unwrapURI(tok.Value)
	default:
		tok := p.s.LT(1)
		panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "expected a string or url()"})
	}
}

func (p *Parser) importRule() {
	p.s.MustMatch(tImportSym)
	p.skipS()
	uri := p.stringOrURI()
	p.skipS()
	var media []cssast.MediaQuery
	if p.s.LA(1) != tSemicolon {
		media = p.mediaQueryList()
	}
	p.skipS()
	p.s.MustMatch(tSemicolon)
	p.Fire(cssevent.Event{Kind: cssevent.Import, Payload: cssevent.ImportPayload{URI: uri, Media: media}})
}

func (p *Parser) namespaceRule() {
	p.s.MustMatch(tNamespaceSym)
	p.skipS()
	prefix := ""
	if p.s.LA(1) == tIdent {
		tok := p.s.MustMatch(tIdent)
		prefix = tok.Value
		p.skipS()
	}
	uri := p.stringOrURI()
	p.skipS()
	p.s.MustMatch(tSemicolon)
	p.Fire(cssevent.Event{Kind: cssevent.Namespace, Payload: cssevent.NamespacePayload{Prefix: prefix, URI: uri}})
}

func (p *Parser) mediaRule() {
	p.s.MustMatch(tMediaSym)
	p.skipS()
	media := p.mediaQueryList()
	p.skipS()
	p.s.MustMatch(tLBrace)
	p.Fire(cssevent.Event{Kind: cssevent.StartMedia, Payload: cssevent.MediaPayload{Media: media}})
	for {
		p.skipS()
		if p.s.LA(1) == tRBrace || p.s.LA(1) == tokenstream.EOF {
			break
		}
		p.topLevelRuleset()
	}
	p.s.MustMatch(tRBrace)
	p.Fire(cssevent.Event{Kind: cssevent.EndMedia, Payload: cssevent.MediaPayload{Media: media}})
}

func (p *Parser) mediaQueryList() []cssast.MediaQuery {
	var list []cssast.MediaQuery
	p.skipS()
	switch p.s.LA(1) {
	case tLBrace, tSemicolon, tokenstream.EOF:
		return list
	}
	list = append(list, p.mediaQuery())
	p.skipS()
	for p.s.LA(1) == tComma {
		p.s.Get()
		p.skipS()
		list = append(list, p.mediaQuery())
		p.skipS()
	}
	return list
}

func (p *Parser) mediaQuery() cssast.MediaQuery {
	pos := p.currentPos()
	mq := cssast.MediaQuery{Pos: pos}
	if p.s.LA(1) == tIdent {
		lower := strings.ToLower(p.s.LT(1).Value)
		if lower == "not" || lower == "only" {
			p.s.Get()
			if lower == "not" {
				mq.Not = true
			} else {
				mq.Only = true
			}
			p.skipS()
		}
	}
	if p.s.LA(1) == tIdent {
		tok := p.s.MustMatch(tIdent)
		mq.MediaType = tok.Value
		p.skipS()
	} else {
		mq.Expressions = append(mq.Expressions, p.mediaExpression())
		p.skipS()
	}
	for p.s.LA(1) == tIdent && strings.EqualFold(p.s.LT(1).Value, "and") {
		p.s.Get()
		p.skipS()
		mq.Expressions = append(mq.Expressions, p.mediaExpression())
		p.skipS()
	}
	return mq
}

func (p *Parser) mediaExpression() cssast.MediaExpression {
	pos := p.currentPos()
	p.s.MustMatch(tLParen)
	p.skipS()
	featureTok := p.s.MustMatch(tIdent)
	p.skipS()
	var value *cssast.Expr
	if p.s.LA(1) == tColon {
		p.s.Get()
		p.skipS()
		value = p.expr()
		p.skipS()
	}
	p.s.MustMatch(tRParen)
	return cssast.MediaExpression{Pos: pos, Feature: featureTok.Value, Value: value}
}

func (p *Parser) pageRule() {
	p.s.MustMatch(tPageSym)
	p.skipS()
	sel := cssast.PageSelector{}
	if p.s.LA(1) == tIdent {
		tok := p.s.MustMatch(tIdent)
		if strings.EqualFold(tok.Value, "auto") {
			panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "'auto' is not a valid page name"})
		}
		sel.ID = tok.Value
		p.skipS()
	}
	if p.s.LA(1) == tColon {
		p.s.Get()
		pseudoTok := p.s.MustMatch(tIdent)
		sel.Pseudo = ":" + pseudoTok.Value
		p.skipS()
	}
	p.s.MustMatch(tLBrace)
	p.Fire(cssevent.Event{Kind: cssevent.StartPage, Payload: cssevent.PagePayload{Selector: sel}})
	if !p.pageBody() {
		p.s.MustMatch(tRBrace)
	}
	p.Fire(cssevent.Event{Kind: cssevent.EndPage, Payload: cssevent.PagePayload{Selector: sel}})
}

// pageBody parses margin boxes and declarations until the block's
// closing brace, reporting blockEnded=true when error recovery already
// consumed that brace so the caller must not match it again.
func (p *Parser) pageBody() (blockEnded bool) {
	for {
		p.skipS()
		switch p.s.LA(1) {
		case tRBrace, tokenstream.EOF:
			return false
		case tSemicolon:
			p.s.Get()
		case tMarginSym:
			p.marginBox()
		default:
			if p.declarationRecovering() {
				return true
			}
		}
	}
}

func (p *Parser) marginBox() {
	tok := p.s.MustMatch(tMarginSym)
	mb, ok := cssast.MarginBoxByName(strings.ToLower(tok.Value))
	if !ok {
		panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "unknown margin box " + tok.Value})
	}
	p.skipS()
	p.s.MustMatch(tLBrace)
	p.Fire(cssevent.Event{Kind: cssevent.StartPageMargin, Payload: cssevent.MarginPayload{Margin: mb}})
	if !p.declarations() {
		p.s.MustMatch(tRBrace)
	}
	p.Fire(cssevent.Event{Kind: cssevent.EndPageMargin, Payload: cssevent.MarginPayload{Margin: mb}})
}

func (p *Parser) fontFaceRule() {
	p.s.MustMatch(tFontFaceSym)
	p.skipS()
	p.s.MustMatch(tLBrace)
	p.Fire(cssevent.Event{Kind: cssevent.StartFontFace})
	if !p.declarations() {
		p.s.MustMatch(tRBrace)
	}
	p.Fire(cssevent.Event{Kind: cssevent.EndFontFace})
}

// ---- rulesets, selectors ----

func (p *Parser) ruleset() {
	selectors := p.selectorsGroup()
	p.skipS()
	p.s.MustMatch(tLBrace)
	p.Fire(cssevent.Event{Kind: cssevent.StartRule, Payload: cssevent.RulePayload{Selectors: selectors}})
	if !p.declarations() {
		p.s.MustMatch(tRBrace)
	}
	p.Fire(cssevent.Event{Kind: cssevent.EndRule, Payload: cssevent.RulePayload{Selectors: selectors}})
}

// declarations parses declarations until the block's closing brace,
// reporting blockEnded=true when error recovery already consumed that
// brace so the caller must not match it again.
func (p *Parser) declarations() (blockEnded bool) {
	for {
		p.skipS()
		switch p.s.LA(1) {
		case tRBrace, tokenstream.EOF:
			return false
		case tSemicolon:
			p.s.Get()
		default:
			if p.declarationRecovering() {
				return true
			}
		}
	}
}

// declarationRecovering parses one declaration, catching a SyntaxError
// at the declaration-block boundary unless Strict is set. It reports
// blockEnded=true when resync consumed the block's closing brace, so
// the caller must not try to match it again.
func (p *Parser) declarationRecovering() (blockEnded bool) {
	if p.opts.Strict {
		p.declaration()
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			p.fireError(r)
			if p.s.Advance(tSemicolon, tRBrace) == tRBrace {
				blockEnded = true
			}
		}
	}()
	p.declaration()
	return false
}

func (p *Parser) declaration() {
	prop := p.propertyName()
	p.skipS()
	p.s.MustMatch(tColon)
	p.skipS()
	value := p.expr()
	if len(value.Items) == 0 {
		panic(&SyntaxError{Line: prop.Pos.Line, Col: prop.Pos.Col, Message: "declaration value must not be empty"})
	}
	important := false
	p.skipS()
	if p.s.LA(1) == tImportantSym {
		p.s.Get()
		important = true
		p.skipS()
	}
	p.Fire(cssevent.Event{
		Kind:    cssevent.Property,
		Payload: cssevent.PropertyPayload{Property: prop, Value: *value, Important: important},
	})
}

func (p *Parser) propertyName() cssast.PropertyName {
	pos := p.currentPos()
	if p.s.LA(1) == tStar {
		if !p.opts.StarHack {
			tok := p.s.LT(1)
			panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "unexpected '*' before property name (starHack is disabled)"})
		}
		p.s.Get()
		nameTok := p.s.MustMatch(tIdent)
		return cssast.PropertyName{Pos: pos, Name: nameTok.Value, Hack: '*'}
	}
	if p.s.LA(1) == tIdent && p.opts.UnderscoreHack && strings.HasPrefix(p.s.LT(1).Value, "_") {
		tok := p.s.MustMatch(tIdent)
		return cssast.PropertyName{Pos: pos, Name: tok.Value[1:], Hack: '_'}
	}
	nameTok := p.s.MustMatch(tIdent)
	return cssast.PropertyName{Pos: pos, Name: nameTok.Value}
}

func (p *Parser) startsSimpleSelectorSequence() bool {
	switch p.s.LA(1) {
	case tIdent, tStar, tPipe, tHash, tDot, tLBracket, tColon:
		return true
	}
	return false
}

func (p *Parser) selectorsGroup() []cssast.Selector {
	p.skipS()
	if !p.startsSimpleSelectorSequence() {
		return nil
	}
	list := []cssast.Selector{p.selector()}
	p.skipS()
	for p.s.LA(1) == tComma {
		p.s.Get()
		p.skipS()
		list = append(list, p.selector())
		p.skipS()
	}
	return list
}

func (p *Parser) selector() cssast.Selector {
	pos := p.currentPos()
	sequences := []cssast.SimpleSelectorSequence{p.simpleSelectorSequence()}
	var combinators []cssast.Combinator

	for {
		sawSpace := false
		for p.s.LA(1) == tS {
			p.s.Get()
			sawSpace = true
		}

		var comb cssast.Combinator
		explicit := false
		switch p.s.LA(1) {
		case tGreater:
			p.s.Get()
			comb, explicit = cssast.Child, true
		case tPlus:
			p.s.Get()
			comb, explicit = cssast.AdjacentSibling, true
		case tTilde:
			p.s.Get()
			comb, explicit = cssast.GeneralSibling, true
		}
		if explicit {
			p.skipS()
		} else if sawSpace {
			comb = cssast.Descendant
		} else {
			break
		}

		if !p.startsSimpleSelectorSequence() {
			if explicit {
				tok := p.s.LT(1)
				panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "expected a selector after combinator"})
			}
			break
		}
		sequences = append(sequences, p.simpleSelectorSequence())
		combinators = append(combinators, comb)
	}

	return cssast.Selector{Pos: pos, Sequences: sequences, Combinators: combinators}
}

func (p *Parser) simpleSelectorSequence() cssast.SimpleSelectorSequence {
	pos := p.currentPos()
	seq := cssast.SimpleSelectorSequence{Pos: pos}
	if ts, ok := p.tryTypeSelectorOrUniversal(); ok {
		seq.Type = &ts
	}
	for {
		mod, ok := p.trySelectorModifier()
		if !ok {
			break
		}
		seq.Modifiers = append(seq.Modifiers, mod)
	}
	if seq.Type == nil && len(seq.Modifiers) == 0 {
		tok := p.s.LT(1)
		panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "expected a selector"})
	}
	return seq
}

// tryTypeSelectorOrUniversal reads an optional namespace prefix
// tentatively; if no element name follows it, the tentatively-read
// tokens are pushed back via Unget rather than consulting the reader
// directly.
func (p *Parser) tryTypeSelectorOrUniversal() (cssast.TypeSelector, bool) {
	pos := p.currentPos()
	switch p.s.LA(1) {
	case tPipe:
		p.s.Get()
		if p.s.LA(1) != tIdent && p.s.LA(1) != tStar {
			p.unget()
			return cssast.TypeSelector{}, false
		}
		p.s.Get()
		empty := ""
		return cssast.TypeSelector{Pos: pos, Namespace: &empty, Name: p.s.Token().Value}, true
	case tIdent, tStar:
		firstTok := p.s.MustMatch(tIdent, tStar)
		if p.s.LA(1) == tPipe {
			p.s.Get()
			if p.s.LA(1) == tIdent || p.s.LA(1) == tStar {
				p.s.Get()
				ns := firstTok.Value
				return cssast.TypeSelector{Pos: pos, Namespace: &ns, Name: p.s.Token().Value}, true
			}
			p.unget() // no element name after "|": roll back the pipe
		}
		return cssast.TypeSelector{Pos: pos, Name: firstTok.Value}, true
	default:
		return cssast.TypeSelector{}, false
	}
}

func (p *Parser) trySelectorModifier() (cssast.SimpleSelector, bool) {
	pos := p.currentPos()
	switch p.s.LA(1) {
	case tHash:
		tok := p.s.MustMatch(tHash)
		return cssast.IDSelector{Pos: pos, ID: tok.Value[1:]}, true
	case tDot:
		p.s.Get()
		tok := p.s.MustMatch(tIdent)
		return cssast.ClassSelector{Pos: pos, Class: tok.Value}, true
	case tLBracket:
		return p.attribute(), true
	case tColon:
		return p.pseudo(), true
	default:
		return nil, false
	}
}

func (p *Parser) attribute() cssast.AttributeSelector {
	pos := p.currentPos()
	p.s.MustMatch(tLBracket)
	p.skipS()

	var ns *string
	switch {
	case p.s.LA(1) == tPipe:
		p.s.Get()
		empty := ""
		ns = &empty
	case p.s.LA(1) == tIdent:
		firstTok := p.s.LT(1)
		p.s.Get()
		if p.s.LA(1) == tPipe {
			p.s.Get()
			prefix := firstTok.Value
			ns = &prefix
		} else {
			p.unget()
		}
	}
	p.skipS()

	nameTok := p.s.MustMatch(tIdent)
	p.skipS()
	attr := cssast.AttributeSelector{Pos: pos, Namespace: ns, Name: nameTok.Value}

	switch p.s.LA(1) {
	case tEquals:
		p.s.Get()
		attr.Op = cssast.AttrEquals
	case tIncludes:
		p.s.Get()
		attr.Op = cssast.AttrIncludes
	case tDashMatch:
		p.s.Get()
		attr.Op = cssast.AttrDashMatch
	case tPrefixMatch:
		p.s.Get()
		attr.Op = cssast.AttrPrefixMatch
	case tSuffixMatch:
		p.s.Get()
		attr.Op = cssast.AttrSuffixMatch
	case tSubstringMatch:
		p.s.Get()
		attr.Op = cssast.AttrSubstrMatch
	}
	if attr.Op != cssast.AttrNone {
		p.skipS()
		switch p.s.LA(1) {
		case tIdent:
			tok := p.s.MustMatch(tIdent)
			attr.Value = tok.Value
		case tString:
			tok := p.s.MustMatch(tString)
			attr.Value = unquoteString(tok.Value)
		default:
			tok := p.s.LT(1)
			panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "expected an identifier or string attribute value"})
		}
		p.skipS()
	}
	p.s.MustMatch(tRBracket)
	return attr
}

func (p *Parser) pseudo() cssast.SimpleSelector {
	pos := p.currentPos()
	colons := ":"
	p.s.MustMatch(tColon)
	if p.s.LA(1) == tColon {
		p.s.Get()
		colons = "::"
	}
	switch p.s.LA(1) {
	case tNot:
		p.s.MustMatch(tNot)
		p.skipS()
		arg := p.negationArg()
		p.skipS()
		p.s.MustMatch(tRParen)
		return cssast.NegationSelector{Pos: pos, Arg: arg}
	case tFunction:
		tok := p.s.MustMatch(tFunction)
		name := strings.TrimSuffix(tok.Value, "(")
		p.skipS()
		args := p.expr()
		p.skipS()
		p.s.MustMatch(tRParen)
		return cssast.PseudoSelector{Pos: pos, Colons: colons, Name: name, Function: true, Arguments: args}
	case tIdent:
		tok := p.s.MustMatch(tIdent)
		return cssast.PseudoSelector{Pos: pos, Colons: colons, Name: tok.Value}
	default:
		tok := p.s.LT(1)
		panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "expected a pseudo-class or pseudo-element name"})
	}
}

func (p *Parser) negationArg() interface{} {
	pos := p.currentPos()
	switch p.s.LA(1) {
	case tHash:
		tok := p.s.MustMatch(tHash)
		return cssast.IDSelector{Pos: pos, ID: tok.Value[1:]}
	case tDot:
		p.s.Get()
		tok := p.s.MustMatch(tIdent)
		return cssast.ClassSelector{Pos: pos, Class: tok.Value}
	case tLBracket:
		return p.attribute()
	case tColon:
		return p.pseudo()
	case tIdent, tStar, tPipe:
		ts, _ := p.tryTypeSelectorOrUniversal()
		return &ts
	default:
		tok := p.s.LT(1)
		panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "invalid :not() argument"})
	}
}

// ---- values ----

func (p *Parser) expr() *cssast.Expr {
	pos := p.currentPos()
	items := []cssast.ExprItem{}
	first := p.tryTerm()
	if first == nil {
		return &cssast.Expr{Pos: pos, Items: items}
	}
	items = append(items, cssast.ExprItem{Term: first})
	for {
		op, hasOp := p.maybeOperator()
		if !hasOp {
			break
		}
		nt := p.tryTerm()
		if nt == nil {
			if op == cssast.OpSpace {
				break
			}
			tok := p.s.LT(1)
			panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "expected a term after operator"})
		}
		items = append(items, cssast.ExprItem{Operator: op}, cssast.ExprItem{Term: nt})
	}
	return &cssast.Expr{Pos: pos, Items: items}
}

func (p *Parser) maybeOperator() (cssast.Operator, bool) {
	sawSpace := false
	for p.s.LA(1) == tS {
		p.s.Get()
		sawSpace = true
	}
	switch p.s.LA(1) {
	case tComma:
		p.s.Get()
		p.skipS()
		return cssast.OpComma, true
	case tSlash:
		p.s.Get()
		p.skipS()
		return cssast.OpSlash, true
	}
	if sawSpace {
		return cssast.OpSpace, true
	}
	return cssast.OpNone, false
}

func (p *Parser) tryTerm() *cssast.Term {
	pos := p.currentPos()
	var sign int8
	if p.s.LA(1) == tPlus || p.s.LA(1) == tMinus {
		if !isNumericTermType(p.s.LA(2)) {
			return nil
		}
		if p.s.LA(1) == tPlus {
			sign = 1
		} else {
			sign = -1
		}
		p.s.Get()
	}

	switch p.s.LA(1) {
	case tNumber:
		tok := p.s.MustMatch(tNumber)
		n, _ := strconv.ParseFloat(tok.Value, 64)
		return &cssast.Term{Pos: pos, Kind: cssast.TermNumber, Sign: sign, Number: applySign(sign, n)}
	case tPercentage:
		tok := p.s.MustMatch(tPercentage)
		return &cssast.Term{Pos: pos, Kind: cssast.TermPercentage, Sign: sign, Number: applySign(sign, parseNumericPrefix(tok.Value)), Unit: "%"}
	case tLength, tEms, tExs, tAngle, tTime, tFreq, tResolution, tDimension:
		tt := p.s.LA(1)
		tok := p.s.MustMatch(tt)
		n, unit := splitNumberUnit(tok.Value)
		return &cssast.Term{Pos: pos, Kind: dimensionKind(tt), Sign: sign, Number: applySign(sign, n), Unit: unit}
	case tString:
		tok := p.s.MustMatch(tString)
		return &cssast.Term{Pos: pos, Kind: cssast.TermString, Text: unquoteString(tok.Value)}
	case tURI:
		tok := p.s.MustMatch(tURI)
		return &cssast.Term{Pos: pos, Kind: cssast.TermURI, Text: unwrapURI(tok.Value)}
	case tUnicodeRange:
		tok := p.s.MustMatch(tUnicodeRange)
		start, end := parseUnicodeRange(tok.Value)
		return &cssast.Term{Pos: pos, Kind: cssast.TermUnicodeRange, Text: tok.Value, UnicodeRangeStart: start, UnicodeRangeEnd: end}
	case tHash:
		tok := p.s.MustMatch(tHash)
		return p.hexcolor(tok)
	case tFunction:
		return p.function(pos)
	case tIEFunction:
		if !p.opts.IEFilters {
			tok := p.s.LT(1)
			panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "IE function terms are disabled"})
		}
		return p.ieFunction(pos)
	case tIdent:
		tok := p.s.MustMatch(tIdent)
		return &cssast.Term{Pos: pos, Kind: cssast.TermIdent, Text: cssUnescape(tok.Value)}
	default:
		if sign != 0 {
			tok := p.s.LT(1)
			panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "expected a number after unary sign"})
		}
		return nil
	}
}

func (p *Parser) hexcolor(tok tokenstream.Token) *cssast.Term {
	hex := tok.Value[1:]
	if (len(hex) != 3 && len(hex) != 6) || !isHexDigits(hex) {
		panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "invalid hex color " + tok.Value})
	}
	return &cssast.Term{Pos: cssast.Position{Line: tok.StartRow, Col: tok.StartCol}, Kind: cssast.TermHexColor, Text: hex}
}

func (p *Parser) function(pos cssast.Position) *cssast.Term {
	tok := p.s.MustMatch(tFunction)
	name := strings.TrimSuffix(tok.Value, "(")
	p.skipS()
	args := p.expr()
	p.skipS()
	p.s.MustMatch(tRParen)
	return &cssast.Term{Pos: pos, Kind: cssast.TermFunction, Function: &cssast.FunctionCall{Pos: pos, Name: name, Args: args}}
}

func (p *Parser) ieFunction(pos cssast.Position) *cssast.Term {
	tok := p.s.MustMatch(tIEFunction)
	name := strings.TrimSuffix(tok.Value, "(")
	var args []cssast.IEFunctionArg
	if p.s.LA(1) != tRParen {
		args = append(args, p.ieFunctionArg())
		for p.s.LA(1) == tComma {
			p.s.Get()
			args = append(args, p.ieFunctionArg())
		}
	}
	p.s.MustMatch(tRParen)
	return &cssast.Term{Pos: pos, Kind: cssast.TermIEFunction, IEFunction: &cssast.IEFunctionCall{Pos: pos, Name: name, Args: args}}
}

func (p *Parser) ieFunctionArg() cssast.IEFunctionArg {
	nameTok := p.s.MustMatch(tIdent)
	p.s.MustMatch(tEquals)
	t := p.tryTerm()
	if t == nil {
		tok := p.s.LT(1)
		panic(&SyntaxError{Line: tok.StartRow, Col: tok.StartCol, Message: "expected a term in IE function argument"})
	}
	return cssast.IEFunctionArg{Name: nameTok.Value, Term: t}
}
