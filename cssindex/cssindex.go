// Package cssindex persists the events fired by a css.Parser into a
// SQLite database, so rules and declarations can be queried later
// without re-parsing (which selectors reference a property, which
// sheets set a given property, and so on).
package cssindex

import (
	"fmt"
	"strings"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"

	"github.com/mattiacci/parser-lib/css"
	"github.com/mattiacci/parser-lib/cssast"
	"github.com/mattiacci/parser-lib/cssevent"
)

// Open creates (if necessary) and opens the index database at dbfile,
// then returns a pool of connections to it.
func Open(dbfile string) (*sqlitex.Pool, error) {
	conn, err := sqlite.OpenConn(dbfile, 0)
	if err != nil {
		return nil, fmt.Errorf("cssindex.Open: init open: %v", err)
	}
	if err := Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cssindex.Open: init: %v", err)
	}
	if err := conn.Close(); err != nil {
		return nil, fmt.Errorf("cssindex.Open: init close: %v", err)
	}
	pool, err := sqlitex.Open(dbfile, 0, 8)
	if err != nil {
		return nil, fmt.Errorf("cssindex.Open: pool: %v", err)
	}
	return pool, nil
}

// Init applies the index schema to conn, creating tables that do not
// already exist.
func Init(conn *sqlite.Conn) error {
	if err := sqlitex.ExecTransient(conn, "PRAGMA journal_mode=WAL;", nil); err != nil {
		return err
	}
	return sqlitex.ExecScript(conn, createSQL)
}

// Indexer parses one stylesheet under opts and writes every rule,
// declaration, and parse error it fires into conn, attributed to
// source.
type Indexer struct {
	Options css.Options
}

// New returns an Indexer that parses under opts.
func New(opts css.Options) *Indexer {
	return &Indexer{Options: opts}
}

// Index parses text as a full stylesheet and records its rules,
// declarations, and parse errors under source's Sheets row, returning
// that row's SheetID.
func (ix *Indexer) Index(conn *sqlite.Conn, source, text string) (sheetID int64, err error) {
	sheetID, err = insertSheet(conn, source)
	if err != nil {
		return 0, err
	}

	p := css.NewParser(text, ix.Options)

	var ruleID int64
	inRule := false

	p.AddListener(cssevent.StartRule, func(ev cssevent.Event) {
		pl := ev.Payload.(cssevent.RulePayload)
		ruleID, err = insertRule(conn, sheetID, renderSelectors(pl.Selectors), firstPos(pl.Selectors))
		inRule = err == nil
	})
	p.AddListener(cssevent.StartFontFace, func(ev cssevent.Event) {
		ruleID, err = insertRule(conn, sheetID, "", cssast.Position{})
		inRule = err == nil
	})
	p.AddListener(cssevent.Property, func(ev cssevent.Event) {
		if !inRule || err != nil {
			return
		}
		pl := ev.Payload.(cssevent.PropertyPayload)
		err = insertDeclaration(conn, ruleID, pl)
	})
	p.AddListener(cssevent.EndRule, func(ev cssevent.Event) { inRule = false })
	p.AddListener(cssevent.EndFontFace, func(ev cssevent.Event) { inRule = false })
	p.AddListener(cssevent.Error, func(ev cssevent.Event) {
		pl := ev.Payload.(cssevent.ErrorPayload)
		if e := insertParseError(conn, sheetID, pl); e != nil && err == nil {
			err = e
		}
	})

	if parseErr := p.Parse(); parseErr != nil {
		return sheetID, parseErr
	}
	return sheetID, err
}

func insertSheet(conn *sqlite.Conn, source string) (int64, error) {
	stmt := conn.Prep(`INSERT INTO Sheets (Source, Indexed) VALUES ($source, strftime('%s','now'));`)
	stmt.SetText("$source", source)
	if _, err := stmt.Step(); err != nil {
		return 0, err
	}
	return conn.LastInsertRowID(), nil
}

func insertRule(conn *sqlite.Conn, sheetID int64, selectors string, pos cssast.Position) (int64, error) {
	stmt := conn.Prep(`INSERT INTO Rules (SheetID, Selectors, Line, Col) VALUES ($sheetID, $selectors, $line, $col);`)
	stmt.SetInt64("$sheetID", sheetID)
	stmt.SetText("$selectors", selectors)
	stmt.SetInt64("$line", int64(pos.Line))
	stmt.SetInt64("$col", int64(pos.Col))
	if _, err := stmt.Step(); err != nil {
		return 0, err
	}
	return conn.LastInsertRowID(), nil
}

func insertDeclaration(conn *sqlite.Conn, ruleID int64, pl cssevent.PropertyPayload) error {
	hack := ""
	if pl.Property.Hack != 0 {
		hack = string(pl.Property.Hack)
	}
	stmt := conn.Prep(`INSERT INTO Declarations (RuleID, Property, Value, Important, Hack)
		VALUES ($ruleID, $property, $value, $important, $hack);`)
	stmt.SetInt64("$ruleID", ruleID)
	stmt.SetText("$property", pl.Property.Name)
	stmt.SetText("$value", renderExpr(pl.Value))
	stmt.SetBool("$important", pl.Important)
	stmt.SetText("$hack", hack)
	_, err := stmt.Step()
	return err
}

func insertParseError(conn *sqlite.Conn, sheetID int64, pl cssevent.ErrorPayload) error {
	stmt := conn.Prep(`INSERT INTO ParseErrors (SheetID, Message, Line, Col) VALUES ($sheetID, $message, $line, $col);`)
	stmt.SetInt64("$sheetID", sheetID)
	stmt.SetText("$message", pl.Message)
	stmt.SetInt64("$line", int64(pl.Line))
	stmt.SetInt64("$col", int64(pl.Col))
	_, err := stmt.Step()
	return err
}

// RuleSummary is one row of a query result: a rule's selector text
// together with the source it came from.
type RuleSummary struct {
	RuleID    int64
	Source    string
	Selectors string
}

// RulesWithProperty returns every rule, across every sheet indexed
// into conn, that sets property, most-recently-indexed sheet first.
func RulesWithProperty(conn *sqlite.Conn, property string) ([]RuleSummary, error) {
	stmt := conn.Prep(`SELECT Rules.RuleID, Sheets.Source, Rules.Selectors
		FROM Rules
		INNER JOIN Sheets ON Rules.SheetID = Sheets.SheetID
		INNER JOIN Declarations ON Declarations.RuleID = Rules.RuleID
		WHERE Declarations.Property = $property
		GROUP BY Rules.RuleID
		ORDER BY Sheets.Indexed DESC;`)
	stmt.SetText("$property", property)

	var out []RuleSummary
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, err
		}
		if !hasRow {
			break
		}
		out = append(out, RuleSummary{
			RuleID:    stmt.GetInt64("RuleID"),
			Source:    stmt.GetText("Source"),
			Selectors: stmt.GetText("Selectors"),
		})
	}
	return out, nil
}

// Declaration is one indexed property: value pair.
type Declaration struct {
	Property  string
	Value     string
	Important bool
	Hack      string
}

// DeclarationsForRule returns every declaration indexed for ruleID, in
// insertion order.
func DeclarationsForRule(conn *sqlite.Conn, ruleID int64) ([]Declaration, error) {
	stmt := conn.Prep(`SELECT Property, Value, Important, Hack FROM Declarations
		WHERE RuleID = $ruleID ORDER BY DeclID;`)
	stmt.SetInt64("$ruleID", ruleID)

	var out []Declaration
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, err
		}
		if !hasRow {
			break
		}
		out = append(out, Declaration{
			Property:  stmt.GetText("Property"),
			Value:     stmt.GetText("Value"),
			Important: stmt.GetInt64("Important") != 0,
			Hack:      stmt.GetText("Hack"),
		})
	}
	return out, nil
}

func firstPos(selectors []cssast.Selector) cssast.Position {
	if len(selectors) == 0 {
		return cssast.Position{}
	}
	return selectors[0].Pos
}

// renderSelectors renders a selector group back to text, comma
// separated, for storage and for use as a query key. It is a lossy,
// canonicalized rendering (no comments, a single space for the
// descendant combinator, no spaces around ">", "+" or "~") rather than
// a byte-exact reproduction of the source.
func renderSelectors(selectors []cssast.Selector) string {
	parts := make([]string, len(selectors))
	for i, sel := range selectors {
		parts[i] = renderSelector(sel)
	}
	return strings.Join(parts, ", ")
}

func renderSelector(sel cssast.Selector) string {
	var b strings.Builder
	for i, seq := range sel.Sequences {
		if i > 0 {
			if sel.Combinators[i-1] == cssast.Descendant {
				b.WriteByte(' ')
			} else {
				b.WriteString(sel.Combinators[i-1].String())
			}
		}
		renderSequence(&b, seq)
	}
	return b.String()
}

func renderSequence(b *strings.Builder, seq cssast.SimpleSelectorSequence) {
	if seq.Type != nil {
		if seq.Type.Namespace != nil {
			b.WriteString(*seq.Type.Namespace)
			b.WriteByte('|')
		}
		b.WriteString(seq.Type.Name)
	}
	for _, mod := range seq.Modifiers {
		renderModifier(b, mod)
	}
}

func renderModifier(b *strings.Builder, mod cssast.SimpleSelector) {
	switch m := mod.(type) {
	case cssast.IDSelector:
		b.WriteByte('#')
		b.WriteString(m.ID)
	case cssast.ClassSelector:
		b.WriteByte('.')
		b.WriteString(m.Class)
	case cssast.AttributeSelector:
		b.WriteByte('[')
		if m.Namespace != nil {
			b.WriteString(*m.Namespace)
			b.WriteByte('|')
		}
		b.WriteString(m.Name)
		if m.Op != cssast.AttrNone {
			b.WriteString(attrOpString(m.Op))
			b.WriteByte('"')
			b.WriteString(m.Value)
			b.WriteByte('"')
		}
		b.WriteByte(']')
	case cssast.PseudoSelector:
		b.WriteString(m.Colons)
		b.WriteString(m.Name)
		if m.Function {
			b.WriteByte('(')
			if m.Arguments != nil {
				b.WriteString(renderExpr(*m.Arguments))
			}
			b.WriteByte(')')
		}
	case cssast.NegationSelector:
		b.WriteString(":not(")
		renderNegationArg(b, m.Arg)
		b.WriteByte(')')
	}
}

func renderNegationArg(b *strings.Builder, arg interface{}) {
	switch a := arg.(type) {
	case cssast.IDSelector, cssast.ClassSelector, cssast.AttributeSelector, cssast.PseudoSelector:
		renderModifier(b, a.(cssast.SimpleSelector))
	case *cssast.TypeSelector:
		if a.Namespace != nil {
			b.WriteString(*a.Namespace)
			b.WriteByte('|')
		}
		b.WriteString(a.Name)
	}
}

func attrOpString(op cssast.AttributeOp) string {
	switch op {
	case cssast.AttrEquals:
		return "="
	case cssast.AttrIncludes:
		return "~="
	case cssast.AttrDashMatch:
		return "|="
	case cssast.AttrPrefixMatch:
		return "^="
	case cssast.AttrSuffixMatch:
		return "$="
	case cssast.AttrSubstrMatch:
		return "*="
	default:
		return ""
	}
}

// renderExpr renders an Expr back to text, canonicalized the same way
// renderSelector is: not byte-exact, but stable and useful as a query
// value.
func renderExpr(e cssast.Expr) string {
	var b strings.Builder
	for _, item := range e.Items {
		if item.Term != nil {
			renderTerm(&b, item.Term)
		} else {
			b.WriteString(item.Operator.String())
		}
	}
	return b.String()
}

func renderTerm(b *strings.Builder, t *cssast.Term) {
	if t.Sign > 0 {
		b.WriteByte('+')
	} else if t.Sign < 0 {
		b.WriteByte('-')
	}
	switch t.Kind {
	case cssast.TermString:
		fmt.Fprintf(b, "%q", t.Text)
	case cssast.TermIdent:
		b.WriteString(t.Text)
	case cssast.TermURI:
		fmt.Fprintf(b, "url(%s)", t.Text)
	case cssast.TermHexColor:
		b.WriteByte('#')
		b.WriteString(t.Text)
	case cssast.TermPercentage:
		fmt.Fprintf(b, "%g%%", t.Number)
	case cssast.TermUnicodeRange:
		if t.UnicodeRangeStart == t.UnicodeRangeEnd {
			fmt.Fprintf(b, "U+%04X", t.UnicodeRangeStart)
		} else {
			fmt.Fprintf(b, "U+%04X-%04X", t.UnicodeRangeStart, t.UnicodeRangeEnd)
		}
	case cssast.TermFunction:
		fmt.Fprintf(b, "%s(%s)", t.Function.Name, renderExpr(*t.Function.Args))
	case cssast.TermIEFunction:
		b.WriteString(t.IEFunction.Name)
		b.WriteByte('(')
		for i, a := range t.IEFunction.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s=%s", a.Name, renderTermString(a.Term))
		}
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "%g%s", t.Number, t.Unit)
	}
}

func renderTermString(t *cssast.Term) string {
	var b strings.Builder
	if t != nil {
		renderTerm(&b, t)
	}
	return b.String()
}
