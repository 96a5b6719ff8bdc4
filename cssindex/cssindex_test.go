package cssindex

import (
	"testing"

	"crawshaw.io/sqlite"

	"github.com/mattiacci/parser-lib/css"
)

func mkconn(t *testing.T) *sqlite.Conn {
	t.Helper()
	flags := sqlite.SQLITE_OPEN_READWRITE | sqlite.SQLITE_OPEN_CREATE | sqlite.SQLITE_OPEN_SHAREDCACHE | sqlite.SQLITE_OPEN_URI
	conn, err := sqlite.OpenConn("file::memory:?mode=memory&cache=shared", flags)
	if err != nil {
		t.Fatal(err)
	}
	if err := Init(conn); err != nil {
		t.Fatal(err)
	}
	return conn
}

func TestIndexRulesAndDeclarations(t *testing.T) {
	conn := mkconn(t)
	defer conn.Close()

	ix := New(css.Options{})
	sheetID, err := ix.Index(conn, "test.css", `a.foo { color: red; font-size: 12px }
	div > p { margin: 0 }`)
	if err != nil {
		t.Fatalf("Index error = %v", err)
	}
	if sheetID == 0 {
		t.Fatalf("got SheetID 0")
	}

	rules, err := RulesWithProperty(conn, "color")
	if err != nil {
		t.Fatalf("RulesWithProperty error = %v", err)
	}
	if len(rules) != 1 || rules[0].Selectors != "a.foo" || rules[0].Source != "test.css" {
		t.Fatalf("got %+v", rules)
	}

	decls, err := DeclarationsForRule(conn, rules[0].RuleID)
	if err != nil {
		t.Fatalf("DeclarationsForRule error = %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("got %d declarations, want 2: %+v", len(decls), decls)
	}
	if decls[0].Property != "color" || decls[0].Value != "red" {
		t.Errorf("got %+v", decls[0])
	}
	if decls[1].Property != "font-size" || decls[1].Value != "12px" {
		t.Errorf("got %+v", decls[1])
	}
}

func TestIndexCombinatorRendering(t *testing.T) {
	conn := mkconn(t)
	defer conn.Close()

	ix := New(css.Options{})
	if _, err := ix.Index(conn, "combinators.css", `div > p.lead + span { color: blue }`); err != nil {
		t.Fatalf("Index error = %v", err)
	}

	rules, err := RulesWithProperty(conn, "color")
	if err != nil {
		t.Fatalf("RulesWithProperty error = %v", err)
	}
	if len(rules) != 1 || rules[0].Selectors != "div>p.lead+span" {
		t.Fatalf("got %+v", rules)
	}
}

func TestIndexCollectsParseErrors(t *testing.T) {
	conn := mkconn(t)
	defer conn.Close()

	ix := New(css.Options{Strict: false})
	sheetID, err := ix.Index(conn, "broken.css", `a { color: ]]] } b { color: green }`)
	if err != nil {
		t.Fatalf("Index error = %v", err)
	}

	stmt := conn.Prep(`SELECT COUNT(*) AS n FROM ParseErrors WHERE SheetID = $sheetID;`)
	stmt.SetInt64("$sheetID", sheetID)
	if hasRow, err := stmt.Step(); err != nil || !hasRow {
		t.Fatalf("count query failed: hasRow=%v err=%v", hasRow, err)
	}
	if n := stmt.GetInt64("n"); n == 0 {
		t.Errorf("expected at least one recorded parse error")
	}

	rules, err := RulesWithProperty(conn, "color")
	if err != nil {
		t.Fatalf("RulesWithProperty error = %v", err)
	}
	if len(rules) != 1 || rules[0].Selectors != "b" {
		t.Fatalf("expected the rule after the error to still be indexed, got %+v", rules)
	}
}

func TestIndexFontFace(t *testing.T) {
	conn := mkconn(t)
	defer conn.Close()

	ix := New(css.Options{})
	sheetID, err := ix.Index(conn, "fonts.css", `@font-face { font-family: "Custom"; src: url(custom.woff) }`)
	if err != nil {
		t.Fatalf("Index error = %v", err)
	}

	stmt := conn.Prep(`SELECT Rules.RuleID FROM Rules WHERE SheetID = $sheetID;`)
	stmt.SetInt64("$sheetID", sheetID)
	hasRow, err := stmt.Step()
	if err != nil || !hasRow {
		t.Fatalf("expected a Rules row for the font-face body: hasRow=%v err=%v", hasRow, err)
	}
	ruleID := stmt.GetInt64("RuleID")

	decls, err := DeclarationsForRule(conn, ruleID)
	if err != nil {
		t.Fatalf("DeclarationsForRule error = %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("got %d declarations, want 2: %+v", len(decls), decls)
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	dir := t.TempDir()
	pool, err := Open(dir + "/index.db")
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	defer func() {
		if err := pool.Close(); err != nil {
			t.Error(err)
		}
	}()

	conn := pool.Get(nil)
	defer pool.Put(conn)

	ix := New(css.Options{})
	if _, err := ix.Index(conn, "a.css", `a { color: red }`); err != nil {
		t.Fatalf("Index error = %v", err)
	}
	rules, err := RulesWithProperty(conn, "color")
	if err != nil || len(rules) != 1 {
		t.Fatalf("got rules=%+v err=%v", rules, err)
	}
}
