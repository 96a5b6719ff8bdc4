package reader

import (
	"regexp"
	"testing"
)

func TestNormalizeLineEndings(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\nb"},
		{"a\nb", "a\nb"},
		{"a\r\n\r\nb", "a\n\nb"},
	}
	for _, test := range tests {
		if got := normalizeLineEndings(test.in); got != test.want {
			t.Errorf("normalizeLineEndings(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestReadPositions(t *testing.T) {
	type readAt struct {
		row, col int
		c        rune
	}
	r := New("ab\ncd")
	var got []readAt
	for !r.EOF() {
		row, col := r.Pos()
		got = append(got, readAt{row, col, r.Read()})
	}
	want := []readAt{
		{1, 1, 'a'},
		{1, 2, 'b'},
		{1, 3, '\n'},
		{2, 1, 'c'},
		{2, 2, 'd'},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d reads, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("read %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if r.Read() != noneRune {
		t.Errorf("Read at EOF should return the null sentinel")
	}
}

func TestReadCount(t *testing.T) {
	r := New("hello")
	if got := r.ReadCount(3); got != "hel" {
		t.Fatalf("ReadCount(3) = %q", got)
	}
	if got := r.ReadCount(10); got != "lo" {
		t.Fatalf("ReadCount(10) at near-EOF = %q, want \"lo\"", got)
	}
	if !r.EOF() {
		t.Fatalf("expected EOF")
	}
}

func TestReadTo(t *testing.T) {
	r := New("/* comment */ rest")
	got, err := r.ReadTo("*/")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/* comment */" {
		t.Fatalf("ReadTo = %q", got)
	}
	if rest := r.ReadCount(100); rest != " rest" {
		t.Fatalf("remaining = %q", rest)
	}
}

func TestReadToUnexpectedEOF(t *testing.T) {
	r := New("/* unterminated")
	before := r.save()
	_, err := r.ReadTo("*/")
	if err != ErrUnexpectedEOF {
		t.Fatalf("err = %v, want ErrUnexpectedEOF", err)
	}
	if r.save() != before {
		t.Fatalf("ReadTo must not move the cursor on failure")
	}
}

func TestReadWhile(t *testing.T) {
	r := New("   abc")
	ws := r.ReadWhile(func(c rune) bool { return c == ' ' })
	if ws != "   " {
		t.Fatalf("ReadWhile = %q", ws)
	}
	if c := r.Read(); c != 'a' {
		t.Fatalf("next char after ReadWhile = %q, want 'a'", c)
	}
}

func TestReadMatchLiteralAtomic(t *testing.T) {
	r := New("foobar")
	before := r.save()
	if _, ok := r.ReadMatch("baz"); ok {
		t.Fatalf("ReadMatch(\"baz\") should fail")
	}
	if r.save() != before {
		t.Fatalf("failed ReadMatch must leave the reader unchanged")
	}
	got, ok := r.ReadMatch("foo")
	if !ok || got != "foo" {
		t.Fatalf("ReadMatch(\"foo\") = %q, %v", got, ok)
	}
	if rest := r.ReadCount(10); rest != "bar" {
		t.Fatalf("remaining = %q", rest)
	}
}

func TestReadMatchRegexAtomic(t *testing.T) {
	re := regexp.MustCompile(`^[0-9]+`)
	r := New("123px")
	got, ok := r.ReadMatch(re)
	if !ok || got != "123" {
		t.Fatalf("ReadMatch(re) = %q, %v", got, ok)
	}
	before := r.save()
	if _, ok := r.ReadMatch(re); ok {
		t.Fatalf("ReadMatch(re) should fail on non-numeric remainder")
	}
	if r.save() != before {
		t.Fatalf("failed regex ReadMatch must leave the reader unchanged")
	}
}

func TestReaderEOFSentinel(t *testing.T) {
	r := New("")
	if !r.EOF() {
		t.Fatalf("empty input should be EOF")
	}
	if r.Read() != noneRune {
		t.Fatalf("Read on empty input should return the null sentinel")
	}
}
