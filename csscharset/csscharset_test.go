package csscharset

import "testing"

func TestDetectBOM(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantLen int
		wantOk  bool
	}{
		{"utf8", []byte{0xEF, 0xBB, 0xBF, 'a'}, "utf-8", 3, true},
		{"utf16be", []byte{0xFE, 0xFF, 'a'}, "utf-16be", 2, true},
		{"utf16le", []byte{0xFF, 0xFE, 'a'}, "utf-16le", 2, true},
		{"none", []byte("a { color: red }"), "", 0, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			charset, length, ok := DetectBOM(test.data)
			if ok != test.wantOk || charset != test.want || length != test.wantLen {
				t.Errorf("DetectBOM(%v) = (%q, %d, %v), want (%q, %d, %v)",
					test.data, charset, length, ok, test.want, test.wantLen, test.wantOk)
			}
		})
	}
}

func TestSniffCharsetRule(t *testing.T) {
	charset, ok := SniffCharsetRule([]byte(`@charset "iso-8859-1"; a { color: red }`))
	if !ok || charset != "iso-8859-1" {
		t.Errorf("got (%q, %v), want (iso-8859-1, true)", charset, ok)
	}
	if _, ok := SniffCharsetRule([]byte(`a { color: red }`)); ok {
		t.Errorf("expected no match with no leading @charset rule")
	}
}

func TestResolvePrecedence(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`@charset "iso-8859-1"; a{}`)...)

	// Transport charset wins over everything.
	charset, _, err := Resolve(data, "iso-8859-1")
	if err != nil || charset != "iso-8859-1" {
		t.Fatalf("Resolve with transport charset = (%q, %v)", charset, err)
	}

	// With no transport hint, the BOM wins over the @charset rule.
	charset, _, err = Resolve(data, "")
	if err != nil || charset != "utf-8" {
		t.Fatalf("Resolve with BOM = (%q, %v)", charset, err)
	}

	// With no BOM and no transport hint, the @charset rule wins.
	noBOM := []byte(`@charset "iso-8859-1"; a{}`)
	charset, _, err = Resolve(noBOM, "")
	if err != nil || charset != "iso-8859-1" {
		t.Fatalf("Resolve with @charset rule = (%q, %v)", charset, err)
	}

	// With nothing at all, the fallback applies.
	charset, _, err = Resolve([]byte(`a{}`), "")
	if err != nil || charset != Fallback {
		t.Fatalf("Resolve fallback = (%q, %v)", charset, err)
	}
}

func TestResolveGB2312Fallback(t *testing.T) {
	charset, enc, err := Resolve([]byte(`a{}`), "gb2312")
	if err != nil {
		t.Fatalf("Resolve(gb2312) error = %v", err)
	}
	if charset != "gb2312" || enc == nil {
		t.Errorf("got (%q, %v), want (gb2312, non-nil)", charset, enc)
	}
}

func TestDecodeUTF8(t *testing.T) {
	text, charset, err := Decode([]byte("a { color: red }"), "")
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if charset != Fallback || text != "a { color: red }" {
		t.Errorf("got (%q, %q), want (%q, %q)", text, charset, "a { color: red }", Fallback)
	}
}
