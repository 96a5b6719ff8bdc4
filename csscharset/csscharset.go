// Package csscharset implements CSS2.1's byte-stream charset
// determination algorithm: given the raw bytes of a stylesheet and
// whatever transport-level hint accompanied them (an HTTP
// Content-Type charset parameter, typically), it decides which
// character encoding to decode the stylesheet as before handing text
// to css.Parser, which only ever sees decoded Go strings.
package csscharset

import (
	"bytes"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// Fallback is the charset assumed when nothing else determines one,
// per CSS2.1 §4.4's own fallback of "the default encoding of the
// underlying protocol", which in practice is UTF-8 for anything served
// on the modern web.
const Fallback = "utf-8"

var charsetRuleRe = regexp.MustCompile(`^@charset "([^"]*)";`)

// bom is a byte-order-mark signature naming the encoding it implies.
type bom struct {
	sig     []byte
	charset string
}

// boms is checked in order; UTF-32's 4-byte marks must be tried before
// UTF-16's 2-byte ones, since a UTF-32LE BOM's first two bytes equal a
// UTF-16LE BOM's.
var boms = []bom{
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, "utf-32be"},
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, "utf-32le"},
	{[]byte{0xEF, 0xBB, 0xBF}, "utf-8"},
	{[]byte{0xFE, 0xFF}, "utf-16be"},
	{[]byte{0xFF, 0xFE}, "utf-16le"},
}

// DetectBOM reports the charset implied by data's leading byte-order
// mark, and the length of that mark in bytes, or ok=false if data has
// none of the recognized marks.
func DetectBOM(data []byte) (charset string, length int, ok bool) {
	for _, b := range boms {
		if bytes.HasPrefix(data, b.sig) {
			return b.charset, len(b.sig), true
		}
	}
	return "", 0, false
}

// SniffCharsetRule reports the charset named by a leading "@charset
// "name";" rule, per CSS2.1's requirement that this be recognized at
// the byte level, ASCII-exact, before any decoding happens (a
// multi-byte encoding's "@charset" bytes might not even be valid ASCII
// in some other encoding, so this can't wait for tokenization).
func SniffCharsetRule(data []byte) (charset string, ok bool) {
	m := charsetRuleRe.FindSubmatch(data)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}

// Resolve applies CSS2.1 §4.4's precedence order — an explicit
// transport-level charset first, then a BOM, then an @charset rule,
// finally Fallback — and returns the winning charset name together
// with its decoder.
func Resolve(data []byte, transportCharset string) (charset string, enc encoding.Encoding, err error) {
	if transportCharset != "" {
		enc, err = lookup(transportCharset)
		if err == nil {
			return strings.ToLower(transportCharset), enc, nil
		}
	}
	if name, _, ok := DetectBOM(data); ok {
		enc, err = lookup(name)
		if err == nil {
			return name, enc, nil
		}
	}
	if name, ok := SniffCharsetRule(data); ok {
		enc, err = lookup(name)
		if err == nil {
			return strings.ToLower(name), enc, nil
		}
	}
	enc, err = lookup(Fallback)
	return Fallback, enc, err
}

func lookup(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.MIME.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		// ianaindex doesn't resolve this name on its own; gb2312 is
		// common enough in the wild to special-case the same way the
		// teacher's mimeDecoder.CharsetReader does.
		if strings.EqualFold(name, "gb2312") {
			return simplifiedchinese.HZGB2312, nil
		}
		return nil, errors.New("csscharset: unknown charset " + name)
	}
	return enc, nil
}

// Decode resolves data's charset per Resolve and returns it decoded to
// a Go string, along with the charset name that was used.
func Decode(data []byte, transportCharset string) (text string, charset string, err error) {
	name, enc, err := Resolve(data, transportCharset)
	if err != nil {
		return "", "", err
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", err
	}
	return string(decoded), name, nil
}
