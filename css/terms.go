package css

import (
	"strconv"
	"strings"

	"github.com/mattiacci/parser-lib/cssast"
	"github.com/mattiacci/parser-lib/tokenstream"
)

func applySign(sign int8, n float64) float64 {
	if sign < 0 {
		return -n
	}
	return n
}

func isNumericTermType(tt tokenstream.TokenType) bool {
	switch tt {
	case tNumber, tPercentage, tLength, tEms, tExs, tAngle, tTime, tFreq, tResolution, tDimension:
		return true
	}
	return false
}

func dimensionKind(tt tokenstream.TokenType) cssast.TermKind {
	switch tt {
	case tLength:
		return cssast.TermLength
	case tEms:
		return cssast.TermEms
	case tExs:
		return cssast.TermExs
	case tAngle:
		return cssast.TermAngle
	case tTime:
		return cssast.TermTime
	case tFreq:
		return cssast.TermFreq
	case tResolution:
		return cssast.TermResolution
	default:
		return cssast.TermDimension
	}
}

// splitNumberUnit separates a NUMERIC token's text (e.g. "3.5px") into
// its numeric value and trailing unit ("px"); the unit is "" when
// there is no trailing unit at all.
func splitNumberUnit(value string) (float64, string) {
	loc := reNumberOnly.FindStringIndex(value)
	if loc == nil {
		n, _ := strconv.ParseFloat(value, 64)
		return n, ""
	}
	n, _ := strconv.ParseFloat(value[:loc[1]], 64)
	return n, value[loc[1]:]
}

func parseNumericPrefix(value string) float64 {
	n, _ := splitNumberUnit(value)
	return n
}

// unquoteString strips a STRING token's surrounding quotes and decodes
// its escapes.
func unquoteString(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	return cssUnescape(raw[1 : len(raw)-1])
}

// unwrapURI strips a URI token's "url(" ... ")" wrapper and any inner
// quoting, decoding escapes in what remains.
func unwrapURI(raw string) string {
	body := raw
	if open := strings.IndexByte(raw, '('); open >= 0 && strings.HasSuffix(raw, ")") {
		body = raw[open+1 : len(raw)-1]
	}
	body = strings.TrimSpace(body)
	if len(body) >= 2 && (body[0] == '"' || body[0] == '\'') {
		body = body[1 : len(body)-1]
	}
	return cssUnescape(body)
}
