// Package sanitize cleans user supplied text before it is stored or exported.
package sanitize

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Text strips every HTML tag and control character and collapses runs of
// whitespace. Entities escaped by the policy are turned back into plain text.
func Text(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = StripUnprintable(s)
	return strings.Join(strings.Fields(s), " ")
}

// StripUnprintable removes non-printable characters, keeping tab, newline and
// carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// FormulaSafe prefixes a single quote when a cell would otherwise be read as a
// spreadsheet formula.
func FormulaSafe(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	switch trimmed[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// IsBinary reports whether data looks like something other than text: a NUL
// byte or mostly control characters in the first 512 bytes.
func IsBinary(data []byte) bool {
	if len(data) > 512 {
		data = data[:512]
	}
	control := 0
	for _, b := range data {
		if b == 0 {
			return true
		}
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			control++
		}
	}
	return len(data) > 0 && control*10 > len(data)
}
