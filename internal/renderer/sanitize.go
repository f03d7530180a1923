package renderer

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var errClosed = errors.New("document is closed")

// Sanitize cleans extracted page text for comparison and JSON storage.
// Control characters other than tab and newline, surrogates and invalid
// UTF-8 are dropped, line endings become \n, trailing spaces are trimmed
// from each line, and the result is NFC normalized.
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		switch {
		case r == utf8.RuneError && size <= 1:
		case r == '\t' || r == '\n':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7F:
		case r >= 0xD800 && r <= 0xDFFF:
		case r >= 0x80 && r < 0xA0:
		default:
			b.WriteRune(r)
		}
	}

	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return norm.NFC.String(strings.TrimRight(strings.Join(lines, "\n"), "\n"))
}
