package compare

import (
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// runeMatchLimit is the combined rune count above which similarity is computed
// over lines instead of runes.
const runeMatchLimit = 20000

// TextSimilarity returns a symmetric Ratcliff/Obershelp similarity in [0,100],
// rounded to two decimals. Only equal strings score 100.
func TextSimilarity(a, b string) float64 {
	if a == b {
		return 100
	}
	if a > b {
		a, b = b, a
	}

	var sa, sb []string
	if utf8.RuneCountInString(a)+utf8.RuneCountInString(b) <= runeMatchLimit {
		sa, sb = runeTokens(a), runeTokens(b)
	} else {
		sa, sb = strings.Split(a, "\n"), strings.Split(b, "\n")
	}

	m := difflib.NewMatcherWithJunk(sa, sb, false, nil)
	s := roundTo(m.Ratio()*100, 2)
	if s >= 100 {
		s = 99.99
	}
	return s
}

func runeTokens(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
