package compare

import (
	"strings"

	"pdf-compare/internal/domain"

	"github.com/pmezard/go-difflib/difflib"
)

// LineFilter hides kinds of line differences. The zero value shows all of them.
type LineFilter struct {
	SkipAdditions     bool
	SkipDeletions     bool
	SkipModifications bool
}

func (f LineFilter) allows(k domain.TextDiffKind) bool {
	switch k {
	case domain.TextAddition:
		return !f.SkipAdditions
	case domain.TextDeletion:
		return !f.SkipDeletions
	case domain.TextModification:
		return !f.SkipModifications
	}
	return true
}

// SplitLines splits text on line breaks, treating \r\n as \n. Empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// CompareLines diffs two texts by line index. Lines are matched by position,
// not aligned: one inserted line shows up as modifications of every line after it.
func CompareLines(a, b string, filter LineFilter) []domain.TextDiffEntry {
	return DiffLines(SplitLines(a), SplitLines(b), filter)
}

// DiffLines is CompareLines over already split lines.
func DiffLines(l1, l2 []string, filter LineFilter) []domain.TextDiffEntry {
	var out []domain.TextDiffEntry
	for i := 0; i < max(len(l1), len(l2)); i++ {
		var a, b string
		if i < len(l1) {
			a = l1[i]
		}
		if i < len(l2) {
			b = l2[i]
		}
		if a == b {
			continue
		}

		e := domain.TextDiffEntry{LineNumber: i + 1}
		switch {
		case a == "":
			e.Kind, e.Content = domain.TextAddition, b
		case b == "":
			e.Kind, e.Content = domain.TextDeletion, a
		default:
			e.Kind, e.Original, e.New = domain.TextModification, a, b
		}
		if filter.allows(e.Kind) {
			out = append(out, e)
		}
	}
	return out
}

// UnifiedDiff renders a sequence-aligned unified diff of the two texts.
func UnifiedDiff(a, b, nameA, nameB string, context int) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: nameA,
		ToFile:   nameB,
		Context:  context,
	})
}
