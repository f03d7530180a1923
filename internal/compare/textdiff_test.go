package compare

import (
	"strings"
	"testing"

	"pdf-compare/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSimilarity(t *testing.T) {
	assert.Equal(t, 100.0, TextSimilarity("", ""))
	assert.Equal(t, 100.0, TextSimilarity("same", "same"))
	assert.Equal(t, 0.0, TextSimilarity("abc", ""))
	assert.Equal(t, 0.0, TextSimilarity("abc", "xyz"))
	assert.Equal(t, 66.67, TextSimilarity("abcd", "ab"))

	near := TextSimilarity("the quick brown fox", "the quick brown fix")
	assert.Less(t, near, 100.0)
	assert.Greater(t, near, 90.0)
}

func TestTextSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"abcdef", "abxdefg"},
		{"invoice total 100", "total invoice 100"},
		{"ab", "ba"},
	}
	for _, p := range pairs {
		assert.Equal(t, TextSimilarity(p[0], p[1]), TextSimilarity(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestTextSimilarity_LargeTextsUseLines(t *testing.T) {
	line := strings.Repeat("x", 99)
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = line
	}
	a := strings.Join(lines, "\n")
	lines[100] = "changed"
	b := strings.Join(lines, "\n")

	sim := TextSimilarity(a, b)
	assert.Equal(t, 99.5, sim)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b", ""}, SplitLines("a\r\nb\n"))
}

func TestCompareLines(t *testing.T) {
	got := CompareLines("keep\nold\ngone", "keep\nnew\n\nadded", LineFilter{})
	want := []domain.TextDiffEntry{
		{LineNumber: 2, Kind: domain.TextModification, Original: "old", New: "new"},
		{LineNumber: 3, Kind: domain.TextDeletion, Content: "gone"},
		{LineNumber: 4, Kind: domain.TextAddition, Content: "added"},
	}
	assert.Equal(t, want, got)
	assert.Empty(t, CompareLines("a\nb", "a\r\nb", LineFilter{}))
}

func TestCompareLines_InsertionCascades(t *testing.T) {
	got := CompareLines("x\ny\nz", "x\nnew\ny\nz", LineFilter{})
	require.Len(t, got, 3)
	assert.Equal(t, domain.TextDiffEntry{LineNumber: 2, Kind: domain.TextModification, Original: "y", New: "new"}, got[0])
	assert.Equal(t, domain.TextDiffEntry{LineNumber: 3, Kind: domain.TextModification, Original: "z", New: "y"}, got[1])
	assert.Equal(t, domain.TextDiffEntry{LineNumber: 4, Kind: domain.TextAddition, Content: "z"}, got[2])
}

func TestCompareLines_Filter(t *testing.T) {
	a, b := "x\ny\nz", "x\nnew\ny\nz"

	onlyAdds := CompareLines(a, b, LineFilter{SkipModifications: true})
	require.Len(t, onlyAdds, 1)
	assert.Equal(t, domain.TextAddition, onlyAdds[0].Kind)

	assert.Empty(t, CompareLines(a, b, LineFilter{SkipAdditions: true, SkipModifications: true}))
	assert.Len(t, CompareLines(b, a, LineFilter{SkipModifications: true}), 1)
	assert.Empty(t, CompareLines(b, a, LineFilter{SkipDeletions: true, SkipModifications: true}))
}

func TestUnifiedDiff(t *testing.T) {
	diff, err := UnifiedDiff("a\nb\nc\n", "a\nB\nc\n", "v1.pdf", "v2.pdf", 1)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- v1.pdf")
	assert.Contains(t, diff, "+++ v2.pdf")
	assert.Contains(t, diff, "-b\n")
	assert.Contains(t, diff, "+B\n")

	same, err := UnifiedDiff("a\n", "a\n", "x", "y", 3)
	require.NoError(t, err)
	assert.Empty(t, same)
}
