package compare

import (
	"testing"
	"time"

	"pdf-compare/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestFormatReport(t *testing.T) {
	textSim := 87.5
	r := &domain.ComparisonReport{
		Document1:         domain.DocumentSummary{ID: "1", Name: "v1.pdf", PageCount: 2},
		Document2:         domain.DocumentSummary{ID: "2", PageCount: 3},
		OverallSimilarity: 97.25,
		TextSimilarity:    &textSim,
		Mode:              domain.ModeHybrid,
		CoordinateUnit:    domain.CoordinateUnitPixels,
		CreatedAt:         time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Pages: []domain.PageComparisonResult{
			{PageNumber: 1, Kind: domain.PageIdentical, Similarity: 100, Description: "Page 1 is identical or nearly identical"},
			{
				PageNumber:     2,
				Kind:           domain.PageContentChange,
				HasDifferences: true,
				Description:    "Page 2 has significant differences (94.50% similar)",
				Regions:        []domain.DiffRegion{{X: 10, Y: 20, Width: 300, Height: 12, Classification: domain.RegionTextChange}},
			},
			{PageNumber: 3, Kind: domain.PageAdded, HasDifferences: true, Description: "Page 3 exists only in second document"},
		},
		TextDifferences: []domain.TextDiffEntry{
			{LineNumber: 4, Kind: domain.TextModification, Original: "a", New: "b"},
		},
	}

	out := FormatReport(r)
	assert.Contains(t, out, "Document 1: v1.pdf (2 pages)")
	assert.Contains(t, out, "Document 2: 2 (3 pages)")
	assert.Contains(t, out, "Comparison Date: 2024-03-01 10:30:00")
	assert.Contains(t, out, "Overall Similarity: 97.25%")
	assert.Contains(t, out, "Text Similarity: 87.50%")
	assert.Contains(t, out, "• Page 2 has significant differences (94.50% similar)")
	assert.Contains(t, out, "text_change at (10,20) 300x12px")
	assert.Contains(t, out, "• Page 3 exists only in second document")
	assert.NotContains(t, out, "Page 1 is identical")
	assert.Contains(t, out, `line 4 ~ "a" -> "b"`)
}
