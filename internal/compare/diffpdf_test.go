package compare

import (
	"bytes"
	"context"
	"image"
	"regexp"
	"strings"
	"testing"
	"time"

	"pdf-compare/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pdfPageCount(t *testing.T, data []byte) string {
	t.Helper()
	m := regexp.MustCompile(`/Count\s*(\d+)`).FindSubmatch(data)
	require.NotNil(t, m, "pages tree not found")
	return string(m[1])
}

func diffReport() *domain.ComparisonReport {
	return &domain.ComparisonReport{
		ID:                "cmp-1",
		Mode:              domain.ModeVisual,
		Document1:         domain.DocumentSummary{ID: "a", Name: "contract-v1.pdf", PageCount: 2},
		Document2:         domain.DocumentSummary{ID: "b", Name: "contract-v2.pdf", PageCount: 2},
		OverallSimilarity: 97.5,
		HasDifferences:    true,
		CoordinateUnit:    domain.CoordinateUnitPixels,
		CreatedAt:         time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Pages: []domain.PageComparisonResult{
			{PageNumber: 1, Kind: domain.PageIdentical, Similarity: 100},
			{PageNumber: 2, Kind: domain.PageContentChange, Similarity: 95, HasDifferences: true,
				Description: "Page 2 has significant differences (95.00% similar)"},
		},
	}
}

func TestGenerateDiffPDF_Summary(t *testing.T) {
	data, err := GenerateDiffPDF(diffReport())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, "1", pdfPageCount(t, data))
}

func TestGenerateDiffPDF_OnePagePerDiffImage(t *testing.T) {
	a := solidPage(40, 30, white)
	b := pageWithBlock(40, 30, image.Rect(5, 5, 20, 15))
	png, err := RenderDiffArtifact(a, b)
	require.NoError(t, err)

	r := diffReport()
	r.Pages[1].DiffArtifact = newArtifactRef(2, png)

	data, err := GenerateDiffPDF(r)
	require.NoError(t, err)
	assert.Equal(t, "2", pdfPageCount(t, data))
}

func TestGenerateDiffPDF_RejectsCorruptImage(t *testing.T) {
	r := diffReport()
	r.Pages[1].DiffArtifact = newArtifactRef(2, []byte("not an image"))

	_, err := GenerateDiffPDF(r)
	assert.ErrorContains(t, err, "page 2")
}

func TestCompare_AttachesDiffPDF(t *testing.T) {
	d1 := visualDoc("a", blankRenderer(1, 20, 20))
	d2 := visualDoc("b", &fakeRenderer{
		pages:  1,
		render: func(int) (image.Image, error) { return pageWithBlock(20, 20, image.Rect(0, 0, 10, 10)), nil },
	})

	report, err := NewEngine(nil, nil).CompareVisual(context.Background(), d1, d2,
		Options{CreateDiffArtifacts: true, CreateDiffPDF: true})
	require.NoError(t, err)

	doc := report.DiffDocument
	require.NotNil(t, doc)
	assert.Equal(t, 0, doc.PageNumber)
	assert.Equal(t, ContentTypePDF, doc.ContentType)
	assert.Equal(t, len(doc.Data), doc.Size)
	assert.Equal(t, "2", pdfPageCount(t, doc.Data))

	report, err = NewEngine(nil, nil).CompareVisual(context.Background(), d1, d2, Options{})
	require.NoError(t, err)
	assert.Nil(t, report.DiffDocument)
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrapLine("short", 10))
	assert.Equal(t, []string{"alpha beta", "gamma"}, wrapLine("alpha beta gamma", 12))
	assert.Equal(t, []string{"abcdef", "ghij"}, wrapLine("abcdefghij", 6))

	long := strings.Repeat("word ", 40)
	for _, l := range wrapLine(long, pdfLineWidth) {
		assert.LessOrEqual(t, len(l), pdfLineWidth)
	}
}

func TestPDFSafe(t *testing.T) {
	assert.Equal(t, "caf? a b", pdfSafe("café a\tb"))
}
