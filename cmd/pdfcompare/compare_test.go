package main

import (
	"os"
	"path/filepath"
	"testing"

	"pdf-compare/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDiffPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diff.pdf")
	report := &domain.ComparisonReport{
		DiffDocument: &domain.ArtifactRef{ContentType: "application/pdf", Size: 8, Data: []byte("%PDF-1.7")},
	}

	require.NoError(t, writeDiffPDF(path, report))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
	assert.Equal(t, path, report.DiffDocument.Path)

	err = writeDiffPDF(path, &domain.ComparisonReport{})
	assert.ErrorContains(t, err, "could not be generated")
}

func TestClearInlineArtifacts(t *testing.T) {
	report := &domain.ComparisonReport{
		Pages: []domain.PageComparisonResult{
			{PageNumber: 1, DiffArtifact: &domain.ArtifactRef{PageNumber: 1, Data: []byte{1}}},
		},
		DiffDocument: &domain.ArtifactRef{Data: []byte{2}},
	}

	clearInlineArtifacts(report)
	assert.Nil(t, report.Pages[0].DiffArtifact.Data)
	assert.Nil(t, report.DiffDocument.Data)
}

func TestCompareCommand_DiffPDFFlag(t *testing.T) {
	flag := compareCmd.Flags().Lookup("diff-pdf")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}
