package compare

import (
	"fmt"
	"strings"

	"pdf-compare/internal/domain"
)

// FormatReport renders a plain-text summary of a comparison report.
func FormatReport(r *domain.ComparisonReport) string {
	var b strings.Builder
	b.WriteString("PDF Comparison Report\n\n")
	fmt.Fprintf(&b, "Document 1: %s (%d pages)\n", summaryName(r.Document1), r.Document1.PageCount)
	fmt.Fprintf(&b, "Document 2: %s (%d pages)\n", summaryName(r.Document2), r.Document2.PageCount)
	fmt.Fprintf(&b, "Comparison Date: %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Mode: %s\n", r.Mode)
	fmt.Fprintf(&b, "Overall Similarity: %.2f%%\n", r.OverallSimilarity)
	if r.TextSimilarity != nil {
		fmt.Fprintf(&b, "Text Similarity: %.2f%%\n", *r.TextSimilarity)
	}

	diffs := r.Differences()
	b.WriteString("\nSummary of Differences\n")
	if len(diffs) == 0 {
		b.WriteString("  none\n")
	}
	for _, d := range diffs {
		fmt.Fprintf(&b, "  • %s\n", d.Description)
		if d.Error != "" {
			fmt.Fprintf(&b, "    error: %s\n", d.Error)
		}
		for _, reg := range d.Regions {
			fmt.Fprintf(&b, "    %s at (%d,%d) %dx%d%s\n",
				regionLabel(reg), reg.X, reg.Y, reg.Width, reg.Height, r.CoordinateUnit)
		}
	}

	if len(r.TextDifferences) > 0 {
		fmt.Fprintf(&b, "\nText Differences (%d)\n", len(r.TextDifferences))
		for _, t := range r.TextDifferences {
			switch t.Kind {
			case domain.TextModification:
				fmt.Fprintf(&b, "  line %d ~ %q -> %q\n", t.LineNumber, t.Original, t.New)
			case domain.TextAddition:
				fmt.Fprintf(&b, "  line %d + %q\n", t.LineNumber, t.Content)
			default:
				fmt.Fprintf(&b, "  line %d - %q\n", t.LineNumber, t.Content)
			}
		}
	}
	return b.String()
}

func summaryName(s domain.DocumentSummary) string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

func regionLabel(r domain.DiffRegion) string {
	if r.Classification == "" {
		return "region"
	}
	return string(r.Classification)
}
