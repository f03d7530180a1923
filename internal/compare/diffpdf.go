package compare

import (
	"fmt"
	"strings"
	"time"

	"pdf-compare/internal/domain"

	"github.com/benedoc-inc/pdfer/core/write"
	"github.com/benedoc-inc/pdfer/types"
)

// ContentTypePDF is the content type of the report-level diff document.
const ContentTypePDF = "application/pdf"

const (
	pdfMargin    = 56.0
	pdfLeading   = 6.0
	pdfLineWidth = 90
)

// GenerateDiffPDF renders the report as a PDF document: a summary of the
// differences followed by one page per diff image.
func GenerateDiffPDF(r *domain.ComparisonReport) ([]byte, error) {
	b := write.NewSimplePDFBuilder()
	b.Writer().SetMetadata(&types.DocumentMetadata{
		Title:        fmt.Sprintf("Comparison of %s and %s", summaryName(r.Document1), summaryName(r.Document2)),
		Creator:      "pdfcompare",
		CreationDate: r.CreatedAt.UTC().Format(time.RFC3339),
		ModDate:      r.CreatedAt.UTC().Format(time.RFC3339),
	})

	t := &pdfTextWriter{b: b}
	t.heading("PDF Comparison Report", 16)
	t.gap()
	t.line(fmt.Sprintf("Document 1: %s (%d pages)", summaryName(r.Document1), r.Document1.PageCount), 12)
	t.line(fmt.Sprintf("Document 2: %s (%d pages)", summaryName(r.Document2), r.Document2.PageCount), 12)
	t.line("Comparison Date: "+r.CreatedAt.UTC().Format("2006-01-02 15:04:05"), 12)
	t.line(fmt.Sprintf("Mode: %s", r.Mode), 12)
	t.line(fmt.Sprintf("Overall Similarity: %.2f%%", r.OverallSimilarity), 12)
	if r.TextSimilarity != nil {
		t.line(fmt.Sprintf("Text Similarity: %.2f%%", *r.TextSimilarity), 12)
	}
	t.gap()

	diffs := r.Differences()
	t.heading("Summary of Differences", 14)
	if len(diffs) == 0 {
		t.line("No differences found.", 10)
	}
	for _, d := range diffs {
		t.line("- "+d.Description, 10)
		for _, reg := range d.Regions {
			t.line(fmt.Sprintf("    %s at (%d,%d) %dx%d%s",
				regionLabel(reg), reg.X, reg.Y, reg.Width, reg.Height, r.CoordinateUnit), 9)
		}
	}
	t.finish()

	for _, d := range diffs {
		if d.DiffArtifact == nil || len(d.DiffArtifact.Data) == 0 {
			continue
		}
		if err := addDiffImagePage(b, d.PageNumber, d.DiffArtifact.Data); err != nil {
			return nil, err
		}
	}

	data, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to write diff PDF: %w", err)
	}
	return data, nil
}

func addDiffImagePage(b *write.SimplePDFBuilder, page int, png []byte) error {
	info, err := b.Writer().AddImage(png, fmt.Sprintf("Im%d", page))
	if err != nil {
		return fmt.Errorf("failed to embed diff image of page %d: %w", page, err)
	}

	size := write.PageSizeLetter
	pb := b.AddPage(size)
	font := pb.AddStandardFont("Helvetica-Bold")
	top := size.Height - pdfMargin
	pb.Content().
		BeginText().
		SetFont(font, 12).
		SetTextPosition(pdfMargin, top-12).
		ShowText(fmt.Sprintf("Page %d Differences", page)).
		EndText()

	// Fit the image into the area below the heading, keeping its aspect ratio.
	maxW := size.Width - 2*pdfMargin
	maxH := top - 12 - 2*pdfLeading - pdfMargin
	w := maxW
	h := w * float64(info.Height) / float64(max(info.Width, 1))
	if h > maxH {
		h = maxH
		w = h * float64(info.Width) / float64(max(info.Height, 1))
	}
	name := pb.AddImage(info)
	pb.Content().DrawImageAt(name, pdfMargin, top-12-2*pdfLeading-h, w, h)
	b.FinalizePage(pb)
	return nil
}

// pdfTextWriter lays out lines top to bottom with the standard Helvetica
// fonts and starts a new page when the current one is full.
type pdfTextWriter struct {
	b     *write.SimplePDFBuilder
	page  *write.PageBuilder
	fonts map[string]string
	y     float64
}

func (t *pdfTextWriter) heading(text string, size float64) { t.draw(text, size, "Helvetica-Bold") }
func (t *pdfTextWriter) line(text string, size float64)    { t.draw(text, size, "Helvetica") }
func (t *pdfTextWriter) gap()                              { t.y -= 2 * pdfLeading }

func (t *pdfTextWriter) draw(text string, size float64, font string) {
	for _, l := range wrapLine(pdfSafe(text), pdfLineWidth) {
		if t.page == nil || t.y-size-pdfLeading < pdfMargin {
			t.newPage()
		}
		t.y -= size + pdfLeading
		t.page.Content().
			BeginText().
			SetFont(t.font(font), size).
			SetTextPosition(pdfMargin, t.y).
			ShowText(l).
			EndText()
	}
}

func (t *pdfTextWriter) font(name string) string {
	if res, ok := t.fonts[name]; ok {
		return res
	}
	res := t.page.AddStandardFont(name)
	t.fonts[name] = res
	return res
}

func (t *pdfTextWriter) newPage() {
	t.finish()
	t.page = t.b.AddPage(write.PageSizeLetter)
	t.fonts = make(map[string]string)
	t.y = write.PageSizeLetter.Height - pdfMargin
}

func (t *pdfTextWriter) finish() {
	if t.page != nil {
		t.b.FinalizePage(t.page)
		t.page = nil
	}
}

// pdfSafe replaces runes the standard fonts cannot show.
func pdfSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case r < 0x20 || r > 0x7e:
			return '?'
		}
		return r
	}, s)
}

func wrapLine(s string, width int) []string {
	var out []string
	for len(s) > width {
		cut := strings.LastIndexByte(s[:width], ' ')
		if cut <= 0 {
			cut = width
		}
		out = append(out, s[:cut])
		s = strings.TrimLeft(s[cut:], " ")
	}
	return append(out, s)
}
