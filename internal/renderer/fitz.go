package renderer

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	"pdf-compare/internal/domain"

	"github.com/gen2brain/go-fitz"
)

// pageTextTimeout bounds text extraction of a single page.
const pageTextTimeout = 90 * time.Second

// FitzDocument adapts a MuPDF document to the Renderer, PageSizer and Extractor
// interfaces. MuPDF contexts are not goroutine safe, so every call is serialized.
type FitzDocument struct {
	mu     sync.Mutex
	doc    *fitz.Document
	logger domain.Logger
	closed bool
}

// Open opens a PDF held in memory.
func Open(content []byte, logger domain.Logger) (*FitzDocument, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidInput)
	}
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF: %v", domain.ErrInvalidInput, err)
	}
	return &FitzDocument{doc: doc, logger: logger}, nil
}

// OpenFile opens a PDF from disk.
func OpenFile(path string, logger domain.Logger) (*FitzDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", domain.ErrInvalidInput, path, err)
	}
	return &FitzDocument{doc: doc, logger: logger}, nil
}

// Close releases the MuPDF document. Safe to call more than once.
func (d *FitzDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.doc.Close()
}

// Title returns the document title from its metadata, if any.
func (d *FitzDocument) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ""
	}
	return strings.TrimSpace(d.doc.Metadata()["title"])
}

func (d *FitzDocument) PageCount(ctx context.Context) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, errClosed
	}
	return d.doc.NumPage(), nil
}

func (d *FitzDocument) RenderPage(ctx context.Context, pageIndex int, dpi int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkPage(pageIndex); err != nil {
		return nil, err
	}
	img, err := d.doc.ImageDPI(pageIndex, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", pageIndex+1, err)
	}
	return img, nil
}

// PageSize reports the pixel size of a page at dpi from its bounds, without rasterizing.
func (d *FitzDocument) PageSize(ctx context.Context, pageIndex int, dpi int) (int, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkPage(pageIndex); err != nil {
		return 0, 0, err
	}
	// Bounds are reported at 72 dpi.
	b, err := d.doc.Bound(pageIndex)
	if err != nil {
		return 0, 0, fmt.Errorf("bound page %d: %w", pageIndex+1, err)
	}
	scale := float64(dpi) / 72
	return int(float64(b.Dx())*scale + 0.5), int(float64(b.Dy())*scale + 0.5), nil
}

// PageText extracts and sanitizes the text of one page. A page that takes longer
// than pageTextTimeout yields an error; the extraction finishes in the background.
func (d *FitzDocument) PageText(ctx context.Context, pageIndex int) (string, error) {
	type pageResult struct {
		text string
		err  error
	}

	resultCh := make(chan pageResult, 1)
	go func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.checkPage(pageIndex); err != nil {
			resultCh <- pageResult{err: err}
			return
		}
		t, e := d.doc.Text(pageIndex)
		resultCh <- pageResult{text: t, err: e}
	}()

	timer := time.NewTimer(pageTextTimeout)
	defer timer.Stop()
	select {
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("extract page %d: %w", pageIndex+1, res.err)
		}
		return Sanitize(res.text), nil
	case <-timer.C:
		if d.logger != nil {
			d.logger.Warn("PDF page extraction timeout", "page", pageIndex+1, "timeout_sec", int(pageTextTimeout.Seconds()))
		}
		return "", fmt.Errorf("extract page %d: timeout after %v", pageIndex+1, pageTextTimeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// FullText joins the text of every page with newlines. Pages that fail to
// extract contribute empty text.
func (d *FitzDocument) FullText(ctx context.Context) (string, error) {
	n, err := d.PageCount(ctx)
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := d.PageText(ctx, i)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if d.logger != nil {
				d.logger.Warn("Failed to extract text from page", "page_num", i+1, "total", n, "error", err)
			}
			text = ""
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

func (d *FitzDocument) checkPage(pageIndex int) error {
	if d.closed {
		return errClosed
	}
	if pageIndex < 0 || pageIndex >= d.doc.NumPage() {
		return fmt.Errorf("page %d out of range (%d pages)", pageIndex+1, d.doc.NumPage())
	}
	return nil
}
