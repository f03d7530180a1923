package compare

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"pdf-compare/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Document is one side of a comparison. Visual comparison needs a Renderer,
// text comparison an Extractor, hybrid both.
type Document struct {
	ID        string
	Name      string
	Renderer  domain.Renderer
	Extractor domain.Extractor
}

// pageCounter is implemented by extractors that can count pages on their own.
type pageCounter interface {
	PageCount(ctx context.Context) (int, error)
}

func (d Document) pageCount(ctx context.Context, mode domain.CompareMode) (int, error) {
	if mode != domain.ModeVisual && d.Extractor == nil {
		return 0, errors.New("no text extractor")
	}
	if mode != domain.ModeText && d.Renderer == nil {
		return 0, errors.New("no page renderer")
	}

	var counter pageCounter = d.Renderer
	if d.Renderer == nil {
		pc, ok := d.Extractor.(pageCounter)
		if !ok {
			return 0, errors.New("extractor cannot count pages")
		}
		counter = pc
	}
	n, err := counter.PageCount(ctx)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative page count %d", n)
	}
	return n, nil
}

// Engine compares two documents page by page. It is safe for concurrent use;
// every call owns its own residency tracker.
type Engine struct {
	logger domain.Logger
	guard  *MemoryGuard
	now    func() time.Time
	newID  func() string

	mu   sync.Mutex
	last ResidencyStats
}

// NewEngine creates a new comparison engine. guard may be nil.
func NewEngine(logger domain.Logger, guard *MemoryGuard) *Engine {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Engine{
		logger: logger,
		guard:  guard,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// LastStats returns the raster residency of the most recent comparison call.
func (e *Engine) LastStats() ResidencyStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Compare dispatches on opts.Mode.
func (e *Engine) Compare(ctx context.Context, d1, d2 Document, opts Options) (*domain.ComparisonReport, error) {
	return e.run(ctx, d1, d2, opts.withDefaults())
}

func (e *Engine) CompareVisual(ctx context.Context, d1, d2 Document, opts Options) (*domain.ComparisonReport, error) {
	opts.Mode = domain.ModeVisual
	return e.run(ctx, d1, d2, opts.withDefaults())
}

func (e *Engine) CompareText(ctx context.Context, d1, d2 Document, opts Options) (*domain.ComparisonReport, error) {
	opts.Mode = domain.ModeText
	return e.run(ctx, d1, d2, opts.withDefaults())
}

// CompareHybrid compares text first and rasterizes only pages whose text
// similarity falls below the threshold.
func (e *Engine) CompareHybrid(ctx context.Context, d1, d2 Document, opts Options) (*domain.ComparisonReport, error) {
	opts.Mode = domain.ModeHybrid
	return e.run(ctx, d1, d2, opts.withDefaults())
}

func (e *Engine) run(ctx context.Context, d1, d2 Document, opts Options) (*domain.ComparisonReport, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	defer e.guard.Acquire()()
	start := e.now()

	c1, err := d1.pageCount(ctx, opts.Mode)
	if err != nil {
		return nil, &domain.InputError{Side: 1, Cause: err}
	}
	c2, err := d2.pageCount(ctx, opts.Mode)
	if err != nil {
		return nil, &domain.InputError{Side: 2, Cause: err}
	}

	pages := AlignPages(c1, c2)
	res := NewResidency(opts.MemoryCeilingBytes)
	results := make([]domain.PageComparisonResult, len(pages))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workerCount())
	for i, pa := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := e.comparePage(gctx, d1, d2, pa, opts, res)
			if err != nil {
				return err
			}
			results[i] = r
			completed.Add(1)
			return nil
		})
	}
	err = g.Wait()
	e.setLast(res.Stats())
	if err == nil && int(completed.Load()) < len(pages) {
		err = ctx.Err()
	}
	if err != nil {
		e.logger.Error("Comparison aborted", err, "completed", completed.Load(), "total", len(pages))
		return nil, &domain.PartialError{
			PagesCompleted: int(completed.Load()),
			PagesTotal:     len(pages),
			Cause:          err,
		}
	}

	slices.SortFunc(results, func(a, b domain.PageComparisonResult) int {
		return a.PageNumber - b.PageNumber
	})

	report := &domain.ComparisonReport{
		ID:                 e.newID(),
		Mode:               opts.Mode,
		Document1:          domain.DocumentSummary{ID: d1.ID, Name: d1.Name, PageCount: c1},
		Document2:          domain.DocumentSummary{ID: d2.ID, Name: d2.Name, PageCount: c2},
		TotalPagesCompared: len(pages),
		Pages:              results,
		CoordinateUnit:     domain.CoordinateUnitPixels,
		Threshold:          opts.EffectiveThreshold(),
		CreatedAt:          start.UTC(),
	}
	if opts.Mode != domain.ModeText {
		report.DPI = opts.DPI
	}
	aggregate(report)

	if opts.Mode != domain.ModeVisual {
		if err := e.compareFullText(ctx, d1, d2, opts, report); err != nil {
			return nil, &domain.PartialError{PagesCompleted: len(pages), PagesTotal: len(pages), Cause: err}
		}
	}

	if opts.CreateDiffPDF {
		e.attachDiffPDF(report)
	}

	report.DurationMS = e.now().Sub(start).Milliseconds()
	e.logger.Info("Comparison completed",
		"id", report.ID,
		"mode", report.Mode,
		"pages", report.TotalPagesCompared,
		"similarity", report.OverallSimilarity,
		"has_differences", report.HasDifferences,
		"duration_ms", report.DurationMS)
	return report, nil
}

// attachDiffPDF renders the diff document. Failures are logged and leave the
// report without one.
func (e *Engine) attachDiffPDF(report *domain.ComparisonReport) {
	data, err := GenerateDiffPDF(report)
	if err != nil {
		e.logger.Warn("Failed to generate diff PDF", "id", report.ID, "error", err.Error())
		return
	}
	report.DiffDocument = &domain.ArtifactRef{
		ContentType: ContentTypePDF,
		Size:        len(data),
		Data:        data,
	}
}

func (e *Engine) setLast(s ResidencyStats) {
	e.mu.Lock()
	e.last = s
	e.mu.Unlock()
}

// aggregate fills the overall similarity and difference flag. Added and removed
// pages are flagged but do not count towards the mean.
func aggregate(r *domain.ComparisonReport) {
	var sum float64
	var n int
	imperfect := false
	for _, p := range r.Pages {
		if p.HasDifferences {
			r.HasDifferences = true
		}
		if !p.InBoth() {
			continue
		}
		sum += p.Similarity
		n++
		if p.Similarity < 100 {
			imperfect = true
		}
	}

	switch {
	case n > 0:
		r.OverallSimilarity = roundTo(sum/float64(n), 2)
		if imperfect && r.OverallSimilarity >= 100 {
			r.OverallSimilarity = 99.99
		}
	case r.HasDifferences:
		r.OverallSimilarity = 0
	default:
		r.OverallSimilarity = 100
	}
}

func (e *Engine) compareFullText(ctx context.Context, d1, d2 Document, opts Options, r *domain.ComparisonReport) error {
	t1, err := e.fullText(ctx, d1, 1)
	if err != nil {
		return err
	}
	t2, err := e.fullText(ctx, d2, 2)
	if err != nil {
		return err
	}

	sim := TextSimilarity(t1, t2)
	r.TextSimilarity = &sim
	r.TextDifferences = CompareLines(t1, t2, opts.Lines)
	if opts.flagged(sim) {
		r.HasDifferences = true
	}
	if opts.IncludeUnifiedDiff {
		diff, err := UnifiedDiff(t1, t2, nameOr(d1, "document1"), nameOr(d2, "document2"), 3)
		if err != nil {
			e.logger.Warn("Failed to build unified diff", "error", err.Error())
		} else {
			r.UnifiedDiff = diff
		}
	}
	return nil
}

func (e *Engine) fullText(ctx context.Context, d Document, side int) (string, error) {
	text, err := d.Extractor.FullText(ctx)
	if err != nil {
		if isFatal(err) {
			return "", err
		}
		e.logger.Warn("Text extraction failed, comparing as empty", "document", side, "error", err.Error())
		return "", nil
	}
	return text, nil
}

func nameOr(d Document, fallback string) string {
	if d.Name != "" {
		return d.Name
	}
	return fallback
}

// comparePage produces the result for one aligned page. A returned error is
// fatal to the whole call; page-local failures are recorded in the result.
func (e *Engine) comparePage(ctx context.Context, d1, d2 Document, pa PageAlignment, opts Options, res *Residency) (domain.PageComparisonResult, error) {
	switch pa.Presence {
	case PresenceOnlyIn1:
		return e.missingPage(ctx, d1, pa.PageNumber, domain.PageRemoved, opts, res)
	case PresenceOnlyIn2:
		return e.missingPage(ctx, d2, pa.PageNumber, domain.PageAdded, opts, res)
	}

	switch opts.Mode {
	case domain.ModeText:
		return e.compareTextPage(ctx, d1, d2, pa.PageNumber, opts)
	case domain.ModeHybrid:
		t, err := e.compareTextPage(ctx, d1, d2, pa.PageNumber, opts)
		if err != nil || !t.HasDifferences {
			return t, err
		}
		v, err := e.compareVisualPage(ctx, d1, d2, pa.PageNumber, opts, res)
		if err != nil {
			return v, err
		}
		return mergeHybrid(t, v), nil
	default:
		return e.compareVisualPage(ctx, d1, d2, pa.PageNumber, opts, res)
	}
}

// mergeHybrid combines the text and visual results of a page the text pass
// flagged. The visual pass only adds localization; a page whose rasters match
// keeps the text verdict.
func mergeHybrid(t, v domain.PageComparisonResult) domain.PageComparisonResult {
	if !v.HasDifferences {
		t.Regions = v.Regions
		return t
	}
	v.TextDiff = t.TextDiff
	if t.Similarity < v.Similarity {
		v.Similarity = t.Similarity
	}
	return v
}

func (e *Engine) missingPage(ctx context.Context, d Document, page int, kind domain.PageKind, opts Options, res *Residency) (domain.PageComparisonResult, error) {
	r := domain.PageComparisonResult{
		PageNumber:     page,
		Kind:           kind,
		HasDifferences: true,
	}
	if kind == domain.PageAdded {
		r.Description = fmt.Sprintf("Page %d exists only in second document", page)
	} else {
		r.Description = fmt.Sprintf("Page %d exists only in first document", page)
	}
	if opts.Mode == domain.ModeText {
		return r, nil
	}

	w, h, err := pageSize(ctx, d.Renderer, page-1, opts.DPI, res)
	if err != nil {
		if isFatal(err) {
			return r, err
		}
		r.Error = err.Error()
		e.logger.Warn("Failed to size page", "page", page, "error", err.Error())
		return r, nil
	}
	r.Regions = []domain.DiffRegion{wholePageRegion(w, h)}
	return r, nil
}

// pageSize asks the renderer for dimensions, rendering and releasing the page
// when it cannot report them directly.
func pageSize(ctx context.Context, r domain.Renderer, idx, dpi int, res *Residency) (int, int, error) {
	if s, ok := r.(domain.PageSizer); ok {
		return s.PageSize(ctx, idx, dpi)
	}
	img, err := r.RenderPage(ctx, idx, dpi)
	if err != nil {
		return 0, 0, err
	}
	p, err := NewRasterPage(img, res)
	if err != nil {
		return 0, 0, err
	}
	defer p.Release()
	return p.Width(), p.Height(), nil
}

func (e *Engine) compareVisualPage(ctx context.Context, d1, d2 Document, page int, opts Options, res *Residency) (domain.PageComparisonResult, error) {
	p1, err := renderPage(ctx, d1.Renderer, page-1, opts.DPI, res)
	if err != nil {
		return e.pageFailure(page, 1, "render", err)
	}
	defer p1.Release()
	p2, err := renderPage(ctx, d2.Renderer, page-1, opts.DPI, res)
	if err != nil {
		return e.pageFailure(page, 2, "render", err)
	}
	defer p2.Release()

	if err := Normalize(p1, p2); err != nil {
		return e.pageFailure(page, 0, "normalize", err)
	}
	sim, err := Score(p1.Image(), p2.Image())
	if err != nil {
		return e.pageFailure(page, 0, "score", err)
	}

	r := domain.PageComparisonResult{
		PageNumber:     page,
		Kind:           domain.PageIdentical,
		Similarity:     sim,
		HasDifferences: opts.flagged(sim),
		Description:    fmt.Sprintf("Page %d is identical or nearly identical", page),
	}
	if r.HasDifferences {
		r.Kind = domain.PageContentChange
		r.Description = fmt.Sprintf("Page %d has significant differences (%.2f%% similar)", page, sim)
	}

	if opts.DetailedAnalysis && sim < detailTriggerSimilarity {
		r.Regions = NewRegionLocalizer(opts.RegionStrategy, opts.GridSize).Locate(p1.Image(), p2.Image())
	}
	if r.HasDifferences && opts.CreateDiffArtifacts {
		data, err := RenderDiffArtifact(p1.Image(), p2.Image())
		if err != nil {
			e.logger.Warn("Failed to render diff image", "page", page, "error", err.Error())
		} else {
			r.DiffArtifact = newArtifactRef(page, data)
		}
	}

	e.logger.Debug("Page compared", "page", page, "similarity", sim, "regions", len(r.Regions))
	return r, nil
}

func renderPage(ctx context.Context, r domain.Renderer, idx, dpi int, res *Residency) (*RasterPage, error) {
	img, err := r.RenderPage(ctx, idx, dpi)
	if err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("renderer returned an empty page")
	}
	return NewRasterPage(img, res)
}

// pageFailure records a local page failure, or passes a fatal error through.
func (e *Engine) pageFailure(page, side int, op string, err error) (domain.PageComparisonResult, error) {
	if isFatal(err) {
		return domain.PageComparisonResult{}, err
	}
	pe := &domain.PageError{PageNumber: page, Side: side, Op: op, Cause: err}
	e.logger.Warn("Page comparison failed", "page", page, "error", pe.Error())
	return domain.PageComparisonResult{
		PageNumber:     page,
		Kind:           domain.PageContentChange,
		HasDifferences: true,
		Description:    fmt.Sprintf("Page %d could not be compared", page),
		Error:          pe.Error(),
	}, nil
}

func (e *Engine) compareTextPage(ctx context.Context, d1, d2 Document, page int, opts Options) (domain.PageComparisonResult, error) {
	t1, err := e.pageText(ctx, d1.Extractor, page, 1)
	if err != nil {
		return domain.PageComparisonResult{}, err
	}
	t2, err := e.pageText(ctx, d2.Extractor, page, 2)
	if err != nil {
		return domain.PageComparisonResult{}, err
	}

	sim := TextSimilarity(t1, t2)
	r := domain.PageComparisonResult{
		PageNumber:     page,
		Kind:           domain.PageIdentical,
		Similarity:     sim,
		HasDifferences: opts.flagged(sim),
		Description:    fmt.Sprintf("Page %d is identical or nearly identical", page),
		TextDiff:       CompareLines(t1, t2, opts.Lines),
	}
	if r.HasDifferences {
		r.Kind = domain.PageTextDifference
		r.Description = fmt.Sprintf("Page %d has text differences (%.2f%% similar)", page, sim)
	}
	return r, nil
}

// pageText degrades extraction failures to empty text.
func (e *Engine) pageText(ctx context.Context, x domain.Extractor, page, side int) (string, error) {
	text, err := x.PageText(ctx, page-1)
	if err != nil {
		if isFatal(err) {
			return "", err
		}
		e.logger.Warn("Page text extraction failed", "page", page, "document", side, "error", err.Error())
		return "", nil
	}
	return text, nil
}

// isFatal reports errors that abort the whole comparison.
func isFatal(err error) bool {
	return errors.Is(err, domain.ErrResourceExhausted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})         {}
func (nopLogger) Error(string, error, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{})        {}
func (nopLogger) Warn(string, ...interface{})         {}
