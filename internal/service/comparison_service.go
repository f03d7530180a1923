package service

import (
	"context"
	"fmt"
	"io"

	"pdf-compare/internal/compare"
	"pdf-compare/internal/domain"

	"golang.org/x/sync/errgroup"
)

// ComparableDocument is an opened document that can be rendered and read.
type ComparableDocument interface {
	domain.Renderer
	domain.Extractor
	io.Closer
}

// DocumentOpener opens raw document bytes for comparison.
type DocumentOpener func(content []byte) (ComparableDocument, error)

// ComparisonService resolves stored documents, runs the comparison engine and
// persists the resulting report and its diff images.
type ComparisonService struct {
	source         domain.DocumentSource
	artifacts      domain.ArtifactStore
	reports        domain.ReportRepository
	engine         *compare.Engine
	open           DocumentOpener
	defaults       compare.Options
	maxVisualBytes int64
	logger         domain.Logger
}

// NewComparisonService creates a new comparison service. artifacts may be nil,
// in which case diff images stay inline in the report.
func NewComparisonService(
	source domain.DocumentSource,
	artifacts domain.ArtifactStore,
	reports domain.ReportRepository,
	engine *compare.Engine,
	open DocumentOpener,
	config domain.Config,
	logger domain.Logger,
) *ComparisonService {
	return &ComparisonService{
		source:         source,
		artifacts:      artifacts,
		reports:        reports,
		engine:         engine,
		open:           open,
		defaults:       optionsFromConfig(config),
		maxVisualBytes: config.GetMaxVisualBytes(),
		logger:         logger,
	}
}

// optionsFromConfig builds engine options from configuration
func optionsFromConfig(config domain.Config) compare.Options {
	return compare.Options{
		DPI:                config.GetCompareDPI(),
		GridSize:           config.GetCompareGridSize(),
		Workers:            config.GetCompareWorkers(),
		MemoryCeilingBytes: config.GetMemoryCeiling(),
	}.WithThreshold(config.GetCompareThreshold())
}

// Compare runs the comparison requested by req
func (s *ComparisonService) Compare(ctx context.Context, req domain.CompareRequest, token string) (*domain.ComparisonReport, error) {
	return s.run(ctx, req, token)
}

// CompareText runs a text-only comparison
func (s *ComparisonService) CompareText(ctx context.Context, req domain.CompareRequest, token string) (*domain.ComparisonReport, error) {
	req.ComparisonType = string(domain.ModeText)
	return s.run(ctx, req, token)
}

// GetReport loads a stored report
func (s *ComparisonService) GetReport(ctx context.Context, id string, token string) (*domain.ComparisonReport, error) {
	if id == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "is required"}
	}
	return s.reports.GetByID(ctx, id, token)
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ListComparisons returns the newest reports involving documentID. A zero
// limit selects the default page size.
func (s *ComparisonService) ListComparisons(ctx context.Context, documentID string, limit int, token string) ([]*domain.ComparisonReport, error) {
	if documentID == "" {
		return nil, &domain.ValidationError{Field: "document_id", Message: "is required"}
	}
	switch {
	case limit == 0:
		limit = defaultListLimit
	case limit < 0 || limit > maxListLimit:
		return nil, &domain.ValidationError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", maxListLimit)}
	}
	return s.reports.ListByDocument(ctx, documentID, limit, token)
}

func (s *ComparisonService) run(ctx context.Context, req domain.CompareRequest, token string) (*domain.ComparisonReport, error) {
	if err := ValidateCompareRequest(req); err != nil {
		return nil, err
	}

	src1, src2, err := s.fetchBoth(ctx, req.Document1ID, req.Document2ID, token)
	if err != nil {
		return nil, err
	}

	doc1, err := s.openDocument(src1, 1)
	if err != nil {
		return nil, err
	}
	defer doc1.Close()
	doc2, err := s.openDocument(src2, 2)
	if err != nil {
		return nil, err
	}
	defer doc2.Close()

	opts := s.optionsFor(req, src1.Size+src2.Size)
	s.logger.Info("Starting comparison",
		"document1_id", src1.ID,
		"document2_id", src2.ID,
		"mode", opts.Mode,
		"dpi", opts.DPI,
		"threshold", opts.EffectiveThreshold())

	report, err := s.engine.Compare(ctx,
		compare.Document{ID: src1.ID, Name: src1.Name, Renderer: doc1, Extractor: doc1},
		compare.Document{ID: src2.ID, Name: src2.Name, Renderer: doc2, Extractor: doc2},
		opts)
	if err != nil {
		s.logger.Error("Comparison failed", err, "document1_id", src1.ID, "document2_id", src2.ID)
		return nil, err
	}

	s.storeArtifacts(ctx, report)
	if err := s.reports.Save(ctx, report, token); err != nil {
		return nil, fmt.Errorf("failed to save comparison: %w", err)
	}
	return report, nil
}

func (s *ComparisonService) fetchBoth(ctx context.Context, id1, id2, token string) (*domain.SourceDocument, *domain.SourceDocument, error) {
	var src1, src2 *domain.SourceDocument
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		src1, err = s.source.Fetch(gctx, id1, token)
		return err
	})
	g.Go(func() error {
		var err error
		src2, err = s.source.Fetch(gctx, id2, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return src1, src2, nil
}

func (s *ComparisonService) openDocument(src *domain.SourceDocument, side int) (ComparableDocument, error) {
	doc, err := s.open(src.Content)
	if err != nil {
		return nil, &domain.InputError{Side: side, Cause: err}
	}
	return doc, nil
}

// optionsFor merges request overrides into the configured defaults. Large
// inputs are compared as text regardless of the requested mode.
func (s *ComparisonService) optionsFor(req domain.CompareRequest, combinedSize int64) compare.Options {
	opts := s.defaults
	opts.Mode = domain.ModeVisual
	if req.ComparisonType != "" {
		opts.Mode = domain.CompareMode(req.ComparisonType)
	}
	if opts.Mode != domain.ModeText && s.maxVisualBytes > 0 && combinedSize > s.maxVisualBytes {
		s.logger.Warn("Documents too large for visual comparison, comparing text",
			"combined_size", combinedSize, "limit", s.maxVisualBytes)
		opts.Mode = domain.ModeText
	}

	if req.Threshold != nil {
		opts = opts.WithThreshold(*req.Threshold)
	}
	if req.DPI > 0 {
		opts.DPI = req.DPI
	}
	if req.GridSize > 0 {
		opts.GridSize = req.GridSize
	}
	if req.RegionStrategy != "" {
		opts.RegionStrategy = compare.RegionStrategy(req.RegionStrategy)
	}
	opts.DetailedAnalysis = req.DetailedAnalysis
	opts.CreateDiffArtifacts = req.CreateDiffImages
	opts.CreateDiffPDF = req.GenerateDiffPDF
	opts.IncludeUnifiedDiff = req.IncludeUnifiedDiff
	opts.Lines = compare.LineFilter{
		SkipAdditions:     hidden(req.ShowAdditions),
		SkipDeletions:     hidden(req.ShowDeletions),
		SkipModifications: hidden(req.ShowModifications),
	}
	return opts
}

func hidden(show *bool) bool {
	return show != nil && !*show
}

// storeArtifacts uploads diff images and the diff PDF. Upload failures keep
// the payload inline and do not fail the comparison.
func (s *ComparisonService) storeArtifacts(ctx context.Context, report *domain.ComparisonReport) {
	if s.artifacts == nil {
		return
	}
	for _, a := range report.Artifacts() {
		if err := s.artifacts.Save(ctx, report.ID, a); err != nil {
			s.logger.Warn("Failed to store diff image", "report_id", report.ID, "page", a.PageNumber, "error", err.Error())
			continue
		}
		a.Data = nil
	}
	if doc := report.DiffDocument; doc != nil {
		if err := s.artifacts.Save(ctx, report.ID, doc); err != nil {
			s.logger.Warn("Failed to store diff PDF", "report_id", report.ID, "error", err.Error())
			return
		}
		doc.Data = nil
	}
}
