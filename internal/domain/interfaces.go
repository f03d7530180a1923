package domain

import (
	"context"
	"image"
)

// Renderer rasterizes the pages of one document version.
type Renderer interface {
	// PageCount must be cheap and must not decode page content.
	PageCount(ctx context.Context) (int, error)
	// RenderPage rasterizes the zero-based page at the given resolution.
	RenderPage(ctx context.Context, pageIndex int, dpi int) (image.Image, error)
}

// PageSizer is implemented by renderers that can report page dimensions without
// rasterizing the page.
type PageSizer interface {
	PageSize(ctx context.Context, pageIndex int, dpi int) (width, height int, err error)
}

// Extractor provides the plain text of one document version.
// An empty string is a valid degraded result.
type Extractor interface {
	PageText(ctx context.Context, pageIndex int) (string, error)
	FullText(ctx context.Context) (string, error)
}

// DocumentSource resolves stored documents by id.
type DocumentSource interface {
	Fetch(ctx context.Context, documentID string, token string) (*SourceDocument, error)
}

// ArtifactStore persists rendered diff images.
type ArtifactStore interface {
	Save(ctx context.Context, reportID string, artifact *ArtifactRef) error
}

// ReportRepository persists comparison reports.
type ReportRepository interface {
	Save(ctx context.Context, report *ComparisonReport, token string) error
	GetByID(ctx context.Context, id string, token string) (*ComparisonReport, error)
	// ListByDocument returns the newest reports that include documentID on either side.
	ListByDocument(ctx context.Context, documentID string, limit int, token string) ([]*ComparisonReport, error)
}

// ComparisonService defines the use-case operations for comparisons.
type ComparisonService interface {
	Compare(ctx context.Context, req CompareRequest, token string) (*ComparisonReport, error)
	CompareText(ctx context.Context, req CompareRequest, token string) (*ComparisonReport, error)
	GetReport(ctx context.Context, id string, token string) (*ComparisonReport, error)
	ListComparisons(ctx context.Context, documentID string, limit int, token string) ([]*ComparisonReport, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetMaxFileSize() int64
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetDocumentsBucket() string
	GetArtifactsBucket() string
	GetDatabaseURL() string
	GetCompareDPI() int
	GetCompareThreshold() float64
	GetCompareGridSize() int
	GetCompareWorkers() int
	GetMemoryCeiling() int64
	GetMaxVisualBytes() int64
}
