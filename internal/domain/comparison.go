package domain

import (
	"time"
)

// CompareMode selects how two documents are compared.
type CompareMode string

const (
	ModeVisual CompareMode = "visual"
	ModeText   CompareMode = "text"
	ModeHybrid CompareMode = "hybrid"
)

// PageKind describes the outcome of comparing one page position.
type PageKind string

const (
	PageIdentical      PageKind = "identical"
	PageContentChange  PageKind = "content_change"
	PageAdded          PageKind = "page_added"
	PageRemoved        PageKind = "page_removed"
	PageTextDifference PageKind = "text_difference"
)

// RegionClass labels a differing rectangle.
type RegionClass string

const (
	RegionTextChange     RegionClass = "text_change"
	RegionVerticalChange RegionClass = "vertical_change"
	RegionLargeChange    RegionClass = "large_change"
	RegionSmallChange    RegionClass = "small_change"
	// RegionUnclassified is used for grid-sampled regions.
	RegionUnclassified RegionClass = "region_difference"
)

// TextDiffKind is the kind of a positional line difference.
type TextDiffKind string

const (
	TextAddition     TextDiffKind = "addition"
	TextDeletion     TextDiffKind = "deletion"
	TextModification TextDiffKind = "modification"
)

// CoordinateUnitPixels is the unit of every DiffRegion coordinate: pixels of the
// normalized page raster at the report's DPI.
const CoordinateUnitPixels = "px"

// DiffRegion is a rectangle of a normalized page that differs between the two versions.
type DiffRegion struct {
	X              int         `json:"x"`
	Y              int         `json:"y"`
	Width          int         `json:"width"`
	Height         int         `json:"height"`
	Area           int         `json:"area"`
	Classification RegionClass `json:"classification,omitempty"`
}

// ArtifactRef points at a rendered diff image, or at the diff PDF when
// PageNumber is 0. Data carries the payload until a caller persists it and
// sets Path and URL.
type ArtifactRef struct {
	PageNumber  int    `json:"page_number"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Path        string `json:"path,omitempty"`
	URL         string `json:"url,omitempty"`
	Data        []byte `json:"data,omitempty"`
}

// TextDiffEntry is one line-positional difference.
type TextDiffEntry struct {
	LineNumber int          `json:"line"`
	Kind       TextDiffKind `json:"kind"`
	Content    string       `json:"content,omitempty"`
	Original   string       `json:"original,omitempty"`
	New        string       `json:"new,omitempty"`
}

// PageComparisonResult is the comparison outcome for a single page number.
type PageComparisonResult struct {
	PageNumber     int             `json:"page"`
	Kind           PageKind        `json:"kind"`
	Similarity     float64         `json:"similarity"`
	HasDifferences bool            `json:"has_differences"`
	Description    string          `json:"description,omitempty"`
	Regions        []DiffRegion    `json:"regions,omitempty"`
	TextDiff       []TextDiffEntry `json:"text_diff,omitempty"`
	DiffArtifact   *ArtifactRef    `json:"diff_artifact,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// InBoth reports whether the page exists in both documents.
func (r PageComparisonResult) InBoth() bool {
	return r.Kind != PageAdded && r.Kind != PageRemoved
}

// DocumentSummary identifies one side of a comparison.
type DocumentSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PageCount int    `json:"pages"`
}

// ComparisonReport aggregates the page results of one comparison call.
type ComparisonReport struct {
	ID                 string                 `json:"id"`
	Mode               CompareMode            `json:"mode"`
	Document1          DocumentSummary        `json:"document1"`
	Document2          DocumentSummary        `json:"document2"`
	TotalPagesCompared int                    `json:"total_pages_compared"`
	OverallSimilarity  float64                `json:"similarity_percentage"`
	TextSimilarity     *float64               `json:"text_similarity,omitempty"`
	Pages              []PageComparisonResult `json:"pages"`
	TextDifferences    []TextDiffEntry        `json:"text_differences,omitempty"`
	UnifiedDiff        string                 `json:"unified_diff,omitempty"`
	HasDifferences     bool                   `json:"has_differences"`
	CoordinateUnit     string                 `json:"coordinate_unit"`
	DPI                int                    `json:"dpi"`
	Threshold          float64                `json:"threshold"`
	CreatedAt          time.Time              `json:"created_at"`
	DurationMS         int64                  `json:"duration_ms"`
	DiffDocument       *ArtifactRef           `json:"diff_document,omitempty"`
}

// ComparisonSummary is the listing view of a stored report.
type ComparisonSummary struct {
	ID                string          `json:"id"`
	Mode              CompareMode     `json:"mode"`
	Document1         DocumentSummary `json:"document1"`
	Document2         DocumentSummary `json:"document2"`
	OverallSimilarity float64         `json:"similarity_percentage"`
	HasDifferences    bool            `json:"has_differences"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Summary returns the listing view of the report.
func (r *ComparisonReport) Summary() ComparisonSummary {
	return ComparisonSummary{
		ID:                r.ID,
		Mode:              r.Mode,
		Document1:         r.Document1,
		Document2:         r.Document2,
		OverallSimilarity: r.OverallSimilarity,
		HasDifferences:    r.HasDifferences,
		CreatedAt:         r.CreatedAt,
	}
}

// Differences returns only the page results that are flagged.
func (r *ComparisonReport) Differences() []PageComparisonResult {
	out := make([]PageComparisonResult, 0)
	for _, p := range r.Pages {
		if p.HasDifferences {
			out = append(out, p)
		}
	}
	return out
}

// Artifacts returns every diff artifact attached to the report's pages.
func (r *ComparisonReport) Artifacts() []*ArtifactRef {
	var out []*ArtifactRef
	for i := range r.Pages {
		if r.Pages[i].DiffArtifact != nil {
			out = append(out, r.Pages[i].DiffArtifact)
		}
	}
	return out
}

// CompareRequest is the payload accepted by the comparison endpoints.
type CompareRequest struct {
	Document1ID        string   `json:"document1_id" validate:"required"`
	Document2ID        string   `json:"document2_id" validate:"required"`
	ComparisonType     string   `json:"comparison_type,omitempty" validate:"omitempty,oneof=visual text hybrid"`
	Threshold          *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0,lte=100"`
	DPI                int      `json:"dpi,omitempty" validate:"omitempty,gte=36,lte=600"`
	GridSize           int      `json:"grid_size,omitempty" validate:"omitempty,gte=4,lte=512"`
	DetailedAnalysis   bool     `json:"detailed_analysis"`
	RegionStrategy     string   `json:"region_strategy,omitempty" validate:"omitempty,oneof=grid floodfill"`
	CreateDiffImages   bool     `json:"create_diff_images"`
	GenerateDiffPDF    bool     `json:"generate_diff_pdf"`
	IncludeUnifiedDiff bool     `json:"include_unified_diff"`
	ShowAdditions      *bool    `json:"show_additions,omitempty"`
	ShowDeletions      *bool    `json:"show_deletions,omitempty"`
	ShowModifications  *bool    `json:"show_modifications,omitempty"`
}

// SourceDocument is a stored document resolved for comparison.
type SourceDocument struct {
	ID         string
	Name       string
	StoredPath string
	MimeType   string
	Size       int64
	Content    []byte
}
