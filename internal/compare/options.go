package compare

import (
	"fmt"

	"pdf-compare/internal/domain"

	"github.com/go-playground/validator/v10"
)

// RegionStrategy selects the Region Localizer implementation.
type RegionStrategy string

const (
	StrategyGrid      RegionStrategy = "grid"
	StrategyFloodFill RegionStrategy = "floodfill"
)

const (
	DefaultDPI       = 150
	DefaultThreshold = 95.0
	DefaultGridSize  = 40
	DefaultWorkers   = 1

	// Region analysis runs on pages whose similarity is below this value,
	// independently of the flagging threshold.
	detailTriggerSimilarity = 99.0
)

// Options configures one comparison call. Zero values are replaced by the
// defaults above. Threshold is a pointer so that an explicit 0, which never
// flags a page, is distinct from unset.
type Options struct {
	Mode                domain.CompareMode `validate:"omitempty,oneof=visual text hybrid"`
	DPI                 int                `validate:"gte=0,lte=1200"`
	Threshold           *float64           `validate:"omitempty,gte=0,lte=100"`
	GridSize            int                `validate:"gte=0,lte=1024"`
	DetailedAnalysis    bool
	RegionStrategy      RegionStrategy `validate:"omitempty,oneof=grid floodfill"`
	CreateDiffArtifacts bool
	CreateDiffPDF       bool
	Workers             int   `validate:"gte=0,lte=64"`
	MemoryCeilingBytes  int64 `validate:"gte=0"`
	Lines               LineFilter
	IncludeUnifiedDiff  bool
}

// DefaultOptions returns visual-mode options with every default applied.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = domain.ModeVisual
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Threshold == nil {
		o = o.WithThreshold(DefaultThreshold)
	}
	if o.GridSize == 0 {
		o.GridSize = DefaultGridSize
	}
	if o.RegionStrategy == "" {
		o.RegionStrategy = StrategyGrid
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	return o
}

var optionsValidator = validator.New()

// Validate checks option ranges.
func (o Options) Validate() error {
	if err := optionsValidator.Struct(o); err != nil {
		return fmt.Errorf("%w: options: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// WithThreshold returns a copy of o that flags pages below threshold.
func (o Options) WithThreshold(threshold float64) Options {
	o.Threshold = &threshold
	return o
}

// EffectiveThreshold is the flagging threshold, DefaultThreshold when unset.
func (o Options) EffectiveThreshold() float64 {
	if o.Threshold == nil {
		return DefaultThreshold
	}
	return *o.Threshold
}

// flagged applies the strict threshold rule: a page differs iff similarity < threshold.
func (o Options) flagged(similarity float64) bool {
	return similarity < o.EffectiveThreshold()
}

// workerCount caps the configured workers so that two full pages per worker fit
// under the memory ceiling.
func (o Options) workerCount() int {
	w := o.Workers
	if w < 1 {
		w = 1
	}
	if o.MemoryCeilingBytes > 0 {
		perWorker := 2 * estimatePageBytes(o.DPI)
		limit := int(o.MemoryCeilingBytes / perWorker)
		if limit < 1 {
			limit = 1
		}
		if w > limit {
			w = limit
		}
	}
	return w
}

// estimatePageBytes sizes an RGBA raster of a US Letter page at dpi.
func estimatePageBytes(dpi int) int64 {
	w := int64(8.5 * float64(dpi))
	h := int64(11 * dpi)
	return w * h * 4
}
