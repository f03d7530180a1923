package compare

import (
	"image"

	"pdf-compare/internal/domain"
)

// RegionLocalizer finds rectangles that differ between two normalized pages of
// identical size. Implementations keep no state between calls.
type RegionLocalizer interface {
	Locate(a, b *image.RGBA) []domain.DiffRegion
}

// NewRegionLocalizer returns the localizer for strategy, using gridSize as the
// grid cell size.
func NewRegionLocalizer(strategy RegionStrategy, gridSize int) RegionLocalizer {
	switch strategy {
	case StrategyFloodFill:
		return NewFloodFillLocalizer()
	default:
		return NewGridLocalizer(gridSize)
	}
}

// Classify labels a region by its aspect ratio and area.
func Classify(r domain.DiffRegion) domain.RegionClass {
	aspect := float64(r.Width) / float64(max(r.Height, 1))
	switch {
	case aspect > 5:
		return domain.RegionTextChange
	case aspect < 0.2:
		return domain.RegionVerticalChange
	case r.Width*r.Height > 10000:
		return domain.RegionLargeChange
	default:
		return domain.RegionSmallChange
	}
}

func wholePageRegion(w, h int) domain.DiffRegion {
	return domain.DiffRegion{Width: w, Height: h, Area: w * h}
}
