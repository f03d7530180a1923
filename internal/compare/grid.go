package compare

import (
	"image"
	"math"

	"pdf-compare/internal/domain"

	"golang.org/x/image/draw"
)

// GridLocalizer samples fixed-size cells of a downscaled copy of both pages.
// Regions are left unclassified.
type GridLocalizer struct {
	CellSize  int
	MaxWidth  int
	MaxHeight int
	// Threshold is the local MSE above which a cell is reported.
	Threshold float64
}

// NewGridLocalizer returns a grid localizer with the default working resolution.
func NewGridLocalizer(cellSize int) *GridLocalizer {
	if cellSize <= 0 {
		cellSize = DefaultGridSize
	}
	return &GridLocalizer{
		CellSize:  cellSize,
		MaxWidth:  800,
		MaxHeight: 1200,
		Threshold: 0.01,
	}
}

func (g *GridLocalizer) Locate(a, b *image.RGBA) []domain.DiffRegion {
	full := a.Rect
	fw, fh := full.Dx(), full.Dy()
	if fw == 0 || fh == 0 || b.Rect != full {
		return nil
	}

	ww, wh := workingSize(fw, fh, g.MaxWidth, g.MaxHeight)
	wa, wb := a, b
	if ww != fw || wh != fh {
		wa = resample(a, ww, wh, draw.CatmullRom)
		wb = resample(b, ww, wh, draw.CatmullRom)
	}
	scale := float64(fw) / float64(ww)

	var regions []domain.DiffRegion
	for y := 0; y < wh; y += g.CellSize {
		for x := 0; x < ww; x += g.CellSize {
			cell := image.Rect(x, y, min(x+g.CellSize, ww), min(y+g.CellSize, wh))
			if MeanSquaredError(wa, wb, cell) > g.Threshold {
				regions = append(regions, scaleCell(cell, scale, fw, fh))
			}
		}
	}
	return regions
}

// workingSize fits (w, h) inside (maxW, maxH) keeping the aspect ratio.
// It never upscales.
func workingSize(w, h, maxW, maxH int) (int, int) {
	s := 1.0
	if maxW > 0 && w > maxW {
		s = math.Min(s, float64(maxW)/float64(w))
	}
	if maxH > 0 && h > maxH {
		s = math.Min(s, float64(maxH)/float64(h))
	}
	if s == 1 {
		return w, h
	}
	return max(1, int(math.Round(float64(w)*s))), max(1, int(math.Round(float64(h)*s)))
}

func scaleCell(cell image.Rectangle, scale float64, fw, fh int) domain.DiffRegion {
	x0 := int(math.Round(float64(cell.Min.X) * scale))
	y0 := int(math.Round(float64(cell.Min.Y) * scale))
	x1 := min(int(math.Round(float64(cell.Max.X)*scale)), fw)
	y1 := min(int(math.Round(float64(cell.Max.Y)*scale)), fh)
	w, h := x1-x0, y1-y0
	return domain.DiffRegion{
		X:              x0,
		Y:              y0,
		Width:          w,
		Height:         h,
		Area:           w * h,
		Classification: domain.RegionUnclassified,
	}
}
