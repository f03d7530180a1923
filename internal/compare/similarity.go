package compare

import (
	"fmt"
	"image"
	"math"
)

const maxChannelSquared = 255.0 * 255.0

// MeanSquaredError computes the MSE over every RGBA channel of rect, normalized
// to [0,1]. Both images must share a coordinate space; rect is clipped to both.
func MeanSquaredError(a, b *image.RGBA, rect image.Rectangle) float64 {
	rect = rect.Intersect(a.Rect).Intersect(b.Rect)
	if rect.Empty() {
		return 0
	}

	var sum uint64
	n := rect.Dx() * 4
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		ia := a.PixOffset(rect.Min.X, y)
		ib := b.PixOffset(rect.Min.X, y)
		rowA := a.Pix[ia : ia+n]
		rowB := b.Pix[ib : ib+n]
		for i := range rowA {
			d := int(rowA[i]) - int(rowB[i])
			sum += uint64(d * d)
		}
	}

	samples := float64(rect.Dx()) * float64(rect.Dy()) * 4
	return float64(sum) / (samples * maxChannelSquared)
}

// Score returns the 0-100 similarity of two equally sized rasters.
func Score(a, b *image.RGBA) (float64, error) {
	if a == nil || b == nil {
		return 0, errReleased
	}
	if a.Rect != b.Rect {
		return 0, fmt.Errorf("raster bounds differ: %v vs %v", a.Rect, b.Rect)
	}
	return similarityFromMSE(MeanSquaredError(a, b, a.Rect)), nil
}

// similarityFromMSE maps a difference to a percentage rounded to two decimals.
// Only a zero difference yields 100.
func similarityFromMSE(mse float64) float64 {
	if mse <= 0 {
		return 100
	}
	s := roundTo((1-mse)*100, 2)
	if s >= 100 {
		s = 99.99
	}
	if s < 0 {
		s = 0
	}
	return s
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
