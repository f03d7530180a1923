package compare

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// lanczos3 is the Lanczos-windowed sinc kernel with a support of three lobes.
var lanczos3 = &draw.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		if t == 0 {
			return 1
		}
		x := math.Pi * t
		return 3 * math.Sin(x) * math.Sin(x/3) / (x * x)
	},
}

// Normalize resamples both pages in place to (max width, max height).
// Aspect ratio is not preserved. A page already at the target size is left untouched.
func Normalize(a, b *RasterPage) error {
	if a.Image() == nil || b.Image() == nil {
		return errReleased
	}
	w := max(a.Width(), b.Width())
	h := max(a.Height(), b.Height())
	if w == 0 || h == 0 {
		return fmt.Errorf("cannot normalize empty page (%dx%d)", w, h)
	}

	for _, p := range []*RasterPage{a, b} {
		if p.Width() == w && p.Height() == h {
			continue
		}
		if err := p.replace(resample(p.Image(), w, h, lanczos3)); err != nil {
			return err
		}
	}
	return nil
}

func resample(src *image.RGBA, w, h int, scaler draw.Scaler) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
