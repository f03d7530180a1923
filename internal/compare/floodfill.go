package compare

import (
	"image"
	"sync"

	"pdf-compare/internal/domain"
)

// FloodFillLocalizer grows 4-connected components of differing pixels from
// seeds sampled on a coarse stride and reports their bounding boxes.
type FloodFillLocalizer struct {
	Stride  int
	MinArea int
	// LumaThreshold is the fraction of the channel range the luma of the
	// per-pixel difference must exceed for the pixel to count as different.
	LumaThreshold float64
}

func NewFloodFillLocalizer() *FloodFillLocalizer {
	return &FloodFillLocalizer{Stride: 10, MinArea: 100, LumaThreshold: 0.5}
}

// floodScratch holds the per-invocation mask, visited matrix and stack.
// Instances are pooled and never shared by two running invocations.
type floodScratch struct {
	mask    []bool
	visited []bool
	stack   []int
}

var floodScratchPool = sync.Pool{
	New: func() any { return new(floodScratch) },
}

func (s *floodScratch) reset(n int) {
	if cap(s.mask) < n {
		s.mask = make([]bool, n)
		s.visited = make([]bool, n)
	} else {
		s.mask = s.mask[:n]
		s.visited = s.visited[:n]
		clear(s.mask)
		clear(s.visited)
	}
	s.stack = s.stack[:0]
}

func (f *FloodFillLocalizer) Locate(a, b *image.RGBA) []domain.DiffRegion {
	w, h := a.Rect.Dx(), a.Rect.Dy()
	if w == 0 || h == 0 || b.Rect != a.Rect {
		return nil
	}
	stride := max(f.Stride, 1)

	sc := floodScratchPool.Get().(*floodScratch)
	defer floodScratchPool.Put(sc)
	sc.reset(w * h)
	differenceMask(a, b, f.LumaThreshold, sc.mask)

	var regions []domain.DiffRegion
	for y := 0; y < h; y += stride {
		for x := 0; x < w; x += stride {
			i := y*w + x
			if sc.visited[i] || !sc.mask[i] {
				continue
			}
			r := grow(sc, w, h, x, y)
			if r.Area > f.MinArea {
				r.Classification = Classify(r)
				regions = append(regions, r)
			}
		}
	}
	return regions
}

// differenceMask marks pixels whose difference luma exceeds threshold of the range.
func differenceMask(a, b *image.RGBA, threshold float64, mask []bool) {
	w, h := a.Rect.Dx(), a.Rect.Dy()
	// Rec. 601 weights scaled by 1000 to stay in integers.
	limit := int(threshold * 255 * 1000)
	for y := 0; y < h; y++ {
		ia := a.PixOffset(a.Rect.Min.X, y+a.Rect.Min.Y)
		ib := b.PixOffset(b.Rect.Min.X, y+b.Rect.Min.Y)
		for x := 0; x < w; x++ {
			pa := a.Pix[ia+x*4 : ia+x*4+3]
			pb := b.Pix[ib+x*4 : ib+x*4+3]
			luma := 299*absDiff(pa[0], pb[0]) + 587*absDiff(pa[1], pb[1]) + 114*absDiff(pa[2], pb[2])
			mask[y*w+x] = luma > limit
		}
	}
}

func absDiff(p, q uint8) int {
	if p > q {
		return int(p - q)
	}
	return int(q - p)
}

// grow flood-fills from (sx, sy) over the full-resolution mask and returns the
// bounding box. Every popped pixel is marked visited, different or not.
func grow(sc *floodScratch, w, h, sx, sy int) domain.DiffRegion {
	minX, maxX, minY, maxY := sx, sx, sy, sy
	sc.stack = append(sc.stack[:0], sy*w+sx)

	for len(sc.stack) > 0 {
		i := sc.stack[len(sc.stack)-1]
		sc.stack = sc.stack[:len(sc.stack)-1]
		if sc.visited[i] {
			continue
		}
		sc.visited[i] = true
		if !sc.mask[i] {
			continue
		}

		x, y := i%w, i/w
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)

		if x+1 < w {
			sc.stack = append(sc.stack, i+1)
		}
		if x > 0 {
			sc.stack = append(sc.stack, i-1)
		}
		if y+1 < h {
			sc.stack = append(sc.stack, i+w)
		}
		if y > 0 {
			sc.stack = append(sc.stack, i-w)
		}
	}

	width, height := maxX-minX, maxY-minY
	return domain.DiffRegion{
		X:      minX,
		Y:      minY,
		Width:  width,
		Height: height,
		Area:   width * height,
	}
}
