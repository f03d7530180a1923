package compare

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

var errReleased = errors.New("raster page already released")

// RasterPage is one rasterized page owned by a single page-pair comparison.
// It must be released as soon as scoring and region analysis are done.
type RasterPage struct {
	img   *image.RGBA
	res   *Residency
	bytes int64
}

// NewRasterPage adopts img as a zero-origin RGBA raster and registers it with res.
// res may be nil for untracked pages.
func NewRasterPage(img image.Image, res *Residency) (*RasterPage, error) {
	rgba := toRGBA(img)
	p := &RasterPage{img: rgba, res: res, bytes: int64(len(rgba.Pix))}
	if res != nil {
		if err := res.acquire(p.bytes); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Image returns the pixel buffer. It is nil after Release.
func (p *RasterPage) Image() *image.RGBA { return p.img }

func (p *RasterPage) Width() int {
	if p.img == nil {
		return 0
	}
	return p.img.Rect.Dx()
}

func (p *RasterPage) Height() int {
	if p.img == nil {
		return 0
	}
	return p.img.Rect.Dy()
}

// Release drops the pixel buffer and deregisters the page. Idempotent.
func (p *RasterPage) Release() {
	if p == nil || p.img == nil {
		return
	}
	p.img = nil
	if p.res != nil {
		p.res.release(p.bytes)
	}
	p.bytes = 0
}

// replace swaps the pixel buffer in place, keeping the page's residency slot.
func (p *RasterPage) replace(img *image.RGBA) error {
	if p.img == nil {
		return errReleased
	}
	n := int64(len(img.Pix))
	if p.res != nil {
		if err := p.res.resize(p.bytes, n); err != nil {
			return err
		}
	}
	p.img = img
	p.bytes = n
	return nil
}
