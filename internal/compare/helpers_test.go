package compare

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync/atomic"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func solidPage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// pageWithBlock is a white page with a black rectangle.
func pageWithBlock(w, h int, block image.Rectangle) *image.RGBA {
	img := solidPage(w, h, white)
	for y := block.Min.Y; y < block.Max.Y; y++ {
		for x := block.Min.X; x < block.Max.X; x++ {
			img.SetRGBA(x, y, black)
		}
	}
	return img
}

// fakeRenderer renders pages from a generator and counts calls.
type fakeRenderer struct {
	pages    int
	countErr error
	render   func(idx int) (image.Image, error)
	renders  atomic.Int64
}

func (f *fakeRenderer) PageCount(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.pages, nil
}

func (f *fakeRenderer) RenderPage(ctx context.Context, idx int, dpi int) (image.Image, error) {
	f.renders.Add(1)
	if idx < 0 || idx >= f.pages {
		return nil, fmt.Errorf("page %d out of range", idx)
	}
	return f.render(idx)
}

// sizedRenderer also reports page sizes without rendering.
type sizedRenderer struct {
	*fakeRenderer
	w, h int
}

func (s *sizedRenderer) PageSize(ctx context.Context, idx int, dpi int) (int, int, error) {
	return s.w, s.h, nil
}

func blankRenderer(pages, w, h int) *fakeRenderer {
	return &fakeRenderer{
		pages:  pages,
		render: func(int) (image.Image, error) { return solidPage(w, h, white), nil },
	}
}

type fakeExtractor struct {
	pages   []string
	failing map[int]bool
}

func (f *fakeExtractor) PageCount(ctx context.Context) (int, error) {
	return len(f.pages), nil
}

func (f *fakeExtractor) PageText(ctx context.Context, idx int) (string, error) {
	if f.failing[idx] {
		return "", errors.New("extraction failed")
	}
	if idx < 0 || idx >= len(f.pages) {
		return "", fmt.Errorf("page %d out of range", idx)
	}
	return f.pages[idx], nil
}

func (f *fakeExtractor) FullText(ctx context.Context) (string, error) {
	out := ""
	for i, p := range f.pages {
		if i > 0 {
			out += "\n"
		}
		out += p
	}
	return out, nil
}
