package compare

import (
	"bytes"
	"image"
	"image/png"

	"pdf-compare/internal/domain"
)

// ContentTypePNG is the content type of every diff artifact.
const ContentTypePNG = "image/png"

// RenderDiffArtifact draws document 1's page with a 50% red overlay on every
// pixel that differs from document 2, encoded as PNG.
func RenderDiffArtifact(a, b *image.RGBA) ([]byte, error) {
	if a == nil || b == nil {
		return nil, errReleased
	}
	rect := a.Rect.Intersect(b.Rect)
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))

	for y := 0; y < rect.Dy(); y++ {
		ia := a.PixOffset(rect.Min.X, rect.Min.Y+y)
		ib := b.PixOffset(rect.Min.X, rect.Min.Y+y)
		io := out.PixOffset(0, y)
		for x := 0; x < rect.Dx()*4; x += 4 {
			pa := a.Pix[ia+x : ia+x+4]
			pb := b.Pix[ib+x : ib+x+4]
			po := out.Pix[io+x : io+x+4]
			copy(po, pa)
			if pa[0] != pb[0] || pa[1] != pb[1] || pa[2] != pb[2] || pa[3] != pb[3] {
				po[0] = uint8((uint16(pa[0]) + 255) / 2)
				po[1] = pa[1] / 2
				po[2] = pa[2] / 2
				po[3] = 255
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newArtifactRef(page int, data []byte) *domain.ArtifactRef {
	return &domain.ArtifactRef{
		PageNumber:  page,
		ContentType: ContentTypePNG,
		Size:        len(data),
		Data:        data,
	}
}
