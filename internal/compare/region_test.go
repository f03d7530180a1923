package compare

import (
	"image"
	"testing"

	"pdf-compare/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		w, h int
		want domain.RegionClass
	}{
		{60, 10, domain.RegionTextChange},
		{50, 10, domain.RegionSmallChange},
		{10, 60, domain.RegionVerticalChange},
		{20, 100, domain.RegionSmallChange},
		{101, 100, domain.RegionLargeChange},
		{100, 100, domain.RegionSmallChange},
		{6, 0, domain.RegionTextChange},
	}

	for _, tt := range tests {
		r := domain.DiffRegion{Width: tt.w, Height: tt.h, Area: tt.w * tt.h}
		assert.Equal(t, tt.want, Classify(r), "%dx%d", tt.w, tt.h)
	}
}

func TestLocalizers_NoRegionsForIdenticalPages(t *testing.T) {
	a := pageWithBlock(120, 90, image.Rect(10, 10, 40, 30))
	b := pageWithBlock(120, 90, image.Rect(10, 10, 40, 30))

	for _, s := range []RegionStrategy{StrategyGrid, StrategyFloodFill} {
		assert.Empty(t, NewRegionLocalizer(s, 20).Locate(a, b), string(s))
	}
}

func TestGridLocalizer_ScalesBackToFullResolution(t *testing.T) {
	// 1600x400 is worked on at 800x200, so each 40px cell maps to 80px.
	a := solidPage(1600, 400, white)
	b := pageWithBlock(1600, 400, image.Rect(0, 0, 80, 80))

	regions := NewGridLocalizer(40).Locate(a, b)
	require.NotEmpty(t, regions)
	assert.Equal(t, domain.DiffRegion{Width: 80, Height: 80, Area: 6400, Classification: domain.RegionUnclassified}, regions[0])
	for _, r := range regions {
		assert.LessOrEqual(t, r.X+r.Width, 1600)
		assert.LessOrEqual(t, r.Y+r.Height, 400)
	}
}

func TestGridLocalizer_ClipsEdgeCells(t *testing.T) {
	a := solidPage(50, 50, white)
	b := solidPage(50, 50, black)

	regions := NewGridLocalizer(40).Locate(a, b)
	require.Len(t, regions, 4)
	last := regions[3]
	assert.Equal(t, 40, last.X)
	assert.Equal(t, 10, last.Width)
	assert.Equal(t, 10, last.Height)
}

func TestWorkingSize(t *testing.T) {
	w, h := workingSize(1275, 1650, 800, 1200)
	assert.Equal(t, 800, w)
	assert.Equal(t, 1035, h)

	w, h = workingSize(300, 200, 800, 1200)
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)
}

func TestFloodFillLocalizer_SeparateComponents(t *testing.T) {
	a := solidPage(200, 200, white)
	b := pageWithBlock(200, 200, image.Rect(10, 10, 150, 20))
	for y := 100; y < 190; y++ {
		for x := 170; x < 180; x++ {
			b.SetRGBA(x, y, black)
		}
	}

	regions := NewFloodFillLocalizer().Locate(a, b)
	require.Len(t, regions, 2)
	assert.Equal(t, domain.DiffRegion{X: 10, Y: 10, Width: 139, Height: 9, Area: 1251, Classification: domain.RegionTextChange}, regions[0])
	assert.Equal(t, domain.DiffRegion{X: 170, Y: 100, Width: 9, Height: 89, Area: 801, Classification: domain.RegionVerticalChange}, regions[1])
}

func TestFloodFillLocalizer_DropsSmallAndMissedComponents(t *testing.T) {
	a := solidPage(100, 100, white)
	// Too small to pass the area filter.
	b := pageWithBlock(100, 100, image.Rect(20, 20, 25, 25))
	// Between seeds on both axes, never reached.
	for y := 41; y < 49; y++ {
		for x := 41; x < 49; x++ {
			b.SetRGBA(x, y, black)
		}
	}
	assert.Empty(t, NewFloodFillLocalizer().Locate(a, b))
}

func TestFloodFillLocalizer_IgnoresFaintDifferences(t *testing.T) {
	a := solidPage(50, 50, white)
	b := solidPage(50, 50, white)
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i], b.Pix[i+1], b.Pix[i+2] = 200, 200, 200
	}
	assert.Empty(t, NewFloodFillLocalizer().Locate(a, b))
}
