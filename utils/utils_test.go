package utils

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stripes(w, h int, a, b color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x/4)%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return img
}

func TestPaletteDrift(t *testing.T) {
	red := colorful.Color{R: 1}
	blue := colorful.Color{B: 1}
	src := []Swatch{{Col: red, Weight: 0.5}, {Col: blue, Weight: 0.5}}

	assert.Equal(t, 0.0, PaletteDrift(src, src))
	assert.Equal(t, 0.0, PaletteDrift(src, []Swatch{{Col: blue, Weight: 0.2}, {Col: red, Weight: 0.8}}))

	lost := PaletteDrift(src, []Swatch{{Col: red, Weight: 1}})
	assert.InDelta(t, 0.5*red.DistanceCIEDE2000(blue), lost, 1e-12)
	assert.Equal(t, 0.0, PaletteDrift(nil, src))
}

func TestExtractPalette(t *testing.T) {
	img := stripes(32, 16, color.NRGBA{200, 30, 30, 255}, color.NRGBA{20, 20, 180, 255})
	for _, method := range []PaletteMethod{PaletteMethodDominantColor, PaletteMethodKMeans} {
		t.Run(method.String(), func(t *testing.T) {
			p := ExtractPalette(img, 2, method)
			require.NotEmpty(t, p)
			sum := 0.0
			for i, s := range p {
				sum += s.Weight
				if i > 0 {
					assert.GreaterOrEqual(t, p[i-1].Weight, s.Weight)
				}
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
	assert.Nil(t, ExtractPalette(img, 0, PaletteMethodKMeans))
}

func TestSortPaletteByBrightness(t *testing.T) {
	p := []Swatch{
		{Col: colorful.Color{R: 1, G: 1, B: 1}},
		{Col: colorful.Color{}},
		{Col: colorful.Color{R: 0.5, G: 0.5, B: 0.5}},
	}
	SortPaletteByBrightness(p)
	assert.Equal(t, colorful.Color{}, p[0].Col)
	assert.Equal(t, colorful.Color{R: 1, G: 1, B: 1}, p[2].Col)
}

func TestDownscale(t *testing.T) {
	img := stripes(200, 100, color.White, color.Black)
	small := Downscale(img, 50)
	assert.Equal(t, image.Pt(50, 25), small.Bounds().Size())
	assert.Same(t, img, Downscale(img, 0))
	assert.Same(t, img, Downscale(img, 400))
}

func TestSaveAndReadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stripes.png")
	img := stripes(8, 8, color.White, color.Black)
	require.NoError(t, SaveImage(img, path))

	back, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), back.Bounds())
	r, _, _, _ := back.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)

	_, err = ReadImage(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestSavePalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.png")
	p := []Swatch{{Col: colorful.Color{R: 1}, Weight: 0.25}, {Col: colorful.Color{G: 1}, Weight: 0.75}}
	require.NoError(t, SavePalette([][]Swatch{p, p}, 100, 10, path))

	img, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(100, 20), img.Bounds().Size())
	r, g, _, _ := img.At(10, 15).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
	_, g, _, _ = img.At(90, 5).RGBA()
	assert.Equal(t, uint32(0xffff), g)

	assert.Error(t, SavePalette(nil, 10, 10, path))
}

func TestSaveErrorHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.png")
	require.NoError(t, SaveErrorHistogram([]float64{0, 0.1, 0.1, 0.3, 0.7}, 5, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, SaveErrorHistogram(nil, 5, path))
}
