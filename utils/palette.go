package utils

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	log "github.com/sirupsen/logrus"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// Swatch is a palette color and the share of the image it stands for.
type Swatch struct {
	Col    colorful.Color
	Weight float64
}

// ExtractPalette returns up to k swatches ordered by descending weight.
// Weights sum to 1. A kmeans failure falls back to dominantcolor.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []Swatch {
	if k <= 0 {
		return nil
	}
	var p []Swatch
	if method == PaletteMethodKMeans {
		p = kmeansPalette(img, k)
		if len(p) == 0 {
			log.Warn("kmeans returned empty palette, falling back to dominantcolor")
		}
	}
	if len(p) == 0 {
		p = dominantPalette(img, k)
	}
	return normalize(p)
}

func dominantPalette(img image.Image, k int) []Swatch {
	found := dominantcolor.FindWeight(img, k)
	out := make([]Swatch, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		out = append(out, Swatch{Col: col.Clamped(), Weight: max(c.Weight, 1e-6)})
	}
	if len(out) == 0 {
		out = append(out, Swatch{Col: colorful.Color{R: 0.5, G: 0.5, B: 0.5}, Weight: 1})
	}
	return out
}

func kmeansPalette(img image.Image, k int) []Swatch {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	// Subsample to keep kmeans tractable on large outputs.
	const maxSamples = 12000
	step := 1
	if w*h > maxSamples {
		step = int(math.Sqrt(float64(w*h)/maxSamples)) + 1
	}
	dataset := make(clusters.Observations, 0, min(w*h, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{c.R, c.G, c.B})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	cc, err := kmeans.New().Partition(dataset, min(k, len(dataset)))
	if err != nil {
		log.WithError(err).Debug("kmeans partition failed")
		return nil
	}
	out := make([]Swatch, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		out = append(out, Swatch{
			Col:    colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped(),
			Weight: float64(len(c.Observations)),
		})
	}
	return out
}

func normalize(p []Swatch) []Swatch {
	sum := 0.0
	for _, s := range p {
		sum += s.Weight
	}
	if sum <= 0 {
		return p
	}
	for i := range p {
		p[i].Weight /= sum
	}
	slices.SortStableFunc(p, func(a, b Swatch) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})
	return p
}

// PaletteDrift compares the palettes of a source texture and a synthesized
// output: the weighted mean CIEDE2000 distance from every source swatch to
// its closest output swatch. 0 means the output kept every source color.
func PaletteDrift(src, out []Swatch) float64 {
	if len(src) == 0 || len(out) == 0 {
		return 0
	}
	drift := 0.0
	for _, s := range src {
		best := math.Inf(1)
		for _, o := range out {
			best = min(best, s.Col.DistanceCIEDE2000(o.Col))
		}
		drift += s.Weight * best
	}
	return drift
}

// SortPaletteByBrightness orders swatches from darkest to brightest.
func SortPaletteByBrightness(palette []Swatch) {
	slices.SortFunc(palette, func(a, b Swatch) int {
		la, _, _ := a.Col.Lab()
		lb, _, _ := b.Col.Lab()
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
		return 0
	})
}

// SavePalette writes one row of tiles per palette, each tile as wide as its
// swatch weight allows within rowWidth.
func SavePalette(palettes [][]Swatch, rowWidth, rowHeight int, filename string) error {
	if len(palettes) == 0 {
		return fmt.Errorf("no palettes")
	}
	if rowWidth <= 0 {
		rowWidth = 512
	}
	if rowHeight <= 0 {
		rowHeight = 64
	}
	img := image.NewRGBA(image.Rect(0, 0, rowWidth, rowHeight*len(palettes)))
	for row, p := range palettes {
		x0 := 0
		for i, s := range p {
			x1 := x0 + int(math.Round(s.Weight*float64(rowWidth)))
			if i == len(p)-1 {
				x1 = rowWidth
			}
			r, g, b := s.Col.Clamped().RGB255()
			for y := row * rowHeight; y < (row+1)*rowHeight; y++ {
				for x := x0; x < min(x1, rowWidth); x++ {
					img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
				}
			}
			x0 = x1
		}
	}
	return SaveImage(img, filename)
}
