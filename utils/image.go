package utils

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// Downscale shrinks img so that its longer side is at most maxSide, keeping
// the aspect ratio. Smaller images and maxSide <= 0 return img unchanged.
func Downscale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || max(w, h) <= maxSide {
		return img
	}
	scale := float64(maxSide) / float64(max(w, h))
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// SaveErrorHistogram plots the distribution of per-step match errors.
func SaveErrorHistogram(errs []float64, bins int, filename string) error {
	if len(errs) == 0 {
		return fmt.Errorf("no match errors to plot")
	}
	if bins <= 0 {
		bins = 50
	}
	p := plot.New()
	p.Title.Text = "Match error per fill step"
	p.X.Label.Text = "weighted SSD"
	p.Y.Label.Text = "steps"

	hist, err := plotter.NewHist(plotter.Values(errs), bins)
	if err != nil {
		return err
	}
	p.Add(hist)
	return p.Save(8*vg.Inch, 4*vg.Inch, filename)
}
