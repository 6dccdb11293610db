package texsynth

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Window is a square, normalized Gaussian weight kernel.
type Window struct {
	Size    int
	Weights *mat.Dense
}

func NewGaussianWindow(size int, sigma float64) (*Window, error) {
	if size < 3 || size%2 == 0 {
		return nil, fmt.Errorf("%w: window size %d must be odd and >= 3", ErrInvalidParameter, size)
	}
	if !(sigma > 0) {
		return nil, fmt.Errorf("%w: sigma %v must be > 0", ErrInvalidParameter, sigma)
	}
	r := size / 2
	twoSigma2 := 2 * sigma * sigma
	w := mat.NewDense(size, size, nil)
	for i := range size {
		for j := range size {
			dy := float64(i - r)
			dx := float64(j - r)
			w.Set(i, j, math.Exp(-(dx*dx+dy*dy)/twoSigma2))
		}
	}
	w.Scale(1/mat.Sum(w), w)
	return &Window{Size: size, Weights: w}, nil
}

func (w *Window) Radius() int {
	return w.Size / 2
}

// flat returns the weights in row-major order.
func (w *Window) flat() []float64 {
	out := make([]float64, 0, w.Size*w.Size)
	for i := range w.Size {
		out = append(out, w.Weights.RawRowView(i)...)
	}
	return out
}
