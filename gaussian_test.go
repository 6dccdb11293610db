package texsynth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGaussianWindow(t *testing.T) {
	for _, tc := range []struct {
		size  int
		sigma float64
	}{
		{3, 0.5},
		{5, 1},
		{11, DefaultSigma(11)},
	} {
		w, err := NewGaussianWindow(tc.size, tc.sigma)
		require.NoError(t, err)
		assert.Equal(t, tc.size/2, w.Radius())
		assert.InDelta(t, 1.0, mat.Sum(w.Weights), 1e-12)

		r := w.Radius()
		center := w.Weights.At(r, r)
		for i := range tc.size {
			for j := range tc.size {
				v := w.Weights.At(i, j)
				assert.LessOrEqual(t, v, center)
				assert.InDelta(t, v, w.Weights.At(tc.size-1-i, j), 1e-15)
				assert.InDelta(t, v, w.Weights.At(j, i), 1e-15)
			}
		}
		assert.Len(t, w.flat(), tc.size*tc.size)
	}
}

func TestGaussianWindowFalloff(t *testing.T) {
	w, err := NewGaussianWindow(3, 1)
	require.NoError(t, err)
	// exp(-1/2) between center and edge, exp(-1/2) again to the corner.
	assert.InDelta(t, 0.60653066, w.Weights.At(1, 0)/w.Weights.At(1, 1), 1e-8)
	assert.InDelta(t, 0.60653066, w.Weights.At(0, 0)/w.Weights.At(1, 0), 1e-8)
}

func TestGaussianWindowInvalid(t *testing.T) {
	for _, tc := range []struct {
		size  int
		sigma float64
	}{
		{8, 1},
		{1, 1},
		{-3, 1},
		{5, 0},
		{5, -2},
	} {
		_, err := NewGaussianWindow(tc.size, tc.sigma)
		assert.ErrorIs(t, err, ErrInvalidParameter, "size=%d sigma=%v", tc.size, tc.sigma)
	}
}
