package texsynth

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptionsValidate(t *testing.T) {
	opt := DefaultOptions()
	src := NewGrid(64, 64, 3)
	assert.NoError(t, opt.ValidateSynthesis(src))
	assert.NoError(t, opt.ValidateQuilt(src))
	assert.Greater(t, opt.workers(), 0)

	opt.Workers = 0
	assert.Greater(t, opt.workers(), 0)
}

func TestOptionsFromSize(t *testing.T) {
	for _, size := range []image.Point{{16, 16}, {64, 48}, {300, 200}, {1024, 1024}} {
		opt := OptionsFromSize(size)
		assert.Equal(t, 1, opt.WindowSize%2, "size %v", size)
		assert.Equal(t, [2]int{size.Y * 2, size.X * 2}, opt.OutputSize)

		src := NewGrid(size.X, size.Y, 1)
		assert.NoError(t, opt.ValidateSynthesis(src), "size %v", size)
		assert.NoError(t, opt.ValidateQuilt(src), "size %v", size)
	}
	assert.Equal(t, DefaultOptions(), OptionsFromSize(image.Point{}))
}

func TestLoadOptions(t *testing.T) {
	opt, err := LoadOptions(strings.NewReader(`{
  "window_size": 7,
  "threshold": 0.2,
  "output_size": [40, 60],
  "block_size": 16,
  "overlap_size": 4,
  "seed": 42
}`))
	require.NoError(t, err)
	assert.Equal(t, 7, opt.WindowSize)
	assert.Equal(t, 0.2, opt.Threshold)
	assert.Equal(t, DefaultSigma(7), opt.Sigma)
	assert.Equal(t, [2]int{40, 60}, opt.OutputSize)
	assert.Equal(t, 16, opt.BlockSize)
	assert.Equal(t, 4, opt.OverlapSize)
	assert.Equal(t, uint64(42), opt.Seed)
	assert.Equal(t, DefaultOptions().SeedSize, opt.SeedSize)

	opt, err = LoadOptions(strings.NewReader(`{"sigma": 2.5}`))
	require.NoError(t, err)
	assert.Equal(t, 2.5, opt.Sigma)

	_, err = LoadOptions(strings.NewReader(`{"window": 7}`))
	assert.Error(t, err)
}

func TestValidateSeedSize(t *testing.T) {
	opt := DefaultOptions()
	opt.SeedSize = 0
	assert.ErrorIs(t, opt.ValidateSynthesis(NewGrid(32, 32, 1)), ErrInvalidParameter)
}
