package texsynth

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"runtime"
)

type Options struct {
	// Side of the matching neighborhood for pixel growth. Odd, >= 3.
	// Should cover the largest regular feature of the texture:
	// too small => noise, too large => verbatim copies.
	WindowSize int `json:"window_size"`
	// Relative error tolerance: every candidate within e_min*(1+Threshold)
	// may be picked. 0 always copies the best match.
	Threshold float64 `json:"threshold"`
	// Gaussian falloff of the neighborhood weights. <= 0 in a config file
	// means DefaultSigma(WindowSize).
	Sigma float64 `json:"sigma"`
	// Output size as [height, width].
	OutputSize [2]int `json:"output_size"`
	// Quilting block side.
	BlockSize int `json:"block_size"`
	// Quilting overlap width. 0 < OverlapSize < BlockSize.
	// Ideal start: BlockSize/6.
	OverlapSize int `json:"overlap_size"`
	// Relative error tolerance for block selection.
	BlockTolerance float64 `json:"block_tolerance"`
	// Upper bound on the number of blocks the random pick draws from.
	// 0 means no cap.
	BlockCandidates int `json:"block_candidates"`
	// Side of the random seed patch copied to the canvas center.
	SeedSize int `json:"seed_size"`
	// Random seed. Equal seeds and inputs produce identical output.
	Seed uint64 `json:"seed"`
	// Goroutines used to score candidates. <= 0 means runtime.NumCPU().
	Workers int `json:"workers"`
}

// DefaultSigma is the usual neighborhood falloff for a window side.
func DefaultSigma(windowSize int) float64 {
	return float64(windowSize) / 6.4
}

func DefaultOptions() Options {
	return Options{
		WindowSize:      11,
		Threshold:       0.1,
		Sigma:           DefaultSigma(11),
		OutputSize:      [2]int{128, 128},
		BlockSize:       32,
		OverlapSize:     6,
		BlockTolerance:  0.1,
		BlockCandidates: 0,
		SeedSize:        3,
		Seed:            1,
		Workers:         runtime.NumCPU(),
	}
}

// OptionsFromSize scales window and block sizes to the exemplar and asks for
// an output twice its size.
func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	if size.X <= 0 || size.Y <= 0 {
		return opt
	}
	side := min(size.X, size.Y)

	win := max(3, min(15, side/6))
	if win%2 == 0 {
		win++
	}
	opt.WindowSize = win
	opt.Sigma = DefaultSigma(win)

	block := max(4, min(64, side/3))
	opt.BlockSize = block
	opt.OverlapSize = max(1, block/6)

	opt.OutputSize = [2]int{size.Y * 2, size.X * 2}
	return opt
}

// LoadOptions decodes a JSON options document on top of DefaultOptions.
// Keys absent from the document keep their default value.
func LoadOptions(r io.Reader) (Options, error) {
	opt := DefaultOptions()
	opt.Sigma = 0
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opt); err != nil {
		return opt, fmt.Errorf("decode options: %w", err)
	}
	if opt.Sigma <= 0 {
		opt.Sigma = DefaultSigma(opt.WindowSize)
	}
	return opt, nil
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

func (o Options) validateOutput() error {
	if o.OutputSize[0] <= 0 || o.OutputSize[1] <= 0 {
		return fmt.Errorf("%w: output size %dx%d must be positive", ErrInvalidParameter, o.OutputSize[0], o.OutputSize[1])
	}
	return nil
}

// ValidateSynthesis checks the pixel-growth options against the exemplar.
func (o Options) ValidateSynthesis(source *Grid) error {
	if o.WindowSize < 3 || o.WindowSize%2 == 0 {
		return fmt.Errorf("%w: window size %d must be odd and >= 3", ErrInvalidParameter, o.WindowSize)
	}
	if o.Sigma <= 0 {
		return fmt.Errorf("%w: sigma %v must be > 0", ErrInvalidParameter, o.Sigma)
	}
	if o.SeedSize <= 0 {
		return fmt.Errorf("%w: seed size %d must be positive", ErrInvalidParameter, o.SeedSize)
	}
	if err := o.validateOutput(); err != nil {
		return err
	}
	if source == nil || source.W < o.WindowSize || source.H < o.WindowSize {
		return fmt.Errorf("%w: source must be at least %dx%d", ErrInsufficientSourceSize, o.WindowSize, o.WindowSize)
	}
	return nil
}

// ValidateQuilt checks the quilting options against the exemplar.
func (o Options) ValidateQuilt(source *Grid) error {
	if o.BlockSize <= 0 {
		return fmt.Errorf("%w: block size %d must be positive", ErrInvalidParameter, o.BlockSize)
	}
	if o.OverlapSize <= 0 || o.OverlapSize >= o.BlockSize {
		return fmt.Errorf("%w: overlap %d must be in (0, %d)", ErrInvalidParameter, o.OverlapSize, o.BlockSize)
	}
	if err := o.validateOutput(); err != nil {
		return err
	}
	if source == nil || source.W < o.BlockSize || source.H < o.BlockSize {
		return fmt.Errorf("%w: source must be at least %dx%d", ErrInsufficientSourceSize, o.BlockSize, o.BlockSize)
	}
	return nil
}
