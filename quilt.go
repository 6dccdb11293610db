package texsynth

import (
	"math/rand/v2"

	log "github.com/sirupsen/logrus"
)

// Assembler tiles an output canvas with overlapping source blocks stitched
// along minimum-error seams (Image Quilting).
type Assembler struct {
	Source *Grid
	Canvas *Grid
	Opt    Options

	sampler *BlockSampler
	mask    *Mask
	rng     *rand.Rand
	blocks  []Block
}

// Quilt assembles a texture of opt.OutputSize from source blocks.
func Quilt(source *Grid, opt Options) (*Grid, error) {
	a, err := NewAssembler(source, opt)
	if err != nil {
		return nil, err
	}
	return a.Run(), nil
}

func NewAssembler(source *Grid, opt Options) (*Assembler, error) {
	if err := opt.ValidateQuilt(source); err != nil {
		return nil, err
	}
	h, w := opt.OutputSize[0], opt.OutputSize[1]
	return &Assembler{
		Source: source,
		Canvas: NewGrid(w, h, source.C),
		Opt:    opt,
		sampler: &BlockSampler{
			Source:    source,
			Size:      opt.BlockSize,
			Overlap:   opt.OverlapSize,
			Tolerance: opt.BlockTolerance,
			Limit:     opt.BlockCandidates,
			Workers:   opt.workers(),
		},
		mask: NewMask(w, h),
		rng:  newRand(opt.Seed),
	}, nil
}

// Run places blocks in raster order until the canvas is covered.
func (a *Assembler) Run() *Grid {
	W, H := a.Canvas.W, a.Canvas.H
	size, ov := a.Opt.BlockSize, a.Opt.OverlapSize
	stride := size - ov

	log.WithFields(log.Fields{
		"width":   W,
		"height":  H,
		"block":   size,
		"overlap": ov,
	}).Debug("quilting started")

	for y := 0; ; y += stride {
		h := min(size, H-y)
		for x := 0; ; x += stride {
			w := min(size, W-x)
			b := a.sampler.Select(a.Canvas, x, y, w, h, x > 0, y > 0, a.rng)
			a.place(b)
			a.blocks = append(a.blocks, b)
			if x+size >= W {
				break
			}
		}
		log.WithFields(log.Fields{
			"row":    y,
			"blocks": len(a.blocks),
		}).Debug("quilting progress")
		if y+size >= H {
			break
		}
	}
	return a.Canvas
}

// place writes b to the canvas, cutting its left and top overlaps along
// minimum-error seams.
func (a *Assembler) place(b Block) {
	ov := a.Opt.OverlapSize
	var vertical, horizontal *Seam
	ovx, ovy := 0, 0
	if b.DstX > 0 {
		ovx = min(ov, b.W)
		s := SolveSeam(OverlapError(a.Canvas, a.Source, b, ovx, b.H))
		vertical = &s
	}
	if b.DstY > 0 {
		ovy = min(ov, b.H)
		s := SolveHorizontalSeam(OverlapError(a.Canvas, a.Source, b, b.W, ovy))
		horizontal = &s
	}
	own := Ownership(b.H, b.W, ovx, ovy, vertical, horizontal)
	for r := range b.H {
		for c := range b.W {
			x, y := b.DstX+c, b.DstY+r
			if own[r][c] {
				a.Canvas.SetPixel(x, y, a.Source.Pixel(b.SrcX+c, b.SrcY+r))
			}
			if !a.mask.Filled(x, y) {
				a.mask.Fill(x, y)
			}
		}
	}
}

// Blocks returns the placed blocks in placement order.
func (a *Assembler) Blocks() []Block {
	return a.blocks
}

func (a *Assembler) Mask() *Mask {
	return a.mask
}
