package texsynth

import "math/rand/v2"

// Block is a square source patch placed on the canvas. W and H are smaller
// than the block size only where the canvas edge clips it.
type Block struct {
	SrcX, SrcY int
	DstX, DstY int
	W, H       int
}

// BlockSampler picks source blocks whose overlap strips agree with what is
// already on the canvas.
type BlockSampler struct {
	Source    *Grid
	Size      int
	Overlap   int
	Tolerance float64
	Limit     int
	Workers   int
}

func (bs *BlockSampler) positions() (nx, ny int) {
	return bs.Source.W - bs.Size + 1, bs.Source.H - bs.Size + 1
}

// Select chooses the block for the w x h canvas cell at (dstX, dstY). left
// and top tell which neighbors have already been placed.
func (bs *BlockSampler) Select(canvas *Grid, dstX, dstY, w, h int, left, top bool, rng *rand.Rand) Block {
	b := Block{DstX: dstX, DstY: dstY, W: w, H: h}
	nx, ny := bs.positions()
	if !left && !top {
		b.SrcX = rng.IntN(nx)
		b.SrcY = rng.IntN(ny)
		return b
	}
	cands := bs.Candidates(canvas, dstX, dstY, w, h, left, top)
	best, _ := cands.Select(bs.Tolerance, bs.Limit, rng)
	b.SrcX, b.SrcY = best.X, best.Y
	return b
}

// Candidates scores every source block position by the SSD over the union
// of the left and top overlap strips. The corner is counted once.
func (bs *BlockSampler) Candidates(canvas *Grid, dstX, dstY, w, h int, left, top bool) CandidateList {
	nx, ny := bs.positions()
	ovx, ovy := 0, 0
	if left {
		ovx = min(bs.Overlap, w)
	}
	if top {
		ovy = min(bs.Overlap, h)
	}
	src := bs.Source

	out := make(CandidateList, nx*ny)
	scanRows(ny, bs.Workers, func(y0, y1 int) {
		for sy := y0; sy < y1; sy++ {
			for sx := range nx {
				e := 0.0
				for r := range h {
					// Columns [0, ovx) belong to the left strip. Rows above ovy
					// also cover [ovx, w) for the top strip.
					cEnd := ovx
					if r < ovy {
						cEnd = w
					}
					for c := range cEnd {
						e += pixelSSD(canvas.Pixel(dstX+c, dstY+r), src.Pixel(sx+c, sy+r))
					}
				}
				out[sy*nx+sx] = Candidate{X: sx, Y: sy, Err: e}
			}
		}
	})
	out.sort()
	return out
}

func pixelSSD(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
