package texsynth

import "math/rand/v2"

// Scheduler decides the order in which output pixels are grown. It owns the
// canvas mask and, per pixel, the number of filled pixels inside the window
// around it.
type Scheduler struct {
	mask   *Mask
	radius int
	counts []int
}

func NewScheduler(w, h, windowSize int) *Scheduler {
	return &Scheduler{
		mask:   NewMask(w, h),
		radius: windowSize / 2,
		counts: make([]int, w*h),
	}
}

func (s *Scheduler) Mask() *Mask {
	return s.mask
}

// Seed copies a random size x size patch of source into the center of canvas
// and marks it filled. The patch is clipped to both grids. Returns the seeded
// area.
func (s *Scheduler) Seed(source, canvas *Grid, size int, rng *rand.Rand) int {
	sw := min(size, source.W, canvas.W)
	sh := min(size, source.H, canvas.H)
	sx := rng.IntN(source.W - sw + 1)
	sy := rng.IntN(source.H - sh + 1)
	dx := (canvas.W - sw) / 2
	dy := (canvas.H - sh) / 2
	for y := range sh {
		for x := range sw {
			canvas.SetPixel(dx+x, dy+y, source.Pixel(sx+x, sy+y))
			s.Fill(dx+x, dy+y)
		}
	}
	return sw * sh
}

// Fill marks (x, y) filled and credits every pixel whose window contains it.
func (s *Scheduler) Fill(x, y int) {
	s.mask.Fill(x, y)
	w, h := s.mask.W, s.mask.H
	y0, y1 := max(0, y-s.radius), min(h-1, y+s.radius)
	x0, x1 := max(0, x-s.radius), min(w-1, x+s.radius)
	for yy := y0; yy <= y1; yy++ {
		row := yy * w
		for xx := x0; xx <= x1; xx++ {
			s.counts[row+xx]++
		}
	}
}

// FilledNeighbors returns how many filled pixels lie in the window around
// (x, y), the pixel itself included.
func (s *Scheduler) FilledNeighbors(x, y int) int {
	return s.counts[y*s.mask.W+x]
}

// Next returns the unfilled frontier pixel with the most filled neighbors.
// Ties go to the first pixel in row-major order. ok is false once the mask
// is complete.
func (s *Scheduler) Next() (x, y int, ok bool) {
	if s.mask.Complete() {
		return 0, 0, false
	}
	w := s.mask.W
	best, bestCount := -1, 0
	firstFree := -1
	for i, c := range s.counts {
		if s.mask.filled[i] {
			continue
		}
		if firstFree < 0 {
			firstFree = i
		}
		if c > bestCount {
			best, bestCount = i, c
		}
	}
	if best < 0 {
		// Nothing touches the filled region yet, e.g. an unseeded canvas.
		best = firstFree
	}
	return best % w, best / w, true
}
