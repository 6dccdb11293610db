package texsynth

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Neighborhood is a Size x Size window cut from a partially filled canvas.
// Valid marks the cells that hold a finalized value; the others are ignored
// when matching.
type Neighborhood struct {
	Size, C int
	Values  []float64 // len = Size*Size*C
	Valid   []bool    // len = Size*Size
}

// ExtractNeighborhood cuts the window centered on (cx, cy) out of canvas.
// Cells outside the canvas or not yet filled in mask are invalid.
func ExtractNeighborhood(canvas *Grid, mask *Mask, cx, cy, size int) Neighborhood {
	r := size / 2
	nb := Neighborhood{
		Size:   size,
		C:      canvas.C,
		Values: make([]float64, size*size*canvas.C),
		Valid:  make([]bool, size*size),
	}
	for dy := range size {
		y := cy - r + dy
		for dx := range size {
			x := cx - r + dx
			if !canvas.In(x, y) || !mask.Filled(x, y) {
				continue
			}
			i := dy*size + dx
			nb.Valid[i] = true
			copy(nb.Values[i*canvas.C:(i+1)*canvas.C], canvas.Pixel(x, y))
		}
	}
	return nb
}

// ValidCount returns the number of filled cells in the window.
func (nb Neighborhood) ValidCount() int {
	n := 0
	for _, v := range nb.Valid {
		if v {
			n++
		}
	}
	return n
}

// Candidate is a source window position and its distance to the query.
// X, Y is the top-left corner of the window in the source grid.
type Candidate struct {
	X, Y int
	Err  float64
}

// Center returns the source pixel at the middle of the candidate window.
func (c Candidate) Center(radius int) (int, int) {
	return c.X + radius, c.Y + radius
}

// CandidateList is ordered by ascending error, then by Y and X.
type CandidateList []Candidate

func compareCandidates(a, b Candidate) int {
	if c := cmp.Compare(a.Err, b.Err); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}

func (cl CandidateList) sort() {
	slices.SortFunc(cl, compareCandidates)
}

// Qualifying returns how many leading candidates lie within
// e_min*(1+threshold), capped at limit when limit > 0.
func (cl CandidateList) Qualifying(threshold float64, limit int) int {
	if len(cl) == 0 {
		return 0
	}
	bound := cl[0].Err * (1 + threshold)
	n := 0
	for n < len(cl) && cl[n].Err <= bound {
		n++
	}
	if limit > 0 {
		n = min(n, limit)
	}
	return n
}

// Select draws uniformly among the qualifying candidates. With threshold 0
// or a single qualifier the best candidate is returned without touching rng.
// If nothing qualifies (a negative threshold) the best candidate is returned
// and ok is false.
func (cl CandidateList) Select(threshold float64, limit int, rng *rand.Rand) (c Candidate, ok bool) {
	if len(cl) == 0 {
		return Candidate{}, false
	}
	n := cl.Qualifying(threshold, limit)
	switch {
	case n == 0:
		return cl[0], false
	case n == 1 || threshold == 0:
		return cl[0], true
	}
	return cl[rng.IntN(n)], true
}

// Matcher scores neighborhoods against every window position of Source.
// Source is only read, so one Matcher may serve many queries.
type Matcher struct {
	Source  *Grid
	Window  *Window
	Workers int

	weights []float64
}

func NewMatcher(source *Grid, window *Window, workers int) *Matcher {
	return &Matcher{
		Source:  source,
		Window:  window,
		Workers: workers,
		weights: window.flat(),
	}
}

type tap struct {
	dx, dy int
	w      float64
	vals   []float64
}

// Match returns every source window sorted by the Gaussian-weighted SSD to
// nb over its valid cells, normalized by the valid weight sum.
func (m *Matcher) Match(nb Neighborhood) CandidateList {
	size := m.Window.Size
	src := m.Source
	nx, ny := src.W-size+1, src.H-size+1
	if nx <= 0 || ny <= 0 {
		return nil
	}
	if m.weights == nil {
		m.weights = m.Window.flat()
	}

	taps := make([]tap, 0, size*size)
	wsum := 0.0
	for i, ok := range nb.Valid {
		if !ok {
			continue
		}
		taps = append(taps, tap{
			dx:   i % size,
			dy:   i / size,
			w:    m.weights[i],
			vals: nb.Values[i*nb.C : (i+1)*nb.C],
		})
		wsum += m.weights[i]
	}

	out := make(CandidateList, nx*ny)
	scanRows(ny, m.Workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := range nx {
				e := 0.0
				if wsum > 0 {
					for _, t := range taps {
						px := src.Pixel(x+t.dx, y+t.dy)
						d2 := 0.0
						for c, v := range t.vals {
							d := v - px[c]
							d2 += d * d
						}
						e += t.w * d2
					}
					e /= wsum
				}
				out[y*nx+x] = Candidate{X: x, Y: y, Err: e}
			}
		}
	})
	out.sort()
	return out
}

// scanRows calls fn over [0, rows) split into contiguous bands, one band per
// worker. fn must only write state owned by its band.
func scanRows(rows, workers int, fn func(y0, y1 int)) {
	if workers <= 1 || rows < 2 {
		fn(0, rows)
		return
	}
	band := (rows + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < rows; y0 += band {
		y1 := min(rows, y0+band)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}
