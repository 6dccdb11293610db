package texsynth

import "gonum.org/v1/gonum/mat"

// Seam is a minimum-cost path through an overlap error surface. Path holds
// one column index per row; Cost is the accumulated cost table.
type Seam struct {
	Path []int
	Cost *mat.Dense
}

// SolveSeam finds the top-to-bottom path of least total error through e.
// Each step moves at most one column. Ties go to the lowest column.
func SolveSeam(e mat.Matrix) Seam {
	rows, cols := e.Dims()
	cost := mat.NewDense(rows, cols, nil)
	prev := make([]int, rows*cols)
	for j := range cols {
		cost.Set(0, j, e.At(0, j))
	}
	for i := 1; i < rows; i++ {
		up := cost.RawRowView(i - 1)
		for j := range cols {
			bj := -1
			best := 0.0
			for k := max(0, j-1); k <= min(cols-1, j+1); k++ {
				if bj < 0 || up[k] < best {
					bj, best = k, up[k]
				}
			}
			cost.Set(i, j, e.At(i, j)+best)
			prev[i*cols+j] = bj
		}
	}

	path := make([]int, rows)
	last := cost.RawRowView(rows - 1)
	for j := 1; j < cols; j++ {
		if last[j] < last[path[rows-1]] {
			path[rows-1] = j
		}
	}
	for i := rows - 1; i > 0; i-- {
		path[i-1] = prev[i*cols+path[i]]
	}
	return Seam{Path: path, Cost: cost}
}

// SolveHorizontalSeam finds the left-to-right path through e. Path holds one
// row index per column and Cost is laid out transposed (cols x rows).
func SolveHorizontalSeam(e mat.Matrix) Seam {
	return SolveSeam(e.T())
}

// OverlapError returns the rows x cols surface of squared differences,
// summed over channels, between the canvas at the block destination and the
// source at the block origin.
func OverlapError(canvas, source *Grid, b Block, cols, rows int) *mat.Dense {
	e := mat.NewDense(rows, cols, nil)
	for r := range rows {
		for c := range cols {
			e.Set(r, c, pixelSSD(canvas.Pixel(b.DstX+c, b.DstY+r), source.Pixel(b.SrcX+c, b.SrcY+r)))
		}
	}
	return e
}

// Ownership reports, for every cell of an h x w block, whether the new block
// supplies the pixel. Cells on or after a seam belong to the new block. The
// vertical seam decides the left ovx columns including the corner; the
// horizontal seam decides the remaining cells of the top ovy rows. Either
// seam may be nil when that neighbor is absent.
func Ownership(h, w, ovx, ovy int, vertical, horizontal *Seam) [][]bool {
	own := make([][]bool, h)
	for r := range h {
		own[r] = make([]bool, w)
		for c := range w {
			switch {
			case vertical != nil && c < ovx:
				own[r][c] = c >= vertical.Path[r]
			case horizontal != nil && r < ovy:
				own[r][c] = r >= horizontal.Path[c]
			default:
				own[r][c] = true
			}
		}
	}
	return own
}
