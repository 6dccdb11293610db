package texsynth

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorSpace selects the channel layout a Grid is built in. Matching compares
// raw channel values, so the space decides what "similar" means.
type ColorSpace int

const (
	ColorSpaceRGB ColorSpace = iota
	ColorSpaceLab
	ColorSpaceGray
)

func (cs ColorSpace) String() string {
	switch cs {
	case ColorSpaceLab:
		return "lab"
	case ColorSpaceGray:
		return "gray"
	default:
		return "rgb"
	}
}

// Channels returns the number of channels a Grid in this space carries.
func (cs ColorSpace) Channels() int {
	if cs == ColorSpaceGray {
		return 1
	}
	return 3
}

// ParseColorSpace maps "rgb", "lab" and "gray" to a ColorSpace.
func ParseColorSpace(s string) (ColorSpace, error) {
	switch s {
	case "", "rgb":
		return ColorSpaceRGB, nil
	case "lab":
		return ColorSpaceLab, nil
	case "gray", "grey":
		return ColorSpaceGray, nil
	}
	return ColorSpaceRGB, fmt.Errorf("%w: unknown color space %q", ErrInvalidParameter, s)
}

// Grid is a W x H image with C interleaved float channels.
type Grid struct {
	W, H, C int
	Pix     []float64 // len = W*H*C
}

func NewGrid(w, h, c int) *Grid {
	return &Grid{W: w, H: h, C: c, Pix: make([]float64, w*h*c)}
}

func (g *Grid) offset(x, y int) int {
	return (y*g.W + x) * g.C
}

func (g *Grid) Size() image.Point {
	return image.Pt(g.W, g.H)
}

func (g *Grid) In(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

func (g *Grid) At(x, y, c int) float64 {
	return g.Pix[g.offset(x, y)+c]
}

func (g *Grid) Set(x, y, c int, v float64) {
	g.Pix[g.offset(x, y)+c] = v
}

// Pixel returns the channels of (x, y). The slice aliases the grid.
func (g *Grid) Pixel(x, y int) []float64 {
	off := g.offset(x, y)
	return g.Pix[off : off+g.C : off+g.C]
}

func (g *Grid) SetPixel(x, y int, px []float64) {
	copy(g.Pix[g.offset(x, y):g.offset(x, y)+g.C], px)
}

func (g *Grid) Clone() *Grid {
	out := &Grid{W: g.W, H: g.H, C: g.C, Pix: make([]float64, len(g.Pix))}
	copy(out.Pix, g.Pix)
	return out
}

// Crop copies the w x h region with top-left (x, y) into a new grid.
func (g *Grid) Crop(x, y, w, h int) *Grid {
	out := NewGrid(w, h, g.C)
	for row := range h {
		src := g.offset(x, y+row)
		copy(out.Pix[row*w*g.C:(row+1)*w*g.C], g.Pix[src:src+w*g.C])
	}
	return out
}

// GridFromImage converts img into a grid in the given color space.
func GridFromImage(img image.Image, cs ColorSpace) *Grid {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := NewGrid(w, h, cs.Channels())
	for y := range h {
		for x := range w {
			c, _ := colorful.MakeColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			off := g.offset(x, y)
			switch cs {
			case ColorSpaceLab:
				l, a, b := c.Lab()
				g.Pix[off] = l
				g.Pix[off+1] = a
				g.Pix[off+2] = b
			case ColorSpaceGray:
				r, gr, b := c.LinearRgb()
				lum := 0.2126*r + 0.7152*gr + 0.0722*b
				g.Pix[off] = colorful.LinearRgb(lum, lum, lum).R
			default:
				g.Pix[off] = c.R
				g.Pix[off+1] = c.G
				g.Pix[off+2] = c.B
			}
		}
	}
	return g
}

// Image converts the grid back to 8-bit NRGBA, interpreting its channels
// in the given color space.
func (g *Grid) Image(cs ColorSpace) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, g.W, g.H))
	for y := range g.H {
		for x := range g.W {
			off := g.offset(x, y)
			var c colorful.Color
			switch {
			case cs == ColorSpaceLab && g.C >= 3:
				c = colorful.Lab(g.Pix[off], g.Pix[off+1], g.Pix[off+2])
			case g.C >= 3:
				c = colorful.Color{R: g.Pix[off], G: g.Pix[off+1], B: g.Pix[off+2]}
			default:
				v := g.Pix[off]
				c = colorful.Color{R: v, G: v, B: v}
			}
			r, gr, b := c.Clamped().RGB255()
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: gr, B: b, A: 255})
		}
	}
	return out
}

// Mask records which output pixels hold a finalized value.
type Mask struct {
	W, H   int
	filled []bool
	count  int
}

func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, filled: make([]bool, w*h)}
}

func (m *Mask) Filled(x, y int) bool {
	return m.filled[y*m.W+x]
}

// Fill marks (x, y) as final. Filling a pixel twice is a scheduling bug.
func (m *Mask) Fill(x, y int) {
	i := y*m.W + x
	if m.filled[i] {
		panic(fmt.Sprintf("texsynth: pixel (%d,%d) filled twice", x, y))
	}
	m.filled[i] = true
	m.count++
}

func (m *Mask) Count() int {
	return m.count
}

func (m *Mask) Complete() bool {
	return m.count == m.W*m.H
}
