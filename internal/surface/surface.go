// Package surface turns height frames into renderable 3D surfaces.
//
// A [Mesh] is built once per run from the grid size N; [Build] combines it
// with one frame to produce a [Surface]. Surfaces carry per-vertex and
// per-face colors so every renderer (window, terminal, raster, SVG) draws
// the same picture.
package surface

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/wavesurf/internal/frames"
)

const (
	DefaultColormap = "Blues"
	DefaultAlpha    = 0.8
)

// Style is the fixed look of every surface.
type Style struct {
	Colormap string
	Alpha    float64
	XLim     [2]float64
	YLim     [2]float64
	ZLim     [2]float64
	XLabel   string
	YLabel   string
	ZLabel   string
}

// DefaultStyle returns the water surface look: Blues at 80% opacity in a
// unit cube.
func DefaultStyle() Style {
	return Style{
		Colormap: DefaultColormap,
		Alpha:    DefaultAlpha,
		XLim:     [2]float64{0, 1},
		YLim:     [2]float64{0, 1},
		ZLim:     [2]float64{0, 1},
		XLabel:   "X",
		YLabel:   "Y",
		ZLabel:   "Height",
	}
}

// Point is one mesh vertex.
type Point struct {
	X, Y, Z float64
	Color   color.NRGBA
}

// Quad is one mesh cell. Corners are listed counter-clockwise starting at
// (row, col).
type Quad struct {
	Row, Col int
	Corners  [4]Point
	Color    color.NRGBA
}

// Center returns the mean of the four corners.
func (q Quad) Center() (x, y, z float64) {
	for _, p := range q.Corners {
		x += p.X
		y += p.Y
		z += p.Z
	}
	return x / 4, y / 4, z / 4
}

// Surface is the renderable form of a single frame.
type Surface struct {
	N      int
	Points [][]Point
	Quads  []Quad
	Style  Style
	Source string
	Min    float64
	Max    float64
}

// Build constructs the surface z = height(x, y) over the mesh. Colors are
// normalized over the frame's own height range; a flat frame maps to the
// middle of the colormap.
func Build(m *Mesh, f *frames.Frame, style Style) (*Surface, error) {
	if m == nil || f == nil {
		return nil, fmt.Errorf("surface: nil mesh or frame")
	}
	if f.Shape() != (frames.Shape{Rows: m.N, Cols: m.N}) {
		return nil, fmt.Errorf("surface: frame %s is %s, mesh is %dx%d", f.Path, f.Shape(), m.N, m.N)
	}
	cmap, err := LookupColormap(style.Colormap)
	if err != nil {
		return nil, err
	}

	st := f.Stats()
	norm := func(z float64) float64 {
		if st.Range() == 0 || math.IsNaN(st.Range()) {
			return 0.5
		}
		return (z - st.Min) / st.Range()
	}

	s := &Surface{
		N:      m.N,
		Points: make([][]Point, m.N),
		Style:  style,
		Source: f.Path,
		Min:    st.Min,
		Max:    st.Max,
	}
	for i := 0; i < m.N; i++ {
		s.Points[i] = make([]Point, m.N)
		for j := 0; j < m.N; j++ {
			z := f.Heights[i][j]
			s.Points[i][j] = Point{X: m.X[i][j], Y: m.Y[i][j], Z: z, Color: cmap.RGBA(norm(z), style.Alpha)}
		}
	}

	if m.N > 1 {
		s.Quads = make([]Quad, 0, (m.N-1)*(m.N-1))
		for i := 0; i < m.N-1; i++ {
			for j := 0; j < m.N-1; j++ {
				q := Quad{
					Row: i,
					Col: j,
					Corners: [4]Point{
						s.Points[i][j],
						s.Points[i][j+1],
						s.Points[i+1][j+1],
						s.Points[i+1][j],
					},
				}
				_, _, zc := q.Center()
				q.Color = cmap.RGBA(norm(zc), style.Alpha)
				s.Quads = append(s.Quads, q)
			}
		}
	}

	return s, nil
}

// ClampZ limits z to the style's z bounds.
func (s *Surface) ClampZ(z float64) float64 {
	return math.Max(s.Style.ZLim[0], math.Min(s.Style.ZLim[1], z))
}

// Peak returns the vertex with the largest height.
func (s *Surface) Peak() Point {
	best := s.Points[0][0]
	for _, row := range s.Points {
		for _, p := range row {
			if p.Z > best.Z {
				best = p
			}
		}
	}
	return best
}
