package viz

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"
	"strconv"

	"github.com/san-kum/wavesurf/internal/surface"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	ColBackground = color.NRGBA{255, 255, 255, 255}
	ColAxis       = color.NRGBA{110, 110, 110, 255}
	ColAxisFaint  = color.NRGBA{200, 200, 200, 255}
	ColText       = color.NRGBA{30, 30, 30, 255}
)

// Rasterizer draws surfaces into RGBA images for encoding.
type Rasterizer struct {
	Width, Height int
	Camera        *Camera
	face          font.Face
}

func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{Width: width, Height: height, Camera: NewCamera(), face: basicfont.Face7x13}
}

type projectedQuad struct {
	pts   [4][2]float64
	depth float64
	col   color.NRGBA
}

// Render draws one surface with its axes box, tick labels, axis labels and
// an optional caption in the top-left corner.
func (r *Rasterizer) Render(s *surface.Surface, caption string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{ColBackground}, image.Point{}, draw.Src)

	back, front := r.splitCube()
	for _, e := range back {
		r.line(img, e.Start, e.End, ColAxisFaint)
	}

	if s != nil {
		if s.N == 1 {
			r.dot(img, PointVec(s, s.Points[0][0]), 3, s.Points[0][0].Color)
		}
		for _, q := range r.projectQuads(s) {
			r.fillTriangle(img, q.pts[0], q.pts[1], q.pts[2], q.col)
			r.fillTriangle(img, q.pts[0], q.pts[2], q.pts[3], q.col)
		}
	}

	for _, e := range front {
		r.line(img, e.Start, e.End, ColAxis)
	}

	if s != nil {
		r.labels(img, s.Style)
	}
	if caption != "" {
		r.text(img, 8, 16, caption)
	}
	return img
}

// splitCube separates cube edges behind the surface from those in front of
// it by comparing edge depth with the cube center.
func (r *Rasterizer) splitCube() (back, front []Edge) {
	for _, e := range CubeEdges() {
		_, _, d1, _ := r.Camera.ProjectF(e.Start, r.Width, r.Height)
		_, _, d2, _ := r.Camera.ProjectF(e.End, r.Width, r.Height)
		if (d1+d2)/2 > 0 {
			front = append(front, e)
		} else {
			back = append(back, e)
		}
	}
	return back, front
}

func (r *Rasterizer) projectQuads(s *surface.Surface) []projectedQuad {
	out := make([]projectedQuad, 0, len(s.Quads))
	for _, q := range s.Quads {
		var pq projectedQuad
		visible := true
		for k, p := range q.Corners {
			x, y, d, ok := r.Camera.ProjectF(PointVec(s, p), r.Width, r.Height)
			if !ok {
				visible = false
				break
			}
			pq.pts[k] = [2]float64{x, y}
			pq.depth += d / 4
		}
		if !visible {
			continue
		}
		pq.col = q.Color
		out = append(out, pq)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].depth < out[j].depth })
	return out
}

// fillTriangle scan-fills a triangle with alpha blending. Pixel centers on
// shared edges are claimed by both triangles of a quad, so each cell is
// drawn with a top-left fill rule.
func (r *Rasterizer) fillTriangle(img *image.RGBA, a, b, c [2]float64, col color.NRGBA) {
	minX := int(math.Floor(math.Min(a[0], math.Min(b[0], c[0]))))
	maxX := int(math.Ceil(math.Max(a[0], math.Max(b[0], c[0]))))
	minY := int(math.Floor(math.Min(a[1], math.Min(b[1], c[1]))))
	maxY := int(math.Ceil(math.Max(a[1], math.Max(b[1], c[1]))))
	bounds := img.Bounds()
	minX, minY = max(minX, bounds.Min.X), max(minY, bounds.Min.Y)
	maxX, maxY = min(maxX, bounds.Max.X-1), min(maxY, bounds.Max.Y-1)

	area := edgeFn(a, b, c)
	if area == 0 {
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := [2]float64{float64(x) + 0.5, float64(y) + 0.5}
			w0 := edgeFn(b, c, p) / area
			w1 := edgeFn(c, a, p) / area
			w2 := edgeFn(a, b, p) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			if (w0 == 0 && !topLeft(b, c, area)) || (w1 == 0 && !topLeft(c, a, area)) || (w2 == 0 && !topLeft(a, b, area)) {
				continue
			}
			blend(img, x, y, col)
		}
	}
}

func edgeFn(a, b, p [2]float64) float64 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

func topLeft(a, b [2]float64, area float64) bool {
	dx, dy := b[0]-a[0], b[1]-a[1]
	if area < 0 {
		dx, dy = -dx, -dy
	}
	return (dy == 0 && dx < 0) || dy > 0
}

// blend composites col over the pixel at (x, y).
func blend(img *image.RGBA, x, y int, col color.NRGBA) {
	i := img.PixOffset(x, y)
	a := float64(col.A) / 255
	px := img.Pix[i : i+4 : i+4]
	px[0] = uint8(math.Round(float64(col.R)*a + float64(px[0])*(1-a)))
	px[1] = uint8(math.Round(float64(col.G)*a + float64(px[1])*(1-a)))
	px[2] = uint8(math.Round(float64(col.B)*a + float64(px[2])*(1-a)))
	px[3] = 255
}

func (r *Rasterizer) line(img *image.RGBA, s, e Vec3, col color.NRGBA) {
	x0, y0, _, ok0 := r.Camera.Project(s, r.Width, r.Height)
	x1, y1, _, ok1 := r.Camera.Project(e, r.Width, r.Height)
	if !ok0 && !ok1 {
		return
	}
	bresenham(x0, y0, x1, y1, func(x, y int) {
		if image.Pt(x, y).In(img.Bounds()) {
			img.SetRGBA(x, y, color.RGBA{col.R, col.G, col.B, col.A})
		}
	})
}

func (r *Rasterizer) dot(img *image.RGBA, p Vec3, radius int, col color.NRGBA) {
	cx, cy, _, ok := r.Camera.Project(p, r.Width, r.Height)
	if !ok {
		return
	}
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if image.Pt(x, y).In(img.Bounds()) {
				blend(img, x, y, col)
			}
		}
	}
}

// labels places tick values at the ends of the three axes that run along
// the cube's bottom-front edges, and axis names at their midpoints.
func (r *Rasterizer) labels(img *image.RGBA, st surface.Style) {
	type axis struct {
		from, to Vec3
		lim      [2]float64
		name     string
	}
	axes := []axis{
		{Scene(0, 0, 0), Scene(1, 0, 0), st.XLim, st.XLabel},
		{Scene(1, 0, 0), Scene(1, 1, 0), st.YLim, st.YLabel},
		{Scene(0, 0, 0), Scene(0, 0, 1), st.ZLim, st.ZLabel},
	}
	for _, a := range axes {
		for _, t := range []float64{0, 0.5, 1} {
			v := a.lim[0] + t*(a.lim[1]-a.lim[0])
			x, y, _, ok := r.Camera.Project(a.from.Lerp(a.to, t), r.Width, r.Height)
			if ok {
				r.text(img, x+4, y+12, strconv.FormatFloat(v, 'g', 3, 64))
			}
		}
		x, y, _, ok := r.Camera.Project(a.from.Lerp(a.to, 0.5), r.Width, r.Height)
		if ok {
			r.text(img, x-r.textWidth(a.name)-8, y+26, a.name)
		}
	}
}

func (r *Rasterizer) textWidth(s string) int {
	return font.MeasureString(r.face, s).Ceil()
}

func (r *Rasterizer) text(img *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ColText),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// bresenham walks the integer line from (x0, y0) to (x1, y1).
func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}
