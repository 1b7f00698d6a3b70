package viz

import (
	"math"
	"sort"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Lerp interpolates from v toward o.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t, v.Z + (o.Z-v.Z)*t}
}

// Scene maps a data point inside the unit cube to camera space: the cube is
// centered on the origin, data Z (height) points up the screen and data Y
// recedes into it.
func Scene(x, y, z float64) Vec3 {
	return Vec3{X: x - 0.5, Y: z - 0.5, Z: -(y - 0.5)}
}

// Camera manages 3D projection to a 2D plane.
type Camera struct {
	Distance   float64
	Near       float64
	RotX, RotY float64
	// RotZ rolls the view about the line of sight.
	RotZ float64
	Zoom float64
}

// NewCamera looks down on the unit cube from 30° elevation and -60° azimuth.
func NewCamera() *Camera {
	return &Camera{Distance: 6, Near: 0.1, RotX: 30 * math.Pi / 180, RotY: -60 * math.Pi / 180, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint applies azimuth, then elevation, then roll.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// ProjectF converts camera-space coordinates to screen coordinates on a
// sw×sh surface. Larger depth is closer to the viewer.
func (c *Camera) ProjectF(p Vec3, sw, sh int) (x, y, depth float64, ok bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	dist := c.Distance
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := math.Min(float64(sw), float64(sh))
	pScale := minDim / 2.2
	x = rot.X*scale*pScale + float64(sw)/2
	y = -rot.Y*scale*pScale + float64(sh)/2
	return x, y, rot.Z, true
}

// Project is ProjectF rounded to pixels; visible reports whether the point
// lands on screen.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	x, y, d, ok := c.ProjectF(p, sw, sh)
	if !ok {
		return 0, 0, 0, false
	}
	sx, sy := int(math.Round(x)), int(math.Round(y))
	return sx, sy, d, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe         { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
}

// Render3D draws the wireframe to the braille canvas using a simple
// painter's algorithm.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].Depth < proj[j].Depth })
	for _, e := range proj {
		if e.X1 == e.X2 && e.Y1 == e.Y2 {
			c.Set(e.X1, e.Y1)
		} else {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
}

// CubeEdges returns the twelve edges of the unit data cube in camera space.
func CubeEdges() []Edge {
	v := []Vec3{
		Scene(0, 0, 0), Scene(1, 0, 0), Scene(1, 1, 0), Scene(0, 1, 0),
		Scene(0, 0, 1), Scene(1, 0, 1), Scene(1, 1, 1), Scene(0, 1, 1),
	}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	edges := make([]Edge, len(ei))
	for i, e := range ei {
		edges[i] = Edge{v[e[0]], v[e[1]]}
	}
	return edges
}
