package viz

import (
	"github.com/san-kum/wavesurf/internal/surface"
)

// PointVec places a surface vertex in camera space, normalizing by the
// style's axis limits. Heights outside the z limits are clipped.
func PointVec(s *surface.Surface, p surface.Point) Vec3 {
	st := s.Style
	return Scene(
		norm(p.X, st.XLim),
		norm(p.Y, st.YLim),
		norm(s.ClampZ(p.Z), st.ZLim),
	)
}

func norm(v float64, lim [2]float64) float64 {
	if lim[1] == lim[0] {
		return 0.5
	}
	return (v - lim[0]) / (lim[1] - lim[0])
}

// SurfaceWireframe traces mesh rows and columns, keeping at most maxLines
// lines per direction so large grids stay legible on coarse canvases.
func SurfaceWireframe(s *surface.Surface, maxLines int) *Wireframe {
	w := NewWireframe()
	if s == nil || s.N == 0 {
		return w
	}
	if s.N == 1 {
		w.AddPoint(PointVec(s, s.Points[0][0]))
		return w
	}
	stride := 1
	if maxLines > 0 && s.N > maxLines {
		stride = (s.N + maxLines - 1) / maxLines
	}
	keep := func(k int) bool { return k%stride == 0 || k == s.N-1 }

	for i := 0; i < s.N; i++ {
		for j := 0; j < s.N; j++ {
			p := PointVec(s, s.Points[i][j])
			if j+1 < s.N && keep(i) {
				w.AddEdge(p, PointVec(s, s.Points[i][j+1]))
			}
			if i+1 < s.N && keep(j) {
				w.AddEdge(p, PointVec(s, s.Points[i+1][j]))
			}
		}
	}
	return w
}

// DrawSurface renders the bounding cube and the surface wireframe onto a
// braille canvas.
func DrawSurface(c *Canvas, s *surface.Surface, cam *Camera) {
	w := &Wireframe{Edges: CubeEdges()}
	w.Edges = append(w.Edges, SurfaceWireframe(s, c.Width/2).Edges...)
	Render3D(c, w, cam)
}
