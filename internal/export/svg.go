package export

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/san-kum/wavesurf/internal/surface"
	"github.com/san-kum/wavesurf/internal/viz"
)

// SurfaceToSVG draws one surface as filled polygons over the same camera
// view the raster export uses.
func SurfaceToSVG(s *surface.Surface, cam *viz.Camera, width, height int) string {
	if s == nil {
		return ""
	}

	var sb strings.Builder

	// SVG header
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height))

	sb.WriteString(`<g stroke="#6e6e6e" stroke-width="1">` + "\n")
	for _, e := range viz.CubeEdges() {
		x1, y1, _, _ := cam.ProjectF(e.Start, width, height)
		x2, y2, _, _ := cam.ProjectF(e.End, width, height)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x1, y1, x2, y2))
	}
	sb.WriteString("</g>\n")

	type poly struct {
		pts   string
		depth float64
		col   color.NRGBA
	}
	polys := make([]poly, 0, len(s.Quads))
	for _, q := range s.Quads {
		var pts []string
		depth := 0.0
		for _, p := range q.Corners {
			x, y, d, _ := cam.ProjectF(viz.PointVec(s, p), width, height)
			pts = append(pts, fmt.Sprintf("%.1f,%.1f", x, y))
			depth += d / 4
		}
		polys = append(polys, poly{strings.Join(pts, " "), depth, q.Color})
	}
	sort.SliceStable(polys, func(i, j int) bool { return polys[i].depth < polys[j].depth })

	sb.WriteString(fmt.Sprintf(`<g fill-opacity="%.2f">`+"\n", s.Style.Alpha))
	for _, p := range polys {
		sb.WriteString(fmt.Sprintf(`<polygon points="%s" fill="#%02x%02x%02x"/>`+"\n", p.pts, p.col.R, p.col.G, p.col.B))
	}
	if s.N == 1 {
		pt := s.Points[0][0]
		x, y, _, _ := cam.ProjectF(viz.PointVec(s, pt), width, height)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#%02x%02x%02x"/>`+"\n", x, y, pt.Color.R, pt.Color.G, pt.Color.B))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g font-family="monospace" font-size="12" fill="#1e1e1e">` + "\n")
	labels := []struct {
		at   viz.Vec3
		text string
	}{
		{viz.Scene(0.5, 0, 0), s.Style.XLabel},
		{viz.Scene(1, 0.5, 0), s.Style.YLabel},
		{viz.Scene(0, 0, 0.5), s.Style.ZLabel},
	}
	for _, l := range labels {
		x, y, _, _ := cam.ProjectF(l.at, width, height)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="end">%s</text>`+"\n", x-8, y+18, l.text))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
