package surface

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Colormap maps a normalized value in [0,1] to a color by blending
// between evenly spaced anchor colors in CIE-Lab space.
type Colormap struct {
	Name  string
	stops []colorful.Color
}

var colormaps = map[string][]string{
	"Blues":   {"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"},
	"viridis": {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"ocean":   {"#008000", "#00004d", "#004d99", "#66a3cc", "#ffffff"},
	"gray":    {"#000000", "#ffffff"},
}

// ColormapNames lists the known colormaps.
func ColormapNames() []string {
	names := make([]string, 0, len(colormaps))
	for k := range colormaps {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupColormap returns the named colormap.
func LookupColormap(name string) (Colormap, error) {
	hexes, ok := colormaps[name]
	if !ok {
		return Colormap{}, fmt.Errorf("surface: unknown colormap %q (available: %v)", name, ColormapNames())
	}
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Colormap{}, err
		}
		stops[i] = c
	}
	return Colormap{Name: name, stops: stops}, nil
}

// At samples the colormap. t is clamped to [0,1]; NaN maps to 0.
func (c Colormap) At(t float64) colorful.Color {
	if len(c.stops) == 0 {
		return colorful.Color{}
	}
	if math.IsNaN(t) || t <= 0 || len(c.stops) == 1 {
		return c.stops[0]
	}
	if t >= 1 {
		return c.stops[len(c.stops)-1]
	}
	pos := t * float64(len(c.stops)-1)
	i := int(pos)
	return c.stops[i].BlendLab(c.stops[i+1], pos-float64(i)).Clamped()
}

// RGBA samples the colormap and applies alpha in [0,1].
func (c Colormap) RGBA(t, alpha float64) color.NRGBA {
	r, g, b := c.At(t).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(alpha) * 255))}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
