package surface

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/wavesurf/internal/frames"
)

func grid(n int, fill float64) [][]float64 {
	g := make([][]float64, n)
	for i := range g {
		g[i] = make([]float64, n)
		for j := range g[i] {
			g[i][j] = fill
		}
	}
	return g
}

func TestLinspace(t *testing.T) {
	tests := []struct {
		n    int
		want []float64
	}{
		{1, []float64{0}},
		{2, []float64{0, 1}},
		{5, []float64{0, 0.25, 0.5, 0.75, 1}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Linspace(0, 1, tt.n)); diff != "" {
			t.Errorf("n=%d (-want +got):\n%s", tt.n, diff)
		}
	}
	if Linspace(0, 1, 0) != nil {
		t.Error("expected nil for n=0")
	}
}

func TestMeshEndpoints(t *testing.T) {
	for _, n := range []int{2, 4, 7, 64} {
		m := NewMesh(n)
		if m.X[0][0] != 0 || m.X[0][n-1] != 1 {
			t.Errorf("n=%d: X endpoints %f, %f", n, m.X[0][0], m.X[0][n-1])
		}
		if m.Y[0][0] != 0 || m.Y[n-1][0] != 1 {
			t.Errorf("n=%d: Y endpoints %f, %f", n, m.Y[0][0], m.Y[n-1][0])
		}
		step := 1.0 / float64(n-1)
		for j := 1; j < n; j++ {
			if d := m.X[3%n][j] - m.X[3%n][j-1]; math.Abs(d-step) > 1e-12 {
				t.Errorf("n=%d: uneven spacing %f at %d", n, d, j)
			}
		}
	}
}

func TestMeshDeterministic(t *testing.T) {
	a, b := NewMesh(9), NewMesh(9)
	if !cmp.Equal(a, b) {
		t.Error("mesh should be a pure function of N")
	}
}

func TestMeshSinglePoint(t *testing.T) {
	m := NewMesh(1)
	if m.X[0][0] != 0 || m.Y[0][0] != 0 {
		t.Errorf("expected single point at origin, got (%f,%f)", m.X[0][0], m.Y[0][0])
	}
	r, c := m.nearest(0.7, 0.2)
	if r != 0 || c != 0 {
		t.Errorf("expected (0,0), got (%d,%d)", r, c)
	}
}

func TestBuildScenarioPeak(t *testing.T) {
	m := NewMesh(4)
	g := grid(4, 0)
	g[2][2] = 1.0
	s, err := Build(m, &frames.Frame{Path: "frame_001.csv", Heights: g}, DefaultStyle())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	peak := s.Peak()
	if peak.Z != 1.0 {
		t.Fatalf("expected peak height 1, got %f", peak.Z)
	}
	if math.Abs(peak.X-2.0/3) > 1e-12 || math.Abs(peak.Y-2.0/3) > 1e-12 {
		t.Errorf("expected peak at (2/3, 2/3), got (%f,%f)", peak.X, peak.Y)
	}
	if r, c := m.nearest(0.5, 0.5); r != 2 || c != 2 || s.Points[r][c].Z != 1.0 {
		t.Errorf("raised point should be the mesh sample nearest the center, got (%d,%d)", r, c)
	}
	if len(s.Quads) != 9 {
		t.Errorf("expected 9 quads, got %d", len(s.Quads))
	}
	if s.Min != 0 || s.Max != 1 {
		t.Errorf("expected range [0,1], got [%f,%f]", s.Min, s.Max)
	}
}

func TestBuildColors(t *testing.T) {
	m := NewMesh(3)
	g := grid(3, 0)
	g[0][0] = 1
	s, err := Build(m, &frames.Frame{Heights: g}, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}

	hi, lo := s.Points[0][0].Color, s.Points[2][2].Color
	if hi == lo {
		t.Error("high and low vertices should differ in color")
	}
	// Blues darkens with height.
	if int(hi.R)+int(hi.G)+int(hi.B) >= int(lo.R)+int(lo.G)+int(lo.B) {
		t.Errorf("expected high vertex darker: %v vs %v", hi, lo)
	}
	if hi.A != 204 {
		t.Errorf("expected alpha 204, got %d", hi.A)
	}
}

func TestBuildFlatFrame(t *testing.T) {
	m := NewMesh(2)
	s, err := Build(m, &frames.Frame{Heights: grid(2, 0.5)}, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	cmap, _ := LookupColormap("Blues")
	if want := cmap.RGBA(0.5, 0.8); s.Points[0][0].Color != want {
		t.Errorf("flat frame should use the colormap midpoint, got %v want %v", s.Points[0][0].Color, want)
	}
}

func TestBuildSinglePoint(t *testing.T) {
	s, err := Build(NewMesh(1), &frames.Frame{Heights: [][]float64{{0.3}}}, DefaultStyle())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(s.Quads) != 0 || len(s.Points) != 1 {
		t.Errorf("expected one point and no quads, got %d points %d quads", len(s.Points), len(s.Quads))
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(NewMesh(3), &frames.Frame{Heights: grid(2, 0)}, DefaultStyle()); err == nil {
		t.Error("expected size mismatch error")
	}
	style := DefaultStyle()
	style.Colormap = "nope"
	if _, err := Build(NewMesh(2), &frames.Frame{Heights: grid(2, 0)}, style); err == nil {
		t.Error("expected unknown colormap error")
	}
}

func TestBuildIsStateless(t *testing.T) {
	m := NewMesh(3)
	f := &frames.Frame{Heights: [][]float64{{0, 1, 0}, {1, 2, 1}, {0, 1, 0}}}
	a, _ := Build(m, f, DefaultStyle())
	_, _ = Build(m, &frames.Frame{Heights: grid(3, 9)}, DefaultStyle())
	b, _ := Build(m, f, DefaultStyle())
	if !cmp.Equal(a, b) {
		t.Error("building another frame in between changed the result")
	}
}

func TestColormap(t *testing.T) {
	for _, name := range ColormapNames() {
		c, err := LookupColormap(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		first, _ := colorful.Hex(colormaps[name][0])
		if c.At(-1) != first {
			t.Errorf("%s: values below 0 should clamp to the first stop", name)
		}
		if c.At(math.NaN()) != first {
			t.Errorf("%s: NaN should map to the first stop", name)
		}
		r, g, b := c.At(2).RGB255()
		lr, lg, lb := c.At(1).RGB255()
		if r != lr || g != lg || b != lb {
			t.Errorf("%s: values above 1 should clamp", name)
		}
	}
}
