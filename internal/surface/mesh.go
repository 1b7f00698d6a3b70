package surface

// Linspace returns n evenly spaced samples over [lo, hi], both endpoints
// included. n == 1 yields [lo].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Mesh is the fixed X/Y sample grid shared by every frame. Column index
// varies X, row index varies Y.
type Mesh struct {
	N    int
	X, Y [][]float64
}

// NewMesh builds an N×N mesh over the unit square.
func NewMesh(n int) *Mesh {
	xs := Linspace(0, 1, n)
	ys := Linspace(0, 1, n)
	m := &Mesh{N: n, X: make([][]float64, n), Y: make([][]float64, n)}
	for i := 0; i < n; i++ {
		m.X[i] = make([]float64, n)
		m.Y[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			m.X[i][j] = xs[j]
			m.Y[i][j] = ys[i]
		}
	}
	return m
}

// nearest returns the row and column whose sample is closest to (x, y).
func (m *Mesh) nearest(x, y float64) (row, col int) {
	if m.N <= 1 {
		return 0, 0
	}
	idx := func(v float64) int {
		k := int(v*float64(m.N-1) + 0.5)
		if k < 0 {
			return 0
		}
		if k > m.N-1 {
			return m.N - 1
		}
		return k
	}
	return idx(y), idx(x)
}
