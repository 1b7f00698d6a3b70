package frames

import "math"

// Stats summarizes one frame's heights.
type Stats struct {
	Min, Max, Mean float64
}

// Range returns Max - Min.
func (s Stats) Range() float64 { return s.Max - s.Min }

// Stats computes min, max and mean over the frame. NaN values are skipped.
func (f *Frame) Stats() Stats {
	st := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	sum, count := 0.0, 0
	for _, row := range f.Heights {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			st.Min = math.Min(st.Min, v)
			st.Max = math.Max(st.Max, v)
			sum += v
			count++
		}
	}
	if count == 0 {
		return Stats{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN()}
	}
	st.Mean = sum / float64(count)
	return st
}

// Stats returns per-frame statistics in sequence order.
func (s *Sequence) Stats() []Stats {
	out := make([]Stats, len(s.Frames))
	for i, f := range s.Frames {
		out[i] = f.Stats()
	}
	return out
}

// Extent returns the min and max height over the whole sequence.
func (s *Sequence) Extent() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, st := range s.Stats() {
		if math.IsNaN(st.Min) {
			continue
		}
		lo = math.Min(lo, st.Min)
		hi = math.Max(hi, st.Max)
	}
	return lo, hi
}
