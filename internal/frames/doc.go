// Package frames discovers and loads height-field frame files.
//
// A frame is a plain-text, comma-delimited N×N table of heights with no
// header row. Frames are discovered with a glob pattern and ordered by
// lexicographic filename, so numbered files must be zero-padded:
//
//	seq, err := frames.LoadSequence("output/frame_*.csv")
//	if errors.Is(err, frames.ErrNoFramesFound) {
//		// fix the pattern
//	}
//
// The first frame fixes N for the whole sequence.
package frames
