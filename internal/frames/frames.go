package frames

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Frame is one time step's height grid.
type Frame struct {
	Path    string
	Heights [][]float64
}

// Shape returns the grid dimensions.
func (f *Frame) Shape() Shape {
	if len(f.Heights) == 0 {
		return Shape{}
	}
	return Shape{Rows: len(f.Heights), Cols: len(f.Heights[0])}
}

// N returns the side length of a square frame.
func (f *Frame) N() int { return len(f.Heights) }

// Sequence is the ordered, immutable list of frames for one run.
type Sequence struct {
	Pattern string
	Frames  []*Frame
	n       int
}

// Len returns the number of frames.
func (s *Sequence) Len() int { return len(s.Frames) }

// N returns the shared grid side length.
func (s *Sequence) N() int { return s.n }

// Frame returns frame i.
func (s *Sequence) Frame(i int) *Frame { return s.Frames[i] }

// Paths returns the source paths in sequence order.
func (s *Sequence) Paths() []string {
	paths := make([]string, len(s.Frames))
	for i, f := range s.Frames {
		paths[i] = f.Path
	}
	return paths
}

// Discover returns the files matching pattern in lexicographic order.
// Frame numbering in filenames must sort correctly as plain strings.
func Discover(pattern string) ([]string, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("frames: bad pattern %q: %w", pattern, err)
	}

	files := paths[:0]
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		files = append(files, p)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w matching %q", ErrNoFramesFound, pattern)
	}

	sort.Strings(files)
	return files, nil
}

// Load parses one frame file.
func Load(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	heights, err := Parse(path, file)
	if err != nil {
		return nil, err
	}
	return &Frame{Path: path, Heights: heights}, nil
}

// Parse reads a rectangular comma-delimited table of floats. Whitespace-only
// lines and lines starting with '#' are skipped. The name is used only in
// error messages.
func Parse(name string, r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	cr.Comment = '#'

	var rows [][]float64
	width := -1

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &MalformedFrameError{Path: name, Line: pe.Line, Column: pe.Column, Reason: pe.Err.Error()}
			}
			return nil, err
		}

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		line, _ := cr.FieldPos(0)
		if width == -1 {
			width = len(record)
		} else if len(record) != width {
			return nil, &MalformedFrameError{
				Path:   name,
				Line:   line,
				Reason: fmt.Sprintf("row has %d values, expected %d", len(record), width),
			}
		}

		row := make([]float64, len(record))
		for j, tok := range record {
			val, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
			if err != nil {
				l, c := cr.FieldPos(j)
				return nil, &MalformedFrameError{
					Path:   name,
					Line:   l,
					Column: c,
					Reason: fmt.Sprintf("not a number: %q", tok),
				}
			}
			row[j] = val
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &MalformedFrameError{Path: name, Reason: "no rows"}
	}
	return rows, nil
}

// Save writes a frame in the format Load reads. Values use the shortest
// representation that parses back to the same float64.
func Save(path string, heights [][]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	row := make([]string, 0)
	for _, r := range heights {
		row = row[:0]
		for _, v := range r {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}

// LoadSequence discovers and loads every frame matching pattern. The first
// frame's row count fixes N; every frame must be N×N.
func LoadSequence(pattern string) (*Sequence, error) {
	paths, err := Discover(pattern)
	if err != nil {
		return nil, err
	}
	return LoadFiles(pattern, paths)
}

// LoadFiles loads already-ordered paths as a sequence.
func LoadFiles(pattern string, paths []string) (*Sequence, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w matching %q", ErrNoFramesFound, pattern)
	}

	loaded := make([]*Frame, 0, len(paths))
	for _, p := range paths {
		f, err := Load(p)
		if err != nil {
			return nil, err
		}
		// Fail on the first offending file without loading the rest.
		if len(loaded) > 0 {
			if err := checkShape(f, loaded[0].N()); err != nil {
				return nil, err
			}
		}
		loaded = append(loaded, f)
	}

	return FromFrames(pattern, loaded)
}

// FromFrames assembles a sequence from frames already in memory, applying
// the same shape contract as LoadSequence.
func FromFrames(pattern string, fs []*Frame) (*Sequence, error) {
	if len(fs) == 0 {
		return nil, fmt.Errorf("%w matching %q", ErrNoFramesFound, pattern)
	}
	n := fs[0].N()
	for _, f := range fs {
		if err := checkShape(f, n); err != nil {
			return nil, err
		}
	}
	return &Sequence{Pattern: pattern, Frames: fs, n: n}, nil
}

func checkShape(f *Frame, n int) error {
	expected := Shape{Rows: n, Cols: n}
	if actual := f.Shape(); actual != expected {
		return &FrameShapeMismatchError{Path: f.Path, Expected: expected, Actual: actual}
	}
	return nil
}
