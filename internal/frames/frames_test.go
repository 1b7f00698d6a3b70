package frames

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func zeros(n int) [][]float64 {
	g := make([][]float64, n)
	for i := range g {
		g[i] = make([]float64, n)
	}
	return g
}

func TestDiscoverSortsLexicographically(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"frame_002.csv", "frame_000.csv", "frame_010.csv", "frame_001.csv"} {
		writeFile(t, dir, name, "0\n")
	}
	writeFile(t, dir, "notes.txt", "ignored")

	paths, err := Discover(filepath.Join(dir, "frame_*.csv"))
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	want := []string{"frame_000.csv", "frame_001.csv", "frame_002.csv", "frame_010.csv"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverNoMatches(t *testing.T) {
	dir := t.TempDir()
	_, err := Discover(filepath.Join(dir, "frame_*.csv"))
	if !errors.Is(err, ErrNoFramesFound) {
		t.Fatalf("expected ErrNoFramesFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "frame_*.csv") {
		t.Errorf("error should name the pattern: %v", err)
	}
}

func TestLoadSequenceNoMatchesBeforeLoading(t *testing.T) {
	dir := t.TempDir()
	// A malformed file that does not match the pattern must never be opened.
	writeFile(t, dir, "frame_000.txt", "not,a,number\n")

	_, err := LoadSequence(filepath.Join(dir, "frame_*.csv"))
	if !errors.Is(err, ErrNoFramesFound) {
		t.Fatalf("expected ErrNoFramesFound, got %v", err)
	}
}

func TestDiscoverBadPattern(t *testing.T) {
	if _, err := Discover("[unterminated"); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	grid := [][]float64{
		{0.5, 0.25, -1.125},
		{1e-9, 3.141592653589793, 0},
		{0.1, 0.2, 0.30000000000000004},
	}
	p := filepath.Join(dir, "frame_000.csv")
	if err := Save(p, grid); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	f, err := Load(p)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if diff := cmp.Diff(grid, f.Heights); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if f.Path != p {
		t.Errorf("expected path %s, got %s", p, f.Path)
	}
}

func TestParseTolerance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]float64
	}{
		{"plain", "1,2\n3,4\n", [][]float64{{1, 2}, {3, 4}}},
		{"spaces", "1, 2\n 3 ,4\n", [][]float64{{1, 2}, {3, 4}}},
		{"no trailing newline", "1,2\n3,4", [][]float64{{1, 2}, {3, 4}}},
		{"blank lines", "1,2\n\n3,4\n\n", [][]float64{{1, 2}, {3, 4}}},
		{"scientific", "1e-3,2.5E2\n-0,4\n", [][]float64{{0.001, 250}, {0, 4}}},
		{"crlf", "1,2\r\n3,4\r\n", [][]float64{{1, 2}, {3, 4}}},
		{"whitespace line", "1,2\n3,4\n   \n", [][]float64{{1, 2}, {3, 4}}},
		{"tab line", "1,2\n\t\n3,4\n", [][]float64{{1, 2}, {3, 4}}},
		{"single column whitespace", "1\n2\n  \n", [][]float64{{1}, {2}}},
		{"comment", "# t=0\n1,2\n3,4\n", [][]float64{{1, 2}, {3, 4}}},
		{"comment between rows", "1,2\n# mid\n3,4\n", [][]float64{{1, 2}, {3, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name, strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		contains string
	}{
		{"ragged", "1,2,3\n4,5\n", 2, "2 values, expected 3"},
		{"token", "1,2\n3,abc\n", 2, "abc"},
		{"empty", "", 0, "no rows"},
		{"quote", "1,\"2\n", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("f.csv", strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformedFrame) {
				t.Fatalf("expected ErrMalformedFrame, got %v", err)
			}
			var me *MalformedFrameError
			if !errors.As(err, &me) {
				t.Fatalf("expected *MalformedFrameError, got %T", err)
			}
			if tt.wantLine > 0 && me.Line != tt.wantLine {
				t.Errorf("expected line %d, got %d", tt.wantLine, me.Line)
			}
			if !strings.Contains(err.Error(), "f.csv") {
				t.Errorf("error should name the file: %v", err)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected %q in %v", tt.contains, err)
			}
		})
	}
}

func TestLoadSequenceShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	if err := Save(filepath.Join(dir, "frame_000.csv"), zeros(4)); err != nil {
		t.Fatal(err)
	}
	if err := Save(filepath.Join(dir, "frame_001.csv"), zeros(3)); err != nil {
		t.Fatal(err)
	}

	_, err := LoadSequence(filepath.Join(dir, "frame_*.csv"))
	if !errors.Is(err, ErrFrameShapeMismatch) {
		t.Fatalf("expected ErrFrameShapeMismatch, got %v", err)
	}

	var se *FrameShapeMismatchError
	if !errors.As(err, &se) {
		t.Fatalf("expected *FrameShapeMismatchError, got %T", err)
	}
	if filepath.Base(se.Path) != "frame_001.csv" {
		t.Errorf("expected offending file frame_001.csv, got %s", se.Path)
	}
	if se.Expected != (Shape{4, 4}) || se.Actual != (Shape{3, 3}) {
		t.Errorf("unexpected shapes: %v vs %v", se.Expected, se.Actual)
	}
	msg := err.Error()
	for _, part := range []string{"frame_001.csv", "4x4", "3x3"} {
		if !strings.Contains(msg, part) {
			t.Errorf("message %q missing %q", msg, part)
		}
	}
}

func TestLoadSequenceNonSquareFirstFrame(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "frame_000.csv", "1,2,3\n4,5,6\n")

	_, err := LoadSequence(filepath.Join(dir, "frame_*.csv"))
	var se *FrameShapeMismatchError
	if !errors.As(err, &se) {
		t.Fatalf("expected *FrameShapeMismatchError, got %v", err)
	}
	if se.Expected != (Shape{2, 2}) || se.Actual != (Shape{2, 3}) {
		t.Errorf("unexpected shapes: %v vs %v", se.Expected, se.Actual)
	}
}

func TestLoadSequenceScenario(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		g := zeros(4)
		if i == 1 {
			g[2][2] = 1.0
		}
		if err := Save(filepath.Join(dir, fmt.Sprintf("frame_%03d.csv", i)), g); err != nil {
			t.Fatal(err)
		}
	}

	seq, err := LoadSequence(filepath.Join(dir, "frame_*.csv"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if seq.Len() != 3 {
		t.Fatalf("expected 3 frames, got %d", seq.Len())
	}
	if seq.N() != 4 {
		t.Errorf("expected N=4, got %d", seq.N())
	}
	if seq.Frame(1).Heights[2][2] != 1.0 {
		t.Errorf("expected raised point in frame 1")
	}

	stats := seq.Stats()
	if stats[0].Max != 0 || stats[1].Max != 1 || stats[1].Mean != 1.0/16 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	lo, hi := seq.Extent()
	if lo != 0 || hi != 1 {
		t.Errorf("expected extent [0,1], got [%f,%f]", lo, hi)
	}
}

func TestLoadSequenceSingleFrame(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "frame_000.csv", "0.5\n")

	seq, err := LoadSequence(filepath.Join(dir, "frame_*.csv"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if seq.Len() != 1 || seq.N() != 1 {
		t.Errorf("expected one 1x1 frame, got %d frames of N=%d", seq.Len(), seq.N())
	}
}
