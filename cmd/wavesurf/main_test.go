package main

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/san-kum/wavesurf/internal/frames"
	"github.com/san-kum/wavesurf/internal/storage"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	runErr := fn()
	os.Stdout = orig
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out), runErr
}

func TestShowRunPrintsFrameStats(t *testing.T) {
	dataDir = t.TempDir()
	st := storage.New(dataDir)
	runID, err := st.Save(storage.RunMetadata{
		Pattern: "output/frame_*.csv",
		Output:  "water_cube.mp4",
		Encoder: "ffmpeg",
		FPS:     30,
		Frames:  2,
		Grid:    "4x4",
	}, []string{"output/frame_000.csv", "output/frame_001.csv"},
		[]frames.Stats{{Min: 0, Max: 0, Mean: 0}, {Min: 0, Max: 1, Mean: 0.0625}})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	out, err := captureStdout(t, func() error { return showRun(runID) })
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{runID, "water_cube.mp4", "frame_001.csv", "1.0000", "0.0625"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowRunUnknown(t *testing.T) {
	dataDir = t.TempDir()
	if err := showRun("missing_1"); err == nil || !strings.Contains(err.Error(), "missing_1") {
		t.Errorf("expected error naming the run, got %v", err)
	}
}
