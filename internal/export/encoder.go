// Package export encodes rendered surface animations to files.
//
// Encoding is delegated: MP4 goes through an ffmpeg child process (or
// OpenCV when built with the gocv tag), GIF through image/gif. A failed
// export never leaves a partial file behind.
package export

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
)

// Encoder writes a sequence of equally sized images to a video file.
type Encoder interface {
	Name() string
	Open(ctx context.Context, path string, width, height, fps int) error
	WriteFrame(img image.Image) error
	// Close finishes the file. On error the file is removed.
	Close() error
	// Abort stops encoding and removes the partial file.
	Abort()
}

// Names lists the selectable encoders.
func Names() []string {
	return []string{"auto", "ffmpeg", "gif", "opencv"}
}

// New returns the encoder called name. "auto" picks one from the output
// file extension.
func New(name, path string) (Encoder, error) {
	if name == "" || name == "auto" {
		name = ForPath(path)
	}
	switch name {
	case "ffmpeg":
		return NewFFmpeg(), nil
	case "gif":
		return NewGIF(), nil
	case "opencv":
		return NewOpenCV(), nil
	case "":
		return nil, fmt.Errorf("%w for %q", ErrUnknownEncoder, filepath.Ext(path))
	default:
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownEncoder, name, Names())
	}
}

// ForPath maps an output extension to an encoder name, or "" when none fits.
func ForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gif":
		return "gif"
	case ".mp4", ".m4v", ".mov", ".mkv", ".webm", ".avi":
		return "ffmpeg"
	default:
		return ""
	}
}

// removePartial deletes an output file left by a failed encode.
func removePartial(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

// toRGBA returns img as a tightly packed w×h RGBA buffer.
func toRGBA(img image.Image, w, h int) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Dx() != w || b.Dy() != h {
		return nil, fmt.Errorf("export: frame is %dx%d, stream is %dx%d", b.Dx(), b.Dy(), w, h)
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == 4*w && b.Min == (image.Point{}) {
		return rgba, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst, nil
}
