//go:build !gocv

package export

import (
	"context"
	"image"
)

// OpenCV is unavailable without the gocv build tag.
type OpenCV struct{}

func NewOpenCV() *OpenCV { return &OpenCV{} }

func (o *OpenCV) Name() string { return "opencv" }

func (o *OpenCV) Open(ctx context.Context, path string, width, height, fps int) error {
	return &EncodingUnavailableError{Backend: o.Name(), Reason: "built without the gocv tag"}
}

func (o *OpenCV) WriteFrame(img image.Image) error {
	return &EncodingUnavailableError{Backend: o.Name(), Reason: "built without the gocv tag"}
}

func (o *OpenCV) Close() error { return nil }
func (o *OpenCV) Abort()       {}
