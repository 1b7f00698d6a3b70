//go:build gocv

package export

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// OpenCV encodes through OpenCV's VideoWriter.
type OpenCV struct {
	Codec string

	writer *gocv.VideoWriter
	path   string
	width  int
	height int
}

func NewOpenCV() *OpenCV {
	return &OpenCV{Codec: "mp4v"}
}

func (o *OpenCV) Name() string { return "opencv" }

func (o *OpenCV) Open(ctx context.Context, path string, width, height, fps int) error {
	w, err := gocv.VideoWriterFile(path, o.Codec, float64(fps), width, height, true)
	if err != nil {
		return &EncodingUnavailableError{Backend: o.Name(), Reason: err.Error()}
	}
	if !w.IsOpened() {
		w.Close()
		removePartial(path)
		return &EncodingUnavailableError{Backend: o.Name(), Reason: fmt.Sprintf("codec %s cannot write %s", o.Codec, path)}
	}
	o.writer, o.path, o.width, o.height = w, path, width, height
	return nil
}

func (o *OpenCV) WriteFrame(img image.Image) error {
	if o.writer == nil {
		return fmt.Errorf("export: opencv not open")
	}
	rgba, err := toRGBA(img, o.width, o.height)
	if err != nil {
		return err
	}
	mat, err := gocv.ImageToMatRGB(rgba)
	if err != nil {
		return fmt.Errorf("export: opencv: %w", err)
	}
	defer mat.Close()
	return o.writer.Write(mat)
}

func (o *OpenCV) Close() error {
	if o.writer == nil {
		return fmt.Errorf("export: opencv not open")
	}
	err := o.writer.Close()
	o.writer = nil
	if err != nil {
		removePartial(o.path)
		return fmt.Errorf("export: opencv: %w", err)
	}
	return nil
}

func (o *OpenCV) Abort() {
	if o.writer != nil {
		o.writer.Close()
		o.writer = nil
	}
	removePartial(o.path)
}
