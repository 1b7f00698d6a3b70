package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/wavesurf/internal/anim"
	"github.com/san-kum/wavesurf/internal/surface"
	"github.com/san-kum/wavesurf/internal/viz"
)

// Options configures a video export.
type Options struct {
	Path   string
	FPS    int
	Width  int
	Height int
	// Progress, when set, is called after each encoded frame.
	Progress func(done, total int)
}

// VideoSink rasterizes each surface and feeds it to an encoder.
type VideoSink struct {
	ctx    context.Context
	enc    Encoder
	raster *viz.Rasterizer
	opts   Options
	total  int
	log    *slog.Logger
}

func NewVideoSink(ctx context.Context, enc Encoder, opts Options) *VideoSink {
	return &VideoSink{
		ctx:    ctx,
		enc:    enc,
		raster: viz.NewRasterizer(opts.Width, opts.Height),
		opts:   opts,
		log:    slog.Default().With("encoder", enc.Name(), "output", opts.Path),
	}
}

func (v *VideoSink) Begin(total int) error {
	v.total = total
	v.log.Debug("opening encoder", "frames", total, "fps", v.opts.FPS, "size", fmt.Sprintf("%dx%d", v.opts.Width, v.opts.Height))
	return v.enc.Open(v.ctx, v.opts.Path, v.opts.Width, v.opts.Height, v.opts.FPS)
}

func (v *VideoSink) Draw(index int, s *surface.Surface) error {
	caption := fmt.Sprintf("frame %d/%d", index+1, v.total)
	if err := v.enc.WriteFrame(v.raster.Render(s, caption)); err != nil {
		return err
	}
	v.log.Debug("encoded frame", "index", index, "source", s.Source)
	if v.opts.Progress != nil {
		v.opts.Progress(index+1, v.total)
	}
	return nil
}

func (v *VideoSink) End() error {
	return v.enc.Close()
}

// Video plays the driver once into enc and blocks until the file is
// complete. On any error the partial output is removed.
func Video(ctx context.Context, d *anim.Driver, enc Encoder, opts Options) error {
	sink := NewVideoSink(ctx, enc, opts)
	if err := d.Run(ctx, sink); err != nil {
		enc.Abort()
		return err
	}
	return nil
}
