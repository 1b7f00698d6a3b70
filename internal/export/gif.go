package export

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"log/slog"
	"os"
)

// minGIFDelay is the shortest frame delay, in hundredths of a second, that
// common viewers honor. Shorter delays are played at 10cs.
const minGIFDelay = 2

// gifDelay converts fps to a GIF frame delay in hundredths of a second.
// exact is false when the delay does not reproduce fps.
func gifDelay(fps int) (delay int, exact bool) {
	delay = 100 / fps
	if delay < minGIFDelay {
		return minGIFDelay, false
	}
	return delay, 100%fps == 0
}

// GIF encodes frames with the standard library GIF encoder.
type GIF struct {
	Dither bool

	path   string
	delay  int
	width  int
	height int
	anim   *gif.GIF
}

func NewGIF() *GIF {
	return &GIF{Dither: true}
}

func (g *GIF) Name() string { return "gif" }

func (g *GIF) Open(ctx context.Context, path string, width, height, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("export: gif: fps must be positive, got %d", fps)
	}
	delay, exact := gifDelay(fps)
	if !exact {
		slog.Warn("gif cannot represent frame rate exactly", "fps", fps, "delay_cs", delay, "effective_fps", 100.0/float64(delay))
	}
	g.path, g.delay, g.width, g.height = path, delay, width, height
	g.anim = &gif.GIF{LoopCount: 0}
	return nil
}

func (g *GIF) WriteFrame(img image.Image) error {
	if g.anim == nil {
		return fmt.Errorf("export: gif not open")
	}
	b := img.Bounds()
	if b.Dx() != g.width || b.Dy() != g.height {
		return fmt.Errorf("export: frame is %dx%d, stream is %dx%d", b.Dx(), b.Dy(), g.width, g.height)
	}
	frame := image.NewPaletted(image.Rect(0, 0, g.width, g.height), palette.WebSafe)
	if g.Dither {
		draw.FloydSteinberg.Draw(frame, frame.Bounds(), img, b.Min)
	} else {
		draw.Draw(frame, frame.Bounds(), img, b.Min, draw.Src)
	}
	g.anim.Image = append(g.anim.Image, frame)
	g.anim.Delay = append(g.anim.Delay, g.delay)
	return nil
}

func (g *GIF) Close() error {
	if g.anim == nil {
		return fmt.Errorf("export: gif not open")
	}
	defer func() { g.anim = nil }()
	if len(g.anim.Image) == 0 {
		return fmt.Errorf("export: gif: no frames")
	}

	f, err := os.Create(g.path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, g.anim); err != nil {
		f.Close()
		removePartial(g.path)
		return fmt.Errorf("export: gif: %w", err)
	}
	if err := f.Close(); err != nil {
		removePartial(g.path)
		return err
	}
	return nil
}

// Abort drops buffered frames. Nothing is written before Close.
func (g *GIF) Abort() {
	g.anim = nil
}
