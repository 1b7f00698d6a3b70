package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg pipes raw RGBA frames into an ffmpeg child process.
type FFmpeg struct {
	Binary string
	Codec  string
	PixFmt string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	path   string
	width  int
	height int
	frames int
}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{Binary: "ffmpeg", Codec: "libx264", PixFmt: "yuv420p"}
}

func (f *FFmpeg) Name() string { return "ffmpeg" }

// Args returns the ffmpeg command line for an output file.
func (f *FFmpeg) Args(path string, width, height, fps int) []string {
	return []string{
		"-y", "-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.Itoa(fps),
		"-i", "pipe:0",
		"-an",
		// yuv420p needs even dimensions.
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", f.Codec,
		"-pix_fmt", f.PixFmt,
		"-r", strconv.Itoa(fps),
		path,
	}
}

func (f *FFmpeg) Open(ctx context.Context, path string, width, height, fps int) error {
	bin, err := exec.LookPath(f.Binary)
	if err != nil {
		return &EncodingUnavailableError{Backend: f.Name(), Reason: fmt.Sprintf("%s not found in PATH", f.Binary)}
	}

	f.cmd = exec.CommandContext(ctx, bin, f.Args(path, width, height, fps)...)
	f.stderr.Reset()
	f.cmd.Stderr = &f.stderr
	f.stdin, err = f.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("export: ffmpeg stdin: %w", err)
	}
	if err := f.cmd.Start(); err != nil {
		return &EncodingUnavailableError{Backend: f.Name(), Reason: err.Error()}
	}

	f.path, f.width, f.height, f.frames = path, width, height, 0
	return nil
}

func (f *FFmpeg) WriteFrame(img image.Image) error {
	if f.stdin == nil {
		return fmt.Errorf("export: ffmpeg not open")
	}
	rgba, err := toRGBA(img, f.width, f.height)
	if err != nil {
		return err
	}
	if _, err := f.stdin.Write(rgba.Pix); err != nil {
		// A broken pipe means ffmpeg exited; its stderr says why.
		return f.failure(fmt.Errorf("write frame %d: %w", f.frames, err))
	}
	f.frames++
	return nil
}

func (f *FFmpeg) Close() error {
	if f.stdin == nil {
		return fmt.Errorf("export: ffmpeg not open")
	}
	if err := f.stdin.Close(); err != nil {
		f.Abort()
		return fmt.Errorf("export: ffmpeg stdin: %w", err)
	}
	f.stdin = nil
	if err := f.wait(); err != nil {
		return f.failure(err)
	}
	return nil
}

func (f *FFmpeg) Abort() {
	if f.cmd == nil {
		return
	}
	if f.stdin != nil {
		f.stdin.Close()
		f.stdin = nil
	}
	if f.cmd.Process != nil {
		_ = f.cmd.Process.Kill()
	}
	_ = f.cmd.Wait()
	f.cmd = nil
	removePartial(f.path)
}

func (f *FFmpeg) wait() error {
	if f.cmd == nil {
		return nil
	}
	err := f.cmd.Wait()
	f.cmd = nil
	return err
}

// failure removes the partial file and classifies the error. Missing
// codecs are reported as unavailable encoding.
func (f *FFmpeg) failure(err error) error {
	if f.stdin != nil {
		f.stdin.Close()
		f.stdin = nil
	}
	if f.cmd != nil && f.cmd.Process != nil {
		_ = f.cmd.Process.Kill()
		_ = f.cmd.Wait()
		f.cmd = nil
	}
	removePartial(f.path)

	msg := strings.TrimSpace(f.stderr.String())
	if strings.Contains(msg, "Unknown encoder") || strings.Contains(msg, "Encoder not found") {
		return &EncodingUnavailableError{Backend: f.Name(), Reason: msg}
	}
	if msg != "" {
		return fmt.Errorf("export: ffmpeg: %w: %s", err, msg)
	}
	return fmt.Errorf("export: ffmpeg: %w", err)
}
