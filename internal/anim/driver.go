package anim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/wavesurf/internal/frames"
	"github.com/san-kum/wavesurf/internal/surface"
)

// ErrDone is returned by Step once playback has finished.
var ErrDone = errors.New("anim: playback finished")

// State is the driver's lifecycle phase.
type State int

const (
	Idle State = iota
	Rendering
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Sink receives each frame's surface in order.
type Sink interface {
	Begin(total int) error
	Draw(index int, s *surface.Surface) error
	End() error
}

// Options controls playback.
type Options struct {
	FPS  int
	Loop bool
	// OnVisit, when set, observes every frame index as it becomes current.
	OnVisit func(index int)
}

// Driver is the playback state machine.
type Driver struct {
	seq   *frames.Sequence
	mesh  *surface.Mesh
	style surface.Style
	opts  Options

	state State
	index int
	surf  *surface.Surface
}

// New builds the mesh once and returns an idle driver.
func New(seq *frames.Sequence, style surface.Style, opts Options) *Driver {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	return &Driver{
		seq:   seq,
		mesh:  surface.NewMesh(seq.N()),
		style: style,
		opts:  opts,
		state: Idle,
		index: -1,
	}
}

func (d *Driver) State() State              { return d.state }
func (d *Driver) Index() int                { return d.index }
func (d *Driver) Total() int                { return d.seq.Len() }
func (d *Driver) Mesh() *surface.Mesh       { return d.mesh }
func (d *Driver) Style() surface.Style      { return d.style }
func (d *Driver) Loop() bool                { return d.opts.Loop }
func (d *Driver) Surface() *surface.Surface { return d.surf }

// Interval is the time between frames.
func (d *Driver) Interval() time.Duration {
	return time.Second / time.Duration(d.opts.FPS)
}

// Frame returns the frame currently on display, or nil when idle.
func (d *Driver) Frame() *frames.Frame {
	if d.index < 0 {
		return nil
	}
	return d.seq.Frame(d.index)
}

// show replaces the live surface with frame i.
func (d *Driver) show(i int) error {
	d.surf = nil
	s, err := surface.Build(d.mesh, d.seq.Frame(i), d.style)
	if err != nil {
		return fmt.Errorf("anim: frame %d: %w", i, err)
	}
	d.surf = s
	d.index = i
	d.state = Rendering
	if d.opts.OnVisit != nil {
		d.opts.OnVisit(i)
	}
	return nil
}

// Step advances one frame. From Idle it shows frame 0. After the last frame
// it wraps in loop mode; otherwise it holds the last frame, moves to Done
// and returns ErrDone.
func (d *Driver) Step() error {
	switch d.state {
	case Done:
		return ErrDone
	case Idle:
		return d.show(0)
	}
	next := d.index + 1
	if next >= d.seq.Len() {
		if !d.opts.Loop {
			d.state = Done
			return ErrDone
		}
		next = 0
	}
	return d.show(next)
}

// Restart returns to Idle, dropping the live surface.
func (d *Driver) Restart() {
	d.state = Idle
	d.index = -1
	d.surf = nil
}

// Stop ends playback.
func (d *Driver) Stop() {
	d.state = Done
}

// Run plays the sequence once through the sink, ignoring Loop. Any error
// aborts the remaining frames.
func (d *Driver) Run(ctx context.Context, sink Sink) error {
	d.Restart()
	if err := sink.Begin(d.seq.Len()); err != nil {
		return err
	}
	for i := 0; i < d.seq.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.show(i); err != nil {
			return err
		}
		if err := sink.Draw(i, d.surf); err != nil {
			return fmt.Errorf("anim: frame %d (%s): %w", i, d.seq.Frame(i).Path, err)
		}
	}
	d.state = Done
	return sink.End()
}
