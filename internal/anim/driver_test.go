package anim_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesurf/internal/anim"
	"github.com/san-kum/wavesurf/internal/frames"
	"github.com/san-kum/wavesurf/internal/surface"
)

func sequence(k, n int) *frames.Sequence {
	fs := make([]*frames.Frame, k)
	for f := range fs {
		g := make([][]float64, n)
		for i := range g {
			g[i] = make([]float64, n)
			for j := range g[i] {
				g[i][j] = float64(f) / 10
			}
		}
		fs[f] = &frames.Frame{Path: fmt.Sprintf("frame_%03d.csv", f), Heights: g}
	}
	seq, err := frames.FromFrames("mem", fs)
	Expect(err).NotTo(HaveOccurred())
	return seq
}

type recordingSink struct {
	total    int
	indices  []int
	surfaces []*surface.Surface
	ended    bool
	failAt   int
}

func (r *recordingSink) Begin(total int) error {
	r.total = total
	return nil
}

func (r *recordingSink) Draw(i int, s *surface.Surface) error {
	if r.failAt >= 0 && i == r.failAt {
		return errors.New("boom")
	}
	r.indices = append(r.indices, i)
	r.surfaces = append(r.surfaces, s)
	return nil
}

func (r *recordingSink) End() error {
	r.ended = true
	return nil
}

var _ = Describe("Driver", func() {
	var visited []int

	newDriver := func(seq *frames.Sequence, loop bool) *anim.Driver {
		visited = nil
		return anim.New(seq, surface.DefaultStyle(), anim.Options{
			FPS:     30,
			Loop:    loop,
			OnVisit: func(i int) { visited = append(visited, i) },
		})
	}

	Describe("Run", func() {
		for _, k := range []int{1, 2, 3, 17} {
			k := k
			It(fmt.Sprintf("visits all %d frames in order exactly once", k), func() {
				d := newDriver(sequence(k, 3), true)
				sink := &recordingSink{failAt: -1}

				Expect(d.Run(context.Background(), sink)).To(Succeed())

				want := make([]int, k)
				for i := range want {
					want[i] = i
				}
				Expect(sink.indices).To(Equal(want))
				Expect(visited).To(Equal(want))
				Expect(sink.total).To(Equal(k))
				Expect(sink.ended).To(BeTrue())
				Expect(d.State()).To(Equal(anim.Done))
			})
		}

		It("hands the sink a fresh surface per frame", func() {
			d := newDriver(sequence(3, 2), false)
			sink := &recordingSink{failAt: -1}
			Expect(d.Run(context.Background(), sink)).To(Succeed())

			Expect(sink.surfaces).To(HaveLen(3))
			Expect(sink.surfaces[0]).NotTo(BeIdenticalTo(sink.surfaces[1]))
			Expect(sink.surfaces[1].Points[0][0].Z).To(BeNumerically("~", 0.1))
			Expect(d.Surface()).To(BeIdenticalTo(sink.surfaces[2]))
		})

		It("aborts on the first sink error", func() {
			d := newDriver(sequence(5, 2), false)
			sink := &recordingSink{failAt: 2}

			err := d.Run(context.Background(), sink)
			Expect(err).To(MatchError(ContainSubstring("frame_002.csv")))
			Expect(sink.indices).To(Equal([]int{0, 1}))
			Expect(sink.ended).To(BeFalse())
		})

		It("stops when the context is canceled", func() {
			d := newDriver(sequence(3, 2), false)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(d.Run(ctx, &recordingSink{failAt: -1})).To(MatchError(context.Canceled))
		})
	})

	Describe("Step", func() {
		It("starts idle with no surface", func() {
			d := newDriver(sequence(2, 2), true)
			Expect(d.State()).To(Equal(anim.Idle))
			Expect(d.Surface()).To(BeNil())
			Expect(d.Frame()).To(BeNil())
			Expect(d.Index()).To(Equal(-1))
		})

		It("wraps around in loop mode", func() {
			d := newDriver(sequence(3, 2), true)
			for i := 0; i < 7; i++ {
				Expect(d.Step()).To(Succeed())
			}
			Expect(visited).To(Equal([]int{0, 1, 2, 0, 1, 2, 0}))
			Expect(d.State()).To(Equal(anim.Rendering))
		})

		It("holds the last frame when not looping", func() {
			d := newDriver(sequence(3, 2), false)
			Expect(d.Step()).To(Succeed())
			Expect(d.Step()).To(Succeed())
			Expect(d.Step()).To(Succeed())
			Expect(d.Step()).To(MatchError(anim.ErrDone))
			Expect(d.Step()).To(MatchError(anim.ErrDone))

			Expect(d.State()).To(Equal(anim.Done))
			Expect(d.Index()).To(Equal(2))
			Expect(d.Surface()).NotTo(BeNil())
			Expect(visited).To(Equal([]int{0, 1, 2}))
		})

		It("plays a single frame sequence", func() {
			d := newDriver(sequence(1, 1), true)
			Expect(d.Step()).To(Succeed())
			Expect(d.Step()).To(Succeed())
			Expect(visited).To(Equal([]int{0, 0}))
		})

		It("restarts from idle", func() {
			d := newDriver(sequence(3, 2), false)
			Expect(d.Step()).To(Succeed())
			Expect(d.Step()).To(Succeed())
			d.Restart()
			Expect(d.State()).To(Equal(anim.Idle))
			Expect(d.Step()).To(Succeed())
			Expect(d.Index()).To(Equal(0))
		})
	})

	It("derives the frame interval from fps", func() {
		d := anim.New(sequence(1, 1), surface.DefaultStyle(), anim.Options{FPS: 25})
		Expect(d.Interval()).To(Equal(40 * time.Millisecond))

		d = anim.New(sequence(1, 1), surface.DefaultStyle(), anim.Options{})
		Expect(d.Interval()).To(Equal(time.Second / 30))
	})
})
