// Package anim drives playback of a frame sequence.
//
// A [Driver] owns the shared mesh and the single live surface. It can run a
// sequence to completion against a [Sink] (export), or be stepped from a
// toolkit's event loop (interactive):
//
//	d := anim.New(seq, style, anim.Options{FPS: 30, Loop: true})
//	for !rl.WindowShouldClose() {
//		if due {
//			d.Step()
//		}
//		draw(d.Surface())
//	}
//
// # States
//
//	Idle -> Rendering(0) -> ... -> Rendering(k-1) -> Done
//
// In loop mode Rendering(k-1) wraps back to Rendering(0) and Done is only
// reached by Stop.
package anim
