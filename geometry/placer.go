// Package geometry computes on-screen popover placement. It is a small
// stand-in for a floating-UI positioning engine: offset from the pointer,
// flip to the other side when the preferred side overflows, and shift to
// stay inside the viewport.
package geometry

import (
	secondbrain "github.com/rizkyilhampra/second-brain"
)

// DefaultOffset is the gap between the pointer and the popover edge.
const DefaultOffset = 12

// Ensure Placer implements secondbrain.Placer at compile time.
var _ secondbrain.Placer = (*Placer)(nil)

// Placer places popovers inside a fixed viewport.
type Placer struct {
	viewport secondbrain.Rect
	offset   float64
}

// Option configures a Placer.
type Option func(*Placer)

// WithOffset sets the pointer-to-popover gap. Defaults to DefaultOffset.
func WithOffset(px float64) Option {
	return func(p *Placer) { p.offset = px }
}

// NewPlacer creates a Placer for the given viewport.
func NewPlacer(viewport secondbrain.Rect, opts ...Option) *Placer {
	p := &Placer{viewport: viewport, offset: DefaultOffset}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Place returns the top-left position for a popover of the given size.
// The preferred placement is right of and below the pointer; it flips
// left or above when that would overflow, then shifts to stay on-screen.
func (p *Placer) Place(_ secondbrain.Rect, popover secondbrain.Size, pointer secondbrain.Point) secondbrain.Point {
	x := pointer.X + p.offset
	if x+popover.W > p.viewport.X+p.viewport.W {
		// Flip to the left of the pointer.
		x = pointer.X - p.offset - popover.W
	}

	y := pointer.Y + p.offset
	if y+popover.H > p.viewport.Y+p.viewport.H {
		// Flip above the pointer.
		y = pointer.Y - p.offset - popover.H
	}

	return secondbrain.Point{
		X: clamp(x, p.viewport.X, p.viewport.X+p.viewport.W-popover.W),
		Y: clamp(y, p.viewport.Y, p.viewport.Y+p.viewport.H-popover.H),
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
