package mock

import (
	secondbrain "github.com/rizkyilhampra/second-brain"
)

var _ secondbrain.Placer = (*Placer)(nil)

// Placer is a mock implementation of secondbrain.Placer.
type Placer struct {
	PlaceFn func(anchor secondbrain.Rect, popover secondbrain.Size, pointer secondbrain.Point) secondbrain.Point
}

func (p *Placer) Place(anchor secondbrain.Rect, popover secondbrain.Size, pointer secondbrain.Point) secondbrain.Point {
	if p.PlaceFn == nil {
		return secondbrain.Point{X: pointer.X, Y: pointer.Y}
	}
	return p.PlaceFn(anchor, popover, pointer)
}
