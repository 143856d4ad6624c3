package hover

import (
	secondbrain "github.com/rizkyilhampra/second-brain"
)

// Stack is the ordered registry of currently visible popovers, one slot per
// nesting depth. It is the source of truth for what is visible and at what
// depth; the rendering surface is a projection of it. Clearing a depth
// removes that depth and everything deeper, never shallower.
//
// Stack is not safe for concurrent use; the controller guards it.
type Stack struct {
	s []*secondbrain.Popover
}

// NewStack returns an empty Stack.
func NewStack() *Stack {
	return &Stack{}
}

// Len returns the number of currently occupied depths.
func (st *Stack) Len() int {
	return len(st.s)
}

// At returns the popover at the given depth.
func (st *Stack) At(depth int) (*secondbrain.Popover, bool) {
	if depth < 0 || depth >= len(st.s) {
		return nil, false
	}
	return st.s[depth], true
}

// Set places p at the requested depth, first clearing that depth and
// everything deeper. When the stack is shorter than the requested depth the
// popover lands at the next free slot instead; the effective depth is
// returned so the caller can keep the record and its z-order consistent.
func (st *Stack) Set(depth int, p *secondbrain.Popover) (cleared []*secondbrain.Popover, effective int) {
	cleared = st.ClearFrom(depth)
	effective = len(st.s)
	p.Depth = effective
	p.ZIndex = secondbrain.ZIndexFor(effective)
	p.Active = true
	st.s = append(st.s, p)
	return cleared, effective
}

// ClearFrom marks every popover at depth and deeper inactive and truncates
// the stack to depth. Shallower popovers are never touched. The cleared
// records are returned for the caller to project onto the surface; their
// content stays cached for reuse.
func (st *Stack) ClearFrom(depth int) []*secondbrain.Popover {
	if depth < 0 {
		depth = 0
	}
	if depth >= len(st.s) {
		return nil
	}
	cleared := make([]*secondbrain.Popover, 0, len(st.s)-depth)
	for _, p := range st.s[depth:] {
		p.Active = false
		cleared = append(cleared, p)
	}
	st.s = st.s[:depth]
	return cleared
}

// ClearAll empties the stack, marking every popover inactive.
func (st *Stack) ClearAll() []*secondbrain.Popover {
	return st.ClearFrom(0)
}
