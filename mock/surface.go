package mock

import (
	secondbrain "github.com/rizkyilhampra/second-brain"
)

var _ secondbrain.Surface = (*Surface)(nil)

// Surface is a mock implementation of secondbrain.Surface. Nil function
// fields behave as no-ops so tests only wire what they assert on.
type Surface struct {
	InsertPopoverFn func(p *secondbrain.Popover, html string) error
	SetActiveFn     func(id string, active bool) error
	SetPositionFn   func(id string, pt secondbrain.Point, zIndex int) error
	ScrollToFn      func(popoverID, elementID string) error
	InternalLinksFn func(popoverID string) ([]secondbrain.Link, error)
	PopoverSizeFn   func(id string) secondbrain.Size
	RemoveFn        func(id string) error
	RemoveAllFn     func() error
}

func (s *Surface) InsertPopover(p *secondbrain.Popover, html string) error {
	if s.InsertPopoverFn == nil {
		return nil
	}
	return s.InsertPopoverFn(p, html)
}

func (s *Surface) SetActive(id string, active bool) error {
	if s.SetActiveFn == nil {
		return nil
	}
	return s.SetActiveFn(id, active)
}

func (s *Surface) SetPosition(id string, pt secondbrain.Point, zIndex int) error {
	if s.SetPositionFn == nil {
		return nil
	}
	return s.SetPositionFn(id, pt, zIndex)
}

func (s *Surface) ScrollTo(popoverID, elementID string) error {
	if s.ScrollToFn == nil {
		return nil
	}
	return s.ScrollToFn(popoverID, elementID)
}

func (s *Surface) InternalLinks(popoverID string) ([]secondbrain.Link, error) {
	if s.InternalLinksFn == nil {
		return nil, nil
	}
	return s.InternalLinksFn(popoverID)
}

func (s *Surface) PopoverSize(id string) secondbrain.Size {
	if s.PopoverSizeFn == nil {
		return secondbrain.Size{W: 480, H: 320}
	}
	return s.PopoverSizeFn(id)
}

func (s *Surface) Remove(id string) error {
	if s.RemoveFn == nil {
		return nil
	}
	return s.RemoveFn(id)
}

func (s *Surface) RemoveAll() error {
	if s.RemoveAllFn == nil {
		return nil
	}
	return s.RemoveAllFn()
}
