package mock

import (
	secondbrain "github.com/rizkyilhampra/second-brain"
)

var _ secondbrain.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of secondbrain.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*secondbrain.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*secondbrain.ExtractResult, error) {
	return e.ExtractFn(html)
}
