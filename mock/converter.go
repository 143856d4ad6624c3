package mock

import (
	secondbrain "github.com/rizkyilhampra/second-brain"
)

var _ secondbrain.Converter = (*Converter)(nil)

// Converter is a mock implementation of secondbrain.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
