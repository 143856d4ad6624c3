package mock

import (
	secondbrain "github.com/rizkyilhampra/second-brain"
)

var _ secondbrain.PreviewBuilder = (*PreviewBuilder)(nil)

// PreviewBuilder is a mock implementation of secondbrain.PreviewBuilder.
type PreviewBuilder struct {
	BuildFn func(res *secondbrain.Resource) (*secondbrain.Preview, error)
}

func (b *PreviewBuilder) Build(res *secondbrain.Resource) (*secondbrain.Preview, error) {
	return b.BuildFn(res)
}
