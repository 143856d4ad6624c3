package main

import (
	"fmt"

	secondbrain "github.com/rizkyilhampra/second-brain"
)

// Run executes the preview command.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	res, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", secondbrain.ErrorMessage(err))
		return err
	}

	pv, err := deps.Builder.Build(res)
	if err != nil {
		if secondbrain.ErrorCode(err) == secondbrain.ENOTFOUND {
			return fmt.Errorf("no preview-eligible content at %s", c.URL)
		}
		return err
	}

	switch pv.Kind {
	case secondbrain.KindImage:
		fmt.Fprintf(deps.Stdout, "![](%s)\n", c.URL)
		return nil
	case secondbrain.KindPDF:
		fmt.Fprintf(deps.Stdout, "[PDF](%s)\n", c.URL)
		return nil
	}

	md, err := deps.Converter.Convert(pv.HTML)
	if err != nil {
		return fmt.Errorf("converting preview: %w", err)
	}

	if pv.Title != "" {
		fmt.Fprintf(deps.Stdout, "# %s\n\n", pv.Title)
	}
	fmt.Fprintln(deps.Stdout, md)
	return nil
}
