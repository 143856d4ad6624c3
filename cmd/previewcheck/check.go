package main

import (
	"fmt"
	"regexp"

	secondbrain "github.com/rizkyilhampra/second-brain"
	"github.com/rizkyilhampra/second-brain/check"
	"github.com/rizkyilhampra/second-brain/fs"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	filter, err := buildFilter(c.Filter)
	if err != nil {
		return err
	}

	progress := func(event check.ProgressEvent) {
		mark := "ok"
		if event.Err != nil {
			mark = "FAIL"
		}
		fmt.Fprintf(deps.Stdout, "[%d/%d] %-4s %s\n", event.Completed, event.Total, mark, event.URL)
	}

	report, err := deps.Checker.Check(deps.Ctx, c.URL, filter, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", secondbrain.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "\nChecked %d pages: %d ok (%d new, %d changed, %d unchanged), %d missing previews, %d failed\n",
		report.Checked, report.OK, report.New, report.Changed, report.Unchanged,
		len(report.Missing), len(report.Failed))

	for _, f := range report.Missing {
		fmt.Fprintf(deps.Stdout, "  missing  %s\n", f.URL)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(deps.Stdout, "  failed   %s (%s)\n", f.URL, f.Reason)
	}

	if c.Out != "" {
		if err := fs.NewReportWriter(c.Out).Write(report); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(deps.Stdout, "Report written to %s\n", c.Out)
	}

	if len(report.Missing) > 0 || len(report.Failed) > 0 {
		return fmt.Errorf("%d pages have missing or broken previews", len(report.Missing)+len(report.Failed))
	}
	return nil
}

// buildFilter compiles the repeatable --filter patterns.
func buildFilter(patterns []string) (*secondbrain.URLFilter, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	filter := &secondbrain.URLFilter{}
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
		}
		filter.Include = append(filter.Include, re)
	}
	return filter, nil
}
