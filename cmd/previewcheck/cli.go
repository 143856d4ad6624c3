package main

import (
	"context"
	"io"

	secondbrain "github.com/rizkyilhampra/second-brain"
	"github.com/rizkyilhampra/second-brain/check"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Fetcher   secondbrain.Fetcher
	Builder   secondbrain.PreviewBuilder
	Converter secondbrain.Converter
	Checker   *check.Checker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Check   CheckCmd   `cmd:"" help:"Crawl a site and validate its hover previews"`
	Preview PreviewCmd `cmd:"" help:"Print one page's hover preview as Markdown"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	URL         string   `arg:"" help:"Site URL to check"`
	Concurrency int      `short:"c" default:"10" help:"Concurrent fetch limit"`
	RPS         float64  `default:"2" help:"Max requests per second per domain"`
	Render      bool     `help:"Render pages in a headless browser (JS-rendered sites)"`
	Filter      []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
	MaxPages    int      `default:"1000" help:"Page limit for the recursive walk fallback"`
	Out         string   `short:"o" help:"Write a JSON report to this path"`
}

// PreviewCmd is the "preview" subcommand.
type PreviewCmd struct {
	URL    string `arg:"" help:"Page URL to preview"`
	Render bool   `help:"Render the page in a headless browser"`
}
