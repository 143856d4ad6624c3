// Command previewcheck validates the hover previews of a built
// knowledge-base site: it walks the site's pages, runs each through the
// popover preview pipeline, and reports pages whose previews would be
// empty or broken.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/rizkyilhampra/second-brain/check"
	"github.com/rizkyilhampra/second-brain/goquery"
	sbhttp "github.com/rizkyilhampra/second-brain/http"
	"github.com/rizkyilhampra/second-brain/htmltomarkdown"
	"github.com/rizkyilhampra/second-brain/rod"
	sbslog "github.com/rizkyilhampra/second-brain/slog"
	"github.com/rizkyilhampra/second-brain/sqlite"
	"github.com/rizkyilhampra/second-brain/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Preview cache database path. Set before calling Run().
	DBPath string

	// SQLite database backing the preview cache.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("previewcheck"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'previewcheck --help' to see available commands")
	}

	if first := args[0]; first == "help" || first == "--help" || first == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	render := cli.Check.Render || cli.Preview.Render
	if render {
		fetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		deps.Fetcher = sbslog.NewLoggingFetcher(fetcher, logger)
	} else {
		deps.Fetcher = sbslog.NewLoggingFetcher(sbhttp.NewFetcher(), logger)
	}
	defer deps.Fetcher.Close()

	deps.Builder = goquery.NewBuilder(goquery.WithFallback(trafilatura.NewExtractor()))
	deps.Converter = htmltomarkdown.NewConverter()

	cmd := kongCtx.Command()
	if cmd == "check <url>" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set SECONDBRAIN_DB to use a different database path\n")
			return fmt.Errorf("failed to open preview cache at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		deps.Checker = &check.Checker{
			Sitemaps:    sbhttp.NewSitemapService(nil),
			Fetcher:     deps.Fetcher,
			Builder:     deps.Builder,
			Converter:   deps.Converter,
			Cache:       sqlite.NewCacheService(m.DB),
			Links:       goquery.NewLinkExtractor(),
			Limiter:     check.NewDomainLimiter(cli.Check.RPS),
			Concurrency: cli.Check.Concurrency,
			MaxPages:    cli.Check.MaxPages,
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("SECONDBRAIN_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "previews.db"
	}
	dir := filepath.Join(home, ".secondbrain")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "previews.db")
}
