// Command dtl is the command-line renderer named in SPEC_FULL.md §4.7.4: a
// thin kong-based CLI offering `render`, `lint`, and `watch` subcommands
// over the engine package, with structured diagnostics on log/slog and
// lipgloss-styled terminal output. Grounded on the kong CLI-struct/Run
// dispatch pattern in ardnew-aenv's cli package (cli/cli.go, cli/cmd/*.go),
// trimmed to this module's much smaller command surface.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// CLI is the top-level command set.
type CLI struct {
	LogFormat string `default:"text" enum:"text,json" help:"Diagnostic log format (text or json)"`

	Render RenderCmd `cmd:"" help:"Render a template against a JSON/YAML context file"`
	Lint   LintCmd   `cmd:"" help:"Parse a template and report syntax errors"`
	Watch  WatchCmd  `cmd:"" help:"Render a template, re-rendering on source change"`
}

func main() {
	var cli CLI
	ktx := kong.Parse(&cli,
		kong.Name("dtl"),
		kong.Description("Render, lint, and watch text templates."),
		kong.UsageOnError(),
	)

	logger := newLogger(cli.LogFormat)

	err := ktx.Run(logger)
	ktx.FatalIfErrorf(err)
}

func newLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
