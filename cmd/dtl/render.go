package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/deicod/dtl/engine"
	"github.com/deicod/dtl/loader"
)

// RenderCmd renders a single template file against an optional JSON/YAML
// context file, the `render` subcommand of SPEC_FULL.md §4.7.4.
type RenderCmd struct {
	Template    string `arg:"" type:"existingfile" help:"Template file to render"`
	ContextFile string `short:"c" help:"JSON or YAML file providing template variables"`
	Output      string `short:"o" help:"Write output here instead of stdout"`
	SmartTrim   bool   `help:"Enable smart whitespace trimming"`
}

func (r *RenderCmd) Run(logger *slog.Logger) error {
	dir, name := filepath.Split(r.Template)
	if dir == "" {
		dir = "."
	}

	eng := engine.New()
	eng.SetSmartTrim(r.SmartTrim)
	eng.AddLoader(loader.NewFileSystemLoader(dir))

	vars, err := loadVars(r.ContextFile)
	if err != nil {
		return err
	}

	rendered, err := eng.LoadByName(name)
	if err != nil {
		return err
	}
	tpl, ok := rendered.(*engine.Template)
	if !ok {
		return fmt.Errorf("dtl: loaded %q is not a compiled Template", name)
	}

	out, err := eng.RenderToString(tpl, vars)
	if err != nil {
		logger.Error("render failed", slog.String("template", name), slog.Any("err", err))
		return err
	}

	if r.Output == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(r.Output, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", r.Output, err)
	}
	logger.Info("rendered template", slog.String("template", name), slog.String("output", r.Output))
	return nil
}
