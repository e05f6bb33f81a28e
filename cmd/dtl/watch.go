package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/deicod/dtl/engine"
	"github.com/deicod/dtl/loader"
)

// WatchCmd renders a template once, then re-renders it every time a file
// under its directory changes, using a loader.WatchingLoader — the `watch`
// subcommand of SPEC_FULL.md §4.7.4, the CLI-facing use of the hot-reload
// loader described in SPEC_FULL.md §4.7.1.
type WatchCmd struct {
	Template    string `arg:"" type:"existingfile" help:"Template file to render"`
	ContextFile string `short:"c" help:"JSON or YAML file providing template variables"`
}

func (w *WatchCmd) Run(logger *slog.Logger) error {
	dir, name := filepath.Split(w.Template)
	if dir == "" {
		dir = "."
	}

	wl, err := loader.NewWatchingLoader(dir)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer wl.Close()

	eng := engine.New()
	eng.AddLoader(wl)

	vars, err := loadVars(w.ContextFile)
	if err != nil {
		return err
	}

	render := func() {
		rendered, err := eng.LoadByName(name)
		if err != nil {
			logger.Error("load failed", slog.String("template", name), slog.Any("err", err))
			return
		}
		tpl, ok := rendered.(*engine.Template)
		if !ok {
			logger.Error("loaded value is not a compiled Template", slog.String("template", name))
			return
		}
		out, err := eng.RenderToString(tpl, vars)
		if err != nil {
			logger.Error("render failed", slog.String("template", name), slog.Any("err", err))
			return
		}
		fmt.Println(out)
	}

	render()

	for {
		select {
		case changed, ok := <-wl.Changed():
			if !ok {
				return nil
			}
			eng.ClearCache()
			logger.Info("template changed, re-rendering", slog.String("file", changed))
			render()
		case err, ok := <-wl.Errors():
			if !ok {
				continue
			}
			logger.Error("watcher error", slog.Any("err", err))
		}
	}
}
