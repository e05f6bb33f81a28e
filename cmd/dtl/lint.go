package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/deicod/dtl/engine"
	"github.com/deicod/dtl/parser"
)

var (
	lintOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	lintFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// LintCmd parses a template and reports syntax errors with line/column
// information, without rendering it — the `lint` subcommand of
// SPEC_FULL.md §4.7.4.
type LintCmd struct {
	Template string `arg:"" type:"existingfile" help:"Template file to check"`
}

func (l *LintCmd) Run(logger *slog.Logger) error {
	src, err := os.ReadFile(l.Template)
	if err != nil {
		return err
	}

	eng := engine.New()
	if _, err := eng.NewTemplate(l.Template, string(src)); err != nil {
		var syn *parser.SyntaxError
		if errors.As(err, &syn) {
			fmt.Println(lintFailStyle.Render(fmt.Sprintf(
				"%s:%d:%d: %s", l.Template, syn.Line, syn.Column, syn.Message)))
		} else {
			fmt.Println(lintFailStyle.Render(fmt.Sprintf("%s: %s", l.Template, err)))
		}
		return err
	}

	fmt.Println(lintOKStyle.Render(fmt.Sprintf("%s: ok", l.Template)))
	return nil
}
