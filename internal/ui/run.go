// Package ui renders the interactive multi-job progress screen.
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/logging"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/model"
)

// Run launches the TUI over the given sources and blocks until every
// job has finished or the user quits.
func Run(ctx context.Context, sources []string, opts model.CLIOptions) error {
	// Zerolog writes would tear the alternate screen; drop them while
	// the program owns the terminal.
	logging.InitWriter(io.Discard)
	defer logging.Init(opts.Verbose)

	final, err := tea.NewProgram(NewModel(ctx, sources, opts), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	m, ok := final.(Model)
	if !ok {
		return nil
	}

	var failed []string
	for _, id := range m.order {
		j := m.jobs[id]
		if j == nil || j.err == nil {
			continue
		}
		if j.source != "" {
			failed = append(failed, fmt.Sprintf("- %s: %s", j.source, j.err))
		} else {
			failed = append(failed, fmt.Sprintf("- %s", j.err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d job(s) failed:\n%s", len(failed), strings.Join(failed, "\n"))
	}
	return nil
}
