package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/progress"
)

// palette groups the lipgloss styles the screen draws with.
type palette struct {
	title lipgloss.Style
	sub   lipgloss.Style
	name  lipgloss.Style
	info  lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	faint lipgloss.Style
	box   lipgloss.Style
	spin  lipgloss.Style

	stages map[progress.Stage]lipgloss.Style
}

func newPalette() palette {
	base := lipgloss.NewStyle()
	p := palette{
		title: base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		sub:   base.Faint(true),
		name:  base.Foreground(lipgloss.Color("#A3A3A3")),
		info:  base.Foreground(lipgloss.Color("#D1D5DB")),
		ok:    base.Foreground(lipgloss.Color("#22C55E")),
		fail:  base.Foreground(lipgloss.Color("#EF4444")),
		faint: base.Faint(true),
		box:   base.Padding(0, 1),
		spin:  base.Foreground(lipgloss.Color("#22D3EE")),
	}
	meta := base.Foreground(lipgloss.Color("#60A5FA"))
	analyze := base.Foreground(lipgloss.Color("#F59E0B"))
	p.stages = map[progress.Stage]lipgloss.Style{
		progress.StageDeps:        meta,
		progress.StageMetadata:    meta,
		progress.StageDownloading: base.Foreground(lipgloss.Color("#06B6D4")),
		progress.StageAnalyzing:   analyze,
		progress.StageSubtitles:   analyze,
		progress.StageCutting:     base.Foreground(lipgloss.Color("#D946EF")),
		progress.StageCompleted:   p.ok,
		progress.StageError:       p.fail,
	}
	return p
}

// stage returns the color for a stage tag.
func (p palette) stage(st progress.Stage) lipgloss.Style {
	if s, ok := p.stages[st]; ok {
		return s
	}
	return p.info
}
