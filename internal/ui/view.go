package ui

import (
	"fmt"
	"strings"
)

func (m Model) viewHeader() string {
	done := 0
	for _, id := range m.order {
		if m.jobs[id].done {
			done++
		}
	}
	title := m.pal.title.Render("hometube — videos, minus the sponsors")
	sub := m.pal.sub.Render(fmt.Sprintf("Jobs: %d/%d done • q: quit", done, len(m.order)))
	return title + "\n" + sub
}

func (m Model) viewJobs() string {
	var b strings.Builder
	for _, id := range m.order {
		b.WriteString(m.viewJob(m.jobs[id]))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewJob(j *job) string {
	name := m.pal.name.Render(truncate(j.source, 48))
	stage := m.pal.stage(j.stage).Render(string(j.stage))

	var meter string
	switch {
	case j.percent >= 0 && j.percent <= 100:
		meter = fmt.Sprintf("%s %5.1f%%", j.bar.ViewAs(j.percent/100.0), j.percent)
	case j.err != nil:
		meter = m.pal.fail.Render("✗ error")
	case j.done:
		meter = m.pal.ok.Render("✓ done")
	default:
		meter = m.pal.spin.Render(j.spin.View()) + " " + m.pal.faint.Render("working")
	}

	lines := []string{name + "  " + stage, meter, m.pal.info.Render(j.status)}
	if j.err != nil {
		for _, l := range lastN(j.tail, 3) {
			lines = append(lines, m.pal.faint.Render("  "+l))
		}
	}
	return m.pal.box.Render(strings.Join(lines, "\n"))
}

func (m Model) viewSummary() string {
	var saved []string
	for _, id := range m.order {
		j := m.jobs[id]
		if j.done && j.err == nil && j.outputPath != "" {
			saved = append(saved, j.outputPath)
		}
	}
	if len(saved) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.pal.sub.Render("✓ Completed Files:"))
	b.WriteString("\n")
	for _, p := range saved {
		b.WriteString(m.pal.ok.Render("  • " + p))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}

func lastN(ss []string, n int) []string {
	if len(ss) <= n {
		return ss
	}
	return ss[len(ss)-n:]
}
