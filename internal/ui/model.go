package ui

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/logging"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/model"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/pipeline"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/progress"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util"
)

// Model drives the multi-job screen. Jobs start as worker slots free
// up; pipeline events arrive over the events channel and fold into
// per-job view state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	downloaderPath string
	ffmpegPath     string
	ffprobePath    string

	sources []string
	opts    model.CLIOptions

	order   []string
	jobs    map[string]*job
	workers int
	running int
	next    int // index of the next source to start

	pal    palette
	events chan tea.Msg
}

func NewModel(ctx context.Context, sources []string, opts model.CLIOptions) Model {
	c, cancel := context.WithCancel(ctx)
	m := Model{
		ctx:     c,
		cancel:  cancel,
		sources: sources,
		opts:    opts,
		jobs:    make(map[string]*job, len(sources)),
		workers: opts.Jobs,
		pal:     newPalette(),
		events:  make(chan tea.Msg, 256),
	}
	if m.workers <= 0 {
		m.workers = 2
	}
	for i, src := range sources {
		id := "job-" + strconv.Itoa(i)
		j := newJob(src, m.pal)
		m.jobs[id] = &j
		m.order = append(m.order, id)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.order)+2)
	for _, id := range m.order {
		cmds = append(cmds, m.jobs[id].spin.Tick)
	}
	cmds = append(cmds, m.waitEvent(), m.resolveTools())
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s := msg.String(); s == "q" || s == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		w := msg.Width - 30
		if w > 40 {
			w = 40
		}
		if w < 10 {
			w = 10
		}
		for _, id := range m.order {
			m.jobs[id].bar.Width = w
		}

	case toolsResolvedMsg:
		if msg.err != nil {
			m.failAll(msg.err)
			return m, tea.Quit
		}
		m.downloaderPath = msg.downloader
		m.ffmpegPath = msg.ffmpeg
		m.ffprobePath = msg.ffprobe
		var start tea.Cmd
		m, start = m.startWorkers()
		cmds = append(cmds, start)

	case updateMsg:
		if j, ok := m.jobs[msg.u.JobID]; ok {
			j.stage = msg.u.Stage
			j.percent = msg.u.Percent
			j.status = msg.u.Message
		}

	case logMsg:
		if j, ok := m.jobs[msg.l.JobID]; ok {
			j.pushLog(msg.l.Line)
		}

	case resultMsg:
		if j, ok := m.jobs[msg.r.JobID]; ok {
			j.finish(msg.r, m.opts.DryRun)
			m.running--
			var start tea.Cmd
			m, start = m.startWorkers()
			cmds = append(cmds, start)
		}

	case doneMsg:
		return m, tea.Quit
	}

	for _, id := range m.order {
		j := m.jobs[id]
		var cmd tea.Cmd
		j.spin, cmd = j.spin.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, m.waitEvent())
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	out := m.viewHeader() + "\n\n" + m.viewJobs()
	if summary := m.viewSummary(); summary != "" {
		out += "\n" + summary
	}
	return out
}

// waitEvent blocks on the next bridged pipeline event.
func (m Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return doneMsg{}
		case msg := <-m.events:
			return msg
		}
	}
}

func (m Model) resolveTools() tea.Cmd {
	return func() tea.Msg {
		remote := false
		for _, s := range m.sources {
			if util.IsURL(s) {
				remote = true
				break
			}
		}
		dl, ff, fp, err := pipeline.ResolveTools(m.opts, remote)
		return toolsResolvedMsg{downloader: dl, ffmpeg: ff, ffprobe: fp, err: err}
	}
}

// failAll marks every job failed before any worker has started.
func (m Model) failAll(err error) {
	for _, id := range m.order {
		j := m.jobs[id]
		j.stage = progress.StageError
		j.status = fmt.Sprintf("Dependency error: %v", err)
		j.err = err
		j.done = true
	}
}

// startWorkers fills free worker slots. It mutates the counters, so
// callers keep the returned model.
func (m Model) startWorkers() (Model, tea.Cmd) {
	select {
	case <-m.ctx.Done():
		return m, nil
	default:
	}

	var cmds []tea.Cmd
	for m.running < m.workers && m.next < len(m.sources) {
		id, src := m.order[m.next], m.sources[m.next]
		m.next++
		m.running++
		if j := m.jobs[id]; j != nil {
			j.status = "Queued"
			j.stage = progress.StageMetadata
		}
		cmds = append(cmds, m.runJobCmd(id, src))
	}
	if m.next >= len(m.sources) && m.running == 0 {
		return m, func() tea.Msg { return doneMsg{} }
	}
	return m, tea.Batch(cmds...)
}

// runJobCmd runs one job to completion. Progress arrives over m.events;
// the service emits its own completion events, so only a top-level
// failure needs reporting here.
func (m Model) runJobCmd(id, source string) tea.Cmd {
	return func() tea.Msg {
		rep := bridge{ch: m.events}
		svc := pipeline.NewService(
			pipeline.WithDownloaderPath(m.downloaderPath),
			pipeline.WithFFmpegPath(m.ffmpegPath),
			pipeline.WithFFprobePath(m.ffprobePath),
			pipeline.WithCLIOptions(m.opts),
			pipeline.WithReporter(rep),
			pipeline.WithJobID(id),
			pipeline.WithLogger(logging.NewLogger("ui")),
		)
		if _, err := svc.RunJob(m.ctx, source); err != nil {
			rep.Result(progress.Result{JobID: id, Err: err})
		}
		return nil
	}
}

// bridge forwards pipeline events into the bubbletea message loop.
// Terminal events block so they cannot be dropped; the rest are best
// effort.
type bridge struct {
	ch chan tea.Msg
}

func (b bridge) Update(u progress.Update) {
	if u.Stage == progress.StageCompleted || u.Stage == progress.StageError {
		b.ch <- updateMsg{u: u}
		return
	}
	select {
	case b.ch <- updateMsg{u: u}:
	default:
	}
}

func (b bridge) Log(l progress.Log) {
	select {
	case b.ch <- logMsg{l: l}:
	default:
	}
}

func (b bridge) Result(r progress.Result) {
	b.ch <- resultMsg{r: r}
}
