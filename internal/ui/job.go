package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/progress"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util/format"
)

const logTailMax = 1000

// job is the view state of one source working through the pipeline.
type job struct {
	source string
	stage  progress.Stage
	status string
	err    error
	done   bool

	outputPath string
	percent    float64 // negative while unknown

	spin spinner.Model
	bar  bubblesprogress.Model

	tail []string // recent child output, shown when the job fails
}

func newJob(source string, pal palette) job {
	sp := spinner.New()
	sp.Style = pal.spin
	return job{
		source:  source,
		stage:   progress.StageMetadata,
		status:  "Queued",
		percent: -1,
		spin:    sp,
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(40),
		),
	}
}

// pushLog appends a line to the bounded output tail.
func (j *job) pushLog(line string) {
	line = strings.TrimRight(line, "\r\n")
	if len(j.tail) >= logTailMax {
		j.tail = j.tail[1:]
	}
	j.tail = append(j.tail, line)
}

// finish folds a terminal result into the row.
func (j *job) finish(r progress.Result, dryRun bool) {
	j.done = true
	j.err = r.Err
	if r.Err != nil {
		j.stage = progress.StageError
		j.status = r.Err.Error()
		j.percent = -1
		return
	}
	j.stage = progress.StageCompleted
	j.percent = 100
	j.outputPath = r.OutputPath
	switch {
	case r.OutputPath == "":
		j.status = "Completed"
	case dryRun:
		j.status = fmt.Sprintf("Planned: %s (dry-run)", filepath.Base(r.OutputPath))
	default:
		j.status = fmt.Sprintf("Saved: %s (%s)", filepath.Base(r.OutputPath), format.HumanizeBytes(r.Bytes))
	}
}
