// Package progress defines the event vocabulary jobs use to talk to
// whatever is watching them, terminal printer or TUI alike.
package progress

import "time"

// Stage identifies a high-level step in the pipeline.
type Stage string

const (
	StageDeps        Stage = "deps"
	StageMetadata    Stage = "metadata"
	StageDownloading Stage = "downloading"
	StageAnalyzing   Stage = "analyzing" // segments, keyframes, window math
	StageSubtitles   Stage = "subtitles"
	StageCutting     Stage = "cutting"
	StageCompleted   Stage = "completed"
	StageError       Stage = "error"
)

// LogStream indicates which stream produced a log line.
type LogStream int

const (
	StreamStdout LogStream = iota
	StreamStderr
)

// Update reports a stage change or movement within a stage. A negative
// Percent means the stage has no measurable progress.
type Update struct {
	JobID   string
	Stage   Stage
	Percent float64

	ETA     *time.Duration // nil when the tool reports none
	Speed   *string        // transfer rate as printed by the tool
	Message string         // one short status line
}

// Log carries a raw child-process output line tagged with its job.
type Log struct {
	JobID  string
	Stream LogStream
	Line   string
}

// Result closes out a job, success or not.
type Result struct {
	JobID      string
	OutputPath string
	Bytes      int64
	Err        error // nil on success
}

// Reporter receives job events. The terminal printer and the TUI both
// implement it.
type Reporter interface {
	Update(u Update)
	Log(l Log)
	Result(r Result)
}
