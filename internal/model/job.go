// Package model holds the plain data types shared across the pipeline.
package model

// CutMode selects how cut boundaries are chosen.
type CutMode string

const (
	// CutModeKeyframes snaps boundaries to the nearest keyframes so the
	// cut can stream-copy losslessly. Boundaries may shift by a few
	// seconds.
	CutModeKeyframes CutMode = "keyframes"
	// CutModePrecise uses the requested seconds exactly.
	CutModePrecise CutMode = "precise"
)

// ExportWindow is the requested highlight window in original-timeline
// seconds. A zero End means "through the end of the video"; a fully
// zero window means no cutting at all.
type ExportWindow struct {
	Start int
	End   int
}

// IsZero reports whether no window was requested.
func (w ExportWindow) IsZero() bool { return w.Start == 0 && w.End == 0 }

// CLIOptions holds user-configurable runtime options as parsed from
// flags, env, and the config file.
type CLIOptions struct {
	OutDir     string
	OutputName string   // final basename override; empty derives one from the title
	Window     ExportWindow
	Languages  []string // subtitle languages carried through the cut
	Preset     string   // sponsorblock preset name
	SBAPI      string   // sponsorblock API base URL; empty uses the public server
	CutMode    CutMode
	MarginSec  float64 // merge margin applied around removal segments
	KeepTemp   bool
	DryRun     bool
	NoCut      bool // download only, ignore any requested window
	Verbose    bool
	NoUI       bool
	Jobs       int

	DLBinary      string
	FFmpegBinary  string
	FFprobeBinary string
}

// DownloadedVideo describes the media the cut operates on, downloaded
// or local.
type DownloadedVideo struct {
	InputPath   string  // absolute path to media file
	Title       string
	Uploader    string
	ID          string  // source video id when known
	URL         string
	DurationSec float64 // container duration; 0 when not probed yet
	Width       int
	Height      int
	Ext         string // container extension without dot, e.g. "mkv"
}

// OutputVideo captures the finalized result of a job.
type OutputVideo struct {
	OutputPath  string
	Bytes       int64
	DurationSec float64 // post-cut duration when a cut was applied
	Tracks      int     // subtitle tracks muxed into the output
	Cut         bool    // whether a highlight cut was applied
}
