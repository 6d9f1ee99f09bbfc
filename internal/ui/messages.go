package ui

import "github.com/EgalitarianMonkey/hometube-sub000/internal/progress"

type toolsResolvedMsg struct {
	downloader string
	ffmpeg     string
	ffprobe    string
	err        error
}

type updateMsg struct{ u progress.Update }

type logMsg struct{ l progress.Log }

type resultMsg struct{ r progress.Result }

// doneMsg ends the program once the last job has reported.
type doneMsg struct{}
