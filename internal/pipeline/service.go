// Package pipeline provides planning and orchestration for the hometube workflow.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/cutter"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/downloader"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/keyframes"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/logging"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/model"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/probe"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/progress"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/sponsorblock"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/subtitles"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/timeline"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util/deps"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util/format"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util/media"
)

// Stage sentinels let the CLI boundary map a failure to an exit code
// without string matching.
var (
	ErrDownload = errors.New("download failed")
	ErrCut      = errors.New("cut failed")
)

// SegmentSource resolves the spans to remove for a video. The
// SponsorBlock client satisfies it; tests swap in a stub.
type SegmentSource interface {
	Segments(ctx context.Context, videoID string, categories []string) ([]timeline.Segment, error)
}

// Service orchestrates the fetch → analyze → resync → cut → finalize workflow.
type Service struct {
	dlPath      string
	ffmpegPath  string
	ffprobePath string
	opts        model.CLIOptions
	segments    SegmentSource
	runner      util.CmdRunner
	reporter    progress.Reporter
	logger      zerolog.Logger
	jobID       string
}

// Option configures a Service.
type Option func(*Service)

// WithDownloaderPath sets the yt-dlp or youtube-dl binary path.
func WithDownloaderPath(p string) Option {
	return func(s *Service) { s.dlPath = p }
}

// WithFFmpegPath sets the ffmpeg binary path.
func WithFFmpegPath(p string) Option {
	return func(s *Service) { s.ffmpegPath = p }
}

// WithFFprobePath sets the ffprobe binary path. Empty disables probing
// and with it keyframe snapping.
func WithFFprobePath(p string) Option {
	return func(s *Service) { s.ffprobePath = p }
}

// WithCLIOptions supplies the user-facing options the job runs under.
func WithCLIOptions(o model.CLIOptions) Option {
	return func(s *Service) { s.opts = o }
}

// WithSegmentSource replaces the SponsorBlock lookup.
func WithSegmentSource(src SegmentSource) Option {
	return func(s *Service) { s.segments = src }
}

// WithRunner replaces subprocess execution, letting tests fake the
// external tools.
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) { s.runner = r }
}

// WithReporter attaches a progress observer such as the TUI.
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) { s.reporter = rp }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithJobID tags reporter events with a job identity.
func WithJobID(id string) Option {
	return func(s *Service) { s.jobID = id }
}

// NewService builds a Service, defaulting the runner to os/exec and
// the segment source to the public SponsorBlock server.
func NewService(opts ...Option) *Service {
	s := &Service{logger: logging.NewLogger("pipeline")}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = util.NewDefaultRunner()
	}
	if s.segments == nil {
		s.segments = sponsorblock.NewClient(s.opts.SBAPI, s.logger)
	}
	return s
}

// Plan contains the computed plan for a job (primarily for dry-run/introspection).
type Plan struct {
	Source      string
	Title       string
	Uploader    string
	ID          string
	DurationSec float64

	DownloaderPath string
	FFmpegPath     string
	FFprobePath    string
	TempDir        string
	OutputPath     string

	Window    model.ExportWindow
	Analysis  CutAnalysis
	CutMode   model.CutMode
	CutStart  float64
	CutEnd    float64
	Languages []string

	// DownloadArgs and CutArgs are the exact argv the run would execute;
	// CutArgs is empty for download-only jobs.
	DownloadArgs []string
	CutArgs      []string
}

// Result returns the outcome of RunJob.
type Result struct {
	Source   string
	Planned  bool
	Plan     *Plan
	Output   *model.OutputVideo
	DV       model.DownloadedVideo
	Analysis CutAnalysis
	Tracks   []subtitles.Track
	TempDir  string
}

// RunJob executes the full pipeline for a single URL or local file.
// It never prints; when a Reporter is present, it emits progress and a final Result.
func (s *Service) RunJob(ctx context.Context, source string) (Result, error) {
	var res Result
	res.Source = source

	remote := util.IsURL(source)
	willCut := !s.opts.Window.IsZero() && !s.opts.NoCut

	// Basic validation: the downloader is always required for remote
	// sources (even dry-run needs metadata); ffmpeg only when something
	// will actually be cut.
	if remote && s.dlPath == "" {
		return res, fmt.Errorf("downloader path is required")
	}
	if !remote && !willCut {
		return res, fmt.Errorf("nothing to do for local file %s: no cut window requested", source)
	}
	if !s.opts.DryRun && s.ffmpegPath == "" && (willCut || len(s.opts.Languages) > 0) {
		return res, fmt.Errorf("ffmpeg path is required")
	}

	// Step 1: acquire the media (download, or adopt the local file).
	var (
		dv      model.DownloadedVideo
		workdir string
		base    string
	)
	if remote {
		dlOpts := s.makeDownloaderOptions(s.opts.DryRun, s.jobID)
		var derr error
		dv, workdir, derr = downloader.Download(ctx, source, dlOpts)
		// Ensure cleanup unless KeepTemp is set
		defer func() {
			if !s.opts.KeepTemp && workdir != "" {
				downloader.CleanupWorkdir(workdir)
			}
		}()
		if s.opts.KeepTemp {
			res.TempDir = workdir
		}
		if derr != nil {
			res.DV = dv
			return res, fmt.Errorf("%w: %v", ErrDownload, derr)
		}
		base = dv.ID
		if s.opts.DryRun && dv.InputPath == "" && dv.ID != "" {
			// Metadata-only fetches leave no file behind; fill in where
			// the media would land so the plan shows a concrete argv.
			ext := dv.Ext
			if ext == "" {
				ext = "mkv"
			}
			dv.InputPath = filepath.Join(workdir, dv.ID+"."+ext)
		}
	} else {
		var aerr error
		dv, aerr = adoptLocalFile(source)
		if aerr != nil {
			return res, aerr
		}
		workdir = filepath.Dir(dv.InputPath)
		base = stem(dv.InputPath)
	}
	res.DV = dv

	// Step 2: resolve the media duration. Downloads carry it in the
	// metadata; local files get probed.
	total := dv.DurationSec
	if total <= 0 && util.Exists(dv.InputPath) && s.ffprobePath != "" {
		prober := probe.New(s.ffprobePath, s.runner, s.logger)
		if d, err := prober.Duration(ctx, dv.InputPath); err == nil {
			total = d
			dv.DurationSec = d
			res.DV = dv
		} else {
			s.logger.Warn().Err(err).Msg("duration probe failed")
		}
	}

	if !willCut {
		return s.finishDownloadOnly(res, dv, workdir, base)
	}

	if total <= 0 && s.opts.Window.End <= 0 {
		return res, fmt.Errorf("cannot determine media duration for an open-ended window")
	}
	if total <= 0 {
		// The window end bounds every computation the analysis needs.
		total = float64(s.opts.Window.End)
	}

	// Step 3: segment analysis. SponsorBlock data only exists for remote
	// videos with a recognizable ID; lookup failures degrade to an
	// uncorrected window, never to a failed job.
	s.update(progress.StageAnalyzing, -1, "Analyzing removal segments")
	segs := s.fetchSegments(ctx, source, remote)
	analysis := AnalyzeCut(total, s.opts.Window, segs, s.opts.MarginSec)
	res.Analysis = analysis
	if analysis.SponsorRemoved > 0 {
		s.logger.Info().
			Int("removed_sec", analysis.SponsorRemoved).
			Int("adjusted_end", analysis.AdjustedEnd).
			Msg("window end adjusted for removed sponsor time")
	}

	// Step 4: snap the window to keyframes (or keep exact seconds).
	win, werr := s.alignWindow(ctx, dv, analysis)
	if werr != nil {
		return res, fmt.Errorf("%w: %v", ErrCut, werr)
	}

	// Step 5: cut subtitles to the window, one track per language.
	var tracks []subtitles.Track
	if len(s.opts.Languages) > 0 && !s.opts.DryRun {
		s.update(progress.StageSubtitles, -1, fmt.Sprintf("Cutting subtitles (%s)", strings.Join(s.opts.Languages, ", ")))
		tracks = subtitles.ResyncAll(ctx, workdir, base, s.opts.Languages, win.Start, win.Duration(), subtitles.Options{
			FFmpegPath: s.ffmpegPath,
			Runner:     s.runner,
			Logger:     s.logger,
			Verbose:    s.opts.Verbose,
			KeepTemp:   s.opts.KeepTemp,
			Rebase:     true,
		})
		res.Tracks = tracks
		if len(tracks) < len(s.opts.Languages) {
			s.logEmbeddedSubtitles(ctx, dv.InputPath)
		}
	}

	// Step 6: build the cut spec.
	cutExt := media.CutContainer(filepath.Ext(dv.InputPath))
	workPath := filepath.Join(workdir, media.CutWorkName(stem(dv.InputPath), cutExt))
	spec, serr := cutter.NewSpec(dv.InputPath, win.Start, win.Duration(), tracks, workPath)
	if serr != nil {
		return res, fmt.Errorf("%w: %v", ErrCut, serr)
	}

	finalPath := filepath.Join(s.opts.OutDir, media.OutputBasename(dv, s.opts.OutputName)+cutExt)

	// Dry-run path
	if s.opts.DryRun {
		pl := s.buildPlan(source, dv, workdir, finalPath, analysis, win, spec.Args())
		res.Planned = true
		res.Plan = pl
		s.emitPlanned(finalPath)
		return res, nil
	}

	// Step 7: execute the cut.
	out, cerr := cutter.Cut(ctx, spec, cutter.Options{
		FFmpegPath: s.ffmpegPath,
		Verbose:    s.opts.Verbose,
		Runner:     s.runner,
		Reporter:   s.reporter,
		JobID:      s.jobID,
		Logger:     s.logger,
	})
	if cerr != nil {
		return res, fmt.Errorf("%w: %v", ErrCut, cerr)
	}

	// Step 8: finalize. The cut lands under its work name first so a
	// crash never leaves a half-written file at the final path.
	if err := util.EnsureDir(s.opts.OutDir); err != nil {
		return res, fmt.Errorf("output dir: %w", err)
	}
	if err := util.MoveFile(out.OutputPath, finalPath); err != nil {
		return res, fmt.Errorf("finalize output: %w", err)
	}
	out.OutputPath = finalPath
	s.exportTracks(tracks, stem(finalPath))

	s.emitSaved(out)
	res.Output = &out
	return res, nil
}

// Plan computes the full cut plan for a source without mutating anything
// beyond metadata fetches and probes.
func (s *Service) Plan(ctx context.Context, source string) (*Plan, error) {
	c := *s
	c.opts.DryRun = true
	res, err := c.RunJob(ctx, source)
	if err != nil {
		return nil, err
	}
	return res.Plan, nil
}

// adoptLocalFile wraps an existing media file in the same value the
// downloader produces, so the rest of the pipeline has one shape.
func adoptLocalFile(path string) (model.DownloadedVideo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return model.DownloadedVideo{}, fmt.Errorf("input file: %w", err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return model.DownloadedVideo{}, fmt.Errorf("input file: %w", err)
	}
	if st.IsDir() {
		return model.DownloadedVideo{}, fmt.Errorf("input file %s is a directory", path)
	}
	return model.DownloadedVideo{
		InputPath: abs,
		Title:     stem(abs),
		Ext:       strings.TrimPrefix(filepath.Ext(abs), "."),
	}, nil
}

// stem returns the filename without directory or extension.
func stem(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}

// fetchSegments asks the segment source for the active preset's removal
// categories. Only remote videos with a recognizable ID have segments.
func (s *Service) fetchSegments(ctx context.Context, source string, remote bool) []timeline.Segment {
	if !remote {
		return nil
	}
	preset, _ := sponsorblock.ParsePreset(s.opts.Preset)
	remove, _ := preset.Config()
	if len(remove) == 0 {
		return nil
	}
	id := util.VideoID(source)
	if !sponsorblock.ValidVideoID(id) {
		s.logger.Debug().Str("source", source).Msg("no video id recognized, skipping segment lookup")
		return nil
	}
	segs, err := s.segments.Segments(ctx, id, remove)
	if err != nil {
		s.logger.Warn().Err(err).Msg("segment lookup failed, window end will not be adjusted")
		s.log(fmt.Sprintf("warning: segment lookup failed: %v", err))
		return nil
	}
	return segs
}

// alignWindow snaps the adjusted window to keyframes when the cut mode
// asks for it. An unavailable probe or a window that inversion collapses
// falls back to the exact requested seconds.
func (s *Service) alignWindow(ctx context.Context, dv model.DownloadedVideo, a CutAnalysis) (keyframes.Window, error) {
	var kfs []float64
	if s.opts.CutMode != model.CutModePrecise && s.ffprobePath != "" && util.Exists(dv.InputPath) {
		prober := probe.New(s.ffprobePath, s.runner, s.logger)
		list, err := prober.Keyframes(ctx, dv.InputPath)
		switch {
		case errors.Is(err, probe.ErrUnavailable):
			s.logger.Warn().Msg("keyframe probe unavailable, cutting at requested seconds")
		case err != nil:
			s.logger.Warn().Err(err).Msg("keyframe probe failed, cutting at requested seconds")
		default:
			kfs = list
		}
	}

	win, err := keyframes.Align(kfs, s.opts.Window.Start, a.AdjustedEnd)
	if errors.Is(err, keyframes.ErrEmptyWindow) && len(kfs) > 0 {
		// Snapping collapsed a short window; the exact seconds still
		// describe a valid cut.
		s.logger.Debug().Msg("keyframe snap collapsed the window, using exact seconds")
		win, err = keyframes.Align(nil, s.opts.Window.Start, a.AdjustedEnd)
	}
	if err != nil {
		return keyframes.Window{}, err
	}
	if len(kfs) > 0 {
		s.logger.Debug().
			Float64("start", win.Start).
			Float64("end", win.End).
			Msg("window snapped to keyframes")
	}
	return win, nil
}

// logEmbeddedSubtitles notes the subtitle streams muxed inside the
// container. The stream copy keeps embedded tracks, so a language with
// no sidecar may still ride along in the output.
func (s *Service) logEmbeddedSubtitles(ctx context.Context, path string) {
	if s.ffprobePath == "" || !util.Exists(path) {
		return
	}
	info, err := probe.New(s.ffprobePath, s.runner, s.logger).SubtitleStreams(ctx, path)
	if err != nil || info.Count == 0 {
		return
	}
	var missing []string
	for _, lang := range s.opts.Languages {
		found := false
		for _, tag := range info.Languages {
			if tag == lang || tag == subtitles.ISO639_2(lang) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, lang)
		}
	}
	s.logger.Info().
		Strs("embedded", info.Languages).
		Strs("not_embedded", missing).
		Msg("container carries embedded subtitle streams")
}

// finishDownloadOnly moves a no-cut download (and its subtitle sidecars)
// to the output directory.
func (s *Service) finishDownloadOnly(res Result, dv model.DownloadedVideo, workdir, base string) (Result, error) {
	finalBase := media.OutputBasename(dv, s.opts.OutputName)
	ext := filepath.Ext(dv.InputPath)
	finalPath := filepath.Join(s.opts.OutDir, finalBase+ext)

	if s.opts.DryRun {
		pl := s.buildPlan(res.Source, dv, workdir, finalPath, CutAnalysis{}, keyframes.Window{}, nil)
		res.Planned = true
		res.Plan = pl
		s.emitPlanned(finalPath)
		return res, nil
	}

	if err := util.EnsureDir(s.opts.OutDir); err != nil {
		return res, fmt.Errorf("output dir: %w", err)
	}
	if err := util.MoveFile(dv.InputPath, finalPath); err != nil {
		return res, fmt.Errorf("finalize output: %w", err)
	}

	tracks := 0
	for _, lang := range s.opts.Languages {
		in, err := subtitles.Find(workdir, base, lang, len(s.opts.Languages))
		if err != nil {
			s.logger.Warn().Str("lang", lang).Msg("no subtitle file found")
			continue
		}
		dst := filepath.Join(s.opts.OutDir, finalBase+"."+lang+filepath.Ext(in))
		if err := util.MoveFile(in, dst); err != nil {
			s.logger.Warn().Err(err).Str("lang", lang).Msg("failed to keep subtitle file")
			continue
		}
		tracks++
	}

	st, err := os.Stat(finalPath)
	if err != nil {
		return res, fmt.Errorf("finalize output: %w", err)
	}
	out := model.OutputVideo{
		OutputPath:  finalPath,
		Bytes:       st.Size(),
		DurationSec: dv.DurationSec,
		Tracks:      tracks,
		Cut:         false,
	}
	s.emitSaved(out)
	res.Output = &out
	return res, nil
}

// exportTracks copies the resynced subtitle files next to the final
// output so they survive workdir cleanup.
func (s *Service) exportTracks(tracks []subtitles.Track, finalBase string) {
	for _, tr := range tracks {
		dst := filepath.Join(s.opts.OutDir, finalBase+"."+tr.Lang+".srt")
		if err := util.MoveFile(tr.Path, dst); err != nil {
			s.logger.Warn().Err(err).Str("lang", tr.Lang).Msg("failed to keep subtitle file")
		}
	}
}

// makeDownloaderOptions constructs downloader.Options with injected dependencies.
func (s *Service) makeDownloaderOptions(metaOnly bool, jobID string) downloader.Options {
	preset, _ := sponsorblock.ParsePreset(s.opts.Preset)
	return downloader.Options{
		DownloaderPath: s.dlPath,
		Verbose:        s.opts.Verbose,
		KeepTemp:       s.opts.KeepTemp,
		MetadataOnly:   metaOnly,
		SponsorBlock:   preset.Params(),
		SubtitleLangs:  s.opts.Languages,
		Reporter:       s.reporter,
		JobID:          jobID,
		Runner:         s.runner,
	}
}

// buildPlan assembles the introspection value for dry runs.
func (s *Service) buildPlan(source string, dv model.DownloadedVideo, workdir, outputPath string, a CutAnalysis, win keyframes.Window, cutArgs []string) *Plan {
	pl := &Plan{
		Source:         source,
		Title:          dv.Title,
		Uploader:       dv.Uploader,
		ID:             dv.ID,
		DurationSec:    dv.DurationSec,
		DownloaderPath: s.dlPath,
		FFmpegPath:     s.ffmpegPath,
		FFprobePath:    s.ffprobePath,
		OutputPath:     outputPath,
		Window:         s.opts.Window,
		Analysis:       a,
		CutMode:        s.opts.CutMode,
		CutStart:       win.Start,
		CutEnd:         win.End,
		Languages:      s.opts.Languages,
		CutArgs:        cutArgs,
	}
	if s.opts.KeepTemp {
		pl.TempDir = workdir
	}
	if util.IsURL(source) {
		pl.DownloadArgs = downloader.DownloadArgs(workdir, source, s.makeDownloaderOptions(false, s.jobID))
	}
	return pl
}

// ResolveTools locates the external binaries unless explicit paths were
// configured. The downloader is only needed for remote jobs; ffprobe is
// optional (precise cuts and known durations work without it).
func ResolveTools(opts model.CLIOptions, needDownloader bool) (dl, ffmpeg, ffprobe string, err error) {
	if needDownloader {
		dl, err = deps.FindDownloader(opts.DLBinary)
		if err != nil {
			return "", "", "", err
		}
	}
	ffmpeg, err = deps.FindFFmpeg(opts.FFmpegBinary)
	if err != nil {
		return "", "", "", err
	}
	// A missing ffprobe only disables keyframe snapping.
	if ffprobe, err = deps.FindFFprobe(opts.FFprobeBinary); err != nil {
		ffprobe = ""
	}
	return dl, ffmpeg, ffprobe, nil
}

func (s *Service) update(stage progress.Stage, percent float64, msg string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   stage,
		Percent: percent,
		Message: msg,
	})
}

func (s *Service) log(line string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Log(progress.Log{
		JobID:  s.jobID,
		Stream: progress.StreamStderr,
		Line:   line,
	})
}

// emitDone pairs the terminal update with the Result a watching UI
// keys its completion handling on.
func (s *Service) emitDone(outPath, message string, bytes int64) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageCompleted,
		Percent: 100,
		Message: message,
	})
	s.reporter.Result(progress.Result{
		JobID:      s.jobID,
		OutputPath: outPath,
		Bytes:      bytes,
	})
}

func (s *Service) emitPlanned(outPath string) {
	s.emitDone(outPath, fmt.Sprintf("Planned: %s (dry-run)", filepath.Base(outPath)), 0)
}

func (s *Service) emitSaved(out model.OutputVideo) {
	size := format.HumanizeBytes(out.Bytes)
	s.emitDone(out.OutputPath, fmt.Sprintf("Saved: %s (%s)", filepath.Base(out.OutputPath), size), out.Bytes)
}
