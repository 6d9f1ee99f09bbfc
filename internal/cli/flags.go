// Package cli holds the flag and config key names shared by the command
// definitions and the viper bindings, so the two can never drift apart.
package cli

// Persistent flag names, available on every command.
const (
	FlagOutDir        = "out-dir"
	FlagVerbose       = "verbose"
	FlagDLBinary      = "dl-binary"
	FlagFFmpegBinary  = "ffmpeg-binary"
	FlagFFprobeBinary = "ffprobe-binary"
	FlagJobs          = "jobs"
)

// Run flag names.
const (
	FlagStart    = "start"
	FlagEnd      = "end"
	FlagName     = "name"
	FlagLangs    = "langs"
	FlagSBPreset = "sb-preset"
	FlagSBAPI    = "sb-api"
	FlagMargin   = "margin"
	FlagCutMode  = "cut-mode"
	FlagKeepTemp = "keep-temp"
	FlagDryRun   = "dry-run"
	FlagNoCut    = "no-cut"
	FlagNoUI     = "no-ui"
)

// Config keys. Nested keys map to HOMETUBE_ env vars with dots replaced
// by underscores (e.g. HOMETUBE_SPONSORBLOCK_PRESET).
const (
	KeyOutputDir  = "output_dir"
	KeyVerbose    = "verbose"
	KeyDownloader = "downloader_path"
	KeyFFmpeg     = "ffmpeg_path"
	KeyFFprobe    = "ffprobe_path"
	KeyJobs       = "jobs"
	KeyLanguages  = "languages"
	KeySBPreset   = "sponsorblock.preset"
	KeySBAPI      = "sponsorblock.api"
	KeyCutMode    = "cut.mode"
	KeyCutMargin  = "cut.margin"
	KeyKeepTemp   = "keep_temp"
)
