// Package probe inspects media files with ffprobe: keyframe timestamps
// for cut alignment, container duration, and embedded subtitle streams.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/util"
)

// ErrUnavailable reports that ffprobe could not produce the requested
// data. Keyframe callers degrade to exact boundaries on it instead of
// failing the job.
var ErrUnavailable = errors.New("probe: data unavailable")

const probeTimeout = 120 * time.Second

// Prober runs ffprobe against media files.
type Prober struct {
	path   string
	runner util.CmdRunner
	logger zerolog.Logger
}

// New constructs a Prober. A nil runner uses the default subprocess
// runner.
func New(ffprobePath string, runner util.CmdRunner, logger zerolog.Logger) *Prober {
	if runner == nil {
		runner = util.NewDefaultRunner()
	}
	return &Prober{path: ffprobePath, runner: runner, logger: logger}
}

// Keyframes extracts the keyframe timestamps of the first video stream,
// sorted ascending. Any probe failure is wrapped in ErrUnavailable; an
// empty list on success means the stream genuinely reports none.
func (p *Prober) Keyframes(ctx context.Context, path string) ([]float64, error) {
	if p.path == "" {
		return nil, fmt.Errorf("%w: no ffprobe binary configured", ErrUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	res, err := p.runner.Run(ctx, util.CmdSpec{
		Path: p.path,
		Args: []string{
			"-v", "error",
			"-select_streams", "v:0",
			"-show_packets",
			"-show_entries", "packet=pts_time,flags",
			"-of", "csv=p=0",
			path,
		},
	})
	if err != nil {
		p.logger.Debug().Err(err).Str("path", path).Msg("keyframe probe failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	kfs := ParseKeyframePackets(string(res.Stdout))
	p.logger.Debug().Int("keyframes", len(kfs)).Str("path", path).Msg("probed keyframes")
	return kfs, nil
}

// ParseKeyframePackets extracts keyframe timestamps from ffprobe packet
// CSV lines of the form "pts_time,flags". Packets whose flags contain K
// are keyframes; unparsable lines are skipped.
func ParseKeyframePackets(out string) []float64 {
	var kfs []float64
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, ",") {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 2 || !strings.Contains(parts[1], "K") {
			continue
		}
		ts, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			continue
		}
		kfs = append(kfs, ts)
	}
	sort.Float64s(kfs)
	return kfs
}

// report mirrors the JSON fields read from -show_format/-show_streams.
type report struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []stream `json:"streams"`
}

type stream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Tags      struct {
		Language string `json:"language"`
		Title    string `json:"title"`
	} `json:"tags"`
}

func (p *Prober) inspect(ctx context.Context, path string, extra ...string) (report, error) {
	if p.path == "" {
		return report{}, fmt.Errorf("%w: no ffprobe binary configured", ErrUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	args := []string{"-v", "quiet", "-print_format", "json", "-show_format", "-show_streams"}
	args = append(args, extra...)
	args = append(args, path)

	res, err := p.runner.Run(ctx, util.CmdSpec{Path: p.path, Args: args})
	if err != nil {
		return report{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var rep report
	if err := json.Unmarshal(res.Stdout, &rep); err != nil {
		return report{}, fmt.Errorf("%w: parse ffprobe output: %v", ErrUnavailable, err)
	}
	return rep, nil
}

// Duration returns the container duration in seconds.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	rep, err := p.inspect(ctx, path)
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(rep.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: no duration in ffprobe output", ErrUnavailable)
	}
	return d, nil
}

// SubtitleInfo summarizes the embedded subtitle tracks of a file.
type SubtitleInfo struct {
	Count     int
	Languages []string
}

// SubtitleStreams returns the number and languages of embedded subtitle
// streams. Streams without a language tag report "und".
func (p *Prober) SubtitleStreams(ctx context.Context, path string) (SubtitleInfo, error) {
	rep, err := p.inspect(ctx, path, "-select_streams", "s")
	if err != nil {
		return SubtitleInfo{}, err
	}
	var info SubtitleInfo
	for _, st := range rep.Streams {
		info.Count++
		lang := st.Tags.Language
		if lang == "" {
			lang = "und"
		}
		info.Languages = append(info.Languages, lang)
	}
	return info, nil
}
