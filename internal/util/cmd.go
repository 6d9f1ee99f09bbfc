package util

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// CmdSpec describes a subprocess invocation.
type CmdSpec struct {
	Path string   // absolute path or binary name resolved via PATH
	Args []string // arguments, not including the binary itself
	Env  []string // extra environment, appended to os.Environ()
	Dir  string   // working directory; empty means inherit

	// Verbose mirrors the child's output to our stdout/stderr.
	Verbose bool

	// StdoutLine, if set, receives each stdout line as it is produced.
	StdoutLine func(line string)
	// StderrLine, if set, receives each stderr line as it is produced.
	StderrLine func(line string)

	// CaptureStdout forces stdout capture even when StdoutLine is set.
	CaptureStdout bool
}

// CmdResult carries the outcome of a finished subprocess.
type CmdResult struct {
	Stdout []byte
	Stderr []byte
	Code   int
	Err    error
}

// CmdRunner abstracts subprocess execution so tests can stand in for
// yt-dlp, ffmpeg, and ffprobe.
type CmdRunner interface {
	Run(ctx context.Context, spec CmdSpec) (CmdResult, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	return Run(ctx, spec)
}

// NewDefaultRunner returns the os/exec-backed runner.
func NewDefaultRunner() CmdRunner { return execRunner{} }

// Run executes the spec and waits for completion. Stdout is captured
// when no line callback is installed (or capture is forced); stderr is
// always captured so failures can surface the tool's own message.
func Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	if len(spec.Env) > 0 {
		cmd.Env = append(cmd.Environ(), spec.Env...)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return CmdResult{}, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return CmdResult{}, fmt.Errorf("stderr pipe: %w", err)
	}

	if spec.Verbose {
		fmt.Printf("+ %s\n", shellQuote(spec.Path, spec.Args))
	}

	if err := cmd.Start(); err != nil {
		return CmdResult{}, fmt.Errorf("start %s: %w", spec.Path, err)
	}

	var (
		outBuf, errBuf strings.Builder
		wg             sync.WaitGroup
	)
	captureOut := spec.CaptureStdout || spec.StdoutLine == nil

	wg.Add(2)
	go scanLines(&wg, stdout, func(line string) {
		if spec.StdoutLine != nil {
			spec.StdoutLine(line)
		}
		if spec.Verbose {
			fmt.Println(line)
		}
		if captureOut {
			outBuf.WriteString(line)
			outBuf.WriteByte('\n')
		}
	})
	go scanLines(&wg, stderr, func(line string) {
		if spec.StderrLine != nil {
			spec.StderrLine(line)
		}
		if spec.Verbose {
			fmt.Println(line)
		}
		errBuf.WriteString(line)
		errBuf.WriteByte('\n')
	})
	wg.Wait()

	waitErr := cmd.Wait()
	res := CmdResult{
		Stdout: []byte(outBuf.String()),
		Stderr: []byte(errBuf.String()),
		Err:    waitErr,
	}
	if waitErr != nil {
		var ee *exec.ExitError
		if errors.As(waitErr, &ee) {
			res.Code = ee.ExitCode()
		} else {
			res.Code = -1
		}
		return res, fmt.Errorf("command failed (exit %d): %w", res.Code, waitErr)
	}
	return res, nil
}

// scanLines drains a pipe line by line. Long lines (yt-dlp progress,
// ffprobe packet dumps) need a bigger buffer than bufio's default.
func scanLines(wg *sync.WaitGroup, r io.Reader, onLine func(string)) {
	defer wg.Done()
	sc := bufio.NewScanner(r)
	const maxCapacity = 1024 * 1024
	sc.Buffer(make([]byte, 0, 64*1024), maxCapacity)
	for sc.Scan() {
		onLine(sc.Text())
	}
}

// shellQuote renders a command line for display.
func shellQuote(path string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quote(path))
	for _, a := range args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n\"'\\$&|;<>()*?[]#~%") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}
