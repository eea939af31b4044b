// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package capture records audio from the microphone, or any other stream,
// and packages it for the speech-to-text capture operation.
//
// Recording is delegated to an external recorder found on PATH: ffmpeg is
// preferred, arecord is the fallback. Detection and execution go through
// an executor so tests never spawn processes.
package capture

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"
)

const (
	binFFmpeg  = "ffmpeg"
	binARecord = "arecord"

	// DefaultDuration bounds a recording when the caller does not.
	DefaultDuration = 5 * time.Second
)

// Source produces one recording as WAV bytes.
type Source interface {
	// Name identifies the source in logs and messages.
	Name() string
	// Record writes the recording to w and returns when it ends.
	Record(ctx context.Context, w io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (o *osExecutor) RunPiped(ctx context.Context, name string, args []string, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	return cmd.Run()
}

// CommandSource records through an external binary that writes WAV to
// stdout. ffmpeg and arecord differ only in binary name, probe flag, and
// argument layout.
type CommandSource struct {
	bin      string
	probe    string
	args     func(seconds string) []string
	duration time.Duration
	exec     executor
}

func (c *CommandSource) Name() string { return c.bin }

// Duration returns the recording length.
func (c *CommandSource) Duration() time.Duration { return c.duration }

// Available reports whether the recorder is on PATH and runs.
func (c *CommandSource) Available(ctx context.Context) bool {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return false
	}
	return c.exec.RunSilent(ctx, c.bin, c.probe) == nil
}

func (c *CommandSource) Record(ctx context.Context, w io.Writer) error {
	seconds := strconv.Itoa(int(c.duration.Round(time.Second) / time.Second))
	if err := c.exec.RunPiped(ctx, c.bin, c.args(seconds), w); err != nil {
		return fmt.Errorf("recording with %s: %w", c.bin, err)
	}
	return nil
}

func newFFmpegSource(exec executor, d time.Duration) *CommandSource {
	return &CommandSource{
		bin:   binFFmpeg,
		probe: "-version",
		args: func(seconds string) []string {
			return []string{
				"-hide_banner", "-loglevel", "error",
				"-f", "alsa", "-i", "default",
				"-t", seconds,
				"-ac", "1", "-ar", "16000",
				"-f", "wav", "pipe:1",
			}
		},
		duration: d,
		exec:     exec,
	}
}

func newARecordSource(exec executor, d time.Duration) *CommandSource {
	return &CommandSource{
		bin:   binARecord,
		probe: "--version",
		args: func(seconds string) []string {
			return []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-d", seconds, "-t", "wav", "-"}
		},
		duration: d,
		exec:     exec,
	}
}

var defaultExec = &osExecutor{}

// DetectRecorder tries ffmpeg first, falls back to arecord. A zero or
// negative duration uses DefaultDuration; durations round to whole seconds
// with a minimum of one.
func DetectRecorder(ctx context.Context, d time.Duration) (*CommandSource, error) {
	return detectRecorder(ctx, defaultExec, d)
}

func detectRecorder(ctx context.Context, exec executor, d time.Duration) (*CommandSource, error) {
	if d <= 0 {
		d = DefaultDuration
	}
	if d < time.Second {
		d = time.Second
	}

	ffmpeg := newFFmpegSource(exec, d)
	if ffmpeg.Available(ctx) {
		return ffmpeg, nil
	}

	arecord := newARecordSource(exec, d)
	if arecord.Available(ctx) {
		return arecord, nil
	}

	return nil, fmt.Errorf(
		"no audio recorder available: neither %s nor %s found or operational",
		binFFmpeg, binARecord,
	)
}

// ReaderSource replays an existing stream, such as a WAV file or stdin.
type ReaderSource struct {
	Label  string
	Reader io.Reader
}

func (r ReaderSource) Name() string {
	if r.Label == "" {
		return "reader"
	}
	return r.Label
}

func (r ReaderSource) Record(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := io.Copy(w, r.Reader); err != nil {
		return fmt.Errorf("reading %s: %w", r.Name(), err)
	}
	return nil
}
