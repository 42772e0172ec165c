package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"lectio/internal/ffmpeg"
)

// probeTimeout bounds a single ffprobe run. Probing reads container
// metadata only; ten seconds covers even slow network mounts.
const probeTimeout = 10 * time.Second

// Prober measures audio duration using ffprobe.
type Prober struct {
	ffprobePath string

	// Injectable dependencies (defaults to OS implementations).
	cmd   commandRunner
	files fileStatter
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithProberCommandRunner sets the command runner for Prober.
func WithProberCommandRunner(r commandRunner) ProberOption {
	return func(p *Prober) {
		p.cmd = r
	}
}

// WithProberFileStatter sets the file statter for Prober.
func WithProberFileStatter(s fileStatter) ProberOption {
	return func(p *Prober) {
		p.files = s
	}
}

// NewProber creates a Prober running the given ffprobe binary.
func NewProber(ffprobePath string, opts ...ProberOption) (*Prober, error) {
	if ffprobePath == "" {
		return nil, fmt.Errorf("ffprobePath cannot be empty: %w", ffmpeg.ErrNotFound)
	}

	p := &Prober{
		ffprobePath: ffprobePath,
		cmd:         osCommandRunner{},
		files:       osFileStatter{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Duration returns the length of the audio file at path.
//
// ffprobe prints the container duration as a bare decimal on stdout.
// Empty or non-numeric output is a probe failure, never a zero duration.
func (p *Prober) Duration(ctx context.Context, path string) (time.Duration, error) {
	if _, err := p.files.Stat(path); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	out, err := p.cmd.Output(ctx, p.ffprobePath, args)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return 0, fmt.Errorf("%w: ffprobe timed out after %s", ErrProbeFailed, probeTimeout)
		case ctx.Err() != nil:
			return 0, ctx.Err()
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return 0, fmt.Errorf("%w: %v: %s", ErrProbeFailed, err, bytes.TrimSpace(exitErr.Stderr))
		}
		return 0, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	return parseProbeDuration(string(out))
}

// parseProbeDuration converts ffprobe stdout into a duration.
func parseProbeDuration(out string) (time.Duration, error) {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: ffprobe returned no duration", ErrProbeFailed)
	}

	seconds, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unexpected ffprobe output %q", ErrProbeFailed, trimmed)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
