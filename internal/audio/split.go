package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"lectio/internal/ffmpeg"
	"lectio/internal/format"
)

// segmentTimeout bounds a single window's encode. Re-encoding one
// half-hour window is a minutes-scale job; a window still running after
// ten minutes means a wedged encoder, not a slow one.
const segmentTimeout = 600 * time.Second

// encoderSettings pairs an FFmpeg audio codec with its VBR quality level.
type encoderSettings struct {
	codec   string
	quality string
}

// outputFormats maps each supported output container to encoder settings.
var outputFormats = map[string]encoderSettings{
	"mp3": {codec: "libmp3lame", quality: "2"},
	"m4a": {codec: "aac", quality: "2"},
	"ogg": {codec: "libvorbis", quality: "4"},
}

// SupportedFormats returns the accepted output formats, sorted for
// deterministic error messages.
func SupportedFormats() []string {
	formats := make([]string, 0, len(outputFormats))
	for f := range outputFormats {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

// ProgressFunc receives human-readable status lines during long-running
// operations. Set to nil to suppress.
type ProgressFunc func(msg string)

// defaultProgressFunc writes progress to stderr.
func defaultProgressFunc(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// SegmentError reports which window of a split operation failed.
// Index is 1-based, matching the numbering in produced filenames.
type SegmentError struct {
	Index int
	Err   error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d: %v", e.Index, e.Err)
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}

// Splitter extracts planned windows into per-segment files.
type Splitter struct {
	ffmpegPath string
	outFormat  string
	settings   encoderSettings

	progress ProgressFunc

	// Injectable dependencies (defaults to OS implementations).
	cmd commandRunner
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithSplitterCommandRunner sets the command runner for Splitter.
func WithSplitterCommandRunner(r commandRunner) SplitterOption {
	return func(s *Splitter) {
		s.cmd = r
	}
}

// WithSplitterProgress sets a callback for progress messages.
// By default, progress is written to stderr. Set to nil to suppress.
func WithSplitterProgress(fn ProgressFunc) SplitterOption {
	return func(s *Splitter) {
		s.progress = fn
	}
}

// NewSplitter creates a Splitter producing files in the given format.
func NewSplitter(ffmpegPath, outputFormat string, opts ...SplitterOption) (*Splitter, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}

	settings, ok := outputFormats[outputFormat]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedFormat, outputFormat, strings.Join(SupportedFormats(), ", "))
	}

	s := &Splitter{
		ffmpegPath: ffmpegPath,
		outFormat:  outputFormat,
		settings:   settings,
		progress:   defaultProgressFunc,
		cmd:        osCommandRunner{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Split encodes every window of the plan into outputDir and returns the
// produced paths in order. Output files are named after the input stem
// plus a 2-digit 1-based segment number, e.g. lecture_part01.mp3.
//
// Windows are encoded strictly one at a time. The first failing window
// aborts the operation with a SegmentError carrying its 1-based
// position; paths already written are returned alongside the error and
// stay on disk for the caller to inspect or remove. A plan without
// windows is a no-op.
func (s *Splitter) Split(ctx context.Context, audioPath, outputDir string, plan Plan) ([]string, error) {
	if !plan.NeedsSplit() {
		return nil, nil
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	total := len(plan.Windows)

	s.notify(fmt.Sprintf("Creating %d segments...", total))

	paths := make([]string, 0, total)
	for _, w := range plan.Windows {
		n := w.Index + 1
		s.notify(fmt.Sprintf("Creating segment %d/%d: %smin - %smin",
			n, total, format.Minutes(w.Start), format.Minutes(w.End())))

		outPath := filepath.Join(outputDir, fmt.Sprintf("%s_part%02d.%s", stem, n, s.outFormat))
		if err := s.encodeWindow(ctx, audioPath, outPath, w); err != nil {
			return paths, &SegmentError{Index: n, Err: err}
		}
		paths = append(paths, outPath)
	}

	s.notify(fmt.Sprintf("Successfully created %d segments", total))
	return paths, nil
}

// encodeWindow runs one encoder invocation for a single window.
func (s *Splitter) encodeWindow(ctx context.Context, audioPath, outPath string, w Window) error {
	ctx, cancel := context.WithTimeout(ctx, segmentTimeout)
	defer cancel()

	args := []string{
		"-i", audioPath,
		"-ss", formatSeconds(w.Start),
		"-t", formatSeconds(w.Length),
		"-c:a", s.settings.codec,
		"-q:a", s.settings.quality,
		"-y",
		outPath,
	}

	output, err := s.cmd.CombinedOutput(ctx, s.ffmpegPath, args)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return fmt.Errorf("encode timed out after %s", segmentTimeout)
		case ctx.Err() != nil:
			return ctx.Err()
		}
		if len(output) > 0 {
			return fmt.Errorf("%v\nOutput: %s", err, string(output))
		}
		return err
	}

	return nil
}

// notify sends a progress message if a callback is set.
func (s *Splitter) notify(msg string) {
	if s.progress != nil {
		s.progress(msg)
	}
}

// formatSeconds renders a duration as the bare decimal second count
// FFmpeg expects for -ss and -t.
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
