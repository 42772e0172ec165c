package enhance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lectio/internal/ffmpeg"
)

// Enhancement always re-encodes to mp3 at the encoder's top VBR quality.
const (
	enhanceCodec   = "libmp3lame"
	enhanceQuality = "0"
)

// ProgressFunc receives human-readable status lines during enhancement.
// Set to nil to suppress.
type ProgressFunc func(msg string)

// defaultProgressFunc writes progress to stderr.
func defaultProgressFunc(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// Cleaner applies a filter chain to an audio file in one encoder pass.
type Cleaner struct {
	ffmpegPath string

	progress ProgressFunc

	// Injectable dependencies (defaults to OS implementations).
	cmd commandRunner
}

// CleanerOption configures a Cleaner.
type CleanerOption func(*Cleaner)

// WithCleanerCommandRunner sets the command runner for Cleaner.
func WithCleanerCommandRunner(r commandRunner) CleanerOption {
	return func(c *Cleaner) {
		c.cmd = r
	}
}

// WithCleanerProgress sets a callback for progress messages.
// By default, progress is written to stderr. Set to nil to suppress.
func WithCleanerProgress(fn ProgressFunc) CleanerOption {
	return func(c *Cleaner) {
		c.progress = fn
	}
}

// NewCleaner creates a Cleaner running the given ffmpeg binary.
func NewCleaner(ffmpegPath string, opts ...CleanerOption) (*Cleaner, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}

	c := &Cleaner{
		ffmpegPath: ffmpegPath,
		progress:   defaultProgressFunc,
		cmd:        osCommandRunner{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// DefaultOutputPath returns the cleaned-file path beside the input:
// lecture.mp3 becomes lecture_clean.mp3.
func DefaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_clean" + ext
}

// Clean runs the filter chain over inputPath in a single encoder pass
// and returns the written output path. An empty outputPath selects
// DefaultOutputPath; an existing file there is overwritten.
//
// No timeout is applied: enhancing hours of audio legitimately runs for
// a long time. Cancelling the context kills the encoder and the
// operation fails; there is no partial success.
func (c *Cleaner) Clean(ctx context.Context, inputPath, outputPath string, chain []string) (string, error) {
	out := outputPath
	if out == "" {
		out = DefaultOutputPath(inputPath)
	}

	c.notify(fmt.Sprintf("Processing audio file: %s", filepath.Base(inputPath)))
	c.notify("Applying audio filters...")

	args := []string{
		"-y",
		"-i", inputPath,
		"-af", Graph(chain),
		"-codec:a", enhanceCodec,
		"-q:a", enhanceQuality,
		out,
	}

	output, err := c.cmd.CombinedOutput(ctx, c.ffmpegPath, args)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if len(output) > 0 {
			return "", fmt.Errorf("%w: %v\nOutput: %s", ErrEnhanceFailed, err, string(output))
		}
		return "", fmt.Errorf("%w: %v", ErrEnhanceFailed, err)
	}

	c.notify("Audio enhancement completed!")
	return out, nil
}

// notify sends a progress message if a callback is set.
func (c *Cleaner) notify(msg string) {
	if c.progress != nil {
		c.progress(msg)
	}
}
