package transcribe

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"lectio/internal/lang"
)

// MaxParallel is the upper limit for concurrent API requests. Higher
// values trigger provider rate limiting; TranscribeAll clamps to it.
const MaxParallel = 10

// Options configures a transcription request.
type Options struct {
	// Model selects the provider model. Empty means the provider's
	// default. Unknown names pass through to the API untouched.
	Model string

	// Language is the audio language as an ISO 639-1 code or locale.
	// Empty means provider auto-detect.
	Language string

	// SmartFormat enables Deepgram's smart formatting (numbers, dates,
	// currencies). Ignored by providers without an equivalent.
	SmartFormat bool

	// Paragraphs requests paragraph segmentation in the result.
	Paragraphs bool

	// Punctuate requests punctuation and capitalization.
	Punctuate bool
}

// DefaultOptions returns the request options the tool starts from:
// Italian audio with all formatting features enabled, provider default
// model.
func DefaultOptions() Options {
	return Options{
		Language:    lang.Default,
		SmartFormat: true,
		Paragraphs:  true,
		Punctuate:   true,
	}
}

// Service transcribes a local audio file into a structured Result.
type Service interface {
	// Transcribe uploads the audio file and returns the parsed result.
	// Failures are classified into apierr sentinels where the provider
	// response allows it. There is no automatic retry.
	Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, error)
}

// ProgressFunc receives human-readable status messages. TranscribeAll
// invokes it from worker goroutines, so implementations must be safe
// for concurrent use. A nil ProgressFunc disables notifications.
type ProgressFunc func(msg string)

// TranscribeAll transcribes multiple audio files with bounded
// parallelism. Results are returned in input order. The first failure
// cancels the remaining work and is returned wrapped with the file
// name. parallel is clamped to [1, MaxParallel].
func TranscribeAll(
	ctx context.Context,
	svc Service,
	paths []string,
	opts Options,
	parallel int,
	progress ProgressFunc,
) ([]*Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	if parallel < 1 {
		parallel = 1
	}
	if parallel > MaxParallel {
		parallel = MaxParallel
	}

	results := make([]*Result, len(paths))
	// Semaphore channel for concurrency control. Not closed explicitly:
	// it's local to this function and will be GC'd.
	sem := make(chan struct{}, parallel)

	g, ctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		g.Go(func() error {
			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			base := filepath.Base(path)
			if progress != nil {
				progress(fmt.Sprintf("Transcribing %s...", base))
			}

			res, err := svc.Transcribe(ctx, path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", base, err)
			}
			results[i] = res

			if progress != nil {
				progress(fmt.Sprintf("Completed %s", base))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
