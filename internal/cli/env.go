package cli

import (
	"context"
	"io"
	"os"
	"time"

	"lectio/internal/audio"
	"lectio/internal/config"
	"lectio/internal/enhance"
	"lectio/internal/ffmpeg"
	"lectio/internal/transcribe"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have production defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	ToolResolver       ToolResolver
	ConfigLoader       ConfigLoader
	ProberFactory      ProberFactory
	SplitterFactory    SplitterFactory
	CleanerFactory     CleanerFactory
	TranscriberFactory TranscriberFactory
}

// ToolResolver locates the ffmpeg and ffprobe binaries.
type ToolResolver interface {
	Resolve(ctx context.Context, tool ffmpeg.Tool) (string, error)
	CheckVersion(ctx context.Context, ffmpegPath string)
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// Prober measures the playable duration of audio files.
type Prober interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// ProberFactory creates probers bound to an ffprobe binary.
type ProberFactory interface {
	NewProber(ffprobePath string) (Prober, error)
}

// Splitter encodes the windows of a segmentation plan to disk.
type Splitter interface {
	Split(ctx context.Context, audioPath, outputDir string, plan audio.Plan) ([]string, error)
}

// SplitterFactory creates splitters bound to an ffmpeg binary.
type SplitterFactory interface {
	NewSplitter(ffmpegPath, format string, progress audio.ProgressFunc) (Splitter, error)
}

// Cleaner applies an enhancement filter chain to an audio file.
type Cleaner interface {
	Clean(ctx context.Context, inputPath, outputPath string, chain []string) (string, error)
}

// CleanerFactory creates cleaners bound to an ffmpeg binary.
type CleanerFactory interface {
	NewCleaner(ffmpegPath string, progress enhance.ProgressFunc) (Cleaner, error)
}

// TranscriberFactory creates transcription services for a provider.
type TranscriberFactory interface {
	NewService(provider Provider, apiKey string) (transcribe.Service, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithToolResolver sets the ffmpeg/ffprobe resolver.
func WithToolResolver(r ToolResolver) EnvOption {
	return func(e *Env) {
		e.ToolResolver = r
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithProberFactory sets the prober factory.
func WithProberFactory(f ProberFactory) EnvOption {
	return func(e *Env) {
		e.ProberFactory = f
	}
}

// WithSplitterFactory sets the splitter factory.
func WithSplitterFactory(f SplitterFactory) EnvOption {
	return func(e *Env) {
		e.SplitterFactory = f
	}
}

// WithCleanerFactory sets the cleaner factory.
func WithCleanerFactory(f CleanerFactory) EnvOption {
	return func(e *Env) {
		e.CleanerFactory = f
	}
}

// WithTranscriberFactory sets the transcriber factory.
func WithTranscriberFactory(f TranscriberFactory) EnvOption {
	return func(e *Env) {
		e.TranscriberFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		ToolResolver:       &defaultToolResolver{},
		ConfigLoader:       &defaultConfigLoader{},
		ProberFactory:      &defaultProberFactory{},
		SplitterFactory:    &defaultSplitterFactory{},
		CleanerFactory:     &defaultCleanerFactory{},
		TranscriberFactory: &defaultTranscriberFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultToolResolver implements ToolResolver using the ffmpeg package.
type defaultToolResolver struct{}

func (defaultToolResolver) Resolve(ctx context.Context, tool ffmpeg.Tool) (string, error) {
	return ffmpeg.Resolve(ctx, tool)
}

func (defaultToolResolver) CheckVersion(ctx context.Context, ffmpegPath string) {
	ffmpeg.CheckVersion(ctx, ffmpegPath)
}

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultProberFactory implements ProberFactory using the audio package.
type defaultProberFactory struct{}

func (defaultProberFactory) NewProber(ffprobePath string) (Prober, error) {
	p, err := audio.NewProber(ffprobePath)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// defaultSplitterFactory implements SplitterFactory using the audio package.
type defaultSplitterFactory struct{}

func (defaultSplitterFactory) NewSplitter(ffmpegPath, format string, progress audio.ProgressFunc) (Splitter, error) {
	s, err := audio.NewSplitter(ffmpegPath, format, audio.WithSplitterProgress(progress))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// defaultCleanerFactory implements CleanerFactory using the enhance package.
type defaultCleanerFactory struct{}

func (defaultCleanerFactory) NewCleaner(ffmpegPath string, progress enhance.ProgressFunc) (Cleaner, error) {
	c, err := enhance.NewCleaner(ffmpegPath, enhance.WithCleanerProgress(progress))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// defaultTranscriberFactory implements TranscriberFactory using the
// transcribe package. The provider must already be validated; anything
// that is not OpenAI gets the Deepgram client.
type defaultTranscriberFactory struct{}

func (defaultTranscriberFactory) NewService(provider Provider, apiKey string) (transcribe.Service, error) {
	if provider.IsOpenAI() {
		return transcribe.NewOpenAIClient(apiKey)
	}
	return transcribe.NewDeepgramClient(apiKey)
}

// Compile-time interface verification.
var (
	_ ToolResolver       = (*defaultToolResolver)(nil)
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ ProberFactory      = (*defaultProberFactory)(nil)
	_ SplitterFactory    = (*defaultSplitterFactory)(nil)
	_ CleanerFactory     = (*defaultCleanerFactory)(nil)
	_ TranscriberFactory = (*defaultTranscriberFactory)(nil)
)
