package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"lectio/internal/audio"
	"lectio/internal/config"
	"lectio/internal/enhance"
	"lectio/internal/ffmpeg"
	"lectio/internal/transcribe"
)

// ---------------------------------------------------------------------------
// Mock ToolResolver
// ---------------------------------------------------------------------------

type mockToolResolver struct {
	ResolveFunc      func(ctx context.Context, tool ffmpeg.Tool) (string, error)
	CheckVersionFunc func(ctx context.Context, ffmpegPath string)

	mu                sync.Mutex
	resolveCalls      []ffmpeg.Tool
	checkVersionCalls int
}

func (m *mockToolResolver) Resolve(ctx context.Context, tool ffmpeg.Tool) (string, error) {
	m.mu.Lock()
	m.resolveCalls = append(m.resolveCalls, tool)
	m.mu.Unlock()

	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, tool)
	}
	return "/usr/bin/" + string(tool), nil
}

func (m *mockToolResolver) CheckVersion(ctx context.Context, ffmpegPath string) {
	m.mu.Lock()
	m.checkVersionCalls++
	m.mu.Unlock()

	if m.CheckVersionFunc != nil {
		m.CheckVersionFunc(ctx, ffmpegPath)
	}
}

func (m *mockToolResolver) ResolveCalls() []ffmpeg.Tool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ffmpeg.Tool(nil), m.resolveCalls...)
}

func (m *mockToolResolver) CheckVersionCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkVersionCalls
}

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock ProberFactory + Prober
// ---------------------------------------------------------------------------

type mockProberFactory struct {
	NewProberFunc func(ffprobePath string) (Prober, error)

	mu             sync.Mutex
	newProberCalls []string
	mockProber     *mockProber
}

func (m *mockProberFactory) NewProber(ffprobePath string) (Prober, error) {
	m.mu.Lock()
	m.newProberCalls = append(m.newProberCalls, ffprobePath)
	m.mu.Unlock()

	if m.NewProberFunc != nil {
		return m.NewProberFunc(ffprobePath)
	}
	if m.mockProber != nil {
		return m.mockProber, nil
	}
	return &mockProber{}, nil
}

func (m *mockProberFactory) NewProberCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.newProberCalls...)
}

type mockProber struct {
	DurationFunc func(ctx context.Context, path string) (time.Duration, error)

	mu            sync.Mutex
	durationCalls []string
}

func (m *mockProber) Duration(ctx context.Context, path string) (time.Duration, error) {
	m.mu.Lock()
	m.durationCalls = append(m.durationCalls, path)
	m.mu.Unlock()

	if m.DurationFunc != nil {
		return m.DurationFunc(ctx, path)
	}
	return time.Hour, nil
}

func (m *mockProber) DurationCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.durationCalls...)
}

// ---------------------------------------------------------------------------
// Mock SplitterFactory + Splitter
// ---------------------------------------------------------------------------

type mockSplitterFactory struct {
	NewSplitterFunc func(ffmpegPath, format string, progress audio.ProgressFunc) (Splitter, error)

	mu               sync.Mutex
	newSplitterCalls []splitterFactoryCall
	mockSplitter     *mockSplitter
}

type splitterFactoryCall struct {
	FFmpegPath string
	Format     string
}

func (m *mockSplitterFactory) NewSplitter(ffmpegPath, format string, progress audio.ProgressFunc) (Splitter, error) {
	m.mu.Lock()
	m.newSplitterCalls = append(m.newSplitterCalls, splitterFactoryCall{FFmpegPath: ffmpegPath, Format: format})
	m.mu.Unlock()

	if m.NewSplitterFunc != nil {
		return m.NewSplitterFunc(ffmpegPath, format, progress)
	}
	if m.mockSplitter != nil {
		return m.mockSplitter, nil
	}
	return &mockSplitter{}, nil
}

func (m *mockSplitterFactory) NewSplitterCalls() []splitterFactoryCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]splitterFactoryCall, len(m.newSplitterCalls))
	copy(result, m.newSplitterCalls)
	return result
}

type mockSplitter struct {
	SplitFunc func(ctx context.Context, audioPath, outputDir string, plan audio.Plan) ([]string, error)

	mu         sync.Mutex
	splitCalls []splitCall
}

type splitCall struct {
	AudioPath string
	OutputDir string
	Plan      audio.Plan
}

func (m *mockSplitter) Split(ctx context.Context, audioPath, outputDir string, plan audio.Plan) ([]string, error) {
	m.mu.Lock()
	m.splitCalls = append(m.splitCalls, splitCall{AudioPath: audioPath, OutputDir: outputDir, Plan: plan})
	m.mu.Unlock()

	if m.SplitFunc != nil {
		return m.SplitFunc(ctx, audioPath, outputDir, plan)
	}

	// Default: pretend every window was encoded.
	paths := make([]string, 0, len(plan.Windows))
	for i := range plan.Windows {
		paths = append(paths, filepath.Join(outputDir, fmt.Sprintf("part%02d.mp3", i+1)))
	}
	return paths, nil
}

func (m *mockSplitter) SplitCalls() []splitCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]splitCall, len(m.splitCalls))
	copy(result, m.splitCalls)
	return result
}

// ---------------------------------------------------------------------------
// Mock CleanerFactory + Cleaner
// ---------------------------------------------------------------------------

type mockCleanerFactory struct {
	NewCleanerFunc func(ffmpegPath string, progress enhance.ProgressFunc) (Cleaner, error)

	mu              sync.Mutex
	newCleanerCalls []string
	mockCleaner     *mockCleaner
}

func (m *mockCleanerFactory) NewCleaner(ffmpegPath string, progress enhance.ProgressFunc) (Cleaner, error) {
	m.mu.Lock()
	m.newCleanerCalls = append(m.newCleanerCalls, ffmpegPath)
	m.mu.Unlock()

	if m.NewCleanerFunc != nil {
		return m.NewCleanerFunc(ffmpegPath, progress)
	}
	if m.mockCleaner != nil {
		return m.mockCleaner, nil
	}
	return &mockCleaner{}, nil
}

func (m *mockCleanerFactory) NewCleanerCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.newCleanerCalls...)
}

type mockCleaner struct {
	CleanFunc func(ctx context.Context, inputPath, outputPath string, chain []string) (string, error)

	mu         sync.Mutex
	cleanCalls []cleanCall
}

type cleanCall struct {
	InputPath  string
	OutputPath string
	Chain      []string
}

func (m *mockCleaner) Clean(ctx context.Context, inputPath, outputPath string, chain []string) (string, error) {
	m.mu.Lock()
	m.cleanCalls = append(m.cleanCalls, cleanCall{InputPath: inputPath, OutputPath: outputPath, Chain: chain})
	m.mu.Unlock()

	if m.CleanFunc != nil {
		return m.CleanFunc(ctx, inputPath, outputPath, chain)
	}
	if outputPath == "" {
		return enhance.DefaultOutputPath(inputPath), nil
	}
	return outputPath, nil
}

func (m *mockCleaner) CleanCalls() []cleanCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]cleanCall, len(m.cleanCalls))
	copy(result, m.cleanCalls)
	return result
}

// ---------------------------------------------------------------------------
// Mock TranscriberFactory + Service
// ---------------------------------------------------------------------------

type mockTranscriberFactory struct {
	NewServiceFunc func(provider Provider, apiKey string) (transcribe.Service, error)

	mu              sync.Mutex
	newServiceCalls []serviceCall
	mockService     *mockService
}

type serviceCall struct {
	Provider Provider
	APIKey   string
}

func (m *mockTranscriberFactory) NewService(provider Provider, apiKey string) (transcribe.Service, error) {
	m.mu.Lock()
	m.newServiceCalls = append(m.newServiceCalls, serviceCall{Provider: provider, APIKey: apiKey})
	m.mu.Unlock()

	if m.NewServiceFunc != nil {
		return m.NewServiceFunc(provider, apiKey)
	}
	if m.mockService != nil {
		return m.mockService, nil
	}
	return &mockService{}, nil
}

func (m *mockTranscriberFactory) NewServiceCalls() []serviceCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]serviceCall, len(m.newServiceCalls))
	copy(result, m.newServiceCalls)
	return result
}

type mockService struct {
	TranscribeFunc func(ctx context.Context, audioPath string, opts transcribe.Options) (*transcribe.Result, error)

	mu              sync.Mutex
	transcribeCalls []transcribeCall
}

type transcribeCall struct {
	AudioPath string
	Opts      transcribe.Options
}

func (m *mockService) Transcribe(ctx context.Context, audioPath string, opts transcribe.Options) (*transcribe.Result, error) {
	m.mu.Lock()
	m.transcribeCalls = append(m.transcribeCalls, transcribeCall{AudioPath: audioPath, Opts: opts})
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audioPath, opts)
	}
	return textResult("transcribed text"), nil
}

func (m *mockService) TranscribeCalls() []transcribeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]transcribeCall, len(m.transcribeCalls))
	copy(result, m.transcribeCalls)
	return result
}

// textResult builds a minimal result carrying only a transcript.
func textResult(text string) *transcribe.Result {
	return &transcribe.Result{
		Results: transcribe.ChannelList{
			Channels: []transcribe.Channel{{
				Alternatives: []transcribe.Alternative{{Transcript: text}},
			}},
		},
	}
}

// ---------------------------------------------------------------------------
// Compile-time interface verification
// ---------------------------------------------------------------------------

var (
	_ ToolResolver       = (*mockToolResolver)(nil)
	_ ConfigLoader       = (*mockConfigLoader)(nil)
	_ ProberFactory      = (*mockProberFactory)(nil)
	_ Prober             = (*mockProber)(nil)
	_ SplitterFactory    = (*mockSplitterFactory)(nil)
	_ Splitter           = (*mockSplitter)(nil)
	_ CleanerFactory     = (*mockCleanerFactory)(nil)
	_ Cleaner            = (*mockCleaner)(nil)
	_ TranscriberFactory = (*mockTranscriberFactory)(nil)
	_ transcribe.Service = (*mockService)(nil)
)
