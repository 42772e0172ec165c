package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"lectio/internal/config"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	toolResolver *mockToolResolver
	configLoader *mockConfigLoader
	prober       *mockProberFactory
	splitter     *mockSplitterFactory
	cleaner      *mockCleanerFactory
	transcriber  *mockTranscriberFactory
}

func newTestMocks() *testMocks {
	return &testMocks{
		toolResolver: &mockToolResolver{},
		configLoader: &mockConfigLoader{},
		prober:       &mockProberFactory{},
		splitter:     &mockSplitterFactory{},
		cleaner:      &mockCleanerFactory{},
		transcriber:  &mockTranscriberFactory{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnv creates a test Env with all dependencies mocked and both
// output streams captured. Returns the Env and the mocks for assertions.
func testEnv() (*Env, *testMocks) {
	mocks := newTestMocks()
	env := &Env{
		Stdout:             &syncBuffer{},
		Stderr:             &syncBuffer{},
		Getenv:             func(string) string { return "" },
		ToolResolver:       mocks.toolResolver,
		ConfigLoader:       mocks.configLoader,
		ProberFactory:      mocks.prober,
		SplitterFactory:    mocks.splitter,
		CleanerFactory:     mocks.cleaner,
		TranscriberFactory: mocks.transcriber,
	}
	return env, mocks
}

// stdout returns the captured stdout of a testEnv-built Env.
func stdout(env *Env) string {
	return env.Stdout.(*syncBuffer).String()
}

// stderr returns the captured stderr of a testEnv-built Env.
func stderr(env *Env) string {
	return env.Stderr.(*syncBuffer).String()
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// testCommand returns a bare cobra command with a background context,
// so run functions can read cmd.Context() outside Execute.
func testCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// createTestAudioFile creates a temporary audio file for testing.
// Returns the file path. The file is automatically cleaned up after the test.
func createTestAudioFile(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)

	// Write minimal content to make the file non-empty
	if err := os.WriteFile(path, []byte("fake audio content"), 0644); err != nil {
		t.Fatalf("failed to create test audio file: %v", err)
	}
	return path
}

// configWith returns a ConfigLoader that serves the given config.
func configWith(cfg config.Config) *mockConfigLoader {
	return &mockConfigLoader{
		LoadFunc: func() (config.Config, error) {
			return cfg, nil
		},
	}
}
