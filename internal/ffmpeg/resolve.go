package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Tool identifies one of the FFmpeg suite binaries this package resolves.
type Tool string

const (
	// ToolFFmpeg is the encoder/filter binary.
	ToolFFmpeg Tool = "ffmpeg"
	// ToolFFprobe is the stream analyzer used for duration probing.
	ToolFFprobe Tool = "ffprobe"
)

// Environment variables overriding resolution per tool.
const (
	envFFmpegPath  = "FFMPEG_PATH"
	envFFprobePath = "FFPROBE_PATH"
)

// minFFmpegMajorVersion is the lowest ffmpeg major version that carries
// every filter the enhancement chain uses (dialoguenhance appeared in 6.0).
const minFFmpegMajorVersion = 6

// binaryExtWindows is the file extension for Windows executables.
const binaryExtWindows = ".exe"

// envVar returns the override environment variable for a tool.
func (t Tool) envVar() string {
	if t == ToolFFprobe {
		return envFFprobePath
	}
	return envFFmpegPath
}

// binaryName returns the platform binary name for a tool.
func (t Tool) binaryName(goos string) string {
	name := string(t)
	if goos == "windows" {
		name += binaryExtWindows
	}
	return name
}

// ---------------------------------------------------------------------------
// Resolver - testable tool resolution with dependency injection
// ---------------------------------------------------------------------------

// Resolver locates FFmpeg suite binaries. It never installs anything:
// when no binary is found the error carries per-platform install
// instructions instead.
type Resolver struct {
	reader fileReader
	env    envProvider
	goos   string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFileReader sets the file reader implementation.
func WithFileReader(r fileReader) ResolverOption {
	return func(res *Resolver) { res.reader = r }
}

// WithEnvProvider sets the environment provider implementation.
func WithEnvProvider(e envProvider) ResolverOption {
	return func(res *Resolver) { res.env = e }
}

// WithPlatform sets the target platform (for testing cross-platform behavior).
func WithPlatform(goos string) ResolverOption {
	return func(res *Resolver) { res.goos = goos }
}

// NewResolver creates a Resolver with the given options.
// Uses production defaults if no options are provided.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		reader: osFileReader{},
		env:    osEnvProvider{},
		goos:   runtime.GOOS,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds a tool binary using the following precedence:
//  1. Tool environment variable, FFMPEG_PATH or FFPROBE_PATH
//     (error if set but invalid; an explicit override never falls through)
//  2. System PATH
//  3. Well-known install directories for the platform
func (r *Resolver) Resolve(ctx context.Context, tool Tool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// 1. Environment override
	if envPath := r.env.Getenv(tool.envVar()); envPath != "" {
		if _, err := r.reader.Stat(envPath); err != nil {
			return "", fmt.Errorf("%w: %s is set to %q but no binary exists there",
				ErrNotFound, tool.envVar(), envPath)
		}
		return envPath, nil
	}

	// 2. System PATH
	if path, err := r.env.LookPath(string(tool)); err == nil {
		return path, nil
	}

	// 3. Well-known install directories
	name := tool.binaryName(r.goos)
	for _, dir := range r.wellKnownDirs() {
		candidate := filepath.Join(dir, name)
		info, err := r.reader.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		return candidate, nil
	}

	return "", fmt.Errorf("%w: %s\n\n%s", ErrNotFound, tool, r.manualInstallInstructions(tool))
}

// wellKnownDirs lists directories commonly holding FFmpeg installs that
// are not always on PATH (GUI sessions on macOS, manual Windows installs).
func (r *Resolver) wellKnownDirs() []string {
	switch r.goos {
	case "darwin":
		return []string{
			"/opt/homebrew/bin",
			"/usr/local/bin",
			"/opt/local/bin",
		}
	case "linux":
		return []string{
			"/usr/local/bin",
			"/usr/bin",
			"/snap/bin",
		}
	case "windows":
		dirs := []string{
			`C:\ffmpeg\bin`,
			`C:\Program Files\ffmpeg\bin`,
		}
		if profile := r.env.Getenv("USERPROFILE"); profile != "" {
			dirs = append(dirs, filepath.Join(profile, "scoop", "shims"))
		}
		return dirs
	default:
		return nil
	}
}

// manualInstallInstructions returns platform-specific instructions.
func (r *Resolver) manualInstallInstructions(tool Tool) string {
	envVar := tool.envVar()
	switch r.goos {
	case "darwin":
		return fmt.Sprintf(`To install FFmpeg (includes %s):
  brew install ffmpeg

Or download from https://evermeet.cx/ffmpeg/

Or set %s to your %s binary.`, tool, envVar, tool)
	case "linux":
		return fmt.Sprintf(`To install FFmpeg (includes %s):
  Ubuntu/Debian: sudo apt install ffmpeg
  Fedora:        sudo dnf install ffmpeg
  Arch:          sudo pacman -S ffmpeg

Or set %s to your %s binary.`, tool, envVar, tool)
	case "windows":
		return fmt.Sprintf(`To install FFmpeg (includes %s):
  winget install ffmpeg

Or download from https://www.gyan.dev/ffmpeg/builds/

Or set %s to your %s.exe.`, tool, envVar, tool)
	default:
		return fmt.Sprintf(`To install FFmpeg, download from https://ffmpeg.org/download.html
Or set %s to your %s binary.`, envVar, tool)
	}
}

// ---------------------------------------------------------------------------
// Package-level functions - default resolver facade
// ---------------------------------------------------------------------------

var (
	defaultResolver     *Resolver
	defaultResolverOnce sync.Once
)

// getDefaultResolver returns the lazily-initialized default resolver.
func getDefaultResolver() *Resolver {
	defaultResolverOnce.Do(func() {
		defaultResolver = NewResolver()
	})
	return defaultResolver
}

// Resolve finds a tool binary using the default resolver.
func Resolve(ctx context.Context, tool Tool) (string, error) {
	return getDefaultResolver().Resolve(ctx, tool)
}

// ---------------------------------------------------------------------------
// VersionChecker - best-effort filter availability warning
// ---------------------------------------------------------------------------

// VersionChecker verifies FFmpeg version requirements.
type VersionChecker struct {
	executor *Executor
	stderr   io.Writer
}

// VersionCheckerOption configures a VersionChecker.
type VersionCheckerOption func(*VersionChecker)

// WithVersionExecutor sets the executor for running FFmpeg.
func WithVersionExecutor(e *Executor) VersionCheckerOption {
	return func(vc *VersionChecker) { vc.executor = e }
}

// WithVersionStderr sets the writer for warning messages.
func WithVersionStderr(w io.Writer) VersionCheckerOption {
	return func(vc *VersionChecker) { vc.stderr = w }
}

// NewVersionChecker creates a VersionChecker with the given options.
func NewVersionChecker(opts ...VersionCheckerOption) *VersionChecker {
	vc := &VersionChecker{
		executor: getDefaultExecutor(),
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(vc)
	}
	return vc
}

// Check warns when ffmpeg predates the enhancement filters.
// Prints to stderr if the major version is below minimum but never fails;
// an old ffmpeg still splits fine. Returns true if a version was parsed.
func (vc *VersionChecker) Check(ctx context.Context, ffmpegPath string) bool {
	output, err := vc.executor.RunOutput(ctx, ffmpegPath, []string{"-version"})
	if err != nil && output == "" {
		return false // Can't check version, proceed anyway
	}

	// Parse version from output like "ffmpeg version 6.1.1 Copyright..."
	lines := strings.Split(output, "\n")
	if len(lines) == 0 || lines[0] == "" {
		return false
	}

	var major int
	_, err = fmt.Sscanf(lines[0], "ffmpeg version %d", &major)
	if err != nil {
		// Try alternative format "ffmpeg version n6.1.1..."
		_, err = fmt.Sscanf(lines[0], "ffmpeg version n%d", &major)
		if err != nil {
			return false // Can't parse version
		}
	}

	if major < minFFmpegMajorVersion {
		fmt.Fprintf(vc.stderr, "Warning: ffmpeg version %d detected; version %d+ is needed for some enhancement filters (dialoguenhance)\n",
			major, minFFmpegMajorVersion)
	}
	return true
}

// CheckVersion warns when ffmpeg predates the enhancement filters,
// using a default VersionChecker.
func CheckVersion(ctx context.Context, ffmpegPath string) {
	NewVersionChecker().Check(ctx, ffmpegPath)
}
