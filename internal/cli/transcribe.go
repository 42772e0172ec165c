package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lectio/internal/audio"
	"lectio/internal/config"
	"lectio/internal/ffmpeg"
	"lectio/internal/format"
	"lectio/internal/lang"
	"lectio/internal/transcribe"
)

// defaultParallel keeps concurrent uploads inside free-tier rate limits
// while still overlapping network time.
const defaultParallel = 2

// warnAfter is the probed duration above which a file gets a "split it
// first" warning. It matches the longest segment the planner can emit:
// one segment length plus one folded overlap.
const warnAfter = audio.DefaultSegmentLength + audio.DefaultOverlap

// clampParallel constrains the concurrent request count to [1, transcribe.MaxParallel].
func clampParallel(n int) int {
	if n < 1 {
		return 1
	}
	if n > transcribe.MaxParallel {
		return transcribe.MaxParallel
	}
	return n
}

// TranscribeCmd creates the transcribe command.
// The env parameter provides injectable dependencies for testing.
func TranscribeCmd(env *Env) *cobra.Command {
	var (
		providerName string
		model        string
		language     string
		withJSON     bool
		outputDir    string
		parallel     int
	)

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>...",
		Short: "Transcribe audio files to text",
		Long: `Transcribe one or more audio files using a hosted speech API.

Deepgram is the default provider; OpenAI Whisper is available with
--provider openai. Files are transcribed concurrently and each produces
a <name>_transcript.txt next to the audio or in the output directory.
--json additionally saves the provider response as JSON.

Long recordings should be split first: lectio split <file>.`,
		Example: `  lectio transcribe lecture_part01.mp3 lecture_part02.mp3
  lectio transcribe lecture.mp3 --language en --json
  lectio transcribe lecture.mp3 --provider openai --model whisper-1
  lectio transcribe *.mp3 --parallel 4 -o ~/lectures/text`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(cmd, env, args, providerName, model, language, withJSON, outputDir, parallel)
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", ProviderDeepgram, "Transcription provider: deepgram, openai")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Provider model (default: the provider's recommended model)")
	cmd.Flags().StringVarP(&language, "language", "l", lang.Default, "Audio language (ISO 639-1 code, e.g. it, en, pt-BR)")
	cmd.Flags().BoolVar(&withJSON, "json", false, "Also save the provider response as JSON")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for transcripts (default: alongside each input)")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", defaultParallel, "Max concurrent API requests (1-10)")

	return cmd
}

// runTranscribe executes the transcription pipeline.
// Validation order: files exist -> language -> provider -> parallel -> output dir -> API key
func runTranscribe(cmd *cobra.Command, env *Env, paths []string, providerName, model, language string, withJSON bool, outputDir string, parallel int) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	// 1. All files exist
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrFileNotFound, p)
			}
			return fmt.Errorf("cannot access input file: %w", err)
		}
	}

	// 2. Language valid
	if err := lang.Validate(language); err != nil {
		return err
	}

	// 3. Provider valid
	provider, err := ParseProvider(providerName)
	if err != nil {
		return err
	}

	// 4. Parallel bounds (clamp to 1-10)
	parallel = clampParallel(parallel)

	// 5. Load config for API keys and output-dir
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	// 6. Output directory (flag > config > alongside each input), with
	//    a leading ~ expanded before validation and use
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	outputDir = config.ExpandPath(outputDir)
	if outputDir != "" {
		if err := config.ValidOutputDir(outputDir); err != nil {
			return fmt.Errorf("invalid output directory: %w", err)
		}
	}

	// 7. API key present for the chosen provider
	apiKey, keyName := cfg.DeepgramAPIKey, config.KeyDeepgramAPIKey
	if provider.IsOpenAI() {
		apiKey, keyName = cfg.OpenAIAPIKey, config.KeyOpenAIAPIKey
	}
	if apiKey == "" {
		return fmt.Errorf("%w: set it with 'lectio config set %s <key>' or export %s",
			transcribe.ErrAPIKeyMissing, keyName, keyName)
	}

	svc, err := env.TranscriberFactory.NewService(provider, apiKey)
	if err != nil {
		return err
	}

	// === DURATION CHECK (best-effort) ===

	warnLongInputs(ctx, env, paths)

	// === TRANSCRIPTION ===

	opts := transcribe.DefaultOptions()
	opts.Model = model
	opts.Language = language

	results, err := transcribe.TranscribeAll(ctx, svc, paths, opts, parallel, progressPrinter(env.Stderr))
	if err != nil {
		return err
	}

	// === SAVE ===

	for i, res := range results {
		saved, err := transcribe.SaveTranscript(res, paths[i], outputDir, withJSON)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, saved.Text)
		if saved.JSON != "" {
			fmt.Fprintln(env.Stdout, saved.JSON)
		}
	}

	fmt.Fprintln(env.Stderr, "Transcription complete")
	return nil
}

// warnLongInputs probes each input and warns when one exceeds the
// longest segment the planner would produce. Probing is best-effort:
// failures here never block transcription.
func warnLongInputs(ctx context.Context, env *Env, paths []string) {
	ffprobePath, err := env.ToolResolver.Resolve(ctx, ffmpeg.ToolFFprobe)
	if err != nil {
		return
	}
	prober, err := env.ProberFactory.NewProber(ffprobePath)
	if err != nil {
		return
	}
	for _, p := range paths {
		d, err := prober.Duration(ctx, p)
		if err != nil {
			continue
		}
		if d > warnAfter {
			fmt.Fprintf(env.Stderr,
				"Warning: %s is %s minutes long; transcription may fail on long files. Split it first: lectio split %s\n",
				filepath.Base(p), format.Minutes(d), p)
		}
	}
}
