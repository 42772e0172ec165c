package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lectio/internal/config"
	"lectio/internal/enhance"
	"lectio/internal/ffmpeg"
	"lectio/internal/format"
)

// CleanCmd creates the clean command.
// The env parameter provides injectable dependencies for testing.
func CleanCmd(env *Env) *cobra.Command {
	var (
		voiceName      string
		keyboardNoise  bool
		voiceIsolation bool
		output         string
		showFilters    bool
	)

	cmd := &cobra.Command{
		Use:   "clean <audio-file>",
		Short: "Reduce noise and normalize a lecture recording",
		Long: `Apply a speech-focused enhancement chain to a recording.

The chain always removes low-frequency rumble, trims reverb tails,
compresses, rebalances the voice band and normalizes loudness for
speech. The voice profile only tunes the rumble cutoff. Keyboard-noise
removal switches to an aggressive denoiser with click, clip and gate
stages; voice isolation adds a dialogue enhancer and speech normalizer.

Output is always MP3-encoded regardless of the output file extension.`,
		Example: `  lectio clean lecture.mp3
  lectio clean lecture.mp3 --voice female --keyboard-noise
  lectio clean lecture.ogg --voice-isolation -o lecture_ready.mp3
  lectio clean lecture.mp3 --show-filters  # Print the filter graph only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, env, args[0], voiceName, keyboardNoise, voiceIsolation, output, showFilters)
		},
	}

	cmd.Flags().StringVar(&voiceName, "voice", enhance.VoiceMixed.String(), "Speaker profile: male, female, mixed")
	cmd.Flags().BoolVar(&keyboardNoise, "keyboard-noise", false, "Remove keyboard clatter and other transient noise")
	cmd.Flags().BoolVar(&voiceIsolation, "voice-isolation", false, "Isolate speech from background sound")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <input>_clean<ext>)")
	cmd.Flags().BoolVar(&showFilters, "show-filters", false, "Print the filter graph and exit")

	return cmd
}

// runClean executes the enhancement pipeline.
// Validation order: voice -> filter graph (pure, may exit) -> file exists -> output path
func runClean(cmd *cobra.Command, env *Env, inputPath, voiceName string, keyboardNoise, voiceIsolation bool, output string, showFilters bool) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	// 1. Voice profile valid
	voice, err := enhance.ParseVoice(voiceName)
	if err != nil {
		return err
	}

	chain := enhance.BuildChain(enhance.Options{
		Voice:               voice,
		RemoveKeyboardNoise: keyboardNoise,
		VoiceIsolation:      voiceIsolation,
	})

	// 2. Filter graph display: pure output, no file access, no ffmpeg
	if showFilters {
		fmt.Fprintln(env.Stdout, enhance.Graph(chain))
		return nil
	}

	// 3. File exists
	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	// 4. Load config for output-dir
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	// 5. Output path: an explicit absolute flag wins, a relative flag
	//    lands under the configured directory, and with no flag the
	//    default name goes beside the input or into the configured
	//    directory. A leading ~ expands before validation and use.
	output = config.ExpandPath(output)
	outDir := config.ExpandPath(cfg.OutputDir)
	if output == "" && outDir == "" {
		outDir = filepath.Dir(inputPath)
	}
	output = config.ResolveOutputPath(output, outDir, filepath.Base(enhance.DefaultOutputPath(inputPath)))
	if err := config.ValidOutputDir(filepath.Dir(output)); err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}

	// === SETUP ===

	ffmpegPath, err := env.ToolResolver.Resolve(ctx, ffmpeg.ToolFFmpeg)
	if err != nil {
		return err
	}
	env.ToolResolver.CheckVersion(ctx, ffmpegPath)

	// === ENHANCEMENT ===

	fmt.Fprintln(env.Stderr, "Initializing audio enhancement...")

	cleaner, err := env.CleanerFactory.NewCleaner(ffmpegPath, progressPrinter(env.Stderr))
	if err != nil {
		return err
	}

	outPath, err := cleaner.Clean(ctx, inputPath, output, chain)
	if err != nil {
		return err
	}

	if info, err := os.Stat(outPath); err == nil {
		fmt.Fprintf(env.Stderr, "Wrote %s (%s)\n", filepath.Base(outPath), format.Size(info.Size()))
	}
	fmt.Fprintln(env.Stdout, outPath)
	return nil
}
