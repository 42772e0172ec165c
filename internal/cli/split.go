package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lectio/internal/audio"
	"lectio/internal/config"
	"lectio/internal/ffmpeg"
	"lectio/internal/format"
)

// SplitCmd creates the split command.
// The env parameter provides injectable dependencies for testing.
func SplitCmd(env *Env) *cobra.Command {
	var (
		segmentSec int
		overlapSec int
		outFormat  string
		outputDir  string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "split <audio-file>",
		Short: "Split a long recording into overlapping segments",
		Long: `Split a long recording into segments sized for transcription APIs.

Consecutive segments share a configurable overlap so sentences cut at a
boundary reappear intact at the start of the next segment. A trailing
remainder shorter than the overlap is absorbed into the previous
segment instead of producing a near-duplicate file.

Files that already fit in a single segment are reported unchanged.`,
		Example: `  lectio split lecture.mp3
  lectio split lecture.mp3 --segment-length 1200 --overlap 15
  lectio split lecture.ogg --format ogg -o ~/lectures/parts
  lectio split lecture.mp3 --dry-run  # Show the plan without encoding`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := audio.SplitOptions{
				SegmentLength: time.Duration(segmentSec) * time.Second,
				Overlap:       time.Duration(overlapSec) * time.Second,
				Format:        outFormat,
			}
			return runSplit(cmd, env, args[0], opts, outputDir, dryRun)
		},
	}

	cmd.Flags().IntVarP(&segmentSec, "segment-length", "s", int(audio.DefaultSegmentLength/time.Second), "Segment length in seconds")
	cmd.Flags().IntVar(&overlapSec, "overlap", int(audio.DefaultOverlap/time.Second), "Overlap between consecutive segments in seconds")
	cmd.Flags().StringVarP(&outFormat, "format", "f", audio.DefaultFormat, "Output format: mp3, m4a, ogg")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for segments (default: alongside the input)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the segmentation plan without encoding")

	return cmd
}

// runSplit executes the split pipeline.
// Validation order: file exists -> format -> overlap bounds -> output dir
func runSplit(cmd *cobra.Command, env *Env, inputPath string, opts audio.SplitOptions, outputDir string, dryRun bool) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	// 1. File exists
	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	// 2. Format supported
	if !slices.Contains(audio.SupportedFormats(), opts.Format) {
		return fmt.Errorf("unsupported output format %q (supported: %s): %w",
			opts.Format, strings.Join(audio.SupportedFormats(), ", "), audio.ErrUnsupportedFormat)
	}

	// 3. Overlap bounds (also rejects non-positive segment lengths)
	if opts.Overlap < 0 || opts.Overlap >= opts.SegmentLength {
		return fmt.Errorf("overlap %ds must be non-negative and shorter than segment length %ds: %w",
			int(opts.Overlap/time.Second), int(opts.SegmentLength/time.Second), audio.ErrInvalidOverlap)
	}

	// 4. Load config for output-dir
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	// 5. Output directory (flag > config > input's directory), with a
	//    leading ~ expanded before both validation and use.
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	}
	outputDir = config.ExpandPath(outputDir)

	// === SETUP ===

	ffprobePath, err := env.ToolResolver.Resolve(ctx, ffmpeg.ToolFFprobe)
	if err != nil {
		return err
	}

	// === PLANNING ===

	fmt.Fprintln(env.Stderr, "Getting audio duration...")

	prober, err := env.ProberFactory.NewProber(ffprobePath)
	if err != nil {
		return err
	}
	total, err := prober.Duration(ctx, inputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Duration: %.1f minutes\n", total.Minutes())

	plan, err := audio.PlanWindows(total, opts.SegmentLength, opts.Overlap)
	if err != nil {
		return err
	}

	if !plan.NeedsSplit() {
		fmt.Fprintln(env.Stderr, "File is shorter than segment length. No splitting needed.")
		fmt.Fprintln(env.Stdout, inputPath)
		return nil
	}

	// The plan table goes to stdout so --dry-run output can be piped;
	// progress stays on stderr.
	fmt.Fprintln(env.Stdout, renderPlanTable(env.Stdout, plan))

	if dryRun {
		return nil
	}

	// === ENCODING ===

	if err := config.ValidOutputDir(outputDir); err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}

	ffmpegPath, err := env.ToolResolver.Resolve(ctx, ffmpeg.ToolFFmpeg)
	if err != nil {
		return err
	}

	splitter, err := env.SplitterFactory.NewSplitter(ffmpegPath, opts.Format, progressPrinter(env.Stderr))
	if err != nil {
		return err
	}

	paths, err := splitter.Split(ctx, inputPath, outputDir, plan)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Split %s of audio into %d segments\n",
		format.DurationHuman(plan.Total), len(paths))
	for _, p := range paths {
		fmt.Fprintln(env.Stdout, p)
	}
	return nil
}

// renderPlanTable renders the segmentation plan for review before
// encoding. Part numbers are one-based to match the segment file names.
func renderPlanTable(w io.Writer, plan audio.Plan) string {
	rows := make([][]string, 0, len(plan.Windows))
	for _, win := range plan.Windows {
		rows = append(rows, []string{
			fmt.Sprintf("%02d", win.Index+1),
			format.Duration(win.Start),
			format.Duration(win.End()),
			format.Duration(win.Length),
		})
	}
	return renderTable(w,
		[]string{"Part", "Start", "End", "Length"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight})
}
