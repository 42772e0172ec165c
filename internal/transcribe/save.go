package transcribe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SavedPaths lists the files written for one transcription.
type SavedPaths struct {
	Text string
	JSON string // empty unless JSON output was requested
}

// SaveTranscript writes the result as plain text and optionally as
// indented JSON. Files are named <stem>_transcript.txt / .json after
// the audio file and placed in outputDir, or next to the audio file
// when outputDir is empty. Existing files are overwritten:
// re-transcription is a regeneration workflow.
func SaveTranscript(res *Result, audioPath, outputDir string, withJSON bool) (SavedPaths, error) {
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}

	base := filepath.Base(audioPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var paths SavedPaths

	paths.Text = filepath.Join(outputDir, stem+"_transcript.txt")
	if err := os.WriteFile(paths.Text, []byte(res.FormatText()), 0o644); err != nil {
		return paths, fmt.Errorf("failed to write transcript: %w", err)
	}

	if withJSON {
		data, err := marshalResult(res)
		if err != nil {
			return paths, err
		}
		paths.JSON = filepath.Join(outputDir, stem+"_transcript.json")
		if err := os.WriteFile(paths.JSON, data, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write transcript JSON: %w", err)
		}
	}

	return paths, nil
}

// marshalResult renders the result as 4-space indented JSON without
// HTML escaping, keeping the on-disk transcript readable.
func marshalResult(res *Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(res); err != nil {
		return nil, fmt.Errorf("failed to encode transcript JSON: %w", err)
	}
	return buf.Bytes(), nil
}
