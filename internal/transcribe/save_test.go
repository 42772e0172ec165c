package transcribe_test

// Notes:
// - Saving is tested against t.TempDir(); files are read back and
//   compared byte for byte where the format matters (indent, escaping).

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lectio/internal/transcribe"
)

func TestSaveTranscript(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	audioPath := filepath.Join(dir, "lecture_part01.mp3")

	paths, err := transcribe.SaveTranscript(paragraphedResult(), audioPath, "", false)
	if err != nil {
		t.Fatalf("SaveTranscript() unexpected error: %v", err)
	}

	wantText := filepath.Join(dir, "lecture_part01_transcript.txt")
	if paths.Text != wantText {
		t.Errorf("Text = %q, want %q", paths.Text, wantText)
	}
	if paths.JSON != "" {
		t.Errorf("JSON = %q, want empty when not requested", paths.JSON)
	}

	content, err := os.ReadFile(paths.Text)
	if err != nil {
		t.Fatalf("failed to read transcript: %v", err)
	}
	if string(content) != "First sentence. Second sentence.\n\nNew paragraph." {
		t.Errorf("transcript content = %q", content)
	}

	if _, err := os.Stat(filepath.Join(dir, "lecture_part01_transcript.json")); !os.IsNotExist(err) {
		t.Error("JSON file written without being requested")
	}
}

func TestSaveTranscriptWithJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	audioPath := filepath.Join(dir, "talk.ogg")

	res := paragraphedResult()
	res.Metadata.RequestID = "req-1"
	res.Results.Channels[0].Alternatives[0].Transcript = "a <b> & c"

	paths, err := transcribe.SaveTranscript(res, audioPath, "", true)
	if err != nil {
		t.Fatalf("SaveTranscript() unexpected error: %v", err)
	}

	wantJSON := filepath.Join(dir, "talk_transcript.json")
	if paths.JSON != wantJSON {
		t.Errorf("JSON = %q, want %q", paths.JSON, wantJSON)
	}

	data, err := os.ReadFile(paths.JSON)
	if err != nil {
		t.Fatalf("failed to read JSON: %v", err)
	}

	// 4-space indent, HTML left unescaped.
	if !strings.Contains(string(data), "\n    \"metadata\"") {
		t.Errorf("JSON not indented with 4 spaces:\n%s", data)
	}
	if strings.Contains(string(data), `\u003c`) {
		t.Error("JSON escaped HTML characters")
	}
	if !strings.Contains(string(data), "a <b> & c") {
		t.Error("JSON missing raw transcript text")
	}

	var decoded transcribe.Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("saved JSON does not decode: %v", err)
	}
	if decoded.Metadata.RequestID != "req-1" {
		t.Errorf("decoded RequestID = %q, want req-1", decoded.Metadata.RequestID)
	}
}

func TestSaveTranscriptOutputDir(t *testing.T) {
	t.Parallel()

	audioDir := t.TempDir()
	outDir := t.TempDir()
	audioPath := filepath.Join(audioDir, "lecture.mp3")

	paths, err := transcribe.SaveTranscript(paragraphedResult(), audioPath, outDir, false)
	if err != nil {
		t.Fatalf("SaveTranscript() unexpected error: %v", err)
	}

	if filepath.Dir(paths.Text) != outDir {
		t.Errorf("transcript written to %q, want %q", filepath.Dir(paths.Text), outDir)
	}
}

func TestSaveTranscriptOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	audioPath := filepath.Join(dir, "lecture.mp3")
	existing := filepath.Join(dir, "lecture_transcript.txt")
	if err := os.WriteFile(existing, []byte("stale transcript"), 0o644); err != nil {
		t.Fatalf("failed to seed existing file: %v", err)
	}

	if _, err := transcribe.SaveTranscript(paragraphedResult(), audioPath, "", false); err != nil {
		t.Fatalf("SaveTranscript() unexpected error: %v", err)
	}

	content, err := os.ReadFile(existing)
	if err != nil {
		t.Fatalf("failed to read transcript: %v", err)
	}
	if strings.Contains(string(content), "stale") {
		t.Errorf("transcript not overwritten: %q", content)
	}
}

func TestSaveTranscriptMissingDir(t *testing.T) {
	t.Parallel()

	audioPath := filepath.Join(t.TempDir(), "lecture.mp3")
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")

	_, err := transcribe.SaveTranscript(paragraphedResult(), audioPath, missing, false)
	if err == nil {
		t.Fatal("SaveTranscript() expected error for missing output directory")
	}
	if !strings.Contains(err.Error(), "failed to write transcript") {
		t.Errorf("error = %v, want write failure context", err)
	}
}
