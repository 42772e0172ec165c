package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lectio/internal/apierr"
	"lectio/internal/lang"
)

// Deepgram model identifiers. Any other name is passed through to the
// API untouched.
const (
	ModelNova3        = "nova-3"
	ModelNova2        = "nova-2"
	ModelWhisperLarge = "whisper-large"

	// DefaultDeepgramModel is used when Options.Model is empty.
	DefaultDeepgramModel = ModelNova3
)

const (
	// deepgramListenURL is the pre-recorded transcription endpoint.
	deepgramListenURL = "https://api.deepgram.com/v1/listen"

	// requestTimeout bounds one upload + transcription round trip.
	// Hosted models chew through an hour of audio well inside this.
	requestTimeout = 5 * time.Minute
)

// DeepgramClient transcribes audio via the Deepgram pre-recorded API.
// The endpoint is a single authenticated POST of the raw audio bytes,
// so the client speaks HTTP directly rather than carrying an SDK.
type DeepgramClient struct {
	apiKey string
	http   httpDoer
}

var _ Service = (*DeepgramClient)(nil)

// DeepgramOption configures a DeepgramClient.
type DeepgramOption func(*DeepgramClient)

// WithDeepgramHTTPClient sets a custom HTTP client (for testing).
func WithDeepgramHTTPClient(c httpDoer) DeepgramOption {
	return func(d *DeepgramClient) {
		d.http = c
	}
}

// NewDeepgramClient creates a Deepgram transcription client.
func NewDeepgramClient(apiKey string, opts ...DeepgramOption) (*DeepgramClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set DEEPGRAM_API_KEY", ErrAPIKeyMissing)
	}

	d := &DeepgramClient{
		apiKey: apiKey,
		http:   &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Transcribe uploads the audio file to Deepgram and parses the response.
func (d *DeepgramClient) Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, error) {
	data, err := os.ReadFile(audioPath) // #nosec G304 -- audioPath is validated by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	req, err := d.newRequest(ctx, audioPath, data, opts)
	if err != nil {
		return nil, err
	}

	resp, err := d.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("request timed out after %s: %w", requestTimeout, apierr.ErrTimeout)
		}
		return nil, fmt.Errorf("deepgram request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// newRequest builds the POST with model and formatting query parameters
// and the raw audio bytes as the body.
func (d *DeepgramClient) newRequest(ctx context.Context, audioPath string, data []byte, opts Options) (*http.Request, error) {
	model := opts.Model
	if model == "" {
		model = DefaultDeepgramModel
	}

	q := url.Values{}
	q.Set("model", model)
	if opts.Language != "" {
		q.Set("language", lang.Normalize(opts.Language))
	}
	q.Set("smart_format", strconv.FormatBool(opts.SmartFormat))
	q.Set("paragraphs", strconv.FormatBool(opts.Paragraphs))
	q.Set("punctuate", strconv.FormatBool(opts.Punctuate))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deepgramListenURL+"?"+q.Encode(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+d.apiKey)
	req.Header.Set("Content-Type", contentTypeFor(audioPath))
	return req, nil
}

// contentTypeFor maps an audio file extension to its MIME type.
func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".ogg":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	case ".webm":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}

// deepgramErrorBody is the JSON error shape Deepgram returns on failure.
type deepgramErrorBody struct {
	ErrCode string `json:"err_code"`
	ErrMsg  string `json:"err_msg"`
}

// classifyStatus maps a non-200 Deepgram response to an apierr sentinel.
func classifyStatus(statusCode int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var e deepgramErrorBody
	if err := json.Unmarshal(body, &e); err == nil && e.ErrMsg != "" {
		msg = e.ErrMsg
	}
	if msg == "" {
		msg = http.StatusText(statusCode)
	}

	switch {
	case statusCode == http.StatusBadRequest:
		return fmt.Errorf("%s: %w", msg, apierr.ErrBadRequest)
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, apierr.ErrAuthFailed)
	case statusCode == http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", msg, apierr.ErrQuotaExceeded)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", msg, apierr.ErrRateLimit)
	case statusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w", msg, apierr.ErrServer)
	default:
		return fmt.Errorf("deepgram returned HTTP %d: %s", statusCode, msg)
	}
}
