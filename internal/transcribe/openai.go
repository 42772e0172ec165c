package transcribe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"lectio/internal/apierr"
	"lectio/internal/lang"
)

// DefaultOpenAIModel is used when Options.Model is empty.
const DefaultOpenAIModel = openai.Whisper1

// OpenAIClient transcribes audio via OpenAI's transcription API and
// adapts the verbose response into the Deepgram-shaped Result.
// SmartFormat, Paragraphs and Punctuate have no Whisper equivalent and
// are ignored; the verbose response always carries segments.
type OpenAIClient struct {
	client audioTranscriber
}

// Compile-time interface compliance checks.
var (
	_ Service          = (*OpenAIClient)(nil)
	_ audioTranscriber = (*openai.Client)(nil)
)

// NewOpenAIClient creates an OpenAI transcription client.
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY", ErrAPIKeyMissing)
	}
	return &OpenAIClient{client: openai.NewClient(apiKey)}, nil
}

// Transcribe uploads the audio file to OpenAI and adapts the response.
func (o *OpenAIClient) Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, error) {
	model := opts.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	req := openai.AudioRequest{
		Model:    model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: lang.BaseCode(opts.Language), // Whisper only accepts ISO 639-1 base codes
	}

	resp, err := o.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	return adaptOpenAIResponse(resp), nil
}

// adaptOpenAIResponse reshapes a verbose Whisper response into the
// Deepgram-style Result: one channel, one alternative, the segments as
// sentences of a single paragraph.
func adaptOpenAIResponse(resp openai.AudioResponse) *Result {
	alt := Alternative{Transcript: strings.TrimSpace(resp.Text)}

	for _, w := range resp.Words {
		alt.Words = append(alt.Words, Word{
			Word:  w.Word,
			Start: w.Start,
			End:   w.End,
		})
	}

	sentences := make([]Sentence, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		sentences = append(sentences, Sentence{Text: text, Start: seg.Start, End: seg.End})
	}
	if len(sentences) > 0 {
		alt.Paragraphs = &Paragraphs{
			Paragraphs: []Paragraph{{
				Sentences: sentences,
				Start:     sentences[0].Start,
				End:       sentences[len(sentences)-1].End,
			}},
		}
	}

	return &Result{
		Metadata: Metadata{Duration: resp.Duration, Channels: 1},
		Results: ChannelList{
			Channels: []Channel{{Alternatives: []Alternative{alt}}},
		},
	}
}

// classifyOpenAIError maps OpenAI API errors to apierr sentinels.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Distinguish a temporary rate limit from an exhausted quota:
			// the latter needs user action, not waiting.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusBadRequest, http.StatusNotFound:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		}
		if apiErr.HTTPStatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrServer)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}
