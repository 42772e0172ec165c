package transcribe

import (
	"context"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// httpDoer abstracts the HTTP client so tests can intercept requests.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// audioTranscriber is the slice of the OpenAI client used by this
// package. *openai.Client implements it implicitly; tests inject mocks.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}
