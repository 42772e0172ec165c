package transcribe

// Exports for testing. These allow black-box tests to reach internal
// logic and inject dependencies without widening the public API.

// NewTestOpenAIClient creates an OpenAIClient around a mock
// transcriber, bypassing the real OpenAI client construction.
func NewTestOpenAIClient(client audioTranscriber) *OpenAIClient {
	return &OpenAIClient{client: client}
}

// Function exports for unit testing internal logic.
var (
	ClassifyStatus      = classifyStatus
	ClassifyOpenAIError = classifyOpenAIError
	ContentTypeFor      = contentTypeFor
	AdaptOpenAIResponse = adaptOpenAIResponse
	MarshalResult       = marshalResult
)

// Type aliases so tests can build mocks for unexported interfaces.
type (
	HTTPDoer         = httpDoer
	AudioTranscriber = audioTranscriber
)
