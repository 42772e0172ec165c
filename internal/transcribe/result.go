package transcribe

import "strings"

// Result is the structured transcription of one audio file. The shape
// mirrors the Deepgram pre-recorded response; the OpenAI provider adapts
// its output into the same structure so callers handle a single model.
type Result struct {
	Metadata Metadata    `json:"metadata"`
	Results  ChannelList `json:"results"`
}

// Metadata carries the provider's bookkeeping for the request.
type Metadata struct {
	RequestID string  `json:"request_id,omitempty"`
	SHA256    string  `json:"sha256,omitempty"`
	Created   string  `json:"created,omitempty"`
	Duration  float64 `json:"duration"`
	Channels  int     `json:"channels"`
}

// ChannelList wraps the per-channel results.
type ChannelList struct {
	Channels []Channel `json:"channels"`
}

// Channel holds the transcription alternatives for one audio channel.
type Channel struct {
	Alternatives []Alternative `json:"alternatives"`
}

// Alternative is one candidate transcription of a channel.
type Alternative struct {
	Transcript string      `json:"transcript"`
	Confidence float64     `json:"confidence"`
	Words      []Word      `json:"words,omitempty"`
	Paragraphs *Paragraphs `json:"paragraphs,omitempty"`
}

// Word is a single recognized word with timing.
type Word struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Paragraphs groups the alternative's text into paragraphs when the
// provider was asked for them.
type Paragraphs struct {
	Transcript string      `json:"transcript,omitempty"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Paragraph is a run of sentences with a shared time span.
type Paragraph struct {
	Sentences []Sentence `json:"sentences"`
	Start     float64    `json:"start"`
	End       float64    `json:"end"`
}

// Sentence is a single sentence with timing.
type Sentence struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// FormatText renders the result as readable plain text: first channel,
// first alternative, each paragraph's sentences joined with a space and
// paragraphs separated by a blank line. When the provider returned no
// paragraphs the plain transcript is used. An empty result yields "".
func (r *Result) FormatText() string {
	if r == nil || len(r.Results.Channels) == 0 {
		return ""
	}
	channel := r.Results.Channels[0]
	if len(channel.Alternatives) == 0 {
		return ""
	}
	alt := channel.Alternatives[0]

	if alt.Paragraphs != nil {
		blocks := make([]string, 0, len(alt.Paragraphs.Paragraphs))
		for _, para := range alt.Paragraphs.Paragraphs {
			if len(para.Sentences) == 0 {
				continue
			}
			texts := make([]string, len(para.Sentences))
			for i, sentence := range para.Sentences {
				texts[i] = sentence.Text
			}
			blocks = append(blocks, strings.Join(texts, " "))
		}
		if len(blocks) > 0 {
			return strings.Join(blocks, "\n\n")
		}
	}

	return alt.Transcript
}
