package llm

import "context"

// Reply is a generated answer plus the language the model detected in
// the user's prompt (lowercase English name, e.g. "hindi"). Language is
// empty when detection failed.
type Reply struct {
	Language string
	Answer   string
}

type Client interface {
	// GenerateReply answers the prompt in the prompt's own language.
	GenerateReply(ctx context.Context, prompt string) (Reply, error)
	// Transcribe converts an audio file to text and reports the spoken
	// language as a lowercase English name.
	Transcribe(ctx context.Context, audioPath string) (text, language string, err error)
	// Synthesize renders text to speech into outputPath. Used as the
	// fallback when no Google voice is mapped for the reply language.
	Synthesize(ctx context.Context, text, outputPath string) error
}
