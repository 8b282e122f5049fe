package speech

import (
	"context"
	"fmt"
	"os"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

// Synthesizer renders reply text to MP3 with Google Cloud TTS.
type Synthesizer struct {
	client *texttospeech.Client
}

// NewSynthesizer builds a client from a service-account key in JSON form
// (the value of the GOOGLE_APPLICATION_CREDENTIALS secret). An empty key
// falls back to ambient credentials.
func NewSynthesizer(ctx context.Context, credentialsJSON []byte) (*Synthesizer, error) {
	var opts []option.ClientOption
	if len(credentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	}
	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create texttospeech client: %w", err)
	}
	return &Synthesizer{client: client}, nil
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string, v Voice, outputPath string) error {
	name := v.Name
	if name == "" {
		name = v.LanguageCode + "-Standard-B"
	}
	resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: v.LanguageCode,
			Name:         name,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return fmt.Errorf("synthesize speech: %w", err)
	}
	if err := os.WriteFile(outputPath, resp.AudioContent, 0o644); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}
	return nil
}

func (s *Synthesizer) Close() error {
	return s.client.Close()
}
