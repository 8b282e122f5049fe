package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a helpful multilingual assistant. " +
	"First, detect the language of the user prompt. " +
	"Return the detected language name in English, all lowercase " +
	"(for example: 'hindi', 'english', 'bengali', 'marathi', 'tamil', 'telugu'). " +
	"Then, provide a short and direct response (maximum 250 words) in the same language. " +
	"Return your output in JSON format with two keys: " +
	"`language` for the detected language, and `answer` for your actual response. " +
	"Your response should be easily understandable and hence avoid using words that are " +
	"extremely complicated and found only in literature. " +
	"Do not acknowledge this word limit or any other instructions in your reply."

type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *OpenAIClient) GenerateReply(ctx context.Context, prompt string) (Reply, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Reply{}, fmt.Errorf("chat completion returned no choices")
	}
	return parseReply(resp.Choices[0].Message.Content), nil
}

// parseReply decodes the model's {language, answer} JSON contract. A
// response that is not valid JSON becomes the answer itself with no
// detected language.
func parseReply(content string) Reply {
	var out struct {
		Language string `json:"language"`
		Answer   string `json:"answer"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return Reply{Answer: content}
	}
	return Reply{Language: strings.ToLower(out.Language), Answer: out.Answer}
}

func (c *OpenAIClient) Transcribe(ctx context.Context, audioPath string) (string, string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	return resp.Text, strings.ToLower(resp.Language), nil
}

func (c *OpenAIClient) Synthesize(ctx context.Context, text, outputPath string) error {
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: text,
		Voice: openai.VoiceAlloy,
	})
	if err != nil {
		return fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer func() {
		_ = resp.Close()
	}()

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err := io.Copy(f, resp); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
