package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vaani-bot/internal/blob"
	"vaani-bot/internal/llm"
	"vaani-bot/internal/speech"
	"vaani-bot/internal/stats"
	"vaani-bot/internal/users"
)

// Synthesizer renders reply text to a spoken MP3 file.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, v speech.Voice, outputPath string) error
}

type Bot struct {
	api           *tgbotapi.BotAPI
	s             sender
	llmClient     llm.Client
	tts           Synthesizer // nil when no TTS credentials are configured
	uploader      blob.Uploader
	recorder      *stats.Recorder
	users         *users.Tracker
	workDir       string
	webhookSecret string
}

func New(botToken, webhookSecret, workDir string, llmClient llm.Client, tts Synthesizer, uploader blob.Uploader, recorder *stats.Recorder, tracker *users.Tracker) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure audio work dir: %w", err)
	}
	return &Bot{
		api:           api,
		s:             botAPISender{api: api},
		llmClient:     llmClient,
		tts:           tts,
		uploader:      uploader,
		recorder:      recorder,
		users:         tracker,
		workDir:       workDir,
		webhookSecret: webhookSecret,
	}, nil
}

// Start consumes updates via long polling. Used for local development;
// the cloud deployment receives updates through WebhookHandler.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		b.handleUpdate(ctx, &update)
	}
}

// WebhookHandler serves Telegram webhook calls. Requests must carry the
// shared secret in X-Telegram-Bot-Api-Secret-Token.
func (b *Bot) WebhookHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.webhookSecret != "" && r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != b.webhookSecret {
			log.Printf("unauthorized webhook call blocked")
			http.Error(w, "Unauthorized", http.StatusForbidden)
			return
		}
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		b.handleUpdate(r.Context(), &update)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

// Notify sends a plain text message, used for the scheduled stats report.
func (b *Bot) Notify(chatID int64, text string) {
	b.sendMessage(chatID, text)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
