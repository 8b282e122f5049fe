package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"vaani-bot/internal/blob"
	"vaani-bot/internal/config"
	"vaani-bot/internal/docstore"
	"vaani-bot/internal/llm"
	"vaani-bot/internal/scheduler"
	"vaani-bot/internal/secrets"
	"vaani-bot/internal/speech"
	"vaani-bot/internal/stats"
	"vaani-bot/internal/telegram"
	"vaani-bot/internal/users"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	ctx := context.Background()

	provider := newSecretsProvider(ctx, cfg)
	botToken := mustSecret(ctx, provider, "TELEGRAM_BOT_TOKEN")
	openAIKey := mustSecret(ctx, provider, "OPENAI_API_KEY")
	webhookSecret := optionalSecret(ctx, provider, "WEBHOOK_SECRET")
	googleCreds := optionalSecret(ctx, provider, "GOOGLE_APPLICATION_CREDENTIALS")

	var store docstore.Store
	if cfg.IsLocal() {
		log.Printf("Using in-process document store")
		store = docstore.NewMemoryStore()
	} else {
		fsStore, err := docstore.NewFirestoreStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("failed to init firestore: %v", err)
		}
		defer func() {
			_ = fsStore.Close()
		}()
		store = fsStore
	}
	recorder := stats.NewRecorder(store)

	llmClient := llm.NewOpenAI(openAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)

	var tts telegram.Synthesizer
	if googleCreds != "" {
		synth, err := speech.NewSynthesizer(ctx, []byte(googleCreds))
		if err != nil {
			log.Printf("failed to init google tts, spoken replies disabled: %v", err)
		} else {
			defer func() {
				_ = synth.Close()
			}()
			tts = synth
		}
	}

	var uploader blob.Uploader
	if cfg.IsLocal() {
		uploader = blob.NewLocalUploader(cfg.GCSAudioLogBucket)
	} else {
		up, err := blob.NewGCSUploader(ctx, cfg.GCSAudioLogBucket)
		if err != nil {
			log.Printf("failed to init gcs uploader, audio refs stay local: %v", err)
		} else {
			defer func() {
				_ = up.Close()
			}()
			uploader = up
		}
	}

	tracker := newTracker(cfg.SeenUsersFilePath)

	bot, err := telegram.New(botToken, webhookSecret, cfg.AudioWorkDir, llmClient, tts, uploader, recorder, tracker)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	if cfg.AdminChatID != 0 {
		sched := scheduler.New()
		sched.SetReportFunction(func(ctx context.Context) error {
			// Report on the week that just closed.
			weekID := stats.WeekStartDate(time.Now().UTC().AddDate(0, 0, -7))
			doc, err := recorder.WeeklyStats(ctx, weekID)
			if err != nil {
				return err
			}
			bot.Notify(cfg.AdminChatID, doc.ReportSummary())
			return nil
		})
		if err := sched.Start(); err != nil {
			log.Printf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	if cfg.WebhookListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle(cfg.WebhookPath, bot.WebhookHandler())
		log.Printf("listening for telegram webhooks on %s%s", cfg.WebhookListenAddr, cfg.WebhookPath)
		if err := http.ListenAndServe(cfg.WebhookListenAddr, mux); err != nil {
			log.Fatalf("webhook server failed: %v", err)
		}
		return
	}

	log.Printf("starting long polling")
	bot.Start(ctx)
}

func newSecretsProvider(ctx context.Context, cfg *config.Config) secrets.Provider {
	if cfg.IsLocal() {
		p, err := secrets.NewFileProvider(cfg.LocalSecretsPath)
		if err != nil {
			log.Fatalf("failed to load local secrets: %v", err)
		}
		return p
	}
	p, err := secrets.NewManagerProvider(ctx, cfg.GCPProjectID)
	if err != nil {
		log.Fatalf("failed to init secret manager: %v", err)
	}
	return p
}

func mustSecret(ctx context.Context, p secrets.Provider, key string) string {
	v, err := p.Get(ctx, key)
	if err != nil {
		log.Fatalf("failed to resolve secret %s: %v", key, err)
	}
	return v
}

func optionalSecret(ctx context.Context, p secrets.Provider, key string) string {
	v, err := p.Get(ctx, key)
	if err != nil {
		log.Printf("secret %s not configured: %v", key, err)
		return ""
	}
	return v
}

func newTracker(path string) *users.Tracker {
	repo, err := users.NewFileRepository(path)
	if err != nil {
		log.Printf("failed to init seen-users repo: %v", err)
		t, _ := users.NewTracker(nil)
		return t
	}
	t, err := users.NewTracker(repo)
	if err != nil {
		log.Printf("failed to load seen users: %v", err)
		t, _ = users.NewTracker(nil)
	}
	return t
}
