package config

import (
	"log"
	"strings"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Environment  string `env:"ENVIRONMENT" envDefault:"CLOUD"`
	GCPProjectID string `env:"GCP_PROJECT_ID"`

	// Secrets
	LocalSecretsPath string `env:"LOCAL_SECRETS_PATH" envDefault:"secrets.local.json"`

	// Webhook server; empty address means long polling
	WebhookListenAddr string `env:"WEBHOOK_LISTEN_ADDR"`
	WebhookPath       string `env:"WEBHOOK_PATH" envDefault:"/telegram/webhook"`

	// LLM settings
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4.1-nano"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	// Storage
	GCSAudioLogBucket string `env:"GCS_AUDIO_LOG_BUCKET" envDefault:"error-bucket-name"`
	SeenUsersFilePath string `env:"SEEN_USERS_FILE_PATH" envDefault:"data/seen_users.json"`
	AudioWorkDir      string `env:"AUDIO_WORK_DIR" envDefault:"data/audio"`

	// Weekly report
	AdminChatID int64 `env:"ADMIN_CHAT_ID"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// IsLocal reports whether the process runs in local development mode:
// secrets from a file, the in-process document store, no blob uploads.
func (c *Config) IsLocal() bool {
	return strings.EqualFold(c.Environment, "LOCAL")
}
