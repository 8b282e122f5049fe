package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"vaani-bot/internal/speech"
	"vaani-bot/internal/stats"
)

func (b *Bot) handleUpdate(ctx context.Context, update *tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	switch {
	case msg.Voice != nil:
		b.handleVoiceMessage(ctx, msg)
	case msg.Text != "":
		b.handleTextMessage(ctx, msg)
	}
}

func (b *Bot) handleTextMessage(ctx context.Context, msg *tgbotapi.Message) {
	log.Printf("Incoming text message from %d (@%s)", msg.From.ID, msg.From.UserName)
	ts := time.Now()

	reply, err := b.llmClient.GenerateReply(ctx, msg.Text)
	if err != nil {
		log.Printf("failed to generate reply: %v", err)
		b.sendMessage(msg.Chat.ID, "Sorry, something went wrong.")
		return
	}
	language := reply.Language
	if language == "" {
		language = "english"
	}

	b.sendMessage(msg.Chat.ID, reply.Answer)

	b.recordInteraction(ctx, stats.Interaction{
		UserID:    strconv.FormatInt(msg.From.ID, 10),
		Question:  msg.Text,
		Reply:     reply.Answer,
		Modality:  stats.ModalityText,
		Language:  language,
		Timestamp: ts,
	})
}

func (b *Bot) handleVoiceMessage(ctx context.Context, msg *tgbotapi.Message) {
	log.Printf("Incoming voice message from %d (@%s)", msg.From.ID, msg.From.UserName)
	ts := time.Now()
	userID := strconv.FormatInt(msg.From.ID, 10)

	localPath := filepath.Join(b.workDir, fmt.Sprintf("voice_%s_%s.ogg", userID, ts.Format("20060102150405")))
	if err := b.downloadVoice(msg.Voice.FileID, localPath); err != nil {
		log.Printf("failed to download voice message: %v", err)
		b.sendMessage(msg.Chat.ID, "Sorry, something went wrong.")
		return
	}

	transcript, detected, err := b.llmClient.Transcribe(ctx, localPath)
	if err != nil {
		log.Printf("failed to transcribe voice message: %v", err)
		b.sendMessage(msg.Chat.ID, "Sorry, something went wrong.")
		return
	}

	reply, err := b.llmClient.GenerateReply(ctx, transcript)
	if err != nil {
		log.Printf("failed to generate reply: %v", err)
		b.sendMessage(msg.Chat.ID, "Sorry, something went wrong.")
		return
	}
	language := reply.Language
	if language == "" {
		language = detected
	}

	b.sendMessage(msg.Chat.ID, reply.Answer)
	b.sendSpokenReply(ctx, msg.Chat.ID, reply.Answer, language)

	audioRef := localPath
	if b.uploader != nil {
		if uri, err := b.uploader.UploadAudio(ctx, localPath, userID); err != nil {
			log.Printf("failed to upload voice recording: %v", err)
		} else {
			audioRef = uri
			_ = os.Remove(localPath)
		}
	}

	b.recordInteraction(ctx, stats.Interaction{
		UserID:    userID,
		Question:  transcript,
		Reply:     reply.Answer,
		Modality:  stats.ModalityAudio,
		Language:  language,
		AudioRef:  audioRef,
		Timestamp: ts,
	})
}

// sendSpokenReply synthesizes the reply and sends it as an audio message.
// Languages without a mapped voice get a text-only reply.
func (b *Bot) sendSpokenReply(ctx context.Context, chatID int64, text, language string) {
	if b.tts == nil {
		return
	}
	voice, ok := speech.LookupVoice(language)
	if !ok {
		log.Printf("language %q has no mapped voice, skipping spoken reply", language)
		return
	}
	outputPath := filepath.Join(b.workDir, fmt.Sprintf("reply_%s.mp3", uuid.NewString()))
	if err := b.tts.Synthesize(ctx, text, voice, outputPath); err != nil {
		log.Printf("failed to synthesize spoken reply: %v", err)
		return
	}
	defer func() {
		_ = os.Remove(outputPath)
	}()

	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(outputPath))
	if _, err := b.s.Send(audio); err != nil {
		log.Printf("failed to send audio reply: %v", err)
	}
}

// recordInteraction persists the interaction's durable effects. The reply
// has already been sent, so failures here are logged and never surface to
// the user.
func (b *Bot) recordInteraction(ctx context.Context, in stats.Interaction) {
	newUser := false
	if b.users != nil {
		first, err := b.users.MarkSeen(in.UserID)
		if err != nil {
			log.Printf("failed to persist seen user %s: %v", in.UserID, err)
		}
		newUser = first
	}
	if b.recorder == nil {
		return
	}
	if err := b.recorder.Record(ctx, in, newUser); err != nil {
		log.Printf("failed to record interaction: %v", err)
	}
}

func (b *Bot) downloadVoice(fileID, outputPath string) error {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("resolve file url: %w", err)
	}
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create local file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("write local file: %w", err)
	}
	return nil
}
