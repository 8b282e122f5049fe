package telegram

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vaani-bot/internal/docstore"
	"vaani-bot/internal/llm"
	"vaani-bot/internal/stats"
	"vaani-bot/internal/users"
)

type fakeSender struct{ sent []string }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if mc, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, mc.Text)
	}
	return tgbotapi.Message{}, nil
}

type fakeLLM struct {
	reply llm.Reply
	err   error
}

func (f fakeLLM) GenerateReply(ctx context.Context, prompt string) (llm.Reply, error) {
	return f.reply, f.err
}

func (f fakeLLM) Transcribe(ctx context.Context, audioPath string) (string, string, error) {
	return "", "", nil
}

func (f fakeLLM) Synthesize(ctx context.Context, text, outputPath string) error {
	return nil
}

func textUpdateMsg(userID, chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, UserName: "user"},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
	}
}

func TestHandleTextMessage_SendsReplyAndRecordsStats(t *testing.T) {
	store := docstore.NewMemoryStore()
	now := time.Date(2024, 7, 3, 12, 0, 0, 0, time.UTC)
	rec := stats.NewRecorder(store, stats.WithClock(func() time.Time { return now }))
	tracker, _ := users.NewTracker(nil)
	fs := &fakeSender{}
	b := &Bot{
		s:         fs,
		llmClient: fakeLLM{reply: llm.Reply{Language: "hindi", Answer: "उत्तर"}},
		recorder:  rec,
		users:     tracker,
	}

	b.handleTextMessage(context.Background(), textUpdateMsg(42, 100, "प्रश्न"))

	if len(fs.sent) != 1 || fs.sent[0] != "उत्तर" {
		t.Fatalf("reply not sent: %+v", fs.sent)
	}

	overall, err := rec.OverallStats(context.Background())
	if err != nil {
		t.Fatalf("overall: %v", err)
	}
	if overall.Interactions != 1 || overall.Voice != 0 || overall.ActiveUsers != 1 {
		t.Fatalf("stats not recorded: %+v", overall)
	}
	if len(overall.Languages) != 1 || overall.Languages[0].Lang != "hindi" {
		t.Fatalf("language not recorded: %+v", overall.Languages)
	}
}

func TestHandleTextMessage_DefaultsLanguageToEnglish(t *testing.T) {
	store := docstore.NewMemoryStore()
	rec := stats.NewRecorder(store)
	fs := &fakeSender{}
	b := &Bot{
		s:         fs,
		llmClient: fakeLLM{reply: llm.Reply{Answer: "plain answer"}}, // no detected language
		recorder:  rec,
	}

	b.handleTextMessage(context.Background(), textUpdateMsg(1, 1, "hi"))

	overall, _ := rec.OverallStats(context.Background())
	if len(overall.Languages) != 1 || overall.Languages[0].Lang != "english" {
		t.Fatalf("undetected language should fall back to english: %+v", overall.Languages)
	}
}

func TestHandleTextMessage_LLMFailureDoesNotRecord(t *testing.T) {
	store := docstore.NewMemoryStore()
	rec := stats.NewRecorder(store)
	fs := &fakeSender{}
	b := &Bot{
		s:         fs,
		llmClient: fakeLLM{err: context.DeadlineExceeded},
		recorder:  rec,
	}

	b.handleTextMessage(context.Background(), textUpdateMsg(1, 1, "hi"))

	if len(fs.sent) != 1 || !strings.Contains(fs.sent[0], "Sorry") {
		t.Fatalf("error reply not sent: %+v", fs.sent)
	}
	overall, _ := rec.OverallStats(context.Background())
	if overall.Interactions != 0 {
		t.Fatalf("failed interaction must not be recorded: %+v", overall)
	}
}

func TestWebhookHandler_RejectsWrongSecret(t *testing.T) {
	b := &Bot{webhookSecret: "expected"}
	h := b.WebhookHandler()

	req := httptest.NewRequest("POST", "/telegram/webhook", strings.NewReader(`{}`))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "wrong")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != 403 {
		t.Fatalf("want 403, got %d", w.Code)
	}
}

func TestWebhookHandler_AcceptsValidUpdate(t *testing.T) {
	store := docstore.NewMemoryStore()
	rec := stats.NewRecorder(store)
	fs := &fakeSender{}
	b := &Bot{
		s:             fs,
		llmClient:     fakeLLM{reply: llm.Reply{Language: "english", Answer: "ok"}},
		recorder:      rec,
		webhookSecret: "expected",
	}
	h := b.WebhookHandler()

	body := `{"update_id":1,"message":{"message_id":1,"from":{"id":42},"chat":{"id":100},"text":"hello"}}`
	req := httptest.NewRequest("POST", "/telegram/webhook", strings.NewReader(body))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "expected")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if len(fs.sent) != 1 || fs.sent[0] != "ok" {
		t.Fatalf("update not handled: %+v", fs.sent)
	}
	overall, _ := rec.OverallStats(context.Background())
	if overall.Interactions != 1 {
		t.Fatalf("webhook update not recorded: %+v", overall)
	}
}
