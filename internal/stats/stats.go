package stats

import (
	"time"

	"vaani-bot/internal/docstore"
)

const (
	logsCollection  = "logs"
	statsCollection = "public_stats"
	overallDocID    = "overall_summary"
)

type Modality string

const (
	ModalityText  Modality = "text"
	ModalityAudio Modality = "audio"
)

// Interaction is one handled chat message, immutable once logged.
type Interaction struct {
	UserID    string
	Question  string
	Reply     string
	Modality  Modality
	Language  string // lowercase canonical name, empty until detected
	AudioRef  string // gs:// URI of the inbound audio, if any
	Timestamp time.Time
}

// LanguageStat is one entry of a document's language_distribution array.
type LanguageStat struct {
	Lang         string
	Interactions int64
	Voice        int64
}

// Document is the decoded form of a stats document. A document that was
// never written decodes to the zero value.
type Document struct {
	Interactions  int64
	Voice         int64
	ActiveUsers   int64          // overall document only
	WeekStartDate string         // weekly document only
	Languages     []LanguageStat // first-seen order, one entry per language
}

// ApplyInteraction returns the language distribution after counting one
// interaction. Matching is case-sensitive on the canonical lowercase name
// produced upstream. A new language is appended, so first-seen order is
// preserved.
func ApplyInteraction(langs []LanguageStat, lang string, isVoice bool) []LanguageStat {
	for i := range langs {
		if langs[i].Lang != lang {
			continue
		}
		langs[i].Interactions++
		if isVoice {
			langs[i].Voice++
		}
		return langs
	}
	entry := LanguageStat{Lang: lang, Interactions: 1}
	if isVoice {
		entry.Voice = 1
	}
	return append(langs, entry)
}

// WeekStartDate returns the YYYYMMDD date of the most recent Monday at or
// before t, the key of the rolling weekly stats document.
func WeekStartDate(t time.Time) string {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return monday.Format("20060102")
}

// WeekDocID returns the document ID for a weekly stats document.
func WeekDocID(weekStartDate string) string { return "week_" + weekStartDate }

// LogID derives the log document ID for an interaction. Two interactions
// from the same user within the same second map to the same ID; the
// second write overwrites the first.
func LogID(userID string, ts time.Time) string {
	return ts.Format("20060102150405") + "_" + userID
}

// documentFrom decodes a stored stats document. Missing or malformed
// fields fall back to zero values; a malformed language_distribution is
// treated as empty.
func documentFrom(d docstore.Document) Document {
	doc := Document{
		Interactions: intField(d, "interactions"),
		Voice:        intField(d, "voice"),
		ActiveUsers:  intField(d, "active_users"),
		Languages:    languagesFrom(d["language_distribution"]),
	}
	if s, ok := d["week_start_date"].(string); ok {
		doc.WeekStartDate = s
	}
	return doc
}

func intField(d docstore.Document, key string) int64 {
	switch v := d[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func languagesFrom(v any) []LanguageStat {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var langs []LanguageStat
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry := LanguageStat{
			Interactions: intValue(m["interactions"]),
			Voice:        intValue(m["voice"]),
		}
		if s, ok := m["lang"].(string); ok {
			entry.Lang = s
		}
		langs = append(langs, entry)
	}
	return langs
}

func intValue(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}

// languagesValue encodes the distribution for storage.
func languagesValue(langs []LanguageStat) []any {
	out := make([]any, 0, len(langs))
	for _, l := range langs {
		out = append(out, map[string]any{
			"lang":         l.Lang,
			"interactions": l.Interactions,
			"voice":        l.Voice,
		})
	}
	return out
}
