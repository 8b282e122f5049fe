package stats

import (
	"testing"
	"time"

	"vaani-bot/internal/docstore"
)

func TestApplyInteraction_AppendsInFirstSeenOrder(t *testing.T) {
	var langs []LanguageStat
	langs = ApplyInteraction(langs, "hindi", false)
	langs = ApplyInteraction(langs, "tamil", true)
	langs = ApplyInteraction(langs, "bengali", false)

	if len(langs) != 3 {
		t.Fatalf("want 3 entries, got %d", len(langs))
	}
	order := []string{"hindi", "tamil", "bengali"}
	for i, want := range order {
		if langs[i].Lang != want {
			t.Fatalf("order mismatch at %d: %+v", i, langs)
		}
		if langs[i].Interactions != 1 {
			t.Fatalf("new entry should start at 1: %+v", langs[i])
		}
	}
	if langs[0].Voice != 0 || langs[1].Voice != 1 {
		t.Fatalf("voice on first creation wrong: %+v", langs)
	}
}

func TestApplyInteraction_IncrementsExistingEntry(t *testing.T) {
	var langs []LanguageStat
	for i := 0; i < 5; i++ {
		langs = ApplyInteraction(langs, "hindi", i%2 == 0) // voice on 0,2,4
	}
	if len(langs) != 1 {
		t.Fatalf("duplicate entries for same language: %+v", langs)
	}
	if langs[0].Interactions != 5 || langs[0].Voice != 3 {
		t.Fatalf("want 5/3, got %+v", langs[0])
	}
	if langs[0].Voice > langs[0].Interactions {
		t.Fatalf("voice exceeds interactions: %+v", langs[0])
	}
}

func TestApplyInteraction_CaseSensitiveMatch(t *testing.T) {
	var langs []LanguageStat
	langs = ApplyInteraction(langs, "hindi", false)
	langs = ApplyInteraction(langs, "Hindi", false)
	if len(langs) != 2 {
		t.Fatalf("matching must be case-sensitive: %+v", langs)
	}
}

func TestWeekStartDate(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		// Monday maps to itself.
		{time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC), "20240701"},
		// Mid-week maps back to Monday.
		{time.Date(2024, 7, 4, 23, 59, 0, 0, time.UTC), "20240701"},
		// Sunday still belongs to the preceding Monday.
		{time.Date(2024, 7, 7, 0, 0, 1, 0, time.UTC), "20240701"},
		// Next Monday starts a new week.
		{time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC), "20240708"},
	}
	for _, c := range cases {
		if got := WeekStartDate(c.in); got != c.want {
			t.Fatalf("WeekStartDate(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLogID(t *testing.T) {
	ts := time.Date(2024, 7, 4, 15, 4, 5, 0, time.UTC)
	if got := LogID("42", ts); got != "20240704150405_42" {
		t.Fatalf("unexpected log id: %q", got)
	}
}

func TestDocumentFrom_MalformedDistributionIsEmpty(t *testing.T) {
	doc := documentFrom(docstore.Document{
		"interactions":          int64(7),
		"language_distribution": "not-an-array",
	})
	if doc.Interactions != 7 {
		t.Fatalf("counter lost: %+v", doc)
	}
	if len(doc.Languages) != 0 {
		t.Fatalf("malformed distribution should decode empty: %+v", doc.Languages)
	}
}

func TestLanguagesRoundTrip(t *testing.T) {
	in := []LanguageStat{
		{Lang: "hindi", Interactions: 2, Voice: 1},
		{Lang: "tamil", Interactions: 1, Voice: 0},
	}
	out := languagesFrom(languagesValue(in))
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
