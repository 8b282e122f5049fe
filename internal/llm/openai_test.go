package llm

import "testing"

func TestParseReply_ValidJSON(t *testing.T) {
	r := parseReply(`{"language":"Hindi","answer":"नमस्ते"}`)
	if r.Language != "hindi" {
		t.Fatalf("language not lowercased: %q", r.Language)
	}
	if r.Answer != "नमस्ते" {
		t.Fatalf("answer wrong: %q", r.Answer)
	}
}

func TestParseReply_MalformedJSONFallsBackToRawAnswer(t *testing.T) {
	raw := "Sorry, I could not answer that."
	r := parseReply(raw)
	if r.Language != "" {
		t.Fatalf("language should be empty on parse failure: %q", r.Language)
	}
	if r.Answer != raw {
		t.Fatalf("raw content should become the answer: %q", r.Answer)
	}
}
