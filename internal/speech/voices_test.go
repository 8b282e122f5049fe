package speech

import "testing"

func TestLookupVoice_MappedLanguages(t *testing.T) {
	v, ok := LookupVoice("hindi")
	if !ok || v.LanguageCode != "hi-IN" {
		t.Fatalf("hindi lookup failed: %+v ok=%v", v, ok)
	}
	v, ok = LookupVoice("japanese")
	if !ok || v.Name != "ja-JP-Standard-C" {
		t.Fatalf("japanese voice name wrong: %+v", v)
	}
}

func TestLookupVoice_IsCaseInsensitive(t *testing.T) {
	if _, ok := LookupVoice("Hindi"); !ok {
		t.Fatalf("lookup should lowercase its input")
	}
}

func TestLookupVoice_UnmappedLanguage(t *testing.T) {
	if _, ok := LookupVoice("klingon"); ok {
		t.Fatalf("unmapped language should not resolve")
	}
}
