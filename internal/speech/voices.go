package speech

import "strings"

// Voice selects a Google Cloud TTS voice: a BCP-47 language code and an
// optional concrete voice name.
type Voice struct {
	LanguageCode string
	Name         string
}

// languageVoices maps the lowercase language names the LLM detects onto
// Google TTS voices. Languages without a concrete voice name fall back to
// the code's standard voice at synthesis time.
var languageVoices = map[string]Voice{
	"hindi":      {LanguageCode: "hi-IN"},
	"bengali":    {LanguageCode: "bn-IN"},
	"marathi":    {LanguageCode: "mr-IN"},
	"tamil":      {LanguageCode: "ta-IN"},
	"telugu":     {LanguageCode: "te-IN"},
	"gujarati":   {LanguageCode: "gu-IN"},
	"kannada":    {LanguageCode: "kn-IN"},
	"malayalam":  {LanguageCode: "ml-IN"},
	"punjabi":    {LanguageCode: "pa-IN"},
	"urdu":       {LanguageCode: "ur-IN"},
	"english":    {LanguageCode: "en-IN"},
	"spanish":    {LanguageCode: "es-ES", Name: "es-ES-Standard-G"},
	"french":     {LanguageCode: "fr-FR", Name: "fr-FR-Standard-G"},
	"german":     {LanguageCode: "de-DE", Name: "de-DE-Standard-H"},
	"portuguese": {LanguageCode: "pt-PT", Name: "pt-BR-Standard-B"},
	"russian":    {LanguageCode: "ru-RU", Name: "ru-RU-Standard-B"},
	"japanese":   {LanguageCode: "ja-JP", Name: "ja-JP-Standard-C"},
	"chinese":    {LanguageCode: "zh-CN", Name: "cmn-CN-Standard-B"},
	"arabic":     {LanguageCode: "ar-XA"},
}

// LookupVoice resolves a detected language name to a TTS voice. The
// second return is false for unmapped languages; callers then skip the
// spoken reply.
func LookupVoice(language string) (Voice, bool) {
	v, ok := languageVoices[strings.ToLower(language)]
	return v, ok
}
