package provider

import "fmt"

// DefaultSystemPrompt drives bidirectional Japanese/English translation with
// automatic language detection.
const DefaultSystemPrompt = `You are a Japanese-English translator.

Detect the dominant language and translate to the other language (Japanese ↔ English).

Output formatting:
- Use clear paragraph breaks for readability
- Preserve code blocks, URLs, and technical terms exactly as-is
- For lists, maintain bullet/number formatting

Only output the translation.`

// LanguageNames maps short language codes to human-readable names for prompts.
var LanguageNames = map[string]string{
	"en": "English",
	"ja": "Japanese",
	"de": "German",
	"es": "Spanish",
	"fr": "French",
	"it": "Italian",
	"ko": "Korean",
	"pt": "Portuguese",
	"ru": "Russian",
	"zh": "Chinese",
}

// GetLanguageName returns the human-readable name for a language code, or
// the code itself if unknown.
func GetLanguageName(code string) string {
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	return code
}

// SystemPromptForPair builds a system prompt for a specific language pair.
// Either code may be empty; with both empty it falls back to
// DefaultSystemPrompt.
func SystemPromptForPair(source, target string) string {
	if source == "" && target == "" {
		return DefaultSystemPrompt
	}
	if source == "" {
		return fmt.Sprintf(`You are a translator. Detect the source language and translate to %s.

Output formatting:
- Use clear paragraph breaks for readability
- Preserve code blocks, URLs, and technical terms exactly as-is
- For lists, maintain bullet/number formatting

Only output the translation.`, GetLanguageName(target))
	}
	return fmt.Sprintf(`You are a %s-%s translator. Translate the provided text from %s to %s.

Output formatting:
- Use clear paragraph breaks for readability
- Preserve code blocks, URLs, and technical terms exactly as-is
- For lists, maintain bullet/number formatting

Only output the translation.`,
		GetLanguageName(source), GetLanguageName(target),
		GetLanguageName(source), GetLanguageName(target))
}
