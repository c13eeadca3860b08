package cache

import "regexp"

// PreviewLength is the maximum rune count of a stored source preview.
const PreviewLength = 100

var (
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlPattern        = regexp.MustCompile(`https?://[^\s]+`)
	longDigitsPattern = regexp.MustCompile(`\d{6,}`)
)

// MaskSensitive replaces email-like tokens, URL-like tokens, and digit runs
// of six or more with fixed placeholders.
func MaskSensitive(text string) string {
	text = emailPattern.ReplaceAllString(text, "[EMAIL]")
	text = urlPattern.ReplaceAllString(text, "[URL]")
	text = longDigitsPattern.ReplaceAllString(text, "[***]")
	return text
}

// SafePreview builds the preview stored alongside a cache entry: sensitive
// patterns are masked first so truncation cannot expose a partial match,
// then the result is cut to PreviewLength runes.
func SafePreview(text string) string {
	masked := MaskSensitive(text)
	runes := []rune(masked)
	if len(runes) > PreviewLength {
		return string(runes[:PreviewLength])
	}
	return masked
}
