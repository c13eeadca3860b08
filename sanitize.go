package lingotray

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// SanitizeInput keeps only characters the translation model handles well:
// ASCII alphanumerics and punctuation, whitespace, and the Japanese script
// ranges (Hiragana, Katakana, CJK ideographs, CJK punctuation, fullwidth
// forms). Everything else, emoji in particular, is dropped so special
// symbols cannot confuse the model.
func SanitizeInput(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, c := range text {
		switch {
		case c < 128 && (unicode.IsLetter(c) || unicode.IsDigit(c) || unicode.IsPunct(c) || c == '$' || c == '+' || c == '<' || c == '=' || c == '>' || c == '^' || c == '`' || c == '|' || c == '~'):
			b.WriteRune(c)
		case unicode.IsSpace(c):
			b.WriteRune(c)
		case c >= 0x3040 && c <= 0x309F: // Hiragana
			b.WriteRune(c)
		case c >= 0x30A0 && c <= 0x30FF: // Katakana
			b.WriteRune(c)
		case c >= 0x4E00 && c <= 0x9FAF: // CJK Unified Ideographs
			b.WriteRune(c)
		case c >= 0x3000 && c <= 0x303F: // CJK punctuation
			b.WriteRune(c)
		case c >= 0xFF00 && c <= 0xFFEF: // Fullwidth forms
			b.WriteRune(c)
		}
	}
	return b.String()
}

// looksLikeHTML reports whether s appears to be markup rather than plain
// text, by scanning for a start tag with a known-looking element name.
func looksLikeHTML(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if len(name) > 0 {
				return true
			}
		}
	}
}

// ExtractText strips markup from HTML content and returns the visible text
// with whitespace collapsed. Script and style bodies are discarded.
func ExtractText(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// PrepareInput readies clipboard text for the provider: markup is reduced to
// its visible text, then the character allowlist is applied.
func PrepareInput(text string) string {
	if looksLikeHTML(text) {
		text = ExtractText(text)
	}
	return SanitizeInput(text)
}
