package blogservice

import "regexp"

var scriptTagPattern = regexp.MustCompile(`(?i)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

// sanitizeText strips script tags from the submitted Markdown before it
// is persisted.
func sanitizeText(text string) string {
	return scriptTagPattern.ReplaceAllString(text, "")
}
