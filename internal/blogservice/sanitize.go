package blogservice

import "regexp"

var scriptTagPattern = regexp.MustCompile(`(?i)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

func sanitizeHTML(html string) string {
	return scriptTagPattern.ReplaceAllString(html, "")
}
