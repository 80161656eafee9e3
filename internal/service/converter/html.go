package converter

import (
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"docvault/internal/service/converter/sanitizer"
)

// HTMLConverter turns untrusted HTML into markdown document content.
// Two stages: sanitize first, then convert, so script payloads never reach
// the markdown converter at all.
type HTMLConverter struct {
	sanitizer *sanitizer.Sanitizer
	converter *md.Converter
}

// NewHTMLConverter creates an HTML to markdown converter
func NewHTMLConverter() *HTMLConverter {
	return &HTMLConverter{
		sanitizer: sanitizer.NewUGC(),
		converter: md.NewConverter("", true, nil),
	}
}

// Convert sanitizes the HTML and renders it as markdown
func (c *HTMLConverter) Convert(html string) (string, error) {
	sanitized := c.sanitizer.Sanitize(html)

	markdown, err := c.converter.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}
