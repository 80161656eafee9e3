package service

import (
	"strings"
	"unicode"
)

// countWords counts words in markdown text, ignoring markup
func countWords(markdown string) int {
	text := cleanMarkdown(markdown)
	words := strings.FieldsFunc(text, unicode.IsSpace)

	count := 0
	for _, word := range words {
		if len(strings.TrimSpace(word)) > 0 {
			count++
		}
	}
	return count
}

// cleanMarkdown strips common markdown syntax so markers do not count as words
func cleanMarkdown(markdown string) string {
	text := removeCodeBlocks(markdown)

	text = strings.ReplaceAll(text, "`", "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	text = strings.ReplaceAll(text, "__", "")
	text = strings.ReplaceAll(text, "_", "")
	text = strings.ReplaceAll(text, "~~", "")
	text = strings.ReplaceAll(text, "#", "")

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			line = strings.TrimPrefix(line, "- ")
		} else if strings.HasPrefix(line, "* ") {
			line = strings.TrimPrefix(line, "* ")
		}
		if len(line) > 2 && unicode.IsDigit(rune(line[0])) && line[1] == '.' {
			line = line[2:]
		}
		cleaned = append(cleaned, line)
	}
	text = strings.Join(cleaned, " ")

	text = strings.ReplaceAll(text, ">", "")
	text = strings.ReplaceAll(text, "---", "")
	text = strings.ReplaceAll(text, "***", "")

	return text
}

// removeCodeBlocks drops fenced ```...``` blocks
func removeCodeBlocks(text string) string {
	for {
		start := strings.Index(text, "```")
		if start == -1 {
			break
		}
		end := strings.Index(text[start+3:], "```")
		if end == -1 {
			break
		}
		text = text[:start] + text[start+end+6:]
	}
	return text
}
