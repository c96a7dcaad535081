// Package document normalizes text extracted from grant notices.
package document

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	inlineSpaceRun = regexp.MustCompile(`[\p{Zs}\t\v\f\r\x{feff}\x{2028}\x{2029}]+`)
	blankLineRun   = regexp.MustCompile(`\n{3,}`)
)

// Cleanup normalizes whitespace. Applying it to its own output is a no-op.
func Cleanup(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", " ")
	text = inlineSpaceRun.ReplaceAllString(text, " ")
	text = blankLineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// JoinPages concatenates page texts in order with a blank line between pages
// and normalizes the result.
func JoinPages(pages []string) string {
	return Cleanup(strings.Join(pages, "\n\n"))
}

// Preview returns at most maxRunes characters of text, marking a cut with "...".
func Preview(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "..."
}
