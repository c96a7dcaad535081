package document

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxFirstLineTitle = 50
	maxLabelledTitle  = 200
)

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:과제명|사업명|공고명)[:：\s]*([^\n]+)`),
	regexp.MustCompile(`공\s*고\s*문[:：\s]*([^\n]+)`),
	regexp.MustCompile(`(?i)(?:project|program|notice)\s+(?:name|title)[:\s]*([^\n]+)`),
}

// ExtractTitle picks a notice title from the text of the first page. A
// labelled line wins over the first-line fallback. The second return value is
// false when no title could be found.
func ExtractTitle(firstPage string) (string, bool) {
	if strings.TrimSpace(firstPage) == "" {
		return "", false
	}
	for _, pattern := range titlePatterns {
		match := pattern.FindStringSubmatch(firstPage)
		if len(match) < 2 {
			continue
		}
		candidate := strings.TrimSpace(match[1])
		if n := utf8.RuneCountInString(candidate); n > 2 && n < maxLabelledTitle {
			return candidate, true
		}
	}
	for _, line := range strings.Split(firstPage, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= maxFirstLineTitle {
			return line, true
		}
		break
	}
	return "", false
}
