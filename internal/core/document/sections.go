package document

import (
	"regexp"
	"strings"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

var (
	sectionTitle       = regexp.MustCompile(`(?:과제명|사업명)[:：\s]*([^\n]+)`)
	sectionBudget      = regexp.MustCompile(`(?:예산|총\s*사업비|지원\s*규모)[:：\s]*([^\n]+)`)
	sectionPeriod      = regexp.MustCompile(`(?:수행\s*기간|사업\s*기간|과제\s*기간)[:：\s]*([^\n]+)`)
	sectionEligibility = regexp.MustCompile(`(?:신청\s*자격|참여\s*자격|지원\s*자격)[:：\s]*([^\n]+)`)
	sectionWindow      = regexp.MustCompile(`(?:접수\s*기간|신청\s*기간|모집\s*기간)[:：\s]*([^\n]+)`)
)

// ExtractSections pulls the labelled passages commonly found in government
// grant notices. Missing labels leave the field empty.
func ExtractSections(text string) domain.NoticeSections {
	return domain.NoticeSections{
		Title:             firstSubmatch(sectionTitle, text),
		Budget:            firstSubmatch(sectionBudget, text),
		Period:            firstSubmatch(sectionPeriod, text),
		Eligibility:       firstSubmatch(sectionEligibility, text),
		ApplicationWindow: firstSubmatch(sectionWindow, text),
	}
}

func firstSubmatch(pattern *regexp.Regexp, text string) string {
	match := pattern.FindStringSubmatch(text)
	if len(match) < 2 {
		return ""
	}
	return strings.TrimSpace(match[1])
}
