// Package prompt renders the instruction pair sent to a judgment engine.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

// UnsetMarker is rendered in place of a scored attribute that was not provided.
const UnsetMarker = "(unset)"

// EmptyHistory is rendered when the company has no registered projects.
const EmptyHistory = "no prior projects registered."

var attributeLabels = map[string]string{
	"revenue":          "Recent revenue",
	"debt ratio":       "Debt ratio",
	"researcher count": "Full-time researchers",
	"patent count":     "Patents held",
	"technologies":     "Technologies",
	"certifications":   "Certifications",
}

// FormatCompany renders the company block. Age is calendar-year subtraction.
func FormatCompany(c domain.Company, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Company name: %s\n", c.Name)
	fmt.Fprintf(&b, "- Business registration number: %s\n", c.RegistrationID)
	fmt.Fprintf(&b, "- Representative: %s\n", c.Representative)
	fmt.Fprintf(&b, "- Founded (age): %s (%d years)\n", formatDate(c.FoundedDate), companyAge(c.FoundedDate, today))
	fmt.Fprintf(&b, "- Address: %s\n", c.Address)
	fmt.Fprintf(&b, "- Company type: %s, %s\n", c.LegalForm, c.SizeCategory)

	attrs := c.ScoredAttributes()
	for i, attr := range attrs {
		value := UnsetMarker
		if attr.Set {
			value = attr.Value
		}
		label, ok := attributeLabels[attr.Name]
		if !ok {
			label = attr.Name
		}
		fmt.Fprintf(&b, "- %s: %s", label, value)
		if i < len(attrs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FormatHistory renders one line per project, 1-indexed in input order.
func FormatHistory(items []domain.Project) string {
	if len(items) == 0 {
		return EmptyHistory
	}
	lines := make([]string, 0, len(items))
	for i, p := range items {
		lines = append(lines, fmt.Sprintf("%d. %s / %s / %s / %s / %s",
			i+1,
			p.Name,
			p.ManagingAgency,
			p.Outcome,
			orNone(p.Summary),
			orNone(strings.Join(p.Keywords, ", ")),
		))
	}
	return strings.Join(lines, "\n")
}

func companyAge(founded, today time.Time) int {
	if founded.IsZero() {
		return 0
	}
	return today.Year() - founded.Year()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return UnsetMarker
	}
	return t.Format(time.DateOnly)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}
