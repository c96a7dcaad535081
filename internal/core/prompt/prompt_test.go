package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

func ptr[T any](v T) *T { return &v }

func sampleCompany() domain.Company {
	return domain.Company{
		Name:            "Hanbit Robotics",
		RegistrationID:  "123-45-67890",
		Representative:  "Kim Minji",
		FoundedDate:     time.Date(2019, time.December, 31, 0, 0, 0, 0, time.UTC),
		Address:         "Daejeon",
		LegalForm:       domain.LegalFormCorporation,
		SizeCategory:    "small",
		Revenue:         ptr(0.0),
		DebtRatio:       ptr(120.5),
		ResearcherCount: ptr(7),
		Technologies:    "machine vision",
	}
}

func TestFormatCompany(t *testing.T) {
	today := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	got := FormatCompany(sampleCompany(), today)

	assert.Contains(t, got, "- Founded (age): 2019-12-31 (7 years)")
	assert.Contains(t, got, "- Recent revenue: 0 (100M KRW)")
	assert.Contains(t, got, "- Debt ratio: 120.5%")
	assert.Contains(t, got, "- Full-time researchers: 7 researchers")
	assert.Contains(t, got, "- Patents held: (unset)")
	assert.Contains(t, got, "- Technologies: machine vision")
	assert.Contains(t, got, "- Certifications: (unset)")
	assert.False(t, strings.HasSuffix(got, "\n"))
}

func TestFormatCompanyUnsetMarkerMatchesSetFlags(t *testing.T) {
	company := sampleCompany()

	rendered := FormatCompany(company, time.Now())

	assert.Equal(t, len(company.MissingAttributes()), strings.Count(rendered, UnsetMarker))
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, EmptyHistory, FormatHistory(nil))

	got := FormatHistory([]domain.Project{
		{Name: "Vision QA", ManagingAgency: "KEIT", Outcome: domain.ProjectOutcomeSuccess, Summary: "defect detection", Keywords: []string{"vision", "AI"}},
		{Name: "Edge Gateway", ManagingAgency: "NIPA", Outcome: domain.ProjectOutcomeInProgress},
	})

	assert.Equal(t,
		"1. Vision QA / KEIT / success / defect detection / vision, AI\n"+
			"2. Edge Gateway / NIPA / in_progress / none / none",
		got)
}

func TestBuildInstructionPair(t *testing.T) {
	today := time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)
	content := strings.Repeat("신청자격: 중소기업\n", 2000)
	notice := domain.Notice{Title: "Smart Factory AI", Content: content}

	pair := BuildInstructionPair(notice, sampleCompany(), nil, today)

	require.Equal(t, SystemInstruction, pair.System)
	assert.Contains(t, pair.User, "## Today: 2026-10-17")
	assert.Contains(t, pair.User, content, "notice content must not be truncated")
	assert.Contains(t, pair.User, "Target notice: Smart Factory AI")
	assert.Contains(t, pair.User, EmptyHistory)
	assert.Contains(t, pair.User, "```json")
	for _, key := range []string{"eligibility_check", "quantitative_score_prediction", "qualitative_fit_analysis", "final_verdict"} {
		assert.Contains(t, pair.User, key)
	}
	assert.NotContains(t, pair.User, "%!")
}

func TestSystemInstructionIsFixed(t *testing.T) {
	a := BuildInstructionPair(domain.Notice{Title: "a", Content: "aaaaaaaaaaaa"}, domain.Company{}, nil, time.Now())
	b := BuildInstructionPair(domain.Notice{Title: "b", Content: "bbbbbbbbbbbb"}, sampleCompany(), []domain.Project{{Name: "x"}}, time.Now())

	assert.Equal(t, a.System, b.System)
	assert.Contains(t, a.System, "same program name AND the same managing agency")
	assert.Contains(t, a.System, "relevance >= 70")
}
