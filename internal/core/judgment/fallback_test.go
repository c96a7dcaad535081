package judgment

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

func ptr[T any](v T) *T { return &v }

func companyWithMissing(n int) domain.Company {
	c := domain.Company{
		Name:            "Hanbit Robotics",
		FoundedDate:     time.Date(2018, time.March, 2, 0, 0, 0, 0, time.UTC),
		Revenue:         ptr(35.0),
		DebtRatio:       ptr(80.0),
		ResearcherCount: ptr(6),
		PatentCount:     ptr(3),
		Technologies:    "machine vision",
		Certifications:  "venture certified",
	}
	unset := []func(*domain.Company){
		func(c *domain.Company) { c.Revenue = nil },
		func(c *domain.Company) { c.DebtRatio = nil },
		func(c *domain.Company) { c.ResearcherCount = nil },
		func(c *domain.Company) { c.PatentCount = nil },
		func(c *domain.Company) { c.Technologies = "" },
		func(c *domain.Company) { c.Certifications = "  " },
	}
	for i := 0; i < n; i++ {
		unset[i](&c)
	}
	return c
}

var oneProject = []domain.Project{{Name: "Vision QA", ManagingAgency: "KEIT", Outcome: domain.ProjectOutcomeSuccess}}

func TestDecisionTable(t *testing.T) {
	fail := Decision{Status: domain.EligibilityFail, Light: domain.TrafficLightRed, Score: 30, Relevance: 20}
	conditional := Decision{Status: domain.EligibilityConditional, Light: domain.TrafficLightYellow, Score: 50, Relevance: 45}
	pass := Decision{Status: domain.EligibilityPass, Light: domain.TrafficLightYellow, Score: 65, Relevance: 60}

	for missing := 0; missing <= 6; missing++ {
		for _, hasProjects := range []bool{false, true} {
			many := missing >= 3
			want := pass
			switch {
			case many && !hasProjects:
				want = fail
			case many || !hasProjects:
				want = conditional
			}
			assert.Equal(t, want, Decide(missing, hasProjects), "missing=%d projects=%v", missing, hasProjects)
		}
	}
}

func TestClassifyNeverGreen(t *testing.T) {
	for missing := 0; missing <= 6; missing++ {
		for _, history := range [][]domain.Project{nil, oneProject} {
			result, raw := Classify(companyWithMissing(missing), history)
			assert.NotEqual(t, domain.TrafficLightGreen, result.FinalVerdict.TrafficLight)
			assert.Len(t, result.EligibilityCheck.CheckedItems, 4)
			assert.Contains(t, result.QualitativeFit.Reasoning, strconv.Itoa(missing))
			assert.Contains(t, result.FinalVerdict.Summary, strconv.Itoa(missing))
			assert.Contains(t, result.QualitativeFit.Reasoning, "non-AI")

			var decoded domain.AssessmentResult
			require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
			assert.Equal(t, result, decoded)
		}
	}
}

func TestClassifyScenarioAllUnsetNoHistory(t *testing.T) {
	result, _ := Classify(companyWithMissing(6), nil)

	assert.Equal(t, domain.EligibilityFail, result.EligibilityCheck.Status)
	assert.Equal(t, domain.TrafficLightRed, result.FinalVerdict.TrafficLight)
	assert.True(t, strings.HasPrefix(result.QuantitativePrediction.EstimatedScore, "30"))
	assert.Equal(t, 20, result.QualitativeFit.RelevanceScore)
	assert.Len(t, result.QuantitativePrediction.Weaknesses, 7)
	assert.Contains(t, result.QuantitativePrediction.Weaknesses, "revenue unset → scored as zero")
	assert.Contains(t, result.QuantitativePrediction.Weaknesses, "no prior project history")
	assert.Empty(t, result.QuantitativePrediction.Strengths)
	assert.Contains(t, result.FinalVerdict.Summary, "before re-assessing")
}

func TestClassifyScenarioFewMissingNoHistory(t *testing.T) {
	result, _ := Classify(companyWithMissing(2), nil)

	assert.Equal(t, domain.EligibilityConditional, result.EligibilityCheck.Status)
	assert.Equal(t, domain.TrafficLightYellow, result.FinalVerdict.TrafficLight)
	assert.True(t, strings.HasPrefix(result.QuantitativePrediction.EstimatedScore, "50"))
	assert.Equal(t, 45, result.QualitativeFit.RelevanceScore)
	assert.Contains(t, result.FinalVerdict.Summary, "revenue, debt ratio")
	assert.Contains(t, result.FinalVerdict.Summary, "penalty")
}

func TestClassifyScenarioCompleteWithHistory(t *testing.T) {
	result, _ := Classify(companyWithMissing(0), oneProject)

	assert.Equal(t, domain.EligibilityPass, result.EligibilityCheck.Status)
	assert.Equal(t, domain.TrafficLightYellow, result.FinalVerdict.TrafficLight)
	assert.True(t, strings.HasPrefix(result.QuantitativePrediction.EstimatedScore, "65"))
	assert.Equal(t, 60, result.QualitativeFit.RelevanceScore)
	assert.Equal(t, []string{"has prior project experience"}, result.QuantitativePrediction.Strengths)
	assert.Empty(t, result.QuantitativePrediction.Weaknesses)
	assert.Empty(t, result.EligibilityCheck.FailReason)
}

func TestClassifyZeroValuedNumbersAreSet(t *testing.T) {
	c := companyWithMissing(0)
	c.Revenue = ptr(0.0)
	c.PatentCount = ptr(0)

	result, _ := Classify(c, oneProject)

	assert.Equal(t, domain.EligibilityPass, result.EligibilityCheck.Status)
	assert.Contains(t, result.EligibilityCheck.CheckedItems, "Profile completeness: PASS")
}
