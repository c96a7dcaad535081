package judgment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

// manyMissingThreshold is the number of unset scored attributes at which a
// profile is considered too incomplete to score.
const manyMissingThreshold = 3

// Decision is one row of the fallback decision table.
type Decision struct {
	Status    domain.EligibilityStatus
	Light     domain.TrafficLight
	Score     int
	Relevance int
}

// Decide applies the decision table. The first matching row wins.
func Decide(missing int, hasProjects bool) Decision {
	manyMissing := missing >= manyMissingThreshold
	switch {
	case manyMissing && !hasProjects:
		return Decision{Status: domain.EligibilityFail, Light: domain.TrafficLightRed, Score: 30, Relevance: 20}
	case manyMissing || !hasProjects:
		return Decision{Status: domain.EligibilityConditional, Light: domain.TrafficLightYellow, Score: 50, Relevance: 45}
	default:
		return Decision{Status: domain.EligibilityPass, Light: domain.TrafficLightYellow, Score: 65, Relevance: 60}
	}
}

// Classify produces a conservative assessment from profile completeness and
// project history alone. The second return value is the serialized result,
// kept as the raw trace.
func Classify(company domain.Company, history []domain.Project) (domain.AssessmentResult, string) {
	missing := company.MissingAttributes()
	hasProjects := len(history) > 0
	decision := Decide(len(missing), hasProjects)

	strengths := []string{}
	if hasProjects {
		strengths = append(strengths, "has prior project experience")
	}
	weaknesses := make([]string, 0, len(missing)+1)
	for _, name := range missing {
		weaknesses = append(weaknesses, name+" unset → scored as zero")
	}
	if !hasProjects {
		weaknesses = append(weaknesses, "no prior project history")
	}

	result := domain.AssessmentResult{
		EligibilityCheck: domain.EligibilityCheck{
			Status:       decision.Status,
			FailReason:   failReason(decision.Status, missing, hasProjects),
			CheckedItems: checkedItems(company, missing, hasProjects),
		},
		QuantitativePrediction: domain.QuantitativePrediction{
			EstimatedScore: fmt.Sprintf("%d (unset attributes scored as zero)", decision.Score),
			Strengths:      strengths,
			Weaknesses:     weaknesses,
		},
		QualitativeFit: domain.QualitativeFit{
			RelevanceScore: decision.Relevance,
			Reasoning: fmt.Sprintf("[rule-based fallback] This is a non-AI approximation based only on profile completeness and project history. "+
				"Configure a judgment engine for a real analysis. Unset attributes: %d.", len(missing)),
			MatchingKeywords: []string{},
		},
		FinalVerdict: domain.FinalVerdict{
			TrafficLight: decision.Light,
			Summary:      summary(decision, missing, hasProjects),
		},
	}

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return result, ""
	}
	return result, string(raw)
}

func failReason(status domain.EligibilityStatus, missing []string, hasProjects bool) string {
	switch status {
	case domain.EligibilityFail:
		return fmt.Sprintf("Too many unset profile attributes (%s) to score quantitatively. No project history.", strings.Join(missing, ", "))
	case domain.EligibilityConditional:
		if len(missing) == 0 {
			return "No project history; track record cannot be evaluated."
		}
		reason := "Assumed lowest level for unset attributes: " + strings.Join(missing, ", ") + "."
		if !hasProjects {
			reason += " No project history."
		}
		return reason
	default:
		return ""
	}
}

func checkedItems(company domain.Company, missing []string, hasProjects bool) []string {
	items := []string{"Deadline: UNKNOWN (rule-based fallback cannot evaluate deadlines)"}
	if company.FoundedDate.IsZero() {
		items = append(items, "Founding date: UNKNOWN (not provided)")
	} else {
		items = append(items, "Founding date: PASS (provided)")
	}
	if len(missing) == 0 {
		items = append(items, "Profile completeness: PASS")
	} else {
		items = append(items, fmt.Sprintf("Profile completeness: FAIL (unset: %s)", strings.Join(missing, ", ")))
	}
	if hasProjects {
		items = append(items, "Project history: PASS")
	} else {
		items = append(items, "Project history: FAIL (no history)")
	}
	return items
}

func summary(decision Decision, missing []string, hasProjects bool) string {
	if decision.Light == domain.TrafficLightRed {
		return fmt.Sprintf("Non-AI approximation: %d scored attributes are unset and there is no project history, so an application is unlikely to succeed. "+
			"Complete the company profile before re-assessing.", len(missing))
	}

	parts := []string{fmt.Sprintf("Non-AI approximation with %d unset attributes.", len(missing))}
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("Unset attributes (%s) make an accurate judgment impossible.", strings.Join(missing, ", ")))
	}
	if !hasProjects {
		parts = append(parts, "The absence of project history is a penalty.")
	} else if decision.Status == domain.EligibilityPass {
		parts = append(parts, "Basic requirements appear to be met; run an engine-backed assessment for a definitive verdict.")
	} else {
		parts = append(parts, "Further review is needed.")
	}
	parts = append(parts, "Re-assess after completing the profile.")
	return strings.Join(parts, " ")
}
