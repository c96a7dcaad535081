// Package judgment turns engine replies into assessment results and provides
// the rule-based classifier used when no engine is configured.
package judgment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

var fencedJSON = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

var requiredBlocks = []string{"eligibility_check", "final_verdict"}

// Interpret recovers an AssessmentResult from a free-form engine reply. The
// first fenced json block is used when present, otherwise the whole reply.
// Scalar fields are decoded leniently and relevance_score is clamped to
// 0..100, so EnforceVerdictInvariants always sees an in-range score.
func Interpret(raw string) (domain.AssessmentResult, error) {
	const op = "interpret engine reply"

	payload := raw
	if match := fencedJSON.FindStringSubmatch(raw); len(match) == 2 {
		payload = match[1]
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return domain.AssessmentResult{}, domain.WrapError(domain.ErrResponseFormat, op, errors.New("empty reply"))
	}

	var blocks map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &blocks); err != nil {
		return domain.AssessmentResult{}, domain.WrapError(domain.ErrResponseFormat, op, err)
	}
	for _, key := range requiredBlocks {
		block, ok := blocks[key]
		if !ok || isEmptyBlock(block) {
			return domain.AssessmentResult{}, domain.WrapError(domain.ErrResponseFormat, op, fmt.Errorf("missing %s", key))
		}
	}

	var reply replyResult
	if err := json.Unmarshal([]byte(payload), &reply); err != nil {
		return domain.AssessmentResult{}, domain.WrapError(domain.ErrResponseFormat, op, err)
	}
	result := reply.toDomain()
	result.QualitativeFit.RelevanceScore = min(max(result.QualitativeFit.RelevanceScore, 0), 100)
	return result, nil
}

func isEmptyBlock(block json.RawMessage) bool {
	trimmed := bytes.TrimSpace(block)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// EnforceVerdictInvariants downgrades a GREEN verdict the evidence does not
// support. It reports whether the verdict was changed.
func EnforceVerdictInvariants(result *domain.AssessmentResult) bool {
	if result == nil || result.FinalVerdict.TrafficLight != domain.TrafficLightGreen {
		return false
	}
	status := result.EligibilityCheck.Status
	relevance := result.QualitativeFit.RelevanceScore
	switch {
	case status == domain.EligibilityFail || relevance < 30:
		result.FinalVerdict.TrafficLight = domain.TrafficLightRed
	case status != domain.EligibilityPass || relevance < 70:
		result.FinalVerdict.TrafficLight = domain.TrafficLightYellow
	default:
		return false
	}
	return true
}
