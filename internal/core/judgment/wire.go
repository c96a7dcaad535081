package judgment

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

// Engines drift on scalar types: scores arrive as 75, 75.0 or "75", and a
// one-item list arrives as a bare string. The reply is decoded through these
// tolerant types and then copied into the domain result. Only the shape of
// the blocks themselves is enforced.

type replyResult struct {
	EligibilityCheck struct {
		Status       flexString  `json:"status"`
		FailReason   flexString  `json:"fail_reason"`
		CheckedItems flexStrings `json:"checked_items"`
	} `json:"eligibility_check"`
	QuantitativePrediction struct {
		EstimatedScore flexString  `json:"estimated_score"`
		Strengths      flexStrings `json:"strength"`
		Weaknesses     flexStrings `json:"weakness"`
	} `json:"quantitative_score_prediction"`
	QualitativeFit struct {
		RelevanceScore   flexInt     `json:"relevance_score"`
		Reasoning        flexString  `json:"reasoning"`
		MatchingKeywords flexStrings `json:"key_matching_keywords"`
	} `json:"qualitative_fit_analysis"`
	FinalVerdict struct {
		TrafficLight flexString `json:"traffic_light"`
		Summary      flexString `json:"summary"`
	} `json:"final_verdict"`
}

func (r replyResult) toDomain() domain.AssessmentResult {
	return domain.AssessmentResult{
		EligibilityCheck: domain.EligibilityCheck{
			Status:       domain.EligibilityStatus(strings.ToUpper(string(r.EligibilityCheck.Status))),
			FailReason:   string(r.EligibilityCheck.FailReason),
			CheckedItems: r.EligibilityCheck.CheckedItems,
		},
		QuantitativePrediction: domain.QuantitativePrediction{
			EstimatedScore: string(r.QuantitativePrediction.EstimatedScore),
			Strengths:      r.QuantitativePrediction.Strengths,
			Weaknesses:     r.QuantitativePrediction.Weaknesses,
		},
		QualitativeFit: domain.QualitativeFit{
			RelevanceScore:   int(r.QualitativeFit.RelevanceScore),
			Reasoning:        string(r.QualitativeFit.Reasoning),
			MatchingKeywords: r.QualitativeFit.MatchingKeywords,
		},
		FinalVerdict: domain.FinalVerdict{
			TrafficLight: domain.TrafficLight(strings.ToUpper(string(r.FinalVerdict.TrafficLight))),
			Summary:      string(r.FinalVerdict.Summary),
		},
	}
}

// flexString accepts a string, a number or a boolean. Objects and arrays are
// kept as their compact JSON text.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
	default:
		var compact bytes.Buffer
		if err := json.Compact(&compact, data); err != nil {
			return err
		}
		*s = flexString(compact.String())
	}
	return nil
}

// flexInt accepts an integer, a float (rounded) or a numeric string such as
// "75" or "75.5". Any other string decodes as 0.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	f, err := strconv.ParseFloat(string(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*n = 0
		return nil
	}
	*n = flexInt(math.Round(f))
	return nil
}

// flexStrings accepts a list of scalars or a single scalar. Blank entries are
// dropped.
type flexStrings []string

func (l *flexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var items []flexString
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
	} else {
		var one flexString
		if err := one.UnmarshalJSON(data); err != nil {
			return err
		}
		items = []flexString{one}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, string(item))
		}
	}
	if len(out) == 0 {
		*l = nil
		return nil
	}
	*l = out
	return nil
}
