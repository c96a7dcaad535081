package domain

import "time"

type EligibilityStatus string

const (
	EligibilityPass        EligibilityStatus = "PASS"
	EligibilityFail        EligibilityStatus = "FAIL"
	EligibilityConditional EligibilityStatus = "CONDITIONAL"
)

type TrafficLight string

const (
	TrafficLightGreen  TrafficLight = "GREEN"
	TrafficLightYellow TrafficLight = "YELLOW"
	TrafficLightRed    TrafficLight = "RED"
)

type EligibilityCheck struct {
	Status       EligibilityStatus `json:"status"`
	FailReason   string            `json:"fail_reason,omitempty"`
	CheckedItems []string          `json:"checked_items,omitempty"`
}

type QuantitativePrediction struct {
	EstimatedScore string   `json:"estimated_score,omitempty"`
	Strengths      []string `json:"strength"`
	Weaknesses     []string `json:"weakness"`
}

type QualitativeFit struct {
	RelevanceScore   int      `json:"relevance_score"`
	Reasoning        string   `json:"reasoning"`
	MatchingKeywords []string `json:"key_matching_keywords"`
}

type FinalVerdict struct {
	TrafficLight TrafficLight `json:"traffic_light"`
	Summary      string       `json:"summary"`
}

// AssessmentResult is the structured judgment. The JSON names are the wire
// schema the judgment engine is asked to emit.
type AssessmentResult struct {
	EligibilityCheck       EligibilityCheck       `json:"eligibility_check"`
	QuantitativePrediction QuantitativePrediction `json:"quantitative_score_prediction"`
	QualitativeFit         QualitativeFit         `json:"qualitative_fit_analysis"`
	FinalVerdict           FinalVerdict           `json:"final_verdict"`
}

type AssessmentMode string

const (
	AssessmentModeEngine   AssessmentMode = "engine"
	AssessmentModeFallback AssessmentMode = "fallback"
)

// AssessmentOutcome is what one orchestrated assessment produced. RawTrace is
// kept whether or not the reply could be interpreted.
type AssessmentOutcome struct {
	Success  bool              `json:"success"`
	Result   *AssessmentResult `json:"result,omitempty"`
	RawTrace string            `json:"raw_trace,omitempty"`
	Error    string            `json:"error,omitempty"`
	Mode     AssessmentMode    `json:"mode"`
	Engine   string            `json:"engine,omitempty"`
}

// Assessment is an immutable stored assessment record.
type Assessment struct {
	ID          string           `json:"id"`
	CompanyID   string           `json:"company_id"`
	NoticeID    string           `json:"notice_id,omitempty"`
	NoticeTitle string           `json:"notice_title"`
	Mode        AssessmentMode   `json:"mode"`
	Engine      string           `json:"engine,omitempty"`
	Result      AssessmentResult `json:"result"`
	RawTrace    string           `json:"raw_trace,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (a Assessment) Summary() AssessmentSummary {
	return AssessmentSummary{
		ID:             a.ID,
		NoticeTitle:    a.NoticeTitle,
		Status:         a.Result.EligibilityCheck.Status,
		TrafficLight:   a.Result.FinalVerdict.TrafficLight,
		RelevanceScore: a.Result.QualitativeFit.RelevanceScore,
		EstimatedScore: a.Result.QuantitativePrediction.EstimatedScore,
		VerdictSummary: a.Result.FinalVerdict.Summary,
		Mode:           a.Mode,
		CreatedAt:      a.CreatedAt,
	}
}

// AssessmentSummary is the list view of an assessment.
type AssessmentSummary struct {
	ID             string            `json:"id"`
	NoticeTitle    string            `json:"notice_title"`
	Status         EligibilityStatus `json:"status"`
	TrafficLight   TrafficLight      `json:"traffic_light"`
	RelevanceScore int               `json:"relevance_score"`
	EstimatedScore string            `json:"estimated_score,omitempty"`
	VerdictSummary string            `json:"summary"`
	Mode           AssessmentMode    `json:"mode"`
	CreatedAt      time.Time         `json:"created_at"`
}

// AssessmentError carries the partial outcome of a failed assessment so the
// raw engine reply stays available to the caller.
type AssessmentError struct {
	Outcome *AssessmentOutcome
	Err     error
}

func (e *AssessmentError) Error() string {
	if e == nil || e.Err == nil {
		return "assessment failed"
	}
	return e.Err.Error()
}

func (e *AssessmentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
