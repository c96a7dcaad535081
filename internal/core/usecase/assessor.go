package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
	"github.com/seykim2025/kgoverment-proj/internal/core/judgment"
	"github.com/seykim2025/kgoverment-proj/internal/core/ports"
	"github.com/seykim2025/kgoverment-proj/internal/core/prompt"
)

const defaultEngineTimeout = 90 * time.Second

// AssessorConfig selects the assessment path. A nil Engine means no judgment
// engine is configured and the rule-based classifier is used instead.
type AssessorConfig struct {
	Engine     ports.JudgmentEngine
	EngineName string
	Timeout    time.Duration
	Now        func() time.Time
	Recorder   ports.AssessmentRecorder
}

type Assessor struct {
	engine     ports.JudgmentEngine
	engineName string
	timeout    time.Duration
	now        func() time.Time
	recorder   ports.AssessmentRecorder
}

func NewAssessor(cfg AssessorConfig) *Assessor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultEngineTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Assessor{
		engine:     cfg.Engine,
		engineName: cfg.EngineName,
		timeout:    cfg.Timeout,
		now:        cfg.Now,
		recorder:   cfg.Recorder,
	}
}

func (a *Assessor) EngineConfigured() bool {
	return a.engine != nil
}

// Assess judges one notice against a company and its project history.
//
// A returned outcome with Success=false comes with a non-nil error wrapping
// domain.ErrUpstream (engine unreachable, failing or timed out) or
// domain.ErrResponseFormat (reply could not be interpreted; RawTrace holds the
// reply). Validation failures return a nil outcome.
func (a *Assessor) Assess(ctx context.Context, notice domain.Notice, company domain.Company, history []domain.Project) (*domain.AssessmentOutcome, error) {
	if err := notice.Validate(); err != nil {
		return nil, err
	}
	if a.engine == nil {
		return a.classify(company, history), nil
	}
	return a.judge(ctx, notice, company, history)
}

func (a *Assessor) classify(company domain.Company, history []domain.Project) *domain.AssessmentOutcome {
	result, raw := judgment.Classify(company, history)
	return &domain.AssessmentOutcome{
		Success:  true,
		Result:   &result,
		RawTrace: raw,
		Mode:     domain.AssessmentModeFallback,
	}
}

func (a *Assessor) judge(ctx context.Context, notice domain.Notice, company domain.Company, history []domain.Project) (*domain.AssessmentOutcome, error) {
	pair := prompt.BuildInstructionPair(notice, company, history, a.now())

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	started := time.Now()
	reply, err := a.engine.Complete(callCtx, pair.System, pair.User)
	if a.recorder != nil {
		a.recorder.RecordEngineCall(a.engineName, time.Since(started).Seconds(), err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("assessment aborted: %w", ctxErr)
	}

	outcome := &domain.AssessmentOutcome{Mode: domain.AssessmentModeEngine, Engine: a.engineName}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("judgment engine timed out after %s: %w", a.timeout, err)
		}
		outcome.Error = err.Error()
		return outcome, domain.WrapError(domain.ErrUpstream, "invoke judgment engine", err)
	}

	outcome.RawTrace = reply
	result, err := judgment.Interpret(reply)
	if err != nil {
		outcome.Error = err.Error()
		return outcome, err
	}
	if judgment.EnforceVerdictInvariants(&result) {
		slog.Warn("verdict_downgraded",
			"engine", a.engineName,
			"status", result.EligibilityCheck.Status,
			"relevance_score", result.QualitativeFit.RelevanceScore,
			"traffic_light", result.FinalVerdict.TrafficLight,
		)
	}
	outcome.Success = true
	outcome.Result = &result
	return outcome, nil
}
