package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
	"github.com/seykim2025/kgoverment-proj/internal/core/ports"
)

// RecentAssessmentLimit is how many assessments the company profile embeds.
const RecentAssessmentLimit = 5

var errNoCompany = errors.New("register a company profile first")

type AssessmentUseCase struct {
	assessor    *Assessor
	companies   ports.CompanyRepository
	projects    ports.ProjectRepository
	notices     ports.NoticeRepository
	assessments ports.AssessmentRepository
	recorder    ports.AssessmentRecorder
}

func NewAssessmentUseCase(
	assessor *Assessor,
	companies ports.CompanyRepository,
	projects ports.ProjectRepository,
	notices ports.NoticeRepository,
	assessments ports.AssessmentRepository,
	recorder ports.AssessmentRecorder,
) *AssessmentUseCase {
	return &AssessmentUseCase{
		assessor:    assessor,
		companies:   companies,
		projects:    projects,
		notices:     notices,
		assessments: assessments,
		recorder:    recorder,
	}
}

// Run assesses a notice against the registered company and stores the result.
// Nothing is stored unless the assessment succeeded and ctx is still alive.
func (uc *AssessmentUseCase) Run(ctx context.Context, req ports.AssessmentRequest) (*domain.Assessment, error) {
	notice, err := uc.resolveNotice(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := notice.Validate(); err != nil {
		return nil, err
	}

	company, history, err := uc.loadProfile(ctx)
	if err != nil {
		return nil, err
	}

	outcome, err := uc.assessor.Assess(ctx, notice, *company, history)
	uc.record(outcome)
	if err != nil {
		if outcome != nil {
			return nil, &domain.AssessmentError{Outcome: outcome, Err: err}
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("assessment aborted: %w", err)
	}

	assessment := &domain.Assessment{
		ID:          uuid.NewString(),
		CompanyID:   company.ID,
		NoticeID:    notice.ID,
		NoticeTitle: notice.Title,
		Mode:        outcome.Mode,
		Engine:      outcome.Engine,
		Result:      *outcome.Result,
		RawTrace:    outcome.RawTrace,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.assessments.Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("store assessment: %w", err)
	}
	slog.Info("assessment_completed",
		"assessment_id", assessment.ID,
		"notice_id", assessment.NoticeID,
		"mode", assessment.Mode,
		"traffic_light", assessment.Result.FinalVerdict.TrafficLight,
	)
	return assessment, nil
}

func (uc *AssessmentUseCase) GetByID(ctx context.Context, id string) (*domain.Assessment, error) {
	assessment, err := uc.assessments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	return assessment, nil
}

// List returns assessment summaries of the registered company, newest first.
// A non-positive limit returns all of them.
func (uc *AssessmentUseCase) List(ctx context.Context, limit int) ([]domain.AssessmentSummary, error) {
	items, err := uc.listForCompany(ctx, limit)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.AssessmentSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, item.Summary())
	}
	return summaries, nil
}

// History returns the full assessment records of the registered company,
// newest first.
func (uc *AssessmentUseCase) History(ctx context.Context) ([]domain.Assessment, error) {
	return uc.listForCompany(ctx, 0)
}

func (uc *AssessmentUseCase) listForCompany(ctx context.Context, limit int) ([]domain.Assessment, error) {
	company, err := uc.companies.GetLatest(ctx)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return []domain.Assessment{}, nil
		}
		return nil, fmt.Errorf("load company: %w", err)
	}
	items, err := uc.assessments.ListByCompany(ctx, company.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return items, nil
}

func (uc *AssessmentUseCase) resolveNotice(ctx context.Context, req ports.AssessmentRequest) (domain.Notice, error) {
	notice := domain.Notice{Title: req.NoticeTitle, Content: req.NoticeContent}
	if req.NoticeID == "" {
		return notice, nil
	}
	stored, err := uc.notices.GetByID(ctx, req.NoticeID)
	if err != nil {
		return domain.Notice{}, fmt.Errorf("load notice: %w", err)
	}
	notice.ID = stored.ID
	if notice.Title == "" {
		notice.Title = stored.Title
	}
	if notice.Content == "" {
		notice.Content = stored.Content
	}
	return notice, nil
}

func (uc *AssessmentUseCase) loadProfile(ctx context.Context) (*domain.Company, []domain.Project, error) {
	company, err := uc.companies.GetLatest(ctx)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, nil, domain.WrapError(domain.ErrInvalidInput, "load company profile", errNoCompany)
		}
		return nil, nil, fmt.Errorf("load company profile: %w", err)
	}
	history, err := uc.projects.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load project history: %w", err)
	}
	return company, history, nil
}

func (uc *AssessmentUseCase) record(outcome *domain.AssessmentOutcome) {
	if uc.recorder == nil || outcome == nil {
		return
	}
	light := domain.TrafficLight("")
	if outcome.Result != nil {
		light = outcome.Result.FinalVerdict.TrafficLight
	}
	uc.recorder.RecordAssessment(outcome.Mode, outcome.Success, light)
}
