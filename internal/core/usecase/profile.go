package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
	"github.com/seykim2025/kgoverment-proj/internal/core/ports"
)

// ProfileUseCase manages the single registered company and its project history.
type ProfileUseCase struct {
	companies   ports.CompanyRepository
	projects    ports.ProjectRepository
	assessments ports.AssessmentRepository
}

func NewProfileUseCase(
	companies ports.CompanyRepository,
	projects ports.ProjectRepository,
	assessments ports.AssessmentRepository,
) *ProfileUseCase {
	return &ProfileUseCase{
		companies:   companies,
		projects:    projects,
		assessments: assessments,
	}
}

// GetProfile returns nil without error when no company is registered yet.
func (uc *ProfileUseCase) GetProfile(ctx context.Context) (*domain.CompanyProfile, error) {
	company, err := uc.latestCompany(ctx)
	if err != nil || company == nil {
		return nil, err
	}

	projects, err := uc.projects.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	recent, err := uc.assessments.ListByCompany(ctx, company.ID, RecentAssessmentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent assessments: %w", err)
	}
	summaries := make([]domain.AssessmentSummary, 0, len(recent))
	for _, item := range recent {
		summaries = append(summaries, item.Summary())
	}
	return &domain.CompanyProfile{Company: company, Projects: projects, RecentAssessments: summaries}, nil
}

// SaveCompany creates the company profile or updates the registered one.
func (uc *ProfileUseCase) SaveCompany(ctx context.Context, company domain.Company) (*domain.Company, error) {
	if err := company.Validate(); err != nil {
		return nil, err
	}
	existing, err := uc.latestCompany(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if existing != nil {
		company.ID = existing.ID
		company.CreatedAt = existing.CreatedAt
	} else {
		company.ID = uuid.NewString()
		company.CreatedAt = now
	}
	company.UpdatedAt = now

	if err := uc.companies.Save(ctx, &company); err != nil {
		return nil, fmt.Errorf("save company: %w", err)
	}
	return &company, nil
}

func (uc *ProfileUseCase) ListProjects(ctx context.Context) ([]domain.Project, error) {
	company, err := uc.requireCompany(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := uc.projects.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (uc *ProfileUseCase) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	project, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

func (uc *ProfileUseCase) CreateProject(ctx context.Context, project domain.Project) (*domain.Project, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}
	company, err := uc.requireCompany(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project.ID = uuid.NewString()
	project.CompanyID = company.ID
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Keywords == nil {
		project.Keywords = []string{}
	}
	if err := uc.projects.Create(ctx, &project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &project, nil
}

func (uc *ProfileUseCase) UpdateProject(ctx context.Context, id string, project domain.Project) (*domain.Project, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}
	existing, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	project.ID = existing.ID
	project.CompanyID = existing.CompanyID
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = time.Now().UTC()
	if project.Keywords == nil {
		project.Keywords = []string{}
	}
	if err := uc.projects.Update(ctx, &project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return &project, nil
}

func (uc *ProfileUseCase) DeleteProject(ctx context.Context, id string) error {
	if err := uc.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (uc *ProfileUseCase) latestCompany(ctx context.Context) (*domain.Company, error) {
	company, err := uc.companies.GetLatest(ctx)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load company: %w", err)
	}
	return company, nil
}

func (uc *ProfileUseCase) requireCompany(ctx context.Context) (*domain.Company, error) {
	company, err := uc.latestCompany(ctx)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "load company", errNoCompany)
	}
	return company, nil
}
