package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

func validCompany() domain.Company {
	return domain.Company{
		Name:           "Hanbit Robotics",
		RegistrationID: "123-45-67890",
		Representative: "Kim Minji",
		FoundedDate:    time.Date(2019, time.May, 1, 0, 0, 0, 0, time.UTC),
		Address:        "Daejeon",
		LegalForm:      domain.LegalFormCorporation,
		SizeCategory:   "small",
	}
}

func validProject() domain.Project {
	return domain.Project{
		Name:           "Vision QA",
		ManagingAgency: "KEIT",
		Period:         "2024.01 ~ 2024.12",
		Role:           domain.ProjectRolePrimary,
		Outcome:        domain.ProjectOutcomeSuccess,
	}
}

func TestSaveCompanyCreatesThenUpdates(t *testing.T) {
	companies := &companyRepoFake{}
	uc := NewProfileUseCase(companies, &projectRepoFake{}, &assessmentRepoFake{})
	ctx := context.Background()

	created, err := uc.SaveCompany(ctx, validCompany())
	if err != nil {
		t.Fatalf("SaveCompany() error = %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	update := validCompany()
	update.Name = "Hanbit Robotics Inc."
	updated, err := uc.SaveCompany(ctx, update)
	if err != nil {
		t.Fatalf("SaveCompany() error = %v", err)
	}
	if updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected update of existing company, got %+v", updated)
	}
}

func TestSaveCompanyValidation(t *testing.T) {
	uc := NewProfileUseCase(&companyRepoFake{}, &projectRepoFake{}, &assessmentRepoFake{})

	bad := validCompany()
	bad.RegistrationID = "1234567890"
	if _, err := uc.SaveCompany(context.Background(), bad); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	bad = validCompany()
	bad.LegalForm = "partnership"
	if _, err := uc.SaveCompany(context.Background(), bad); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestGetProfileWithoutCompany(t *testing.T) {
	uc := NewProfileUseCase(&companyRepoFake{}, &projectRepoFake{}, &assessmentRepoFake{})

	profile, err := uc.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile != nil {
		t.Fatalf("expected nil profile, got %+v", profile)
	}
}

func TestGetProfileEmbedsRecentAssessments(t *testing.T) {
	assessments := &assessmentRepoFake{}
	for i := 0; i < 7; i++ {
		assessments.stored = append(assessments.stored, domain.Assessment{ID: string(rune('a' + i)), CompanyID: "company-1"})
	}
	uc := NewProfileUseCase(&companyRepoFake{company: registeredCompany()}, &projectRepoFake{}, assessments)

	profile, err := uc.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if assessments.lastLimit != RecentAssessmentLimit || len(profile.RecentAssessments) != RecentAssessmentLimit {
		t.Fatalf("expected %d recent assessments, got %d", RecentAssessmentLimit, len(profile.RecentAssessments))
	}
	if profile.RecentAssessments[0].ID != "g" {
		t.Fatalf("expected newest first, got %s", profile.RecentAssessments[0].ID)
	}
}

func TestCreateProjectRequiresCompany(t *testing.T) {
	uc := NewProfileUseCase(&companyRepoFake{}, &projectRepoFake{}, &assessmentRepoFake{})

	if _, err := uc.CreateProject(context.Background(), validProject()); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestProjectLifecycle(t *testing.T) {
	projects := &projectRepoFake{}
	uc := NewProfileUseCase(&companyRepoFake{company: registeredCompany()}, projects, &assessmentRepoFake{})
	ctx := context.Background()

	created, err := uc.CreateProject(ctx, validProject())
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if created.CompanyID != "company-1" || created.Keywords == nil {
		t.Fatalf("unexpected project: %+v", created)
	}

	change := validProject()
	change.Outcome = domain.ProjectOutcomeInProgress
	updated, err := uc.UpdateProject(ctx, created.ID, change)
	if err != nil {
		t.Fatalf("UpdateProject() error = %v", err)
	}
	if updated.ID != created.ID || projects.updated.Outcome != domain.ProjectOutcomeInProgress {
		t.Fatalf("unexpected update: %+v", updated)
	}

	if _, err := uc.UpdateProject(ctx, "missing", change); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := uc.DeleteProject(ctx, created.ID); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}
	if projects.deleted != created.ID {
		t.Fatalf("expected delete of %s", created.ID)
	}

	bad := validProject()
	bad.Role = "observer"
	if _, err := uc.CreateProject(ctx, bad); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
