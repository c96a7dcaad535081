package ports

import (
	"context"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

// NoticeIngestor is the inbound contract for notice upload orchestration.
type NoticeIngestor interface {
	Upload(ctx context.Context, filename string, data []byte) (*domain.Notice, *domain.ParsedDocument, error)
	Policy() domain.UploadPolicy
}

// NoticeReader is the inbound read model for stored notices.
type NoticeReader interface {
	GetByID(ctx context.Context, id string) (*domain.Notice, error)
}

// NoticeProcessor is the inbound contract for asynchronous notice processing.
type NoticeProcessor interface {
	ProcessByID(ctx context.Context, noticeID string) error
}

// AssessmentRequest is a notice to judge against the registered company.
type AssessmentRequest struct {
	NoticeID      string `json:"notice_id,omitempty"`
	NoticeTitle   string `json:"notice_title"`
	NoticeContent string `json:"notice_content"`
}

// AssessmentService runs and lists eligibility assessments.
type AssessmentService interface {
	Run(ctx context.Context, req AssessmentRequest) (*domain.Assessment, error)
	GetByID(ctx context.Context, id string) (*domain.Assessment, error)
	List(ctx context.Context, limit int) ([]domain.AssessmentSummary, error)
	History(ctx context.Context) ([]domain.Assessment, error)
}

// ProfileService manages the company profile and its project history.
type ProfileService interface {
	GetProfile(ctx context.Context) (*domain.CompanyProfile, error)
	SaveCompany(ctx context.Context, company domain.Company) (*domain.Company, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, project domain.Project) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, project domain.Project) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
}
