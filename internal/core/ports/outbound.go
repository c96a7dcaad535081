package ports

import (
	"context"
	"io"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

// JudgmentEngine is an external text-completion service. The reply is free
// text and may be truncated or not JSON at all.
type JudgmentEngine interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// DocumentParser turns raw notice bytes into normalized page text.
type DocumentParser interface {
	Parse(ctx context.Context, data []byte) (domain.ParsedDocument, error)
}

// CompanyRepository persists the company profile.
type CompanyRepository interface {
	GetLatest(ctx context.Context) (*domain.Company, error)
	Save(ctx context.Context, company *domain.Company) error
}

// ProjectRepository persists the project history of a company.
type ProjectRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// NoticeRepository persists uploaded grant notices.
type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) error
	GetByID(ctx context.Context, id string) (*domain.Notice, error)
	UpdateStatus(ctx context.Context, id string, status domain.NoticeStatus, errMessage string) error
	SaveSections(ctx context.Context, id string, sections domain.NoticeSections) error
}

// AssessmentRepository stores immutable assessment records.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *domain.Assessment) error
	GetByID(ctx context.Context, id string) (*domain.Assessment, error)
	ListByCompany(ctx context.Context, companyID string, limit int) ([]domain.Assessment, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes notice ingestion events.
type MessageQueue interface {
	PublishNoticeIngested(ctx context.Context, noticeID string) error
	SubscribeNoticeIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// HistoryExporter renders assessment history as a downloadable document.
type HistoryExporter interface {
	ContentType() string
	FileName() string
	Export(w io.Writer, items []domain.Assessment) error
}

// AssessmentRecorder observes finished assessments (metrics).
type AssessmentRecorder interface {
	RecordAssessment(mode domain.AssessmentMode, success bool, light domain.TrafficLight)
	RecordEngineCall(engine string, seconds float64, err error)
}
