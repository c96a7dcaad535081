package httpadapter

import (
	"context"
	"net/http"
	"time"

	"github.com/seykim2025/kgoverment-proj/internal/config"
	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
	"github.com/seykim2025/kgoverment-proj/internal/core/ports"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/export/xlsx"
)

type ingestFake struct {
	err      error
	filename string
	size     int
}

func (f *ingestFake) Upload(_ context.Context, filename string, data []byte) (*domain.Notice, *domain.ParsedDocument, error) {
	f.filename = filename
	f.size = len(data)
	if f.err != nil {
		return nil, nil, f.err
	}
	title := "2026 R&D support"
	return &domain.Notice{
			ID:        "notice-1",
			Title:     title,
			Content:   string(data),
			Filename:  filename,
			Status:    domain.NoticeStatusUploaded,
			CreatedAt: time.Now().UTC(),
		}, &domain.ParsedDocument{
			Text:      string(data),
			PageCount: 1,
			Title:     &title,
		}, nil
}

func (f *ingestFake) Policy() domain.UploadPolicy {
	return domain.UploadPolicy{AllowedExtensions: []string{".pdf"}, MaxBytes: 1024}
}

type noticeReaderFake struct {
	err error
}

func (f noticeReaderFake) GetByID(_ context.Context, id string) (*domain.Notice, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Notice{ID: id, Title: "notice", Status: domain.NoticeStatusReady}, nil
}

type profileFake struct {
	profile *domain.CompanyProfile
	err     error
	saved   *domain.Company
	deleted string
}

func (f *profileFake) GetProfile(context.Context) (*domain.CompanyProfile, error) {
	return f.profile, f.err
}

func (f *profileFake) SaveCompany(_ context.Context, c domain.Company) (*domain.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	c.ID = "company-1"
	f.saved = &c
	return &c, nil
}

func (f *profileFake) ListProjects(context.Context) ([]domain.Project, error) {
	return nil, f.err
}

func (f *profileFake) GetProject(_ context.Context, id string) (*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Project{ID: id, Name: "smart factory"}, nil
}

func (f *profileFake) CreateProject(_ context.Context, p domain.Project) (*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ID = "project-1"
	return &p, nil
}

func (f *profileFake) UpdateProject(_ context.Context, id string, p domain.Project) (*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.ID = id
	return &p, nil
}

func (f *profileFake) DeleteProject(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

type assessmentFake struct {
	runErr  error
	items   []domain.Assessment
	limit   int
	request ports.AssessmentRequest
}

func (f *assessmentFake) Run(_ context.Context, req ports.AssessmentRequest) (*domain.Assessment, error) {
	f.request = req
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &domain.Assessment{
		ID:          "assessment-1",
		NoticeTitle: req.NoticeTitle,
		Mode:        domain.AssessmentModeEngine,
		Result: domain.AssessmentResult{
			EligibilityCheck: domain.EligibilityCheck{Status: domain.EligibilityPass},
			FinalVerdict:     domain.FinalVerdict{TrafficLight: domain.TrafficLightGreen, Summary: "apply"},
		},
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (f *assessmentFake) GetByID(_ context.Context, id string) (*domain.Assessment, error) {
	for _, item := range f.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get assessment", context.Canceled)
}

func (f *assessmentFake) List(_ context.Context, limit int) ([]domain.AssessmentSummary, error) {
	f.limit = limit
	out := make([]domain.AssessmentSummary, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item.Summary())
	}
	return out, nil
}

func (f *assessmentFake) History(context.Context) ([]domain.Assessment, error) {
	return f.items, nil
}

type routerDeps struct {
	ingest      *ingestFake
	notices     noticeReaderFake
	profile     *profileFake
	assessments *assessmentFake
}

func newTestRouter(cfg config.Config) (http.Handler, *routerDeps) {
	deps := &routerDeps{
		ingest:      &ingestFake{},
		profile:     &profileFake{},
		assessments: &assessmentFake{},
	}
	router := NewRouter(cfg, deps.ingest, deps.notices, deps.profile, deps.assessments).
		WithExporter(xlsx.Exporter{})
	return router.Handler(), deps
}

func newTestHandler(cfg config.Config) http.Handler {
	handler, _ := newTestRouter(cfg)
	return handler
}
