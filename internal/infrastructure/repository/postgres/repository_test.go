package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
		_ = db.Close()
	})
	return db, mock
}

var (
	companyColumnNames = []string{
		"id", "company_name", "business_number", "representative_name", "founded_date", "address", "company_type",
		"company_scale", "recent_revenue", "debt_ratio", "researcher_count", "patent_count", "technologies",
		"certifications", "created_at", "updated_at",
	}
	projectColumnNames = []string{
		"id", "company_id", "project_name", "managing_agency", "perform_period", "role", "result", "budget",
		"summary", "keywords", "created_at", "updated_at",
	}
	assessmentColumnNames = []string{
		"id", "company_id", "notice_id", "notice_title", "mode", "engine", "result", "raw_trace", "created_at",
	}
	fixedTime = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
)

func TestEnsureSchemaTakesAdvisoryLock(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(schemaLockKey).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS companies").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
}

func TestCompanyGetLatestReturnsNotFoundWhenEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	mock.ExpectQuery("SELECT id, company_name").WillReturnRows(sqlmock.NewRows(companyColumnNames))

	_, err := repo.GetLatest(context.Background())
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompanyGetLatestKeepsUnsetAndZeroApart(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	mock.ExpectQuery("SELECT id, company_name").WillReturnRows(sqlmock.NewRows(companyColumnNames).AddRow(
		"c1", "Acme", "123-45-67890", "Kim", fixedTime, "Seoul", "corporation",
		"small", nil, 0.0, int64(0), nil, "", "ISO9001", fixedTime, fixedTime,
	))

	company, err := repo.GetLatest(context.Background())
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if company.Revenue != nil {
		t.Fatalf("expected unset revenue, got %v", *company.Revenue)
	}
	if company.DebtRatio == nil || *company.DebtRatio != 0 {
		t.Fatalf("expected zero debt ratio to stay set")
	}
	if company.ResearcherCount == nil || *company.ResearcherCount != 0 {
		t.Fatalf("expected zero researcher count to stay set")
	}
	if company.PatentCount != nil {
		t.Fatalf("expected unset patent count")
	}
	if company.LegalForm != domain.LegalFormCorporation {
		t.Fatalf("unexpected legal form %q", company.LegalForm)
	}
}

func TestCompanySaveUpserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	mock.ExpectExec("INSERT INTO companies").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Save(context.Background(), &domain.Company{ID: "c1", Name: "Acme", FoundedDate: fixedTime})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func TestProjectListDecodesKeywords(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectQuery("SELECT id, company_id, project_name").WithArgs("c1").WillReturnRows(
		sqlmock.NewRows(projectColumnNames).
			AddRow("p1", "c1", "Vision QA", "KEIT", "2023-2024", "primary", "success", 3.5, "", []byte(`["vision","qa"]`), fixedTime, fixedTime).
			AddRow("p2", "c1", "Edge AI", "NIPA", "2024", "participant", "in_progress", nil, "", []byte(`[]`), fixedTime, fixedTime),
	)

	projects, err := repo.ListByCompany(context.Background(), "c1")
	if err != nil {
		t.Fatalf("ListByCompany() error = %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if len(projects[0].Keywords) != 2 || projects[0].Keywords[1] != "qa" {
		t.Fatalf("unexpected keywords: %v", projects[0].Keywords)
	}
	if projects[1].Budget != nil || projects[1].Keywords == nil {
		t.Fatalf("unexpected second project: %+v", projects[1])
	}
}

func TestProjectUpdateReturnsNotFoundWhenNoRowsAffected(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectExec("UPDATE projects").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Project{ID: "missing"})
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectExec("DELETE FROM projects").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestNoticeGetByIDReturnsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNoticeRepository(db)

	mock.ExpectQuery("SELECT id, title, content").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNoticeGetByIDDecodesSections(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNoticeRepository(db)

	columns := []string{"id", "title", "content", "filename", "storage_path", "page_count", "issued_at", "sections",
		"status", "error_message", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT id, title, content").WithArgs("n1").WillReturnRows(sqlmock.NewRows(columns).AddRow(
		"n1", "Smart Factory", "body text here", "notice.pdf", "n1_notice.pdf", int64(3), "2026-03-01T00:30:00Z",
		[]byte(`{"budget":"5억원"}`), "ready", "", fixedTime, fixedTime,
	))

	notice, err := repo.GetByID(context.Background(), "n1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if notice.Sections == nil || notice.Sections.Budget != "5억원" {
		t.Fatalf("unexpected sections: %+v", notice.Sections)
	}
	if notice.IssuedAt == nil || *notice.IssuedAt != "2026-03-01T00:30:00Z" {
		t.Fatalf("unexpected issued_at: %v", notice.IssuedAt)
	}
	if notice.Status != domain.NoticeStatusReady || notice.PageCount != 3 {
		t.Fatalf("unexpected notice: %+v", notice)
	}
}

func TestNoticeUpdateStatusReturnsNotFoundWhenNoRowsAffected(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNoticeRepository(db)

	mock.ExpectExec("UPDATE notices").
		WithArgs("missing", string(domain.NoticeStatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.NoticeStatusProcessing, "")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssessmentCreateDenormalizesVerdict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepository(db)

	a := &domain.Assessment{
		ID:          "a1",
		CompanyID:   "c1",
		NoticeTitle: "Smart Factory",
		Mode:        domain.AssessmentModeFallback,
		Result: domain.AssessmentResult{
			EligibilityCheck: domain.EligibilityCheck{Status: domain.EligibilityConditional},
			QualitativeFit:   domain.QualitativeFit{RelevanceScore: 40},
			FinalVerdict:     domain.FinalVerdict{TrafficLight: domain.TrafficLightYellow},
		},
		CreatedAt: fixedTime,
	}
	mock.ExpectExec("INSERT INTO assessments").
		WithArgs("a1", "c1", sqlmock.AnyArg(), "Smart Factory", "fallback", "", "CONDITIONAL", "YELLOW", 40,
			sqlmock.AnyArg(), "", fixedTime).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
}

func TestAssessmentListAppliesLimit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepository(db)

	result, _ := json.Marshal(domain.AssessmentResult{
		FinalVerdict: domain.FinalVerdict{TrafficLight: domain.TrafficLightRed, Summary: "not eligible"},
	})
	mock.ExpectQuery("SELECT id, company_id, notice_id").WithArgs("c1", 5).WillReturnRows(
		sqlmock.NewRows(assessmentColumnNames).
			AddRow("a2", "c1", nil, "Newer", "engine", "openai", result, "raw", fixedTime.Add(time.Hour)).
			AddRow("a1", "c1", "n1", "Older", "fallback", "", result, "", fixedTime),
	)

	items, err := repo.ListByCompany(context.Background(), "c1", 5)
	if err != nil {
		t.Fatalf("ListByCompany() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != "a2" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if items[0].NoticeID != "" || items[1].NoticeID != "n1" {
		t.Fatalf("unexpected notice ids: %q %q", items[0].NoticeID, items[1].NoticeID)
	}
	if items[0].Result.FinalVerdict.TrafficLight != domain.TrafficLightRed || items[0].Mode != domain.AssessmentModeEngine {
		t.Fatalf("unexpected decoded assessment: %+v", items[0])
	}
}

func TestAssessmentGetByIDReturnsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepository(db)

	mock.ExpectQuery("SELECT id, company_id, notice_id").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
