package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

const assessmentColumns = `id, company_id, notice_id, notice_title, mode, engine, result, raw_trace, created_at`

// AssessmentRepository stores assessments append-only. The status, traffic
// light and relevance columns duplicate the JSON result for list queries.
type AssessmentRepository struct {
	db *sql.DB
}

func NewAssessmentRepository(db *sql.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func (r *AssessmentRepository) Create(ctx context.Context, a *domain.Assessment) error {
	result, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("marshal assessment result: %w", err)
	}
	var noticeID sql.NullString
	if a.NoticeID != "" {
		noticeID = sql.NullString{String: a.NoticeID, Valid: true}
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO assessments (
	id, company_id, notice_id, notice_title, mode, engine, status, traffic_light, relevance_score, result, raw_trace, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		a.ID, a.CompanyID, noticeID, a.NoticeTitle, string(a.Mode), a.Engine,
		string(a.Result.EligibilityCheck.Status), string(a.Result.FinalVerdict.TrafficLight),
		a.Result.QualitativeFit.RelevanceScore, result, a.RawTrace, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*domain.Assessment, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+assessmentColumns+`
FROM assessments
WHERE id = $1
`, id)
	a, err := scanAssessment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("assessment", id)
		}
		return nil, fmt.Errorf("scan assessment: %w", err)
	}
	return &a, nil
}

// ListByCompany returns the newest assessments first. limit <= 0 means all.
func (r *AssessmentRepository) ListByCompany(ctx context.Context, companyID string, limit int) ([]domain.Assessment, error) {
	query := `
SELECT ` + assessmentColumns + `
FROM assessments
WHERE company_id = $1
ORDER BY created_at DESC, id DESC
`
	args := []any{companyID}
	if limit > 0 {
		query += "LIMIT $2\n"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return out, nil
}

func scanAssessment(row rowScanner) (domain.Assessment, error) {
	var (
		a         domain.Assessment
		noticeID  sql.NullString
		mode      string
		resultRaw []byte
	)
	err := row.Scan(&a.ID, &a.CompanyID, &noticeID, &a.NoticeTitle, &mode, &a.Engine, &resultRaw, &a.RawTrace, &a.CreatedAt)
	if err != nil {
		return domain.Assessment{}, err
	}
	if err := json.Unmarshal(resultRaw, &a.Result); err != nil {
		return domain.Assessment{}, fmt.Errorf("unmarshal assessment result: %w", err)
	}
	a.NoticeID = noticeID.String
	a.Mode = domain.AssessmentMode(mode)
	return a, nil
}
