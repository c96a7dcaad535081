package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

const projectColumns = `id, company_id, project_name, managing_agency, perform_period, role, result, budget, summary,
	keywords, created_at, updated_at`

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ListByCompany returns the company's projects oldest first.
func (r *ProjectRepository) ListByCompany(ctx context.Context, companyID string) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+projectColumns+`
FROM projects
WHERE company_id = $1
ORDER BY created_at ASC, id ASC
`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+projectColumns+`
FROM projects
WHERE id = $1
`, id)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("project", id)
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return &project, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	keywords, err := marshalKeywords(p.Keywords)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO projects (`+projectColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		p.ID, p.CompanyID, p.Name, p.ManagingAgency, p.Period, string(p.Role), string(p.Outcome), p.Budget,
		p.Summary, keywords, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	keywords, err := marshalKeywords(p.Keywords)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE projects
SET project_name = $2, managing_agency = $3, perform_period = $4, role = $5, result = $6, budget = $7,
	summary = $8, keywords = $9, updated_at = $10
WHERE id = $1
`,
		p.ID, p.Name, p.ManagingAgency, p.Period, string(p.Role), string(p.Outcome), p.Budget,
		p.Summary, keywords, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return requireAffected(result, "project", p.ID)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireAffected(result, "project", id)
}

func scanProject(row rowScanner) (domain.Project, error) {
	var (
		p           domain.Project
		role        string
		outcome     string
		budget      sql.NullFloat64
		keywordsRaw []byte
	)
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.ManagingAgency, &p.Period, &role, &outcome, &budget, &p.Summary,
		&keywordsRaw, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Project{}, err
	}
	p.Role = domain.ProjectRole(role)
	p.Outcome = domain.ProjectOutcome(outcome)
	p.Budget = nullFloat(budget)
	p.Keywords = []string{}
	if len(keywordsRaw) > 0 {
		if err := json.Unmarshal(keywordsRaw, &p.Keywords); err != nil {
			return domain.Project{}, fmt.Errorf("unmarshal keywords: %w", err)
		}
	}
	return p, nil
}

func marshalKeywords(keywords []string) ([]byte, error) {
	if keywords == nil {
		keywords = []string{}
	}
	raw, err := json.Marshal(keywords)
	if err != nil {
		return nil, fmt.Errorf("marshal keywords: %w", err)
	}
	return raw, nil
}

func requireAffected(result sql.Result, entity, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if rows == 0 {
		return notFound(entity, id)
	}
	return nil
}
