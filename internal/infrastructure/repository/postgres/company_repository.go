package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

const companyColumns = `id, company_name, business_number, representative_name, founded_date, address, company_type,
	company_scale, recent_revenue, debt_ratio, researcher_count, patent_count, technologies, certifications,
	created_at, updated_at`

type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// GetLatest returns the most recently updated company profile.
func (r *CompanyRepository) GetLatest(ctx context.Context) (*domain.Company, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+companyColumns+`
FROM companies
ORDER BY updated_at DESC
LIMIT 1
`)
	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get latest company", errors.New("no company registered"))
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}
	return &company, nil
}

// Save inserts the company or overwrites the row with the same id.
func (r *CompanyRepository) Save(ctx context.Context, c *domain.Company) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO companies (`+companyColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
ON CONFLICT (id) DO UPDATE SET
	company_name = EXCLUDED.company_name,
	business_number = EXCLUDED.business_number,
	representative_name = EXCLUDED.representative_name,
	founded_date = EXCLUDED.founded_date,
	address = EXCLUDED.address,
	company_type = EXCLUDED.company_type,
	company_scale = EXCLUDED.company_scale,
	recent_revenue = EXCLUDED.recent_revenue,
	debt_ratio = EXCLUDED.debt_ratio,
	researcher_count = EXCLUDED.researcher_count,
	patent_count = EXCLUDED.patent_count,
	technologies = EXCLUDED.technologies,
	certifications = EXCLUDED.certifications,
	updated_at = EXCLUDED.updated_at
`,
		c.ID, c.Name, c.RegistrationID, c.Representative, c.FoundedDate, c.Address, string(c.LegalForm),
		c.SizeCategory, c.Revenue, c.DebtRatio, c.ResearcherCount, c.PatentCount, c.Technologies, c.Certifications,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert company: %w", err)
	}
	return nil
}

func scanCompany(row rowScanner) (domain.Company, error) {
	var (
		c               domain.Company
		legalForm       string
		revenue         sql.NullFloat64
		debtRatio       sql.NullFloat64
		researcherCount sql.NullInt64
		patentCount     sql.NullInt64
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.RegistrationID, &c.Representative, &c.FoundedDate, &c.Address, &legalForm,
		&c.SizeCategory, &revenue, &debtRatio, &researcherCount, &patentCount, &c.Technologies, &c.Certifications,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Company{}, err
	}
	c.LegalForm = domain.LegalForm(legalForm)
	c.Revenue = nullFloat(revenue)
	c.DebtRatio = nullFloat(debtRatio)
	c.ResearcherCount = nullInt(researcherCount)
	c.PatentCount = nullInt(patentCount)
	return c, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
