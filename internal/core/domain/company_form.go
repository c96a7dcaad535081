package domain

import (
	"errors"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// CompanyForm is the client-facing shape of a company profile. Dates are
// plain calendar dates.
type CompanyForm struct {
	Name            string   `json:"company_name" yaml:"company_name"`
	RegistrationID  string   `json:"business_number" yaml:"business_number"`
	Representative  string   `json:"representative_name" yaml:"representative_name"`
	FoundedDate     string   `json:"founded_date" yaml:"founded_date"`
	Address         string   `json:"address" yaml:"address"`
	LegalForm       string   `json:"company_type" yaml:"company_type"`
	SizeCategory    string   `json:"company_scale" yaml:"company_scale"`
	Revenue         *float64 `json:"recent_revenue" yaml:"recent_revenue"`
	DebtRatio       *float64 `json:"debt_ratio" yaml:"debt_ratio"`
	ResearcherCount *int     `json:"researcher_count" yaml:"researcher_count"`
	PatentCount     *int     `json:"patent_count" yaml:"patent_count"`
	Technologies    string   `json:"technologies" yaml:"technologies"`
	Certifications  string   `json:"certifications" yaml:"certifications"`
}

// ToCompany converts the form and validates the result.
func (f CompanyForm) ToCompany() (Company, error) {
	founded, err := ParseDate(f.FoundedDate)
	if err != nil {
		return Company{}, WrapError(ErrInvalidInput, "parse company form", err)
	}
	c := Company{
		Name:            strings.TrimSpace(f.Name),
		RegistrationID:  strings.TrimSpace(f.RegistrationID),
		Representative:  strings.TrimSpace(f.Representative),
		FoundedDate:     founded,
		Address:         strings.TrimSpace(f.Address),
		LegalForm:       LegalForm(strings.TrimSpace(f.LegalForm)),
		SizeCategory:    strings.TrimSpace(f.SizeCategory),
		Revenue:         f.Revenue,
		DebtRatio:       f.DebtRatio,
		ResearcherCount: f.ResearcherCount,
		PatentCount:     f.PatentCount,
		Technologies:    f.Technologies,
		Certifications:  f.Certifications,
	}
	if err := c.Validate(); err != nil {
		return Company{}, err
	}
	return c, nil
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("founded date is required")
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.New("founded date must look like YYYY-MM-DD")
	}
	return t.UTC(), nil
}

// CompanyProfileFile is a company with its project history, as kept in
// offline profile files.
type CompanyProfileFile struct {
	Company  CompanyForm `json:"company" yaml:"company"`
	Projects []Project   `json:"projects" yaml:"projects"`
}
