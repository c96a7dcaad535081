package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var registrationIDPattern = regexp.MustCompile(`^\d{3}-\d{2}-\d{5}$`)

type LegalForm string

const (
	LegalFormCorporation LegalForm = "corporation"
	LegalFormIndividual  LegalForm = "individual"
)

type Company struct {
	ID              string    `json:"id"`
	Name            string    `json:"company_name"`
	RegistrationID  string    `json:"business_number"`
	Representative  string    `json:"representative_name"`
	FoundedDate     time.Time `json:"founded_date"`
	Address         string    `json:"address"`
	LegalForm       LegalForm `json:"company_type"`
	SizeCategory    string    `json:"company_scale"`
	Revenue         *float64  `json:"recent_revenue,omitempty"`
	DebtRatio       *float64  `json:"debt_ratio,omitempty"`
	ResearcherCount *int      `json:"researcher_count,omitempty"`
	PatentCount     *int      `json:"patent_count,omitempty"`
	Technologies    string    `json:"technologies,omitempty"`
	Certifications  string    `json:"certifications,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Validate checks identity and classification fields before the profile is stored.
func (c Company) Validate() error {
	const op = "validate company"
	switch {
	case strings.TrimSpace(c.Name) == "":
		return WrapError(ErrInvalidInput, op, errors.New("company name is required"))
	case !registrationIDPattern.MatchString(c.RegistrationID):
		return WrapError(ErrInvalidInput, op, errors.New("business number must look like 000-00-00000"))
	case strings.TrimSpace(c.Representative) == "":
		return WrapError(ErrInvalidInput, op, errors.New("representative name is required"))
	case c.FoundedDate.IsZero():
		return WrapError(ErrInvalidInput, op, errors.New("founded date is required"))
	case strings.TrimSpace(c.Address) == "":
		return WrapError(ErrInvalidInput, op, errors.New("address is required"))
	case c.LegalForm != LegalFormCorporation && c.LegalForm != LegalFormIndividual:
		return WrapError(ErrInvalidInput, op, fmt.Errorf("unknown company type %q", c.LegalForm))
	case strings.TrimSpace(c.SizeCategory) == "":
		return WrapError(ErrInvalidInput, op, errors.New("company scale is required"))
	}
	if c.Revenue != nil && *c.Revenue < 0 {
		return WrapError(ErrInvalidInput, op, errors.New("revenue must not be negative"))
	}
	if c.DebtRatio != nil && *c.DebtRatio < 0 {
		return WrapError(ErrInvalidInput, op, errors.New("debt ratio must not be negative"))
	}
	if c.ResearcherCount != nil && *c.ResearcherCount < 0 {
		return WrapError(ErrInvalidInput, op, errors.New("researcher count must not be negative"))
	}
	if c.PatentCount != nil && *c.PatentCount < 0 {
		return WrapError(ErrInvalidInput, op, errors.New("patent count must not be negative"))
	}
	return nil
}

// ScoredAttribute is one of the six company metrics a grant evaluator scores.
// Set is the single source of truth for "absent" used by both the prompt
// formatter and the rule-based classifier.
type ScoredAttribute struct {
	Name  string
	Set   bool
	Value string
}

// ScoredAttributes returns the scored metrics in a fixed order. A numeric
// attribute that is present with value 0 counts as set.
func (c Company) ScoredAttributes() []ScoredAttribute {
	return []ScoredAttribute{
		floatAttribute("revenue", c.Revenue, " (100M KRW)"),
		floatAttribute("debt ratio", c.DebtRatio, "%"),
		intAttribute("researcher count", c.ResearcherCount, " researchers"),
		intAttribute("patent count", c.PatentCount, " patents"),
		textAttribute("technologies", c.Technologies),
		textAttribute("certifications", c.Certifications),
	}
}

// MissingAttributes lists the names of unset scored attributes.
func (c Company) MissingAttributes() []string {
	var missing []string
	for _, attr := range c.ScoredAttributes() {
		if !attr.Set {
			missing = append(missing, attr.Name)
		}
	}
	return missing
}

func floatAttribute(name string, v *float64, unit string) ScoredAttribute {
	if v == nil {
		return ScoredAttribute{Name: name}
	}
	return ScoredAttribute{Name: name, Set: true, Value: strconv.FormatFloat(*v, 'f', -1, 64) + unit}
}

func intAttribute(name string, v *int, unit string) ScoredAttribute {
	if v == nil {
		return ScoredAttribute{Name: name}
	}
	return ScoredAttribute{Name: name, Set: true, Value: strconv.Itoa(*v) + unit}
}

func textAttribute(name, v string) ScoredAttribute {
	v = strings.TrimSpace(v)
	if v == "" {
		return ScoredAttribute{Name: name}
	}
	return ScoredAttribute{Name: name, Set: true, Value: v}
}

type ProjectRole string

const (
	ProjectRolePrimary     ProjectRole = "primary"
	ProjectRoleParticipant ProjectRole = "participant"
)

type ProjectOutcome string

const (
	ProjectOutcomeSuccess    ProjectOutcome = "success"
	ProjectOutcomeFailure    ProjectOutcome = "failure"
	ProjectOutcomeInProgress ProjectOutcome = "in_progress"
)

type Project struct {
	ID             string         `json:"id" yaml:"id"`
	CompanyID      string         `json:"company_id" yaml:"company_id"`
	Name           string         `json:"project_name" yaml:"project_name"`
	ManagingAgency string         `json:"managing_agency" yaml:"managing_agency"`
	Period         string         `json:"perform_period" yaml:"perform_period"`
	Role           ProjectRole    `json:"role" yaml:"role"`
	Outcome        ProjectOutcome `json:"result" yaml:"result"`
	Budget         *float64       `json:"budget,omitempty" yaml:"budget"`
	Summary        string         `json:"summary,omitempty" yaml:"summary"`
	Keywords       []string       `json:"keywords" yaml:"keywords"`
	CreatedAt      time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" yaml:"updated_at"`
}

// CompanyProfile is the read model served to clients: the company with its
// project history and most recent assessments.
type CompanyProfile struct {
	Company           *Company            `json:"company"`
	Projects          []Project           `json:"projects"`
	RecentAssessments []AssessmentSummary `json:"recent_assessments"`
}

func (p Project) Validate() error {
	const op = "validate project"
	switch {
	case strings.TrimSpace(p.Name) == "":
		return WrapError(ErrInvalidInput, op, errors.New("project name is required"))
	case strings.TrimSpace(p.ManagingAgency) == "":
		return WrapError(ErrInvalidInput, op, errors.New("managing agency is required"))
	case strings.TrimSpace(p.Period) == "":
		return WrapError(ErrInvalidInput, op, errors.New("perform period is required"))
	case p.Role != ProjectRolePrimary && p.Role != ProjectRoleParticipant:
		return WrapError(ErrInvalidInput, op, fmt.Errorf("unknown role %q", p.Role))
	}
	switch p.Outcome {
	case ProjectOutcomeSuccess, ProjectOutcomeFailure, ProjectOutcomeInProgress:
	default:
		return WrapError(ErrInvalidInput, op, fmt.Errorf("unknown result %q", p.Outcome))
	}
	if p.Budget != nil && *p.Budget < 0 {
		return WrapError(ErrInvalidInput, op, errors.New("budget must not be negative"))
	}
	return nil
}
