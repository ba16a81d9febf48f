// Package experience holds the publicly readable recruiting experience reports.
package experience

import (
	"strings"
	"time"

	"github.com/gradguide/backend/internal/domain/shared"
)

// Narrative holds the optional free-text sections of a report
type Narrative struct {
	ApplicationStages   *string
	InterviewExperience *string
	AssessmentCentre    *string
	ProgramStructure    *string
	SalaryBenefits      *string
	CultureEnvironment  *string
	HoursWorkload       *string
	PracticeAreas       *string
	GeneralExperience   *string
	ProTip              *string
	Advice              *string
}

// Submission is an experience report. It is immutable once created.
type Submission struct {
	ID             int64
	UserID         string
	Company        string
	Role           string
	ExperienceType *string
	Theme          *string
	Narrative
	CreatedAt time.Time
}

// NewSubmission builds a validated submission owned by userID
func NewSubmission(userID, company, role string) (*Submission, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Submission owner is required")
	}
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "company is required")
	}
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "role is required")
	}
	if len(company) > 255 || len(role) > 255 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "company and role cannot exceed 255 characters")
	}
	return &Submission{
		UserID:  userID,
		Company: company,
		Role:    role,
	}, nil
}

// Filter selects submissions. Empty fields do not constrain the result.
type Filter struct {
	// Company matches case-insensitively on the whole name
	Company string
	// Theme matches exactly
	Theme string
	// Search matches case-insensitively as a substring of company, role or general experience
	Search string
}

// IsEmpty reports whether the filter constrains nothing
func (f Filter) IsEmpty() bool {
	return f.Company == "" && f.Theme == "" && f.Search == ""
}

// Normalized returns the filter with surrounding whitespace removed
func (f Filter) Normalized() Filter {
	return Filter{
		Company: strings.TrimSpace(f.Company),
		Theme:   strings.TrimSpace(f.Theme),
		Search:  strings.TrimSpace(f.Search),
	}
}
