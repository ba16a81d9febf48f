package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the signed-in user
type User struct {
	ID              string    `json:"id"`
	Email           *string   `json:"email"`
	FirstName       *string   `json:"first_name"`
	LastName        *string   `json:"last_name"`
	ProfileImageURL *string   `json:"profile_image_url"`
	DisplayName     string    `json:"display_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Application is a tracked job application. Dates are "2006-01-02".
type Application struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	Company         string    `json:"company"`
	Role            string    `json:"role"`
	ApplicationDate *string   `json:"application_date"`
	University      *string   `json:"university"`
	WAM             *string   `json:"wam"`
	Status          string    `json:"status"`
	ResponseDate    *string   `json:"response_date"`
	Priority        string    `json:"priority"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ApplicationInput creates an application; the server fills the owner
type ApplicationInput struct {
	Company         string  `json:"company"`
	Role            string  `json:"role"`
	ApplicationDate *string `json:"application_date,omitempty"`
	University      *string `json:"university,omitempty"`
	WAM             *string `json:"wam,omitempty"`
	Status          string  `json:"status,omitempty"`
	ResponseDate    *string `json:"response_date,omitempty"`
	Priority        string  `json:"priority,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// ApplicationPatch changes only the non-nil fields
type ApplicationPatch struct {
	Company         *string `json:"company,omitempty"`
	Role            *string `json:"role,omitempty"`
	ApplicationDate *string `json:"application_date,omitempty"`
	University      *string `json:"university,omitempty"`
	WAM             *string `json:"wam,omitempty"`
	Status          *string `json:"status,omitempty"`
	ResponseDate    *string `json:"response_date,omitempty"`
	Priority        *string `json:"priority,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// DeletedApplication is the server's answer to a delete
type DeletedApplication struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

// Narrative holds the free-text sections of an experience report
type Narrative struct {
	ApplicationStages   *string `json:"application_stages,omitempty"`
	InterviewExperience *string `json:"interview_experience,omitempty"`
	AssessmentCentre    *string `json:"assessment_centre,omitempty"`
	ProgramStructure    *string `json:"program_structure,omitempty"`
	SalaryBenefits      *string `json:"salary_benefits,omitempty"`
	CultureEnvironment  *string `json:"culture_environment,omitempty"`
	HoursWorkload       *string `json:"hours_workload,omitempty"`
	PracticeAreas       *string `json:"practice_areas,omitempty"`
	GeneralExperience   *string `json:"general_experience,omitempty"`
	ProTip              *string `json:"pro_tip,omitempty"`
	Advice              *string `json:"advice,omitempty"`
}

// Submission is a shared experience report
type Submission struct {
	ID             int64   `json:"id"`
	UserID         string  `json:"user_id"`
	Company        string  `json:"company"`
	Role           string  `json:"role"`
	ExperienceType *string `json:"experience_type"`
	Theme          *string `json:"theme"`
	Narrative
	CreatedAt time.Time `json:"created_at"`
}

// SubmissionInput is a new experience report
type SubmissionInput struct {
	Company        string  `json:"company"`
	Role           string  `json:"role"`
	ExperienceType *string `json:"experience_type,omitempty"`
	Theme          *string `json:"theme,omitempty"`
	Narrative
	// IdempotencyKey is sent as a header, never in the body
	IdempotencyKey string `json:"-"`
}

// ExperienceFilter narrows GetExperiences; empty fields are not sent
type ExperienceFilter struct {
	Company string
	Theme   string
	Search  string
}

// CompanySummary aggregates the reports about one company
type CompanySummary struct {
	Name             string   `json:"name"`
	TotalSubmissions int      `json:"total_submissions"`
	AvgSalary        *int64   `json:"avg_salary"`
	RecentRoles      []string `json:"recent_roles"`
}

// CompanyDetail is a company page; Company is nil when nobody reported on it
type CompanyDetail struct {
	Company     *CompanySummary `json:"company"`
	Experiences []Submission    `json:"experiences"`
}

// LawMatchQuery asks for firm rankings. A nil WAM means the server default.
type LawMatchQuery struct {
	University string           `json:"university"`
	WAM        *decimal.Decimal `json:"wam,omitempty"`
}

// LawMatchResult is one firm's score
type LawMatchResult struct {
	Firm          string `json:"firm"`
	Score         int64  `json:"score"`
	UniPercentage int    `json:"uni_percentage"`
	MatchLevel    string `json:"match_level"`
}

// LawMatchResponse lists every firm, best match first
type LawMatchResponse struct {
	Results []LawMatchResult `json:"results"`
}

// FirmUniversityData maps firm to university to intake share in percent
type FirmUniversityData map[string]map[string]int
