package dto

import (
	appexperience "github.com/gradguide/backend/internal/application/experience"
	"github.com/gradguide/backend/internal/domain/experience"
	"github.com/shopspring/decimal"
)

// IdempotencyKeyHeader lets a client retry a submission without duplicating it
const IdempotencyKeyHeader = "Idempotency-Key"

// SubmitExperienceRequest is the body of POST /api/experiences
type SubmitExperienceRequest struct {
	Company             string  `json:"company" binding:"required,max=255"`
	Role                string  `json:"role" binding:"required,max=255"`
	ExperienceType      *string `json:"experience_type" binding:"omitempty,max=100"`
	Theme               *string `json:"theme" binding:"omitempty,max=100"`
	ApplicationStages   *string `json:"application_stages"`
	InterviewExperience *string `json:"interview_experience"`
	AssessmentCentre    *string `json:"assessment_centre"`
	ProgramStructure    *string `json:"program_structure"`
	SalaryBenefits      *string `json:"salary_benefits"`
	CultureEnvironment  *string `json:"culture_environment"`
	HoursWorkload       *string `json:"hours_workload"`
	PracticeAreas       *string `json:"practice_areas"`
	GeneralExperience   *string `json:"general_experience"`
	ProTip              *string `json:"pro_tip"`
	Advice              *string `json:"advice"`
}

// ToInput converts the request for the experience service
func (r *SubmitExperienceRequest) ToInput(userID, idempotencyKey string) appexperience.SubmitInput {
	return appexperience.SubmitInput{
		UserID:         userID,
		Company:        r.Company,
		Role:           r.Role,
		ExperienceType: r.ExperienceType,
		Theme:          r.Theme,
		IdempotencyKey: idempotencyKey,
		Narrative: experience.Narrative{
			ApplicationStages:   r.ApplicationStages,
			InterviewExperience: r.InterviewExperience,
			AssessmentCentre:    r.AssessmentCentre,
			ProgramStructure:    r.ProgramStructure,
			SalaryBenefits:      r.SalaryBenefits,
			CultureEnvironment:  r.CultureEnvironment,
			HoursWorkload:       r.HoursWorkload,
			PracticeAreas:       r.PracticeAreas,
			GeneralExperience:   r.GeneralExperience,
			ProTip:              r.ProTip,
			Advice:              r.Advice,
		},
	}
}

// ExperienceQuery holds the optional filters of GET /api/experiences
type ExperienceQuery struct {
	Company string `form:"company" binding:"max=255"`
	Theme   string `form:"theme" binding:"max=100"`
	Search  string `form:"search" binding:"max=255"`
}

// ToFilter converts the query string into a submission filter
func (q *ExperienceQuery) ToFilter() experience.Filter {
	return experience.Filter{Company: q.Company, Theme: q.Theme, Search: q.Search}
}

// ExperienceIDRequest binds the {id} path parameter
type ExperienceIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// CompanyNameRequest binds the {name} path parameter
type CompanyNameRequest struct {
	Name string `uri:"name" binding:"required,max=255"`
}

// LawMatchRequest is the body of POST /api/law-match.
// WAM accepts a JSON number or numeric string.
type LawMatchRequest struct {
	University string           `json:"university" binding:"max=255"`
	WAM        *decimal.Decimal `json:"wam" swaggertype:"number"`
}
